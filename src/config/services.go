package config

import (
	"time"

	"github.com/stake-plus/commitaudit/src/bitbucket"
	"github.com/stake-plus/commitaudit/src/evidence"
)

// Service holds the HTTP service configuration.
type Service struct {
	Port         string
	BitbucketURL string
	HTTPTimeout  time.Duration
	MaxPages     int
	CORSOrigins  []string

	RedisURL     string
	DiffCacheTTL time.Duration

	LogLevel  string
	LogFormat string

	AI AI
}

// Load resolves the service configuration through l.
func Load(l *Loader) Service {
	return Service{
		Port:         l.GetSetting("port", "PORT", "8000"),
		BitbucketURL: l.GetSetting("bitbucket_api_url", "BITBUCKET_API_URL", bitbucket.DefaultBaseURL),
		HTTPTimeout:  l.getDuration("http_timeout", "HTTP_TIMEOUT", 30*time.Second),
		MaxPages:     l.getInt("max_pages", "MAX_PAGES", evidence.DefaultMaxPages),
		CORSOrigins:  l.getList("cors_origins", "CORS_ORIGINS", []string{"*"}),
		RedisURL:     l.GetSetting("redis_url", "REDIS_URL", ""),
		DiffCacheTTL: l.getDuration("diff_cache_ttl", "DIFF_CACHE_TTL", 24*time.Hour),
		LogLevel:     l.GetSetting("log_level", "LOG_LEVEL", "info"),
		LogFormat:    l.GetSetting("log_format", "LOG_FORMAT", "json"),
		AI:           LoadAI(l),
	}
}
