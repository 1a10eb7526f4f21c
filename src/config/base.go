package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Loader resolves settings from, in order: the settings table, the
// environment, the YAML config file, then the caller's default.
type Loader struct {
	db     map[string]string
	file   map[string]string
	getenv func(string) string
}

func NewLoader() *Loader {
	return &Loader{getenv: os.Getenv}
}

// WithSettings layers rows from the settings table over everything else.
func (l *Loader) WithSettings(settings map[string]string) *Loader {
	l.db = settings
	return l
}

// WithEnv replaces the environment lookup.
func (l *Loader) WithEnv(getenv func(string) string) *Loader {
	l.getenv = getenv
	return l
}

// ReadFile loads a flat YAML map of setting names to values.
func (l *Loader) ReadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	var doc map[string]interface{}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	l.file = make(map[string]string, len(doc))
	for k, v := range doc {
		if v == nil {
			continue
		}
		l.file[k] = fmt.Sprint(v)
	}
	return nil
}

// GetSetting retrieves a setting with env fallback
func (l *Loader) GetSetting(name, envKey, defaultValue string) string {
	val := strings.TrimSpace(l.db[name])
	if val == "" && envKey != "" && l.getenv != nil {
		val = strings.TrimSpace(l.getenv(envKey))
	}
	if val == "" {
		val = strings.TrimSpace(l.file[name])
	}
	if val == "" {
		val = defaultValue
	}
	return val
}

func (l *Loader) getInt(name, envKey string, def int) int {
	if v, err := strconv.Atoi(l.GetSetting(name, envKey, "")); err == nil {
		return v
	}
	return def
}

func (l *Loader) getFloat(name, envKey string, def float64) float64 {
	if v, err := strconv.ParseFloat(l.GetSetting(name, envKey, ""), 64); err == nil {
		return v
	}
	return def
}

// getDuration accepts Go durations ("30s") or a bare number of seconds.
func (l *Loader) getDuration(name, envKey string, def time.Duration) time.Duration {
	raw := l.GetSetting(name, envKey, "")
	if raw == "" {
		return def
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second
	}
	return def
}

func (l *Loader) getList(name, envKey string, def []string) []string {
	raw := l.GetSetting(name, envKey, "")
	if raw == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
