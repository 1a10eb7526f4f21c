package main

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/stake-plus/commitaudit/src/ai/core"
	"github.com/stake-plus/commitaudit/src/audit"
	"github.com/stake-plus/commitaudit/src/bitbucket"
	"github.com/stake-plus/commitaudit/src/config"
	"github.com/stake-plus/commitaudit/src/data"
	"github.com/stake-plus/commitaudit/src/evidence"
	"github.com/stake-plus/commitaudit/src/verdict"
)

// buildService wires the judge, the Bitbucket client and the optional diff
// cache into an audit.Service. The returned cleanup releases the cache.
func buildService(c config.Service, log *zap.Logger) (*audit.Service, func(), error) {
	judge, err := core.NewClient(c.AI.FactoryConfig())
	if err != nil {
		return nil, nil, fmt.Errorf("judge: %w", err)
	}

	cleanup := func() {}
	opts := []evidence.Option{
		evidence.WithLogger(log.Named("evidence")),
		evidence.WithMaxPages(c.MaxPages),
	}
	if c.RedisURL != "" {
		rdb, err := data.ConnectRedis(c.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		cleanup = func() { _ = rdb.Close() }
		opts = append(opts, evidence.WithDiffCache(data.NewDiffCache(rdb, c.DiffCacheTTL, log.Named("diffcache"))))
	}

	collector := evidence.NewCollector(bitbucket.NewClient(c.BitbucketURL, c.HTTPTimeout), opts...)
	extractor := verdict.NewExtractor(judge,
		verdict.WithLogger(log.Named("verdict")),
		verdict.WithOptions(core.Options{
			Model:               c.AI.Model,
			Temperature:         c.AI.Temperature,
			MaxCompletionTokens: c.AI.MaxCompletionTokens,
			SystemPrompt:        c.AI.SystemPrompt,
		}),
	)

	log.Info("service ready",
		zap.String("provider", c.AI.Provider),
		zap.String("model", c.AI.Model),
		zap.Bool("diff_cache", c.RedisURL != ""))
	return audit.NewService(collector, extractor, log.Named("audit")), cleanup, nil
}
