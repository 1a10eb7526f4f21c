package evidence

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/stake-plus/commitaudit/src/bitbucket"
	"github.com/stake-plus/commitaudit/src/logging"
)

// DefaultMaxPages bounds pagination against an upstream that never omits next.
const DefaultMaxPages = 1000

// Source is the commit history the collector reads.
type Source interface {
	CommitsURL(repo bitbucket.Repo) string
	FetchPage(ctx context.Context, pageURL, token string) (int, bitbucket.CommitPage, error)
	FetchDiff(ctx context.Context, repo bitbucket.Repo, hash string) (int, string, error)
}

// DiffCache stores diffs by key. Implementations may drop entries at will.
type DiffCache interface {
	Get(ctx context.Context, key string) (string, bool)
	Put(ctx context.Context, key, diff string)
}

// Collector walks commit history and builds evidence for tagged commits.
// A Collector holds no per-request state and may be shared.
type Collector struct {
	source   Source
	cache    DiffCache
	maxPages int
	log      *zap.Logger
}

type Option func(*Collector)

func WithDiffCache(c DiffCache) Option { return func(col *Collector) { col.cache = c } }

func WithLogger(l *zap.Logger) Option { return func(col *Collector) { col.log = logging.OrNop(l) } }

// WithMaxPages sets the page ceiling; n <= 0 keeps DefaultMaxPages.
func WithMaxPages(n int) Option {
	return func(col *Collector) {
		if n > 0 {
			col.maxPages = n
		}
	}
}

func NewCollector(src Source, opts ...Option) *Collector {
	c := &Collector{source: src, maxPages: DefaultMaxPages, log: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Collect reads every page of repo's history and returns evidence for each
// commit whose tag block names one of the requested ids.
func (c *Collector) Collect(ctx context.Context, criteria Criteria, repo bitbucket.Repo) Result {
	log := c.log.With(zap.String("workspace", repo.Workspace), zap.String("repo", repo.Slug))

	var (
		records []Record
		pages   int
		next    = c.source.CommitsURL(repo)
	)

	for next != "" {
		if pages >= c.maxPages {
			log.Warn("page ceiling reached, stopping pagination", zap.Int("pages", pages))
			break
		}

		status, page, err := c.source.FetchPage(ctx, next, repo.Token)
		pages++

		if pages == 1 {
			if err != nil || !bitbucket.OK(status) {
				if status == 0 || bitbucket.OK(status) {
					status = http.StatusBadGateway
				}
				log.Warn("failed to connect to bitbucket", zap.Int("status", status), zap.Error(err))
				return Result{Status: status, Pages: pages, Upstream: true}
			}
			log.Info("connection to bitbucket made")
		} else if err != nil || !bitbucket.OK(status) {
			log.Warn("page fetch failed, keeping evidence gathered so far",
				zap.Int("page", pages), zap.Int("status", status), zap.Error(err))
			break
		}

		for _, commit := range page.Values {
			if rec, ok := c.evidenceFor(ctx, criteria, repo, commit, log); ok {
				records = append(records, rec)
			}
		}

		next = page.Next
		if next != "" {
			log.Debug("following next page", zap.Int("page", pages+1))
		}
	}

	if len(records) == 0 {
		return Result{Status: http.StatusNotFound, Pages: pages}
	}
	return Result{Status: http.StatusOK, Records: records, Pages: pages}
}

func (c *Collector) evidenceFor(ctx context.Context, criteria Criteria, repo bitbucket.Repo, commit bitbucket.Commit, log *zap.Logger) (Record, bool) {
	message := strings.TrimSpace(commit.Message)
	matched := criteria.Match(message)
	if len(matched) == 0 {
		return Record{}, false
	}
	log.Info("matched commit", zap.String("hash", commit.Hash), zap.Strings("ids", matched))

	name, email := SplitAuthor(commit.Author.Raw)
	return Record{
		Hash:           commit.Hash,
		Message:        message,
		AuthorUsername: name,
		AuthorEmail:    email,
		FunctionID:     strings.Join(matched, ", "),
		CodeDiff:       c.diff(ctx, repo, commit.Hash, log),
	}, true
}

// diff returns nil when the diff cannot be fetched.
func (c *Collector) diff(ctx context.Context, repo bitbucket.Repo, hash string, log *zap.Logger) *string {
	key := repo.Workspace + "/" + repo.Slug + "/" + hash
	if c.cache != nil {
		if d, ok := c.cache.Get(ctx, key); ok {
			return &d
		}
	}

	status, body, err := c.source.FetchDiff(ctx, repo, hash)
	if err != nil || !bitbucket.OK(status) {
		log.Warn("diff unavailable", zap.String("hash", hash), zap.Int("status", status), zap.Error(err))
		return nil
	}

	if c.cache != nil {
		c.cache.Put(ctx, key, body)
	}
	return &body
}
