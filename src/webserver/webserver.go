package webserver

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/stake-plus/commitaudit/src/logging"
)

// Options configures the router.
type Options struct {
	CORSOrigins []string
	Logger      *zap.Logger
}

func New(analyzer Analyzer, opts Options) *gin.Engine {
	g := gin.New()
	g.Use(gin.Recovery(), RequestID(), accessLog(logging.OrNop(opts.Logger)))
	attachRoutes(g, analyzer, opts)
	return g
}
