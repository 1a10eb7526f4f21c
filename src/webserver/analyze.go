package webserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/stake-plus/commitaudit/src/audit"
)

// Analyzer runs one analysis.
type Analyzer interface {
	Analyze(ctx context.Context, req audit.Request) (audit.Result, error)
}

type Analyze struct {
	analyzer Analyzer
	log      *zap.Logger
}

func NewAnalyze(a Analyzer, log *zap.Logger) Analyze {
	return Analyze{analyzer: a, log: log}
}

// POST /analyze
func (h Analyze) Run(c *gin.Context) {
	var req audit.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}

	res, err := h.analyzer.Analyze(c.Request.Context(), req)
	if err != nil {
		var ae *audit.Error
		if errors.As(err, &ae) {
			c.JSON(ae.Status, gin.H{"detail": ae.Reason})
			return
		}
		h.log.Error("analysis failed", zap.String("request_id", c.GetString(requestIDKey)), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "internal error"})
		return
	}

	c.JSON(http.StatusOK, res)
}
