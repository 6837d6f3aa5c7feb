package api

import (
	"net/http"

	"gutenlens/internal/config"
	"gutenlens/internal/llm"

	"github.com/gin-gonic/gin"
)

// MetricsSource exposes queue statistics for the metrics endpoint.
type MetricsSource interface {
	GetMetrics() llm.Metrics
}

// GET /health
func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// GET /metrics
func metricsHandler(queue MetricsSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		m := queue.GetMetrics()
		c.JSON(http.StatusOK, gin.H{
			"queue": gin.H{
				"critical": gin.H{
					"enqueued":  m.CriticalEnqueued,
					"processed": m.CriticalProcessed,
					"dropped":   m.CriticalDropped,
					"depth":     m.CurrentQueueDepth[llm.PriorityCritical],
				},
				"background": gin.H{
					"enqueued":  m.BackgroundEnqueued,
					"processed": m.BackgroundProcessed,
					"dropped":   m.BackgroundDropped,
					"depth":     m.CurrentQueueDepth[llm.PriorityBackground],
				},
			},
		})
	}
}

// GET /config
func configHandler(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Only return non-sensitive config fields
		c.JSON(http.StatusOK, gin.H{
			"server": gin.H{
				"host":    cfg.Server.Host,
				"port":    cfg.Server.Port,
				"subpath": cfg.Server.Subpath,
			},
			"llm": gin.H{
				"model": cfg.LLM.Model,
			},
			"analyzer": gin.H{
				"sample_limit": cfg.Analyzer.SampleLimit,
			},
		})
	}
}
