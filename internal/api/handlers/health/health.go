package health

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recipe-bot/internal/pkg/common"
)

// readyTimeout bounds the dependency checks of /ready.
const readyTimeout = 3 * time.Second

// HealthResponse is the /health body.
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Profile   string                 `json:"profile"`
	Runtime   map[string]interface{} `json:"runtime"`
	Stats     map[string]interface{} `json:"stats,omitempty"`
}

// Check is one named readiness probe.
type Check struct {
	Name string
	Ping func(ctx context.Context) error
}

// Handler serves /health, /ready and /live.
type Handler struct {
	version string
	profile string
	checks  []Check
	stats   func() map[string]interface{}
}

// NewHandler builds the ops handler. stats may be nil.
func NewHandler(version, profile string, stats func() map[string]interface{}, checks ...Check) *Handler {
	return &Handler{version: version, profile: profile, checks: checks, stats: stats}
}

func (h *Handler) HealthCheck(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   h.version,
		Profile:   h.profile,
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
	}
	if h.stats != nil {
		response.Stats = h.stats()
	}

	c.JSON(http.StatusOK, response)
}

// ReadinessCheck runs every probe; any failure answers 503.
func (h *Handler) ReadinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readyTimeout)
	defer cancel()

	results := make(map[string]string, len(h.checks))
	ready := true
	for _, check := range h.checks {
		if err := check.Ping(ctx); err != nil {
			common.LogWarn("Readiness check failed", zap.String("check", check.Name), zap.Error(err))
			results[check.Name] = "unavailable"
			ready = false
			continue
		}
		results[check.Name] = "ok"
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "checks": results})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "checks": results})
}

func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
