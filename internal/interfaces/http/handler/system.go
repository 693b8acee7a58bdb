package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/adboard/backend/internal/infrastructure/cache"
	"github.com/adboard/backend/internal/infrastructure/strategy"
	"github.com/adboard/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// Pinger checks a dependency is reachable
type Pinger interface {
	PingContext(ctx context.Context) error
}

// CacheStatsProvider reports the pricing table cache state
type CacheStatsProvider interface {
	Stats() cache.CacheStats
}

// StrategyDescriber lists the registered pricing tiers and allocation strategies
type StrategyDescriber interface {
	Describe() []strategy.StrategyInfo
}

// SystemHandler handles system-related API endpoints
type SystemHandler struct {
	BaseHandler
	name       string
	version    string
	startTime  time.Time
	db         Pinger
	cache      CacheStatsProvider
	strategies StrategyDescriber
}

// SystemHandlerOption configures a SystemHandler
type SystemHandlerOption func(*SystemHandler)

// WithVersion sets the reported service name and version
func WithVersion(name, version string) SystemHandlerOption {
	return func(h *SystemHandler) {
		h.name = name
		h.version = version
	}
}

// WithDatabase enables the database check of the health endpoint
func WithDatabase(db Pinger) SystemHandlerOption {
	return func(h *SystemHandler) {
		h.db = db
	}
}

// WithCacheStats adds pricing cache stats to the health endpoint
func WithCacheStats(c CacheStatsProvider) SystemHandlerOption {
	return func(h *SystemHandler) {
		h.cache = c
	}
}

// WithStrategies exposes the strategy registry
func WithStrategies(s StrategyDescriber) SystemHandlerOption {
	return func(h *SystemHandler) {
		h.strategies = s
	}
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(opts ...SystemHandlerOption) *SystemHandler {
	h := &SystemHandler{
		name:      "adboard-billing",
		version:   "dev",
		startTime: time.Now(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// SystemInfoResponse represents the system information response
type SystemInfoResponse struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
}

// PingResponse represents the ping response
type PingResponse struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// HealthResponse reports the state of each dependency
type HealthResponse struct {
	Status       string            `json:"status"`
	Database     string            `json:"database,omitempty"`
	PricingCache *cache.CacheStats `json:"pricing_cache,omitempty"`
}

// GetSystemInfo returns the service name, version and uptime.
// GET /system/info
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	h.Success(c, SystemInfoResponse{
		Name:      h.name,
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	})
}

// Ping answers pong.
// GET /system/ping
func (h *SystemHandler) Ping(c *gin.Context) {
	h.Success(c, PingResponse{
		Message:   "pong",
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// Health checks the database and reports the pricing cache state.
// GET /health
func (h *SystemHandler) Health(c *gin.Context) {
	resp := HealthResponse{Status: "ok"}
	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			resp.Status = "degraded"
			resp.Database = "unreachable"
			body := dto.NewErrorResponseWithRequestID(dto.ErrCodeServiceUnavailable, "Database is unreachable", getRequestID(c))
			body.Data = resp
			c.JSON(http.StatusServiceUnavailable, body)
			return
		}
		resp.Database = "ok"
	}
	if h.cache != nil {
		stats := h.cache.Stats()
		resp.PricingCache = &stats
	}
	h.Success(c, resp)
}

// ListStrategies lists pricing tiers in resolution order and the allocation strategies.
// GET /system/strategies
func (h *SystemHandler) ListStrategies(c *gin.Context) {
	if h.strategies == nil {
		h.Success(c, []strategy.StrategyInfo{})
		return
	}
	h.Success(c, h.strategies.Describe())
}
