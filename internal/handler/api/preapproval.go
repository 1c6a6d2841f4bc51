package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"PreApprove/internal/domain/models"
	"PreApprove/internal/domain/service"
	"PreApprove/internal/usecase"
	"PreApprove/pkg/cache"
	httpkg "PreApprove/pkg/http"
	"PreApprove/pkg/logger"
)

// PreApprovalHandler serves the pre-approval API.
type PreApprovalHandler struct {
	orchestrator *usecase.Orchestrator
	store        cache.Store
	logger       *logger.Logger
	metrics      service.Metrics
}

func NewPreApprovalHandler(o *usecase.Orchestrator, store cache.Store, l *logger.Logger, m service.Metrics) *PreApprovalHandler {
	if m == nil {
		m = service.NopMetrics{}
	}
	return &PreApprovalHandler{orchestrator: o, store: store, logger: l, metrics: m}
}

// RegisterRoutes registers all pre-approval routes.
func (h *PreApprovalHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/preapproval", h.GetPreApproval)
	e.GET("/health", h.Health)
	e.GET("/cache-status", h.CacheStatus)
	e.POST("/cache/clear", h.ClearCache)
}

type preApprovalRequest struct {
	Username string `query:"username" validate:"required,min=1,max=64"`
	Months   int    `query:"months" default:"6" validate:"min=1,max=24"`
}

// GetPreApproval evaluates a customer and returns the decision document.
func (h *PreApprovalHandler) GetPreApproval(c echo.Context) error {
	var req preApprovalRequest
	if details := httpkg.ReadAndValidateRequest(c, &req); details != nil {
		h.metrics.RecordRequest("bad_request")
		return httpkg.BadRequestResponse(c, details)
	}

	start := time.Now()
	result, cached, err := h.orchestrator.Run(c.Request().Context(), req.Username, req.Months)
	if err != nil {
		return h.errorResponse(c, req.Username, err)
	}

	decision := usecase.Assemble(result, cached)
	h.metrics.RecordRequest("ok")
	h.logger.Info("preapproval served",
		logger.String("username", req.Username),
		logger.Bool("cached", cached),
		logger.Int("degraded_stages", len(decision.DegradedStages)),
		logger.Duration("elapsed", time.Since(start)))
	return httpkg.JSONResponse(c, http.StatusOK, decision)
}

func (h *PreApprovalHandler) errorResponse(c echo.Context, username string, err error) error {
	h.logger.Error("preapproval failed",
		logger.String("username", username),
		logger.Error(err))

	switch {
	case errors.Is(err, models.ErrUserNotFound):
		h.metrics.RecordRequest("not_found")
		return httpkg.AppErrorResponse(c, httpkg.NotFoundErrorf("user %s not found", username).WithError(err))
	case errors.Is(err, models.ErrPipelineAborted),
		errors.Is(err, models.ErrUpstreamUnavailable),
		errors.Is(err, models.ErrAgentTimeout),
		errors.Is(err, models.ErrAgentCircuitOpen):
		h.metrics.RecordRequest("bad_gateway")
		return httpkg.AppErrorResponse(c, httpkg.BadGatewayError("pre-approval evaluation unavailable").WithError(err))
	default:
		h.metrics.RecordRequest("error")
		return httpkg.AppErrorResponse(c, httpkg.InternalError("pre-approval evaluation failed").WithError(err))
	}
}

// Health reports service liveness.
func (h *PreApprovalHandler) Health(c echo.Context) error {
	return httpkg.JSONResponse(c, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "preapproval",
	})
}

type cacheStatusResponse struct {
	EntryCount       int   `json:"entry_count"`
	OldestAgeSeconds int64 `json:"oldest_age_seconds"`
}

// CacheStatus reports cache entry count and the age of the oldest entry.
func (h *PreApprovalHandler) CacheStatus(c echo.Context) error {
	status, err := h.store.Status(c.Request().Context())
	if err != nil {
		h.logger.Error("cache status failed", logger.Error(err))
		return httpkg.AppErrorResponse(c,
			httpkg.NewAppError("ERR_CACHE_UNAVAILABLE", "cache status unavailable", http.StatusServiceUnavailable).
				WithError(fmt.Errorf("%w: %v", models.ErrCacheUnavailable, err)))
	}
	return httpkg.JSONResponse(c, http.StatusOK, cacheStatusResponse{
		EntryCount:       status.EntryCount,
		OldestAgeSeconds: int64(status.OldestAge.Seconds()),
	})
}

// ClearCache removes every cached pipeline result.
func (h *PreApprovalHandler) ClearCache(c echo.Context) error {
	if err := h.store.DeleteAll(c.Request().Context()); err != nil {
		h.logger.Error("cache clear failed", logger.Error(err))
		return httpkg.AppErrorResponse(c,
			httpkg.NewAppError("ERR_CACHE_UNAVAILABLE", "cache clear failed", http.StatusServiceUnavailable).
				WithError(fmt.Errorf("%w: %v", models.ErrCacheUnavailable, err)))
	}
	h.logger.Info("cache cleared")
	return httpkg.JSONResponse(c, http.StatusOK, map[string]bool{"cleared": true})
}
