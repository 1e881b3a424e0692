package api

import (
	"context"
	"errors"
	"time"

	"github.com/labstack/echo/v4"

	"RiskLens/internal/domain/models"
	"RiskLens/internal/domain/service"
	"RiskLens/internal/service/metrics"
	xhttp "RiskLens/pkg/http"
	"RiskLens/pkg/http/middleware"
	xlogger "RiskLens/pkg/logger"
)

// SnapshotSource serves the current snapshot.
type SnapshotSource interface {
	Current(ctx context.Context, refresh bool) *models.AggregateSnapshot
}

// ScenarioApplier applies macro shocks.
type ScenarioApplier interface {
	Apply(ctx context.Context, req *models.ScenarioRequest) *models.AggregateSnapshot
}

// InsightsGenerator produces analyst text for the given impacts.
type InsightsGenerator interface {
	Generate(ctx context.Context, in models.InsightsInput) (string, error)
}

// InsightsResponse is the data of GET /api/insights.
type InsightsResponse struct {
	Insights string               `json:"insights"`
	Input    models.InsightsInput `json:"input"`
}

// SnapshotEchoHandler serves the dashboard API.
type SnapshotEchoHandler struct {
	logger   *xlogger.Logger
	current  SnapshotSource
	scenario ScenarioApplier
	insights InsightsGenerator
	entities []models.TrackedEntity
	hub      *Hub
	limiter  middleware.Allower
}

func NewSnapshotEchoHandler(
	logger *xlogger.Logger,
	current SnapshotSource,
	scenario ScenarioApplier,
	insights InsightsGenerator,
	entities []models.TrackedEntity,
	hub *Hub,
	limiter middleware.Allower,
) *SnapshotEchoHandler {
	metrics.Register()
	if logger == nil {
		logger = xlogger.Nop()
	}
	return &SnapshotEchoHandler{
		logger:   logger,
		current:  current,
		scenario: scenario,
		insights: insights,
		entities: entities,
		hub:      hub,
		limiter:  limiter,
	}
}

func (h *SnapshotEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)

	g := e.Group("/api")
	if h.limiter != nil {
		g.Use(middleware.RateLimit(h.limiter, xhttp.ClientKey))
	}
	g.GET("/snapshot", h.Snapshot)
	g.POST("/scenario", h.Scenario)
	g.GET("/insights", h.Insights)
	g.GET("/entities", h.Entities)

	if h.hub != nil {
		e.GET("/ws/snapshots", h.Subscribe)
	}
}

func (h *SnapshotEchoHandler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}

func (h *SnapshotEchoHandler) Snapshot(c echo.Context) error {
	defer observe("snapshot", time.Now())
	req := &models.SnapshotRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	snap := h.current.Current(c.Request().Context(), req.Refresh)
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=15")
	return xhttp.SuccessResponse(c, snap)
}

func (h *SnapshotEchoHandler) Scenario(c echo.Context) error {
	defer observe("scenario", time.Now())
	req := &models.ScenarioRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		metrics.APIErrors.WithLabelValues("scenario").Inc()
		return xhttp.BadRequestResponse(c, verr)
	}
	return xhttp.SuccessResponse(c, h.scenario.Apply(c.Request().Context(), req))
}

func (h *SnapshotEchoHandler) Insights(c echo.Context) error {
	defer observe("insights", time.Now())
	ctx := c.Request().Context()
	in := models.InsightsInputFrom(h.current.Current(ctx, false))

	text, err := h.insights.Generate(ctx, in)
	if err != nil {
		metrics.APIErrors.WithLabelValues("insights").Inc()
		msg := "insights unavailable"
		if errors.Is(err, service.ErrSummarizerDisabled) {
			msg = "insights are not configured"
		} else {
			h.logger.Warn("insights usecase error", xlogger.Error(err))
		}
		return xhttp.AppErrorResponse(c, xhttp.ServiceUnavailableError(msg).WithError(err))
	}
	return xhttp.SuccessResponse(c, InsightsResponse{Insights: text, Input: in})
}

func (h *SnapshotEchoHandler) Entities(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.entities)
}

// Subscribe upgrades to a websocket that receives the current snapshot
// followed by every refreshed one.
func (h *SnapshotEchoHandler) Subscribe(c echo.Context) error {
	if err := h.hub.Serve(c, h.current.Current(c.Request().Context(), false)); err != nil {
		h.logger.Warn("websocket upgrade failed", xlogger.Error(err))
		return nil
	}
	return nil
}

func observe(endpoint string, start time.Time) {
	metrics.APILatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
}
