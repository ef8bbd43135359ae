package api

import (
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	models "SenateInsight/internal/domain/models"
	domrepo "SenateInsight/internal/domain/repository"
	mid "SenateInsight/internal/middleware"
	"SenateInsight/internal/usecase"
	xhttp "SenateInsight/pkg/http"
	xlogger "SenateInsight/pkg/logger"
	"SenateInsight/pkg/queue"
)

// AlertsEchoHandler exposes analysis runs, stored alerts and reports.
type AlertsEchoHandler struct {
	logger   *xlogger.Logger
	orch     *usecase.Orchestrator
	store    domrepo.AlertStore
	reporter *usecase.Reporter
	pipe     *mid.AlertPipeline
	jobs     queue.QueueService
	upgrader websocket.Upgrader
}

func NewAlertsEchoHandler(
	logger *xlogger.Logger,
	orch *usecase.Orchestrator,
	store domrepo.AlertStore,
	reporter *usecase.Reporter,
	pipe *mid.AlertPipeline,
	jobs queue.QueueService,
) *AlertsEchoHandler {
	return &AlertsEchoHandler{
		logger:   logger,
		orch:     orch,
		store:    store,
		reporter: reporter,
		pipe:     pipe,
		jobs:     jobs,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
	}
}

func (h *AlertsEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.POST("/analyze", h.Analyze)
	g.GET("/alerts", h.Alerts)
	g.GET("/report", h.Report)
	g.GET("/alerts/stream", h.Stream)
	e.GET("/healthz", h.Health)
}

// Health reports backend liveness.
func (h *AlertsEchoHandler) Health(c echo.Context) error {
	if err := h.store.Health(c.Request().Context()); err != nil {
		return xhttp.AppErrorResponse(c, xhttp.InternalErrorf("backend unhealthy: %v", err))
	}
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}

// Analyze runs (or enqueues) an analysis for one member.
func (h *AlertsEchoHandler) Analyze(c echo.Context) error {
	req := &models.AnalyzeRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	ctx := c.Request().Context()
	if req.Async && h.jobs != nil {
		err := h.jobs.PublishMessage(ctx, usecase.AnalyzeMemberMsgType, usecase.AnalyzeMemberPayload{
			MemberID: req.MemberID,
			Days:     req.Days,
		})
		if err != nil {
			h.logger.Error("enqueue analyze error", xlogger.Error(err))
			return xhttp.AppErrorResponse(c, err)
		}
		return xhttp.SuccessResponse(c, map[string]interface{}{
			"member_id": req.MemberID,
			"queued":    true,
		})
	}

	alerts, err := h.orch.AnalyzeMemberByID(ctx, req.MemberID, req.Days)
	if err != nil {
		h.logger.Error("analyze usecase error",
			xlogger.String("member_id", req.MemberID),
			xlogger.Error(err),
		)
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"member_id": req.MemberID,
		"alerts":    alerts,
	})
}

// Alerts queries stored alerts, paginated, most suspicious first.
func (h *AlertsEchoHandler) Alerts(c echo.Context) error {
	req := &models.AlertsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	since, _ := xhttp.ParseTime(req.Since)
	alerts, err := h.store.Query(c.Request().Context(), domrepo.AlertQuery{
		MemberID:      req.MemberID,
		MinConfidence: req.MinConfidence,
		Since:         since,
		Limit:         req.Limit,
		Offset:        req.Offset,
	})
	if err != nil {
		h.logger.Error("alerts query error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.ListResponse(c, alerts, int64(len(alerts)))
}

// Report builds a confidence-band summary for the recent window.
func (h *AlertsEchoHandler) Report(c echo.Context) error {
	req := &models.ReportRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	since := time.Now().UTC().AddDate(0, 0, -req.Days)
	rep, err := h.reporter.Generate(c.Request().Context(), since, 0)
	if err != nil {
		h.logger.Error("report usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, rep)
}

// Stream pushes newly generated alerts over a websocket until the client
// disconnects.
func (h *AlertsEchoHandler) Stream(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	alerts, cancel := h.pipe.Subscribe()
	defer cancel()

	// drain client frames so pings and close messages are handled
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	for a := range alerts {
		if err := conn.WriteJSON(a); err != nil {
			return nil
		}
	}
	return nil
}
