package handlers

import (
	"context"

	"github.com/nimasrn/ledger-api/internal/model"
	xhttp "github.com/nimasrn/ledger-api/pkg/http"
)

type StatisticsService interface {
	Dashboard(ctx context.Context) (*model.DashboardStats, error)
}

type StatisticsHandler struct {
	svc StatisticsService
}

func RegisterStatisticsRoutes(g *xhttp.Group, h *StatisticsHandler, guard xhttp.MiddlewareFunc) {
	g.GET("/statistics/dashboard", guard(h.Dashboard))
}

func NewStatisticsHandler(svc StatisticsService) *StatisticsHandler {
	return &StatisticsHandler{svc: svc}
}

type dashboardResponse struct {
	Success bool                  `json:"success"`
	Data    *model.DashboardStats `json:"data"`
}

func (h *StatisticsHandler) Dashboard(ctx *xhttp.RequestCtx) {
	stats, err := h.svc.Dashboard(ctx)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, dashboardResponse{Success: true, Data: stats})
}
