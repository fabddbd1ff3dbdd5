package handlers

import (
	"context"
	"strconv"

	"github.com/nimasrn/ledger-api/internal/model"
	xhttp "github.com/nimasrn/ledger-api/pkg/http"
)

type NotificationService interface {
	List(ctx context.Context, f model.NotificationFilter) (*model.NotificationPage, error)
}

type NotificationHandler struct {
	svc NotificationService
}

func RegisterNotificationRoutes(g *xhttp.Group, h *NotificationHandler, guard xhttp.MiddlewareFunc) {
	g.GET("/notifications", guard(h.List))
}

func NewNotificationHandler(svc NotificationService) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

func (h *NotificationHandler) List(ctx *xhttp.RequestCtx) {
	f := model.NotificationFilter{
		Status:     model.NotificationStatus(query(ctx, "status")),
		Pagination: pagination(ctx),
	}
	if v := query(ctx, "customerId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeServiceError(ctx, model.Validation("invalid customerId %q", v))
			return
		}
		f.CustomerID = &id
	}

	page, err := h.svc.List(ctx, f)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, page)
}
