package handlers

import (
	"context"

	"github.com/nimasrn/ledger-api/internal/model"
	xhttp "github.com/nimasrn/ledger-api/pkg/http"
)

type TemplateService interface {
	List(ctx context.Context) ([]*model.Template, error)
	Get(ctx context.Context, id int64) (*model.Template, error)
	Update(ctx context.Context, id int64, req model.TemplateUpdateRequest) (*model.Template, error)
}

type TemplateHandler struct {
	svc TemplateService
}

func RegisterTemplateRoutes(g *xhttp.Group, h *TemplateHandler, guard xhttp.MiddlewareFunc) {
	g.GET("/templates", guard(h.List))
	g.GET("/templates/{id}", guard(h.Get))
	g.PUT("/templates/{id}", guard(h.Update))
}

func NewTemplateHandler(svc TemplateService) *TemplateHandler {
	return &TemplateHandler{svc: svc}
}

func (h *TemplateHandler) List(ctx *xhttp.RequestCtx) {
	templates, err := h.svc.List(ctx)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, templates)
}

func (h *TemplateHandler) Get(ctx *xhttp.RequestCtx) {
	id, err := pathID(ctx)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	tmpl, err := h.svc.Get(ctx, id)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, tmpl)
}

func (h *TemplateHandler) Update(ctx *xhttp.RequestCtx) {
	id, err := pathID(ctx)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	var req model.TemplateUpdateRequest
	if err := readJSON(ctx, &req); err != nil {
		writeServiceError(ctx, err)
		return
	}
	tmpl, err := h.svc.Update(ctx, id, req)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, tmpl)
}
