package handlers

import (
	"context"

	"github.com/nimasrn/ledger-api/internal/model"
	xhttp "github.com/nimasrn/ledger-api/pkg/http"
)

type ProductService interface {
	Create(ctx context.Context, req model.ProductRequest) (*model.Product, error)
	Get(ctx context.Context, id int64) (*model.Product, error)
	Update(ctx context.Context, id int64, req model.ProductRequest) (*model.Product, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, search string) ([]*model.Product, error)
}

type ProductHandler struct {
	svc ProductService
}

func RegisterProductRoutes(g *xhttp.Group, h *ProductHandler, guard xhttp.MiddlewareFunc) {
	g.GET("/products", guard(h.List))
	g.POST("/products", guard(h.Create))
	g.GET("/products/{id}", guard(h.Get))
	g.PUT("/products/{id}", guard(h.Update))
	g.DELETE("/products/{id}", guard(h.Delete))
}

func NewProductHandler(svc ProductService) *ProductHandler {
	return &ProductHandler{svc: svc}
}

func (h *ProductHandler) List(ctx *xhttp.RequestCtx) {
	products, err := h.svc.List(ctx, query(ctx, "search"))
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, products)
}

func (h *ProductHandler) Create(ctx *xhttp.RequestCtx) {
	var req model.ProductRequest
	if err := readJSON(ctx, &req); err != nil {
		writeServiceError(ctx, err)
		return
	}
	p, err := h.svc.Create(ctx, req)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusCreated, p)
}

func (h *ProductHandler) Get(ctx *xhttp.RequestCtx) {
	id, err := pathID(ctx)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	p, err := h.svc.Get(ctx, id)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, p)
}

func (h *ProductHandler) Update(ctx *xhttp.RequestCtx) {
	id, err := pathID(ctx)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	var req model.ProductRequest
	if err := readJSON(ctx, &req); err != nil {
		writeServiceError(ctx, err)
		return
	}
	p, err := h.svc.Update(ctx, id, req)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, p)
}

func (h *ProductHandler) Delete(ctx *xhttp.RequestCtx) {
	id, err := pathID(ctx)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	if err := h.svc.Delete(ctx, id); err != nil {
		writeServiceError(ctx, err)
		return
	}
	ctx.SetStatusCode(xhttp.StatusNoContent)
}
