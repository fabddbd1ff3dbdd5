package handlers

import (
	"context"

	"github.com/nimasrn/ledger-api/internal/model"
	xhttp "github.com/nimasrn/ledger-api/pkg/http"
)

type LedgerService interface {
	Create(ctx context.Context, req model.TransactionCreateRequest) (*model.TransactionResult, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, f model.TransactionFilter) (*model.TransactionPage, error)
	Totals(ctx context.Context) (*model.TransactionTotals, error)
}

type TransactionHandler struct {
	svc LedgerService
}

func RegisterTransactionRoutes(g *xhttp.Group, h *TransactionHandler, guard xhttp.MiddlewareFunc) {
	g.GET("/transactions", guard(h.List))
	g.POST("/transactions", guard(h.Create))
	g.GET("/transactions/totals", guard(h.Totals))
	g.DELETE("/transactions/{id}", guard(h.Delete))
}

func NewTransactionHandler(svc LedgerService) *TransactionHandler {
	return &TransactionHandler{svc: svc}
}

func (h *TransactionHandler) Create(ctx *xhttp.RequestCtx) {
	var req model.TransactionCreateRequest
	if err := readJSON(ctx, &req); err != nil {
		writeServiceError(ctx, err)
		return
	}
	res, err := h.svc.Create(ctx, req)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusCreated, res)
}

func (h *TransactionHandler) List(ctx *xhttp.RequestCtx) {
	f := model.TransactionFilter{
		Search:     query(ctx, "search"),
		Type:       model.TransactionType(query(ctx, "type")),
		Pagination: pagination(ctx),
	}
	if v := query(ctx, "dateFrom"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			writeServiceError(ctx, model.Validation("invalid dateFrom %q", v))
			return
		}
		f.DateFrom = &t
	}
	if v := query(ctx, "dateTo"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			writeServiceError(ctx, model.Validation("invalid dateTo %q", v))
			return
		}
		f.DateTo = &t
	}

	page, err := h.svc.List(ctx, f)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, page)
}

func (h *TransactionHandler) Delete(ctx *xhttp.RequestCtx) {
	id, err := pathID(ctx)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	if err := h.svc.Delete(ctx, id); err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeMessage(ctx, xhttp.StatusOK, "Transaction deleted successfully")
}

func (h *TransactionHandler) Totals(ctx *xhttp.RequestCtx) {
	totals, err := h.svc.Totals(ctx)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, totals)
}
