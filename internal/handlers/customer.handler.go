package handlers

import (
	"context"

	"github.com/nimasrn/ledger-api/internal/model"
	xhttp "github.com/nimasrn/ledger-api/pkg/http"
)

type CustomerService interface {
	Create(ctx context.Context, req model.CustomerRequest) (*model.Customer, error)
	Get(ctx context.Context, id int64) (*model.Customer, error)
	Update(ctx context.Context, id int64, req model.CustomerRequest) (*model.Customer, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, f model.CustomerFilter) (*model.CustomerPage, error)
	Report(ctx context.Context, id int64, p model.Pagination) (*model.CustomerReport, error)
	SendSMS(ctx context.Context, id int64, req model.CustomerSMSRequest) (*model.Notification, error)
}

type CustomerHandler struct {
	svc CustomerService
}

func RegisterCustomerRoutes(g *xhttp.Group, h *CustomerHandler, guard xhttp.MiddlewareFunc) {
	g.GET("/customers", guard(h.List))
	g.POST("/customers", guard(h.Create))
	g.GET("/customers/{id}", guard(h.Get))
	g.PUT("/customers/{id}", guard(h.Update))
	g.DELETE("/customers/{id}", guard(h.Delete))
	g.POST("/customers/{id}/sms", guard(h.SendSMS))
	g.GET("/customers/{id}/report", h.Report)
}

func NewCustomerHandler(svc CustomerService) *CustomerHandler {
	return &CustomerHandler{svc: svc}
}

type smsResponse struct {
	Message      string              `json:"message"`
	Notification *model.Notification `json:"notification"`
}

func (h *CustomerHandler) List(ctx *xhttp.RequestCtx) {
	page, err := h.svc.List(ctx, model.CustomerFilter{
		Search:     query(ctx, "search"),
		Pagination: pagination(ctx),
	})
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, page)
}

func (h *CustomerHandler) Create(ctx *xhttp.RequestCtx) {
	var req model.CustomerRequest
	if err := readJSON(ctx, &req); err != nil {
		writeServiceError(ctx, err)
		return
	}
	c, err := h.svc.Create(ctx, req)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusCreated, c)
}

func (h *CustomerHandler) Get(ctx *xhttp.RequestCtx) {
	id, err := pathID(ctx)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	c, err := h.svc.Get(ctx, id)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, c)
}

func (h *CustomerHandler) Update(ctx *xhttp.RequestCtx) {
	id, err := pathID(ctx)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	var req model.CustomerRequest
	if err := readJSON(ctx, &req); err != nil {
		writeServiceError(ctx, err)
		return
	}
	c, err := h.svc.Update(ctx, id, req)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, c)
}

func (h *CustomerHandler) Delete(ctx *xhttp.RequestCtx) {
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

func (h *CustomerHandler) Report(ctx *xhttp.RequestCtx) {
	id, err := pathID(ctx)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	report, err := h.svc.Report(ctx, id, pagination(ctx))
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, report)
}

func (h *CustomerHandler) SendSMS(ctx *xhttp.RequestCtx) {
	id, err := pathID(ctx)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	var req model.CustomerSMSRequest
	if err := readJSON(ctx, &req); err != nil {
		writeServiceError(ctx, err)
		return
	}
	n, err := h.svc.SendSMS(ctx, id, req)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, smsResponse{Message: "SMS sent successfully", Notification: n})
}
