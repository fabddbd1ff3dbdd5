package handlers

import (
	"context"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/nimasrn/ledger-api/internal/auth"
	"github.com/nimasrn/ledger-api/internal/model"
	xhttp "github.com/nimasrn/ledger-api/pkg/http"
)

type AuthService interface {
	Authenticator
	SessionTTL() time.Duration
	Login(ctx context.Context, req model.LoginRequest) (string, *model.Admin, error)
	ChangePassword(ctx context.Context, admin *model.Admin, req model.ChangePasswordRequest) error
	ForgotPassword(ctx context.Context, req model.ForgotPasswordRequest) error
	ResetPassword(ctx context.Context, req model.ResetPasswordRequest) error
}

type AdminHandler struct {
	svc          AuthService
	secureCookie bool
}

func RegisterAdminRoutes(g *xhttp.Group, h *AdminHandler, guard xhttp.MiddlewareFunc) {
	g.POST("/admin/login", h.Login)
	g.POST("/admin/forgot-password", h.ForgotPassword)
	g.POST("/admin/reset-password", h.ResetPassword)
	g.POST("/admin/change-password", guard(h.ChangePassword))
	g.POST("/admin/logout", guard(h.Logout))
	g.GET("/admin/auth", guard(h.Auth))
}

// NewAdminHandler builds the admin endpoints. secureCookie marks the session
// cookie Secure and SameSite=None, which browsers only accept over https.
func NewAdminHandler(svc AuthService, secureCookie bool) *AdminHandler {
	return &AdminHandler{svc: svc, secureCookie: secureCookie}
}

type loginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

type authResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Admin   *model.Admin `json:"admin"`
}

func (h *AdminHandler) cookieOption(maxAge time.Duration) xhttp.CookieOption {
	opt := xhttp.CookieOption{MaxAge: maxAge, Secure: h.secureCookie, SameSite: fasthttp.CookieSameSiteLaxMode}
	if h.secureCookie {
		opt.SameSite = fasthttp.CookieSameSiteNoneMode
	}
	return opt
}

func (h *AdminHandler) Login(ctx *xhttp.RequestCtx) {
	var req model.LoginRequest
	if err := readJSON(ctx, &req); err != nil {
		writeServiceError(ctx, err)
		return
	}
	token, _, err := h.svc.Login(ctx, req)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	xhttp.SetCookie(ctx, TokenCookie, token, h.cookieOption(h.svc.SessionTTL()))
	writeJSON(ctx, xhttp.StatusOK, loginResponse{Message: "Login successful", Token: token})
}

func (h *AdminHandler) ChangePassword(ctx *xhttp.RequestCtx) {
	admin, ok := currentAdmin(ctx)
	if !ok {
		writeServiceError(ctx, auth.ErrNoToken)
		return
	}
	var req model.ChangePasswordRequest
	if err := readJSON(ctx, &req); err != nil {
		writeServiceError(ctx, err)
		return
	}
	if err := h.svc.ChangePassword(ctx, admin, req); err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeMessage(ctx, xhttp.StatusOK, "Password changed successfully")
}

func (h *AdminHandler) ForgotPassword(ctx *xhttp.RequestCtx) {
	var req model.ForgotPasswordRequest
	if err := readJSON(ctx, &req); err != nil {
		writeServiceError(ctx, err)
		return
	}
	if err := h.svc.ForgotPassword(ctx, req); err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeMessage(ctx, xhttp.StatusOK, "Reset Email sent.")
}

func (h *AdminHandler) ResetPassword(ctx *xhttp.RequestCtx) {
	var req model.ResetPasswordRequest
	if err := readJSON(ctx, &req); err != nil {
		writeServiceError(ctx, err)
		return
	}
	if err := h.svc.ResetPassword(ctx, req); err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeMessage(ctx, xhttp.StatusOK, "Password reset successfully")
}

func (h *AdminHandler) Logout(ctx *xhttp.RequestCtx) {
	xhttp.ClearCookie(ctx, TokenCookie, h.cookieOption(0))
	writeMessage(ctx, xhttp.StatusOK, "Logout successful")
}

func (h *AdminHandler) Auth(ctx *xhttp.RequestCtx) {
	admin, ok := currentAdmin(ctx)
	if !ok {
		writeServiceError(ctx, auth.ErrNoToken)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, authResponse{Success: true, Message: "Verification successful", Admin: admin})
}
