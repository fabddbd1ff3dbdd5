package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/nimasrn/ledger-api/internal/auth"
	gateway "github.com/nimasrn/ledger-api/internal/gateways"
	"github.com/nimasrn/ledger-api/internal/model"
	"github.com/nimasrn/ledger-api/internal/queue"
	xhttp "github.com/nimasrn/ledger-api/pkg/http"
)

// setupTestContext builds a request context through Init so it is usable
// as a context.Context.
func setupTestContext(method, path string, body []byte) *xhttp.RequestCtx {
	var req fasthttp.Request
	req.Header.SetMethod(method)
	req.SetRequestURI(path)
	if body != nil {
		req.SetBody(body)
	}
	ctx := &fasthttp.RequestCtx{}
	ctx.Init(&req, nil, nil)
	return ctx
}

func decodeError(t *testing.T, ctx *xhttp.RequestCtx) errorResponse {
	t.Helper()
	var resp errorResponse
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
	return resp
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Authenticate(ctx context.Context, token string) (*model.Admin, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Admin), args.Error(1)
}

func (m *MockAuthService) SessionTTL() time.Duration {
	return time.Hour
}

func (m *MockAuthService) Login(ctx context.Context, req model.LoginRequest) (string, *model.Admin, error) {
	args := m.Called(ctx, req)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*model.Admin), args.Error(2)
}

func (m *MockAuthService) ChangePassword(ctx context.Context, admin *model.Admin, req model.ChangePasswordRequest) error {
	return m.Called(ctx, admin, req).Error(0)
}

func (m *MockAuthService) ForgotPassword(ctx context.Context, req model.ForgotPasswordRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *MockAuthService) ResetPassword(ctx context.Context, req model.ResetPasswordRequest) error {
	return m.Called(ctx, req).Error(0)
}

type MockCustomerService struct {
	mock.Mock
}

func (m *MockCustomerService) Create(ctx context.Context, req model.CustomerRequest) (*model.Customer, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Customer), args.Error(1)
}

func (m *MockCustomerService) Get(ctx context.Context, id int64) (*model.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Customer), args.Error(1)
}

func (m *MockCustomerService) Update(ctx context.Context, id int64, req model.CustomerRequest) (*model.Customer, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Customer), args.Error(1)
}

func (m *MockCustomerService) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCustomerService) List(ctx context.Context, f model.CustomerFilter) (*model.CustomerPage, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CustomerPage), args.Error(1)
}

func (m *MockCustomerService) Report(ctx context.Context, id int64, p model.Pagination) (*model.CustomerReport, error) {
	args := m.Called(ctx, id, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CustomerReport), args.Error(1)
}

func (m *MockCustomerService) SendSMS(ctx context.Context, id int64, req model.CustomerSMSRequest) (*model.Notification, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Notification), args.Error(1)
}

type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) Create(ctx context.Context, req model.TransactionCreateRequest) (*model.TransactionResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TransactionResult), args.Error(1)
}

func (m *MockLedgerService) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockLedgerService) List(ctx context.Context, f model.TransactionFilter) (*model.TransactionPage, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TransactionPage), args.Error(1)
}

func (m *MockLedgerService) Totals(ctx context.Context) (*model.TransactionTotals, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TransactionTotals), args.Error(1)
}

func TestWriteServiceError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"validation", model.Validation("name is required"), 400, "name is required"},
		{"credentials", auth.ErrInvalidCredentials, 400, "Invalid credentials"},
		{"unauthorized", auth.ErrNoToken, 401, "No token, authorization denied"},
		{"not found", model.NotFound("Customer not found"), 404, "Customer not found"},
		{"internal", errors.New("pq: connection refused"), 500, "Internal Server Error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := setupTestContext("GET", "/", nil)
			writeServiceError(ctx, tt.err)

			assert.Equal(t, tt.status, ctx.Response.StatusCode())
			resp := decodeError(t, ctx)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.message, resp.Message)
		})
	}
}

func TestAuthMiddleware(t *testing.T) {
	admin := &model.Admin{ID: 1, Email: "admin@example.com"}

	t.Run("missing cookie", func(t *testing.T) {
		svc := new(MockAuthService)
		svc.On("Authenticate", mock.Anything, "").Return(nil, auth.ErrNoToken)
		called := false
		h := AuthMiddleware(svc)(func(ctx *xhttp.RequestCtx) { called = true })

		ctx := setupTestContext("GET", "/api/customers", nil)
		h(ctx)

		assert.False(t, called)
		assert.Equal(t, 401, ctx.Response.StatusCode())
		assert.Equal(t, "No token, authorization denied", decodeError(t, ctx).Message)
	})

	t.Run("valid cookie", func(t *testing.T) {
		svc := new(MockAuthService)
		svc.On("Authenticate", mock.Anything, "good").Return(admin, nil)
		var seen *model.Admin
		h := AuthMiddleware(svc)(func(ctx *xhttp.RequestCtx) { seen, _ = currentAdmin(ctx) })

		ctx := setupTestContext("GET", "/api/customers", nil)
		ctx.Request.Header.SetCookie(TokenCookie, "good")
		h(ctx)

		assert.Equal(t, admin, seen)
		svc.AssertExpectations(t)
	})
}

func responseCookie(ctx *xhttp.RequestCtx, name string) *fasthttp.Cookie {
	c := &fasthttp.Cookie{}
	c.SetKey(name)
	if !ctx.Response.Header.Cookie(c) {
		return nil
	}
	return c
}

func TestAdminHandler_Login(t *testing.T) {
	t.Run("sets session cookie", func(t *testing.T) {
		svc := new(MockAuthService)
		svc.On("Login", mock.Anything, model.LoginRequest{Email: "a@b.c", Password: "secret"}).
			Return("jwt", &model.Admin{ID: 1}, nil)
		h := NewAdminHandler(svc, true)

		ctx := setupTestContext("POST", "/api/admin/login", []byte(`{"email":"a@b.c","password":"secret"}`))
		h.Login(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())
		var resp loginResponse
		require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
		assert.Equal(t, "jwt", resp.Token)

		c := responseCookie(ctx, TokenCookie)
		require.NotNil(t, c)
		assert.Equal(t, "jwt", string(c.Value()))
		assert.True(t, c.HTTPOnly())
		assert.True(t, c.Secure())
		assert.Equal(t, fasthttp.CookieSameSiteNoneMode, c.SameSite())
		assert.Equal(t, 3600, c.MaxAge())
	})

	t.Run("bad credentials", func(t *testing.T) {
		svc := new(MockAuthService)
		svc.On("Login", mock.Anything, mock.Anything).Return("", nil, auth.ErrInvalidCredentials)
		h := NewAdminHandler(svc, false)

		ctx := setupTestContext("POST", "/api/admin/login", []byte(`{"email":"a@b.c","password":"nope"}`))
		h.Login(ctx)

		assert.Equal(t, 400, ctx.Response.StatusCode())
		assert.Equal(t, "Invalid credentials", decodeError(t, ctx).Message)
		assert.Nil(t, responseCookie(ctx, TokenCookie))
	})

	t.Run("empty body", func(t *testing.T) {
		h := NewAdminHandler(new(MockAuthService), false)
		ctx := setupTestContext("POST", "/api/admin/login", nil)
		h.Login(ctx)
		assert.Equal(t, 400, ctx.Response.StatusCode())
	})
}

func TestAdminHandler_ChangePasswordAndAuth(t *testing.T) {
	admin := &model.Admin{ID: 1, Email: "admin@example.com"}
	svc := new(MockAuthService)
	svc.On("ChangePassword", mock.Anything, admin, model.ChangePasswordRequest{OldPassword: "old", NewPassword: "short"}).
		Return(auth.ErrIncorrectPassword)
	h := NewAdminHandler(svc, false)

	ctx := setupTestContext("POST", "/api/admin/change-password", []byte(`{"oldPassword":"old","newPassword":"short"}`))
	ctx.SetUserValue(adminUserKey, admin)
	h.ChangePassword(ctx)
	assert.Equal(t, 400, ctx.Response.StatusCode())

	ctx = setupTestContext("GET", "/api/admin/auth", nil)
	ctx.SetUserValue(adminUserKey, admin)
	h.Auth(ctx)
	assert.Equal(t, 200, ctx.Response.StatusCode())
	var resp authResponse
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "admin@example.com", resp.Admin.Email)

	ctx = setupTestContext("POST", "/api/admin/logout", nil)
	h.Logout(ctx)
	assert.Equal(t, 200, ctx.Response.StatusCode())
	c := responseCookie(ctx, TokenCookie)
	require.NotNil(t, c)
	assert.Empty(t, c.Value())
}

func TestCustomerHandler(t *testing.T) {
	t.Run("create", func(t *testing.T) {
		svc := new(MockCustomerService)
		svc.On("Create", mock.Anything, model.CustomerRequest{Name: "Alice", Phone: "555"}).
			Return(&model.Customer{ID: 3, Name: "Alice", Phone: "555", Balance: decimal.Zero}, nil)
		h := NewCustomerHandler(svc)

		ctx := setupTestContext("POST", "/api/customers", []byte(`{"name":"Alice","phone":"555","balance":500}`))
		h.Create(ctx)

		assert.Equal(t, 201, ctx.Response.StatusCode())
		var c model.Customer
		require.NoError(t, json.Unmarshal(ctx.Response.Body(), &c))
		assert.Equal(t, int64(3), c.ID)
		assert.True(t, c.Balance.IsZero())
	})

	t.Run("invalid id", func(t *testing.T) {
		h := NewCustomerHandler(new(MockCustomerService))
		ctx := setupTestContext("GET", "/api/customers/abc", nil)
		ctx.SetUserValue("id", "abc")
		h.Get(ctx)
		assert.Equal(t, 400, ctx.Response.StatusCode())
	})

	t.Run("not found", func(t *testing.T) {
		svc := new(MockCustomerService)
		svc.On("Get", mock.Anything, int64(9)).Return(nil, model.NotFound("Customer not found"))
		h := NewCustomerHandler(svc)

		ctx := setupTestContext("GET", "/api/customers/9", nil)
		ctx.SetUserValue("id", "9")
		h.Get(ctx)
		assert.Equal(t, 404, ctx.Response.StatusCode())
		assert.Equal(t, "Customer not found", decodeError(t, ctx).Message)
	})

	t.Run("list passes search and page", func(t *testing.T) {
		svc := new(MockCustomerService)
		svc.On("List", mock.Anything, model.CustomerFilter{Search: "ali", Pagination: model.Pagination{Page: 2, Limit: 5}}).
			Return(&model.CustomerPage{Data: []*model.Customer{}, CurrentPage: 2}, nil)
		h := NewCustomerHandler(svc)

		ctx := setupTestContext("GET", "/api/customers?search=ali&page=2&limit=5", nil)
		h.List(ctx)
		assert.Equal(t, 200, ctx.Response.StatusCode())
		svc.AssertExpectations(t)
	})

	t.Run("delete", func(t *testing.T) {
		svc := new(MockCustomerService)
		svc.On("Delete", mock.Anything, int64(4)).Return(nil)
		h := NewCustomerHandler(svc)

		ctx := setupTestContext("DELETE", "/api/customers/4", nil)
		ctx.SetUserValue("id", "4")
		h.Delete(ctx)
		assert.Equal(t, 204, ctx.Response.StatusCode())
	})

	t.Run("sms gateway failure", func(t *testing.T) {
		svc := new(MockCustomerService)
		svc.On("SendSMS", mock.Anything, int64(4), model.CustomerSMSRequest{Message: "hi"}).
			Return(nil, errors.New("send sms: gateway rejected"))
		h := NewCustomerHandler(svc)

		ctx := setupTestContext("POST", "/api/customers/4/sms", []byte(`{"message":"hi"}`))
		ctx.SetUserValue("id", "4")
		h.SendSMS(ctx)
		assert.Equal(t, 500, ctx.Response.StatusCode())
		assert.Equal(t, "Internal Server Error", decodeError(t, ctx).Message)
	})
}

func TestTransactionHandler(t *testing.T) {
	t.Run("list parses filters", func(t *testing.T) {
		svc := new(MockLedgerService)
		svc.On("List", mock.Anything, mock.MatchedBy(func(f model.TransactionFilter) bool {
			return f.Type == model.TransactionSell &&
				f.Search == "rent" &&
				f.DateFrom != nil && f.DateFrom.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)) &&
				f.DateTo != nil &&
				f.Page == 1 && f.Limit == model.DefaultPageLimit
		})).Return(&model.TransactionPage{Data: []*model.Transaction{}}, nil)
		h := NewTransactionHandler(svc)

		ctx := setupTestContext("GET", "/api/transactions?type=sell&search=rent&dateFrom=2025-01-01&dateTo=2025-01-31", nil)
		h.List(ctx)
		assert.Equal(t, 200, ctx.Response.StatusCode())
		svc.AssertExpectations(t)
	})

	t.Run("bad date", func(t *testing.T) {
		h := NewTransactionHandler(new(MockLedgerService))
		ctx := setupTestContext("GET", "/api/transactions?dateFrom=yesterday", nil)
		h.List(ctx)
		assert.Equal(t, 400, ctx.Response.StatusCode())
	})

	t.Run("create", func(t *testing.T) {
		svc := new(MockLedgerService)
		svc.On("Create", mock.Anything, mock.MatchedBy(func(req model.TransactionCreateRequest) bool {
			return req.Type == model.TransactionSell && req.Total.Equal(decimal.NewFromInt(100)) && req.SMS
		})).Return(&model.TransactionResult{Transaction: &model.Transaction{ID: 1, Type: model.TransactionSell}}, nil)
		h := NewTransactionHandler(svc)

		ctx := setupTestContext("POST", "/api/transactions", []byte(`{"type":"sell","total":100,"sms":true}`))
		h.Create(ctx)
		assert.Equal(t, 201, ctx.Response.StatusCode())
	})

	t.Run("totals", func(t *testing.T) {
		svc := new(MockLedgerService)
		svc.On("Totals", mock.Anything).Return(&model.TransactionTotals{RemainingCash: decimal.NewFromInt(50)}, nil)
		h := NewTransactionHandler(svc)

		ctx := setupTestContext("GET", "/api/transactions/totals", nil)
		h.Totals(ctx)
		assert.Equal(t, 200, ctx.Response.StatusCode())
		assert.Contains(t, string(ctx.Response.Body()), `"remainingCash"`)
	})
}

type stubStats struct {
	err error
}

func (s stubStats) Dashboard(context.Context) (*model.DashboardStats, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &model.DashboardStats{NetCashFlow: decimal.NewFromInt(50)}, nil
}

func TestStatisticsHandler_Dashboard(t *testing.T) {
	h := NewStatisticsHandler(stubStats{})
	ctx := setupTestContext("GET", "/api/statistics/dashboard", nil)
	h.Dashboard(ctx)

	assert.Equal(t, 200, ctx.Response.StatusCode())
	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			NetCashFlow decimal.Decimal `json:"netCashFlow"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
	assert.True(t, resp.Success)
	assert.True(t, resp.Data.NetCashFlow.Equal(decimal.NewFromInt(50)))
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

type stubQueue struct{}

func (stubQueue) GetStats(context.Context) (*queue.QueueStats, error) {
	return &queue.QueueStats{TotalMessages: 2}, nil
}

type stubGateway struct{}

func (stubGateway) Stats() gateway.Stats { return gateway.Stats{TotalRequests: 7} }

func TestHealthHandler(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		h := NewHealthHandler(stubPinger{}, stubPinger{}, stubQueue{}, stubGateway{})
		ctx := setupTestContext("GET", "/api/health", nil)
		h.GetHealth(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())
		var resp healthResponse
		require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
		assert.Equal(t, "ok", resp.Status)
		assert.Equal(t, "ok", resp.Checks["database"])
		assert.Equal(t, int64(2), resp.Queue.TotalMessages)
		assert.Equal(t, int64(7), resp.Gateway.TotalRequests)
	})

	t.Run("redis down", func(t *testing.T) {
		h := NewHealthHandler(stubPinger{}, stubPinger{err: errors.New("dial tcp: refused")}, nil, nil)
		ctx := setupTestContext("GET", "/api/health", nil)
		h.GetHealth(ctx)

		assert.Equal(t, 503, ctx.Response.StatusCode())
		var resp healthResponse
		require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
		assert.Equal(t, "degraded", resp.Status)
		assert.Equal(t, "dial tcp: refused", resp.Checks["redis"])
	})
}

func TestRoutes_Guarded(t *testing.T) {
	authSvc := new(MockAuthService)
	authSvc.On("Authenticate", mock.Anything, "").Return(nil, auth.ErrNoToken)
	customers := new(MockCustomerService)
	customers.On("Report", mock.Anything, int64(5), mock.Anything).Return(&model.CustomerReport{}, nil)

	r := xhttp.CreateDefaultRouter()
	g := r.Group("/api")
	RegisterCustomerRoutes(g, NewCustomerHandler(customers), AuthMiddleware(authSvc))
	RegisterHealthRoutes(g, NewHealthHandler(stubPinger{}, nil, nil, nil))

	ctx := setupTestContext("GET", "/api/customers", nil)
	r.Handler(ctx)
	assert.Equal(t, 401, ctx.Response.StatusCode())

	ctx = setupTestContext("GET", "/api/customers/5/report", nil)
	r.Handler(ctx)
	assert.Equal(t, 200, ctx.Response.StatusCode())

	ctx = setupTestContext("GET", "/api/health", nil)
	r.Handler(ctx)
	assert.Equal(t, 200, ctx.Response.StatusCode())

	ctx = setupTestContext("GET", "/api/nowhere", nil)
	r.Handler(ctx)
	assert.Equal(t, 404, ctx.Response.StatusCode())

	customers.AssertExpectations(t)
}
