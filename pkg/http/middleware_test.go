package xhttp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/valyala/fasthttp"
)

func newCtx(method, path string) *RequestCtx {
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(path)
	return ctx
}

func ok(ctx *RequestCtx) { ctx.SetStatusCode(StatusOK) }

func TestCORSMiddleware(t *testing.T) {
	h := CORSMiddleware(CORSOption{AllowedOrigins: []string{"http://localhost:3000"}})(ok)

	t.Run("allowed origin is reflected", func(t *testing.T) {
		ctx := newCtx("GET", "/api/customers")
		ctx.Request.Header.Set("Origin", "http://localhost:3000")
		h(ctx)

		assert.Equal(t, StatusOK, ctx.Response.StatusCode())
		assert.Equal(t, "http://localhost:3000", string(ctx.Response.Header.Peek("Access-Control-Allow-Origin")))
		assert.Equal(t, "true", string(ctx.Response.Header.Peek("Access-Control-Allow-Credentials")))
	})

	t.Run("unknown origin gets no headers", func(t *testing.T) {
		ctx := newCtx("GET", "/api/customers")
		ctx.Request.Header.Set("Origin", "http://evil.example")
		h(ctx)

		assert.Empty(t, ctx.Response.Header.Peek("Access-Control-Allow-Origin"))
	})

	t.Run("preflight short-circuits", func(t *testing.T) {
		ctx := newCtx("OPTIONS", "/api/customers")
		ctx.Request.Header.Set("Origin", "http://localhost:3000")
		h(ctx)

		assert.Equal(t, StatusNoContent, ctx.Response.StatusCode())
		assert.Contains(t, string(ctx.Response.Header.Peek("Access-Control-Allow-Methods")), "DELETE")
	})
}

func TestRequestIDMiddleware(t *testing.T) {
	h := RequestIDMiddleware(ok)

	ctx := newCtx("GET", "/")
	h(ctx)
	assert.NotEmpty(t, ctx.Response.Header.Peek(HeaderRequestID))

	ctx = newCtx("GET", "/")
	ctx.Request.Header.Set(HeaderRequestID, "abc")
	h(ctx)
	assert.Equal(t, "abc", string(ctx.Response.Header.Peek(HeaderRequestID)))
}

func TestRecoverMiddleware(t *testing.T) {
	h := RecoverMiddleware(func(ctx *RequestCtx) { panic("boom") })

	ctx := newCtx("GET", "/")
	h(ctx)
	assert.Equal(t, StatusInternalServerError, ctx.Response.StatusCode())
	assert.JSONEq(t, `{"success":false,"message":"Internal Server Error"}`, string(ctx.Response.Body()))
}

func TestCookies(t *testing.T) {
	ctx := newCtx("GET", "/")
	SetCookie(ctx, "token", "v1", CookieOption{MaxAge: time.Hour})

	c := fasthttp.AcquireCookie()
	defer fasthttp.ReleaseCookie(c)
	c.SetKey("token")
	assert.True(t, ctx.Response.Header.Cookie(c))
	assert.Equal(t, "v1", string(c.Value()))
	assert.True(t, c.HTTPOnly())
	assert.Equal(t, 3600, c.MaxAge())

	ctx.Request.Header.SetCookie("token", "v2")
	assert.Equal(t, "v2", Cookie(ctx, "token"))
}
