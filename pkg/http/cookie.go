package xhttp

import (
	"time"

	"github.com/valyala/fasthttp"
)

type CookieOption struct {
	MaxAge   time.Duration
	Secure   bool
	SameSite fasthttp.CookieSameSite
	Path     string
}

// SetCookie writes an http-only cookie to the response.
func SetCookie(ctx *RequestCtx, name, value string, opt CookieOption) {
	c := fasthttp.AcquireCookie()
	defer fasthttp.ReleaseCookie(c)

	path := opt.Path
	if path == "" {
		path = "/"
	}
	c.SetKey(name)
	c.SetValue(value)
	c.SetPath(path)
	c.SetHTTPOnly(true)
	c.SetSecure(opt.Secure)
	if opt.SameSite != 0 {
		c.SetSameSite(opt.SameSite)
	}
	if opt.MaxAge > 0 {
		c.SetMaxAge(int(opt.MaxAge.Seconds()))
	}
	ctx.Response.Header.SetCookie(c)
}

// ClearCookie expires the named cookie on the client.
func ClearCookie(ctx *RequestCtx, name string, opt CookieOption) {
	c := fasthttp.AcquireCookie()
	defer fasthttp.ReleaseCookie(c)

	path := opt.Path
	if path == "" {
		path = "/"
	}
	c.SetKey(name)
	c.SetPath(path)
	c.SetHTTPOnly(true)
	c.SetSecure(opt.Secure)
	if opt.SameSite != 0 {
		c.SetSameSite(opt.SameSite)
	}
	c.SetExpire(fasthttp.CookieExpireDelete)
	ctx.Response.Header.SetCookie(c)
}

func Cookie(ctx *RequestCtx, name string) string {
	return string(ctx.Request.Header.Cookie(name))
}
