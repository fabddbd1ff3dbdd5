package handlers

import (
	"context"

	"github.com/nimasrn/ledger-api/internal/model"
	xhttp "github.com/nimasrn/ledger-api/pkg/http"
)

const (
	TokenCookie  = "token"
	adminUserKey = "admin"
)

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*model.Admin, error)
}

// AuthMiddleware lets a request through only with a valid session cookie.
// The resolved admin is stored on the request.
func AuthMiddleware(auth Authenticator) xhttp.MiddlewareFunc {
	return func(next xhttp.RequestHandler) xhttp.RequestHandler {
		return func(ctx *xhttp.RequestCtx) {
			admin, err := auth.Authenticate(ctx, xhttp.Cookie(ctx, TokenCookie))
			if err != nil {
				writeServiceError(ctx, err)
				return
			}
			ctx.SetUserValue(adminUserKey, admin)
			next(ctx)
		}
	}
}

func currentAdmin(ctx *xhttp.RequestCtx) (*model.Admin, bool) {
	admin, ok := ctx.UserValue(adminUserKey).(*model.Admin)
	return admin, ok && admin != nil
}
