package handlers

import (
	"strings"

	"github.com/givehub/donation-platform/internal/model"
	xhttp "github.com/givehub/donation-platform/pkg/http"
)

const (
	ctxUserIDKey = "auth_user_id"
	ctxRoleKey   = "auth_role"
)

type TokenVerifier interface {
	VerifyToken(token string) (*model.TokenClaims, error)
}

// AuthMiddleware guards routes with JWT bearer tokens. OptionalAuth only
// attaches claims when a token is present, so guest and authenticated
// traffic can share a route.
type AuthMiddleware struct {
	verifier TokenVerifier
}

func NewAuthMiddleware(verifier TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier}
}

func (m *AuthMiddleware) claimsFrom(ctx *xhttp.RequestCtx) (*model.TokenClaims, bool) {
	header := string(ctx.Request.Header.Peek("Authorization"))
	if header == "" {
		return nil, false
	}
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return nil, false
	}

	claims, err := m.verifier.VerifyToken(token)
	if err != nil {
		return nil, false
	}
	return claims, true
}

// RequireAuth rejects requests without a valid bearer token.
func (m *AuthMiddleware) RequireAuth(next xhttp.RequestHandler) xhttp.RequestHandler {
	return func(ctx *xhttp.RequestCtx) {
		claims, ok := m.claimsFrom(ctx)
		if !ok {
			writeError(ctx, xhttp.StatusUnauthorized, "authentication required")
			return
		}
		ctx.SetUserValue(ctxUserIDKey, claims.UserID)
		ctx.SetUserValue(ctxRoleKey, claims.Role)
		next(ctx)
	}
}

// RequireAdmin rejects requests unless the token carries the admin role.
func (m *AuthMiddleware) RequireAdmin(next xhttp.RequestHandler) xhttp.RequestHandler {
	return m.RequireAuth(func(ctx *xhttp.RequestCtx) {
		if role, _ := ctx.UserValue(ctxRoleKey).(model.Role); role != model.RoleAdmin {
			writeError(ctx, xhttp.StatusForbidden, "admin access required")
			return
		}
		next(ctx)
	})
}

// OptionalAuth attaches claims when present and passes through otherwise.
func (m *AuthMiddleware) OptionalAuth(next xhttp.RequestHandler) xhttp.RequestHandler {
	return func(ctx *xhttp.RequestCtx) {
		if claims, ok := m.claimsFrom(ctx); ok {
			ctx.SetUserValue(ctxUserIDKey, claims.UserID)
			ctx.SetUserValue(ctxRoleKey, claims.Role)
		}
		next(ctx)
	}
}

// authedUserID returns the authenticated user id, if any.
func authedUserID(ctx *xhttp.RequestCtx) (int64, bool) {
	id, ok := ctx.UserValue(ctxUserIDKey).(int64)
	return id, ok
}
