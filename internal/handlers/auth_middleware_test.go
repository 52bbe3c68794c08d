package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/givehub/donation-platform/internal/model"
	"github.com/givehub/donation-platform/internal/services"
	xhttp "github.com/givehub/donation-platform/pkg/http"
)

type MockTokenVerifier struct {
	mock.Mock
}

func (m *MockTokenVerifier) VerifyToken(token string) (*model.TokenClaims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TokenClaims), args.Error(1)
}

func TestAuthMiddleware_RequireAuth(t *testing.T) {
	t.Run("valid token passes claims through", func(t *testing.T) {
		verifier := new(MockTokenVerifier)
		mw := NewAuthMiddleware(verifier)

		verifier.On("VerifyToken", "good-token").
			Return(&model.TokenClaims{UserID: 5, Role: model.RoleDonor}, nil)

		var gotUserID int64
		next := func(ctx *xhttp.RequestCtx) {
			gotUserID, _ = authedUserID(ctx)
		}

		ctx := setupTestContext("GET", "/api/v1/me", nil)
		ctx.Request.Header.Set("Authorization", "Bearer good-token")
		mw.RequireAuth(next)(ctx)

		assert.Equal(t, int64(5), gotUserID)
	})

	t.Run("missing header", func(t *testing.T) {
		verifier := new(MockTokenVerifier)
		mw := NewAuthMiddleware(verifier)

		called := false
		ctx := setupTestContext("GET", "/api/v1/me", nil)
		mw.RequireAuth(func(ctx *xhttp.RequestCtx) { called = true })(ctx)

		assert.False(t, called)
		assert.Equal(t, 401, ctx.Response.StatusCode())
	})

	t.Run("invalid token", func(t *testing.T) {
		verifier := new(MockTokenVerifier)
		mw := NewAuthMiddleware(verifier)

		verifier.On("VerifyToken", "bad-token").Return(nil, services.ErrInvalidToken)

		called := false
		ctx := setupTestContext("GET", "/api/v1/me", nil)
		ctx.Request.Header.Set("Authorization", "Bearer bad-token")
		mw.RequireAuth(func(ctx *xhttp.RequestCtx) { called = true })(ctx)

		assert.False(t, called)
		assert.Equal(t, 401, ctx.Response.StatusCode())
	})
}

func TestAuthMiddleware_RequireAdmin(t *testing.T) {
	t.Run("donor role rejected", func(t *testing.T) {
		verifier := new(MockTokenVerifier)
		mw := NewAuthMiddleware(verifier)

		verifier.On("VerifyToken", "donor-token").
			Return(&model.TokenClaims{UserID: 5, Role: model.RoleDonor}, nil)

		called := false
		ctx := setupTestContext("GET", "/api/v1/admin/donations", nil)
		ctx.Request.Header.Set("Authorization", "Bearer donor-token")
		mw.RequireAdmin(func(ctx *xhttp.RequestCtx) { called = true })(ctx)

		assert.False(t, called)
		assert.Equal(t, 403, ctx.Response.StatusCode())
	})

	t.Run("admin role passes", func(t *testing.T) {
		verifier := new(MockTokenVerifier)
		mw := NewAuthMiddleware(verifier)

		verifier.On("VerifyToken", "admin-token").
			Return(&model.TokenClaims{UserID: 1, Role: model.RoleAdmin}, nil)

		called := false
		ctx := setupTestContext("GET", "/api/v1/admin/donations", nil)
		ctx.Request.Header.Set("Authorization", "Bearer admin-token")
		mw.RequireAdmin(func(ctx *xhttp.RequestCtx) { called = true })(ctx)

		assert.True(t, called)
	})
}

func TestAuthMiddleware_OptionalAuth(t *testing.T) {
	t.Run("anonymous request passes with no claims", func(t *testing.T) {
		verifier := new(MockTokenVerifier)
		mw := NewAuthMiddleware(verifier)

		called := false
		ctx := setupTestContext("POST", "/api/v1/donations", nil)
		mw.OptionalAuth(func(ctx *xhttp.RequestCtx) {
			called = true
			_, ok := authedUserID(ctx)
			assert.False(t, ok)
		})(ctx)

		assert.True(t, called)
	})

	t.Run("valid token attaches claims", func(t *testing.T) {
		verifier := new(MockTokenVerifier)
		mw := NewAuthMiddleware(verifier)

		verifier.On("VerifyToken", "good-token").
			Return(&model.TokenClaims{UserID: 11, Role: model.RoleDonor}, nil)

		ctx := setupTestContext("POST", "/api/v1/donations", nil)
		ctx.Request.Header.Set("Authorization", "Bearer good-token")
		mw.OptionalAuth(func(ctx *xhttp.RequestCtx) {
			id, ok := authedUserID(ctx)
			assert.True(t, ok)
			assert.Equal(t, int64(11), id)
		})(ctx)
	})
}
