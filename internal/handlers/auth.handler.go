package handlers

import (
	"context"
	"errors"

	"github.com/fasthttp/router"

	"github.com/givehub/donation-platform/internal/model"
	"github.com/givehub/donation-platform/internal/services"
	xhttp "github.com/givehub/donation-platform/pkg/http"
)

type AuthService interface {
	Register(ctx context.Context, p model.RegisterRequest) (*model.User, error)
	Login(ctx context.Context, p model.LoginRequest) (string, *model.User, error)
	GetUser(ctx context.Context, id int64) (*model.User, error)
}

type AuthHandler struct {
	svc AuthService
}

func NewAuthHandler(authService AuthService) *AuthHandler {
	return &AuthHandler{
		svc: authService,
	}
}

func RegisterAuthRoutes(e *router.Group, h *AuthHandler, mw *AuthMiddleware) {
	e.POST("/auth/register", h.Register)
	e.POST("/auth/login", h.Login)
	e.GET("/me", mw.RequireAuth(h.Me))
}

type loginResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

func (h *AuthHandler) Register(ctx *xhttp.RequestCtx) {
	var req model.RegisterRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	user, err := h.svc.Register(ctx, req)
	if err != nil {
		if errors.Is(err, services.ErrEmailExists) {
			writeError(ctx, xhttp.StatusConflict, err.Error())
			return
		}
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
		return
	}
	writeJSON(ctx, xhttp.StatusCreated, user)
}

func (h *AuthHandler) Login(ctx *xhttp.RequestCtx) {
	var req model.LoginRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	token, user, err := h.svc.Login(ctx, req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			writeError(ctx, xhttp.StatusUnauthorized, err.Error())
			return
		}
		writeError(ctx, xhttp.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(ctx, xhttp.StatusOK, loginResponse{Token: token, User: user})
}

func (h *AuthHandler) Me(ctx *xhttp.RequestCtx) {
	userID, ok := authedUserID(ctx)
	if !ok {
		writeError(ctx, xhttp.StatusUnauthorized, "authentication required")
		return
	}

	user, err := h.svc.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			writeError(ctx, xhttp.StatusNotFound, err.Error())
			return
		}
		writeError(ctx, xhttp.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(ctx, xhttp.StatusOK, user)
}
