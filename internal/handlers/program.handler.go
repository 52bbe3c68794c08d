package handlers

import (
	"context"
	"errors"

	"github.com/fasthttp/router"

	"github.com/givehub/donation-platform/internal/model"
	"github.com/givehub/donation-platform/internal/services"
	xhttp "github.com/givehub/donation-platform/pkg/http"
)

type ProgramService interface {
	Create(ctx context.Context, p model.ProgramCreateRequest) (*model.Program, error)
	Get(ctx context.Context, id int64) (*model.Program, error)
	List(ctx context.Context) ([]*model.Program, error)
	Update(ctx context.Context, id int64, req model.ProgramUpdateRequest) (*model.Program, error)
	Delete(ctx context.Context, id int64) error
	GetStats(ctx context.Context, programID int64) (*model.ProgramStats, error)
	Register(ctx context.Context, p model.RegistrationCreateRequest) (*model.ProgramRegistration, error)
}

type ProgramHandler struct {
	svc ProgramService
}

func NewProgramHandler(programService ProgramService) *ProgramHandler {
	return &ProgramHandler{
		svc: programService,
	}
}

func RegisterProgramRoutes(e *router.Group, h *ProgramHandler, mw *AuthMiddleware) {
	e.GET("/programs", h.ListPrograms)
	e.GET("/programs/{id}", h.GetProgram)
	e.GET("/programs/{id}/stats", h.GetProgramStats)
	e.POST("/programs/{id}/registrations", h.RegisterForProgram)

	e.POST("/admin/programs", mw.RequireAdmin(h.CreateProgram))
	e.PATCH("/admin/programs/{id}", mw.RequireAdmin(h.UpdateProgram))
	e.DELETE("/admin/programs/{id}", mw.RequireAdmin(h.DeleteProgram))
}

func (h *ProgramHandler) ListPrograms(ctx *xhttp.RequestCtx) {
	programs, err := h.svc.List(ctx)
	if err != nil {
		writeError(ctx, xhttp.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(ctx, xhttp.StatusOK, programs)
}

func (h *ProgramHandler) GetProgram(ctx *xhttp.RequestCtx) {
	id, err := pathInt64(ctx, "id")
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid program id")
		return
	}

	program, err := h.svc.Get(ctx, id)
	if err != nil {
		writeProgramError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, program)
}

func (h *ProgramHandler) GetProgramStats(ctx *xhttp.RequestCtx) {
	id, err := pathInt64(ctx, "id")
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid program id")
		return
	}

	stats, err := h.svc.GetStats(ctx, id)
	if err != nil {
		writeProgramError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, stats)
}

type registerForProgramRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Notes string `json:"notes"`
}

func (h *ProgramHandler) RegisterForProgram(ctx *xhttp.RequestCtx) {
	id, err := pathInt64(ctx, "id")
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid program id")
		return
	}

	var req registerForProgramRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	p := model.RegistrationCreateRequest{
		ProgramID: id,
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Notes:     req.Notes,
	}
	if err := p.Validate(); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
		return
	}

	reg, err := h.svc.Register(ctx, p)
	if err != nil {
		writeProgramError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusCreated, reg)
}

func (h *ProgramHandler) CreateProgram(ctx *xhttp.RequestCtx) {
	var req model.ProgramCreateRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
		return
	}

	program, err := h.svc.Create(ctx, req)
	if err != nil {
		writeError(ctx, xhttp.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(ctx, xhttp.StatusCreated, program)
}

func (h *ProgramHandler) UpdateProgram(ctx *xhttp.RequestCtx) {
	id, err := pathInt64(ctx, "id")
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid program id")
		return
	}

	var req model.ProgramUpdateRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	program, err := h.svc.Update(ctx, id, req)
	if err != nil {
		writeProgramError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, program)
}

func (h *ProgramHandler) DeleteProgram(ctx *xhttp.RequestCtx) {
	id, err := pathInt64(ctx, "id")
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid program id")
		return
	}

	if err := h.svc.Delete(ctx, id); err != nil {
		writeProgramError(ctx, err)
		return
	}
	ctx.Response.SetStatusCode(xhttp.StatusOK)
}

// writeProgramError maps service failures: a missing program is the
// client's problem, everything else is ours.
func writeProgramError(ctx *xhttp.RequestCtx, err error) {
	if errors.Is(err, services.ErrProgramNotFound) {
		writeError(ctx, xhttp.StatusNotFound, err.Error())
		return
	}
	writeError(ctx, xhttp.StatusInternalServerError, err.Error())
}
