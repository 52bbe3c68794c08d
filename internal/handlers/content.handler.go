package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/fasthttp/router"

	"github.com/givehub/donation-platform/internal/model"
	"github.com/givehub/donation-platform/internal/services"
	xhttp "github.com/givehub/donation-platform/pkg/http"
)

type ContentService interface {
	CreateNGO(ctx context.Context, p model.NGOCreateRequest) (*model.NGO, error)
	GetNGO(ctx context.Context, id int64) (*model.NGO, error)
	ListNGOs(ctx context.Context) ([]*model.NGO, error)
	UpdateNGO(ctx context.Context, id int64, req model.NGOUpdateRequest) (*model.NGO, error)
	DeleteNGO(ctx context.Context, id int64) error

	CreateGalleryItem(ctx context.Context, p model.GalleryItemCreateRequest) (*model.GalleryItem, error)
	ListGallery(ctx context.Context) ([]*model.GalleryItem, error)
	UpdateGalleryItem(ctx context.Context, id int64, req model.GalleryItemUpdateRequest) (*model.GalleryItem, error)
	DeleteGalleryItem(ctx context.Context, id int64) error

	CreatePartner(ctx context.Context, p model.PartnerCreateRequest) (*model.Partner, error)
	ListPartners(ctx context.Context) ([]*model.Partner, error)
	UpdatePartner(ctx context.Context, id int64, req model.PartnerUpdateRequest) (*model.Partner, error)
	DeletePartner(ctx context.Context, id int64) error

	SubmitHelpQuery(ctx context.Context, p model.HelpQueryCreateRequest) (*model.HelpQuery, error)
	ListHelpQueries(ctx context.Context, onlyUnresolved bool) ([]*model.HelpQuery, error)
	ResolveHelpQuery(ctx context.Context, id int64) error
}

type ContentHandler struct {
	svc ContentService
}

func NewContentHandler(contentService ContentService) *ContentHandler {
	return &ContentHandler{
		svc: contentService,
	}
}

func RegisterContentRoutes(e *router.Group, h *ContentHandler, mw *AuthMiddleware) {
	e.GET("/ngos", h.ListNGOs)
	e.GET("/ngos/{id}", h.GetNGO)
	e.GET("/gallery", h.ListGallery)
	e.GET("/partners", h.ListPartners)
	e.POST("/help-queries", h.SubmitHelpQuery)

	e.POST("/admin/ngos", mw.RequireAdmin(h.CreateNGO))
	e.PATCH("/admin/ngos/{id}", mw.RequireAdmin(h.UpdateNGO))
	e.DELETE("/admin/ngos/{id}", mw.RequireAdmin(h.DeleteNGO))
	e.POST("/admin/gallery", mw.RequireAdmin(h.CreateGalleryItem))
	e.PATCH("/admin/gallery/{id}", mw.RequireAdmin(h.UpdateGalleryItem))
	e.DELETE("/admin/gallery/{id}", mw.RequireAdmin(h.DeleteGalleryItem))
	e.POST("/admin/partners", mw.RequireAdmin(h.CreatePartner))
	e.PATCH("/admin/partners/{id}", mw.RequireAdmin(h.UpdatePartner))
	e.DELETE("/admin/partners/{id}", mw.RequireAdmin(h.DeletePartner))
	e.GET("/admin/help-queries", mw.RequireAdmin(h.ListHelpQueries))
	e.POST("/admin/help-queries/{id}/resolve", mw.RequireAdmin(h.ResolveHelpQuery))
}

func (h *ContentHandler) ListNGOs(ctx *xhttp.RequestCtx) {
	ngos, err := h.svc.ListNGOs(ctx)
	if err != nil {
		writeError(ctx, xhttp.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(ctx, xhttp.StatusOK, ngos)
}

func (h *ContentHandler) GetNGO(ctx *xhttp.RequestCtx) {
	id, err := pathInt64(ctx, "id")
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid ngo id")
		return
	}

	ngo, err := h.svc.GetNGO(ctx, id)
	if err != nil {
		if errors.Is(err, services.ErrNGONotFound) {
			writeError(ctx, xhttp.StatusNotFound, err.Error())
			return
		}
		writeError(ctx, xhttp.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(ctx, xhttp.StatusOK, ngo)
}

func (h *ContentHandler) CreateNGO(ctx *xhttp.RequestCtx) {
	var req model.NGOCreateRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
		return
	}

	ngo, err := h.svc.CreateNGO(ctx, req)
	if err != nil {
		writeError(ctx, xhttp.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(ctx, xhttp.StatusCreated, ngo)
}

func (h *ContentHandler) UpdateNGO(ctx *xhttp.RequestCtx) {
	id, err := pathInt64(ctx, "id")
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid ngo id")
		return
	}

	var req model.NGOUpdateRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	ngo, err := h.svc.UpdateNGO(ctx, id, req)
	if err != nil {
		if errors.Is(err, services.ErrNGONotFound) {
			writeError(ctx, xhttp.StatusNotFound, err.Error())
			return
		}
		writeError(ctx, xhttp.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(ctx, xhttp.StatusOK, ngo)
}

func (h *ContentHandler) DeleteNGO(ctx *xhttp.RequestCtx) {
	id, err := pathInt64(ctx, "id")
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid ngo id")
		return
	}

	if err := h.svc.DeleteNGO(ctx, id); err != nil {
		if errors.Is(err, services.ErrNGONotFound) {
			writeError(ctx, xhttp.StatusNotFound, err.Error())
			return
		}
		writeError(ctx, xhttp.StatusInternalServerError, err.Error())
		return
	}
	ctx.Response.SetStatusCode(xhttp.StatusOK)
}

func (h *ContentHandler) ListGallery(ctx *xhttp.RequestCtx) {
	items, err := h.svc.ListGallery(ctx)
	if err != nil {
		writeError(ctx, xhttp.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(ctx, xhttp.StatusOK, items)
}

func (h *ContentHandler) CreateGalleryItem(ctx *xhttp.RequestCtx) {
	var req model.GalleryItemCreateRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
		return
	}

	item, err := h.svc.CreateGalleryItem(ctx, req)
	if err != nil {
		writeError(ctx, xhttp.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(ctx, xhttp.StatusCreated, item)
}

func (h *ContentHandler) UpdateGalleryItem(ctx *xhttp.RequestCtx) {
	id, err := pathInt64(ctx, "id")
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid gallery item id")
		return
	}

	var req model.GalleryItemUpdateRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	item, err := h.svc.UpdateGalleryItem(ctx, id, req)
	if err != nil {
		if errors.Is(err, services.ErrGalleryItemNotFound) {
			writeError(ctx, xhttp.StatusNotFound, err.Error())
			return
		}
		writeError(ctx, xhttp.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(ctx, xhttp.StatusOK, item)
}

func (h *ContentHandler) DeleteGalleryItem(ctx *xhttp.RequestCtx) {
	id, err := pathInt64(ctx, "id")
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid gallery item id")
		return
	}

	if err := h.svc.DeleteGalleryItem(ctx, id); err != nil {
		writeError(ctx, xhttp.StatusInternalServerError, err.Error())
		return
	}
	ctx.Response.SetStatusCode(xhttp.StatusOK)
}

func (h *ContentHandler) ListPartners(ctx *xhttp.RequestCtx) {
	partners, err := h.svc.ListPartners(ctx)
	if err != nil {
		writeError(ctx, xhttp.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(ctx, xhttp.StatusOK, partners)
}

func (h *ContentHandler) CreatePartner(ctx *xhttp.RequestCtx) {
	var req model.PartnerCreateRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
		return
	}

	partner, err := h.svc.CreatePartner(ctx, req)
	if err != nil {
		writeError(ctx, xhttp.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(ctx, xhttp.StatusCreated, partner)
}

func (h *ContentHandler) UpdatePartner(ctx *xhttp.RequestCtx) {
	id, err := pathInt64(ctx, "id")
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid partner id")
		return
	}

	var req model.PartnerUpdateRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	partner, err := h.svc.UpdatePartner(ctx, id, req)
	if err != nil {
		if errors.Is(err, services.ErrPartnerNotFound) {
			writeError(ctx, xhttp.StatusNotFound, err.Error())
			return
		}
		writeError(ctx, xhttp.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(ctx, xhttp.StatusOK, partner)
}

func (h *ContentHandler) DeletePartner(ctx *xhttp.RequestCtx) {
	id, err := pathInt64(ctx, "id")
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid partner id")
		return
	}

	if err := h.svc.DeletePartner(ctx, id); err != nil {
		writeError(ctx, xhttp.StatusInternalServerError, err.Error())
		return
	}
	ctx.Response.SetStatusCode(xhttp.StatusOK)
}

func (h *ContentHandler) SubmitHelpQuery(ctx *xhttp.RequestCtx) {
	var req model.HelpQueryCreateRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
		return
	}

	q, err := h.svc.SubmitHelpQuery(ctx, req)
	if err != nil {
		writeError(ctx, xhttp.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(ctx, xhttp.StatusCreated, q)
}

func (h *ContentHandler) ListHelpQueries(ctx *xhttp.RequestCtx) {
	onlyUnresolved := strings.EqualFold(query(ctx, "unresolved"), "true")

	queries, err := h.svc.ListHelpQueries(ctx, onlyUnresolved)
	if err != nil {
		writeError(ctx, xhttp.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(ctx, xhttp.StatusOK, queries)
}

func (h *ContentHandler) ResolveHelpQuery(ctx *xhttp.RequestCtx) {
	id, err := pathInt64(ctx, "id")
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid help query id")
		return
	}

	if err := h.svc.ResolveHelpQuery(ctx, id); err != nil {
		if errors.Is(err, services.ErrHelpQueryNotFound) {
			writeError(ctx, xhttp.StatusNotFound, err.Error())
			return
		}
		writeError(ctx, xhttp.StatusInternalServerError, err.Error())
		return
	}
	ctx.Response.SetStatusCode(xhttp.StatusOK)
}
