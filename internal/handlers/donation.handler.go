package handlers

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/fasthttp/router"

	"github.com/givehub/donation-platform/internal/model"
	"github.com/givehub/donation-platform/internal/services"
	xhttp "github.com/givehub/donation-platform/pkg/http"
)

type DonationService interface {
	Submit(ctx context.Context, p model.DonationCreateRequest) (*model.Donation, error)
	History(ctx context.Context, userID int64, limit, offset int) ([]*model.Donation, int64, error)
	List(ctx context.Context, f model.DonationFilter) ([]*model.Donation, int64, error)
}

type DonationHandler struct {
	svc DonationService
}

func NewDonationHandler(donationService DonationService) *DonationHandler {
	return &DonationHandler{
		svc: donationService,
	}
}

func RegisterDonationRoutes(e *router.Group, h *DonationHandler, mw *AuthMiddleware) {
	e.POST("/donations", mw.OptionalAuth(h.SubmitDonation))
	e.GET("/me/donations", mw.RequireAuth(h.MyDonations))
	e.GET("/admin/donations", mw.RequireAdmin(h.ListDonations))
}

// submitDonationRequest is the wire shape. Card fields are validated and
// discarded; they never appear in the response, the database or the logs.
type submitDonationRequest struct {
	Amount              float64 `json:"amount"`
	ProgramID           *int64  `json:"program_id"`
	CauseName           string  `json:"cause_name"`
	DonorName           string  `json:"donor_name"`
	DonorEmail          string  `json:"donor_email"`
	DonorPhone          string  `json:"donor_phone"`
	DonorAddress        string  `json:"donor_address"`
	IsAnonymous         bool    `json:"is_anonymous"`
	SubscribeNewsletter bool    `json:"subscribe_newsletter"`
	CardNumber          string  `json:"card_number"`
	CardExpiry          string  `json:"card_expiry"`
	CardCVV             string  `json:"card_cvv"`
}

type donationListResponse struct {
	Items []model.Donation `json:"items"`
	Total int64            `json:"total"`
}

func (h *DonationHandler) SubmitDonation(ctx *xhttp.RequestCtx) {
	var req submitDonationRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	p := model.DonationCreateRequest{
		Amount:              req.Amount,
		ProgramID:           req.ProgramID,
		CauseName:           req.CauseName,
		DonorName:           req.DonorName,
		DonorEmail:          req.DonorEmail,
		DonorPhone:          req.DonorPhone,
		DonorAddress:        req.DonorAddress,
		IsAnonymous:         req.IsAnonymous,
		SubscribeNewsletter: req.SubscribeNewsletter,
		CardNumber:          req.CardNumber,
		CardExpiry:          req.CardExpiry,
		CardCVV:             req.CardCVV,
	}
	if userID, ok := authedUserID(ctx); ok {
		p.UserID = &userID
	}

	donation, err := h.svc.Submit(ctx, p)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidAmount),
			errors.Is(err, services.ErrMissingDonorContact),
			errors.Is(err, services.ErrPaymentValidationFailed):
			// One message for all payment failures; which field failed
			// stays server-side.
			writeError(ctx, xhttp.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrProgramNotFound):
			writeError(ctx, xhttp.StatusNotFound, err.Error())
		default:
			writeError(ctx, xhttp.StatusInternalServerError, "could not process donation")
		}
		return
	}

	writeJSON(ctx, xhttp.StatusCreated, donation)
}

func (h *DonationHandler) MyDonations(ctx *xhttp.RequestCtx) {
	userID, ok := authedUserID(ctx)
	if !ok {
		writeError(ctx, xhttp.StatusUnauthorized, "authentication required")
		return
	}

	limit, offset := pageParams(ctx)
	items, total, err := h.svc.History(ctx, userID, limit, offset)
	if err != nil {
		writeError(ctx, xhttp.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(ctx, xhttp.StatusOK, toListResponse(items, total, false))
}

func (h *DonationHandler) ListDonations(ctx *xhttp.RequestCtx) {
	var f model.DonationFilter

	if v := query(ctx, "user_id"); v != "" {
		if id, e := strconv.ParseInt(v, 10, 64); e == nil {
			f.UserID = &id
		}
	}
	if v := query(ctx, "program_id"); v != "" {
		if id, e := strconv.ParseInt(v, 10, 64); e == nil {
			f.ProgramID = &id
		}
	}
	if v := query(ctx, "status"); v != "" {
		status := model.PaymentStatus(v)
		f.Status = &status
	}
	if v := query(ctx, "from"); v != "" {
		if t, e := parseTime(v); e == nil {
			f.From = &t
		}
	}
	if v := query(ctx, "to"); v != "" {
		if t, e := parseTime(v); e == nil {
			f.To = &t
		}
	}
	f.Limit, f.Offset = pageParams(ctx)
	if strings.EqualFold(query(ctx, "order"), "desc") {
		f.Desc = true
	}

	items, total, err := h.svc.List(ctx, f)
	if err != nil {
		writeError(ctx, xhttp.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(ctx, xhttp.StatusOK, toListResponse(items, total, true))
}

// pageParams reads limit/offset query parameters; zero values fall back to
// the repository defaults.
func pageParams(ctx *xhttp.RequestCtx) (limit, offset int) {
	if v := query(ctx, "limit"); v != "" {
		if n, e := strconv.Atoi(v); e == nil {
			limit = n
		}
	}
	if v := query(ctx, "offset"); v != "" {
		if n, e := strconv.Atoi(v); e == nil {
			offset = n
		}
	}
	return limit, offset
}

// toListResponse serializes donations, redacting donor identity on anonymous
// rows when the listing is not the donor's own history.
func toListResponse(items []*model.Donation, total int64, redact bool) donationListResponse {
	out := make([]model.Donation, 0, len(items))
	for _, d := range items {
		if redact {
			out = append(out, d.PublicView())
			continue
		}
		out = append(out, *d)
	}
	return donationListResponse{Items: out, Total: total}
}
