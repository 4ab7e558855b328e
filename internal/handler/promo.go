package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/craftpay/autodonate/internal/domain/promo"
)

type promoResponse struct {
	ID              string  `json:"id"`
	Code            string  `json:"code"`
	DiscountPercent float64 `json:"discount_percent"`
	Active          bool    `json:"active"`
}

func toPromoResponse(p promo.Promo) promoResponse {
	return promoResponse{
		ID:              p.ID,
		Code:            p.Code,
		DiscountPercent: p.DiscountPercent.InexactFloat64(),
		Active:          p.Active,
	}
}

// GetPromo returns a promo by code, matched case-insensitively.
func (h *Handler) GetPromo(w http.ResponseWriter, r *http.Request) {
	p, err := h.promos.FindByCode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPromoResponse(*p))
}

type createPromoRequest struct {
	Code            string   `json:"code"`
	DiscountPercent *float64 `json:"discount_percent"`
	Active          *bool    `json:"active"`
}

// CreatePromo adds a promo code. Active defaults to true when omitted.
func (h *Handler) CreatePromo(w http.ResponseWriter, r *http.Request) {
	var req createPromoRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.DiscountPercent == nil {
		writeError(w, http.StatusBadRequest, "discount_percent is required")
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	p, err := promo.New(req.Code, decimal.NewFromFloat(*req.DiscountPercent), active)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	if err := h.promos.Create(r.Context(), p); err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPromoResponse(*p))
}
