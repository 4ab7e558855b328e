package handler

import (
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/craftpay/autodonate/internal/domain/promo"
	"github.com/craftpay/autodonate/internal/domain/rank"
)

type rankResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Color       string   `json:"color"`
	Perks       []string `json:"perks"`
	Popular     bool     `json:"popular"`
	Icon        string   `json:"icon,omitempty"`
}

func toRankResponse(rk rank.Rank) rankResponse {
	return rankResponse{
		ID:          rk.ID,
		Name:        rk.Name,
		Description: rk.Description,
		Price:       rk.Price.InexactFloat64(),
		Color:       rk.Color,
		Perks:       rk.Perks,
		Popular:     rk.Popular,
		Icon:        rk.Icon,
	}
}

// ListRanks returns the catalog in creation order, optionally limited via
// the ?limit query parameter.
func (h *Handler) ListRanks(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	ranks, err := h.ranks.List(r.Context(), limit)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	out := make([]rankResponse, len(ranks))
	for i, rk := range ranks {
		out[i] = toRankResponse(rk)
	}
	writeJSON(w, http.StatusOK, out)
}

type createRankRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       *float64 `json:"price"`
	Color       string   `json:"color"`
	Perks       []string `json:"perks"`
	Popular     bool     `json:"popular"`
	Icon        string   `json:"icon"`
}

// CreateRank adds a rank to the catalog.
func (h *Handler) CreateRank(w http.ResponseWriter, r *http.Request) {
	var req createRankRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Price == nil {
		writeError(w, http.StatusBadRequest, "price is required")
		return
	}

	rk, err := rank.New(rank.Params{
		Name:        req.Name,
		Description: req.Description,
		Price:       decimal.NewFromFloat(*req.Price),
		Color:       req.Color,
		Perks:       req.Perks,
		Popular:     req.Popular,
		Icon:        req.Icon,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	if err := h.ranks.Create(r.Context(), rk); err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toRankResponse(*rk))
}

// seedDiscountPercent is the discount of the seeded START promo.
var seedDiscountPercent = decimal.NewFromInt(10)

// Seed installs the default catalog plus the START promo. It is a no-op when
// any rank already exists, so repeated calls leave exactly one seeded set.
func (h *Handler) Seed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	n, err := h.ranks.Count(ctx)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if n > 0 {
		writeJSON(w, http.StatusOK, map[string]string{"message": "Ranks already exist"})
		return
	}

	for _, rk := range rank.Defaults() {
		cp := rk
		if err := h.ranks.Create(ctx, &cp); err != nil {
			writeDomainError(w, r, err)
			return
		}
	}

	start, err := promo.New("START", seedDiscountPercent, true)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if err := h.promos.Create(ctx, start); err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Seeded"})
}
