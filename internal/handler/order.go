package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/craftpay/autodonate/internal/domain/order"
)

type orderItemResponse struct {
	RankID   string  `json:"rank_id"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

type orderResponse struct {
	ID        string              `json:"id"`
	Player    string              `json:"player"`
	Items     []orderItemResponse `json:"items"`
	Amount    float64             `json:"amount"`
	Currency  string              `json:"currency"`
	Status    string              `json:"status"`
	Email     string              `json:"email,omitempty"`
	Server    string              `json:"server,omitempty"`
	PromoCode string              `json:"promo_code,omitempty"`
}

func toOrderResponse(o order.Order) orderResponse {
	items := make([]orderItemResponse, len(o.Items))
	for i, it := range o.Items {
		items[i] = orderItemResponse{
			RankID:   it.RankID,
			Quantity: it.Quantity,
			Price:    it.Price.InexactFloat64(),
		}
	}
	return orderResponse{
		ID:        o.ID,
		Player:    o.Player,
		Items:     items,
		Amount:    o.Amount.InexactFloat64(),
		Currency:  o.Currency,
		Status:    string(o.Status),
		Email:     o.Email,
		Server:    o.Server,
		PromoCode: o.PromoCode,
	}
}

type orderItemRequest struct {
	RankID   string `json:"rank_id"`
	Quantity *int   `json:"quantity"`
}

type createOrderRequest struct {
	Player    string             `json:"player"`
	Items     []orderItemRequest `json:"items"`
	Email     string             `json:"email"`
	Server    string             `json:"server"`
	PromoCode string             `json:"promo_code"`
}

// CreateOrder prices the cart and persists a pending order. An omitted item
// quantity defaults to 1; an explicit quantity below 1 is rejected.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cart := make([]order.CartItem, len(req.Items))
	for i, it := range req.Items {
		qty := 1
		if it.Quantity != nil {
			qty = *it.Quantity
		}
		cart[i] = order.CartItem{RankID: it.RankID, Quantity: qty}
	}

	o, err := h.orders.Create(r.Context(), order.CreateRequest{
		Player:    req.Player,
		Items:     cart,
		Email:     req.Email,
		Server:    req.Server,
		PromoCode: req.PromoCode,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(*o))
}

// GetOrder returns a single order by id.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.Get(r.Context(), chi.URLParam(r, "orderID"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(*o))
}

// PayOrder simulates payment: the order's status flips to paid atomically.
func (h *Handler) PayOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.Pay(r.Context(), chi.URLParam(r, "orderID"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(*o))
}
