// Package handler exposes the storefront HTTP API.
package handler

import (
	"github.com/go-chi/chi/v5"

	"github.com/craftpay/autodonate/internal/domain/order"
	"github.com/craftpay/autodonate/internal/domain/promo"
	"github.com/craftpay/autodonate/internal/domain/rank"
)

// Handler holds the domain dependencies behind the HTTP surface.
type Handler struct {
	ranks  *rank.Repository
	promos *promo.Repository
	orders *order.Service
}

// New constructs a Handler with the required domain dependencies.
func New(ranks *rank.Repository, promos *promo.Repository, orders *order.Service) *Handler {
	return &Handler{
		ranks:  ranks,
		promos: promos,
		orders: orders,
	}
}

// Routes returns the API router, meant to be mounted under /api.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Route("/ranks", func(r chi.Router) {
		r.Get("/", h.ListRanks)
		r.Post("/", h.CreateRank)
		r.Post("/seed", h.Seed)
	})

	r.Route("/promos", func(r chi.Router) {
		r.Post("/", h.CreatePromo)
		r.Get("/{code}", h.GetPromo)
	})

	r.Route("/orders", func(r chi.Router) {
		r.Post("/", h.CreateOrder)
		r.Get("/{orderID}", h.GetOrder)
		r.Post("/{orderID}/pay", h.PayOrder)
	})

	return r
}
