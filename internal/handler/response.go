package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/craftpay/autodonate/internal/domain/order"
	"github.com/craftpay/autodonate/internal/domain/promo"
	"github.com/craftpay/autodonate/internal/domain/rank"
)

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Code: status, Message: message})
}

// decodeBody decodes the request body into dst, rejecting unknown fields.
func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// writeDomainError maps domain errors onto the HTTP error taxonomy:
// validation failures are 400, unresolvable references 404, everything else
// a logged 500.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		rankValidation  *rank.ValidationError
		promoValidation *promo.ValidationError
		rankNotFound    *order.RankNotFoundError
		invalidQuantity *order.InvalidQuantityError
	)

	switch {
	case errors.Is(err, order.ErrEmptyCart),
		errors.Is(err, order.ErrNoPlayer),
		errors.Is(err, order.ErrInvalidID),
		errors.As(err, &invalidQuantity),
		errors.As(err, &rankValidation),
		errors.As(err, &promoValidation):
		writeError(w, http.StatusBadRequest, err.Error())

	case errors.Is(err, rank.ErrNotFound),
		errors.Is(err, promo.ErrNotFound),
		errors.Is(err, order.ErrNotFound),
		errors.As(err, &rankNotFound):
		writeError(w, http.StatusNotFound, err.Error())

	default:
		zctx.From(r.Context()).Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
