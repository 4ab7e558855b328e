// Package order holds the storefront core: cart pricing and the order
// payment lifecycle.
package order

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/craftpay/autodonate/internal/docstore"
)

// Currency is the fixed currency code for all orders.
const Currency = "RUB"

// Status is the payment state of an order.
type Status string

const (
	// StatusPending is the initial state set at checkout.
	StatusPending Status = "pending"
	// StatusPaid is set by the simulated pay operation.
	StatusPaid Status = "paid"
	// StatusFailed is part of the order schema but never set: the simulated
	// payment flow has no failure path.
	StatusFailed Status = "failed"
)

// Sentinel errors for order operations.
var (
	ErrEmptyCart = errors.New("order items required")
	ErrNoPlayer  = errors.New("player is required")
	ErrNotFound  = errors.New("order not found")
	ErrInvalidID = errors.New("invalid order id")
)

// RankNotFoundError indicates a cart references a rank that does not resolve.
type RankNotFoundError struct {
	RankID string
}

func (e *RankNotFoundError) Error() string {
	return fmt.Sprintf("rank %s not found", e.RankID)
}

// InvalidQuantityError indicates a cart item has a quantity below 1.
type InvalidQuantityError struct {
	RankID string
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantity must be at least 1 for rank %s", e.RankID)
}

// CartItem is a caller-supplied (rank, quantity) pair before price resolution.
type CartItem struct {
	RankID   string
	Quantity int
}

// Item is a priced order line. Price is the unit price captured when the
// order was created; it never tracks later rank price changes.
type Item struct {
	RankID   string          `json:"rank_id"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// Order is a checkout record. Amount always reflects the snapshot prices and
// the promo captured at creation; it is never recomputed.
type Order struct {
	ID        string          `json:"-"`
	Player    string          `json:"player"`
	Items     []Item          `json:"items"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	Status    Status          `json:"status"`
	Email     string          `json:"email,omitempty"`
	Server    string          `json:"server,omitempty"`
	PromoCode string          `json:"promo_code,omitempty"`
}

// Repository persists orders in the document store.
type Repository struct {
	store docstore.Store
}

// NewRepository returns a Repository over the given store.
func NewRepository(store docstore.Store) *Repository {
	return &Repository{store: store}
}

// Insert persists a new order and returns the store-assigned id.
func (r *Repository) Insert(ctx context.Context, o *Order) (string, error) {
	id, err := r.store.Insert(ctx, docstore.Orders, o)
	if err != nil {
		return "", errors.Wrap(err, "insert order")
	}
	return id, nil
}

// Get returns the order with the given id or ErrNotFound.
func (r *Repository) Get(ctx context.Context, id string) (*Order, error) {
	doc, err := r.store.FindOne(ctx, docstore.Orders, docstore.Filter{docstore.IDField: id})
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrapf(err, "get order %q", id)
	}
	return decode(*doc)
}

// MarkPaid flips the order's status to paid in a single atomic
// find-and-update and returns the updated order. Paying an already paid
// order is a no-op that returns the order unchanged.
func (r *Repository) MarkPaid(ctx context.Context, id string) (*Order, error) {
	doc, err := r.store.FindOneAndUpdate(ctx, docstore.Orders,
		docstore.Filter{docstore.IDField: id},
		docstore.Fields{"status": StatusPaid},
	)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrapf(err, "mark order %q paid", id)
	}
	return decode(*doc)
}

// Count returns the total number of orders.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	n, err := r.store.Count(ctx, docstore.Orders, nil)
	if err != nil {
		return 0, errors.Wrap(err, "count orders")
	}
	return n, nil
}

func decode(d docstore.Doc) (*Order, error) {
	var o Order
	if err := json.Unmarshal(d.Data, &o); err != nil {
		return nil, errors.Wrapf(err, "decode order %q", d.ID)
	}
	o.ID = d.ID
	return &o, nil
}
