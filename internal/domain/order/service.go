package order

import (
	"context"
	"strings"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

// CreateRequest holds the input for creating an order.
type CreateRequest struct {
	Player    string
	Items     []CartItem
	Email     string
	Server    string
	PromoCode string
}

// Service implements the order lifecycle on top of the pricing engine and
// the order repository.
type Service struct {
	pricer *Pricer
	orders *Repository
}

// NewService creates a Service with the required dependencies.
func NewService(pricer *Pricer, orders *Repository) *Service {
	return &Service{pricer: pricer, orders: orders}
}

// Create prices the cart and persists a pending order. Nothing is written
// when pricing fails. The returned order is re-read from the store so the
// caller sees exactly what was persisted, id included.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Order, error) {
	if strings.TrimSpace(req.Player) == "" {
		return nil, ErrNoPlayer
	}

	priced, err := s.pricer.Price(ctx, req.Items, req.PromoCode)
	if err != nil {
		return nil, err
	}

	o := &Order{
		Player:    req.Player,
		Items:     priced.Items,
		Amount:    priced.Amount,
		Currency:  Currency,
		Status:    StatusPending,
		Email:     req.Email,
		Server:    req.Server,
		PromoCode: priced.PromoCode,
	}

	id, err := s.orders.Insert(ctx, o)
	if err != nil {
		return nil, err
	}

	created, err := s.orders.Get(ctx, id)
	if err != nil {
		return nil, errors.Wrapf(err, "read back order %s", id)
	}
	return created, nil
}

// Pay simulates a successful payment: one atomic find-and-set of the status.
// A malformed id is ErrInvalidID, an unknown one ErrNotFound. Paying an
// already paid order succeeds and returns it unchanged.
func (s *Service) Pay(ctx context.Context, id string) (*Order, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrInvalidID
	}
	return s.orders.MarkPaid(ctx, id)
}

// Get returns a single order. Malformed ids resolve to nothing, so both
// malformed and unknown ids are ErrNotFound.
func (s *Service) Get(ctx context.Context, id string) (*Order, error) {
	return s.orders.Get(ctx, id)
}
