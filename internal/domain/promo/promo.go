// Package promo defines percentage discount codes and their persistence.
package promo

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/craftpay/autodonate/internal/docstore"
)

// ErrNotFound is returned when no promo exists for a code.
var ErrNotFound = errors.New("promo not found")

var hundred = decimal.NewFromInt(100)

// Promo is a percentage discount code. Codes are stored uppercase; matching
// is case-insensitive by normalizing the lookup side the same way.
type Promo struct {
	ID              string          `json:"-"`
	Code            string          `json:"code"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	Active          bool            `json:"active"`
}

// ValidationError describes a rejected promo field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid promo: " + e.Field + " " + e.Reason
}

// NormalizeCode maps a caller-supplied code to its canonical stored form.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// New validates the code and discount and returns the promo with the code
// normalized to uppercase.
func New(code string, discountPercent decimal.Decimal, active bool) (*Promo, error) {
	normalized := NormalizeCode(code)
	if normalized == "" {
		return nil, &ValidationError{Field: "code", Reason: "is required"}
	}
	if discountPercent.IsNegative() || discountPercent.GreaterThan(hundred) {
		return nil, &ValidationError{Field: "discount_percent", Reason: "must be between 0 and 100"}
	}

	return &Promo{
		Code:            normalized,
		DiscountPercent: discountPercent,
		Active:          active,
	}, nil
}

// Repository persists promos in the document store.
type Repository struct {
	store docstore.Store
}

// NewRepository returns a Repository over the given store.
func NewRepository(store docstore.Store) *Repository {
	return &Repository{store: store}
}

// Create inserts the promo and fills in the store-assigned id.
func (r *Repository) Create(ctx context.Context, p *Promo) error {
	id, err := r.store.Insert(ctx, docstore.Promos, p)
	if err != nil {
		return errors.Wrap(err, "insert promo")
	}
	p.ID = id
	return nil
}

// FindByCode looks up a promo case-insensitively. It returns the promo
// whether or not it is active; callers that require an active promo check
// the Active flag themselves.
func (r *Repository) FindByCode(ctx context.Context, code string) (*Promo, error) {
	doc, err := r.store.FindOne(ctx, docstore.Promos, docstore.Filter{"code": NormalizeCode(code)})
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrapf(err, "find promo %q", code)
	}

	var p Promo
	if err := json.Unmarshal(doc.Data, &p); err != nil {
		return nil, errors.Wrapf(err, "decode promo %q", doc.ID)
	}
	p.ID = doc.ID
	return &p, nil
}

// Count returns the total number of promos.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	n, err := r.store.Count(ctx, docstore.Promos, nil)
	if err != nil {
		return 0, errors.Wrap(err, "count promos")
	}
	return n, nil
}
