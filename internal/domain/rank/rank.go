// Package rank defines the purchasable donation ranks and their persistence.
package rank

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/craftpay/autodonate/internal/docstore"
)

// ErrNotFound is returned when a requested rank does not exist.
var ErrNotFound = errors.New("rank not found")

// DefaultColor is applied when a rank is created without an explicit color.
const DefaultColor = "#22d3ee"

// Rank is a donation tier sold on the storefront. Ranks are immutable once
// created: there is no update or delete path, and orders snapshot the price
// at purchase time.
type Rank struct {
	ID          string          `json:"-"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Color       string          `json:"color"`
	Perks       []string        `json:"perks"`
	Popular     bool            `json:"popular"`
	Icon        string          `json:"icon,omitempty"`
}

// ValidationError describes a rejected rank field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid rank: " + e.Field + " " + e.Reason
}

// Params holds the caller-supplied fields for a new rank.
type Params struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Color       string
	Perks       []string
	Popular     bool
	Icon        string
}

// New validates params, applies defaults, and returns the rank.
func New(p Params) (*Rank, error) {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return nil, &ValidationError{Field: "name", Reason: "is required"}
	}
	if strings.TrimSpace(p.Description) == "" {
		return nil, &ValidationError{Field: "description", Reason: "is required"}
	}
	if p.Price.IsNegative() {
		return nil, &ValidationError{Field: "price", Reason: "must not be negative"}
	}

	color := p.Color
	if color == "" {
		color = DefaultColor
	}
	perks := p.Perks
	if perks == nil {
		perks = []string{}
	}

	return &Rank{
		Name:        name,
		Description: p.Description,
		Price:       p.Price,
		Color:       color,
		Perks:       perks,
		Popular:     p.Popular,
		Icon:        p.Icon,
	}, nil
}

// Repository persists ranks in the document store.
type Repository struct {
	store docstore.Store
}

// NewRepository returns a Repository over the given store.
func NewRepository(store docstore.Store) *Repository {
	return &Repository{store: store}
}

// Create inserts the rank and fills in the store-assigned id.
func (r *Repository) Create(ctx context.Context, rk *Rank) error {
	id, err := r.store.Insert(ctx, docstore.Ranks, rk)
	if err != nil {
		return errors.Wrap(err, "insert rank")
	}
	rk.ID = id
	return nil
}

// List returns ranks in creation order. A limit <= 0 returns all of them.
func (r *Repository) List(ctx context.Context, limit int) ([]Rank, error) {
	docs, err := r.store.Find(ctx, docstore.Ranks, nil, limit)
	if err != nil {
		return nil, errors.Wrap(err, "list ranks")
	}

	ranks := make([]Rank, 0, len(docs))
	for _, d := range docs {
		rk, err := decode(d)
		if err != nil {
			return nil, err
		}
		ranks = append(ranks, *rk)
	}
	return ranks, nil
}

// Get returns the rank with the given id. Unknown and malformed ids are both
// ErrNotFound: an id that cannot exist resolves to nothing, same as one that
// simply is not there.
func (r *Repository) Get(ctx context.Context, id string) (*Rank, error) {
	doc, err := r.store.FindOne(ctx, docstore.Ranks, docstore.Filter{docstore.IDField: id})
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrapf(err, "get rank %q", id)
	}
	return decode(*doc)
}

// Count returns the total number of ranks.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	n, err := r.store.Count(ctx, docstore.Ranks, nil)
	if err != nil {
		return 0, errors.Wrap(err, "count ranks")
	}
	return n, nil
}

func decode(d docstore.Doc) (*Rank, error) {
	var rk Rank
	if err := json.Unmarshal(d.Data, &rk); err != nil {
		return nil, errors.Wrapf(err, "decode rank %q", d.ID)
	}
	rk.ID = d.ID
	return &rk, nil
}
