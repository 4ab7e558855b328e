package order

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/craftpay/autodonate/internal/domain/promo"
	"github.com/craftpay/autodonate/internal/domain/rank"
)

var hundred = decimal.NewFromInt(100)

// RankSource resolves rank ids to ranks. Satisfied by rank.Repository.
type RankSource interface {
	Get(ctx context.Context, id string) (*rank.Rank, error)
}

// PromoSource resolves promo codes. Satisfied by promo.Repository.
type PromoSource interface {
	FindByCode(ctx context.Context, code string) (*promo.Promo, error)
}

// PricedCart is the pricing engine's output: snapshot line items, the final
// amount, and the normalized promo code (empty when none was supplied).
type PricedCart struct {
	Items     []Item
	Amount    decimal.Decimal
	PromoCode string
}

// Pricer turns a cart and an optional promo code into priced line items and
// a total.
type Pricer struct {
	ranks  RankSource
	promos PromoSource
}

// NewPricer creates a Pricer with the required lookups.
func NewPricer(ranks RankSource, promos PromoSource) *Pricer {
	return &Pricer{ranks: ranks, promos: promos}
}

// Price resolves every cart item fail-fast, sums the quantity-weighted
// subtotal in cart order, and applies the promo discount.
//
// A supplied promo code must resolve to an active promo; an unknown or
// inactive code fails the whole cart with promo.ErrNotFound rather than
// silently skipping the discount. The final amount is rounded to 2 decimal
// places, half away from zero.
func (p *Pricer) Price(ctx context.Context, cart []CartItem, promoCode string) (*PricedCart, error) {
	if len(cart) == 0 {
		return nil, ErrEmptyCart
	}

	items := make([]Item, 0, len(cart))
	total := decimal.Zero
	for _, ci := range cart {
		if ci.Quantity < 1 {
			return nil, &InvalidQuantityError{RankID: ci.RankID}
		}

		rk, err := p.ranks.Get(ctx, ci.RankID)
		if err != nil {
			if errors.Is(err, rank.ErrNotFound) {
				return nil, &RankNotFoundError{RankID: ci.RankID}
			}
			return nil, errors.Wrapf(err, "resolve rank %s", ci.RankID)
		}

		items = append(items, Item{
			RankID:   rk.ID,
			Quantity: ci.Quantity,
			Price:    rk.Price,
		})
		total = total.Add(rk.Price.Mul(decimal.NewFromInt(int64(ci.Quantity))))
	}

	code := promo.NormalizeCode(promoCode)
	if code != "" {
		pr, err := p.promos.FindByCode(ctx, code)
		if err != nil {
			if errors.Is(err, promo.ErrNotFound) {
				return nil, promo.ErrNotFound
			}
			return nil, errors.Wrapf(err, "resolve promo %s", code)
		}
		if !pr.Active {
			return nil, promo.ErrNotFound
		}
		total = total.Mul(hundred.Sub(pr.DiscountPercent)).Div(hundred)
	}

	return &PricedCart{
		Items:     items,
		Amount:    total.Round(2),
		PromoCode: code,
	}, nil
}
