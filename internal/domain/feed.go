package domain

import "context"

// PriceFeed is the external live price source. Implementations must return
// ErrPriceUnavailable (possibly wrapped) rather than a zero price when the
// source fails; the pricing core refuses to build a leg without a price.
type PriceFeed interface {
	CurrentPrice(ctx context.Context, symbol string) (float64, error)
}
