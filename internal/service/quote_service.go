package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rangebook/rangebook/internal/catalog"
	"github.com/rangebook/rangebook/internal/domain"
	"github.com/rangebook/rangebook/internal/pricing"
)

// QuoteService builds priced legs: it resolves the asset and timeframe,
// fetches the entry price, validates the range, and runs the pricing core.
type QuoteService struct {
	catalog *catalog.Catalog
	prices  *PriceService
	params  pricing.Params
	logger  *slog.Logger
}

// NewQuoteService creates a QuoteService with all required dependencies.
func NewQuoteService(
	cat *catalog.Catalog,
	prices *PriceService,
	params pricing.Params,
	logger *slog.Logger,
) *QuoteService {
	return &QuoteService{
		catalog: cat,
		prices:  prices,
		params:  params,
		logger:  logger,
	}
}

// BuildLeg prices a single range bet. It returns a wrapped sentinel for
// every rejection so transports can map them to precise responses:
// ErrUnknownAsset, ErrUnknownTimeframe, ErrInvalidInput (inverted or empty
// bounds), ErrPriceUnavailable, ErrInvalidRange (bad width, or a range so
// far from spot that it prices to zero).
func (s *QuoteService) BuildLeg(ctx context.Context, assetID, timeframeName string, lower, upper float64) (domain.Leg, error) {
	asset, err := s.catalog.Asset(assetID)
	if err != nil {
		return domain.Leg{}, fmt.Errorf("quote_service: %w", err)
	}
	timeframe, err := s.catalog.Timeframe(timeframeName)
	if err != nil {
		return domain.Leg{}, fmt.Errorf("quote_service: %w", err)
	}

	if upper <= lower {
		return domain.Leg{}, fmt.Errorf("quote_service: upper bound %v must exceed lower bound %v: %w",
			upper, lower, domain.ErrInvalidInput)
	}

	price, err := s.prices.CurrentPrice(ctx, asset.Symbol)
	if err != nil {
		return domain.Leg{}, fmt.Errorf("quote_service: %w", err)
	}

	if !s.params.RangeValid(lower, upper, price) {
		return domain.Leg{}, fmt.Errorf("quote_service: [%v, %v] at price %v: %w",
			lower, upper, price, domain.ErrInvalidRange)
	}

	probability := s.params.WinProbability(asset.Volatility, lower, upper, timeframe.Hours, price)
	if probability <= 0 {
		// A width-valid range placed far enough from spot saturates the CDF
		// approximation and prices to zero. Unquotable, not a server fault.
		return domain.Leg{}, fmt.Errorf("quote_service: [%v, %v] at price %v prices to zero probability: %w",
			lower, upper, price, domain.ErrInvalidRange)
	}
	odds, err := s.params.PayoutOdds(probability)
	if err != nil {
		return domain.Leg{}, fmt.Errorf("quote_service: %w", err)
	}

	leg := domain.Leg{
		AssetID:     asset.ID,
		Timeframe:   timeframe.Name,
		Lower:       lower,
		Upper:       upper,
		EntryPrice:  price,
		Probability: probability,
		Odds:        odds,
	}

	s.logger.DebugContext(ctx, "quote_service: leg priced",
		slog.String("asset_id", asset.ID),
		slog.String("timeframe", timeframe.Name),
		slog.Float64("probability", probability),
		slog.Float64("odds", odds),
	)

	return leg, nil
}
