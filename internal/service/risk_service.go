package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rangebook/rangebook/internal/domain"
	"github.com/rangebook/rangebook/internal/pricing"
)

// RiskConfig holds the treasury protection limits.
type RiskConfig struct {
	TreasurySize      float64
	MaxPayoutFraction float64
}

// RiskService is the gate every submission passes before a ticket exists.
// A fixed treasury backs all payouts, so the gate bounds both the win
// probability it will price and the worst-case payout of any single ticket.
type RiskService struct {
	cfg    RiskConfig
	params pricing.Params
	logger *slog.Logger
}

// NewRiskService creates a RiskService with all required dependencies.
func NewRiskService(cfg RiskConfig, params pricing.Params, logger *slog.Logger) *RiskService {
	return &RiskService{
		cfg:    cfg,
		params: params,
		logger: logger,
	}
}

// EvaluateSubmission validates a parlay and stake against the risk limits
// and mints a pending Ticket on acceptance. It returns the first failed
// check as a wrapped sentinel.
//
// Checks performed:
//  1. Parlay must have at least one leg
//  2. Stake must be positive
//  3. Combined win probability must not exceed the cap
//  4. Potential payout must not exceed the treasury exposure limit
func (s *RiskService) EvaluateSubmission(ctx context.Context, legs []domain.Leg, stake float64) (domain.Ticket, error) {
	// Check 1: non-empty parlay.
	if len(legs) == 0 {
		return domain.Ticket{}, fmt.Errorf("risk_service: %w", domain.ErrEmptyParlay)
	}

	// Check 2: positive stake.
	if stake <= 0 {
		return domain.Ticket{}, fmt.Errorf("risk_service: stake %v: %w", stake, domain.ErrInvalidStake)
	}

	// Check 3: combined probability within the cap. The display value is
	// uncapped, so an over-cap parlay is rejected here rather than silently
	// repriced.
	combined := s.params.CombinedProbability(legs)
	if combined > s.params.ProbabilityCap {
		s.logger.WarnContext(ctx, "risk_service: probability cap exceeded",
			slog.Float64("combined", combined),
			slog.Float64("cap", s.params.ProbabilityCap),
			slog.Int("legs", len(legs)),
		)
		return domain.Ticket{}, fmt.Errorf("risk_service: combined probability %.4f exceeds cap %.2f: %w",
			combined, s.params.ProbabilityCap, domain.ErrProbabilityCapExceeded)
	}

	odds, err := s.params.CombinedOdds(legs)
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("risk_service: %w", err)
	}

	// Check 4: worst-case payout within the treasury exposure limit.
	maxPayout := s.cfg.TreasurySize * s.cfg.MaxPayoutFraction
	potential := stake * odds
	if potential > maxPayout {
		s.logger.WarnContext(ctx, "risk_service: exposure cap exceeded",
			slog.Float64("potential_payout", potential),
			slog.Float64("max_payout", maxPayout),
		)
		return domain.Ticket{}, fmt.Errorf("risk_service: potential payout %.2f exceeds limit %.2f: %w",
			potential, maxPayout, domain.ErrExposureCapExceeded)
	}

	ticket := domain.Ticket{
		ID:        uuid.NewString(),
		Legs:      legs,
		Stake:     stake,
		Odds:      odds,
		Result:    domain.TicketResultPending,
		CreatedAt: time.Now().UTC(),
	}

	s.logger.InfoContext(ctx, "risk_service: ticket accepted",
		slog.String("ticket_id", ticket.ID),
		slog.Int("legs", len(legs)),
		slog.Float64("stake", stake),
		slog.Float64("odds", odds),
		slog.Float64("potential_payout", potential),
	)

	return ticket, nil
}
