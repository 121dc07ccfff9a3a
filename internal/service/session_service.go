package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rangebook/rangebook/internal/domain"
	"github.com/rangebook/rangebook/internal/ledger"
	"github.com/rangebook/rangebook/internal/notify"
	"github.com/rangebook/rangebook/internal/pricing"
)

// Slip is the client-facing view of the parlay under construction. The
// combined probability is the raw display value and may exceed the cap;
// the combined odds are always computed from the capped probability.
type Slip struct {
	Legs                []domain.Leg `json:"legs"`
	CombinedProbability float64      `json:"combined_probability"`
	CombinedOdds        float64      `json:"combined_odds"`
}

// SessionService owns the server-side bet slip: an ordered parlay being
// assembled leg by leg and eventually submitted as one ticket. All slip
// mutations and the whole submission path run under one mutex, so a ticket
// can never be built from a parlay that changed mid-check.
type SessionService struct {
	mu     sync.Mutex
	parlay domain.Parlay

	quotes   *QuoteService
	risk     *RiskService
	ledger   *ledger.Ledger
	store    domain.TicketStore // nil disables durable archival
	bus      domain.SignalBus   // nil disables event streaming
	notifier *notify.Notifier   // nil disables operator alerts
	params   pricing.Params
	logger   *slog.Logger
}

// NewSessionService creates a SessionService. store, bus, and notifier are
// optional and may be nil.
func NewSessionService(
	quotes *QuoteService,
	risk *RiskService,
	led *ledger.Ledger,
	store domain.TicketStore,
	bus domain.SignalBus,
	notifier *notify.Notifier,
	params pricing.Params,
	logger *slog.Logger,
) *SessionService {
	return &SessionService{
		quotes:   quotes,
		risk:     risk,
		ledger:   led,
		store:    store,
		bus:      bus,
		notifier: notifier,
		params:   params,
		logger:   logger,
	}
}

// AddLeg prices a new leg and appends it to the slip. The leg keeps the
// price, probability, and odds it was built with even if the market moves
// before submission.
func (s *SessionService) AddLeg(ctx context.Context, assetID, timeframe string, lower, upper float64) (Slip, error) {
	leg, err := s.quotes.BuildLeg(ctx, assetID, timeframe, lower, upper)
	if err != nil {
		return Slip{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.parlay.Legs = append(s.parlay.Legs, leg)
	return s.slipLocked(), nil
}

// RemoveLeg deletes the leg at index, preserving the order of the rest.
func (s *SessionService) RemoveLeg(index int) (Slip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.parlay.Legs) {
		return Slip{}, fmt.Errorf("session_service: leg index %d out of range [0, %d): %w",
			index, len(s.parlay.Legs), domain.ErrInvalidInput)
	}
	s.parlay.Legs = append(s.parlay.Legs[:index], s.parlay.Legs[index+1:]...)
	return s.slipLocked(), nil
}

// Clear empties the slip.
func (s *SessionService) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.parlay.Legs = nil
}

// Slip returns the current slip view.
func (s *SessionService) Slip() Slip {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.slipLocked()
}

// Submit runs the risk gate over the current slip and, on acceptance,
// records the ticket, archives it, clears the slip, and emits the accepted
// event. Archival and notification failures are logged but do not void a
// ticket the ledger already holds.
func (s *SessionService) Submit(ctx context.Context, stake float64) (domain.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ticket, err := s.risk.EvaluateSubmission(ctx, s.parlay.Snapshot(), stake)
	if err != nil {
		return domain.Ticket{}, err
	}

	s.ledger.Record(ticket)
	s.parlay.Legs = nil

	if s.store != nil {
		if err := s.store.Insert(ctx, ticket); err != nil {
			s.logger.ErrorContext(ctx, "session_service: ticket archive failed",
				slog.String("ticket_id", ticket.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	s.publishAccepted(ctx, ticket)

	if s.notifier != nil {
		_ = s.notifier.Notify(ctx, "ticket_accepted",
			"Ticket accepted",
			fmt.Sprintf("id=%s legs=%d stake=%.2f odds=%.2fx payout=%.2f",
				ticket.ID, len(ticket.Legs), ticket.Stake, ticket.Odds, ticket.PotentialPayout()),
		)
	}

	return ticket, nil
}

func (s *SessionService) publishAccepted(ctx context.Context, ticket domain.Ticket) {
	if s.bus == nil {
		return
	}
	payload, err := json.Marshal(map[string]any{
		"type":   "ticket_accepted",
		"ticket": ticket,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "session_service: marshal ticket event failed",
			slog.String("error", err.Error()),
		)
		return
	}
	if err := s.bus.Publish(ctx, domain.ChannelTickets, payload); err != nil {
		s.logger.WarnContext(ctx, "session_service: publish ticket event failed",
			slog.String("ticket_id", ticket.ID),
			slog.String("error", err.Error()),
		)
	}
}

// slipLocked builds the Slip view. Callers must hold s.mu.
func (s *SessionService) slipLocked() Slip {
	legs := s.parlay.Snapshot()
	slip := Slip{
		Legs:                legs,
		CombinedProbability: s.params.CombinedProbability(legs),
	}
	odds, err := s.params.CombinedOdds(legs)
	if err != nil {
		// Only reachable with corrupt leg probabilities; surface as 0 odds.
		s.logger.Error("session_service: combined odds failed",
			slog.String("error", err.Error()),
		)
		return slip
	}
	slip.CombinedOdds = odds
	return slip
}
