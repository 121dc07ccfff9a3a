package pricing

import (
	"math"

	"github.com/rangebook/rangebook/internal/domain"
)

// CombinedProbability aggregates an ordered sequence of legs into a single
// win probability: the geometric mean of the leg probabilities, discounted
// by the cross-leg correlation factor and boosted by the leg-count bonus.
//
// The result is intentionally NOT capped here: live display shows the raw
// combined value so callers can surface an over-threshold state before
// submission. An empty sequence returns 0, meaning "no parlay".
func (p Params) CombinedProbability(legs []domain.Leg) float64 {
	if len(legs) == 0 {
		return 0
	}

	product := 1.0
	for _, leg := range legs {
		product *= leg.Probability
	}
	geometricMean := math.Pow(product, 1/float64(len(legs)))

	return geometricMean * p.CorrelationFactor * p.legCountBonus(len(legs))
}

// legCountBonus is a promotional policy constant, not a statistical
// adjustment: 2-leg and 3-leg parlays get a boost, everything else does not.
func (p Params) legCountBonus(n int) float64 {
	switch n {
	case 2:
		return p.TwoLegBonus
	case 3:
		return p.ThreeLegBonus
	default:
		return 1.0
	}
}

// CombinedOdds returns the payout multiplier for the parlay. Unlike the
// display probability, the odds always use the capped probability. An empty
// sequence returns 0 odds.
func (p Params) CombinedOdds(legs []domain.Leg) (float64, error) {
	prob := p.CombinedProbability(legs)
	if prob == 0 {
		return 0, nil
	}
	return p.PayoutOdds(math.Min(prob, p.ProbabilityCap))
}
