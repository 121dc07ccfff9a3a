package pricing

import (
	"fmt"

	"github.com/rangebook/rangebook/internal/domain"
)

// PayoutOdds converts a win probability into a payout multiplier under the
// configured house edge. A probability of zero would yield infinite odds, so
// out-of-range probabilities are rejected as a programmer error rather than
// propagated as NaN/Inf.
func (p Params) PayoutOdds(probability float64) (float64, error) {
	if probability <= 0 || probability > 1 {
		return 0, fmt.Errorf("pricing: payout odds for %v: %w", probability, domain.ErrInvalidProbability)
	}
	return (1 / probability) * (1 - p.HouseEdge), nil
}
