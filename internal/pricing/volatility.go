// Package pricing implements the core range-bet math: the volatility model,
// the win-probability engine, payout odds, range validation, and multi-leg
// parlay aggregation. Every function here is pure; all configuration enters
// through the Params struct.
package pricing

import "math"

// Params holds the house pricing policy. The defaults reproduce the
// reference odds tables exactly; the correlation factor and leg-count
// bonuses are fixed business constants with no statistical derivation and
// must not be "corrected" without notice.
type Params struct {
	HouseEdge         float64 // fraction subtracted from fair odds
	NarrowLimit       float64 // minimum range width as a fraction of price
	WideLimit         float64 // maximum range width as a fraction of price
	ProbabilityCap    float64 // maximum probability ever priced
	CorrelationFactor float64 // cross-leg correlation discount
	TwoLegBonus       float64 // promotional multiplier for 2-leg parlays
	ThreeLegBonus     float64 // promotional multiplier for 3-leg parlays
}

// DefaultParams returns the reference house policy.
func DefaultParams() Params {
	return Params{
		HouseEdge:         0.07,
		NarrowLimit:       0.01,
		WideLimit:         0.30,
		ProbabilityCap:    0.25,
		CorrelationFactor: 0.85,
		TwoLegBonus:       1.3,
		ThreeLegBonus:     1.5,
	}
}

// TimeScaledVolatility converts a base volatility coefficient and a
// timeframe into a standard-deviation fraction of price. Volatility scales
// with the square root of elapsed time, normalized to a 24-hour reference;
// a short-horizon multiplier compensates for the square-root model
// underestimating short-term noise.
func TimeScaledVolatility(base float64, hours int) float64 {
	scale := math.Sqrt(float64(hours) / 24.0)

	var m float64
	switch {
	case hours <= 1:
		m = 1.3
	case hours <= 4:
		m = 1.2
	case hours <= 24:
		m = 1.1
	default:
		m = 1.0
	}

	return base * scale * m
}
