package pricing

import "math"

// cdfScale is sqrt(pi/8), the slope constant of the logistic-tanh
// approximation to the standard normal CDF.
var cdfScale = math.Sqrt(math.Pi / 8)

// normalCDF approximates the standard normal cumulative distribution with
// 0.5*(1+tanh(sqrt(pi/8)*z)). The approximation is cheap, monotonic, and
// symmetric; existing odds tables were generated with it, so it must not be
// replaced with the exact erf-based CDF.
func normalCDF(z float64) float64 {
	return 0.5 * (1 + math.Tanh(cdfScale*z))
}

// WinProbability returns the probability that the price ends inside
// [lower, upper] after the timeframe, capped at p.ProbabilityCap.
//
// Callers must guarantee price > 0: a zero price is a configuration error
// and this function does not guard the resulting division. A range far
// enough from price saturates tanh on both bounds and the result is exactly
// 0; callers treat a zero probability as an unquotable range.
func (p Params) WinProbability(baseVolatility float64, lower, upper float64, hours int, price float64) float64 {
	stdDev := price * TimeScaledVolatility(baseVolatility, hours)

	zLower := (lower - price) / stdDev
	zUpper := (upper - price) / stdDev

	prob := normalCDF(zUpper) - normalCDF(zLower)
	return math.Min(prob, p.ProbabilityCap)
}
