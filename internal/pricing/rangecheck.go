package pricing

// RangeValid reports whether the requested price range is neither too narrow
// nor too wide relative to the current price. Width is (upper-lower)/price;
// a zero or negative width fails the narrow bound, so callers that skip sign
// pre-validation still get a rejection rather than negative odds downstream.
func (p Params) RangeValid(lower, upper, price float64) bool {
	width := (upper - lower) / price
	return width >= p.NarrowLimit && width <= p.WideLimit
}
