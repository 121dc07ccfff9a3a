package domain

// Leg is one priced range bet: the bettor wins if the asset's price is inside
// [Lower, Upper] at the end of the timeframe. A Leg is immutable once built;
// it is owned by the parlay that holds it until removed or submitted.
type Leg struct {
	AssetID     string  `json:"asset_id"`
	Timeframe   string  `json:"timeframe"`
	Lower       float64 `json:"lower"`
	Upper       float64 `json:"upper"`
	EntryPrice  float64 `json:"entry_price"` // feed price the leg was priced against
	Probability float64 `json:"probability"` // in (0, 0.25] after capping
	Odds        float64 `json:"odds"`        // payout multiplier
}

// Parlay is an in-progress ordered collection of legs not yet submitted.
// It exists only during ticket construction and is never persisted.
type Parlay struct {
	Legs []Leg `json:"legs"`
}

// Snapshot returns a copy of the parlay's legs so a caller can hold them
// without aliasing the mutable slice.
func (p *Parlay) Snapshot() []Leg {
	out := make([]Leg, len(p.Legs))
	copy(out, p.Legs)
	return out
}
