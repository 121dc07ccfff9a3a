package domain

// Asset is a tradeable asset from the static catalog. Assets are loaded at
// process start and immutable thereafter.
type Asset struct {
	ID         string  `json:"id"`         // catalog identifier, e.g. "btc"
	Name       string  `json:"name"`       // display name, e.g. "Bitcoin"
	Symbol     string  `json:"symbol"`     // price-feed symbol, e.g. "BTCUSDT"
	Volatility float64 `json:"volatility"` // base volatility coefficient, > 0
}

// Timeframe is a named bet duration mapped to an hour count.
type Timeframe struct {
	Name  string `json:"name"`  // e.g. "24-hour"
	Hours int    `json:"hours"` // positive
}
