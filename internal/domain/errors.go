package domain

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrUnknownAsset     = errors.New("unknown asset")
	ErrUnknownTimeframe = errors.New("unknown timeframe")
	ErrPriceUnavailable = errors.New("price unavailable")

	// Validation rejections: expected, recoverable, user-facing.
	ErrInvalidInput           = errors.New("invalid input")
	ErrInvalidRange           = errors.New("range width must fall within configured narrow/wide bounds")
	ErrEmptyParlay            = errors.New("parlay has no legs")
	ErrInvalidStake           = errors.New("stake must be positive")
	ErrProbabilityCapExceeded = errors.New("combined win probability exceeds cap")
	ErrExposureCapExceeded    = errors.New("potential payout exceeds treasury exposure cap")

	// Programmer/configuration errors: fail loudly, never produce NaN odds.
	ErrInvalidProbability = errors.New("probability must be in (0, 1]")
)
