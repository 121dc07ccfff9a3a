package pricing

import (
	"math"
	"testing"
)

func TestTimeScaledVolatility(t *testing.T) {
	tests := []struct {
		name  string
		base  float64
		hours int
		want  float64
	}{
		{"1h gets 1.3x short-horizon boost", 0.02, 1, 0.02 * math.Sqrt(1.0/24.0) * 1.3},
		{"2h falls in the 4h bucket", 0.02, 2, 0.02 * math.Sqrt(2.0/24.0) * 1.2},
		{"4h boundary uses 1.2x", 0.02, 4, 0.02 * math.Sqrt(4.0/24.0) * 1.2},
		{"24h reference uses 1.1x", 0.02, 24, 0.022},
		{"48h has no boost", 0.02, 48, 0.02 * math.Sqrt2},
		{"168h scales by sqrt(7)", 0.03, 168, 0.03 * math.Sqrt(7)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TimeScaledVolatility(tt.base, tt.hours)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("TimeScaledVolatility(%v, %d) = %v, want %v", tt.base, tt.hours, got, tt.want)
			}
		})
	}
}

func TestTimeScaledVolatility_MonotonicInTime(t *testing.T) {
	// Within a single multiplier bucket, longer horizons must never shrink
	// the scaled volatility.
	prev := TimeScaledVolatility(0.02, 5)
	for hours := 6; hours <= 24; hours++ {
		got := TimeScaledVolatility(0.02, hours)
		if got < prev {
			t.Fatalf("volatility decreased from %v to %v at %dh", prev, got, hours)
		}
		prev = got
	}
}
