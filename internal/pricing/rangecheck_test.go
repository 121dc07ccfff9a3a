package pricing

import "testing"

func TestRangeValid(t *testing.T) {
	p := DefaultParams()

	tests := []struct {
		name  string
		lower float64
		upper float64
		price float64
		want  bool
	}{
		{"2pct width is valid", 49500, 50500, 50000, true},
		{"exactly narrow limit", 49750, 50250, 50000, true},
		{"exactly wide limit", 42500, 57500, 50000, true},
		{"below narrow limit", 49900, 50100, 50000, false},
		{"above wide limit", 40000, 60000, 50000, false},
		{"zero width too narrow", 50000, 50000, 50000, false},
		{"inverted bounds rejected", 50500, 49500, 50000, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.RangeValid(tt.lower, tt.upper, tt.price); got != tt.want {
				t.Errorf("RangeValid(%v, %v, %v) = %v, want %v", tt.lower, tt.upper, tt.price, got, tt.want)
			}
		})
	}
}
