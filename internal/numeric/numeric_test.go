package numeric

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMap(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name                                  string
		n, start1, stop1, start2, stop2, want float64
	}{
		{"midpoint", 5, 0, 10, 0, 100, 50},
		{"below range clamped", -5, 0, 10, 0, 100, 0},
		{"above range clamped", 15, 0, 10, 0, 100, 100},
		{"start", 0, 0, 10, 0, 100, 0},
		{"stop", 10, 0, 10, 0, 100, 100},
		{"inverted target", 2.5, 0, 10, 100, 0, 75},
		{"inverted source", 7.5, 10, 0, 0, 1, 0.25},
		{"offset ranges", 15, 10, 20, -1, 1, 0},
		{"zero width source below", 3, 5, 5, 10, 20, 10},
		{"zero width source above", 7, 5, 5, 10, 20, 20},
		{"zero width source at start", 5, 5, 5, 10, 20, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Map(tt.n, tt.start1, tt.stop1, tt.start2, tt.stop2)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}
