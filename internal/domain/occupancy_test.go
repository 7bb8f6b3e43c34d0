package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOccupancy(t *testing.T) {
	tests := []struct {
		name  string
		o     Occupancy
		full  bool
		empty bool
		rate  float64
	}{
		{name: "no spaces", o: Occupancy{}, full: true, empty: true, rate: 0},
		{name: "all free", o: Occupancy{FreeSpaces: 4, TotalSpaces: 4}, empty: true, rate: 0},
		{name: "half taken", o: Occupancy{FreeSpaces: 2, TotalSpaces: 4}, rate: 50},
		{name: "all taken", o: Occupancy{FreeSpaces: 0, TotalSpaces: 4}, full: true, rate: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.full, tt.o.IsFull())
			assert.Equal(t, tt.empty, tt.o.IsEmpty())
			assert.InDelta(t, tt.rate, tt.o.Rate(), 1e-9)
		})
	}
}
