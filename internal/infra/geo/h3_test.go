package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

func TestH3Grid_CellAt(t *testing.T) {
	g := NewH3Grid()

	cell, err := g.CellAt(domain.Coordinates{Latitude: 40.0, Longitude: -3.0})
	require.NoError(t, err)
	assert.True(t, g.IsValid(cell))

	again, err := g.CellAt(domain.Coordinates{Latitude: 40.0, Longitude: -3.0})
	require.NoError(t, err)
	assert.Equal(t, cell, again)

	_, err = g.CellAt(domain.Coordinates{Latitude: 95, Longitude: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidCoordinates)
}

func TestH3Grid_Ring(t *testing.T) {
	g := NewH3Grid()
	center, err := g.CellAt(domain.Coordinates{Latitude: 40.0, Longitude: -3.0})
	require.NoError(t, err)

	zero, err := g.Ring(center, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{center}, zero)

	one, err := g.Ring(center, 1)
	require.NoError(t, err)
	assert.Len(t, one, 6)
	assert.NotContains(t, one, center)

	two, err := g.Ring(center, 2)
	require.NoError(t, err)
	assert.Len(t, two, 12)
	for _, c := range one {
		assert.NotContains(t, two, c)
	}
}

func TestH3Grid_InvalidCell(t *testing.T) {
	g := NewH3Grid()

	assert.False(t, g.IsValid("not-a-cell"))
	assert.False(t, g.IsValid(""))

	_, err := g.Ring("zzz", 1)
	assert.ErrorIs(t, err, domain.ErrInvalidCell)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
