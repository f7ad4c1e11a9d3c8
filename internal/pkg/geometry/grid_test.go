package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/twpayne/go-geom"
)

func TestGrid_QueryFindsNearbyItems(t *testing.T) {
	grid := NewGrid(PrecisionFine)

	grid.Insert(1, BoundsAround(baseLon, baseLat, 50))
	grid.Insert(2, BoundsAround(baseLon+0.5, baseLat+0.5, 50)) // ~60 км в стороне

	got := grid.Query(BoundsAround(baseLon, baseLat, 300))
	assert.Equal(t, []int{1}, got)

	got = grid.Query(BoundsAround(baseLon+0.5, baseLat+0.5, 300))
	assert.Equal(t, []int{2}, got)
}

func TestGrid_ItemSpanningManyCells(t *testing.T) {
	grid := NewGrid(PrecisionFine)

	// длинная улица ~5 км
	b := geom.NewBounds(geom.XY).Set(baseLon, baseLat, baseLon+0.065, baseLat+0.001)
	grid.Insert(7, b)

	assert.Equal(t, []int{7}, grid.QueryPoint(baseLon+0.06, baseLat+0.0005))
	assert.Equal(t, []int{7}, grid.QueryPoint(baseLon+0.001, baseLat+0.0005))
	assert.Empty(t, grid.QueryPoint(baseLon+0.2, baseLat+0.0005))
}

func TestGrid_OversizedItemsAlwaysReturned(t *testing.T) {
	grid := NewGrid(PrecisionFine)

	// область ~200x200 км не помещается в лимит ячеек точной сетки
	grid.Insert(3, geom.NewBounds(geom.XY).Set(29.0, 45.5, 32.0, 47.5))
	grid.Insert(4, BoundsAround(baseLon, baseLat, 10))

	assert.Equal(t, []int{3}, grid.QueryPoint(31.9, 47.4))
	assert.Equal(t, []int{3, 4}, grid.QueryPoint(baseLon, baseLat))
}

func TestGrid_NilBoundsIgnored(t *testing.T) {
	grid := NewGrid(PrecisionCoarse)
	grid.Insert(1, nil)
	assert.Empty(t, grid.QueryPoint(baseLon, baseLat))
}
