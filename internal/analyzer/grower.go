package analyzer

import (
	"github.com/ivlev/chartink/internal/raster"
)

// RegionGrower implements seed-based contiguous colour selection (magic wand).
type RegionGrower struct {
	MinPixels int // Smallest region accepted
	Padding   int // Pixels added around the bounding box
}

// NewRegionGrower creates a grower with default settings
func NewRegionGrower() *RegionGrower {
	return &RegionGrower{
		MinPixels: 10,
		Padding:   2,
	}
}

// Grow flood-fills from (seedX, seedY) over 4-connected opaque pixels whose
// colour lies within tolerance of the seed colour, and returns the padded
// bounding rectangle. It reports false when the seed is outside the buffer,
// transparent, or the region is smaller than MinPixels.
func (g *RegionGrower) Grow(buf *raster.Buffer, seedX, seedY int, tolerance float64) (Rect, bool) {
	if !buf.Valid() || !buf.In(seedX, seedY) {
		return Rect{}, false
	}

	sr, sg, sb, sa := buf.At(seedX, seedY)
	if sa < OpacityFloor {
		return Rect{}, false
	}
	seed := Color{R: sr, G: sg, B: sb}

	w := buf.Width
	visited := raster.GetMask(buf.Len())
	defer raster.PutMask(visited)

	visited.Set(seedY*w + seedX)
	count := 1
	minX, minY := seedX, seedY
	maxX, maxY := seedX, seedY

	stack := []int{seedY*w + seedX}

	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		x, y := i%w, i/w

		// Add neighbors
		for _, n := range [4][2]int{{x + 1, y}, {x - 1, y}, {x, y + 1}, {x, y - 1}} {
			nx, ny := n[0], n[1]
			if !buf.In(nx, ny) {
				continue
			}
			ni := ny*w + nx
			if visited.Test(ni) {
				continue
			}
			r, gg, b, a := buf.At(nx, ny)
			if a < OpacityFloor || Distance(Color{R: r, G: gg, B: b}, seed) > tolerance {
				continue
			}

			visited.Set(ni)
			count++

			if nx < minX {
				minX = nx
			}
			if nx > maxX {
				maxX = nx
			}
			if ny < minY {
				minY = ny
			}
			if ny > maxY {
				maxY = ny
			}

			stack = append(stack, ni)
		}
	}

	if count < g.MinPixels {
		return Rect{}, false
	}

	x0 := max(0, minX-g.Padding)
	y0 := max(0, minY-g.Padding)
	x1 := min(buf.Width, maxX+1+g.Padding)
	y1 := min(buf.Height, maxY+1+g.Padding)

	return Rect{
		X:      float64(x0),
		Y:      float64(y0),
		Width:  float64(x1 - x0),
		Height: float64(y1 - y0),
	}, true
}
