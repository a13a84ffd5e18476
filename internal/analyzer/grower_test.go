package analyzer

import (
	"testing"

	"github.com/ivlev/chartink/internal/raster"
)

var red = Color{R: 220, G: 30, B: 30}

func TestGrowBlock(t *testing.T) {
	buf := newUniform(20, 20, White)
	fill(buf, 5, 5, 11, 11, red, 255)

	rect, ok := NewRegionGrower().Grow(buf, 7, 7, 10)
	if !ok {
		t.Fatal("Expected a region, got none")
	}

	want := Rect{X: 3, Y: 3, Width: 10, Height: 10}
	if rect != want {
		t.Errorf("Expected %+v, got %+v", want, rect)
	}
}

func TestGrowClampsPaddingToBuffer(t *testing.T) {
	buf := newUniform(20, 20, White)
	fill(buf, 0, 0, 4, 4, red, 255)
	fill(buf, 16, 16, 20, 20, red, 255)

	g := NewRegionGrower()

	rect, ok := g.Grow(buf, 1, 1, 10)
	if !ok {
		t.Fatal("Expected top-left region")
	}
	if rect != (Rect{X: 0, Y: 0, Width: 6, Height: 6}) {
		t.Errorf("Unexpected top-left rect %+v", rect)
	}

	rect, ok = g.Grow(buf, 19, 19, 10)
	if !ok {
		t.Fatal("Expected bottom-right region")
	}
	if rect != (Rect{X: 14, Y: 14, Width: 6, Height: 6}) {
		t.Errorf("Unexpected bottom-right rect %+v", rect)
	}
}

func TestGrowNoRegion(t *testing.T) {
	buf := newUniform(20, 20, White)
	fill(buf, 5, 5, 8, 8, red, 255)   // 9-pixel speck
	fill(buf, 12, 12, 18, 18, red, 0) // transparent block

	tests := []struct {
		name   string
		buf    *raster.Buffer
		x, y   int
		reason string
	}{
		{"left of buffer", buf, -1, 5, "out of bounds"},
		{"below buffer", buf, 5, 20, "out of bounds"},
		{"transparent seed", buf, 14, 14, "transparent"},
		{"speck", buf, 6, 6, "too small"},
		{"nil buffer", nil, 0, 0, "no buffer"},
	}

	g := NewRegionGrower()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rect, ok := g.Grow(tt.buf, tt.x, tt.y, 10); ok {
				t.Errorf("Expected no region (%s), got %+v", tt.reason, rect)
			}
		})
	}
}

func TestGrowMinPixelsBoundary(t *testing.T) {
	buf := newUniform(20, 20, White)
	fill(buf, 2, 2, 12, 3, red, 255) // 10 pixels in a row

	rect, ok := NewRegionGrower().Grow(buf, 5, 2, 10)
	if !ok {
		t.Fatal("Expected exactly-minimum region to succeed")
	}
	if rect != (Rect{X: 0, Y: 0, Width: 14, Height: 5}) {
		t.Errorf("Unexpected rect %+v", rect)
	}
}

func TestGrowToleranceAgainstSeedColour(t *testing.T) {
	buf := newUniform(30, 10, White)
	near := Color{R: 200, G: 30, B: 30} // 20 units from red
	fill(buf, 0, 0, 10, 10, red, 255)
	fill(buf, 10, 0, 20, 10, near, 255)

	g := &RegionGrower{MinPixels: 10}

	rect, ok := g.Grow(buf, 2, 2, 10)
	if !ok || rect.Width != 10 {
		t.Errorf("Tight tolerance: expected width 10, got %+v (ok=%v)", rect, ok)
	}

	rect, ok = g.Grow(buf, 2, 2, 25)
	if !ok || rect.Width != 20 {
		t.Errorf("Loose tolerance: expected width 20, got %+v (ok=%v)", rect, ok)
	}
}

func TestGrowStopsAtTransparentPixels(t *testing.T) {
	buf := newUniform(21, 5, red)
	fill(buf, 10, 0, 11, 5, red, 0) // transparent column splits the strip

	rect, ok := (&RegionGrower{MinPixels: 10}).Grow(buf, 0, 0, 5)
	if !ok {
		t.Fatal("Expected left half")
	}
	if rect != (Rect{X: 0, Y: 0, Width: 10, Height: 5}) {
		t.Errorf("Unexpected rect %+v", rect)
	}
}

func TestGrowIsFourConnected(t *testing.T) {
	buf := newUniform(20, 20, White)
	fill(buf, 0, 0, 5, 5, red, 255)
	fill(buf, 5, 5, 10, 10, red, 255) // touches the first block only diagonally

	rect, ok := (&RegionGrower{MinPixels: 10}).Grow(buf, 0, 0, 5)
	if !ok {
		t.Fatal("Expected region")
	}
	if rect != (Rect{X: 0, Y: 0, Width: 5, Height: 5}) {
		t.Errorf("Diagonal neighbour leaked into region: %+v", rect)
	}
}

func TestGrowIdempotent(t *testing.T) {
	buf := newUniform(40, 40, White)
	fill(buf, 10, 12, 25, 30, red, 255)
	g := NewRegionGrower()

	first, ok1 := g.Grow(buf, 15, 15, 20)
	second, ok2 := g.Grow(buf, 15, 15, 20)

	if ok1 != ok2 || first != second {
		t.Errorf("Grow not idempotent: %+v/%v vs %+v/%v", first, ok1, second, ok2)
	}
}

func TestGrowLargeUniformImage(t *testing.T) {
	buf := newUniform(600, 400, red)

	rect, ok := NewRegionGrower().Grow(buf, 300, 200, 0)
	if !ok {
		t.Fatal("Expected full-image region")
	}
	if rect != (Rect{Width: 600, Height: 400}) {
		t.Errorf("Expected full image, got %+v", rect)
	}
}

func TestGrowFeedsAnalyze(t *testing.T) {
	buf := newUniform(20, 20, White)
	fill(buf, 5, 5, 11, 11, red, 255)

	rect, ok := NewRegionGrower().Grow(buf, 7, 7, 10)
	if !ok {
		t.Fatal("Expected region")
	}

	res := Analyze(buf, []Region{{ID: "wand", Rect: rect, IsData: true}}, NewInkClassifier())
	if res.Layers[0].PixelCount != 100 || res.Layers[0].InkPixels != 36 {
		t.Errorf("Expected 100 pixels / 36 ink, got %d/%d", res.Layers[0].PixelCount, res.Layers[0].InkPixels)
	}
	if res.EfficiencyRatio != 1.0 {
		t.Errorf("Expected efficiency 1.0, got %v", res.EfficiencyRatio)
	}
}
