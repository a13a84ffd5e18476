package analyzer

import "math"

// Color is an 8-bit RGB triple used for background and similarity checks.
type Color struct {
	R uint8 `json:"r" yaml:"r"`
	G uint8 `json:"g" yaml:"g"`
	B uint8 `json:"b" yaml:"b"`
}

// White is the fallback background.
var White = Color{R: 255, G: 255, B: 255}

// Rect is an axis-aligned rectangle in pixel units. Width and Height may be
// negative when the rectangle was dragged up or left.
type Rect struct {
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Normalize returns the same area with a top-left origin and non-negative extents.
func (r Rect) Normalize() Rect {
	if r.Width < 0 {
		r.X += r.Width
		r.Width = -r.Width
	}
	if r.Height < 0 {
		r.Y += r.Height
		r.Height = -r.Height
	}
	return r
}

// Clamp normalizes r and snaps it to whole pixels inside a width x height
// raster, flooring the start and ceiling the end. Every bound lies in
// [0, width] or [0, height]. The result is empty (x0 >= x1 or y0 >= y1)
// when r does not overlap the raster or has a NaN coordinate.
func (r Rect) Clamp(width, height int) (x0, y0, x1, y1 int) {
	n := r.Normalize()
	x0, x1 = clampSpan(n.X, n.X+n.Width, width)
	y0, y1 = clampSpan(n.Y, n.Y+n.Height, height)
	return x0, y0, x1, y1
}

// clampSpan bounds [start, end) to [0, limit] before converting, so huge or
// infinite coordinates never overflow int.
func clampSpan(start, end float64, limit int) (int, int) {
	if math.IsNaN(start) || math.IsNaN(end) {
		return 0, 0
	}
	lim := float64(limit)
	start = math.Min(math.Max(0, start), lim)
	end = math.Min(math.Max(0, end), lim)
	return int(math.Floor(start)), int(math.Ceil(end))
}

// Region is a caller-defined, classified rectangle. Position in the input
// slice is its z-order: later regions are on top.
type Region struct {
	ID            string `json:"id" yaml:"id"`
	Rect          Rect   `json:"rect" yaml:"rect"`
	Label         string `json:"label" yaml:"label"`
	Color         string `json:"color" yaml:"color"`
	IsData        bool   `json:"isData" yaml:"data"`
	CountFullArea bool   `json:"countFullArea" yaml:"full_area"`
}

// LayerResult holds the exclusive pixel statistics of one region.
type LayerResult struct {
	ID            string `json:"id" yaml:"id"`
	Label         string `json:"label" yaml:"label"`
	Color         string `json:"color" yaml:"color"`
	IsData        bool   `json:"isData" yaml:"data"`
	PixelCount    int    `json:"pixelCount" yaml:"pixel_count"`
	InkPixels     int    `json:"inkPixels" yaml:"ink_pixels"`
	CountFullArea bool   `json:"countFullArea" yaml:"full_area"`
}

// AnalysisResult is the outcome of one Analyze call.
//
// TotalInkPixels is measured over the whole image and is not the sum of the
// layers' ink. Ink outside every region therefore lowers EfficiencyRatio, and
// full-area layers can push TotalDataPixels above TotalInkPixels.
type AnalysisResult struct {
	Layers             []LayerResult `json:"layers" yaml:"layers"`
	TotalImagePixels   int           `json:"totalImagePixels" yaml:"total_image_pixels"`
	TotalInkPixels     int           `json:"totalInkPixels" yaml:"total_ink_pixels"`
	TotalDataPixels    int           `json:"totalDataPixels" yaml:"total_data_pixels"`
	TotalNonDataPixels int           `json:"totalNonDataPixels" yaml:"total_non_data_pixels"`
	DensityRatio       float64       `json:"densityRatio" yaml:"density_ratio"`
	EfficiencyRatio    float64       `json:"efficiencyRatio" yaml:"efficiency_ratio"`
}
