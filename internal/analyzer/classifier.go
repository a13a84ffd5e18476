package analyzer

import (
	"math"

	"github.com/ivlev/chartink/internal/raster"
)

const (
	// OpacityFloor is the lowest alpha treated as opaque (~5% of 255).
	OpacityFloor = 13

	// DefaultThreshold is the RGB distance above which a pixel is ink.
	DefaultThreshold = 30.0
)

// InkClassifier decides which pixels are ink against a background colour.
type InkClassifier struct {
	Background Color
	Threshold  float64
}

// NewInkClassifier returns a classifier for a white background at the default threshold.
func NewInkClassifier() InkClassifier {
	return InkClassifier{
		Background: White,
		Threshold:  DefaultThreshold,
	}
}

// IsInk applies the classifier to one sample.
func (c InkClassifier) IsInk(sample Color, alpha uint8) bool {
	return IsInk(sample, alpha, c.Background, c.Threshold)
}

// CountInk counts ink pixels over the whole buffer.
func (c InkClassifier) CountInk(buf *raster.Buffer) int {
	n := buf.Len()
	ink := 0
	for i := 0; i < n; i++ {
		p := buf.Pix[i*4 : i*4+4 : i*4+4]
		if IsInk(Color{R: p[0], G: p[1], B: p[2]}, p[3], c.Background, c.Threshold) {
			ink++
		}
	}
	return ink
}

// IsInk reports whether a pixel differs from bg by strictly more than
// threshold. Pixels below the opacity floor are never ink.
func IsInk(sample Color, alpha uint8, bg Color, threshold float64) bool {
	if alpha < OpacityFloor {
		return false
	}
	return Distance(sample, bg) > threshold
}

// Distance is the Euclidean distance between two colours in RGB space.
func Distance(a, b Color) float64 {
	dr := float64(a.R) - float64(b.R)
	dg := float64(a.G) - float64(b.G)
	db := float64(a.B) - float64(b.B)
	return math.Sqrt(dr*dr + dg*dg + db*db)
}
