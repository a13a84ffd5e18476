package analyzer

import (
	"github.com/ivlev/chartink/internal/raster"
)

// Analyze attributes every pixel covered by regions to the topmost region
// containing it, counts ink per region, and computes the summary ratios.
//
// Regions are read, never modified. Layers come back in input order.
func Analyze(buf *raster.Buffer, regions []Region, cls InkClassifier) *AnalysisResult {
	result := &AnalysisResult{
		Layers:           make([]LayerResult, len(regions)),
		TotalImagePixels: buf.Len(),
	}

	for i, r := range regions {
		result.Layers[i] = LayerResult{
			ID:            r.ID,
			Label:         r.Label,
			Color:         r.Color,
			IsData:        r.IsData,
			CountFullArea: r.CountFullArea,
		}
	}

	if result.TotalImagePixels == 0 {
		return result
	}

	result.TotalInkPixels = cls.CountInk(buf)

	claimed := raster.GetMask(result.TotalImagePixels)
	defer raster.PutMask(claimed)

	// Topmost region first, so contested pixels go to the latest entry.
	for i := len(regions) - 1; i >= 0; i-- {
		layer := &result.Layers[i]
		layer.PixelCount, layer.InkPixels = claimRegion(buf, regions[i], cls, claimed)
	}

	for _, layer := range result.Layers {
		if layer.IsData {
			result.TotalDataPixels += layer.InkPixels
		} else {
			result.TotalNonDataPixels += layer.InkPixels
		}
	}

	result.DensityRatio = ratio(result.TotalDataPixels, result.TotalImagePixels)
	result.EfficiencyRatio = ratio(result.TotalDataPixels, result.TotalInkPixels)

	return result
}

// claimRegion marks every unclaimed pixel of r as claimed and returns how
// many it took and how many of those are ink.
func claimRegion(buf *raster.Buffer, r Region, cls InkClassifier, claimed *raster.Mask) (pixels, ink int) {
	x0, y0, x1, y1 := r.Rect.Clamp(buf.Width, buf.Height)

	for y := y0; y < y1; y++ {
		row := y * buf.Width
		for x := x0; x < x1; x++ {
			if claimed.TestAndSet(row + x) {
				continue
			}
			pixels++

			if r.CountFullArea {
				ink++
				continue
			}
			cr, cg, cb, ca := buf.At(x, y)
			if cls.IsInk(Color{R: cr, G: cg, B: cb}, ca) {
				ink++
			}
		}
	}

	return pixels, ink
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}
