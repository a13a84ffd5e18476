package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/ivlev/chartink/internal/analyzer"
)

var csvHeader = []string{"ID", "Label", "Type", "Pixel Count", "Ink Pixels", "Full Area"}

// WriteCSV writes one row per layer followed by a summary block. Fields with
// commas, quotes or line breaks are quoted with doubled inner quotes.
func WriteCSV(w io.Writer, res *analyzer.AnalysisResult) error {
	cw := csv.NewWriter(w)

	records := [][]string{csvHeader}
	for _, l := range res.Layers {
		kind := "Non-Data"
		if l.IsData {
			kind = "Data"
		}
		full := "No"
		if l.CountFullArea {
			full = "Yes"
		}
		records = append(records, []string{
			l.ID,
			l.Label,
			kind,
			strconv.Itoa(l.PixelCount),
			strconv.Itoa(l.InkPixels),
			full,
		})
	}

	records = append(records,
		[]string{},
		[]string{"Summary", "Value"},
		[]string{"Total Image Pixels", strconv.Itoa(res.TotalImagePixels)},
		[]string{"Total Ink Pixels", strconv.Itoa(res.TotalInkPixels)},
		[]string{"Total Data Pixels", strconv.Itoa(res.TotalDataPixels)},
		[]string{"Total Non-Data Pixels", strconv.Itoa(res.TotalNonDataPixels)},
		[]string{"Density Ratio", strconv.FormatFloat(res.DensityRatio, 'f', 4, 64)},
		[]string{"Efficiency Ratio", strconv.FormatFloat(res.EfficiencyRatio, 'f', 4, 64)},
	)

	if err := cw.WriteAll(records); err != nil {
		return err
	}
	return cw.Error()
}
