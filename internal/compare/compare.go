package compare

import (
	"errors"
	"fmt"
	"math"

	"github.com/ivlev/chartink/internal/analyzer"
	"github.com/ivlev/chartink/internal/reference"
)

var (
	ErrMissingResult   = errors.New("analysis result is missing")
	ErrInvalidResult   = errors.New("analysis result is invalid")
	ErrInvalidMetadata = errors.New("reference metadata is invalid")
)

// Compare grades user against a reference result. Unlike the analyzer it
// refuses bad input: a comparison without valid operands is an error.
func Compare(user, ref *analyzer.AnalysisResult, meta *reference.Metadata) (*Result, error) {
	if err := validateResult("user", user); err != nil {
		return nil, err
	}
	if err := validateResult("reference", ref); err != nil {
		return nil, err
	}
	if err := meta.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMetadata, err)
	}

	res := &Result{
		User:      user,
		Reference: ref,
		Metadata:  *meta,
		Metrics:   ComputeMetrics(user.EfficiencyRatio, ref.EfficiencyRatio),
		Breakdown: ComputeBreakdown(user, ref),
	}
	res.Interpretation = Interpret(res)

	return res, nil
}

// ComputeMetrics derives the difference metrics from two efficiency ratios.
func ComputeMetrics(userEff, refEff float64) Metrics {
	abs := userEff - refEff

	var rel float64
	switch {
	case refEff == 0 && userEff > 0:
		rel = math.Inf(1)
	case refEff == 0:
		rel = 0
	default:
		rel = abs / refEff * 100
	}

	return Metrics{
		UserEfficiency:      userEff,
		ReferenceEfficiency: refEff,
		AbsoluteDifference:  abs,
		RelativeDifference:  Percent(rel),
		EfficiencyGap:       math.Abs(abs),
	}
}

// ComputeBreakdown compares the pixel totals of two results.
func ComputeBreakdown(user, ref *analyzer.AnalysisResult) Breakdown {
	nonData := user.TotalNonDataPixels - ref.TotalNonDataPixels
	return Breakdown{
		DataInkDiff:                user.TotalDataPixels - ref.TotalDataPixels,
		NonDataInkDiff:             nonData,
		ExcessNonDataInkDifference: max(0, nonData),
	}
}

// GradeFor maps a relative difference in percent to a grade. Beating the
// reference is always excellent.
func GradeFor(relativeDifference float64) Grade {
	switch {
	case relativeDifference >= -10:
		return GradeExcellent
	case relativeDifference >= -25:
		return GradeGood
	case relativeDifference >= -40:
		return GradeFair
	default:
		return GradePoor
	}
}

func validateResult(name string, r *analyzer.AnalysisResult) error {
	if r == nil {
		return fmt.Errorf("%s: %w", name, ErrMissingResult)
	}
	if r.TotalImagePixels < 0 || r.TotalInkPixels < 0 || r.TotalDataPixels < 0 || r.TotalNonDataPixels < 0 {
		return fmt.Errorf("%s: negative pixel total: %w", name, ErrInvalidResult)
	}
	for _, f := range []float64{r.DensityRatio, r.EfficiencyRatio} {
		if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
			return fmt.Errorf("%s: ratio %v: %w", name, f, ErrInvalidResult)
		}
	}
	return nil
}
