package compare

import (
	"encoding/json"
	"math"
	"strconv"

	"github.com/ivlev/chartink/internal/analyzer"
	"github.com/ivlev/chartink/internal/reference"
)

// Grade is the categorical outcome of a comparison.
type Grade string

const (
	GradeExcellent Grade = "excellent"
	GradeGood      Grade = "good"
	GradeFair      Grade = "fair"
	GradePoor      Grade = "poor"
)

// Percent is a percentage that may be infinite. JSON has no infinity, so
// non-finite values travel as the strings "+Inf", "-Inf" and "NaN".
type Percent float64

func (p Percent) MarshalJSON() ([]byte, error) {
	f := float64(p)
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return json.Marshal(strconv.FormatFloat(f, 'g', -1, 64))
	}
	return []byte(strconv.FormatFloat(f, 'g', -1, 64)), nil
}

func (p *Percent) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		*p = Percent(f)
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*p = Percent(f)
	return nil
}

// Metrics are the efficiency figures of a comparison. Ratios are fractions,
// RelativeDifference is in percent of the reference.
type Metrics struct {
	UserEfficiency      float64 `json:"userEfficiency" yaml:"user_efficiency"`
	ReferenceEfficiency float64 `json:"referenceEfficiency" yaml:"reference_efficiency"`
	AbsoluteDifference  float64 `json:"absoluteDifference" yaml:"absolute_difference"`
	RelativeDifference  Percent `json:"relativeDifference" yaml:"relative_difference"`
	EfficiencyGap       float64 `json:"efficiencyGap" yaml:"efficiency_gap"`
}

// Breakdown compares pixel totals, user minus reference.
type Breakdown struct {
	DataInkDiff                int `json:"dataInkDiff" yaml:"data_ink_diff"`
	NonDataInkDiff             int `json:"nonDataInkDiff" yaml:"non_data_ink_diff"`
	ExcessNonDataInkDifference int `json:"excessNonDataInkDifference" yaml:"excess_non_data_ink_difference"`
}

// Interpretation is the human-readable verdict.
type Interpretation struct {
	Grade           Grade    `json:"grade" yaml:"grade"`
	Summary         string   `json:"summary" yaml:"summary"`
	Insights        []string `json:"insights" yaml:"insights"`
	Recommendations []string `json:"recommendations" yaml:"recommendations"`
}

// Result is the full output of Compare.
type Result struct {
	User           *analyzer.AnalysisResult `json:"user" yaml:"user"`
	Reference      *analyzer.AnalysisResult `json:"reference" yaml:"reference"`
	Metadata       reference.Metadata       `json:"metadata" yaml:"metadata"`
	Metrics        Metrics                  `json:"metrics" yaml:"metrics"`
	Breakdown      Breakdown                `json:"breakdown" yaml:"breakdown"`
	Interpretation Interpretation           `json:"interpretation" yaml:"interpretation"`
}
