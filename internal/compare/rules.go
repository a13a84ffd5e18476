package compare

import (
	"fmt"
	"math"
	"strings"

	"github.com/ivlev/chartink/internal/analyzer"
)

// Non-data ink surplus bands, in pixels.
const (
	ModerateExcessPixels = 3000
	HeavyExcessPixels    = 10000
)

// facts is what the rules look at.
type facts struct {
	metrics     Metrics
	breakdown   Breakdown
	grade       Grade
	user        *analyzer.AnalysisResult
	refName     string
	unassigned  int      // whole-image ink not claimed by any region
	decorLabels []string // lower-cased labels of non-data layers carrying ink
}

func (f *facts) decorMentions(words ...string) bool {
	for _, label := range f.decorLabels {
		for _, w := range words {
			if strings.Contains(label, w) {
				return true
			}
		}
	}
	return false
}

func (f *facts) relative() float64 { return float64(f.metrics.RelativeDifference) }

// rule pairs a condition with the message it produces.
type rule struct {
	name string
	when func(f *facts) bool
	text func(f *facts) string
}

func fixed(s string) func(*facts) string {
	return func(*facts) string { return s }
}

var summaryRules = map[Grade]string{
	GradeExcellent: "Excellent: your data-ink efficiency of %.1f%% is on par with or better than %s (%.1f%%).",
	GradeGood:      "Good: your data-ink efficiency of %.1f%% is slightly below %s (%.1f%%).",
	GradeFair:      "Fair: your data-ink efficiency of %.1f%% is noticeably below %s (%.1f%%).",
	GradePoor:      "Poor: your data-ink efficiency of %.1f%% is well below %s (%.1f%%).",
}

var insightRules = []rule{
	{
		name: "reference-without-data",
		when: func(f *facts) bool { return math.IsInf(f.relative(), 1) },
		text: func(f *facts) string {
			return fmt.Sprintf("%s records no data ink, so any data ink in your chart is an improvement.", f.refName)
		},
	},
	{
		name: "ahead-of-reference",
		when: func(f *facts) bool { return f.metrics.AbsoluteDifference > 0 && !math.IsInf(f.relative(), 0) },
		text: func(f *facts) string {
			return fmt.Sprintf("Your efficiency is %.1f points above %s (%+.1f%% relative).",
				f.metrics.EfficiencyGap*100, f.refName, f.relative())
		},
	},
	{
		name: "behind-reference",
		when: func(f *facts) bool { return f.metrics.AbsoluteDifference < 0 },
		text: func(f *facts) string {
			return fmt.Sprintf("Your efficiency is %.1f points below %s (%+.1f%% relative).",
				f.metrics.EfficiencyGap*100, f.refName, f.relative())
		},
	},
	{
		name: "heavy-non-data-surplus",
		when: func(f *facts) bool { return f.breakdown.ExcessNonDataInkDifference > HeavyExcessPixels },
		text: func(f *facts) string {
			return fmt.Sprintf("Your chart spends %d more pixels on non-data ink than the reference; decoration dominates the rendering.",
				f.breakdown.ExcessNonDataInkDifference)
		},
	},
	{
		name: "moderate-non-data-surplus",
		when: func(f *facts) bool {
			e := f.breakdown.ExcessNonDataInkDifference
			return e > ModerateExcessPixels && e <= HeavyExcessPixels
		},
		text: func(f *facts) string {
			return fmt.Sprintf("Your chart uses %d more non-data ink pixels than the reference; some decoration could go.",
				f.breakdown.ExcessNonDataInkDifference)
		},
	},
	{
		name: "slight-non-data-surplus",
		when: func(f *facts) bool {
			e := f.breakdown.ExcessNonDataInkDifference
			return e > 0 && e <= ModerateExcessPixels
		},
		text: func(f *facts) string {
			return fmt.Sprintf("Non-data ink is close to the reference (%d extra pixels).", f.breakdown.ExcessNonDataInkDifference)
		},
	},
	{
		name: "leaner-than-reference",
		when: func(f *facts) bool { return f.breakdown.NonDataInkDiff < 0 },
		text: func(f *facts) string {
			return fmt.Sprintf("You use %d fewer non-data ink pixels than the reference.", -f.breakdown.NonDataInkDiff)
		},
	},
	{
		name: "less-data-ink",
		when: func(f *facts) bool { return f.breakdown.DataInkDiff < 0 },
		text: func(f *facts) string {
			return fmt.Sprintf("Your chart has %d fewer data ink pixels than the reference; data may be under-emphasised or regions missed.",
				-f.breakdown.DataInkDiff)
		},
	},
	{
		name: "no-data-regions",
		when: func(f *facts) bool { return f.user.TotalDataPixels == 0 },
		text: fixed("No region is marked as data, so efficiency stays at zero until data regions are classified."),
	},
	{
		name: "unassigned-ink",
		when: func(f *facts) bool { return f.unassigned > 0 },
		text: func(f *facts) string {
			return fmt.Sprintf("%d ink pixels lie outside every region and count against efficiency.", f.unassigned)
		},
	},
}

var recommendationRules = []rule{
	{
		name: "gridlines",
		when: func(f *facts) bool { return f.decorMentions("grid") },
		text: fixed("Lighten or remove gridlines; values stay readable without them."),
	},
	{
		name: "background",
		when: func(f *facts) bool { return f.decorMentions("background") },
		text: fixed("Drop the background fill; a plain background carries no data."),
	},
	{
		name: "border",
		when: func(f *facts) bool { return f.decorMentions("border", "frame") },
		text: fixed("Remove borders and frames around the plot area."),
	},
	{
		name: "legend",
		when: func(f *facts) bool { return f.decorMentions("legend") },
		text: fixed("Label series directly instead of using a separate legend."),
	},
	{
		name: "axis",
		when: func(f *facts) bool { return f.decorMentions("axis", "tick") },
		text: fixed("Thin axis lines and ticks, or replace them with a range frame."),
	},
	{
		name: "effects",
		when: func(f *facts) bool { return f.decorMentions("shadow", "3d", "gradient") },
		text: fixed("Remove shadows, gradients and 3D effects."),
	},
	{
		name: "heavy-surplus",
		when: func(f *facts) bool { return f.breakdown.ExcessNonDataInkDifference > HeavyExcessPixels },
		text: fixed("Cut decorative elements first: non-data ink exceeds the reference by more than 10,000 pixels."),
	},
	{
		name: "moderate-surplus",
		when: func(f *facts) bool {
			e := f.breakdown.ExcessNonDataInkDifference
			return e > ModerateExcessPixels && e <= HeavyExcessPixels
		},
		text: fixed("Review non-data elements and remove those that do not help reading values."),
	},
	{
		name: "weak-data",
		when: func(f *facts) bool {
			return (f.grade == GradeFair || f.grade == GradePoor) && f.breakdown.DataInkDiff < 0
		},
		text: fixed("Make data elements more prominent with stronger marks or colours."),
	},
	{
		name: "classify-remaining",
		when: func(f *facts) bool { return f.unassigned > 0 },
		text: fixed("Draw regions over the remaining unclassified ink so the ratio covers the whole chart."),
	},
}

// Interpret grades res and applies the insight and recommendation rules.
func Interpret(res *Result) Interpretation {
	f := &facts{
		metrics:   res.Metrics,
		breakdown: res.Breakdown,
		grade:     GradeFor(float64(res.Metrics.RelativeDifference)),
		user:      res.User,
		refName:   res.Metadata.DisplayName(),
	}
	f.unassigned = max(0, res.User.TotalInkPixels-assignedInk(res.User))
	for _, l := range res.User.Layers {
		if !l.IsData && l.InkPixels > 0 {
			f.decorLabels = append(f.decorLabels, strings.ToLower(l.Label))
		}
	}

	out := Interpretation{
		Grade: f.grade,
		Summary: fmt.Sprintf(summaryRules[f.grade],
			f.metrics.UserEfficiency*100, f.refName, f.metrics.ReferenceEfficiency*100),
		Insights:        apply(insightRules, f),
		Recommendations: apply(recommendationRules, f),
	}
	if len(out.Recommendations) == 0 {
		out.Recommendations = []string{"Keep the current design; it is as lean as the reference."}
	}

	return out
}

func apply(rules []rule, f *facts) []string {
	msgs := []string{}
	for _, r := range rules {
		if r.when(f) {
			msgs = append(msgs, r.text(f))
		}
	}
	return msgs
}

// assignedInk is the ink attributed to regions. Full-area layers count their
// whole area, so this can exceed the measured ink.
func assignedInk(r *analyzer.AnalysisResult) int {
	n := 0
	for _, l := range r.Layers {
		n += l.InkPixels
	}
	return n
}
