package habits

import (
	"math"

	"github.com/abhisek/gengoka/internal/learning"
)

// Trend metric names.
const (
	MetricScore     = "score"
	MetricLength    = "length"
	MetricStructure = "structure"
)

// Trend thresholds. A change within the threshold counts as stable.
const (
	ScoreTrendPoints       = 5.0
	LengthTrendRatio       = 0.10
	StructureTrendFraction = 0.1
)

// Trends compares the second half of the history with the first for each
// metric that has at least MinTrendSamples samples. Value is the
// second-half mean.
func Trends(s *Stats) []learning.ImprovementTrend {
	trends := []learning.ImprovementTrend{}

	if len(s.Scores) >= MinTrendSamples {
		first, second := halves(s.Scores)
		trends = append(trends, trend(MetricScore, meanInts(first), meanInts(second), ScoreTrendPoints))
	}

	if s.Count >= MinTrendSamples {
		lengths := make([]int, 0, s.Count)
		structured := make([]int, 0, s.Count)
		for _, i := range s.Order {
			lengths = append(lengths, s.Lengths[i])
			v := 0
			if s.Structured[i] {
				v = 1
			}
			structured = append(structured, v)
		}

		first, second := halves(lengths)
		firstMean := meanInts(first)
		trends = append(trends, trend(MetricLength, firstMean, meanInts(second), firstMean*LengthTrendRatio))

		first, second = halves(structured)
		trends = append(trends, trend(MetricStructure, meanInts(first), meanInts(second), StructureTrendFraction))
	}
	return trends
}

func trend(metric string, first, second, threshold float64) learning.ImprovementTrend {
	change := second - first
	t := learning.ImprovementTrend{
		Metric: metric,
		Trend:  learning.TrendStable,
		Value:  round2(second),
		Change: round2(change),
	}
	switch {
	case change > threshold:
		t.Trend = learning.TrendImproving
	case change < -threshold:
		t.Trend = learning.TrendDeclining
	}
	return t
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
