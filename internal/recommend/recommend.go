// Package recommend turns detected habits and the average score into
// ordered study recommendations.
package recommend

import (
	"fmt"

	"github.com/abhisek/gengoka/internal/learning"
)

// Score thresholds below which score-based recommendations apply.
const (
	FundamentalsScore = 70
	TemplateScore     = 80
)

// Input is what the rules look at.
type Input struct {
	Habits []learning.HabitPattern

	// AverageScore is 0 when no answer carried a score.
	AverageScore int
}

// Rule produces zero or more recommendations.
type Rule struct {
	Name  string
	Apply func(in Input) []string
}

// DefaultRecommendation is returned when no rule produced anything.
const DefaultRecommendation = "現在のレベルを維持しながら、より高度な表現を学習しましょう"

// DefaultRules returns the recommendation table in output order.
func DefaultRules() []Rule {
	return []Rule{
		{Name: "fundamentals", Apply: func(in Input) []string {
			if in.AverageScore < FundamentalsScore {
				return []string{"基本的なビジネス文書の型をもう一度復習しましょう"}
			}
			return nil
		}},
		{Name: "templates", Apply: func(in Input) []string {
			if in.AverageScore < TemplateScore {
				return []string{"テンプレートを活用して構造化された文章作成を練習しましょう"}
			}
			return nil
		}},
		{Name: "high-severity", Apply: func(in Input) []string {
			var out []string
			for _, h := range in.Habits {
				if h.Severity == learning.SeverityHigh {
					out = append(out, fmt.Sprintf("%sの改善を最優先で取り組みましょう", h.Category))
				}
			}
			return out
		}},
	}
}

// Synthesize evaluates every rule in order and concatenates their output.
func Synthesize(in Input) []string {
	return SynthesizeWith(DefaultRules(), in)
}

// SynthesizeWith is Synthesize with a custom rule table.
func SynthesizeWith(rules []Rule, in Input) []string {
	recs := []string{}
	for _, r := range rules {
		recs = append(recs, r.Apply(in)...)
	}
	if len(recs) == 0 {
		recs = append(recs, DefaultRecommendation)
	}
	return recs
}

// NextSteps returns the fixed follow-up checklist.
func NextSteps() []string {
	return []string{
		"継続的な学習と実践",
		"フィードバックの振り返り",
		"実際の業務での応用",
		"他の人からの意見収集",
	}
}
