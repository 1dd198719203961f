package habits

import "github.com/abhisek/gengoka/internal/learning"

// Thresholds for the habit rules. Lengths are in characters (runes).
const (
	TerseLengthThreshold   = 200
	VerboseLengthThreshold = 800
	StructuredFractionMin  = 0.3
	PoliteFractionMin      = 0.5
	PlateauMinGain         = 5.0

	// MinTrendSamples is the number of scores needed before a first-half /
	// second-half comparison is made.
	MinTrendSamples = 4
)

// Rule is one entry of the habit table. Detect returns the habit frequency
// (0.0–1.0) and whether the habit is present.
type Rule struct {
	Type        learning.HabitType
	Category    string
	Description string
	Severity    learning.Severity
	Examples    []string
	Advice      string
	Detect      func(s *Stats) (float64, bool)
}

// DefaultRules returns the habit table in output order.
func DefaultRules() []Rule {
	return []Rule{
		{
			Type:        learning.HabitBrevity,
			Category:    "文章の簡潔性",
			Description: "文章が短すぎる傾向があります",
			Severity:    learning.SeverityMedium,
			Examples:    []string{"詳細な説明不足", "背景情報の省略"},
			Advice:      "より具体的で詳細な説明を心がけ、相手が理解しやすい情報量を提供しましょう。",
			Detect:      detectTerse,
		},
		{
			Type:        learning.HabitVerbosity,
			Category:    "文章の冗長性",
			Description: "文章が長すぎて要点が不明確になる傾向があります",
			Severity:    learning.SeverityMedium,
			Examples:    []string{"重要な情報が埋もれる", "読み手の負担増加"},
			Advice:      "要点を整理し、必要な情報のみを簡潔に伝える練習をしましょう。",
			Detect:      detectVerbose,
		},
		{
			Type:        learning.HabitStructure,
			Category:    "構造化",
			Description: "情報の整理・構造化が不十分な傾向があります",
			Severity:    learning.SeverityHigh,
			Examples:    []string{"箇条書きの不使用", "段落分けの不備"},
			Advice:      "箇条書きや見出しを活用して、情報を整理して伝える習慣をつけましょう。",
			Detect:      detectWeakStructure,
		},
		{
			Type:        learning.HabitFormality,
			Category:    "敬語・丁寧語",
			Description: "ビジネス文書として適切な敬語使用が不足している傾向があります",
			Severity:    learning.SeverityMedium,
			Examples:    []string{"敬語の不使用", "カジュアルな表現"},
			Advice:      "ビジネスシーンに適した丁寧な表現を使用する習慣をつけましょう。",
			Detect:      detectInformal,
		},
		{
			Type:        learning.HabitPlateau,
			Category:    "学習効果",
			Description: "スコアの向上が緩やかで、学習効果が限定的な可能性があります",
			Severity:    learning.SeverityLow,
			Examples:    []string{"同じ間違いの繰り返し", "新しい表現の未習得"},
			Advice:      "フィードバックを振り返り、具体的な改善点を意識して練習しましょう。",
			Detect:      detectPlateau,
		},
	}
}

func detectTerse(s *Stats) (float64, bool) {
	if s.Count == 0 || s.MeanLength >= TerseLengthThreshold {
		return 0, false
	}
	return s.LengthFraction(func(n int) bool { return n < TerseLengthThreshold }), true
}

func detectVerbose(s *Stats) (float64, bool) {
	if s.Count == 0 || s.MeanLength <= VerboseLengthThreshold {
		return 0, false
	}
	return s.LengthFraction(func(n int) bool { return n > VerboseLengthThreshold }), true
}

func detectWeakStructure(s *Stats) (float64, bool) {
	if s.Count == 0 {
		return 0, false
	}
	f := s.StructuredFraction()
	if f >= StructuredFractionMin {
		return 0, false
	}
	return 1 - f, true
}

func detectInformal(s *Stats) (float64, bool) {
	if s.Count == 0 {
		return 0, false
	}
	f := s.PoliteFraction()
	if f >= PoliteFractionMin {
		return 0, false
	}
	return 1 - f, true
}

func detectPlateau(s *Stats) (float64, bool) {
	delta, ok := s.ScoreDelta()
	if !ok || delta >= PlateauMinGain {
		return 0, false
	}
	return 1, true
}

// StrengthRule is one entry of the strengths table.
type StrengthRule struct {
	Label string
	Match func(s *Stats) bool
}

// Strength thresholds.
const (
	HighQualityScore        = 85.0
	BasicStructureScore     = 80.0
	StrongStructureFraction = 0.7
	DetailedLengthThreshold = 300
	DetailedFractionMin     = 0.6
)

// DefaultStrength is reported when no strength rule matches.
const DefaultStrength = "学習に積極的に取り組んでいる"

// DefaultStrengthRules returns the strengths table in output order.
func DefaultStrengthRules() []StrengthRule {
	return []StrengthRule{
		{Label: "高い文章品質を維持している", Match: func(s *Stats) bool {
			m, ok := s.MeanScore()
			return ok && m >= HighQualityScore
		}},
		{Label: "ビジネス文書の基本構造を理解している", Match: func(s *Stats) bool {
			m, ok := s.MeanScore()
			return ok && m >= BasicStructureScore
		}},
		{Label: "情報の構造化が得意", Match: func(s *Stats) bool {
			return s.Count > 0 && s.StructuredFraction() > StrongStructureFraction
		}},
		{Label: "詳細で丁寧な説明ができる", Match: func(s *Stats) bool {
			return s.Count > 0 && s.LengthFraction(func(n int) bool { return n > DetailedLengthThreshold }) > DetailedFractionMin
		}},
	}
}
