package learning

import "time"

// Feedback is the scoring payload supplied by the external feedback provider.
// The tracker never computes a score itself; a nil Score means "unscored".
type Feedback struct {
	OverallImpression      string             `json:"overall_impression"`
	DetailedFeedback       []DetailedFeedback `json:"detailed_feedback"`
	ImprovementSuggestions []string           `json:"improvement_suggestions"`
	NextRecommendations    []string           `json:"next_recommendations"`
	Score                  *int               `json:"score,omitempty"` // 0–100
}

// DetailedFeedback is one section-level remark within a Feedback.
type DetailedFeedback struct {
	Section     string `json:"section"`
	Issue       string `json:"issue"`
	Improvement string `json:"improvement"`
	Reason      string `json:"reason"`
}

// Answer is one recorded practice submission.
type Answer struct {
	ID          string    `json:"id"`
	ProblemID   string    `json:"problemId"`
	Phase       Phase     `json:"phase,omitempty"`
	Text        string    `json:"answer"`
	SubmittedAt time.Time `json:"submittedAt"`
	Feedback    *Feedback `json:"feedback,omitempty"`
	IsCompleted bool      `json:"isCompleted"`
}

// Score returns the feedback score and whether the answer is scored.
func (a *Answer) Score() (int, bool) {
	if a.Feedback == nil || a.Feedback.Score == nil {
		return 0, false
	}
	return *a.Feedback.Score, true
}

// Progress is the current learning progress snapshot.
type Progress struct {
	Phase1            float64 `json:"phase1"`
	Phase2            float64 `json:"phase2"`
	Phase3            float64 `json:"phase3"`
	TotalProblems     int     `json:"totalProblems"`
	CompletedProblems int     `json:"completedProblems"`
	AverageScore      float64 `json:"averageScore"`
}

// PhasePercent returns the completion percentage for p, or 0 for an unknown phase.
func (p Progress) PhasePercent(phase Phase) float64 {
	switch phase {
	case Phase1:
		return p.Phase1
	case Phase2:
		return p.Phase2
	case Phase3:
		return p.Phase3
	}
	return 0
}

// EmptyProgress is the snapshot reported before anything has been recorded.
func EmptyProgress(totals PhaseTotals) Progress {
	return Progress{TotalProblems: totals.Sum()}
}

// Severity is a coarse priority attached to a detected habit.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// HabitType identifies a habit category.
type HabitType string

const (
	HabitBrevity   HabitType = "brevity"
	HabitVerbosity HabitType = "verbosity"
	HabitStructure HabitType = "structure"
	HabitFormality HabitType = "formality"
	HabitPlateau   HabitType = "plateau"
)

// HabitPattern is one detected recurring weakness.
type HabitPattern struct {
	Type        HabitType `json:"type"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Severity    Severity  `json:"severity"`
	Frequency   float64   `json:"frequency"` // fraction of analyzed answers, 0.0–1.0
	Examples    []string  `json:"examples"`
	Suggestion  string    `json:"suggestion"`
}

// TrendDirection is the direction of an improvement trend.
type TrendDirection string

const (
	TrendImproving TrendDirection = "improving"
	TrendStable    TrendDirection = "stable"
	TrendDeclining TrendDirection = "declining"
)

// ImprovementTrend compares the second half of the history with the first.
type ImprovementTrend struct {
	Metric string         `json:"metric"`
	Trend  TrendDirection `json:"trend"`
	Value  float64        `json:"value"`
	Change float64        `json:"change"`
}

// HabitReport is a point-in-time diagnostic snapshot.
type HabitReport struct {
	ID                string             `json:"id"`
	AnalyzedAt        time.Time          `json:"analyzedAt"`
	Patterns          []HabitPattern     `json:"patterns"`
	Recommendations   []string           `json:"recommendations"`
	ImprovementTrends []ImprovementTrend `json:"improvementTrends"`
}

// ReportData is the aggregated report handed back to collaborators.
type ReportData struct {
	TotalAnswers     int            `json:"totalAnswers"`
	AverageScore     int            `json:"averageScore"`
	ScoreImprovement int            `json:"scoreImprovement"`
	Strengths        []string       `json:"strengths"`
	Habits           []HabitPattern `json:"habits"`
	Recommendations  []string       `json:"recommendations"`
	NextSteps        []string       `json:"nextSteps"`
}

// ExportBundle is the full-dataset container used for bulk transfer.
// Habits holds the latest report; HabitHistory holds every report.
type ExportBundle struct {
	ExportedAt   time.Time     `json:"exportedAt"`
	Version      string        `json:"version"`
	Answers      []Answer      `json:"answers"`
	Progress     Progress      `json:"progress"`
	Habits       *HabitReport  `json:"habits,omitempty"`
	HabitHistory []HabitReport `json:"habitHistory,omitempty"`
}

// Reports returns the habit reports carried by the bundle. Bundles written
// before HabitHistory existed only carry the latest report.
func (b *ExportBundle) Reports() []HabitReport {
	if len(b.HabitHistory) > 0 {
		return b.HabitHistory
	}
	if b.Habits != nil {
		return []HabitReport{*b.Habits}
	}
	return nil
}
