// Package habits detects recurring writing weaknesses and strengths in a
// learner's answer history.
package habits

import (
	"math"

	"github.com/abhisek/gengoka/internal/learning"
)

// Result is the output of one analysis run.
type Result struct {
	Habits    []learning.HabitPattern
	Strengths []string
	Trends    []learning.ImprovementTrend

	// ScoreImprovement is the rounded second-half minus first-half score
	// mean, or 0 with fewer than MinTrendSamples scores.
	ScoreImprovement int

	// AverageScore is the rounded mean of every scored answer, 0 when none.
	AverageScore int
	Scored       bool
}

// Engine evaluates the habit and strength tables over an answer set.
type Engine struct {
	markers   Markers
	rules     []Rule
	strengths []StrengthRule
}

// Option configures an Engine.
type Option func(*Engine)

// WithMarkers overrides the structure and polite marker sets. Empty sets
// keep the defaults.
func WithMarkers(m Markers) Option {
	return func(e *Engine) {
		if len(m.Structure) > 0 {
			e.markers.Structure = m.Structure
		}
		if len(m.Polite) > 0 {
			e.markers.Polite = m.Polite
		}
	}
}

// WithRules replaces the habit table.
func WithRules(rules []Rule) Option {
	return func(e *Engine) { e.rules = rules }
}

// NewEngine creates an Engine with the default tables.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		markers:   DefaultMarkers(),
		rules:     DefaultRules(),
		strengths: DefaultStrengthRules(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Analyze runs every rule over answers. It does not modify answers and
// returns the same result for the same input.
func (e *Engine) Analyze(answers []learning.Answer) Result {
	s := Collect(answers, e.markers)

	res := Result{
		Habits:    []learning.HabitPattern{},
		Strengths: []string{},
		Trends:    Trends(s),
	}
	if s.Count == 0 {
		return res
	}

	for _, r := range e.rules {
		freq, ok := r.Detect(s)
		if !ok {
			continue
		}
		res.Habits = append(res.Habits, learning.HabitPattern{
			Type:        r.Type,
			Category:    r.Category,
			Description: r.Description,
			Severity:    r.Severity,
			Frequency:   freq,
			Examples:    append([]string(nil), r.Examples...),
			Suggestion:  r.Advice,
		})
	}

	for _, sr := range e.strengths {
		if sr.Match(s) {
			res.Strengths = append(res.Strengths, sr.Label)
		}
	}
	if len(res.Strengths) == 0 {
		res.Strengths = append(res.Strengths, DefaultStrength)
	}

	if delta, ok := s.ScoreDelta(); ok {
		res.ScoreImprovement = int(math.Round(delta))
	}
	if mean, ok := s.MeanScore(); ok {
		res.AverageScore = int(math.Round(mean))
		res.Scored = true
	}
	return res
}
