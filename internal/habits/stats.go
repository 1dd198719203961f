package habits

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/abhisek/gengoka/internal/learning"
)

// Markers are the substrings that classify an answer's text.
type Markers struct {
	Structure []string `koanf:"structure_markers"`
	Polite    []string `koanf:"polite_markers"`
}

// DefaultMarkers returns the bullet, header and numbering glyphs and the
// polite sentence endings used for business writing.
func DefaultMarkers() Markers {
	return Markers{
		Structure: []string{"■", "・", "【", "1.", "（"},
		Polite:    []string{"ます", "です", "いたします", "ございます"},
	}
}

func containsAny(text string, markers []string) bool {
	for _, m := range markers {
		if m != "" && strings.Contains(text, m) {
			return true
		}
	}
	return false
}

// Stats is everything the rules look at, computed once per analysis.
type Stats struct {
	Count int

	// Lengths are in runes, in the order the answers were given.
	Lengths    []int
	MeanLength float64

	Structured []bool
	Polite     []bool

	// Order indexes the answers oldest submission first.
	Order []int

	// Scores are the scored answers' scores, oldest submission first.
	Scores []int
}

// Collect computes Stats for answers.
func Collect(answers []learning.Answer, markers Markers) *Stats {
	s := &Stats{
		Count:      len(answers),
		Lengths:    make([]int, len(answers)),
		Structured: make([]bool, len(answers)),
		Polite:     make([]bool, len(answers)),
	}

	total := 0
	for i := range answers {
		text := answers[i].Text
		n := utf8.RuneCountInString(text)
		s.Lengths[i] = n
		total += n
		s.Structured[i] = containsAny(text, markers.Structure)
		s.Polite[i] = containsAny(text, markers.Polite)
	}
	if s.Count > 0 {
		s.MeanLength = float64(total) / float64(s.Count)
	}

	s.Order = make([]int, len(answers))
	for i := range s.Order {
		s.Order[i] = i
	}
	sort.SliceStable(s.Order, func(i, j int) bool {
		return answers[s.Order[i]].SubmittedAt.Before(answers[s.Order[j]].SubmittedAt)
	})
	for _, i := range s.Order {
		if score, ok := answers[i].Score(); ok {
			s.Scores = append(s.Scores, score)
		}
	}
	return s
}

// fraction returns the share of answers for which pred holds.
func (s *Stats) fraction(pred func(i int) bool) float64 {
	if s.Count == 0 {
		return 0
	}
	n := 0
	for i := 0; i < s.Count; i++ {
		if pred(i) {
			n++
		}
	}
	return float64(n) / float64(s.Count)
}

// StructuredFraction is the share of answers containing a structure marker.
func (s *Stats) StructuredFraction() float64 {
	return s.fraction(func(i int) bool { return s.Structured[i] })
}

// PoliteFraction is the share of answers containing a polite marker.
func (s *Stats) PoliteFraction() float64 {
	return s.fraction(func(i int) bool { return s.Polite[i] })
}

// LengthFraction is the share of answers whose length satisfies pred.
func (s *Stats) LengthFraction(pred func(n int) bool) float64 {
	return s.fraction(func(i int) bool { return pred(s.Lengths[i]) })
}

// MeanScore averages every scored answer. ok is false when none are scored.
func (s *Stats) MeanScore() (mean float64, ok bool) {
	if len(s.Scores) == 0 {
		return 0, false
	}
	return meanInts(s.Scores), true
}

// ScoreDelta is mean(second half) - mean(first half) of the chronological
// scores, where the first half is the first n/2 scores. ok is false with
// fewer than MinTrendSamples scores.
func (s *Stats) ScoreDelta() (delta float64, ok bool) {
	if len(s.Scores) < MinTrendSamples {
		return 0, false
	}
	first, second := halves(s.Scores)
	return meanInts(second) - meanInts(first), true
}

func halves[T any](xs []T) (first, second []T) {
	mid := len(xs) / 2
	return xs[:mid], xs[mid:]
}

func meanInts(xs []int) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0
	for _, x := range xs {
		sum += x
	}
	return float64(sum) / float64(len(xs))
}
