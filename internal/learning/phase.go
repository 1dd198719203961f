package learning

import (
	"fmt"
	"strings"
)

// Phase is one of the three ordered skill tiers.
type Phase int

const (
	PhaseUnknown Phase = 0
	Phase1       Phase = 1
	Phase2       Phase = 2
	Phase3       Phase = 3
)

// Phases lists every valid phase in order.
var Phases = []Phase{Phase1, Phase2, Phase3}

// Valid reports whether p is one of the known phases.
func (p Phase) Valid() bool {
	return p >= Phase1 && p <= Phase3
}

func (p Phase) String() string {
	if !p.Valid() {
		return "unknown"
	}
	return fmt.Sprintf("phase%d", int(p))
}

// PhaseTotals holds the fixed number of problems in each phase.
// These are configuration, not derived from the problem bank.
type PhaseTotals struct {
	Phase1 int `koanf:"phase1_total"`
	Phase2 int `koanf:"phase2_total"`
	Phase3 int `koanf:"phase3_total"`
}

// DefaultPhaseTotals returns the problem counts of the bundled problem bank.
func DefaultPhaseTotals() PhaseTotals {
	return PhaseTotals{Phase1: 10, Phase2: 8, Phase3: 6}
}

// Of returns the total for a phase.
func (t PhaseTotals) Of(p Phase) int {
	switch p {
	case Phase1:
		return t.Phase1
	case Phase2:
		return t.Phase2
	case Phase3:
		return t.Phase3
	}
	return 0
}

// Sum returns the total number of problems across all phases.
func (t PhaseTotals) Sum() int {
	return t.Phase1 + t.Phase2 + t.Phase3
}

// PhaseResolver maps legacy problem ids to a phase by string prefix.
// New answers carry an explicit phase; the resolver only fills it in for
// rows and bundles written before the phase was stored.
type PhaseResolver struct {
	prefixes map[Phase][]string
}

// DefaultPhasePrefixes returns the prefixes used by legacy problem ids.
func DefaultPhasePrefixes() map[Phase][]string {
	return map[Phase][]string{
		Phase1: {"phase1", "p1-"},
		Phase2: {"phase2", "p2-"},
		Phase3: {"phase3", "p3-"},
	}
}

// NewPhaseResolver creates a resolver. A nil map uses DefaultPhasePrefixes.
func NewPhaseResolver(prefixes map[Phase][]string) PhaseResolver {
	if prefixes == nil {
		prefixes = DefaultPhasePrefixes()
	}
	return PhaseResolver{prefixes: prefixes}
}

// Resolve returns the phase whose prefix matches problemID. Exactly one phase
// must match; zero or several matches return (PhaseUnknown, false).
func (r PhaseResolver) Resolve(problemID string) (Phase, bool) {
	found := PhaseUnknown
	for _, p := range Phases {
		for _, prefix := range r.prefixes[p] {
			if prefix == "" || !strings.HasPrefix(problemID, prefix) {
				continue
			}
			if found != PhaseUnknown && found != p {
				return PhaseUnknown, false
			}
			found = p
		}
	}
	return found, found != PhaseUnknown
}
