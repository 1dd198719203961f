package learning

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

// BundleVersion is the export bundle format written by this build.
const BundleVersion = "1.1.0"

// ErrValidation reports malformed input detected before any state change.
type ErrValidation struct {
	Field  string
	Reason string
}

func (e *ErrValidation) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed: %s", e.Reason)
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

// ValidateScore checks that a feedback score, if present, is within 0–100.
func ValidateScore(field string, f *Feedback) error {
	if f == nil || f.Score == nil {
		return nil
	}
	if s := *f.Score; s < 0 || s > 100 {
		return &ErrValidation{Field: field, Reason: fmt.Sprintf("score %d out of range 0-100", s)}
	}
	return nil
}

// Validate checks the invariants of a single answer. The phase must already
// be resolved.
func (a *Answer) Validate() error {
	if strings.TrimSpace(a.ID) == "" {
		return &ErrValidation{Field: "id", Reason: "must not be empty"}
	}
	if strings.TrimSpace(a.ProblemID) == "" {
		return &ErrValidation{Field: "problemId", Reason: "must not be empty"}
	}
	if !a.Phase.Valid() {
		return &ErrValidation{Field: "phase", Reason: fmt.Sprintf("unknown phase %d for problem %q", a.Phase, a.ProblemID)}
	}
	if a.SubmittedAt.IsZero() {
		return &ErrValidation{Field: "submittedAt", Reason: "must be set"}
	}
	return ValidateScore("feedback.score", a.Feedback)
}

// CheckBundleVersion accepts any semantic version with the same major
// version as BundleVersion that is not newer than it.
func CheckBundleVersion(version string) error {
	v := "v" + strings.TrimPrefix(version, "v")
	if !semver.IsValid(v) {
		return &ErrValidation{Field: "version", Reason: fmt.Sprintf("%q is not a semantic version", version)}
	}
	cur := "v" + BundleVersion
	if semver.Major(v) != semver.Major(cur) {
		return &ErrValidation{Field: "version", Reason: fmt.Sprintf("unsupported major version %s", semver.Major(v))}
	}
	if semver.Compare(v, cur) > 0 {
		return &ErrValidation{Field: "version", Reason: fmt.Sprintf("bundle version %s is newer than supported %s", version, BundleVersion)}
	}
	return nil
}

// NormalizeBundle validates a bundle and fills in missing answer phases
// using resolver. It mutates b in place and reports the first problem found.
func NormalizeBundle(b *ExportBundle, resolver PhaseResolver) error {
	if b == nil {
		return &ErrValidation{Reason: "bundle is empty"}
	}
	if err := CheckBundleVersion(b.Version); err != nil {
		return err
	}

	seen := make(map[string]struct{}, len(b.Answers))
	for i := range b.Answers {
		a := &b.Answers[i]
		if a.Phase == PhaseUnknown {
			p, ok := resolver.Resolve(a.ProblemID)
			if !ok {
				return &ErrValidation{
					Field:  fmt.Sprintf("answers[%d].problemId", i),
					Reason: fmt.Sprintf("cannot derive phase from %q", a.ProblemID),
				}
			}
			a.Phase = p
		}
		if err := a.Validate(); err != nil {
			var ve *ErrValidation
			if errors.As(err, &ve) {
				ve.Field = fmt.Sprintf("answers[%d].%s", i, ve.Field)
			}
			return err
		}
		if _, dup := seen[a.ID]; dup {
			return &ErrValidation{Field: fmt.Sprintf("answers[%d].id", i), Reason: fmt.Sprintf("duplicate id %q", a.ID)}
		}
		seen[a.ID] = struct{}{}
	}

	reports := b.Reports()
	ids := make(map[string]struct{}, len(reports))
	for i, r := range reports {
		if strings.TrimSpace(r.ID) == "" {
			return &ErrValidation{Field: fmt.Sprintf("habitHistory[%d].id", i), Reason: "must not be empty"}
		}
		if _, dup := ids[r.ID]; dup {
			return &ErrValidation{Field: fmt.Sprintf("habitHistory[%d].id", i), Reason: fmt.Sprintf("duplicate id %q", r.ID)}
		}
		ids[r.ID] = struct{}{}
		for j, p := range r.Patterns {
			if p.Frequency < 0 || p.Frequency > 1 {
				return &ErrValidation{
					Field:  fmt.Sprintf("habitHistory[%d].patterns[%d].frequency", i, j),
					Reason: "must be within 0.0-1.0",
				}
			}
		}
	}
	return nil
}
