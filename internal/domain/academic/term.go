package academic

import (
	"fmt"
	"strings"

	"github.com/acadreg/backend/internal/domain/shared"
)

// CoarseTerm is the registration-period label used by open-subject lists.
// It is coarser than the ordinal semester labels training programs use:
// one coarse term spans one ordinal per enrolled cohort year.
type CoarseTerm string

const (
	TermFirstHalf  CoarseTerm = "first_half"
	TermSecondHalf CoarseTerm = "second_half"
	TermSummer     CoarseTerm = "summer"
)

// ParseCoarseTerm parses a coarse term label, case-insensitively
func ParseCoarseTerm(s string) (CoarseTerm, error) {
	switch CoarseTerm(strings.ToLower(strings.TrimSpace(s))) {
	case TermFirstHalf:
		return TermFirstHalf, nil
	case TermSecondHalf:
		return TermSecondHalf, nil
	case TermSummer:
		return TermSummer, nil
	}
	return "", shared.NewDomainError("INVALID_TERM", fmt.Sprintf("Unknown term label %q", s))
}

// IsValid reports whether the term is one of the known labels
func (t CoarseTerm) IsValid() bool {
	return t == TermFirstHalf || t == TermSecondHalf || t == TermSummer
}

// OrdinalLabel returns the ordinal semester label for position n (1-based),
// e.g. "Semester 3".
func OrdinalLabel(n int) string {
	return fmt.Sprintf("Semester %d", n)
}

// DefaultProgramSemesters is the standard program length: four academic
// years of two ordinal semesters each.
const DefaultProgramSemesters = 8

// TermParity maps a coarse term onto the concrete ordinal semesters that
// are in session during it. The mapping encodes the fixed domain rule that
// a cohort's ordinals alternate parity across academic years: during the
// first half of any academic year every enrolled cohort sits an odd
// ordinal, during the second half an even one. Summer terms carry no
// training-program coverage requirement at all.
type TermParity struct {
	programSemesters int
}

// NewTermParity creates a parity mapper for a program of the given length.
// Lengths below 1 fall back to the default.
func NewTermParity(programSemesters int) *TermParity {
	if programSemesters < 1 {
		programSemesters = DefaultProgramSemesters
	}
	return &TermParity{programSemesters: programSemesters}
}

// ProgramSemesters returns the configured program length in semesters
func (p *TermParity) ProgramSemesters() int {
	return p.programSemesters
}

// Ordinals returns the ordinal semester labels in session during the
// given coarse term, and whether the term is exempt from coverage
// validation. Exempt terms return no ordinals.
func (p *TermParity) Ordinals(term CoarseTerm) (labels []string, exempt bool) {
	switch term {
	case TermSummer:
		return nil, true
	case TermFirstHalf:
		return p.ordinalsWithParity(1), false
	case TermSecondHalf:
		return p.ordinalsWithParity(0), false
	}
	return nil, false
}

// ordinalsWithParity collects the labels of ordinals whose number has the
// given remainder mod 2, in ascending order.
func (p *TermParity) ordinalsWithParity(remainder int) []string {
	labels := make([]string, 0, (p.programSemesters+1)/2)
	for n := 1; n <= p.programSemesters; n++ {
		if n%2 == remainder {
			labels = append(labels, OrdinalLabel(n))
		}
	}
	return labels
}
