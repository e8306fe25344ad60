package academic

import (
	"strings"

	"github.com/google/uuid"
)

// TrackSubmission is a candidate curriculum edit to be checked against the
// existing entries of its track. IgnoreEntryID excludes the entry being
// edited in place; uuid.Nil means nothing is excluded.
type TrackSubmission struct {
	Major         string
	ProgramCode   string
	SemesterLabel string
	SubjectCodes  []string
	IgnoreEntryID uuid.UUID
}

// DuplicateSubject reports a candidate subject that is already assigned to
// other semesters of the same track
type DuplicateSubject struct {
	Code      string   `json:"code"`
	Semesters []string `json:"semesters"`
}

// ConflictReport carries the three independent curriculum conflict checks.
// Callers must inspect all three fields; none implies the others.
type ConflictReport struct {
	RepeatedSubjects  []string           `json:"repeated_subjects"`
	SemesterExists    bool               `json:"semester_exists"`
	DuplicateSubjects []DuplicateSubject `json:"duplicate_subjects"`
}

// HasConflicts reports whether any check failed
func (r ConflictReport) HasConflicts() bool {
	return len(r.RepeatedSubjects) > 0 || r.SemesterExists || len(r.DuplicateSubjects) > 0
}

// ConflictDetector validates curriculum submissions against track state.
// It is pure: callers load the track's entries and pass them in, so one
// store read backs all checks of an invocation.
type ConflictDetector struct{}

// NewConflictDetector creates a new ConflictDetector
func NewConflictDetector() *ConflictDetector {
	return &ConflictDetector{}
}

// RepeatedCodes scans candidate codes for ones occurring more than once.
// Repeats are reported verbatim in order of their first duplicate
// occurrence. This is a pure input-shape check; callers run it before
// touching the store.
func (d *ConflictDetector) RepeatedCodes(codes []string) []string {
	seen := make(map[string]bool, len(codes))
	reported := make(map[string]bool)
	var repeated []string
	for _, raw := range codes {
		code := NormalizeCode(raw)
		if seen[code] && !reported[code] {
			repeated = append(repeated, code)
			reported[code] = true
		}
		seen[code] = true
	}
	return repeated
}

// Detect runs all three conflict checks for a submission.
//
// An empty major yields an all-clear report: required-field validation is
// the caller's responsibility and runs before this check, so the detector
// never raises on input shape it does not own.
func (d *ConflictDetector) Detect(sub TrackSubmission, existing []*CurriculumEntry) ConflictReport {
	report := ConflictReport{}

	if strings.TrimSpace(sub.Major) == "" {
		return report
	}

	report.RepeatedSubjects = d.RepeatedCodes(sub.SubjectCodes)

	candidate := NormalizeCodes(sub.SubjectCodes)
	trackProgram := NormalizeProgramCode(sub.ProgramCode)

	// Accumulate, per candidate code, the semester labels it already
	// occupies. First-seen order on both codes and labels keeps reports
	// deterministic.
	occupied := make(map[string][]string)
	var collidingCodes []string

	for _, entry := range existing {
		if sub.IgnoreEntryID != uuid.Nil && entry.ID == sub.IgnoreEntryID {
			continue
		}
		// The scan is scoped strictly to one track: the same subject may
		// legitimately repeat across different majors or program codes.
		if !strings.EqualFold(entry.Major, sub.Major) || entry.TrackProgram() != trackProgram {
			continue
		}

		if strings.EqualFold(entry.SemesterLabel, sub.SemesterLabel) {
			report.SemesterExists = true
		}

		for _, code := range candidate {
			if entry.HasSubject(code) {
				if _, known := occupied[code]; !known {
					collidingCodes = append(collidingCodes, code)
				}
				if !containsFold(occupied[code], entry.SemesterLabel) {
					occupied[code] = append(occupied[code], entry.SemesterLabel)
				}
			}
		}
	}

	for _, code := range collidingCodes {
		report.DuplicateSubjects = append(report.DuplicateSubjects, DuplicateSubject{
			Code:      code,
			Semesters: occupied[code],
		})
	}

	return report
}

func containsFold(labels []string, label string) bool {
	for _, l := range labels {
		if strings.EqualFold(l, label) {
			return true
		}
	}
	return false
}
