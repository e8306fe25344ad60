package academic

import "fmt"

// MissingSampleLimit caps how many missing codes a coverage gap lists.
// TotalMissing always carries the true count, so truncation never hides
// the size of a gap.
const MissingSampleLimit = 20

// CoverageGap reports one (major, faculty) bucket whose required subjects
// are not fully present in the candidate open list
type CoverageGap struct {
	Major           string   `json:"major"`
	Faculty         string   `json:"faculty"`
	Semesters       []string `json:"semesters"`
	RequiredCount   int      `json:"required_count"`
	MissingCount    int      `json:"missing_count"`
	MissingSubjects []string `json:"missing_subjects"`
	TotalMissing    int      `json:"total_missing"`
}

// CoverageStats aggregates a validation run
type CoverageStats struct {
	ProgramsExamined int `json:"programs_examined"`
	Buckets          int `json:"buckets"`
	BucketsWithGaps  int `json:"buckets_with_gaps"`
	TotalMissing     int `json:"total_missing"`
	CandidateCount   int `json:"candidate_count"`
}

// CoverageReport is the outcome of validating a candidate open-subject
// list against training-program requirements. NoTrainingProgram marks the
// soft-pass case: nothing to check against is a warning, never a failure.
type CoverageReport struct {
	Valid             bool          `json:"valid"`
	Exempt            bool          `json:"exempt,omitempty"`
	Warning           bool          `json:"warning,omitempty"`
	NoTrainingProgram bool          `json:"no_training_program,omitempty"`
	Message           string        `json:"message"`
	MissingByMajor    []CoverageGap `json:"missing_by_major,omitempty"`
	Stats             CoverageStats `json:"stats"`
}

// CoverageValidator reconciles a candidate open-subject list against the
// union of training-program requirements for the ordinals in session.
// It is pure and deterministic: identical inputs yield identical reports,
// with buckets in first-seen order of the program slice.
type CoverageValidator struct{}

// NewCoverageValidator creates a new CoverageValidator
func NewCoverageValidator() *CoverageValidator {
	return &CoverageValidator{}
}

// Validate computes the coverage report. The caller maps the coarse term
// to ordinals first and fetches the training programs matching them;
// exempt terms never reach this method.
func (v *CoverageValidator) Validate(candidateCodes []string, programs []*TrainingProgram) CoverageReport {
	candidate := make(map[string]bool, len(candidateCodes))
	for _, code := range NormalizeCodes(candidateCodes) {
		candidate[code] = true
	}

	report := CoverageReport{
		Stats: CoverageStats{
			ProgramsExamined: len(programs),
			CandidateCount:   len(candidate),
		},
	}

	if len(programs) == 0 {
		report.Valid = true
		report.Warning = true
		report.NoTrainingProgram = true
		report.Message = "No training program found for the selected semesters; nothing to validate against"
		return report
	}

	// Group-and-union: bucket records by (major, faculty), union the
	// required sets across the bucket's ordinals. A subject required in
	// any contributing ordinal is required overall.
	type bucket struct {
		major       string
		faculty     string
		semesters   []string
		required    []string
		requiredSet map[string]bool
	}
	var order []string
	buckets := make(map[string]*bucket)

	for _, p := range programs {
		key := p.GroupKey()
		b, ok := buckets[key]
		if !ok {
			b = &bucket{
				major:       p.Major,
				faculty:     p.FacultyCode,
				requiredSet: make(map[string]bool),
			}
			buckets[key] = b
			order = append(order, key)
		}
		if !containsFold(b.semesters, p.OrdinalLabel) {
			b.semesters = append(b.semesters, p.OrdinalLabel)
		}
		for _, code := range p.SubjectCodes {
			if !b.requiredSet[code] {
				b.requiredSet[code] = true
				b.required = append(b.required, code)
			}
		}
	}

	report.Stats.Buckets = len(order)

	for _, key := range order {
		b := buckets[key]
		var missing []string
		for _, code := range b.required {
			if !candidate[code] {
				missing = append(missing, code)
			}
		}
		if len(missing) == 0 {
			continue
		}

		sample := missing
		if len(sample) > MissingSampleLimit {
			sample = sample[:MissingSampleLimit]
		}
		report.MissingByMajor = append(report.MissingByMajor, CoverageGap{
			Major:           b.major,
			Faculty:         b.faculty,
			Semesters:       b.semesters,
			RequiredCount:   len(b.required),
			MissingCount:    len(missing),
			MissingSubjects: sample,
			TotalMissing:    len(missing),
		})
		report.Stats.BucketsWithGaps++
		report.Stats.TotalMissing += len(missing)
	}

	report.Valid = report.Stats.BucketsWithGaps == 0
	if report.Valid {
		report.Message = "All required subjects are covered by the open list"
	} else {
		report.Message = fmt.Sprintf("%d required subject(s) missing across %d major/faculty group(s)",
			report.Stats.TotalMissing, report.Stats.BucketsWithGaps)
	}

	return report
}

// ExemptReport is the fixed report for terms without a coverage
// requirement (summer)
func ExemptReport() CoverageReport {
	return CoverageReport{
		Valid:   true,
		Exempt:  true,
		Message: "Term is exempt from training-program coverage validation",
	}
}
