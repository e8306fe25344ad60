package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// CommonSortFields contains fields common to most entities
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// SubjectSortFields contains allowed sort fields for subjects
var SubjectSortFields = map[string]bool{
	"id":               true,
	"created_at":       true,
	"updated_at":       true,
	"code":             true,
	"name":             true,
	"faculty_code":     true,
	"subject_type":     true,
	"theory_credits":   true,
	"practice_credits": true,
	"total_periods":    true,
}

// CurriculumSortFields contains allowed sort fields for curriculum entries
var CurriculumSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"major":          true,
	"program_code":   true,
	"semester_label": true,
}

// TrainingProgramSortFields contains allowed sort fields for training programs
var TrainingProgramSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"major":         true,
	"faculty_code":  true,
	"ordinal_label": true,
}

// OpenSubjectListSortFields contains allowed sort fields for open-subject lists
var OpenSubjectListSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"academic_year": true,
	"term":          true,
	"visibility":    true,
}

// TuitionRecordSortFields contains allowed sort fields for tuition records
var TuitionRecordSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"student_code":  true,
	"academic_year": true,
	"term":          true,
	"amount_total":  true,
}
