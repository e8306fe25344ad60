package academic

import (
	"strings"
	"time"

	"github.com/acadreg/backend/internal/domain/shared"
)

// TrainingProgram holds the required subject set for one
// (major, faculty, ordinal semester) combination. A major/faculty pair
// typically owns one record per ordinal; the records are never merged in
// storage; the CoverageValidator unions them at query time.
type TrainingProgram struct {
	shared.BaseAggregateRoot
	Major        string     `gorm:"type:varchar(100);not null;index:idx_training_program_group"`
	FacultyCode  string     `gorm:"type:varchar(20);not null;index:idx_training_program_group"`
	OrdinalLabel string     `gorm:"type:varchar(50);not null;index"`
	SubjectCodes StringList `gorm:"type:jsonb"`
}

// TableName returns the table name for GORM
func (TrainingProgram) TableName() string {
	return "training_programs"
}

// NewTrainingProgram creates a training-program record. Subject codes are
// normalized but not checked against the catalog here; the application
// write path resolves them and reports invalid ones as warnings.
func NewTrainingProgram(major, facultyCode, ordinalLabel string, subjectCodes []string) (*TrainingProgram, error) {
	major = strings.TrimSpace(major)
	if major == "" {
		return nil, shared.NewDomainError("INVALID_MAJOR", "Major cannot be empty")
	}
	facultyCode = NormalizeCode(facultyCode)
	if facultyCode == "" {
		return nil, shared.NewDomainError("INVALID_FACULTY", "Faculty code cannot be empty")
	}
	ordinalLabel = strings.TrimSpace(ordinalLabel)
	if ordinalLabel == "" {
		return nil, shared.NewDomainError("INVALID_SEMESTER", "Ordinal semester label cannot be empty")
	}

	return &TrainingProgram{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Major:             major,
		FacultyCode:       facultyCode,
		OrdinalLabel:      ordinalLabel,
		SubjectCodes:      dedupeCodes(subjectCodes),
	}, nil
}

// ReplaceSubjects replaces the required subject set
func (p *TrainingProgram) ReplaceSubjects(subjectCodes []string) {
	p.SubjectCodes = dedupeCodes(subjectCodes)
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// GroupKey identifies the (major, faculty) bucket this record unions into
func (p *TrainingProgram) GroupKey() string {
	return strings.ToUpper(strings.TrimSpace(p.Major)) + "|" + p.FacultyCode
}

// dedupeCodes normalizes codes and drops duplicates, preserving
// first-occurrence order
func dedupeCodes(codes []string) StringList {
	seen := make(map[string]bool, len(codes))
	out := make(StringList, 0, len(codes))
	for _, raw := range codes {
		code := NormalizeCode(raw)
		if code == "" || seen[code] {
			continue
		}
		seen[code] = true
		out = append(out, code)
	}
	return out
}
