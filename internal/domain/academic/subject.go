package academic

import (
	"time"

	"github.com/acadreg/backend/internal/domain/shared"
)

// SubjectType classifies a subject within a program
type SubjectType string

const (
	SubjectTypeGeneral    SubjectType = "general"
	SubjectTypeFoundation SubjectType = "foundation"
	SubjectTypeMajor      SubjectType = "major"
	SubjectTypeElective   SubjectType = "elective"
)

// Subject represents one catalog subject. Its code is its public identity;
// every other collection references subjects by code, and the consistency
// engine, not the store, is responsible for keeping those references valid.
type Subject struct {
	shared.BaseAggregateRoot
	Code            string      `gorm:"type:varchar(20);not null;uniqueIndex"`
	Name            string      `gorm:"type:varchar(200);not null"`
	EnglishName     string      `gorm:"type:varchar(200)"`
	FacultyCode     string      `gorm:"type:varchar(20);index"`
	SubjectType     SubjectType `gorm:"type:varchar(20);not null;default:'major'"`
	TheoryCredits   int         `gorm:"not null;default:0"`
	PracticeCredits int         `gorm:"not null;default:0"`
	TotalPeriods    int         `gorm:"not null;default:0"`
	Prerequisites   StringList  `gorm:"type:jsonb"`
	Equivalents     StringList  `gorm:"type:jsonb"`
	Supersedes      StringList  `gorm:"type:jsonb"`
}

// TableName returns the table name for GORM
func (Subject) TableName() string {
	return "subjects"
}

// NewSubject creates a new subject with a normalized code
func NewSubject(code, name string, subjectType SubjectType, theoryCredits, practiceCredits int) (*Subject, error) {
	code = NormalizeCode(code)
	if err := validateSubjectCode(code); err != nil {
		return nil, err
	}
	if err := validateSubjectName(name); err != nil {
		return nil, err
	}
	if theoryCredits < 0 || practiceCredits < 0 {
		return nil, shared.NewDomainError("INVALID_CREDITS", "Credit counts cannot be negative")
	}
	if subjectType == "" {
		subjectType = SubjectTypeMajor
	}

	subject := &Subject{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Name:              name,
		SubjectType:       subjectType,
		TheoryCredits:     theoryCredits,
		PracticeCredits:   practiceCredits,
		Prerequisites:     StringList{},
		Equivalents:       StringList{},
		Supersedes:        StringList{},
	}

	subject.AddDomainEvent(NewSubjectCreatedEvent(subject))

	return subject, nil
}

// TotalCredits returns the combined theory and practice credit count
func (s *Subject) TotalCredits() int {
	return s.TheoryCredits + s.PracticeCredits
}

// Update updates the subject's display attributes
func (s *Subject) Update(name, englishName, facultyCode string, subjectType SubjectType) error {
	if err := validateSubjectName(name); err != nil {
		return err
	}

	s.Name = name
	s.EnglishName = englishName
	s.FacultyCode = NormalizeCode(facultyCode)
	if subjectType != "" {
		s.SubjectType = subjectType
	}
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	s.AddDomainEvent(NewSubjectUpdatedEvent(s))

	return nil
}

// SetCredits updates the credit counts
func (s *Subject) SetCredits(theory, practice int) error {
	if theory < 0 || practice < 0 {
		return shared.NewDomainError("INVALID_CREDITS", "Credit counts cannot be negative")
	}

	s.TheoryCredits = theory
	s.PracticeCredits = practice
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	s.AddDomainEvent(NewSubjectUpdatedEvent(s))

	return nil
}

// RecomputePeriods derives the total period count from the regulation's
// credit-to-period coefficients. Stored denormalized so listings never
// need the regulation singleton.
func (s *Subject) RecomputePeriods(theoryCoefficient, practiceCoefficient int) {
	s.TotalPeriods = s.TheoryCredits*theoryCoefficient + s.PracticeCredits*practiceCoefficient
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

// SetRelations replaces the related-code lists. Codes are normalized;
// validity against the catalog is the caller's responsibility.
func (s *Subject) SetRelations(prerequisites, equivalents, supersedes []string) {
	s.Prerequisites = NormalizeCodes(prerequisites)
	s.Equivalents = NormalizeCodes(equivalents)
	s.Supersedes = NormalizeCodes(supersedes)
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

func validateSubjectCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Subject code cannot be empty")
	}
	if len(code) > 20 {
		return shared.NewDomainError("INVALID_CODE", "Subject code cannot exceed 20 characters")
	}
	for _, r := range code {
		if !((r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return shared.NewDomainError("INVALID_CODE", "Subject code can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}

func validateSubjectName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Subject name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Subject name cannot exceed 200 characters")
	}
	return nil
}
