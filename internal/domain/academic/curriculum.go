package academic

import (
	"strings"
	"time"

	"github.com/acadreg/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// defaultProgramTrack is the sentinel a missing or empty program code
// collapses to. Tracks are always compared through NormalizeProgramCode so
// "", " " and an absent value all land on the same track.
const defaultProgramTrack = "__DEFAULT__"

// NormalizeProgramCode collapses an absent/empty program code onto the
// default-track sentinel and uppercases everything else.
func NormalizeProgramCode(programCode string) string {
	trimmed := strings.TrimSpace(programCode)
	if trimmed == "" {
		return defaultProgramTrack
	}
	return strings.ToUpper(trimmed)
}

// CurriculumItem is one subject slot within a semester entry. It carries a
// denormalized snapshot of the subject taken at write time so curriculum
// listings survive later subject edits unchanged.
type CurriculumItem struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	EntryID         uuid.UUID `gorm:"type:uuid;not null;index"`
	Position        int       `gorm:"not null"`
	SubjectCode     string    `gorm:"type:varchar(20);not null"`
	SubjectName     string    `gorm:"type:varchar(200);not null"`
	SubjectType     SubjectType
	TheoryCredits   int `gorm:"not null;default:0"`
	PracticeCredits int `gorm:"not null;default:0"`
	Note            string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName returns the table name for GORM
func (CurriculumItem) TableName() string {
	return "curriculum_items"
}

// NewCurriculumItem snapshots a subject into an item at the given position
func NewCurriculumItem(entryID uuid.UUID, position int, subject *Subject, note string) CurriculumItem {
	now := time.Now()
	return CurriculumItem{
		ID:              uuid.New(),
		EntryID:         entryID,
		Position:        position,
		SubjectCode:     subject.Code,
		SubjectName:     subject.Name,
		SubjectType:     subject.SubjectType,
		TheoryCredits:   subject.TheoryCredits,
		PracticeCredits: subject.PracticeCredits,
		Note:            note,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// CurriculumEntry is one semester's required-subject list for one track
// (major + program code). The uniqueness of (major, track, semester) and
// the one-semester-per-subject rule are enforced by the ConflictDetector
// before any write; the storage index is only a backstop against races.
type CurriculumEntry struct {
	shared.BaseAggregateRoot
	Major         string           `gorm:"type:varchar(100);not null;index:idx_curriculum_track"`
	ProgramCode   string           `gorm:"type:varchar(50);index:idx_curriculum_track"`
	SemesterLabel string           `gorm:"type:varchar(50);not null"`
	Items         []CurriculumItem `gorm:"foreignKey:EntryID;references:ID"`
}

// TableName returns the table name for GORM
func (CurriculumEntry) TableName() string {
	return "curriculum_entries"
}

// NewCurriculumEntry creates a semester entry for a track
func NewCurriculumEntry(major, programCode, semesterLabel string) (*CurriculumEntry, error) {
	major = strings.TrimSpace(major)
	if major == "" {
		return nil, shared.NewDomainError("INVALID_MAJOR", "Major cannot be empty")
	}
	semesterLabel = strings.TrimSpace(semesterLabel)
	if semesterLabel == "" {
		return nil, shared.NewDomainError("INVALID_SEMESTER", "Semester label cannot be empty")
	}

	entry := &CurriculumEntry{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Major:             major,
		ProgramCode:       strings.TrimSpace(programCode),
		SemesterLabel:     semesterLabel,
		Items:             make([]CurriculumItem, 0),
	}

	entry.AddDomainEvent(NewCurriculumEntryCreatedEvent(entry))

	return entry, nil
}

// TrackProgram returns the normalized program code of this entry's track
func (e *CurriculumEntry) TrackProgram() string {
	return NormalizeProgramCode(e.ProgramCode)
}

// SameTrack reports whether the other entry belongs to the same
// (major, program) track. Majors compare case-insensitively.
func (e *CurriculumEntry) SameTrack(other *CurriculumEntry) bool {
	return strings.EqualFold(e.Major, other.Major) && e.TrackProgram() == other.TrackProgram()
}

// SubjectCodes returns the entry's subject codes in item order
func (e *CurriculumEntry) SubjectCodes() []string {
	codes := make([]string, len(e.Items))
	for i, item := range e.Items {
		codes[i] = item.SubjectCode
	}
	return codes
}

// HasSubject reports whether the entry contains the normalized code
func (e *CurriculumEntry) HasSubject(code string) bool {
	code = NormalizeCode(code)
	for _, item := range e.Items {
		if item.SubjectCode == code {
			return true
		}
	}
	return false
}

// ItemInput pairs a subject with its free-text note for ReplaceItems
type ItemInput struct {
	Subject *Subject
	Note    string
}

// ReplaceItems replaces the entry's subject list with fresh snapshots,
// preserving the submitted order
func (e *CurriculumEntry) ReplaceItems(inputs []ItemInput) error {
	if len(inputs) == 0 {
		return shared.NewDomainError("EMPTY_SUBJECT_LIST", "A semester entry must contain at least one subject")
	}

	items := make([]CurriculumItem, 0, len(inputs))
	for i, in := range inputs {
		if in.Subject == nil {
			return shared.NewDomainError("INVALID_SUBJECT", "Subject snapshot cannot be nil")
		}
		items = append(items, NewCurriculumItem(e.ID, i+1, in.Subject, in.Note))
	}

	e.Items = items
	e.UpdatedAt = time.Now()
	e.IncrementVersion()

	e.AddDomainEvent(NewCurriculumEntryUpdatedEvent(e))

	return nil
}

// Rename changes the semester label, typically as part of an in-place edit
func (e *CurriculumEntry) Rename(semesterLabel string) error {
	semesterLabel = strings.TrimSpace(semesterLabel)
	if semesterLabel == "" {
		return shared.NewDomainError("INVALID_SEMESTER", "Semester label cannot be empty")
	}

	e.SemesterLabel = semesterLabel
	e.UpdatedAt = time.Now()
	e.IncrementVersion()

	e.AddDomainEvent(NewCurriculumEntryUpdatedEvent(e))

	return nil
}
