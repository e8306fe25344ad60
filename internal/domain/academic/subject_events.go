package academic

import (
	"github.com/acadreg/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constants
const (
	AggregateTypeSubject         = "Subject"
	AggregateTypeCurriculumEntry = "CurriculumEntry"
	AggregateTypeOpenSubjectList = "OpenSubjectList"
)

// Event type constants
const (
	EventTypeSubjectCreated         = "SubjectCreated"
	EventTypeSubjectUpdated         = "SubjectUpdated"
	EventTypeCurriculumEntryCreated = "CurriculumEntryCreated"
	EventTypeCurriculumEntryUpdated = "CurriculumEntryUpdated"
	EventTypeOpenSubjectListChanged = "OpenSubjectListChanged"
)

// SubjectCreatedEvent is published when a new subject enters the catalog
type SubjectCreatedEvent struct {
	shared.BaseDomainEvent
	SubjectID uuid.UUID `json:"subject_id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
}

// NewSubjectCreatedEvent creates a new SubjectCreatedEvent
func NewSubjectCreatedEvent(subject *Subject) *SubjectCreatedEvent {
	return &SubjectCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSubjectCreated, AggregateTypeSubject, subject.ID),
		SubjectID:       subject.ID,
		Code:            subject.Code,
		Name:            subject.Name,
	}
}

// SubjectUpdatedEvent is published when a subject's attributes change
type SubjectUpdatedEvent struct {
	shared.BaseDomainEvent
	SubjectID uuid.UUID `json:"subject_id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
}

// NewSubjectUpdatedEvent creates a new SubjectUpdatedEvent
func NewSubjectUpdatedEvent(subject *Subject) *SubjectUpdatedEvent {
	return &SubjectUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSubjectUpdated, AggregateTypeSubject, subject.ID),
		SubjectID:       subject.ID,
		Code:            subject.Code,
		Name:            subject.Name,
	}
}

// CurriculumEntryCreatedEvent is published when a semester entry is created
type CurriculumEntryCreatedEvent struct {
	shared.BaseDomainEvent
	EntryID       uuid.UUID `json:"entry_id"`
	Major         string    `json:"major"`
	ProgramCode   string    `json:"program_code,omitempty"`
	SemesterLabel string    `json:"semester_label"`
	SubjectCount  int       `json:"subject_count"`
}

// NewCurriculumEntryCreatedEvent creates a new CurriculumEntryCreatedEvent
func NewCurriculumEntryCreatedEvent(entry *CurriculumEntry) *CurriculumEntryCreatedEvent {
	return &CurriculumEntryCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCurriculumEntryCreated, AggregateTypeCurriculumEntry, entry.ID),
		EntryID:         entry.ID,
		Major:           entry.Major,
		ProgramCode:     entry.ProgramCode,
		SemesterLabel:   entry.SemesterLabel,
		SubjectCount:    len(entry.Items),
	}
}

// CurriculumEntryUpdatedEvent is published when a semester entry is edited
type CurriculumEntryUpdatedEvent struct {
	shared.BaseDomainEvent
	EntryID       uuid.UUID `json:"entry_id"`
	Major         string    `json:"major"`
	ProgramCode   string    `json:"program_code,omitempty"`
	SemesterLabel string    `json:"semester_label"`
	SubjectCount  int       `json:"subject_count"`
}

// NewCurriculumEntryUpdatedEvent creates a new CurriculumEntryUpdatedEvent
func NewCurriculumEntryUpdatedEvent(entry *CurriculumEntry) *CurriculumEntryUpdatedEvent {
	return &CurriculumEntryUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCurriculumEntryUpdated, AggregateTypeCurriculumEntry, entry.ID),
		EntryID:         entry.ID,
		Major:           entry.Major,
		ProgramCode:     entry.ProgramCode,
		SemesterLabel:   entry.SemesterLabel,
		SubjectCount:    len(entry.Items),
	}
}

// OpenSubjectListChangedEvent is published when an open list's membership changes
type OpenSubjectListChangedEvent struct {
	shared.BaseDomainEvent
	ListID       uuid.UUID `json:"list_id"`
	AcademicYear string    `json:"academic_year"`
	Term         string    `json:"term"`
	SubjectCount int       `json:"subject_count"`
}

// NewOpenSubjectListChangedEvent creates a new OpenSubjectListChangedEvent
func NewOpenSubjectListChangedEvent(list *OpenSubjectList) *OpenSubjectListChangedEvent {
	return &OpenSubjectListChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOpenSubjectListChanged, AggregateTypeOpenSubjectList, list.ID),
		ListID:          list.ID,
		AcademicYear:    list.AcademicYear,
		Term:            string(list.Term),
		SubjectCount:    len(list.Items),
	}
}
