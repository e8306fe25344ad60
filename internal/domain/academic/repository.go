package academic

import (
	"context"

	"github.com/acadreg/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SubjectRepository defines the interface for subject persistence
type SubjectRepository interface {
	// FindByID finds a subject by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Subject, error)

	// FindByCode finds a subject by its normalized code
	FindByCode(ctx context.Context, code string) (*Subject, error)

	// FindByCodes finds subjects matching any of the normalized codes.
	// Missing codes are simply absent from the result, not errors.
	FindByCodes(ctx context.Context, codes []string) ([]Subject, error)

	// FindAll finds all subjects matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Subject, error)

	// Save creates or updates a subject
	Save(ctx context.Context, subject *Subject) error

	// Delete deletes a subject
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts subjects matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsByCode checks whether a subject with the normalized code exists
	ExistsByCode(ctx context.Context, code string) (bool, error)
}

// CurriculumRepository defines the interface for curriculum persistence
type CurriculumRepository interface {
	// FindByID finds an entry (items included) by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*CurriculumEntry, error)

	// FindByTrack loads every entry of a (major, program) track, items
	// included, in one query. The program code is compared through its
	// normalized form: empty input matches entries with no program code.
	FindByTrack(ctx context.Context, major, programCode string) ([]*CurriculumEntry, error)

	// FindAll finds entries matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]CurriculumEntry, error)

	// Save creates or updates an entry with its items
	Save(ctx context.Context, entry *CurriculumEntry) error

	// Delete deletes an entry and its items
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts entries matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// TrainingProgramRepository defines the interface for training-program persistence
type TrainingProgramRepository interface {
	// FindByID finds a record by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*TrainingProgram, error)

	// FindByOrdinals finds every record whose ordinal label is in the
	// given set, in stable (created_at) order
	FindByOrdinals(ctx context.Context, ordinalLabels []string) ([]*TrainingProgram, error)

	// FindByGroup finds the records of one (major, faculty) pair
	FindByGroup(ctx context.Context, major, facultyCode string) ([]*TrainingProgram, error)

	// FindAll finds records matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]TrainingProgram, error)

	// Save creates or updates a record
	Save(ctx context.Context, program *TrainingProgram) error

	// Delete deletes a record
	Delete(ctx context.Context, id uuid.UUID) error
}

// OpenSubjectListRepository defines the interface for open-list persistence
type OpenSubjectListRepository interface {
	// FindByID finds a list (items included) by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*OpenSubjectList, error)

	// FindByBucket finds the list of one (academic year, term) bucket
	FindByBucket(ctx context.Context, academicYear string, term CoarseTerm) (*OpenSubjectList, error)

	// FindAll finds lists matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]OpenSubjectList, error)

	// Save creates or updates a list with its items
	Save(ctx context.Context, list *OpenSubjectList) error

	// Delete deletes a list and its items
	Delete(ctx context.Context, id uuid.UUID) error
}
