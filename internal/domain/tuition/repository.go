package tuition

import (
	"context"

	"github.com/acadreg/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// RegulationRepository defines the interface for the settings singleton
type RegulationRepository interface {
	// Get loads the singleton, creating it with defaults on first access
	Get(ctx context.Context) (*RegulationSettings, error)

	// Save persists the singleton with an optimistic version check.
	// Returns shared.ErrConcurrencyConflict when the stored version has
	// moved past expectedVersion.
	Save(ctx context.Context, settings *RegulationSettings, expectedVersion int) error
}

// TuitionRecordRepository defines the interface for tuition records
type TuitionRecordRepository interface {
	// FindByID finds a record by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*TuitionRecord, error)

	// FindAll finds records matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]TuitionRecord, error)

	// FindAllForCascade loads every record in a stable order for a
	// full-fleet recompute
	FindAllForCascade(ctx context.Context) ([]*TuitionRecord, error)

	// Save creates or updates a record
	Save(ctx context.Context, record *TuitionRecord) error

	// SaveBatch saves multiple records
	SaveBatch(ctx context.Context, records []*TuitionRecord) error

	// Count counts all records
	Count(ctx context.Context) (int64, error)
}

// FeeHistoryRepository defines the interface for the append-only snapshot
// collection. There is deliberately no update or delete.
type FeeHistoryRepository interface {
	// AppendBatch appends snapshots for one cascade batch
	AppendBatch(ctx context.Context, entries []*FeeHistoryEntry) error

	// FindByRecord lists the snapshots of one tuition record,
	// newest first
	FindByRecord(ctx context.Context, recordID uuid.UUID) ([]FeeHistoryEntry, error)
}

// UnitOfWork runs a function with repositories bound to one transaction.
// The cascade's snapshot-then-recompute sequence runs inside a single
// unit so a snapshot failure always aborts the recompute.
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(repos TxRepositories) error) error
}

// TxRepositories bundles the repositories of one transaction
type TxRepositories struct {
	Regulation RegulationRepository
	Records    TuitionRecordRepository
	History    FeeHistoryRepository
}
