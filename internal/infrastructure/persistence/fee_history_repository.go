package persistence

import (
	"context"

	"github.com/acadreg/backend/internal/domain/tuition"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormFeeHistoryRepository implements FeeHistoryRepository using GORM.
// The collection is append-only: there is no update or delete path.
type GormFeeHistoryRepository struct {
	db *gorm.DB
}

// NewGormFeeHistoryRepository creates a new GormFeeHistoryRepository
func NewGormFeeHistoryRepository(db *gorm.DB) *GormFeeHistoryRepository {
	return &GormFeeHistoryRepository{db: db}
}

// AppendBatch appends snapshots for one cascade batch
func (r *GormFeeHistoryRepository) AppendBatch(ctx context.Context, entries []*tuition.FeeHistoryEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(entries, cascadeBatchSize).Error
}

// FindByRecord lists the snapshots of one tuition record, newest first
func (r *GormFeeHistoryRepository) FindByRecord(ctx context.Context, recordID uuid.UUID) ([]tuition.FeeHistoryEntry, error) {
	var entries []tuition.FeeHistoryEntry
	if err := r.db.WithContext(ctx).
		Where("record_id = ?", recordID).
		Order("snapshot_at DESC, created_at DESC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// Ensure GormFeeHistoryRepository implements FeeHistoryRepository
var _ tuition.FeeHistoryRepository = (*GormFeeHistoryRepository)(nil)
