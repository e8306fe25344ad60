package persistence

import (
	"context"
	"errors"

	"github.com/acadreg/backend/internal/domain/shared"
	"github.com/acadreg/backend/internal/domain/tuition"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// cascadeBatchSize bounds memory during a full-fleet recompute load
const cascadeBatchSize = 500

// GormTuitionRecordRepository implements TuitionRecordRepository using GORM
type GormTuitionRecordRepository struct {
	db *gorm.DB
}

// NewGormTuitionRecordRepository creates a new GormTuitionRecordRepository
func NewGormTuitionRecordRepository(db *gorm.DB) *GormTuitionRecordRepository {
	return &GormTuitionRecordRepository{db: db}
}

// FindByID finds a record by its ID
func (r *GormTuitionRecordRepository) FindByID(ctx context.Context, id uuid.UUID) (*tuition.TuitionRecord, error) {
	var record tuition.TuitionRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindAll finds records matching the filter
func (r *GormTuitionRecordRepository) FindAll(ctx context.Context, filter shared.Filter) ([]tuition.TuitionRecord, error) {
	var records []tuition.TuitionRecord
	query := r.db.WithContext(ctx).Model(&tuition.TuitionRecord{})

	if filter.Search != "" {
		query = query.Where("student_code ILIKE ?", "%"+filter.Search+"%")
	}

	for key, value := range filter.Filters {
		switch key {
		case "student_code":
			query = query.Where("student_code = ?", value)
		case "academic_year":
			query = query.Where("academic_year = ?", value)
		case "term":
			query = query.Where("term = ?", value)
		}
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderBy := ValidateSortField(filter.OrderBy, TuitionRecordSortFields, "created_at")
		query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("student_code ASC, academic_year DESC")
	}

	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// FindAllForCascade loads every record in a stable order for a full-fleet
// recompute. Loaded in batches so a large fleet does not require one
// giant result set in flight.
func (r *GormTuitionRecordRepository) FindAllForCascade(ctx context.Context) ([]*tuition.TuitionRecord, error) {
	var records []*tuition.TuitionRecord

	var batch []*tuition.TuitionRecord
	err := r.db.WithContext(ctx).
		Model(&tuition.TuitionRecord{}).
		Order("created_at ASC, id ASC").
		FindInBatches(&batch, cascadeBatchSize, func(tx *gorm.DB, _ int) error {
			records = append(records, batch...)
			batch = nil
			return nil
		}).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Save creates or updates a record
func (r *GormTuitionRecordRepository) Save(ctx context.Context, record *tuition.TuitionRecord) error {
	return r.db.WithContext(ctx).Save(record).Error
}

// SaveBatch saves multiple records
func (r *GormTuitionRecordRepository) SaveBatch(ctx context.Context, records []*tuition.TuitionRecord) error {
	if len(records) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Save(records).Error
}

// Count counts all records
func (r *GormTuitionRecordRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&tuition.TuitionRecord{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormTuitionRecordRepository implements TuitionRecordRepository
var _ tuition.TuitionRecordRepository = (*GormTuitionRecordRepository)(nil)
