package persistence

import (
	"context"
	"errors"

	"github.com/acadreg/backend/internal/domain/academic"
	"github.com/acadreg/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCurriculumRepository implements CurriculumRepository using GORM
type GormCurriculumRepository struct {
	db *gorm.DB
}

// NewGormCurriculumRepository creates a new GormCurriculumRepository
func NewGormCurriculumRepository(db *gorm.DB) *GormCurriculumRepository {
	return &GormCurriculumRepository{db: db}
}

// FindByID finds an entry (items included) by its ID
func (r *GormCurriculumRepository) FindByID(ctx context.Context, id uuid.UUID) (*academic.CurriculumEntry, error) {
	var entry academic.CurriculumEntry
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&entry, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// FindByTrack loads every entry of a (major, program) track in one query.
// A track's program code is compared through its normalized form, so the
// empty program code and any spelling of it land on the same track. The
// program-code normalization cannot be pushed into SQL, so the candidate
// set is fetched by major and narrowed here.
func (r *GormCurriculumRepository) FindByTrack(ctx context.Context, major, programCode string) ([]*academic.CurriculumEntry, error) {
	var candidates []*academic.CurriculumEntry
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("LOWER(major) = LOWER(?)", major).
		Order("created_at ASC").
		Find(&candidates).Error; err != nil {
		return nil, err
	}

	track := academic.NormalizeProgramCode(programCode)
	entries := make([]*academic.CurriculumEntry, 0, len(candidates))
	for _, entry := range candidates {
		if entry.TrackProgram() == track {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

// FindAll finds entries matching the filter
func (r *GormCurriculumRepository) FindAll(ctx context.Context, filter shared.Filter) ([]academic.CurriculumEntry, error) {
	var entries []academic.CurriculumEntry
	query := r.applyFilter(r.db.WithContext(ctx).Model(&academic.CurriculumEntry{}), filter).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		})

	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// Save creates or updates an entry with its items
func (r *GormCurriculumRepository) Save(ctx context.Context, entry *academic.CurriculumEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(entry).Error; err != nil {
			return err
		}

		// Replace items: delete the ones no longer present, upsert the rest
		currentItemIDs := make([]uuid.UUID, len(entry.Items))
		for i, item := range entry.Items {
			currentItemIDs[i] = item.ID
		}

		if len(currentItemIDs) > 0 {
			if err := tx.Where("entry_id = ? AND id NOT IN ?", entry.ID, currentItemIDs).
				Delete(&academic.CurriculumItem{}).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Where("entry_id = ?", entry.ID).
				Delete(&academic.CurriculumItem{}).Error; err != nil {
				return err
			}
		}

		for i := range entry.Items {
			entry.Items[i].EntryID = entry.ID
			if err := tx.Save(&entry.Items[i]).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// Delete deletes an entry and its items
func (r *GormCurriculumRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("entry_id = ?", id).
			Delete(&academic.CurriculumItem{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&academic.CurriculumEntry{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Count counts entries matching the filter
func (r *GormCurriculumRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&academic.CurriculumEntry{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormCurriculumRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderBy := ValidateSortField(filter.OrderBy, CurriculumSortFields, "created_at")
		query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("major ASC, semester_label ASC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormCurriculumRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("major ILIKE ? OR semester_label ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "major":
			query = query.Where("LOWER(major) = LOWER(?)", value)
		case "program_code":
			query = query.Where("program_code = ?", value)
		case "semester_label":
			query = query.Where("semester_label = ?", value)
		}
	}

	return query
}

// Ensure GormCurriculumRepository implements CurriculumRepository
var _ academic.CurriculumRepository = (*GormCurriculumRepository)(nil)
