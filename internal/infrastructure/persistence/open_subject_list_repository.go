package persistence

import (
	"context"
	"errors"

	"github.com/acadreg/backend/internal/domain/academic"
	"github.com/acadreg/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormOpenSubjectListRepository implements OpenSubjectListRepository using GORM
type GormOpenSubjectListRepository struct {
	db *gorm.DB
}

// NewGormOpenSubjectListRepository creates a new GormOpenSubjectListRepository
func NewGormOpenSubjectListRepository(db *gorm.DB) *GormOpenSubjectListRepository {
	return &GormOpenSubjectListRepository{db: db}
}

// FindByID finds a list (items included) by its ID
func (r *GormOpenSubjectListRepository) FindByID(ctx context.Context, id uuid.UUID) (*academic.OpenSubjectList, error) {
	var list academic.OpenSubjectList
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("seq ASC")
		}).
		First(&list, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &list, nil
}

// FindByBucket finds the list of one (academic year, term) bucket
func (r *GormOpenSubjectListRepository) FindByBucket(ctx context.Context, academicYear string, term academic.CoarseTerm) (*academic.OpenSubjectList, error) {
	var list academic.OpenSubjectList
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("seq ASC")
		}).
		Where("academic_year = ? AND term = ?", academicYear, term).
		First(&list).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &list, nil
}

// FindAll finds lists matching the filter
func (r *GormOpenSubjectListRepository) FindAll(ctx context.Context, filter shared.Filter) ([]academic.OpenSubjectList, error) {
	var lists []academic.OpenSubjectList
	query := r.db.WithContext(ctx).Model(&academic.OpenSubjectList{}).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("seq ASC")
		})

	for key, value := range filter.Filters {
		switch key {
		case "academic_year":
			query = query.Where("academic_year = ?", value)
		case "term":
			query = query.Where("term = ?", value)
		case "visibility":
			query = query.Where("visibility = ?", value)
		}
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderBy := ValidateSortField(filter.OrderBy, OpenSubjectListSortFields, "created_at")
		query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("academic_year DESC, term ASC")
	}

	if err := query.Find(&lists).Error; err != nil {
		return nil, err
	}
	return lists, nil
}

// Save creates or updates a list with its items
func (r *GormOpenSubjectListRepository) Save(ctx context.Context, list *academic.OpenSubjectList) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(list).Error; err != nil {
			return err
		}

		currentItemIDs := make([]uuid.UUID, len(list.Items))
		for i, item := range list.Items {
			currentItemIDs[i] = item.ID
		}

		if len(currentItemIDs) > 0 {
			if err := tx.Where("list_id = ? AND id NOT IN ?", list.ID, currentItemIDs).
				Delete(&academic.OpenSubjectItem{}).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Where("list_id = ?", list.ID).
				Delete(&academic.OpenSubjectItem{}).Error; err != nil {
				return err
			}
		}

		for i := range list.Items {
			list.Items[i].ListID = list.ID
			if err := tx.Save(&list.Items[i]).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// Delete deletes a list and its items
func (r *GormOpenSubjectListRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("list_id = ?", id).
			Delete(&academic.OpenSubjectItem{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&academic.OpenSubjectList{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Ensure GormOpenSubjectListRepository implements OpenSubjectListRepository
var _ academic.OpenSubjectListRepository = (*GormOpenSubjectListRepository)(nil)
