package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/acadreg/backend/internal/domain/academic"
	"github.com/acadreg/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSubjectRepository implements SubjectRepository using GORM
type GormSubjectRepository struct {
	db *gorm.DB
}

// NewGormSubjectRepository creates a new GormSubjectRepository
func NewGormSubjectRepository(db *gorm.DB) *GormSubjectRepository {
	return &GormSubjectRepository{db: db}
}

// FindByID finds a subject by its ID
func (r *GormSubjectRepository) FindByID(ctx context.Context, id uuid.UUID) (*academic.Subject, error) {
	var subject academic.Subject
	if err := r.db.WithContext(ctx).First(&subject, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &subject, nil
}

// FindByCode finds a subject by its normalized code
func (r *GormSubjectRepository) FindByCode(ctx context.Context, code string) (*academic.Subject, error) {
	var subject academic.Subject
	if err := r.db.WithContext(ctx).
		Where("code = ?", academic.NormalizeCode(code)).
		First(&subject).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &subject, nil
}

// FindByCodes finds subjects matching any of the normalized codes.
// Missing codes are simply absent from the result.
func (r *GormSubjectRepository) FindByCodes(ctx context.Context, codes []string) ([]academic.Subject, error) {
	if len(codes) == 0 {
		return []academic.Subject{}, nil
	}

	var subjects []academic.Subject
	if err := r.db.WithContext(ctx).
		Where("code IN ?", academic.NormalizeCodes(codes)).
		Find(&subjects).Error; err != nil {
		return nil, err
	}
	return subjects, nil
}

// FindAll finds all subjects matching the filter
func (r *GormSubjectRepository) FindAll(ctx context.Context, filter shared.Filter) ([]academic.Subject, error) {
	var subjects []academic.Subject
	query := r.applyFilter(r.db.WithContext(ctx).Model(&academic.Subject{}), filter)

	if err := query.Find(&subjects).Error; err != nil {
		return nil, err
	}
	return subjects, nil
}

// Save creates or updates a subject
func (r *GormSubjectRepository) Save(ctx context.Context, subject *academic.Subject) error {
	return r.db.WithContext(ctx).Save(subject).Error
}

// Delete deletes a subject
func (r *GormSubjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&academic.Subject{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts subjects matching the filter
func (r *GormSubjectRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&academic.Subject{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByCode checks whether a subject with the normalized code exists
func (r *GormSubjectRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&academic.Subject{}).
		Where("code = ?", academic.NormalizeCode(code)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies filter options to the query
func (r *GormSubjectRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, SubjectSortFields, "code")
	if filter.OrderBy != "" {
		query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("code ASC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormSubjectRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR english_name ILIKE ? OR code ILIKE ?", searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "subject_type":
			query = query.Where("subject_type = ?", value)
		case "faculty_code":
			if s, ok := value.(string); ok {
				query = query.Where("faculty_code = ?", strings.ToUpper(strings.TrimSpace(s)))
			} else {
				query = query.Where("faculty_code = ?", value)
			}
		case "min_credits":
			query = query.Where("theory_credits + practice_credits >= ?", value)
		case "max_credits":
			query = query.Where("theory_credits + practice_credits <= ?", value)
		}
	}

	return query
}

// Ensure GormSubjectRepository implements SubjectRepository
var _ academic.SubjectRepository = (*GormSubjectRepository)(nil)
