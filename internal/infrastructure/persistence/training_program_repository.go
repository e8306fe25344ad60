package persistence

import (
	"context"
	"errors"

	"github.com/acadreg/backend/internal/domain/academic"
	"github.com/acadreg/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormTrainingProgramRepository implements TrainingProgramRepository using GORM
type GormTrainingProgramRepository struct {
	db *gorm.DB
}

// NewGormTrainingProgramRepository creates a new GormTrainingProgramRepository
func NewGormTrainingProgramRepository(db *gorm.DB) *GormTrainingProgramRepository {
	return &GormTrainingProgramRepository{db: db}
}

// FindByID finds a record by its ID
func (r *GormTrainingProgramRepository) FindByID(ctx context.Context, id uuid.UUID) (*academic.TrainingProgram, error) {
	var program academic.TrainingProgram
	if err := r.db.WithContext(ctx).First(&program, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &program, nil
}

// FindByOrdinals finds every record whose ordinal label is in the given
// set, in stable (created_at) order
func (r *GormTrainingProgramRepository) FindByOrdinals(ctx context.Context, ordinalLabels []string) ([]*academic.TrainingProgram, error) {
	if len(ordinalLabels) == 0 {
		return []*academic.TrainingProgram{}, nil
	}

	var programs []*academic.TrainingProgram
	if err := r.db.WithContext(ctx).
		Where("ordinal_label IN ?", ordinalLabels).
		Order("created_at ASC").
		Find(&programs).Error; err != nil {
		return nil, err
	}
	return programs, nil
}

// FindByGroup finds the records of one (major, faculty) pair
func (r *GormTrainingProgramRepository) FindByGroup(ctx context.Context, major, facultyCode string) ([]*academic.TrainingProgram, error) {
	var programs []*academic.TrainingProgram
	if err := r.db.WithContext(ctx).
		Where("LOWER(major) = LOWER(?) AND faculty_code = ?", major, academic.NormalizeCode(facultyCode)).
		Order("ordinal_label ASC").
		Find(&programs).Error; err != nil {
		return nil, err
	}
	return programs, nil
}

// FindAll finds records matching the filter
func (r *GormTrainingProgramRepository) FindAll(ctx context.Context, filter shared.Filter) ([]academic.TrainingProgram, error) {
	var programs []academic.TrainingProgram
	query := r.db.WithContext(ctx).Model(&academic.TrainingProgram{})

	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("major ILIKE ? OR faculty_code ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "major":
			query = query.Where("LOWER(major) = LOWER(?)", value)
		case "faculty_code":
			query = query.Where("faculty_code = ?", value)
		case "ordinal_label":
			query = query.Where("ordinal_label = ?", value)
		}
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderBy := ValidateSortField(filter.OrderBy, TrainingProgramSortFields, "created_at")
		query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("major ASC, ordinal_label ASC")
	}

	if err := query.Find(&programs).Error; err != nil {
		return nil, err
	}
	return programs, nil
}

// Save creates or updates a record
func (r *GormTrainingProgramRepository) Save(ctx context.Context, program *academic.TrainingProgram) error {
	return r.db.WithContext(ctx).Save(program).Error
}

// Delete deletes a record
func (r *GormTrainingProgramRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&academic.TrainingProgram{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormTrainingProgramRepository implements TrainingProgramRepository
var _ academic.TrainingProgramRepository = (*GormTrainingProgramRepository)(nil)
