package persistence

import (
	"context"
	"errors"

	"github.com/acadreg/backend/internal/domain/shared"
	"github.com/acadreg/backend/internal/domain/tuition"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormRegulationRepository implements RegulationRepository using GORM
type GormRegulationRepository struct {
	db *gorm.DB
}

// NewGormRegulationRepository creates a new GormRegulationRepository
func NewGormRegulationRepository(db *gorm.DB) *GormRegulationRepository {
	return &GormRegulationRepository{db: db}
}

// Get loads the settings singleton, creating it with defaults on first
// access. Concurrent first accesses race on the unique key; the loser of
// the insert re-reads the winner's row.
func (r *GormRegulationRepository) Get(ctx context.Context) (*tuition.RegulationSettings, error) {
	var settings tuition.RegulationSettings
	err := r.db.WithContext(ctx).
		Where("key = ?", tuition.RegulationKey).
		First(&settings).Error
	if err == nil {
		return &settings, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	fresh := tuition.NewRegulationSettings()
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoNothing: true,
		}).
		Create(fresh).Error; err != nil {
		return nil, err
	}

	// Re-read so a lost insert race still returns the stored row
	if err := r.db.WithContext(ctx).
		Where("key = ?", tuition.RegulationKey).
		First(&settings).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}

// Save persists the singleton with an optimistic version check. The
// aggregate has already bumped its version; expectedVersion is the
// version the caller loaded.
func (r *GormRegulationRepository) Save(ctx context.Context, settings *tuition.RegulationSettings, expectedVersion int) error {
	result := r.db.WithContext(ctx).
		Model(&tuition.RegulationSettings{}).
		Where("id = ? AND version = ?", settings.ID, expectedVersion).
		Updates(map[string]interface{}{
			"max_student_majors":          settings.MaxStudentMajors,
			"credit_coefficient_theory":   settings.CreditCoefficientTheory,
			"credit_coefficient_practice": settings.CreditCoefficientPractice,
			"theory_credit_cost":          settings.TheoryCreditCost,
			"practice_credit_cost":        settings.PracticeCreditCost,
			"allow_priority_discount":     settings.AllowPriorityDiscount,
			"version":                     settings.Version,
			"updated_at":                  settings.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Ensure GormRegulationRepository implements RegulationRepository
var _ tuition.RegulationRepository = (*GormRegulationRepository)(nil)
