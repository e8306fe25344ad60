package persistence

import (
	"context"

	"github.com/acadreg/backend/internal/domain/tuition"
	"gorm.io/gorm"
)

// GormUnitOfWork implements tuition.UnitOfWork on a GORM transaction.
// The repositories handed to fn are bound to the transaction, so the
// cascade's snapshot-then-recompute sequence commits or rolls back as one.
type GormUnitOfWork struct {
	db *gorm.DB
}

// NewGormUnitOfWork creates a new GormUnitOfWork
func NewGormUnitOfWork(db *gorm.DB) *GormUnitOfWork {
	return &GormUnitOfWork{db: db}
}

// Execute runs fn inside a single database transaction
func (u *GormUnitOfWork) Execute(ctx context.Context, fn func(repos tuition.TxRepositories) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(tuition.TxRepositories{
			Regulation: NewGormRegulationRepository(tx),
			Records:    NewGormTuitionRecordRepository(tx),
			History:    NewGormFeeHistoryRepository(tx),
		})
	})
}

// Ensure GormUnitOfWork implements UnitOfWork
var _ tuition.UnitOfWork = (*GormUnitOfWork)(nil)
