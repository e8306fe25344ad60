package tuition

import (
	"time"

	"github.com/acadreg/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ChangeReasonFeeUpdate tags snapshots taken by the regulation fee cascade
const ChangeReasonFeeUpdate = "regulation_fee_update"

// FeeHistoryEntry is an append-only archival copy of a tuition record,
// taken immediately before a cascading recompute. All entries of one
// cascade batch share a single snapshot timestamp. Entries are never
// mutated or deleted.
type FeeHistoryEntry struct {
	shared.BaseEntity
	RecordID             uuid.UUID       `gorm:"type:uuid;not null;index"`
	ChangeReason         string          `gorm:"type:varchar(50);not null;index"`
	SnapshotAt           time.Time       `gorm:"not null;index"`
	StudentCode          string          `gorm:"type:varchar(20);not null"`
	AcademicYear         string          `gorm:"type:varchar(9);not null"`
	Term                 string          `gorm:"type:varchar(20);not null"`
	TotalTheoryCredits   int             `gorm:"not null;default:0"`
	TotalPracticeCredits int             `gorm:"not null;default:0"`
	TheoryCreditCost     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	PracticeCreditCost   decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	AmountTheory         decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	AmountPractice       decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	AmountTotal          decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	DiscountRate         decimal.Decimal `gorm:"type:decimal(5,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (FeeHistoryEntry) TableName() string {
	return "fee_history_entries"
}
