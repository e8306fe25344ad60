package tuition

import (
	"strings"
	"time"

	"github.com/acadreg/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// TuitionRecord is a student's tuition bill for one term. The credit
// totals are frozen at registration time; the monetary amounts are a
// derived view recomputed from those stored totals whenever the
// regulation's per-credit costs change.
type TuitionRecord struct {
	shared.BaseAggregateRoot
	StudentCode          string          `gorm:"type:varchar(20);not null;index"`
	AcademicYear         string          `gorm:"type:varchar(9);not null;index"`
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
func (TuitionRecord) TableName() string {
	return "tuition_records"
}

// NewTuitionRecord creates a record with credit totals frozen at
// registration time and amounts computed from the given per-credit costs
func NewTuitionRecord(studentCode, academicYear, term string, theoryCredits, practiceCredits int, theoryCost, practiceCost decimal.Decimal) (*TuitionRecord, error) {
	studentCode = strings.ToUpper(strings.TrimSpace(studentCode))
	if studentCode == "" {
		return nil, shared.NewDomainError("INVALID_STUDENT", "Student code cannot be empty")
	}
	if theoryCredits < 0 || practiceCredits < 0 {
		return nil, shared.NewDomainError("INVALID_CREDITS", "Credit totals cannot be negative")
	}
	if theoryCost.IsNegative() || practiceCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_CREDIT_COST", "Per-credit costs cannot be negative")
	}

	record := &TuitionRecord{
		BaseAggregateRoot:    shared.NewBaseAggregateRoot(),
		StudentCode:          studentCode,
		AcademicYear:         academicYear,
		Term:                 term,
		TotalTheoryCredits:   theoryCredits,
		TotalPracticeCredits: practiceCredits,
		DiscountRate:         decimal.Zero,
	}
	record.recompute(theoryCost, practiceCost)

	return record, nil
}

// ApplyCreditCosts sets new per-credit costs and recomputes the derived
// amounts from the record's stored credit totals. The totals are never
// re-derived from curricula here.
func (r *TuitionRecord) ApplyCreditCosts(theoryCost, practiceCost decimal.Decimal) {
	r.recompute(theoryCost, practiceCost)
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
}

func (r *TuitionRecord) recompute(theoryCost, practiceCost decimal.Decimal) {
	r.TheoryCreditCost = theoryCost
	r.PracticeCreditCost = practiceCost
	r.AmountTheory = theoryCost.Mul(decimal.NewFromInt(int64(r.TotalTheoryCredits)))
	r.AmountPractice = practiceCost.Mul(decimal.NewFromInt(int64(r.TotalPracticeCredits)))
	r.AmountTotal = r.AmountTheory.Add(r.AmountPractice)
}

// SetDiscountRate sets the priority discount rate (0..1)
func (r *TuitionRecord) SetDiscountRate(rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount rate must be between 0 and 1")
	}
	r.DiscountRate = rate
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	return nil
}

// ClearDiscount zeroes the discount rate
func (r *TuitionRecord) ClearDiscount() {
	if r.DiscountRate.IsZero() {
		return
	}
	r.DiscountRate = decimal.Zero
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
}

// Snapshot copies the record's fee state into an append-only history
// entry. Taken immediately before a cascading recompute; the engine's
// invariant is that no record is recomputed without its snapshot existing.
func (r *TuitionRecord) Snapshot(at time.Time, reason string) *FeeHistoryEntry {
	return &FeeHistoryEntry{
		BaseEntity:           shared.NewBaseEntity(),
		RecordID:             r.ID,
		ChangeReason:         reason,
		SnapshotAt:           at,
		StudentCode:          r.StudentCode,
		AcademicYear:         r.AcademicYear,
		Term:                 r.Term,
		TotalTheoryCredits:   r.TotalTheoryCredits,
		TotalPracticeCredits: r.TotalPracticeCredits,
		TheoryCreditCost:     r.TheoryCreditCost,
		PracticeCreditCost:   r.PracticeCreditCost,
		AmountTheory:         r.AmountTheory,
		AmountPractice:       r.AmountPractice,
		AmountTotal:          r.AmountTotal,
		DiscountRate:         r.DiscountRate,
	}
}
