package tuition

import (
	"time"

	"github.com/acadreg/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// RegulationKey is the fixed key of the process-wide settings singleton
const RegulationKey = "regulation"

// RegulationSettings is the singleton holding regulation-level academic
// and tuition parameters. The per-credit costs live here and the fee
// cascade is their sole writer; tuition records only carry copies of the
// costs in effect when they were last recomputed.
type RegulationSettings struct {
	shared.BaseAggregateRoot
	Key                       string          `gorm:"type:varchar(30);not null;uniqueIndex"`
	MaxStudentMajors          int             `gorm:"not null;default:1"`
	CreditCoefficientTheory   int             `gorm:"not null;default:15"`
	CreditCoefficientPractice int             `gorm:"not null;default:30"`
	TheoryCreditCost          decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	PracticeCreditCost        decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	AllowPriorityDiscount     bool            `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (RegulationSettings) TableName() string {
	return "regulation_settings"
}

// NewRegulationSettings creates the singleton with safe defaults
func NewRegulationSettings() *RegulationSettings {
	return &RegulationSettings{
		BaseAggregateRoot:         shared.NewBaseAggregateRoot(),
		Key:                       RegulationKey,
		MaxStudentMajors:          1,
		CreditCoefficientTheory:   15,
		CreditCoefficientPractice: 30,
		TheoryCreditCost:          decimal.Zero,
		PracticeCreditCost:        decimal.Zero,
	}
}

// SettingsChange is a requested change to the regulation settings
type SettingsChange struct {
	MaxStudentMajors          int
	CreditCoefficientTheory   int
	CreditCoefficientPractice int
	TheoryCreditCost          decimal.Decimal
	PracticeCreditCost        decimal.Decimal
	AllowPriorityDiscount     bool
}

// Validate checks the change for shape errors
func (c SettingsChange) Validate() error {
	if c.MaxStudentMajors < 1 {
		return shared.NewDomainError("INVALID_MAX_MAJORS", "A student must be allowed at least one major")
	}
	if c.CreditCoefficientTheory < 1 || c.CreditCoefficientPractice < 1 {
		return shared.NewDomainError("INVALID_COEFFICIENT", "Credit-to-period coefficients must be positive")
	}
	if c.TheoryCreditCost.IsNegative() || c.PracticeCreditCost.IsNegative() {
		return shared.NewDomainError("INVALID_CREDIT_COST", "Per-credit costs cannot be negative")
	}
	return nil
}

// CostsDiffer reports whether the change moves either per-credit cost.
// Either cost differing triggers a full-fleet recompute.
func (s *RegulationSettings) CostsDiffer(c SettingsChange) bool {
	return !s.TheoryCreditCost.Equal(c.TheoryCreditCost) || !s.PracticeCreditCost.Equal(c.PracticeCreditCost)
}

// DisablesDiscount reports whether the change turns the priority-discount
// toggle off. The discount-zeroing pass keys on the incoming value alone,
// independent of whether costs changed.
func (c SettingsChange) DisablesDiscount() bool {
	return !c.AllowPriorityDiscount
}

// Apply writes the change onto the singleton
func (s *RegulationSettings) Apply(c SettingsChange) {
	s.MaxStudentMajors = c.MaxStudentMajors
	s.CreditCoefficientTheory = c.CreditCoefficientTheory
	s.CreditCoefficientPractice = c.CreditCoefficientPractice
	s.TheoryCreditCost = c.TheoryCreditCost
	s.PracticeCreditCost = c.PracticeCreditCost
	s.AllowPriorityDiscount = c.AllowPriorityDiscount
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}
