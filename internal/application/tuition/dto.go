package tuition

import (
	"time"

	"github.com/acadreg/backend/internal/domain/tuition"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UpdateSettingsRequest represents a regulation settings change
type UpdateSettingsRequest struct {
	MaxStudentMajors          int             `json:"max_student_majors" binding:"required,min=1"`
	CreditCoefficientTheory   int             `json:"credit_coefficient_theory" binding:"required,min=1"`
	CreditCoefficientPractice int             `json:"credit_coefficient_practice" binding:"required,min=1"`
	TheoryCreditCost          decimal.Decimal `json:"theory_credit_cost"`
	PracticeCreditCost        decimal.Decimal `json:"practice_credit_cost"`
	AllowPriorityDiscount     bool            `json:"allow_priority_discount"`
}

func (r UpdateSettingsRequest) toChange() tuition.SettingsChange {
	return tuition.SettingsChange{
		MaxStudentMajors:          r.MaxStudentMajors,
		CreditCoefficientTheory:   r.CreditCoefficientTheory,
		CreditCoefficientPractice: r.CreditCoefficientPractice,
		TheoryCreditCost:          r.TheoryCreditCost,
		PracticeCreditCost:        r.PracticeCreditCost,
		AllowPriorityDiscount:     r.AllowPriorityDiscount,
	}
}

// UpdatedSettings is the outcome of a settings write, including how many
// tuition records the cascade recomputed
type UpdatedSettings struct {
	MaxStudentMajors          int             `json:"max_student_majors"`
	CreditCoefficientTheory   int             `json:"credit_coefficient_theory"`
	CreditCoefficientPractice int             `json:"credit_coefficient_practice"`
	TheoryCreditCost          decimal.Decimal `json:"theory_credit_cost"`
	PracticeCreditCost        decimal.Decimal `json:"practice_credit_cost"`
	AllowPriorityDiscount     bool            `json:"allow_priority_discount"`
	RecordsRecomputed         int             `json:"records_recomputed"`
	UpdatedAt                 time.Time       `json:"updated_at"`
}

// ToUpdatedSettings converts the singleton to its response form
func ToUpdatedSettings(s *tuition.RegulationSettings, recomputed int) UpdatedSettings {
	return UpdatedSettings{
		MaxStudentMajors:          s.MaxStudentMajors,
		CreditCoefficientTheory:   s.CreditCoefficientTheory,
		CreditCoefficientPractice: s.CreditCoefficientPractice,
		TheoryCreditCost:          s.TheoryCreditCost,
		PracticeCreditCost:        s.PracticeCreditCost,
		AllowPriorityDiscount:     s.AllowPriorityDiscount,
		RecordsRecomputed:         recomputed,
		UpdatedAt:                 s.UpdatedAt,
	}
}

// TuitionRecordResponse represents a tuition record in API responses
type TuitionRecordResponse struct {
	ID                   uuid.UUID       `json:"id"`
	StudentCode          string          `json:"student_code"`
	AcademicYear         string          `json:"academic_year"`
	Term                 string          `json:"term"`
	TotalTheoryCredits   int             `json:"total_theory_credits"`
	TotalPracticeCredits int             `json:"total_practice_credits"`
	TheoryCreditCost     decimal.Decimal `json:"theory_credit_cost"`
	PracticeCreditCost   decimal.Decimal `json:"practice_credit_cost"`
	AmountTheory         decimal.Decimal `json:"amount_theory"`
	AmountPractice       decimal.Decimal `json:"amount_practice"`
	AmountTotal          decimal.Decimal `json:"amount_total"`
	DiscountRate         decimal.Decimal `json:"discount_rate"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// ToTuitionRecordResponse converts a domain record to its response
func ToTuitionRecordResponse(r *tuition.TuitionRecord) TuitionRecordResponse {
	return TuitionRecordResponse{
		ID:                   r.ID,
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
		UpdatedAt:            r.UpdatedAt,
	}
}

// FeeHistoryResponse represents one fee snapshot in API responses
type FeeHistoryResponse struct {
	ID                 uuid.UUID       `json:"id"`
	RecordID           uuid.UUID       `json:"record_id"`
	SnapshotAt         time.Time       `json:"snapshot_at"`
	ChangeReason       string          `json:"change_reason"`
	TheoryCreditCost   decimal.Decimal `json:"theory_credit_cost"`
	PracticeCreditCost decimal.Decimal `json:"practice_credit_cost"`
	AmountTheory       decimal.Decimal `json:"amount_theory"`
	AmountPractice     decimal.Decimal `json:"amount_practice"`
	AmountTotal        decimal.Decimal `json:"amount_total"`
	DiscountRate       decimal.Decimal `json:"discount_rate"`
}

// ToFeeHistoryResponses converts snapshot entries to their response form
func ToFeeHistoryResponses(entries []tuition.FeeHistoryEntry) []FeeHistoryResponse {
	out := make([]FeeHistoryResponse, len(entries))
	for i, e := range entries {
		out[i] = FeeHistoryResponse{
			ID:                 e.ID,
			RecordID:           e.RecordID,
			SnapshotAt:         e.SnapshotAt,
			ChangeReason:       e.ChangeReason,
			TheoryCreditCost:   e.TheoryCreditCost,
			PracticeCreditCost: e.PracticeCreditCost,
			AmountTheory:       e.AmountTheory,
			AmountPractice:     e.AmountPractice,
			AmountTotal:        e.AmountTotal,
			DiscountRate:       e.DiscountRate,
		}
	}
	return out
}
