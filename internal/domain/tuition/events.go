package tuition

import (
	"github.com/acadreg/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

const AggregateTypeRegulationSettings = "RegulationSettings"

const (
	EventTypeRegulationSettingsUpdated = "RegulationSettingsUpdated"
	EventTypeTuitionFeesCascaded       = "TuitionFeesCascaded"
)

// RegulationSettingsUpdatedEvent is published after the singleton persists
type RegulationSettingsUpdatedEvent struct {
	shared.BaseDomainEvent
	TheoryCreditCost      decimal.Decimal `json:"theory_credit_cost"`
	PracticeCreditCost    decimal.Decimal `json:"practice_credit_cost"`
	AllowPriorityDiscount bool            `json:"allow_priority_discount"`
}

// NewRegulationSettingsUpdatedEvent creates a new RegulationSettingsUpdatedEvent
func NewRegulationSettingsUpdatedEvent(s *RegulationSettings) *RegulationSettingsUpdatedEvent {
	return &RegulationSettingsUpdatedEvent{
		BaseDomainEvent:       shared.NewBaseDomainEvent(EventTypeRegulationSettingsUpdated, AggregateTypeRegulationSettings, s.ID),
		TheoryCreditCost:      s.TheoryCreditCost,
		PracticeCreditCost:    s.PracticeCreditCost,
		AllowPriorityDiscount: s.AllowPriorityDiscount,
	}
}

// TuitionFeesCascadedEvent is published after a fee cascade completes
type TuitionFeesCascadedEvent struct {
	shared.BaseDomainEvent
	RecordsRecomputed  int             `json:"records_recomputed"`
	TheoryCreditCost   decimal.Decimal `json:"theory_credit_cost"`
	PracticeCreditCost decimal.Decimal `json:"practice_credit_cost"`
}

// NewTuitionFeesCascadedEvent creates a new TuitionFeesCascadedEvent
func NewTuitionFeesCascadedEvent(s *RegulationSettings, recomputed int) *TuitionFeesCascadedEvent {
	return &TuitionFeesCascadedEvent{
		BaseDomainEvent:    shared.NewBaseDomainEvent(EventTypeTuitionFeesCascaded, AggregateTypeRegulationSettings, s.ID),
		RecordsRecomputed:  recomputed,
		TheoryCreditCost:   s.TheoryCreditCost,
		PracticeCreditCost: s.PracticeCreditCost,
	}
}
