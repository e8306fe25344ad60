package event

import (
	"context"
	"fmt"

	"github.com/acadreg/backend/internal/domain/academic"
	"github.com/acadreg/backend/internal/domain/shared"
	"github.com/acadreg/backend/internal/domain/tuition"
	"go.uber.org/zap"
)

// recalcPageSize bounds one catalog page during a period recompute
const recalcPageSize = 200

// PeriodRecalcHandler refreshes the denormalized total_periods column of
// every subject after a regulation settings update. The column is derived
// from the regulation's credit-to-period coefficients, so a coefficient
// change invalidates the whole catalog.
type PeriodRecalcHandler struct {
	subjectRepo    academic.SubjectRepository
	regulationRepo tuition.RegulationRepository
	logger         *zap.Logger
}

// NewPeriodRecalcHandler creates a new PeriodRecalcHandler
func NewPeriodRecalcHandler(subjectRepo academic.SubjectRepository, regulationRepo tuition.RegulationRepository, logger *zap.Logger) *PeriodRecalcHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PeriodRecalcHandler{
		subjectRepo:    subjectRepo,
		regulationRepo: regulationRepo,
		logger:         logger,
	}
}

// EventTypes returns the event types this handler subscribes to
func (h *PeriodRecalcHandler) EventTypes() []string {
	return []string{tuition.EventTypeRegulationSettingsUpdated}
}

// Handle recomputes total_periods for the whole subject catalog
func (h *PeriodRecalcHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	settings, err := h.regulationRepo.Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to load regulation settings: %w", err)
	}

	recalculated := 0
	for page := 1; ; page++ {
		subjects, err := h.subjectRepo.FindAll(ctx, shared.Filter{Page: page, PageSize: recalcPageSize})
		if err != nil {
			return fmt.Errorf("failed to load subjects page %d: %w", page, err)
		}
		if len(subjects) == 0 {
			break
		}

		for i := range subjects {
			subject := &subjects[i]
			before := subject.TotalPeriods
			subject.RecomputePeriods(settings.CreditCoefficientTheory, settings.CreditCoefficientPractice)
			if subject.TotalPeriods == before {
				continue
			}
			if err := h.subjectRepo.Save(ctx, subject); err != nil {
				return fmt.Errorf("failed to save subject %s: %w", subject.Code, err)
			}
			recalculated++
		}

		if len(subjects) < recalcPageSize {
			break
		}
	}

	h.logger.Info("subject periods recalculated",
		zap.String("event_id", event.EventID().String()),
		zap.Int("subjects_updated", recalculated),
		zap.Int("theory_coefficient", settings.CreditCoefficientTheory),
		zap.Int("practice_coefficient", settings.CreditCoefficientPractice),
	)
	return nil
}

// Ensure PeriodRecalcHandler implements EventHandler
var _ shared.EventHandler = (*PeriodRecalcHandler)(nil)
