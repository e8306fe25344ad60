package tuition

import (
	"context"
	"time"

	"github.com/acadreg/backend/internal/domain/shared"
	"github.com/acadreg/backend/internal/domain/tuition"
	"github.com/acadreg/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// CascadeLock serializes fee cascades across processes. TryAcquire
// returns false without blocking when another cascade holds the lock.
type CascadeLock interface {
	TryAcquire(ctx context.Context) (release func(), acquired bool, err error)
}

// SettingsCache caches the regulation singleton for read paths. Writers
// must invalidate after every successful settings write.
type SettingsCache interface {
	Get(ctx context.Context) (*tuition.RegulationSettings, bool)
	Set(ctx context.Context, settings *tuition.RegulationSettings)
	Invalidate(ctx context.Context)
}

// RegulationService owns the settings singleton and the cascading fee
// recompute that follows a per-credit cost change
type RegulationService struct {
	regulationRepo tuition.RegulationRepository
	recordRepo     tuition.TuitionRecordRepository
	historyRepo    tuition.FeeHistoryRepository
	uow            tuition.UnitOfWork
	lock           CascadeLock
	cache          SettingsCache
	eventBus       shared.EventPublisher
	logger         *zap.Logger
}

// NewRegulationService creates a new RegulationService
func NewRegulationService(
	regulationRepo tuition.RegulationRepository,
	recordRepo tuition.TuitionRecordRepository,
	historyRepo tuition.FeeHistoryRepository,
	uow tuition.UnitOfWork,
	lock CascadeLock,
	cache SettingsCache,
	eventBus shared.EventPublisher,
	logger *zap.Logger,
) *RegulationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RegulationService{
		regulationRepo: regulationRepo,
		recordRepo:     recordRepo,
		historyRepo:    historyRepo,
		uow:            uow,
		lock:           lock,
		cache:          cache,
		eventBus:       eventBus,
		logger:         logger,
	}
}

// Get returns the current regulation settings, from cache when warm
func (s *RegulationService) Get(ctx context.Context) (*UpdatedSettings, error) {
	if s.cache != nil {
		if settings, ok := s.cache.Get(ctx); ok {
			resp := ToUpdatedSettings(settings, 0)
			return &resp, nil
		}
	}

	settings, err := s.regulationRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Set(ctx, settings)
	}

	resp := ToUpdatedSettings(settings, 0)
	return &resp, nil
}

// ApplySettingsChange writes a settings change and, when either per-credit
// cost moved, recomputes every tuition record. Each recomputed record is
// snapshotted first inside the same transaction, so a snapshot failure
// aborts the whole recompute. Disabling the priority discount zeroes every
// record's discount rate in the same transaction, whether or not costs
// changed.
func (s *RegulationService) ApplySettingsChange(ctx context.Context, req UpdateSettingsRequest) (*UpdatedSettings, error) {
	ctx, span := telemetry.StartSpan(ctx, "tuition.apply_settings_change")
	defer span.End()

	change := req.toChange()
	if err := change.Validate(); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	release, acquired, err := s.lock.TryAcquire(ctx)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, shared.ErrCascadeInProgress
	}
	defer release()

	settings, err := s.regulationRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	expectedVersion := settings.Version

	costsChanged := settings.CostsDiffer(change)
	zeroDiscounts := change.DisablesDiscount()

	var recomputed int
	err = s.uow.Execute(ctx, func(repos tuition.TxRepositories) error {
		settings.Apply(change)

		if costsChanged || zeroDiscounts {
			records, err := repos.Records.FindAllForCascade(ctx)
			if err != nil {
				return err
			}

			if costsChanged && len(records) > 0 {
				snapshotAt := time.Now().UTC()
				snapshots := make([]*tuition.FeeHistoryEntry, len(records))
				for i, record := range records {
					snapshots[i] = record.Snapshot(snapshotAt, tuition.ChangeReasonFeeUpdate)
				}
				if err := repos.History.AppendBatch(ctx, snapshots); err != nil {
					return err
				}
				for _, record := range records {
					record.ApplyCreditCosts(settings.TheoryCreditCost, settings.PracticeCreditCost)
				}
				recomputed = len(records)
			}

			if zeroDiscounts {
				for _, record := range records {
					record.ClearDiscount()
				}
			}

			if len(records) > 0 {
				if err := repos.Records.SaveBatch(ctx, records); err != nil {
					return err
				}
			}
		}

		return repos.Regulation.Save(ctx, settings, expectedVersion)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}

	if s.eventBus != nil {
		_ = s.eventBus.Publish(ctx, tuition.NewRegulationSettingsUpdatedEvent(settings))
		if costsChanged {
			_ = s.eventBus.Publish(ctx, tuition.NewTuitionFeesCascadedEvent(settings, recomputed))
		}
	}

	telemetry.SetOK(span)
	span.SetAttributes(
		attribute.Bool("costs_changed", costsChanged),
		attribute.Int("records_recomputed", recomputed),
	)

	s.logger.Info("regulation settings updated",
		zap.Bool("costs_changed", costsChanged),
		zap.Bool("discounts_zeroed", zeroDiscounts),
		zap.Int("records_recomputed", recomputed))

	resp := ToUpdatedSettings(settings, recomputed)
	return &resp, nil
}

// GetRecord returns one tuition record
func (s *RegulationService) GetRecord(ctx context.Context, id uuid.UUID) (*TuitionRecordResponse, error) {
	record, err := s.recordRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToTuitionRecordResponse(record)
	return &resp, nil
}

// ListRecords returns tuition records matching the filter
func (s *RegulationService) ListRecords(ctx context.Context, filter shared.Filter) (*shared.Paginated[TuitionRecordResponse], error) {
	records, err := s.recordRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.recordRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]TuitionRecordResponse, len(records))
	for i := range records {
		items[i] = ToTuitionRecordResponse(&records[i])
	}
	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// RecordHistory returns the fee snapshots of one record, newest first
func (s *RegulationService) RecordHistory(ctx context.Context, recordID uuid.UUID) ([]FeeHistoryResponse, error) {
	if _, err := s.recordRepo.FindByID(ctx, recordID); err != nil {
		return nil, err
	}
	entries, err := s.historyRepo.FindByRecord(ctx, recordID)
	if err != nil {
		return nil, err
	}
	return ToFeeHistoryResponses(entries), nil
}
