package tuition

import (
	"context"
	"errors"
	"testing"

	"github.com/acadreg/backend/internal/domain/shared"
	"github.com/acadreg/backend/internal/domain/tuition"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockRegulationRepository is a mock implementation of RegulationRepository
type MockRegulationRepository struct {
	mock.Mock
}

func (m *MockRegulationRepository) Get(ctx context.Context) (*tuition.RegulationSettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tuition.RegulationSettings), args.Error(1)
}

func (m *MockRegulationRepository) Save(ctx context.Context, settings *tuition.RegulationSettings, expectedVersion int) error {
	args := m.Called(ctx, settings, expectedVersion)
	return args.Error(0)
}

// MockTuitionRecordRepository is a mock implementation of TuitionRecordRepository
type MockTuitionRecordRepository struct {
	mock.Mock
}

func (m *MockTuitionRecordRepository) FindByID(ctx context.Context, id uuid.UUID) (*tuition.TuitionRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tuition.TuitionRecord), args.Error(1)
}

func (m *MockTuitionRecordRepository) FindAll(ctx context.Context, filter shared.Filter) ([]tuition.TuitionRecord, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]tuition.TuitionRecord), args.Error(1)
}

func (m *MockTuitionRecordRepository) FindAllForCascade(ctx context.Context) ([]*tuition.TuitionRecord, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*tuition.TuitionRecord), args.Error(1)
}

func (m *MockTuitionRecordRepository) Save(ctx context.Context, record *tuition.TuitionRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockTuitionRecordRepository) SaveBatch(ctx context.Context, records []*tuition.TuitionRecord) error {
	args := m.Called(ctx, records)
	return args.Error(0)
}

func (m *MockTuitionRecordRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockFeeHistoryRepository is a mock implementation of FeeHistoryRepository
type MockFeeHistoryRepository struct {
	mock.Mock
}

func (m *MockFeeHistoryRepository) AppendBatch(ctx context.Context, entries []*tuition.FeeHistoryEntry) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func (m *MockFeeHistoryRepository) FindByRecord(ctx context.Context, recordID uuid.UUID) ([]tuition.FeeHistoryEntry, error) {
	args := m.Called(ctx, recordID)
	return args.Get(0).([]tuition.FeeHistoryEntry), args.Error(1)
}

// passthroughUoW runs the transaction function against the test's mocks
type passthroughUoW struct {
	repos tuition.TxRepositories
}

func (u *passthroughUoW) Execute(_ context.Context, fn func(tuition.TxRepositories) error) error {
	return fn(u.repos)
}

type stubLock struct {
	busy     bool
	released bool
}

func (l *stubLock) TryAcquire(context.Context) (func(), bool, error) {
	if l.busy {
		return nil, false, nil
	}
	return func() { l.released = true }, true, nil
}

type stubCache struct {
	settings    *tuition.RegulationSettings
	invalidated bool
}

func (c *stubCache) Get(context.Context) (*tuition.RegulationSettings, bool) {
	return c.settings, c.settings != nil
}

func (c *stubCache) Set(_ context.Context, s *tuition.RegulationSettings) {
	c.settings = s
}

func (c *stubCache) Invalidate(context.Context) {
	c.settings = nil
	c.invalidated = true
}

type cascadeFixture struct {
	regulationRepo *MockRegulationRepository
	recordRepo     *MockTuitionRecordRepository
	historyRepo    *MockFeeHistoryRepository
	lock           *stubLock
	cache          *stubCache
	service        *RegulationService
}

func newCascadeFixture() *cascadeFixture {
	f := &cascadeFixture{
		regulationRepo: new(MockRegulationRepository),
		recordRepo:     new(MockTuitionRecordRepository),
		historyRepo:    new(MockFeeHistoryRepository),
		lock:           &stubLock{},
		cache:          &stubCache{},
	}
	uow := &passthroughUoW{repos: tuition.TxRepositories{
		Regulation: f.regulationRepo,
		Records:    f.recordRepo,
		History:    f.historyRepo,
	}}
	f.service = NewRegulationService(f.regulationRepo, f.recordRepo, f.historyRepo, uow, f.lock, f.cache, nil, nil)
	return f
}

func settingsWithCosts(theory, practice int64, allowDiscount bool) *tuition.RegulationSettings {
	s := tuition.NewRegulationSettings()
	s.TheoryCreditCost = decimal.NewFromInt(theory)
	s.PracticeCreditCost = decimal.NewFromInt(practice)
	s.AllowPriorityDiscount = allowDiscount
	return s
}

func changeRequest(theory, practice int64, allowDiscount bool) UpdateSettingsRequest {
	return UpdateSettingsRequest{
		MaxStudentMajors:          1,
		CreditCoefficientTheory:   15,
		CreditCoefficientPractice: 30,
		TheoryCreditCost:          decimal.NewFromInt(theory),
		PracticeCreditCost:        decimal.NewFromInt(practice),
		AllowPriorityDiscount:     allowDiscount,
	}
}

func mustRecord(t *testing.T, studentCode string, theoryCredits, practiceCredits int, theoryCost, practiceCost int64) *tuition.TuitionRecord {
	t.Helper()
	record, err := tuition.NewTuitionRecord(studentCode, "2025-2026", "first_half",
		theoryCredits, practiceCredits, decimal.NewFromInt(theoryCost), decimal.NewFromInt(practiceCost))
	require.NoError(t, err)
	return record
}

func TestRegulationService_ApplySettingsChange(t *testing.T) {
	ctx := context.Background()

	t.Run("cost change snapshots then recomputes every record", func(t *testing.T) {
		f := newCascadeFixture()
		settings := settingsWithCosts(100, 200, true)
		r1 := mustRecord(t, "SV001", 15, 2, 100, 200)
		r2 := mustRecord(t, "SV002", 12, 0, 100, 200)

		f.regulationRepo.On("Get", ctx).Return(settings, nil)
		f.recordRepo.On("FindAllForCascade", ctx).Return([]*tuition.TuitionRecord{r1, r2}, nil)
		f.historyRepo.On("AppendBatch", ctx, mock.AnythingOfType("[]*tuition.FeeHistoryEntry")).Return(nil)
		f.recordRepo.On("SaveBatch", ctx, mock.AnythingOfType("[]*tuition.TuitionRecord")).Return(nil)
		f.regulationRepo.On("Save", ctx, settings, settings.Version).Return(nil)

		resp, err := f.service.ApplySettingsChange(ctx, changeRequest(150, 200, true))

		require.NoError(t, err)
		assert.Equal(t, 2, resp.RecordsRecomputed)
		assert.True(t, decimal.NewFromInt(150*15+200*2).Equal(r1.AmountTotal))
		assert.True(t, decimal.NewFromInt(150*12).Equal(r2.AmountTotal))
		assert.True(t, f.lock.released)
		assert.True(t, f.cache.invalidated)

		// snapshots carry the pre-change costs and one shared timestamp
		snapshots := f.historyRepo.Calls[0].Arguments.Get(1).([]*tuition.FeeHistoryEntry)
		require.Len(t, snapshots, 2)
		assert.True(t, decimal.NewFromInt(100).Equal(snapshots[0].TheoryCreditCost))
		assert.True(t, decimal.NewFromInt(100*15+200*2).Equal(snapshots[0].AmountTotal))
		assert.Equal(t, snapshots[0].SnapshotAt, snapshots[1].SnapshotAt)
		assert.Equal(t, tuition.ChangeReasonFeeUpdate, snapshots[0].ChangeReason)
		assert.Equal(t, r1.ID, snapshots[0].RecordID)
	})

	t.Run("snapshot failure aborts the recompute", func(t *testing.T) {
		f := newCascadeFixture()
		settings := settingsWithCosts(100, 200, true)
		r1 := mustRecord(t, "SV001", 15, 2, 100, 200)

		f.regulationRepo.On("Get", ctx).Return(settings, nil)
		f.recordRepo.On("FindAllForCascade", ctx).Return([]*tuition.TuitionRecord{r1}, nil)
		f.historyRepo.On("AppendBatch", ctx, mock.Anything).Return(errors.New("history insert failed"))

		_, err := f.service.ApplySettingsChange(ctx, changeRequest(150, 200, true))

		assert.Error(t, err)
		f.recordRepo.AssertNotCalled(t, "SaveBatch")
		f.regulationRepo.AssertNotCalled(t, "Save")
		assert.True(t, f.lock.released)
		assert.False(t, f.cache.invalidated)
	})

	t.Run("unchanged costs skip snapshots and recompute", func(t *testing.T) {
		f := newCascadeFixture()
		settings := settingsWithCosts(100, 200, true)

		f.regulationRepo.On("Get", ctx).Return(settings, nil)
		f.regulationRepo.On("Save", ctx, settings, settings.Version).Return(nil)

		resp, err := f.service.ApplySettingsChange(ctx, changeRequest(100, 200, true))

		require.NoError(t, err)
		assert.Equal(t, 0, resp.RecordsRecomputed)
		f.recordRepo.AssertNotCalled(t, "FindAllForCascade")
		f.historyRepo.AssertNotCalled(t, "AppendBatch")
	})

	t.Run("disabling the discount zeroes rates even without cost change", func(t *testing.T) {
		f := newCascadeFixture()
		settings := settingsWithCosts(100, 200, true)
		r1 := mustRecord(t, "SV001", 15, 2, 100, 200)
		require.NoError(t, r1.SetDiscountRate(decimal.NewFromFloat(0.3)))

		f.regulationRepo.On("Get", ctx).Return(settings, nil)
		f.recordRepo.On("FindAllForCascade", ctx).Return([]*tuition.TuitionRecord{r1}, nil)
		f.recordRepo.On("SaveBatch", ctx, mock.Anything).Return(nil)
		f.regulationRepo.On("Save", ctx, settings, settings.Version).Return(nil)

		resp, err := f.service.ApplySettingsChange(ctx, changeRequest(100, 200, false))

		require.NoError(t, err)
		assert.Equal(t, 0, resp.RecordsRecomputed)
		assert.True(t, r1.DiscountRate.IsZero())
		f.historyRepo.AssertNotCalled(t, "AppendBatch")
	})

	t.Run("busy lock rejects with cascade in progress", func(t *testing.T) {
		f := newCascadeFixture()
		f.lock.busy = true

		_, err := f.service.ApplySettingsChange(ctx, changeRequest(150, 200, true))

		assert.ErrorIs(t, err, shared.ErrCascadeInProgress)
		f.regulationRepo.AssertNotCalled(t, "Get")
	})

	t.Run("version conflict surfaces as concurrency error", func(t *testing.T) {
		f := newCascadeFixture()
		settings := settingsWithCosts(100, 200, true)

		f.regulationRepo.On("Get", ctx).Return(settings, nil)
		f.regulationRepo.On("Save", ctx, settings, mock.Anything).Return(shared.ErrConcurrencyConflict)

		_, err := f.service.ApplySettingsChange(ctx, changeRequest(100, 200, true))

		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
		assert.False(t, f.cache.invalidated)
	})

	t.Run("invalid change is rejected before locking", func(t *testing.T) {
		f := newCascadeFixture()

		req := changeRequest(150, 200, true)
		req.MaxStudentMajors = 0
		_, err := f.service.ApplySettingsChange(ctx, req)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_MAX_MAJORS", domainErr.Code)
		f.regulationRepo.AssertNotCalled(t, "Get")
	})
}

func TestRegulationService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("cold cache reads the repository and warms it", func(t *testing.T) {
		f := newCascadeFixture()
		settings := settingsWithCosts(100, 200, true)
		f.regulationRepo.On("Get", ctx).Return(settings, nil)

		resp, err := f.service.Get(ctx)

		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(100).Equal(resp.TheoryCreditCost))
		assert.NotNil(t, f.cache.settings)
	})

	t.Run("warm cache skips the repository", func(t *testing.T) {
		f := newCascadeFixture()
		f.cache.settings = settingsWithCosts(100, 200, true)

		resp, err := f.service.Get(ctx)

		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(200).Equal(resp.PracticeCreditCost))
		f.regulationRepo.AssertNotCalled(t, "Get")
	})
}
