package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/acadreg/backend/internal/domain/tuition"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTuitionTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&tuition.TuitionRecord{}, &tuition.FeeHistoryEntry{})
	require.NoError(t, err)

	return db
}

func newTestRecord(t *testing.T, student string, theory, practice int) *tuition.TuitionRecord {
	t.Helper()
	record, err := tuition.NewTuitionRecord(student, "2025-2026", "first_half", theory, practice,
		decimal.NewFromInt(100), decimal.NewFromInt(150))
	require.NoError(t, err)
	return record
}

func TestGormTuitionRecordRepository_FindAllForCascade(t *testing.T) {
	db := setupTuitionTestDB(t)
	repo := NewGormTuitionRecordRepository(db)
	ctx := context.Background()

	older := newTestRecord(t, "SV001", 10, 2)
	older.CreatedAt = time.Now().Add(-time.Hour)
	newer := newTestRecord(t, "SV002", 12, 4)

	require.NoError(t, repo.Save(ctx, newer))
	require.NoError(t, repo.Save(ctx, older))

	records, err := repo.FindAllForCascade(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "SV001", records[0].StudentCode)
	assert.Equal(t, "SV002", records[1].StudentCode)
}

func TestGormTuitionRecordRepository_SaveBatch(t *testing.T) {
	db := setupTuitionTestDB(t)
	repo := NewGormTuitionRecordRepository(db)
	ctx := context.Background()

	a := newTestRecord(t, "SV001", 10, 2)
	b := newTestRecord(t, "SV002", 12, 4)
	require.NoError(t, repo.SaveBatch(ctx, []*tuition.TuitionRecord{a, b}))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	// Batch save also updates existing rows
	a.ApplyCreditCosts(decimal.NewFromInt(200), decimal.NewFromInt(250))
	require.NoError(t, repo.SaveBatch(ctx, []*tuition.TuitionRecord{a}))

	loaded, err := repo.FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, loaded.AmountTotal.Equal(decimal.NewFromInt(200*10+250*2)))

	t.Run("empty batch is a no-op", func(t *testing.T) {
		assert.NoError(t, repo.SaveBatch(ctx, nil))
	})
}

func TestGormFeeHistoryRepository_AppendAndFindByRecord(t *testing.T) {
	db := setupTuitionTestDB(t)
	historyRepo := NewGormFeeHistoryRepository(db)
	ctx := context.Background()

	record := newTestRecord(t, "SV001", 10, 2)

	older := record.Snapshot(time.Now().Add(-time.Hour), tuition.ChangeReasonFeeUpdate)
	record.ApplyCreditCosts(decimal.NewFromInt(200), decimal.NewFromInt(250))
	newer := record.Snapshot(time.Now(), tuition.ChangeReasonFeeUpdate)

	require.NoError(t, historyRepo.AppendBatch(ctx, []*tuition.FeeHistoryEntry{older, newer}))

	entries, err := historyRepo.FindByRecord(ctx, record.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Newest first
	assert.True(t, entries[0].SnapshotAt.After(entries[1].SnapshotAt))
	assert.True(t, entries[0].TheoryCreditCost.Equal(decimal.NewFromInt(200)))
	assert.True(t, entries[1].TheoryCreditCost.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, tuition.ChangeReasonFeeUpdate, entries[0].ChangeReason)

	t.Run("empty batch is a no-op", func(t *testing.T) {
		assert.NoError(t, historyRepo.AppendBatch(ctx, nil))
	})

	t.Run("unknown record yields empty slice", func(t *testing.T) {
		other := newTestRecord(t, "SV099", 1, 1)
		entries, err := historyRepo.FindByRecord(ctx, other.ID)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}

func TestGormUnitOfWork_RollsBackOnError(t *testing.T) {
	db := setupTuitionTestDB(t)
	require.NoError(t, db.AutoMigrate(&tuition.RegulationSettings{}))
	uow := NewGormUnitOfWork(db)
	ctx := context.Background()

	record := newTestRecord(t, "SV001", 10, 2)

	err := uow.Execute(ctx, func(repos tuition.TxRepositories) error {
		if err := repos.Records.Save(ctx, record); err != nil {
			return err
		}
		return assert.AnError
	})
	require.Error(t, err)

	// The record write inside the failed transaction must not survive
	count, countErr := NewGormTuitionRecordRepository(db).Count(ctx)
	require.NoError(t, countErr)
	assert.Equal(t, int64(0), count)
}

func TestGormUnitOfWork_CommitsOnSuccess(t *testing.T) {
	db := setupTuitionTestDB(t)
	require.NoError(t, db.AutoMigrate(&tuition.RegulationSettings{}))
	uow := NewGormUnitOfWork(db)
	ctx := context.Background()

	record := newTestRecord(t, "SV001", 10, 2)
	snapshot := record.Snapshot(time.Now(), tuition.ChangeReasonFeeUpdate)

	err := uow.Execute(ctx, func(repos tuition.TxRepositories) error {
		if err := repos.History.AppendBatch(ctx, []*tuition.FeeHistoryEntry{snapshot}); err != nil {
			return err
		}
		return repos.Records.Save(ctx, record)
	})
	require.NoError(t, err)

	count, err := NewGormTuitionRecordRepository(db).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	entries, err := NewGormFeeHistoryRepository(db).FindByRecord(ctx, record.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
