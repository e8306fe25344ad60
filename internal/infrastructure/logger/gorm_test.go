package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newObservedGormLogger(level gormlogger.LogLevel) (*GormLogger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return NewGormLogger(zap.New(core), level), logs
}

func queryFn(sql string, rows int64) func() (string, int64) {
	return func() (string, int64) { return sql, rows }
}

func TestGormLogger_TraceQueryError(t *testing.T) {
	l, logs := newObservedGormLogger(gormlogger.Error)

	l.Trace(context.Background(), time.Now(), queryFn("SELECT 1", 0), errors.New("connection reset"))

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zap.ErrorLevel, entries[0].Level)
	assert.Equal(t, "query failed", entries[0].Message)
	assert.Equal(t, "SELECT 1", entries[0].ContextMap()["sql"])
}

func TestGormLogger_RecordNotFoundIsNotAnError(t *testing.T) {
	l, logs := newObservedGormLogger(gormlogger.Error)

	l.Trace(context.Background(), time.Now(), queryFn("SELECT * FROM subjects", 0), gorm.ErrRecordNotFound)

	assert.Empty(t, logs.All())
}

func TestGormLogger_SlowQueryWarns(t *testing.T) {
	l, logs := newObservedGormLogger(gormlogger.Warn)

	begin := time.Now().Add(-time.Second)
	l.Trace(context.Background(), begin, queryFn("SELECT pg_sleep(1)", 1), nil)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zap.WarnLevel, entries[0].Level)
	assert.Equal(t, "slow query", entries[0].Message)
}

func TestGormLogger_SilentLogsNothing(t *testing.T) {
	l, logs := newObservedGormLogger(gormlogger.Silent)

	l.Trace(context.Background(), time.Now(), queryFn("SELECT 1", 1), errors.New("ignored"))
	l.Info(context.Background(), "ignored")

	assert.Empty(t, logs.All())
}

func TestGormLogger_TraceCarriesRequestID(t *testing.T) {
	l, logs := newObservedGormLogger(gormlogger.Error)

	ctx := context.WithValue(context.Background(), requestIDKey, "req-9")
	l.Trace(ctx, time.Now(), queryFn("SELECT 1", 0), errors.New("boom"))

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "req-9", entries[0].ContextMap()["request_id"])
}

func TestGormLogger_LogMode(t *testing.T) {
	l, _ := newObservedGormLogger(gormlogger.Silent)

	elevated := l.LogMode(gormlogger.Info)
	require.NotNil(t, elevated)
	assert.Equal(t, gormlogger.Silent, l.level)
}

func TestMapGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("debug"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("warn"))
	assert.Equal(t, gormlogger.Error, MapGormLogLevel("error"))
	assert.Equal(t, gormlogger.Silent, MapGormLogLevel("info"))
	assert.Equal(t, gormlogger.Silent, MapGormLogLevel(""))
}
