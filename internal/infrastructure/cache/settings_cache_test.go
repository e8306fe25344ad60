package cache

import (
	"context"
	"testing"
	"time"

	"github.com/acadreg/backend/internal/domain/tuition"
	"github.com/stretchr/testify/assert"
)

func TestInMemorySettingsCache_MissWhenEmpty(t *testing.T) {
	c := NewInMemorySettingsCache(time.Minute)

	settings, ok := c.Get(context.Background())

	assert.False(t, ok)
	assert.Nil(t, settings)
}

func TestInMemorySettingsCache_HitAfterSet(t *testing.T) {
	c := NewInMemorySettingsCache(time.Minute)
	ctx := context.Background()

	stored := tuition.NewRegulationSettings()
	c.Set(ctx, stored)

	got, ok := c.Get(ctx)
	assert.True(t, ok)
	assert.NotSame(t, stored, got)
	assert.Equal(t, stored.CreditCoefficientTheory, got.CreditCoefficientTheory)
	assert.Equal(t, stored.MaxStudentMajors, got.MaxStudentMajors)

	hits, misses := c.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(0), misses)
}

func TestInMemorySettingsCache_ReturnsIsolatedCopies(t *testing.T) {
	c := NewInMemorySettingsCache(time.Minute)
	ctx := context.Background()

	stored := tuition.NewRegulationSettings()
	c.Set(ctx, stored)

	// Mutating the caller's pointer after Set must not affect the cache
	stored.CreditCoefficientTheory = 99

	first, ok := c.Get(ctx)
	assert.True(t, ok)
	assert.Equal(t, 15, first.CreditCoefficientTheory)

	// Mutating a returned snapshot must not affect later reads
	first.CreditCoefficientTheory = 7
	first.MaxStudentMajors = 42

	second, ok := c.Get(ctx)
	assert.True(t, ok)
	assert.Equal(t, 15, second.CreditCoefficientTheory)
	assert.Equal(t, 1, second.MaxStudentMajors)
}

func TestInMemorySettingsCache_ExpiresAfterTTL(t *testing.T) {
	c := NewInMemorySettingsCache(10 * time.Millisecond)
	ctx := context.Background()

	c.Set(ctx, tuition.NewRegulationSettings())
	time.Sleep(20 * time.Millisecond)

	_, ok := c.Get(ctx)
	assert.False(t, ok)
}

func TestInMemorySettingsCache_Invalidate(t *testing.T) {
	c := NewInMemorySettingsCache(time.Minute)
	ctx := context.Background()

	c.Set(ctx, tuition.NewRegulationSettings())
	c.Invalidate(ctx)

	_, ok := c.Get(ctx)
	assert.False(t, ok)
}

func TestInMemorySettingsCache_ZeroTTLDisablesCaching(t *testing.T) {
	c := NewInMemorySettingsCache(0)
	ctx := context.Background()

	c.Set(ctx, tuition.NewRegulationSettings())

	_, ok := c.Get(ctx)
	assert.False(t, ok)
}

func TestInMemorySettingsCache_ConcurrentAccess(t *testing.T) {
	c := NewInMemorySettingsCache(time.Minute)
	ctx := context.Background()
	stored := tuition.NewRegulationSettings()

	done := make(chan struct{})
	for i := 0; i < 10; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 100; j++ {
				c.Set(ctx, stored)
				c.Get(ctx)
				c.Invalidate(ctx)
			}
		}()
	}
	for i := 0; i < 10; i++ {
		<-done
	}
}
