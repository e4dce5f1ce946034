package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtvinh/mathtutor/internal/model"
)

func TestSweepHintCache(t *testing.T) {
	hintCache := newFakeHintCacheRepo()
	hintCache.entries[hintCacheKeyPair{1, "a"}] = &model.HintCache{
		ProblemID: 1, StudentAnswer: "a", Hint: "h",
		HitCount: 1, LastUsed: time.Now().AddDate(0, 0, -120),
	}
	hintCache.entries[hintCacheKeyPair{1, "b"}] = &model.HintCache{
		ProblemID: 1, StudentAnswer: "b", Hint: "h",
		HitCount: 4, LastUsed: time.Now().AddDate(0, 0, -120),
	}
	svc := NewMaintenanceService(hintCache)

	deleted, err := svc.SweepHintCache(90)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}

func TestSweepHintCacheDefaultsRetention(t *testing.T) {
	hintCache := newFakeHintCacheRepo()
	hintCache.entries[hintCacheKeyPair{1, "a"}] = &model.HintCache{
		ProblemID: 1, StudentAnswer: "a", Hint: "h",
		HitCount: 1, LastUsed: time.Now().AddDate(0, 0, -60),
	}
	svc := NewMaintenanceService(hintCache)

	// 60 days old is inside the default 90-day horizon.
	deleted, err := svc.SweepHintCache(0)
	require.NoError(t, err)
	assert.Zero(t, deleted)
	assert.Equal(t, 1, hintCache.sweepCalls)
}
