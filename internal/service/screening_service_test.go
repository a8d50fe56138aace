package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pmhscreen/internal/model"
	"pmhscreen/internal/platform/logger"
	"pmhscreen/internal/scoring"
)

func TestSubmit_StoresAndPublishes(t *testing.T) {
	ctx := context.Background()
	screenings, _ := newRepos(t)
	results := newMemoryResultCache()
	metrics := newTestMetrics()
	broadcaster := &recordingBroadcaster{}

	analytics := NewAnalyticsService(screenings, metrics, logger.Nop())
	analytics.SetBroadcaster(broadcaster)
	svc := NewScreeningService(screenings, results, metrics, logger.Nop())
	svc.SetAnalyticsService(analytics)

	got, err := svc.Submit(ctx, "u1", answers(map[string]string{
		"PHQ2_Q1": "2", "PHQ2_Q2": "2", "FLU_SRC": "5", "BPG_TALK": "2",
	}))
	require.NoError(t, err)

	assert.True(t, got.Stored)
	assert.NotEmpty(t, got.ScreeningID)
	assert.NoError(t, got.StoreErr)
	assert.Equal(t, model.HighRisk, got.RiskResult.Classification)
	assert.Equal(t, "POSITIVE_PHQ2", got.RiskResult.RuleName())
	assert.Equal(t, 4, got.RiskResult.PHQ2Total)
	assert.True(t, got.Routing.ExistingProvider)
	assert.Equal(t, "Pharmacy", got.Routing.SettingName)

	stored, err := screenings.Latest(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, got.ScreeningID, stored.ID)
	assert.Equal(t, "2", stored.Responses.Value("PHQ2_Q1"))

	assert.Equal(t, 1, results.sets)
	require.Len(t, broadcaster.snapshots, 1)
	assert.Equal(t, scoring.Baseline().TotalResponses+1, broadcaster.snapshots[0].TotalResponses)

	assert.Equal(t, 1.0, counterValue(metrics.SubmissionsTotal.WithLabelValues("HIGH_RISK", "POSITIVE_PHQ2")))
}

func TestSubmit_ValidationFailureStoresNothing(t *testing.T) {
	ctx := context.Background()
	screenings, _ := newRepos(t)
	metrics := newTestMetrics()
	svc := NewScreeningService(screenings, nil, metrics, logger.Nop())

	got, err := svc.Submit(ctx, "u1", answers(map[string]string{"PHQ2_Q1": "often"}))
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrInvalidAnswer)
	assert.Nil(t, got)

	all, err := screenings.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.Equal(t, 1.0, counterValue(metrics.ValidationFailuresTotal))
}

func TestSubmit_StoreFailureStillClassifies(t *testing.T) {
	metrics := newTestMetrics()
	broadcaster := &recordingBroadcaster{}
	repo := failingScreeningRepo{err: errStoreDown}
	analytics := NewAnalyticsService(repo, metrics, logger.Nop())
	analytics.SetBroadcaster(broadcaster)
	results := newMemoryResultCache()

	svc := NewScreeningService(repo, results, metrics, logger.Nop())
	svc.SetAnalyticsService(analytics)

	got, err := svc.Submit(context.Background(), "u1", answers(map[string]string{"BPG_MH": "2"}))
	require.NoError(t, err)

	assert.False(t, got.Stored)
	assert.Empty(t, got.ScreeningID)
	assert.True(t, errors.Is(got.StoreErr, errStoreDown))
	assert.Equal(t, model.HighRisk, got.RiskResult.Classification)
	assert.Equal(t, "HIGH_RISK_FLAG", got.RiskResult.RuleName())
	assert.Equal(t, "No regular provider", got.Routing.SettingName)

	assert.Equal(t, 0, results.sets)
	assert.Empty(t, broadcaster.snapshots)
	assert.Equal(t, 1.0, counterValue(metrics.StoreFailuresTotal))
}

func TestSubmit_NilMetricsAndNoCache(t *testing.T) {
	screenings, _ := newRepos(t)
	svc := NewScreeningService(screenings, nil, nil, logger.Nop())

	got, err := svc.Submit(context.Background(), "u1", map[string]*string{"PHQ2_Q1": nil})
	require.NoError(t, err)
	assert.True(t, got.Stored)
	assert.Equal(t, model.LowRisk, got.RiskResult.Classification)
	assert.Nil(t, got.RiskResult.RuleTriggered)
}

func TestHistoryAndLatest(t *testing.T) {
	ctx := context.Background()
	screenings, _ := newRepos(t)
	results := newMemoryResultCache()
	svc := NewScreeningService(screenings, results, nil, logger.Nop())

	clock := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return clock }

	empty, err := svc.History(ctx, "u1")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	_, err = svc.Latest(ctx, "u1")
	assert.ErrorIs(t, err, ErrNoScreenings)

	first, err := svc.Submit(ctx, "u1", answers(map[string]string{"PHQ2_Q1": "1"}))
	require.NoError(t, err)
	clock = clock.Add(time.Hour)
	second, err := svc.Submit(ctx, "u1", answers(map[string]string{"PHQ2_Q1": "3"}))
	require.NoError(t, err)

	history, err := svc.History(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, second.ScreeningID, history[0].ID)
	assert.Equal(t, first.ScreeningID, history[1].ID)

	latest, err := svc.Latest(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, second.ScreeningID, latest.ID)

	// cache miss falls back to the store and refills the cache
	require.NoError(t, results.Invalidate(ctx, "u1"))
	results.readErr = nil
	latest, err = svc.Latest(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, second.ScreeningID, latest.ID)
	cached, _ := results.GetLatest(ctx, "u1")
	require.NotNil(t, cached)

	// cache errors are not fatal
	results.readErr = errors.New("redis down")
	latest, err = svc.Latest(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, second.ScreeningID, latest.ID)
}
