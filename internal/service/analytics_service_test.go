package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pmhscreen/internal/model"
	"pmhscreen/internal/platform/logger"
	"pmhscreen/internal/scoring"
)

func TestSnapshot_EmptyStoreEqualsBaseline(t *testing.T) {
	screenings, _ := newRepos(t)
	svc := NewAnalyticsService(screenings, newTestMetrics(), logger.Nop())

	got, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, scoring.Baseline(), got)
}

func TestSnapshot_IncludesStoredScreenings(t *testing.T) {
	ctx := context.Background()
	screenings, _ := newRepos(t)
	submit := NewScreeningService(screenings, nil, nil, logger.Nop())
	svc := NewAnalyticsService(screenings, nil, logger.Nop())

	_, err := submit.Submit(ctx, "u1", answers(map[string]string{"PHQ2_Q1": "3", "PHQ2_Q2": "3", "FLU_SRC": "4"}))
	require.NoError(t, err)
	_, err = submit.Submit(ctx, "u2", answers(map[string]string{"PRE_EXER": "1"}))
	require.NoError(t, err)

	base := scoring.Baseline()
	got, err := svc.Snapshot(ctx)
	require.NoError(t, err)

	assert.Equal(t, base.TotalResponses+2, got.TotalResponses)
	assert.Equal(t, base.RiskDistribution["HIGH_RISK"]+1, got.RiskDistribution["HIGH_RISK"])
	assert.Equal(t, base.RiskDistribution["LOW_RISK"]+1, got.RiskDistribution["LOW_RISK"])
	assert.Equal(t, base.PHQ2Distribution[6]+1, got.PHQ2Distribution[6])
	assert.Equal(t, base.CareSettings["Hospital"]+1, got.CareSettings["Hospital"])
	assert.Equal(t, base.RiskFactors["no_exercise"]+1, got.RiskFactors["no_exercise"])
}

func TestSnapshot_CustomBaseline(t *testing.T) {
	screenings, _ := newRepos(t)
	svc := NewAnalyticsService(screenings, nil, logger.Nop())
	svc.SetBaseline(model.AnalyticsSnapshot{TotalResponses: 7})

	got, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, got.TotalResponses)
}

func TestSnapshot_StoreFailure(t *testing.T) {
	metrics := newTestMetrics()
	broadcaster := &recordingBroadcaster{}
	svc := NewAnalyticsService(failingScreeningRepo{err: errStoreDown}, metrics, logger.Nop())
	svc.SetBroadcaster(broadcaster)

	_, err := svc.Snapshot(context.Background())
	assert.ErrorIs(t, err, errStoreDown)
	assert.Equal(t, 1.0, counterValue(metrics.SnapshotsTotal.WithLabelValues("error")))

	svc.Publish(context.Background())
	assert.Empty(t, broadcaster.snapshots)
}
