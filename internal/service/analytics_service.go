package service

import (
	"context"
	"fmt"

	"pmhscreen/internal/model"
	"pmhscreen/internal/platform/logger"
	"pmhscreen/internal/repository"
	"pmhscreen/internal/scoring"
)

// AnalyticsService computes dashboard statistics from the baseline and stored screenings.
// Snapshots are recomputed on every call; nothing is cached.
type AnalyticsService struct {
	screenings  repository.ScreeningRepo
	baseline    func() model.AnalyticsSnapshot
	broadcaster Broadcaster
	metrics     *Metrics
	log         *logger.Logger
}

func NewAnalyticsService(screenings repository.ScreeningRepo, metrics *Metrics, log *logger.Logger) *AnalyticsService {
	return &AnalyticsService{
		screenings: screenings,
		baseline:   scoring.Baseline,
		metrics:    metrics,
		log:        log,
	}
}

// SetBroadcaster sets the broadcaster for dashboard pushes
func (s *AnalyticsService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// SetBaseline replaces the reference dataset
func (s *AnalyticsService) SetBaseline(baseline model.AnalyticsSnapshot) {
	s.baseline = func() model.AnalyticsSnapshot { return baseline.Clone() }
}

// Snapshot merges every stored screening into a fresh copy of the baseline
func (s *AnalyticsService) Snapshot(ctx context.Context) (model.AnalyticsSnapshot, error) {
	records, err := s.screenings.ListAll(ctx)
	s.metrics.snapshot(err)
	if err != nil {
		return model.AnalyticsSnapshot{}, fmt.Errorf("load screenings: %w", err)
	}
	return scoring.Aggregate(s.baseline(), records), nil
}

// Publish pushes a fresh snapshot to dashboard subscribers
func (s *AnalyticsService) Publish(ctx context.Context) {
	if s.broadcaster == nil {
		return
	}
	snapshot, err := s.Snapshot(ctx)
	if err != nil {
		s.log.Warn("analytics publish skipped", "error", err)
		return
	}
	s.broadcaster.BroadcastAnalytics(snapshot)
}
