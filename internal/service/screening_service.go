package service

import (
	"context"
	"errors"
	"time"

	"pmhscreen/internal/cache"
	"pmhscreen/internal/model"
	"pmhscreen/internal/platform/logger"
	"pmhscreen/internal/repository"
	"pmhscreen/internal/scoring"
)

var ErrNoScreenings = errors.New("no screenings found")

// SubmitResult is the outcome of one submission.
// A classified submission is always returned; Stored reports whether it was persisted.
type SubmitResult struct {
	RiskResult  model.RiskResult
	Routing     model.RoutingResult
	Stored      bool
	ScreeningID string
	StoreErr    error
}

// ScreeningService classifies, routes and records screenings
type ScreeningService struct {
	screenings   repository.ScreeningRepo
	results      cache.ResultCache
	analyticsSvc *AnalyticsService
	metrics      *Metrics
	now          func() time.Time
	log          *logger.Logger
}

// NewScreeningService creates a screening service. results may be nil.
func NewScreeningService(
	screenings repository.ScreeningRepo,
	results cache.ResultCache,
	metrics *Metrics,
	log *logger.Logger,
) *ScreeningService {
	return &ScreeningService{
		screenings: screenings,
		results:    results,
		metrics:    metrics,
		now:        time.Now,
		log:        log,
	}
}

// SetAnalyticsService enables dashboard pushes after each stored submission
func (s *ScreeningService) SetAnalyticsService(svc *AnalyticsService) {
	s.analyticsSvc = svc
}

// Submit validates raw answers, classifies and routes them, then persists the record.
// Validation failures return an error and nothing is stored.
func (s *ScreeningService) Submit(ctx context.Context, ownerID string, raw map[string]*string) (*SubmitResult, error) {
	responses, err := model.NormalizeResponses(raw)
	if err != nil {
		s.metrics.validationFailure()
		return nil, err
	}

	result := &SubmitResult{
		RiskResult: scoring.Classify(responses),
		Routing:    scoring.RouteResponses(responses),
	}
	s.metrics.submission(string(result.RiskResult.Classification), result.RiskResult.RuleName())

	rec := &model.StoredScreening{
		OwnerID:    ownerID,
		Responses:  responses,
		RiskResult: result.RiskResult,
		Routing:    result.Routing,
		CreatedAt:  s.now().UTC(),
	}
	id, err := s.screenings.Save(ctx, rec)
	if err != nil {
		s.metrics.storeFailure()
		s.log.Error("failed to store screening", "owner_id", ownerID, "error", err)
		result.StoreErr = err
		return result, nil
	}
	result.Stored = true
	result.ScreeningID = id

	s.log.Info("screening stored",
		"owner_id", ownerID,
		"screening", id,
		"classification", result.RiskResult.Classification,
		"rule", result.RiskResult.RuleName(),
	)

	if s.results != nil {
		if err := s.results.SetLatest(ctx, rec); err != nil {
			s.log.Warn("failed to cache latest screening", "owner_id", ownerID, "error", err)
		}
	}
	if s.analyticsSvc != nil {
		s.analyticsSvc.Publish(ctx)
	}
	return result, nil
}

// History returns the owner's screenings, most recent first
func (s *ScreeningService) History(ctx context.Context, ownerID string) ([]*model.StoredScreening, error) {
	records, err := s.screenings.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []*model.StoredScreening{}
	}
	return records, nil
}

// Latest returns the owner's most recent screening, preferring the cache
func (s *ScreeningService) Latest(ctx context.Context, ownerID string) (*model.StoredScreening, error) {
	if s.results != nil {
		rec, err := s.results.GetLatest(ctx, ownerID)
		if err != nil {
			s.log.Warn("latest screening cache read failed", "owner_id", ownerID, "error", err)
		} else if rec != nil {
			return rec, nil
		}
	}

	rec, err := s.screenings.Latest(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrNoScreenings
	}

	if s.results != nil {
		if err := s.results.SetLatest(ctx, rec); err != nil {
			s.log.Warn("failed to cache latest screening", "owner_id", ownerID, "error", err)
		}
	}
	return rec, nil
}
