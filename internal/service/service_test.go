package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"pmhscreen/internal/model"
	"pmhscreen/internal/platform/logger"
	"pmhscreen/internal/repository"
)

func strPtr(s string) *string { return &s }

func answers(values map[string]string) map[string]*string {
	raw := make(map[string]*string, len(values))
	for k, v := range values {
		raw[k] = strPtr(v)
	}
	return raw
}

func newRepos(t *testing.T) (repository.ScreeningRepo, repository.UserRepo) {
	t.Helper()
	db, err := repository.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return repository.NewSQLiteScreeningRepo(db, logger.Nop()), repository.NewSQLiteUserRepo(db)
}

func newTestMetrics() *Metrics {
	return NewMetrics(prometheus.NewRegistry())
}

func counterValue(c prometheus.Collector) float64 {
	return testutil.ToFloat64(c)
}

// failingScreeningRepo fails every write and read
type failingScreeningRepo struct {
	repository.ScreeningRepo
	err error
}

func (r failingScreeningRepo) Save(context.Context, *model.StoredScreening) (string, error) {
	return "", r.err
}

func (r failingScreeningRepo) ListAll(context.Context) ([]*model.StoredScreening, error) {
	return nil, r.err
}

type memoryResultCache struct {
	mu      sync.Mutex
	latest  map[string]*model.StoredScreening
	sets    int
	readErr error
}

func newMemoryResultCache() *memoryResultCache {
	return &memoryResultCache{latest: make(map[string]*model.StoredScreening)}
}

func (c *memoryResultCache) SetLatest(_ context.Context, rec *model.StoredScreening) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	c.latest[rec.OwnerID] = rec
	return nil
}

func (c *memoryResultCache) GetLatest(_ context.Context, ownerID string) (*model.StoredScreening, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.readErr != nil {
		return nil, c.readErr
	}
	return c.latest[ownerID], nil
}

func (c *memoryResultCache) Invalidate(_ context.Context, ownerID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.latest, ownerID)
	return nil
}

type recordingBroadcaster struct {
	mu        sync.Mutex
	snapshots []model.AnalyticsSnapshot
}

func (b *recordingBroadcaster) BroadcastAnalytics(snapshot model.AnalyticsSnapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.snapshots = append(b.snapshots, snapshot)
}

var errStoreDown = errors.New("store down")
