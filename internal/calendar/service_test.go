package calendar

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/angelmondragon/prodeel-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/prodeel-backend/pkg/errors"
	"github.com/angelmondragon/prodeel-backend/pkg/logger"
	"github.com/angelmondragon/prodeel-backend/pkg/metrics"
	"github.com/angelmondragon/prodeel-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

type memoryPersister struct {
	mu      sync.Mutex
	docs    map[uuid.UUID]types.CalendarDocument
	loads   int
	saves   int
	failErr error
	loadErr error
}

func newMemoryPersister() *memoryPersister {
	return &memoryPersister{docs: map[uuid.UUID]types.CalendarDocument{}}
}

func (m *memoryPersister) LoadEvents(_ context.Context, storeID uuid.UUID) (types.CalendarDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loads++
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.docs[storeID], nil
}

func (m *memoryPersister) PersistEvents(_ context.Context, storeID uuid.UUID, events types.CalendarDocument) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return m.failErr
	}
	m.saves++
	m.docs[storeID] = events
	return nil
}

func newTestService(t *testing.T, p Persister, reg prometheus.Registerer) Service {
	t.Helper()
	svc, err := NewService(p, logger.Nop(), metrics.NewCalendarMetrics(reg), Options{})
	require.NoError(t, err)
	return svc
}

func counterValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		var total float64
		for _, metric := range family.GetMetric() {
			total += metricCounter(metric)
		}
		return total
	}
	return 0
}

func metricCounter(m *dto.Metric) float64 {
	if m.GetCounter() == nil {
		return 0
	}
	return m.GetCounter().GetValue()
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	_, err := NewService(nil, logger.Nop(), nil, Options{})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))

	_, err = NewService(newMemoryPersister(), nil, nil, Options{})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
}

func TestServiceSeedsFromPersisterOnce(t *testing.T) {
	p := newMemoryPersister()
	storeID := uuid.New()
	p.docs[storeID] = types.CalendarDocument{"2024-06-01": {{Title: "Sale"}}}
	svc := newTestService(t, p, nil)
	ctx := context.Background()

	view, err := svc.View(ctx, storeID, 2024)
	require.NoError(t, err)
	assert.Equal(t, 1, view.Count)
	assert.False(t, view.Dirty)
	assert.True(t, view.Saved)
	assert.NotEmpty(t, view.Weeks)

	_, err = svc.View(ctx, storeID, 2025)
	require.NoError(t, err)
	assert.Equal(t, 1, p.loads)
}

func TestServiceMutationsPersist(t *testing.T) {
	p := newMemoryPersister()
	reg := prometheus.NewRegistry()
	svc := newTestService(t, p, reg)
	storeID := uuid.New()
	ctx := context.Background()

	state, err := svc.Add(ctx, storeID, "2024-06-01", "Sale", nil)
	require.NoError(t, err)
	assert.True(t, state.Saved)
	assert.False(t, state.Dirty)
	assert.Equal(t, []types.CalendarEntry{{Title: "Sale"}}, p.docs[storeID]["2024-06-01"])

	_, err = svc.Move(ctx, storeID, "2024-06-01", "2024-06-02", "Sale", nil)
	require.NoError(t, err)
	_, stale := p.docs[storeID]["2024-06-01"]
	assert.False(t, stale)
	assert.Len(t, p.docs[storeID]["2024-06-02"], 1)

	state, err = svc.RequestDelete(ctx, storeID, "2024-06-02", "Sale")
	require.NoError(t, err)
	assert.Equal(t, DeletePending, state.DeleteState)

	state, err = svc.ConfirmDelete(ctx, storeID, nil)
	require.NoError(t, err)
	require.NotNil(t, state.Deleted)
	assert.Equal(t, "Sale", state.Deleted.Content)
	assert.Empty(t, p.docs[storeID])
	assert.Equal(t, 3, p.saves)
	assert.Equal(t, float64(3), counterValue(t, reg, "calendar_flush_success"))
}

func TestServicePersistFailureKeepsEditAndReports(t *testing.T) {
	p := newMemoryPersister()
	p.failErr = errors.New("db down")
	reg := prometheus.NewRegistry()
	svc := newTestService(t, p, reg)
	storeID := uuid.New()
	ctx := context.Background()
	collector := &Collector{}

	state, err := svc.Add(ctx, storeID, "2024-06-01", "Sale", collector)

	require.NoError(t, err)
	assert.False(t, state.Saved)
	assert.True(t, state.Dirty)
	assert.Equal(t, 1, state.Count)
	require.Len(t, collector.Notices(), 1)
	assert.Equal(t, enums.SeverityError, collector.Notices()[0].Severity)
	assert.Equal(t, float64(1), counterValue(t, reg, "calendar_flush_failure"))

	_, err = svc.Flush(ctx, storeID)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))

	leaveNotices := &Collector{}
	warned, err := svc.BeforeLeave(ctx, storeID, leaveNotices)
	require.NoError(t, err)
	assert.True(t, warned)

	p.failErr = nil
	state, err = svc.Flush(ctx, storeID)
	require.NoError(t, err)
	assert.False(t, state.Dirty)
	assert.Len(t, p.docs[storeID]["2024-06-01"], 1)
}

func TestServiceTranslatesRejections(t *testing.T) {
	p := newMemoryPersister()
	reg := prometheus.NewRegistry()
	svc := newTestService(t, p, reg)
	storeID := uuid.New()
	ctx := context.Background()

	_, err := svc.Add(ctx, storeID, "2024-06-01", "", nil)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = svc.Move(ctx, storeID, "2024-06-01", "2024-06-02", "missing", nil)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	_, err = svc.ConfirmDelete(ctx, storeID, nil)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict))

	_, err = svc.View(ctx, storeID, 0)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = svc.Add(ctx, uuid.Nil, "2024-06-01", "Sale", nil)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	assert.Equal(t, float64(3), counterValue(t, reg, "calendar_mutation_rejected"))
	assert.Zero(t, p.saves)
}

func TestServiceEventLimitReturnsLimitExceeded(t *testing.T) {
	p := newMemoryPersister()
	storeID := uuid.New()
	doc := types.CalendarDocument{}
	for i := 0; i < DefaultMaxEvents; i++ {
		doc["2024-01-01"] = append(doc["2024-01-01"], types.CalendarEntry{Title: "x"})
	}
	p.docs[storeID] = doc
	svc := newTestService(t, p, nil)
	collector := &Collector{}

	_, err := svc.Add(context.Background(), storeID, "2024-01-02", "one more", collector)

	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeLimitExceeded))
	assert.Equal(t, "Exceeding limit 50 events", collector.Notices()[0].Message)
	assert.Len(t, p.docs[storeID]["2024-01-01"], DefaultMaxEvents)
}

func TestServiceLoadFailureIsDependencyError(t *testing.T) {
	p := newMemoryPersister()
	p.loadErr = errors.New("timeout")
	svc := newTestService(t, p, nil)

	_, err := svc.View(context.Background(), uuid.New(), 2024)

	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
	assert.NoError(t, svc.FlushAll(context.Background()))
}

func TestServiceClickDay(t *testing.T) {
	svc := newTestService(t, newMemoryPersister(), nil)
	collector := &Collector{}

	key, err := svc.ClickDay(context.Background(), uuid.New(), "2025-03-09", collector)

	require.NoError(t, err)
	assert.Equal(t, DateKey("2025-03-09"), key)
	assert.Equal(t, "Clicked on March 9, 2025", collector.Notices()[0].Message)
}

func TestFlushAllCombinesFailures(t *testing.T) {
	p := newMemoryPersister()
	svc := newTestService(t, p, nil)
	ctx := context.Background()
	first, second := uuid.New(), uuid.New()

	p.failErr = errors.New("db down")
	_, err := svc.Add(ctx, first, "2024-06-01", "A", nil)
	require.NoError(t, err)
	_, err = svc.Add(ctx, second, "2024-06-01", "B", nil)
	require.NoError(t, err)

	err = svc.FlushAll(ctx)
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 2)

	p.failErr = nil
	require.NoError(t, svc.FlushAll(ctx))
	assert.Len(t, p.docs, 2)
}

func TestServiceSerialisesConcurrentEdits(t *testing.T) {
	p := newMemoryPersister()
	svc := newTestService(t, p, nil)
	storeID := uuid.New()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Add(ctx, storeID, "2024-06-01", "Sale", nil)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	view, err := svc.View(ctx, storeID, 2024)
	require.NoError(t, err)
	assert.Equal(t, 20, view.Count)
	assert.Len(t, p.docs[storeID]["2024-06-01"], 20)
}
