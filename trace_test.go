package portico_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portico-go/portico"
)

func tracedContainer(t *testing.T, tracer *portico.Tracer, adapters ...*portico.Adapter) *portico.Container {
	t.Helper()
	return portico.NewContainer(buildGraph(t, adapters...), portico.WithTracer(tracer))
}

func TestTraceParentChild(t *testing.T) {
	t.Parallel()

	tracer := portico.NewTracer()
	c := tracedContainer(t, tracer,
		loggerAdapter(),
		userSvcAdapter(portico.WithLifetime(portico.Scoped)),
	)

	scope, err := c.CreateScope()
	require.NoError(t, err)
	portico.MustResolve(scope, userSvcPort)

	entries := tracer.Traces()
	require.Len(t, entries, 2)

	// The nested Logger resolve completes first, so it is recorded first.
	logEntry, svcEntry := entries[0], entries[1]
	assert.Equal(t, "Logger", logEntry.Port)
	assert.Equal(t, "UserService", svcEntry.Port)

	assert.Empty(t, svcEntry.ParentID)
	assert.Equal(t, svcEntry.ID, logEntry.ParentID)
	assert.Equal(t, []string{logEntry.ID}, svcEntry.ChildIDs)

	assert.Equal(t, portico.Scoped, svcEntry.Lifetime)
	assert.Equal(t, portico.Singleton, logEntry.Lifetime)
	assert.Equal(t, scope.ID(), svcEntry.ScopeID)

	assert.Equal(t, 2, tracer.Stats().Total)
}

func TestTraceCacheHits(t *testing.T) {
	t.Parallel()

	tracer := portico.NewTracer()
	c := tracedContainer(t, tracer, loggerAdapter())

	portico.MustResolve(c, loggerPort)
	portico.MustResolve(c, loggerPort)

	entries := tracer.Traces()
	require.Len(t, entries, 2)
	assert.False(t, entries[0].CacheHit)
	assert.True(t, entries[1].CacheHit)

	stats := tracer.Stats()
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.CacheHits)
	assert.InDelta(t, 0.5, stats.HitRate, 1e-9)
	assert.False(t, stats.SessionStart.IsZero())
}

func TestTraceOrderMonotonic(t *testing.T) {
	t.Parallel()

	tracer := portico.NewTracer()
	c := tracedContainer(t, tracer, loggerAdapter(portico.WithLifetime(portico.Request)))

	for i := 0; i < 3; i++ {
		portico.MustResolve(c, loggerPort)
	}

	entries := tracer.Traces()
	require.Len(t, entries, 3)
	assert.Less(t, entries[0].Order, entries[1].Order)
	assert.Less(t, entries[1].Order, entries[2].Order)
}

func TestTracePauseResume(t *testing.T) {
	t.Parallel()

	tracer := portico.NewTracer()
	c := tracedContainer(t, tracer, loggerAdapter(portico.WithLifetime(portico.Request)))

	portico.MustResolve(c, loggerPort)
	tracer.Pause()
	assert.True(t, tracer.IsPaused())

	portico.MustResolve(c, loggerPort)
	assert.Len(t, tracer.Traces(), 1)

	tracer.Resume()
	assert.False(t, tracer.IsPaused())
	portico.MustResolve(c, loggerPort)
	assert.Len(t, tracer.Traces(), 2)
}

func TestTraceClear(t *testing.T) {
	t.Parallel()

	tracer := portico.NewTracer()
	c := tracedContainer(t, tracer, loggerAdapter())

	portico.MustResolve(c, loggerPort)
	require.NotEmpty(t, tracer.Traces())

	tracer.Clear()
	assert.Empty(t, tracer.Traces())
	assert.Equal(t, 0, tracer.Stats().Total)
}

func TestTraceCapacityEviction(t *testing.T) {
	t.Parallel()

	tracer := portico.NewTracer(portico.TracerCapacity(3))
	c := tracedContainer(t, tracer, loggerAdapter(portico.WithLifetime(portico.Request)))

	for i := 0; i < 5; i++ {
		portico.MustResolve(c, loggerPort)
	}

	entries := tracer.Traces()
	require.Len(t, entries, 3)
	// Oldest evicted first: orders 3, 4, 5 remain.
	assert.Equal(t, uint64(3), entries[0].Order)
	assert.Equal(t, uint64(5), entries[2].Order)
}

func TestTracePinSurvivesEviction(t *testing.T) {
	t.Parallel()

	tracer := portico.NewTracer(portico.TracerCapacity(2))
	c := tracedContainer(t, tracer, loggerAdapter(portico.WithLifetime(portico.Request)))

	portico.MustResolve(c, loggerPort)
	first := tracer.Traces()[0]
	require.True(t, tracer.Pin(first.ID))

	for i := 0; i < 4; i++ {
		portico.MustResolve(c, loggerPort)
	}

	entries := tracer.Traces()
	require.Len(t, entries, 2)
	assert.Equal(t, first.ID, entries[0].ID)
	assert.True(t, entries[0].Pinned)

	require.True(t, tracer.Unpin(first.ID))
	assert.False(t, tracer.Pin("no-such-id"))
}

func TestTraceSubscribe(t *testing.T) {
	t.Parallel()

	tracer := portico.NewTracer()
	c := tracedContainer(t, tracer, loggerAdapter(portico.WithLifetime(portico.Request)))

	var seen []string
	unsubscribe := tracer.Subscribe(func(e portico.TraceEntry) {
		seen = append(seen, e.Port)
	})

	portico.MustResolve(c, loggerPort)
	require.Equal(t, []string{"Logger"}, seen)

	unsubscribe()
	portico.MustResolve(c, loggerPort)
	assert.Len(t, seen, 1)
}

func TestTraceFilters(t *testing.T) {
	t.Parallel()

	tracer := portico.NewTracer()
	c := tracedContainer(t, tracer,
		loggerAdapter(),
		userSvcAdapter(portico.WithLifetime(portico.Scoped)),
	)

	scope, err := c.CreateScope()
	require.NoError(t, err)
	portico.MustResolve(scope, userSvcPort)
	portico.MustResolve(scope, userSvcPort)

	byPort := tracer.Traces(portico.TraceFilter{Port: "UserService"})
	require.Len(t, byPort, 2)

	scoped := portico.Scoped
	byLifetime := tracer.Traces(portico.TraceFilter{Lifetime: &scoped})
	require.Len(t, byLifetime, 2)

	hits := tracer.Traces(portico.TraceFilter{CacheHitsOnly: true})
	require.Len(t, hits, 1)
	assert.Equal(t, "UserService", hits[0].Port)

	misses := tracer.Traces(portico.TraceFilter{MissesOnly: true, Port: "Logger"})
	require.Len(t, misses, 1)

	byScope := tracer.Traces(portico.TraceFilter{ScopeID: scope.ID()})
	require.Len(t, byScope, 3)
}

func TestTraceSlowCount(t *testing.T) {
	t.Parallel()

	tracer := portico.NewTracer(portico.SlowThreshold(time.Millisecond))
	slowPort := portico.NewPort[*Logger]("SlowLogger")
	c := tracedContainer(t, tracer,
		loggerAdapter(),
		portico.NewAdapter(slowPort, func(ctx context.Context, deps portico.Deps) (*Logger, error) {
			time.Sleep(5 * time.Millisecond)
			return &Logger{}, nil
		}),
	)

	portico.MustResolve(c, loggerPort)
	portico.MustResolve(c, slowPort)

	stats := tracer.Stats()
	assert.Equal(t, 1, stats.SlowCount)
	assert.GreaterOrEqual(t, stats.TotalDuration, 5*time.Millisecond)
	assert.Positive(t, stats.AvgDuration)

	slow := tracer.Traces(portico.TraceFilter{SlowOnly: true})
	require.Len(t, slow, 1)
	assert.Equal(t, "SlowLogger", slow[0].Port)
}

func TestTraceLookupByID(t *testing.T) {
	t.Parallel()

	tracer := portico.NewTracer()
	c := tracedContainer(t, tracer, loggerAdapter())

	portico.MustResolve(c, loggerPort)
	all := tracer.Traces()
	require.Len(t, all, 1)

	entry, ok := tracer.Trace(all[0].ID)
	require.True(t, ok)
	assert.Equal(t, "Logger", entry.Port)
	assert.Equal(t, c.ID(), entry.ScopeID)

	_, ok = tracer.Trace("missing")
	assert.False(t, ok)
}
