package portico_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portico-go/portico"
)

// finalizerLog records finalizer invocations across resolvers.
type finalizerLog struct {
	mu    sync.Mutex
	order []string
}

func (l *finalizerLog) record(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.order = append(l.order, name)
}

func (l *finalizerLog) entries() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.order...)
}

// tracked builds a scoped adapter whose finalizer logs under name.
func tracked(port portico.Port[*Logger], log *finalizerLog, name string, deps ...portico.PortRef) *portico.Adapter {
	opts := []portico.AdapterOption{
		portico.WithLifetime(portico.Scoped),
		portico.WithFinalizer(func(ctx context.Context, v *Logger) error {
			log.record(name)
			return nil
		}),
	}
	if len(deps) > 0 {
		opts = append(opts, portico.Requires(deps...))
	}
	return portico.NewAdapter(port, func(ctx context.Context, d portico.Deps) (*Logger, error) {
		return &Logger{Name: name}, nil
	}, opts...)
}

func TestDisposeReverseCreationOrder(t *testing.T) {
	t.Parallel()

	log := &finalizerLog{}
	a := portico.NewPort[*Logger]("A")
	b := portico.NewPort[*Logger]("B")
	c := portico.NewPort[*Logger]("C")

	g := buildGraph(t,
		tracked(a, log, "A"),
		tracked(b, log, "B", a),
		tracked(c, log, "C", b),
	)
	root := portico.NewContainer(g)

	scope, err := root.CreateScope()
	require.NoError(t, err)

	// Resolving C creates A, then B, then C.
	portico.MustResolve(scope, c)

	require.NoError(t, scope.Dispose(context.Background()))
	assert.Equal(t, []string{"C", "B", "A"}, log.entries())
}

func TestDisposeChildrenBeforeParent(t *testing.T) {
	t.Parallel()

	log := &finalizerLog{}
	p := portico.NewPort[*Logger]("P")

	g := buildGraph(t, tracked(p, log, "P"))
	root := portico.NewContainer(g)

	parent, err := root.CreateScope()
	require.NoError(t, err)
	child, err := parent.CreateScope()
	require.NoError(t, err)

	// One instance in each scope; the scoped caches are independent.
	parentInst := portico.MustResolve(parent, p)
	childInst := portico.MustResolve(child, p)
	assert.NotSame(t, parentInst, childInst)

	require.NoError(t, parent.Dispose(context.Background()))

	// Child finalized first, then the parent's own instance.
	assert.Equal(t, []string{"P", "P"}, log.entries())

	_, err = portico.Resolve(child, p)
	assert.True(t, portico.IsDisposed(err))
}

func TestContainerDisposeFinalizesSingletonsInReverse(t *testing.T) {
	t.Parallel()

	log := &finalizerLog{}
	a := portico.NewPort[*Logger]("A")
	b := portico.NewPort[*Logger]("B")

	g := buildGraph(t,
		portico.NewAdapter(a, func(ctx context.Context, d portico.Deps) (*Logger, error) {
			return &Logger{Name: "A"}, nil
		}, portico.WithFinalizer(func(ctx context.Context, v *Logger) error {
			log.record("A")
			return nil
		})),
		portico.NewAdapter(b, func(ctx context.Context, d portico.Deps) (*Logger, error) {
			return &Logger{Name: "B"}, nil
		}, portico.Requires(a), portico.WithFinalizer(func(ctx context.Context, v *Logger) error {
			log.record("B")
			return nil
		})),
	)
	c := portico.NewContainer(g)

	portico.MustResolve(c, b)
	require.NoError(t, c.Dispose(context.Background()))
	assert.Equal(t, []string{"B", "A"}, log.entries())
}

func TestDisposeIdempotent(t *testing.T) {
	t.Parallel()

	var calls int
	p := portico.NewPort[*Logger]("P")
	g := buildGraph(t,
		portico.NewAdapter(p, func(ctx context.Context, d portico.Deps) (*Logger, error) {
			return &Logger{}, nil
		}, portico.WithFinalizer(func(ctx context.Context, v *Logger) error {
			calls++
			return nil
		})),
	)
	c := portico.NewContainer(g)

	portico.MustResolve(c, p)
	require.NoError(t, c.Dispose(context.Background()))
	require.NoError(t, c.Dispose(context.Background()))
	assert.Equal(t, 1, calls)
}

func TestDisposedResolverRejectsOperations(t *testing.T) {
	t.Parallel()

	g := buildGraph(t, loggerAdapter())
	c := portico.NewContainer(g)
	require.NoError(t, c.Dispose(context.Background()))

	_, err := portico.Resolve(c, loggerPort)
	assert.True(t, portico.IsDisposed(err))

	_, err = c.CreateScope()
	assert.True(t, portico.IsDisposed(err))
}

func TestFinalizerFailuresAggregated(t *testing.T) {
	t.Parallel()

	log := &finalizerLog{}
	a := portico.NewPort[*Logger]("A")
	b := portico.NewPort[*Logger]("B")
	c := portico.NewPort[*Logger]("C")

	failing := func(name string) portico.AdapterOption {
		return portico.WithFinalizer(func(ctx context.Context, v *Logger) error {
			log.record(name)
			return errors.New(name + " failed to close")
		})
	}

	g := buildGraph(t,
		portico.NewAdapter(a, func(ctx context.Context, d portico.Deps) (*Logger, error) {
			return &Logger{}, nil
		}, failing("A")),
		portico.NewAdapter(b, func(ctx context.Context, d portico.Deps) (*Logger, error) {
			return &Logger{}, nil
		}, portico.WithFinalizer(func(ctx context.Context, v *Logger) error {
			log.record("B")
			return nil
		})),
		portico.NewAdapter(c, func(ctx context.Context, d portico.Deps) (*Logger, error) {
			return &Logger{}, nil
		}, failing("C")),
	)
	root := portico.NewContainer(g)

	portico.MustResolve(root, a)
	portico.MustResolve(root, b)
	portico.MustResolve(root, c)

	err := root.Dispose(context.Background())
	require.Error(t, err)
	assert.True(t, portico.IsFinalizerFailure(err))

	// Every finalizer ran despite the failures, in reverse order.
	assert.Equal(t, []string{"C", "B", "A"}, log.entries())
	assert.Contains(t, err.Error(), "2 failure(s)")
	assert.Contains(t, err.Error(), "A failed to close")
	assert.Contains(t, err.Error(), "C failed to close")
}

func TestSnapshot(t *testing.T) {
	t.Parallel()

	g := buildGraph(t, loggerAdapter(), dbAdapter())
	c := portico.NewContainer(g)

	before := c.Snapshot()
	require.Len(t, before, 2)
	assert.False(t, before[0].Resolved)
	assert.False(t, before[1].Resolved)

	portico.MustResolve(c, loggerPort)
	portico.MustResolve(c, dbPort)

	after := c.Snapshot()
	require.Len(t, after, 2)
	assert.True(t, after[0].Resolved)
	assert.True(t, after[1].Resolved)
	assert.Equal(t, "Logger", after[0].Port)
	assert.Less(t, after[0].Order, after[1].Order)
	assert.False(t, after[0].At.IsZero())
}

func TestScopeTree(t *testing.T) {
	t.Parallel()

	g := buildGraph(t, loggerAdapter(), userSvcAdapter(portico.WithLifetime(portico.Scoped)))
	c := portico.NewContainer(g)

	s1, err := c.CreateScope()
	require.NoError(t, err)
	_, err = s1.CreateScope()
	require.NoError(t, err)

	portico.MustResolve(s1, userSvcPort)
	require.NoError(t, s1.Dispose(context.Background()))

	tree := c.ScopeTree()
	assert.True(t, tree.Root)
	assert.Equal(t, "active", tree.Status)
	assert.Equal(t, 1, tree.TotalCount) // one singleton port
	assert.Equal(t, 1, tree.ResolvedCount)

	require.Len(t, tree.Children, 1)
	scopeNode := tree.Children[0]
	assert.Equal(t, s1.ID(), scopeNode.ID)
	assert.Equal(t, "disposed", scopeNode.Status)
	assert.Equal(t, 1, scopeNode.TotalCount) // one scoped port
	assert.Equal(t, 1, scopeNode.ResolvedCount)
	require.Len(t, scopeNode.Children, 1)
	assert.Equal(t, "disposed", scopeNode.Children[0].Status)
}

func TestIsResolvedStates(t *testing.T) {
	t.Parallel()

	reqPort := portico.NewPort[*Logger]("ReqLogger")
	g := buildGraph(t,
		loggerAdapter(),
		userSvcAdapter(portico.WithLifetime(portico.Scoped)),
		portico.NewAdapter(reqPort, func(ctx context.Context, d portico.Deps) (*Logger, error) {
			return &Logger{}, nil
		}, portico.WithLifetime(portico.Request)),
	)
	c := portico.NewContainer(g)

	assert.Equal(t, portico.StateNotResolved, c.IsResolved(loggerPort))
	assert.Equal(t, portico.StateScopeRequired, c.IsResolved(userSvcPort))
	assert.Equal(t, portico.StateUnknown, c.IsResolved(dbPort))

	portico.MustResolve(c, loggerPort)
	assert.Equal(t, portico.StateResolved, c.IsResolved(loggerPort))

	scope, err := c.CreateScope()
	require.NoError(t, err)
	assert.Equal(t, portico.StateNotResolved, scope.IsResolved(userSvcPort))
	portico.MustResolve(scope, userSvcPort)
	assert.Equal(t, portico.StateResolved, scope.IsResolved(userSvcPort))

	// Singleton state is visible from the scope too.
	assert.Equal(t, portico.StateResolved, scope.IsResolved(loggerPort))

	// Request-lifetime ports are never cached.
	portico.MustResolve(c, reqPort)
	assert.Equal(t, portico.StateNotResolved, c.IsResolved(reqPort))
}

func TestNestedScopeOwnsIndependentCache(t *testing.T) {
	t.Parallel()

	g := buildGraph(t, loggerAdapter(portico.WithLifetime(portico.Scoped)))
	c := portico.NewContainer(g)

	parent, err := c.CreateScope()
	require.NoError(t, err)
	child, err := parent.CreateScope()
	require.NoError(t, err)

	// A child scope inherits nothing from its parent's scoped cache.
	fromParent := portico.MustResolve(parent, loggerPort)
	fromChild := portico.MustResolve(child, loggerPort)
	assert.NotSame(t, fromParent, fromChild)
}
