// Package portico is a declarative dependency-injection engine for Go 1.25+.
//
// Services are described as adapters bound to named ports, collected into an
// immutable graph that is validated for completeness before anything is
// instantiated, and resolved lazily at runtime under three lifetime policies
// with deterministic, reverse-order teardown.
//
// # Quick Start
//
// Declare ports, bind adapters, build a graph and resolve:
//
//	var (
//	    LoggerPort  = portico.NewPort[*Logger]("Logger")
//	    ServicePort = portico.NewPort[*UserService]("UserService")
//	)
//
//	b, _ := portico.NewBuilder().Provide(
//	    portico.NewAdapter(LoggerPort, func(ctx context.Context, deps portico.Deps) (*Logger, error) {
//	        return NewLogger(), nil
//	    }),
//	    portico.NewAdapter(ServicePort, func(ctx context.Context, deps portico.Deps) (*UserService, error) {
//	        return NewUserService(portico.From(deps, LoggerPort)), nil
//	    }, portico.Requires(LoggerPort), portico.WithLifetime(portico.Scoped)),
//	)
//
//	graph, err := b.Build()
//	if err != nil {
//	    log.Fatal(err) // enumerates every missing port
//	}
//
//	c := portico.NewContainer(graph)
//	logger, err := portico.Resolve(c, LoggerPort)
//
// # Graph Validation
//
// The builder is append-only and immutable: Provide returns a new builder,
// so two graphs can branch from a shared prefix. Registering a second
// provider for a port fails immediately; Build fails if any required port
// has no provider, reporting the complete missing set. An empty graph is
// valid. Once built, a Graph is frozen and safe to share across containers.
//
// # Lifetimes
//
// Singleton instances are created once per container and shared by every
// scope. Scoped instances are created once per scope; sibling scopes never
// share them. Request instances are created fresh on every resolve and are
// never cached or finalized:
//
//	portico.NewAdapter(port, factory)                                    // singleton
//	portico.NewAdapter(port, factory, portico.WithLifetime(portico.Scoped))
//	portico.NewAdapter(port, factory, portico.WithLifetime(portico.Request))
//
// # Scopes
//
// Scopes nest under the container or under other scopes:
//
//	scope, _ := c.CreateScope()
//	svc, err := portico.Resolve(scope, ServicePort)
//
// Resolving a scoped port directly on the container fails with a
// scope-required error; IsResolved reports StateScopeRequired for such
// ports without triggering resolution.
//
// # Disposal
//
// Dispose tears a resolver down: child scopes first, then its own cached
// instances in reverse creation order, invoking registered finalizers:
//
//	portico.NewAdapter(port, factory,
//	    portico.WithFinalizer(func(ctx context.Context, db *Database) error {
//	        return db.Close()
//	    }),
//	)
//
//	err := scope.Dispose(ctx)
//
// A failing finalizer never stops the rest; all failures are aggregated
// into the returned error. Dispose is idempotent, and every other operation
// on a disposed resolver fails.
//
// # Tracing
//
// A Tracer records every resolve with timing, cache-hit status and the
// parent/child links of nested resolutions:
//
//	tracer := portico.NewTracer(portico.TracerCapacity(500))
//	c := portico.NewContainer(graph, portico.WithTracer(tracer))
//
//	entries := tracer.Traces(portico.TraceFilter{Port: "UserService"})
//	stats := tracer.Stats()
//	unsubscribe := tracer.Subscribe(func(e portico.TraceEntry) { ... })
//
// The buffer is capacity-bounded with oldest-first eviction (pinned entries
// are kept), and recording can be paused and resumed without losing
// captured entries.
//
// # Inspection
//
//	c.Snapshot()      // singleton cache entries with order and timestamps
//	c.ScopeTree()     // the scope hierarchy with per-resolver cache counts
//	c.IsResolved(p)   // resolved / not-resolved / scope-required
//	graph.Export()    // node/edge lists for external visualization
//	c.PrintGraph()    // ASCII rendering; PrintGraphDOT for Graphviz
//
// # Errors
//
// All failures surface as *Error values with a stable code:
//
//	if portico.IsMissingDependency(err) {
//	    ports := portico.MissingPorts(err)
//	}
//	if portico.IsCircularDependency(err) {
//	    cycle := portico.CyclePorts(err)
//	}
//
// # Observers
//
// For metrics integration, a hook can observe every resolve attempt:
//
//	c := portico.NewContainer(graph,
//	    portico.WithResolveObserver(func(port string, d time.Duration, hit bool, err error) {
//	        metrics.RecordResolve(port, d, hit, err)
//	    }),
//	)
package portico
