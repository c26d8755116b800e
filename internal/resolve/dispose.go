package resolve

import (
	"context"

	"go.uber.org/multierr"
)

// Dispose tears the resolver down: child scopes first, depth-first, then
// this resolver's own cached instances in reverse creation order. A failing
// finalizer never stops the remaining ones; all failures are aggregated
// into the returned error. Dispose is idempotent: a second call is a no-op.
func (r *Resolver) Dispose(ctx context.Context) error {
	r.mu.Lock()
	if r.disposed {
		r.mu.Unlock()
		return nil
	}
	r.disposed = true

	children := make([]*Resolver, len(r.children))
	copy(children, r.children)
	created := make([]*instance, len(r.created))
	copy(created, r.created)
	r.mu.Unlock()

	var errs error
	for _, child := range children {
		errs = multierr.Append(errs, child.Dispose(ctx))
	}

	for i := len(created) - 1; i >= 0; i-- {
		inst := created[i]
		if inst.adapter.Finalizer == nil {
			continue
		}

		r.cfg.Logger.Debug("finalizing port", "port", inst.port, "scope", r.id)
		if err := inst.adapter.Finalizer(ctx, inst.value); err != nil {
			errs = multierr.Append(errs, &FinalizeError{Port: inst.port, Cause: err})
		}
	}

	r.cfg.Logger.Debug("resolver disposed", "scope", r.id, "finalized", len(created))
	return errs
}
