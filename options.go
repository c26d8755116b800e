package portico

import "log/slog"

// Option configures a Container at construction time.
type Option func(*containerConfig)

// WithLogger sets the structured logger used by the engine. Defaults to
// slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *containerConfig) {
		cfg.logger = logger
	}
}

// WithTracer attaches a tracer; every resolve performed by the container
// or any of its scopes is recorded.
func WithTracer(t *Tracer) Option {
	return func(cfg *containerConfig) {
		cfg.tracer = t
	}
}

// WithResolveObserver registers a hook called after every resolve attempt.
func WithResolveObserver(hook ResolveHook) Option {
	return func(cfg *containerConfig) {
		cfg.observers = append(cfg.observers, hook)
	}
}
