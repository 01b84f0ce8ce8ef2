package crewsched

import (
	"log/slog"

	"github.com/arloliu/crewsched/internal/logging"
	"github.com/arloliu/crewsched/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// Option configures a Board with optional dependencies.
type Option func(*boardOptions)

// boardOptions holds optional Board configuration.
type boardOptions struct {
	hooks   *Hooks
	metrics MetricsCollector
	logger  Logger
}

// WithHooks sets event hooks.
//
// Parameters:
//   - hooks: Hooks structure with callback functions (nil callbacks are ignored)
//
// Returns:
//   - Option: Functional option for NewBoard
//
// Example:
//
//	hooks := &crewsched.Hooks{
//	    OnCellChanged: func(ctx context.Context, change crewsched.CellChange) error {
//	        return audit.Record(ctx, change)
//	    },
//	}
//	board, err := crewsched.NewBoard(ctx, &cfg, src, crewsched.WithHooks(hooks))
func WithHooks(hooks *Hooks) Option {
	return func(o *boardOptions) {
		o.hooks = hooks
	}
}

// WithMetrics sets a metrics collector.
//
// Parameters:
//   - metrics: MetricsCollector implementation
//
// Returns:
//   - Option: Functional option for NewBoard
//
// Example:
//
//	collector := crewsched.NewPrometheusMetrics(prometheus.DefaultRegisterer, "")
//	board, err := crewsched.NewBoard(ctx, &cfg, src, crewsched.WithMetrics(collector))
func WithMetrics(metrics MetricsCollector) Option {
	return func(o *boardOptions) {
		o.metrics = metrics
	}
}

// WithLogger sets a logger.
//
// Parameters:
//   - logger: Logger implementation (compatible with zap.SugaredLogger)
//
// Returns:
//   - Option: Functional option for NewBoard
//
// Example:
//
//	board, err := crewsched.NewBoard(ctx, &cfg, src,
//	    crewsched.WithLogger(crewsched.NewSlogLogger(slog.Default())))
func WithLogger(logger Logger) Option {
	return func(o *boardOptions) {
		o.logger = logger
	}
}

// NewSlogLogger adapts a *slog.Logger to the Logger interface.
// A nil logger uses slog.Default().
func NewSlogLogger(logger *slog.Logger) Logger {
	return logging.NewSlog(logger)
}

// NewPrometheusMetrics returns a MetricsCollector backed by Prometheus.
//
// Collectors register with reg on first use. A nil reg uses
// prometheus.DefaultRegisterer and an empty namespace uses "crewsched".
func NewPrometheusMetrics(reg prometheus.Registerer, namespace string) MetricsCollector {
	return metrics.NewPrometheus(reg, namespace)
}
