package instrument

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/purview-dev/purview/pkg/purview"
)

// MetricsConfig configures the Prometheus store hook.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "purview").
	Namespace string

	// Subsystem is the metrics subsystem (default: "store").
	Subsystem string

	// ConstLabels are constant labels added to all metrics. Use these to
	// distinguish multiple stores in one process, e.g. {"store": "app"}.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for transition duration.
	// Default: prometheus.DefBuckets.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer.
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus store hook.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the transition duration histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "purview",
		Subsystem: "store",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// storeMetrics holds the Prometheus collectors for one store.
type storeMetrics struct {
	transitionsTotal    prometheus.Counter
	transitionDuration  prometheus.Histogram
	reentrantTotal      prometheus.Counter
	subscribersNotified prometheus.Counter
	subscribersPruned   prometheus.Counter
	observersWoken      prometheus.Counter
}

// ObserveTransition implements purview.Hook.
func (m *storeMetrics) ObserveTransition(stats purview.TransitionStats) {
	m.transitionsTotal.Inc()
	m.transitionDuration.Observe(stats.Duration.Seconds())
	if stats.Depth > 1 {
		m.reentrantTotal.Inc()
	}
	m.subscribersNotified.Add(float64(stats.Notified))
	m.subscribersPruned.Add(float64(stats.Pruned))
	m.observersWoken.Add(float64(stats.Woken))
}

// Prometheus creates a store hook that collects Prometheus metrics for every
// state transition.
//
// Metrics collected:
//   - purview_store_transitions_total: Counter of state transitions
//   - purview_store_transition_duration_seconds: Histogram of notification pass duration
//   - purview_store_reentrant_transitions_total: Counter of nested (reentrant) transitions
//   - purview_store_subscribers_notified_total: Counter of subscriber notifications
//   - purview_store_subscribers_pruned_total: Counter of lazily removed subscribers
//   - purview_store_observers_woken_total: Counter of observer wakes
//
// Example:
//
//	store := purview.NewStore(AppState{},
//	    purview.WithHook(instrument.Prometheus(
//	        instrument.WithConstLabels(prometheus.Labels{"store": "app"}),
//	    )),
//	)
func Prometheus(opts ...MetricsOption) purview.Hook {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	if config.Registry == nil {
		config.Registry = prometheus.DefaultRegisterer
	}

	factory := promauto.With(config.Registry)

	return &storeMetrics{
		transitionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "transitions_total",
			Help:        "Total number of state transitions",
			ConstLabels: config.ConstLabels,
		}),

		transitionDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "transition_duration_seconds",
			Help:        "Notification pass duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		reentrantTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "reentrant_transitions_total",
			Help:        "Total number of nested transitions triggered by subscribers",
			ConstLabels: config.ConstLabels,
		}),

		subscribersNotified: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "subscribers_notified_total",
			Help:        "Total number of subscriber notifications",
			ConstLabels: config.ConstLabels,
		}),

		subscribersPruned: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "subscribers_pruned_total",
			Help:        "Total number of subscribers removed after returning false",
			ConstLabels: config.ConstLabels,
		}),

		observersWoken: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "observers_woken_total",
			Help:        "Total number of observer wake callbacks invoked",
			ConstLabels: config.ConstLabels,
		}),
	}
}
