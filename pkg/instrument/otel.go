package instrument

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/purview-dev/purview/pkg/purview"
)

// Default tracer name for purview stores.
const defaultTracerName = "purview"

// OTelConfig configures the OpenTelemetry store hook.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "purview").
	TracerName string

	// StoreName is recorded as the purview.store attribute on every span.
	StoreName string

	// Filter determines which transitions to trace. Return true to trace
	// the transition, false to skip. If nil, all transitions are traced.
	Filter func(stats purview.TransitionStats) bool

	// tracer is the resolved tracer instance.
	tracer trace.Tracer
}

// OTelOption configures the OpenTelemetry store hook.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithStoreName sets the purview.store span attribute.
func WithStoreName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.StoreName = name
	}
}

// WithFilter sets a filter function for transitions. Use this to skip
// high-frequency transitions, e.g. trace only passes that woke someone:
//
//	instrument.WithFilter(func(s purview.TransitionStats) bool {
//	    return s.Woken > 0
//	})
func WithFilter(filter func(stats purview.TransitionStats) bool) OTelOption {
	return func(c *OTelConfig) {
		c.Filter = filter
	}
}

// otelHook records one span per state transition.
type otelHook struct {
	config OTelConfig
}

// ObserveTransition implements purview.Hook. The notification pass has
// already completed when the hook runs, so the span is recorded with
// explicit start and end timestamps taken from the stats.
func (h *otelHook) ObserveTransition(stats purview.TransitionStats) {
	if h.config.Filter != nil && !h.config.Filter(stats) {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.Int("purview.transition.depth", stats.Depth),
		attribute.Int("purview.transition.subscribers_notified", stats.Notified),
		attribute.Int("purview.transition.subscribers_pruned", stats.Pruned),
		attribute.Int("purview.transition.observers_woken", stats.Woken),
	}
	if h.config.StoreName != "" {
		attrs = append(attrs, attribute.String("purview.store", h.config.StoreName))
	}

	_, span := h.config.tracer.Start(context.Background(), "purview.transition",
		trace.WithTimestamp(stats.Start),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
	span.End(trace.WithTimestamp(stats.Start.Add(stats.Duration)))
}

// OpenTelemetry creates a store hook that records a span for every state
// transition.
//
// Each span covers one notification pass, including nested passes triggered
// by reentrant writes (which get spans of their own at a higher depth).
//
// Example:
//
//	store := purview.NewStore(AppState{},
//	    purview.WithHook(instrument.OpenTelemetry(
//	        instrument.WithStoreName("app"),
//	    )),
//	)
func OpenTelemetry(opts ...OTelOption) purview.Hook {
	config := OTelConfig{
		TracerName: defaultTracerName,
	}
	for _, opt := range opts {
		opt(&config)
	}
	config.tracer = otel.Tracer(config.TracerName)

	return &otelHook{config: config}
}
