package purview

import "time"

// TransitionStats describes one completed notification pass.
type TransitionStats struct {
	// Start is when the notification pass began.
	Start time.Time

	// Duration is how long the pass took, including nested passes
	// triggered by reentrant writes.
	Duration time.Duration

	// Depth is the notification nesting level. 1 is an outermost
	// SetState; higher values are reentrant writes made by subscribers.
	Depth int

	// Notified is the number of subscribers invoked during the pass.
	Notified int

	// Pruned is the number of subscribers removed during the pass
	// (those that returned false).
	Pruned int

	// Woken is the number of observers whose wake callback fired during
	// the pass, excluding nested passes.
	Woken int
}

// Hook observes store transitions. Implementations must be cheap: hooks run
// synchronously on the store's goroutine after every notification pass.
//
// The instrument package provides Prometheus and OpenTelemetry hooks.
type Hook interface {
	ObserveTransition(TransitionStats)
}

// HookFunc adapts a function to the Hook interface.
type HookFunc func(TransitionStats)

// ObserveTransition implements Hook.
func (f HookFunc) ObserveTransition(stats TransitionStats) {
	f(stats)
}
