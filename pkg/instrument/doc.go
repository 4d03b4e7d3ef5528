// Package instrument provides optional observability hooks for purview
// stores.
//
// Hooks are attached at store construction and observe every completed
// notification pass:
//
//	store := purview.NewStore(AppState{},
//	    purview.WithHook(instrument.Prometheus()),
//	    purview.WithHook(instrument.OpenTelemetry()),
//	)
//
// Prometheus exports transition counters and duration histograms;
// OpenTelemetry records one span per state transition.
package instrument
