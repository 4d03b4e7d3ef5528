// Package demo provides the synthetic telemetry state used by the serve and
// demo commands. It exists so both the live server and the terminal
// dashboard can exercise the same store against believable traffic.
package demo

import (
	"math"
	"math/rand"

	"github.com/purview-dev/purview/pkg/purview"
)

// Telemetry is the demo application state.
type Telemetry struct {
	Requests    int64
	Errors      int64
	LatencyMS   float64
	ActiveConns int
	Ticks       int64
}

// ErrorRate returns the fraction of requests that failed, zero when no
// traffic has arrived yet.
func (t Telemetry) ErrorRate() float64 {
	if t.Requests == 0 {
		return 0
	}
	return float64(t.Errors) / float64(t.Requests)
}

// NewStore returns a telemetry store with zeroed counters.
func NewStore(opts ...purview.StoreOption) *purview.Store[Telemetry] {
	return purview.NewStore(Telemetry{LatencyMS: 20}, opts...)
}

// Simulator produces synthetic traffic. Step is pure with respect to the
// store: it maps one state to the next, so it slots directly into
// Store.Update.
type Simulator struct {
	rng *rand.Rand
}

// NewSimulator seeds a simulator. The same seed replays the same traffic.
func NewSimulator(seed int64) *Simulator {
	return &Simulator{rng: rand.New(rand.NewSource(seed))}
}

// Step advances the telemetry by one tick.
func (sim *Simulator) Step(s *Telemetry) Telemetry {
	next := *s
	next.Ticks++

	burst := int64(sim.rng.Intn(40) + 5)
	next.Requests += burst
	if sim.rng.Float64() < 0.3 {
		next.Errors += int64(sim.rng.Intn(3) + 1)
	}

	// Latency drifts as a bounded random walk around 20ms.
	next.LatencyMS += (sim.rng.Float64() - 0.5) * 8
	next.LatencyMS = math.Max(1, math.Min(next.LatencyMS, 250))

	next.ActiveConns += sim.rng.Intn(7) - 3
	if next.ActiveConns < 0 {
		next.ActiveConns = 0
	}
	return next
}

// Views returns the selector set the live server registers for this state.
// Keys are the wire names clients subscribe to.
func Views() map[string]func(*Telemetry) any {
	return map[string]func(*Telemetry) any{
		"requests":     func(t *Telemetry) any { return t.Requests },
		"errors":       func(t *Telemetry) any { return t.Errors },
		"error_rate":   func(t *Telemetry) any { return t.ErrorRate() },
		"latency_ms":   func(t *Telemetry) any { return math.Round(t.LatencyMS*10) / 10 },
		"active_conns": func(t *Telemetry) any { return t.ActiveConns },
	}
}
