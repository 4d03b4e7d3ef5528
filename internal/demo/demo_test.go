package demo

import (
	"testing"
)

func TestSimulatorIsDeterministic(t *testing.T) {
	a := NewSimulator(1)
	b := NewSimulator(1)

	sa := Telemetry{LatencyMS: 20}
	sb := Telemetry{LatencyMS: 20}
	for i := 0; i < 50; i++ {
		sa = a.Step(&sa)
		sb = b.Step(&sb)
	}
	if sa != sb {
		t.Fatalf("same seed diverged: %+v vs %+v", sa, sb)
	}
}

func TestSimulatorKeepsBounds(t *testing.T) {
	sim := NewSimulator(7)
	s := Telemetry{LatencyMS: 20}
	for i := 0; i < 500; i++ {
		prev := s
		s = sim.Step(&s)

		if s.Requests < prev.Requests {
			t.Fatalf("tick %d: requests went backwards (%d -> %d)", i, prev.Requests, s.Requests)
		}
		if s.Errors < prev.Errors {
			t.Fatalf("tick %d: errors went backwards (%d -> %d)", i, prev.Errors, s.Errors)
		}
		if s.LatencyMS < 1 || s.LatencyMS > 250 {
			t.Fatalf("tick %d: latency %f out of bounds", i, s.LatencyMS)
		}
		if s.ActiveConns < 0 {
			t.Fatalf("tick %d: negative active connections %d", i, s.ActiveConns)
		}
	}
	if s.Ticks != 500 {
		t.Errorf("ticks = %d, want 500", s.Ticks)
	}
}

func TestStepDoesNotMutateInput(t *testing.T) {
	sim := NewSimulator(3)
	in := Telemetry{Requests: 10, LatencyMS: 20}
	saved := in
	_ = sim.Step(&in)
	if in != saved {
		t.Fatalf("Step mutated its input: %+v", in)
	}
}

func TestErrorRate(t *testing.T) {
	if got := (Telemetry{}).ErrorRate(); got != 0 {
		t.Errorf("empty error rate = %f, want 0", got)
	}
	if got := (Telemetry{Requests: 200, Errors: 50}).ErrorRate(); got != 0.25 {
		t.Errorf("error rate = %f, want 0.25", got)
	}
}

func TestViewsCoverTheState(t *testing.T) {
	views := Views()
	for _, name := range []string{"requests", "errors", "error_rate", "latency_ms", "active_conns"} {
		if _, ok := views[name]; !ok {
			t.Errorf("missing view %q", name)
		}
	}

	s := Telemetry{Requests: 100, Errors: 10, LatencyMS: 12.34, ActiveConns: 4}
	if got := views["error_rate"](&s); got != 0.1 {
		t.Errorf("error_rate = %v, want 0.1", got)
	}
	if got := views["latency_ms"](&s); got != 12.3 {
		t.Errorf("latency_ms = %v, want 12.3", got)
	}
}
