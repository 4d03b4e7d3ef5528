package purview

import (
	"strconv"
	"testing"
)

func BenchmarkSetStateNoSubscribers(b *testing.B) {
	store := NewStore(counterState{})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		store.SetState(counterState{Count: i})
	}
}

func BenchmarkSetStateUnchangedSelection(b *testing.B) {
	for _, observers := range []int{1, 10, 100} {
		b.Run(strconv.Itoa(observers), func(b *testing.B) {
			store := NewStore(appState{Count: 0})
			for i := 0; i < observers; i++ {
				h := Attach(store, func() {})
				h.BeginPass()
				Map(h, func(s *appState) int { return s.Count })
			}

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				// Count never changes; only Name churns.
				store.SetState(appState{Count: 0, Name: "x"})
			}
		})
	}
}

func BenchmarkSetStateRefSelection(b *testing.B) {
	store := NewStore(appState{Count: 0})
	h := Attach(store, func() {})
	h.BeginPass()
	WatchRef(h, func(s *appState) *int { return &s.Count })

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		store.SetState(appState{Count: 0, Name: "x"})
	}
}

func BenchmarkEvaluationPass(b *testing.B) {
	store := NewStore(appState{Count: 1, Name: "a", Tags: []string{"x"}})
	h := Attach(store, func() {})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		h.BeginPass()
		Map(h, func(s *appState) int { return s.Count })
		MapRef(h, func(s *appState) *string { return &s.Name })
		Watch(h, func(s *appState) int { return len(s.Tags) })
	}
}
