package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/purview-dev/purview/internal/demo"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	return New(Options{
		Store:    demo.NewStore(),
		Seed:     1,
		Interval: time.Millisecond,
	})
}

func keyPress(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestPanelWakesOnlyWhenItsSelectionChanges(t *testing.T) {
	store := demo.NewStore()
	styles := defaultStyles()
	p := trafficPanel(store, styles)
	p.refresh()
	if p.dirty {
		t.Fatal("panel dirty right after refresh")
	}

	// Latency is not part of the traffic panel's selection.
	store.Update(func(s *demo.Telemetry) demo.Telemetry {
		next := *s
		next.LatencyMS = 99
		return next
	})
	if p.dirty {
		t.Error("latency change woke the traffic panel")
	}

	store.Update(func(s *demo.Telemetry) demo.Telemetry {
		next := *s
		next.Requests += 10
		return next
	})
	if !p.dirty {
		t.Error("request change did not wake the traffic panel")
	}
}

func TestTickAdvancesTraffic(t *testing.T) {
	m := newTestModel(t)
	m.refreshAll()

	next, _ := m.Update(tickMsg(time.Now()))
	m = next.(Model)

	if got := m.store.State().Requests; got == 0 {
		t.Error("tick did not generate traffic")
	}
	for _, p := range m.panels {
		if p.dirty {
			t.Errorf("panel %q left dirty after tick", p.title)
		}
		if p.content == "" {
			t.Errorf("panel %q has no content", p.title)
		}
	}
}

func TestPauseStopsTraffic(t *testing.T) {
	m := newTestModel(t)

	next, _ := m.Update(keyPress('p'))
	m = next.(Model)
	if !m.paused {
		t.Fatal("p did not pause")
	}

	next, _ = m.Update(tickMsg(time.Now()))
	m = next.(Model)
	if got := m.store.State().Requests; got != 0 {
		t.Errorf("paused tick generated traffic: %d requests", got)
	}

	next, _ = m.Update(keyPress('p'))
	m = next.(Model)
	if m.paused {
		t.Error("second p did not resume")
	}
}

func TestResetClearsCounters(t *testing.T) {
	m := newTestModel(t)
	next, _ := m.Update(tickMsg(time.Now()))
	m = next.(Model)

	next, _ = m.Update(keyPress('r'))
	m = next.(Model)
	if got := m.store.State().Requests; got != 0 {
		t.Errorf("reset left %d requests", got)
	}
}

func TestQuitDetachesPanels(t *testing.T) {
	m := newTestModel(t)
	store := m.store

	_, cmd := m.Update(keyPress('q'))
	if cmd == nil {
		t.Fatal("quit did not return a command")
	}

	// Detached observers are pruned on the next transition.
	store.Update(func(s *demo.Telemetry) demo.Telemetry {
		next := *s
		next.Requests++
		return next
	})
	if n := store.SubscriberCount(); n != 0 {
		t.Errorf("%d subscribers left after quit", n)
	}
}

func TestViewComposesPanels(t *testing.T) {
	m := newTestModel(t)
	m.refreshAll()

	out := m.View()
	for _, want := range []string{"Traffic", "Latency", "Health", "purview demo"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestSparkline(t *testing.T) {
	if got := sparkline(nil); got != "" {
		t.Errorf("empty sparkline = %q", got)
	}
	if got := sparkline([]float64{5, 5, 5}); got != "▁▁▁" {
		t.Errorf("flat sparkline = %q", got)
	}
	got := sparkline([]float64{0, 10})
	if got != "▁█" {
		t.Errorf("min/max sparkline = %q", got)
	}
}
