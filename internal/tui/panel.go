package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"

	"github.com/purview-dev/purview/internal/demo"
	"github.com/purview-dev/purview/pkg/purview"
)

// renderFunc produces a panel body from an evaluation pass. It must declare
// the same selectors in the same order on every call.
type renderFunc func(h *purview.Handle[demo.Telemetry]) string

// panel is one dashboard section backed by its own observer. A store
// transition that changes any of the panel's selections marks it dirty;
// the dashboard re-renders only dirty panels.
type panel struct {
	title   string
	handle  *purview.Handle[demo.Telemetry]
	render  renderFunc
	styles  Styles
	dirty   bool
	content string
}

func newPanel(store *purview.Store[demo.Telemetry], styles Styles, title string, render renderFunc) *panel {
	p := &panel{
		title:  title,
		render: render,
		styles: styles,
		dirty:  true,
	}
	p.handle = purview.Attach(store, func() { p.dirty = true })
	return p
}

// refresh runs an evaluation pass and caches the rendered body.
func (p *panel) refresh() {
	p.handle.BeginPass()
	p.content = p.render(p.handle)
	p.dirty = false
}

func (p *panel) view() string {
	body := p.styles.Title.Render(p.title) + "\n" + p.content
	return p.styles.Panel.Render(body)
}

func (p *panel) detach() {
	p.handle.Detach()
}

func trafficPanel(store *purview.Store[demo.Telemetry], styles Styles) *panel {
	return newPanel(store, styles, "Traffic", func(h *purview.Handle[demo.Telemetry]) string {
		requests := purview.Map(h, func(t *demo.Telemetry) int64 { return t.Requests })
		errors := purview.Map(h, func(t *demo.Telemetry) int64 { return t.Errors })

		var b strings.Builder
		fmt.Fprintf(&b, "%s %s\n",
			styles.Label.Render("requests"),
			styles.Value.Render(fmt.Sprintf("%8d", requests)))
		fmt.Fprintf(&b, "%s %s",
			styles.Label.Render("errors  "),
			styles.Value.Render(fmt.Sprintf("%8d", errors)))
		return b.String()
	})
}

func latencyPanel(store *purview.Store[demo.Telemetry], styles Styles) *panel {
	// History survives across passes; it only grows when the selected
	// value actually changed, which is exactly when the panel is woken.
	var history []float64

	return newPanel(store, styles, "Latency", func(h *purview.Handle[demo.Telemetry]) string {
		latency := purview.Map(h, func(t *demo.Telemetry) float64 { return t.LatencyMS })

		if n := len(history); n == 0 || history[n-1] != latency {
			history = append(history, latency)
			if len(history) > 30 {
				history = history[1:]
			}
		}

		var b strings.Builder
		fmt.Fprintf(&b, "%s %s\n",
			styles.Label.Render("p50     "),
			styles.Value.Render(fmt.Sprintf("%6.1fms", latency)))
		b.WriteString(styles.Label.Render(sparkline(history)))
		return b.String()
	})
}

func healthPanel(store *purview.Store[demo.Telemetry], styles Styles, bar progress.Model) *panel {
	return newPanel(store, styles, "Health", func(h *purview.Handle[demo.Telemetry]) string {
		conns := purview.Map(h, func(t *demo.Telemetry) int { return t.ActiveConns })
		rate := purview.Map(h, func(t *demo.Telemetry) float64 { return t.ErrorRate() })

		rateStyle := styles.Value
		if rate > 0.05 {
			rateStyle = styles.Warning
		}

		var b strings.Builder
		fmt.Fprintf(&b, "%s %s\n",
			styles.Label.Render("conns   "),
			styles.Value.Render(fmt.Sprintf("%8d", conns)))
		fmt.Fprintf(&b, "%s %s\n",
			styles.Label.Render("err rate"),
			rateStyle.Render(fmt.Sprintf("%7.2f%%", rate*100)))
		b.WriteString(bar.ViewAs(rate))
		return b.String()
	})
}

var sparkTicks = []rune("▁▂▃▄▅▆▇█")

// sparkline renders values scaled into eight block heights.
func sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	min, max := values[0], values[0]
	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	span := max - min
	var b strings.Builder
	for _, v := range values {
		idx := 0
		if span > 0 {
			idx = int((v - min) / span * float64(len(sparkTicks)-1))
		}
		b.WriteRune(sparkTicks[idx])
	}
	return b.String()
}
