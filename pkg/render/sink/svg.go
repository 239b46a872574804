package sink

import (
	"bytes"
	"fmt"
	"time"

	"github.com/matzehuels/cardstack/pkg/deck"
)

// SVGOption configures [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	style   Style
	scale   float64
	columns int
	every   int
	hidden  bool
}

// WithStyle sets the card style (default [Flat]).
func WithStyle(s Style) SVGOption { return func(r *svgRenderer) { r.style = s } }

// WithScale sets the panel scale relative to the viewport (default 0.25).
func WithScale(s float64) SVGOption { return func(r *svgRenderer) { r.scale = s } }

// WithColumns sets the number of panels per row (default 6).
func WithColumns(n int) SVGOption { return func(r *svgRenderer) { r.columns = n } }

// WithEvery draws every n-th frame (and the last one).
func WithEvery(n int) SVGOption { return func(r *svgRenderer) { r.every = n } }

// WithHidden also outlines hidden cards at their last position.
func WithHidden() SVGOption { return func(r *svgRenderer) { r.hidden = true } }

const (
	panelGap    = 16.0
	labelHeight = 20.0
)

// RenderSVG draws the sampled frames as a grid of panels. Each panel is the
// viewport with the visible cards in draw order, captioned with the frame
// time and gesture state.
func RenderSVG(s Scene, opts ...SVGOption) []byte {
	r := svgRenderer{style: Flat{}, scale: 0.25, columns: 6}
	for _, opt := range opts {
		opt(&r)
	}
	if r.scale <= 0 {
		r.scale = 0.25
	}
	if r.columns <= 0 {
		r.columns = 1
	}

	frames := sample(s.Frames, r.every)
	pw, ph := float64(s.Width)*r.scale, float64(s.Height)*r.scale
	cols := min(r.columns, max(len(frames), 1))
	rows := (len(frames) + cols - 1) / cols
	totalW := float64(cols)*(pw+panelGap) + panelGap
	totalH := float64(rows)*(ph+labelHeight+panelGap) + panelGap

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		totalW, totalH, totalW, totalH)
	buf.WriteString("  <defs>\n")
	r.style.RenderDefs(&buf)
	buf.WriteString("  </defs>\n")
	fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="#f4f4f4"/>`+"\n")

	for i, f := range frames {
		x := panelGap + float64(i%cols)*(pw+panelGap)
		y := panelGap + float64(i/cols)*(ph+labelHeight+panelGap)
		r.renderPanel(&buf, s, f, x, y, pw, ph)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *svgRenderer) renderPanel(buf *bytes.Buffer, s Scene, f deck.Snapshot, x, y, w, h float64) {
	fmt.Fprintf(buf, `  <svg class="frame" x="%.1f" y="%.1f" width="%.1f" height="%.1f" viewBox="0 0 %d %d" overflow="hidden">`+"\n",
		x, y, w, h, s.Width, s.Height)
	fmt.Fprintf(buf, `    <rect width="%d" height="%d" fill="#202124"/>`+"\n", s.Width, s.Height)

	for _, p := range f.Plan {
		cx, cy, cw, ch := s.cardRect(p.View)
		if !p.Visible {
			if r.hidden {
				fmt.Fprintf(buf, `    <rect class="hidden" x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="12" fill="none" stroke="#888" stroke-dasharray="8 6"/>`+"\n",
					cx, cy, cw, ch)
			}
			continue
		}
		r.style.RenderCard(buf, Card{
			Label:     string(p.Handle),
			X:         cx,
			Y:         cy,
			W:         cw,
			H:         ch,
			Tilt:      p.Tilt,
			Color:     palette[colorIndex(p.Handle, len(palette))],
			Landscape: s.Orientation == deck.Landscape,
		})
	}
	buf.WriteString("  </svg>\n")

	fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" font-family="monospace" font-size="11" fill="#555">%s %s</text>`+"\n",
		x, y+h+14, formatTime(f.Time), f.State)
}

func formatTime(d time.Duration) string {
	return fmt.Sprintf("%6.1fms", float64(d.Microseconds())/1000)
}
