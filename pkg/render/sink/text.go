package sink

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/cardstack/pkg/deck"
)

// TextOption configures [RenderText].
type TextOption func(*textRenderer)

type textRenderer struct {
	rows  int
	width int
	every int
}

// WithTextRows sets the number of lines per frame (default 24).
func WithTextRows(n int) TextOption { return func(r *textRenderer) { r.rows = n } }

// WithTextWidth sets the card width in columns (default 32).
func WithTextWidth(n int) TextOption { return func(r *textRenderer) { r.width = n } }

// WithTextEvery draws every n-th frame (and the last one).
func WithTextEvery(n int) TextOption { return func(r *textRenderer) { r.every = n } }

var (
	styleHeader = lipgloss.NewStyle().Bold(true)
	styleMuted  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// RenderText draws the sampled frames one below the other.
func RenderText(s Scene, opts ...TextOption) string {
	r := newTextRenderer(opts)
	frames := sample(s.Frames, r.every)
	parts := make([]string, len(frames))
	for i, f := range frames {
		parts[i] = r.frame(s, f)
	}
	return strings.Join(parts, "\n\n")
}

// TextFrame draws a single frame. The scroll axis always runs down the
// terminal; landscape decks are drawn rotated.
func TextFrame(s Scene, f deck.Snapshot, opts ...TextOption) string {
	r := newTextRenderer(opts)
	return r.frame(s, f)
}

func newTextRenderer(opts []TextOption) textRenderer {
	r := textRenderer{rows: 24, width: 32}
	for _, opt := range opts {
		opt(&r)
	}
	r.rows = max(r.rows, 1)
	r.width = max(r.width, 8)
	return r
}

func (r textRenderer) frame(s Scene, f deck.Snapshot) string {
	var b strings.Builder
	m := f.Metrics
	b.WriteString(styleHeader.Render(fmt.Sprintf("%s %-9s", formatTime(f.Time), f.State)))
	b.WriteString(styleMuted.Render(fmt.Sprintf("  scroll=%d/%d overscroll=%d tilt=%.2f",
		m.ScrollPosition, m.ScrollLength, m.OverscrollPosition, m.Tilt)))
	b.WriteString("\n")

	length := s.viewLength()
	top := make([]int, len(f.Plan))
	for i, p := range f.Plan {
		top[i] = -1
		if p.Visible && length > 0 {
			top[i] = min(p.View*r.rows/length, r.rows-1)
		}
	}

	inner := r.width - 2
	for line := 0; line < r.rows; line++ {
		card := -1
		for i := range f.Plan {
			if top[i] >= 0 && top[i] <= line {
				card = i
			}
		}
		if card < 0 {
			b.WriteString(styleMuted.Render("·") + "\n")
			continue
		}

		p := f.Plan[card]
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(palette[colorIndex(p.Handle, len(palette))]))
		if top[card] == line {
			label := truncate(string(p.Handle), inner-2)
			b.WriteString(style.Render("╭ " + label + " " + strings.Repeat("─", inner-2-len([]rune(label))) + "╮"))
		} else {
			b.WriteString(style.Render("│" + strings.Repeat(" ", inner) + "│"))
		}
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func truncate(s string, n int) string {
	rs := []rune(s)
	if len(rs) <= n {
		return s
	}
	if n <= 1 {
		return string(rs[:n])
	}
	return string(rs[:n-1]) + "…"
}
