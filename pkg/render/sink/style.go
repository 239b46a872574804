package sink

import (
	"bytes"
	"fmt"
	"html"

	errs "github.com/matzehuels/cardstack/pkg/errors"
)

// Style draws cards into an SVG panel. Coordinates are viewport pixels.
type Style interface {
	// Name is the style's configuration name.
	Name() string
	// RenderDefs writes shared <defs> content.
	RenderDefs(buf *bytes.Buffer)
	// RenderCard writes one card.
	RenderCard(buf *bytes.Buffer, c Card)
}

// Card is a placed card as seen by a [Style].
type Card struct {
	Label      string
	X, Y, W, H float64
	Tilt       float64 // degrees
	Color      string
	Landscape  bool
}

// transform returns the tilt transform about the card's leading edge centre.
func (c Card) transform() string {
	if c.Tilt == 0 {
		return ""
	}
	if c.Landscape {
		cx, cy := c.X, c.Y+c.H/2
		return fmt.Sprintf(` transform="translate(%.1f %.1f) skewY(%.2f) translate(%.1f %.1f)"`, cx, cy, c.Tilt, -cx, -cy)
	}
	cx, cy := c.X+c.W/2, c.Y
	return fmt.Sprintf(` transform="translate(%.1f %.1f) skewX(%.2f) translate(%.1f %.1f)"`, cx, cy, c.Tilt, -cx, -cy)
}

var palette = []string{"#4e79a7", "#f28e2b", "#e15759", "#76b7b2", "#59a14f", "#edc948", "#b07aa1", "#ff9da7"}

// Flat fills cards with a soft shadow.
type Flat struct{}

func (Flat) Name() string { return "flat" }

func (Flat) RenderDefs(buf *bytes.Buffer) {
	buf.WriteString(`    <filter id="card-shadow" x="-10%" y="-10%" width="120%" height="130%">` + "\n")
	buf.WriteString(`      <feDropShadow dx="0" dy="-4" stdDeviation="6" flood-opacity="0.35"/>` + "\n")
	buf.WriteString("    </filter>\n")
}

func (Flat) RenderCard(buf *bytes.Buffer, c Card) {
	fmt.Fprintf(buf, `    <g class="card"%s>`+"\n", c.transform())
	fmt.Fprintf(buf, `      <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="12" fill="%s" filter="url(#card-shadow)"/>`+"\n",
		c.X, c.Y, c.W, c.H, c.Color)
	fmt.Fprintf(buf, `      <text x="%.1f" y="%.1f" font-family="sans-serif" font-size="28" fill="#ffffff">%s</text>`+"\n",
		c.X+20, c.Y+44, html.EscapeString(c.Label))
	buf.WriteString("    </g>\n")
}

// Outline strokes cards without fill, showing how they overlap.
type Outline struct{}

func (Outline) Name() string { return "outline" }

func (Outline) RenderDefs(*bytes.Buffer) {}

func (Outline) RenderCard(buf *bytes.Buffer, c Card) {
	fmt.Fprintf(buf, `    <g class="card"%s>`+"\n", c.transform())
	fmt.Fprintf(buf, `      <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="12" fill="#ffffff" fill-opacity="0.85" stroke="%s" stroke-width="4"/>`+"\n",
		c.X, c.Y, c.W, c.H, c.Color)
	fmt.Fprintf(buf, `      <text x="%.1f" y="%.1f" font-family="monospace" font-size="28" fill="%s">%s</text>`+"\n",
		c.X+20, c.Y+44, c.Color, html.EscapeString(c.Label))
	buf.WriteString("    </g>\n")
}

// StyleByName returns the style called name ("" means flat).
func StyleByName(name string) (Style, error) {
	switch name {
	case "", "flat":
		return Flat{}, nil
	case "outline":
		return Outline{}, nil
	}
	return nil, errs.New(errs.ErrCodeInvalidInput, "unknown style %q (want flat or outline)", name)
}
