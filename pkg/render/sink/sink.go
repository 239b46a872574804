package sink

import (
	"context"
	"time"

	errs "github.com/matzehuels/cardstack/pkg/errors"
	"github.com/matzehuels/cardstack/pkg/observability"
)

// Output formats understood by [Render].
const (
	FormatJSON = "json"
	FormatSVG  = "svg"
	FormatText = "text"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
)

// Formats lists every format in a stable order.
var Formats = []string{FormatJSON, FormatSVG, FormatText, FormatPNG, FormatPDF}

// Options are the format independent render settings.
type Options struct {
	Style   string
	Scale   float64
	Columns int
	Every   int
	Hidden  bool
}

// Render renders s in format.
func Render(ctx context.Context, format string, s Scene, opts Options) (out []byte, err error) {
	hooks := observability.Render()
	hooks.OnRenderStart(ctx, format, len(s.Frames))
	start := time.Now()
	defer func() {
		hooks.OnRenderComplete(ctx, format, len(out), time.Since(start), err)
	}()

	style, err := StyleByName(opts.Style)
	if err != nil {
		return nil, err
	}
	svgOpts := []SVGOption{WithStyle(style), WithEvery(opts.Every)}
	if opts.Scale > 0 {
		svgOpts = append(svgOpts, WithScale(opts.Scale))
	}
	if opts.Columns > 0 {
		svgOpts = append(svgOpts, WithColumns(opts.Columns))
	}
	if opts.Hidden {
		svgOpts = append(svgOpts, WithHidden())
	}

	switch format {
	case FormatJSON:
		return RenderJSON(s, WithJSONEvery(opts.Every))
	case FormatSVG:
		return RenderSVG(s, svgOpts...), nil
	case FormatText:
		return []byte(RenderText(s, WithTextEvery(opts.Every)) + "\n"), nil
	case FormatPNG:
		return RenderPNG(ctx, s, 2, svgOpts...)
	case FormatPDF:
		return RenderPDF(ctx, s, svgOpts...)
	}
	return nil, errs.New(errs.ErrCodeInvalidFormat, "unsupported format %q", format)
}

// Ext returns the file extension for format.
func Ext(format string) string {
	if format == FormatText {
		return "txt"
	}
	return format
}
