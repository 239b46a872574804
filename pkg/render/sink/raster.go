package sink

import (
	"context"

	"github.com/matzehuels/cardstack/pkg/render"
)

// RenderPNG rasterises the SVG rendering at scale (2 for double resolution).
// Requires librsvg.
func RenderPNG(ctx context.Context, s Scene, scale float64, opts ...SVGOption) ([]byte, error) {
	return render.ToPNG(ctx, RenderSVG(s, opts...), scale)
}

// RenderPDF converts the SVG rendering to PDF. Requires librsvg.
func RenderPDF(ctx context.Context, s Scene, opts ...SVGOption) ([]byte, error) {
	return render.ToPDF(ctx, RenderSVG(s, opts...))
}
