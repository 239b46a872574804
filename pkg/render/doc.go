// Package render turns deck frames into files.
//
// The [sink] subpackage renders frame sequences produced by the engine or a
// script replay as JSON, SVG strips, terminal text, PNG and PDF. This package
// holds the format conversion shared by the raster sinks: [ToPNG] and [ToPDF]
// shell out to rsvg-convert (librsvg).
//
//	svg := sink.RenderSVG(scene)
//	png, err := render.ToPNG(ctx, svg, 2)
package render
