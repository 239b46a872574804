// Package sink renders deck frames.
//
// A [Scene] is a viewport plus the frames to draw, usually the output of a
// script replay. The sinks are:
//
//   - [RenderJSON]: the frames as a JSON document for other tools
//   - [RenderSVG]: a grid of frame panels, one per sampled frame
//   - [RenderText]: a terminal preview, also used by the TUI
//   - [RenderPNG] and [RenderPDF]: the SVG rasterised by librsvg
//
// [Render] dispatches on a format name and reports to the render hooks of
// package observability.
package sink
