// Package render provides output sinks for finished mosaics.
//
// A sink transforms a [Mosaic], the palette-indexed cell grid produced by
// the pipeline, into a final output format:
//
//   - PNG: raster output with nearest-neighbor upscaling, each cell a
//     crisp scale×scale block
//   - SVG: vector output with an optional color legend and an optional
//     per-cell symbol overlay for craft charts
//   - PDF: print-ready output converted from SVG (requires rsvg-convert)
//
// Basic usage:
//
//	svg := render.RenderSVG(m, render.WithLegend(), render.WithCellSize(12))
//	png, err := render.RenderPNG(m, render.WithScale(8))
//
// PDF export requires librsvg to be installed:
//   - macOS: brew install librsvg
//   - Linux: apt install librsvg2-bin
package render
