// Package pkg provides the core libraries for pixtile pixel-art generation.
//
// # Overview
//
// Pixtile converts photographs into pixel art with a limited palette. The
// pkg directory is organized by pipeline stage plus shared infrastructure:
//
//  1. [raster] - Image decoding and downsampling to a cell grid
//  2. [mosaic] - Content-adaptive superpixel segmentation
//  3. [palette] - Palette quantization and fixed-palette snapping
//  4. [render] - PNG, SVG, and PDF artifact generation
//  5. [pipeline] - Orchestration with per-stage caching
//
// Supporting packages: [colorspace] for Lab color math, [cache] for stage
// result storage, [errors] for coded errors, and [buildinfo] for version
// metadata.
//
// # Architecture
//
// The typical data flow through pixtile:
//
//	Photograph (PNG/JPEG/GIF/BMP/TIFF/WebP)
//	         ↓
//	    [raster] package (decode + downsample to cells)
//	         ↓
//	    [mosaic] package (superpixel relaxation)
//	         ↓
//	    [palette] package (quantize to C colors)
//	         ↓
//	    [render] package (compose + emit artifacts)
//	         ↓
//	    PNG/SVG/PDF output
//
// # Quick Start
//
// Most callers should use the pipeline package:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{Input: "photo.jpg"})
package pkg
