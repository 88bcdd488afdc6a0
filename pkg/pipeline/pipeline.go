// Package pipeline provides the core generation pipeline for pixtile.
//
// The pipeline turns a source photograph into pixel art in four stages:
//
//  1. Load: decode the image and sample it down to the output cell grid
//  2. Segment: relax content-adaptive superpixels over the grid
//  3. Quantize: reduce the superpixel colors to a limited palette
//  4. Render: emit PNG, SVG, or PDF artifacts
//
// Each stage can be run independently or as part of the complete pipeline,
// and segment, quantize, and render results are cached individually.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Input:       "photo.jpg",
//	    Superpixels: 600,
//	    Colors:      16,
//	    Formats:     []string{"png"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	png := result.Artifacts["png"]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/pixtile/pixtile/pkg/cache"
	"github.com/pixtile/pixtile/pkg/errors"
	"github.com/pixtile/pixtile/pkg/mosaic"
	"github.com/pixtile/pixtile/pkg/palette"
	"github.com/pixtile/pixtile/pkg/render"
)

// =============================================================================
// Default Values - Single Source of Truth for the CLI
// =============================================================================

const (
	// DefaultMaxSide is the output grid's longer dimension in cells.
	DefaultMaxSide = 96

	// DefaultSuperpixels is the region count M.
	DefaultSuperpixels = 400

	// DefaultColors is the palette size C.
	DefaultColors = 16

	// DefaultScale is the PNG upscale factor.
	DefaultScale = 8

	// DefaultCellSize is the SVG cell size in user units.
	DefaultCellSize = 10.0
)

// Format constants for output formats.
const (
	FormatPNG = "png"
	FormatSVG = "svg"
	FormatPDF = "pdf"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatPNG: true,
	FormatSVG: true,
	FormatPDF: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the generation pipeline.
type Options struct {
	// Load options
	Input   string `json:"input"`
	MaxSide int    `json:"max_side,omitempty"`

	// Segment options
	Superpixels int     `json:"superpixels,omitempty"`
	Iterations  int     `json:"iterations,omitempty"`
	Decay       string  `json:"decay,omitempty"`
	LambdaStart float64 `json:"lambda_start,omitempty"`
	LambdaFloor float64 `json:"lambda_floor,omitempty"`
	RadiusFloor float64 `json:"radius_floor,omitempty"`
	Threshold   float64 `json:"threshold,omitempty"`
	Workers     int     `json:"workers,omitempty"`

	// Quantize options
	Colors      int    `json:"colors,omitempty"`
	Method      string `json:"method,omitempty"`
	PaletteFile string `json:"palette_file,omitempty"` // fixed palette TOML to snap to

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Scale    int      `json:"scale,omitempty"`
	CellSize float64  `json:"cell_size,omitempty"`
	Legend   bool     `json:"legend,omitempty"`
	Chart    bool     `json:"chart,omitempty"`

	// Refresh bypasses cached segment and quantize results.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID uniquely identifies this execution in logs.
	RunID string

	// ImageHash is the content hash of the input file.
	ImageHash string

	// Segmentation is the superpixel partition of the cell grid.
	Segmentation *mosaic.Result

	// Quantized is the palette and site-to-entry mapping.
	Quantized *palette.Quantized

	// Mosaic is the composed per-cell palette index grid.
	Mosaic *render.Mosaic

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	GridWidth    int
	GridHeight   int
	Superpixels  int
	Colors       int
	Converged    bool
	Iterations   int
	LoadTime     time.Duration
	SegmentTime  time.Duration
	QuantizeTime time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	SegmentHit  bool // Whether the segmentation came from cache
	QuantizeHit bool // Whether the quantization came from cache
	RenderHit   bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: png, svg, pdf)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline. Every configuration error surfaces here, before any stage
// runs. This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	if o.Input == "" {
		return errors.New(errors.ErrCodeInvalidInput, "input image path is required")
	}
	if o.MaxSide == 0 {
		o.MaxSide = DefaultMaxSide
	}
	if o.MaxSide < 0 {
		return errors.New(errors.ErrCodeInvalidDimensions, "max side must be positive, got %d", o.MaxSide)
	}
	if o.Superpixels == 0 {
		o.Superpixels = DefaultSuperpixels
	}
	if o.Colors == 0 {
		o.Colors = DefaultColors
	}
	if o.Method == "" {
		o.Method = palette.MethodWeighted
	}
	if !palette.ValidMethods[o.Method] {
		return errors.New(errors.ErrCodeInvalidPalette, "unknown quantization method %q (must be weighted or kmeans)", o.Method)
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatPNG}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidDimensions, "scale must be positive, got %d", o.Scale)
	}
	if o.CellSize == 0 {
		o.CellSize = DefaultCellSize
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	// Segment parameters are validated in depth against the actual grid
	// by mosaic.Config; reject the obviously bad ones here.
	if o.Superpixels < 0 {
		return errors.New(errors.ErrCodeInvalidSuperpixels, "superpixel count must be positive, got %d", o.Superpixels)
	}
	if o.Colors < 0 {
		return errors.New(errors.ErrCodeInvalidPalette, "palette size must be positive, got %d", o.Colors)
	}

	o.validated = true
	return nil
}

// SegmentConfig builds the segmentation engine configuration.
func (o *Options) SegmentConfig() mosaic.Config {
	return mosaic.Config{
		Superpixels: o.Superpixels,
		Iterations:  o.Iterations,
		Decay:       o.Decay,
		LambdaStart: o.LambdaStart,
		LambdaFloor: o.LambdaFloor,
		RadiusFloor: o.RadiusFloor,
		Threshold:   o.Threshold,
		Workers:     o.Workers,
		Logger:      o.Logger,
	}
}

// SegmentKeyOpts returns cache key options for the segment stage.
func (o *Options) SegmentKeyOpts() cache.SegmentKeyOpts {
	return cache.SegmentKeyOpts{
		Superpixels: o.Superpixels,
		MaxSide:     o.MaxSide,
		Iterations:  o.Iterations,
		Decay:       o.Decay,
		LambdaStart: o.LambdaStart,
		LambdaFloor: o.LambdaFloor,
		RadiusFloor: o.RadiusFloor,
		Threshold:   o.Threshold,
	}
}

// QuantizeKeyOpts returns cache key options for the quantize stage.
func (o *Options) QuantizeKeyOpts() cache.QuantizeKeyOpts {
	return cache.QuantizeKeyOpts{
		Colors:  o.Colors,
		Method:  o.Method,
		Palette: o.PaletteFile,
	}
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format: format,
		Scale:  o.Scale,
		Legend: o.Legend,
		Chart:  o.Chart,
	}
}

// SVGOptions builds the SVG sink options.
func (o *Options) SVGOptions() []render.SVGOption {
	opts := []render.SVGOption{render.WithCellSize(o.CellSize)}
	if o.Chart {
		opts = append(opts, render.WithChart())
	} else if o.Legend {
		opts = append(opts, render.WithLegend())
	}
	return opts
}
