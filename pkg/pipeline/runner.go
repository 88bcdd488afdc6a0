package pipeline

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/pixtile/pixtile/pkg/cache"
	"github.com/pixtile/pixtile/pkg/errors"
	"github.com/pixtile/pixtile/pkg/mosaic"
	"github.com/pixtile/pixtile/pkg/palette"
	"github.com/pixtile/pixtile/pkg/raster"
	"github.com/pixtile/pixtile/pkg/render"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → segment → quantize → render pipeline
// with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{
		RunID:     uuid.NewString(),
		Artifacts: make(map[string][]byte),
	}

	// Stage 1+2: Load and segment
	segStart := time.Now()
	seg, imageHash, segHit, err := r.SegmentWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.ImageHash = imageHash
	result.Segmentation = seg
	result.Stats.SegmentTime = time.Since(segStart)
	result.Stats.GridWidth = seg.W
	result.Stats.GridHeight = seg.H
	result.Stats.Superpixels = len(seg.Sites)
	result.Stats.Converged = seg.Converged
	result.Stats.Iterations = seg.Iterations
	result.CacheInfo.SegmentHit = segHit

	opts.Logger.Info("segmented image",
		"run", result.RunID,
		"grid", result.Stats.GridWidth,
		"superpixels", result.Stats.Superpixels,
		"iterations", seg.Iterations,
		"converged", seg.Converged,
		"duration", result.Stats.SegmentTime)

	segHash := hashJSON(seg)

	// Stage 3: Quantize
	quantStart := time.Now()
	q, quantHit, err := r.QuantizeWithCacheInfo(ctx, seg, segHash, opts)
	if err != nil {
		return nil, err
	}
	result.Quantized = q
	result.Stats.QuantizeTime = time.Since(quantStart)
	result.Stats.Colors = len(q.Colors)
	result.CacheInfo.QuantizeHit = quantHit

	opts.Logger.Info("quantized palette",
		"run", result.RunID,
		"colors", len(q.Colors),
		"method", opts.Method,
		"duration", result.Stats.QuantizeTime)

	m, err := render.Compose(seg, q)
	if err != nil {
		return nil, err
	}
	result.Mosaic = m

	// Stage 4: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, m, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	opts.Logger.Info("rendered outputs",
		"run", result.RunID,
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// SegmentWithCacheInfo loads the input and segments it, with caching.
// Returns the segmentation, the input content hash, and cache hit info.
func (r *Runner) SegmentWithCacheInfo(ctx context.Context, opts Options) (*mosaic.Result, string, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, "", false, err
	}

	data, err := os.ReadFile(opts.Input)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", false, errors.Wrap(errors.ErrCodeFileNotFound, err, "image not found: %s", opts.Input)
		}
		return nil, "", false, errors.Wrap(errors.ErrCodeInvalidImage, err, "failed to read %s", opts.Input)
	}
	imageHash := cache.Hash(data)
	cacheKey := r.Keyer.SegmentKey(imageHash, opts.SegmentKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached mosaic.Result
			if err := json.Unmarshal(data, &cached); err == nil {
				return &cached, imageHash, true, nil
			}
		}
	}

	plane, err := raster.Load(opts.Input, opts.MaxSide)
	if err != nil {
		return nil, "", false, err
	}

	seg, err := mosaic.Segment(ctx, plane, opts.SegmentConfig())
	if err != nil {
		return nil, "", false, err
	}

	if encoded, err := json.Marshal(seg); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, encoded, cache.TTLSegment)
	}

	return seg, imageHash, false, nil
}

// Segment is a convenience wrapper that discards the cache hit info.
func (r *Runner) Segment(ctx context.Context, opts Options) (*mosaic.Result, error) {
	seg, _, _, err := r.SegmentWithCacheInfo(ctx, opts)
	return seg, err
}

// QuantizeWithCacheInfo reduces the segmentation's colors, with caching.
// The "kmeans" method has randomized seeding, so only its first result is
// reproducible (via the cache); the default method is deterministic.
func (r *Runner) QuantizeWithCacheInfo(ctx context.Context, seg *mosaic.Result, segHash string, opts Options) (*palette.Quantized, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	cacheKey := r.Keyer.QuantizeKey(segHash, opts.QuantizeKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached palette.Quantized
			if err := json.Unmarshal(data, &cached); err == nil {
				return &cached, true, nil
			}
		}
	}

	q, err := palette.Quantize(palette.FromSites(seg.Sites), opts.Colors, opts.Method)
	if err != nil {
		return nil, false, err
	}

	if opts.PaletteFile != "" {
		fixed, err := palette.LoadFixed(opts.PaletteFile)
		if err != nil {
			return nil, false, err
		}
		fixed.Snap(q)
	}

	if encoded, err := json.Marshal(q); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, encoded, cache.TTLQuantize)
	}

	return q, false, nil
}

// RenderWithCacheInfo generates artifacts with caching and returns cache
// hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, m *render.Mosaic, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	mosaicHash := hashJSON(m)

	// Try to get all formats from cache
	allCached := true
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		cacheKey := r.Keyer.ArtifactKey(mosaicHash, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			artifacts[format] = data
		} else {
			allCached = false
			break
		}
	}

	if allCached && len(artifacts) == len(opts.Formats) {
		return artifacts, true, nil
	}

	rendered := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var data []byte
		var err error
		switch format {
		case FormatPNG:
			data, err = render.RenderPNG(m, render.WithScale(opts.Scale))
		case FormatSVG:
			data = render.RenderSVG(m, opts.SVGOptions()...)
		case FormatPDF:
			data, err = render.RenderPDF(m, opts.SVGOptions()...)
		}
		if err != nil {
			return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "render %s failed", format)
		}
		rendered[format] = data
	}

	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(mosaicHash, opts.ArtifactKeyOpts(format))
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact)
	}

	return rendered, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// hashJSON hashes a value's JSON encoding for use in cache keys.
func hashJSON(v any) string {
	data, _ := json.Marshal(v)
	return cache.Hash(data)
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
