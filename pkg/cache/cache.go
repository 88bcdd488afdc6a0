// Package cache provides caching for pipeline stage results.
//
// The pipeline caches three kinds of data:
//   - Segmentations: the superpixel ownership grid for an image + parameters
//   - Quantizations: the palette and index grid derived from a segmentation
//   - Artifacts: rendered outputs (PNG, SVG, PDF)
//
// Keys are derived from content hashes plus the options that influence the
// result, so a parameter change never serves a stale entry.
package cache

import (
	"context"
	"time"
)

// TTL values for the different cache entry kinds. Segmentations are pure
// functions of image bytes and options, so they keep for a long time.
const (
	TTLSegment  = 30 * 24 * time.Hour
	TTLQuantize = 30 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is the storage interface for pipeline results.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with a time-to-live. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// SegmentKeyOpts are the options that influence a segmentation result.
// The worker count is deliberately absent: results do not depend on it.
type SegmentKeyOpts struct {
	Superpixels int     `json:"superpixels"`
	MaxSide     int     `json:"max_side"`
	Iterations  int     `json:"iterations"`
	Decay       string  `json:"decay"`
	LambdaStart float64 `json:"lambda_start"`
	LambdaFloor float64 `json:"lambda_floor"`
	RadiusFloor float64 `json:"radius_floor"`
	Threshold   float64 `json:"threshold"`
}

// QuantizeKeyOpts are the options that influence a quantization result.
type QuantizeKeyOpts struct {
	Colors  int    `json:"colors"`
	Method  string `json:"method"`
	Palette string `json:"palette,omitempty"` // fixed palette name, if snapping
}

// ArtifactKeyOpts are the options that influence a rendered artifact.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
	Scale  int    `json:"scale"`
	Legend bool   `json:"legend"`
	Chart  bool   `json:"chart"`
}

// Keyer generates cache keys for the pipeline stages.
type Keyer interface {
	// SegmentKey generates a key for a segmentation of the image with the
	// given content hash.
	SegmentKey(imageHash string, opts SegmentKeyOpts) string

	// QuantizeKey generates a key for a quantization of the segmentation
	// with the given content hash.
	QuantizeKey(segmentHash string, opts QuantizeKeyOpts) string

	// ArtifactKey generates a key for a rendered artifact of the result
	// with the given content hash.
	ArtifactKey(resultHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer generates keys of the form "<kind>:<sha256(parts)>".
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// SegmentKey generates a key for segmentation caching.
func (k *DefaultKeyer) SegmentKey(imageHash string, opts SegmentKeyOpts) string {
	return hashKey("segment", imageHash, opts)
}

// QuantizeKey generates a key for quantization caching.
func (k *DefaultKeyer) QuantizeKey(segmentHash string, opts QuantizeKeyOpts) string {
	return hashKey("quantize", segmentHash, opts)
}

// ArtifactKey generates a key for artifact caching.
func (k *DefaultKeyer) ArtifactKey(resultHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", resultHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
