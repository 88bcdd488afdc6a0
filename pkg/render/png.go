package render

import (
	"bytes"
	"image"
	"image/png"

	"github.com/disintegration/imaging"

	"github.com/pixtile/pixtile/pkg/errors"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	scale int
}

// WithScale sets the integer upscale factor: every cell becomes a
// scale×scale pixel block. Defaults to 1 (one pixel per cell).
func WithScale(scale int) PNGOption { return func(r *pngRenderer) { r.scale = scale } }

// RenderPNG renders the mosaic to PNG bytes. Upscaling uses nearest
// neighbor so cell edges stay hard.
func RenderPNG(m *Mosaic, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: 1}
	for _, opt := range opts {
		opt(&r)
	}
	if r.scale < 1 {
		return nil, errors.New(errors.ErrCodeInvalidDimensions, "scale must be at least 1, got %d", r.scale)
	}

	img := image.NewNRGBA(image.Rect(0, 0, m.W, m.H))
	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			c := m.Colors[m.Index[y*m.W+x]].RGBA()
			img.Set(x, y, c)
		}
	}

	out := image.Image(img)
	if r.scale > 1 {
		out = imaging.Resize(img, m.W*r.scale, m.H*r.scale, imaging.NearestNeighbor)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "png encode failed")
	}
	return buf.Bytes(), nil
}
