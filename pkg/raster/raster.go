// Package raster handles image input for the pipeline: decoding source
// files, choosing the output grid size, and sampling the source down to a
// flat Lab plane that the segmentation engine works on.
package raster

import (
	"image"
	"math"
	"os"

	"github.com/disintegration/imaging"

	"github.com/pixtile/pixtile/pkg/colorspace"
	"github.com/pixtile/pixtile/pkg/errors"

	// Register decoders for the supported input formats.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Plane is a W×H grid of Lab colors stored as a flat slice.
// Cell (x, y) lives at index y*W + x.
type Plane struct {
	W, H int
	Pix  []colorspace.Lab
}

// NewPlane allocates a zeroed plane.
func NewPlane(w, h int) *Plane {
	return &Plane{W: w, H: h, Pix: make([]colorspace.Lab, w*h)}
}

// Index returns the flat index of cell (x, y).
func (p *Plane) Index(x, y int) int {
	return y*p.W + x
}

// At returns the color of cell (x, y).
func (p *Plane) At(x, y int) colorspace.Lab {
	return p.Pix[y*p.W+x]
}

// Set overwrites the color of cell (x, y).
func (p *Plane) Set(x, y int, c colorspace.Lab) {
	p.Pix[y*p.W+x] = c
}

// Len returns the number of cells.
func (p *Plane) Len() int {
	return len(p.Pix)
}

// Decode reads and decodes an image file.
func Decode(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "image not found: %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidImage, err, "failed to open %s", path)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidImage, err, "failed to decode %s", path)
	}
	return img, nil
}

// FitSize computes the output grid dimensions from a source size and a
// maximum side length, preserving aspect ratio. The longer source side maps
// to maxSide and the other side scales proportionally, with a floor of 1.
func FitSize(srcW, srcH, maxSide int) (int, int, error) {
	if srcW <= 0 || srcH <= 0 {
		return 0, 0, errors.New(errors.ErrCodeInvalidImage, "source image has empty bounds (%dx%d)", srcW, srcH)
	}
	if maxSide <= 0 {
		return 0, 0, errors.New(errors.ErrCodeInvalidDimensions, "max side must be positive, got %d", maxSide)
	}

	if srcW >= srcH {
		h := int(math.Round(float64(maxSide) * float64(srcH) / float64(srcW)))
		return maxSide, max(h, 1), nil
	}
	w := int(math.Round(float64(maxSide) * float64(srcW) / float64(srcH)))
	return max(w, 1), maxSide, nil
}

// Downsample resamples the source image onto a w×h Lab plane. A box filter
// averages the source region each cell covers, so cell colors represent
// their region rather than a single point sample.
func Downsample(img image.Image, w, h int) (*Plane, error) {
	if w <= 0 || h <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidDimensions, "output grid must be non-empty, got %dx%d", w, h)
	}

	small := imaging.Resize(img, w, h, imaging.Box)

	plane := NewPlane(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			plane.Set(x, y, colorspace.ToLab(small.NRGBAAt(x, y)))
		}
	}
	return plane, nil
}

// Load decodes a file and samples it down to a plane whose longer side is
// maxSide.
func Load(path string, maxSide int) (*Plane, error) {
	img, err := Decode(path)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	w, h, err := FitSize(b.Dx(), b.Dy(), maxSide)
	if err != nil {
		return nil, err
	}
	return Downsample(img, w, h)
}
