package raster

import (
	"image"
	"image/color"
	"testing"

	"github.com/pixtile/pixtile/pkg/colorspace"
	"github.com/pixtile/pixtile/pkg/errors"
)

func TestFitSize(t *testing.T) {
	tests := []struct {
		name    string
		srcW    int
		srcH    int
		maxSide int
		wantW   int
		wantH   int
		wantErr bool
	}{
		{"landscape", 1920, 1080, 96, 96, 54, false},
		{"portrait", 1080, 1920, 96, 54, 96, false},
		{"square", 512, 512, 64, 64, 64, false},
		{"extreme aspect floors at 1", 4000, 10, 64, 64, 1, false},
		{"upscale allowed", 10, 10, 100, 100, 100, false},
		{"zero source", 0, 100, 64, 0, 0, true},
		{"zero max side", 100, 100, 0, 0, 0, true},
		{"negative max side", 100, 100, -5, 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h, err := FitSize(tt.srcW, tt.srcH, tt.maxSide)
			if (err != nil) != tt.wantErr {
				t.Fatalf("FitSize error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("FitSize = %dx%d, want %dx%d", w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestDownsampleSolidColor(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 64, 64))
	fill := color.RGBA{200, 60, 30, 255}
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			src.Set(x, y, fill)
		}
	}

	plane, err := Downsample(src, 8, 8)
	if err != nil {
		t.Fatalf("Downsample error: %v", err)
	}
	if plane.W != 8 || plane.H != 8 {
		t.Fatalf("plane size = %dx%d, want 8x8", plane.W, plane.H)
	}

	want := colorspace.ToLab(fill)
	for i, c := range plane.Pix {
		if colorspace.Distance(c, want) > 0.01 {
			t.Fatalf("cell %d = %v, want approx %v", i, c, want)
		}
	}
}

func TestDownsampleAveragesRegions(t *testing.T) {
	// Left half black, right half white. A 2x1 plane should see one dark
	// and one bright cell.
	src := image.NewRGBA(image.Rect(0, 0, 64, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 64; x++ {
			c := color.RGBA{0, 0, 0, 255}
			if x >= 32 {
				c = color.RGBA{255, 255, 255, 255}
			}
			src.Set(x, y, c)
		}
	}

	plane, err := Downsample(src, 2, 1)
	if err != nil {
		t.Fatalf("Downsample error: %v", err)
	}
	if left, right := plane.At(0, 0), plane.At(1, 0); left.L >= right.L {
		t.Errorf("left cell L = %v should be below right cell L = %v", left.L, right.L)
	}
}

func TestDownsampleRejectsEmptyGrid(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 4))
	if _, err := Downsample(src, 0, 4); !errors.Is(err, errors.ErrCodeInvalidDimensions) {
		t.Errorf("expected INVALID_DIMENSIONS, got %v", err)
	}
}

func TestDecodeMissingFile(t *testing.T) {
	_, err := Decode("/nonexistent/input.png")
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("expected FILE_NOT_FOUND, got %v", err)
	}
}

func TestPlaneIndexing(t *testing.T) {
	p := NewPlane(3, 2)
	c := colorspace.FromRGB(0.5, 0.25, 0.75)
	p.Set(2, 1, c)

	if got := p.At(2, 1); got != c {
		t.Errorf("At(2,1) = %v, want %v", got, c)
	}
	if got := p.Index(2, 1); got != 5 {
		t.Errorf("Index(2,1) = %d, want 5", got)
	}
	if p.Len() != 6 {
		t.Errorf("Len() = %d, want 6", p.Len())
	}
}
