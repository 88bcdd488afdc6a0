package pipeline

import (
	"testing"

	"github.com/pixtile/pixtile/pkg/errors"
	"github.com/pixtile/pixtile/pkg/palette"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"png", false},
		{"svg", false},
		{"pdf", false},
		{"", true},
		{"jpeg", true},
		{"PNG", true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			err := ValidateFormat(tt.format)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
				t.Errorf("ValidateFormat(%q) code = %v, want INVALID_FORMAT", tt.format, err)
			}
		})
	}
}

func TestOptionsValidateAndSetDefaults(t *testing.T) {
	opts := Options{Input: "photo.jpg"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults error: %v", err)
	}

	if opts.MaxSide != DefaultMaxSide {
		t.Errorf("MaxSide = %d, want %d", opts.MaxSide, DefaultMaxSide)
	}
	if opts.Superpixels != DefaultSuperpixels {
		t.Errorf("Superpixels = %d, want %d", opts.Superpixels, DefaultSuperpixels)
	}
	if opts.Colors != DefaultColors {
		t.Errorf("Colors = %d, want %d", opts.Colors, DefaultColors)
	}
	if opts.Method != palette.MethodWeighted {
		t.Errorf("Method = %q, want %q", opts.Method, palette.MethodWeighted)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatPNG {
		t.Errorf("Formats = %v, want [png]", opts.Formats)
	}
	if opts.Scale != DefaultScale {
		t.Errorf("Scale = %d, want %d", opts.Scale, DefaultScale)
	}
	if opts.CellSize != DefaultCellSize {
		t.Errorf("CellSize = %v, want %v", opts.CellSize, DefaultCellSize)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger, not nil")
	}
}

func TestOptionsValidateErrors(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"missing input", Options{}, errors.ErrCodeInvalidInput},
		{"negative max side", Options{Input: "a.png", MaxSide: -4}, errors.ErrCodeInvalidDimensions},
		{"bad method", Options{Input: "a.png", Method: "median-cut"}, errors.ErrCodeInvalidPalette},
		{"bad format", Options{Input: "a.png", Formats: []string{"gif"}}, errors.ErrCodeInvalidFormat},
		{"negative scale", Options{Input: "a.png", Scale: -1}, errors.ErrCodeInvalidDimensions},
		{"negative superpixels", Options{Input: "a.png", Superpixels: -10}, errors.ErrCodeInvalidSuperpixels},
		{"negative colors", Options{Input: "a.png", Colors: -2}, errors.ErrCodeInvalidPalette},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestOptionsValidateIdempotent(t *testing.T) {
	opts := Options{Input: "photo.jpg", Superpixels: 123}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("first validation error: %v", err)
	}

	// A second call must not re-apply defaults or reject the filled options.
	opts.Method = "no longer checked"
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("second validation error: %v", err)
	}
	if opts.Superpixels != 123 {
		t.Errorf("Superpixels = %d, want 123", opts.Superpixels)
	}
}

func TestSegmentConfigCarriesOptions(t *testing.T) {
	opts := Options{
		Input:       "photo.jpg",
		Superpixels: 250,
		Iterations:  12,
		Decay:       "linear",
		LambdaStart: 3.5,
		Workers:     2,
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults error: %v", err)
	}

	cfg := opts.SegmentConfig()
	if cfg.Superpixels != 250 || cfg.Iterations != 12 || cfg.Decay != "linear" {
		t.Errorf("SegmentConfig = %+v, want options carried through", cfg)
	}
	if cfg.LambdaStart != 3.5 || cfg.Workers != 2 {
		t.Errorf("SegmentConfig = %+v, want lambda and workers carried through", cfg)
	}
}

func TestSegmentKeyOptsExcludeWorkers(t *testing.T) {
	a := Options{Input: "a.png", Workers: 1}
	b := Options{Input: "a.png", Workers: 8}
	if err := a.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if err := b.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}

	if a.SegmentKeyOpts() != b.SegmentKeyOpts() {
		t.Error("worker count must not influence segment cache keys")
	}
}

func TestQuantizeKeyOptsIncludePalette(t *testing.T) {
	a := Options{Input: "a.png"}
	b := Options{Input: "a.png", PaletteFile: "gameboy.toml"}
	if err := a.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if err := b.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}

	if a.QuantizeKeyOpts() == b.QuantizeKeyOpts() {
		t.Error("fixed palette must influence quantize cache keys")
	}
}

func TestSVGOptionsChartImpliesLegend(t *testing.T) {
	opts := Options{Input: "a.png", Chart: true}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if got := len(opts.SVGOptions()); got != 2 {
		t.Errorf("SVGOptions count = %d, want cell size + chart", got)
	}

	plain := Options{Input: "a.png"}
	if err := plain.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if got := len(plain.SVGOptions()); got != 1 {
		t.Errorf("SVGOptions count = %d, want cell size only", got)
	}
}
