package cli

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/pixtile/pixtile/pkg/errors"
	"github.com/pixtile/pixtile/pkg/pipeline"
)

// fileConfig is the TOML configuration file for the generate command. It
// covers the tuning knobs that would clutter the flag surface, notably the
// annealing schedule. Flags take precedence: a file value only fills
// options the flags left unset.
type fileConfig struct {
	MaxSide     int     `toml:"max_side"`
	Superpixels int     `toml:"superpixels"`
	Colors      int     `toml:"colors"`
	Method      string  `toml:"method"`
	Palette     string  `toml:"palette"`
	Iterations  int     `toml:"iterations"`
	Decay       string  `toml:"decay"`
	LambdaStart float64 `toml:"lambda_start"`
	LambdaFloor float64 `toml:"lambda_floor"`
	RadiusFloor float64 `toml:"radius_floor"`
	Threshold   float64 `toml:"threshold"`
	Workers     int     `toml:"workers"`
	Scale       int     `toml:"scale"`
	CellSize    float64 `toml:"cell_size"`
	Legend      bool    `toml:"legend"`
	Chart       bool    `toml:"chart"`
}

// loadConfig reads and parses a TOML configuration file.
func loadConfig(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file not found: %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "failed to read config file %s", path)
	}

	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "failed to parse config file %s", path)
	}
	return &fc, nil
}

// apply fills unset pipeline options from the file. Booleans combine with
// OR, so a file can enable legend or chart mode but flags cannot disable
// a file setting.
func (fc *fileConfig) apply(o *pipeline.Options) {
	if o.MaxSide == 0 {
		o.MaxSide = fc.MaxSide
	}
	if o.Superpixels == 0 {
		o.Superpixels = fc.Superpixels
	}
	if o.Colors == 0 {
		o.Colors = fc.Colors
	}
	if o.Method == "" {
		o.Method = fc.Method
	}
	if o.PaletteFile == "" {
		o.PaletteFile = fc.Palette
	}
	if o.Iterations == 0 {
		o.Iterations = fc.Iterations
	}
	if o.Decay == "" {
		o.Decay = fc.Decay
	}
	if o.LambdaStart == 0 {
		o.LambdaStart = fc.LambdaStart
	}
	if o.LambdaFloor == 0 {
		o.LambdaFloor = fc.LambdaFloor
	}
	if o.RadiusFloor == 0 {
		o.RadiusFloor = fc.RadiusFloor
	}
	if o.Threshold == 0 {
		o.Threshold = fc.Threshold
	}
	if o.Workers == 0 {
		o.Workers = fc.Workers
	}
	if o.Scale == 0 {
		o.Scale = fc.Scale
	}
	if o.CellSize == 0 {
		o.CellSize = fc.CellSize
	}
	o.Legend = o.Legend || fc.Legend
	o.Chart = o.Chart || fc.Chart
}
