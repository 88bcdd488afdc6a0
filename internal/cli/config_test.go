package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pixtile/pixtile/pkg/errors"
	"github.com/pixtile/pixtile/pkg/pipeline"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pixtile.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfigFile(t, `
superpixels = 600
colors = 12
decay = "linear"
lambda_start = 3.0
chart = true
`)

	fc, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig error: %v", err)
	}
	if fc.Superpixels != 600 || fc.Colors != 12 || fc.Decay != "linear" {
		t.Errorf("loadConfig = %+v, want file values", fc)
	}
	if fc.LambdaStart != 3.0 || !fc.Chart {
		t.Errorf("loadConfig = %+v, want lambda and chart from file", fc)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	if _, err := loadConfig(filepath.Join(t.TempDir(), "missing.toml")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file error = %v, want FILE_NOT_FOUND", err)
	}

	path := writeConfigFile(t, `{{{{`)
	if _, err := loadConfig(path); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("bad toml error = %v, want INVALID_INPUT", err)
	}
}

func TestFileConfigApplyFillsUnsetOnly(t *testing.T) {
	fc := &fileConfig{
		Superpixels: 600,
		Colors:      12,
		Decay:       "linear",
		Legend:      true,
	}

	opts := pipeline.Options{Superpixels: 200}
	fc.apply(&opts)

	if opts.Superpixels != 200 {
		t.Errorf("Superpixels = %d, flag value should win", opts.Superpixels)
	}
	if opts.Colors != 12 {
		t.Errorf("Colors = %d, want 12 from file", opts.Colors)
	}
	if opts.Decay != "linear" {
		t.Errorf("Decay = %q, want linear from file", opts.Decay)
	}
	if !opts.Legend {
		t.Error("Legend should be enabled by the file")
	}
}
