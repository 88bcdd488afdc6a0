package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pixtile/pixtile/pkg/errors"
	"github.com/pixtile/pixtile/pkg/pipeline"
)

// generateOpts holds the command-line flags for the generate command.
type generateOpts struct {
	output      string  // output file path (extension replaced per format)
	maxSide     int     // output grid's longer dimension in cells
	superpixels int     // region count before quantization
	colors      int     // palette size
	method      string  // quantization method: "weighted" or "kmeans"
	paletteFile string  // fixed palette TOML to snap colors to
	iterations  int     // relaxation iteration cap
	decay       string  // annealing decay: "geometric" or "linear"
	workers     int     // worker goroutines (0 = GOMAXPROCS)
	scale       int     // PNG upscale factor
	cellSize    float64 // SVG cell size in user units
	legend      bool    // append a palette legend to SVG output
	chart       bool    // render SVG as a stitch chart with symbols
	refresh     bool    // recompute even when cached results exist
	noCache     bool    // disable the result cache entirely
	configFile  string  // TOML file supplying defaults for unset flags
}

// generateCommand creates the generate command, the main entry point of the
// tool. It runs the full load, segment, quantize, render pipeline.
func (c *CLI) generateCommand() *cobra.Command {
	var formatsStr string
	opts := generateOpts{}

	cmd := &cobra.Command{
		Use:   "generate [image]",
		Short: "Generate pixel art from a photograph",
		Long: `Generate pixel art from a photograph.

The image is downsampled to a cell grid, segmented into content-adaptive
superpixel regions, and quantized to a limited palette. Results can be
rendered as PNG, SVG, or PDF, including stitch charts for crafting.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pipeOpts := pipeline.Options{
				Input:       args[0],
				MaxSide:     opts.maxSide,
				Superpixels: opts.superpixels,
				Colors:      opts.colors,
				Method:      opts.method,
				PaletteFile: opts.paletteFile,
				Iterations:  opts.iterations,
				Decay:       opts.decay,
				Workers:     opts.workers,
				Formats:     parseFormats(formatsStr),
				Scale:       opts.scale,
				CellSize:    opts.cellSize,
				Legend:      opts.legend,
				Chart:       opts.chart,
				Refresh:     opts.refresh,
			}
			if opts.configFile != "" {
				fc, err := loadConfig(opts.configFile)
				if err != nil {
					return err
				}
				fc.apply(&pipeOpts)
			}
			return c.runGenerate(cmd.Context(), pipeOpts, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output path (extension replaced per format)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): png (default), svg, pdf (comma-separated)")
	cmd.Flags().IntVarP(&opts.maxSide, "max-side", "s", 0, "output grid's longer dimension in cells")
	cmd.Flags().IntVarP(&opts.superpixels, "superpixels", "m", 0, "number of superpixel regions")
	cmd.Flags().IntVarP(&opts.colors, "colors", "c", 0, "palette size")
	cmd.Flags().StringVar(&opts.method, "method", "", "quantization method: weighted (default), kmeans")
	cmd.Flags().StringVarP(&opts.paletteFile, "palette", "p", "", "fixed palette TOML to snap colors to")
	cmd.Flags().IntVar(&opts.iterations, "iterations", 0, "relaxation iteration cap")
	cmd.Flags().StringVar(&opts.decay, "decay", "", "annealing decay: geometric (default), linear")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "worker goroutines (0 = all CPUs)")
	cmd.Flags().IntVar(&opts.scale, "scale", 0, "PNG upscale factor")
	cmd.Flags().Float64Var(&opts.cellSize, "cell-size", 0, "SVG cell size in user units")
	cmd.Flags().BoolVar(&opts.legend, "legend", false, "append a palette legend to SVG output")
	cmd.Flags().BoolVar(&opts.chart, "chart", false, "render SVG as a stitch chart (implies legend)")
	cmd.Flags().StringVar(&opts.configFile, "config", "", "TOML config file supplying defaults for unset flags")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even when cached results exist")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")

	return cmd
}

// runGenerate executes the pipeline and writes the requested artifacts.
func (c *CLI) runGenerate(ctx context.Context, pipeOpts pipeline.Options, opts *generateOpts) error {
	if opts.output != "" {
		if err := errors.ValidateOutputPath(opts.output); err != nil {
			return err
		}
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Generating pixel art...")
	spinner.Start()

	result, err := runner.Execute(ctx, pipeOpts)
	if err != nil {
		if spinner.Cancelled() {
			spinner.Stop()
			return err
		}
		spinner.StopWithError(errors.UserMessage(err))
		return err
	}
	spinner.StopWithSuccess(fmt.Sprintf("Generated pixel art from %s", pipeOpts.Input))

	cached := result.CacheInfo.SegmentHit && result.CacheInfo.QuantizeHit
	printStats(result.Stats.GridWidth, result.Stats.GridHeight,
		result.Stats.Superpixels, result.Stats.Colors, cached)
	if !result.Stats.Converged {
		printWarning("Relaxation stopped at the iteration cap (%d) without converging", result.Stats.Iterations)
	}

	for _, format := range pipeOpts.Formats {
		data, ok := result.Artifacts[format]
		if !ok {
			continue
		}
		path := outputPath(opts.output, pipeOpts.Input, format)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
		}
		printFile(path)
	}

	return nil
}
