package cli

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/pixtile/pixtile/pkg/errors"
	"github.com/pixtile/pixtile/pkg/palette"
	"github.com/pixtile/pixtile/pkg/raster"
)

// paletteOpts holds the command-line flags for the palette command.
type paletteOpts struct {
	colors int    // number of colors to extract
	output string // optional TOML file to write the palette to
}

// paletteCommand creates the palette command. It extracts the dominant
// colors of an image without running the full pipeline, as a fast preview
// of what a generation would work with.
func (c *CLI) paletteCommand() *cobra.Command {
	opts := paletteOpts{colors: 8}

	cmd := &cobra.Command{
		Use:   "palette [image]",
		Short: "Extract the dominant colors of an image",
		Long: `Extract the dominant colors of an image.

The extracted palette is printed as terminal swatches and can be written
to a TOML file for reuse as a fixed palette with generate --palette.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPalette(args[0], &opts)
		},
	}

	cmd.Flags().IntVarP(&opts.colors, "colors", "c", opts.colors, "number of colors to extract")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the palette to a TOML file")

	return cmd
}

func (c *CLI) runPalette(input string, opts *paletteOpts) error {
	prog := newProgress(c.Logger)

	img, err := raster.Decode(input)
	if err != nil {
		return err
	}

	colors, err := palette.ExtractFromImage(img, opts.colors)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Extracted %d colors from %s", len(colors), input))

	for i, col := range colors {
		swatch := lipgloss.NewStyle().Background(lipgloss.Color(col.Hex())).Render("      ")
		fmt.Printf("  %2d  %s  %s\n", i, swatch, StyleValue.Render(col.Hex()))
	}

	if opts.output == "" {
		printNextStep("Use as a fixed palette", fmt.Sprintf("pixtile generate %s --palette <file>", input))
		return nil
	}

	fixed := palette.Fixed{Name: "extracted"}
	for i, col := range colors {
		fixed.Entries = append(fixed.Entries, palette.FixedEntry{
			Name: fmt.Sprintf("color-%d", i),
			Hex:  col.Hex(),
		})
	}

	f, err := os.Create(opts.output)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", opts.output)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(fixed); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode palette")
	}
	printFile(opts.output)
	return nil
}
