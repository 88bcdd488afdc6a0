package palette

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/pixtile/pixtile/pkg/colorspace"
	"github.com/pixtile/pixtile/pkg/errors"
)

// Fixed is a named list of allowed output colors, such as a thread or
// paint line. Quantized palettes can be snapped to their nearest fixed
// entries so the result is buildable with physical materials.
type Fixed struct {
	Name    string       `toml:"name"`
	Entries []FixedEntry `toml:"entries"`
}

// FixedEntry is one color in a fixed palette.
type FixedEntry struct {
	Name string `toml:"name"`
	Hex  string `toml:"hex"`

	lab colorspace.Lab
}

// Lab returns the entry color in Lab space. Valid after LoadFixed.
func (e *FixedEntry) Lab() colorspace.Lab {
	return e.lab
}

// LoadFixed reads a fixed palette from a TOML file of the form:
//
//	name = "dmc"
//
//	[[entries]]
//	name = "310 Black"
//	hex = "#000000"
func LoadFixed(path string) (*Fixed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "palette file not found: %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidPalette, err, "failed to read palette file %s", path)
	}

	var f Fixed
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPalette, err, "failed to parse palette file %s", path)
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *Fixed) validate() error {
	if err := errors.ValidatePaletteName(f.Name); err != nil {
		return err
	}
	if len(f.Entries) == 0 {
		return errors.New(errors.ErrCodeInvalidPalette, "fixed palette %q has no entries", f.Name)
	}
	for i := range f.Entries {
		e := &f.Entries[i]
		if err := errors.ValidateHexColor(e.Hex); err != nil {
			return err
		}
		lab, err := colorspace.ParseHex(e.Hex)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPalette, err, "entry %d of palette %q", i, f.Name)
		}
		e.lab = lab
	}
	return nil
}

// Snap replaces every color table entry with the nearest fixed palette
// entry and records the entry names. Distinct table entries can collapse
// onto the same fixed color; the table keeps its size and mapping.
func (f *Fixed) Snap(q *Quantized) {
	names := make([]string, len(q.Colors))
	for i, c := range q.Colors {
		best := 0
		bestD := colorspace.DistanceSq(c, f.Entries[0].lab)
		for j := 1; j < len(f.Entries); j++ {
			if d := colorspace.DistanceSq(c, f.Entries[j].lab); d < bestD {
				bestD = d
				best = j
			}
		}
		q.Colors[i] = f.Entries[best].lab
		names[i] = f.Entries[best].Name
	}
	q.Names = names
}
