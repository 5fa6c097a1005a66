/*
Package braillepic converts raster images into two-color Braille cell
grids for OpenComputers screens, and renders saved grids back onto any
cell screen.
*/
package braillepic

import "log"

// Options control the conversion of one image into a Braille grid.
type Options struct {
	// Width and Height are the target grid size in character cells.
	// Each cell covers 2x4 pixels of the resized image.
	Width, Height int

	// Dither enables ordered dithering when deciding which of the two
	// cell colors a sub-pixel belongs to.
	Dither bool

	// MinContrast is the minimum RGB distance (0-441) between the two
	// cell colors; cells below it collapse to a flat color to avoid
	// speckled noise.
	MinContrast float64

	// MinDots collapses cells with fewer raised dots to a flat color,
	// suppressing isolated one-dot artifacts.
	MinDots int

	// MaxColors, when above 1, reduces the resized image to that many
	// colors before the per-cell pass. Zero disables the reduction.
	MaxColors int
}

// DefaultOptions match the 160x50 character resolution of a tier 3
// OpenComputers screen.
func DefaultOptions() Options {
	return Options{
		Width:       160,
		Height:      50,
		Dither:      true,
		MinContrast: 12,
		MinDots:     2,
	}
}

type Converter struct {
	opts   Options
	logger *log.Logger
}

func New(opts Options, logger *log.Logger) *Converter {
	return &Converter{
		opts:   opts,
		logger: logger,
	}
}
