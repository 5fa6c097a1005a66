package braillepic

import (
	"fmt"
	"math"

	"github.com/ocpix/braillepic/grid"
)

// Screen is the drawing capability a renderer paints against. It is
// always passed in explicitly; the package holds no screen state.
// Coordinates are 0-based.
type Screen interface {
	Resolution() (w, h int)
	SetForeground(grid.Color)
	SetBackground(grid.Color)
	Set(x, y int, glyph rune) error
}

// Renderer fits a grid to a screen and paints it cell by cell.
//
// With AllowUpscale a grid smaller than the screen is blown up by
// repeating cells; without it the scale is capped at 1 and small grids
// draw at their native size, which is the behavior of the classic
// makepic viewer.
type Renderer struct {
	AllowUpscale bool
}

// Render paints g centered on scr using nearest-neighbor sampling. The
// grid is never mutated and Render may be called repeatedly, e.g. after
// a resolution change. The first draw error aborts the pass; the screen
// may then hold a partial frame.
func (r Renderer) Render(g *grid.Grid, scr Screen) error {
	if g == nil || g.W < 1 || g.H < 1 {
		return fmt.Errorf("%w: empty grid", ErrInvalidInput)
	}

	sw, sh := scr.Resolution()
	if sw < 1 || sh < 1 {
		return fmt.Errorf("%w: screen %dx%d", ErrInvalidInput, sw, sh)
	}

	scale := math.Min(float64(sw)/float64(g.W), float64(sh)/float64(g.H))
	if !r.AllowUpscale && scale > 1 {
		scale = 1
	}
	scale = math.Max(scale, minScale)

	// Clamps guard against float overshoot in the last column and row.
	outW := min(max(1, int(float64(g.W)*scale)), sw)
	outH := min(max(1, int(float64(g.H)*scale)), sh)
	x0 := (sw - outW) / 2
	y0 := (sh - outH) / 2

	for y := 0; y < outH; y++ {
		sy := min(y*g.H/outH, g.H-1)
		for x := 0; x < outW; x++ {
			sx := min(x*g.W/outW, g.W-1)

			scr.SetBackground(g.BG[sy][sx])
			scr.SetForeground(g.FG[sy][sx])
			if err := scr.Set(x0+x, y0+y, g.Chars[sy][sx]); err != nil {
				return fmt.Errorf("braillepic: draw at (%d,%d): %w", x0+x, y0+y, err)
			}
		}
	}

	return nil
}
