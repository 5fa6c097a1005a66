package braillepic

import (
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ocpix/braillepic/grid"
)

type drawnCell struct {
	glyph  rune
	fg, bg grid.Color
}

type fakeScreen struct {
	w, h   int
	fg, bg grid.Color
	cells  map[image.Point]drawnCell
	failAt int
	calls  int
}

func newFakeScreen(w, h int) *fakeScreen {
	return &fakeScreen{
		w:      w,
		h:      h,
		cells:  make(map[image.Point]drawnCell),
		failAt: -1,
	}
}

func (s *fakeScreen) Resolution() (int, int)     { return s.w, s.h }
func (s *fakeScreen) SetForeground(c grid.Color) { s.fg = c }
func (s *fakeScreen) SetBackground(c grid.Color) { s.bg = c }

func (s *fakeScreen) Set(x, y int, glyph rune) error {
	if s.failAt >= 0 && s.calls == s.failAt {
		return errors.New("gpu: coordinates out of range")
	}
	s.calls++
	s.cells[image.Pt(x, y)] = drawnCell{glyph: glyph, fg: s.fg, bg: s.bg}
	return nil
}

// numberedGrid encodes each cell's coordinates in its colors so tests
// can tell exactly which source cell landed where.
func numberedGrid(w, h int) *grid.Grid {
	g := grid.New(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			g.SetCell(x, y, rune(0x2800+(y*w+x)%256), grid.Color(y<<8|x), grid.Color(0x10000|y<<8|x))
		}
	}
	return g
}

func TestRenderFitLaw(t *testing.T) {
	tests := []struct {
		name    string
		gw, gh  int
		sw, sh  int
		upscale bool
	}{
		{"downscale square", 10, 10, 5, 5, true},
		{"upscale square", 10, 10, 20, 20, true},
		{"wide screen", 10, 10, 37, 11, true},
		{"tall screen", 16, 4, 5, 29, true},
		{"tiny screen", 160, 50, 3, 2, true},
		{"one cell", 1, 1, 80, 25, true},
		{"no upscale", 4, 4, 80, 25, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scr := newFakeScreen(tt.sw, tt.sh)
			err := Renderer{AllowUpscale: tt.upscale}.Render(numberedGrid(tt.gw, tt.gh), scr)
			require.NoError(t, err)
			require.NotEmpty(t, scr.cells)

			for p := range scr.cells {
				assert.GreaterOrEqual(t, p.X, 0)
				assert.GreaterOrEqual(t, p.Y, 0)
				assert.Less(t, p.X, tt.sw)
				assert.Less(t, p.Y, tt.sh)
			}
		})
	}
}

func TestRenderDownsample(t *testing.T) {
	g := numberedGrid(10, 10)
	scr := newFakeScreen(5, 5)
	require.NoError(t, Renderer{AllowUpscale: true}.Render(g, scr))

	assert.Len(t, scr.cells, 25)
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			c, ok := scr.cells[image.Pt(x, y)]
			require.True(t, ok)
			// Every 2x2 source block maps to its top-left cell.
			assert.Equal(t, grid.Color(2*y<<8|2*x), c.fg)
			assert.Equal(t, g.Chars[2*y][2*x], c.glyph)
		}
	}
}

func TestRenderUpsample(t *testing.T) {
	g := numberedGrid(10, 10)
	scr := newFakeScreen(20, 20)
	require.NoError(t, Renderer{AllowUpscale: true}.Render(g, scr))

	assert.Len(t, scr.cells, 400)
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			c, ok := scr.cells[image.Pt(x, y)]
			require.True(t, ok)
			// Each source cell repeats as a 2x2 block.
			assert.Equal(t, grid.Color(y/2<<8|x/2), c.fg)
			assert.Equal(t, grid.Color(0x10000|y/2<<8|x/2), c.bg)
			assert.Equal(t, g.Chars[y/2][x/2], c.glyph)
		}
	}
}

func TestRenderNoUpscaleCentering(t *testing.T) {
	g := numberedGrid(2, 2)
	scr := newFakeScreen(10, 10)
	require.NoError(t, Renderer{}.Render(g, scr))

	assert.Len(t, scr.cells, 4)
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			c, ok := scr.cells[image.Pt(4+x, 4+y)]
			require.True(t, ok)
			assert.Equal(t, grid.Color(y<<8|x), c.fg)
		}
	}
}

func TestRenderIdempotent(t *testing.T) {
	g := numberedGrid(3, 3)
	r := Renderer{AllowUpscale: true}

	a := newFakeScreen(9, 9)
	require.NoError(t, r.Render(g, a))
	b := newFakeScreen(9, 9)
	require.NoError(t, r.Render(g, b))

	assert.Equal(t, a.cells, b.cells)
}

func TestRenderDrawFailure(t *testing.T) {
	scr := newFakeScreen(5, 5)
	scr.failAt = 7

	err := Renderer{AllowUpscale: true}.Render(numberedGrid(10, 10), scr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gpu: coordinates out of range")
	// No retry: nothing past the failing cell was drawn.
	assert.Len(t, scr.cells, 7)
}

func TestRenderInvalidInput(t *testing.T) {
	scr := newFakeScreen(5, 5)

	err := Renderer{}.Render(nil, scr)
	assert.ErrorIs(t, err, ErrInvalidInput)

	err = Renderer{}.Render(numberedGrid(2, 2), newFakeScreen(0, 5))
	assert.ErrorIs(t, err, ErrInvalidInput)
}
