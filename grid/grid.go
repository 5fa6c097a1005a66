/*
Package grid implements the Braille picture grid and its file format.

A grid is w by h character cells. Each cell carries one glyph from the
Unicode Braille Patterns block plus a foreground and a background color,
so a single cell can show a 2 by 4 sub-pixel pattern in two colors.

The file format is a Lua expression so that the OpenComputers viewer can
load it with plain loadfile():

	return {
	  w = 160,
	  h = 50,
	  chars = {
	  "⠮⠛ ...",
	  ...
	  },
	  fg = {
	    {16711680, 255, ...},
	    ...
	  },
	  bg = { ... }
	}

Glyphs are written as literal UTF-8 text and colors as decimal integers;
minimal Lua interpreters choke on \u escapes and some builds reject
hexadecimal numeric syntax.
*/
package grid

import "image/color"

// Color is a packed 0xRRGGBB value. There is no alpha channel; the
// OpenComputers GPU has none.
type Color uint32

const (
	Black Color = 0x000000
	White Color = 0xffffff
)

// FromColor packs a color.Color, truncating the 16-bit channels to 8
// bits and dropping alpha.
func FromColor(c color.Color) Color {
	r, g, b, _ := c.RGBA()
	return Color(r>>8<<16 | g>>8<<8 | b>>8)
}

// RGB returns the 8-bit channels of c.
func (c Color) RGB() (r, g, b uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// Grid is a w by h matrix of Braille cells. Chars, FG and BG always
// share the same shape: h rows of w entries each.
type Grid struct {
	W, H  int
	Chars [][]rune
	FG    [][]Color
	BG    [][]Color
}

// New returns a w by h grid of blank black cells.
func New(w, h int) *Grid {
	g := &Grid{
		W:     w,
		H:     h,
		Chars: make([][]rune, h),
		FG:    make([][]Color, h),
		BG:    make([][]Color, h),
	}
	for y := 0; y < h; y++ {
		g.Chars[y] = make([]rune, w)
		g.FG[y] = make([]Color, w)
		g.BG[y] = make([]Color, w)
		for x := 0; x < w; x++ {
			g.Chars[y][x] = blankGlyph
		}
	}
	return g
}

// SetCell stores a glyph and its color pair at cell (x, y).
func (g *Grid) SetCell(x, y int, glyph rune, fg, bg Color) {
	g.Chars[y][x] = glyph
	g.FG[y][x] = fg
	g.BG[y][x] = bg
}

const (
	blankGlyph = '⠀'
	maxColor   = 0xffffff
)
