/*
Package braille maps 2 by 4 dot masks to the Unicode Braille Patterns
block (U+2800 to U+28FF).

A cell is 2 dots wide and 4 tall. Dot numbering follows the Unicode
convention: dots 1-3 run down the left column, dots 4-6 down the right,
and dots 7-8 form the bottom row. Bit n of a pattern corresponds to dot
n+1, so every one of the 256 masks maps to exactly one glyph and back.
*/
package braille

import "math/bits"

const (
	// CellWidth and CellHeight are the dot dimensions of one cell.
	CellWidth  = 2
	CellHeight = 4

	blockStart = 0x2800

	// Blank is the glyph with no dots set, Full the one with all eight.
	Blank = rune(blockStart)
	Full  = rune(blockStart + 0xff)
)

// bitIndex[y][x] is the pattern bit for the dot at column x, row y.
var bitIndex = [CellHeight][CellWidth]uint8{
	{0, 3},
	{1, 4},
	{2, 5},
	{6, 7},
}

// Pattern is an 8-bit dot mask.
type Pattern uint8

// Set returns p with the dot at column x, row y raised.
func (p Pattern) Set(x, y int) Pattern {
	return p | 1<<bitIndex[y][x]
}

// Dot reports whether the dot at column x, row y is raised.
func (p Pattern) Dot(x, y int) bool {
	return p&(1<<bitIndex[y][x]) != 0
}

// Count returns the number of raised dots.
func (p Pattern) Count() int {
	return bits.OnesCount8(uint8(p))
}

// Rune returns the Braille glyph for p.
func (p Pattern) Rune() rune {
	return rune(blockStart + int(p))
}

// FromRune returns the dot mask for a Braille glyph. The second return
// value is false if r is outside the Braille Patterns block.
func FromRune(r rune) (Pattern, bool) {
	if r < blockStart || r > blockStart+0xff {
		return 0, false
	}
	return Pattern(r - blockStart), true
}
