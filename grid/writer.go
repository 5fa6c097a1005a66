package grid

import (
	"bufio"
	"errors"
	"io"
	"strconv"
	"strings"
)

type encoder struct {
	w *bufio.Writer
}

// Only backslash and double quote need escaping inside a Lua string
// literal; Braille glyphs pass through as raw UTF-8.
func luaString(row []rune) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range row {
		switch r {
		case '\\', '"':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('"')
	return b.String()
}

func (e *encoder) writeColorRows(rows [][]Color) error {
	if _, err := e.w.WriteString("{\n"); err != nil {
		return err
	}
	for i, row := range rows {
		if _, err := e.w.WriteString("    {"); err != nil {
			return err
		}
		for j, c := range row {
			if j > 0 {
				if _, err := e.w.WriteString(", "); err != nil {
					return err
				}
			}
			// Decimal on purpose, see the package comment.
			if _, err := e.w.WriteString(strconv.FormatUint(uint64(c), 10)); err != nil {
				return err
			}
		}
		sep := ",\n"
		if i == len(rows)-1 {
			sep = "\n"
		}
		if _, err := e.w.WriteString("}" + sep); err != nil {
			return err
		}
	}
	_, err := e.w.WriteString("  }")
	return err
}

func (e *encoder) encode(g *Grid) error {
	if _, err := e.w.WriteString("return {\n"); err != nil {
		return err
	}
	if _, err := e.w.WriteString("  w = " + strconv.Itoa(g.W) + ",\n"); err != nil {
		return err
	}
	if _, err := e.w.WriteString("  h = " + strconv.Itoa(g.H) + ",\n"); err != nil {
		return err
	}

	if _, err := e.w.WriteString("  chars = {\n"); err != nil {
		return err
	}
	for _, row := range g.Chars {
		if _, err := e.w.WriteString("  " + luaString(row) + ",\n"); err != nil {
			return err
		}
	}
	if _, err := e.w.WriteString("  },\n"); err != nil {
		return err
	}

	if _, err := e.w.WriteString("  fg = "); err != nil {
		return err
	}
	if err := e.writeColorRows(g.FG); err != nil {
		return err
	}
	if _, err := e.w.WriteString(",\n  bg = "); err != nil {
		return err
	}
	if err := e.writeColorRows(g.BG); err != nil {
		return err
	}
	if _, err := e.w.WriteString("\n}\n"); err != nil {
		return err
	}

	return e.w.Flush()
}

// Encode writes g to w as a Lua expression file.
func Encode(w io.Writer, g *Grid) error {
	if g == nil || g.W < 1 || g.H < 1 {
		return errors.New("grid: nothing to encode")
	}
	if err := check(g); err != nil {
		return err
	}
	e := encoder{w: bufio.NewWriter(w)}
	return e.encode(g)
}

// check enforces the shape and color range invariants shared by the
// encoder and the decoder.
func check(g *Grid) error {
	if len(g.Chars) != g.H || len(g.FG) != g.H || len(g.BG) != g.H {
		return errBadShape
	}
	for y := 0; y < g.H; y++ {
		if len(g.Chars[y]) != g.W || len(g.FG[y]) != g.W || len(g.BG[y]) != g.W {
			return errBadShape
		}
		for x := 0; x < g.W; x++ {
			if g.Chars[y][x] < blankGlyph || g.Chars[y][x] > blankGlyph+0xff {
				return errBadGlyph
			}
			if g.FG[y][x] > maxColor || g.BG[y][x] > maxColor {
				return errBadColor
			}
		}
	}
	return nil
}
