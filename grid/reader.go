package grid

import (
	"errors"
	"fmt"
	"io"

	lua "github.com/yuin/gopher-lua"
)

var (
	errNoTable  = errors.New("grid: file does not return a table")
	errBadSize  = errors.New("grid: w and h must be positive integers")
	errBadShape = errors.New("grid: chars/fg/bg shape mismatch")
	errBadGlyph = errors.New("grid: glyph outside the Braille block")
	errBadColor = errors.New("grid: color outside 0x000000-0xFFFFFF")
)

type decoder struct {
	grid *Grid
}

func (d *decoder) intField(t *lua.LTable, name string) (int, error) {
	n, ok := t.RawGetString(name).(lua.LNumber)
	if !ok || float64(n) != float64(int(n)) {
		return 0, errBadSize
	}
	return int(n), nil
}

func (d *decoder) tableField(t *lua.LTable, name string) (*lua.LTable, error) {
	f, ok := t.RawGetString(name).(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("grid: %s is not a table", name)
	}
	return f, nil
}

func (d *decoder) readChars(t *lua.LTable) error {
	if t.Len() != d.grid.H {
		return errBadShape
	}
	for y := 0; y < d.grid.H; y++ {
		s, ok := t.RawGetInt(y + 1).(lua.LString)
		if !ok {
			return errBadShape
		}
		row := []rune(string(s))
		if len(row) != d.grid.W {
			return errBadShape
		}
		copy(d.grid.Chars[y], row)
	}
	return nil
}

func (d *decoder) readColors(t *lua.LTable, dst [][]Color) error {
	if t.Len() != d.grid.H {
		return errBadShape
	}
	for y := 0; y < d.grid.H; y++ {
		row, ok := t.RawGetInt(y + 1).(*lua.LTable)
		if !ok || row.Len() != d.grid.W {
			return errBadShape
		}
		for x := 0; x < d.grid.W; x++ {
			n, ok := row.RawGetInt(x + 1).(lua.LNumber)
			if !ok || n < 0 || n > maxColor {
				return errBadColor
			}
			dst[y][x] = Color(n)
		}
	}
	return nil
}

func (d *decoder) decode(r io.Reader, configOnly bool) error {
	// The file is evaluated as a plain expression; no libraries are
	// opened so it cannot reach the filesystem or the OS.
	l := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer l.Close()

	fn, err := l.Load(r, "grid")
	if err != nil {
		return fmt.Errorf("grid: %w", err)
	}
	l.Push(fn)
	if err := l.PCall(0, 1, nil); err != nil {
		return fmt.Errorf("grid: %w", err)
	}

	t, ok := l.Get(-1).(*lua.LTable)
	if !ok {
		return errNoTable
	}

	w, err := d.intField(t, "w")
	if err != nil {
		return err
	}
	h, err := d.intField(t, "h")
	if err != nil {
		return err
	}
	if w < 1 || h < 1 {
		return errBadSize
	}

	d.grid = New(w, h)

	if configOnly {
		return nil
	}

	chars, err := d.tableField(t, "chars")
	if err != nil {
		return err
	}
	if err := d.readChars(chars); err != nil {
		return err
	}

	for _, f := range []struct {
		name string
		dst  [][]Color
	}{
		{"fg", d.grid.FG},
		{"bg", d.grid.BG},
	} {
		rows, err := d.tableField(t, f.name)
		if err != nil {
			return err
		}
		if err := d.readColors(rows, f.dst); err != nil {
			return err
		}
	}

	return check(d.grid)
}

// Decode reads a Braille grid from r, validating every shape invariant.
// On any violation no grid is returned.
func Decode(r io.Reader) (*Grid, error) {
	var d decoder
	if err := d.decode(r, false); err != nil {
		return nil, err
	}
	return d.grid, nil
}

// DecodeConfig returns the cell dimensions of a grid without decoding
// the glyph and color payload.
func DecodeConfig(r io.Reader) (w, h int, err error) {
	var d decoder
	if err := d.decode(r, true); err != nil {
		return 0, 0, err
	}
	return d.grid.W, d.grid.H, nil
}
