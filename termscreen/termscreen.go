/*
Package termscreen adapts a tcell terminal to the braillepic Screen
capability, for previewing converted grids without an OpenComputers
machine at hand.
*/
package termscreen

import (
	"github.com/gdamore/tcell/v2"

	"github.com/ocpix/braillepic/grid"
)

// Screen draws on the controlling terminal. The zero value is not
// usable; call New.
type Screen struct {
	tc     tcell.Screen
	fg, bg tcell.Color
}

func New() (*Screen, error) {
	tc, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := tc.Init(); err != nil {
		return nil, err
	}
	tc.HideCursor()
	tc.Clear()
	return &Screen{
		tc: tc,
		fg: tcell.ColorWhite,
		bg: tcell.ColorBlack,
	}, nil
}

func (s *Screen) Resolution() (w, h int) {
	return s.tc.Size()
}

func (s *Screen) SetForeground(c grid.Color) {
	s.fg = tcell.NewHexColor(int32(c))
}

func (s *Screen) SetBackground(c grid.Color) {
	s.bg = tcell.NewHexColor(int32(c))
}

func (s *Screen) Set(x, y int, glyph rune) error {
	s.tc.SetContent(x, y, glyph, nil, tcell.StyleDefault.Foreground(s.fg).Background(s.bg))
	return nil
}

// Show flushes buffered cells to the terminal.
func (s *Screen) Show() {
	s.tc.Show()
}

// Fini restores the terminal.
func (s *Screen) Fini() {
	s.tc.Fini()
}

// Wait blocks until a key is pressed. Resize events call onResize, with
// the screen cleared first so stale letterbox cells don't linger.
func (s *Screen) Wait(onResize func()) {
	for {
		switch s.tc.PollEvent().(type) {
		case *tcell.EventKey:
			return
		case *tcell.EventResize:
			s.tc.Sync()
			s.tc.Clear()
			if onResize != nil {
				onResize()
			}
		case nil:
			return
		}
	}
}
