package braillepic

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/disintegration/gift"
	"github.com/ericpauley/go-quantize/quantize"

	"github.com/ocpix/braillepic/braille"
	"github.com/ocpix/braillepic/grid"
)

// ErrInvalidInput is returned for an empty image or non-positive grid
// dimensions.
var ErrInvalidInput = errors.New("braillepic: invalid input")

const minScale = 1e-6

// 4x4 Bayer matrix for ordered dithering.
var bayer = [4][4]float64{
	{0, 8, 2, 10},
	{12, 4, 14, 6},
	{3, 11, 1, 9},
	{15, 7, 13, 5},
}

type rgb struct {
	r, g, b float64
}

func (c rgb) luma() float64 {
	return 0.2126*c.r + 0.7152*c.g + 0.0722*c.b
}

func (c rgb) dist2(o rgb) float64 {
	dr, dg, db := c.r-o.r, c.g-o.g, c.b-o.b
	return dr*dr + dg*dg + db*db
}

func (c rgb) pack() grid.Color {
	clamp := func(v float64) uint32 {
		n := int(math.Round(v))
		if n < 0 {
			n = 0
		} else if n > 255 {
			n = 255
		}
		return uint32(n)
	}
	return grid.Color(clamp(c.r)<<16 | clamp(c.g)<<8 | clamp(c.b))
}

func mean(samples []rgb) rgb {
	if len(samples) == 0 {
		return rgb{}
	}
	var m rgb
	for _, s := range samples {
		m.r += s.r
		m.g += s.g
		m.b += s.b
	}
	n := float64(len(samples))
	return rgb{m.r / n, m.g / n, m.b / n}
}

// clusterTwo splits samples into two representative colors. Seeded with
// the darkest and brightest samples, then up to four rounds of
// assign-to-nearest and mean update. Returns the darker representative
// first.
func clusterTwo(samples []rgb) (bg, fg rgb) {
	lo, hi := samples[0], samples[0]
	for _, s := range samples[1:] {
		if s.luma() < lo.luma() {
			lo = s
		}
		if s.luma() > hi.luma() {
			hi = s
		}
	}
	if lo == hi {
		return lo, hi
	}

	for i := 0; i < 4; i++ {
		var a, b []rgb
		for _, s := range samples {
			if s.dist2(lo) <= s.dist2(hi) {
				a = append(a, s)
			} else {
				b = append(b, s)
			}
		}
		if len(a) == 0 {
			a = append(a, lo)
		}
		if len(b) == 0 {
			b = append(b, hi)
		}
		na, nb := mean(a), mean(b)
		if na == lo && nb == hi {
			break
		}
		lo, hi = na, nb
	}
	return lo, hi
}

// chooseDot decides whether a sub-pixel belongs to the foreground. The
// dithered path projects the sample's luma onto the bg-fg axis and
// compares it against the Bayer threshold for its cell position; the
// plain path picks the nearer representative. The representatives
// themselves are never perturbed.
func chooseDot(s, bg, fg rgb, x, y int, dither bool) bool {
	if bg == fg {
		return false
	}

	if dither {
		delta := fg.luma() - bg.luma()
		if math.Abs(delta) < 1e-6 {
			delta = 1e-6
		}
		t := (s.luma() - bg.luma()) / delta
		t = math.Max(0, math.Min(1, t))
		return t >= bayer[y%4][x%4]/16
	}

	return s.dist2(fg) <= s.dist2(bg)
}

// cell quantizes one 2x4 block to a glyph and a color pair. Flat cells
// come back as the all-dots glyph with fg == bg, which renders as a
// solid block of that color.
func (c *Converter) cell(block *[braille.CellHeight][braille.CellWidth]rgb) (rune, grid.Color, grid.Color) {
	samples := make([]rgb, 0, braille.CellWidth*braille.CellHeight)
	for y := range block {
		for x := range block[y] {
			samples = append(samples, block[y][x])
		}
	}

	bg, fg := clusterTwo(samples)

	flat := func(col rgb) (rune, grid.Color, grid.Color) {
		packed := col.pack()
		return braille.Full, packed, packed
	}

	if math.Sqrt(bg.dist2(fg)) < c.opts.MinContrast {
		return flat(mean(samples))
	}

	var p braille.Pattern
	for y := range block {
		for x := range block[y] {
			if chooseDot(block[y][x], bg, fg, x, y, c.opts.Dither) {
				p = p.Set(x, y)
			}
		}
	}

	switch n := p.Count(); {
	case n == 0:
		return flat(bg)
	case n == braille.CellWidth*braille.CellHeight:
		return flat(fg)
	case n < c.opts.MinDots:
		return flat(mean(samples))
	}

	return p.Rune(), fg.pack(), bg.pack()
}

func quantizeColors(m *image.RGBA, colors int) *image.RGBA {
	q := quantize.MedianCutQuantizer{}
	p := q.Quantize(make(color.Palette, 0, colors), m)

	out := image.NewRGBA(m.Bounds())
	for y := m.Bounds().Min.Y; y < m.Bounds().Max.Y; y++ {
		for x := m.Bounds().Min.X; x < m.Bounds().Max.X; x++ {
			out.Set(x, y, p.Convert(m.RGBAAt(x, y)))
		}
	}
	return out
}

// letterbox resizes src to fit pw x ph preserving aspect ratio and
// composites it, centered, onto an opaque black canvas. Floor division
// of the margin puts any odd spare pixel on the trailing side. Returns
// the canvas and the rectangle covered by the content.
func (c *Converter) letterbox(src image.Image, pw, ph int) (*image.RGBA, image.Rectangle) {
	b := src.Bounds()

	scale := math.Min(float64(pw)/float64(b.Dx()), float64(ph)/float64(b.Dy()))
	scale = math.Max(scale, minScale)
	rw := max(1, int(float64(b.Dx())*scale))
	rh := max(1, int(float64(b.Dy())*scale))

	f := gift.New(gift.Resize(rw, rh, gift.LanczosResampling))
	resized := image.NewRGBA(f.Bounds(b))
	f.Draw(resized, src)

	if c.opts.MaxColors > 1 {
		resized = quantizeColors(resized, c.opts.MaxColors)
	}

	canvas := image.NewRGBA(image.Rect(0, 0, pw, ph))
	draw.Draw(canvas, canvas.Bounds(), image.Black, image.Point{}, draw.Src)

	content := image.Rect(0, 0, rw, rh).Add(image.Pt((pw-rw)/2, (ph-rh)/2))
	// Over, not Src: transparent source pixels composite onto black.
	draw.Draw(canvas, content, resized, resized.Bounds().Min, draw.Over)

	return canvas, content
}

// Convert builds a Braille grid from src. Cells wholly outside the
// letterboxed content stay blank with black colors; all others go
// through two-color quantization.
func (c *Converter) Convert(src image.Image) (*grid.Grid, error) {
	if c.opts.Width < 1 || c.opts.Height < 1 {
		return nil, fmt.Errorf("%w: grid size %dx%d", ErrInvalidInput, c.opts.Width, c.opts.Height)
	}
	if src == nil || src.Bounds().Dx() < 1 || src.Bounds().Dy() < 1 {
		return nil, fmt.Errorf("%w: empty image", ErrInvalidInput)
	}

	pw := c.opts.Width * braille.CellWidth
	ph := c.opts.Height * braille.CellHeight

	canvas, content := c.letterbox(src, pw, ph)

	g := grid.New(c.opts.Width, c.opts.Height)

	// Cell range intersecting the content; everything else keeps the
	// blank black fill from grid.New.
	cx0 := content.Min.X / braille.CellWidth
	cy0 := content.Min.Y / braille.CellHeight
	cx1 := min(c.opts.Width, (content.Max.X+braille.CellWidth-1)/braille.CellWidth)
	cy1 := min(c.opts.Height, (content.Max.Y+braille.CellHeight-1)/braille.CellHeight)

	var block [braille.CellHeight][braille.CellWidth]rgb
	for cy := cy0; cy < cy1; cy++ {
		for cx := cx0; cx < cx1; cx++ {
			for y := 0; y < braille.CellHeight; y++ {
				for x := 0; x < braille.CellWidth; x++ {
					px := canvas.RGBAAt(cx*braille.CellWidth+x, cy*braille.CellHeight+y)
					block[y][x] = rgb{float64(px.R), float64(px.G), float64(px.B)}
				}
			}
			glyph, fg, bg := c.cell(&block)
			g.SetCell(cx, cy, glyph, fg, bg)
		}
	}

	return g, nil
}
