package render

import (
	"image"
	"image/color"
	"image/draw"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	noteMargin  = 10
	noteInset   = 4
	noteMaxRune = 160
)

var (
	noteInk   = color.RGBA{R: 70, G: 70, B: 70, A: 255}
	notePaper = color.RGBA{R: 250, G: 250, B: 250, A: 230}
)

// noteBox returns the backing rectangle for a note of the given pixel width
// anchored to the lower-left of bounds, and the baseline origin for its text.
func noteBox(bounds image.Rectangle, width int, m font.Metrics) (image.Rectangle, image.Point) {
	height := m.Ascent.Ceil() + m.Descent.Ceil()
	box := image.Rect(
		bounds.Min.X+noteMargin,
		bounds.Max.Y-noteMargin-height-2*noteInset,
		bounds.Min.X+noteMargin+width+2*noteInset,
		bounds.Max.Y-noteMargin,
	)
	return box, image.Pt(box.Min.X+noteInset, box.Min.Y+noteInset+m.Ascent.Ceil())
}

// drawNote returns a copy of img with text written in its lower-left corner.
// Long notes are cut at noteMaxRune runes.
func drawNote(img image.Image, text string) image.Image {
	text = strings.Join(strings.Fields(text), " ")
	if img == nil || text == "" {
		return img
	}
	if r := []rune(text); len(r) > noteMaxRune {
		text = string(r[:noteMaxRune])
	}

	out := image.NewRGBA(img.Bounds())
	draw.Draw(out, out.Bounds(), img, img.Bounds().Min, draw.Src)

	d := font.Drawer{Dst: out, Src: image.NewUniform(noteInk), Face: basicfont.Face7x13}
	box, origin := noteBox(out.Bounds(), d.MeasureString(text).Ceil(), d.Face.Metrics())
	draw.Draw(out, box, image.NewUniform(notePaper), image.Point{}, draw.Over)
	d.Dot = fixed.P(origin.X, origin.Y)
	d.DrawString(text)
	return out
}
