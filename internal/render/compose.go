package render

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"rsvpd/internal/services"
	"rsvpd/internal/words"
)

// referenceProbe spans the full ascender and descender range of the face, so
// the vertical band it measures is stable across tokens. Guide marks hang off
// that band rather than off each word's own extent, which keeps them from
// jumping between frames.
const referenceProbe = "Aygjpq"

const (
	tickGap    = 20
	tickLength = 15
	tickWidth  = 2

	wpmFontSize = 36
	wpmInsetX   = 200
	wpmInsetY   = 60
)

var (
	tickColor = color.NRGBA{R: 0x44, G: 0x44, B: 0x44, A: 0xff}
	wpmColor  = color.NRGBA{R: 0x66, G: 0x66, B: 0x66, A: 0xff}
)

// Style carries everything frame composition needs beyond the token itself.
type Style struct {
	Width      int
	Height     int
	FontSize   int
	Background color.NRGBA
	Text       color.NRGBA
	Highlight  color.NRGBA
	ShowWPM    bool
}

// Composer renders single-word frames with the pivot letter pinned to the
// horizontal center of the canvas. It is not safe for concurrent use; faces
// cache glyph rasterizations without locking.
type Composer struct {
	style    Style
	face     font.Face
	wpmFace  font.Face
	baseline int
	bandTop  int
	bandBot  int
}

// NewComposer derives the faces and the fixed vertical layout for the style.
func NewComposer(style Style, source *FontSource) (*Composer, error) {
	face, err := source.Face(float64(style.FontSize))
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "render", "new_composer",
			fmt.Sprintf("deriving %dpx face", style.FontSize), err)
	}
	wpmFace, err := source.Face(wpmFontSize)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "render", "new_composer",
			"deriving wpm readout face", err)
	}

	bounds, _ := font.BoundString(face, referenceProbe)
	refHeight := (bounds.Max.Y - bounds.Min.Y).Ceil()
	bandTop := (style.Height - refHeight) / 2
	c := &Composer{
		style:    style,
		face:     face,
		wpmFace:  wpmFace,
		baseline: bandTop - bounds.Min.Y.Floor(),
		bandTop:  bandTop,
		bandBot:  bandTop + refHeight,
	}
	return c, nil
}

// Compose renders one frame for the unit. wpm is the display rate for the
// optional readout; it is ignored unless the style enables it.
func (c *Composer) Compose(unit words.Unit, wpm int) *image.NRGBA {
	img := imaging.New(c.style.Width, c.style.Height, c.style.Background)
	c.drawTicks(img)

	runes := []rune(unit.Token)
	if len(runes) == 0 {
		return img
	}
	pivot := unit.ORPIndex
	if pivot < 0 {
		pivot = 0
	}
	if pivot >= len(runes) {
		pivot = len(runes) - 1
	}

	advances := make([]fixed.Int26_6, len(runes))
	for i, r := range runes {
		advances[i] = c.advance(r)
	}

	// Position the token so the pivot glyph's center lands on the canvas
	// center line.
	x := fixed.I(c.style.Width / 2)
	for i := 0; i < pivot; i++ {
		x -= advances[i]
	}
	x -= advances[pivot] / 2

	drawer := font.Drawer{
		Dst:  img,
		Face: c.face,
	}
	for i, r := range runes {
		fg := c.style.Text
		if i == pivot {
			fg = c.style.Highlight
		}
		drawer.Src = image.NewUniform(fg)
		drawer.Dot = fixed.Point26_6{X: x, Y: fixed.I(c.baseline)}
		drawer.DrawString(string(r))
		x += advances[i]
	}

	if c.style.ShowWPM {
		c.drawWPM(img, wpm)
	}
	return img
}

func (c *Composer) advance(r rune) fixed.Int26_6 {
	if a, ok := c.face.GlyphAdvance(r); ok {
		return a
	}
	a, _ := c.face.GlyphAdvance('?')
	return a
}

// drawTicks paints the two vertical guide marks above and below the word
// band, centered on the pivot column.
func (c *Composer) drawTicks(img *image.NRGBA) {
	centerX := c.style.Width / 2
	top := c.bandTop - tickGap - tickLength
	fillRect(img, centerX-tickWidth/2, top, tickWidth, tickLength, tickColor)
	fillRect(img, centerX-tickWidth/2, c.bandBot+tickGap, tickWidth, tickLength, tickColor)
}

func (c *Composer) drawWPM(img *image.NRGBA, wpm int) {
	ascent := c.wpmFace.Metrics().Ascent.Ceil()
	drawer := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(wpmColor),
		Face: c.wpmFace,
		Dot: fixed.P(
			c.style.Width-wpmInsetX,
			c.style.Height-wpmInsetY+ascent,
		),
	}
	drawer.DrawString(fmt.Sprintf("%d WPM", wpm))
}

func fillRect(img *image.NRGBA, x, y, w, h int, fg color.NRGBA) {
	for dy := 0; dy < h; dy++ {
		for dx := 0; dx < w; dx++ {
			px, py := x+dx, y+dy
			if image.Pt(px, py).In(img.Rect) {
				img.SetNRGBA(px, py, fg)
			}
		}
	}
}
