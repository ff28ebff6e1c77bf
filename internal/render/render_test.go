package render

import (
	"image/color"
	"testing"

	"rsvpd/internal/words"
)

func testStyle() Style {
	return Style{
		Width:      640,
		Height:     480,
		FontSize:   64,
		Background: color.NRGBA{R: 0x1a, G: 0x1a, B: 0x2e, A: 0xff},
		Text:       color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
		Highlight:  color.NRGBA{R: 0xff, G: 0x00, B: 0x00, A: 0xff},
	}
}

func newTestComposer(t *testing.T, style Style) *Composer {
	t.Helper()
	c, err := NewComposer(style, ResolveFont(nil, nil))
	if err != nil {
		t.Fatalf("NewComposer: %v", err)
	}
	return c
}

func TestComposeFrameGeometry(t *testing.T) {
	style := testStyle()
	c := newTestComposer(t, style)

	img := c.Compose(words.Unit{Token: "Hello,", ORPIndex: 1}, 300)
	if got := img.Bounds().Dx(); got != style.Width {
		t.Fatalf("width = %d, want %d", got, style.Width)
	}
	if got := img.Bounds().Dy(); got != style.Height {
		t.Fatalf("height = %d, want %d", got, style.Height)
	}
	if got := img.NRGBAAt(0, 0); got != style.Background {
		t.Errorf("corner pixel = %v, want background %v", got, style.Background)
	}
}

func TestComposePaintsTextAndHighlight(t *testing.T) {
	style := testStyle()
	c := newTestComposer(t, style)
	img := c.Compose(words.Unit{Token: "reading", ORPIndex: 2}, 0)

	var sawText, sawHighlight bool
	for y := 0; y < style.Height; y++ {
		for x := 0; x < style.Width; x++ {
			switch px := img.NRGBAAt(x, y); {
			case px == style.Text:
				sawText = true
			case px == style.Highlight:
				sawHighlight = true
			}
		}
	}
	if !sawText {
		t.Error("no fully opaque text pixels painted")
	}
	if !sawHighlight {
		t.Error("no highlight pixels painted")
	}
}

func TestComposeTickMarksCentered(t *testing.T) {
	style := testStyle()
	c := newTestComposer(t, style)
	img := c.Compose(words.Unit{Token: "x", ORPIndex: 0}, 0)

	centerX := style.Width / 2
	upper := c.bandTop - tickGap - tickLength/2
	lower := c.bandBot + tickGap + tickLength/2
	if got := img.NRGBAAt(centerX, upper); got != tickColor {
		t.Errorf("upper tick pixel = %v, want %v", got, tickColor)
	}
	if got := img.NRGBAAt(centerX, lower); got != tickColor {
		t.Errorf("lower tick pixel = %v, want %v", got, tickColor)
	}
}

func TestComposeWPMReadoutToggle(t *testing.T) {
	style := testStyle()
	plain := newTestComposer(t, style).Compose(words.Unit{Token: "word", ORPIndex: 1}, 450)

	style.ShowWPM = true
	withReadout := newTestComposer(t, style).Compose(words.Unit{Token: "word", ORPIndex: 1}, 450)

	changed := false
	for y := style.Height - wpmInsetY - wpmFontSize; y < style.Height; y++ {
		for x := style.Width - wpmInsetX; x < style.Width; x++ {
			if plain.NRGBAAt(x, y) != withReadout.NRGBAAt(x, y) {
				changed = true
			}
		}
	}
	if !changed {
		t.Error("readout corner unchanged with ShowWPM enabled")
	}
}

func TestComposeEmptyTokenYieldsBackground(t *testing.T) {
	style := testStyle()
	c := newTestComposer(t, style)
	img := c.Compose(words.Unit{}, 0)
	if got := img.NRGBAAt(style.Width/2, style.Height/2); got != style.Background {
		t.Errorf("center pixel = %v, want background", got)
	}
}

func TestComposeClampsPivotIndex(t *testing.T) {
	c := newTestComposer(t, testStyle())
	// Out-of-range pivots must not panic.
	c.Compose(words.Unit{Token: "ok", ORPIndex: 99}, 0)
	c.Compose(words.Unit{Token: "ok", ORPIndex: -1}, 0)
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.NRGBA
		wantErr bool
	}{
		{in: "#1a1a2e", want: color.NRGBA{R: 0x1a, G: 0x1a, B: 0x2e, A: 0xff}},
		{in: "#FF0000", want: color.NRGBA{R: 0xff, A: 0xff}},
		{in: "ffffff", want: color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}},
		{in: "#fff", wantErr: true},
		{in: "#gg0000", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseHexColor(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseHexColor(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseHexColor(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseHexColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestResolveFontFallsBack(t *testing.T) {
	source := ResolveFont([]string{"/nonexistent/font.ttf"}, nil)
	if source.Path() != "" {
		t.Fatalf("expected built-in fallback, got %q", source.Path())
	}
	if _, err := source.Face(48); err != nil {
		t.Fatalf("Face: %v", err)
	}
	if _, err := NewComposer(testStyle(), source); err != nil {
		t.Fatalf("NewComposer with fallback: %v", err)
	}
}
