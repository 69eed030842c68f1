// Package overlay rasterises fixed screen-space text into an RGBA image.
package overlay

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Line is one string anchored at its top-left corner in pixels.
type Line struct {
	X, Y int
	Text string
}

// ControlLines and SceneLines are the informational blocks shown over the scene.
var (
	ControlLines = []string{
		"Controls:",
		" (WASD, X, Space) Move camera",
		" (Left Click & Drag) Rotate camera",
		" (Left Shift) Hold to speed up camera",
		" (Left Ctrl) Hold to slow down camera",
		" (TAB) Randomize lights",
	}
	SceneLines = []string{
		"Scene Details:",
		" Top: PBR materials",
		" Bottom: Non-PBR materials",
	}
)

// Layout of the default text.
const (
	Margin      = 10
	LineSpacing = 20
	SceneTop    = 150
)

// DefaultLines lays out ControlLines from the top margin and SceneLines from SceneTop.
func DefaultLines() []Line {
	lines := make([]Line, 0, len(ControlLines)+len(SceneLines))
	for i, s := range ControlLines {
		lines = append(lines, Line{X: Margin, Y: Margin + LineSpacing*i, Text: s})
	}
	for i, s := range SceneLines {
		lines = append(lines, Line{X: Margin, Y: SceneTop + LineSpacing*i, Text: s})
	}
	return lines
}

// Text renders lines into a transparent image sized to the screen.
// The result is cached until the size or lines change.
type Text struct {
	face  font.Face
	color color.Color
	lines []Line

	cache *image.RGBA
	dirty bool
}

// DefaultFontSize is the point size of the Go Regular face at 72 DPI.
const DefaultFontSize = 16

// NewFace returns Go Regular at size points, or the 7x13 bitmap face if the
// font cannot be parsed.
func NewFace(size float64) (font.Face, error) {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return basicfont.Face7x13, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return basicfont.Face7x13, fmt.Errorf("create face: %w", err)
	}
	return face, nil
}

// New creates a text overlay drawing lines with face in white.
func New(face font.Face, lines []Line) *Text {
	if face == nil {
		face = basicfont.Face7x13
	}
	return &Text{face: face, color: color.White, lines: lines, dirty: true}
}

// SetLines replaces the text.
func (t *Text) SetLines(lines []Line) {
	t.lines = lines
	t.dirty = true
}

// Lines returns the current text.
func (t *Text) Lines() []Line { return t.lines }

// SetColor changes the text color.
func (t *Text) SetColor(c color.Color) {
	t.color = c
	t.dirty = true
}

// Changed reports whether the next Raster call will redraw.
func (t *Text) Changed(width, height int) bool {
	return t.dirty || t.cache == nil || t.cache.Bounds().Dx() != width || t.cache.Bounds().Dy() != height
}

// Raster returns the overlay image for a width x height surface.
func (t *Text) Raster(width, height int) *image.RGBA {
	if !t.Changed(width, height) {
		return t.cache
	}
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.Transparent, image.Point{}, draw.Src)

	ascent := t.face.Metrics().Ascent
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(t.color),
		Face: t.face,
	}
	for _, l := range t.lines {
		d.Dot = fixed.Point26_6{X: fixed.I(l.X), Y: fixed.I(l.Y) + ascent}
		d.DrawString(l.Text)
	}

	t.cache = img
	t.dirty = false
	return img
}
