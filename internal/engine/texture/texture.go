// Package texture decodes images into RGBA pixel data and builds the
// procedural textures and cube maps the viewer falls back on.
package texture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp" // register decoder
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff" // register decoder
	_ "golang.org/x/image/webp" // register decoder
)

// ErrUnsupportedFormat is returned for file extensions with no decoder.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Decode decodes data using the decoder chosen by name's extension.
func Decode(name string, data []byte) (*image.RGBA, error) {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".tga":
		img, err := DecodeTGA(data)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", name, err)
		}
		return ToRGBA(img), nil
	case ".png", ".jpg", ".jpeg", ".bmp", ".tif", ".tiff", ".webp":
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", name, err)
		}
		return ToRGBA(img), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// LoadFile reads and decodes an image file.
func LoadFile(path string) (*image.RGBA, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read texture: %w", err)
	}
	return Decode(path, data)
}

// ToRGBA converts any image to *image.RGBA with its origin at (0, 0).
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}

// Resize scales img to w x h with bilinear filtering.
func Resize(img image.Image, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.BiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// Solid returns a size x size image filled with c.
func Solid(c color.Color, size int) *image.RGBA {
	if size < 1 {
		size = 1
	}
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

// RGB converts linear [0,1] channels to an opaque 8-bit color.
func RGB(r, g, b float32) color.RGBA {
	return color.RGBA{R: unorm(r), G: unorm(g), B: unorm(b), A: 255}
}

// FlatNormal is the tangent-space normal pointing straight out of the surface.
var FlatNormal = color.RGBA{R: 128, G: 128, B: 255, A: 255}

func unorm(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	default:
		return uint8(v*255 + 0.5)
	}
}

// Checker returns a size x size checkerboard of cells x cells squares.
func Checker(a, b color.Color, size, cells int) *image.RGBA {
	if size < 1 {
		size = 1
	}
	if cells < 1 {
		cells = 1
	}
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	ua, ub := image.NewUniform(a), image.NewUniform(b)
	for cy := 0; cy < cells; cy++ {
		for cx := 0; cx < cells; cx++ {
			src := ua
			if (cx+cy)%2 == 1 {
				src = ub
			}
			r := image.Rect(cx*size/cells, cy*size/cells, (cx+1)*size/cells, (cy+1)*size/cells)
			draw.Draw(img, r, src, image.Point{}, draw.Src)
		}
	}
	return img
}
