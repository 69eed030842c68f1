package texture

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// TGA image types.
const (
	TGATypeUncompressed = 2
	TGATypeRLE          = 10
)

var errTGATruncated = errors.New("tga: data truncated")

// DecodeTGA decodes uncompressed or RLE true-color TGA data with 24 or 32 bits per pixel.
func DecodeTGA(data []byte) (image.Image, error) {
	if len(data) < 18 {
		return nil, errTGATruncated
	}

	idLength := int(data[0])
	colorMapType := data[1]
	imageType := int(data[2])
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	topToBottom := data[17]&0x20 != 0

	if colorMapType != 0 {
		return nil, errors.New("tga: color-mapped images not supported")
	}
	if imageType != TGATypeUncompressed && imageType != TGATypeRLE {
		return nil, fmt.Errorf("tga: unsupported image type %d", imageType)
	}
	if bpp != 24 && bpp != 32 {
		return nil, fmt.Errorf("tga: unsupported bit depth %d", bpp)
	}

	offset := 18 + idLength
	if offset > len(data) {
		return nil, errTGATruncated
	}

	w := &tgaWriter{
		img:         image.NewRGBA(image.Rect(0, 0, width, height)),
		width:       width,
		height:      height,
		bytes:       bpp / 8,
		topToBottom: topToBottom,
	}
	src := data[offset:]
	if imageType == TGATypeUncompressed {
		if len(src) < width*height*w.bytes {
			return nil, errTGATruncated
		}
		for i := 0; i < width*height; i++ {
			w.put(w.pixel(src[i*w.bytes:]))
		}
		return w.img, nil
	}

	if err := w.decodeRLE(src); err != nil {
		return nil, err
	}
	return w.img, nil
}

// tgaWriter places pixels in file order, honouring the vertical origin bit.
type tgaWriter struct {
	img           *image.RGBA
	width, height int
	bytes         int
	topToBottom   bool
	n             int
}

func (w *tgaWriter) done() bool { return w.n >= w.width*w.height }

func (w *tgaWriter) pixel(b []byte) color.RGBA {
	c := color.RGBA{R: b[2], G: b[1], B: b[0], A: 255}
	if w.bytes == 4 {
		c.A = b[3]
	}
	return c
}

func (w *tgaWriter) put(c color.RGBA) {
	x, y := w.n%w.width, w.n/w.width
	if !w.topToBottom {
		y = w.height - 1 - y
	}
	w.img.SetRGBA(x, y, c)
	w.n++
}

func (w *tgaWriter) decodeRLE(src []byte) error {
	i := 0
	for !w.done() {
		if i >= len(src) {
			return errTGATruncated
		}
		packet := src[i]
		i++
		count := int(packet&0x7F) + 1

		if packet&0x80 != 0 {
			if i+w.bytes > len(src) {
				return errTGATruncated
			}
			c := w.pixel(src[i:])
			i += w.bytes
			for k := 0; k < count && !w.done(); k++ {
				w.put(c)
			}
			continue
		}
		for k := 0; k < count && !w.done(); k++ {
			if i+w.bytes > len(src) {
				return errTGATruncated
			}
			w.put(w.pixel(src[i:]))
			i += w.bytes
		}
	}
	return nil
}
