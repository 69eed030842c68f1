package texture

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

func checker() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.NRGBA{255, 0, 0, 255})
	img.Set(1, 0, color.NRGBA{0, 255, 0, 255})
	img.Set(0, 1, color.NRGBA{0, 0, 255, 255})
	img.Set(1, 1, color.NRGBA{255, 255, 255, 255})
	return img
}

func TestDecodeRegisteredFormats(t *testing.T) {
	var pngBuf, bmpBuf, tiffBuf bytes.Buffer
	require.NoError(t, png.Encode(&pngBuf, checker()))
	require.NoError(t, bmp.Encode(&bmpBuf, checker()))
	require.NoError(t, tiff.Encode(&tiffBuf, checker(), nil))

	inputs := map[string][]byte{
		"a.png":  pngBuf.Bytes(),
		"b.BMP":  bmpBuf.Bytes(),
		"c.tiff": tiffBuf.Bytes(),
	}
	for name, data := range inputs {
		img, err := Decode(name, data)
		require.NoError(t, err, name)
		assert.Equal(t, color.RGBA{0, 255, 0, 255}, img.RGBAAt(1, 0), name)
		assert.Equal(t, color.RGBA{0, 0, 255, 255}, img.RGBAAt(0, 1), name)
	}
}

func TestDecodeUnsupported(t *testing.T) {
	_, err := Decode("x.gif", nil)
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))

	_, err = Decode("x.png", []byte("nope"))
	assert.Error(t, err)
}

func tgaHeader(imageType byte, w, h int, bpp byte, descriptor byte) []byte {
	return []byte{0, 0, imageType, 0, 0, 0, 0, 0, 0, 0, 0, 0,
		byte(w), byte(w >> 8), byte(h), byte(h >> 8), bpp, descriptor}
}

func TestDecodeTGAUncompressed(t *testing.T) {
	// Bottom-up 2x1 BGR: red then green.
	data := append(tgaHeader(TGATypeUncompressed, 2, 1, 24, 0), 0, 0, 255, 0, 255, 0)
	img, err := DecodeTGA(data)
	require.NoError(t, err)
	rgba := ToRGBA(img)
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, rgba.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{0, 255, 0, 255}, rgba.RGBAAt(1, 0))
}

func TestDecodeTGARLEFlip(t *testing.T) {
	// 1x2 bottom-up: one run packet of two BGRA pixels covers both rows,
	// so check with a raw packet to see the flip.
	data := append(tgaHeader(TGATypeRLE, 1, 2, 32, 0),
		0x01, // raw packet, 2 pixels
		255, 0, 0, 255, // blue, stored first = bottom row
		0, 0, 255, 128, // red, top row
	)
	img, err := DecodeTGA(data)
	require.NoError(t, err)
	rgba := ToRGBA(img)
	assert.Equal(t, color.RGBA{255, 0, 0, 128}, rgba.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{0, 0, 255, 255}, rgba.RGBAAt(0, 1))

	run := append(tgaHeader(TGATypeRLE, 3, 1, 24, 0x20), 0x82, 10, 20, 30)
	img, err = DecodeTGA(run)
	require.NoError(t, err)
	for x := 0; x < 3; x++ {
		assert.Equal(t, color.RGBA{30, 20, 10, 255}, ToRGBA(img).RGBAAt(x, 0))
	}
}

func TestDecodeTGAErrors(t *testing.T) {
	tests := map[string][]byte{
		"short":     {0, 1, 2},
		"colormap":  append([]byte{0, 1}, tgaHeader(2, 1, 1, 24, 0)[2:]...),
		"type":      tgaHeader(3, 1, 1, 24, 0),
		"depth":     tgaHeader(2, 1, 1, 16, 0),
		"truncated": tgaHeader(2, 4, 4, 24, 0),
		"rle":       append(tgaHeader(10, 4, 1, 24, 0), 0x83),
	}
	for name, data := range tests {
		_, err := DecodeTGA(data)
		assert.Error(t, err, name)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, checker()))
	path := filepath.Join(dir, "c.png")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	img, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, img.Bounds().Dx())

	_, err = LoadFile(filepath.Join(dir, "missing.png"))
	assert.Error(t, err)
}

func TestSolidAndRGB(t *testing.T) {
	img := Solid(RGB(0.5, 1, -1), 4)
	assert.Equal(t, 4, img.Bounds().Dx())
	assert.Equal(t, color.RGBA{128, 255, 0, 255}, img.RGBAAt(3, 3))
	assert.Equal(t, 1, Solid(color.White, 0).Bounds().Dx())
}

func TestCubeDirectionLookupRoundTrip(t *testing.T) {
	const size = 8
	for f := PositiveX; f <= NegativeZ; f++ {
		for y := 0; y < size; y++ {
			for x := 0; x < size; x++ {
				face, gx, gy := Lookup(Direction(f, x, y, size), size)
				if face != f || gx != x || gy != y {
					t.Fatalf("face %d texel (%d,%d) came back as face %d (%d,%d)", f, x, y, face, gx, gy)
				}
			}
		}
	}
}

func TestGradientCube(t *testing.T) {
	zenith := mgl32.Vec3{0, 0, 1}
	nadir := mgl32.Vec3{0, 1, 0}
	c := GradientCube(16, zenith, mgl32.Vec3{1, 1, 1}, nadir)
	assert.Equal(t, 16, c.Size())

	up := c.Sample(mgl32.Vec3{0, 1, 0})
	down := c.Sample(mgl32.Vec3{0, -1, 0})
	assert.Greater(t, up.Z(), up.X())
	assert.Greater(t, down.Y(), down.Z())
}

func TestLoadCube(t *testing.T) {
	dir := t.TempDir()
	for _, name := range FaceNames {
		var buf bytes.Buffer
		require.NoError(t, png.Encode(&buf, checker()))
		require.NoError(t, os.WriteFile(filepath.Join(dir, name+".png"), buf.Bytes(), 0o644))
	}
	c, err := LoadCube(dir, ".png")
	require.NoError(t, err)
	assert.Equal(t, 2, c.Size())

	require.NoError(t, os.Remove(filepath.Join(dir, "negz.png")))
	_, err = LoadCube(dir, ".png")
	assert.Error(t, err)
}

func TestIrradianceOfUniformSky(t *testing.T) {
	grey := color.RGBA{100, 150, 200, 255}
	c := IrradianceCube(SolidCube(4, grey), 2, 4)
	for f := range c {
		p := c[f].RGBAAt(1, 1)
		assert.InDelta(t, 100, p.R, 1)
		assert.InDelta(t, 150, p.G, 1)
		assert.InDelta(t, 200, p.B, 1)
	}
}

func TestPrefilterSpecularMipChain(t *testing.T) {
	grey := color.RGBA{100, 150, 200, 255}
	levels := PrefilterSpecular(SolidCube(4, grey), 4, 16)
	require.Len(t, levels, MipLevels(4))

	for i, c := range levels {
		assert.Equal(t, max(4>>i, 1), c.Size(), "level %d", i)
		p := c[PositiveY].RGBAAt(0, 0)
		assert.InDelta(t, 100, p.R, 1, "level %d", i)
		assert.InDelta(t, 200, p.B, 1, "level %d", i)
	}
}

func TestPrefilterSpecularBlursWithRoughness(t *testing.T) {
	src := SolidCube(8, color.RGBA{0, 0, 0, 255})
	src[PositiveY] = SolidCube(8, color.RGBA{255, 255, 255, 255})[PositiveY]

	levels := PrefilterSpecular(src, 8, 64)
	up := mgl32.Vec3{0, 1, 0}
	mirror := levels[0][PositiveY]
	rough := levels[len(levels)-1]

	// The mirror level keeps the lit face, the roughest level mixes in the
	// dark sides around it.
	assert.Equal(t, uint8(255), mirror.RGBAAt(4, 4).R)
	assert.Less(t, rough.Sample(up).X(), float32(1))
	assert.Greater(t, rough.Sample(up).X(), float32(0))
}

func TestBRDFLookup(t *testing.T) {
	lut := BRDFLookup(8, 128)
	assert.Equal(t, 8, lut.Bounds().Dx())

	// Smooth surfaces seen head-on reflect F0 almost unchanged.
	p := lut.RGBAAt(7, 0)
	assert.InDelta(t, 255, int(p.R)+int(p.G), 20)

	// Grazing rough surfaces lose energy.
	q := lut.RGBAAt(0, 7)
	assert.Less(t, int(q.R)+int(q.G), int(p.R)+int(p.G))
}

func TestMipLevels(t *testing.T) {
	assert.Equal(t, 1, MipLevels(1))
	assert.Equal(t, 9, MipLevels(256))
	assert.Equal(t, 10, MipLevels(512))
}

func TestChecker(t *testing.T) {
	a := color.RGBA{255, 255, 255, 255}
	b := color.RGBA{0, 0, 0, 255}
	img := Checker(a, b, 8, 2)

	assert.Equal(t, a, img.RGBAAt(0, 0))
	assert.Equal(t, b, img.RGBAAt(4, 0))
	assert.Equal(t, b, img.RGBAAt(0, 4))
	assert.Equal(t, a, img.RGBAAt(7, 7))
}

func TestScratchesStayNormalized(t *testing.T) {
	img := Scratches(64, 40, 7)
	require.Equal(t, 64, img.Bounds().Dx())

	scratched := 0
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			c := img.RGBAAt(x, y)
			if c != FlatNormal {
				scratched++
			}
			n := mgl32.Vec3{
				float32(c.R)/127.5 - 1,
				float32(c.G)/127.5 - 1,
				float32(c.B)/127.5 - 1,
			}
			assert.InDelta(t, 1, n.Len(), 0.03)
			assert.Greater(t, n.Z(), float32(0))
		}
	}
	assert.Greater(t, scratched, 0)
	assert.Equal(t, img.Pix, Scratches(64, 40, 7).Pix, "same seed, same pattern")
}
