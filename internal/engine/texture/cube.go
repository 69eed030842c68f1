package texture

import (
	"fmt"
	"image"
	"image/color"
	"path/filepath"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Face indexes a cube map face in GL order.
type Face int

const (
	PositiveX Face = iota
	NegativeX
	PositiveY
	NegativeY
	PositiveZ
	NegativeZ
)

// FaceNames are the file name stems LoadCube looks for.
var FaceNames = [6]string{"posx", "negx", "posy", "negy", "posz", "negz"}

// Cube is six square faces of equal size.
type Cube [6]*image.RGBA

// Size returns the edge length of the faces.
func (c *Cube) Size() int {
	if c[0] == nil {
		return 0
	}
	return c[0].Bounds().Dx()
}

// LoadCube loads <dir>/<face><ext> for each of FaceNames.
func LoadCube(dir, ext string) (Cube, error) {
	var c Cube
	for i, name := range FaceNames {
		img, err := LoadFile(filepath.Join(dir, name+ext))
		if err != nil {
			return Cube{}, err
		}
		if img.Bounds().Dx() != img.Bounds().Dy() {
			return Cube{}, fmt.Errorf("cube face %s is not square", name)
		}
		if i > 0 && img.Bounds().Dx() != c[0].Bounds().Dx() {
			return Cube{}, fmt.Errorf("cube face %s size differs from %s", name, FaceNames[0])
		}
		c[i] = img
	}
	return c, nil
}

// Direction returns the unnormalised direction through texel (x, y) of a face.
func Direction(face Face, x, y, size int) mgl32.Vec3 {
	s := 2*(float32(x)+0.5)/float32(size) - 1
	t := 2*(float32(y)+0.5)/float32(size) - 1
	switch face {
	case PositiveX:
		return mgl32.Vec3{1, -t, -s}
	case NegativeX:
		return mgl32.Vec3{-1, -t, s}
	case PositiveY:
		return mgl32.Vec3{s, 1, t}
	case NegativeY:
		return mgl32.Vec3{s, -1, -t}
	case PositiveZ:
		return mgl32.Vec3{s, -t, 1}
	default:
		return mgl32.Vec3{-s, -t, -1}
	}
}

// Lookup returns the face and texel a direction hits.
func Lookup(dir mgl32.Vec3, size int) (Face, int, int) {
	ax, ay, az := math32.Abs(dir[0]), math32.Abs(dir[1]), math32.Abs(dir[2])
	var face Face
	var sc, tc, ma float32
	switch {
	case ax >= ay && ax >= az:
		ma = ax
		if dir[0] > 0 {
			face, sc, tc = PositiveX, -dir[2], -dir[1]
		} else {
			face, sc, tc = NegativeX, dir[2], -dir[1]
		}
	case ay >= az:
		ma = ay
		if dir[1] > 0 {
			face, sc, tc = PositiveY, dir[0], dir[2]
		} else {
			face, sc, tc = NegativeY, dir[0], -dir[2]
		}
	default:
		ma = az
		if dir[2] > 0 {
			face, sc, tc = PositiveZ, dir[0], -dir[1]
		} else {
			face, sc, tc = NegativeZ, -dir[0], -dir[1]
		}
	}
	if ma == 0 {
		return PositiveZ, size / 2, size / 2
	}
	x := int((sc/ma + 1) / 2 * float32(size))
	y := int((tc/ma + 1) / 2 * float32(size))
	return face, clampInt(x, 0, size-1), clampInt(y, 0, size-1)
}

// Sample returns the nearest texel color along dir in linear [0,1] RGB.
func (c *Cube) Sample(dir mgl32.Vec3) mgl32.Vec3 {
	face, x, y := Lookup(dir, c.Size())
	p := c[face].RGBAAt(x, y)
	return mgl32.Vec3{float32(p.R) / 255, float32(p.G) / 255, float32(p.B) / 255}
}

// GradientCube builds a sky that blends from nadir through horizon to zenith.
func GradientCube(size int, zenith, horizon, nadir mgl32.Vec3) Cube {
	var c Cube
	for f := range c {
		img := image.NewRGBA(image.Rect(0, 0, size, size))
		for y := 0; y < size; y++ {
			for x := 0; x < size; x++ {
				d := Direction(Face(f), x, y, size).Normalize()
				var col mgl32.Vec3
				if d.Y() >= 0 {
					col = lerp(horizon, zenith, math32.Sqrt(d.Y()))
				} else {
					col = lerp(horizon, nadir, math32.Sqrt(-d.Y()))
				}
				img.SetRGBA(x, y, RGB(col[0], col[1], col[2]))
			}
		}
		c[f] = img
	}
	return c
}

// SolidCube builds a cube with every texel set to col.
func SolidCube(size int, col color.Color) Cube {
	var c Cube
	for f := range c {
		c[f] = Solid(col, size)
	}
	return c
}

func lerp(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
