package texture

import (
	"image"
	"image/color"
	"math"
	"math/rand/v2"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// scratchTilt is how far a groove bends the normal away from +Z.
const scratchTilt = 0.6

// Scratches returns a tangent-space normal map of count straight grooves
// on an otherwise flat surface. The pattern depends only on seed.
func Scratches(size, count int, seed uint64) *image.RGBA {
	img := Solid(FlatNormal, size)
	size = img.Bounds().Dx()
	rng := rand.New(rand.NewPCG(seed, seed+1))

	for i := 0; i < count; i++ {
		x0 := rng.Float32() * float32(size)
		y0 := rng.Float32() * float32(size)
		angle := rng.Float32() * math.Pi
		length := (0.1 + 0.4*rng.Float32()) * float32(size)

		sin, cos := math32.Sincos(angle)
		// The groove wall faces across the stroke.
		n := mgl32.Vec3{-sin * scratchTilt, cos * scratchTilt, 1}.Normalize()
		c := encodeNormal(n)

		steps := int(length)
		for s := 0; s <= steps; s++ {
			px := int(x0+cos*float32(s)) % size
			py := int(y0+sin*float32(s)) % size
			if px < 0 {
				px += size
			}
			if py < 0 {
				py += size
			}
			img.SetRGBA(px, py, c)
		}
	}
	return img
}

func encodeNormal(n mgl32.Vec3) color.RGBA {
	return color.RGBA{
		R: unorm(n.X()*0.5 + 0.5),
		G: unorm(n.Y()*0.5 + 0.5),
		B: unorm(n.Z()*0.5 + 0.5),
		A: 255,
	}
}
