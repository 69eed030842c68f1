package texture

import (
	"image"
	"math"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

type texel struct {
	dir    mgl32.Vec3
	color  mgl32.Vec3
	weight float32 // solid angle
}

// IrradianceCube convolves src with a cosine lobe into a size x size cube.
// The source is first reduced to sampleSize texels per edge.
func IrradianceCube(src Cube, size, sampleSize int) Cube {
	reduced := src
	if src.Size() != sampleSize {
		for f := range reduced {
			reduced[f] = Resize(src[f], sampleSize, sampleSize)
		}
	}

	texels := make([]texel, 0, 6*sampleSize*sampleSize)
	for f := 0; f < 6; f++ {
		for y := 0; y < sampleSize; y++ {
			for x := 0; x < sampleSize; x++ {
				d := Direction(Face(f), x, y, sampleSize)
				// Texel solid angle is proportional to 1/|d|^3 on a unit-distance face.
				l := d.Len()
				p := reduced[f].RGBAAt(x, y)
				texels = append(texels, texel{
					dir:    d.Mul(1 / l),
					color:  mgl32.Vec3{float32(p.R) / 255, float32(p.G) / 255, float32(p.B) / 255},
					weight: 1 / (l * l * l),
				})
			}
		}
	}

	var out Cube
	for f := range out {
		img := image.NewRGBA(image.Rect(0, 0, size, size))
		for y := 0; y < size; y++ {
			for x := 0; x < size; x++ {
				n := Direction(Face(f), x, y, size).Normalize()
				var sum mgl32.Vec3
				var total float32
				for _, t := range texels {
					c := n.Dot(t.dir)
					if c <= 0 {
						continue
					}
					w := c * t.weight
					sum = sum.Add(t.color.Mul(w))
					total += w
				}
				if total > 0 {
					sum = sum.Mul(1 / total)
				}
				img.SetRGBA(x, y, RGB(sum[0], sum[1], sum[2]))
			}
		}
		out[f] = img
	}
	return out
}

// PrefilterSpecular convolves src with the GGX lobe once per mip level of
// a size x size cube. Level i uses roughness i/(levels-1), so level 0 is the
// mirror reflection and the last level the roughest.
func PrefilterSpecular(src Cube, size, samples int) []Cube {
	levels := MipLevels(size)
	out := make([]Cube, levels)
	for level := range out {
		roughness := float32(0)
		if levels > 1 {
			roughness = float32(level) / float32(levels-1)
		}
		out[level] = prefilterLevel(src, max(size>>level, 1), roughness, samples)
	}
	return out
}

func prefilterLevel(src Cube, size int, roughness float32, samples int) Cube {
	var out Cube
	for f := range out {
		img := image.NewRGBA(image.Rect(0, 0, size, size))
		for y := 0; y < size; y++ {
			for x := 0; x < size; x++ {
				n := Direction(Face(f), x, y, size).Normalize()
				c := prefilterTexel(src, n, roughness, samples)
				img.SetRGBA(x, y, RGB(c[0], c[1], c[2]))
			}
		}
		out[f] = img
	}
	return out
}

// prefilterTexel assumes the view direction equals the normal.
func prefilterTexel(src Cube, n mgl32.Vec3, roughness float32, samples int) mgl32.Vec3 {
	if roughness == 0 {
		return src.Sample(n)
	}
	up := mgl32.Vec3{0, 0, 1}
	if math32.Abs(n.Z()) > 0.999 {
		up = mgl32.Vec3{1, 0, 0}
	}
	tx := up.Cross(n).Normalize()
	ty := n.Cross(tx)

	var sum mgl32.Vec3
	var total float32
	for i := 0; i < samples; i++ {
		h := importanceSampleGGX(hammersley(uint32(i), uint32(samples)), roughness)
		h = tx.Mul(h.X()).Add(ty.Mul(h.Y())).Add(n.Mul(h.Z()))
		l := h.Mul(2 * n.Dot(h)).Sub(n)
		nl := n.Dot(l)
		if nl <= 0 {
			continue
		}
		sum = sum.Add(src.Sample(l).Mul(nl))
		total += nl
	}
	if total == 0 {
		return src.Sample(n)
	}
	return sum.Mul(1 / total)
}

// MipLevels returns the length of a full mip chain for a size x size texture.
func MipLevels(size int) int {
	n := 1
	for size > 1 {
		size /= 2
		n++
	}
	return n
}

// BRDFLookup integrates the split-sum GGX environment BRDF. The red channel
// holds the scale and green the bias applied to F0, indexed by N·V along x
// and roughness along y.
func BRDFLookup(size, samples int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		roughness := (float32(y) + 0.5) / float32(size)
		for x := 0; x < size; x++ {
			nv := (float32(x) + 0.5) / float32(size)
			a, b := integrateBRDF(nv, roughness, samples)
			img.SetRGBA(x, y, RGB(a, b, 0))
		}
	}
	return img
}

func integrateBRDF(nv, roughness float32, samples int) (float32, float32) {
	v := mgl32.Vec3{math32.Sqrt(1 - nv*nv), 0, nv}
	n := mgl32.Vec3{0, 0, 1}
	var a, b float32
	for i := 0; i < samples; i++ {
		xi := hammersley(uint32(i), uint32(samples))
		h := importanceSampleGGX(xi, roughness)
		l := h.Mul(2 * v.Dot(h)).Sub(v)

		nl := math32.Max(l.Z(), 0)
		nh := math32.Max(h.Z(), 0)
		vh := math32.Max(v.Dot(h), 0)
		if nl <= 0 {
			continue
		}
		g := geometrySmith(n.Dot(v), nl, roughness)
		gVis := g * vh / (nh * nv)
		fc := math32.Pow(1-vh, 5)
		a += (1 - fc) * gVis
		b += fc * gVis
	}
	return a / float32(samples), b / float32(samples)
}

func hammersley(i, n uint32) mgl32.Vec2 {
	bits := i
	bits = (bits << 16) | (bits >> 16)
	bits = ((bits & 0x55555555) << 1) | ((bits & 0xAAAAAAAA) >> 1)
	bits = ((bits & 0x33333333) << 2) | ((bits & 0xCCCCCCCC) >> 2)
	bits = ((bits & 0x0F0F0F0F) << 4) | ((bits & 0xF0F0F0F0) >> 4)
	bits = ((bits & 0x00FF00FF) << 8) | ((bits & 0xFF00FF00) >> 8)
	return mgl32.Vec2{float32(i) / float32(n), float32(bits) * 2.3283064365386963e-10}
}

func importanceSampleGGX(xi mgl32.Vec2, roughness float32) mgl32.Vec3 {
	a := roughness * roughness
	phi := 2 * math.Pi * xi.X()
	cosTheta := math32.Sqrt((1 - xi.Y()) / (1 + (a*a-1)*xi.Y()))
	sinTheta := math32.Sqrt(1 - cosTheta*cosTheta)
	sp, cp := math32.Sincos(phi)
	return mgl32.Vec3{cp * sinTheta, sp * sinTheta, cosTheta}
}

func geometrySmith(nv, nl, roughness float32) float32 {
	k := roughness * roughness / 2
	gv := nv / (nv*(1-k) + k)
	gl := nl / (nl*(1-k) + k)
	return gv * gl
}
