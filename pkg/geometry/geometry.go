// Package geometry generates indexed triangle meshes.
package geometry

import (
	"math"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Vertex is the interleaved layout consumed by the mesh shaders.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	UV       mgl32.Vec2
	Tangent  mgl32.Vec3
}

// VertexStride is the size of Vertex in bytes.
const VertexStride = (3 + 3 + 2 + 3) * 4

// Attribute offsets within Vertex, in bytes.
const (
	OffsetPosition = 0
	OffsetNormal   = 3 * 4
	OffsetUV       = 6 * 4
	OffsetTangent  = 8 * 4
)

// Mesh is CPU-side indexed geometry with counter-clockwise front faces.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
}

// Bounds returns the axis-aligned extent of the vertices.
func (m *Mesh) Bounds() (min, max mgl32.Vec3) {
	if len(m.Vertices) == 0 {
		return
	}
	min = m.Vertices[0].Position
	max = min
	for _, v := range m.Vertices[1:] {
		for i := 0; i < 3; i++ {
			min[i] = math32.Min(min[i], v.Position[i])
			max[i] = math32.Max(max[i], v.Position[i])
		}
	}
	return min, max
}

// Sphere builds a UV sphere. slices is the count around Y and stacks the
// count from pole to pole; both are raised to at least 3 and 2.
func Sphere(radius float32, slices, stacks int) *Mesh {
	if slices < 3 {
		slices = 3
	}
	if stacks < 2 {
		stacks = 2
	}

	m := &Mesh{
		Vertices: make([]Vertex, 0, (slices+1)*(stacks+1)),
		Indices:  make([]uint32, 0, slices*stacks*6),
	}

	for st := 0; st <= stacks; st++ {
		v := float32(st) / float32(stacks)
		phi := v * math.Pi
		sinPhi, cosPhi := math32.Sincos(phi)
		for sl := 0; sl <= slices; sl++ {
			u := float32(sl) / float32(slices)
			theta := u * 2 * math.Pi
			sinTheta, cosTheta := math32.Sincos(theta)

			n := mgl32.Vec3{sinPhi * cosTheta, cosPhi, sinPhi * sinTheta}
			m.Vertices = append(m.Vertices, Vertex{
				Position: n.Mul(radius),
				Normal:   n,
				UV:       mgl32.Vec2{u, v},
				Tangent:  mgl32.Vec3{-sinTheta, 0, cosTheta},
			})
		}
	}

	ring := uint32(slices + 1)
	for st := 0; st < stacks; st++ {
		for sl := 0; sl < slices; sl++ {
			a := uint32(st)*ring + uint32(sl)
			b := a + ring
			m.Indices = append(m.Indices, a, a+1, b, a+1, b+1, b)
		}
	}
	return m
}

// Cube builds an axis-aligned cube centred on the origin with its own
// vertices per face so normals stay flat.
func Cube(size float32) *Mesh {
	h := size / 2
	faces := []struct {
		normal, tangent, up mgl32.Vec3
	}{
		{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}},
		{mgl32.Vec3{0, -1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, 1}},
		{mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{0, 0, -1}, mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 1, 0}},
	}
	corners := [4]mgl32.Vec2{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}

	m := &Mesh{
		Vertices: make([]Vertex, 0, 24),
		Indices:  make([]uint32, 0, 36),
	}
	for _, f := range faces {
		base := uint32(len(m.Vertices))
		for _, c := range corners {
			p := f.normal.Add(f.tangent.Mul(c.X())).Add(f.up.Mul(c.Y())).Mul(h)
			m.Vertices = append(m.Vertices, Vertex{
				Position: p,
				Normal:   f.normal,
				UV:       mgl32.Vec2{(c.X() + 1) / 2, (1 - c.Y()) / 2},
				Tangent:  f.tangent,
			})
		}
		m.Indices = append(m.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	return m
}

// Floats returns the vertices flattened in VertexStride layout.
func (m *Mesh) Floats() []float32 {
	out := make([]float32, 0, len(m.Vertices)*VertexStride/4)
	for _, v := range m.Vertices {
		out = append(out,
			v.Position[0], v.Position[1], v.Position[2],
			v.Normal[0], v.Normal[1], v.Normal[2],
			v.UV[0], v.UV[1],
			v.Tangent[0], v.Tangent[1], v.Tangent[2],
		)
	}
	return out
}
