package renderer

import (
	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/pbrview/pkg/geometry"
)

// Mesh is an indexed vertex array on the GPU.
type Mesh struct {
	name    string
	vao     uint32
	vbo     uint32
	ebo     uint32
	indices int32
}

// NewMesh uploads m with the attribute layout of geometry.Vertex.
func NewMesh(name string, m *geometry.Mesh) *Mesh {
	gm := &Mesh{name: name, indices: int32(len(m.Indices))}
	floats := m.Floats()

	gl.GenVertexArrays(1, &gm.vao)
	gl.BindVertexArray(gm.vao)

	gl.GenBuffers(1, &gm.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, gm.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(floats)*4, gl.Ptr(floats), gl.STATIC_DRAW)

	gl.GenBuffers(1, &gm.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, gm.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*4, gl.Ptr(m.Indices), gl.STATIC_DRAW)

	attrib := func(loc uint32, size int32, offset int) {
		gl.VertexAttribPointer(loc, size, gl.FLOAT, false, geometry.VertexStride, gl.PtrOffset(offset))
		gl.EnableVertexAttribArray(loc)
	}
	attrib(0, 3, geometry.OffsetPosition)
	attrib(1, 3, geometry.OffsetNormal)
	attrib(2, 2, geometry.OffsetUV)
	attrib(3, 3, geometry.OffsetTangent)

	gl.BindVertexArray(0)
	return gm
}

// Name returns the mesh name.
func (m *Mesh) Name() string { return m.name }

// IndexCount returns the number of indices drawn.
func (m *Mesh) IndexCount() int32 { return m.indices }

// Draw issues the indexed draw.
func (m *Mesh) Draw() {
	gl.BindVertexArray(m.vao)
	gl.DrawElements(gl.TRIANGLES, m.indices, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

// Delete releases the GPU buffers.
func (m *Mesh) Delete() {
	gl.DeleteVertexArrays(1, &m.vao)
	gl.DeleteBuffers(1, &m.vbo)
	gl.DeleteBuffers(1, &m.ebo)
}
