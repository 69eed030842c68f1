// Package gpu defines the narrow contracts the scene core uses to talk to a
// drawing backend. The OpenGL implementations live in the shader and renderer
// packages; tests use recording fakes.
package gpu

import "github.com/go-gl/mathgl/mgl32"

// Texture is an opaque texture handle (a GL texture name in the GL backend).
type Texture uint32

// Sampler is an opaque sampler-state handle.
type Sampler uint32

// Stage is one shader stage of a program.
//
// All setters address constants and resource slots by name. A name the stage
// does not declare is ignored and reported back as false; callers must not
// treat that as an error.
type Stage interface {
	Name() string

	SetInt(name string, v int32) bool
	SetFloat(name string, v float32) bool
	SetFloat2(name string, v mgl32.Vec2) bool
	SetFloat3(name string, v mgl32.Vec3) bool
	SetMatrix4(name string, v mgl32.Mat4) bool

	SetTexture(name string, tex Texture) bool
	SetSampler(name string, s Sampler) bool

	// Flush uploads all pending constant writes.
	Flush()
	// Use makes the stage active for the following draw.
	Use()
}

// Mesh is drawable geometry.
type Mesh interface {
	// Draw binds the vertex/index data and issues the indexed draw.
	Draw()
	IndexCount() int32
}

// Pipeline is the frame-level state the orchestrator controls directly.
type Pipeline interface {
	Clear(color mgl32.Vec4, depth float32, stencil int32)
	// ResetRenderStates restores default blend and depth state.
	ResetRenderStates()
	Present()
}
