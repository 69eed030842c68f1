// Package material implements the late-bound material model: named textures,
// samplers and constants that are pushed into whatever shader stages the
// material references at draw time.
package material

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/pbrview/internal/engine/gpu"
)

// Slot names understood by the bundled shaders.
const (
	Albedo           = "Albedo"
	NormalMap        = "NormalMap"
	RoughnessMap     = "RoughnessMap"
	MetalMap         = "MetalMap"
	BrdfLookupMap    = "BrdfLookupMap"
	IrradianceIBLMap = "IrradianceIBLMap"
	SpecularIBLMap   = "SpecularIBLMap"

	BasicSampler = "BasicSampler"
	ClampSampler = "ClampSampler"
)

// Constant names written by Bind.
const (
	ColorTint = "colorTint"
	UVScale   = "uvScale"
)

// Material associates a shader pair with resources and two built-in constants.
type Material struct {
	name     string
	vertex   gpu.Stage
	pixel    gpu.Stage
	tint     mgl32.Vec3
	uvTiling mgl32.Vec2

	textures map[string]gpu.Texture
	samplers map[string]gpu.Sampler

	reporter Reporter
}

// Option configures a Material.
type Option func(*Material)

// WithTint sets the initial color tint.
func WithTint(tint mgl32.Vec3) Option {
	return func(m *Material) { m.tint = tint }
}

// WithUVTiling sets the initial UV tiling.
func WithUVTiling(u, v float32) Option {
	return func(m *Material) { m.uvTiling = mgl32.Vec2{u, v} }
}

// WithReporter routes unresolved bindings to r instead of discarding them.
func WithReporter(r Reporter) Option {
	return func(m *Material) { m.reporter = r }
}

// New creates a material for the given vertex and pixel stages.
func New(name string, vertex, pixel gpu.Stage, opts ...Option) *Material {
	m := &Material{
		name:     name,
		vertex:   vertex,
		pixel:    pixel,
		tint:     mgl32.Vec3{1, 1, 1},
		uvTiling: mgl32.Vec2{1, 1},
		textures: make(map[string]gpu.Texture),
		samplers: make(map[string]gpu.Sampler),
		reporter: Discard,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Material) Name() string           { return m.name }
func (m *Material) VertexStage() gpu.Stage { return m.vertex }
func (m *Material) PixelStage() gpu.Stage  { return m.pixel }
func (m *Material) Tint() mgl32.Vec3       { return m.tint }
func (m *Material) UVTiling() mgl32.Vec2   { return m.uvTiling }

// AddTexture registers or overwrites the texture bound to a slot name.
func (m *Material) AddTexture(name string, tex gpu.Texture) {
	m.textures[name] = tex
}

// AddSampler registers or overwrites the sampler bound to a slot name.
func (m *Material) AddSampler(name string, s gpu.Sampler) {
	m.samplers[name] = s
}

// Texture returns the texture registered for name.
func (m *Material) Texture(name string) (gpu.Texture, bool) {
	tex, ok := m.textures[name]
	return tex, ok
}

// Sampler returns the sampler registered for name.
func (m *Material) Sampler(name string) (gpu.Sampler, bool) {
	s, ok := m.samplers[name]
	return s, ok
}

// TextureNames returns the registered texture slot names, sorted.
func (m *Material) TextureNames() []string { return sortedKeys(m.textures) }

// SamplerNames returns the registered sampler slot names, sorted.
func (m *Material) SamplerNames() []string { return sortedKeys(m.samplers) }

// SetTint sets the color tint.
func (m *Material) SetTint(rgb mgl32.Vec3) { m.tint = rgb }

// SetUVTiling sets the UV tiling factor.
func (m *Material) SetUVTiling(u, v float32) { m.uvTiling = mgl32.Vec2{u, v} }

// Bind pushes tint, tiling, textures and samplers into the pixel stage.
// Names the stage does not declare are skipped and reported.
func (m *Material) Bind() {
	ps := m.pixel

	if !ps.SetFloat3(ColorTint, m.tint) {
		m.report(KindConstant, ColorTint)
	}
	if !ps.SetFloat2(UVScale, m.uvTiling) {
		m.report(KindConstant, UVScale)
	}

	for _, name := range m.TextureNames() {
		if !ps.SetTexture(name, m.textures[name]) {
			m.report(KindTexture, name)
		}
	}
	for _, name := range m.SamplerNames() {
		if !ps.SetSampler(name, m.samplers[name]) {
			m.report(KindSampler, name)
		}
	}
}

// Validate reports the constants and textures the pixel stage does not
// declare, according to declares, without touching the stage. It returns
// how many it reported.
func (m *Material) Validate(declares func(name string) bool) int {
	n := 0
	for _, name := range []string{ColorTint, UVScale} {
		if !declares(name) {
			m.report(KindConstant, name)
			n++
		}
	}
	for _, name := range m.TextureNames() {
		if !declares(name) {
			m.report(KindTexture, name)
			n++
		}
	}
	return n
}

func (m *Material) report(kind Kind, name string) {
	m.reporter.Unresolved(Binding{
		Material: m.name,
		Stage:    m.pixel.Name(),
		Kind:     kind,
		Name:     name,
	})
}

func sortedKeys[V any](in map[string]V) []string {
	keys := make([]string, 0, len(in))
	for k := range in {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
