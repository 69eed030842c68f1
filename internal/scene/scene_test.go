package scene

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/pbrview/internal/engine/camera"
	"github.com/Faultbox/pbrview/internal/engine/entity"
	"github.com/Faultbox/pbrview/internal/engine/gpu"
	"github.com/Faultbox/pbrview/internal/engine/gpu/gputest"
	"github.com/Faultbox/pbrview/internal/engine/material"
	"github.com/Faultbox/pbrview/internal/engine/texture"
	"github.com/Faultbox/pbrview/pkg/geometry"
)

type fakeFactory struct {
	log      *gputest.Log
	programs map[string][2]*gputest.Stage
	images   map[string]*image.RGBA
	meshes   map[string]*geometry.Mesh
	next     gpu.Texture
}

func newFactory(shaders ...string) *fakeFactory {
	f := &fakeFactory{
		log:      &gputest.Log{},
		programs: make(map[string][2]*gputest.Stage),
		images:   make(map[string]*image.RGBA),
		meshes:   make(map[string]*geometry.Mesh),
	}
	for _, s := range shaders {
		f.programs[s] = [2]*gputest.Stage{
			gputest.NewStage(f.log, s+".vs"),
			gputest.NewStage(f.log, s+".ps"),
		}
	}
	return f
}

func (f *fakeFactory) Program(name string) (gpu.Stage, gpu.Stage, error) {
	p, ok := f.programs[name]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownShader, name)
	}
	return p[0], p[1], nil
}

func (f *fakeFactory) Texture(name string, img *image.RGBA) gpu.Texture {
	f.next++
	f.images[name] = img
	return f.next
}

func (f *fakeFactory) Mesh(name string, m *geometry.Mesh) gpu.Mesh {
	f.meshes[name] = m
	return &gputest.Mesh{MeshName: name, Indices: int32(len(m.Indices)), Log: f.log}
}

func (f *fakeFactory) Sampler(name string) gpu.Sampler {
	if name == SamplerClamp {
		return 2
	}
	return 1
}

type fakeEnv struct{}

func (fakeEnv) IrradianceMap() gpu.Texture { return 101 }
func (fakeEnv) SpecularMap() gpu.Texture   { return 102 }
func (fakeEnv) BRDFLookup() gpu.Texture    { return 103 }
func (fakeEnv) SpecularMipLevels() int     { return 9 }
func (fakeEnv) Draw(*camera.Camera)        {}

func TestDefaultScene(t *testing.T) {
	d, err := Default()
	require.NoError(t, err)

	want := []struct {
		name string
		x    float32
	}{
		{"metal1", -6}, {"metal2", -4}, {"metal3", -2},
		{"plastic1", 0}, {"plastic2", 2}, {"plastic3", 4},
	}
	require.Len(t, d.Entities, len(want))
	for i, w := range want {
		e := d.Entities[i]
		assert.Equal(t, w.name, e.Name)
		assert.Equal(t, w.name, e.Material)
		assert.Equal(t, "sphere", e.Mesh)
		assert.Equal(t, [3]float32{w.x, 2, 0}, e.Position)
	}

	// Merged materials keep the shared fields and override textures.
	m2 := d.Materials["metal2"]
	assert.Equal(t, "pbr", m2.Shader)
	assert.True(t, m2.IBL)
	require.NotNil(t, m2.UVTiling)
	assert.Equal(t, [2]float32{2, 2}, *m2.UVTiling)
	assert.Equal(t, "gray", m2.Textures[material.RoughnessMap])
	assert.Equal(t, "clamp", m2.Samplers[material.ClampSampler])
	assert.Equal(t, "black", d.Materials["plastic3"].Textures[material.MetalMap])
}

func TestBuildDefaultScene(t *testing.T) {
	d, err := Default()
	require.NoError(t, err)
	f := newFactory("pbr", "basic")

	s, err := Build(d, f, Options{Env: fakeEnv{}})
	require.NoError(t, err)

	require.Len(t, s.Entities, 6)
	assert.Equal(t, "plastic1", s.Entities[3].Name())
	assert.Equal(t, mgl32.Vec3{0, 2, 0}, s.Entities[3].Transform().Position())
	assert.Same(t, s.Entities[0].Mesh(), s.Entities[5].Mesh(), "spheres share one mesh")

	metal1 := s.Materials["metal1"]
	assert.Same(t, metal1, s.Entities[0].Material())
	assert.Equal(t, mgl32.Vec2{2, 2}, metal1.UVTiling())
	tex, ok := metal1.Texture(material.IrradianceIBLMap)
	assert.True(t, ok)
	assert.EqualValues(t, 101, tex)
	smp, ok := metal1.Sampler(material.ClampSampler)
	assert.True(t, ok)
	assert.EqualValues(t, 2, smp)

	_, ok = s.Materials["checker_basic"].Texture(material.IrradianceIBLMap)
	assert.False(t, ok, "non-IBL materials get no environment maps")

	assert.Equal(t, s.Textures["white"], mustTexture(t, metal1, material.Albedo))
	assert.Equal(t, DefaultColorSize, f.images["white"].Bounds().Dx())
	assert.Equal(t, 512, f.images["scratched_normal"].Bounds().Dx())
	assert.Contains(t, s.MaterialNames(), "scratched_basic")
}

func mustTexture(t *testing.T, m *material.Material, slot string) gpu.Texture {
	t.Helper()
	tex, ok := m.Texture(slot)
	require.True(t, ok, slot)
	return tex
}

func TestBuildAppliesTransformAndTint(t *testing.T) {
	d, err := Parse([]byte(`
textures:
  red: { color: [1, 0, 0] }
meshes:
  box: { shape: cube, size: 2 }
materials:
  red:
    shader: solid
    tint: [0.5, 0.5, 0.5]
    textures: { Albedo: red }
entities:
  - { mesh: box, material: red, position: [1, 2, 3], rotation: [0, 90, 0], scale: [2, 2, 2] }
`))
	require.NoError(t, err)
	f := newFactory("solid")

	s, err := Build(d, f, Options{})
	require.NoError(t, err)

	e := s.Entities[0]
	assert.Equal(t, "entity0", e.Name())
	assert.Equal(t, mgl32.Vec3{2, 2, 2}, e.Transform().Scale())
	assert.InDelta(t, mgl32.DegToRad(90), e.Transform().PitchYawRoll().Y(), 1e-6)
	assert.Equal(t, mgl32.Vec3{0.5, 0.5, 0.5}, e.Material().Tint())
	assert.Len(t, f.meshes["box"].Vertices, 24)
}

func TestUnknownReferences(t *testing.T) {
	cases := []struct {
		name string
		yaml string
		want error
	}{
		{
			name: "mesh",
			yaml: `
materials: { m: { shader: pbr } }
entities: [ { mesh: nope, material: m } ]`,
			want: ErrUnknownMesh,
		},
		{
			name: "material",
			yaml: `
meshes: { s: { shape: sphere } }
entities: [ { mesh: s, material: nope } ]`,
			want: ErrUnknownMaterial,
		},
		{
			name: "texture",
			yaml: `
materials: { m: { shader: pbr, textures: { Albedo: nope } } }`,
			want: ErrUnknownTexture,
		},
		{
			name: "sampler",
			yaml: `
materials: { m: { shader: pbr, samplers: { BasicSampler: bilinear } } }`,
			want: ErrUnknownSampler,
		},
		{
			name: "shape",
			yaml: `
meshes: { s: { shape: torus } }`,
			want: ErrInvalid,
		},
		{
			name: "two texture sources",
			yaml: `
textures: { t: { color: [1, 1, 1], file: a.png } }`,
			want: ErrInvalid,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml))
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
		})
	}
}

func TestUnknownShader(t *testing.T) {
	d, err := Parse([]byte(`
materials: { m: { shader: toon } }`))
	require.NoError(t, err)

	_, err = Build(d, newFactory("pbr"), Options{})
	assert.ErrorIs(t, err, ErrUnknownShader)

	assert.ErrorIs(t, d.Validate([]string{"pbr", "basic"}), ErrUnknownShader)
}

func TestFileTexturesResolveAgainstDir(t *testing.T) {
	dir := t.TempDir()
	img := texture.Solid(texture.RGB(0, 1, 0), 3)
	out, err := os.Create(filepath.Join(dir, "green.png"))
	require.NoError(t, err)
	require.NoError(t, png.Encode(out, img))
	require.NoError(t, out.Close())

	d, err := Parse([]byte(`
textures: { green: { file: green.png } }`))
	require.NoError(t, err)
	f := newFactory()

	_, err = Build(d, f, Options{Dir: dir})
	require.NoError(t, err)
	assert.Equal(t, 3, f.images["green"].Bounds().Dx())

	_, err = Build(d, f, Options{Dir: t.TempDir()})
	assert.Error(t, err, "missing file")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	require.NoError(t, os.WriteFile(path, defaultScene, 0o644))

	d, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, d.Entities, 6)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("entities: [ {"), 0o644))
	_, err = Load(bad)
	assert.Error(t, err)
}

func TestBoundsFollowMeshes(t *testing.T) {
	d, err := Default()
	require.NoError(t, err)
	s, err := Build(d, newFactory("pbr", "basic"), Options{})
	require.NoError(t, err)

	b, ok := s.Bounds(s.Entities[0])
	require.True(t, ok)
	assert.InDelta(t, -0.5, b.Min.Y(), 1e-4)
	assert.InDelta(t, 0.5, b.Max.Y(), 1e-4)

	_, ok = s.Bounds(entity.New("stranger", nil, nil))
	assert.False(t, ok)
}
