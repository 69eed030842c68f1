package scene

import (
	"fmt"
	"image"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/pbrview/internal/engine/entity"
	"github.com/Faultbox/pbrview/internal/engine/frame"
	"github.com/Faultbox/pbrview/internal/engine/gpu"
	"github.com/Faultbox/pbrview/internal/engine/material"
	"github.com/Faultbox/pbrview/internal/engine/picking"
	"github.com/Faultbox/pbrview/internal/engine/texture"
	"github.com/Faultbox/pbrview/pkg/geometry"
)

// Sampler names a description may reference.
const (
	SamplerBasic = "basic" // wrap, anisotropic
	SamplerClamp = "clamp" // clamp, anisotropic
)

// SamplerNames lists the accepted sampler names.
var SamplerNames = []string{SamplerBasic, SamplerClamp}

// Defaults for fields a description leaves out.
const (
	DefaultTextureSize  = 256
	DefaultColorSize    = 4
	DefaultSphereRadius = 0.5
	DefaultSlices       = 32
	DefaultStacks       = 16
	DefaultCubeSize     = 1
	DefaultCheckerCells = 8
	DefaultScratchCount = 200
)

// Factory creates the GPU objects a scene needs.
type Factory interface {
	// Program returns the stage pair of a named shader program. An unknown
	// name must yield an error wrapping ErrUnknownShader.
	Program(name string) (vertex, pixel gpu.Stage, err error)
	Texture(name string, img *image.RGBA) gpu.Texture
	Mesh(name string, m *geometry.Mesh) gpu.Mesh
	Sampler(name string) gpu.Sampler
}

// Options tune Build.
type Options struct {
	// Dir resolves relative texture file paths.
	Dir string
	// Env provides image-based lighting for materials that ask for it.
	Env frame.Environment
	// Reporter receives unresolved material bindings.
	Reporter material.Reporter
	Log      *zap.Logger
}

// Scene is the built result.
type Scene struct {
	Entities  []*entity.Entity
	Materials map[string]*material.Material
	Meshes    map[string]gpu.Mesh
	Textures  map[string]gpu.Texture

	meshBounds map[string]picking.AABB
	entityMesh map[*entity.Entity]string
}

// Bounds returns the local mesh box of an entity built with this scene.
// It implements picking.Bounds.
func (s *Scene) Bounds(e *entity.Entity) (picking.AABB, bool) {
	name, ok := s.entityMesh[e]
	if !ok {
		return picking.AABB{}, false
	}
	b, ok := s.meshBounds[name]
	return b, ok
}

// MaterialNames returns the material names in sorted order.
func (s *Scene) MaterialNames() []string {
	return sortedNames(s.Materials)
}

// Build creates every texture, mesh, material and entity of d.
func Build(d *Description, f Factory, opts Options) (*Scene, error) {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	reporter := opts.Reporter
	if reporter == nil {
		reporter = material.Discard
	}
	if err := d.Validate(nil); err != nil {
		return nil, err
	}

	s := &Scene{
		Materials: make(map[string]*material.Material, len(d.Materials)),
		Meshes:    make(map[string]gpu.Mesh, len(d.Meshes)),
		Textures:  make(map[string]gpu.Texture, len(d.Textures)),

		meshBounds: make(map[string]picking.AABB, len(d.Meshes)),
		entityMesh: make(map[*entity.Entity]string, len(d.Entities)),
	}

	for _, name := range sortedNames(d.Textures) {
		img, err := d.Textures[name].image(opts.Dir)
		if err != nil {
			return nil, fmt.Errorf("texture %q: %w", name, err)
		}
		s.Textures[name] = f.Texture(name, img)
	}

	for _, name := range sortedNames(d.Meshes) {
		g := d.Meshes[name].geometry()
		lo, hi := g.Bounds()
		s.meshBounds[name] = picking.AABB{Min: lo, Max: hi}
		s.Meshes[name] = f.Mesh(name, g)
	}

	samplers := make(map[string]gpu.Sampler, len(SamplerNames))
	for _, name := range SamplerNames {
		samplers[name] = f.Sampler(name)
	}

	var ibl []*material.Material
	for _, name := range sortedNames(d.Materials) {
		md := d.Materials[name]
		vs, ps, err := f.Program(md.Shader)
		if err != nil {
			return nil, fmt.Errorf("material %q: %w", name, err)
		}

		mopts := []material.Option{material.WithReporter(reporter)}
		if md.Tint != nil {
			mopts = append(mopts, material.WithTint(mgl32.Vec3(*md.Tint)))
		}
		if md.UVTiling != nil {
			mopts = append(mopts, material.WithUVTiling(md.UVTiling[0], md.UVTiling[1]))
		}
		m := material.New(name, vs, ps, mopts...)
		for slot, tex := range md.Textures {
			m.AddTexture(slot, s.Textures[tex])
		}
		for slot, smp := range md.Samplers {
			m.AddSampler(slot, samplers[smp])
		}
		if md.IBL {
			ibl = append(ibl, m)
		}
		s.Materials[name] = m
	}

	if len(ibl) > 0 {
		if opts.Env == nil {
			log.Warn("scene has IBL materials but no environment", zap.Int("materials", len(ibl)))
		} else {
			frame.AttachEnvironment(opts.Env, ibl...)
		}
	}

	s.Entities = make([]*entity.Entity, 0, len(d.Entities))
	for i, ed := range d.Entities {
		name := ed.Name
		if name == "" {
			name = fmt.Sprintf("entity%d", i)
		}
		e := entity.New(name, s.Meshes[ed.Mesh], s.Materials[ed.Material])
		t := e.Transform()
		t.SetPosition(ed.Position[0], ed.Position[1], ed.Position[2])
		t.SetRotation(
			mgl32.DegToRad(ed.Rotation[0]),
			mgl32.DegToRad(ed.Rotation[1]),
			mgl32.DegToRad(ed.Rotation[2]),
		)
		if ed.Scale != nil {
			t.SetScale(ed.Scale[0], ed.Scale[1], ed.Scale[2])
		}
		s.entityMesh[e] = ed.Mesh
		s.Entities = append(s.Entities, e)
	}

	log.Info("scene built",
		zap.Int("textures", len(s.Textures)),
		zap.Int("meshes", len(s.Meshes)),
		zap.Int("materials", len(s.Materials)),
		zap.Int("entities", len(s.Entities)),
	)
	return s, nil
}

func (t TextureDesc) image(dir string) (*image.RGBA, error) {
	size := t.Size
	if size <= 0 {
		size = DefaultTextureSize
	}
	switch {
	case t.Color != nil:
		c := t.Color
		if t.Size <= 0 {
			size = DefaultColorSize
		}
		return texture.Solid(texture.RGB(c[0], c[1], c[2]), size), nil
	case t.File != "":
		path := t.File
		if !filepath.IsAbs(path) && dir != "" {
			path = filepath.Join(dir, path)
		}
		return texture.LoadFile(path)
	case t.Checker != nil:
		c := t.Checker
		cells := c.Cells
		if cells <= 0 {
			cells = DefaultCheckerCells
		}
		return texture.Checker(
			texture.RGB(c.A[0], c.A[1], c.A[2]),
			texture.RGB(c.B[0], c.B[1], c.B[2]),
			size, cells,
		), nil
	case t.Scratches != nil:
		count := t.Scratches.Count
		if count <= 0 {
			count = DefaultScratchCount
		}
		return texture.Scratches(size, count, t.Scratches.Seed), nil
	}
	return nil, ErrInvalid
}

func (m MeshDesc) geometry() *geometry.Mesh {
	switch m.Shape {
	case ShapeCube:
		size := m.Size
		if size <= 0 {
			size = DefaultCubeSize
		}
		return geometry.Cube(size)
	default:
		radius, slices, stacks := m.Radius, m.Slices, m.Stacks
		if radius <= 0 {
			radius = DefaultSphereRadius
		}
		if slices <= 0 {
			slices = DefaultSlices
		}
		if stacks <= 0 {
			stacks = DefaultStacks
		}
		return geometry.Sphere(radius, slices, stacks)
	}
}
