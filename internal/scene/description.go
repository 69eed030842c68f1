// Package scene loads a YAML scene description and builds the entities,
// materials and GPU resources it names.
package scene

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed scene.yaml
var defaultScene []byte

// Errors returned when a description references something it does not declare.
var (
	ErrUnknownMesh     = errors.New("unknown mesh")
	ErrUnknownMaterial = errors.New("unknown material")
	ErrUnknownShader   = errors.New("unknown shader")
	ErrUnknownTexture  = errors.New("unknown texture")
	ErrUnknownSampler  = errors.New("unknown sampler")
	ErrInvalid         = errors.New("invalid scene")
)

// Mesh shapes.
const (
	ShapeSphere = "sphere"
	ShapeCube   = "cube"
)

// Description is the on-disk scene format.
type Description struct {
	Textures  map[string]TextureDesc  `yaml:"textures"`
	Meshes    map[string]MeshDesc     `yaml:"meshes"`
	Materials map[string]MaterialDesc `yaml:"materials"`
	Entities  []EntityDesc            `yaml:"entities"`
}

// TextureDesc declares one 2D texture. Exactly one source is set.
type TextureDesc struct {
	Color     *[3]float32    `yaml:"color,omitempty"`
	File      string         `yaml:"file,omitempty"`
	Checker   *CheckerDesc   `yaml:"checker,omitempty"`
	Scratches *ScratchesDesc `yaml:"scratches,omitempty"`
	Size      int            `yaml:"size,omitempty"` // procedural sources only
}

// CheckerDesc is a two-color checkerboard.
type CheckerDesc struct {
	A     [3]float32 `yaml:"a"`
	B     [3]float32 `yaml:"b"`
	Cells int        `yaml:"cells"`
}

// ScratchesDesc is a procedural scratched normal map.
type ScratchesDesc struct {
	Count int    `yaml:"count"`
	Seed  uint64 `yaml:"seed"`
}

// MeshDesc declares procedural geometry.
type MeshDesc struct {
	Shape  string  `yaml:"shape"`
	Radius float32 `yaml:"radius,omitempty"`
	Slices int     `yaml:"slices,omitempty"`
	Stacks int     `yaml:"stacks,omitempty"`
	Size   float32 `yaml:"size,omitempty"`
}

// MaterialDesc declares a material. Textures and Samplers map a slot name
// to a texture name or a sampler name ("basic" or "clamp").
type MaterialDesc struct {
	Shader   string            `yaml:"shader"`
	Tint     *[3]float32       `yaml:"tint,omitempty"`
	UVTiling *[2]float32       `yaml:"uv_tiling,omitempty"`
	Textures map[string]string `yaml:"textures,omitempty"`
	Samplers map[string]string `yaml:"samplers,omitempty"`

	// IBL binds the environment's irradiance, specular and BRDF maps.
	IBL bool `yaml:"ibl,omitempty"`
}

// EntityDesc places a mesh with a material. Rotation is pitch/yaw/roll in degrees.
type EntityDesc struct {
	Name     string      `yaml:"name"`
	Mesh     string      `yaml:"mesh"`
	Material string      `yaml:"material"`
	Position [3]float32  `yaml:"position"`
	Rotation [3]float32  `yaml:"rotation,omitempty"`
	Scale    *[3]float32 `yaml:"scale,omitempty"`
}

// Default returns the built-in scene.
func Default() (*Description, error) {
	return Parse(defaultScene)
}

// Load reads a scene file.
func Load(path string) (*Description, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scene file: %w", err)
	}
	d, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// Parse decodes and validates a description.
func Parse(data []byte) (*Description, error) {
	var d Description
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parsing scene: %w", err)
	}
	if err := d.Validate(nil); err != nil {
		return nil, err
	}
	return &d, nil
}

// Validate checks every cross reference. shaders lists the accepted shader
// names; nil skips the shader check.
func (d *Description) Validate(shaders []string) error {
	for _, name := range sortedNames(d.Textures) {
		if err := d.Textures[name].validate(); err != nil {
			return fmt.Errorf("texture %q: %w", name, err)
		}
	}
	for _, name := range sortedNames(d.Meshes) {
		switch m := d.Meshes[name]; m.Shape {
		case ShapeSphere, ShapeCube:
		default:
			return fmt.Errorf("%w: mesh %q has shape %q", ErrInvalid, name, m.Shape)
		}
	}
	for _, name := range sortedNames(d.Materials) {
		m := d.Materials[name]
		if shaders != nil && !contains(shaders, m.Shader) {
			return fmt.Errorf("%w: %q in material %q", ErrUnknownShader, m.Shader, name)
		}
		for _, slot := range sortedNames(m.Textures) {
			if _, ok := d.Textures[m.Textures[slot]]; !ok {
				return fmt.Errorf("%w: %q in material %q", ErrUnknownTexture, m.Textures[slot], name)
			}
		}
		for _, slot := range sortedNames(m.Samplers) {
			if !contains(SamplerNames, m.Samplers[slot]) {
				return fmt.Errorf("%w: %q in material %q", ErrUnknownSampler, m.Samplers[slot], name)
			}
		}
	}
	for i, e := range d.Entities {
		if _, ok := d.Meshes[e.Mesh]; !ok {
			return fmt.Errorf("%w: %q in entity %d (%s)", ErrUnknownMesh, e.Mesh, i, e.Name)
		}
		if _, ok := d.Materials[e.Material]; !ok {
			return fmt.Errorf("%w: %q in entity %d (%s)", ErrUnknownMaterial, e.Material, i, e.Name)
		}
	}
	return nil
}

func (t TextureDesc) validate() error {
	n := 0
	if t.Color != nil {
		n++
	}
	if t.File != "" {
		n++
	}
	if t.Checker != nil {
		n++
	}
	if t.Scratches != nil {
		n++
	}
	if n != 1 {
		return fmt.Errorf("%w: want exactly one of color, file, checker, scratches; got %d", ErrInvalid, n)
	}
	return nil
}

func sortedNames[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
