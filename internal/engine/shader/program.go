package shader

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/pbrview/internal/engine/gpu"
)

// Source describes a program to build.
type Source struct {
	Name     string
	Vertex   string
	Fragment string

	// Samplers maps a sampler object name to the texture uniforms it filters.
	Samplers map[string][]string
}

type uniform struct {
	location int32
	glType   uint32
}

type pending struct {
	name  string
	value any
}

// Program is a linked GL program. Its two halves are exposed as gpu.Stage
// values that share one uniform namespace, as GLSL programs do.
type Program struct {
	name     string
	id       uint32
	uniforms map[string]uniform

	units    map[string]uint32   // sampler uniform -> texture unit
	targets  map[string]uint32   // sampler uniform -> GL texture target
	groups   map[string][]uint32 // sampler object name -> texture units
	textures map[uint32]gpu.Texture
	samplers map[uint32]gpu.Sampler

	pending []pending

	vertex *Stage
	pixel  *Stage
}

// Load compiles and links src and reflects its active uniforms.
func Load(src Source, log *zap.Logger) (*Program, error) {
	id, err := CompileProgram(src.Vertex, src.Fragment)
	if err != nil {
		return nil, fmt.Errorf("program %s: %w", src.Name, err)
	}

	p := &Program{
		name:     src.Name,
		id:       id,
		uniforms: make(map[string]uniform),
		units:    make(map[string]uint32),
		targets:  make(map[string]uint32),
		groups:   make(map[string][]uint32),
		textures: make(map[uint32]gpu.Texture),
		samplers: make(map[uint32]gpu.Sampler),
	}
	p.vertex = &Stage{program: p, name: src.Name + ".vs"}
	p.pixel = &Stage{program: p, name: src.Name + ".ps"}

	p.reflect()

	for group, names := range src.Samplers {
		for _, n := range names {
			unit, ok := p.units[n]
			if !ok {
				continue
			}
			p.groups[group] = append(p.groups[group], unit)
		}
	}

	if log != nil {
		log.Debug("shader program loaded",
			zap.String("name", src.Name),
			zap.Uint32("id", id),
			zap.Int("uniforms", len(p.uniforms)),
			zap.Int("textureUnits", len(p.units)),
		)
	}
	return p, nil
}

// reflect records every active uniform and assigns texture units to samplers.
func (p *Program) reflect() {
	var count, maxLen int32
	gl.GetProgramiv(p.id, gl.ACTIVE_UNIFORMS, &count)
	gl.GetProgramiv(p.id, gl.ACTIVE_UNIFORM_MAX_LENGTH, &maxLen)
	buf := make([]byte, maxLen+1)

	nextUnit := uint32(0)
	for i := int32(0); i < count; i++ {
		var length, size int32
		var glType uint32
		gl.GetActiveUniform(p.id, uint32(i), maxLen, &length, &size, &glType, &buf[0])
		name := string(buf[:length])
		loc := GetUniform(p.id, name)
		if loc < 0 {
			continue
		}
		// Arrays of plain types are reported as "name[0]".
		name = strings.TrimSuffix(name, "[0]")
		p.uniforms[name] = uniform{location: loc, glType: glType}

		if target, ok := samplerTarget(glType); ok {
			p.units[name] = nextUnit
			p.targets[name] = target
			gl.ProgramUniform1i(p.id, loc, int32(nextUnit))
			nextUnit++
		}
	}
}

func samplerTarget(glType uint32) (uint32, bool) {
	switch glType {
	case gl.SAMPLER_2D:
		return gl.TEXTURE_2D, true
	case gl.SAMPLER_CUBE:
		return gl.TEXTURE_CUBE_MAP, true
	default:
		return 0, false
	}
}

// Name returns the program name.
func (p *Program) Name() string { return p.name }

// ID returns the GL program object.
func (p *Program) ID() uint32 { return p.id }

// Vertex returns the vertex half.
func (p *Program) Vertex() *Stage { return p.vertex }

// Pixel returns the fragment half.
func (p *Program) Pixel() *Stage { return p.pixel }

// Has reports whether the program declares an active uniform called name.
func (p *Program) Has(name string) bool {
	_, ok := p.uniforms[name]
	return ok
}

// Delete releases the GL program.
func (p *Program) Delete() {
	if p.id != 0 {
		gl.DeleteProgram(p.id)
		p.id = 0
	}
}

func (p *Program) set(name string, v any) bool {
	if _, ok := p.uniforms[name]; !ok {
		return false
	}
	p.pending = append(p.pending, pending{name: name, value: v})
	return true
}

func (p *Program) flush() {
	for _, w := range p.pending {
		loc := p.uniforms[w.name].location
		switch v := w.value.(type) {
		case int32:
			gl.ProgramUniform1i(p.id, loc, v)
		case float32:
			gl.ProgramUniform1f(p.id, loc, v)
		case mgl32.Vec2:
			gl.ProgramUniform2f(p.id, loc, v[0], v[1])
		case mgl32.Vec3:
			gl.ProgramUniform3f(p.id, loc, v[0], v[1], v[2])
		case mgl32.Mat4:
			gl.ProgramUniformMatrix4fv(p.id, loc, 1, false, &v[0])
		}
	}
	p.pending = p.pending[:0]
}

func (p *Program) use() {
	gl.UseProgram(p.id)
	for name, unit := range p.units {
		gl.ActiveTexture(gl.TEXTURE0 + unit)
		gl.BindTexture(p.targets[name], uint32(p.textures[unit]))
		gl.BindSampler(unit, uint32(p.samplers[unit]))
	}
}

// Stage is one half of a Program.
type Stage struct {
	program *Program
	name    string
}

var _ gpu.Stage = (*Stage)(nil)

func (s *Stage) Name() string { return s.name }

// Program returns the owning program.
func (s *Stage) Program() *Program { return s.program }

func (s *Stage) SetInt(name string, v int32) bool          { return s.program.set(name, v) }
func (s *Stage) SetFloat(name string, v float32) bool      { return s.program.set(name, v) }
func (s *Stage) SetFloat2(name string, v mgl32.Vec2) bool  { return s.program.set(name, v) }
func (s *Stage) SetFloat3(name string, v mgl32.Vec3) bool  { return s.program.set(name, v) }
func (s *Stage) SetMatrix4(name string, v mgl32.Mat4) bool { return s.program.set(name, v) }

// SetTexture binds tex to the sampler uniform called name.
func (s *Stage) SetTexture(name string, tex gpu.Texture) bool {
	unit, ok := s.program.units[name]
	if !ok {
		return false
	}
	s.program.textures[unit] = tex
	return true
}

// SetSampler applies a sampler object to every texture uniform in the named group.
func (s *Stage) SetSampler(name string, smp gpu.Sampler) bool {
	units, ok := s.program.groups[name]
	if !ok {
		return false
	}
	for _, u := range units {
		s.program.samplers[u] = smp
	}
	return true
}

// Flush uploads pending uniform writes.
func (s *Stage) Flush() { s.program.flush() }

// Use makes the program current and binds its textures and samplers.
func (s *Stage) Use() { s.program.use() }
