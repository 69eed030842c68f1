// Package gputest provides recording fakes for the gpu contracts.
package gputest

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/pbrview/internal/engine/gpu"
)

// Call is one recorded backend operation.
type Call struct {
	Target string // stage, mesh or "pipeline"
	Op     string
	Name   string
	Value  any
}

func (c Call) String() string {
	if c.Name == "" {
		return c.Target + "." + c.Op
	}
	return fmt.Sprintf("%s.%s(%s)", c.Target, c.Op, c.Name)
}

// Log is a shared, ordered call log.
type Log struct {
	Calls []Call
}

func (l *Log) add(c Call) {
	l.Calls = append(l.Calls, c)
}

// Ops returns the calls formatted with Call.String.
func (l *Log) Ops() []string {
	out := make([]string, len(l.Calls))
	for i, c := range l.Calls {
		out[i] = c.String()
	}
	return out
}

// Filter returns the calls matching target (any if empty) and op (any if empty).
func (l *Log) Filter(target, op string) []Call {
	var out []Call
	for _, c := range l.Calls {
		if target != "" && c.Target != target {
			continue
		}
		if op != "" && c.Op != op {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Index returns the position of the first call whose String has the prefix,
// or -1.
func (l *Log) Index(prefix string) int {
	for i, c := range l.Calls {
		if strings.HasPrefix(c.String(), prefix) {
			return i
		}
	}
	return -1
}

// Reset clears the log.
func (l *Log) Reset() {
	l.Calls = l.Calls[:0]
}

// Stage is a fake gpu.Stage. A nil Declared set resolves every name.
type Stage struct {
	StageName string
	Declared  map[string]bool
	Log       *Log

	// Bound holds the last value written per name.
	Bound map[string]any
}

var _ gpu.Stage = (*Stage)(nil)

// NewStage creates a fake stage that declares the given names. With no names
// every name resolves.
func NewStage(log *Log, name string, declared ...string) *Stage {
	s := &Stage{StageName: name, Log: log, Bound: make(map[string]any)}
	if len(declared) > 0 {
		s.Declared = make(map[string]bool, len(declared))
		for _, d := range declared {
			s.Declared[d] = true
		}
	}
	return s
}

func (s *Stage) Name() string { return s.StageName }

func (s *Stage) set(op, name string, v any) bool {
	if s.Declared != nil && !s.Declared[name] {
		return false
	}
	s.Bound[name] = v
	if s.Log != nil {
		s.Log.add(Call{Target: s.StageName, Op: op, Name: name, Value: v})
	}
	return true
}

func (s *Stage) SetInt(name string, v int32) bool          { return s.set("SetInt", name, v) }
func (s *Stage) SetFloat(name string, v float32) bool      { return s.set("SetFloat", name, v) }
func (s *Stage) SetFloat2(name string, v mgl32.Vec2) bool  { return s.set("SetFloat2", name, v) }
func (s *Stage) SetFloat3(name string, v mgl32.Vec3) bool  { return s.set("SetFloat3", name, v) }
func (s *Stage) SetMatrix4(name string, v mgl32.Mat4) bool { return s.set("SetMatrix4", name, v) }

func (s *Stage) SetTexture(name string, tex gpu.Texture) bool {
	return s.set("SetTexture", name, tex)
}

func (s *Stage) SetSampler(name string, smp gpu.Sampler) bool {
	return s.set("SetSampler", name, smp)
}

func (s *Stage) Flush() {
	if s.Log != nil {
		s.Log.add(Call{Target: s.StageName, Op: "Flush"})
	}
}

func (s *Stage) Use() {
	if s.Log != nil {
		s.Log.add(Call{Target: s.StageName, Op: "Use"})
	}
}

// Mesh is a fake gpu.Mesh.
type Mesh struct {
	MeshName string
	Indices  int32
	Log      *Log
}

var _ gpu.Mesh = (*Mesh)(nil)

func (m *Mesh) Draw() {
	if m.Log != nil {
		m.Log.add(Call{Target: m.MeshName, Op: "Draw"})
	}
}

func (m *Mesh) IndexCount() int32 { return m.Indices }

// Pipeline is a fake gpu.Pipeline.
type Pipeline struct {
	Log *Log
}

var _ gpu.Pipeline = (*Pipeline)(nil)

func (p *Pipeline) Clear(color mgl32.Vec4, depth float32, stencil int32) {
	p.Log.add(Call{Target: "pipeline", Op: "Clear", Value: [2]any{color, depth}})
}

func (p *Pipeline) ResetRenderStates() {
	p.Log.add(Call{Target: "pipeline", Op: "ResetRenderStates"})
}

func (p *Pipeline) Present() {
	p.Log.add(Call{Target: "pipeline", Op: "Present"})
}
