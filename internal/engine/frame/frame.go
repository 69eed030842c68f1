// Package frame drives the fixed per-frame draw sequence.
package frame

import (
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/pbrview/internal/engine/camera"
	"github.com/Faultbox/pbrview/internal/engine/entity"
	"github.com/Faultbox/pbrview/internal/engine/gpu"
	"github.com/Faultbox/pbrview/internal/engine/lighting"
	"github.com/Faultbox/pbrview/internal/engine/material"
	"github.com/Faultbox/pbrview/internal/engine/transform"
)

// Uniform names written by the orchestrator.
const (
	UniformWorld                 = "world"
	UniformWorldInverseTranspose = "worldInverseTranspose"
	UniformView                  = "view"
	UniformProjection            = "projection"
	UniformCameraPosition        = "cameraPosition"
	UniformSpecularMipLevels     = "SpecIBLTotalMipLevels"
	UniformMarkerColor           = "Color"
)

// MarkerScaleDivisor maps a light's range to its marker sphere scale.
const MarkerScaleDivisor = 20

// ClearColor is the color target reset value.
var ClearColor = mgl32.Vec4{0, 0, 0, 1}

// Environment supplies image-based lighting and draws the background.
type Environment interface {
	IrradianceMap() gpu.Texture
	SpecularMap() gpu.Texture
	BRDFLookup() gpu.Texture
	SpecularMipLevels() int
	Draw(cam *camera.Camera)
}

// Overlay draws screen-space text. It may leave blend and depth state changed.
type Overlay interface {
	Draw()
}

// DebugUI renders the immediate-mode panels for the frame.
type DebugUI interface {
	Render()
}

// Markers is the unlit stage pair and unit sphere used to visualise point lights.
type Markers struct {
	Mesh   gpu.Mesh
	Vertex gpu.Stage
	Pixel  gpu.Stage
}

// Stats describes one drawn frame.
type Stats struct {
	Entities    int // entity draws
	Markers     int // light marker draws
	FrameStages int // pixel stages that received frame constants
}

// Orchestrator owns references to everything a frame draws.
// Collaborators left nil are skipped.
type Orchestrator struct {
	pipeline gpu.Pipeline
	log      *zap.Logger

	camera   *camera.Camera
	entities []*entity.Entity
	lights   *lighting.Set
	env      Environment
	markers  *Markers
	overlay  Overlay
	ui       DebugUI

	stages []gpu.Stage // scratch for distinct pixel stages
	last   Stats
}

// New creates an orchestrator that draws through pipeline.
func New(pipeline gpu.Pipeline, log *zap.Logger) *Orchestrator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{pipeline: pipeline, log: log}
}

func (o *Orchestrator) SetCamera(c *camera.Camera)     { o.camera = c }
func (o *Orchestrator) SetEntities(e []*entity.Entity) { o.entities = e }
func (o *Orchestrator) SetLights(s *lighting.Set)      { o.lights = s }
func (o *Orchestrator) SetEnvironment(env Environment) { o.env = env }
func (o *Orchestrator) SetMarkers(m *Markers)          { o.markers = m }
func (o *Orchestrator) SetOverlay(ov Overlay)          { o.overlay = ov }
func (o *Orchestrator) SetDebugUI(ui DebugUI)          { o.ui = ui }
func (o *Orchestrator) Camera() *camera.Camera         { return o.camera }
func (o *Orchestrator) Entities() []*entity.Entity     { return o.entities }
func (o *Orchestrator) Lights() *lighting.Set          { return o.lights }
func (o *Orchestrator) Environment() Environment       { return o.env }
func (o *Orchestrator) LastStats() Stats               { return o.last }

// Resize recomputes the camera projection for a new surface size.
// It does nothing until a camera is attached or when either size is not positive.
func (o *Orchestrator) Resize(width, height int) {
	if o.camera == nil {
		o.log.Debug("resize before camera attached", zap.Int("width", width), zap.Int("height", height))
		return
	}
	if width <= 0 || height <= 0 {
		return
	}
	o.camera.UpdateProjection(float32(width) / float32(height))
}

// Frame clears, draws entities then light markers then the environment,
// overlay and debug UI, and presents.
func (o *Orchestrator) Frame() Stats {
	var st Stats
	o.pipeline.Clear(ClearColor, 1, 0)

	if o.camera != nil {
		view := o.camera.View()
		proj := o.camera.Projection()

		st.FrameStages = o.pushFrameConstants()
		st.Entities = o.drawEntities(view, proj)
		st.Markers = o.drawMarkers(view, proj)

		if o.env != nil {
			o.env.Draw(o.camera)
		}
	}

	if o.overlay != nil {
		o.overlay.Draw()
		o.pipeline.ResetRenderStates()
	}

	if o.ui != nil {
		o.ui.Render()
	}
	o.pipeline.Present()

	o.last = st
	return st
}

// pushFrameConstants writes the light array, camera position and mip count
// into each distinct pixel stage once.
func (o *Orchestrator) pushFrameConstants() int {
	o.stages = o.stages[:0]
	for _, e := range o.entities {
		if !drawable(e) {
			continue
		}
		ps := e.Material().PixelStage()
		if containsStage(o.stages, ps) {
			continue
		}
		o.stages = append(o.stages, ps)
	}

	var lights []lighting.Light
	if o.lights != nil {
		lights = o.lights.Lights()
	}
	mips := 0
	if o.env != nil {
		mips = o.env.SpecularMipLevels()
	}
	camPos := o.camera.Position()

	for _, ps := range o.stages {
		lighting.Upload(ps, lights)
		ps.SetFloat3(UniformCameraPosition, camPos)
		ps.SetInt(UniformSpecularMipLevels, int32(mips))
		ps.Flush()
	}
	return len(o.stages)
}

// drawable reports whether e has a mesh and a material with both stages.
func drawable(e *entity.Entity) bool {
	m := e.Material()
	return m != nil && e.Mesh() != nil && m.VertexStage() != nil && m.PixelStage() != nil
}

func containsStage(stages []gpu.Stage, s gpu.Stage) bool {
	for _, x := range stages {
		if x == s {
			return true
		}
	}
	return false
}

func (o *Orchestrator) drawEntities(view, proj mgl32.Mat4) int {
	n := 0
	for _, e := range o.entities {
		if !drawable(e) {
			continue
		}
		m := e.Material()
		vs, ps := m.VertexStage(), m.PixelStage()

		t := e.Transform()
		vs.SetMatrix4(UniformWorld, t.World())
		vs.SetMatrix4(UniformWorldInverseTranspose, t.WorldInverseTranspose())
		vs.SetMatrix4(UniformView, view)
		vs.SetMatrix4(UniformProjection, proj)

		m.Bind()

		vs.Flush()
		ps.Flush()
		vs.Use()
		ps.Use()

		e.Mesh().Draw()
		n++
	}
	return n
}

// MarkerWorld returns the marker transform for a point light.
func MarkerWorld(l lighting.Light) mgl32.Mat4 {
	s := l.Range / MarkerScaleDivisor
	return transform.Compose(l.Position, mgl32.QuatIdent(), mgl32.Vec3{s, s, s})
}

func (o *Orchestrator) drawMarkers(view, proj mgl32.Mat4) int {
	if o.markers == nil || o.lights == nil {
		return 0
	}
	vs, ps := o.markers.Vertex, o.markers.Pixel
	n := 0
	for _, l := range o.lights.Lights() {
		if l.Type != lighting.TypePoint {
			continue
		}
		world := MarkerWorld(l)
		vs.SetMatrix4(UniformWorld, world)
		vs.SetMatrix4(UniformWorldInverseTranspose, transform.InverseTranspose(world))
		vs.SetMatrix4(UniformView, view)
		vs.SetMatrix4(UniformProjection, proj)
		ps.SetFloat3(UniformMarkerColor, l.FinalColor())

		vs.Flush()
		ps.Flush()
		vs.Use()
		ps.Use()

		o.markers.Mesh.Draw()
		n++
	}
	return n
}

// AttachEnvironment binds the environment's IBL maps into each material's
// named slots. Materials whose shaders lack those slots ignore them at bind time.
func AttachEnvironment(env Environment, mats ...*material.Material) {
	for _, m := range mats {
		m.AddTexture(material.IrradianceIBLMap, env.IrradianceMap())
		m.AddTexture(material.SpecularIBLMap, env.SpecularMap())
		m.AddTexture(material.BrdfLookupMap, env.BRDFLookup())
	}
}
