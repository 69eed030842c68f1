package ui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/pbrview/internal/app"
	"github.com/Faultbox/pbrview/internal/engine/entity"
	"github.com/Faultbox/pbrview/internal/engine/frame"
	"github.com/Faultbox/pbrview/internal/engine/lighting"
	"github.com/Faultbox/pbrview/internal/engine/material"
)

// Ranges of the editor sliders.
const (
	maxRange       = 20
	maxIntensity   = 10
	maxSpotFalloff = 64
	maxTiling      = 16
)

// Panels is the debug UI: window manager, info window and world editor.
// It implements frame.DebugUI.
type Panels struct {
	app        *app.App
	materials  []*material.Material
	unresolved func() []material.Binding
	viewport   *Viewport
	selected   *entity.Entity

	showEditor bool
	showInfo   bool
	showDemo   bool
}

var _ frame.DebugUI = (*Panels)(nil)

// NewPanels creates the panels for a. materials are listed in the editor;
// unresolved, if not nil, feeds the info window.
func NewPanels(a *app.App, materials []*material.Material, unresolved func() []material.Binding) *Panels {
	return &Panels{
		app:        a,
		materials:  materials,
		unresolved: unresolved,
		showEditor: true,
		showInfo:   true,
	}
}

// SetViewport puts the offscreen scene behind the panels.
func (p *Panels) SetViewport(v *Viewport) { p.viewport = v }

// Select highlights e in the world editor. nil clears the selection.
func (p *Panels) Select(e *entity.Entity) { p.selected = e }

// Selected returns the highlighted entity, if any.
func (p *Panels) Selected() *entity.Entity { return p.selected }

// Render builds this frame's windows. The backend draws them after the loop.
func (p *Panels) Render() {
	if p.viewport != nil {
		p.viewport.Draw()
	}
	p.windowManager()
	if p.showInfo {
		p.infoWindow()
	}
	if p.showEditor {
		p.worldEditor()
	}
	if p.showDemo {
		imgui.ShowDemoWindow()
	}
}

func (p *Panels) windowManager() {
	imgui.SetNextWindowPos(imgui.NewVec2(10, 250))
	if imgui.BeginV("Window Manager", nil, imgui.WindowFlagsAlwaysAutoResize|imgui.WindowFlagsNoCollapse) {
		imgui.Checkbox("World Editor", &p.showEditor)
		imgui.Checkbox("Info", &p.showInfo)
		imgui.Checkbox("ImGui Demo", &p.showDemo)
	}
	imgui.End()
}

func (p *Panels) infoWindow() {
	info := p.app.Info()
	if imgui.BeginV("Info", &p.showInfo, imgui.WindowFlagsAlwaysAutoResize) {
		imgui.Text(fmt.Sprintf("Framerate: %.0f fps", info.FPS))
		imgui.Text(fmt.Sprintf("Window: %d x %d", info.Width, info.Height))
		imgui.Text(fmt.Sprintf("Aspect ratio: %.3f", info.Aspect))
		imgui.Separator()
		imgui.Text(fmt.Sprintf("Entities: %d", info.Entities))
		imgui.Text(fmt.Sprintf("Lights: %d (%d point)", info.Lights, info.PointLights))
		imgui.Text(fmt.Sprintf("Draws: %d entities, %d markers", info.Frame.Entities, info.Frame.Markers))
		imgui.Text(fmt.Sprintf("Pixel stages: %d", info.Frame.FrameStages))

		if p.unresolved != nil {
			bindings := p.unresolved()
			if imgui.TreeNodeExStrV(fmt.Sprintf("Unresolved bindings (%d)###unresolved", len(bindings)), imgui.TreeNodeFlagsNone) {
				if len(bindings) == 0 {
					imgui.TextDisabled("none")
				}
				for _, b := range bindings {
					imgui.TextColored(imgui.NewVec4(1, 0.7, 0.2, 1), b.String())
				}
				imgui.TreePop()
			}
		}
	}
	imgui.End()
}

func (p *Panels) worldEditor() {
	if imgui.BeginV("World Editor", &p.showEditor, imgui.WindowFlagsNone) {
		if p.selected != nil {
			imgui.Text("Selected: " + p.selected.Name())
			imgui.SameLine()
			if imgui.Button("Clear") {
				p.selected = nil
			}
		} else {
			imgui.TextDisabled("Right-click an object to select it")
		}
		imgui.Separator()
		p.entityTree()
		p.materialTree()
		p.lightTree()
	}
	imgui.End()
}

func (p *Panels) entityTree() {
	entities := p.app.Frame().Entities()
	if !imgui.TreeNodeExStrV(fmt.Sprintf("Entities (%d)###entities", len(entities)), imgui.TreeNodeFlagsDefaultOpen) {
		return
	}
	for i, e := range entities {
		flags := imgui.TreeNodeFlagsNone
		if e == p.selected {
			flags |= imgui.TreeNodeFlagsSelected
		}
		if !imgui.TreeNodeExStrV(fmt.Sprintf("%s##entity%d", e.Name(), i), flags) {
			continue
		}
		t := e.Transform()

		pos := [3]float32(t.Position())
		if imgui.DragFloat3(fmt.Sprintf("Position##entity%d", i), &pos) {
			t.SetPosition(pos[0], pos[1], pos[2])
		}

		rot := t.PitchYawRoll()
		deg := [3]float32{mgl32.RadToDeg(rot[0]), mgl32.RadToDeg(rot[1]), mgl32.RadToDeg(rot[2])}
		if imgui.DragFloat3(fmt.Sprintf("Rotation##entity%d", i), &deg) {
			t.SetRotation(mgl32.DegToRad(deg[0]), mgl32.DegToRad(deg[1]), mgl32.DegToRad(deg[2]))
		}

		scale := [3]float32(t.Scale())
		if imgui.DragFloat3(fmt.Sprintf("Scale##entity%d", i), &scale) {
			t.SetScale(scale[0], scale[1], scale[2])
		}

		if m := e.Material(); m != nil {
			imgui.TextDisabled("material: " + m.Name())
		}
		imgui.TreePop()
	}
	imgui.TreePop()
}

func (p *Panels) materialTree() {
	if !imgui.TreeNodeExStrV(fmt.Sprintf("Materials (%d)###materials", len(p.materials)), imgui.TreeNodeFlagsNone) {
		return
	}
	for i, m := range p.materials {
		if !imgui.TreeNodeExStrV(fmt.Sprintf("%s##material%d", m.Name(), i), imgui.TreeNodeFlagsNone) {
			continue
		}
		tint := [3]float32(m.Tint())
		if imgui.ColorEdit3(fmt.Sprintf("Tint##material%d", i), &tint) {
			m.SetTint(mgl32.Vec3(tint))
		}
		tiling := m.UVTiling()
		u, v := tiling[0], tiling[1]
		changed := imgui.SliderFloatV(fmt.Sprintf("Tiling U##material%d", i), &u, 0.1, maxTiling, "%.2f", imgui.SliderFlagsNone)
		changed = imgui.SliderFloatV(fmt.Sprintf("Tiling V##material%d", i), &v, 0.1, maxTiling, "%.2f", imgui.SliderFlagsNone) || changed
		if changed {
			m.SetUVTiling(u, v)
		}
		for _, name := range m.TextureNames() {
			tex, _ := m.Texture(name)
			imgui.TextDisabled(fmt.Sprintf("%s: %d", name, tex))
		}
		imgui.TreePop()
	}
	imgui.TreePop()
}

func (p *Panels) lightTree() {
	set := p.app.Frame().Lights()
	if set == nil {
		return
	}
	if imgui.Button("Regenerate Lights") {
		p.app.RegenerateLights()
	}
	if !imgui.TreeNodeExStrV(fmt.Sprintf("Lights (%d)###lights", set.Len()), imgui.TreeNodeFlagsNone) {
		return
	}
	for i := 0; i < set.Len(); i++ {
		l := set.At(i)
		if !imgui.TreeNodeExStrV(fmt.Sprintf("Light %d (%s)##light%d", i, l.Type, i), imgui.TreeNodeFlagsNone) {
			continue
		}
		lightFields(i, l)
		imgui.TreePop()
	}
	imgui.TreePop()
}

// lightFields shows only the fields meaningful for the light's type.
func lightFields(i int, l *lighting.Light) {
	if l.HasDirection() {
		dir := [3]float32(l.Direction)
		if imgui.DragFloat3(fmt.Sprintf("Direction##light%d", i), &dir) {
			l.Direction = mgl32.Vec3(dir)
		}
	}
	if l.HasPosition() {
		pos := [3]float32(l.Position)
		if imgui.DragFloat3(fmt.Sprintf("Position##light%d", i), &pos) {
			l.Position = mgl32.Vec3(pos)
		}
		imgui.SliderFloatV(fmt.Sprintf("Range##light%d", i), &l.Range, 0, maxRange, "%.2f", imgui.SliderFlagsNone)
	}
	if l.Type == lighting.TypeSpot {
		imgui.SliderFloatV(fmt.Sprintf("Spot Falloff##light%d", i), &l.SpotFalloff, 1, maxSpotFalloff, "%.1f", imgui.SliderFlagsNone)
	}
	color := [3]float32(l.Color)
	if imgui.ColorEdit3(fmt.Sprintf("Color##light%d", i), &color) {
		l.Color = mgl32.Vec3(color)
	}
	imgui.SliderFloatV(fmt.Sprintf("Intensity##light%d", i), &l.Intensity, 0, maxIntensity, "%.2f", imgui.SliderFlagsNone)
}
