package ui

import (
	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/Faultbox/pbrview/internal/app"
	"github.com/Faultbox/pbrview/internal/engine/camera"
)

// Input reads the fly-camera controls and app actions from ImGui's IO.
// Keys and mouse are ignored while a panel wants them.
type Input struct {
	controls camera.Controls
	pressed  map[app.Action]bool

	lastMouse imgui.Vec2
	dragging  bool

	clicked  bool
	clickPos imgui.Vec2
}

var _ app.Input = (*Input)(nil)

// NewInput creates an input reader.
func NewInput() *Input {
	return &Input{pressed: make(map[app.Action]bool)}
}

// Update samples ImGui's state. Call once per frame inside the backend loop.
func (in *Input) Update() {
	io := imgui.CurrentIO()
	clear(in.pressed)
	in.controls = camera.Controls{}
	in.clicked = false

	if !io.WantCaptureKeyboard() {
		in.controls.Forward = IsKeyDown(imgui.KeyW)
		in.controls.Back = IsKeyDown(imgui.KeyS)
		in.controls.Left = IsKeyDown(imgui.KeyA)
		in.controls.Right = IsKeyDown(imgui.KeyD)
		in.controls.Up = IsKeyDown(imgui.KeySpace)
		in.controls.Down = IsKeyDown(imgui.KeyX)
		in.controls.Fast = IsKeyDown(imgui.KeyLeftShift) || IsKeyDown(imgui.KeyRightShift)
		in.controls.Slow = IsKeyDown(imgui.KeyLeftCtrl) || IsKeyDown(imgui.KeyRightCtrl)

		in.pressed[app.ActionQuit] = IsKeyPressed(imgui.KeyEscape)
		in.pressed[app.ActionRegenerateLights] = IsKeyPressed(imgui.KeyTab)
		in.pressed[app.ActionScreenshot] = IsKeyPressed(imgui.KeyF12)
	}

	mouse := imgui.MousePos()
	down := imgui.IsMouseDown(imgui.MouseButtonLeft)
	// A drag that starts over a panel belongs to the panel.
	if down && !in.dragging && !io.WantCaptureMouse() {
		in.dragging = true
	} else if !down {
		in.dragging = false
	}
	if in.dragging {
		in.controls.Dragging = true
		in.controls.DX = mouse.X - in.lastMouse.X
		in.controls.DY = mouse.Y - in.lastMouse.Y
	}
	in.lastMouse = mouse

	if imgui.IsMouseClickedBool(imgui.MouseButtonRight) && !io.WantCaptureMouse() {
		in.clicked = true
		in.clickPos = mouse
	}
}

// Clicked returns where the scene was right-clicked this frame, in the
// same units as the display size.
func (in *Input) Clicked() (x, y float32, ok bool) {
	return in.clickPos.X, in.clickPos.Y, in.clicked
}

func (in *Input) Controls() camera.Controls { return in.controls }
func (in *Input) Pressed(a app.Action) bool { return in.pressed[a] }
