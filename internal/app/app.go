// Package app implements the viewer's update and draw cycle on top of the
// frame orchestrator. It knows nothing about windows or GL.
package app

import (
	"go.uber.org/zap"

	"github.com/Faultbox/pbrview/internal/engine/camera"
	"github.com/Faultbox/pbrview/internal/engine/frame"
	"github.com/Faultbox/pbrview/internal/engine/lighting"
)

// Action is a discrete user command.
type Action int

const (
	ActionQuit Action = iota
	ActionRegenerateLights
	ActionScreenshot
)

// Input is the per-frame input snapshot.
type Input interface {
	Controls() camera.Controls
	// Pressed reports whether the action was triggered this frame.
	Pressed(a Action) bool
}

// Info is the status shown by the debug UI.
type Info struct {
	FPS         float64
	Width       int
	Height      int
	Aspect      float32
	Entities    int
	Lights      int
	PointLights int
	Frame       frame.Stats
}

// App drives one scene.
type App struct {
	frame  *frame.Orchestrator
	camera *camera.Camera
	lights *lighting.Set
	log    *zap.Logger

	width, height int
	running       bool
	screenshot    bool

	// FPS counter
	frames   int
	elapsed  float64
	fps      float64
	lastStat frame.Stats
}

// New creates an app that draws through orch. The orchestrator must already
// hold the camera and lights.
func New(orch *frame.Orchestrator, width, height int, log *zap.Logger) *App {
	if log == nil {
		log = zap.NewNop()
	}
	a := &App{
		frame:   orch,
		camera:  orch.Camera(),
		lights:  orch.Lights(),
		log:     log,
		running: true,
	}
	a.Resize(width, height)
	return a
}

// Running reports whether the app should keep looping.
func (a *App) Running() bool { return a.running }

// Quit stops the loop after the current frame.
func (a *App) Quit() { a.running = false }

// Frame returns the orchestrator.
func (a *App) Frame() *frame.Orchestrator { return a.frame }

// Update applies one frame of input: quit, light regeneration, screenshot
// requests and camera movement, in that order.
func (a *App) Update(dt float64, in Input) {
	if in.Pressed(ActionQuit) {
		a.log.Info("quit requested")
		a.running = false
		return
	}
	if in.Pressed(ActionRegenerateLights) {
		a.RegenerateLights()
	}
	if in.Pressed(ActionScreenshot) {
		a.screenshot = true
	}
	if a.camera != nil {
		a.camera.Update(float32(dt), in.Controls())
	}

	a.frames++
	a.elapsed += dt
	if a.elapsed >= 1 {
		a.fps = float64(a.frames) / a.elapsed
		a.log.Debug("fps", zap.Float64("fps", a.fps))
		a.frames = 0
		a.elapsed = 0
	}
}

// RegenerateLights replaces every light with a fresh random population.
func (a *App) RegenerateLights() {
	if a.lights == nil {
		return
	}
	a.lights.Regenerate()
	a.log.Debug("lights regenerated", zap.Int("count", a.lights.Len()))
}

// Draw renders one frame.
func (a *App) Draw() frame.Stats {
	a.lastStat = a.frame.Frame()
	return a.lastStat
}

// Resize records the new surface size and updates the camera projection.
func (a *App) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	a.width, a.height = width, height
	a.frame.Resize(width, height)
}

// Size returns the last accepted surface size.
func (a *App) Size() (int, int) { return a.width, a.height }

// TakeScreenshotRequest returns true once per requested screenshot.
func (a *App) TakeScreenshotRequest() bool {
	req := a.screenshot
	a.screenshot = false
	return req
}

// Info returns the current status.
func (a *App) Info() Info {
	info := Info{
		FPS:      a.fps,
		Width:    a.width,
		Height:   a.height,
		Entities: len(a.frame.Entities()),
		Frame:    a.lastStat,
	}
	if a.camera != nil {
		info.Aspect = a.camera.Aspect()
	}
	if a.lights != nil {
		info.Lights = a.lights.Len()
		info.PointLights = a.lights.PointCount()
	}
	return info
}
