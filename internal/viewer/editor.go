package viewer

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/pbrview/internal/app"
	"github.com/Faultbox/pbrview/internal/config"
	"github.com/Faultbox/pbrview/internal/engine/debug"
	"github.com/Faultbox/pbrview/internal/engine/framebuffer"
	"github.com/Faultbox/pbrview/internal/engine/picking"
	"github.com/Faultbox/pbrview/internal/engine/renderer"
	"github.com/Faultbox/pbrview/internal/engine/ui"
)

// Editor is the viewer with ImGui panels. The ImGui backend owns the
// window, so the scene is drawn offscreen and shown as the background.
type Editor struct {
	backend  *ui.Backend
	target   *framebuffer.Framebuffer
	renderer *renderer.Renderer
	input    *ui.Input
	world    *World
	app      *app.App
	panels   *ui.Panels
	capture  *debug.ScreenshotCapture
	log      *zap.Logger

	lastTime time.Time
}

// NewEditor opens the ImGui window and builds the configured world.
func NewEditor(cfg *config.Config, log *zap.Logger) (*Editor, error) {
	log.Info("initializing editor",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
	)

	e := &Editor{
		input:   ui.NewInput(),
		capture: debug.NewScreenshotCapture(cfg.Graphics.ScreenshotDir, debug.DefaultPrefix),
		log:     log,
	}

	var err error
	e.backend, err = ui.NewBackend(Title+" editor", cfg.Graphics.Width, cfg.Graphics.Height)
	if err != nil {
		return nil, fmt.Errorf("failed to create ui backend: %w", err)
	}

	// ImGui has not run a frame yet, so start from the configured size.
	width, height := cfg.Graphics.Width, cfg.Graphics.Height
	e.renderer, err = renderer.New(renderer.Config{
		Width:  width,
		Height: height,
		Swap:   e.present,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	e.target, err = framebuffer.New(width, height)
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("failed to create framebuffer: %w", err)
	}

	e.world, err = NewWorld(cfg, e.renderer, e.renderer.Size, log.Named("world"))
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("failed to create world: %w", err)
	}
	e.app = app.New(e.world.Frame, width, height, log.Named("app"))

	e.panels = ui.NewPanels(e.app, e.world.Materials(), e.world.Reporter.Distinct)
	e.panels.SetViewport(ui.NewViewport(e.target))
	e.world.Frame.SetDebugUI(e.panels)

	log.Info("editor initialized successfully")
	return e, nil
}

// Run hands control to the ImGui loop until the window closes or the app quits.
func (e *Editor) Run() error {
	e.lastTime = time.Now()
	e.log.Info("starting editor loop")
	e.backend.Run(e.frame)
	return nil
}

func (e *Editor) frame() {
	now := time.Now()
	dt := now.Sub(e.lastTime).Seconds()
	e.lastTime = now

	if w, h := ui.FramebufferSize(); e.target.Resize(w, h) {
		e.renderer.Resize(w, h)
		e.app.Resize(w, h)
	}

	e.input.Update()
	if x, y, ok := e.input.Clicked(); ok {
		e.pick(x, y)
	}
	e.app.Update(dt, e.input)
	if !e.app.Running() {
		e.backend.Close()
		return
	}

	e.target.Bind()
	e.app.Draw()
}

// pick selects the entity under a right-click, or clears the selection.
func (e *Editor) pick(x, y float32) {
	w, h := ui.DisplaySize()
	cam := e.world.Camera
	ray := picking.ScreenToRay(x, y, w, h, cam.View(), cam.Projection())
	hit, dist, ok := picking.Pick(ray, e.world.Frame.Entities(), e.world.Scene.Bounds)
	if !ok {
		e.panels.Select(nil)
		return
	}
	e.panels.Select(hit)
	e.log.Debug("entity picked", zap.String("name", hit.Name()), zap.Float32("distance", dist))
}

// present captures a pending screenshot from the offscreen target and
// returns drawing to the window. The backend swaps after ImGui renders.
func (e *Editor) present() {
	if e.app != nil && e.app.TakeScreenshotRequest() {
		pixels, w, h := e.target.ReadPixels()
		path, err := e.capture.CaptureFromPixels(pixels, w, h)
		if err != nil {
			e.log.Error("screenshot failed", zap.Error(err))
		} else {
			e.log.Info("screenshot saved", zap.String("path", path))
		}
	}
	e.target.Unbind()
}

// Close releases the scene and GL objects. The backend tears down the
// window when its loop returns.
func (e *Editor) Close() {
	e.log.Info("closing editor")
	if e.world != nil {
		e.world.Close()
	}
	if e.target != nil {
		e.target.Delete()
	}
	if e.renderer != nil {
		e.renderer.Close()
	}
}
