package viewer

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/pbrview/internal/app"
	"github.com/Faultbox/pbrview/internal/config"
	"github.com/Faultbox/pbrview/internal/engine/debug"
	"github.com/Faultbox/pbrview/internal/engine/input"
	"github.com/Faultbox/pbrview/internal/engine/renderer"
	"github.com/Faultbox/pbrview/internal/engine/window"
)

// Title is the window title.
const Title = "pbrview"

// Viewer is the plain SDL viewer: window, renderer, world and app.
type Viewer struct {
	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	world    *World
	app      *app.App
	capture  *debug.ScreenshotCapture
	log      *zap.Logger
}

// New opens the window and builds the configured world.
func New(cfg *config.Config, log *zap.Logger) (*Viewer, error) {
	log.Info("initializing viewer",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
		zap.Int("lights", cfg.Scene.LightCount),
	)

	v := &Viewer{
		input:   input.New(),
		capture: debug.NewScreenshotCapture(cfg.Graphics.ScreenshotDir, debug.DefaultPrefix),
		log:     log,
	}

	// The window creates the GL context, so it comes first.
	var err error
	v.window, err = window.New(window.Config{
		Title:      Title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	}, log.Named("window"))
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	width, height := v.window.Size()
	v.renderer, err = renderer.New(renderer.Config{
		Width:  width,
		Height: height,
		Swap:   v.present,
	})
	if err != nil {
		v.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	v.world, err = NewWorld(cfg, v.renderer, v.renderer.Size, log.Named("world"))
	if err != nil {
		v.Close()
		return nil, fmt.Errorf("failed to create world: %w", err)
	}
	v.app = app.New(v.world.Frame, width, height, log.Named("app"))

	log.Info("viewer initialized successfully")
	return v, nil
}

// Run loops until the window closes or the app quits.
func (v *Viewer) Run() error {
	lastTime := time.Now()
	titleTimer := time.Now()

	v.log.Info("starting viewer loop")
	for v.app.Running() {
		now := time.Now()
		dt := now.Sub(lastTime).Seconds()
		lastTime = now

		if v.input.Update() {
			v.app.Quit()
			break
		}
		if _, _, ok := v.input.Resized(); ok {
			// The drawable can differ from the window size on HiDPI displays.
			w, h := v.window.Size()
			v.renderer.Resize(w, h)
			v.app.Resize(w, h)
		}

		v.app.Update(dt, v.input)
		if !v.app.Running() {
			break
		}
		v.app.Draw()

		if time.Since(titleTimer) >= time.Second {
			info := v.app.Info()
			v.window.SetTitle(fmt.Sprintf("%s - %.0f fps - %d lights", Title, info.FPS, info.Lights))
			titleTimer = time.Now()
		}
	}
	return nil
}

// present captures a pending screenshot from the back buffer and swaps.
func (v *Viewer) present() {
	if v.app != nil && v.app.TakeScreenshotRequest() {
		pixels, w, h := v.renderer.ReadPixels()
		path, err := v.capture.CaptureFromPixels(pixels, w, h)
		if err != nil {
			v.log.Error("screenshot failed", zap.Error(err))
		} else {
			v.log.Info("screenshot saved", zap.String("path", path))
		}
	}
	v.window.SwapBuffers()
}

// Close releases resources in reverse creation order.
func (v *Viewer) Close() {
	v.log.Info("closing viewer")
	if v.world != nil {
		v.world.Close()
	}
	if v.renderer != nil {
		v.renderer.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
}
