// Package viewer wires the GL resources of a scene together and runs the
// SDL viewer loop.
package viewer

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/pbrview/internal/assets"
	"github.com/Faultbox/pbrview/internal/config"
	"github.com/Faultbox/pbrview/internal/engine/camera"
	"github.com/Faultbox/pbrview/internal/engine/frame"
	"github.com/Faultbox/pbrview/internal/engine/gpu"
	"github.com/Faultbox/pbrview/internal/engine/lighting"
	"github.com/Faultbox/pbrview/internal/engine/material"
	"github.com/Faultbox/pbrview/internal/engine/overlay"
	"github.com/Faultbox/pbrview/internal/engine/renderer"
	"github.com/Faultbox/pbrview/internal/engine/shader"
	"github.com/Faultbox/pbrview/internal/engine/sky"
	"github.com/Faultbox/pbrview/internal/scene"
	"github.com/Faultbox/pbrview/pkg/geometry"
)

// Mesh names the world registers beside the scene's own.
const (
	skyCubeMesh      = "_sky_cube"
	markerSphereMesh = "_marker_sphere"
)

// World owns everything one scene needs on the GPU.
type World struct {
	Assets   *assets.Manager
	Programs map[string]*shader.Program
	Scene    *scene.Scene
	Sky      *sky.Sky
	Lights   *lighting.Set
	Camera   *camera.Camera
	Overlay  *renderer.TextOverlay
	Reporter *material.LogReporter
	Frame    *frame.Orchestrator

	log *zap.Logger
}

// NewWorld compiles the built-in programs, builds the configured scene and
// attaches it to a new orchestrator drawing through pipeline. size reports
// the current surface size. A GL context must be current.
func NewWorld(cfg *config.Config, pipeline gpu.Pipeline, size func() (int, int), log *zap.Logger) (*World, error) {
	w := &World{
		Assets:   assets.NewManager(renderer.Device{}, log.Named("assets")),
		Programs: make(map[string]*shader.Program, len(shader.Builtins)),
		Reporter: material.NewLogReporter(log.Named("material")),
		log:      log,
	}
	if err := w.init(cfg, pipeline, size); err != nil {
		w.Close()
		return nil, err
	}
	return w, nil
}

func (w *World) init(cfg *config.Config, pipeline gpu.Pipeline, size func() (int, int)) error {
	for _, src := range shader.Builtins {
		p, err := shader.Load(src, w.log.Named("shader"))
		if err != nil {
			return fmt.Errorf("load program %s: %w", src.Name, err)
		}
		w.Programs[src.Name] = p
		w.Assets.RegisterProgram(src.Name, p.Vertex(), p.Pixel())
	}

	desc, dir, err := loadDescription(cfg.Scene.File)
	if err != nil {
		return err
	}
	if err := desc.Validate(w.Assets.ProgramNames()); err != nil {
		return fmt.Errorf("validate scene: %w", err)
	}

	src, err := sky.LoadSource(cfg.Scene.SkyDir, cfg.Scene.SkyExt)
	if err != nil {
		return fmt.Errorf("load sky: %w", err)
	}
	w.Sky = sky.New(src,
		w.Programs[shader.Sky.Name],
		w.Assets.Mesh(skyCubeMesh, geometry.Cube(2)),
		w.Assets.Sampler(scene.SamplerClamp),
		w.log.Named("sky"),
	)

	w.Scene, err = scene.Build(desc, w.Assets, scene.Options{
		Dir:      dir,
		Env:      w.Sky,
		Reporter: w.Reporter,
		Log:      w.log.Named("scene"),
	})
	if err != nil {
		return fmt.Errorf("build scene: %w", err)
	}

	w.validateMaterials()

	seed := cfg.Scene.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	w.Lights, err = lighting.NewSet(cfg.Scene.LightCount, lighting.NewRand(seed))
	if err != nil {
		return fmt.Errorf("create lights: %w", err)
	}
	w.log.Info("lights generated",
		zap.Int("count", w.Lights.Len()),
		zap.Uint64("seed", seed),
	)

	width, height := size()
	w.Camera = camera.New(mgl32.Vec3(cfg.Camera.Position), cfg.Camera.MoveSpeed, cfg.Camera.LookSpeed, aspect(width, height))
	w.Camera.FOV = cfg.Camera.FOV
	w.Camera.UpdateProjection(aspect(width, height))

	face, err := overlay.NewFace(overlay.DefaultFontSize)
	if err != nil {
		w.log.Warn("falling back to bitmap font", zap.Error(err))
	}
	w.Overlay = renderer.NewTextOverlay(overlay.New(face, overlay.DefaultLines()), w.Programs[shader.Overlay.Name], size)

	solid := w.Programs[shader.Solid.Name]
	w.Frame = frame.New(pipeline, w.log.Named("frame"))
	w.Frame.SetCamera(w.Camera)
	w.Frame.SetEntities(w.Scene.Entities)
	w.Frame.SetLights(w.Lights)
	w.Frame.SetEnvironment(w.Sky)
	w.Frame.SetMarkers(&frame.Markers{
		Mesh:   w.Assets.Mesh(markerSphereMesh, geometry.Sphere(1, 16, 8)),
		Vertex: solid.Vertex(),
		Pixel:  solid.Pixel(),
	})
	w.Frame.SetOverlay(w.Overlay)

	hits, misses := w.Assets.Stats()
	w.log.Info("world ready",
		zap.Int("entities", len(w.Scene.Entities)),
		zap.Int("materials", len(w.Scene.Materials)),
		zap.Int("cacheHits", hits),
		zap.Int("cacheMisses", misses),
	)
	return nil
}

// validateMaterials reports the bindings each material's program does not
// declare before the first frame binds them.
func (w *World) validateMaterials() {
	for _, m := range w.Materials() {
		for _, p := range w.Programs {
			if m.PixelStage() != gpu.Stage(p.Pixel()) {
				continue
			}
			if n := m.Validate(p.Has); n > 0 {
				w.log.Warn("material has unresolved bindings",
					zap.String("material", m.Name()),
					zap.String("program", p.Name()),
					zap.Int("count", n),
				)
			}
			break
		}
	}
}

// Materials returns the scene's materials in name order.
func (w *World) Materials() []*material.Material {
	names := w.Scene.MaterialNames()
	out := make([]*material.Material, 0, len(names))
	for _, name := range names {
		out = append(out, w.Scene.Materials[name])
	}
	return out
}

// Close releases every GPU object the world created.
func (w *World) Close() {
	if w.Overlay != nil {
		w.Overlay.Delete()
	}
	if w.Sky != nil {
		w.Sky.Delete()
	}
	w.Assets.Close()
	for _, p := range w.Programs {
		p.Delete()
	}
	clear(w.Programs)
}

// loadDescription returns the scene file's description and the directory
// its texture paths resolve against, or the built-in scene.
func loadDescription(path string) (*scene.Description, string, error) {
	if path == "" {
		d, err := scene.Default()
		if err != nil {
			return nil, "", fmt.Errorf("default scene: %w", err)
		}
		return d, "", nil
	}
	d, err := scene.Load(path)
	if err != nil {
		return nil, "", fmt.Errorf("load scene %s: %w", path, err)
	}
	return d, filepath.Dir(path), nil
}

func aspect(width, height int) float32 {
	if width <= 0 || height <= 0 {
		return 1
	}
	return float32(width) / float32(height)
}
