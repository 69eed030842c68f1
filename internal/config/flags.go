package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagWindowed   = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
	flagLights     = flag.Int("lights", 0, "Number of lights including the 3 directional ones")
	flagSeed       = flag.Uint64("seed", 0, "Light generator seed (0 = clock)")
	flagScene      = flag.String("scene", "", "Scene description file")
	flagSky        = flag.String("sky", "", "Directory holding posx..negz cube faces")
	flagShots      = flag.String("screenshots", "", "Screenshot output directory")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagWindowed {
		cfg.Graphics.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Graphics.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Graphics.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Graphics.Height = *flagHeight
	}
	if *flagLights > 0 {
		cfg.Scene.LightCount = *flagLights
	}
	if *flagSeed != 0 {
		cfg.Scene.Seed = *flagSeed
	}
	if *flagScene != "" {
		cfg.Scene.File = *flagScene
	}
	if *flagSky != "" {
		cfg.Scene.SkyDir = *flagSky
	}
	if *flagShots != "" {
		cfg.Graphics.ScreenshotDir = *flagShots
	}
}
