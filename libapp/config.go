package libapp

import "flag"

type Config struct {
	Title         string
	Width, Height int
	VSync         bool
	Fullscreen    bool
	// Registers the driver debug callback
	Debug       bool
	ShaderCache bool
	// Compatibility profile, some drivers only expose debug output there
	Compatibility bool
	// Offscreen work without a visible window
	Hidden bool
	// Scene file, empty for the built in one
	Scene string
	// Sky generator: opengl, software or opencl
	Sky string
}

func DefaultConfig(title string) Config {
	return Config{
		Title:       title,
		Width:       1600,
		Height:      900,
		VSync:       true,
		Debug:       true,
		ShaderCache: true,
		Sky:         "opengl",
	}
}

func (cfg *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.IntVar(&cfg.Width, "width", cfg.Width, "window width in pixels")
	fs.IntVar(&cfg.Height, "height", cfg.Height, "window height in pixels")
	fs.BoolVar(&cfg.VSync, "vsync", cfg.VSync, "wait for vertical sync")
	fs.BoolVar(&cfg.Fullscreen, "fullscreen", cfg.Fullscreen, "start in fullscreen on the primary monitor")
	fs.BoolVar(&cfg.Debug, "debug", cfg.Debug, "log opengl debug messages")
	fs.BoolVar(&cfg.ShaderCache, "shader-cache", cfg.ShaderCache, "cache linked shader binaries on disk")
	fs.BoolVar(&cfg.Compatibility, "enable-compatibility-profile", cfg.Compatibility, "")
	fs.StringVar(&cfg.Scene, "scene", cfg.Scene, "scene yaml file, changes are reloaded")
	fs.StringVar(&cfg.Sky, "sky", cfg.Sky, "sky generator: opengl, software or opencl")
}
