package config

import "flag"

var (
	flagConfig  = flag.String("config", "", "Path to config file")
	flagDebug   = flag.Bool("debug", false, "Enable debug logging")
	flagMesh    = flag.String("mesh", "", "Path to a Wavefront OBJ mesh")
	flagOut     = flag.String("out", "", "Snapshot output directory")
	flagSeed    = flag.Int64("seed", 0, "Random seed (0 keeps the configured seed)")
	flagWorkers = flag.Int("workers", 0, "Worker goroutines for the simulation")
	flagWidth   = flag.Int("width", 0, "Window width")
	flagHeight  = flag.Int("height", 0, "Window height")
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
	if *flagMesh != "" {
		cfg.Mesh.Path = *flagMesh
	}
	if *flagOut != "" {
		cfg.Preview.OutputDir = *flagOut
	}
	if *flagSeed != 0 {
		cfg.Explosion.Seed = *flagSeed
	}
	if *flagWorkers > 0 {
		cfg.Jobs.Workers = *flagWorkers
	}
	if *flagWidth > 0 {
		cfg.Window.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Window.Height = *flagHeight
	}
}
