// Package config handles meshburst configuration loading and management.
package config

import "github.com/Faultbox/meshburst/internal/spread"

// Config holds all settings shared by the CLI and the viewer.
type Config struct {
	Explosion  ExplosionConfig   `yaml:"explosion"`
	Spreadings []SpreadingConfig `yaml:"spreadings"`
	Mesh       MeshConfig        `yaml:"mesh"`
	Jobs       JobsConfig        `yaml:"jobs"`
	Preview    PreviewConfig     `yaml:"preview"`
	Window     WindowConfig      `yaml:"window"`
	Logging    LoggingConfig     `yaml:"logging"`
}

// ExplosionConfig holds the simulation tuning.
type ExplosionConfig struct {
	Direction       [3]float32   `yaml:"direction"`
	Force           float32      `yaml:"force"`
	Gravity         float32      `yaml:"gravity"`
	Drag            float32      `yaml:"drag"`
	AngularVelocity spread.Range `yaml:"angular_velocity"` // degrees per second
	Duration        float32      `yaml:"duration"`         // seconds
	DestroyOnExpire bool         `yaml:"destroy_on_expire"`
	Seed            int64        `yaml:"seed"`
}

// SpreadingConfig describes one dispersal profile.
type SpreadingConfig struct {
	Quantity     float32      `yaml:"quantity"`
	ConeRadius   spread.Range `yaml:"cone_radius"`
	RingDistance float32      `yaml:"ring_distance"`
	Angle        spread.Range `yaml:"angle"`
	Force        spread.Range `yaml:"force"`
	Color        string       `yaml:"color"` // #rrggbb or #rrggbbaa
}

// MeshConfig selects the source mesh: an OBJ file, or a primitive when Path
// is empty.
type MeshConfig struct {
	Path         string   `yaml:"path"`
	Primitive    string   `yaml:"primitive"` // cube, plane, icosphere
	Size         float32  `yaml:"size"`
	Subdivisions int      `yaml:"subdivisions"`
	Textures     []string `yaml:"textures"` // per submesh, may be empty
}

// JobsConfig holds scheduler limits.
type JobsConfig struct {
	Workers   int `yaml:"workers"`    // 0 means GOMAXPROCS
	BatchSize int `yaml:"batch_size"` // 0 means the scheduler default
}

// PreviewConfig holds headless snapshot settings.
type PreviewConfig struct {
	OutputDir   string  `yaml:"output_dir"`
	Size        int     `yaml:"size"`
	Supersample int     `yaml:"supersample"`
	FPS         int     `yaml:"fps"`
	Every       int     `yaml:"every"` // write one snapshot every N frames
	Yaw         float32 `yaml:"yaw"`
	Pitch       float32 `yaml:"pitch"`
	Zoom        float32 `yaml:"zoom"`
	Gizmo       bool    `yaml:"gizmo"`
}

// WindowConfig holds viewer display settings.
type WindowConfig struct {
	Width    int    `yaml:"width"`
	Height   int    `yaml:"height"`
	VSync    bool   `yaml:"vsync"`
	FPSLimit int    `yaml:"fps_limit"`
	Title    string `yaml:"title"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Explosion: ExplosionConfig{
			Direction:       [3]float32{0, 1, 0},
			Force:           4,
			Gravity:         9.81,
			Drag:            3,
			AngularVelocity: spread.Range{Min: -180, Max: 180},
			Duration:        3,
			Seed:            1,
		},
		Spreadings: []SpreadingConfig{
			{
				Quantity:     0.3,
				ConeRadius:   spread.Range{Min: 0, Max: 0.5},
				RingDistance: 1,
				Angle:        spread.Range{Min: 0, Max: 360},
				Force:        spread.Range{Min: 2, Max: 3},
				Color:        "#ff3030",
			},
			{
				Quantity:     1,
				ConeRadius:   spread.Range{Min: 0.5, Max: 1.5},
				RingDistance: 0.5,
				Angle:        spread.Range{Min: 0, Max: 360},
				Force:        spread.Range{Min: 1, Max: 2},
				Color:        "#3080ff",
			},
		},
		Mesh: MeshConfig{
			Primitive:    "icosphere",
			Size:         1,
			Subdivisions: 2,
		},
		Preview: PreviewConfig{
			OutputDir:   "out",
			Size:        256,
			Supersample: 2,
			FPS:         30,
			Every:       3,
			Yaw:         35,
			Pitch:       25,
			Zoom:        3,
			Gizmo:       true,
		},
		Window: WindowConfig{
			Width:  1280,
			Height: 720,
			VSync:  true,
			Title:  "meshburst",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
