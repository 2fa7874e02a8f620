package config

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/Faultbox/meshburst/internal/explosion"
	"github.com/Faultbox/meshburst/internal/spread"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Explosion defaults
	if cfg.Explosion.Gravity != 9.81 {
		t.Errorf("expected gravity 9.81, got %f", cfg.Explosion.Gravity)
	}
	if cfg.Explosion.Duration != 3 {
		t.Errorf("expected duration 3, got %f", cfg.Explosion.Duration)
	}
	if cfg.Explosion.Direction != [3]float32{0, 1, 0} {
		t.Errorf("expected up direction, got %v", cfg.Explosion.Direction)
	}

	// Spreadings
	if len(cfg.Spreadings) != 2 {
		t.Fatalf("expected 2 spreadings, got %d", len(cfg.Spreadings))
	}
	if cfg.Spreadings[0].Quantity != 0.3 || cfg.Spreadings[1].Quantity != 1 {
		t.Errorf("unexpected thresholds %v, %v", cfg.Spreadings[0].Quantity, cfg.Spreadings[1].Quantity)
	}

	// Window and logging
	if cfg.Window.Width != 1280 || cfg.Window.Height != 720 {
		t.Errorf("expected 1280x720, got %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, FileName)

	yamlContent := `
explosion:
  direction: [1, 0, 0]
  force: 7
  gravity: 0
  angular_velocity: {min: -10, max: 10}
  duration: 1.5
  destroy_on_expire: true
  seed: 99

spreadings:
  - quantity: 1
    cone_radius: {min: 0, max: 2}
    ring_distance: 0.25
    angle: {min: 0, max: 90}
    force: {min: 1, max: 1}
    color: "#00ff00"

mesh:
  primitive: cube
  size: 2

jobs:
  workers: 3
  batch_size: 128

preview:
  size: 128

logging:
  level: "debug"
  log_file: "burst.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Explosion.Direction != [3]float32{1, 0, 0} {
		t.Errorf("expected +X direction, got %v", cfg.Explosion.Direction)
	}
	if cfg.Explosion.Force != 7 || cfg.Explosion.Gravity != 0 {
		t.Errorf("unexpected force/gravity %v/%v", cfg.Explosion.Force, cfg.Explosion.Gravity)
	}
	if cfg.Explosion.AngularVelocity != (spread.Range{Min: -10, Max: 10}) {
		t.Errorf("unexpected angular velocity %+v", cfg.Explosion.AngularVelocity)
	}
	if !cfg.Explosion.DestroyOnExpire || cfg.Explosion.Seed != 99 {
		t.Error("expected destroy_on_expire and seed 99")
	}
	// Drag was not in the file and keeps its default.
	if cfg.Explosion.Drag != 3 {
		t.Errorf("expected default drag 3, got %v", cfg.Explosion.Drag)
	}

	if len(cfg.Spreadings) != 1 {
		t.Fatalf("file spreadings should replace defaults, got %d", len(cfg.Spreadings))
	}
	if cfg.Spreadings[0].RingDistance != 0.25 || cfg.Spreadings[0].Color != "#00ff00" {
		t.Errorf("unexpected spreading %+v", cfg.Spreadings[0])
	}

	if cfg.Mesh.Primitive != "cube" || cfg.Mesh.Size != 2 {
		t.Errorf("unexpected mesh %+v", cfg.Mesh)
	}
	if cfg.Jobs.Workers != 3 || cfg.Jobs.BatchSize != 128 {
		t.Errorf("unexpected jobs %+v", cfg.Jobs)
	}
	if cfg.Preview.Size != 128 || cfg.Preview.Supersample != 2 {
		t.Errorf("unexpected preview %+v", cfg.Preview)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.LogFile != "burst.log" {
		t.Errorf("unexpected logging %+v", cfg.Logging)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
explosion:
  force: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/meshburst.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestParams(t *testing.T) {
	cfg := Default()
	p, err := cfg.Params()
	if err != nil {
		t.Fatalf("Params failed: %v", err)
	}

	if p.SpreadForce != 4 || p.Duration != 3 {
		t.Errorf("unexpected force/duration %v/%v", p.SpreadForce, p.Duration)
	}
	if p.MinAngularVelocity != -180 || p.MaxAngularVelocity != 180 {
		t.Errorf("unexpected angular range [%v, %v]", p.MinAngularVelocity, p.MaxAngularVelocity)
	}
	if len(p.Profiles) != 2 {
		t.Fatalf("expected 2 profiles, got %d", len(p.Profiles))
	}
	if p.Profiles[1].DebugColor != (color.NRGBA{R: 0x30, G: 0x80, B: 0xff, A: 0xff}) {
		t.Errorf("unexpected debug color %+v", p.Profiles[1].DebugColor)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"zero duration", func(c *Config) { c.Explosion.Duration = 0 }, explosion.ErrInvalidDuration},
		{"inverted angular", func(c *Config) { c.Explosion.AngularVelocity = spread.Range{Min: 1, Max: -1} }, spread.ErrInvertedRange},
		{"inverted cone", func(c *Config) { c.Spreadings[0].ConeRadius = spread.Range{Min: 2, Max: 1} }, spread.ErrInvertedRange},
		{"bad color", func(c *Config) { c.Spreadings[1].Color = "blue" }, ErrBadColor},
		{"unknown primitive", func(c *Config) { c.Mesh.Primitive = "teapot" }, ErrUnknownPrimitive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}

	cfg := Default()
	cfg.Spreadings[0].Quantity = 1.5
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for quantity above 1")
	}
}

func TestParseColor(t *testing.T) {
	cases := map[string]color.NRGBA{
		"":          {R: 255, A: 255},
		"#ff0000":   {R: 255, A: 255},
		"00ff00":    {G: 255, A: 255},
		"#0000ff80": {B: 255, A: 0x80},
	}
	for in, want := range cases {
		got, err := ParseColor(in)
		if err != nil {
			t.Errorf("ParseColor(%q) failed: %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseColor(%q) = %+v, want %+v", in, got, want)
		}
	}
	if _, err := ParseColor("#zzzzzz"); !errors.Is(err, ErrBadColor) {
		t.Errorf("expected ErrBadColor, got %v", err)
	}
}

func TestMeshSource(t *testing.T) {
	for _, prim := range []string{"cube", "plane", "icosphere"} {
		src, err := MeshConfig{Primitive: prim, Size: 1, Subdivisions: 1}.Source()
		if err != nil {
			t.Fatalf("%s: %v", prim, err)
		}
		if src.TriangleCount() == 0 {
			t.Errorf("%s: no triangles", prim)
		}
	}

	objPath := filepath.Join(t.TempDir(), "quad.obj")
	obj := "v 0 0 0\nv 1 0 0\nv 1 1 0\nv 0 1 0\nf 1 2 3 4\n"
	if err := os.WriteFile(objPath, []byte(obj), 0644); err != nil {
		t.Fatal(err)
	}
	src, err := MeshConfig{Path: objPath}.Source()
	if err != nil {
		t.Fatalf("loading OBJ: %v", err)
	}
	if src.TriangleCount() != 2 {
		t.Errorf("expected 2 triangles, got %d", src.TriangleCount())
	}

	if _, err := (MeshConfig{Primitive: "teapot"}).Source(); !errors.Is(err, ErrUnknownPrimitive) {
		t.Errorf("expected ErrUnknownPrimitive, got %v", err)
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, FileName)
	if err := os.WriteFile(configPath, []byte("window:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path == "" {
		t.Error("expected to find meshburst.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "mesh and out flags",
			setup: func() { *flagMesh, *flagOut = "rock.obj", "frames" },
			verify: func(cfg *Config) {
				if cfg.Mesh.Path != "rock.obj" || cfg.Preview.OutputDir != "frames" {
					t.Errorf("unexpected mesh %q / out %q", cfg.Mesh.Path, cfg.Preview.OutputDir)
				}
			},
			teardown: func() { *flagMesh, *flagOut = "", "" },
		},
		{
			name:  "seed and workers flags",
			setup: func() { *flagSeed, *flagWorkers = 7, 2 },
			verify: func(cfg *Config) {
				if cfg.Explosion.Seed != 7 || cfg.Jobs.Workers != 2 {
					t.Errorf("unexpected seed %d / workers %d", cfg.Explosion.Seed, cfg.Jobs.Workers)
				}
			},
			teardown: func() { *flagSeed, *flagWorkers = 0, 0 },
		},
		{
			name:  "width and height flags",
			setup: func() { *flagWidth, *flagHeight = 2560, 1440 },
			verify: func(cfg *Config) {
				if cfg.Window.Width != 2560 || cfg.Window.Height != 1440 {
					t.Errorf("expected 2560x1440, got %dx%d", cfg.Window.Width, cfg.Window.Height)
				}
			},
			teardown: func() { *flagWidth, *flagHeight = 0, 0 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)
			tt.verify(cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, FileName)

	yamlContent := `
window:
  width: 1600
  height: 900
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Width from flag, height from file
	if cfg.Window.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Window.Width)
	}
	if cfg.Window.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Window.Height)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(configPath, []byte("explosion:\n  duration: -1\n"), 0644); err != nil {
		t.Fatal(err)
	}

	*flagConfig = configPath
	defer func() { *flagConfig = "" }()

	if _, err := Load(); !errors.Is(err, explosion.ErrInvalidDuration) {
		t.Errorf("expected ErrInvalidDuration, got %v", err)
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)
	cfg := Default()
	cfg.Explosion.Force = 12

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("reloading saved config: %v", err)
	}
	if loaded.Explosion.Force != 12 {
		t.Errorf("expected force 12 after reload, got %v", loaded.Explosion.Force)
	}
}
