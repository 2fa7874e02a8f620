package main

import (
	"fmt"
	"image"
	"math/rand"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Faultbox/meshburst/internal/config"
	"github.com/Faultbox/meshburst/internal/explosion"
	"github.com/Faultbox/meshburst/internal/host"
	"github.com/Faultbox/meshburst/internal/logger"
	"github.com/Faultbox/meshburst/internal/preview"
)

// summary describes a finished run.
type summary struct {
	Frames    int
	Fragments int
	Files     []string
	Destroyed bool
}

// run simulates the whole explosion lifetime at cfg.Preview.FPS and writes a
// snapshot of the intact mesh, one every cfg.Preview.Every frames, the final
// frame and optionally the direction gizmo.
func run(cfg *config.Config) (summary, error) {
	var sum summary
	log := logger.Named("run")

	src, err := cfg.Mesh.Source()
	if err != nil {
		return sum, fmt.Errorf("loading mesh: %w", err)
	}
	params, err := cfg.Params()
	if err != nil {
		return sum, err
	}
	if err := os.MkdirAll(cfg.Preview.OutputDir, 0755); err != nil {
		return sum, err
	}

	textures, err := preview.LoadTextures(cfg.Mesh.Textures)
	if err != nil {
		return sum, err
	}

	target := host.FromSource(src)
	r := preview.NewRenderer(cfg.Preview.Size, cfg.Preview.Supersample)
	r.SetView(cfg.Preview.Yaw, cfg.Preview.Pitch)
	r.Fit(target.Bounds, cfg.Preview.Zoom)
	r.Textures = textures

	save := func(name string, img image.Image) error {
		path := filepath.Join(cfg.Preview.OutputDir, name)
		sum.Files = append(sum.Files, path)
		return preview.WriteWebP(path, img)
	}

	if err := save("intact.webp", r.Render(target)); err != nil {
		return sum, err
	}
	if cfg.Preview.Gizmo {
		gizmo := preview.RenderGizmo(params.Profiles, params.SpreadDirection, cfg.Preview.Size)
		if err := save("gizmo.webp", gizmo); err != nil {
			return sum, err
		}
	}

	ctl := explosion.New(src, target,
		explosion.WithScheduler(cfg.Jobs.Scheduler()),
		explosion.WithExpireHandler(func() {
			sum.Destroyed = true
			log.Info("explosion asked for destruction")
		}),
	)
	defer ctl.Dispose()

	if err := ctl.Start(params, rand.New(rand.NewSource(cfg.Explosion.Seed))); err != nil {
		return sum, err
	}
	sum.Fragments = ctl.Fragments()

	fps := max(cfg.Preview.FPS, 1)
	every := max(cfg.Preview.Every, 1)
	dt := 1 / float32(fps)

	for ctl.State() == explosion.Running {
		ctl.Advance(dt)
		ctl.Join()
		sum.Frames++

		if sum.Frames%every == 0 || ctl.State() != explosion.Running {
			if err := save(fmt.Sprintf("frame_%04d.webp", sum.Frames), r.Render(target)); err != nil {
				return sum, err
			}
		}
		log.Debug("frame",
			zap.Int("n", sum.Frames),
			zap.Float32("remaining", ctl.Remaining()),
		)
	}
	return sum, nil
}
