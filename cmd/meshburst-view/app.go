package main

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/meshburst/internal/config"
	"github.com/Faultbox/meshburst/internal/explosion"
	"github.com/Faultbox/meshburst/internal/fragment"
	"github.com/Faultbox/meshburst/internal/glview"
	"github.com/Faultbox/meshburst/internal/host"
	"github.com/Faultbox/meshburst/internal/logger"
	"github.com/Faultbox/meshburst/internal/orbit"
	"github.com/Faultbox/meshburst/internal/preview"
	"github.com/Faultbox/meshburst/internal/window"
	"github.com/Faultbox/meshburst/pkg/mesh"
)

// app owns the window, the explosion and the GPU view of the mesh.
type app struct {
	cfg      *config.Config
	params   explosion.Params
	rng      *rand.Rand
	source   *mesh.Source
	target   *host.Mesh
	empty    *host.Mesh
	ctl      *explosion.Controller
	win      *window.Window
	input    *window.Input
	renderer *glview.Renderer
	camera   *orbit.Camera
	log      *zap.Logger
	running  bool
	hidden   bool
}

func newApp(cfg *config.Config) (*app, error) {
	a := &app{
		cfg:    cfg,
		input:  window.NewInput(),
		camera: orbit.New(),
		empty:  host.NewMesh("empty"),
		rng:    rand.New(rand.NewSource(cfg.Explosion.Seed)),
		log:    logger.Named("viewer"),
	}

	var err error
	if a.source, err = cfg.Mesh.Source(); err != nil {
		return nil, fmt.Errorf("loading mesh: %w", err)
	}
	if a.params, err = cfg.Params(); err != nil {
		return nil, err
	}

	a.win, err = window.New(window.Config{
		Title:  cfg.Window.Title,
		Width:  cfg.Window.Width,
		Height: cfg.Window.Height,
		VSync:  cfg.Window.VSync,
	})
	if err != nil {
		return nil, err
	}

	a.renderer, err = glview.NewRenderer(preview.DefaultPalette)
	if err != nil {
		a.win.Close()
		return nil, err
	}

	a.target = host.FromSource(a.source)
	lo, hi := a.source.Bounds()
	a.camera.FitRadius(lo.Add(hi).Scale(0.5), max(hi.Sub(lo).Length(), 0.1)*1.5)

	a.ctl = explosion.New(a.source, a.target,
		explosion.WithScheduler(cfg.Jobs.Scheduler()),
		explosion.WithExpireHandler(func() {
			a.hidden = true
			a.log.Info("fragments expired")
		}),
	)
	return a, nil
}

// trigger (re)starts the explosion from the intact mesh.
func (a *app) trigger() {
	a.hidden = false
	err := a.ctl.Start(a.params, a.rng)
	if errors.Is(err, fragment.ErrAlreadyDecomposed) {
		return
	}
	if err != nil {
		a.log.Error("start failed", zap.Error(err))
	}
}

// Run is the frame loop: input, advance, join and draw.
func (a *app) Run() error {
	a.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()
	var minFrame time.Duration
	if a.cfg.Window.FPSLimit > 0 {
		minFrame = time.Second / time.Duration(a.cfg.Window.FPSLimit)
	}

	a.log.Info("starting frame loop; press space to explode", zap.Int("triangles", a.source.TriangleCount()))

	for a.running {
		now := time.Now()
		dt := float32(now.Sub(lastTime).Seconds())
		lastTime = now

		// Simulation runs on the workers while input is handled.
		a.ctl.Advance(dt)

		if a.input.Update() {
			a.running = false
			break
		}
		for _, e := range a.input.Events() {
			switch e.Type {
			case window.EventKeyDown:
				if e.Key == sdl.SCANCODE_SPACE {
					a.trigger()
				}
			case window.EventMouseDrag:
				a.camera.HandleDrag(e.DX, e.DY)
			case window.EventMouseWheel:
				a.camera.HandleZoom(e.DY)
			}
		}

		a.ctl.Join()

		w, h := a.win.Size()
		shown := a.target
		if a.hidden {
			shown = a.empty
		}
		a.renderer.Draw(shown, a.camera, w, h)
		a.win.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			a.win.SetTitle(fmt.Sprintf("%s - %d fps - %s", a.cfg.Window.Title, frameCount, a.ctl.State()))
			a.log.Debug("fps", zap.Int("count", frameCount), zap.Float32("dt_ms", dt*1000))
			frameCount = 0
			fpsTimer = time.Now()
		}

		if minFrame > 0 {
			if spent := time.Since(now); spent < minFrame {
				time.Sleep(minFrame - spent)
			}
		}
	}

	return nil
}

// Close joins outstanding work and frees GPU and window resources.
func (a *app) Close() {
	a.log.Info("closing viewer")

	if a.ctl != nil {
		a.ctl.Dispose()
	}
	if a.renderer != nil {
		a.renderer.Delete()
	}
	if a.win != nil {
		a.win.Close()
	}
}
