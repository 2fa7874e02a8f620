// Package explosion shatters a mesh into fragments and flies them apart.
//
// A Controller owns one session at a time. Each frame the owner of the frame
// loop calls Advance, which issues the per-fragment simulation and the
// per-vertex writeback as chained parallel jobs, and later Join, which waits
// for them and pushes the vertex buffer to the render target. Re-arming and
// disposal always join outstanding work before any buffer is released.
//
// A Controller is driven from a single goroutine; the parallelism is internal.
package explosion

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/meshburst/internal/fragment"
	"github.com/Faultbox/meshburst/internal/jobs"
	"github.com/Faultbox/meshburst/internal/logger"
	"github.com/Faultbox/meshburst/internal/spread"
	"github.com/Faultbox/meshburst/pkg/mesh"
)

// ErrDisposed is returned by Start after Dispose.
var ErrDisposed = errors.New("explosion: controller disposed")

// State is the lifecycle stage of a Controller.
type State int

// Lifecycle states.
const (
	Idle State = iota
	Armed
	Running
	Expired
	Disposed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Armed:
		return "armed"
	case Running:
		return "running"
	case Expired:
		return "expired"
	case Disposed:
		return "disposed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// RenderTarget receives the soup after every join. Implementations must
// copy what they are given; the slices stay owned by the session.
type RenderTarget interface {
	SetVertices(vertices []fragment.SoupVertex)
	SetIndices(indices []uint32)
	SetSubMeshes(ranges []fragment.SubMeshRange)
	RecalculateBounds()
	RecalculateNormals()
}

// Option configures a Controller.
type Option func(*Controller)

// WithScheduler sets the scheduler used for both parallel stages.
func WithScheduler(s *jobs.Scheduler) Option {
	return func(c *Controller) { c.scheduler = s }
}

// WithArena shares a buffer arena between controllers.
func WithArena(a *Arena) Option {
	return func(c *Controller) { c.arena = a }
}

// WithExpireHandler sets the callback fired once when an explosion started
// with DestroyOnExpire runs out of time.
func WithExpireHandler(fn func()) Option {
	return func(c *Controller) { c.onExpire = fn }
}

// Controller drives explosions of one source mesh.
type Controller struct {
	source    *mesh.Source
	target    RenderTarget
	scheduler *jobs.Scheduler
	arena     *Arena
	onExpire  func()
	log       *zap.Logger

	state     State
	session   *Session
	params    Params
	remaining float32
	maxArea   float32

	dirty        bool // writeback issued since the last push
	expireNotify bool
}

// New binds a controller to a source mesh and a render target.
func New(source *mesh.Source, target RenderTarget, opts ...Option) *Controller {
	c := &Controller{
		source:    source,
		target:    target,
		scheduler: jobs.NewScheduler(0, jobs.DefaultBatchSize),
		arena:     NewArena(),
		log:       logger.Named("explosion"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current lifecycle stage.
func (c *Controller) State() State {
	return c.state
}

// Remaining returns the seconds left before expiry.
func (c *Controller) Remaining() float32 {
	return c.remaining
}

// Fragments returns the fragment count of the live session.
func (c *Controller) Fragments() int {
	if c.session == nil || c.session.Soup() == nil {
		return 0
	}
	return c.session.Soup().Len()
}

// Session returns the live session, or nil.
func (c *Controller) Session() *Session {
	return c.session
}

// Start (re)arms the explosion: it joins and releases any previous session,
// decomposes the source mesh, seeds every fragment from the spreading
// profiles in decomposition order and pushes the initial pose.
//
// An invalid Params or a source that is already a triangle soup leaves the
// controller untouched.
func (c *Controller) Start(p Params, rng spread.Rand) error {
	if c.state == Disposed {
		return ErrDisposed
	}
	if err := p.Validate(); err != nil {
		return fmt.Errorf("starting explosion: %w", err)
	}
	if c.source.IndexCount() > 0 && c.source.IsSoup() {
		c.log.Info("mesh already split", zap.String("mesh", c.source.Name))
		return fragment.ErrAlreadyDecomposed
	}

	c.release()

	sess := c.arena.Acquire()
	soup, err := fragment.Decompose(c.source, sess)
	if err != nil {
		sess.Release()
		c.state = Idle
		return fmt.Errorf("decomposing %s: %w", c.source.Name, err)
	}
	sess.setSoup(soup)

	c.session = sess
	c.params = p
	c.state = Armed

	kinetics := sess.Kinetics(soup.Len())
	c.maxArea = seed(soup.Frames, kinetics, p, p.localDirection(), rng)
	c.remaining = p.Duration
	c.expireNotify = false

	c.push()
	c.state = Running

	c.log.Info("explosion started",
		zap.String("mesh", c.source.Name),
		zap.Int("fragments", soup.Len()),
		zap.Int("vertices", len(soup.Vertices)),
		zap.Int("submeshes", len(soup.SubMeshes)),
		zap.String("session", sess.ID()),
		zap.Uint64("generation", sess.Generation()),
		zap.Float32("max_area", c.maxArea),
	)
	return nil
}

// Advance issues one simulation step and the dependent writeback, and
// returns the handle of the writeback. The step is clamped to the remaining
// lifetime. Outside Running it schedules nothing and returns the handle of
// the work still outstanding on the session.
//
// The buffers must not be read until Join.
func (c *Controller) Advance(dt float32) *jobs.Handle {
	if c.state != Running || dt <= 0 {
		if c.session != nil && c.session.Pending() != nil {
			return c.session.Pending()
		}
		return jobs.Completed()
	}

	h := min(dt, c.remaining)
	c.remaining -= h

	sess := c.session
	soup := sess.Soup()
	frames, kinetics, vertices := soup.Frames, sess.kinetics, soup.Vertices
	s := step{
		dt:       h,
		gravity:  c.params.Gravity,
		drag:     c.params.Drag,
		maxArea:  c.maxArea,
		duration: c.params.Duration,
	}

	simulated := c.scheduler.ParallelFor(len(frames), sess.Pending(), func(lo, hi int) {
		integrate(frames, kinetics, s, lo, hi)
	})
	written := c.scheduler.ParallelFor(len(vertices), simulated, func(lo, hi int) {
		project(frames, vertices, lo, hi)
	})
	sess.Track(written)
	c.dirty = true

	if c.remaining <= 0 {
		c.state = Expired
		c.expireNotify = c.params.DestroyOnExpire
		c.log.Debug("explosion expired", zap.String("session", sess.ID()))
	}
	return written
}

// Join waits for the issued frame work and pushes the result to the render
// target. It fires the expire handler after the final push.
func (c *Controller) Join() {
	if c.session == nil {
		return
	}
	c.session.Join()
	if c.dirty {
		c.push()
		c.dirty = false
	}
	if c.expireNotify {
		c.expireNotify = false
		if c.onExpire != nil {
			c.onExpire()
		}
	}
}

// PushToRenderBuffer joins and writes the current soup to the render target.
func (c *Controller) PushToRenderBuffer() {
	if c.session == nil {
		return
	}
	c.session.Join()
	c.push()
	c.dirty = false
}

// Dispose joins outstanding work and releases all buffers. It is safe to
// call at any time and more than once.
func (c *Controller) Dispose() {
	if c.state == Disposed {
		return
	}
	c.release()
	c.state = Disposed
	c.log.Debug("explosion disposed")
}

func (c *Controller) release() {
	if c.session == nil {
		return
	}
	c.session.Release()
	c.session = nil
	c.dirty = false
}

func (c *Controller) push() {
	if c.target == nil {
		return
	}
	soup := c.session.Soup()
	c.target.SetVertices(soup.Vertices)
	c.target.SetIndices(soup.Indices)
	c.target.SetSubMeshes(soup.SubMeshes)
	c.target.RecalculateBounds()
	c.target.RecalculateNormals()
}
