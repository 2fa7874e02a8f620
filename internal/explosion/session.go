package explosion

import (
	"errors"

	"github.com/Faultbox/meshburst/internal/fragment"
	"github.com/Faultbox/meshburst/internal/jobs"
)

// ErrStaleSession is the panic value for any use of a released session.
var ErrStaleSession = errors.New("explosion: session already released")

// Session owns the buffers of one explosion, from decomposition to release.
// Every scheduled job that reads or writes them is tracked, and Release
// joins it before the memory goes back to the arena.
type Session struct {
	arena      *Arena
	generation uint64
	id         string
	released   bool

	vertices []fragment.SoupVertex
	indices  []uint32
	frames   []fragment.Frame
	kinetics []Kinetic
	soup     *fragment.Soup

	pending *jobs.Handle
}

// Vertices allocates the soup vertex buffer (fragment.Allocator).
func (s *Session) Vertices(n int) []fragment.SoupVertex {
	s.check()
	s.vertices = s.arena.takeVertices(n)
	return s.vertices
}

// Indices allocates the index buffer (fragment.Allocator).
func (s *Session) Indices(n int) []uint32 {
	s.check()
	s.indices = s.arena.takeIndices(n)
	return s.indices
}

// Frames allocates the fragment frame buffer (fragment.Allocator).
func (s *Session) Frames(n int) []fragment.Frame {
	s.check()
	s.frames = s.arena.takeFrames(n)
	return s.frames
}

// Kinetics allocates the kinetic state buffer, parallel to Frames.
func (s *Session) Kinetics(n int) []Kinetic {
	s.check()
	s.kinetics = s.arena.takeKinetics(n)
	return s.kinetics
}

// Generation identifies the session within its arena.
func (s *Session) Generation() uint64 {
	return s.generation
}

// ID is a random identifier used to correlate log lines of one session.
func (s *Session) ID() string {
	return s.id
}

// Released reports whether the buffers have been handed back.
func (s *Session) Released() bool {
	return s.released
}

// Soup returns the decomposed mesh held by the session.
func (s *Session) Soup() *fragment.Soup {
	s.check()
	return s.soup
}

func (s *Session) setSoup(soup *fragment.Soup) {
	s.check()
	s.soup = soup
}

// Track records h as the latest job touching the session buffers. Jobs are
// chained, so h completing implies every earlier job has completed.
func (s *Session) Track(h *jobs.Handle) {
	s.check()
	s.pending = h
}

// Pending returns the latest tracked job, or nil.
func (s *Session) Pending() *jobs.Handle {
	return s.pending
}

// Join blocks until all tracked work has finished.
func (s *Session) Join() {
	s.pending.Complete()
	s.pending = nil
}

// Release joins outstanding work and returns the buffers to the arena.
// Releasing twice is a no-op.
func (s *Session) Release() {
	if s.released {
		return
	}
	s.Join()
	s.arena.give(s)
	s.released = true
	s.vertices, s.indices, s.frames, s.kinetics, s.soup = nil, nil, nil, nil, nil
}

func (s *Session) check() {
	if s.released {
		panic(ErrStaleSession)
	}
}
