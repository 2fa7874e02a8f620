package explosion

import (
	"sync"

	"github.com/google/uuid"

	"github.com/Faultbox/meshburst/internal/fragment"
)

// Arena recycles session buffers between explosions. A session takes the
// backing arrays out of the arena while it is live and gives them back on
// Release, so two sessions never alias the same memory.
type Arena struct {
	mu         sync.Mutex
	generation uint64
	live       int

	vertices []fragment.SoupVertex
	indices  []uint32
	frames   []fragment.Frame
	kinetics []Kinetic
}

// NewArena returns an empty arena.
func NewArena() *Arena {
	return &Arena{}
}

// Acquire opens a new session. Its buffers are allocated lazily through the
// fragment.Allocator methods.
func (a *Arena) Acquire() *Session {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.generation++
	a.live++
	return &Session{arena: a, generation: a.generation, id: uuid.NewString()}
}

// Generation returns the generation of the most recently acquired session.
func (a *Arena) Generation() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.generation
}

// Live returns the number of sessions not yet released.
func (a *Arena) Live() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.live
}

func (a *Arena) takeVertices(n int) []fragment.SoupVertex {
	a.mu.Lock()
	buf := a.vertices
	a.vertices = nil
	a.mu.Unlock()
	if cap(buf) < n {
		return make([]fragment.SoupVertex, n)
	}
	return buf[:n]
}

func (a *Arena) takeIndices(n int) []uint32 {
	a.mu.Lock()
	buf := a.indices
	a.indices = nil
	a.mu.Unlock()
	if cap(buf) < n {
		return make([]uint32, n)
	}
	return buf[:n]
}

func (a *Arena) takeFrames(n int) []fragment.Frame {
	a.mu.Lock()
	buf := a.frames
	a.frames = nil
	a.mu.Unlock()
	if cap(buf) < n {
		return make([]fragment.Frame, n)
	}
	return buf[:n]
}

func (a *Arena) takeKinetics(n int) []Kinetic {
	a.mu.Lock()
	buf := a.kinetics
	a.kinetics = nil
	a.mu.Unlock()
	if cap(buf) < n {
		return make([]Kinetic, n)
	}
	return buf[:n]
}

// give returns buffers, keeping the larger backing array of each kind.
func (a *Arena) give(s *Session) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.live--
	if cap(s.vertices) > cap(a.vertices) {
		a.vertices = s.vertices[:0]
	}
	if cap(s.indices) > cap(a.indices) {
		a.indices = s.indices[:0]
	}
	if cap(s.frames) > cap(a.frames) {
		a.frames = s.frames[:0]
	}
	if cap(s.kinetics) > cap(a.kinetics) {
		a.kinetics = s.kinetics[:0]
	}
}
