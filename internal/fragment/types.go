// Package fragment turns an indexed mesh into a triangle soup in which every
// triangle is a rigid fragment with its own frame and fixed local geometry.
package fragment

import (
	"fmt"

	"github.com/Faultbox/meshburst/pkg/math"
)

// SoupVertex is one triangle corner of the soup.
type SoupVertex struct {
	Position math.Vec3
	UV       math.Vec2
}

// SubMeshRange is one source submesh expressed in soup index space.
type SubMeshRange struct {
	Start int
	Count int
}

// Frame is a fragment's rigid placement plus its triangle in local space.
// Only Position, Rotation and Scale change after decomposition.
type Frame struct {
	Position math.Vec3
	Rotation math.Quat
	Scale    math.Vec3
	P0       math.Vec3
	P1       math.Vec3
	P2       math.Vec3
}

// Corner returns local vertex i. Any i outside 0..2 is a programming error.
func (f *Frame) Corner(i int) math.Vec3 {
	switch i {
	case 0:
		return f.P0
	case 1:
		return f.P1
	case 2:
		return f.P2
	}
	panic(fmt.Sprintf("fragment: corner index %d out of range", i))
}

// Area is half the magnitude of cross(P2-P0, P2-P1). It depends only on the
// fixed local triangle, so it never changes during a session.
func (f *Frame) Area() float32 {
	return f.P2.Sub(f.P0).Cross(f.P2.Sub(f.P1)).Length() * 0.5
}

// Matrix returns the frame-to-mesh transform for the current pose.
func (f *Frame) Matrix() math.Mat4 {
	return math.TRS(f.Position, f.Rotation, f.Scale)
}

// Soup is the output of Decompose.
type Soup struct {
	Vertices  []SoupVertex
	Indices   []uint32
	SubMeshes []SubMeshRange
	Frames    []Frame
}

// Len returns the number of fragments.
func (s *Soup) Len() int {
	return len(s.Frames)
}
