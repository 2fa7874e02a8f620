// Package mesh describes indexed source meshes: shared vertex positions,
// per-vertex texture coordinates and one triangle index list per submesh.
package mesh

import (
	"errors"
	"fmt"

	"github.com/Faultbox/meshburst/pkg/math"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid mesh")

// Source is a read-only indexed triangle mesh.
type Source struct {
	Name      string
	Positions []math.Vec3
	UVs       []math.Vec2 // empty, or one per position
	SubMeshes [][]uint32  // triangle lists, 3 indices per triangle
}

// IndexCount returns the total number of indices over all submeshes.
func (s *Source) IndexCount() int {
	n := 0
	for _, sm := range s.SubMeshes {
		n += len(sm)
	}
	return n
}

// TriangleCount returns the total number of triangles.
func (s *Source) TriangleCount() int {
	return s.IndexCount() / 3
}

// IsSoup reports whether the mesh has no vertex sharing left to expand.
func (s *Source) IsSoup() bool {
	return s.IndexCount() == len(s.Positions)
}

// UV returns the texture coordinate of vertex i, or zero when the mesh has none.
func (s *Source) UV(i uint32) math.Vec2 {
	if len(s.UVs) == 0 {
		return math.Vec2{}
	}
	return s.UVs[i]
}

// Validate checks index ranges, triangle list lengths and UV count.
func (s *Source) Validate() error {
	if len(s.UVs) != 0 && len(s.UVs) != len(s.Positions) {
		return fmt.Errorf("%w: %d uvs for %d vertices", ErrInvalid, len(s.UVs), len(s.Positions))
	}
	for sub, indices := range s.SubMeshes {
		if len(indices)%3 != 0 {
			return fmt.Errorf("%w: submesh %d has %d indices, not a triangle list", ErrInvalid, sub, len(indices))
		}
		for _, idx := range indices {
			if int(idx) >= len(s.Positions) {
				return fmt.Errorf("%w: submesh %d index %d out of range (%d vertices)", ErrInvalid, sub, idx, len(s.Positions))
			}
		}
	}
	return nil
}

// Bounds returns the axis-aligned bounds of the referenced vertices.
func (s *Source) Bounds() (lo, hi math.Vec3) {
	if len(s.Positions) == 0 {
		return lo, hi
	}
	lo, hi = s.Positions[0], s.Positions[0]
	for _, p := range s.Positions[1:] {
		lo = lo.Min(p)
		hi = hi.Max(p)
	}
	return lo, hi
}
