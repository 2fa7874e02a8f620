package fragment

import (
	"errors"
	"fmt"

	"github.com/Faultbox/meshburst/pkg/math"
	"github.com/Faultbox/meshburst/pkg/mesh"
)

var (
	// ErrAlreadyDecomposed means the source has as many indices as vertices,
	// so there is no vertex sharing left to expand.
	ErrAlreadyDecomposed = errors.New("mesh already split")

	// ErrIndexOverflow is returned by Indices16 when an index exceeds 65535.
	ErrIndexOverflow = errors.New("soup does not fit 16-bit indices")
)

// Allocator provides the buffers a soup is built in. Lengths must be exact.
type Allocator interface {
	Vertices(n int) []SoupVertex
	Indices(n int) []uint32
	Frames(n int) []Frame
}

type heapAllocator struct{}

func (heapAllocator) Vertices(n int) []SoupVertex { return make([]SoupVertex, n) }
func (heapAllocator) Indices(n int) []uint32      { return make([]uint32, n) }
func (heapAllocator) Frames(n int) []Frame        { return make([]Frame, n) }

// Decompose flattens src into a triangle soup with one Frame per triangle.
// Buffers come from alloc; a nil alloc uses the heap.
//
// Submeshes are walked in order and keep their partitioning as SubMeshRanges.
// Each fragment's frame sits at the triangle centroid with its local up axis
// along the triangle normal, and stores the corners in that local space.
func Decompose(src *mesh.Source, alloc Allocator) (*Soup, error) {
	if alloc == nil {
		alloc = heapAllocator{}
	}

	indexCount := src.IndexCount()
	if indexCount > 0 && indexCount == len(src.Positions) {
		return nil, ErrAlreadyDecomposed
	}
	if err := src.Validate(); err != nil {
		return nil, err
	}

	soup := &Soup{
		Vertices:  alloc.Vertices(indexCount),
		Indices:   alloc.Indices(indexCount),
		SubMeshes: make([]SubMeshRange, len(src.SubMeshes)),
		Frames:    alloc.Frames(indexCount / 3),
	}

	vi := 0
	for sub, triangles := range src.SubMeshes {
		start := vi
		for _, idx := range triangles {
			soup.Vertices[vi] = SoupVertex{Position: src.Positions[idx], UV: src.UV(idx)}
			soup.Indices[vi] = uint32(vi)
			vi++
		}
		soup.SubMeshes[sub] = SubMeshRange{Start: start, Count: vi - start}
	}

	for i := 0; i < len(soup.Vertices); i += 3 {
		soup.Frames[i/3] = newFrame(
			soup.Vertices[i].Position,
			soup.Vertices[i+1].Position,
			soup.Vertices[i+2].Position,
		)
	}

	return soup, nil
}

func newFrame(v0, v1, v2 math.Vec3) Frame {
	centroid := v0.Add(v1).Add(v2).Scale(1.0 / 3)
	rotation := math.QuatFromToRotation(math.Vec3Up, v0.Sub(v1).Cross(v0.Sub(v2)))

	fragToMesh := math.TRS(centroid, rotation, math.Vec3One)
	meshToFrag := fragToMesh.Inverse()

	return Frame{
		Position: centroid,
		Rotation: rotation,
		Scale:    math.Vec3One,
		P0:       meshToFrag.TransformVec3(v0),
		P1:       meshToFrag.TransformVec3(v1),
		P2:       meshToFrag.TransformVec3(v2),
	}
}

// Indices16 copies the identity index buffer into 16-bit form.
func Indices16(indices []uint32) ([]uint16, error) {
	if len(indices) > 1<<16 {
		return nil, fmt.Errorf("%w: %d vertices", ErrIndexOverflow, len(indices))
	}
	out := make([]uint16, len(indices))
	for i, idx := range indices {
		out[i] = uint16(idx)
	}
	return out, nil
}
