package host

import (
	gomath "math"

	"github.com/Faultbox/meshburst/internal/fragment"
	"github.com/Faultbox/meshburst/pkg/mesh"
)

// Mesh holds the renderable copy of a mesh. It implements
// explosion.RenderTarget; every setter copies its input.
type Mesh struct {
	Name      string
	Vertices  []Vertex
	Indices   []uint32
	SubMeshes []SubMesh
	Bounds    Bounds

	// Version increases on every change so GPU mirrors know when to re-upload.
	Version uint64
	// Layout increases when the vertex or index count changes.
	Layout uint64
}

// NewMesh returns an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{Name: name}
}

// FromSource builds a displayable copy of an indexed source mesh with
// smoothed normals.
func FromSource(src *mesh.Source) *Mesh {
	m := NewMesh(src.Name)
	m.Vertices = make([]Vertex, len(src.Positions))
	for i, p := range src.Positions {
		m.Vertices[i] = Vertex{
			Position: p.Array(),
			TexCoord: src.UV(uint32(i)).Array(),
		}
	}
	for sub, tris := range src.SubMeshes {
		m.SubMeshes = append(m.SubMeshes, SubMesh{
			Material:   sub,
			StartIndex: int32(len(m.Indices)),
			IndexCount: int32(len(tris)),
		})
		m.Indices = append(m.Indices, tris...)
	}
	m.Layout++
	m.RecalculateBounds()
	m.RecalculateNormals()
	return m
}

// SetVertices copies positions and texture coordinates from the soup.
func (m *Mesh) SetVertices(vertices []fragment.SoupVertex) {
	if len(m.Vertices) != len(vertices) {
		m.Vertices = make([]Vertex, len(vertices))
		m.Layout++
	}
	for i, v := range vertices {
		m.Vertices[i].Position = v.Position.Array()
		m.Vertices[i].TexCoord = v.UV.Array()
	}
	m.Version++
}

// SetIndices copies the index buffer.
func (m *Mesh) SetIndices(indices []uint32) {
	if len(m.Indices) != len(indices) {
		m.Indices = make([]uint32, len(indices))
		m.Layout++
	}
	copy(m.Indices, indices)
	m.Version++
}

// SetSubMeshes redeclares the material partitions.
func (m *Mesh) SetSubMeshes(ranges []fragment.SubMeshRange) {
	m.SubMeshes = m.SubMeshes[:0]
	for i, r := range ranges {
		m.SubMeshes = append(m.SubMeshes, SubMesh{
			Material:   i,
			StartIndex: int32(r.Start),
			IndexCount: int32(r.Count),
		})
	}
	m.Version++
}

// RecalculateBounds recomputes the bounding box from vertex positions.
func (m *Mesh) RecalculateBounds() {
	if len(m.Vertices) == 0 {
		m.Bounds = Bounds{}
		return
	}
	b := emptyBounds()
	for i := range m.Vertices {
		updateBounds(&b, m.Vertices[i].Position)
	}
	m.Bounds = b
}

// RecalculateNormals accumulates face normals on the vertices each triangle
// references. Shared vertices end up smoothed; soup vertices get the flat
// normal of their own triangle.
func (m *Mesh) RecalculateNormals() {
	for i := range m.Vertices {
		m.Vertices[i].Normal = [3]float32{}
	}

	for _, sm := range m.SubMeshes {
		end := int(sm.StartIndex + sm.IndexCount)
		for i := int(sm.StartIndex); i+2 < end; i += 3 {
			a, b, c := m.Indices[i], m.Indices[i+1], m.Indices[i+2]
			n := faceNormal(m.Vertices[a].Position, m.Vertices[b].Position, m.Vertices[c].Position)
			for _, idx := range [3]uint32{a, b, c} {
				v := &m.Vertices[idx]
				v.Normal[0] += n[0]
				v.Normal[1] += n[1]
				v.Normal[2] += n[2]
			}
		}
	}

	for i := range m.Vertices {
		m.Vertices[i].Normal = normalize(m.Vertices[i].Normal)
	}
	m.Version++
}

// TriangleCount returns the number of triangles over all submeshes.
func (m *Mesh) TriangleCount() int {
	n := 0
	for _, sm := range m.SubMeshes {
		n += int(sm.IndexCount) / 3
	}
	return n
}

// faceNormal returns the unnormalized normal, weighting by triangle area.
func faceNormal(v0, v1, v2 [3]float32) [3]float32 {
	e1 := [3]float32{v1[0] - v0[0], v1[1] - v0[1], v1[2] - v0[2]}
	e2 := [3]float32{v2[0] - v0[0], v2[1] - v0[1], v2[2] - v0[2]}
	return [3]float32{
		e1[1]*e2[2] - e1[2]*e2[1],
		e1[2]*e2[0] - e1[0]*e2[2],
		e1[0]*e2[1] - e1[1]*e2[0],
	}
}

// normalize returns a unit vector, falling back to +Y for degenerate input.
func normalize(v [3]float32) [3]float32 {
	length := float32(gomath.Sqrt(float64(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])))
	if length < 1e-8 {
		return [3]float32{0, 1, 0}
	}
	return [3]float32{v[0] / length, v[1] / length, v[2] / length}
}
