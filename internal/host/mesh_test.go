package host

import (
	"testing"

	"github.com/Faultbox/meshburst/internal/fragment"
	"github.com/Faultbox/meshburst/pkg/math"
	"github.com/Faultbox/meshburst/pkg/mesh"
)

func TestFromSource(t *testing.T) {
	src := mesh.Cube(2)
	m := FromSource(src)

	if len(m.Vertices) != len(src.Positions) {
		t.Errorf("expected %d vertices, got %d", len(src.Positions), len(m.Vertices))
	}
	if len(m.Indices) != src.IndexCount() {
		t.Errorf("expected %d indices, got %d", src.IndexCount(), len(m.Indices))
	}
	if m.TriangleCount() != 12 {
		t.Errorf("expected 12 triangles, got %d", m.TriangleCount())
	}
	if m.SubMeshes[1].StartIndex != 24 || m.SubMeshes[1].IndexCount != 12 {
		t.Errorf("unexpected cap submesh %+v", m.SubMeshes[1])
	}

	want := Bounds{Min: [3]float32{-1, -1, -1}, Max: [3]float32{1, 1, 1}}
	if m.Bounds != want {
		t.Errorf("expected bounds %+v, got %+v", want, m.Bounds)
	}
	if m.Bounds.Extent() != 2 {
		t.Errorf("expected extent 2, got %v", m.Bounds.Extent())
	}
}

func TestCubeNormalsPointOutward(t *testing.T) {
	m := FromSource(mesh.Cube(1))
	for i, v := range m.Vertices {
		p := math.Vec3FromArray(v.Position)
		n := math.Vec3FromArray(v.Normal)
		if p.Dot(n) <= 0 {
			t.Errorf("vertex %d: normal %+v points inward", i, n)
		}
		if l := n.Length(); l < 0.999 || l > 1.001 {
			t.Errorf("vertex %d: normal not unit, length %v", i, l)
		}
	}
}

func TestSetFromSoup(t *testing.T) {
	soup, err := fragment.Decompose(mesh.Plane(2, 2), nil)
	if err != nil {
		t.Fatalf("Decompose failed: %v", err)
	}

	m := NewMesh("plane")
	m.SetVertices(soup.Vertices)
	m.SetIndices(soup.Indices)
	m.SetSubMeshes(soup.SubMeshes)
	m.RecalculateBounds()
	m.RecalculateNormals()

	if len(m.Vertices) != len(soup.Vertices) {
		t.Fatalf("expected %d vertices, got %d", len(soup.Vertices), len(m.Vertices))
	}
	for i, v := range m.Vertices {
		if v.Normal != [3]float32{0, 1, 0} {
			t.Errorf("vertex %d: expected flat +Y normal, got %v", i, v.Normal)
		}
	}
	if m.Bounds.Min[1] != 0 || m.Bounds.Max[1] != 0 {
		t.Errorf("plane should be flat, got %+v", m.Bounds)
	}
}

func TestSettersCopy(t *testing.T) {
	verts := []fragment.SoupVertex{{Position: math.Vec3{X: 1}}, {}, {}}
	idx := []uint32{0, 1, 2}

	m := NewMesh("copy")
	m.SetVertices(verts)
	m.SetIndices(idx)
	layout := m.Layout

	verts[0].Position.X = 9
	idx[0] = 2
	if m.Vertices[0].Position[0] != 1 || m.Indices[0] != 0 {
		t.Error("mesh aliases caller buffers")
	}

	v := m.Version
	m.SetVertices(verts)
	if m.Version <= v {
		t.Error("version did not advance")
	}
	if m.Layout != layout {
		t.Error("layout changed without a size change")
	}
}

func TestDegenerateTriangleNormal(t *testing.T) {
	m := NewMesh("degenerate")
	m.SetVertices(make([]fragment.SoupVertex, 3))
	m.SetIndices([]uint32{0, 1, 2})
	m.SetSubMeshes([]fragment.SubMeshRange{{Start: 0, Count: 3}})
	m.RecalculateNormals()

	for i, v := range m.Vertices {
		if v.Normal != [3]float32{0, 1, 0} {
			t.Errorf("vertex %d: expected fallback normal, got %v", i, v.Normal)
		}
	}
}

func TestEmptyBounds(t *testing.T) {
	m := NewMesh("empty")
	m.RecalculateBounds()
	if m.Bounds != (Bounds{}) {
		t.Errorf("expected zero bounds, got %+v", m.Bounds)
	}
}
