package fragment

import (
	"errors"
	"testing"

	"github.com/Faultbox/meshburst/pkg/math"
	"github.com/Faultbox/meshburst/pkg/mesh"
)

func TestDecomposeCounts(t *testing.T) {
	sources := []*mesh.Source{mesh.Cube(1), mesh.Plane(2, 4), mesh.Icosphere(1, 2)}
	for _, src := range sources {
		soup, err := Decompose(src, nil)
		if err != nil {
			t.Fatalf("%s: Decompose failed: %v", src.Name, err)
		}

		if len(soup.Vertices) != 3*src.TriangleCount() {
			t.Errorf("%s: expected %d soup vertices, got %d", src.Name, 3*src.TriangleCount(), len(soup.Vertices))
		}
		if soup.Len() != src.TriangleCount() {
			t.Errorf("%s: expected %d fragments, got %d", src.Name, src.TriangleCount(), soup.Len())
		}
		for i, idx := range soup.Indices {
			if idx != uint32(i) {
				t.Fatalf("%s: index %d is %d, want identity", src.Name, i, idx)
			}
		}
	}
}

func TestDecomposeSubMeshRanges(t *testing.T) {
	soup, err := Decompose(mesh.Cube(1), nil)
	if err != nil {
		t.Fatalf("Decompose failed: %v", err)
	}

	want := []SubMeshRange{{Start: 0, Count: 24}, {Start: 24, Count: 12}}
	if len(soup.SubMeshes) != len(want) {
		t.Fatalf("expected %d submeshes, got %d", len(want), len(soup.SubMeshes))
	}
	for i := range want {
		if soup.SubMeshes[i] != want[i] {
			t.Errorf("submesh %d: got %+v, want %+v", i, soup.SubMeshes[i], want[i])
		}
	}
}

func TestDecomposeKeepsUVs(t *testing.T) {
	src := mesh.Cube(1)
	soup, err := Decompose(src, nil)
	if err != nil {
		t.Fatalf("Decompose failed: %v", err)
	}

	vi := 0
	for _, tris := range src.SubMeshes {
		for _, idx := range tris {
			if soup.Vertices[vi].UV != src.UVs[idx] {
				t.Errorf("vertex %d uv: got %v, want %v", vi, soup.Vertices[vi].UV, src.UVs[idx])
			}
			vi++
		}
	}
}

func TestFrameReconstructsTriangle(t *testing.T) {
	src := mesh.Icosphere(3, 1)
	soup, err := Decompose(src, nil)
	if err != nil {
		t.Fatalf("Decompose failed: %v", err)
	}

	for i := range soup.Vertices {
		f := &soup.Frames[i/3]
		got := f.Matrix().TransformVec3(f.Corner(i % 3))
		if got.Distance(soup.Vertices[i].Position) > 0.0001 {
			t.Fatalf("vertex %d: reconstructed %v, want %v", i, got, soup.Vertices[i].Position)
		}
	}
}

func TestFrameLocalTriangleIsFlat(t *testing.T) {
	soup, err := Decompose(mesh.Cube(2), nil)
	if err != nil {
		t.Fatalf("Decompose failed: %v", err)
	}

	for i, f := range soup.Frames {
		// The local up axis is the triangle normal, so corners lie in y = 0.
		for c := 0; c < 3; c++ {
			if y := f.Corner(c).Y; y > 0.0001 || y < -0.0001 {
				t.Errorf("fragment %d corner %d has local y %v", i, c, y)
			}
		}
		if f.Scale != math.Vec3One {
			t.Errorf("fragment %d scale %v, want one", i, f.Scale)
		}
	}
}

func TestFrameArea(t *testing.T) {
	src := &mesh.Source{
		Positions: []math.Vec3{{X: 0}, {X: 4}, {Y: 3}, {Z: 9}},
		SubMeshes: [][]uint32{{0, 1, 2}},
	}
	soup, err := Decompose(src, nil)
	if err != nil {
		t.Fatalf("Decompose failed: %v", err)
	}

	if a := soup.Frames[0].Area(); a < 5.9999 || a > 6.0001 {
		t.Errorf("expected area 6, got %v", a)
	}
}

func TestDecomposeAlreadySplit(t *testing.T) {
	src := &mesh.Source{
		Positions: []math.Vec3{{X: 0}, {X: 1}, {Y: 1}},
		SubMeshes: [][]uint32{{0, 1, 2}},
	}
	soup, err := Decompose(src, nil)
	if !errors.Is(err, ErrAlreadyDecomposed) {
		t.Errorf("expected ErrAlreadyDecomposed, got %v", err)
	}
	if soup != nil {
		t.Error("rejected decomposition should return no soup")
	}

	// The output of a decomposition is itself a soup.
	first, err := Decompose(mesh.Cube(1), nil)
	if err != nil {
		t.Fatalf("Decompose failed: %v", err)
	}
	again := &mesh.Source{SubMeshes: [][]uint32{first.Indices}}
	for _, v := range first.Vertices {
		again.Positions = append(again.Positions, v.Position)
	}
	if _, err := Decompose(again, nil); !errors.Is(err, ErrAlreadyDecomposed) {
		t.Errorf("re-decomposing a soup: expected ErrAlreadyDecomposed, got %v", err)
	}
}

func TestDecomposeZeroTriangles(t *testing.T) {
	for _, src := range []*mesh.Source{
		{},
		{Positions: []math.Vec3{{X: 1}, {Y: 1}}, SubMeshes: [][]uint32{{}}},
	} {
		soup, err := Decompose(src, nil)
		if err != nil {
			t.Fatalf("zero triangles should not fail: %v", err)
		}
		if soup.Len() != 0 || len(soup.Vertices) != 0 {
			t.Errorf("expected empty soup, got %d fragments", soup.Len())
		}
	}
}

func TestDecomposeInvalid(t *testing.T) {
	src := &mesh.Source{
		Positions: make([]math.Vec3, 4),
		SubMeshes: [][]uint32{{0, 1, 7}},
	}
	if _, err := Decompose(src, nil); !errors.Is(err, mesh.ErrInvalid) {
		t.Errorf("expected mesh.ErrInvalid, got %v", err)
	}
}

func TestCornerOutOfRangePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Corner(3) should panic")
		}
	}()
	f := Frame{}
	f.Corner(3)
}

func TestIndices16(t *testing.T) {
	idx, err := Indices16([]uint32{0, 1, 2})
	if err != nil || len(idx) != 3 || idx[2] != 2 {
		t.Errorf("Indices16 small: got %v, %v", idx, err)
	}

	big := make([]uint32, 1<<16+3)
	if _, err := Indices16(big); !errors.Is(err, ErrIndexOverflow) {
		t.Errorf("expected ErrIndexOverflow, got %v", err)
	}
}
