package mesh

import (
	gomath "math"

	"github.com/Faultbox/meshburst/pkg/math"
)

type cubeFace struct {
	n, u, v math.Vec3
}

// Cube faces, each with u x v = n so triangles wind counter-clockwise from outside.
var cubeFaces = [6]cubeFace{
	{math.Vec3{X: 1}, math.Vec3{Z: -1}, math.Vec3{Y: 1}},
	{math.Vec3{X: -1}, math.Vec3{Z: 1}, math.Vec3{Y: 1}},
	{math.Vec3{Z: 1}, math.Vec3{X: 1}, math.Vec3{Y: 1}},
	{math.Vec3{Z: -1}, math.Vec3{X: -1}, math.Vec3{Y: 1}},
	{math.Vec3{Y: 1}, math.Vec3{X: 1}, math.Vec3{Z: -1}},
	{math.Vec3{Y: -1}, math.Vec3{X: 1}, math.Vec3{Z: 1}},
}

// Cube builds an axis-aligned cube of the given edge length centered on the
// origin. Side faces go to submesh 0, top and bottom to submesh 1.
func Cube(size float32) *Source {
	h := size / 2
	src := &Source{Name: "cube", SubMeshes: make([][]uint32, 2)}

	corners := [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
	for f, face := range cubeFaces {
		base := uint32(len(src.Positions))
		for _, c := range corners {
			p := face.n.Add(face.u.Scale(c[0])).Add(face.v.Scale(c[1])).Scale(h)
			src.Positions = append(src.Positions, p)
			src.UVs = append(src.UVs, math.Vec2{X: (c[0] + 1) / 2, Y: (c[1] + 1) / 2})
		}
		sub := 0
		if f >= 4 {
			sub = 1
		}
		src.SubMeshes[sub] = append(src.SubMeshes[sub],
			base, base+1, base+2,
			base, base+2, base+3)
	}
	return src
}

// Plane builds a size x size grid in the XZ plane facing +Y, split into
// divisions x divisions cells of two triangles each.
func Plane(size float32, divisions int) *Source {
	if divisions < 1 {
		divisions = 1
	}
	src := &Source{Name: "plane", SubMeshes: make([][]uint32, 1)}

	row := uint32(divisions + 1)
	step := size / float32(divisions)
	for j := 0; j <= divisions; j++ {
		for i := 0; i <= divisions; i++ {
			src.Positions = append(src.Positions, math.Vec3{
				X: -size/2 + float32(i)*step,
				Z: -size/2 + float32(j)*step,
			})
			src.UVs = append(src.UVs, math.Vec2{
				X: float32(i) / float32(divisions),
				Y: float32(j) / float32(divisions),
			})
		}
	}

	for j := uint32(0); j < uint32(divisions); j++ {
		for i := uint32(0); i < uint32(divisions); i++ {
			a := j*row + i
			b := a + 1
			c := a + row
			d := c + 1
			src.SubMeshes[0] = append(src.SubMeshes[0], a, c, b, b, c, d)
		}
	}
	return src
}

// Icosphere builds a sphere of the given radius by subdividing an icosahedron.
// Each subdivision level quadruples the triangle count.
func Icosphere(radius float32, subdivisions int) *Source {
	t := float32((1 + gomath.Sqrt(5)) / 2)
	positions := []math.Vec3{
		{X: -1, Y: t}, {X: 1, Y: t}, {X: -1, Y: -t}, {X: 1, Y: -t},
		{Y: -1, Z: t}, {Y: 1, Z: t}, {Y: -1, Z: -t}, {Y: 1, Z: -t},
		{X: t, Z: -1}, {X: t, Z: 1}, {X: -t, Z: -1}, {X: -t, Z: 1},
	}
	for i := range positions {
		positions[i] = positions[i].Normalize()
	}
	tris := []uint32{
		0, 11, 5, 0, 5, 1, 0, 1, 7, 0, 7, 10, 0, 10, 11,
		1, 5, 9, 5, 11, 4, 11, 10, 2, 10, 7, 6, 7, 1, 8,
		3, 9, 4, 3, 4, 2, 3, 2, 6, 3, 6, 8, 3, 8, 9,
		4, 9, 5, 2, 4, 11, 6, 2, 10, 8, 6, 7, 9, 8, 1,
	}

	for level := 0; level < subdivisions; level++ {
		cache := make(map[[2]uint32]uint32)
		midpoint := func(a, b uint32) uint32 {
			key := [2]uint32{min(a, b), max(a, b)}
			if idx, ok := cache[key]; ok {
				return idx
			}
			m := positions[a].Add(positions[b]).Scale(0.5).Normalize()
			idx := uint32(len(positions))
			positions = append(positions, m)
			cache[key] = idx
			return idx
		}

		next := make([]uint32, 0, len(tris)*4)
		for i := 0; i < len(tris); i += 3 {
			a, b, c := tris[i], tris[i+1], tris[i+2]
			ab, bc, ca := midpoint(a, b), midpoint(b, c), midpoint(c, a)
			next = append(next,
				a, ab, ca,
				b, bc, ab,
				c, ca, bc,
				ab, bc, ca)
		}
		tris = next
	}

	src := &Source{Name: "icosphere", SubMeshes: [][]uint32{tris}}
	src.Positions = make([]math.Vec3, len(positions))
	src.UVs = make([]math.Vec2, len(positions))
	for i, p := range positions {
		src.Positions[i] = p.Scale(radius)
		src.UVs[i] = math.Vec2{
			X: 0.5 + float32(gomath.Atan2(float64(p.Z), float64(p.X))/(2*gomath.Pi)),
			Y: 0.5 - float32(gomath.Asin(float64(p.Y))/gomath.Pi),
		}
	}
	return src
}
