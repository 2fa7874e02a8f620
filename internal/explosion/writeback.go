package explosion

import (
	"github.com/Faultbox/meshburst/internal/fragment"
)

// Project rewrites every soup vertex position from its fragment's current
// pose. UVs are left alone.
func Project(frames []fragment.Frame, vertices []fragment.SoupVertex) {
	project(frames, vertices, 0, len(vertices))
}

// project handles soup vertices [lo, hi). Vertex i belongs to fragment i/3
// and is that fragment's corner i%3.
func project(frames []fragment.Frame, vertices []fragment.SoupVertex, lo, hi int) {
	for i := lo; i < hi; i++ {
		f := &frames[i/3]
		vertices[i].Position = f.Matrix().TransformVec3(f.Corner(i % 3))
	}
}
