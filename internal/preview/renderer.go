// Package preview renders host meshes and spread gizmos to images on the CPU,
// for headless snapshots.
package preview

import (
	"image"
	"image/color"
	gomath "math"

	"github.com/Faultbox/meshburst/internal/host"
	"github.com/Faultbox/meshburst/pkg/math"
)

// DefaultPalette colors untextured submeshes in order.
var DefaultPalette = []color.NRGBA{
	{R: 200, G: 170, B: 140, A: 255},
	{R: 120, G: 150, B: 190, A: 255},
	{R: 150, G: 190, B: 120, A: 255},
	{R: 190, G: 120, B: 150, A: 255},
}

// Light is a flat directional light in view space.
type Light struct {
	Dir     math.Vec3
	Ambient float64
	Direct  float64
}

// DefaultLight returns a key light from the upper front right.
func DefaultLight() Light {
	return Light{
		Dir:     math.Vec3{X: 0.4, Y: 0.7, Z: 0.6}.Normalize(),
		Ambient: 0.35,
		Direct:  0.75,
	}
}

// shade is double-sided so back faces of spinning fragments stay visible.
func (l Light) shade(n math.Vec3) float64 {
	return l.Ambient + l.Direct*gomath.Abs(float64(n.Dot(l.Dir)))
}

// Renderer draws meshes with an orthographic orbit camera.
type Renderer struct {
	Size        int
	Supersample int
	Margin      int // pixels at output size
	Background  color.NRGBA
	Palette     []color.NRGBA
	Textures    []*image.NRGBA // per submesh, nil entries use Palette
	Light       Light

	view   math.Quat
	center math.Vec3
	span   float32
}

// NewRenderer returns a renderer looking at the origin from yaw 35, pitch 25.
func NewRenderer(size, supersample int) *Renderer {
	r := &Renderer{
		Size:        size,
		Supersample: max(supersample, 1),
		Margin:      8,
		Palette:     DefaultPalette,
		Light:       DefaultLight(),
		span:        2,
	}
	r.SetView(35, 25)
	return r
}

// SetView orbits the camera: yaw around world up, then pitch, both in degrees.
func (r *Renderer) SetView(yaw, pitch float32) {
	r.view = math.QuatAngleAxis(pitch, math.Vec3Right).Mul(math.QuatAngleAxis(-yaw, math.Vec3Up))
}

// Fit frames the given bounds, widened by zoom (1 frames them exactly).
// Keep the framing of the intact mesh to follow fragments as they fly.
func (r *Renderer) Fit(b host.Bounds, zoom float32) {
	lo, hi := math.Vec3FromArray(b.Min), math.Vec3FromArray(b.Max)
	r.center = lo.Add(hi).Scale(0.5)
	r.span = max(hi.Sub(lo).Length()*max(zoom, 0.01), 0.001)
}

// FitRadius frames a sphere of the given radius around center.
func (r *Renderer) FitRadius(center math.Vec3, radius float32) {
	r.center = center
	r.span = max(2*radius, 0.001)
}

// project maps a world point to supersampled pixel space. Depth grows toward
// the viewer.
func (r *Renderer) project(p math.Vec3) (x, y, z float64) {
	q := r.view.Rotate(p.Sub(r.center))
	renderSize := float64(r.Size * r.Supersample)
	margin := float64(r.Margin * r.Supersample)
	scale := (renderSize - 2*margin) / float64(r.span)
	half := renderSize / 2
	return half + float64(q.X)*scale, half - float64(q.Y)*scale, float64(q.Z)
}

func (r *Renderer) baseColor(sub int) color.NRGBA {
	if len(r.Palette) == 0 {
		return color.NRGBA{R: 160, G: 160, B: 170, A: 255}
	}
	return r.Palette[sub%len(r.Palette)]
}

func (r *Renderer) texture(sub int) *image.NRGBA {
	if sub < len(r.Textures) {
		return r.Textures[sub]
	}
	return nil
}

// Render draws every submesh of m and returns the downsampled image.
func (r *Renderer) Render(m *host.Mesh) *image.NRGBA {
	renderSize := r.Size * r.Supersample
	fb := NewFrameBuffer(renderSize, renderSize, r.Background)

	for sub, sm := range m.SubMeshes {
		tex := r.texture(sub)
		base := r.baseColor(sub)
		end := int(sm.StartIndex + sm.IndexCount)
		for i := int(sm.StartIndex); i+2 < end; i += 3 {
			tri := [3]*host.Vertex{
				&m.Vertices[m.Indices[i]],
				&m.Vertices[m.Indices[i+1]],
				&m.Vertices[m.Indices[i+2]],
			}

			var sv [3]screenVertex
			var world [3]math.Vec3
			for k, v := range tri {
				world[k] = math.Vec3FromArray(v.Position)
				sv[k].x, sv[k].y, sv[k].z = r.project(world[k])
				sv[k].u, sv[k].v = float64(v.TexCoord[0]), float64(v.TexCoord[1])
			}

			n := r.view.Rotate(world[1].Sub(world[0]).Cross(world[2].Sub(world[0]))).Normalize()
			if n == math.Vec3Zero {
				continue
			}
			rasterizeTriangle(fb, sv[0], sv[1], sv[2], tex, base, r.Light.shade(n))
		}
	}

	img := fb.Image()
	if r.Supersample > 1 {
		img = Downsample(img, r.Size)
	}
	return img
}
