package preview

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/image/vector"

	"github.com/Faultbox/meshburst/internal/spread"
	"github.com/Faultbox/meshburst/pkg/math"
)

// GizmoLength is the world length of each preview direction line.
const GizmoLength = 10

// gizmoWidth is the line width in output pixels.
const gizmoWidth = 1.5

// RenderGizmo draws spread.PreviewSamples directions from the origin, each in
// the debug color of the profile that produced it, plus the main direction
// in white.
func RenderGizmo(profiles []spread.Profile, main math.Vec3, size int) *image.NRGBA {
	r := NewRenderer(size, 1)
	r.FitRadius(math.Vec3Zero, GizmoLength*1.05)
	return r.RenderGizmo(profiles, main)
}

// RenderGizmo draws the direction preview with this renderer's camera.
func (r *Renderer) RenderGizmo(profiles []spread.Profile, main math.Vec3) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, r.Size, r.Size))
	if r.Background.A != 0 {
		draw.Draw(img, img.Bounds(), image.NewUniform(r.Background), image.Point{}, draw.Src)
	}

	resolved := spread.Resolve(profiles)
	z := vector.NewRasterizer(r.Size, r.Size)
	for _, s := range spread.Preview(profiles, main, spread.PreviewSamples) {
		r.drawLine(z, img, s.Direction.Scale(GizmoLength), resolved[s.Profile].DebugColor)
	}
	r.drawLine(z, img, main.Normalize().Scale(GizmoLength), color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	return img
}

// drawLine strokes a segment from the camera's world origin to end as a thin
// quad.
func (r *Renderer) drawLine(z *vector.Rasterizer, dst *image.NRGBA, end math.Vec3, c color.NRGBA) {
	ss := float64(r.Supersample)
	x0, y0, _ := r.project(math.Vec3Zero)
	x1, y1, _ := r.project(end)
	x0, y0, x1, y1 = x0/ss, y0/ss, x1/ss, y1/ss

	dx, dy := float32(x1-x0), float32(y1-y0)
	length := math.Vec3{X: dx, Y: dy}.Length()
	if length < 1e-3 {
		return
	}
	// Perpendicular half-width offset.
	ox := -dy / length * gizmoWidth / 2
	oy := dx / length * gizmoWidth / 2

	z.Reset(r.Size, r.Size)
	z.MoveTo(float32(x0)+ox, float32(y0)+oy)
	z.LineTo(float32(x1)+ox, float32(y1)+oy)
	z.LineTo(float32(x1)-ox, float32(y1)-oy)
	z.LineTo(float32(x0)-ox, float32(y0)-oy)
	z.ClosePath()
	z.Draw(dst, dst.Bounds(), image.NewUniform(c), image.Point{})
}
