// Package orbit is the orbit camera shared by the viewers.
package orbit

import (
	gomath "math"

	"github.com/Faultbox/meshburst/pkg/math"
)

// Camera orbits around a center point.
type Camera struct {
	Center math.Vec3

	Distance float32
	Pitch    float32 // radians above the horizon
	Yaw      float32 // radians around world up

	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	DragSensitivity float32
	ZoomSensitivity float32
	FovY            float32 // radians
}

// New creates an orbit camera looking slightly down at the origin.
func New() *Camera {
	return &Camera{
		Distance:        5,
		Pitch:           0.45,
		Yaw:             0.6,
		MinDistance:     0.1,
		MaxDistance:     1000,
		MinPitch:        -1.5,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
		FovY:            gomath.Pi / 4,
	}
}

// Position returns the camera position in world space.
func (c *Camera) Position() math.Vec3 {
	cp, sp := gomath.Cos(float64(c.Pitch)), gomath.Sin(float64(c.Pitch))
	cy, sy := gomath.Cos(float64(c.Yaw)), gomath.Sin(float64(c.Yaw))
	return c.Center.Add(math.Vec3{
		X: c.Distance * float32(cp*sy),
		Y: c.Distance * float32(sp),
		Z: c.Distance * float32(cp*cy),
	})
}

// ViewMatrix returns the view matrix for this camera.
func (c *Camera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position(), c.Center, math.Vec3Up)
}

// ViewProjection combines the view with a perspective projection.
func (c *Camera) ViewProjection(aspect float32) math.Mat4 {
	near := max(c.Distance*0.01, 0.01)
	far := c.Distance * 100
	return math.Perspective(c.FovY, aspect, near, far).Mul(c.ViewMatrix())
}

// HandleDrag updates rotation based on mouse drag delta.
func (c *Camera) HandleDrag(deltaX, deltaY float32) {
	c.Yaw -= deltaX * c.DragSensitivity
	c.Pitch = min(max(c.Pitch+deltaY*c.DragSensitivity, c.MinPitch), c.MaxPitch)
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *Camera) HandleZoom(delta float32) {
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	c.Distance = min(max(c.Distance, c.MinDistance), c.MaxDistance)
}

// FitRadius places the camera so a sphere of the given radius fills the view.
func (c *Camera) FitRadius(center math.Vec3, radius float32) {
	c.Center = center
	half := float64(c.FovY) / 2
	c.Distance = min(max(radius/float32(gomath.Sin(half)), c.MinDistance), c.MaxDistance)
}
