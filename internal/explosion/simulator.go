package explosion

import (
	"github.com/Faultbox/meshburst/internal/fragment"
	"github.com/Faultbox/meshburst/internal/spread"
	"github.com/Faultbox/meshburst/pkg/math"
)

// Kinetic is the motion state of one fragment.
type Kinetic struct {
	Velocity        math.Vec3
	AngularVelocity math.Vec3 // Euler rates, degrees per second
}

// step holds the per-frame constants shared by every fragment.
type step struct {
	dt       float32
	gravity  float32
	drag     float32
	maxArea  float32
	duration float32
}

// seed fills kinetics in decomposition order and returns the largest
// fragment area. The random draws per fragment are: direction angle, cone
// radius, force, then angular x, y, z.
func seed(frames []fragment.Frame, kinetics []Kinetic, p Params, localDir math.Vec3, rng spread.Rand) float32 {
	it := spread.NewIterator(p.Profiles, len(frames))
	angular := spread.Range{Min: p.MinAngularVelocity, Max: p.MaxAngularVelocity}

	var maxArea float32
	for i := range frames {
		profile, _ := it.Next()
		dir, force := profile.Sample(rng, localDir)

		maxArea = max(maxArea, frames[i].Area())
		kinetics[i] = Kinetic{
			Velocity: dir.Scale(p.SpreadForce * force),
			AngularVelocity: math.Vec3{
				X: angular.Sample(rng),
				Y: angular.Sample(rng),
				Z: angular.Sample(rng),
			},
		}
	}
	return maxArea
}

// integrate advances fragments [lo, hi) by one step. Each fragment is
// independent, so any partition of the range gives the same result.
//
// Drag is taken against the current travel direction and scaled by the
// fragment's share of the largest area. It is not clamped, so a strong drag
// can reverse a slow fragment.
func integrate(frames []fragment.Frame, kinetics []Kinetic, s step, lo, hi int) {
	for i := lo; i < hi; i++ {
		f := &frames[i]
		k := &kinetics[i]

		k.Velocity = k.Velocity.Add(math.Vec3Down.Scale(s.gravity * s.dt))

		var dragFactor float32
		if s.maxArea > 0 {
			dragFactor = s.drag * (f.Area() / s.maxArea)
		}
		k.Velocity = k.Velocity.Sub(k.Velocity.Normalize().Scale(dragFactor * s.dt))

		f.Position = f.Position.Add(k.Velocity.Scale(s.dt))
		f.Rotation = f.Rotation.Mul(math.QuatEuler(k.AngularVelocity.Scale(s.dt))).Normalize()

		shrink := s.dt / s.duration
		f.Scale = f.Scale.Sub(math.Vec3{X: shrink, Y: shrink, Z: shrink}).Max(math.Vec3Zero)
	}
}
