// Package spread samples fragment dispersal directions from conical spreading
// profiles and buckets fragments across a profile set by traversal order.
package spread

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/Faultbox/meshburst/pkg/math"
)

// ErrInvertedRange is returned when a range has Min > Max.
var ErrInvertedRange = errors.New("range min is greater than max")

// Rand is the random source used by the samplers. *rand.Rand satisfies it.
type Rand interface {
	Float32() float32
}

// Range is a closed scalar interval.
type Range struct {
	Min float32 `yaml:"min"`
	Max float32 `yaml:"max"`
}

// Sample returns a uniform value in [Min, Max].
func (r Range) Sample(rng Rand) float32 {
	return r.Min + rng.Float32()*(r.Max-r.Min)
}

// Validate rejects inverted ranges.
func (r Range) Validate() error {
	if r.Min > r.Max {
		return fmt.Errorf("%w: [%v, %v]", ErrInvertedRange, r.Min, r.Max)
	}
	return nil
}

// Profile describes one conical dispersal distribution.
type Profile struct {
	// Quantity is the cumulative fraction of all fragments, in [0,1], after
	// which traversal moves on to the next profile.
	Quantity     float32
	ConeRadius   Range
	RingDistance float32
	Angle        Range // degrees around the main direction
	Force        Range
	DebugColor   color.NRGBA
}

// Default is the profile used when a set is empty: one profile spanning every
// fragment, a half-disc of radius up to 1 pushed one unit along the direction.
func Default() Profile {
	return Profile{
		Quantity:     1,
		ConeRadius:   Range{0, 1},
		RingDistance: 1,
		Angle:        Range{0, 180},
		Force:        Range{1, 1},
		DebugColor:   color.NRGBA{R: 255, A: 255},
	}
}

// Validate checks every range of the profile.
func (p Profile) Validate() error {
	if err := p.ConeRadius.Validate(); err != nil {
		return fmt.Errorf("cone radius: %w", err)
	}
	if err := p.Angle.Validate(); err != nil {
		return fmt.Errorf("angle: %w", err)
	}
	if err := p.Force.Validate(); err != nil {
		return fmt.Errorf("force: %w", err)
	}
	return nil
}

// Direction samples a unit dispersal direction around main.
//
// A point is picked on a ring perpendicular to forward (angle first, then
// radius), the ring is turned to face main, and the point is pushed
// RingDistance along main before normalizing. The draw order is part of the
// visual contract.
func (p Profile) Direction(rng Rand, main math.Vec3) math.Vec3 {
	angle := p.Angle.Sample(rng)
	radius := p.ConeRadius.Sample(rng)
	ring := math.QuatAngleAxis(angle, math.Vec3Forward).Rotate(math.Vec3Right).Scale(radius)

	rot := math.QuatFromToRotation(math.Vec3Forward, main)
	return rot.Rotate(ring).Add(main.Scale(p.RingDistance)).Normalize()
}

// Sample draws a direction and then a force magnitude.
func (p Profile) Sample(rng Rand, main math.Vec3) (math.Vec3, float32) {
	dir := p.Direction(rng, main)
	return dir, p.Force.Sample(rng)
}

// ValidateSet validates every profile of a set.
func ValidateSet(profiles []Profile) error {
	for i, p := range profiles {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("spreading %d: %w", i, err)
		}
	}
	return nil
}
