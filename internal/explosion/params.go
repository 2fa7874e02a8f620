package explosion

import (
	"errors"
	"fmt"

	"github.com/Faultbox/meshburst/internal/spread"
	"github.com/Faultbox/meshburst/pkg/math"
)

// ErrInvalidDuration is returned for a non-positive explosion duration.
var ErrInvalidDuration = errors.New("explosion duration must be positive")

// Params configures one explosion.
type Params struct {
	// SpreadDirection is the main dispersal direction in world space.
	SpreadDirection math.Vec3
	// Orientation is the object's world rotation. The spread direction is
	// taken into object space with its inverse. Zero means identity.
	Orientation math.Quat

	Profiles []spread.Profile

	SpreadForce        float32
	Gravity            float32
	Drag               float32
	MinAngularVelocity float32 // degrees per second
	MaxAngularVelocity float32
	Duration           float32 // seconds until scale reaches zero

	// DestroyOnExpire asks the host to destroy the object when time runs out.
	DestroyOnExpire bool
}

// DefaultParams returns the stock tuning: earth gravity, unit force, a five
// second lifetime and moderate drag.
func DefaultParams() Params {
	return Params{
		SpreadDirection: math.Vec3Up,
		Orientation:     math.QuatIdentity(),
		SpreadForce:     1,
		Gravity:         9.81,
		Drag:            3,
		Duration:        5,
	}
}

// Validate rejects parameters the simulator cannot run with.
func (p Params) Validate() error {
	if p.Duration <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidDuration, p.Duration)
	}
	angular := spread.Range{Min: p.MinAngularVelocity, Max: p.MaxAngularVelocity}
	if err := angular.Validate(); err != nil {
		return fmt.Errorf("angular velocity: %w", err)
	}
	return spread.ValidateSet(p.Profiles)
}

// localDirection converts the spread direction into object space, ignoring scale.
func (p Params) localDirection() math.Vec3 {
	q := p.Orientation
	if q == (math.Quat{}) {
		return p.SpreadDirection
	}
	return q.Normalize().Conjugate().Rotate(p.SpreadDirection)
}
