package config

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/Faultbox/meshburst/internal/explosion"
	"github.com/Faultbox/meshburst/internal/jobs"
	"github.com/Faultbox/meshburst/internal/spread"
	"github.com/Faultbox/meshburst/pkg/math"
	"github.com/Faultbox/meshburst/pkg/mesh"
)

var (
	// ErrBadColor is returned for a spreading color that is not #rrggbb[aa].
	ErrBadColor = errors.New("invalid color")
	// ErrUnknownPrimitive is returned for a mesh primitive name not built in.
	ErrUnknownPrimitive = errors.New("unknown mesh primitive")
)

// Validate checks every section and returns the first problem found.
func (c *Config) Validate() error {
	if _, err := c.Params(); err != nil {
		return fmt.Errorf("explosion: %w", err)
	}
	if c.Jobs.Workers < 0 || c.Jobs.BatchSize < 0 {
		return fmt.Errorf("jobs: negative limits (%d workers, batch %d)", c.Jobs.Workers, c.Jobs.BatchSize)
	}
	if c.Mesh.Path == "" {
		switch c.Mesh.Primitive {
		case "cube", "plane", "icosphere":
		default:
			return fmt.Errorf("mesh: %w: %q", ErrUnknownPrimitive, c.Mesh.Primitive)
		}
	}
	if c.Preview.Size <= 0 || c.Preview.Supersample < 1 {
		return fmt.Errorf("preview: size %d, supersample %d", c.Preview.Size, c.Preview.Supersample)
	}
	return nil
}

// Params converts the explosion section alone; spreadings are left empty.
func (e ExplosionConfig) Params() explosion.Params {
	p := explosion.DefaultParams()
	p.SpreadDirection = math.Vec3FromArray(e.Direction)
	p.SpreadForce = e.Force
	p.Gravity = e.Gravity
	p.Drag = e.Drag
	p.MinAngularVelocity = e.AngularVelocity.Min
	p.MaxAngularVelocity = e.AngularVelocity.Max
	p.Duration = e.Duration
	p.DestroyOnExpire = e.DestroyOnExpire
	return p
}

// Params builds validated explosion parameters including the spreading set.
func (c *Config) Params() (explosion.Params, error) {
	p := c.Explosion.Params()
	profiles, err := c.Profiles()
	if err != nil {
		return p, err
	}
	p.Profiles = profiles
	if err := p.Validate(); err != nil {
		return p, err
	}
	return p, nil
}

// Profiles converts the spreadings section.
func (c *Config) Profiles() ([]spread.Profile, error) {
	out := make([]spread.Profile, 0, len(c.Spreadings))
	for i, s := range c.Spreadings {
		col, err := ParseColor(s.Color)
		if err != nil {
			return nil, fmt.Errorf("spreading %d: %w", i, err)
		}
		if s.Quantity < 0 || s.Quantity > 1 {
			return nil, fmt.Errorf("spreading %d: quantity %v outside [0,1]", i, s.Quantity)
		}
		out = append(out, spread.Profile{
			Quantity:     s.Quantity,
			ConeRadius:   s.ConeRadius,
			RingDistance: s.RingDistance,
			Angle:        s.Angle,
			Force:        s.Force,
			DebugColor:   col,
		})
	}
	return out, nil
}

// ParseColor reads #rrggbb or #rrggbbaa. An empty string is opaque red.
func ParseColor(s string) (color.NRGBA, error) {
	if s == "" {
		return color.NRGBA{R: 255, A: 255}, nil
	}
	hex := strings.TrimPrefix(s, "#")
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrBadColor, s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrBadColor, s)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// Source loads the configured mesh.
func (m MeshConfig) Source() (*mesh.Source, error) {
	if m.Path != "" {
		return mesh.LoadOBJ(m.Path)
	}
	size := m.Size
	if size <= 0 {
		size = 1
	}
	switch m.Primitive {
	case "cube":
		return mesh.Cube(size), nil
	case "plane":
		return mesh.Plane(size, max(m.Subdivisions, 1)), nil
	case "icosphere":
		return mesh.Icosphere(size, m.Subdivisions), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownPrimitive, m.Primitive)
}

// Scheduler builds the parallel-for scheduler.
func (j JobsConfig) Scheduler() *jobs.Scheduler {
	return jobs.NewScheduler(j.Workers, j.BatchSize)
}
