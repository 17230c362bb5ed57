// Package unwrap invokes the external secondary-UV generator.
//
// The generator is opaque to this program: it is handed a mesh resource and
// a set of unwrap parameters and either succeeds, having written the
// secondary UV channel in place, or fails with a diagnostic.
package unwrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/rshade/uvwizard/internal/scene"
)

// Default unwrap parameters.
const (
	DefaultHardAngle  = 88.0
	DefaultPackMargin = 1.0 / 256.0
	DefaultAngleError = 0.08
	DefaultAreaError  = 0.15
)

// ErrInvalidParams is returned by Params.Validate.
var ErrInvalidParams = errors.New("invalid unwrap parameters")

// Params controls secondary UV generation.
type Params struct {
	// HardAngle is the angle in degrees between neighbouring triangles above
	// which the edge is treated as a seam.
	HardAngle float64 `yaml:"hard_angle"`

	// PackMargin is the margin between UV charts, in UV space.
	PackMargin float64 `yaml:"pack_margin"`

	// AngleError is the maximum allowed angle distortion (0..1).
	AngleError float64 `yaml:"angle_error"`

	// AreaError is the maximum allowed area distortion (0..1).
	AreaError float64 `yaml:"area_error"`
}

// Defaults returns the standard parameter set.
func Defaults() Params {
	return Params{
		HardAngle:  DefaultHardAngle,
		PackMargin: DefaultPackMargin,
		AngleError: DefaultAngleError,
		AreaError:  DefaultAreaError,
	}
}

// Validate checks parameter ranges.
func (p Params) Validate() error {
	switch {
	case p.HardAngle <= 0 || p.HardAngle > 180:
		return fmt.Errorf("%w: hard_angle must be in (0, 180], got %g", ErrInvalidParams, p.HardAngle)
	case p.PackMargin < 0 || p.PackMargin >= 1:
		return fmt.Errorf("%w: pack_margin must be in [0, 1), got %g", ErrInvalidParams, p.PackMargin)
	case p.AngleError < 0 || p.AngleError > 1:
		return fmt.Errorf("%w: angle_error must be in [0, 1], got %g", ErrInvalidParams, p.AngleError)
	case p.AreaError < 0 || p.AreaError > 1:
		return fmt.Errorf("%w: area_error must be in [0, 1], got %g", ErrInvalidParams, p.AreaError)
	}
	return nil
}

// Unwrapper generates the secondary UV set of a mesh.
type Unwrapper interface {
	Unwrap(ctx context.Context, mesh *scene.Mesh, params Params) error
}

// Func adapts a plain function to Unwrapper.
type Func func(ctx context.Context, mesh *scene.Mesh, params Params) error

// Unwrap implements Unwrapper.
func (f Func) Unwrap(ctx context.Context, mesh *scene.Mesh, params Params) error {
	return f(ctx, mesh, params)
}
