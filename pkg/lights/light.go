package lights

import (
	"errors"
	"fmt"

	"github.com/df07/go-implicit-raytracer/pkg/core"
)

// Light is a point light as described by a scene
type Light struct {
	Position         core.Vec3 // eye coordinates unless FixedPosition
	Color            core.Vec3
	Intensity        float64
	AmbientIntensity float64
	CastShadows      bool
	Samples          int     // shadow samples for area lights
	Radius           float64 // area light radius in box units, 0 for a point light
	FixedPosition    bool    // position is given in box coordinates and does not follow the camera
	AngularSize      float64 // soft shadow cone width
}

// DefaultAngularSize is the soft shadow width used when a light names none
const DefaultAngularSize = 0.1

// NewLight creates a view-relative shadow-casting point light
func NewLight(position, color core.Vec3, ambient, intensity float64) Light {
	return Light{
		Position:         position,
		Color:            color,
		Intensity:        intensity,
		AmbientIntensity: ambient,
		CastShadows:      true,
		Samples:          1,
		AngularSize:      DefaultAngularSize,
	}
}

// Validate checks that the light parameters are usable
func (l Light) Validate() error {
	var errs []error
	if !l.Position.IsFinite() {
		errs = append(errs, fmt.Errorf("light position %v is not finite", l.Position))
	}
	if l.Intensity < 0 {
		errs = append(errs, fmt.Errorf("negative light intensity %g", l.Intensity))
	}
	if l.Radius < 0 {
		errs = append(errs, fmt.Errorf("negative light radius %g", l.Radius))
	}
	if l.AngularSize < 0 {
		errs = append(errs, fmt.Errorf("negative angular size %g", l.AngularSize))
	}
	return errors.Join(errs...)
}

// Data is a light prepared for one render with its position in box space
type Data struct {
	Position         core.Vec3
	Color            core.Vec3
	Intensity        float64
	AmbientIntensity float64
	CastShadows      bool
	Samples          int
	Radius           float64
	AngularSize      float64
}

// NewData prepares a light. View-relative lights are moved into box space
// with camToBox, the camera's inverted view matrix expressed in box units.
func NewData(l Light, camToBox core.Mat4) Data {
	pos := l.Position
	if !l.FixedPosition {
		pos = camToBox.TransformPoint(pos)
	}
	angular := l.AngularSize
	if angular <= 0 {
		angular = DefaultAngularSize
	}
	return Data{
		Position:         pos,
		Color:            l.Color,
		Intensity:        l.Intensity,
		AmbientIntensity: l.AmbientIntensity,
		CastShadows:      l.CastShadows,
		Samples:          max(1, l.Samples),
		Radius:           l.Radius,
		AngularSize:      angular,
	}
}

// NewDataList prepares every light of a scene
func NewDataList(list []Light, camToBox core.Mat4) []Data {
	out := make([]Data, len(list))
	for i, l := range list {
		out[i] = NewData(l, camToBox)
	}
	return out
}

// IsArea reports whether shadows should be integrated over the light disk
func (d *Data) IsArea() bool {
	return d.Radius > 0 && d.Samples > 1
}
