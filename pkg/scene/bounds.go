package scene

import (
	"fmt"

	"github.com/df07/go-implicit-raytracer/pkg/core"
)

// DefaultVoxelSize is 0.1mm in meters
const DefaultVoxelSize = 1e-4

// Bounds is the axis-aligned region of scene space that gets rendered.
// The renderer maps its largest cube onto box space [-1,1]^3.
type Bounds struct {
	Min, Max  core.Vec3
	VoxelSize float64
}

// NewBounds creates bounds from min and max corners
func NewBounds(min, max core.Vec3) Bounds {
	return Bounds{Min: min, Max: max, VoxelSize: DefaultVoxelSize}
}

// CenteredBounds creates bounds of the given full size around center
func CenteredBounds(center, size core.Vec3) Bounds {
	half := size.Multiply(0.5)
	return NewBounds(center.Subtract(half), center.Add(half))
}

// DefaultBounds is a 10cm cube at the origin
func DefaultBounds() Bounds {
	return CenteredBounds(core.Vec3{}, core.Splat(0.1))
}

// Center returns the center of the bounds
func (b Bounds) Center() core.Vec3 {
	return b.Min.Add(b.Max).Multiply(0.5)
}

// Size returns the extent along each axis
func (b Bounds) Size() core.Vec3 {
	return b.Max.Subtract(b.Min)
}

// SizeMax returns the largest extent
func (b Bounds) SizeMax() float64 {
	return b.Size().MaxComponent()
}

// Scale is the number of scene units per box unit
func (b Bounds) Scale() float64 {
	return b.SizeMax() / 2
}

// BoxToScene maps a point from box space into scene coordinates
func (b Bounds) BoxToScene(p core.Vec3) core.Vec3 {
	return p.Multiply(b.Scale()).Add(b.Center())
}

// SceneToBox maps a scene point into box space
func (b Bounds) SceneToBox(p core.Vec3) core.Vec3 {
	return p.Subtract(b.Center()).Multiply(1 / b.Scale())
}

// Validate reports empty or non-finite bounds
func (b Bounds) Validate() error {
	if !b.Min.IsFinite() || !b.Max.IsFinite() || !core.NewAABB(b.Min, b.Max).IsValid() {
		return fmt.Errorf("%w: %v - %v", ErrInvalidBounds, b.Min, b.Max)
	}
	return nil
}

// String implements fmt.Stringer
func (b Bounds) String() string {
	return fmt.Sprintf("[%g %g; %g %g; %g %g]", b.Min.X, b.Max.X, b.Min.Y, b.Max.Y, b.Min.Z, b.Max.Z)
}
