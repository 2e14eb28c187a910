package field

import (
	"math"

	"github.com/df07/go-implicit-raytracer/pkg/core"
)

// Sphere is a ball of the given radius
type Sphere struct {
	Center core.Vec3
	Radius float64
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64) *Sphere {
	return &Sphere{Center: center, Radius: radius}
}

// Distance implements Field
func (s *Sphere) Distance(p core.Vec3) float64 {
	return p.Subtract(s.Center).Length() - s.Radius
}

// Box is an axis-aligned box with optionally rounded edges
type Box struct {
	Center   core.Vec3
	Size     core.Vec3 // full extent along each axis
	Rounding float64   // edge radius, 0 for sharp edges
}

// NewBox creates a new box
func NewBox(center, size core.Vec3, rounding float64) *Box {
	return &Box{Center: center, Size: size, Rounding: rounding}
}

// Distance implements Field
func (b *Box) Distance(p core.Vec3) float64 {
	local := p.Subtract(b.Center)
	half := b.Size.Multiply(0.5).Subtract(core.Splat(b.Rounding))
	q := core.Vec3{
		X: math.Abs(local.X) - half.X,
		Y: math.Abs(local.Y) - half.Y,
		Z: math.Abs(local.Z) - half.Z,
	}
	outside := core.Vec3{X: max(q.X, 0), Y: max(q.Y, 0), Z: max(q.Z, 0)}.Length()
	inside := min(q.MaxComponent(), 0)
	return outside + inside - b.Rounding
}

// Torus lies in the XY plane around Center
type Torus struct {
	Center core.Vec3
	Major  float64 // distance from center to tube center
	Minor  float64 // tube radius
}

// NewTorus creates a new torus
func NewTorus(center core.Vec3, major, minor float64) *Torus {
	return &Torus{Center: center, Major: major, Minor: minor}
}

// Distance implements Field
func (t *Torus) Distance(p core.Vec3) float64 {
	local := p.Subtract(t.Center)
	ring := math.Hypot(local.X, local.Y) - t.Major
	return math.Hypot(ring, local.Z) - t.Minor
}

// Cylinder is a capped cylinder aligned with the Z axis
type Cylinder struct {
	Center core.Vec3
	Radius float64
	Height float64
}

// NewCylinder creates a new cylinder
func NewCylinder(center core.Vec3, radius, height float64) *Cylinder {
	return &Cylinder{Center: center, Radius: radius, Height: height}
}

// Distance implements Field
func (c *Cylinder) Distance(p core.Vec3) float64 {
	local := p.Subtract(c.Center)
	dr := math.Hypot(local.X, local.Y) - c.Radius
	dz := math.Abs(local.Z) - c.Height/2
	outside := math.Hypot(max(dr, 0), max(dz, 0))
	return outside + min(max(dr, dz), 0)
}

// Plane is the half space below the plane n.p = offset
type Plane struct {
	Normal core.Vec3
	Offset float64
}

// NewPlane creates a new plane, normalizing its normal
func NewPlane(normal core.Vec3, offset float64) *Plane {
	return &Plane{Normal: normal.Normalize(), Offset: offset}
}

// Distance implements Field
func (pl *Plane) Distance(p core.Vec3) float64 {
	return p.Dot(pl.Normal) - pl.Offset
}

// Gyroid is a thickened triply periodic gyroid surface
type Gyroid struct {
	Period    float64 // spatial period in scene units
	Thickness float64 // wall thickness in scene units
	Level     float64 // iso level offset
}

// NewGyroid creates a new gyroid
func NewGyroid(period, thickness float64) *Gyroid {
	return &Gyroid{Period: period, Thickness: thickness}
}

// Distance implements Field. The gyroid function is not a true distance, so
// it is scaled by period/(2*pi) and its gradient bound sqrt(6) to stay
// conservative.
func (g *Gyroid) Distance(p core.Vec3) float64 {
	if g.Period <= 0 {
		return math.Inf(1)
	}
	k := 2 * math.Pi / g.Period
	x, y, z := p.X*k, p.Y*k, p.Z*k
	v := math.Sin(x)*math.Cos(y) + math.Sin(y)*math.Cos(z) + math.Sin(z)*math.Cos(x) - g.Level
	return math.Abs(v)/(k*math.Sqrt(6)) - g.Thickness/2
}
