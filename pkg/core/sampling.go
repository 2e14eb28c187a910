package core

import "math"

// GoldenAngle is the angle between successive points of a sunflower spiral
const GoldenAngle = 2.399963229728653

// Vec2 is a point in a 2D sampling domain
type Vec2 struct {
	X, Y float64
}

// NewVec2 creates a new Vec2
func NewVec2(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// SpiralDisk returns point i of n on a golden-angle spiral covering the unit
// disk with equal area per point. The pattern is fixed, so repeated renders
// give identical results.
func SpiralDisk(i, n int) Vec2 {
	if n <= 0 {
		return Vec2{}
	}
	r := math.Sqrt((float64(i) + 0.5) / float64(n))
	theta := float64(i) * GoldenAngle
	return NewVec2(r*math.Cos(theta), r*math.Sin(theta))
}

// OrthonormalBasis returns two unit vectors perpendicular to n and to each
// other. n must be normalized.
func OrthonormalBasis(n Vec3) (Vec3, Vec3) {
	helper := NewVec3(1, 0, 0)
	if math.Abs(n.X) > 0.9 {
		helper = NewVec3(0, 1, 0)
	}
	u := n.Cross(helper).Normalize()
	return u, n.Cross(u)
}

// DiskPoint places a unit disk sample on the disk of the given radius
// spanned by u and v around center
func DiskPoint(center, u, v Vec3, radius float64, s Vec2) Vec3 {
	return center.Add(u.Multiply(radius * s.X)).Add(v.Multiply(radius * s.Y))
}
