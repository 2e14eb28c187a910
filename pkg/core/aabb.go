package core

import "math"

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min Vec3 // Minimum corner
	Max Vec3 // Maximum corner
}

// NewAABB creates a new AABB from min and max points
func NewAABB(min, max Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// UnitCube returns the [-1,1]^3 box the renderer works in
func UnitCube() AABB {
	return AABB{Min: Splat(-1), Max: Splat(1)}
}

// IntersectBox computes the entry and exit parameters of a ray against a box
// using the slab method. Zero direction components produce infinities in
// invDir which propagate through min/max; a zero-length or non-finite
// direction never hits.
func IntersectBox(origin, dir, boxMin, boxMax Vec3) (tNear, tFar float64, hit bool) {
	if !dir.IsFinite() || !origin.IsFinite() || dir.LengthSquared() == 0 {
		return 0, 0, false
	}

	invDir := Vec3{1 / dir.X, 1 / dir.Y, 1 / dir.Z}

	tNear = math.Inf(-1)
	tFar = math.Inf(1)
	for axis := 0; axis < 3; axis++ {
		inv := invDir.Component(axis)
		o := origin.Component(axis)
		t0 := (boxMin.Component(axis) - o) * inv
		t1 := (boxMax.Component(axis) - o) * inv

		// origin exactly on a slab plane with a parallel ray gives 0*Inf
		if math.IsNaN(t0) || math.IsNaN(t1) {
			return 0, 0, false
		}

		tNear = math.Max(tNear, math.Min(t0, t1))
		tFar = math.Min(tFar, math.Max(t0, t1))
	}

	return tNear, tFar, tFar > tNear
}

// Hit tests a ray against the box and returns the clipped parametric interval
func (aabb AABB) Hit(ray Ray) (tNear, tFar float64, hit bool) {
	return IntersectBox(ray.Origin, ray.Direction, aabb.Min, aabb.Max)
}

// Center returns the center point of the AABB
func (aabb AABB) Center() Vec3 {
	return aabb.Min.Add(aabb.Max).Multiply(0.5)
}

// Size returns the size (extent) of the AABB along each axis
func (aabb AABB) Size() Vec3 {
	return aabb.Max.Subtract(aabb.Min)
}

// IsValid returns true if this is a non-empty AABB
func (aabb AABB) IsValid() bool {
	return aabb.Min.X < aabb.Max.X &&
		aabb.Min.Y < aabb.Max.Y &&
		aabb.Min.Z < aabb.Max.Z
}

// Contains reports whether p lies inside or on the box
func (aabb AABB) Contains(p Vec3) bool {
	return p.X >= aabb.Min.X && p.X <= aabb.Max.X &&
		p.Y >= aabb.Min.Y && p.Y <= aabb.Max.Y &&
		p.Z >= aabb.Min.Z && p.Z <= aabb.Max.Z
}
