package renderer

import (
	"math"

	"github.com/df07/go-implicit-raytracer/pkg/core"
)

// TracingData is the state of one ray in box space. TCurrent holds the last
// surface or exit parameter found along the ray.
type TracingData struct {
	Origin   core.Vec3
	Dir      core.Vec3
	TStart   float64
	TEnd     float64
	TCurrent float64
}

// At returns the box point at parameter t
func (td *TracingData) At(t float64) core.Vec3 {
	return td.Origin.Add(td.Dir.Multiply(t))
}

// newTracingData clips a ray against the box. The start is never behind the
// origin. ok is false when the ray misses the box or has no usable direction.
func (t *Tracer) newTracingData(origin, dir core.Vec3) (TracingData, bool) {
	td := TracingData{Origin: origin, Dir: dir}
	tNear, tFar, hit := core.IntersectBox(origin, dir, t.boxMin, t.boxMax)
	if !hit || tFar <= 0 {
		return td, false
	}
	td.TStart = math.Max(tNear, 0)
	td.TEnd = tFar
	td.TCurrent = td.TStart
	return td, true
}

// primaryRay builds the camera ray through image coordinates (u, v). Eye
// space looks down -Z, so the image plane sits at z = -depth.
func (t *Tracer) primaryRay(u, v float64) (TracingData, bool) {
	eyeDir := core.NewVec3(u, v, -t.depth)
	origin := t.camToBox.TransformPoint(core.Vec3{})
	dir := t.camToBox.TransformDirection(eyeDir).Normalize()
	return t.newTracingData(origin, dir)
}
