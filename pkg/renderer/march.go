package renderer

import (
	"math"

	"github.com/df07/go-implicit-raytracer/pkg/core"
	"github.com/df07/go-implicit-raytracer/pkg/field"
)

// hitKind is the outcome of a sphere trace
type hitKind int

const (
	noIntersection hitKind = iota
	hasIntersection
	inside // the ray started inside a solid
)

// Hit is a surface found by findIntersection
type Hit struct {
	T           float64   // ray parameter in box units
	Position    core.Vec3 // scene coordinates
	BoxPosition core.Vec3
	Normal      core.Vec3
	Sample      field.Sample // field data at the surface
}

// stepSize is the relaxed sphere tracing step for a box distance d
func (t *Tracer) stepSize(d float64) float64 {
	return math.Min(math.Max(math.Abs(d*t.config.StepFactor), t.config.MinStep), t.config.RayStep)
}

// findIntersection sphere traces from td.TStart to td.TEnd. A hit stores its
// parameter in td.TCurrent. A distance below zero at the start reports
// inside; exactly zero counts as outside. NaN and -Inf distances end the
// march; +Inf is limited by the step size.
func (t *Tracer) findIntersection(td *TracingData, hit *Hit) hitKind {
	var s field.Sample

	t0 := td.TStart
	d0 := t.fieldAt(td.At(t0), &s)
	if unusable(d0) {
		return noIntersection
	}
	if d0 < 0 {
		return inside
	}

	for i := 0; i < t.config.MaxSteps; i++ {
		dt := t.stepSize(d0)
		t1 := t0 + dt
		if t1 > td.TEnd {
			return noIntersection
		}

		d1 := t.fieldAt(td.At(t1), &s)
		if unusable(d1) {
			return noIntersection
		}

		if d1 < t.config.Precision {
			// land closer to the zero crossing unless the secant is unstable
			if d1 != d0 {
				f := d0 / (d0 - d1)
				if math.Abs(f) < t.config.NormalFactor {
					t1 = t0 + dt*f
				}
			}
			t.fillHit(td, t1, hit)
			return hasIntersection
		}

		t0, d0 = t1, d1
	}
	return noIntersection
}

// unusable reports distances the march cannot step on
func unusable(d float64) bool {
	return math.IsNaN(d) || math.IsInf(d, -1)
}

// fillHit records the surface at parameter tHit
func (t *Tracer) fillHit(td *TracingData, tHit float64, hit *Hit) {
	p := td.At(tHit)
	t.fieldAt(p, &hit.Sample)
	hit.T = tHit
	hit.BoxPosition = p
	hit.Position = t.bounds.BoxToScene(p)
	hit.Normal = t.normal(p, td.Dir)
	td.TCurrent = tHit
}

// normal estimates the field gradient by central differences. A vanishing
// gradient falls back to facing the ray.
func (t *Tracer) normal(p, dir core.Vec3) core.Vec3 {
	h := t.config.GradientStep
	grad := core.NewVec3(
		t.distance(p.Add(core.NewVec3(h, 0, 0)))-t.distance(p.Add(core.NewVec3(-h, 0, 0))),
		t.distance(p.Add(core.NewVec3(0, h, 0)))-t.distance(p.Add(core.NewVec3(0, -h, 0))),
		t.distance(p.Add(core.NewVec3(0, 0, h)))-t.distance(p.Add(core.NewVec3(0, 0, -h))),
	)
	if !grad.IsFinite() || grad.LengthSquared() < 1e-24 {
		return dir.Negate().Normalize()
	}
	return grad.Normalize()
}
