package renderer

import (
	"math"

	"github.com/df07/go-implicit-raytracer/pkg/core"
	"github.com/df07/go-implicit-raytracer/pkg/lights"
)

// softShadowQuality is the first shadow quality level that uses soft shadows
const softShadowQuality = 6

// shadow returns the fraction of a light reaching p: 0 occluded, 1 unoccluded
func (t *Tracer) shadow(p, n core.Vec3, l *lights.Data) float64 {
	if t.config.ShadowQuality <= 0 || !l.CastShadows {
		return 1
	}
	// start clear of the surface so the first sample is not a self hit
	start := p.Add(n.Multiply(math.Max(t.config.SurfaceJump, 2*t.config.Precision)))
	if l.IsArea() {
		return t.areaShadow(start, l)
	}
	return t.pointShadow(start, l.Position, l.AngularSize)
}

func (t *Tracer) pointShadow(p0, p1 core.Vec3, width float64) float64 {
	if t.config.ShadowQuality >= softShadowQuality {
		return t.softShadow(p0, p1, width)
	}
	return t.hardShadow(p0, p1)
}

// areaShadow averages point shadows over a disk facing p0. The disk samples
// follow a golden-angle spiral so results are deterministic.
func (t *Tracer) areaShadow(p0 core.Vec3, l *lights.Data) float64 {
	axis := l.Position.Subtract(p0).Normalize()
	if axis.LengthSquared() == 0 {
		return 1
	}
	u, v := core.OrthonormalBasis(axis)

	total := 0.0
	for i := 0; i < l.Samples; i++ {
		p1 := core.DiskPoint(l.Position, u, v, l.Radius, core.SpiralDisk(i, l.Samples))
		total += t.pointShadow(p0, p1, l.AngularSize)
	}
	return total / float64(l.Samples)
}

// hardShadow marches from p0 toward p1 and returns 0 as soon as the field
// comes within precision of a surface. Travel is capped at MaxShadowDistance.
func (t *Tracer) hardShadow(p0, p1 core.Vec3) float64 {
	dir, maxT, ok := t.shadowRay(p0, p1)
	if !ok {
		return 1
	}

	tt := 0.0
	for i := 0; i < t.config.ShadowSteps; i++ {
		d := t.distance(p0.Add(dir.Multiply(tt)))
		if math.IsNaN(d) {
			return 1
		}
		if d < t.config.Precision {
			return 0
		}
		tt += t.stepSize(d)
		if tt >= maxT {
			return 1
		}
	}
	return 1
}

// softShadow marches like hardShadow while tracking the smallest ratio of
// field distance to travel. A ratio below -width is full shadow; otherwise
// the ratio is smoothed between 0 and width into a penumbra.
func (t *Tracer) softShadow(p0, p1 core.Vec3, width float64) float64 {
	dir, maxT, ok := t.shadowRay(p0, p1)
	if !ok {
		return 1
	}

	minRatio := math.Inf(1)
	tt := 0.0
	for i := 0; i < t.config.ShadowSteps; i++ {
		d := t.distance(p0.Add(dir.Multiply(tt)))
		if math.IsNaN(d) {
			break
		}
		if tt > 0 {
			minRatio = math.Min(minRatio, d/tt)
			if minRatio < -width {
				return 0
			}
		}
		tt += t.stepSize(d)
		if tt >= maxT {
			break
		}
	}
	return core.SmoothStep(0, width, minRatio)
}

// shadowRay returns the unit direction and capped length from p0 to p1. A
// zero or non-finite length reports !ok.
func (t *Tracer) shadowRay(p0, p1 core.Vec3) (core.Vec3, float64, bool) {
	delta := p1.Subtract(p0)
	dist := delta.Length()
	if !(dist > 0) || math.IsInf(dist, 0) {
		return core.Vec3{}, 0, false
	}
	return delta.Multiply(1 / dist), math.Min(dist, t.config.MaxShadowDistance), true
}
