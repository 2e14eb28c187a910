package field

import (
	"github.com/df07/go-implicit-raytracer/pkg/core"
)

// SolidColor returns the same color everywhere
type SolidColor struct {
	Color core.Vec3
}

// ColorAt implements ColorSource
func (s SolidColor) ColorAt(core.Vec3) core.Vec3 {
	return s.Color
}

// AxisGradient blends linearly from From to To between Start and End along
// one axis (0=X, 1=Y, 2=Z)
type AxisGradient struct {
	Axis       int
	Start, End float64
	From, To   core.Vec3
}

// ColorAt implements ColorSource
func (g AxisGradient) ColorAt(p core.Vec3) core.Vec3 {
	if g.End == g.Start {
		return g.From
	}
	t := core.Clamp01((p.Component(g.Axis) - g.Start) / (g.End - g.Start))
	return g.From.Lerp(g.To, t)
}
