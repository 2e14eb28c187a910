// Package field provides implicit signed distance fields and the per-point
// sample the renderer reads back from them.
//
// All distances are in scene units and negative inside a solid.
package field

import (
	"github.com/df07/go-implicit-raytracer/pkg/core"
)

// Field is a signed distance function over scene space
type Field interface {
	Distance(p core.Vec3) float64
}

// Func adapts an ordinary function into a Field
type Func func(p core.Vec3) float64

// Distance implements Field
func (f Func) Distance(p core.Vec3) float64 {
	return f(p)
}

// ColorSource supplies a per-point base color for color-mapped materials
type ColorSource interface {
	ColorAt(p core.Vec3) core.Vec3
}

// Sample is the scratch record filled by a scene evaluator for one point.
// Each ray owns its own Sample; values must be copied out before the next
// evaluation if they are needed afterwards.
type Sample struct {
	Value     float64   // signed distance in scene units
	Shape     int       // index of the nearest shape, -1 when there is none
	Material  int       // material index of the nearest shape
	Material2 int       // second material for blended (mixed) surfaces
	Mix       float64   // weight of Material2 in [0, 0.5]
	Color     core.Vec3 // per-point color when HasColor is set
	HasColor  bool
}

// Reset clears the sample for reuse
func (s *Sample) Reset() {
	*s = Sample{}
}

// Evaluator resolves the composed scene field at a point
type Evaluator interface {
	Evaluate(p core.Vec3, out *Sample)
}
