package scene

import (
	"math"

	"github.com/df07/go-implicit-raytracer/pkg/core"
	"github.com/df07/go-implicit-raytracer/pkg/field"
)

// Evaluator combines the scene shapes into one field. The nearest shape owns
// the point; within BlendWidth of a second shape the sample also carries
// that shape's material for mixed materials. It is read-only and safe for
// concurrent use.
type Evaluator struct {
	shapes     []Shape
	blendWidth float64
}

// NewEvaluator creates an evaluator over the given shapes
func NewEvaluator(shapes []Shape, blendWidth float64) *Evaluator {
	return &Evaluator{shapes: shapes, blendWidth: blendWidth}
}

// Evaluator returns the composite field of the scene
func (s *Scene) Evaluator() *Evaluator {
	return NewEvaluator(s.Shapes, s.BlendWidth)
}

// Evaluate implements field.Evaluator
func (e *Evaluator) Evaluate(p core.Vec3, out *field.Sample) {
	best, second := math.Inf(1), math.Inf(1)
	bi, si := -1, -1
	for i := range e.shapes {
		d := e.shapes[i].Field.Distance(p)
		switch {
		case d < best:
			second, si = best, bi
			best, bi = d, i
		case d < second:
			second, si = d, i
		}
	}

	out.Reset()
	out.Value = best
	out.Shape = bi
	if bi < 0 {
		return
	}

	sh := &e.shapes[bi]
	out.Material = sh.Material
	out.Material2 = sh.Material
	if e.blendWidth > 0 && si >= 0 {
		if gap := second - best; gap < e.blendWidth {
			out.Material2 = e.shapes[si].Material
			out.Mix = 0.5 * (1 - gap/e.blendWidth)
		}
	}
	if sh.Color != nil {
		out.Color = sh.Color.ColorAt(p)
		out.HasColor = true
	}
}

// Distance implements field.Field
func (e *Evaluator) Distance(p core.Vec3) float64 {
	var s field.Sample
	e.Evaluate(p, &s)
	return s.Value
}
