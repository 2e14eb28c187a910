package field

import (
	"math"

	"github.com/df07/go-implicit-raytracer/pkg/core"
)

// Union is the minimum of its children
type Union struct {
	Children []Field
}

// NewUnion creates a union of the given fields
func NewUnion(children ...Field) *Union {
	return &Union{Children: children}
}

// Distance implements Field
func (u *Union) Distance(p core.Vec3) float64 {
	d := math.Inf(1)
	for _, c := range u.Children {
		d = min(d, c.Distance(p))
	}
	return d
}

// Intersection is the maximum of its children
type Intersection struct {
	Children []Field
}

// NewIntersection creates an intersection of the given fields
func NewIntersection(children ...Field) *Intersection {
	return &Intersection{Children: children}
}

// Distance implements Field
func (in *Intersection) Distance(p core.Vec3) float64 {
	if len(in.Children) == 0 {
		return math.Inf(1)
	}
	d := math.Inf(-1)
	for _, c := range in.Children {
		d = max(d, c.Distance(p))
	}
	return d
}

// Difference subtracts B from A
type Difference struct {
	A, B Field
}

// NewDifference creates a - b
func NewDifference(a, b Field) *Difference {
	return &Difference{A: a, B: b}
}

// Distance implements Field
func (d *Difference) Distance(p core.Vec3) float64 {
	return max(d.A.Distance(p), -d.B.Distance(p))
}

// SmoothUnion blends two fields with a polynomial smooth minimum of width K
type SmoothUnion struct {
	A, B Field
	K    float64
}

// NewSmoothUnion creates a smooth union with blend width k
func NewSmoothUnion(a, b Field, k float64) *SmoothUnion {
	return &SmoothUnion{A: a, B: b, K: k}
}

// Distance implements Field
func (s *SmoothUnion) Distance(p core.Vec3) float64 {
	da, db := s.A.Distance(p), s.B.Distance(p)
	if s.K <= 0 {
		return min(da, db)
	}
	h := core.Clamp01(0.5 + 0.5*(db-da)/s.K)
	return db + (da-db)*h - s.K*h*(1-h)
}

// Translate moves a field by Offset
type Translate struct {
	Source Field
	Offset core.Vec3
}

// NewTranslate creates a translated field
func NewTranslate(source Field, offset core.Vec3) *Translate {
	return &Translate{Source: source, Offset: offset}
}

// Distance implements Field
func (t *Translate) Distance(p core.Vec3) float64 {
	return t.Source.Distance(p.Subtract(t.Offset))
}

// Scale uniformly scales a field about the origin
type Scale struct {
	Source Field
	Factor float64
}

// NewScale creates a scaled field
func NewScale(source Field, factor float64) *Scale {
	return &Scale{Source: source, Factor: factor}
}

// Distance implements Field
func (s *Scale) Distance(p core.Vec3) float64 {
	if s.Factor == 0 {
		return math.Inf(1)
	}
	return s.Source.Distance(p.Multiply(1/s.Factor)) * math.Abs(s.Factor)
}

// Shell hollows a field into a wall of the given thickness around its surface
type Shell struct {
	Source    Field
	Thickness float64
}

// NewShell creates a shell of the source surface
func NewShell(source Field, thickness float64) *Shell {
	return &Shell{Source: source, Thickness: thickness}
}

// Distance implements Field
func (s *Shell) Distance(p core.Vec3) float64 {
	return math.Abs(s.Source.Distance(p)) - s.Thickness/2
}
