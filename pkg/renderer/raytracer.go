package renderer

import (
	"fmt"

	"github.com/df07/go-implicit-raytracer/pkg/core"
	"github.com/df07/go-implicit-raytracer/pkg/field"
	"github.com/df07/go-implicit-raytracer/pkg/lights"
	"github.com/df07/go-implicit-raytracer/pkg/material"
	"github.com/df07/go-implicit-raytracer/pkg/scene"
)

// layersPerBox is the number of volume layers across the largest scene
// extent when the config leaves LayerThickness at zero
const layersPerBox = 200

// Tracer renders samples of one scene. Everything it holds is derived once
// at construction and only read afterwards, so a single Tracer may be shared
// by any number of goroutines.
type Tracer struct {
	config     Config
	bounds     scene.Bounds
	evaluator  field.Evaluator
	materials  *material.Table
	lights     []lights.Data
	background scene.Background

	scale     float64   // scene units per box unit
	camToBox  core.Mat4 // inverted view matrix in box units
	depth     float64   // image plane distance
	layerStep float64   // volume step in box units
	boxMin    core.Vec3
	boxMax    core.Vec3
}

// NewTracer validates the scene and config and prepares a tracer
func NewTracer(s *scene.Scene, config Config) (*Tracer, error) {
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scene %q: %w", s.Name, err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid render config: %w", err)
	}

	thickness := config.LayerThickness
	if thickness == 0 {
		thickness = s.Bounds.SizeMax() / layersPerBox
	}
	materials, err := material.NewTable(s.Materials, thickness)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare materials: %w", err)
	}

	camToBox := s.Camera.BoxMatrix(s.Bounds)
	unit := core.UnitCube()

	return &Tracer{
		config:     config,
		bounds:     s.Bounds,
		evaluator:  s.Evaluator(),
		materials:  materials,
		lights:     lights.NewDataList(s.Lights, camToBox),
		background: s.Background,
		scale:      s.Bounds.Scale(),
		camToBox:   camToBox,
		depth:      s.Camera.CameraDepth(),
		layerStep:  thickness / s.Bounds.Scale(),
		boxMin:     unit.Min,
		boxMax:     unit.Max,
	}, nil
}

// Config returns the tracing parameters in use
func (t *Tracer) Config() Config {
	return t.config
}

// Sample returns the color seen through normalized image coordinates. v runs
// from -1 at the bottom to 1 at the top; u is scaled by the aspect ratio by
// the caller. The result is premultiplied by its alpha.
func (t *Tracer) Sample(u, v float64) core.RGBA {
	td, ok := t.primaryRay(u, v)
	if !ok {
		var color, alpha core.Vec3
		t.compositeBackground(&td, &color, &alpha)
		return finishPixel(color, alpha)
	}
	return t.raytracePixel(&td, t.config.MaxRayBounces)
}

// PickResult describes the first surface under an image point
type PickResult struct {
	Position    core.Vec3 `json:"position"`    // scene coordinates
	BoxPosition core.Vec3 `json:"boxPosition"` // box coordinates
	Normal      core.Vec3 `json:"normal"`
	Shape       int       `json:"shape"`
	Material    int       `json:"material"`
	Distance    float64   `json:"distance"` // along the ray, scene units
}

// Pick finds the first surface under normalized image coordinates
func (t *Tracer) Pick(u, v float64) (PickResult, bool) {
	td, ok := t.primaryRay(u, v)
	if !ok {
		return PickResult{}, false
	}
	var hit Hit
	if t.findIntersection(&td, &hit) != hasIntersection {
		return PickResult{}, false
	}
	return PickResult{
		Position:    hit.Position,
		BoxPosition: hit.BoxPosition,
		Normal:      hit.Normal,
		Shape:       hit.Sample.Shape,
		Material:    hit.Sample.Material,
		Distance:    hit.T * t.scale,
	}, true
}

// fieldAt evaluates the scene at a box point and returns the distance in box units
func (t *Tracer) fieldAt(p core.Vec3, s *field.Sample) float64 {
	t.evaluator.Evaluate(t.bounds.BoxToScene(p), s)
	return s.Value / t.scale
}

// distance is fieldAt without keeping the sample
func (t *Tracer) distance(p core.Vec3) float64 {
	var s field.Sample
	return t.fieldAt(p, &s)
}
