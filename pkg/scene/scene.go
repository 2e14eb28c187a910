package scene

import (
	"errors"
	"fmt"

	"github.com/df07/go-implicit-raytracer/pkg/field"
	"github.com/df07/go-implicit-raytracer/pkg/lights"
	"github.com/df07/go-implicit-raytracer/pkg/material"
)

var (
	ErrNoShapes      = errors.New("scene has no shapes")
	ErrInvalidBounds = errors.New("invalid scene bounds")
	ErrBadMaterial   = errors.New("shape references a missing material")
)

// Shape binds an implicit field to a material channel
type Shape struct {
	Name     string
	Field    field.Field
	Material int
	Color    field.ColorSource // optional per-point color for color materials
}

// Scene contains all the elements needed for rendering
type Scene struct {
	Name       string
	Bounds     Bounds
	Shapes     []Shape
	Materials  []material.Shader
	Lights     []lights.Light
	Camera     Camera
	Background Background
	BlendWidth float64 // distance band in which mixed materials blend, scene units

	Width, Height int // recommended image size
	Hints         RenderHints
}

// New creates an empty scene with default camera, lighting and background
func New(name string, bounds Bounds) *Scene {
	return &Scene{
		Name:       name,
		Bounds:     bounds,
		Lights:     lights.ThreePoint(),
		Camera:     DefaultCamera(bounds),
		Background: DefaultBackground(),
		Width:      512,
		Height:     512,
	}
}

// AddShape appends a shape
func (s *Scene) AddShape(name string, f field.Field, materialIndex int) *Shape {
	s.Shapes = append(s.Shapes, Shape{Name: name, Field: f, Material: materialIndex})
	return &s.Shapes[len(s.Shapes)-1]
}

// AddMaterial appends a material and returns its index
func (s *Scene) AddMaterial(m material.Shader) int {
	s.Materials = append(s.Materials, m)
	return len(s.Materials) - 1
}

// MaterialCount is the number of materials the renderer will see
func (s *Scene) MaterialCount() int {
	return max(1, len(s.Materials))
}

// Validate checks the scene before rendering
func (s *Scene) Validate() error {
	var errs []error
	if err := s.Bounds.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(s.Shapes) == 0 {
		errs = append(errs, ErrNoShapes)
	}
	if len(s.Materials) > material.MaxMaterials {
		errs = append(errs, fmt.Errorf("%w: %d > %d", material.ErrTooManyMaterials, len(s.Materials), material.MaxMaterials))
	}
	for i, m := range s.Materials {
		if err := m.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("material %d: %w", i, err))
		}
	}
	for i, sh := range s.Shapes {
		if sh.Field == nil {
			errs = append(errs, fmt.Errorf("shape %d (%s) has no field", i, sh.Name))
		}
		if sh.Material < 0 || sh.Material >= s.MaterialCount() {
			errs = append(errs, fmt.Errorf("%w: shape %d (%s) uses material %d", ErrBadMaterial, i, sh.Name, sh.Material))
		}
	}
	for i, l := range s.Lights {
		if err := l.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("light %d: %w", i, err))
		}
	}
	if err := s.Camera.Validate(); err != nil {
		errs = append(errs, err)
	}
	if s.Background.Mode == BackgroundImage && s.Background.Image == nil {
		errs = append(errs, errors.New("image background without an image"))
	}
	return errors.Join(errs...)
}
