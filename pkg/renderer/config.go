package renderer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/df07/go-implicit-raytracer/pkg/scene"
)

// Quality selects one of the tracing presets
type Quality int

const (
	QualityDraft Quality = iota
	QualityNormal
	QualityFine
	QualitySuperFine
)

var qualityNames = []string{"draft", "normal", "fine", "superfine"}

// String implements fmt.Stringer
func (q Quality) String() string {
	if q < 0 || int(q) >= len(qualityNames) {
		return fmt.Sprintf("quality(%d)", int(q))
	}
	return qualityNames[q]
}

// ParseQuality parses a preset name; the empty string means normal
func ParseQuality(s string) (Quality, error) {
	if s == "" {
		return QualityNormal, nil
	}
	for i, name := range qualityNames {
		if strings.EqualFold(strings.ReplaceAll(s, "-", ""), name) {
			return Quality(i), nil
		}
	}
	return QualityNormal, fmt.Errorf("unknown quality %q", s)
}

// Config contains the per-render tracing parameters. Lengths are in box
// units unless noted otherwise.
type Config struct {
	DraftMode        bool // treat every material as a single-color material
	ShadowQuality    int  // 0 no shadows, 1-5 hard shadows, above 5 soft shadows
	MaxRayBounces    int  // reflection recursion depth
	MaxIntersections int  // surface crossings per ray
	SurfaceJump      float64
	LayerThickness   float64 // volume layer thickness in scene units, 0 derives it from the bounds
	BlendReflections bool    // weight reflections by albedo instead of replacing the local color

	// Sphere tracing
	Precision    float64 // distance treated as a surface hit
	StepFactor   float64 // fraction of the safe distance taken per step
	MinStep      float64
	RayStep      float64 // largest single step
	MaxSteps     int
	NormalFactor float64 // largest accepted back-interpolation factor
	GradientStep float64 // central difference offset for normals

	// Shadow and volume marching
	MaxShadowDistance float64
	ShadowSteps       int
	VolumeSteps       int
}

// DefaultConfig returns the standard tracing parameters
func DefaultConfig() Config {
	return Config{
		ShadowQuality:     1,
		MaxRayBounces:     1,
		MaxIntersections:  1,
		SurfaceJump:       0.005,
		Precision:         1e-4,
		StepFactor:        0.9,
		MinStep:           1e-3,
		RayStep:           0.1,
		MaxSteps:          500,
		NormalFactor:      10,
		GradientStep:      1e-4,
		MaxShadowDistance: 3,
		ShadowSteps:       500,
		VolumeSteps:       1000,
	}
}

// ConfigForQuality returns the default config adjusted for a quality preset
func ConfigForQuality(q Quality) Config {
	c := DefaultConfig()
	c.ApplyQuality(q)
	return c
}

// ApplyQuality sets the precision and step relaxation of a preset. The
// draft preset also switches to draft materials.
func (c *Config) ApplyQuality(q Quality) {
	switch q {
	case QualityDraft:
		c.Precision, c.StepFactor = 5e-3, 1.0
		c.DraftMode = true
	case QualityFine:
		c.Precision, c.StepFactor = 6e-4, 0.95
	case QualitySuperFine:
		c.Precision, c.StepFactor = 3e-4, 0.95
	default:
		c.Precision, c.StepFactor = 1e-3, 0.95
	}
}

// ApplyHints overrides the settings a scene asks for
func (c *Config) ApplyHints(h scene.RenderHints) {
	if h.ShadowQuality > 0 {
		c.ShadowQuality = h.ShadowQuality
	}
	if h.MaxRayBounces > 0 {
		c.MaxRayBounces = h.MaxRayBounces
	}
	if h.MaxIntersections > 0 {
		c.MaxIntersections = h.MaxIntersections
	}
}

// Validate checks the config for values the tracer cannot work with
func (c Config) Validate() error {
	var errs []error
	positive := func(name string, v float64) {
		if !(v > 0) {
			errs = append(errs, fmt.Errorf("%s must be positive, got %g", name, v))
		}
	}
	positive("precision", c.Precision)
	positive("step factor", c.StepFactor)
	positive("min step", c.MinStep)
	positive("ray step", c.RayStep)
	positive("normal factor", c.NormalFactor)
	positive("gradient step", c.GradientStep)
	positive("surface jump", c.SurfaceJump)
	positive("max shadow distance", c.MaxShadowDistance)
	if c.MinStep > c.RayStep {
		errs = append(errs, fmt.Errorf("min step %g exceeds ray step %g", c.MinStep, c.RayStep))
	}
	if c.LayerThickness < 0 {
		errs = append(errs, fmt.Errorf("negative layer thickness %g", c.LayerThickness))
	}
	if c.MaxSteps <= 0 || c.ShadowSteps <= 0 || c.VolumeSteps <= 0 {
		errs = append(errs, errors.New("step limits must be positive"))
	}
	if c.ShadowQuality < 0 || c.MaxRayBounces < 0 || c.MaxIntersections < 0 {
		errs = append(errs, errors.New("shadow quality, bounces and intersections must not be negative"))
	}
	return errors.Join(errs...)
}
