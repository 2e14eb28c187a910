package material

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/df07/go-implicit-raytracer/pkg/core"
)

// MaxMaterials is the number of material channels a scene may use
const MaxMaterials = 4

// Epsilon is the smallest transmittance coefficient treated as translucent
const Epsilon = 1e-9

// opaqueEpsilon bounds the layer transmittance considered fully opaque
const opaqueEpsilon = 1e-6

// Kind tags how a material obtains its surface color
type Kind int

const (
	// Single uses the material colors as given
	Single Kind = iota
	// Color takes the diffuse color per point from the shape's color source
	Color
	// Mixed blends with a second material where two shapes meet
	Mixed
)

var kindNames = []string{"single", "color", "mixed"}

// String returns the lower-case name of the kind
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind parses a kind name; the empty string means Single
func ParseKind(s string) (Kind, error) {
	if s == "" {
		return Single, nil
	}
	for i, name := range kindNames {
		if strings.EqualFold(s, name) {
			return Kind(i), nil
		}
	}
	return Single, fmt.Errorf("unknown material kind %q", s)
}

// Shader holds the Phong-style parameters of one scene material
type Shader struct {
	Name             string
	Kind             Kind
	Diffuse          core.Vec3
	Emissive         core.Vec3
	Specular         core.Vec3
	Albedo           core.Vec3 // mirror reflectivity; zero disables reflection rays
	Shininess        float64   // Phong exponent factor, exponent = Shininess*128
	AmbientIntensity float64
	Roughness        float64
	SurfaceAlpha     float64   // opacity of the thin film at the entry surface
	Transmittance    core.Vec3 // per-channel transmittance distance in scene units, zero means opaque
}

// DefaultShader returns the light gray plastic used when a scene names no material
func DefaultShader() Shader {
	return Shader{
		Name:             "default",
		Kind:             Single,
		Diffuse:          core.NewVec3(0.8, 0.8, 0.8),
		Specular:         core.NewVec3(1, 1, 1),
		Shininess:        0.2,
		AmbientIntensity: 0.1,
	}
}

// Validate checks that the shader parameters are usable
func (s Shader) Validate() error {
	var errs []error
	if s.Kind < Single || s.Kind > Mixed {
		errs = append(errs, fmt.Errorf("material %q: invalid kind %d", s.Name, s.Kind))
	}
	for name, c := range map[string]core.Vec3{
		"diffuse": s.Diffuse, "emissive": s.Emissive, "specular": s.Specular, "albedo": s.Albedo,
	} {
		if !c.IsFinite() || c.X < 0 || c.Y < 0 || c.Z < 0 {
			errs = append(errs, fmt.Errorf("material %q: %s color %v out of range", s.Name, name, c))
		}
	}
	if s.Shininess < 0 || math.IsNaN(s.Shininess) {
		errs = append(errs, fmt.Errorf("material %q: negative shininess", s.Name))
	}
	if s.SurfaceAlpha < 0 || s.SurfaceAlpha > 1 {
		errs = append(errs, fmt.Errorf("material %q: surface alpha %g outside [0,1]", s.Name, s.SurfaceAlpha))
	}
	if s.Transmittance.X < 0 || s.Transmittance.Y < 0 || s.Transmittance.Z < 0 {
		errs = append(errs, fmt.Errorf("material %q: negative transmittance coefficient", s.Name))
	}
	return errors.Join(errs...)
}
