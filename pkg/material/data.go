package material

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-implicit-raytracer/pkg/core"
	"github.com/df07/go-implicit-raytracer/pkg/field"
)

// Data is the immutable per-render form of a Shader
type Data struct {
	Kind             Kind
	Diffuse          core.Vec3
	Emissive         core.Vec3
	Specular         core.Vec3
	Albedo           core.Vec3
	Shininess        float64
	AmbientIntensity float64
	Roughness        float64

	LayerTransmittance core.Vec3 // fraction of light passing one layer, per channel
	LayerAlpha         core.Vec3 // 1 - LayerTransmittance
	SurfaceLayerAlpha  core.Vec3 // entry film combined with the first layer
	Opaque             bool
}

// LayerTransmittance returns exp(-thickness/coefficient) per channel.
// Coefficients at or below Epsilon (or NaN) give zero transmittance.
func LayerTransmittance(coefficient core.Vec3, thickness float64) core.Vec3 {
	channel := func(c float64) float64 {
		if !(c > Epsilon) {
			return 0
		}
		return core.Clamp01(math.Exp(-thickness / c))
	}
	return core.Vec3{
		X: channel(coefficient.X),
		Y: channel(coefficient.Y),
		Z: channel(coefficient.Z),
	}
}

// NewData derives the render-time material for a layer thickness in scene units
func NewData(s Shader, layerThickness float64) Data {
	trans := LayerTransmittance(s.Transmittance, layerThickness)
	surfaceTrans := trans.Multiply(1 - core.Clamp01(s.SurfaceAlpha))

	return Data{
		Kind:               s.Kind,
		Diffuse:            s.Diffuse,
		Emissive:           s.Emissive,
		Specular:           s.Specular,
		Albedo:             s.Albedo,
		Shininess:          s.Shininess,
		AmbientIntensity:   s.AmbientIntensity,
		Roughness:          core.Clamp01(s.Roughness),
		LayerTransmittance: trans,
		LayerAlpha:         core.Splat(1).Subtract(trans),
		SurfaceLayerAlpha:  core.Splat(1).Subtract(surfaceTrans),
		Opaque:             trans.MaxComponent() < opaqueEpsilon,
	}
}

// Table is the ordered set of materials for one render
type Table struct {
	data []Data
}

// ErrTooManyMaterials is returned when a scene defines more than MaxMaterials
var ErrTooManyMaterials = errors.New("too many materials")

// NewTable derives materials for a render. An empty list yields the default material.
func NewTable(shaders []Shader, layerThickness float64) (*Table, error) {
	if len(shaders) > MaxMaterials {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyMaterials, len(shaders), MaxMaterials)
	}
	if len(shaders) == 0 {
		shaders = []Shader{DefaultShader()}
	}
	t := &Table{data: make([]Data, len(shaders))}
	for i, s := range shaders {
		if err := s.Validate(); err != nil {
			return nil, err
		}
		t.data[i] = NewData(s, layerThickness)
	}
	return t, nil
}

// Len returns the number of materials
func (t *Table) Len() int {
	return len(t.data)
}

// Get returns the material for an index, clamping out-of-range indices to 0
func (t *Table) Get(index int) *Data {
	if index < 0 || index >= len(t.data) {
		index = 0
	}
	return &t.data[index]
}

// Surface is the material resolved at one point of a surface
type Surface struct {
	Material         *Data // owning material, used for opacity decisions
	Diffuse          core.Vec3
	Emissive         core.Vec3
	Specular         core.Vec3
	Albedo           core.Vec3
	Shininess        float64
	AmbientIntensity float64
	Roughness        float64
}

// IsReflective reports whether the surface spawns mirror rays
func (s Surface) IsReflective() bool {
	return s.Albedo.MaxComponent() > Epsilon
}

// Resolve computes the surface parameters for a field sample. In draft mode
// every material is treated as Single.
func (t *Table) Resolve(s *field.Sample, draft bool) Surface {
	m := t.Get(s.Material)
	surf := Surface{
		Material:         m,
		Diffuse:          m.Diffuse,
		Emissive:         m.Emissive,
		Specular:         m.Specular,
		Albedo:           m.Albedo,
		Shininess:        m.Shininess,
		AmbientIntensity: m.AmbientIntensity,
		Roughness:        m.Roughness,
	}
	if draft {
		return surf
	}

	switch m.Kind {
	case Color:
		if s.HasColor {
			surf.Diffuse = s.Color
		}
	case Mixed:
		if s.Mix > 0 && s.Material2 != s.Material {
			o := t.Get(s.Material2)
			w := core.Clamp01(s.Mix)
			surf.Diffuse = surf.Diffuse.Lerp(o.Diffuse, w)
			surf.Emissive = surf.Emissive.Lerp(o.Emissive, w)
			surf.Specular = surf.Specular.Lerp(o.Specular, w)
			surf.Albedo = surf.Albedo.Lerp(o.Albedo, w)
			surf.Shininess += (o.Shininess - surf.Shininess) * w
			surf.AmbientIntensity += (o.AmbientIntensity - surf.AmbientIntensity) * w
			surf.Roughness += (o.Roughness - surf.Roughness) * w
		}
	}
	return surf
}
