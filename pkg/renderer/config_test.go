package renderer

import (
	"testing"

	"github.com/df07/go-implicit-raytracer/pkg/core"
	"github.com/df07/go-implicit-raytracer/pkg/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	require.NoError(t, c.Validate())
	assert.Equal(t, 1, c.MaxIntersections)
	assert.Equal(t, 0.005, c.SurfaceJump)
	assert.Equal(t, 1e-4, c.Precision)
	assert.Equal(t, 0.9, c.StepFactor)
	assert.Equal(t, 500, c.MaxSteps)
	assert.Equal(t, 1000, c.VolumeSteps)
}

func TestQualityPresets(t *testing.T) {
	tests := []struct {
		name      string
		precision float64
		factor    float64
		draft     bool
	}{
		{"draft", 5e-3, 1.0, true},
		{"normal", 1e-3, 0.95, false},
		{"fine", 6e-4, 0.95, false},
		{"super-fine", 3e-4, 0.95, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := ParseQuality(tt.name)
			require.NoError(t, err)
			c := ConfigForQuality(q)
			assert.Equal(t, tt.precision, c.Precision)
			assert.Equal(t, tt.factor, c.StepFactor)
			assert.Equal(t, tt.draft, c.DraftMode)
			assert.NoError(t, c.Validate())
		})
	}

	_, err := ParseQuality("ultra")
	assert.Error(t, err)
}

func TestApplyHints(t *testing.T) {
	c := DefaultConfig()
	c.ApplyHints(scene.RenderHints{MaxIntersections: 3})
	assert.Equal(t, 3, c.MaxIntersections)
	assert.Equal(t, DefaultConfig().ShadowQuality, c.ShadowQuality)
}

func TestConfigValidate(t *testing.T) {
	c := DefaultConfig()
	c.MinStep = 1
	c.VolumeSteps = 0
	c.LayerThickness = -1
	err := c.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "min step")
	assert.Contains(t, err.Error(), "step limits")
	assert.Contains(t, err.Error(), "layer thickness")
}

func TestCompositeOver(t *testing.T) {
	var color, alpha core.Vec3
	compositeOver(&color, &alpha, core.NewVec3(1, 0, 0), core.Splat(0.5))
	compositeOver(&color, &alpha, core.NewVec3(0, 1, 0), core.Splat(0.5))

	assertVecNear(t, core.NewVec3(0.5, 0.25, 0), color)
	assertVecNear(t, core.Splat(0.75), alpha)
	assert.False(t, isOpaque(alpha))

	compositeOver(&color, &alpha, core.Vec3{}, core.Splat(1))
	assert.True(t, isOpaque(alpha))
}
