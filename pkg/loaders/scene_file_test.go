package loaders

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-implicit-raytracer/pkg/core"
	"github.com/df07/go-implicit-raytracer/pkg/field"
	"github.com/df07/go-implicit-raytracer/pkg/lights"
	"github.com/df07/go-implicit-raytracer/pkg/material"
	"github.com/df07/go-implicit-raytracer/pkg/renderer"
	"github.com/df07/go-implicit-raytracer/pkg/scene"
)

const tomlScene = `
name = "capsule"
blend_width = 0.01
light_rig = "two-point"

[bounds]
min = [-1.0, -1.0, -1.0]
max = [1.0, 1.0, 1.0]

[camera]
position = [0.0, 0.0, -3.0]
look_at = [0.0, 0.0, 0.0]
fov = 30.0

[background]
mode = "single_color"
color = "#336699"

[[lights]]
position = [1.0, 2.0, 3.0]
color = "#ffffff"
intensity = 0.5
samples = 8
radius = 0.2

[[materials]]
name = "glass"
diffuse = "#ccddee"
shininess = 0.8
transmittance = [0.5, 0.5, 0.5]

[[materials]]
name = "clay"
kind = "color"

[[shapes]]
name = "body"
material = 0
[shapes.field]
type = "smooth_union"
k = 0.1
[[shapes.field.children]]
type = "sphere"
center = [0.0, 0.3, 0.0]
radius = 0.3
[[shapes.field.children]]
type = "sphere"
center = [0.0, -0.3, 0.0]
radius = 0.3

[[shapes]]
name = "band"
material = 1
[shapes.field]
type = "torus"
major = 0.4
minor = 0.05
[shapes.color]
axis = "y"
start = -0.1
end = 0.1
from = "#ff0000"
to = "#0000ff"

[render]
quality = "fine"
shadow_quality = 6
max_intersections = 4
width = 320
height = 200
supersample = 3
blend_reflections = true
`

const yamlScene = `
name: gyroid-slab
bounds:
  min: [0, 0, 0]
  max: [0.1, 0.1, 0.05]
materials:
  - name: resin
    diffuse: "#a0c0ff"
shapes:
  - name: slab
    field:
      type: intersection
      children:
        - type: gyroid
          period: 0.03
          thickness: 0.004
        - type: box
          center: [0.05, 0.05, 0.025]
          size: [0.08, 0.08, 0.04]
render:
  quality: draft
  max_ray_bounces: 0
`

func TestParseSceneTOML(t *testing.T) {
	sf, err := ParseScene([]byte(tomlScene), ".toml", "")
	require.NoError(t, err)

	s := sf.Scene
	require.NoError(t, s.Validate())
	assert.Equal(t, "capsule", s.Name)
	assert.Equal(t, 0.01, s.BlendWidth)
	assert.Equal(t, 30.0, s.Camera.VFov)
	assert.Equal(t, scene.BackgroundSingleColor, s.Background.Mode)
	assert.InDelta(t, 0x33/255.0, s.Background.Color.X, 1e-9)

	// rig plus one explicit light
	require.Len(t, s.Lights, len(lights.TwoPoint())+1)
	last := s.Lights[len(s.Lights)-1]
	assert.Equal(t, 8, last.Samples)
	assert.Equal(t, 0.5, last.Intensity)
	assert.True(t, last.CastShadows)

	require.Len(t, s.Materials, 2)
	assert.Equal(t, "glass", s.Materials[0].Name)
	assert.Equal(t, core.Splat(0.5), s.Materials[0].Transmittance)
	assert.Equal(t, material.Color, s.Materials[1].Kind)

	require.Len(t, s.Shapes, 2)
	assert.Less(t, s.Shapes[0].Field.Distance(core.NewVec3(0, 0, 0)), 0.0)
	assert.Greater(t, s.Shapes[0].Field.Distance(core.NewVec3(0.5, 0, 0)), 0.0)
	grad, ok := s.Shapes[1].Color.(field.AxisGradient)
	require.True(t, ok)
	assert.Equal(t, 1, grad.Axis)

	assert.Equal(t, 320, sf.Width)
	assert.Equal(t, 200, sf.Height)
	assert.Equal(t, 3, sf.Progressive.Supersample)
	assert.Equal(t, 6, sf.Config.ShadowQuality)
	assert.Equal(t, 4, sf.Config.MaxIntersections)
	assert.Equal(t, 6e-4, sf.Config.Precision)
	assert.True(t, sf.Config.BlendReflections)
	assert.NoError(t, sf.Config.Validate())
}

func TestParseSceneYAML(t *testing.T) {
	sf, err := ParseScene([]byte(yamlScene), "yml", "")
	require.NoError(t, err)

	s := sf.Scene
	require.NoError(t, s.Validate())
	assert.InDelta(t, 0.1, s.Bounds.SizeMax(), 1e-12)
	assert.Len(t, s.Lights, len(scene.New("", s.Bounds).Lights))
	assert.True(t, sf.Config.DraftMode)
	assert.Equal(t, 0, sf.Config.MaxRayBounces)
	assert.Equal(t, renderer.DefaultConfig().ShadowQuality, sf.Config.ShadowQuality)

	tracer, err := renderer.NewTracer(s, sf.Config)
	require.NoError(t, err)
	assert.Equal(t, sf.Config, tracer.Config())
}

func TestParseSceneErrors(t *testing.T) {
	tests := []struct {
		name   string
		format string
		doc    string
	}{
		{"unknown format", ".json", `{}`},
		{"bad toml", ".toml", `name = `},
		{"unknown field type", ".yaml", "shapes:\n  - field:\n      type: blob\n"},
		{"missing children", ".yaml", "shapes:\n  - field:\n      type: difference\n      children:\n        - type: sphere\n          radius: 1\n"},
		{"bad color", ".yaml", "materials:\n  - diffuse: \"#zzzzzz\"\n"},
		{"bad rig", ".yaml", "light_rig: disco\n"},
		{"bad quality", ".yaml", "render:\n  quality: ultra\n"},
		{"bad kind", ".yaml", "materials:\n  - kind: plasma\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScene([]byte(tt.doc), tt.format, "")
			assert.Error(t, err)
		})
	}

	_, err := ParseScene(nil, ".json", "")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoadSceneFileResolvesBackgroundImage(t *testing.T) {
	dir := t.TempDir()

	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	f, err := os.Create(filepath.Join(dir, "env.png"))
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())

	doc := `
materials:
  - diffuse: "#ffffff"
shapes:
  - field: {type: sphere, radius: 0.5}
background:
  mode: image
  image: env.png
`
	path := filepath.Join(dir, "env-scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	sf, err := LoadSceneFile(path)
	require.NoError(t, err)
	assert.Equal(t, "env-scene", sf.Scene.Name)
	assert.Equal(t, scene.BackgroundImage, sf.Scene.Background.Mode)
	require.NotNil(t, sf.Scene.Background.Image)
	assert.Equal(t, 4, sf.Scene.Background.Image.Width)
	assert.Equal(t, core.NewVec3(1, 0, 0), sf.Scene.Background.Image.Pixels[0])
}

func TestOpen(t *testing.T) {
	sf, err := Open("translucent")
	require.NoError(t, err)
	assert.Equal(t, sf.Scene.Hints.MaxIntersections, sf.Config.MaxIntersections)
	assert.Equal(t, sf.Scene.Width, sf.Width)

	_, err = Open("no-such-scene")
	assert.ErrorIs(t, err, scene.ErrUnknownScene)

	_, err = Open(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#ff8000")
	require.NoError(t, err)
	assert.InDelta(t, 1, c.X, 1e-9)
	assert.InDelta(t, 128.0/255, c.Y, 1e-9)

	short, err := ParseColor("F80")
	require.NoError(t, err)
	assert.InDelta(t, 0x88/255.0, short.Y, 1e-9)

	_, err = ParseColor("red")
	assert.Error(t, err)
}
