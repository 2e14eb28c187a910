package scene

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/df07/go-implicit-raytracer/pkg/core"
	"github.com/df07/go-implicit-raytracer/pkg/field"
	"github.com/df07/go-implicit-raytracer/pkg/material"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoundsMapping(t *testing.T) {
	b := NewBounds(core.NewVec3(0, 0, 0), core.NewVec3(0.2, 0.1, 0.1))

	assert.InDelta(t, 0.2, b.SizeMax(), 1e-12)
	assert.InDelta(t, 0.1, b.Scale(), 1e-12)

	center := b.Center()
	assert.Equal(t, core.Vec3{}, b.SceneToBox(center))
	assert.InDelta(t, 1.0, b.SceneToBox(b.Max).X, 1e-12)

	p := core.NewVec3(0.03, 0.07, 0.01)
	back := b.BoxToScene(b.SceneToBox(p))
	assert.InDelta(t, p.X, back.X, 1e-12)
	assert.InDelta(t, p.Y, back.Y, 1e-12)
	assert.InDelta(t, p.Z, back.Z, 1e-12)
}

func TestBoundsValidate(t *testing.T) {
	assert.NoError(t, DefaultBounds().Validate())

	flat := NewBounds(core.Vec3{}, core.NewVec3(1, 0, 1))
	assert.ErrorIs(t, flat.Validate(), ErrInvalidBounds)
}

func TestEvaluatorNearestShape(t *testing.T) {
	s := New("two", NewBounds(core.Splat(-1), core.Splat(1)))
	s.AddMaterial(material.DefaultShader())
	s.AddMaterial(material.DefaultShader())
	s.AddShape("a", field.NewSphere(core.NewVec3(-0.5, 0, 0), 0.2), 0)
	s.AddShape("b", field.NewSphere(core.NewVec3(0.5, 0, 0), 0.2), 1)

	ev := s.Evaluator()
	var sample field.Sample

	ev.Evaluate(core.NewVec3(-0.5, 0, 0), &sample)
	assert.InDelta(t, -0.2, sample.Value, 1e-12)
	assert.Equal(t, 0, sample.Material)
	assert.Zero(t, sample.Mix)

	ev.Evaluate(core.NewVec3(0.9, 0, 0), &sample)
	assert.InDelta(t, 0.2, sample.Value, 1e-12)
	assert.Equal(t, 1, sample.Material)
	assert.Equal(t, 1, sample.Shape)
	assert.InDelta(t, sample.Value, ev.Distance(core.NewVec3(0.9, 0, 0)), 1e-12)
}

func TestEvaluatorBlendsNearSeam(t *testing.T) {
	s := New("blend", NewBounds(core.Splat(-1), core.Splat(1)))
	s.AddMaterial(material.DefaultShader())
	s.AddMaterial(material.DefaultShader())
	s.AddShape("a", field.NewSphere(core.NewVec3(-0.5, 0, 0), 0.2), 0)
	s.AddShape("b", field.NewSphere(core.NewVec3(0.5, 0, 0), 0.2), 1)
	s.BlendWidth = 0.1

	var sample field.Sample
	s.Evaluator().Evaluate(core.Vec3{}, &sample)
	assert.Equal(t, 0, sample.Material)
	assert.Equal(t, 1, sample.Material2)
	assert.InDelta(t, 0.5, sample.Mix, 1e-12)

	s.Evaluator().Evaluate(core.NewVec3(-0.5, 0, 0), &sample)
	assert.Zero(t, sample.Mix)
	assert.Equal(t, sample.Material, sample.Material2)
}

func TestEvaluatorColor(t *testing.T) {
	s := New("colored", NewBounds(core.Splat(-1), core.Splat(1)))
	shape := s.AddShape("ball", field.NewSphere(core.Vec3{}, 0.5), 0)
	shape.Color = field.SolidColor{Color: core.NewVec3(0.1, 0.2, 0.3)}

	var sample field.Sample
	s.Evaluator().Evaluate(core.Vec3{}, &sample)
	require.True(t, sample.HasColor)
	assert.Equal(t, core.NewVec3(0.1, 0.2, 0.3), sample.Color)
}

func TestEvaluatorEmpty(t *testing.T) {
	var sample field.Sample
	NewEvaluator(nil, 0).Evaluate(core.Vec3{}, &sample)
	assert.True(t, sample.Value > 1e300)
	assert.Equal(t, -1, sample.Shape)
}

func TestSceneValidate(t *testing.T) {
	s := New("empty", DefaultBounds())
	assert.ErrorIs(t, s.Validate(), ErrNoShapes)

	s.AddShape("ball", field.NewSphere(core.Vec3{}, 0.01), 3)
	assert.ErrorIs(t, s.Validate(), ErrBadMaterial)

	for i := 0; i < material.MaxMaterials+1; i++ {
		s.AddMaterial(material.DefaultShader())
	}
	err := s.Validate()
	assert.ErrorIs(t, err, material.ErrTooManyMaterials)

	s.Materials = s.Materials[:1]
	s.Shapes[0].Material = 0
	assert.NoError(t, s.Validate())

	s.Camera.VFov = 0
	assert.Error(t, s.Validate())
}

func TestBuiltinScenesValidate(t *testing.T) {
	infos, err := ListScenes("")
	require.NoError(t, err)
	require.NotEmpty(t, infos)

	for _, info := range infos {
		t.Run(info.ID, func(t *testing.T) {
			assert.Equal(t, "builtin", info.Type)
			s, err := NewBuiltin(info.ID)
			require.NoError(t, err)
			assert.NoError(t, s.Validate())
		})
	}

	_, err = NewBuiltin("nope")
	assert.True(t, errors.Is(err, ErrUnknownScene))
}

func TestListScenesFindsFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.toml", "a.yaml", "ignored.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(""), 0o644))
	}

	infos, err := ListScenes(dir)
	require.NoError(t, err)

	var files []SceneInfo
	for _, info := range infos {
		if info.Type == "file" {
			files = append(files, info)
		}
	}
	require.Len(t, files, 2)
	assert.Equal(t, "a", files[0].ID)
	assert.Equal(t, "b", files[1].ID)

	missing, err := ListScenes(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.Len(t, missing, len(builtins))
}

func TestBackgroundColorAt(t *testing.T) {
	bg := DefaultBackground()

	up := bg.ColorAt(core.NewVec3(0, 1, 0))
	assert.InDelta(t, bg.SkyColor.X, up.R, 1e-12)
	assert.InDelta(t, bg.SkyColor.Z, up.B, 1e-12)
	assert.Equal(t, 1.0, up.A)

	down := bg.ColorAt(core.NewVec3(0, -1, 0))
	assert.Equal(t, bg.GroundColor, down.RGB())

	bg.Transparent = true
	assert.Zero(t, bg.ColorAt(core.NewVec3(0, 0, 1)).A)

	solid := SolidBackground(core.NewVec3(0.2, 0.3, 0.4))
	assert.Equal(t, core.NewVec3(0.2, 0.3, 0.4), solid.ColorAt(core.NewVec3(0, 1, 0)).RGB())
}

func TestBackgroundImageLookup(t *testing.T) {
	img := &ImageMap{Width: 2, Height: 2, Pixels: []core.Vec3{
		core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0),
		core.NewVec3(0, 0, 1), core.NewVec3(1, 1, 1),
	}}
	bg := Background{Mode: BackgroundImage, Image: img}

	top := bg.ColorAt(core.NewVec3(0.001, 1, 0))
	bottom := bg.ColorAt(core.NewVec3(0.001, -1, 0))
	assert.NotEqual(t, top.RGB(), bottom.RGB())
}

func TestParseBackgroundMode(t *testing.T) {
	m, err := ParseBackgroundMode("Single-Color")
	require.NoError(t, err)
	assert.Equal(t, BackgroundSingleColor, m)
	assert.Equal(t, "image", BackgroundImage.String())

	_, err = ParseBackgroundMode("plaid")
	assert.Error(t, err)
}

func TestCameraBoxMatrix(t *testing.T) {
	b := NewBounds(core.NewVec3(9, 9, 9), core.NewVec3(11, 11, 11))
	cam := Camera{Position: core.NewVec3(10, 10, 7), LookAt: core.NewVec3(10, 10, 10), Up: core.NewVec3(0, 1, 0), VFov: 90}

	m := cam.BoxMatrix(b)
	eye := m.TransformPoint(core.Vec3{})
	assert.InDelta(t, -3.0, eye.Z, 1e-12)

	forward := m.TransformDirection(core.NewVec3(0, 0, -1))
	assert.InDelta(t, 1.0, forward.Z, 1e-12)
	assert.InDelta(t, 1.0, cam.CameraDepth(), 1e-12)
}
