package lights

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-implicit-raytracer/pkg/core"
)

func TestNewData_ViewRelative(t *testing.T) {
	camToBox := core.LookAt(core.NewVec3(0, 0, -2), core.Vec3{}, core.NewVec3(0, 1, 0))
	l := NewLight(core.NewVec3(0, 0, 5), core.Splat(1), 0, 1)

	d := NewData(l, camToBox)
	assert.InDelta(t, -7, d.Position.Z, 1e-12)
	assert.Equal(t, 1, d.Samples)
	assert.Equal(t, DefaultAngularSize, d.AngularSize)
}

func TestNewData_Fixed(t *testing.T) {
	camToBox := core.LookAt(core.NewVec3(0, 0, -2), core.Vec3{}, core.NewVec3(0, 1, 0))
	l := NewLight(core.NewVec3(1, 2, 3), core.Splat(1), 0, 1)
	l.FixedPosition = true
	l.Samples = 0
	l.AngularSize = 0.3

	d := NewData(l, camToBox)
	assert.Equal(t, core.NewVec3(1, 2, 3), d.Position)
	assert.Equal(t, 1, d.Samples)
	assert.Equal(t, 0.3, d.AngularSize)
	assert.False(t, d.IsArea())

	l.Radius, l.Samples = 0.2, 8
	assert.True(t, NewData(l, camToBox).IsArea())
}

func TestRigs(t *testing.T) {
	for _, r := range []Rig{RigThreePoint, RigThreePointColored, RigTwoPoint, ""} {
		list, err := NewRig(r)
		require.NoError(t, err, "rig %q", r)
		assert.NotEmpty(t, list)
		for _, l := range list {
			assert.NoError(t, l.Validate())
		}
	}
	_, err := NewRig("studio")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	l := NewLight(core.Vec3{}, core.Splat(1), 0, -1)
	l.Radius = -1
	err := l.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "intensity")
	assert.Contains(t, err.Error(), "radius")
}
