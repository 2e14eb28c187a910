package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntersectBox(t *testing.T) {
	boxMin, boxMax := Splat(-1), Splat(1)

	tests := []struct {
		name      string
		origin    Vec3
		dir       Vec3
		expectHit bool
		tNear     float64
		tFar      float64
	}{
		{"axis aligned through center", NewVec3(0, 0, -3), NewVec3(0, 0, 1), true, 2, 4},
		{"zero components in direction", NewVec3(0.5, -0.5, 5), NewVec3(0, 0, -1), true, 4, 6},
		{"parallel outside slab", NewVec3(2, 0, -3), NewVec3(0, 0, 1), false, 0, 0},
		{"pointing away", NewVec3(0, 0, -3), NewVec3(0, 0, -1), false, 0, 0},
		{"origin inside", NewVec3(0, 0, 0), NewVec3(1, 0, 0), true, -1, 1},
		{"diagonal", NewVec3(-2, -2, -2), NewVec3(1, 1, 1), true, 1, 3},
		{"zero direction", NewVec3(0, 0, -3), Vec3{}, false, 0, 0},
		{"nan direction", NewVec3(0, 0, -3), NewVec3(math.NaN(), 0, 1), false, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tNear, tFar, hit := IntersectBox(tt.origin, tt.dir, boxMin, boxMax)
			require.Equal(t, tt.expectHit, hit)
			if tt.expectHit {
				assert.InDelta(t, tt.tNear, tNear, 1e-12)
				assert.InDelta(t, tt.tFar, tFar, 1e-12)
			}
		})
	}
}

func TestIntersectBox_ReverseRoundTrip(t *testing.T) {
	boxMin, boxMax := Splat(-1), Splat(1)
	rays := []Ray{
		NewRay(NewVec3(-3, 0.2, 0.1), NewVec3(1, 0, 0)),
		NewRay(NewVec3(-2, -3, 1.5), NewVec3(0.7, 1.1, -0.4)),
		NewRay(NewVec3(4, 4, 4), NewVec3(-1, -0.9, -1.2)),
		NewRay(NewVec3(0.3, 5, -0.2), NewVec3(0, -1, 0)),
	}

	for _, ray := range rays {
		tNear, tFar, hit := IntersectBox(ray.Origin, ray.Direction, boxMin, boxMax)
		require.True(t, hit, "ray %v", ray)
		near := ray.At(tNear)
		far := ray.At(tFar)

		reversed := ray.Direction.Negate()
		rNear, rFar, rHit := IntersectBox(far, reversed, boxMin, boxMax)
		require.True(t, rHit)
		assert.InDelta(t, 0, rNear, 1e-9)
		assertVecNear(t, near, far.Add(reversed.Multiply(rFar)), 1e-9)
	}
}

func TestAABB_Contains(t *testing.T) {
	box := UnitCube()
	assert.True(t, box.IsValid())
	assert.True(t, box.Contains(NewVec3(1, -1, 0)))
	assert.False(t, box.Contains(NewVec3(1.01, 0, 0)))
	assert.Equal(t, Vec3{}, box.Center())
	assert.Equal(t, Splat(2), box.Size())
}
