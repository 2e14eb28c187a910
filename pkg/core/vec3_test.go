package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func assertVecNear(t *testing.T, expected, actual Vec3, tol float64) {
	t.Helper()
	assert.InDelta(t, expected.X, actual.X, tol, "X of %v", actual)
	assert.InDelta(t, expected.Y, actual.Y, tol, "Y of %v", actual)
	assert.InDelta(t, expected.Z, actual.Z, tol, "Z of %v", actual)
}

func TestVec3_Reflect(t *testing.T) {
	tests := []struct {
		name     string
		vector   Vec3
		normal   Vec3
		expected Vec3
	}{
		{"head on", NewVec3(0, 0, 1), NewVec3(0, 0, -1), NewVec3(0, 0, -1)},
		{"45 degrees", NewVec3(1, -1, 0), NewVec3(0, 1, 0), NewVec3(1, 1, 0)},
		{"grazing", NewVec3(1, 0, 0), NewVec3(0, 1, 0), NewVec3(1, 0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertVecNear(t, tt.expected, tt.vector.Reflect(tt.normal), 1e-12)
		})
	}
}

func TestVec3_NormalizeZero(t *testing.T) {
	assert.Equal(t, Vec3{}, Vec3{}.Normalize())
	assert.InDelta(t, 1.0, NewVec3(3, 4, 12).Normalize().Length(), 1e-12)
}

func TestVec3_IsFinite(t *testing.T) {
	assert.True(t, NewVec3(1, 2, 3).IsFinite())
	assert.False(t, NewVec3(math.NaN(), 0, 0).IsFinite())
	assert.False(t, NewVec3(0, math.Inf(1), 0).IsFinite())
}

func TestSmoothStep(t *testing.T) {
	assert.Equal(t, 0.0, SmoothStep(0, 1, -1))
	assert.Equal(t, 1.0, SmoothStep(0, 1, 2))
	assert.InDelta(t, 0.5, SmoothStep(0, 1, 0.5), 1e-12)
	// degenerate edges behave like a hard step
	assert.Equal(t, 0.0, SmoothStep(0.2, 0.2, 0.1))
	assert.Equal(t, 1.0, SmoothStep(0.2, 0.2, 0.3))
}

func TestRGBA_Clamp(t *testing.T) {
	c := NewRGBA(-0.5, 0.5, 1.5, 2).Clamp()
	assert.Equal(t, NewRGBA(0, 0.5, 1, 1), c)
}
