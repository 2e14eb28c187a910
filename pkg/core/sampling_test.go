package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpiralDiskStaysInDisk(t *testing.T) {
	const n = 64
	var cx, cy float64
	for i := 0; i < n; i++ {
		p := SpiralDisk(i, n)
		assert.LessOrEqual(t, math.Hypot(p.X, p.Y), 1.0)
		cx += p.X
		cy += p.Y
	}
	// roughly centered
	assert.InDelta(t, 0, cx/n, 0.1)
	assert.InDelta(t, 0, cy/n, 0.1)

	assert.Equal(t, SpiralDisk(5, n), SpiralDisk(5, n))
	assert.Equal(t, Vec2{}, SpiralDisk(0, 0))
}

func TestOrthonormalBasis(t *testing.T) {
	for _, n := range []Vec3{
		NewVec3(0, 0, 1),
		NewVec3(1, 0, 0),
		NewVec3(1, 2, 3).Normalize(),
	} {
		u, v := OrthonormalBasis(n)
		assert.InDelta(t, 1, u.Length(), 1e-12)
		assert.InDelta(t, 1, v.Length(), 1e-12)
		assert.InDelta(t, 0, u.Dot(n), 1e-12)
		assert.InDelta(t, 0, v.Dot(n), 1e-12)
		assert.InDelta(t, 0, u.Dot(v), 1e-12)
	}
}

func TestDiskPoint(t *testing.T) {
	p := DiskPoint(NewVec3(1, 1, 1), NewVec3(1, 0, 0), NewVec3(0, 1, 0), 2, NewVec2(0.5, -0.5))
	assert.Equal(t, NewVec3(2, 0, 1), p)
}
