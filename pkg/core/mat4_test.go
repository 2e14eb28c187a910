package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookAt(t *testing.T) {
	m := LookAt(NewVec3(0, 0, -2), Vec3{}, NewVec3(0, 1, 0))

	// eye-space -Z maps to the viewing direction
	assertVecNear(t, NewVec3(0, 0, 1), m.TransformDirection(NewVec3(0, 0, -1)), 1e-12)
	assertVecNear(t, NewVec3(0, 1, 0), m.TransformDirection(NewVec3(0, 1, 0)), 1e-12)
	assertVecNear(t, NewVec3(0, 0, -2), m.TransformPoint(Vec3{}), 1e-12)
	// a point behind the eye in eye space
	assertVecNear(t, NewVec3(0, 0, -7), m.TransformPoint(NewVec3(0, 0, 5)), 1e-12)
}

func TestLookAt_ParallelUp(t *testing.T) {
	m := LookAt(NewVec3(0, 3, 0), Vec3{}, NewVec3(0, 1, 0))
	dir := m.TransformDirection(NewVec3(0, 0, -1))
	assertVecNear(t, NewVec3(0, -1, 0), dir, 1e-12)
	assert.True(t, m.TransformDirection(NewVec3(1, 0, 0)).IsFinite())
}

func TestMat4_InverseRigid(t *testing.T) {
	m := LookAt(NewVec3(1, 2, 3), NewVec3(-1, 0, 0.5), NewVec3(0, 1, 0))
	inv := m.InverseRigid()
	p := NewVec3(0.3, -0.7, 1.9)
	assertVecNear(t, p, inv.TransformPoint(m.TransformPoint(p)), 1e-12)
	assertVecNear(t, p, m.Multiply(inv).TransformPoint(p), 1e-12)
}

func TestMat4_TranslationScaling(t *testing.T) {
	m := Translation(NewVec3(1, 2, 3)).Multiply(Scaling(2))
	assert.Equal(t, NewVec3(3, 4, 5), m.TransformPoint(NewVec3(1, 1, 1)))
	assert.Equal(t, NewVec3(2, 2, 2), m.TransformDirection(NewVec3(1, 1, 1)))
}
