package core

import "math"

// Mat4 is a row-major 4x4 affine transform
type Mat4 [4][4]float64

// Identity returns the identity matrix
func Identity() Mat4 {
	return Mat4{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

// Translation returns a matrix that translates by t
func Translation(t Vec3) Mat4 {
	m := Identity()
	m[0][3], m[1][3], m[2][3] = t.X, t.Y, t.Z
	return m
}

// Scaling returns a matrix that scales uniformly by s
func Scaling(s float64) Mat4 {
	m := Identity()
	m[0][0], m[1][1], m[2][2] = s, s, s
	return m
}

// LookAt returns the camera-to-world matrix (the inverted view matrix) of a
// camera at eye looking toward target. Eye space looks down -Z with +Y up.
func LookAt(eye, target, up Vec3) Mat4 {
	forward := target.Subtract(eye).Normalize()
	if forward.LengthSquared() == 0 {
		forward = Vec3{0, 0, -1}
	}
	right := forward.Cross(up).Normalize()
	if right.LengthSquared() < 1e-12 {
		// up parallel to forward, pick any perpendicular
		alt := Vec3{0, 0, 1}
		if math.Abs(forward.Z) > 0.9 {
			alt = Vec3{0, 1, 0}
		}
		right = forward.Cross(alt).Normalize()
	}
	trueUp := right.Cross(forward)
	back := forward.Negate()

	return Mat4{
		{right.X, trueUp.X, back.X, eye.X},
		{right.Y, trueUp.Y, back.Y, eye.Y},
		{right.Z, trueUp.Z, back.Z, eye.Z},
		{0, 0, 0, 1},
	}
}

// Multiply returns m * other
func (m Mat4) Multiply(other Mat4) Mat4 {
	var r Mat4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += m[i][k] * other[k][j]
			}
			r[i][j] = sum
		}
	}
	return r
}

// TransformPoint applies the full affine transform to p
func (m Mat4) TransformPoint(p Vec3) Vec3 {
	return Vec3{
		X: m[0][0]*p.X + m[0][1]*p.Y + m[0][2]*p.Z + m[0][3],
		Y: m[1][0]*p.X + m[1][1]*p.Y + m[1][2]*p.Z + m[1][3],
		Z: m[2][0]*p.X + m[2][1]*p.Y + m[2][2]*p.Z + m[2][3],
	}
}

// TransformDirection applies only the linear part of the transform to d
func (m Mat4) TransformDirection(d Vec3) Vec3 {
	return Vec3{
		X: m[0][0]*d.X + m[0][1]*d.Y + m[0][2]*d.Z,
		Y: m[1][0]*d.X + m[1][1]*d.Y + m[1][2]*d.Z,
		Z: m[2][0]*d.X + m[2][1]*d.Y + m[2][2]*d.Z,
	}
}

// InverseRigid inverts a rotation+translation matrix (such as LookAt output)
func (m Mat4) InverseRigid() Mat4 {
	r := Identity()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = m[j][i]
		}
	}
	t := Vec3{m[0][3], m[1][3], m[2][3]}
	it := r.TransformDirection(t).Negate()
	r[0][3], r[1][3], r[2][3] = it.X, it.Y, it.Z
	return r
}
