package math

import "math"

// Quat is a rotation quaternion with W as the scalar part, the component
// order glTF stores node rotations in.
type Quat struct {
	X, Y, Z, W float32
}

// QuatIdentity is the rotation that does nothing.
func QuatIdentity() Quat {
	return Quat{W: 1}
}

// Normalize scales q to unit length. A near-zero quaternion carries no
// rotation and becomes the identity.
func (q Quat) Normalize() Quat {
	n := math.Sqrt(float64(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W))
	if n < 1e-4 {
		return QuatIdentity()
	}
	k := float32(1 / n)
	return Quat{q.X * k, q.Y * k, q.Z * k, q.W * k}
}

// ToMat4 returns the rotation as a column-major matrix.
func (q Quat) ToMat4() Mat4 {
	q = q.Normalize()
	x2, y2, z2 := q.X+q.X, q.Y+q.Y, q.Z+q.Z

	xx, yy, zz := q.X*x2, q.Y*y2, q.Z*z2
	xy, xz, yz := q.X*y2, q.X*z2, q.Y*z2
	wx, wy, wz := q.W*x2, q.W*y2, q.W*z2

	var m Mat4
	// column 0
	m[0], m[1], m[2] = 1-yy-zz, xy+wz, xz-wy
	// column 1
	m[4], m[5], m[6] = xy-wz, 1-xx-zz, yz+wx
	// column 2
	m[8], m[9], m[10] = xz+wy, yz-wx, 1-xx-yy
	m[15] = 1
	return m
}
