package math

import "math"

// Mat4 is a 4x4 matrix stored column by column, so element (row, col) lives
// at index col*4+row and the array uploads to GL without transposing.
type Mat4 [16]float32

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Scale(1, 1, 1)
}

// Perspective maps the frustum with vertical angle fovY (radians) and the
// given width/height aspect into GL clip space, depth -1 at near and +1 at far.
func Perspective(fovY, aspect, near, far float32) Mat4 {
	cot := float32(1 / math.Tan(float64(fovY)/2))
	depth := near - far

	var m Mat4
	m[0] = cot / aspect
	m[5] = cot
	m[10] = (near + far) / depth
	m[11] = -1
	m[14] = 2 * near * far / depth
	return m
}

// LookAt returns a view matrix looking from eye towards center.
func LookAt(eye, center, up Vec3) Mat4 {
	f := center.Sub(eye).Normalize()
	s := f.Cross(up).Normalize()
	u := s.Cross(f)

	return Mat4{
		s.X, u.X, -f.X, 0,
		s.Y, u.Y, -f.Y, 0,
		s.Z, u.Z, -f.Z, 0,
		-s.Dot(eye), -u.Dot(eye), f.Dot(eye), 1,
	}
}

func Translate(x, y, z float32) Mat4 {
	m := Identity()
	m[12], m[13], m[14] = x, y, z
	return m
}

func Scale(x, y, z float32) Mat4 {
	return Mat4{0: x, 5: y, 10: z, 15: 1}
}

// Compose builds T * R * S, the node transform order used by glTF.
func Compose(t Vec3, r Quat, s Vec3) Mat4 {
	return Translate(t.X, t.Y, t.Z).Mul(r.ToMat4()).Mul(Scale(s.X, s.Y, s.Z))
}

// Mul returns m * o, so o is applied to a vector first.
func (m Mat4) Mul(o Mat4) Mat4 {
	var out Mat4
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += m[k*4+r] * o[c*4+k]
			}
			out[c*4+r] = sum
		}
	}
	return out
}

// TransformVec3 applies m to the point v (w = 1) and divides by the
// resulting w when it is not 0 or 1.
func (m Mat4) TransformVec3(v Vec3) Vec3 {
	in := [4]float32{v.X, v.Y, v.Z, 1}
	var out [4]float32
	for r := 0; r < 4; r++ {
		for k := 0; k < 4; k++ {
			out[r] += m[k*4+r] * in[k]
		}
	}
	if w := out[3]; w != 0 && w != 1 {
		return Vec3{out[0] / w, out[1] / w, out[2] / w}
	}
	return Vec3{out[0], out[1], out[2]}
}

// Ptr is the address gl.UniformMatrix4fv reads from.
func (m *Mat4) Ptr() *float32 {
	return &m[0]
}
