package math

import (
	"math"
	"testing"
)

func near(a, b Vec3) bool {
	return a.Distance(b) < 1e-4
}

func TestTransformPoint(t *testing.T) {
	s := float32(math.Sqrt(0.5))
	tests := []struct {
		name string
		m    Mat4
		in   Vec3
		want Vec3
	}{
		{"identity", Identity(), Vec3{1, 2, 3}, Vec3{1, 2, 3}},
		{"translate", Translate(10, 20, 30), Vec3{1, 2, 3}, Vec3{11, 22, 33}},
		{"scale", Scale(2, 3, 4), Vec3{1, 1, 1}, Vec3{2, 3, 4}},
		{"quarter turn about Y", Quat{Y: s, W: s}.ToMat4(), Vec3{1, 0, 0}, Vec3{0, 0, -1}},
		{"quarter turn about X", Quat{X: s, W: s}.ToMat4(), Vec3{0, 1, 0}, Vec3{0, 0, 1}},
		{"zero quaternion", Quat{}.ToMat4(), Vec3{1, 2, 3}, Vec3{1, 2, 3}},
		// glTF order: scale, then rotate, then translate
		{"compose", Compose(Vec3{1, 2, 3}, QuatIdentity(), Vec3{2, 2, 2}), Vec3{1, 1, 1}, Vec3{3, 4, 5}},
		{"compose rotated", Compose(Vec3{0, 1, 0}, Quat{Y: s, W: s}, Vec3{2, 2, 2}), Vec3{1, 0, 0}, Vec3{0, 1, -2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.TransformVec3(tt.in); !near(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMulOrder(t *testing.T) {
	m := Translate(1, 2, 3)
	if m.Mul(Identity()) != m || Identity().Mul(m) != m {
		t.Fatal("identity must be neutral")
	}

	// Scaling first leaves the translation untouched.
	ts := Translate(5, 0, 0).Mul(Scale(2, 2, 2))
	if got := ts.TransformVec3(Vec3{}); got != (Vec3{5, 0, 0}) {
		t.Errorf("T*S origin = %v", got)
	}
	st := Scale(2, 2, 2).Mul(Translate(5, 0, 0))
	if got := st.TransformVec3(Vec3{}); got != (Vec3{10, 0, 0}) {
		t.Errorf("S*T origin = %v", got)
	}
}

func TestPerspectiveClipDepth(t *testing.T) {
	m := Perspective(DegToRad(45), 16.0/9.0, 0.1, 100)
	if m[11] != -1 || m[15] != 0 {
		t.Fatalf("not a perspective matrix: %v", m)
	}

	// TransformVec3 divides by w, giving NDC depth.
	if got := m.TransformVec3(Vec3{0, 0, -0.1}).Z; math.Abs(float64(got+1)) > 1e-3 {
		t.Errorf("near plane depth = %v, want -1", got)
	}
	if got := m.TransformVec3(Vec3{0, 0, -100}).Z; math.Abs(float64(got-1)) > 1e-3 {
		t.Errorf("far plane depth = %v, want 1", got)
	}
}

func TestLookAtFromDefaultCamera(t *testing.T) {
	eye := Vec3{4, 6, 6}
	m := LookAt(eye, Vec3{}, Vec3{0, 1, 0})

	if got := m.TransformVec3(eye); !near(got, Vec3{}) {
		t.Errorf("eye maps to %v, want origin", got)
	}
	if got := m.TransformVec3(Vec3{}); !near(got, Vec3{0, 0, -eye.Length()}) {
		t.Errorf("target maps to %v, want straight ahead on -Z", got)
	}
}
