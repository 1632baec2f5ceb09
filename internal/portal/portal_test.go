package portal

import (
	"strings"
	"testing"

	"github.com/Faultbox/portal-viewer/internal/engine/scene"
)

func TestNewMaterialUniforms(t *testing.T) {
	m := NewMaterial(DefaultColorStart, DefaultColorEnd)
	shader := m.Shader()

	if len(shader.Uniforms) != 3 {
		t.Fatalf("expected 3 uniforms, got %d", len(shader.Uniforms))
	}
	if m.Time() != 0 {
		t.Errorf("initial time = %v, want 0", m.Time())
	}

	start, ok := shader.Uniform(UniformColorStart).Value.(scene.Color)
	if !ok {
		t.Fatalf("uColorStart has type %T, want scene.Color", shader.Uniform(UniformColorStart).Value)
	}
	want := scene.Color{R: 0x34 / 255.0, G: 0xd8 / 255.0, B: 0xeb / 255.0}
	if start != want {
		t.Errorf("uColorStart = %v, want %v", start, want)
	}

	end := shader.Uniform(UniformColorEnd).Value.(scene.Color)
	if end != DefaultColorEnd {
		t.Errorf("uColorEnd = %v, want %v", end, DefaultColorEnd)
	}
}

func TestSetTimeWritesSharedUniform(t *testing.T) {
	m := NewMaterial(DefaultColorStart, DefaultColorEnd)

	m.SetTime(1.5)

	if got := m.Shader().Uniform(UniformTime).Value; got != float32(1.5) {
		t.Errorf("uTime = %v, want 1.5", got)
	}
	if m.Time() != 1.5 {
		t.Errorf("Time() = %v, want 1.5", m.Time())
	}
}

func TestShaderSourcesDeclareUniforms(t *testing.T) {
	shader := NewMaterial(DefaultColorStart, DefaultColorEnd).Shader()

	if !strings.Contains(shader.VertexShader, "vUv") {
		t.Error("vertex shader should pass vUv")
	}
	for _, name := range []string{UniformTime, UniformColorStart, UniformColorEnd} {
		if !strings.Contains(shader.FragmentShader, name) {
			t.Errorf("fragment shader does not declare %s", name)
		}
	}
}
