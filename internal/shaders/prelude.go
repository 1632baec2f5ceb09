package shaders

import "strings"

// Version is the GLSL version every program is compiled with.
const Version = "#version 410 core"

// VertexPrelude declares the attributes and matrices available to custom
// shader material vertex bodies.
const VertexPrelude = Version + `
layout (location = 0) in vec3 position;
layout (location = 1) in vec3 normal;
layout (location = 2) in vec2 uv;

uniform mat4 modelMatrix;
uniform mat4 viewMatrix;
uniform mat4 projectionMatrix;
`

// FragmentPrelude is prepended to custom fragment bodies.
const FragmentPrelude = Version + "\n"

// WithPrelude returns body prefixed by prelude. A #version directive in body
// is dropped so the prelude's one stays first.
func WithPrelude(prelude, body string) string {
	var b strings.Builder
	b.WriteString(prelude)
	if !strings.HasSuffix(prelude, "\n") {
		b.WriteByte('\n')
	}
	for _, line := range strings.SplitAfter(body, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "#version") {
			continue
		}
		b.WriteString(line)
	}
	return b.String()
}
