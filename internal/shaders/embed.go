// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// StandardVertexShader is the vertex shader for lit model primitives.
//
//go:embed standard.vert
var StandardVertexShader string

// StandardFragmentShader is the fragment shader for lit model primitives.
//
//go:embed standard.frag
var StandardFragmentShader string

// PortalVertexShader is the vertex body of the portal material. The
// renderer prepends attribute and matrix declarations.
//
//go:embed portal.vert
var PortalVertexShader string

// PortalFragmentShader is the fragment body of the portal material.
//
//go:embed portal.frag
var PortalFragmentShader string
