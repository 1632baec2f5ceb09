// Package scene holds the viewer's scene graph: lights, cameras and the
// loaded model tree, plus the materials attached to them. It has no GPU
// dependency; the renderer walks it each frame.
package scene

import "github.com/Faultbox/portal-viewer/internal/engine/camera"

// Scene is the root container. Objects are kept in insertion order.
type Scene struct {
	nodes   []*Node
	lights  []*DirectionalLight
	cameras []*camera.Perspective

	ClearColor Color
}

// New creates an empty scene with a black background.
func New() *Scene {
	return &Scene{}
}

// AddNode inserts a model root.
func (s *Scene) AddNode(n *Node) {
	s.nodes = append(s.nodes, n)
}

// AddLight inserts a directional light.
func (s *Scene) AddLight(l *DirectionalLight) {
	s.lights = append(s.lights, l)
}

// AddCamera registers a camera with the scene.
func (s *Scene) AddCamera(c *camera.Perspective) {
	s.cameras = append(s.cameras, c)
}

// Nodes returns the model roots.
func (s *Scene) Nodes() []*Node {
	return s.nodes
}

// Lights returns the directional lights.
func (s *Scene) Lights() []*DirectionalLight {
	return s.lights
}

// Cameras returns the registered cameras.
func (s *Scene) Cameras() []*camera.Perspective {
	return s.cameras
}

// Contains reports whether n is one of the scene's model roots.
func (s *Scene) Contains(n *Node) bool {
	for _, node := range s.nodes {
		if node == n {
			return true
		}
	}
	return false
}

// Len returns the total number of objects in the scene.
func (s *Scene) Len() int {
	return len(s.nodes) + len(s.lights) + len(s.cameras)
}
