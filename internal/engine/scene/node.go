package scene

import "github.com/Faultbox/portal-viewer/pkg/math"

// Node is an element of a loaded model tree.
type Node struct {
	Name     string
	Local    math.Mat4
	Mesh     *Mesh
	Children []*Node

	// material overrides every primitive material of Mesh when set.
	material Material
}

// NewNode creates a node with an identity transform.
func NewNode(name string) *Node {
	return &Node{
		Name:  name,
		Local: math.Identity(),
	}
}

// Add appends a child node.
func (n *Node) Add(child *Node) {
	n.Children = append(n.Children, child)
}

// FindChild returns the first immediate child with the given name.
// Grandchildren are not searched.
func (n *Node) FindChild(name string) *Node {
	for _, child := range n.Children {
		if child.Name == name {
			return child
		}
	}
	return nil
}

// SetMaterial replaces the node's material in a single assignment.
func (n *Node) SetMaterial(m Material) {
	n.material = m
}

// Material returns the override material, or nil when the mesh's own
// primitive materials are in effect.
func (n *Node) Material() Material {
	return n.material
}

// Walk visits n and its descendants depth-first with accumulated world
// transforms.
func (n *Node) Walk(parent math.Mat4, fn func(node *Node, world math.Mat4)) {
	world := parent.Mul(n.Local)
	fn(n, world)
	for _, child := range n.Children {
		child.Walk(world, fn)
	}
}

// Count returns the number of nodes in the subtree rooted at n.
func (n *Node) Count() int {
	total := 1
	for _, child := range n.Children {
		total += child.Count()
	}
	return total
}
