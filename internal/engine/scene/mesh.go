package scene

// Vertex is the interleaved vertex layout uploaded to the GPU.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	TexCoord [2]float32
}

// Primitive is one draw call worth of geometry with its own material.
type Primitive struct {
	Vertices []Vertex
	Indices  []uint32
	Material Material
}

// Mesh is a list of primitives attached to a node.
type Mesh struct {
	Name       string
	Primitives []*Primitive
}

// TriangleCount returns the number of triangles across all primitives.
func (m *Mesh) TriangleCount() int {
	n := 0
	for _, p := range m.Primitives {
		if len(p.Indices) > 0 {
			n += len(p.Indices) / 3
		} else {
			n += len(p.Vertices) / 3
		}
	}
	return n
}
