package scene

import (
	"testing"

	"github.com/Faultbox/portal-viewer/internal/engine/camera"
	"github.com/Faultbox/portal-viewer/pkg/math"
)

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in      string
		want    Color
		wantErr bool
	}{
		{in: "#ffffff", want: White},
		{in: "000000", want: Color{}},
		{in: "#f00", want: Color{R: 1}},
		{in: " #00ff00 ", want: Color{G: 1}},
		{in: "#12345", wantErr: true},
		{in: "#gggggg", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseHexColor(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseHexColor(%q) expected error", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseHexColor(%q) error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseHexColor(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestFindChildOnlySearchesImmediateChildren(t *testing.T) {
	root := NewNode("Scene")
	helmet := NewNode("helmet")
	nested := NewNode("portal")
	helmet.Add(nested)
	root.Add(helmet)

	if root.FindChild("portal") != nil {
		t.Error("FindChild must not descend into grandchildren")
	}
	if root.FindChild("helmet") != helmet {
		t.Error("FindChild should find an immediate child")
	}

	first := NewNode("portal")
	second := NewNode("portal")
	root.Add(first)
	root.Add(second)
	if root.FindChild("portal") != first {
		t.Error("FindChild should return the first match")
	}
}

func TestSetMaterialIsReferenceSwap(t *testing.T) {
	n := NewNode("portal")
	if n.Material() != nil {
		t.Fatal("new node should have no override material")
	}

	m := &ShaderMaterial{Name: "portal"}
	n.SetMaterial(m)
	if n.Material() != Material(m) {
		t.Error("Material() should return the same instance")
	}
}

func TestWalkAccumulatesTransforms(t *testing.T) {
	root := NewNode("root")
	root.Local = math.Translate(1, 0, 0)
	child := NewNode("child")
	child.Local = math.Translate(0, 2, 0)
	root.Add(child)

	var visited []string
	var childWorld math.Mat4
	root.Walk(math.Identity(), func(n *Node, world math.Mat4) {
		visited = append(visited, n.Name)
		if n == child {
			childWorld = world
		}
	})

	if len(visited) != 2 || visited[0] != "root" || visited[1] != "child" {
		t.Errorf("visit order = %v", visited)
	}
	p := childWorld.TransformVec3(math.Vec3{})
	if p != (math.Vec3{X: 1, Y: 2, Z: 0}) {
		t.Errorf("child origin in world = %v, want (1, 2, 0)", p)
	}
	if root.Count() != 2 {
		t.Errorf("Count() = %d, want 2", root.Count())
	}
}

func TestSceneContainers(t *testing.T) {
	s := New()
	light := NewDirectionalLight(White, 0.8)
	cam := camera.NewPerspective(45, 1, 0.1, 100)
	node := NewNode("Scene")

	s.AddLight(light)
	s.AddCamera(cam)
	if s.Contains(node) {
		t.Error("node not added yet")
	}
	s.AddNode(node)

	if !s.Contains(node) {
		t.Error("scene should contain the node")
	}
	if s.Len() != 3 {
		t.Errorf("Len() = %d, want 3", s.Len())
	}
	if s.Lights()[0] != light || s.Cameras()[0] != cam {
		t.Error("light or camera not stored")
	}
}

func TestDirectionalLight(t *testing.T) {
	l := NewDirectionalLight(White, 0.5)
	l.Position = math.Vec3{X: -5, Y: 5, Z: 3}

	d := l.Direction()
	if l := d.Length(); l < 0.999 || l > 1.001 {
		t.Errorf("direction length = %v, want 1", l)
	}
	if d.X >= 0 || d.Y <= 0 {
		t.Errorf("direction %v should point towards the light", d)
	}
	if r := l.Radiance(); r != (Color{R: 0.5, G: 0.5, B: 0.5}) {
		t.Errorf("Radiance() = %v", r)
	}
}

func TestMeshTriangleCount(t *testing.T) {
	m := &Mesh{Primitives: []*Primitive{
		{Vertices: make([]Vertex, 4), Indices: []uint32{0, 1, 2, 0, 2, 3}},
		{Vertices: make([]Vertex, 3)},
	}}
	if got := m.TriangleCount(); got != 3 {
		t.Errorf("TriangleCount() = %d, want 3", got)
	}
}
