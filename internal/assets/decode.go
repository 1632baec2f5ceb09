package assets

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"net/url"
	"time"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/portal-viewer/internal/engine/scene"
	"github.com/Faultbox/portal-viewer/internal/engine/texture"
	"github.com/Faultbox/portal-viewer/pkg/math"
)

// DefaultRootName names the model root when the glTF scene is unnamed.
const DefaultRootName = "Scene"

// Decode parses a glTF or GLB document and builds the node tree of its
// default scene. External buffers and images are fetched relative to ref.
func Decode(ctx context.Context, data []byte, ref string, fetcher Fetcher, maxTextureSize int) (*scene.Node, error) {
	fsys := &refFS{ctx: ctx, fetcher: fetcher, base: ref}

	doc := new(gltf.Document)
	if err := gltf.NewDecoderFS(bytes.NewReader(data), fsys).Decode(doc); err != nil {
		return nil, fmt.Errorf("gltf: %w", err)
	}

	b := &builder{
		ctx:      ctx,
		doc:      doc,
		fsys:     fsys,
		maxTex:   maxTextureSize,
		meshes:   make(map[int]*scene.Mesh),
		mats:     make(map[int]scene.Material),
		textures: make(map[int]*scene.Texture),
		visited:  make(map[int]bool),
	}
	return b.build()
}

type builder struct {
	ctx    context.Context
	doc    *gltf.Document
	fsys   *refFS
	maxTex int

	meshes   map[int]*scene.Mesh
	mats     map[int]scene.Material
	textures map[int]*scene.Texture
	visited  map[int]bool

	fallback *scene.StandardMaterial
}

func (b *builder) build() (*scene.Node, error) {
	roots, name := b.sceneRoots()
	if len(roots) == 0 {
		return nil, fmt.Errorf("document has no nodes")
	}

	root := scene.NewNode(name)
	for _, idx := range roots {
		child, err := b.node(idx)
		if err != nil {
			return nil, err
		}
		root.Add(child)
	}
	return root, nil
}

// sceneRoots returns the top-level node indices of the default scene.
// Documents without scenes use every parentless node.
func (b *builder) sceneRoots() ([]int, string) {
	doc := b.doc
	if len(doc.Scenes) > 0 {
		idx := 0
		if doc.Scene != nil && *doc.Scene < len(doc.Scenes) {
			idx = *doc.Scene
		}
		s := doc.Scenes[idx]
		name := s.Name
		if name == "" {
			name = DefaultRootName
		}
		return s.Nodes, name
	}

	hasParent := make([]bool, len(doc.Nodes))
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			if c >= 0 && c < len(hasParent) {
				hasParent[c] = true
			}
		}
	}
	var roots []int
	for i := range doc.Nodes {
		if !hasParent[i] {
			roots = append(roots, i)
		}
	}
	return roots, DefaultRootName
}

func (b *builder) node(idx int) (*scene.Node, error) {
	if err := b.ctx.Err(); err != nil {
		return nil, err
	}
	if idx < 0 || idx >= len(b.doc.Nodes) {
		return nil, fmt.Errorf("node index %d out of range", idx)
	}
	if b.visited[idx] {
		return nil, fmt.Errorf("node %d is referenced more than once", idx)
	}
	b.visited[idx] = true

	src := b.doc.Nodes[idx]
	n := scene.NewNode(src.Name)
	n.Local = nodeTransform(src)

	if src.Mesh != nil {
		mesh, err := b.mesh(*src.Mesh)
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", src.Name, err)
		}
		n.Mesh = mesh
	}

	for _, c := range src.Children {
		child, err := b.node(c)
		if err != nil {
			return nil, err
		}
		n.Add(child)
	}
	return n, nil
}

// nodeTransform returns the node matrix, or T*R*S when no matrix is set.
func nodeTransform(n *gltf.Node) math.Mat4 {
	var m math.Mat4
	zero := true
	for i := range n.Matrix {
		m[i] = float32(n.Matrix[i])
		if m[i] != 0 {
			zero = false
		}
	}
	if !zero && m != math.Identity() {
		return m
	}

	t := math.Vec3{X: float32(n.Translation[0]), Y: float32(n.Translation[1]), Z: float32(n.Translation[2])}
	r := math.Quat{X: float32(n.Rotation[0]), Y: float32(n.Rotation[1]), Z: float32(n.Rotation[2]), W: float32(n.Rotation[3])}
	if r == (math.Quat{}) {
		r = math.QuatIdentity()
	}
	s := math.Vec3{X: float32(n.Scale[0]), Y: float32(n.Scale[1]), Z: float32(n.Scale[2])}
	if s == (math.Vec3{}) {
		s = math.Vec3{X: 1, Y: 1, Z: 1}
	}
	return math.Compose(t, r, s)
}

func (b *builder) mesh(idx int) (*scene.Mesh, error) {
	if m, ok := b.meshes[idx]; ok {
		return m, nil
	}
	if idx < 0 || idx >= len(b.doc.Meshes) {
		return nil, fmt.Errorf("mesh index %d out of range", idx)
	}

	src := b.doc.Meshes[idx]
	mesh := &scene.Mesh{Name: src.Name}
	for i, prim := range src.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles {
			continue
		}
		p, err := b.primitive(prim)
		if err != nil {
			return nil, fmt.Errorf("mesh %q primitive %d: %w", src.Name, i, err)
		}
		mesh.Primitives = append(mesh.Primitives, p)
	}

	b.meshes[idx] = mesh
	return mesh, nil
}

func (b *builder) primitive(prim *gltf.Primitive) (*scene.Primitive, error) {
	doc := b.doc

	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, fmt.Errorf("missing POSITION attribute")
	}
	for _, idx := range prim.Attributes {
		if idx < 0 || idx >= len(doc.Accessors) {
			return nil, fmt.Errorf("accessor index %d out of range", idx)
		}
	}
	if prim.Indices != nil && (*prim.Indices < 0 || *prim.Indices >= len(doc.Accessors)) {
		return nil, fmt.Errorf("accessor index %d out of range", *prim.Indices)
	}

	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return nil, fmt.Errorf("read positions: %w", err)
	}

	var normals [][3]float32
	if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
		normals, err = modeler.ReadNormal(doc, doc.Accessors[idx], nil)
		if err != nil {
			return nil, fmt.Errorf("read normals: %w", err)
		}
	}

	var uvs [][2]float32
	if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		uvs, err = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil)
		if err != nil {
			return nil, fmt.Errorf("read texcoords: %w", err)
		}
	}

	var indices []uint32
	if prim.Indices != nil {
		indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return nil, fmt.Errorf("read indices: %w", err)
		}
		for _, i := range indices {
			if int(i) >= len(positions) {
				return nil, fmt.Errorf("index %d out of range (%d vertices)", i, len(positions))
			}
		}
	}

	vertices := make([]scene.Vertex, len(positions))
	for i, p := range positions {
		vertices[i].Position = p
		if i < len(normals) {
			vertices[i].Normal = normals[i]
		}
		if i < len(uvs) {
			vertices[i].TexCoord = uvs[i]
		}
	}
	if len(normals) == 0 {
		computeNormals(vertices, indices)
	}

	mat, err := b.material(prim.Material)
	if err != nil {
		return nil, err
	}

	return &scene.Primitive{
		Vertices: vertices,
		Indices:  indices,
		Material: mat,
	}, nil
}

// computeNormals accumulates area-weighted face normals per vertex.
func computeNormals(vertices []scene.Vertex, indices []uint32) {
	tri := func(a, b, c int) {
		pa := vec3(vertices[a].Position)
		pb := vec3(vertices[b].Position)
		pc := vec3(vertices[c].Position)
		n := pb.Sub(pa).Cross(pc.Sub(pa))
		for _, i := range [3]int{a, b, c} {
			acc := vec3(vertices[i].Normal).Add(n)
			vertices[i].Normal = [3]float32{acc.X, acc.Y, acc.Z}
		}
	}

	if len(indices) > 0 {
		for i := 0; i+2 < len(indices); i += 3 {
			tri(int(indices[i]), int(indices[i+1]), int(indices[i+2]))
		}
	} else {
		for i := 0; i+2 < len(vertices); i += 3 {
			tri(i, i+1, i+2)
		}
	}

	for i := range vertices {
		n := vec3(vertices[i].Normal).Normalize()
		vertices[i].Normal = [3]float32{n.X, n.Y, n.Z}
	}
}

func vec3(a [3]float32) math.Vec3 {
	return math.Vec3{X: a[0], Y: a[1], Z: a[2]}
}

func (b *builder) material(idx *int) (scene.Material, error) {
	if idx == nil || *idx < 0 || *idx >= len(b.doc.Materials) {
		if b.fallback == nil {
			b.fallback = &scene.StandardMaterial{
				Name:      "default",
				BaseColor: [4]float32{1, 1, 1, 1},
			}
		}
		return b.fallback, nil
	}
	if m, ok := b.mats[*idx]; ok {
		return m, nil
	}

	src := b.doc.Materials[*idx]
	mat := &scene.StandardMaterial{
		Name:        src.Name,
		BaseColor:   [4]float32{1, 1, 1, 1},
		DoubleSided: src.DoubleSided,
	}

	if pbr := src.PBRMetallicRoughness; pbr != nil {
		if f := pbr.BaseColorFactor; f != nil {
			mat.BaseColor = [4]float32{float32(f[0]), float32(f[1]), float32(f[2]), float32(f[3])}
		}
		if pbr.BaseColorTexture != nil {
			tex, err := b.texture(pbr.BaseColorTexture.Index)
			if err != nil {
				return nil, fmt.Errorf("material %q: %w", src.Name, err)
			}
			mat.Texture = tex
		}
	}

	b.mats[*idx] = mat
	return mat, nil
}

func (b *builder) texture(idx int) (*scene.Texture, error) {
	if idx < 0 || idx >= len(b.doc.Textures) {
		return nil, fmt.Errorf("texture index %d out of range", idx)
	}
	src := b.doc.Textures[idx]
	if src.Source == nil {
		return nil, nil
	}
	imgIdx := *src.Source
	if t, ok := b.textures[imgIdx]; ok {
		return t, nil
	}
	if imgIdx < 0 || imgIdx >= len(b.doc.Images) {
		return nil, fmt.Errorf("image index %d out of range", imgIdx)
	}

	img := b.doc.Images[imgIdx]
	data, err := b.imageData(img)
	if err != nil {
		return nil, fmt.Errorf("image %d: %w", imgIdx, err)
	}
	rgba, err := texture.Decode(data, b.maxTex)
	if err != nil {
		return nil, fmt.Errorf("image %d: %w", imgIdx, err)
	}

	t := &scene.Texture{Name: img.Name, Image: rgba}
	b.textures[imgIdx] = t
	return t, nil
}

func (b *builder) imageData(img *gltf.Image) ([]byte, error) {
	if img.BufferView != nil {
		i := *img.BufferView
		if i < 0 || i >= len(b.doc.BufferViews) {
			return nil, fmt.Errorf("buffer view %d out of range", i)
		}
		bv := b.doc.BufferViews[i]
		if bv.Buffer < 0 || bv.Buffer >= len(b.doc.Buffers) {
			return nil, fmt.Errorf("buffer %d out of range", bv.Buffer)
		}
		buf := b.doc.Buffers[bv.Buffer].Data
		end := bv.ByteOffset + bv.ByteLength
		if bv.ByteOffset < 0 || end > len(buf) {
			return nil, fmt.Errorf("buffer view %d exceeds buffer", i)
		}
		return buf[bv.ByteOffset:end], nil
	}
	if img.IsEmbeddedResource() {
		return img.MarshalData()
	}
	if img.URI == "" {
		return nil, fmt.Errorf("image has neither uri nor buffer view")
	}
	uri, err := url.PathUnescape(img.URI)
	if err != nil {
		uri = img.URI
	}
	return fs.ReadFile(b.fsys, uri)
}

// refFS exposes resources next to the model to the glTF decoder.
type refFS struct {
	ctx     context.Context
	fetcher Fetcher
	base    string
}

func (f *refFS) Open(name string) (fs.File, error) {
	if f.fetcher == nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	data, err := f.fetcher.Fetch(f.ctx, Resolve(f.base, name))
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: err}
	}
	return &memFile{name: name, r: bytes.NewReader(data), size: int64(len(data))}, nil
}

type memFile struct {
	name string
	r    *bytes.Reader
	size int64
}

func (f *memFile) Stat() (fs.FileInfo, error) { return memInfo{f.name, f.size}, nil }
func (f *memFile) Read(p []byte) (int, error) { return f.r.Read(p) }
func (f *memFile) Close() error               { return nil }

type memInfo struct {
	name string
	size int64
}

func (i memInfo) Name() string       { return i.name }
func (i memInfo) Size() int64        { return i.size }
func (i memInfo) Mode() fs.FileMode  { return 0o444 }
func (i memInfo) ModTime() time.Time { return time.Time{} }
func (i memInfo) IsDir() bool        { return false }
func (i memInfo) Sys() any           { return nil }
