package gltfutils

import (
	"io"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"

	"github.com/JoeyClementeCode/gpr300-sp24-joey-clemente/hierarchy"
	"github.com/JoeyClementeCode/gpr300-sp24-joey-clemente/r3d"
)

func NewDocument() *gltf.Document {
	return gltf.NewDocument()
}

type GLTFHierarchyExported struct {
	// Nodes maps hierarchy index to document node index.
	Nodes []uint32
}

// ExportHierarchy appends every node of h to doc, linking children and
// adding roots to the default scene.
func ExportHierarchy(doc *gltf.Document, h *hierarchy.Hierarchy) *GLTFHierarchyExported {
	exported := &GLTFHierarchyExported{
		Nodes: make([]uint32, h.Len()),
	}
	if len(doc.Scenes) == 0 {
		doc.Scenes = append(doc.Scenes, &gltf.Scene{Name: "Root Scene"})
	}
	sceneId := uint32(0)
	if doc.Scene != nil {
		sceneId = *doc.Scene
	}

	for i := 0; i < h.Len(); i++ {
		n := h.Node(i)
		rotation := n.Transform.Rotation.Normalize()
		node := &gltf.Node{
			Name:        n.Name,
			Translation: n.Transform.Position,
			Rotation:    rotation.V.Vec4(rotation.W),
			Scale:       n.Transform.Scale,
		}

		exported.Nodes[i] = uint32(len(doc.Nodes))
		doc.Nodes = append(doc.Nodes, node)

		if p, ok := n.Parent(); ok {
			parent := doc.Nodes[exported.Nodes[p]]
			parent.Children = append(parent.Children, exported.Nodes[i])
		} else {
			doc.Scenes[sceneId].Nodes = append(doc.Scenes[sceneId].Nodes, exported.Nodes[i])
		}
	}
	return exported
}

func ExportBinary(w io.Writer, doc *gltf.Document) error {
	encoder := gltf.NewEncoder(w)
	encoder.AsBinary = true
	return encoder.Encode(doc)
}

var zeroMatrix [16]float32

// nodeTransform reads either the node matrix or its TRS properties,
// treating zero values as the glTF defaults.
func nodeTransform(node *gltf.Node) r3d.Transform {
	t := r3d.NewTransform()

	if m := mgl32.Mat4(node.Matrix); node.Matrix != zeroMatrix && m != mgl32.Ident4() {
		t.Position = m.Col(3).Vec3()
		t.Scale = mgl32.Vec3{m.Col(0).Vec3().Len(), m.Col(1).Vec3().Len(), m.Col(2).Vec3().Len()}
		rot := m
		for c := 0; c < 3; c++ {
			if t.Scale[c] != 0 {
				rot.SetCol(c, m.Col(c).Mul(1/t.Scale[c]))
			}
		}
		rot.SetCol(3, mgl32.Vec4{0, 0, 0, 1})
		t.Rotation = mgl32.Mat4ToQuat(rot).Normalize()
		return t
	}

	t.Position = node.Translation
	if r := node.Rotation; r != [4]float32{} {
		t.Rotation = mgl32.Quat{W: r[3], V: mgl32.Vec3{r[0], r[1], r[2]}}.Normalize()
	}
	if s := node.Scale; s != [3]float32{} {
		t.Scale = s
	}
	return t
}

// ImportHierarchy builds a hierarchy from every node of doc. Document
// order does not matter; nodes are reordered parents first.
func ImportHierarchy(doc *gltf.Document) (*hierarchy.Hierarchy, error) {
	specs := make([]hierarchy.NodeSpec, len(doc.Nodes))
	for i, node := range doc.Nodes {
		specs[i].Name = node.Name
		specs[i].Transform = nodeTransform(node)
	}
	for i, node := range doc.Nodes {
		for _, c := range node.Children {
			if int(c) >= len(specs) {
				return nil, errors.Wrapf(hierarchy.ErrInvalidHierarchy, "node %d %q: child %d out of range", i, node.Name, c)
			}
			if specs[c].Parent != nil {
				return nil, errors.Wrapf(hierarchy.ErrInvalidHierarchy, "node %d %q has two parents: %d and %d",
					c, doc.Nodes[c].Name, *specs[c].Parent, i)
			}
			specs[c].Parent = hierarchy.ParentIndex(i)
		}
	}

	sorted, _, err := hierarchy.SortTopological(specs)
	if err != nil {
		return nil, errors.Wrap(err, "gltf nodes")
	}
	return hierarchy.New(sorted)
}

func Decode(r io.Reader) (*gltf.Document, error) {
	doc := new(gltf.Document)
	if err := gltf.NewDecoder(r).Decode(doc); err != nil {
		return nil, errors.Wrap(err, "Failed to decode gltf")
	}
	return doc, nil
}
