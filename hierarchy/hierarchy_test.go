package hierarchy

import (
	"math"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/JoeyClementeCode/gpr300-sp24-joey-clemente/r3d"
)

func mat4Near(a, b mgl32.Mat4) bool {
	for i := range a {
		if math.Abs(float64(a[i]-b[i])) > 1e-5 {
			return false
		}
	}
	return true
}

func trs(pos mgl32.Vec3, scale float32) r3d.Transform {
	t := r3d.NewTransform()
	t.Position = pos
	t.Scale = mgl32.Vec3{scale, scale, scale}
	return t
}

// torso -> arm -> hand, as in the lighting scene
func newArm(t *testing.T) *Hierarchy {
	b := NewBuilder()
	torso := b.AddRoot("torso", trs(mgl32.Vec3{0, 0, 0}, 1))
	arm, err := b.Add("arm", torso, trs(mgl32.Vec3{1, 0, 0}, 0.3))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := b.Add("hand", arm, trs(mgl32.Vec3{2, -1.5, 0}, 0.5)); err != nil {
		t.Fatal(err)
	}
	h, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	return h
}

func TestSingleRootIdentity(t *testing.T) {
	h, err := New([]NodeSpec{{Name: "root", Transform: r3d.NewTransform()}})
	if err != nil {
		t.Fatal(err)
	}
	h.Update()
	if g := h.Node(0).Global; g != mgl32.Ident4() {
		t.Errorf("root global = %v; expected identity", g)
	}
}

func TestTwoLevelOrder(t *testing.T) {
	root := r3d.NewTransform()
	root.Position = mgl32.Vec3{5, 0, 0}
	root.Rotate(math.Pi/2, mgl32.Vec3{0, 0, 1})
	child := trs(mgl32.Vec3{0, 1, 0}, 2)

	h, err := New([]NodeSpec{
		{Name: "root", Transform: root},
		{Name: "child", Parent: ParentIndex(0), Transform: child},
	})
	if err != nil {
		t.Fatal(err)
	}
	h.Update()

	parentFirst := h.Node(0).Local.Mul4(h.Node(1).Local)
	if g := h.Node(1).Global; g != parentFirst {
		t.Errorf("child global = %v; expected %v", g, parentFirst)
	}
	if localFirst := h.Node(1).Local.Mul4(h.Node(0).Local); mat4Near(parentFirst, localFirst) {
		t.Fatalf("test transforms commute, order is not checked")
	}
}

func TestThreeLevelChain(t *testing.T) {
	h := newArm(t)
	h.Node(0).Transform.Position = mgl32.Vec3{0, 3, 0}
	h.Update()

	T := mgl32.Translate3D(0, 3, 0)
	AS := mgl32.Translate3D(1, 0, 0).Mul4(mgl32.Scale3D(0.3, 0.3, 0.3))
	HS2 := mgl32.Translate3D(2, -1.5, 0).Mul4(mgl32.Scale3D(0.5, 0.5, 0.5))
	expected := T.Mul4(AS).Mul4(HS2)

	if g := h.Node(2).Global; !mat4Near(g, expected) {
		t.Errorf("hand global = %v; expected %v", g, expected)
	}
	// origin of the hand: 3 up, 1 right, then (2,-1.5) scaled by the arm
	pos := h.Node(2).Global.Col(3)
	if !mat4Near(mgl32.Translate3D(pos[0], pos[1], pos[2]), mgl32.Translate3D(1.6, 2.55, 0)) || pos[3] != 1 {
		t.Errorf("hand position = %v", pos)
	}
}

func TestEvaluateIdempotent(t *testing.T) {
	h := newArm(t)
	h.Node(1).Transform.Rotate(0.7, mgl32.Vec3{1, 0, 0})
	h.Update()
	first := h.Globals()

	h.Evaluate()
	h.Evaluate()
	for i, g := range h.Globals() {
		if g != first[i] {
			t.Errorf("node %d global changed on re-evaluation: %v -> %v", i, first[i], g)
		}
	}
}

func TestSpecsRebuild(t *testing.T) {
	h := newArm(t)
	h.Node(1).Transform.Rotate(0.5, mgl32.Vec3{1, 0, 0})
	h.Update()

	rebuilt, err := New(h.Specs())
	if err != nil {
		t.Fatal(err)
	}
	rebuilt.Update()
	for i := 0; i < h.Len(); i++ {
		a, b := h.Node(i), rebuilt.Node(i)
		pa, _ := a.Parent()
		pb, _ := b.Parent()
		if a.Name != b.Name || pa != pb || a.Global != b.Global {
			t.Errorf("node %d rebuilt as %+v; expected %+v", i, b, a)
		}
	}
}

func TestSiblingOrderIndependent(t *testing.T) {
	root := trs(mgl32.Vec3{1, 2, 3}, 2)
	left := trs(mgl32.Vec3{-1, 0, 0}, 1)
	right := trs(mgl32.Vec3{0, 0, 4}, 0.5)

	a, err := New([]NodeSpec{
		{Name: "root", Transform: root},
		{Name: "left", Parent: ParentIndex(0), Transform: left},
		{Name: "right", Parent: ParentIndex(0), Transform: right},
	})
	if err != nil {
		t.Fatal(err)
	}
	b, err := New([]NodeSpec{
		{Name: "root", Transform: root},
		{Name: "right", Parent: ParentIndex(0), Transform: right},
		{Name: "left", Parent: ParentIndex(0), Transform: left},
	})
	if err != nil {
		t.Fatal(err)
	}
	a.Update()
	b.Update()

	for _, name := range []string{"left", "right"} {
		ia, _ := a.Index(name)
		ib, _ := b.Index(name)
		if a.Node(ia).Global != b.Node(ib).Global {
			t.Errorf("%s global depends on sibling order: %v vs %v", name, a.Node(ia).Global, b.Node(ib).Global)
		}
	}
}

var invalidTests = []struct {
	name    string
	parents []int // -1 is root
	msg     string
}{
	{"forward", []int{-1, 2, 0}, `node 1 "n1": parent 2 "n2" is not evaluated before it`},
	{"self", []int{-1, 1}, `node 1 "n1": parent is itself`},
	{"out of range", []int{-1, 7}, `node 1 "n1": parent index 7 out of range [0,2)`},
	{"negative", []int{-5}, `node 0 "n0": parent index -5 out of range [0,1)`},
}

func specsFromParents(parents []int) []NodeSpec {
	specs := make([]NodeSpec, len(parents))
	for i, p := range parents {
		specs[i] = NodeSpec{Name: "n" + string(rune('0'+i)), Transform: r3d.NewTransform()}
		if p != -1 {
			specs[i].Parent = ParentIndex(p)
		}
	}
	return specs
}

func TestInvalidHierarchy(t *testing.T) {
	for _, test := range invalidTests {
		_, err := New(specsFromParents(test.parents))
		if err == nil {
			t.Errorf("%s: New accepted parents %v", test.name, test.parents)
			continue
		}
		if !errors.Is(err, ErrInvalidHierarchy) {
			t.Errorf("%s: error %v is not ErrInvalidHierarchy", test.name, err)
		}
		if !strings.Contains(err.Error(), test.msg) {
			t.Errorf("%s: error %q; expected to contain %q", test.name, err, test.msg)
		}
	}
}

func TestBuilderUnknownParent(t *testing.T) {
	b := NewBuilder()
	b.AddRoot("root", r3d.NewTransform())
	if _, err := b.Add("child", 1, r3d.NewTransform()); !errors.Is(err, ErrInvalidHierarchy) {
		t.Errorf("Add with unknown parent returned %v", err)
	}
}

func TestParentAndChildren(t *testing.T) {
	h := newArm(t)
	if _, ok := h.Node(0).Parent(); ok {
		t.Errorf("torso has a parent")
	}
	if p, ok := h.Node(2).Parent(); !ok || p != 1 {
		t.Errorf("hand parent = %d, %t", p, ok)
	}
	if c := h.Children(0); len(c) != 1 || c[0] != 1 {
		t.Errorf("torso children = %v", c)
	}
	if i, ok := h.Index("hand"); !ok || i != 2 {
		t.Errorf("Index(hand) = %d, %t", i, ok)
	}
	if _, ok := h.Index("leg"); ok {
		t.Errorf("Index(leg) found a node")
	}
}

func TestStringTree(t *testing.T) {
	h := newArm(t)
	h.Update()
	lines := strings.Split(strings.TrimSpace(h.StringTree()), "\n")
	if len(lines) != 3 {
		t.Fatalf("StringTree has %d lines:\n%s", len(lines), h.StringTree())
	}
	if !strings.HasPrefix(lines[2], "    node [02 <=01] hand") {
		t.Errorf("hand line %q", lines[2])
	}
}
