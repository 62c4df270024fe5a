// 指示: miu200521358
package model

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

// testHierarchyNode はテスト用の階層ノード。
type testHierarchyNode struct {
	name     string
	offset   r3.Vec
	children []IHierarchyNode
}

func (n *testHierarchyNode) NodeName() string             { return n.name }
func (n *testHierarchyNode) LocalOffset() r3.Vec          { return n.offset }
func (n *testHierarchyNode) ChildNodes() []IHierarchyNode { return n.children }

func newTestNode(name string, x, y, z float64, children ...IHierarchyNode) *testHierarchyNode {
	return &testHierarchyNode{name: name, offset: r3.Vec{X: x, Y: y, Z: z}, children: children}
}

func TestBuildBoneNodesFlattensDepthFirst(t *testing.T) {
	root := newTestNode("Root", 0, 0, 0,
		newTestNode("A", 0, 1, 0,
			newTestNode("A1", 0, 1, 0),
			newTestNode("A2", 1, 0, 0),
		),
		newTestNode("B", 0, -1, 0),
	)
	nodes, err := BuildBoneNodes(root)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	want := []string{"Root", "A", "A1", "A2", "B"}
	if nodes.Len() != len(want) {
		t.Fatalf("length mismatch: got=%d want=%d", nodes.Len(), len(want))
	}
	for i, name := range want {
		if nodes.Name(i) != name {
			t.Fatalf("order mismatch at %d: got=%s want=%s", i, nodes.Name(i), name)
		}
	}

	a2, _ := nodes.Get(3)
	if a2.ParentIndex != 1 {
		t.Fatalf("A2 parent mismatch: got=%d", a2.ParentIndex)
	}
	if a2.Position != (r3.Vec{X: 1, Y: 1, Z: 0}) {
		t.Fatalf("A2 world position mismatch: got=%v", a2.Position)
	}
	if got := nodes.Children(0); len(got) != 2 || got[0] != 1 || got[1] != 4 {
		t.Fatalf("root children mismatch: got=%v", got)
	}
}

func TestBoneNodesDerivedValues(t *testing.T) {
	nodes, err := NewBoneNodesFromRecords([]BoneRecord{
		{Name: "Root", ParentIndex: -1, Position: r3.Vec{}},
		{Name: "A", ParentIndex: 0, Position: r3.Vec{Y: 3}},
		{Name: "B", ParentIndex: 1, Position: r3.Vec{Y: 6}},
	})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if nodes.DescendantCount(0) != 3 || nodes.DescendantCount(1) != 2 || nodes.DescendantCount(2) != 1 {
		t.Fatalf("size mismatch: %d %d %d", nodes.DescendantCount(0), nodes.DescendantCount(1), nodes.DescendantCount(2))
	}
	if got := nodes.CenterOfDescendants(0).Y; got != 3 {
		t.Fatalf("root center mismatch: got=%f", got)
	}
	if got := nodes.CenterOfDescendants(1).Y; got != 4.5 {
		t.Fatalf("A center mismatch: got=%f", got)
	}
	if !nodes.IsAncestor(0, 2) || nodes.IsAncestor(2, 0) {
		t.Fatalf("ancestor relation mismatch")
	}
	if !nodes.IsConnected(2, 0) {
		t.Fatalf("expected connected")
	}
}

func TestNewBoneNodesFromRecordsRejectsInvalidParent(t *testing.T) {
	if _, err := NewBoneNodesFromRecords([]BoneRecord{{Name: "A", ParentIndex: 5}}); err == nil {
		t.Fatalf("expected error for out of range parent")
	}
	if _, err := NewBoneNodesFromRecords([]BoneRecord{{Name: "A", ParentIndex: 0}}); err == nil {
		t.Fatalf("expected error for self parent")
	}
}

func TestReorderRecordsDepthFirstMatchesNestedOrder(t *testing.T) {
	reordered, err := ReorderRecordsDepthFirst([]BoneRecord{
		{Name: "Hips", ParentIndex: -1},
		{Name: "LeftUpLeg", ParentIndex: 0},
		{Name: "RightUpLeg", ParentIndex: 0},
		{Name: "LeftLeg", ParentIndex: 1},
		{Name: "RightLeg", ParentIndex: 2},
		{Name: "Extra", ParentIndex: -1},
	})
	if err != nil {
		t.Fatalf("reorder failed: %v", err)
	}
	wantNames := []string{"Hips", "LeftUpLeg", "LeftLeg", "RightUpLeg", "RightLeg", "Extra"}
	wantParents := []int{-1, 0, 1, 0, 3, -1}
	for i, record := range reordered {
		if record.Name != wantNames[i] || record.ParentIndex != wantParents[i] {
			t.Fatalf("record mismatch at %d: got=%s/%d want=%s/%d",
				i, record.Name, record.ParentIndex, wantNames[i], wantParents[i])
		}
	}
}

func TestReorderRecordsDepthFirstRejectsBrokenParents(t *testing.T) {
	if _, err := ReorderRecordsDepthFirst([]BoneRecord{{Name: "A", ParentIndex: 3}}); err == nil {
		t.Fatalf("expected error for out of range parent")
	}
	cycle := []BoneRecord{
		{Name: "Root", ParentIndex: -1},
		{Name: "A", ParentIndex: 2},
		{Name: "B", ParentIndex: 1},
	}
	if _, err := ReorderRecordsDepthFirst(cycle); err == nil {
		t.Fatalf("expected error for cyclic parents")
	}
}

func TestRootIndexesReportsEveryParentlessNode(t *testing.T) {
	nodes, err := NewBoneNodesFromRecords([]BoneRecord{
		{Name: "A", ParentIndex: -1},
		{Name: "B", ParentIndex: -1},
		{Name: "C", ParentIndex: 0},
	})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if got := nodes.RootIndexes(); len(got) != 2 {
		t.Fatalf("root count mismatch: got=%v", got)
	}
}

func TestWithUniqueNamesRenamesDuplicates(t *testing.T) {
	nodes, err := NewBoneNodesFromRecords([]BoneRecord{
		{Name: "Joint", ParentIndex: -1},
		{Name: "Joint", ParentIndex: 0},
		{Name: "Joint_1", ParentIndex: 1},
		{Name: "Joint", ParentIndex: 2},
	})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	renamed := nodes.WithUniqueNames()
	want := []string{"Joint", "Joint_2", "Joint_1", "Joint_3"}
	for i, name := range want {
		if renamed.Name(i) != name {
			t.Fatalf("rename mismatch at %d: got=%s want=%s", i, renamed.Name(i), name)
		}
	}
	if nodes.Name(1) != "Joint" {
		t.Fatalf("original should stay unchanged: got=%s", nodes.Name(1))
	}
	if renamed.DescendantCount(0) != 4 {
		t.Fatalf("derived values should be shared: got=%d", renamed.DescendantCount(0))
	}
}
