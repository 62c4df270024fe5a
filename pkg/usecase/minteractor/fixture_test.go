// 指示: miu200521358
package minteractor

import (
	"fmt"
	"testing"

	"github.com/miu200521358/mu_bvh2humanoid/pkg/domain/model"
	"gonum.org/v1/gonum/spatial/r3"
)

// fixtureNode はテスト用の階層ノード。
type fixtureNode struct {
	name     string
	offset   r3.Vec
	children []*fixtureNode
}

func (n *fixtureNode) NodeName() string    { return n.name }
func (n *fixtureNode) LocalOffset() r3.Vec { return n.offset }
func (n *fixtureNode) ChildNodes() []model.IHierarchyNode {
	children := make([]model.IHierarchyNode, 0, len(n.children))
	for _, child := range n.children {
		children = append(children, child)
	}
	return children
}

// node はテスト用ノードを生成する。
func node(name string, x, y, z float64, children ...*fixtureNode) *fixtureNode {
	return &fixtureNode{name: name, offset: r3.Vec{X: x, Y: y, Z: z}, children: children}
}

// humanoidOptions はテスト用人型階層の構成を表す。
type humanoidOptions struct {
	SpineCount int
	LegCount   int
	ArmCount   int
	HeadNames  []string
	HipWidth   float64
	Shoulder   float64
}

// defaultHumanoidOptions は標準的なBVH相当の構成を返す。
func defaultHumanoidOptions() humanoidOptions {
	return humanoidOptions{
		SpineCount: 3,
		LegCount:   4,
		ArmCount:   4,
		HeadNames:  []string{"Neck", "Head"},
		HipWidth:   1,
		Shoulder:   1,
	}
}

// buildLeg は脚チェーンを生成する。
func buildLeg(side string, sign float64, count int, width float64) *fixtureNode {
	names := []string{"UpLeg", "Leg", "Foot", "ToeBase", "Toe_End"}
	offsets := []r3.Vec{{X: sign * width}, {Y: -4}, {Y: -4}, {Y: -1, Z: 1}, {Z: 1}}
	var current *fixtureNode
	for i := count - 1; i >= 0; i-- {
		n := node(side+names[i], offsets[i].X, offsets[i].Y, offsets[i].Z)
		if current != nil {
			n.children = []*fixtureNode{current}
		}
		current = n
	}
	return current
}

// buildArm は腕チェーンを生成する。
func buildArm(side string, sign float64, count int, width float64) *fixtureNode {
	names := []string{"Shoulder", "Arm", "ForeArm", "Hand", "HandEnd"}
	offsets := []r3.Vec{{X: sign * width, Y: 0.5}, {X: sign}, {X: sign * 2}, {X: sign * 2}, {X: sign}}
	var current *fixtureNode
	for i := count - 1; i >= 0; i-- {
		n := node(side+names[i], offsets[i].X, offsets[i].Y, offsets[i].Z)
		if current != nil {
			n.children = []*fixtureNode{current}
		}
		current = n
	}
	return current
}

// buildHead は首から頭へのチェーンを生成する。
func buildHead(names []string) *fixtureNode {
	var current *fixtureNode
	for i := len(names) - 1; i >= 0; i-- {
		n := node(names[i], 0, 1, 0)
		if current != nil {
			n.children = []*fixtureNode{current}
		}
		current = n
	}
	return current
}

// buildHumanoid はテスト用人型階層を生成する。
func buildHumanoid(opts humanoidOptions) *fixtureNode {
	chest := node(fmt.Sprintf("Spine%d", opts.SpineCount-1), 0, 1, 0,
		buildHead(opts.HeadNames),
		buildArm("Left", -1, opts.ArmCount, opts.Shoulder),
		buildArm("Right", 1, opts.ArmCount, opts.Shoulder),
	)
	if opts.SpineCount == 1 {
		chest.name = "Spine"
	}
	spine := chest
	for i := opts.SpineCount - 2; i >= 0; i-- {
		name := fmt.Sprintf("Spine%d", i)
		if i == 0 {
			name = "Spine"
		}
		spine = node(name, 0, 1, 0, spine)
	}
	return node("Hips", 0, 10, 0,
		buildLeg("Left", -1, opts.LegCount, opts.HipWidth),
		buildLeg("Right", 1, opts.LegCount, opts.HipWidth),
		spine,
	)
}

// findFixtureNode は名前に一致する最初のテスト用ノードを返す。
func findFixtureNode(root *fixtureNode, name string) *fixtureNode {
	stack := []*fixtureNode{root}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if current.name == name {
			return current
		}
		stack = append(stack, current.children...)
	}
	return nil
}

// buildNodes は階層を平坦化する。
func buildNodes(t *testing.T, root *fixtureNode) *model.BoneNodes {
	t.Helper()
	nodes, err := model.BuildBoneNodes(root)
	if err != nil {
		t.Fatalf("build nodes failed: %v", err)
	}
	return nodes
}

// indexOfName は名前に一致する最初のindexを返す。
func indexOfName(t *testing.T, nodes *model.BoneNodes, name string) int {
	t.Helper()
	for i := 0; i < nodes.Len(); i++ {
		if nodes.Name(i) == name {
			return i
		}
	}
	t.Fatalf("node not found: %s", name)
	return -1
}

// assertSlot はスロットが指定名のノードに割り当たっていることを検証する。
func assertSlot(t *testing.T, detection *Detection, bone model.HumanBone, name string) {
	t.Helper()
	got, ok := detection.Skeleton.NodeName(bone)
	if !ok {
		t.Fatalf("%s should be mapped to %s", bone, name)
	}
	if got != name {
		t.Fatalf("%s mismatch: got=%s want=%s", bone, got, name)
	}
}
