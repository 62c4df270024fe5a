// 指示: miu200521358
package model

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// BoneNode は平坦化済みボーン一覧の1ノードを表す。
type BoneNode struct {
	index        int
	Name         string
	ParentIndex  int
	ChildIndexes []int
	Position     r3.Vec
}

// Index は平坦化一覧上のindexを返す。
func (n *BoneNode) Index() int {
	if n == nil {
		return -1
	}
	return n.index
}

// HasParent は親ノードを持つか判定する。
func (n *BoneNode) HasParent() bool {
	return n != nil && n.ParentIndex >= 0
}

// BoneRecord は平坦化済み一覧からBoneNodesを組み立てる入力1件を表す。
type BoneRecord struct {
	Name        string
	ParentIndex int
	Position    r3.Vec
}

// BoneNodes は平坦化済みボーン一覧を表す。構築後は読み取り専用。
type BoneNodes struct {
	values  []*BoneNode
	centers []r3.Vec
	sizes   []int
}

// NewBoneNodesFromRecords は親index付きの一覧からBoneNodesを生成する。
// 一覧の順序をそのまま平坦化順として扱う。
func NewBoneNodesFromRecords(records []BoneRecord) (*BoneNodes, error) {
	nodes := &BoneNodes{values: make([]*BoneNode, len(records))}
	for i, record := range records {
		if record.ParentIndex >= len(records) || record.ParentIndex == i {
			return nil, fmt.Errorf("親indexが不正です: index=%d parent=%d", i, record.ParentIndex)
		}
		parentIndex := record.ParentIndex
		if parentIndex < 0 {
			parentIndex = -1
		}
		nodes.values[i] = &BoneNode{
			index:        i,
			Name:         record.Name,
			ParentIndex:  parentIndex,
			ChildIndexes: []int{},
			Position:     record.Position,
		}
	}
	for i, node := range nodes.values {
		if node.ParentIndex >= 0 {
			parent := nodes.values[node.ParentIndex]
			parent.ChildIndexes = append(parent.ChildIndexes, i)
		}
	}
	nodes.computeDerived()
	return nodes, nil
}

// Len はノード数を返す。
func (nodes *BoneNodes) Len() int {
	if nodes == nil {
		return 0
	}
	return len(nodes.values)
}

// Contains はindexが範囲内か判定する。
func (nodes *BoneNodes) Contains(index int) bool {
	return index >= 0 && index < nodes.Len()
}

// Get はindexのノードを返す。
func (nodes *BoneNodes) Get(index int) (*BoneNode, error) {
	if !nodes.Contains(index) {
		return nil, fmt.Errorf("ボーンindexが範囲外です: index=%d len=%d", index, nodes.Len())
	}
	return nodes.values[index], nil
}

// Name はindexのノード名を返す。範囲外は空文字。
func (nodes *BoneNodes) Name(index int) string {
	if !nodes.Contains(index) {
		return ""
	}
	return nodes.values[index].Name
}

// Values は平坦化順のノード一覧を返す。
func (nodes *BoneNodes) Values() []*BoneNode {
	if nodes == nil {
		return nil
	}
	return append([]*BoneNode(nil), nodes.values...)
}

// Children はindexの子index一覧を返す。
func (nodes *BoneNodes) Children(index int) []int {
	if !nodes.Contains(index) {
		return nil
	}
	return nodes.values[index].ChildIndexes
}

// RootIndexes は親を持たないノードのindex一覧を返す。
func (nodes *BoneNodes) RootIndexes() []int {
	roots := make([]int, 0, 1)
	for i := 0; i < nodes.Len(); i++ {
		if !nodes.values[i].HasParent() {
			roots = append(roots, i)
		}
	}
	return roots
}

// CenterOfDescendants は自身を含む子孫のワールド位置平均を返す。
func (nodes *BoneNodes) CenterOfDescendants(index int) r3.Vec {
	if !nodes.Contains(index) {
		return r3.Vec{}
	}
	return nodes.centers[index]
}

// DescendantCount は自身を含む子孫数を返す。
func (nodes *BoneNodes) DescendantCount(index int) int {
	if !nodes.Contains(index) {
		return 0
	}
	return nodes.sizes[index]
}

// Traverse はindexから深さ優先前順で子孫index一覧を返す。
func (nodes *BoneNodes) Traverse(index int) []int {
	if !nodes.Contains(index) {
		return nil
	}
	order := make([]int, 0, nodes.sizes[index])
	stack := []int{index}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		order = append(order, current)
		children := nodes.values[current].ChildIndexes
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
	return order
}

// IsAncestor は ancestor が descendant の祖先(自身を含む)か判定する。
func (nodes *BoneNodes) IsAncestor(ancestor int, descendant int) bool {
	if !nodes.Contains(ancestor) || !nodes.Contains(descendant) {
		return false
	}
	for current, steps := descendant, 0; current >= 0 && steps <= nodes.Len(); steps++ {
		if current == ancestor {
			return true
		}
		current = nodes.values[current].ParentIndex
	}
	return false
}

// IsConnected は2ノードが祖先/子孫の関係にあるか判定する。
func (nodes *BoneNodes) IsConnected(a int, b int) bool {
	return nodes.IsAncestor(a, b) || nodes.IsAncestor(b, a)
}

// computeDerived は子孫数と子孫中心を一括計算する。
func (nodes *BoneNodes) computeDerived() {
	count := len(nodes.values)
	nodes.sizes = make([]int, count)
	nodes.centers = make([]r3.Vec, count)
	sums := make([]r3.Vec, count)

	order := make([]int, 0, count)
	for _, root := range nodes.RootIndexes() {
		order = append(order, nodes.Traverse(root)...)
	}
	for i := len(order) - 1; i >= 0; i-- {
		index := order[i]
		node := nodes.values[index]
		nodes.sizes[index]++
		sums[index] = r3.Add(sums[index], node.Position)
		if node.ParentIndex >= 0 {
			nodes.sizes[node.ParentIndex] += nodes.sizes[index]
			sums[node.ParentIndex] = r3.Add(sums[node.ParentIndex], sums[index])
		}
	}
	for i := range nodes.values {
		if nodes.sizes[i] > 0 {
			nodes.centers[i] = r3.Scale(1/float64(nodes.sizes[i]), sums[i])
		}
	}
}
