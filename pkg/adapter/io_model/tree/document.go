// 指示: miu200521358
package tree

import (
	"github.com/miu200521358/mu_bvh2humanoid/pkg/domain/model"
	"gonum.org/v1/gonum/spatial/r3"
)

// TreeDocument はボーン階層ファイルの内容を表す。入れ子形式か平坦形式のどちらか一方を持つ。
type TreeDocument struct {
	Root  *TreeNode   `json:"root,omitempty" yaml:"root,omitempty" validate:"required_without=Bones,excluded_with=Bones"`
	Bones []BoneEntry `json:"bones,omitempty" yaml:"bones,omitempty" validate:"omitempty,dive"`
}

// TreeNode は入れ子形式の1ノードを表す。
type TreeNode struct {
	Name     string      `json:"name" yaml:"name" validate:"required"`
	Offset   []float64   `json:"offset,omitempty" yaml:"offset,omitempty" validate:"omitempty,len=3"`
	Children []*TreeNode `json:"children,omitempty" yaml:"children,omitempty" validate:"omitempty,dive,required"`
}

// BoneEntry は平坦形式の1ボーンを表す。Parent未指定はルート。
type BoneEntry struct {
	Name     string    `json:"name" yaml:"name" validate:"required"`
	Parent   *int      `json:"parent,omitempty" yaml:"parent,omitempty"`
	Position []float64 `json:"position,omitempty" yaml:"position,omitempty" validate:"omitempty,len=3"`
}

// NodeName はノード名を返す。
func (n *TreeNode) NodeName() string {
	return n.Name
}

// LocalOffset は親からの相対位置を返す。
func (n *TreeNode) LocalOffset() r3.Vec {
	return toVec(n.Offset)
}

// ChildNodes は子ノードを返す。
func (n *TreeNode) ChildNodes() []model.IHierarchyNode {
	children := make([]model.IHierarchyNode, 0, len(n.Children))
	for _, child := range n.Children {
		children = append(children, child)
	}
	return children
}

// Records は平坦形式をBoneRecord一覧へ変換する。
func (d *TreeDocument) Records() []model.BoneRecord {
	records := make([]model.BoneRecord, 0, len(d.Bones))
	for _, bone := range d.Bones {
		parent := -1
		if bone.Parent != nil {
			parent = *bone.Parent
		}
		records = append(records, model.BoneRecord{
			Name:        bone.Name,
			ParentIndex: parent,
			Position:    toVec(bone.Position),
		})
	}
	return records
}

// toVec は3要素の配列をベクトルにする。空は原点。
func toVec(values []float64) r3.Vec {
	if len(values) != 3 {
		return r3.Vec{}
	}
	return r3.Vec{X: values[0], Y: values[1], Z: values[2]}
}
