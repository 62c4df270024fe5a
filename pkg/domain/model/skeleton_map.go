// 指示: miu200521358
package model

import (
	"sort"

	"github.com/miu200521358/mu_bvh2humanoid/pkg/domain/model/merrors"
	"github.com/tiendc/go-deepcopy"
)

// SkeletonMap は humanoid スロットから平坦化ボーン一覧indexへの対応を表す。
type SkeletonMap struct {
	Bones map[HumanBone]int
	Nodes *BoneNodes
}

// HumanBoneBinding はスロットとノードの対応1件を表す。
type HumanBoneBinding struct {
	HumanBone HumanBone `json:"bone" yaml:"bone"`
	TraitName string    `json:"trait" yaml:"trait"`
	Index     int       `json:"index" yaml:"index"`
	NodeName  string    `json:"name" yaml:"name"`
}

// NewSkeletonMap は空のSkeletonMapを生成する。
func NewSkeletonMap(nodes *BoneNodes) *SkeletonMap {
	return &SkeletonMap{
		Bones: make(map[HumanBone]int),
		Nodes: nodes,
	}
}

// Set はスロットにノードindexを設定する。
func (m *SkeletonMap) Set(bone HumanBone, index int) error {
	if !bone.IsValid() {
		return merrors.NewEstimateError(merrors.IncompleteMap, "", "未定義のスロットです: %d", int(bone))
	}
	if !m.Nodes.Contains(index) {
		return merrors.NewEstimateError(
			merrors.IncompleteMap, "", "%sのindexが範囲外です: index=%d len=%d", bone, index, m.Nodes.Len())
	}
	for assigned, assignedIndex := range m.Bones {
		if assignedIndex == index && assigned != bone {
			return merrors.NewEstimateError(
				merrors.DuplicateAssignment, m.Nodes.Name(index),
				"%sと%sに同じノードが割り当てられました", assigned, bone)
		}
	}
	m.Bones[bone] = index
	return nil
}

// Get はスロットのノードindexを返す。
func (m *SkeletonMap) Get(bone HumanBone) (int, bool) {
	if m == nil {
		return -1, false
	}
	index, ok := m.Bones[bone]
	if !ok {
		return -1, false
	}
	return index, true
}

// Has はスロットが設定済みか判定する。
func (m *SkeletonMap) Has(bone HumanBone) bool {
	_, ok := m.Get(bone)
	return ok
}

// Len は設定済みスロット数を返す。
func (m *SkeletonMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.Bones)
}

// NodeName はスロットに割り当てられたノード名を返す。
func (m *SkeletonMap) NodeName(bone HumanBone) (string, bool) {
	index, ok := m.Get(bone)
	if !ok {
		return "", false
	}
	return m.Nodes.Name(index), true
}

// HumanBones は設定済みスロットを定義順で返す。
func (m *SkeletonMap) HumanBones() []HumanBone {
	if m == nil {
		return nil
	}
	bones := make([]HumanBone, 0, len(m.Bones))
	for bone := range m.Bones {
		bones = append(bones, bone)
	}
	sort.Slice(bones, func(i, j int) bool { return bones[i] < bones[j] })
	return bones
}

// MissingRequired は未設定の必須スロットを返す。
func (m *SkeletonMap) MissingRequired() []HumanBone {
	missing := make([]HumanBone, 0)
	for _, bone := range requiredHumanBones {
		if !m.Has(bone) {
			missing = append(missing, bone)
		}
	}
	return missing
}

// IsComplete は必須スロットが全て設定済みか判定する。
func (m *SkeletonMap) IsComplete() bool {
	return len(m.MissingRequired()) == 0
}

// Bindings はスロット定義順の対応一覧を返す。
func (m *SkeletonMap) Bindings() []HumanBoneBinding {
	bones := m.HumanBones()
	bindings := make([]HumanBoneBinding, 0, len(bones))
	for _, bone := range bones {
		index := m.Bones[bone]
		bindings = append(bindings, HumanBoneBinding{
			HumanBone: bone,
			TraitName: bone.TraitName(),
			Index:     index,
			NodeName:  m.Nodes.Name(index),
		})
	}
	return bindings
}

// Clone はスロット対応を複製する。ノード一覧は読み取り専用のため共有する。
func (m *SkeletonMap) Clone() (*SkeletonMap, error) {
	if m == nil {
		return nil, nil
	}
	bones := make(map[HumanBone]int, len(m.Bones))
	if err := deepcopy.Copy(&bones, m.Bones); err != nil {
		return nil, err
	}
	return &SkeletonMap{Bones: bones, Nodes: m.Nodes}, nil
}
