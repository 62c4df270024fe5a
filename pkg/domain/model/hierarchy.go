// 指示: miu200521358
package model

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// IHierarchyNode は外部階層(BVH/シーン)のノード読み取り契約を表す。
type IHierarchyNode interface {
	// NodeName はノード名を返す。
	NodeName() string
	// LocalOffset は親からの相対位置を返す。
	LocalOffset() r3.Vec
	// ChildNodes は子ノードを元の順序で返す。
	ChildNodes() []IHierarchyNode
}

// hierarchyFrame は階層平坦化時の走査フレームを表す。
type hierarchyFrame struct {
	node        IHierarchyNode
	parentIndex int
	parentPos   r3.Vec
}

// BuildBoneNodes は外部階層を深さ優先前順で平坦化しBoneNodesを生成する。
func BuildBoneNodes(root IHierarchyNode) (*BoneNodes, error) {
	if root == nil {
		return nil, fmt.Errorf("ルートノードが未指定です")
	}

	records := make([]BoneRecord, 0)
	stack := []hierarchyFrame{{node: root, parentIndex: -1}}
	for len(stack) > 0 {
		frame := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if frame.node == nil {
			continue
		}

		position := r3.Add(frame.parentPos, frame.node.LocalOffset())
		index := len(records)
		records = append(records, BoneRecord{
			Name:        frame.node.NodeName(),
			ParentIndex: frame.parentIndex,
			Position:    position,
		})

		children := frame.node.ChildNodes()
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, hierarchyFrame{
				node:        children[i],
				parentIndex: index,
				parentPos:   position,
			})
		}
	}
	return NewBoneNodesFromRecords(records)
}

// WithUniqueNames は重複名に連番を付与した複製を返す。元の一覧は変更しない。
func (nodes *BoneNodes) WithUniqueNames() *BoneNodes {
	if nodes == nil {
		return nil
	}
	used := make(map[string]struct{}, nodes.Len())
	for _, node := range nodes.values {
		used[node.Name] = struct{}{}
	}

	seen := make(map[string]struct{}, nodes.Len())
	serials := make(map[string]int)
	renamed := &BoneNodes{
		values:  make([]*BoneNode, nodes.Len()),
		centers: nodes.centers,
		sizes:   nodes.sizes,
	}
	for i, node := range nodes.values {
		copied := *node
		copied.ChildIndexes = append([]int(nil), node.ChildIndexes...)
		if _, dup := seen[node.Name]; dup {
			for {
				serials[node.Name]++
				candidate := fmt.Sprintf("%s_%d", node.Name, serials[node.Name])
				if _, exists := used[candidate]; !exists {
					copied.Name = candidate
					used[candidate] = struct{}{}
					break
				}
			}
		}
		seen[node.Name] = struct{}{}
		renamed.values[i] = &copied
	}
	return renamed
}

// ReorderRecordsDepthFirst は親index付き一覧を深さ優先前順へ並べ替え、親indexを振り直す。
// 根と兄弟の順序は一覧上の出現順を保つ。
func ReorderRecordsDepthFirst(records []BoneRecord) ([]BoneRecord, error) {
	children := make([][]int, len(records))
	roots := make([]int, 0, 1)
	for i, record := range records {
		switch {
		case record.ParentIndex >= len(records) || record.ParentIndex == i:
			return nil, fmt.Errorf("親indexが不正です: index=%d parent=%d", i, record.ParentIndex)
		case record.ParentIndex < 0:
			roots = append(roots, i)
		default:
			children[record.ParentIndex] = append(children[record.ParentIndex], i)
		}
	}

	newIndexes := make([]int, len(records))
	for i := range newIndexes {
		newIndexes[i] = -1
	}
	reordered := make([]BoneRecord, 0, len(records))
	for _, root := range roots {
		stack := []int{root}
		for len(stack) > 0 {
			current := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			newIndexes[current] = len(reordered)
			record := records[current]
			if record.ParentIndex >= 0 {
				record.ParentIndex = newIndexes[record.ParentIndex]
			} else {
				record.ParentIndex = -1
			}
			reordered = append(reordered, record)
			for i := len(children[current]) - 1; i >= 0; i-- {
				stack = append(stack, children[current][i])
			}
		}
	}
	if len(reordered) != len(records) {
		return nil, fmt.Errorf("親子関係に循環があります: reachable=%d total=%d", len(reordered), len(records))
	}
	return reordered, nil
}
