// 指示: miu200521358
package minteractor

import (
	"github.com/miu200521358/mu_bvh2humanoid/pkg/domain/model"
	"github.com/miu200521358/mu_bvh2humanoid/pkg/domain/model/merrors"
)

const (
	minLegChainLength  = 3
	minArmChainLength  = 4
	maxSpineChainCount = 4
)

// DecisionSource はスロット決定の根拠を表す。
type DecisionSource int

const (
	// DecisionByPosition は位置(チェーン順/座標)で決定した。
	DecisionByPosition DecisionSource = iota
	// DecisionByName は名前パターンで決定した。
	DecisionByName
)

// String は根拠名を返す。
func (s DecisionSource) String() string {
	if s == DecisionByName {
		return "by_name"
	}
	return "by_position"
}

// slotDecision はスロット1件の決定結果を表す。Index=-1は未決定。
type slotDecision struct {
	Index  int
	Source DecisionSource
}

// noDecision は未決定を表す。
var noDecision = slotDecision{Index: -1}

// isSet は決定済みか判定する。
func (d slotDecision) isSet() bool {
	return d.Index >= 0
}

// armChain は腕チェーンの決定結果を表す。
type armChain struct {
	Shoulder slotDecision
	UpperArm slotDecision
	LowerArm slotDecision
	Hand     slotDecision
}

// legChain は脚チェーンの決定結果を表す。
type legChain struct {
	UpperLeg slotDecision
	LowerLeg slotDecision
	Foot     slotDecision
	Toes     slotDecision
}

// headChain は首から頭の決定結果を表す。
type headChain struct {
	Neck slotDecision
	Head slotDecision
}

// walkChain は start から子が1つの間だけ辿った index 一覧を返す。
// skip に一致するノードは一覧に含めず、子の判定からも除外する。
func walkChain(nodes *model.BoneNodes, start int, skip func(name string) bool) []int {
	chain := make([]int, 0, 4)
	current := start
	for steps := 0; nodes.Contains(current) && steps < nodes.Len(); steps++ {
		if skip == nil || !skip(nodes.Name(current)) {
			chain = append(chain, current)
		}

		children := nodes.Children(current)
		candidates := children
		if skip != nil {
			candidates = make([]int, 0, len(children))
			for _, child := range children {
				if !skip(nodes.Name(child)) {
					candidates = append(candidates, child)
				}
			}
		}

		switch {
		case len(candidates) == 1:
			current = candidates[0]
		case len(candidates) == 0 && len(children) == 1:
			// 除外対象の1本道はそのまま通過する
			current = children[0]
		default:
			return chain
		}
	}
	return chain
}

// getArm は肩から肩/上腕/前腕/手を位置順で決定する。
func getArm(nodes *model.BoneNodes, shoulder int) (armChain, error) {
	chain := walkChain(nodes, shoulder, nil)
	logEstimateDebug("腕チェーン: root=%s chain=%s", nodes.Name(shoulder), chainNames(nodes, chain))
	if len(chain) < minArmChainLength {
		return armChain{}, merrors.NewEstimateError(
			merrors.ArmChainTooShort, nodes.Name(shoulder),
			"腕チェーンが短すぎます: count=%d required=%d", len(chain), minArmChainLength)
	}
	return armChain{
		Shoulder: slotDecision{Index: chain[0], Source: DecisionByPosition},
		UpperArm: slotDecision{Index: chain[1], Source: DecisionByPosition},
		LowerArm: slotDecision{Index: chain[2], Source: DecisionByPosition},
		Hand:     slotDecision{Index: chain[3], Source: DecisionByPosition},
	}, nil
}

// getLeg は脚の付け根から太もも/すね/足首/つま先を決定する。
func getLeg(nodes *model.BoneNodes, legRoot int) (legChain, error) {
	chain := walkChain(nodes, legRoot, isButtockName)
	logEstimateDebug("脚チェーン: root=%s chain=%s", nodes.Name(legRoot), chainNames(nodes, chain))

	switch {
	case len(chain) < minLegChainLength:
		return legChain{}, merrors.NewEstimateError(
			merrors.LegChainTooShort, nodes.Name(legRoot),
			"脚チェーンが短すぎます: count=%d required=%d", len(chain), minLegChainLength)
	case len(chain) == minLegChainLength:
		return legChain{
			UpperLeg: slotDecision{Index: chain[0], Source: DecisionByPosition},
			LowerLeg: slotDecision{Index: chain[1], Source: DecisionByPosition},
			Foot:     slotDecision{Index: chain[2], Source: DecisionByPosition},
			Toes:     noDecision,
		}, nil
	}

	taken := make(map[int]struct{}, 4)
	pick := func(match func(string) bool, fallback int) slotDecision {
		for _, index := range chain {
			if _, used := taken[index]; used {
				continue
			}
			if match(nodes.Name(index)) {
				taken[index] = struct{}{}
				return slotDecision{Index: index, Source: DecisionByName}
			}
		}
		// 位置で決める場合も割当済みノードは飛ばし、チェーンの先へ進める
		for position := fallback; position < len(chain); position++ {
			index := chain[position]
			if _, used := taken[index]; used {
				continue
			}
			taken[index] = struct{}{}
			logEstimateDebug("脚スロットを位置で決定: node=%s position=%d", nodes.Name(index), position)
			return slotDecision{Index: index, Source: DecisionByPosition}
		}
		return noDecision
	}

	return legChain{
		UpperLeg: pick(isUpperLegName, 0),
		LowerLeg: pick(isLowerLegName, 1),
		Foot:     pick(isFootName, 2),
		Toes:     pick(isToeName, 3),
	}, nil
}

// getNeckToHead は首から肩/腕名が現れるまでのチェーンで首と頭を決定する。
// チェーンは首以下の深さ優先前順で、分岐があっても打ち切らない。
func getNeckToHead(nodes *model.BoneNodes, neck int) (headChain, []int, error) {
	walked := nodes.Traverse(neck)
	chain := make([]int, 0, len(walked))
	for _, index := range walked {
		if containsAnyFold(nodes.Name(index), headStopPatterns) {
			break
		}
		chain = append(chain, index)
	}
	logEstimateDebug("首から頭のチェーン: %s", chainNames(nodes, chain))

	switch len(chain) {
	case 0:
		return headChain{}, chain, merrors.NewEstimateError(
			merrors.HeadNotFound, nodes.Name(neck), "首から頭へのチェーンが空です")
	case 1:
		return headChain{
			Neck: noDecision,
			Head: slotDecision{Index: chain[0], Source: DecisionByPosition},
		}, chain, nil
	case 2:
		return headChain{
			Neck: slotDecision{Index: chain[0], Source: DecisionByPosition},
			Head: slotDecision{Index: chain[1], Source: DecisionByPosition},
		}, chain, nil
	}

	head := slotDecision{Index: chain[len(chain)-1], Source: DecisionByPosition}
	// 首自身は頭候補にしない
	for _, index := range chain[1:] {
		if containsFold(nodes.Name(index), "head") {
			head = slotDecision{Index: index, Source: DecisionByName}
			break
		}
	}
	return headChain{
		Neck: slotDecision{Index: chain[0], Source: DecisionByPosition},
		Head: head,
	}, chain, nil
}
