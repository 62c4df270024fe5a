// 指示: miu200521358
package minteractor

import (
	"strings"

	"github.com/miu200521358/mu_bvh2humanoid/pkg/domain/model"
	"github.com/miu200521358/mu_bvh2humanoid/pkg/domain/model/merrors"
	"github.com/miu200521358/mu_bvh2humanoid/pkg/shared/base/logging"
)

const hipsChildCount = 3

// ChestSplitTier は胸の子から首/肩を判別した段階を表す。
type ChestSplitTier string

const (
	// ChestSplitByName は肩名2本から首を決定した。
	ChestSplitByName ChestSplitTier = "by_name"
	// ChestSplitByNeckName は首/頭名の最上位から首を決定した。
	ChestSplitByNeckName ChestSplitTier = "by_neck_name"
	// ChestSplitByPosition は高さのみで首を決定した。
	ChestSplitByPosition ChestSplitTier = "by_position"
)

// Detection は骨格推定の結果と判定経緯を表す。
type Detection struct {
	Skeleton            *model.SkeletonMap
	Decisions           map[model.HumanBone]DecisionSource
	ChestSplit          ChestSplitTier
	SpineChain          []int
	NeckToHeadChain     []int
	DroppedSpineIndexes []int
	Warnings            []string
}

// addWarning は警告IDを重複なく追加する。
func (d *Detection) addWarning(warningID string) {
	for _, existing := range d.Warnings {
		if existing == warningID {
			return
		}
	}
	d.Warnings = append(d.Warnings, warningID)
}

// HasWarning は警告IDを含むか判定する。
func (d *Detection) HasWarning(warningID string) bool {
	if d == nil {
		return false
	}
	for _, existing := range d.Warnings {
		if existing == warningID {
			return true
		}
	}
	return false
}

// hipsSplit は腰の子の振り分け結果を表す。
type hipsSplit struct {
	Spine    int
	LeftLeg  int
	RightLeg int
}

// boneDecision はスロットと決定結果の組を表す。
type boneDecision struct {
	bone     model.HumanBone
	decision slotDecision
}

// chestSplit は胸の子の振り分け結果を表す。
type chestSplit struct {
	Neck          int
	LeftShoulder  int
	RightShoulder int
	Tier          ChestSplitTier
}

// DetectHierarchy は外部階層を平坦化して骨格推定する。
func DetectHierarchy(root model.IHierarchyNode) (*Detection, error) {
	nodes, err := model.BuildBoneNodes(root)
	if err != nil {
		return nil, err
	}
	return Detect(nodes)
}

// Detect は平坦化済みボーン一覧から humanoid スロット対応を推定する。
func Detect(nodes *model.BoneNodes) (*Detection, error) {
	detection := &Detection{
		Skeleton:  model.NewSkeletonMap(nodes),
		Decisions: make(map[model.HumanBone]DecisionSource),
	}

	root, err := findRoot(nodes)
	if err != nil {
		return nil, err
	}
	logEstimateDebug("ルート: %s", nodes.Name(root))

	hips := findHips(nodes, root)
	if hips < 0 {
		return nil, merrors.NewEstimateError(
			merrors.HipsNotFound, nodes.Name(root), "子を%d本持つ腰ボーンが見つかりません", hipsChildCount)
	}
	logEstimateDebug("腰: %s", nodes.Name(hips))

	hipsChildren := splitHipsChildren(nodes, hips, detection)
	logEstimateDebug("腰の子: spine=%s leftLeg=%s rightLeg=%s",
		nodes.Name(hipsChildren.Spine), nodes.Name(hipsChildren.LeftLeg), nodes.Name(hipsChildren.RightLeg))

	leftLeg, err := getLeg(nodes, hipsChildren.LeftLeg)
	if err != nil {
		return nil, err
	}
	rightLeg, err := getLeg(nodes, hipsChildren.RightLeg)
	if err != nil {
		return nil, err
	}

	spineChain := walkSpineToChest(nodes, hipsChildren.Spine, detection)
	detection.SpineChain = spineChain
	logEstimateDebug("背骨チェーン: %s", chainNames(nodes, spineChain))
	if len(spineChain) < 2 {
		return nil, merrors.NewEstimateError(
			merrors.SpineTooShort, nodes.Name(hipsChildren.Spine),
			"背骨チェーンが短すぎます: count=%d required=2", len(spineChain))
	}

	chest, err := splitChestChildren(nodes, spineChain[len(spineChain)-1], detection)
	if err != nil {
		return nil, err
	}
	detection.ChestSplit = chest.Tier
	logEstimateDebug("胸の子: neck=%s leftShoulder=%s rightShoulder=%s tier=%s",
		nodes.Name(chest.Neck), nodes.Name(chest.LeftShoulder), nodes.Name(chest.RightShoulder), chest.Tier)

	leftArm, err := getArm(nodes, chest.LeftShoulder)
	if err != nil {
		return nil, err
	}
	rightArm, err := getArm(nodes, chest.RightShoulder)
	if err != nil {
		return nil, err
	}

	head, neckToHead, err := getNeckToHead(nodes, chest.Neck)
	if err != nil {
		return nil, err
	}
	detection.NeckToHeadChain = neckToHead

	if err := detection.populate(hips, spineChain, leftLeg, rightLeg, leftArm, rightArm, head); err != nil {
		return nil, err
	}
	if missing := detection.Skeleton.MissingRequired(); len(missing) > 0 {
		names := make([]string, 0, len(missing))
		for _, bone := range missing {
			names = append(names, bone.String())
		}
		return nil, merrors.NewEstimateError(
			merrors.IncompleteMap, "", "必須スロットが未設定です: %s", strings.Join(names, ","))
	}

	if err := Validate(detection.Skeleton); err != nil {
		return nil, err
	}

	logEstimateInfo("骨格推定完了: nodes=%d slots=%d warnings=%d",
		nodes.Len(), detection.Skeleton.Len(), len(detection.Warnings))
	for _, binding := range detection.Skeleton.Bindings() {
		logEstimateDebug("スロット: %s -> %d (%s)", binding.HumanBone, binding.Index, binding.NodeName)
	}
	return detection, nil
}

// findRoot は親を持たない唯一のノードを返す。
func findRoot(nodes *model.BoneNodes) (int, error) {
	roots := nodes.RootIndexes()
	if len(roots) != 1 {
		return -1, merrors.NewEstimateError(
			merrors.NoUniqueRoot, "", "ルートノードが一意ではありません: count=%d", len(roots))
	}
	return roots[0], nil
}

// findHips はルートから深さ優先前順で最初に子を3本持つノードを返す。
func findHips(nodes *model.BoneNodes, root int) int {
	for _, index := range nodes.Traverse(root) {
		if len(nodes.Children(index)) == hipsChildCount {
			return index
		}
	}
	return -1
}

// splitHipsChildren は腰の子を背骨/左脚/右脚へ振り分ける。
// 同値は子の並び順で先のものを採用し、警告として記録する。
func splitHipsChildren(nodes *model.BoneNodes, hips int, detection *Detection) hipsSplit {
	children := nodes.Children(hips)

	spinePos := 0
	for i := 1; i < len(children); i++ {
		y := nodes.CenterOfDescendants(children[i]).Y
		best := nodes.CenterOfDescendants(children[spinePos]).Y
		if y > best {
			spinePos = i
		}
	}
	for i, child := range children {
		if i != spinePos && nodes.CenterOfDescendants(child).Y == nodes.CenterOfDescendants(children[spinePos]).Y {
			detection.addWarning(model.EstimateWarningSpineHeightTie)
			logEstimateWarn("背骨候補の高さが同値です: %s / %s", nodes.Name(children[spinePos]), nodes.Name(child))
			break
		}
	}

	legs := make([]int, 0, 2)
	for i, child := range children {
		if i != spinePos {
			legs = append(legs, child)
		}
	}
	left, right, tie := orderByX(nodes, legs[0], legs[1])
	if tie {
		detection.addWarning(model.EstimateWarningLegSideTie)
		logEstimateWarn("左右脚のX座標が同値のため並び順で判定します: %s / %s", nodes.Name(left), nodes.Name(right))
	}
	return hipsSplit{Spine: children[spinePos], LeftLeg: left, RightLeg: right}
}

// orderByX はX座標の小さい方を左として返す。同値は引数順。
func orderByX(nodes *model.BoneNodes, first int, second int) (int, int, bool) {
	firstX := nodes.CenterOfDescendants(first).X
	secondX := nodes.CenterOfDescendants(second).X
	switch {
	case secondX < firstX:
		return second, first, false
	case secondX == firstX:
		return first, second, true
	default:
		return first, second, false
	}
}

// walkSpineToChest は背骨から胸分岐までを最大4本辿る。
func walkSpineToChest(nodes *model.BoneNodes, spine int, detection *Detection) []int {
	chain := make([]int, 0, maxSpineChainCount)
	current := spine
	for nodes.Contains(current) && len(chain) < maxSpineChainCount {
		chain = append(chain, current)
		children := nodes.Children(current)

		if len(children) == 3 {
			for _, child := range children {
				if containsAnyFold(nodes.Name(child), shoulderBranchPatterns) {
					logEstimateDebug("胸分岐を検出: %s", nodes.Name(current))
					return chain
				}
			}
		}

		next, bestSize, tie := -1, -1, false
		for _, child := range children {
			if containsAnyFold(nodes.Name(child), spineExcludePatterns) {
				continue
			}
			size := nodes.DescendantCount(child)
			switch {
			case size > bestSize:
				next, bestSize, tie = child, size, false
			case size == bestSize:
				tie = true
			}
		}
		if tie {
			detection.addWarning(model.EstimateWarningSpineBranchTie)
			logEstimateWarn("背骨候補の子孫数が同値のため並び順で判定します: %s", nodes.Name(next))
		}
		current = next
	}
	return chain
}

// splitChestChildren は胸の子を首/左肩/右肩へ振り分ける。
func splitChestChildren(nodes *model.BoneNodes, chest int, detection *Detection) (chestSplit, error) {
	children := nodes.Children(chest)
	if len(children) != 3 {
		return chestSplit{}, merrors.NewEstimateError(
			merrors.ChestSplitFailed, nodes.Name(chest), "胸の子は3本必要です: count=%d", len(children))
	}

	split := chestSplit{Neck: -1}
	shoulders := make([]int, 0, 3)
	for _, child := range children {
		if containsAnyFold(nodes.Name(child), shoulderNamePatterns) {
			shoulders = append(shoulders, child)
		}
	}

	if len(shoulders) == 2 {
		for _, child := range children {
			if child != shoulders[0] && child != shoulders[1] {
				split.Neck = child
			}
		}
		split.Tier = ChestSplitByName
	} else {
		split.Tier = ChestSplitByNeckName
		split.Neck = highestChild(nodes, children, func(name string) bool {
			return containsAnyFold(name, neckNamePatterns)
		})
		if split.Neck < 0 {
			split.Tier = ChestSplitByPosition
			split.Neck = highestChild(nodes, children, nil)
			detection.addWarning(model.EstimateWarningChestSplitByPosition)
			logEstimateDebug("首を高さのみで判定しました: %s", nodes.Name(split.Neck))
		}
		shoulders = shoulders[:0]
		for _, child := range children {
			if child != split.Neck {
				shoulders = append(shoulders, child)
			}
		}
	}

	left, right, tie := orderByX(nodes, shoulders[0], shoulders[1])
	if tie {
		detection.addWarning(model.EstimateWarningShoulderSideTie)
		logEstimateWarn("左右肩のX座標が同値のため並び順で判定します: %s / %s", nodes.Name(left), nodes.Name(right))
	}
	split.LeftShoulder = left
	split.RightShoulder = right

	if containsAnyFold(nodes.Name(split.Neck), neckRejectPatterns) {
		return chestSplit{}, merrors.NewEstimateError(
			merrors.ChestSplitFailed, nodes.Name(split.Neck), "首として不正な名前のボーンが選ばれました")
	}
	return split, nil
}

// highestChild は filter に一致する子のうち子孫中心が最も高いものを返す。同値は並び順で先。
func highestChild(nodes *model.BoneNodes, children []int, filter func(name string) bool) int {
	best := -1
	for _, child := range children {
		if filter != nil && !filter(nodes.Name(child)) {
			continue
		}
		if best < 0 || nodes.CenterOfDescendants(child).Y > nodes.CenterOfDescendants(best).Y {
			best = child
		}
	}
	return best
}

// populate は決定結果をSkeletonMapへ反映する。
func (d *Detection) populate(
	hips int,
	spineChain []int,
	leftLeg legChain,
	rightLeg legChain,
	leftArm armChain,
	rightArm armChain,
	head headChain,
) error {
	decisions := []boneDecision{{model.Hips, slotDecision{Index: hips, Source: DecisionByPosition}}}
	for i, bone := range spineSlotsByLength(len(spineChain)) {
		if !bone.IsValid() {
			d.DroppedSpineIndexes = append(d.DroppedSpineIndexes, spineChain[i])
			continue
		}
		decisions = append(decisions, boneDecision{bone, slotDecision{Index: spineChain[i], Source: DecisionByPosition}})
	}
	if len(d.DroppedSpineIndexes) > 0 {
		d.addWarning(model.EstimateWarningSpineNodesDropped)
		logEstimateInfo("背骨中間ボーンはスロット外となります: %s", chainNames(d.Skeleton.Nodes, d.DroppedSpineIndexes))
	}

	neckSource := DecisionByName
	if d.ChestSplit == ChestSplitByPosition {
		neckSource = DecisionByPosition
	}
	appendDecision := func(bone model.HumanBone, decision slotDecision) {
		decisions = append(decisions, boneDecision{bone, decision})
	}
	if head.Neck.isSet() {
		appendDecision(model.Neck, slotDecision{Index: head.Neck.Index, Source: neckSource})
	}
	appendDecision(model.Head, head.Head)

	appendDecision(model.LeftUpperLeg, leftLeg.UpperLeg)
	appendDecision(model.LeftLowerLeg, leftLeg.LowerLeg)
	appendDecision(model.LeftFoot, leftLeg.Foot)
	appendDecision(model.LeftToes, leftLeg.Toes)
	appendDecision(model.RightUpperLeg, rightLeg.UpperLeg)
	appendDecision(model.RightLowerLeg, rightLeg.LowerLeg)
	appendDecision(model.RightFoot, rightLeg.Foot)
	appendDecision(model.RightToes, rightLeg.Toes)

	appendDecision(model.LeftShoulder, leftArm.Shoulder)
	appendDecision(model.LeftUpperArm, leftArm.UpperArm)
	appendDecision(model.LeftLowerArm, leftArm.LowerArm)
	appendDecision(model.LeftHand, leftArm.Hand)
	appendDecision(model.RightShoulder, rightArm.Shoulder)
	appendDecision(model.RightUpperArm, rightArm.UpperArm)
	appendDecision(model.RightLowerArm, rightArm.LowerArm)
	appendDecision(model.RightHand, rightArm.Hand)

	for _, entry := range decisions {
		if !entry.decision.isSet() {
			continue
		}
		if err := d.Skeleton.Set(entry.bone, entry.decision.Index); err != nil {
			return err
		}
		d.Decisions[entry.bone] = entry.decision.Source
	}
	return nil
}

// spineSlotsByLength は背骨チェーン長ごとのスロット割り当てを返す。
// 4本以上の場合、中間ノードは HumanBoneCount(対応スロットなし)となる。
func spineSlotsByLength(length int) []model.HumanBone {
	switch length {
	case 0:
		return nil
	case 1:
		return []model.HumanBone{model.Spine}
	case 2:
		return []model.HumanBone{model.Spine, model.Chest}
	case 3:
		return []model.HumanBone{model.Spine, model.Chest, model.UpperChest}
	}
	slots := make([]model.HumanBone, length)
	for i := range slots {
		slots[i] = model.HumanBoneCount
	}
	slots[0] = model.Spine
	slots[1] = model.Chest
	slots[length-1] = model.UpperChest
	return slots
}

// chainNames はindex一覧をログ用の名前連結にする。
func chainNames(nodes *model.BoneNodes, chain []int) string {
	names := make([]string, 0, len(chain))
	for _, index := range chain {
		names = append(names, nodes.Name(index))
	}
	return strings.Join(names, " -> ")
}

// logEstimateInfo は骨格推定のINFOログを出力する。
func logEstimateInfo(format string, params ...any) {
	logger := logging.DefaultLogger()
	if logger == nil {
		return
	}
	logger.Info(format, params...)
}

// logEstimateDebug は骨格推定のデバッグログを出力する。
func logEstimateDebug(format string, params ...any) {
	logger := logging.DefaultLogger()
	if logger == nil {
		return
	}
	logger.Debug(format, params...)
}

// logEstimateWarn は骨格推定の警告ログを出力する。
func logEstimateWarn(format string, params ...any) {
	logger := logging.DefaultLogger()
	if logger == nil {
		return
	}
	logger.Warn(format, params...)
}
