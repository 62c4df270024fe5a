// 指示: miu200521358
package model

const (
	// EstimateWarningOutputKey は推定警告ID集合を出力する際のキー。
	EstimateWarningOutputKey = "MU_BVH2HUMANOID_warnings"

	// EstimateWarningSpineHeightTie は腰の子で背骨候補の高さが同値だった警告。
	EstimateWarningSpineHeightTie = "EstimateWarningSpineHeightTie"
	// EstimateWarningLegSideTie は左右脚のX座標が同値だった警告。
	EstimateWarningLegSideTie = "EstimateWarningLegSideTie"
	// EstimateWarningShoulderSideTie は左右肩のX座標が同値だった警告。
	EstimateWarningShoulderSideTie = "EstimateWarningShoulderSideTie"
	// EstimateWarningSpineBranchTie は背骨走査で子孫数が同値の候補があった警告。
	EstimateWarningSpineBranchTie = "EstimateWarningSpineBranchTie"
	// EstimateWarningSpineNodesDropped は背骨中間ノードがスロット外となった警告。
	EstimateWarningSpineNodesDropped = "EstimateWarningSpineNodesDropped"
	// EstimateWarningChestSplitByPosition は首判定が位置のみで行われた警告。
	EstimateWarningChestSplitByPosition = "EstimateWarningChestSplitByPosition"
)
