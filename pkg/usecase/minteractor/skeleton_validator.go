// 指示: miu200521358
package minteractor

import (
	"github.com/miu200521358/mu_bvh2humanoid/pkg/domain/model"
	"github.com/miu200521358/mu_bvh2humanoid/pkg/domain/model/merrors"
	"go.uber.org/multierr"
)

// spineValidationOrder は連続性を検証する背骨スロットの順序。
var spineValidationOrder = []model.HumanBone{model.Spine, model.Chest, model.UpperChest}

// Validate は推定済みSkeletonMapの妥当性を検証する。全検証を実行し失敗をまとめて返す。
func Validate(skeleton *model.SkeletonMap) error {
	if skeleton == nil {
		return merrors.NewEstimateError(merrors.IncompleteMap, "", "検証対象のマッピングがありません")
	}

	var err error
	if name, ok := skeleton.NodeName(model.Head); ok && containsAnyFold(name, headMisassignPatterns) {
		logEstimateDebug("頭に手/指ボーンが割り当てられています: %s", name)
		err = multierr.Append(err, merrors.NewEstimateError(
			merrors.HeadMisassigned, name, "頭に手/指ボーンが割り当てられています"))
	}
	if name, ok := skeleton.NodeName(model.Neck); ok && containsAnyFold(name, neckMisassignPatterns) {
		logEstimateDebug("首に肩ボーンが割り当てられています: %s", name)
		err = multierr.Append(err, merrors.NewEstimateError(
			merrors.NeckMisassigned, name, "首に肩ボーンが割り当てられています"))
	}
	err = multierr.Append(err, validateSpineChain(skeleton))
	return err
}

// validateSpineChain は背骨スロット間が祖先/子孫の関係で繋がっているか検証する。
func validateSpineChain(skeleton *model.SkeletonMap) error {
	var err error
	previous := -1
	previousBone := model.HumanBoneCount
	for _, bone := range spineValidationOrder {
		index, ok := skeleton.Get(bone)
		if !ok {
			continue
		}
		if previous >= 0 && !skeleton.Nodes.IsConnected(previous, index) {
			err = multierr.Append(err, merrors.NewEstimateError(
				merrors.SpineDiscontinuous, skeleton.Nodes.Name(index),
				"%s(%s)と%s(%s)が繋がっていません",
				previousBone, skeleton.Nodes.Name(previous), bone, skeleton.Nodes.Name(index)))
		}
		previous = index
		previousBone = bone
	}
	return err
}
