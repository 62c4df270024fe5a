// 指示: miu200521358
package minteractor

import (
	"fmt"
	"strings"

	"github.com/miu200521358/mu_bvh2humanoid/pkg/domain/model"
	"github.com/miu200521358/mu_bvh2humanoid/pkg/usecase/port/moutput"
)

// SaveMapping はスロット対応を保存する。
func (uc *Bvh2HumanoidUsecase) SaveMapping(rep moutput.IMappingWriter, path string, skeleton *model.SkeletonMap, opts SaveOptions) error {
	writer := rep
	if writer == nil {
		writer = uc.mappingWriter
	}
	if writer == nil {
		return fmt.Errorf("マッピング保存リポジトリが設定されていません")
	}
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("保存先パスが未指定です")
	}
	if skeleton == nil {
		return fmt.Errorf("保存対象マッピングが未設定です")
	}
	return writer.Save(path, skeleton, opts)
}

// Estimate はボーン階層を読み込み、骨格推定してスロット対応を保存する。
func (uc *Bvh2HumanoidUsecase) Estimate(request EstimateRequest) (*EstimateResult, error) {
	result, err := uc.PrepareEstimate(request)
	if err != nil {
		return nil, err
	}
	opts := SaveOptions{Format: result.Format, Warnings: result.Detection.Warnings}
	if err := uc.SaveMapping(request.Writer, result.OutputPath, result.Skeleton, opts); err != nil {
		return nil, err
	}
	reportEstimateProgress(request.ProgressReporter, EstimateProgressEvent{
		Type:      EstimateProgressEventTypeMappingSaved,
		BoneCount: result.Nodes.Len(),
		SlotCount: result.Skeleton.Len(),
	})
	logEstimateInfo("マッピング保存成功: run=%s path=%s", result.RunID, result.OutputPath)
	return result, nil
}
