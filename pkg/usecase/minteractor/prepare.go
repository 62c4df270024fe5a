// 指示: miu200521358
package minteractor

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/miu200521358/mu_bvh2humanoid/pkg/domain/model"
	"github.com/miu200521358/mu_bvh2humanoid/pkg/shared/base/logging"
	"github.com/miu200521358/mu_bvh2humanoid/pkg/usecase/port/moutput"
)

// PrepareEstimate はボーン階層を読み込み骨格推定までを行う。マッピングは保存しない。
func (uc *Bvh2HumanoidUsecase) PrepareEstimate(request EstimateRequest) (*EstimateResult, error) {
	if strings.TrimSpace(request.InputPath) == "" {
		return nil, fmt.Errorf("入力ファイルパスが未指定です")
	}
	runID := uuid.NewString()
	logRunInfo(runID, "骨格推定開始: input=%s", request.InputPath)
	reportEstimateProgress(request.ProgressReporter, EstimateProgressEvent{
		Type: EstimateProgressEventTypeInputValidated,
	})

	outputPath, format, err := resolveMappingOutputPath(request.InputPath, request.OutputPath, request.Format)
	if err != nil {
		return nil, err
	}
	reportEstimateProgress(request.ProgressReporter, EstimateProgressEvent{
		Type: EstimateProgressEventTypeOutputPathResolved,
	})

	nodes, err := uc.resolveBoneNodes(request.Reader, request.InputPath, request.Nodes)
	if err != nil {
		return nil, err
	}
	reportEstimateProgress(request.ProgressReporter, EstimateProgressEvent{
		Type:      EstimateProgressEventTypeBonesLoaded,
		BoneCount: nodes.Len(),
	})

	detection, err := Detect(nodes)
	if err != nil {
		return nil, fmt.Errorf("骨格推定に失敗しました: %w", err)
	}
	reportEstimateProgress(request.ProgressReporter, EstimateProgressEvent{
		Type:         EstimateProgressEventTypeSkeletonDetected,
		BoneCount:    nodes.Len(),
		SlotCount:    detection.Skeleton.Len(),
		WarningCount: len(detection.Warnings),
	})

	skeleton := detection.Skeleton
	if request.UniqueNames {
		skeleton, err = withUniqueNodeNames(detection.Skeleton)
		if err != nil {
			return nil, err
		}
	}
	logRunInfo(runID, "骨格推定完了: slots=%d warnings=%s", skeleton.Len(), strings.Join(detection.Warnings, ","))

	return &EstimateResult{
		RunID:      runID,
		Nodes:      nodes,
		Detection:  detection,
		Skeleton:   skeleton,
		OutputPath: outputPath,
		Format:     format,
	}, nil
}

// resolveBoneNodes は推定対象のボーン一覧を解決する。
func (uc *Bvh2HumanoidUsecase) resolveBoneNodes(rep moutput.IBoneTreeReader, inputPath string, nodes *model.BoneNodes) (*model.BoneNodes, error) {
	resolved := nodes
	if resolved == nil {
		loaded, err := uc.LoadBoneNodes(rep, inputPath)
		if err != nil {
			return nil, err
		}
		resolved = loaded
	}
	if resolved == nil || resolved.Len() == 0 {
		return nil, fmt.Errorf("ボーン階層の読み込み結果が空です")
	}
	return resolved, nil
}

// withUniqueNodeNames は重複名を一意化したノード一覧を参照する複製を返す。
func withUniqueNodeNames(skeleton *model.SkeletonMap) (*model.SkeletonMap, error) {
	cloned, err := skeleton.Clone()
	if err != nil {
		return nil, fmt.Errorf("マッピングの複製に失敗しました: %w", err)
	}
	cloned.Nodes = skeleton.Nodes.WithUniqueNames()
	return cloned, nil
}

// reportEstimateProgress は推定処理の進捗を通知する。
func reportEstimateProgress(reporter IEstimateProgressReporter, event EstimateProgressEvent) {
	if reporter == nil {
		return
	}
	reporter.ReportEstimateProgress(event)
}

// logRunInfo は実行IDを付与したINFOログを出力する。
func logRunInfo(runID string, format string, params ...any) {
	logger := logging.DefaultLogger()
	if logger == nil {
		return
	}
	logger.With("run", runID).Info(format, params...)
}
