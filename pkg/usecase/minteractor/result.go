// 指示: miu200521358
package minteractor

import (
	"github.com/miu200521358/mu_bvh2humanoid/pkg/domain/model"
	"github.com/miu200521358/mu_bvh2humanoid/pkg/usecase/port/moutput"
)

// SaveOptions は保存時オプションを表す。
type SaveOptions = moutput.SaveOptions

// EstimateProgressEventType は推定処理の進捗イベント種別を表す。
type EstimateProgressEventType string

const (
	// EstimateProgressEventTypeInputValidated は入力検証完了イベントを表す。
	EstimateProgressEventTypeInputValidated EstimateProgressEventType = "input_validated"
	// EstimateProgressEventTypeOutputPathResolved は出力パス解決完了イベントを表す。
	EstimateProgressEventTypeOutputPathResolved EstimateProgressEventType = "output_path_resolved"
	// EstimateProgressEventTypeBonesLoaded はボーン階層読み込み完了イベントを表す。
	EstimateProgressEventTypeBonesLoaded EstimateProgressEventType = "bones_loaded"
	// EstimateProgressEventTypeSkeletonDetected は骨格推定完了イベントを表す。
	EstimateProgressEventTypeSkeletonDetected EstimateProgressEventType = "skeleton_detected"
	// EstimateProgressEventTypeMappingSaved はマッピング保存完了イベントを表す。
	EstimateProgressEventTypeMappingSaved EstimateProgressEventType = "mapping_saved"
)

// EstimateProgressEvent は推定処理の進捗イベントを表す。
type EstimateProgressEvent struct {
	Type         EstimateProgressEventType
	BoneCount    int
	SlotCount    int
	WarningCount int
}

// IEstimateProgressReporter は推定処理の進捗通知契約を表す。
type IEstimateProgressReporter interface {
	// ReportEstimateProgress は推定処理進捗を通知する。
	ReportEstimateProgress(event EstimateProgressEvent)
}

// EstimateRequest は骨格推定要求を表す。
type EstimateRequest struct {
	InputPath  string
	OutputPath string
	Format     moutput.MappingFormat
	// Nodes は読み込み済みのボーン一覧。指定時は InputPath から読み込まない。
	Nodes            *model.BoneNodes
	Reader           moutput.IBoneTreeReader
	Writer           moutput.IMappingWriter
	UniqueNames      bool
	ProgressReporter IEstimateProgressReporter
}

// EstimateResult は骨格推定結果を表す。
type EstimateResult struct {
	RunID     string
	Nodes     *model.BoneNodes
	Detection *Detection
	// Skeleton は保存用のスロット対応。名前の一意化を行った場合は一意化後の一覧を参照する。
	Skeleton   *model.SkeletonMap
	OutputPath string
	Format     moutput.MappingFormat
}
