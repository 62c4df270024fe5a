// 指示: miu200521358
// Package messages はCLI表示に使うメッセージキーを提供する。
package messages

// メッセージキー一覧。
const (
	HelpRootShort     = "BVHのボーン階層をhumanoidスロットへ対応付けます"
	HelpEstimateShort = "1ファイルの骨格推定を行いマッピングを保存します"
	HelpBatchShort    = "ディレクトリ配下のBVHをまとめて骨格推定します"
	HelpBonesShort    = "humanoidスロット一覧を表示します"
	HelpVersionShort  = "バージョンを表示します"

	LabelBone     = "BONE"
	LabelTrait    = "TRAIT"
	LabelRequired = "REQUIRED"
	LabelNode     = "NODE"
	LabelSource   = "SOURCE"

	StatusOk      = "OK"
	StatusFailed  = "FAILED"
	StatusSkipped = "SKIPPED"
	StatusDryRun  = "DRY-RUN"

	MessageInputRequired  = "入力ファイルを指定してください"
	MessageInputDirNeeded = "入力ディレクトリを指定してください"
	MessageFormatInvalid  = "出力形式が不正です: %s"
	MessageNoInputs       = "対象のBVHファイルが見つかりません: %s"
	MessageBatchFailed    = "%d件の骨格推定に失敗しました"

	LogEstimateSuccess = "マッピング保存成功: %s"
	LogEstimateWarning = "警告: %s"
	LogBatchSummary    = "合計=%d 成功=%d 失敗=%d"
	LogDryRunPlan      = "保存予定: %s"
)
