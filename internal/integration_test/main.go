// 指示: miu200521358
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/miu200521358/mu_bvh2humanoid/pkg/adapter/io_model/bvh"
	"github.com/miu200521358/mu_bvh2humanoid/pkg/adapter/io_model/mapping"
	"github.com/miu200521358/mu_bvh2humanoid/pkg/infra/base/mlogging"
	"github.com/miu200521358/mu_bvh2humanoid/pkg/shared/base/logging"
	"github.com/miu200521358/mu_bvh2humanoid/pkg/usecase/minteractor"
	"github.com/miu200521358/mu_bvh2humanoid/pkg/usecase/port/moutput"
)

const (
	batchOutputDirMode = 0o755
)

const (
	statusSucceeded      = "succeeded"
	statusFailed         = "failed"
	statusDryRun         = "dry_run"
	statusSkippedMissing = "skipped_missing"
)

// batchConfig はバッチ推定の実行設定を表す。
type batchConfig struct {
	InputRoot  string
	InputPaths []string
	OutputRoot string
	Format     moutput.MappingFormat
	LogLevel   string
	DryRun     bool
	FailFast   bool
}

// estimateEntry は1ファイル分の推定入力情報を表す。
type estimateEntry struct {
	Index      int
	SourcePath string
	MotionName string
	CaseDir    string
	OutputPath string
}

// estimateResult は1ファイル分の推定結果を表す。
type estimateResult struct {
	Entry         estimateEntry
	Status        string
	Duration      time.Duration
	Err           error
	Warnings      []string
	ProgressStage string
}

// estimateProgressCollector は骨格推定の進捗イベントを収集する。
type estimateProgressCollector struct {
	eventCounts  map[minteractor.EstimateProgressEventType]int
	boneMax      int
	slotMax      int
	warningTotal int
}

// main はBVH一括骨格推定を実行する。
func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run は実行設定を解決して一括推定を実行し、終了コードを返す。
func run(args []string, out io.Writer, errOut io.Writer) int {
	config, err := parseBatchConfig(args, errOut)
	if err != nil {
		fmt.Fprintf(errOut, "設定解析に失敗しました: %v\n", err)
		return 2
	}
	logger := mlogging.NewLogger(errOut)
	logger.SetLevel(logging.ParseLogLevel(config.LogLevel))
	logging.SetDefaultLogger(logger)
	defer logger.Sync()

	inputPaths, err := collectInputPaths(config)
	if err != nil {
		fmt.Fprintf(errOut, "入力の列挙に失敗しました: %v\n", err)
		return 2
	}
	entries := buildEstimateEntries(config.OutputRoot, inputPaths, config.Format)
	if len(entries) == 0 {
		fmt.Fprintln(errOut, "推定対象のBVHがありません")
		return 2
	}

	results := executeBatchEstimate(out, config, entries)
	printBatchSummary(out, results)

	for _, result := range results {
		if result.Status == statusFailed {
			return 1
		}
	}
	return 0
}

// parseBatchConfig はコマンドライン引数から実行設定を構築する。
func parseBatchConfig(args []string, errOut io.Writer) (batchConfig, error) {
	defaultInputRoot, defaultOutputRoot, err := resolveDefaultRoots()
	if err != nil {
		return batchConfig{}, err
	}
	fs := flag.NewFlagSet("integration_test", flag.ContinueOnError)
	fs.SetOutput(errOut)
	inputRoot := fs.String("input-root", defaultInputRoot, "BVHを探索する入力ルートディレクトリ")
	outputRoot := fs.String("output-root", defaultOutputRoot, "推定結果の出力ルートディレクトリ")
	format := fs.String("format", string(moutput.MappingFormatJSON), "出力形式(json/yaml/text)")
	logLevel := fs.String("log-level", "warn", "ログレベル")
	dryRun := fs.Bool("dry-run", false, "保存せず、推定と出力先計画のみ行う")
	failFast := fs.Bool("fail-fast", false, "失敗時に即時終了する")
	if err := fs.Parse(args); err != nil {
		return batchConfig{}, err
	}

	trimmedOutputRoot := strings.TrimSpace(*outputRoot)
	if trimmedOutputRoot == "" {
		return batchConfig{}, errors.New("output-root が空です")
	}
	mappingFormat := moutput.MappingFormat(strings.ToLower(strings.TrimSpace(*format)))
	if !mappingFormat.IsValid() {
		return batchConfig{}, fmt.Errorf("format が不正です: %s", *format)
	}
	return batchConfig{
		InputRoot:  strings.TrimSpace(*inputRoot),
		InputPaths: fs.Args(),
		OutputRoot: filepath.Clean(trimmedOutputRoot),
		Format:     mappingFormat,
		LogLevel:   *logLevel,
		DryRun:     *dryRun,
		FailFast:   *failFast,
	}, nil
}

// resolveDefaultRoots はスクリプト配置ディレクトリ基準の既定入力先と出力先を返す。
func resolveDefaultRoots() (string, string, error) {
	_, currentFilePath, _, ok := runtime.Caller(0)
	if !ok {
		return "", "", errors.New("実行ファイル位置を取得できません")
	}
	currentDir := filepath.Dir(currentFilePath)
	inputRoot := filepath.Join(currentDir, "..", "..", "pkg", "adapter", "io_model", "bvh", "testdata")
	return filepath.Clean(inputRoot), filepath.Join(currentDir, "output"), nil
}

// collectInputPaths は位置引数の指定があればそれを、無ければ入力ルート配下のBVHを返す。
func collectInputPaths(config batchConfig) ([]string, error) {
	if len(config.InputPaths) > 0 {
		return config.InputPaths, nil
	}
	return bvh.CollectBvhPaths(normalizeInputPath(config.InputRoot))
}

// buildEstimateEntries は入力パス一覧から推定対象エントリを生成する。
func buildEstimateEntries(outputRoot string, inputPaths []string, format moutput.MappingFormat) []estimateEntry {
	entries := make([]estimateEntry, 0, len(inputPaths))
	for i, rawPath := range inputPaths {
		resolvedInputPath := normalizeInputPath(rawPath)
		motionName := resolveMotionName(rawPath)
		safeMotionName := sanitizePathComponent(motionName)
		caseDirName := fmt.Sprintf("%03d_%s", i+1, safeMotionName)
		caseDir := filepath.Join(outputRoot, caseDirName)
		outputPath := minteractor.BuildDefaultOutputPath(filepath.Join(caseDir, safeMotionName+".bvh"), format)
		entries = append(entries, estimateEntry{
			Index:      i + 1,
			SourcePath: resolvedInputPath,
			MotionName: motionName,
			CaseDir:    caseDir,
			OutputPath: outputPath,
		})
	}
	return entries
}

// executeBatchEstimate は全ファイルの推定処理を順次実行する。
func executeBatchEstimate(out io.Writer, config batchConfig, entries []estimateEntry) []estimateResult {
	results := make([]estimateResult, 0, len(entries))
	usecase := minteractor.NewBvh2HumanoidUsecase(minteractor.Bvh2HumanoidUsecaseDeps{
		ModelReaders:  []moutput.IBoneTreeReader{bvh.NewBvhRepository()},
		MappingWriter: mapping.NewMappingRepository(),
	})

	total := len(entries)
	for _, entry := range entries {
		fmt.Fprintf(out, "[%d/%d] 推定開始: motion=%s\n", entry.Index, total, entry.MotionName)
		result := estimateEntryMapping(usecase, config, entry)
		results = append(results, result)
		switch result.Status {
		case statusSucceeded:
			fmt.Fprintf(out, "[%d/%d] 推定成功: motion=%s output=%s elapsed=%s\n", entry.Index, total, entry.MotionName, entry.OutputPath, result.Duration.Round(time.Millisecond))
			if strings.TrimSpace(result.ProgressStage) != "" {
				fmt.Fprintf(out, "[%d/%d] 推定進捗: %s\n", entry.Index, total, result.ProgressStage)
			}
			if len(result.Warnings) > 0 {
				fmt.Fprintf(out, "[%d/%d] 警告: %s\n", entry.Index, total, strings.Join(result.Warnings, ","))
			}
		case statusDryRun:
			fmt.Fprintf(out, "[%d/%d] DRY-RUN: motion=%s input=%s output=%s\n", entry.Index, total, entry.MotionName, entry.SourcePath, entry.OutputPath)
		case statusSkippedMissing:
			fmt.Fprintf(out, "[%d/%d] 入力不足でスキップ: motion=%s input=%s reason=%v\n", entry.Index, total, entry.MotionName, entry.SourcePath, result.Err)
		default:
			fmt.Fprintf(out, "[%d/%d] 推定失敗: motion=%s reason=%v\n", entry.Index, total, entry.MotionName, result.Err)
			if config.FailFast {
				return results
			}
		}
	}
	return results
}

// estimateEntryMapping は1ファイル分の推定を実行する。
func estimateEntryMapping(usecase *minteractor.Bvh2HumanoidUsecase, config batchConfig, entry estimateEntry) estimateResult {
	result := estimateResult{
		Entry:  entry,
		Status: statusFailed,
	}
	if _, err := os.Stat(entry.SourcePath); err != nil {
		result.Status = statusSkippedMissing
		result.Err = err
		return result
	}

	startedAt := time.Now()
	progressCollector := newEstimateProgressCollector()
	prepared, err := usecase.PrepareEstimate(minteractor.EstimateRequest{
		InputPath:        entry.SourcePath,
		OutputPath:       entry.OutputPath,
		Format:           config.Format,
		ProgressReporter: progressCollector,
	})
	if err != nil {
		result.Err = fmt.Errorf("PrepareEstimateに失敗しました: %w", err)
		return result
	}
	result.Warnings = prepared.Detection.Warnings
	if config.DryRun {
		result.Status = statusDryRun
		return result
	}
	if err := os.MkdirAll(entry.CaseDir, batchOutputDirMode); err != nil {
		result.Err = fmt.Errorf("出力ディレクトリ作成に失敗しました: %w", err)
		return result
	}
	opts := minteractor.SaveOptions{Format: prepared.Format, Warnings: prepared.Detection.Warnings}
	if err := usecase.SaveMapping(nil, prepared.OutputPath, prepared.Skeleton, opts); err != nil {
		result.Err = fmt.Errorf("SaveMappingに失敗しました: %w", err)
		return result
	}

	result.Status = statusSucceeded
	result.Duration = time.Since(startedAt)
	result.ProgressStage = progressCollector.Summary()
	return result
}

// printBatchSummary は推定結果の集計を表示する。
func printBatchSummary(out io.Writer, results []estimateResult) {
	succeeded := 0
	failed := 0
	skipped := 0
	dryRun := 0
	for _, result := range results {
		switch result.Status {
		case statusSucceeded:
			succeeded++
		case statusDryRun:
			dryRun++
		case statusSkippedMissing:
			skipped++
		default:
			failed++
		}
	}
	fmt.Fprintf(
		out,
		"バッチ推定サマリ: total=%d succeeded=%d failed=%d skipped_missing=%d dry_run=%d\n",
		len(results),
		succeeded,
		failed,
		skipped,
		dryRun,
	)
}

// resolveMotionName は入力パスから拡張子を除いたモーション名を返す。
func resolveMotionName(path string) string {
	base := strings.TrimSpace(filepath.Base(path))
	ext := filepath.Ext(base)
	name := strings.TrimSpace(strings.TrimSuffix(base, ext))
	if name == "" {
		return "motion"
	}
	return name
}

// normalizeInputPath は入力パスを実行環境向けに正規化する。
func normalizeInputPath(path string) string {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return ""
	}
	return filepath.Clean(convertWindowsPathToWsl(path))
}

// convertWindowsPathToWsl は Linux 実行時に Windows パスを WSL パスへ変換する。
func convertWindowsPathToWsl(path string) string {
	trimmed := strings.TrimSpace(path)
	if runtime.GOOS != "linux" {
		return trimmed
	}
	if len(trimmed) < 2 || trimmed[1] != ':' {
		return trimmed
	}
	drive := strings.ToLower(trimmed[:1])
	rest := strings.ReplaceAll(trimmed[2:], "\\", "/")
	if rest == "" {
		return filepath.ToSlash(filepath.Join("/mnt", drive))
	}
	if !strings.HasPrefix(rest, "/") {
		rest = "/" + rest
	}
	return filepath.ToSlash(filepath.Join("/mnt", drive) + rest)
}

// sanitizePathComponent は出力ディレクトリ/ファイル名に使えない文字を置換する。
func sanitizePathComponent(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "motion"
	}
	replaced := strings.Map(func(r rune) rune {
		switch r {
		case '<', '>', ':', '"', '/', '\\', '|', '?', '*':
			return '_'
		default:
			if r < 0x20 {
				return '_'
			}
			return r
		}
	}, trimmed)
	replaced = strings.Trim(replaced, " .")
	if replaced == "" {
		return "motion"
	}
	return replaced
}

// newEstimateProgressCollector は推定進捗収集器を生成する。
func newEstimateProgressCollector() *estimateProgressCollector {
	return &estimateProgressCollector{
		eventCounts: map[minteractor.EstimateProgressEventType]int{},
	}
}

// ReportEstimateProgress は推定の進捗イベントを収集する。
func (collector *estimateProgressCollector) ReportEstimateProgress(event minteractor.EstimateProgressEvent) {
	if collector == nil {
		return
	}
	if collector.eventCounts == nil {
		collector.eventCounts = map[minteractor.EstimateProgressEventType]int{}
	}
	collector.eventCounts[event.Type]++
	if event.BoneCount > collector.boneMax {
		collector.boneMax = event.BoneCount
	}
	if event.SlotCount > collector.slotMax {
		collector.slotMax = event.SlotCount
	}
	collector.warningTotal += event.WarningCount
}

// Summary は収集した進捗の要約文字列を返す。
func (collector *estimateProgressCollector) Summary() string {
	if collector == nil || len(collector.eventCounts) == 0 {
		return ""
	}
	types := make([]string, 0, len(collector.eventCounts))
	for stageType := range collector.eventCounts {
		types = append(types, string(stageType))
	}
	sort.Strings(types)
	return fmt.Sprintf(
		"events=%d bones=%d slots=%d warnings=%d stages=%s",
		len(collector.eventCounts),
		collector.boneMax,
		collector.slotMax,
		collector.warningTotal,
		strings.Join(types, ","),
	)
}
