// 指示: miu200521358
package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/miu200521358/mu_bvh2humanoid/pkg/adapter/io_model/bvh"
	"github.com/miu200521358/mu_bvh2humanoid/pkg/adapter/mpresenter/messages"
	"github.com/miu200521358/mu_bvh2humanoid/pkg/usecase/minteractor"
	"github.com/miu200521358/mu_bvh2humanoid/pkg/usecase/port/moutput"
	"github.com/spf13/cobra"
)

// batchOptions は batch コマンドの引数を表す。
type batchOptions struct {
	outputDir string
	format    string
	failFast  bool
	dryRun    bool
}

// batchSummary はバッチ実行の集計を表す。
type batchSummary struct {
	Total   int
	Success int
	Failed  int
	Skipped int
}

// newBatchCommand はディレクトリ一括推定コマンドを生成する。
func newBatchCommand(app *appContext) *cobra.Command {
	opts := &batchOptions{}
	cmd := &cobra.Command{
		Use:   "batch <dir>",
		Short: messages.HelpBatchShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := app.resolveFormat(opts.format, cmd.Flags().Changed("format"), "")
			if err != nil {
				return err
			}
			summary, err := app.runBatch(args[0], format, opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(app.out, messages.LogBatchSummary+"\n", summary.Total, summary.Success, summary.Failed)
			if summary.Failed > 0 {
				return fmt.Errorf(messages.MessageBatchFailed, summary.Failed)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.outputDir, "out-dir", "", "出力ディレクトリ(未指定時は各入力と同じ場所)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "出力形式(json/yaml/text)")
	cmd.Flags().BoolVar(&opts.failFast, "fail-fast", false, "最初の失敗で中断する")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "保存せず推定のみ行う")
	return cmd
}

// runBatch は入力ディレクトリ配下のBVHを順に推定する。
func (a *appContext) runBatch(inputDir string, format moutput.MappingFormat, opts *batchOptions) (batchSummary, error) {
	summary := batchSummary{}
	if strings.TrimSpace(inputDir) == "" {
		return summary, fmt.Errorf(messages.MessageInputDirNeeded)
	}
	paths, err := bvh.CollectBvhPaths(inputDir)
	if err != nil {
		return summary, err
	}
	if len(paths) == 0 {
		return summary, fmt.Errorf(messages.MessageNoInputs, inputDir)
	}
	summary.Total = len(paths)

	okColor := color.New(color.FgGreen, color.Bold)
	failColor := color.New(color.FgRed, color.Bold)
	skipColor := color.New(color.FgYellow)
	for i, path := range paths {
		request := minteractor.EstimateRequest{
			InputPath:   path,
			OutputPath:  batchOutputPath(inputDir, opts.outputDir, path, format),
			Format:      format,
			UniqueNames: a.config.Output.UniqueNames,
		}
		var result *minteractor.EstimateResult
		if opts.dryRun {
			result, err = a.usecase.PrepareEstimate(request)
		} else {
			result, err = a.usecase.Estimate(request)
		}
		if err != nil {
			summary.Failed++
			failColor.Fprintf(a.out, "[%s] ", messages.StatusFailed)
			fmt.Fprintf(a.out, "%s: %v\n", path, err)
			if opts.failFast {
				summary.Skipped = len(paths) - i - 1
				for _, skipped := range paths[i+1:] {
					skipColor.Fprintf(a.out, "[%s] ", messages.StatusSkipped)
					fmt.Fprintln(a.out, skipped)
				}
				break
			}
			continue
		}
		summary.Success++
		if opts.dryRun {
			okColor.Fprintf(a.out, "[%s] ", messages.StatusDryRun)
			fmt.Fprintf(a.out, "%s -> "+messages.LogDryRunPlan+"\n", path, result.OutputPath)
		} else {
			okColor.Fprintf(a.out, "[%s] ", messages.StatusOk)
			fmt.Fprintf(a.out, "%s -> %s\n", path, result.OutputPath)
		}
		for _, warning := range result.Detection.Warnings {
			skipColor.Fprintf(a.out, "  "+messages.LogEstimateWarning+"\n", warning)
		}
	}
	return summary, nil
}

// batchOutputPath は出力ディレクトリ指定時に入力の相対構成を保った保存先を返す。
// 未指定時は空を返し、入力と同じ場所への保存に任せる。
func batchOutputPath(inputDir string, outputDir string, path string, format moutput.MappingFormat) string {
	if strings.TrimSpace(outputDir) == "" {
		return ""
	}
	rel, err := filepath.Rel(inputDir, path)
	if err != nil {
		rel = filepath.Base(path)
	}
	return minteractor.BuildDefaultOutputPath(filepath.Join(outputDir, rel), format)
}
