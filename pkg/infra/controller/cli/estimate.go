// 指示: miu200521358
package cli

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/miu200521358/mu_bvh2humanoid/pkg/adapter/mpresenter/messages"
	"github.com/miu200521358/mu_bvh2humanoid/pkg/usecase/minteractor"
	"github.com/miu200521358/mu_bvh2humanoid/pkg/usecase/port/moutput"
	"github.com/spf13/cobra"
)

// estimateOptions は estimate コマンドの引数を表す。
type estimateOptions struct {
	outputPath string
	format     string
	print      bool
}

// newEstimateCommand は1ファイルの骨格推定コマンドを生成する。
func newEstimateCommand(app *appContext) *cobra.Command {
	opts := &estimateOptions{}
	cmd := &cobra.Command{
		Use:   "estimate <input>",
		Short: messages.HelpEstimateShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := app.resolveFormat(opts.format, cmd.Flags().Changed("format"), opts.outputPath)
			if err != nil {
				return err
			}
			result, err := app.usecase.Estimate(minteractor.EstimateRequest{
				InputPath:   args[0],
				OutputPath:  opts.outputPath,
				Format:      format,
				UniqueNames: app.config.Output.UniqueNames,
			})
			if err != nil {
				return err
			}
			app.printResult(result)
			if opts.print {
				return app.mappingRep.Encode(app.out, result.Skeleton, moutput.SaveOptions{
					Format:   moutput.MappingFormatText,
					Warnings: result.Detection.Warnings,
				})
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&opts.outputPath, "out", "o", "", "出力パス(未指定時は入力と同じ場所に <名前>_humanoid.<拡張子>)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "出力形式(json/yaml/text)")
	cmd.Flags().BoolVar(&opts.print, "print", false, "推定結果の表を標準出力へ表示する")
	return cmd
}

// resolveFormat はフラグ、出力パス、設定の順に出力形式を決める。
// 出力パスのみ指定された場合は拡張子から推定させるため空を返す。
func (a *appContext) resolveFormat(flagValue string, flagChanged bool, outputPath string) (moutput.MappingFormat, error) {
	if flagChanged {
		format := moutput.MappingFormat(strings.ToLower(strings.TrimSpace(flagValue)))
		if !format.IsValid() {
			return "", fmt.Errorf(messages.MessageFormatInvalid, flagValue)
		}
		return format, nil
	}
	if strings.TrimSpace(outputPath) != "" {
		return "", nil
	}
	return moutput.MappingFormat(a.config.Output.Format), nil
}

// printResult は推定結果の状態行と警告を表示する。
func (a *appContext) printResult(result *minteractor.EstimateResult) {
	color.New(color.FgGreen, color.Bold).Fprintf(a.out, "[%s] ", messages.StatusOk)
	fmt.Fprintf(a.out, messages.LogEstimateSuccess+"\n", result.OutputPath)
	for _, warning := range result.Detection.Warnings {
		color.New(color.FgYellow).Fprintf(a.out, "  "+messages.LogEstimateWarning+"\n", warning)
	}
}
