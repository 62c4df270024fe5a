// 指示: miu200521358
// Package cli はコマンドラインの入口を提供する。
package cli

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/fatih/color"
	"github.com/miu200521358/mu_bvh2humanoid/pkg/adapter/io_model/bvh"
	"github.com/miu200521358/mu_bvh2humanoid/pkg/adapter/io_model/mapping"
	"github.com/miu200521358/mu_bvh2humanoid/pkg/adapter/io_model/tree"
	"github.com/miu200521358/mu_bvh2humanoid/pkg/adapter/io_model/vrm"
	"github.com/miu200521358/mu_bvh2humanoid/pkg/adapter/mpresenter/messages"
	"github.com/miu200521358/mu_bvh2humanoid/pkg/infra/base/config"
	"github.com/miu200521358/mu_bvh2humanoid/pkg/infra/base/mlogging"
	"github.com/miu200521358/mu_bvh2humanoid/pkg/shared/base/logging"
	"github.com/miu200521358/mu_bvh2humanoid/pkg/usecase/minteractor"
	"github.com/miu200521358/mu_bvh2humanoid/pkg/usecase/port/moutput"
	"github.com/spf13/cobra"
)

// Version はビルド時に埋め込むバージョン。
var Version = "dev"

// appContext はサブコマンド間で共有する実行状態を表す。
type appContext struct {
	out        io.Writer
	errOut     io.Writer
	configPath string
	logLevel   string
	config     *config.Config
	logger     *mlogging.Logger
	bvhRepo    *bvh.BvhRepository
	mappingRep *mapping.MappingRepository
	usecase    *minteractor.Bvh2HumanoidUsecase
}

// NewRootCommand はルートコマンドを生成する。
func NewRootCommand(out io.Writer, errOut io.Writer) *cobra.Command {
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	app := &appContext{out: out, errOut: errOut}

	rootCmd := &cobra.Command{
		Use:           "mu_bvh2humanoid",
		Short:         messages.HelpRootShort,
		Long:          color.CyanString("mu_bvh2humanoid - " + messages.HelpRootShort),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			app.teardown()
		},
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)
	rootCmd.PersistentFlags().StringVar(&app.configPath, "config", "", "設定ファイルパス(未指定時はカレントの mu_bvh2humanoid.yaml)")
	rootCmd.PersistentFlags().StringVar(&app.logLevel, "log-level", "", "ログレベル(debug/info/warn/error)")

	rootCmd.AddCommand(newEstimateCommand(app))
	rootCmd.AddCommand(newBatchCommand(app))
	rootCmd.AddCommand(newBonesCommand(app))
	rootCmd.AddCommand(newVersionCommand(app))
	return rootCmd
}

// setup は設定とロガーを読み込み、ユースケースを組み立てる。
func (a *appContext) setup() error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	if level := strings.TrimSpace(a.logLevel); level != "" {
		cfg.Log.Level = strings.ToLower(level)
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	a.config = cfg

	a.logger = mlogging.NewLogger(a.errOut)
	a.logger.SetLevel(logging.ParseLogLevel(cfg.Log.Level))
	logging.SetDefaultLogger(a.logger)

	a.bvhRepo = bvh.NewBvhRepository()
	a.bvhRepo.SetScale(cfg.Bvh.Scale)
	a.bvhRepo.SetScaleToMeter(cfg.Bvh.ScaleToMeter)
	a.mappingRep = mapping.NewMappingRepository()
	a.usecase = minteractor.NewBvh2HumanoidUsecase(minteractor.Bvh2HumanoidUsecaseDeps{
		ModelReaders:  []moutput.IBoneTreeReader{a.bvhRepo, vrm.NewVrmRepository(), tree.NewTreeRepository()},
		MappingWriter: a.mappingRep,
	})
	return nil
}

// loadConfig は設定ファイル指定の有無に応じて設定を読み込む。
func (a *appContext) loadConfig() (*config.Config, error) {
	if strings.TrimSpace(a.configPath) != "" {
		return config.LoadFile(a.configPath)
	}
	return config.Load(".")
}

// teardown はバッファ済みログを書き出す。
func (a *appContext) teardown() {
	if a.logger == nil {
		return
	}
	_ = a.logger.Sync()
}

// newVersionCommand はバージョン表示コマンドを生成する。
func newVersionCommand(app *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: messages.HelpVersionShort,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			titleColor := color.New(color.FgCyan, color.Bold)
			titleColor.Fprint(app.out, "mu_bvh2humanoid version: ")
			fmt.Fprintln(app.out, Version)
			titleColor.Fprint(app.out, "Go version: ")
			fmt.Fprintln(app.out, runtime.Version())
		},
	}
}
