// 指示: miu200521358
// Package config は設定ファイルと環境変数から実行設定を読み込む。
package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	// ConfigName は設定ファイル名(拡張子なし)。
	ConfigName = "mu_bvh2humanoid"
	// EnvPrefix は環境変数の接頭辞。
	EnvPrefix = "MU_BVH2HUMANOID"
)

// Config は実行設定を表す。
type Config struct {
	Log    LogConfig    `mapstructure:"log"`
	Output OutputConfig `mapstructure:"output"`
	Bvh    BvhConfig    `mapstructure:"bvh"`
}

// LogConfig はログ設定を表す。
type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
}

// OutputConfig はマッピング出力設定を表す。
type OutputConfig struct {
	Format      string `mapstructure:"format" validate:"oneof=json yaml text"`
	UniqueNames bool   `mapstructure:"unique_names"`
}

// BvhConfig はBVH読み込み設定を表す。
type BvhConfig struct {
	Scale        float64 `mapstructure:"scale" validate:"gt=0"`
	ScaleToMeter bool    `mapstructure:"scale_to_meter"`
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// structValidator は共有の検証器を返す。
func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
	})
	return validate
}

// Default は既定値の設定を返す。
func Default() *Config {
	return &Config{
		Log:    LogConfig{Level: "info"},
		Output: OutputConfig{Format: "json"},
		Bvh:    BvhConfig{Scale: 1},
	}
}

// Load は検索パスから設定ファイルを読み込み、環境変数で上書きした設定を返す。
// 検索パス未指定時はカレントディレクトリを探す。設定ファイルが無い場合は既定値を使う。
func Load(searchPaths ...string) (*Config, error) {
	v := newViper()
	if len(searchPaths) == 0 {
		searchPaths = []string{"."}
	}
	for _, path := range searchPaths {
		if strings.TrimSpace(path) != "" {
			v.AddConfigPath(path)
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("設定ファイルの読み込みに失敗しました: %w", err)
		}
	}
	return unmarshal(v)
}

// LoadFile は指定ファイルから設定を読み込む。
func LoadFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("設定ファイルの読み込みに失敗しました(path=%s): %w", path, err)
	}
	return unmarshal(v)
}

// Validate は設定値を検証する。
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("設定が未指定です")
	}
	if err := structValidator().Struct(c); err != nil {
		return fmt.Errorf("設定値が不正です: %w", err)
	}
	return nil
}

// newViper は既定値と環境変数の対応を登録したviperを生成する。
func newViper() *viper.Viper {
	v := viper.New()
	defaults := Default()
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("output.format", defaults.Output.Format)
	v.SetDefault("output.unique_names", defaults.Output.UniqueNames)
	v.SetDefault("bvh.scale", defaults.Bvh.Scale)
	v.SetDefault("bvh.scale_to_meter", defaults.Bvh.ScaleToMeter)

	v.SetConfigName(ConfigName)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// unmarshal は設定を構造体へ展開して検証する。
func unmarshal(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("設定の展開に失敗しました: %w", err)
	}
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	cfg.Output.Format = strings.ToLower(strings.TrimSpace(cfg.Output.Format))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
