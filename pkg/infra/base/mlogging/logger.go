// 指示: miu200521358
package mlogging

import (
	"fmt"
	"io"
	"os"

	"github.com/miu200521358/mu_bvh2humanoid/pkg/shared/base/logging"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger は zap を用いた ILogger 実装を表す。
type Logger struct {
	sugar *zap.SugaredLogger
	level zap.AtomicLevel
}

// NewLogger は出力先へ書き込むロガーを生成する。nilの場合は標準エラー。
func NewLogger(out io.Writer) *Logger {
	if out == nil {
		out = os.Stderr
	}
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.TimeKey = ""
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(out),
		level,
	)
	return &Logger{sugar: zap.New(core).Sugar(), level: level}
}

// Debug はDEBUGログを出力する。
func (l *Logger) Debug(format string, params ...any) {
	l.sugar.Debugf(format, params...)
}

// Info はINFOログを出力する。
func (l *Logger) Info(format string, params ...any) {
	l.sugar.Infof(format, params...)
}

// Warn はWARNログを出力する。
func (l *Logger) Warn(format string, params ...any) {
	l.sugar.Warnf(format, params...)
}

// Error はERRORログを出力する。
func (l *Logger) Error(format string, params ...any) {
	l.sugar.Errorf(format, params...)
}

// With は構造化フィールドを付与した派生ロガーを返す。レベルは共有する。
func (l *Logger) With(key string, value any) logging.ILogger {
	return &Logger{sugar: l.sugar.With(key, value), level: l.level}
}

// SetLevel はログレベルを変更する。
func (l *Logger) SetLevel(level logging.LogLevel) {
	l.level.SetLevel(toZapLevel(level))
}

// Level は現在のログレベルを返す。
func (l *Logger) Level() logging.LogLevel {
	switch l.level.Level() {
	case zapcore.DebugLevel:
		return logging.LOG_LEVEL_DEBUG
	case zapcore.WarnLevel:
		return logging.LOG_LEVEL_WARN
	case zapcore.ErrorLevel:
		return logging.LOG_LEVEL_ERROR
	default:
		return logging.LOG_LEVEL_INFO
	}
}

// Sync はバッファ済みログを書き出す。
func (l *Logger) Sync() error {
	if err := l.sugar.Sync(); err != nil {
		return fmt.Errorf("ログの書き出しに失敗しました: %w", err)
	}
	return nil
}

// toZapLevel はログレベルをzapのレベルへ変換する。
func toZapLevel(level logging.LogLevel) zapcore.Level {
	switch level {
	case logging.LOG_LEVEL_DEBUG:
		return zapcore.DebugLevel
	case logging.LOG_LEVEL_WARN:
		return zapcore.WarnLevel
	case logging.LOG_LEVEL_ERROR:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
