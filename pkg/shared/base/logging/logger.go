// 指示: miu200521358
// Package logging はログ出力の共通契約と既定ロガーを提供する。
package logging

import (
	"strings"
	"sync"
)

// LogLevel はログレベルを表す。
type LogLevel int

const (
	LOG_LEVEL_DEBUG LogLevel = iota
	LOG_LEVEL_INFO
	LOG_LEVEL_WARN
	LOG_LEVEL_ERROR
)

// ILogger はログ出力契約を表す。
type ILogger interface {
	Debug(format string, params ...any)
	Info(format string, params ...any)
	Warn(format string, params ...any)
	Error(format string, params ...any)
	// With は構造化フィールドを付与した派生ロガーを返す。
	With(key string, value any) ILogger
	SetLevel(level LogLevel)
	Level() LogLevel
}

var (
	defaultLoggerMu sync.RWMutex
	defaultLogger   ILogger
)

// DefaultLogger は既定ロガーを返す。未設定時はnil。
func DefaultLogger() ILogger {
	defaultLoggerMu.RLock()
	defer defaultLoggerMu.RUnlock()
	return defaultLogger
}

// SetDefaultLogger は既定ロガーを差し替える。
func SetDefaultLogger(logger ILogger) {
	defaultLoggerMu.Lock()
	defer defaultLoggerMu.Unlock()
	defaultLogger = logger
}

// ParseLogLevel は文字列からログレベルを解決する。未知の値はINFO。
func ParseLogLevel(value string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return LOG_LEVEL_DEBUG
	case "warn", "warning":
		return LOG_LEVEL_WARN
	case "error":
		return LOG_LEVEL_ERROR
	default:
		return LOG_LEVEL_INFO
	}
}

// String はログレベル名を返す。
func (l LogLevel) String() string {
	switch l {
	case LOG_LEVEL_DEBUG:
		return "debug"
	case LOG_LEVEL_WARN:
		return "warn"
	case LOG_LEVEL_ERROR:
		return "error"
	default:
		return "info"
	}
}
