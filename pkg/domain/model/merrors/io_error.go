// 指示: miu200521358
package merrors

import (
	"errors"
	"fmt"
)

// IoErrorKind は入出力エラーの種別IDを表す。
type IoErrorKind string

const (
	// IoExtInvalid は拡張子が対象外。
	IoExtInvalid IoErrorKind = "IoExtInvalid"
	// IoFileNotFound はファイルが存在しない。
	IoFileNotFound IoErrorKind = "IoFileNotFound"
	// IoParseFailed は読み込み内容の解析に失敗した。
	IoParseFailed IoErrorKind = "IoParseFailed"
	// IoSaveFailed は保存に失敗した。
	IoSaveFailed IoErrorKind = "IoSaveFailed"
)

// IoError はファイル入出力の失敗を表す。
type IoError struct {
	Kind    IoErrorKind
	Path    string
	Message string
	Err     error
}

// NewIoExtInvalid は拡張子不正エラーを生成する。
func NewIoExtInvalid(path string, err error) *IoError {
	return &IoError{Kind: IoExtInvalid, Path: path, Message: "対応していない拡張子です", Err: err}
}

// NewIoFileNotFound はファイル未検出エラーを生成する。
func NewIoFileNotFound(path string, err error) *IoError {
	return &IoError{Kind: IoFileNotFound, Path: path, Message: "ファイルが見つかりません", Err: err}
}

// NewIoParseFailed は解析失敗エラーを生成する。
func NewIoParseFailed(message string, err error) *IoError {
	return &IoError{Kind: IoParseFailed, Message: message, Err: err}
}

// NewIoSaveFailed は保存失敗エラーを生成する。
func NewIoSaveFailed(message string, err error) *IoError {
	return &IoError{Kind: IoSaveFailed, Message: message, Err: err}
}

// Error はエラーメッセージを返す。
func (e *IoError) Error() string {
	if e == nil {
		return ""
	}
	msg := fmt.Sprintf("[%s] %s", e.Kind, e.Message)
	if e.Path != "" {
		msg += fmt.Sprintf(" (path=%s)", e.Path)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap は原因エラーを返す。
func (e *IoError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// isIoKind は入出力エラー種別を判定する。
func isIoKind(err error, kind IoErrorKind) bool {
	var ioErr *IoError
	return errors.As(err, &ioErr) && ioErr.Kind == kind
}

// IsIoError は入出力エラーか判定する。
func IsIoError(err error) bool {
	var ioErr *IoError
	return errors.As(err, &ioErr)
}

// IsIoExtInvalidError は拡張子不正エラーか判定する。
func IsIoExtInvalidError(err error) bool {
	return isIoKind(err, IoExtInvalid)
}

// IsIoFileNotFoundError はファイル未検出エラーか判定する。
func IsIoFileNotFoundError(err error) bool {
	return isIoKind(err, IoFileNotFound)
}

// IsIoParseFailedError は解析失敗エラーか判定する。
func IsIoParseFailedError(err error) bool {
	return isIoKind(err, IoParseFailed)
}

// IsIoSaveFailedError は保存失敗エラーか判定する。
func IsIoSaveFailedError(err error) bool {
	return isIoKind(err, IoSaveFailed)
}
