// 指示: miu200521358
package merrors

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
)

// ErrorKind は骨格推定エラーの種別IDを表す。
type ErrorKind string

const (
	// NoUniqueRoot は親を持たないノードが1つでない。
	NoUniqueRoot ErrorKind = "NoUniqueRoot"
	// HipsNotFound は子を3つ持つノードが見つからない。
	HipsNotFound ErrorKind = "HipsNotFound"
	// SpineTooShort は背骨チェーンが2本未満。
	SpineTooShort ErrorKind = "SpineTooShort"
	// LegChainTooShort は脚チェーンが3本未満。
	LegChainTooShort ErrorKind = "LegChainTooShort"
	// ArmChainTooShort は腕チェーンが4本未満。
	ArmChainTooShort ErrorKind = "ArmChainTooShort"
	// ChestSplitFailed は胸の子から首と肩を判別できない。
	ChestSplitFailed ErrorKind = "ChestSplitFailed"
	// HeadNotFound は首から頭へのチェーンが空。
	HeadNotFound ErrorKind = "HeadNotFound"
	// IncompleteMap は必須スロットが未設定。
	IncompleteMap ErrorKind = "IncompleteMap"
	// DuplicateAssignment は同一ノードを複数スロットへ割り当てようとした。
	DuplicateAssignment ErrorKind = "DuplicateAssignment"
	// HeadMisassigned は頭に手/指ボーンが割り当たった。
	HeadMisassigned ErrorKind = "HeadMisassigned"
	// NeckMisassigned は首に肩ボーンが割り当たった。
	NeckMisassigned ErrorKind = "NeckMisassigned"
	// SpineDiscontinuous は背骨スロット間が親子系列で繋がっていない。
	SpineDiscontinuous ErrorKind = "SpineDiscontinuous"
)

// topologyKinds は分類処理中に検出される種別。
var topologyKinds = map[ErrorKind]struct{}{
	NoUniqueRoot:        {},
	HipsNotFound:        {},
	SpineTooShort:       {},
	LegChainTooShort:    {},
	ArmChainTooShort:    {},
	ChestSplitFailed:    {},
	HeadNotFound:        {},
	IncompleteMap:       {},
	DuplicateAssignment: {},
}

// validationKinds は検証処理で検出される種別。
var validationKinds = map[ErrorKind]struct{}{
	HeadMisassigned:    {},
	NeckMisassigned:    {},
	SpineDiscontinuous: {},
}

// EstimateError は骨格推定の失敗を表す。
type EstimateError struct {
	Kind     ErrorKind
	Message  string
	NodeName string
	Err      error
}

// NewEstimateError は種別付きの推定エラーを生成する。
func NewEstimateError(kind ErrorKind, nodeName string, format string, params ...any) *EstimateError {
	return &EstimateError{
		Kind:     kind,
		Message:  fmt.Sprintf(format, params...),
		NodeName: nodeName,
	}
}

// Wrap は原因エラーを保持した推定エラーを返す。
func (e *EstimateError) Wrap(err error) *EstimateError {
	if e == nil {
		return nil
	}
	e.Err = err
	return e
}

// Error はエラー文字列を返す。
func (e *EstimateError) Error() string {
	if e == nil {
		return ""
	}
	msg := fmt.Sprintf("[%s] %s", e.Kind, e.Message)
	if e.NodeName != "" {
		msg += fmt.Sprintf(" (node=%s)", e.NodeName)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap は原因エラーを返す。
func (e *EstimateError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is は同じ種別の推定エラーであれば一致とみなす。
func (e *EstimateError) Is(target error) bool {
	var other *EstimateError
	if !errors.As(target, &other) || e == nil || other == nil {
		return false
	}
	return e.Kind == other.Kind
}

// KindOf はエラー連鎖に含まれる推定エラー種別を出現順に全て返す。
func KindOf(err error) []ErrorKind {
	kinds := make([]ErrorKind, 0)
	pending := []error{err}
	for len(pending) > 0 {
		current := pending[0]
		pending = pending[1:]
		if current == nil {
			continue
		}
		if estimateErr, ok := current.(*EstimateError); ok {
			kinds = append(kinds, estimateErr.Kind)
			pending = append(pending, estimateErr.Err)
			continue
		}
		if group := multierr.Errors(current); len(group) > 1 {
			pending = append(group, pending...)
			continue
		}
		if joined, ok := current.(interface{ Unwrap() []error }); ok {
			pending = append(joined.Unwrap(), pending...)
			continue
		}
		pending = append([]error{errors.Unwrap(current)}, pending...)
	}
	return kinds
}

// hasKind はエラー連鎖に指定種別が含まれるか判定する。
func hasKind(err error, kind ErrorKind) bool {
	for _, k := range KindOf(err) {
		if k == kind {
			return true
		}
	}
	return false
}

// hasAnyKind はエラー連鎖に指定集合の種別が含まれるか判定する。
func hasAnyKind(err error, kinds map[ErrorKind]struct{}) bool {
	for _, k := range KindOf(err) {
		if _, ok := kinds[k]; ok {
			return true
		}
	}
	return false
}

// IsTopologyError は分類処理のエラーか判定する。
func IsTopologyError(err error) bool {
	return hasAnyKind(err, topologyKinds)
}

// IsValidationError は検証処理のエラーか判定する。
func IsValidationError(err error) bool {
	return hasAnyKind(err, validationKinds)
}

// IsNoUniqueRootError はルート不一致エラーか判定する。
func IsNoUniqueRootError(err error) bool {
	return hasKind(err, NoUniqueRoot)
}

// IsHipsNotFoundError は腰未検出エラーか判定する。
func IsHipsNotFoundError(err error) bool {
	return hasKind(err, HipsNotFound)
}

// IsSpineTooShortError は背骨チェーン不足エラーか判定する。
func IsSpineTooShortError(err error) bool {
	return hasKind(err, SpineTooShort)
}

// IsLegChainTooShortError は脚チェーン不足エラーか判定する。
func IsLegChainTooShortError(err error) bool {
	return hasKind(err, LegChainTooShort)
}

// IsArmChainTooShortError は腕チェーン不足エラーか判定する。
func IsArmChainTooShortError(err error) bool {
	return hasKind(err, ArmChainTooShort)
}

// IsChestSplitFailedError は胸分岐判定エラーか判定する。
func IsChestSplitFailedError(err error) bool {
	return hasKind(err, ChestSplitFailed)
}

// IsHeadNotFoundError は頭未検出エラーか判定する。
func IsHeadNotFoundError(err error) bool {
	return hasKind(err, HeadNotFound)
}

// IsIncompleteMapError は必須スロット不足エラーか判定する。
func IsIncompleteMapError(err error) bool {
	return hasKind(err, IncompleteMap)
}

// IsDuplicateAssignmentError は重複割り当てエラーか判定する。
func IsDuplicateAssignmentError(err error) bool {
	return hasKind(err, DuplicateAssignment)
}

// IsHeadMisassignedError は頭割り当て不正エラーか判定する。
func IsHeadMisassignedError(err error) bool {
	return hasKind(err, HeadMisassigned)
}

// IsNeckMisassignedError は首割り当て不正エラーか判定する。
func IsNeckMisassignedError(err error) bool {
	return hasKind(err, NeckMisassigned)
}

// IsSpineDiscontinuousError は背骨不連続エラーか判定する。
func IsSpineDiscontinuousError(err error) bool {
	return hasKind(err, SpineDiscontinuous)
}
