// 指示: miu200521358
package merrors

import (
	"errors"
	"fmt"
	"testing"

	"go.uber.org/multierr"
)

func TestEstimateErrorKindDetectionThroughWrapping(t *testing.T) {
	base := NewEstimateError(HipsNotFound, "Root", "腰が見つかりません")
	wrapped := fmt.Errorf("推定に失敗しました: %w", base)

	if !IsHipsNotFoundError(wrapped) {
		t.Fatalf("expected HipsNotFound through wrapping")
	}
	if !IsTopologyError(wrapped) || IsValidationError(wrapped) {
		t.Fatalf("classification mismatch")
	}
	if !errors.Is(wrapped, &EstimateError{Kind: HipsNotFound}) {
		t.Fatalf("errors.Is should match by kind")
	}
	if errors.Is(wrapped, &EstimateError{Kind: NoUniqueRoot}) {
		t.Fatalf("errors.Is should not match other kinds")
	}
}

func TestEstimateErrorKindsThroughCombination(t *testing.T) {
	combined := multierr.Combine(
		NewEstimateError(HeadMisassigned, "LeftHand", "頭が手です"),
		NewEstimateError(SpineDiscontinuous, "", "背骨が不連続です"),
	)
	wrapped := fmt.Errorf("検証失敗: %w", combined)

	kinds := KindOf(wrapped)
	if len(kinds) != 2 || kinds[0] != HeadMisassigned || kinds[1] != SpineDiscontinuous {
		t.Fatalf("kinds mismatch: %v", kinds)
	}
	if !IsHeadMisassignedError(wrapped) || !IsSpineDiscontinuousError(wrapped) {
		t.Fatalf("expected both kinds")
	}
	if IsNeckMisassignedError(wrapped) {
		t.Fatalf("unexpected neck kind")
	}
	if !IsValidationError(wrapped) {
		t.Fatalf("expected validation error")
	}
}

func TestEstimateErrorMessage(t *testing.T) {
	err := NewEstimateError(ArmChainTooShort, "LeftShoulder", "腕チェーンが短すぎます: %d", 2).Wrap(errors.New("cause"))
	want := "[ArmChainTooShort] 腕チェーンが短すぎます: 2 (node=LeftShoulder): cause"
	if err.Error() != want {
		t.Fatalf("message mismatch: got=%s want=%s", err.Error(), want)
	}
	if KindOf(nil) == nil || len(KindOf(nil)) != 0 {
		t.Fatalf("nil error should have no kinds")
	}
}
