// 指示: miu200521358
package minteractor

import (
	"strings"

	"golang.org/x/text/cases"
)

var (
	// shoulderBranchPatterns は胸判定時に肩/首とみなす子の名前パターン。
	shoulderBranchPatterns = []string{"shoulder", "neck", "clav", "arm"}
	// spineExcludePatterns は背骨走査で次候補から除外する名前パターン。
	spineExcludePatterns = []string{"shoulder", "neck", "arm"}
	// shoulderNamePatterns は胸の子を肩とみなす名前パターン。
	shoulderNamePatterns = []string{"shoulder", "clavicle", "arm"}
	// neckNamePatterns は胸の子を首とみなす名前パターン。
	neckNamePatterns = []string{"neck", "head"}
	// neckRejectPatterns は首として不正な名前パターン。
	neckRejectPatterns = []string{"shoulder", "hand"}
	// headStopPatterns は首から頭への走査を打ち切る名前パターン。
	headStopPatterns = []string{"shoulder", "arm"}
	// headMisassignPatterns は頭として不正な名前パターン。
	headMisassignPatterns = []string{"hand", "finger"}
	// neckMisassignPatterns は首として不正な名前パターン。
	neckMisassignPatterns = []string{"shoulder"}
)

// foldName は大文字小文字を無視した比較用にボーン名を畳み込む。
// cases.Caser は状態を持つため呼び出し毎に生成する。
func foldName(name string) string {
	return cases.Fold().String(name)
}

// containsFold は大文字小文字を無視して部分一致を判定する。
func containsFold(name string, pattern string) bool {
	return strings.Contains(foldName(name), foldName(pattern))
}

// containsAnyFold はいずれかのパターンに大文字小文字を無視して部分一致するか判定する。
func containsAnyFold(name string, patterns []string) bool {
	folded := foldName(name)
	for _, pattern := range patterns {
		if strings.Contains(folded, foldName(pattern)) {
			return true
		}
	}
	return false
}

// isButtockName は脚チェーンから除外する臀部ボーン名か判定する。
func isButtockName(name string) bool {
	return containsFold(name, "buttock")
}

// isUpperLegName は太もも名か判定する。BVHの命名に合わせ大文字小文字を区別する。
func isUpperLegName(name string) bool {
	return strings.Contains(name, "UpLeg") || strings.Contains(name, "Upper")
}

// isLowerLegName はすね名か判定する。
func isLowerLegName(name string) bool {
	return strings.Contains(name, "Leg") && !strings.Contains(name, "Up") && !strings.Contains(name, "End")
}

// isFootName は足首名か判定する。
func isFootName(name string) bool {
	return strings.Contains(name, "Foot")
}

// isToeName はつま先名か判定する。
func isToeName(name string) bool {
	return strings.Contains(name, "Toe")
}
