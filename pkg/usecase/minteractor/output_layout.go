// 指示: miu200521358
package minteractor

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/miu200521358/mu_bvh2humanoid/pkg/usecase/port/moutput"
)

const defaultOutputSuffix = "_humanoid"

// formatExts は出力形式ごとに許可する拡張子。
var formatExts = map[moutput.MappingFormat][]string{
	moutput.MappingFormatJSON: {".json"},
	moutput.MappingFormatYAML: {".yaml", ".yml"},
	moutput.MappingFormatText: {".txt"},
}

// BuildDefaultOutputPath は入力パスから既定のマッピング出力パスを生成する。
func BuildDefaultOutputPath(inputPath string, format moutput.MappingFormat) string {
	dir := filepath.Dir(inputPath)
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	base = strings.TrimSpace(base)
	if base == "" || base == "." {
		return ""
	}
	if !format.IsValid() {
		format = moutput.MappingFormatJSON
	}
	return filepath.Join(dir, base+defaultOutputSuffix+format.Ext())
}

// formatFromExt は拡張子から出力形式を推定する。
func formatFromExt(path string) (moutput.MappingFormat, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	for format, exts := range formatExts {
		for _, candidate := range exts {
			if ext == candidate {
				return format, true
			}
		}
	}
	return "", false
}

// resolveMappingOutputPath は保存先パスと出力形式を解決し、拡張子を検証する。
func resolveMappingOutputPath(inputPath string, outputPath string, format moutput.MappingFormat) (string, moutput.MappingFormat, error) {
	resolved := strings.TrimSpace(outputPath)
	if format == "" {
		format = moutput.MappingFormatJSON
		if inferred, ok := formatFromExt(resolved); ok {
			format = inferred
		}
	}
	if !format.IsValid() {
		return "", "", fmt.Errorf("未対応の出力形式です: %s", format)
	}
	if resolved == "" {
		resolved = BuildDefaultOutputPath(inputPath, format)
	}
	if strings.TrimSpace(resolved) == "" {
		return "", "", fmt.Errorf("保存先パスが未指定です")
	}
	if inferred, ok := formatFromExt(resolved); !ok || inferred != format {
		return "", "", fmt.Errorf("保存先拡張子が出力形式(%s)と一致しません: %s", format, resolved)
	}
	return resolved, format, nil
}
