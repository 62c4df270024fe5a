// 指示: miu200521358
package bvh

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/miu200521358/mu_bvh2humanoid/pkg/domain/model/merrors"
)

// CollectBvhPaths はディレクトリ配下のBVHファイルを再帰的に列挙する。結果はパス順。
func CollectBvhPaths(root string) ([]string, error) {
	if strings.TrimSpace(root) == "" {
		return nil, merrors.NewIoFileNotFound(root, nil)
	}
	paths := make([]string, 0)
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() {
			if path != root && strings.HasPrefix(entry.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".bvh") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, merrors.NewIoFileNotFound(root, err)
	}
	sort.Strings(paths)
	logBvhDebug("BVH列挙: root=%s count=%d", root, len(paths))
	return paths, nil
}
