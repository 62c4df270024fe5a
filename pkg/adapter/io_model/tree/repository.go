// 指示: miu200521358
package tree

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/miu200521358/mu_bvh2humanoid/pkg/domain/model"
	"github.com/miu200521358/mu_bvh2humanoid/pkg/domain/model/merrors"
	"github.com/miu200521358/mu_bvh2humanoid/pkg/shared/base/logging"
	"gopkg.in/yaml.v3"
)

// TreeRepository はJSON/YAMLのボーン階層読み込みを表す。
type TreeRepository struct {
	validate *validator.Validate
}

// NewTreeRepository はTreeRepositoryを生成する。
func NewTreeRepository() *TreeRepository {
	return &TreeRepository{validate: validator.New()}
}

// CanLoad は拡張子に応じて読み込み可否を判定する。
func (r *TreeRepository) CanLoad(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}

// Decode は拡張子に応じて階層ファイルを解析し検証する。
func (r *TreeRepository) Decode(ext string, b []byte) (*TreeDocument, error) {
	doc := &TreeDocument{}
	switch strings.ToLower(ext) {
	case ".json":
		decoder := json.NewDecoder(bytes.NewReader(b))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(doc); err != nil {
			return nil, fmt.Errorf("JSONの解析に失敗しました: %w", err)
		}
	case ".yaml", ".yml":
		decoder := yaml.NewDecoder(bytes.NewReader(b))
		decoder.KnownFields(true)
		if err := decoder.Decode(doc); err != nil {
			return nil, fmt.Errorf("YAMLの解析に失敗しました: %w", err)
		}
	default:
		return nil, fmt.Errorf("未対応の拡張子です: %s", ext)
	}
	if err := r.validate.Struct(doc); err != nil {
		return nil, fmt.Errorf("階層定義が不正です: %w", err)
	}
	return doc, nil
}

// Load は階層ファイルを読み込み平坦化済みボーン一覧を返す。
func (r *TreeRepository) Load(path string) (*model.BoneNodes, error) {
	if !r.CanLoad(path) {
		return nil, merrors.NewIoExtInvalid(path, nil)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, merrors.NewIoFileNotFound(path, err)
		}
		return nil, merrors.NewIoParseFailed("階層ファイルの読み取りに失敗しました", err)
	}

	doc, err := r.Decode(filepath.Ext(path), b)
	if err != nil {
		return nil, merrors.NewIoParseFailed("階層ファイルの解析に失敗しました", err)
	}

	var nodes *model.BoneNodes
	if doc.Root != nil {
		nodes, err = model.BuildBoneNodes(doc.Root)
	} else {
		var records []model.BoneRecord
		records, err = model.ReorderRecordsDepthFirst(doc.Records())
		if err == nil {
			nodes, err = model.NewBoneNodesFromRecords(records)
		}
	}
	if err != nil {
		return nil, merrors.NewIoParseFailed("階層の平坦化に失敗しました", err)
	}
	if logger := logging.DefaultLogger(); logger != nil {
		logger.Info("階層読込完了: file=%s bones=%d", filepath.Base(path), nodes.Len())
	}
	return nodes, nil
}
