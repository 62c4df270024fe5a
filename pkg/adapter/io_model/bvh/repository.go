// 指示: miu200521358
package bvh

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/miu200521358/mu_bvh2humanoid/pkg/domain/model"
	"github.com/miu200521358/mu_bvh2humanoid/pkg/domain/model/merrors"
	"github.com/miu200521358/mu_bvh2humanoid/pkg/shared/base/logging"
	"gonum.org/v1/gonum/spatial/r3"
)

// BvhRepository はBVH入力の読み込みを表す。
type BvhRepository struct {
	scale        float64
	scaleToMeter bool
}

// NewBvhRepository はBvhRepositoryを生成する。
func NewBvhRepository() *BvhRepository {
	return &BvhRepository{scale: 1}
}

// SetScale はオフセットへ掛ける倍率を設定する。0以下は等倍として扱う。
func (r *BvhRepository) SetScale(scale float64) {
	if r == nil {
		return
	}
	if scale <= 0 {
		scale = 1
	}
	r.scale = scale
}

// SetScaleToMeter は腰の高さを1とする正規化の有無を設定する。
func (r *BvhRepository) SetScaleToMeter(enabled bool) {
	if r == nil {
		return
	}
	r.scaleToMeter = enabled
}

// CanLoad は拡張子に応じて読み込み可否を判定する。
func (r *BvhRepository) CanLoad(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".bvh")
}

// LoadBvh はBVHファイルを解析する。
func (r *BvhRepository) LoadBvh(path string) (*Bvh, error) {
	if !r.CanLoad(path) {
		return nil, merrors.NewIoExtInvalid(path, nil)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, merrors.NewIoFileNotFound(path, err)
		}
		return nil, merrors.NewIoParseFailed("BVHファイルの読み取りに失敗しました", err)
	}
	logBvhDebug("BVH読込ステップ: ファイル読み取り完了 bytes=%d", len(b))

	parsed, err := Parse(bytes.NewReader(b))
	if err != nil {
		return nil, merrors.NewIoParseFailed("BVHの解析に失敗しました", err)
	}
	return parsed, nil
}

// Load はBVHを読み込み平坦化済みボーン一覧を返す。
func (r *BvhRepository) Load(path string) (*model.BoneNodes, error) {
	logBvhInfo("BVH読込開始: file=%s", filepath.Base(path))
	parsed, err := r.LoadBvh(path)
	if err != nil {
		return nil, err
	}

	scale := r.scale
	if r.scaleToMeter {
		hipHeight, ok := parsed.HipHeight()
		if !ok || hipHeight <= 0 {
			return nil, merrors.NewIoParseFailed(
				"腰の高さを取得できないため正規化できません", fmt.Errorf("hipHeight=%v", hipHeight))
		}
		scale *= 1 / hipHeight
		logBvhDebug("腰の高さで正規化します: hipHeight=%.4f scale=%.6f", hipHeight, scale)
	}

	nodes, err := model.BuildBoneNodes(&scaledJoint{joint: parsed.Root, scale: scale})
	if err != nil {
		return nil, merrors.NewIoParseFailed("BVH階層の平坦化に失敗しました", err)
	}
	logBvhInfo("BVH読込完了: joints=%d frames=%d frameTime=%.6f", nodes.Len(), parsed.Frames, parsed.FrameTime)
	return nodes, nil
}

// scaledJoint は倍率を掛けたオフセットを返す階層ノード。
type scaledJoint struct {
	joint *Joint
	scale float64
}

func (s *scaledJoint) NodeName() string {
	return s.joint.NodeName()
}

func (s *scaledJoint) LocalOffset() r3.Vec {
	return r3.Scale(s.scale, s.joint.LocalOffset())
}

func (s *scaledJoint) ChildNodes() []model.IHierarchyNode {
	children := s.joint.ChildNodes()
	scaled := make([]model.IHierarchyNode, 0, len(children))
	for _, child := range children {
		scaled = append(scaled, &scaledJoint{joint: child.(*Joint), scale: s.scale})
	}
	return scaled
}

// logBvhInfo はBVH読込のINFOログを出力する。
func logBvhInfo(format string, params ...any) {
	logger := logging.DefaultLogger()
	if logger == nil {
		return
	}
	logger.Info(format, params...)
}

// logBvhDebug はBVH読込のデバッグログを出力する。
func logBvhDebug(format string, params ...any) {
	logger := logging.DefaultLogger()
	if logger == nil {
		return
	}
	logger.Debug(format, params...)
}
