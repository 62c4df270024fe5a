// 指示: miu200521358
// Package vrm はVRM/glTFのノード階層をボーン一覧として読み込む。
package vrm

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/miu200521358/mu_bvh2humanoid/pkg/domain/model"
	"github.com/miu200521358/mu_bvh2humanoid/pkg/domain/model/merrors"
	"github.com/miu200521358/mu_bvh2humanoid/pkg/shared/base/logging"
	"gonum.org/v1/gonum/spatial/r3"
)

// LoadProgressEventType はVRM読込進捗イベント種別を表す。
type LoadProgressEventType string

const (
	// LoadProgressEventTypeFileReadComplete はファイル読込完了イベントを表す。
	LoadProgressEventTypeFileReadComplete LoadProgressEventType = "file_read_complete"
	// LoadProgressEventTypeJsonParsed はJSON解析完了イベントを表す。
	LoadProgressEventTypeJsonParsed LoadProgressEventType = "json_parsed"
	// LoadProgressEventTypeCompleted はVRM読込完了イベントを表す。
	LoadProgressEventTypeCompleted LoadProgressEventType = "completed"
)

// LoadProgressEvent はVRM読込進捗イベントを表す。
type LoadProgressEvent struct {
	Type          LoadProgressEventType
	FileSizeBytes int
	NodeCount     int
}

// VrmRepository はVRM/glTF入力の読み込みを表す。
type VrmRepository struct {
	loadProgressReporter func(LoadProgressEvent)
}

// NewVrmRepository はVrmRepositoryを生成する。
func NewVrmRepository() *VrmRepository {
	return &VrmRepository{}
}

// SetLoadProgressReporter は読込進捗通知先を設定する。
func (r *VrmRepository) SetLoadProgressReporter(reporter func(LoadProgressEvent)) {
	if r == nil {
		return
	}
	r.loadProgressReporter = reporter
}

// CanLoad は拡張子に応じて読み込み可否を判定する。
func (r *VrmRepository) CanLoad(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".vrm", ".glb", ".gltf":
		return true
	default:
		return false
	}
}

// Load はVRM/glTFのノード階層を読み込み平坦化済みボーン一覧を返す。
// 骨格の根はVRMが宣言する hips の最上位祖先、無ければ最大のシーン根とする。
func (r *VrmRepository) Load(path string) (*model.BoneNodes, error) {
	if !r.CanLoad(path) {
		return nil, merrors.NewIoExtInvalid(path, nil)
	}
	logVrmInfo("VRM読込開始: file=%s", filepath.Base(path))
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, merrors.NewIoFileNotFound(path, err)
		}
		return nil, merrors.NewIoParseFailed("VRMファイルの読み取りに失敗しました", err)
	}
	r.reportLoadProgress(LoadProgressEvent{Type: LoadProgressEventTypeFileReadComplete, FileSizeBytes: len(b)})

	jsonChunk := b
	if !strings.EqualFold(filepath.Ext(path), ".gltf") {
		jsonChunk, err = parseGLBJSONChunk(b)
		if err != nil {
			return nil, err
		}
	}
	doc, err := decodeGltfDocument(jsonChunk)
	if err != nil {
		return nil, err
	}
	version := detectVrmVersion(doc)
	logVrmDebug("VRM読込ステップ: JSON解析完了 nodes=%d version=%s generator=%s", len(doc.Nodes), version, doc.Asset.Generator)
	r.reportLoadProgress(LoadProgressEvent{Type: LoadProgressEventTypeJsonParsed, NodeCount: len(doc.Nodes)})

	nodes, err := buildBoneNodes(doc, version)
	if err != nil {
		return nil, err
	}
	r.reportLoadProgress(LoadProgressEvent{Type: LoadProgressEventTypeCompleted, NodeCount: nodes.Len()})
	logVrmInfo("VRM読込完了: nodes=%d/%d", nodes.Len(), len(doc.Nodes))
	return nodes, nil
}

// buildBoneNodes はglTF文書から骨格の部分木をボーン一覧へ変換する。
func buildBoneNodes(doc *gltfDocument, version vrmVersion) (*model.BoneNodes, error) {
	parents, err := buildNodeParentIndexes(doc.Nodes)
	if err != nil {
		return nil, err
	}
	positions, err := buildNodeWorldPositions(doc.Nodes, parents)
	if err != nil {
		return nil, err
	}
	axis := axisForVersion(version)
	for i := range positions {
		positions[i] = r3.Vec{X: positions[i].X * axis.X, Y: positions[i].Y * axis.Y, Z: positions[i].Z * axis.Z}
	}

	root, err := selectSkeletonRoot(doc, parents, version)
	if err != nil {
		return nil, err
	}
	nodes, err := model.BuildBoneNodes(&gltfHierarchyNode{
		doc:       doc,
		index:     root,
		positions: positions,
		parentPos: r3.Vec{},
	})
	if err != nil {
		return nil, merrors.NewIoParseFailed("VRM階層の平坦化に失敗しました", err)
	}
	return nodes, nil
}

// axisForVersion は+Z前向きかつ左が-Xとなる軸反転を返す。
// VRM0は-Z前向きのためZを反転し、VRM1と素のglTFは+Z前向きのためXを反転する。
func axisForVersion(version vrmVersion) r3.Vec {
	if version == vrmVersion0 {
		return r3.Vec{X: 1, Y: 1, Z: -1}
	}
	return r3.Vec{X: -1, Y: 1, Z: 1}
}

// selectSkeletonRoot は骨格とみなす部分木の根nodeを決める。
func selectSkeletonRoot(doc *gltfDocument, parents []int, version vrmVersion) (int, error) {
	if hips, ok := declaredHipsNode(doc, version); ok {
		if hips < 0 || hips >= len(doc.Nodes) {
			return -1, merrors.NewIoParseFailed("VRM humanoid の hips node が不正です", fmt.Errorf("index=%d", hips))
		}
		root := hips
		for steps := 0; parents[root] >= 0 && steps < len(parents); steps++ {
			root = parents[root]
		}
		logVrmDebug("VRM宣言の hips から骨格根を決定: hips=%s root=%s", doc.Nodes[hips].Name, doc.Nodes[root].Name)
		return root, nil
	}

	candidates := sceneRootNodes(doc, parents)
	best, bestSize := -1, 0
	for _, candidate := range candidates {
		if size := countSubtree(doc.Nodes, candidate); size > bestSize {
			best, bestSize = candidate, size
		}
	}
	if best < 0 {
		return -1, merrors.NewIoParseFailed("glTFに根nodeがありません", nil)
	}
	if len(candidates) > 1 {
		logVrmDebug("最大のシーン根を骨格根とします: root=%s size=%d candidates=%d", doc.Nodes[best].Name, bestSize, len(candidates))
	}
	return best, nil
}

// sceneRootNodes は既定シーンの根node一覧を返す。シーン定義が無ければ親を持たないnode。
func sceneRootNodes(doc *gltfDocument, parents []int) []int {
	sceneIndex := 0
	if doc.Scene != nil {
		sceneIndex = *doc.Scene
	}
	if sceneIndex >= 0 && sceneIndex < len(doc.Scenes) {
		roots := make([]int, 0, len(doc.Scenes[sceneIndex].Nodes))
		for _, index := range doc.Scenes[sceneIndex].Nodes {
			if index >= 0 && index < len(doc.Nodes) {
				roots = append(roots, index)
			}
		}
		if len(roots) > 0 {
			return roots
		}
	}
	roots := make([]int, 0, 1)
	for i, parent := range parents {
		if parent < 0 {
			roots = append(roots, i)
		}
	}
	return roots
}

// countSubtree は自身を含む部分木のnode数を返す。
func countSubtree(nodes []gltfNode, root int) int {
	count := 0
	visited := make(map[int]struct{}, len(nodes))
	stack := []int{root}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, seen := visited[current]; seen {
			continue
		}
		visited[current] = struct{}{}
		count++
		stack = append(stack, nodes[current].Children...)
	}
	return count
}

// gltfHierarchyNode はglTF nodeを階層ノードとして公開する。
type gltfHierarchyNode struct {
	doc       *gltfDocument
	index     int
	positions []r3.Vec
	parentPos r3.Vec
}

func (n *gltfHierarchyNode) NodeName() string {
	return resolveNodeName(n.index, n.doc.Nodes[n.index].Name)
}

func (n *gltfHierarchyNode) LocalOffset() r3.Vec {
	return r3.Sub(n.positions[n.index], n.parentPos)
}

func (n *gltfHierarchyNode) ChildNodes() []model.IHierarchyNode {
	children := n.doc.Nodes[n.index].Children
	nodes := make([]model.IHierarchyNode, 0, len(children))
	for _, child := range children {
		nodes = append(nodes, &gltfHierarchyNode{
			doc:       n.doc,
			index:     child,
			positions: n.positions,
			parentPos: n.positions[n.index],
		})
	}
	return nodes
}

// resolveNodeName はnode名を決定する。空名はindexから補う。
func resolveNodeName(nodeIndex int, nodeName string) string {
	trimmed := strings.TrimSpace(nodeName)
	if trimmed != "" {
		return trimmed
	}
	return fmt.Sprintf("node_%03d", nodeIndex)
}

// reportLoadProgress は読込進捗を通知する。
func (r *VrmRepository) reportLoadProgress(event LoadProgressEvent) {
	if r == nil || r.loadProgressReporter == nil {
		return
	}
	r.loadProgressReporter(event)
}

// logVrmInfo はVRM読込のINFOログを出力する。
func logVrmInfo(format string, params ...any) {
	logger := logging.DefaultLogger()
	if logger == nil {
		return
	}
	logger.Info(format, params...)
}

// logVrmDebug はVRM読込のDEBUGログを出力する。
func logVrmDebug(format string, params ...any) {
	logger := logging.DefaultLogger()
	if logger == nil {
		return
	}
	logger.Debug(format, params...)
}
