// 指示: miu200521358
package vrm

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/miu200521358/mu_bvh2humanoid/pkg/domain/model/merrors"
)

const (
	glbHeaderLength   = 12
	glbChunkHeadSize  = 8
	glbMagic          = 0x46546C67
	glbVersion        = 2
	glbJSONChunkType  = 0x4E4F534A
	glbMinValidLength = glbHeaderLength + glbChunkHeadSize
)

// vrmVersion はVRM拡張のバージョンを表す。
type vrmVersion string

const (
	vrmVersionNone vrmVersion = ""
	vrmVersion0    vrmVersion = "0.x"
	vrmVersion1    vrmVersion = "1.0"
)

// gltfDocument はノード階層の読込に必要なglTFトップレベル要素を表す。
type gltfDocument struct {
	Asset          gltfAsset                  `json:"asset"`
	ExtensionsUsed []string                   `json:"extensionsUsed"`
	Nodes          []gltfNode                 `json:"nodes"`
	Extensions     map[string]json.RawMessage `json:"extensions"`
	Scenes         []gltfScene                `json:"scenes"`
	Scene          *int                       `json:"scene"`
}

// gltfAsset はglTF asset要素を表す。
type gltfAsset struct {
	Version   string `json:"version"`
	Generator string `json:"generator"`
}

// gltfScene はglTF scene要素を表す。
type gltfScene struct {
	Nodes []int `json:"nodes"`
}

// gltfNode はglTF node要素を表す。
type gltfNode struct {
	Name        string    `json:"name"`
	Mesh        *int      `json:"mesh"`
	Children    []int     `json:"children"`
	Matrix      []float64 `json:"matrix"`
	Translation []float64 `json:"translation"`
	Rotation    []float64 `json:"rotation"`
	Scale       []float64 `json:"scale"`
}

// vrm0Extension はVRM0拡張の必要要素を表す。
type vrm0Extension struct {
	Humanoid struct {
		HumanBones []struct {
			Bone string `json:"bone"`
			Node int    `json:"node"`
		} `json:"humanBones"`
	} `json:"humanoid"`
}

// vrm1Extension はVRM1拡張の必要要素を表す。
type vrm1Extension struct {
	Humanoid struct {
		HumanBones map[string]struct {
			Node *int `json:"node"`
		} `json:"humanBones"`
	} `json:"humanoid"`
}

// parseGLBJSONChunk はGLBバイナリからJSONチャンクを取り出す。
func parseGLBJSONChunk(b []byte) ([]byte, error) {
	if len(b) < glbMinValidLength {
		return nil, merrors.NewIoParseFailed("GLBのデータ長が不足しています", nil)
	}
	magic := binary.LittleEndian.Uint32(b[0:4])
	if magic != glbMagic {
		return nil, merrors.NewIoParseFailed("GLBマジックが不正です", nil)
	}
	version := binary.LittleEndian.Uint32(b[4:8])
	if version != glbVersion {
		return nil, merrors.NewIoParseFailed("GLBバージョンが未対応です", fmt.Errorf("version=%d", version))
	}
	totalLength := int(binary.LittleEndian.Uint32(b[8:12]))
	if totalLength > len(b) {
		return nil, merrors.NewIoParseFailed("GLB全体長が不正です", fmt.Errorf("length=%d actual=%d", totalLength, len(b)))
	}

	offset := glbHeaderLength
	for offset+glbChunkHeadSize <= totalLength {
		chunkLength := int(binary.LittleEndian.Uint32(b[offset : offset+4]))
		chunkType := binary.LittleEndian.Uint32(b[offset+4 : offset+8])
		chunkStart := offset + glbChunkHeadSize
		chunkEnd := chunkStart + chunkLength
		if chunkLength < 0 || chunkEnd > totalLength {
			return nil, merrors.NewIoParseFailed("GLBチャンク長が不正です", nil)
		}
		if chunkType == glbJSONChunkType {
			return b[chunkStart:chunkEnd], nil
		}
		offset = chunkEnd
	}
	return nil, merrors.NewIoParseFailed("GLB JSONチャンクが見つかりません", nil)
}

// decodeGltfDocument はglTF JSONを解析する。
func decodeGltfDocument(b []byte) (*gltfDocument, error) {
	doc := &gltfDocument{}
	if err := json.Unmarshal(b, doc); err != nil {
		return nil, merrors.NewIoParseFailed("glTF JSONの解析に失敗しました", err)
	}
	if len(doc.Nodes) == 0 {
		return nil, merrors.NewIoParseFailed("glTFにノードがありません", nil)
	}
	return doc, nil
}

// detectVrmVersion は拡張宣言から優先バージョンを判定する。
func detectVrmVersion(doc *gltfDocument) vrmVersion {
	hasVrm1 := containsIgnoreCase(doc.ExtensionsUsed, "VRMC_vrm")
	hasVrm0 := containsIgnoreCase(doc.ExtensionsUsed, "VRM")
	if doc.Extensions != nil {
		if _, ok := doc.Extensions["VRMC_vrm"]; ok {
			hasVrm1 = true
		}
		if _, ok := doc.Extensions["VRM"]; ok {
			hasVrm0 = true
		}
	}

	// VRM0/1 同時宣言時は VRM1 を優先する。
	if hasVrm1 {
		return vrmVersion1
	}
	if hasVrm0 {
		return vrmVersion0
	}
	return vrmVersionNone
}

// declaredHipsNode はVRM拡張が宣言する hips のnode indexを返す。
func declaredHipsNode(doc *gltfDocument, version vrmVersion) (int, bool) {
	switch version {
	case vrmVersion1:
		ext := vrm1Extension{}
		if err := json.Unmarshal(doc.Extensions["VRMC_vrm"], &ext); err != nil {
			logVrmDebug("VRM1拡張の解析に失敗しました: %v", err)
			return -1, false
		}
		if hips, ok := ext.Humanoid.HumanBones["hips"]; ok && hips.Node != nil {
			return *hips.Node, true
		}
	case vrmVersion0:
		ext := vrm0Extension{}
		if err := json.Unmarshal(doc.Extensions["VRM"], &ext); err != nil {
			logVrmDebug("VRM0拡張の解析に失敗しました: %v", err)
			return -1, false
		}
		for _, bone := range ext.Humanoid.HumanBones {
			if strings.EqualFold(bone.Bone, "hips") {
				return bone.Node, true
			}
		}
	}
	return -1, false
}

// containsIgnoreCase は大文字小文字を無視して要素を検索する。
func containsIgnoreCase(values []string, target string) bool {
	for _, value := range values {
		if strings.EqualFold(value, target) {
			return true
		}
	}
	return false
}
