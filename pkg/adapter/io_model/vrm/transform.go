// 指示: miu200521358
package vrm

import (
	"fmt"
	"math"

	"github.com/miu200521358/mu_bvh2humanoid/pkg/domain/model/merrors"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// nodeTransform はnodeの平行移動/回転/拡縮を表す。
type nodeTransform struct {
	Translation r3.Vec
	Rotation    quat.Number
	Scale       r3.Vec
}

// identityTransform は恒等変換を返す。
func identityTransform() nodeTransform {
	return nodeTransform{Rotation: quat.Number{Real: 1}, Scale: r3.Vec{X: 1, Y: 1, Z: 1}}
}

// compose は親のワールド変換へ子のローカル変換を合成する。シアーは扱わない。
func (parent nodeTransform) compose(local nodeTransform) nodeTransform {
	scaled := r3.Vec{
		X: parent.Scale.X * local.Translation.X,
		Y: parent.Scale.Y * local.Translation.Y,
		Z: parent.Scale.Z * local.Translation.Z,
	}
	return nodeTransform{
		Translation: r3.Add(parent.Translation, r3.Rotation(parent.Rotation).Rotate(scaled)),
		Rotation:    quat.Mul(parent.Rotation, local.Rotation),
		Scale: r3.Vec{
			X: parent.Scale.X * local.Scale.X,
			Y: parent.Scale.Y * local.Scale.Y,
			Z: parent.Scale.Z * local.Scale.Z,
		},
	}
}

// buildNodeParentIndexes はnode配列から親インデックス配列を生成する。
func buildNodeParentIndexes(nodes []gltfNode) ([]int, error) {
	parentIndexes := make([]int, len(nodes))
	for i := range parentIndexes {
		parentIndexes[i] = -1
	}
	for parentIndex, node := range nodes {
		for _, childIndex := range node.Children {
			if childIndex < 0 || childIndex >= len(nodes) {
				return nil, merrors.NewIoParseFailed("node.children のindexが不正です", fmt.Errorf("index=%d", childIndex))
			}
			if parentIndexes[childIndex] == -1 {
				parentIndexes[childIndex] = parentIndex
			}
		}
	}
	return parentIndexes, nil
}

// buildNodeWorldPositions はnodeのローカル変換からワールド座標を算出する。
func buildNodeWorldPositions(nodes []gltfNode, parents []int) ([]r3.Vec, error) {
	worlds := make([]nodeTransform, len(nodes))
	state := make([]int, len(nodes))
	for i := range nodes {
		if err := resolveNodeWorldTransform(nodes, parents, i, state, worlds); err != nil {
			return nil, err
		}
	}
	positions := make([]r3.Vec, len(nodes))
	for i, world := range worlds {
		positions[i] = world.Translation
	}
	return positions, nil
}

// resolveNodeWorldTransform はnodeのワールド変換を再帰的に解決する。
func resolveNodeWorldTransform(
	nodes []gltfNode,
	parents []int,
	nodeIndex int,
	state []int,
	worlds []nodeTransform,
) error {
	if state[nodeIndex] == 2 {
		return nil
	}
	if state[nodeIndex] == 1 {
		return merrors.NewIoParseFailed("node親子関係に循環があります", fmt.Errorf("index=%d", nodeIndex))
	}
	state[nodeIndex] = 1
	local, err := nodeLocalTransform(nodes[nodeIndex])
	if err != nil {
		return err
	}
	parentIndex := parents[nodeIndex]
	if parentIndex >= 0 {
		if err := resolveNodeWorldTransform(nodes, parents, parentIndex, state, worlds); err != nil {
			return err
		}
		worlds[nodeIndex] = worlds[parentIndex].compose(local)
	} else {
		worlds[nodeIndex] = identityTransform().compose(local)
	}
	state[nodeIndex] = 2
	return nil
}

// nodeLocalTransform はnode要素からローカル変換を生成する。
func nodeLocalTransform(node gltfNode) (nodeTransform, error) {
	if len(node.Matrix) > 0 {
		return decomposeMatrix(node.Matrix)
	}
	transform := identityTransform()
	var err error
	if transform.Translation, err = parseVec3(node.Translation, r3.Vec{}, "node.translation"); err != nil {
		return transform, err
	}
	if transform.Scale, err = parseVec3(node.Scale, r3.Vec{X: 1, Y: 1, Z: 1}, "node.scale"); err != nil {
		return transform, err
	}
	if transform.Rotation, err = parseQuaternion(node.Rotation); err != nil {
		return transform, err
	}
	return transform, nil
}

// decomposeMatrix は列優先4x4行列を平行移動/回転/拡縮へ分解する。
func decomposeMatrix(m []float64) (nodeTransform, error) {
	if len(m) != 16 {
		return identityTransform(), merrors.NewIoParseFailed("node.matrix の要素数が不正です", fmt.Errorf("len=%d", len(m)))
	}
	columns := [3]r3.Vec{
		{X: m[0], Y: m[1], Z: m[2]},
		{X: m[4], Y: m[5], Z: m[6]},
		{X: m[8], Y: m[9], Z: m[10]},
	}
	scale := r3.Vec{X: r3.Norm(columns[0]), Y: r3.Norm(columns[1]), Z: r3.Norm(columns[2])}
	if scale.X == 0 || scale.Y == 0 || scale.Z == 0 {
		return nodeTransform{
			Translation: r3.Vec{X: m[12], Y: m[13], Z: m[14]},
			Rotation:    quat.Number{Real: 1},
			Scale:       scale,
		}, nil
	}
	for i, s := range []float64{scale.X, scale.Y, scale.Z} {
		columns[i] = r3.Scale(1/s, columns[i])
	}
	return nodeTransform{
		Translation: r3.Vec{X: m[12], Y: m[13], Z: m[14]},
		Rotation:    rotationFromColumns(columns),
		Scale:       scale,
	}, nil
}

// rotationFromColumns は正規直交な列ベクトルから四元数を求める。
func rotationFromColumns(c [3]r3.Vec) quat.Number {
	m00, m01, m02 := c[0].X, c[1].X, c[2].X
	m10, m11, m12 := c[0].Y, c[1].Y, c[2].Y
	m20, m21, m22 := c[0].Z, c[1].Z, c[2].Z

	var q quat.Number
	trace := m00 + m11 + m22
	switch {
	case trace > 0:
		s := math.Sqrt(trace+1) * 2
		q = quat.Number{Real: s / 4, Imag: (m21 - m12) / s, Jmag: (m02 - m20) / s, Kmag: (m10 - m01) / s}
	case m00 > m11 && m00 > m22:
		s := math.Sqrt(1+m00-m11-m22) * 2
		q = quat.Number{Real: (m21 - m12) / s, Imag: s / 4, Jmag: (m01 + m10) / s, Kmag: (m02 + m20) / s}
	case m11 > m22:
		s := math.Sqrt(1+m11-m00-m22) * 2
		q = quat.Number{Real: (m02 - m20) / s, Imag: (m01 + m10) / s, Jmag: s / 4, Kmag: (m12 + m21) / s}
	default:
		s := math.Sqrt(1+m22-m00-m11) * 2
		q = quat.Number{Real: (m10 - m01) / s, Imag: (m02 + m20) / s, Jmag: (m12 + m21) / s, Kmag: s / 4}
	}
	return normalizeQuat(q)
}

// parseVec3 はスライスをベクトルへ変換する。
func parseVec3(values []float64, defaultValue r3.Vec, label string) (r3.Vec, error) {
	if len(values) == 0 {
		return defaultValue, nil
	}
	if len(values) != 3 {
		return r3.Vec{}, merrors.NewIoParseFailed(label+" の要素数が不正です", fmt.Errorf("len=%d", len(values)))
	}
	return r3.Vec{X: values[0], Y: values[1], Z: values[2]}, nil
}

// parseQuaternion はglTFの [x, y, z, w] を四元数へ変換する。
func parseQuaternion(values []float64) (quat.Number, error) {
	if len(values) == 0 {
		return quat.Number{Real: 1}, nil
	}
	if len(values) != 4 {
		return quat.Number{Real: 1}, merrors.NewIoParseFailed("node.rotation の要素数が不正です", fmt.Errorf("len=%d", len(values)))
	}
	return normalizeQuat(quat.Number{Real: values[3], Imag: values[0], Jmag: values[1], Kmag: values[2]}), nil
}

// normalizeQuat は単位四元数へ正規化する。長さ0は恒等回転。
func normalizeQuat(q quat.Number) quat.Number {
	norm := quat.Abs(q)
	if norm == 0 {
		return quat.Number{Real: 1}
	}
	return quat.Scale(1/norm, q)
}
