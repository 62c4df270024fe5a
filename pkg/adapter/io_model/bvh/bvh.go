// 指示: miu200521358
package bvh

import (
	"fmt"
	"strings"

	"github.com/miu200521358/mu_bvh2humanoid/pkg/domain/model"
	"gonum.org/v1/gonum/spatial/r3"
)

// Channel はBVHチャンネル種別を表す。
type Channel int

const (
	ChannelXposition Channel = iota
	ChannelYposition
	ChannelZposition
	ChannelXrotation
	ChannelYrotation
	ChannelZrotation
)

var channelNames = [...]string{
	ChannelXposition: "Xposition",
	ChannelYposition: "Yposition",
	ChannelZposition: "Zposition",
	ChannelXrotation: "Xrotation",
	ChannelYrotation: "Yrotation",
	ChannelZrotation: "Zrotation",
}

// String はチャンネル名を返す。
func (c Channel) String() string {
	if c < 0 || int(c) >= len(channelNames) {
		return fmt.Sprintf("Channel(%d)", int(c))
	}
	return channelNames[c]
}

// ParseChannel はチャンネル名を解釈する。
func ParseChannel(name string) (Channel, error) {
	for i, channelName := range channelNames {
		if strings.EqualFold(channelName, name) {
			return Channel(i), nil
		}
	}
	return 0, fmt.Errorf("未定義のチャンネルです: %s", name)
}

// Joint はBVH階層の1関節を表す。End Site も子として保持する。
type Joint struct {
	Name     string
	Offset   r3.Vec
	Channels []Channel
	Children []*Joint
	EndSite  bool
}

// NodeName は関節名を返す。
func (j *Joint) NodeName() string {
	return j.Name
}

// LocalOffset はX軸を反転した親からの相対位置を返す。
func (j *Joint) LocalOffset() r3.Vec {
	return r3.Vec{X: -j.Offset.X, Y: j.Offset.Y, Z: j.Offset.Z}
}

// ChildNodes は End Site を除いた子関節を返す。
func (j *Joint) ChildNodes() []model.IHierarchyNode {
	children := make([]model.IHierarchyNode, 0, len(j.Children))
	for _, child := range j.Children {
		if child.EndSite {
			continue
		}
		children = append(children, child)
	}
	return children
}

// ChannelIndex は関節内でのチャンネル位置を返す。無ければ-1。
func (j *Joint) ChannelIndex(channel Channel) int {
	for i, c := range j.Channels {
		if c == channel {
			return i
		}
	}
	return -1
}

// Bvh はBVHファイル全体を表す。
type Bvh struct {
	Root      *Joint
	Frames    int
	FrameTime float64
	// Motion はフレームごとの全チャンネル値。
	Motion [][]float64
}

// Joints は End Site を除いた関節を深さ優先前順で返す。
func (b *Bvh) Joints() []*Joint {
	if b == nil || b.Root == nil {
		return nil
	}
	joints := make([]*Joint, 0)
	stack := []*Joint{b.Root}
	for len(stack) > 0 {
		joint := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if joint.EndSite {
			continue
		}
		joints = append(joints, joint)
		for i := len(joint.Children) - 1; i >= 0; i-- {
			stack = append(stack, joint.Children[i])
		}
	}
	return joints
}

// ChannelCount は1フレームあたりのチャンネル数を返す。
func (b *Bvh) ChannelCount() int {
	count := 0
	for _, joint := range b.Joints() {
		count += len(joint.Channels)
	}
	return count
}

// HipHeight は先頭フレームのルートY位置を返す。
func (b *Bvh) HipHeight() (float64, bool) {
	if b == nil || b.Root == nil || len(b.Motion) == 0 {
		return 0, false
	}
	// ルートは前順の先頭なのでフレーム内のチャンネル位置がそのまま使える
	index := b.Root.ChannelIndex(ChannelYposition)
	if index < 0 || index >= len(b.Motion[0]) {
		return 0, false
	}
	return b.Motion[0][index], true
}
