// 指示: miu200521358
package model

import (
	"fmt"
	"strings"
)

// HumanBone は humanoid 標準ボーンのスロットを表す。
type HumanBone int

const (
	Hips HumanBone = iota
	LeftUpperLeg
	RightUpperLeg
	LeftLowerLeg
	RightLowerLeg
	LeftFoot
	RightFoot
	Spine
	Chest
	Neck
	Head
	LeftShoulder
	RightShoulder
	LeftUpperArm
	RightUpperArm
	LeftLowerArm
	RightLowerArm
	LeftHand
	RightHand
	LeftToes
	RightToes
	LeftEye
	RightEye
	Jaw
	LeftThumbProximal
	LeftThumbIntermediate
	LeftThumbDistal
	LeftIndexProximal
	LeftIndexIntermediate
	LeftIndexDistal
	LeftMiddleProximal
	LeftMiddleIntermediate
	LeftMiddleDistal
	LeftRingProximal
	LeftRingIntermediate
	LeftRingDistal
	LeftLittleProximal
	LeftLittleIntermediate
	LeftLittleDistal
	RightThumbProximal
	RightThumbIntermediate
	RightThumbDistal
	RightIndexProximal
	RightIndexIntermediate
	RightIndexDistal
	RightMiddleProximal
	RightMiddleIntermediate
	RightMiddleDistal
	RightRingProximal
	RightRingIntermediate
	RightRingDistal
	RightLittleProximal
	RightLittleIntermediate
	RightLittleDistal
	UpperChest
	// HumanBoneCount はスロット総数。
	HumanBoneCount
)

// humanBoneNames は HumanBone の列挙名を保持する。
var humanBoneNames = [HumanBoneCount]string{
	"Hips",
	"LeftUpperLeg",
	"RightUpperLeg",
	"LeftLowerLeg",
	"RightLowerLeg",
	"LeftFoot",
	"RightFoot",
	"Spine",
	"Chest",
	"Neck",
	"Head",
	"LeftShoulder",
	"RightShoulder",
	"LeftUpperArm",
	"RightUpperArm",
	"LeftLowerArm",
	"RightLowerArm",
	"LeftHand",
	"RightHand",
	"LeftToes",
	"RightToes",
	"LeftEye",
	"RightEye",
	"Jaw",
	"LeftThumbProximal",
	"LeftThumbIntermediate",
	"LeftThumbDistal",
	"LeftIndexProximal",
	"LeftIndexIntermediate",
	"LeftIndexDistal",
	"LeftMiddleProximal",
	"LeftMiddleIntermediate",
	"LeftMiddleDistal",
	"LeftRingProximal",
	"LeftRingIntermediate",
	"LeftRingDistal",
	"LeftLittleProximal",
	"LeftLittleIntermediate",
	"LeftLittleDistal",
	"RightThumbProximal",
	"RightThumbIntermediate",
	"RightThumbDistal",
	"RightIndexProximal",
	"RightIndexIntermediate",
	"RightIndexDistal",
	"RightMiddleProximal",
	"RightMiddleIntermediate",
	"RightMiddleDistal",
	"RightRingProximal",
	"RightRingIntermediate",
	"RightRingDistal",
	"RightLittleProximal",
	"RightLittleIntermediate",
	"RightLittleDistal",
	"UpperChest",
}

// requiredHumanBones は完全なマッピングに必須のスロット。
var requiredHumanBones = []HumanBone{
	Hips,
	Spine,
	Head,
	LeftUpperLeg,
	RightUpperLeg,
	LeftLowerLeg,
	RightLowerLeg,
	LeftFoot,
	RightFoot,
	LeftUpperArm,
	RightUpperArm,
	LeftLowerArm,
	RightLowerArm,
	LeftHand,
	RightHand,
}

// fingerTraitParts は指スロットの特性名を組み立てる部品。
var fingerTraitParts = []string{"Thumb", "Index", "Middle", "Ring", "Little"}

// humanBoneTraitNames はスロットから特性名(空白区切り)への辞書。
var humanBoneTraitNames = buildHumanBoneTraitNames()

// humanBoneByName は列挙名/特性名からスロットへの辞書。
var humanBoneByName = buildHumanBoneByName()

// String は列挙名を返す。
func (b HumanBone) String() string {
	if !b.IsValid() {
		return fmt.Sprintf("HumanBone(%d)", int(b))
	}
	return humanBoneNames[b]
}

// TraitName は指スロットに空白を含む特性名を返す。
func (b HumanBone) TraitName() string {
	if name, ok := humanBoneTraitNames[b]; ok {
		return name
	}
	return b.String()
}

// IsValid は定義済みスロットか判定する。
func (b HumanBone) IsValid() bool {
	return b >= Hips && b < HumanBoneCount
}

// IsRequired は必須スロットか判定する。
func (b HumanBone) IsRequired() bool {
	for _, required := range requiredHumanBones {
		if required == b {
			return true
		}
	}
	return false
}

// MarshalText は列挙名でテキスト化する。
func (b HumanBone) MarshalText() ([]byte, error) {
	if !b.IsValid() {
		return nil, fmt.Errorf("未定義のHumanBoneです: %d", int(b))
	}
	return []byte(b.String()), nil
}

// UnmarshalText は列挙名または特性名から復元する。
func (b *HumanBone) UnmarshalText(text []byte) error {
	parsed, err := ParseHumanBone(string(text))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

// ParseHumanBone は列挙名または特性名からスロットを解決する。
func ParseHumanBone(name string) (HumanBone, error) {
	if bone, ok := humanBoneByName[strings.TrimSpace(name)]; ok {
		return bone, nil
	}
	return HumanBoneCount, fmt.Errorf("HumanBone名が不正です: %s", name)
}

// HumanBones は全スロットを定義順で返す。
func HumanBones() []HumanBone {
	bones := make([]HumanBone, 0, HumanBoneCount)
	for b := Hips; b < HumanBoneCount; b++ {
		bones = append(bones, b)
	}
	return bones
}

// RequiredHumanBones は必須スロットを返す。
func RequiredHumanBones() []HumanBone {
	return append([]HumanBone(nil), requiredHumanBones...)
}

// buildHumanBoneTraitNames は指スロットの特性名辞書を構築する。
func buildHumanBoneTraitNames() map[HumanBone]string {
	names := make(map[HumanBone]string, 30)
	segments := []string{"Proximal", "Intermediate", "Distal"}
	for sideIndex, side := range []string{"Left", "Right"} {
		base := LeftThumbProximal
		if sideIndex == 1 {
			base = RightThumbProximal
		}
		for fingerIndex, finger := range fingerTraitParts {
			for segmentIndex, segment := range segments {
				bone := base + HumanBone(fingerIndex*len(segments)+segmentIndex)
				names[bone] = fmt.Sprintf("%s %s %s", side, finger, segment)
			}
		}
	}
	return names
}

// buildHumanBoneByName は名前からスロットへの逆引き辞書を構築する。
func buildHumanBoneByName() map[string]HumanBone {
	byName := make(map[string]HumanBone, int(HumanBoneCount)*2)
	for b := Hips; b < HumanBoneCount; b++ {
		byName[humanBoneNames[b]] = b
		if trait, ok := humanBoneTraitNames[b]; ok {
			byName[trait] = b
		}
	}
	return byName
}
