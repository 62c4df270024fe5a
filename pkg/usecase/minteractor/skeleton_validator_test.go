// 指示: miu200521358
package minteractor

import (
	"testing"

	"github.com/miu200521358/mu_bvh2humanoid/pkg/domain/model"
	"github.com/miu200521358/mu_bvh2humanoid/pkg/domain/model/merrors"
)

// newValidatorNodes は検証用の小さなボーン一覧を生成する。
func newValidatorNodes(t *testing.T) *model.BoneNodes {
	t.Helper()
	nodes, err := model.NewBoneNodesFromRecords([]model.BoneRecord{
		{Name: "Hips", ParentIndex: -1},
		{Name: "Spine", ParentIndex: 0},
		{Name: "Chest", ParentIndex: 1},
		{Name: "Tail", ParentIndex: 0},
		{Name: "LeftShoulder", ParentIndex: 2},
		{Name: "LeftFinger1", ParentIndex: 2},
		{Name: "Neck", ParentIndex: 2},
		{Name: "Head", ParentIndex: 6},
	})
	if err != nil {
		t.Fatalf("records failed: %v", err)
	}
	return nodes
}

// mustSet はスロットへ割り当てる。
func mustSet(t *testing.T, skeleton *model.SkeletonMap, bone model.HumanBone, index int) {
	t.Helper()
	if err := skeleton.Set(bone, index); err != nil {
		t.Fatalf("set %s failed: %v", bone, err)
	}
}

func TestValidateAcceptsConsistentMap(t *testing.T) {
	skeleton := model.NewSkeletonMap(newValidatorNodes(t))
	mustSet(t, skeleton, model.Hips, 0)
	mustSet(t, skeleton, model.Spine, 1)
	mustSet(t, skeleton, model.Chest, 2)
	mustSet(t, skeleton, model.Neck, 6)
	mustSet(t, skeleton, model.Head, 7)

	if err := Validate(skeleton); err != nil {
		t.Fatalf("validate failed: %v", err)
	}
}

func TestValidateRejectsNilMap(t *testing.T) {
	if err := Validate(nil); !merrors.IsIncompleteMapError(err) {
		t.Fatalf("expected incomplete map error: %v", err)
	}
}

func TestValidateReportsSpineDiscontinuity(t *testing.T) {
	skeleton := model.NewSkeletonMap(newValidatorNodes(t))
	mustSet(t, skeleton, model.Spine, 1)
	mustSet(t, skeleton, model.Chest, 3)

	err := Validate(skeleton)
	if !merrors.IsSpineDiscontinuousError(err) {
		t.Fatalf("expected spine discontinuous error: %v", err)
	}
}

func TestValidateSkipsMissingSpineSlot(t *testing.T) {
	skeleton := model.NewSkeletonMap(newValidatorNodes(t))
	mustSet(t, skeleton, model.Spine, 1)
	mustSet(t, skeleton, model.UpperChest, 2)

	if err := Validate(skeleton); err != nil {
		t.Fatalf("validate failed: %v", err)
	}
}

func TestValidateCollectsAllFailures(t *testing.T) {
	skeleton := model.NewSkeletonMap(newValidatorNodes(t))
	mustSet(t, skeleton, model.Spine, 1)
	mustSet(t, skeleton, model.Chest, 3)
	mustSet(t, skeleton, model.Neck, 4)
	mustSet(t, skeleton, model.Head, 5)

	err := Validate(skeleton)
	if err == nil {
		t.Fatalf("expected error")
	}
	kinds := map[merrors.ErrorKind]bool{}
	for _, kind := range merrors.KindOf(err) {
		kinds[kind] = true
	}
	for _, want := range []merrors.ErrorKind{
		merrors.HeadMisassigned,
		merrors.NeckMisassigned,
		merrors.SpineDiscontinuous,
	} {
		if !kinds[want] {
			t.Fatalf("missing kind %s in %v", want, merrors.KindOf(err))
		}
	}
	if !merrors.IsValidationError(err) {
		t.Fatalf("should be classified as validation error")
	}
}
