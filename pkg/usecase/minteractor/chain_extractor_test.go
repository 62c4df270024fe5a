// 指示: miu200521358
package minteractor

import (
	"reflect"
	"testing"

	"github.com/miu200521358/mu_bvh2humanoid/pkg/domain/model/merrors"
)

func TestWalkChainStopsAtBranch(t *testing.T) {
	nodes := buildNodes(t, node("A", 0, 0, 0,
		node("B", 0, 1, 0,
			node("C1", 0, 1, 0),
			node("C2", 0, 1, 0),
		),
	))

	chain := walkChain(nodes, 0, nil)
	if got := chainNames(nodes, chain); got != "A -> B" {
		t.Fatalf("chain mismatch: %s", got)
	}
}

func TestWalkChainSkipsExcludedNodes(t *testing.T) {
	nodes := buildNodes(t, node("UpLeg", 0, 0, 0,
		node("Leg", 0, -1, 0, node("Foot", 0, -1, 0)),
		node("Buttock", 0, 0, -1),
	))

	chain := walkChain(nodes, 0, isButtockName)
	if got := chainNames(nodes, chain); got != "UpLeg -> Leg -> Foot" {
		t.Fatalf("chain mismatch: %s", got)
	}
}

func TestWalkChainPassesThroughSingleExcludedChild(t *testing.T) {
	nodes := buildNodes(t, node("UpLeg", 0, 0, 0,
		node("HipButtock", 0, -1, 0, node("Leg", 0, -1, 0)),
	))

	chain := walkChain(nodes, 0, isButtockName)
	if got := chainNames(nodes, chain); got != "UpLeg -> Leg" {
		t.Fatalf("chain mismatch: %s", got)
	}
}

func TestGetArmUsesFirstFourNodes(t *testing.T) {
	nodes := buildNodes(t, buildArm("Left", -1, 5, 1))

	arm, err := getArm(nodes, 0)
	if err != nil {
		t.Fatalf("getArm failed: %v", err)
	}
	got := []int{arm.Shoulder.Index, arm.UpperArm.Index, arm.LowerArm.Index, arm.Hand.Index}
	if !reflect.DeepEqual(got, []int{0, 1, 2, 3}) {
		t.Fatalf("arm indexes mismatch: %v", got)
	}
}

func TestGetArmTooShort(t *testing.T) {
	nodes := buildNodes(t, buildArm("Left", -1, 3, 1))

	if _, err := getArm(nodes, 0); !merrors.IsArmChainTooShortError(err) {
		t.Fatalf("expected arm chain error: %v", err)
	}
}

func TestGetLegBoundaries(t *testing.T) {
	short := buildNodes(t, buildLeg("Left", -1, 2, 1))
	if _, err := getLeg(short, 0); !merrors.IsLegChainTooShortError(err) {
		t.Fatalf("expected leg chain error: %v", err)
	}

	exact := buildNodes(t, buildLeg("Left", -1, 3, 1))
	leg, err := getLeg(exact, 0)
	if err != nil {
		t.Fatalf("getLeg failed: %v", err)
	}
	if leg.Toes.isSet() {
		t.Fatalf("toes should be unset for three-bone chain")
	}
	if leg.Foot.Index != 2 || leg.Foot.Source != DecisionByPosition {
		t.Fatalf("foot mismatch: %+v", leg.Foot)
	}
}

func TestGetLegNameMatchDoesNotReuseNodes(t *testing.T) {
	nodes := buildNodes(t, node("LeftUpLeg", 0, 0, 0,
		node("LeftLeg", 0, -1, 0,
			node("LeftLegRoll", 0, -1, 0,
				node("LeftFoot", 0, -1, 0),
			),
		),
	))

	leg, err := getLeg(nodes, 0)
	if err != nil {
		t.Fatalf("getLeg failed: %v", err)
	}
	if leg.UpperLeg.Index != 0 || leg.LowerLeg.Index != 1 || leg.Foot.Index != 3 {
		t.Fatalf("leg indexes mismatch: %+v", leg)
	}
	if leg.Toes.isSet() {
		t.Fatalf("toes should stay unset when every later node is taken: %+v", leg.Toes)
	}
}

func TestGetNeckToHeadStopsAtArmNames(t *testing.T) {
	nodes := buildNodes(t, node("Neck", 0, 0, 0,
		node("Head", 0, 1, 0, node("LeftArmHelper", 0, 1, 0)),
	))

	head, chain, err := getNeckToHead(nodes, 0)
	if err != nil {
		t.Fatalf("getNeckToHead failed: %v", err)
	}
	if len(chain) != 2 {
		t.Fatalf("chain length mismatch: %d", len(chain))
	}
	if head.Neck.Index != 0 || head.Head.Index != 1 {
		t.Fatalf("head chain mismatch: %+v", head)
	}
}

func TestGetNeckToHeadWalksThroughBranches(t *testing.T) {
	nodes := buildNodes(t, node("Neck", 0, 0, 0,
		node("NeckTwist", 0, 0.5, 0),
		node("Head", 0, 1, 0, node("HeadTop_End", 0, 1, 0)),
	))

	head, chain, err := getNeckToHead(nodes, 0)
	if err != nil {
		t.Fatalf("getNeckToHead failed: %v", err)
	}
	if len(chain) != 4 {
		t.Fatalf("chain length mismatch: %d", len(chain))
	}
	if head.Neck.Index != 0 || head.Head.Index != 2 || head.Head.Source != DecisionByName {
		t.Fatalf("head chain mismatch: %+v", head)
	}
}

func TestGetNeckToHeadEmpty(t *testing.T) {
	nodes := buildNodes(t, node("ShoulderHelper", 0, 0, 0))

	if _, _, err := getNeckToHead(nodes, 0); !merrors.IsHeadNotFoundError(err) {
		t.Fatalf("expected head not found error: %v", err)
	}
}
