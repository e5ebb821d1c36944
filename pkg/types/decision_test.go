package types

import "testing"

func TestDecisionValid(t *testing.T) {
	for _, d := range []Decision{DecisionApprove, DecisionReject, DecisionRequestInfo} {
		if !d.Valid() {
			t.Fatalf("expected %s to be valid", d)
		}
	}
	if Decision("MAYBE").Valid() {
		t.Fatalf("expected unknown decision to be invalid")
	}
}

func TestCloneDoesNotShareSlices(t *testing.T) {
	rec := DecisionRecord{Decision: DecisionApprove, Reasoning: []string{"a"}, WhyNot: []string{}}
	out := rec.Clone()
	out.Reasoning[0] = "b"
	if rec.Reasoning[0] != "a" {
		t.Fatalf("clone shares reasoning slice")
	}
	if out.WhyNot == nil {
		t.Fatalf("expected empty slice to stay non-nil")
	}
}
