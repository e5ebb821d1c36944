package decision

import (
	"context"

	"github.com/claimgate/claimgate/pkg/types"
)

// Evaluator turns a claim into a decision.
type Evaluator interface {
	Evaluate(ctx context.Context, claim types.Claim) (types.DecisionRecord, error)
}

// Stub answers every claim with the same record without inspecting it.
type Stub struct {
	record types.DecisionRecord
}

// DefaultRecord is the built-in answer used when no profile is configured.
func DefaultRecord() types.DecisionRecord {
	return types.DecisionRecord{
		Decision:   types.DecisionApprove,
		Confidence: 0.91,
		Reasoning: []string{
			"Required documents available",
			"Policy conditions satisfied",
		},
		WhyNot: []string{
			"Fraud policy not applicable",
			"Escalation rules not triggered",
		},
	}
}

func NewStub(record types.DecisionRecord) *Stub {
	return &Stub{record: record.Clone()}
}

func NewDefaultStub() *Stub {
	return NewStub(DefaultRecord())
}

func (s *Stub) Evaluate(_ context.Context, _ types.Claim) (types.DecisionRecord, error) {
	return s.record.Clone(), nil
}
