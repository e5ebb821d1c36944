package types

// Claim is the payload submitted for evaluation. Its shape is owned by the
// caller and is passed through untouched.
type Claim map[string]any

type Decision string

const (
	DecisionApprove     Decision = "APPROVE"
	DecisionReject      Decision = "REJECT"
	DecisionRequestInfo Decision = "REQUEST_INFO"
)

// Valid reports whether d is one of the known decisions.
func (d Decision) Valid() bool {
	switch d {
	case DecisionApprove, DecisionReject, DecisionRequestInfo:
		return true
	default:
		return false
	}
}

type DecisionRecord struct {
	Decision   Decision `json:"decision"`
	Confidence float64  `json:"confidence"`
	Reasoning  []string `json:"reasoning"`
	WhyNot     []string `json:"why_not"`
}

// Clone returns a copy that shares no slices with r.
func (r DecisionRecord) Clone() DecisionRecord {
	out := r
	out.Reasoning = cloneStrings(r.Reasoning)
	out.WhyNot = cloneStrings(r.WhyNot)
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
