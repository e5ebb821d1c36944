package decision

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/claimgate/claimgate/internal/crypto"
	"github.com/claimgate/claimgate/pkg/types"
)

// Profile is the operator-supplied fixed answer for the stub.
type Profile struct {
	ProfileID  string   `yaml:"profile_id"`
	Decision   string   `yaml:"decision"`
	Confidence float64  `yaml:"confidence"`
	Reasoning  []string `yaml:"reasoning"`
	WhyNot     []string `yaml:"why_not"`
}

type LoadedProfile struct {
	Profile Profile
	Record  types.DecisionRecord
	Hash    string
}

// LoadProfile loads a YAML decision profile and hashes its raw bytes.
func LoadProfile(path string) (LoadedProfile, error) {
	// #nosec G304 -- path comes from operator-configured profile path.
	data, err := os.ReadFile(path)
	if err != nil {
		return LoadedProfile{}, err
	}

	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return LoadedProfile{}, fmt.Errorf("parse profile %s: %w", path, err)
	}
	record, err := p.Record()
	if err != nil {
		return LoadedProfile{}, fmt.Errorf("profile %s: %w", path, err)
	}

	return LoadedProfile{
		Profile: p,
		Record:  record,
		Hash:    crypto.DigestWithPrefix(data),
	}, nil
}

// Record validates the profile and converts it to a decision record.
func (p Profile) Record() (types.DecisionRecord, error) {
	decision := types.Decision(p.Decision)
	if !decision.Valid() {
		return types.DecisionRecord{}, fmt.Errorf("unknown decision %q", p.Decision)
	}
	if math.IsNaN(p.Confidence) || math.IsInf(p.Confidence, 0) {
		return types.DecisionRecord{}, fmt.Errorf("confidence %v is not a finite number", p.Confidence)
	}
	if p.Confidence < 0 || p.Confidence > 1 {
		return types.DecisionRecord{}, fmt.Errorf("confidence %v out of range [0,1]", p.Confidence)
	}
	record := types.DecisionRecord{
		Decision:   decision,
		Confidence: p.Confidence,
		Reasoning:  p.Reasoning,
		WhyNot:     p.WhyNot,
	}
	if record.Reasoning == nil {
		record.Reasoning = []string{}
	}
	if record.WhyNot == nil {
		record.WhyNot = []string{}
	}
	return record.Clone(), nil
}
