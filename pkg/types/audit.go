package types

type AuditEntry struct {
	Timestamp  string   `json:"timestamp"`
	Decision   Decision `json:"decision"`
	Confidence float64  `json:"confidence"`
}
