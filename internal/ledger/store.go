package ledger

import "context"

// Store is a write-only sink for audit rows. Nothing in the service reads
// them back; they exist for operators and downstream tooling.
type Store interface {
	WithTx(ctx context.Context, fn func(Tx) error) error
	PutAuditEntry(ctx context.Context, rec AuditRecord) error
	Close() error
}

type Tx interface {
	PutAuditEntry(rec AuditRecord) error
}

type AuditRecord struct {
	Timestamp  string
	Decision   string
	Confidence float64
}
