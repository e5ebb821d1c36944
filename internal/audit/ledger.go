package audit

import (
	"context"

	"github.com/claimgate/claimgate/internal/ledger"
	"github.com/claimgate/claimgate/pkg/types"
)

// LedgerSink inserts entries into a SQL-backed ledger store.
type LedgerSink struct {
	store ledger.Store
}

func NewLedgerSink(store ledger.Store) *LedgerSink {
	return &LedgerSink{store: store}
}

func (s *LedgerSink) Record(ctx context.Context, entry types.AuditEntry) error {
	return s.store.PutAuditEntry(ctx, ledger.AuditRecord{
		Timestamp:  entry.Timestamp,
		Decision:   string(entry.Decision),
		Confidence: entry.Confidence,
	})
}

func (s *LedgerSink) Close() error {
	return s.store.Close()
}
