package ledger

import (
	"context"
	"errors"
	"testing"
)

func TestInMemoryStorePut(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	rec := AuditRecord{Timestamp: "2026-10-15T09:30:00Z", Decision: "APPROVE", Confidence: 0.91}
	if err := s.PutAuditEntry(ctx, rec); err != nil {
		t.Fatalf("put: %v", err)
	}
	got := s.Entries()
	if len(got) != 1 || got[0] != rec {
		t.Fatalf("entries mismatch: %+v", got)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestInMemoryStoreWithTxRollsBack(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	boom := errors.New("boom")
	err := s.WithTx(ctx, func(tx Tx) error {
		if err := tx.PutAuditEntry(AuditRecord{Decision: "APPROVE"}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if n := len(s.Entries()); n != 0 {
		t.Fatalf("expected rollback, got %d entries", n)
	}

	if err := s.WithTx(ctx, func(tx Tx) error {
		_ = tx.PutAuditEntry(AuditRecord{Decision: "APPROVE"})
		return tx.PutAuditEntry(AuditRecord{Decision: "REJECT"})
	}); err != nil {
		t.Fatalf("withtx: %v", err)
	}
	if n := len(s.Entries()); n != 2 {
		t.Fatalf("expected 2 entries, got %d", n)
	}
}
