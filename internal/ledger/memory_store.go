package ledger

import (
	"context"
	"sync"
)

type InMemoryStore struct {
	mu      sync.Mutex
	entries []AuditRecord
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

// WithTx applies fn atomically: rows written inside fn are discarded if fn fails.
func (s *InMemoryStore) WithTx(_ context.Context, fn func(Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx := &memTx{}
	if err := fn(tx); err != nil {
		return err
	}
	s.entries = append(s.entries, tx.pending...)
	return nil
}

func (s *InMemoryStore) PutAuditEntry(ctx context.Context, rec AuditRecord) error {
	return s.WithTx(ctx, func(tx Tx) error { return tx.PutAuditEntry(rec) })
}

// Entries returns a snapshot of the rows written so far.
func (s *InMemoryStore) Entries() []AuditRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]AuditRecord, len(s.entries))
	copy(out, s.entries)
	return out
}

func (s *InMemoryStore) Close() error { return nil }

type memTx struct {
	pending []AuditRecord
}

func (t *memTx) PutAuditEntry(rec AuditRecord) error {
	t.pending = append(t.pending, rec)
	return nil
}
