package sqlstore

import (
	"context"
	"database/sql"

	_ "modernc.org/sqlite"

	"github.com/claimgate/claimgate/internal/ledger"
)

type Store struct {
	db *sql.DB
}

func OpenSQLite(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	// One writer at a time; sqlite serialises writes anyway.
	db.SetMaxOpenConns(1)
	return New(db), nil
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) WithTx(ctx context.Context, fn func(ledger.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	wrapped := &Tx{ctx: ctx, tx: tx}
	if err := fn(wrapped); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (s *Store) PutAuditEntry(ctx context.Context, rec ledger.AuditRecord) error {
	return s.WithTx(ctx, func(tx ledger.Tx) error { return tx.PutAuditEntry(rec) })
}

type Tx struct {
	ctx context.Context
	tx  *sql.Tx
}

func (t *Tx) PutAuditEntry(rec ledger.AuditRecord) error {
	_, err := t.tx.ExecContext(t.ctx,
		`INSERT INTO audit_entries(recorded_at, decision, confidence) VALUES(?,?,?)`,
		rec.Timestamp,
		rec.Decision,
		rec.Confidence,
	)
	return err
}
