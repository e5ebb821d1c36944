// Package audit derives audit entries from decisions and hands them to
// pluggable sinks. Sinks are write-only: nothing in the service reads an
// entry back once it has been recorded.
package audit

import (
	"context"
	"errors"
	"io"
	"log"
	"time"

	"github.com/claimgate/claimgate/pkg/types"
)

// Sink receives one audit entry per evaluated claim.
type Sink interface {
	Record(ctx context.Context, entry types.AuditEntry) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, entry types.AuditEntry) error

func (f SinkFunc) Record(ctx context.Context, entry types.AuditEntry) error {
	return f(ctx, entry)
}

// NewEntry summarises record at time now.
func NewEntry(record types.DecisionRecord, now time.Time) types.AuditEntry {
	return types.AuditEntry{
		Timestamp:  now.UTC().Format(time.RFC3339Nano),
		Decision:   record.Decision,
		Confidence: record.Confidence,
	}
}

// Logger turns decision records into audit entries. Sink failures are logged
// and swallowed so that auditing never fails the request that triggered it.
type Logger struct {
	sink    Sink
	now     func() time.Time
	timeout time.Duration
}

const defaultRecordTimeout = 5 * time.Second

func NewLogger(sink Sink) *Logger {
	return &Logger{sink: sink, now: time.Now, timeout: defaultRecordTimeout}
}

// WithClock replaces the time source used for entry timestamps.
func (l *Logger) WithClock(now func() time.Time) *Logger {
	l.now = now
	return l
}

// WithTimeout bounds how long a single Log call waits on its sinks.
func (l *Logger) WithTimeout(d time.Duration) *Logger {
	if d > 0 {
		l.timeout = d
	}
	return l
}

// Log records one entry for record. The decision has already been made, so the
// write is detached from ctx cancellation and bounded by the logger timeout.
func (l *Logger) Log(ctx context.Context, record types.DecisionRecord) {
	if l == nil || l.sink == nil {
		return
	}
	entry := NewEntry(record, l.now())
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), l.timeout)
	defer cancel()
	if err := l.sink.Record(ctx, entry); err != nil {
		log.Printf("audit: record failed: %v", err)
	}
}

// Close releases any sink that holds resources.
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	return closeSink(l.sink)
}

func closeSink(s Sink) error {
	if c, ok := s.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// MultiSink records every entry to each of its sinks, continuing past failures.
type MultiSink []Sink

func (m MultiSink) Record(ctx context.Context, entry types.AuditEntry) error {
	var errs []error
	for _, s := range m {
		if err := s.Record(ctx, entry); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m MultiSink) Close() error {
	var errs []error
	for _, s := range m {
		if err := closeSink(s); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
