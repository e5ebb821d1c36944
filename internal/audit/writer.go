package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/claimgate/claimgate/pkg/types"
)

// WriterSink writes each entry as one JSON line.
type WriterSink struct {
	mu  sync.Mutex
	enc *json.Encoder
}

func NewWriterSink(w io.Writer) *WriterSink {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &WriterSink{enc: enc}
}

func NewStdoutSink() *WriterSink {
	return NewWriterSink(os.Stdout)
}

func (s *WriterSink) Record(_ context.Context, entry types.AuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enc.Encode(entry); err != nil {
		return fmt.Errorf("write entry: %w", err)
	}
	return nil
}

// FileSink appends entries to a JSONL file.
type FileSink struct {
	path string
	mu   sync.Mutex
	file *os.File
	w    *WriterSink
}

func NewFileSink(path string) (*FileSink, error) {
	if path == "" {
		return nil, fmt.Errorf("file path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	// #nosec G304 -- path is operator-provided audit file.
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	return &FileSink{path: path, file: f, w: NewWriterSink(f)}, nil
}

func (s *FileSink) Path() string { return s.path }

func (s *FileSink) Record(ctx context.Context, entry types.AuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return fmt.Errorf("file sink %s closed", s.path)
	}
	return s.w.Record(ctx, entry)
}

func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}
