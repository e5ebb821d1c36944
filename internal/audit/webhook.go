package audit

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/claimgate/claimgate/internal/crypto"
	"github.com/claimgate/claimgate/pkg/types"
)

const SignatureHeader = "X-Claimgate-Signature"

// WebhookSink POSTs each entry as canonical JSON. Delivery is attempted once.
type WebhookSink struct {
	url    string
	secret []byte
	client *http.Client
}

func NewWebhookSink(url string, secret string, timeout time.Duration) (*WebhookSink, error) {
	if url == "" {
		return nil, fmt.Errorf("webhook url is empty")
	}
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &WebhookSink{
		url:    url,
		secret: []byte(secret),
		client: &http.Client{Timeout: timeout},
	}, nil
}

// CanonicalBody is the exact byte sequence posted and signed for entry.
func CanonicalBody(entry types.AuditEntry) ([]byte, error) {
	return crypto.Canonicalize(map[string]any{
		"timestamp":  entry.Timestamp,
		"decision":   string(entry.Decision),
		"confidence": entry.Confidence,
	})
}

func (s *WebhookSink) Record(ctx context.Context, entry types.AuditEntry) error {
	payload, err := CanonicalBody(entry)
	if err != nil {
		return fmt.Errorf("encode entry: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if len(s.secret) > 0 {
		sig, err := crypto.SignHMAC(s.secret, payload)
		if err != nil {
			return err
		}
		req.Header.Set(SignatureHeader, sig)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("post: %w", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook status %d body=%q", resp.StatusCode, truncateBody(body))
	}
	return nil
}

func truncateBody(b []byte) string {
	const limit = 200
	if len(b) <= limit {
		return string(b)
	}
	return string(b[:limit]) + "..."
}
