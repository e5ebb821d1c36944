package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/claimgate/claimgate/internal/audit"
	"github.com/claimgate/claimgate/internal/decision"
	"github.com/claimgate/claimgate/pkg/types"
)

type Handler struct {
	Evaluator decision.Evaluator
	Audit     *audit.Logger
	// Stream serves the live audit feed; nil leaves the route unregistered.
	Stream http.Handler
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		methodNotAllowed(w, http.MethodGet, http.MethodHead)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	if h.Evaluator == nil {
		writeJSON(w, http.StatusNotImplemented, map[string]string{"error": "decision engine not configured"})
		return
	}

	claim, err := decodeClaim(r.Body)
	if err != nil {
		writeError(w, r, err)
		return
	}

	record, err := h.Evaluator.Evaluate(r.Context(), claim)
	if err != nil {
		writeError(w, r, internalFault(err))
		return
	}

	h.Audit.Log(r.Context(), record)

	writeJSON(w, http.StatusOK, record)
}

func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
}

// decodeClaim accepts any syntactically valid JSON document. Objects become
// the claim; other JSON values evaluate as an empty claim.
func decodeClaim(body io.Reader) (types.Claim, error) {
	if body == nil {
		return nil, malformed("empty body")
	}
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, malformed("read body: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, malformed("empty body")
	}
	if !json.Valid(raw) {
		return nil, malformed("invalid json")
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, malformed("invalid json: %w", err)
	}
	if obj, ok := doc.(map[string]any); ok {
		return types.Claim(obj), nil
	}
	return nil, nil
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		apiErr = internalFault(err)
	}
	if apiErr.Kind == KindInternalFault {
		log.Printf("api: %s %s: %v request_id=%s", r.Method, r.URL.Path, apiErr, RequestIDFromContext(r.Context()))
	}
	writeJSON(w, apiErr.Status(), map[string]string{"error": apiErr.publicMessage()})
}

// writeJSON encodes before writing the header so an unencodable payload
// becomes a 500 instead of an empty 200.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(payload); err != nil {
		log.Printf("api: encode response: %v", err)
		buf.Reset()
		buf.WriteString(`{"error":"internal fault"}` + "\n")
		status = http.StatusInternalServerError
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}
