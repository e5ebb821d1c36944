package crypto

import "testing"

func BenchmarkCanonicalize(b *testing.B) {
	input := map[string]any{
		"timestamp":  "2026-10-15T09:30:00.123456789Z",
		"decision":   "APPROVE",
		"confidence": 0.91,
		"reasoning":  []any{"Required documents available", "Policy conditions satisfied"},
	}

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := Canonicalize(input); err != nil {
			b.Fatalf("canonicalize: %v", err)
		}
	}
}
