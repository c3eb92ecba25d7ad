package logger

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestNewJSONRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "warn", "json")

	log.Info().Msg("hidden")
	if buf.Len() != 0 {
		t.Fatalf("info should be filtered at warn level, got %q", buf.String())
	}

	log.Warn().Str("key", "settings").Msg("fallback")
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected json line: %v (%q)", err, buf.String())
	}
	if entry["message"] != "fallback" || entry["key"] != "settings" {
		t.Fatalf("unexpected entry %v", entry)
	}
}
