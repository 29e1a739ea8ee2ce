package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestContextFieldsPropagate(t *testing.T) {
	var buf bytes.Buffer
	logg := New(Options{ServiceName: "test", Level: zerolog.InfoLevel, Output: &buf})

	ctx := logg.WithRequestID(context.Background(), "req-123")
	ctx = logg.WithUserID(ctx, "user-1")
	ctx = logg.WithProfileID(ctx, "profile-9")
	logg.Info(ctx, "hello")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("invalid log json: %v", err)
	}
	if entry["request_id"] != "req-123" {
		t.Fatalf("missing request_id: %v", entry)
	}
	if entry["user_id"] != "user-1" {
		t.Fatalf("missing user_id: %v", entry)
	}
	if entry["profile_id"] != "profile-9" {
		t.Fatalf("missing profile_id: %v", entry)
	}
	if entry["service"] != "test" {
		t.Fatalf("missing service: %v", entry)
	}
}

func TestParseLevelFallsBackToInfo(t *testing.T) {
	if ParseLevel("nonsense") != zerolog.InfoLevel {
		t.Fatalf("expected info fallback")
	}
	if ParseLevel("debug") != zerolog.DebugLevel {
		t.Fatalf("expected debug")
	}
	if ParseLevel("") != zerolog.InfoLevel {
		t.Fatalf("expected info for empty")
	}
}
