package main

import (
	"context"
	"path/filepath"
	"testing"
)

func TestHistoryRecordAndRecent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	h, err := OpenHistory(path)
	if err != nil {
		t.Fatalf("OpenHistory returned an error: %v", err)
	}
	defer h.Close()

	ctx := context.Background()
	if err := h.Record(ctx, "run-1", "./...", 2, 3, "2026-07-30T10:00:00Z", "2026-07-30T10:00:05Z"); err != nil {
		t.Fatalf("Record run-1: %v", err)
	}
	if err := h.Record(ctx, "run-2", "./internal/...", 0, 1, "2026-07-30T11:00:00Z", "2026-07-30T11:00:02Z"); err != nil {
		t.Fatalf("Record run-2: %v", err)
	}

	recent, err := h.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent returned an error: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("len(Recent) = %d, want 2", len(recent))
	}
	if recent[0].RunID != "run-2" {
		t.Fatalf("Recent[0].RunID = %q, want run-2 (newest first)", recent[0].RunID)
	}
	if recent[1].RunID != "run-1" {
		t.Fatalf("Recent[1].RunID = %q, want run-1", recent[1].RunID)
	}
}

func TestHistoryRecordReplacesSameRunID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	h, err := OpenHistory(path)
	if err != nil {
		t.Fatalf("OpenHistory returned an error: %v", err)
	}
	defer h.Close()

	ctx := context.Background()
	if err := h.Record(ctx, "run-1", "./...", 5, 5, "2026-07-30T10:00:00Z", "2026-07-30T10:00:05Z"); err != nil {
		t.Fatalf("first Record: %v", err)
	}
	if err := h.Record(ctx, "run-1", "./...", 0, 5, "2026-07-30T10:00:00Z", "2026-07-30T10:00:06Z"); err != nil {
		t.Fatalf("replacing Record: %v", err)
	}

	recent, err := h.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent returned an error: %v", err)
	}
	if len(recent) != 1 {
		t.Fatalf("len(Recent) = %d, want 1 (INSERT OR REPLACE on run_id)", len(recent))
	}
	if recent[0].Diagnostics != 0 {
		t.Fatalf("Diagnostics = %d, want 0 (the replacement's value)", recent[0].Diagnostics)
	}
}
