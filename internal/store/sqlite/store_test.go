package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"serv00_keepalive/internal/model"
)

func TestRecordAndListHistory(t *testing.T) {
	ctx := context.Background()
	store, err := Open(ctx, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	first, err := store.RecordResult(ctx, model.CheckRecord{
		RunID:    "run-1",
		PanelURL: "https://panel12.serv00.com",
		Username: "alice",
		Status:   model.StatusActive,
		Message:  "账号正常",
		Details:  "有效期至: 2 stycznia 2036",
	})
	if err != nil {
		t.Fatal(err)
	}
	if first.ID == "" {
		t.Fatal("expected generated record id")
	}

	_, err = store.RecordResult(ctx, model.CheckRecord{
		RunID:    "run-2",
		PanelURL: "https://panel12.serv00.com",
		Username: "alice",
		Status:   model.StatusBanned,
		Message:  "账号已被封禁",
		Details:  "spam abuse",
	})
	if err != nil {
		t.Fatal(err)
	}

	records, err := store.RecentResults(ctx, "https://panel12.serv00.com", "alice", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	for _, rec := range records {
		if rec.Username != "alice" {
			t.Fatalf("username = %q", rec.Username)
		}
	}
}

func TestRecordResultRequiresAccount(t *testing.T) {
	ctx := context.Background()
	store, err := Open(ctx, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	if _, err := store.RecordResult(ctx, model.CheckRecord{RunID: "run-1"}); err == nil {
		t.Fatal("expected error for record without panel/username")
	}
}

func TestRecentResultsOtherAccountExcluded(t *testing.T) {
	ctx := context.Background()
	store, err := Open(ctx, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	_, err = store.RecordResult(ctx, model.CheckRecord{
		RunID:    "run-1",
		PanelURL: "https://panel3.serv00.com",
		Username: "bob",
		Status:   model.StatusActive,
	})
	if err != nil {
		t.Fatal(err)
	}

	records, err := store.RecentResults(ctx, "https://panel12.serv00.com", "alice", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 0 {
		t.Fatalf("got %d records, want 0", len(records))
	}
}
