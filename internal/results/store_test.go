package results

import (
	"context"
	"testing"
)

func TestRecordAndListAttempts(t *testing.T) {
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.RecordAttempt(ctx, "recall", "algebra", 2, 3, 67); err != nil {
		t.Fatal(err)
	}
	if err := store.RecordAttempt(ctx, "upload", "notes.pdf", 5, 5, 100); err != nil {
		t.Fatal(err)
	}

	attempts, err := store.RecentAttempts(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(attempts) != 2 {
		t.Fatalf("attempts=%d, want 2", len(attempts))
	}
	// Newest first.
	if attempts[0].Topic != "notes.pdf" || attempts[0].Percent != 100 {
		t.Fatalf("first attempt = %+v", attempts[0])
	}
	if attempts[1].Mode != "recall" || attempts[1].Score != 2 || attempts[1].Total != 3 {
		t.Fatalf("second attempt = %+v", attempts[1])
	}
	if attempts[0].CreatedAt == "" {
		t.Fatal("created_at not set")
	}
}

func TestRecentAttemptsLimit(t *testing.T) {
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		if err := store.RecordAttempt(ctx, "recall", "t", i, 5, i*20); err != nil {
			t.Fatal(err)
		}
	}
	attempts, err := store.RecentAttempts(ctx, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(attempts) != 3 {
		t.Fatalf("attempts=%d, want 3", len(attempts))
	}
	if attempts[0].Score != 4 {
		t.Fatalf("newest attempt score=%d, want 4", attempts[0].Score)
	}
}
