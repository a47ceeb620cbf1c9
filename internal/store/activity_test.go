package store

import (
	"context"
	"path/filepath"
	"testing"
)

// journalContract runs the ActivityRepo behavior shared by every implementation.
func journalContract(t *testing.T, repo ActivityRepo) {
	t.Helper()
	ctx := context.Background()

	got, err := repo.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("recent on empty journal: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("recent on empty journal = %v, want none", got)
	}

	inputs := []Activity{
		{Action: ActionLogin},
		{Action: ActionJump, CourseKey: "c1", LessonID: "L3"},
		{Action: ActionComplete, CourseKey: "c1", LessonID: "L1"},
	}
	var last int64
	for _, in := range inputs {
		a, err := repo.Append(ctx, in)
		if err != nil {
			t.Fatalf("append %s: %v", in.Action, err)
		}
		if a.Sequence <= last {
			t.Errorf("sequence %d not after %d", a.Sequence, last)
		}
		if a.CreatedAt.IsZero() {
			t.Error("expected CreatedAt to be set")
		}
		last = a.Sequence
	}

	got, err = repo.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("recent returned %d entries, want 2", len(got))
	}
	if got[0].Action != ActionComplete || got[0].LessonID != "L1" {
		t.Errorf("newest = %+v, want complete L1", got[0])
	}
	if got[1].Action != ActionJump || got[1].CourseKey != "c1" {
		t.Errorf("second = %+v, want jump c1", got[1])
	}
	if got[0].Sequence <= got[1].Sequence {
		t.Error("expected newest first")
	}

	for _, limit := range []int{0, -1} {
		got, err := repo.Recent(ctx, limit)
		if err != nil {
			t.Fatalf("recent(%d): %v", limit, err)
		}
		if len(got) != 0 {
			t.Errorf("recent(%d) returned %d entries, want none", limit, len(got))
		}
	}
}

func TestSQLiteActivityRepo(t *testing.T) {
	journalContract(t, openTestStore(t).ActivityRepo())
}

func TestMemoryJournal(t *testing.T) {
	journalContract(t, NewMemoryJournal())
}

func TestSequenceSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seq.db")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	first, err := s.ActivityRepo().Append(ctx, Activity{Action: ActionLogin})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	second, err := s.ActivityRepo().Append(ctx, Activity{Action: ActionLogout})
	if err != nil {
		t.Fatalf("append after reopen: %v", err)
	}
	if second.Sequence <= first.Sequence {
		t.Errorf("sequence after reopen = %d, want > %d", second.Sequence, first.Sequence)
	}
}
