package history

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/deepsea/deepsea/internal/catalog"
	"github.com/deepsea/deepsea/internal/store"
	"github.com/deepsea/deepsea/internal/userstate"
)

func setup(t *testing.T) (*catalog.Catalog, *userstate.Store) {
	t.Helper()
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	users := userstate.New(nil, nil).WithJournal(store.NewMemoryJournal())
	users.Load(context.Background())
	return cat, users
}

func TestDescribe(t *testing.T) {
	cat, _ := setup(t)
	at := time.Date(2025, 3, 1, 9, 30, 0, 0, time.Local)

	course, _ := cat.Course("yt-ai")
	got := Describe(cat, store.Activity{
		Action: store.ActionComplete, CourseKey: "yt-ai", LessonID: course.Lessons[1].ID, CreatedAt: at,
	})
	want := "03-01 09:30  完成  " + course.Title + " · " + course.Lessons[1].Title
	if got != want {
		t.Errorf("Describe = %q, want %q", got, want)
	}

	if got := Describe(cat, store.Activity{Action: store.ActionLogout, CreatedAt: at}); got != "03-01 09:30  退出" {
		t.Errorf("Describe(logout) = %q", got)
	}

	got = Describe(cat, store.Activity{Action: "archived", CourseKey: "gone", LessonID: "x", CreatedAt: at})
	if !strings.HasSuffix(got, "archived  gone · x") {
		t.Errorf("Describe(unknown) = %q", got)
	}
}

func TestHistoryScreen_LoadsNewestFirst(t *testing.T) {
	cat, users := setup(t)
	ctx := context.Background()
	course, _ := cat.Course("ai-overseas")
	users.JumpTo(ctx, course, course.Lessons[2])
	users.MarkComplete(ctx, course, course.Lessons[0])

	s := New(cat, users)
	if view := s.View(80, 20); !strings.Contains(view, "正在加载") {
		t.Errorf("expected loading view before data, got %q", view)
	}

	s.Update(s.Init()())
	view := ansi.Strip(s.View(80, 20))
	complete := strings.Index(view, course.Lessons[0].Title)
	jump := strings.Index(view, course.Lessons[2].Title)
	if complete < 0 || jump < 0 {
		t.Fatalf("view missing entries:\n%s", view)
	}
	if complete > jump {
		t.Error("expected the newest entry first")
	}
}

func TestHistoryScreen_Empty(t *testing.T) {
	cat, users := setup(t)
	s := New(cat, users)
	s.Update(s.Init()())
	if view := ansi.Strip(s.View(80, 20)); !strings.Contains(view, "还没有学习记录") {
		t.Errorf("expected empty message, got %q", view)
	}
}

func TestHistoryScreen_Navigation(t *testing.T) {
	cat, users := setup(t)
	ctx := context.Background()
	users.Logout(ctx)
	users.Login(ctx)

	s := New(cat, users)
	s.Update(s.Init()())

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if s.selected != 1 {
		t.Errorf("selected = %d, want 1", s.selected)
	}
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if s.selected != 1 {
		t.Errorf("selected moved past the end: %d", s.selected)
	}
	s.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if s.selected != 0 {
		t.Errorf("selected = %d, want 0", s.selected)
	}
}
