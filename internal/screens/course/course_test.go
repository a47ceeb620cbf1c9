package course

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/deepsea/deepsea/internal/catalog"
	"github.com/deepsea/deepsea/internal/userstate"
)

func testCourse() catalog.Course {
	return catalog.Course{
		Key:   "c1",
		Title: "Course One",
		Lessons: []catalog.Lesson{
			{ID: "L1", Title: "One"},
			{ID: "L2", Title: "Two"},
			{ID: "L3", Title: "Three"},
		},
	}
}

func newScreen(t *testing.T) (*Screen, *userstate.Store) {
	t.Helper()
	st := userstate.New(nil, nil)
	st.Load(context.Background())
	return New(testCourse(), st, nil), st
}

func TestCourseScreen_Title(t *testing.T) {
	s, _ := newScreen(t)
	if s.Title() != "Course One" {
		t.Errorf("Title = %q, want %q", s.Title(), "Course One")
	}
}

func TestCourseScreen_CursorStartsOnNextLesson(t *testing.T) {
	st := userstate.New(nil, nil)
	st.Load(context.Background())
	c := testCourse()
	st.MarkComplete(context.Background(), c, c.Lessons[0])

	s := New(c, st, nil)
	if s.menu.Selected != 1 {
		t.Errorf("Selected = %d, want 1", s.menu.Selected)
	}
}

func TestCourseScreen_CompleteSelected(t *testing.T) {
	s, st := newScreen(t)

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: 'c', Text: "c"})

	rec := st.Current().Progress["c1"]
	if !rec.Has("L2") || rec.Last != "L2" {
		t.Errorf("progress = %+v, want L2 completed and last", rec)
	}
	view := ansi.Strip(s.View(80, 24))
	if !strings.Contains(view, statusDone) {
		t.Errorf("view should show %q:\n%s", statusDone, view)
	}
	if !strings.Contains(view, "33%") {
		t.Errorf("view should show 33%%:\n%s", view)
	}
}

func TestCourseScreen_EnterJumps(t *testing.T) {
	s, st := newScreen(t)

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})

	rec := st.Current().Progress["c1"]
	if rec.Last != "L3" {
		t.Errorf("Last = %q, want L3", rec.Last)
	}
	if len(rec.Completed) != 0 {
		t.Errorf("Completed = %v, want none", rec.Completed)
	}
	if s.menu.Selected != 2 {
		t.Errorf("cursor moved to %d after jump, want 2", s.menu.Selected)
	}
}

func TestCourseScreen_EmptyCourse(t *testing.T) {
	st := userstate.New(nil, nil)
	st.Load(context.Background())
	s := New(catalog.Course{Key: "empty", Title: "Empty"}, st, nil)

	s.Update(tea.KeyPressMsg{Code: 'c', Text: "c"})
	if _, ok := st.Current().Progress["empty"]; ok {
		t.Error("completing in an empty course should not record progress")
	}
	if view := ansi.Strip(s.View(80, 24)); !strings.Contains(view, "0%") {
		t.Errorf("empty course should show 0%%:\n%s", view)
	}
}
