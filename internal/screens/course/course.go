// Package course shows one course's lessons with their completion state.
package course

import (
	"context"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/deepsea/deepsea/internal/catalog"
	"github.com/deepsea/deepsea/internal/progress"
	"github.com/deepsea/deepsea/internal/screen"
	"github.com/deepsea/deepsea/internal/ui/components"
	"github.com/deepsea/deepsea/internal/ui/layout"
	"github.com/deepsea/deepsea/internal/ui/theme"
	"github.com/deepsea/deepsea/internal/userstate"
)

const (
	statusDone    = "已完成"
	statusPending = "未完成"
)

var completeKey = key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "标记完成"))

// Screen lists a course's lessons.
type Screen struct {
	course catalog.Course
	store  *userstate.Store
	logger *zap.Logger

	state userstate.UserState
	menu  components.Menu
	flash string
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)

// New creates the course screen. The cursor starts on the lesson the
// user would continue with.
func New(course catalog.Course, store *userstate.Store, logger *zap.Logger) *Screen {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Screen{
		course: course,
		store:  store,
		logger: logger.Named("course").With(zap.String("course", course.Key)),
		state:  store.Current(),
	}
	s.rebuild()
	if next, ok := progress.NextLesson(course, s.state.Progress); ok {
		for i, l := range course.Lessons {
			if l.ID == next.ID {
				s.menu.Selected = i
			}
		}
	}
	return s
}

func (s *Screen) Init() tea.Cmd {
	return nil
}

func (s *Screen) Title() string {
	return s.course.Title
}

func (s *Screen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "选择"},
		{Key: "Enter", Description: "跳转"},
		{Key: "c", Description: "标记完成"},
		{Key: "Esc", Description: "返回"},
	}
}

// rebuild recreates the lesson menu from the current state, keeping the
// cursor.
func (s *Screen) rebuild() {
	selected := s.menu.Selected
	items := make([]components.MenuItem, 0, len(s.course.Lessons))
	for _, l := range s.course.Lessons {
		status := theme.Pending.Render(statusPending)
		if progress.IsCompleted(s.course, s.state.Progress, l.ID) {
			status = theme.Done.Render(statusDone)
		}
		label := l.Title
		if l.Duration != "" {
			label += " · " + l.Duration
		}
		items = append(items, components.MenuItem{
			Label:  label,
			Detail: status,
			Action: s.jumpTo(l),
		})
	}
	s.menu = components.NewMenu(items)
	if selected < len(items) {
		s.menu.Selected = selected
	}
}

func (s *Screen) jumpTo(l catalog.Lesson) func() tea.Cmd {
	return func() tea.Cmd {
		s.state = s.store.JumpTo(context.Background(), s.course, l)
		s.flash = fmt.Sprintf("已定位到：%s", l.Title)
		s.rebuild()
		return nil
	}
}

func (s *Screen) selectedLesson() (catalog.Lesson, bool) {
	if s.menu.Selected < 0 || s.menu.Selected >= len(s.course.Lessons) {
		return catalog.Lesson{}, false
	}
	return s.course.Lessons[s.menu.Selected], true
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.ResumedMsg, screen.StateChangedMsg:
		s.state = s.store.Current()
		s.rebuild()
		return s, nil

	case tea.KeyPressMsg:
		if key.Matches(msg, completeKey) {
			if l, ok := s.selectedLesson(); ok {
				s.state = s.store.MarkComplete(context.Background(), s.course, l)
				s.flash = fmt.Sprintf("已完成：%s", l.Title)
				s.logger.Debug("lesson completed", zap.String("lesson", l.ID))
				s.rebuild()
			}
			return s, nil
		}
		var cmd tea.Cmd
		s.menu, cmd = s.menu.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *Screen) View(width, height int) string {
	var b strings.Builder

	b.WriteString(theme.Title.Render(s.course.Title))
	b.WriteString("\n")
	if s.course.Tagline != "" {
		b.WriteString(theme.Subtitle.Width(max(10, width-4)).Render(s.course.Tagline))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	ratio := progress.CourseProgress(s.course, s.state.Progress)
	bar := components.NewProgressBar("进度", ratio, true, min(width-4, 60))
	b.WriteString(bar.View())
	b.WriteString("\n\n")

	if len(s.course.Lessons) == 0 {
		b.WriteString(theme.Hint.Render("本课程暂无课时"))
	} else {
		b.WriteString(s.menu.View())
	}

	if s.flash != "" {
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render(s.flash))
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}
