// Package history lists the journaled learning actions, newest first.
package history

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/deepsea/deepsea/internal/catalog"
	"github.com/deepsea/deepsea/internal/screen"
	"github.com/deepsea/deepsea/internal/store"
	"github.com/deepsea/deepsea/internal/ui/layout"
	"github.com/deepsea/deepsea/internal/ui/theme"
	"github.com/deepsea/deepsea/internal/userstate"
)

// Limit is how many journal entries the screen loads.
const Limit = 50

var actionLabels = map[string]string{
	store.ActionComplete: "完成",
	store.ActionJump:     "定位",
	store.ActionLogin:    "登录",
	store.ActionLogout:   "退出",
	store.ActionReset:    "重置",
}

// Describe renders one journal entry, using catalog titles when the course
// and lesson still exist.
func Describe(cat *catalog.Catalog, a store.Activity) string {
	label := actionLabels[a.Action]
	if label == "" {
		label = a.Action
	}
	line := a.CreatedAt.Local().Format("01-02 15:04") + "  " + label
	if a.CourseKey == "" {
		return line
	}
	courseTitle, lessonTitle := a.CourseKey, a.LessonID
	if c, ok := cat.Course(a.CourseKey); ok {
		courseTitle = c.Title
		if l, ok := c.Lesson(a.LessonID); ok {
			lessonTitle = l.Title
		}
	}
	return line + "  " + courseTitle + " · " + lessonTitle
}

type loadedMsg struct {
	events []store.Activity
}

// Screen displays the learning journal.
type Screen struct {
	catalog  *catalog.Catalog
	users    *userstate.Store
	events   []store.Activity
	selected int
	loaded   bool
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)

// New creates a history screen over the store's journal.
func New(cat *catalog.Catalog, users *userstate.Store) *Screen {
	return &Screen{catalog: cat, users: users}
}

func (s *Screen) load() tea.Cmd {
	users := s.users
	return func() tea.Msg {
		return loadedMsg{events: users.Activity(context.Background(), Limit)}
	}
}

func (s *Screen) Init() tea.Cmd {
	return s.load()
}

func (s *Screen) Title() string {
	return "学习记录"
}

func (s *Screen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "浏览"},
		{Key: "Esc", Description: "返回"},
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		s.events = msg.events
		s.loaded = true
		s.selected = min(s.selected, max(0, len(s.events)-1))
		return s, nil

	case screen.ResumedMsg, screen.StateChangedMsg:
		return s, s.load()

	case tea.KeyPressMsg:
		switch msg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.events)-1 {
				s.selected++
			}
		}
	}
	return s, nil
}

func (s *Screen) View(width, height int) string {
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  正在加载…")
	}
	if len(s.events) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  还没有学习记录，去学习中心开始第一课吧。")
	}

	var b strings.Builder
	b.WriteString("\n")

	// Keep the cursor on screen.
	first := 0
	if rows := height - 2; rows > 0 && s.selected >= rows {
		first = s.selected - rows + 1
	}
	for i := first; i < len(s.events); i++ {
		prefix := "  "
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			prefix = "> "
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(style.Render(prefix + Describe(s.catalog, s.events[i])))
		b.WriteString("\n")
	}
	return lipgloss.NewStyle().PaddingLeft(2).Render(b.String())
}
