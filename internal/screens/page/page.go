// Package page is the scrolling landing page: marketing sections, the
// learning center and the learning-center dialog.
package page

import (
	"context"
	"fmt"

	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/deepsea/deepsea/internal/catalog"
	"github.com/deepsea/deepsea/internal/modal"
	"github.com/deepsea/deepsea/internal/router"
	"github.com/deepsea/deepsea/internal/screen"
	coursescreen "github.com/deepsea/deepsea/internal/screens/course"
	"github.com/deepsea/deepsea/internal/screens/history"
	"github.com/deepsea/deepsea/internal/ui/document"
	"github.com/deepsea/deepsea/internal/ui/layout"
	"github.com/deepsea/deepsea/internal/userstate"
)

// Deps are the collaborators the page needs.
type Deps struct {
	Catalog *catalog.Catalog
	Store   *userstate.Store
	Keys    modal.Keys   // Escape subscription while the dialog is open
	Frames  modal.Frames // deferred scrolling after navigation
	Logger  *zap.Logger
}

type keyMap struct {
	Next     key.Binding
	Prev     key.Binding
	Activate key.Binding
	Learn    key.Binding
	Top      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Next:     key.NewBinding(key.WithKeys("tab", "down", "j"), key.WithHelp("↓/Tab", "下一项")),
		Prev:     key.NewBinding(key.WithKeys("shift+tab", "up", "k"), key.WithHelp("↑", "上一项")),
		Activate: key.NewBinding(key.WithKeys("enter", "space"), key.WithHelp("Enter", "打开")),
		Learn:    key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "学习中心")),
		Top:      key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "顶部")),
	}
}

// Screen is the landing page.
type Screen struct {
	catalog *catalog.Catalog
	store   *userstate.Store
	logger  *zap.Logger
	keys    keyMap

	state  userstate.UserState
	vp     viewport.Model
	width  int
	height int

	// Layout of the last render.
	focusables []focusable
	sections   map[string]int
	doc        *document.Document

	focusID  string
	locked   bool
	location string
	faqOpen  map[int]bool
	flash    string

	dialog        *modal.Controller
	dialogFocused bool
	dialogFocus   int
}

var _ screen.Screen = (*Screen)(nil)

// New creates the page over the store's current state.
func New(deps Deps) *Screen {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	vp := viewport.New()
	vp.KeyMap.Up.SetEnabled(false)
	vp.KeyMap.Down.SetEnabled(false)
	vp.KeyMap.Left.SetEnabled(false)
	vp.KeyMap.Right.SetEnabled(false)
	vp.KeyMap.PageDown = key.NewBinding(key.WithKeys("pgdown", "f"))

	s := &Screen{
		catalog:  deps.Catalog,
		store:    deps.Store,
		logger:   logger.Named("page"),
		keys:     defaultKeyMap(),
		state:    deps.Store.Current(),
		vp:       vp,
		sections: map[string]int{},
		faqOpen:  map[int]bool{},
		focusID:  "open-learning",
	}
	s.dialog = modal.NewController(modal.Env{
		Document: s,
		Viewport: s,
		Keys:     deps.Keys,
		Frames:   deps.Frames,
	}, logger)
	return s
}

func (s *Screen) Init() tea.Cmd {
	return nil
}

func (s *Screen) Title() string {
	if s.location != "" {
		return "深海圈 #" + s.location
	}
	return "深海圈"
}

// Document returns the landmarks of the last layout.
func (s *Screen) Document() *document.Document {
	return s.doc
}

// Dialog exposes the learning-center dialog controller.
func (s *Screen) Dialog() *modal.Controller {
	return s.dialog
}

// Close releases the dialog's resources.
func (s *Screen) Close() {
	s.dialog.Teardown()
}

func (s *Screen) KeyHints() []layout.KeyHint {
	if s.dialog.IsOpen() {
		return []layout.KeyHint{
			{Key: "Tab", Description: "切换"},
			{Key: "Enter", Description: "确认"},
			{Key: "Esc", Description: "关闭"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "移动"},
		{Key: "Enter", Description: "打开"},
		{Key: "l", Description: "学习中心"},
		{Key: "PgUp/PgDn", Description: "翻页"},
		{Key: "Ctrl+C", Description: "退出"},
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.SizeMsg:
		s.resize(msg.Width, msg.Height)
		return s, nil

	case screen.ResumedMsg, screen.StateChangedMsg:
		s.state = s.store.Current()
		s.relayout()
		return s, nil

	case tea.KeyPressMsg:
		if s.dialog.IsOpen() {
			return s, s.dialogKey(msg)
		}
		return s, s.handleKey(msg)

	case screen.ClickMsg:
		if s.dialog.IsOpen() {
			return s, s.dialogClick(msg.X, msg.Y)
		}
		return s, s.click(msg.X, msg.Y)

	case tea.MouseWheelMsg:
		if !s.locked {
			s.vp, _ = s.vp.Update(msg)
		}
		return s, nil
	}
	return s, nil
}

func (s *Screen) View(width, height int) string {
	if width != s.width || height != s.height {
		s.resize(width, height)
	}
	base := s.vp.View()
	if s.dialog.IsOpen() {
		return s.composeDialog(base, width, height).Render()
	}
	return base
}

func (s *Screen) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	switch {
	case key.Matches(msg, s.keys.Next):
		s.moveFocus(1)
	case key.Matches(msg, s.keys.Prev):
		s.moveFocus(-1)
	case key.Matches(msg, s.keys.Activate):
		if f, ok := s.focused(); ok && f.action != nil {
			return f.action()
		}
	case key.Matches(msg, s.keys.Learn):
		return s.openDialog()
	case key.Matches(msg, s.keys.Top):
		s.ScrollIntoView(SectionHome)
	default:
		if !s.locked {
			s.vp, _ = s.vp.Update(msg)
		}
	}
	return nil
}

func (s *Screen) click(x, y int) tea.Cmd {
	line := y + s.vp.YOffset()
	for _, f := range s.focusables {
		if f.contains(x, line) {
			s.setFocus(f.id)
			if f.action != nil {
				return f.action()
			}
			return nil
		}
	}
	return nil
}

func (s *Screen) resize(width, height int) {
	s.width, s.height = width, height
	s.vp.SetWidth(width)
	s.vp.SetHeight(height)
	s.relayout()
}

// relayout re-renders the page content, keeping the scroll position.
func (s *Screen) relayout() {
	if s.width == 0 {
		return
	}
	c := s.render(max(20, s.width-2))
	offset := s.vp.YOffset()
	s.vp.SetContentLines(c.lines)
	s.vp.SetYOffset(offset)
	s.focusables = c.focusables
	s.sections = c.sections
	s.doc = c.doc
}

func (s *Screen) focused() (focusable, bool) {
	for _, f := range s.focusables {
		if f.id == s.focusID {
			return f, true
		}
	}
	return focusable{}, false
}

func (s *Screen) setFocus(id string) {
	if id == s.focusID {
		return
	}
	s.focusID = id
	s.relayout()
}

func (s *Screen) moveFocus(delta int) {
	n := len(s.focusables)
	if n == 0 {
		return
	}
	idx := -1
	for i, f := range s.focusables {
		if f.id == s.focusID {
			idx = i
			break
		}
	}
	switch {
	case idx < 0 && delta > 0:
		idx = 0
	case idx < 0:
		idx = n - 1
	default:
		idx = (idx + delta + n) % n
	}
	s.setFocus(s.focusables[idx].id)
	if f, ok := s.focused(); ok {
		s.vp.EnsureVisible(f.line+f.height-1, 0, 0)
		s.vp.EnsureVisible(f.line, 0, 0)
	}
}

// Actions bound to focusable elements.

func (s *Screen) openDialog() tea.Cmd {
	s.dialog.Open()
	return nil
}

func (s *Screen) goTo(section string) func() tea.Cmd {
	return func() tea.Cmd {
		s.ScrollIntoView(section)
		return nil
	}
}

func (s *Screen) toggleFAQ(i int) func() tea.Cmd {
	return func() tea.Cmd {
		s.faqOpen[i] = !s.faqOpen[i]
		s.relayout()
		return nil
	}
}

func (s *Screen) login() tea.Cmd {
	s.state = s.store.Login(context.Background())
	s.focusID = "logout"
	s.relayout()
	return nil
}

func (s *Screen) logout() tea.Cmd {
	s.state = s.store.Logout(context.Background())
	s.flash = ""
	s.focusID = "demo-login"
	s.relayout()
	return nil
}

func (s *Screen) jumpTo(course catalog.Course, lesson catalog.Lesson) func() tea.Cmd {
	return func() tea.Cmd {
		s.state = s.store.JumpTo(context.Background(), course, lesson)
		s.flash = fmt.Sprintf("已定位到：%s · %s", course.Title, lesson.Title)
		s.relayout()
		return nil
	}
}

func (s *Screen) markComplete(course catalog.Course, lesson catalog.Lesson) func() tea.Cmd {
	return func() tea.Cmd {
		s.state = s.store.MarkComplete(context.Background(), course, lesson)
		s.flash = fmt.Sprintf("已完成：%s · %s", course.Title, lesson.Title)
		s.relayout()
		return nil
	}
}

func (s *Screen) openCourse(course catalog.Course) func() tea.Cmd {
	return func() tea.Cmd {
		next := coursescreen.New(course, s.store, s.logger)
		return func() tea.Msg {
			return router.PushScreenMsg{Screen: next}
		}
	}
}

func (s *Screen) openHistory() tea.Cmd {
	next := history.New(s.catalog, s.store)
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: next}
	}
}
