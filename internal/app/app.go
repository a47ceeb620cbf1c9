package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/deepsea/deepsea/internal/catalog"
	"github.com/deepsea/deepsea/internal/modal"
	"github.com/deepsea/deepsea/internal/router"
	"github.com/deepsea/deepsea/internal/screen"
	"github.com/deepsea/deepsea/internal/screens/page"
	"github.com/deepsea/deepsea/internal/selftest"
	"github.com/deepsea/deepsea/internal/ui/layout"
	"github.com/deepsea/deepsea/internal/userstate"
)

// Options configure the application.
type Options struct {
	Catalog *catalog.Catalog
	Store   *userstate.Store
	Logger  *zap.Logger

	// ClockInterval is the header clock refresh period. Zero disables the
	// clock.
	ClockInterval time.Duration
	// SelfTest runs the page self-test once after the first layout.
	SelfTest bool
	Now      func() time.Time
}

type clockTickMsg time.Time

type selfTestMsg struct{}

// frameMsg marks the next frame: deferred work runs when it arrives.
type frameMsg struct{}

// frameQueue defers callbacks to the next frame.
type frameQueue struct {
	mu      sync.Mutex
	pending []func()
}

var _ modal.Frames = (*frameQueue)(nil)

func (q *frameQueue) RequestFrame(fn func()) {
	q.mu.Lock()
	q.pending = append(q.pending, fn)
	q.mu.Unlock()
}

func (q *frameQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

func (q *frameQueue) flush() {
	q.mu.Lock()
	pending := q.pending
	q.pending = nil
	q.mu.Unlock()
	for _, fn := range pending {
		fn()
	}
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	opts    Options
	logger  *zap.Logger
	router  *router.Router
	page    *page.Screen
	keys    *modal.Listeners
	frames  *frameQueue
	harness *selftest.Harness

	width  int
	height int
	sized  bool
	clock  string
}

// newAppModel creates a new AppModel with the landing page.
func newAppModel(opts Options) AppModel {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Store == nil {
		opts.Store = userstate.New(nil, logger)
		opts.Store.Load(context.Background())
	}

	keys := modal.NewListeners()
	frames := &frameQueue{}
	landing := page.New(page.Deps{
		Catalog: opts.Catalog,
		Store:   opts.Store,
		Keys:    keys,
		Frames:  frames,
		Logger:  logger,
	})

	m := AppModel{
		opts:   opts,
		logger: logger,
		router: router.New(landing),
		page:   landing,
		keys:   keys,
		frames: frames,
	}
	if opts.SelfTest {
		m.harness = selftest.New(logger)
	}
	if opts.ClockInterval > 0 {
		m.clock = formatClock(opts.Now())
	}
	return m
}

func formatClock(t time.Time) string {
	return t.Format("15:04")
}

func (m AppModel) tick() tea.Cmd {
	return tea.Tick(m.opts.ClockInterval, func(t time.Time) tea.Msg {
		return clockTickMsg(t)
	})
}

func (m AppModel) Init() tea.Cmd {
	if m.opts.ClockInterval > 0 {
		return m.tick()
	}
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		cmd = m.router.Update(screen.SizeMsg{
			Width:  msg.Width,
			Height: layout.ContentHeight(msg.Height),
		})
		if !m.sized {
			m.sized = true
			if m.harness != nil {
				cmd = tea.Batch(cmd, func() tea.Msg { return selfTestMsg{} })
			}
		}

	case selfTestMsg:
		m.runSelfTest()
		return m, nil

	case clockTickMsg:
		m.clock = formatClock(time.Time(msg))
		return m, m.tick()

	case frameMsg:
		m.frames.flush()

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			m.page.Close()
			return m, tea.Quit
		}
		if m.keys.Dispatch(msg.String()) {
			break
		}
		if msg.String() == "esc" {
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
		cmd = m.router.Update(msg)

	case tea.MouseClickMsg:
		if msg.Button != tea.MouseLeft {
			return m, nil
		}
		y := msg.Y - layout.HeaderHeight
		if y < 0 {
			return m, nil
		}
		cmd = m.router.Update(screen.ClickMsg{X: msg.X, Y: y})

	default:
		cmd = m.router.Update(msg)
	}

	if m.frames.len() > 0 {
		cmd = tea.Batch(cmd, func() tea.Msg { return frameMsg{} })
	}
	return m, cmd
}

// runSelfTest evaluates the landing page once it has a document.
func (m AppModel) runSelfTest() {
	if m.harness == nil {
		return
	}
	doc := m.page.Document()
	if doc == nil {
		m.logger.Debug("self-test skipped, page not laid out yet")
		return
	}
	m.harness.Run(doc)
}

func (m AppModel) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	v.MouseMode = tea.MouseModeCellMotion
	if active := m.router.Active(); active != nil {
		v.WindowTitle = active.Title()
	}
	return v
}

// render draws the whole frame: header, active screen and footer.
func (m AppModel) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	user := "未登录"
	if st := m.opts.Store.Current(); st.LoggedIn {
		user = st.Name
	}

	header := layout.RenderHeader(m.opts.Catalog.Brand, title, m.clock, user, m.width)

	footerHints := []layout.KeyHint{
		{Key: "Ctrl+C", Description: "退出"},
	}
	if p, ok := active.(screen.KeyHintProvider); ok {
		footerHints = p.KeyHints()
	}
	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(ctx context.Context, opts Options) error {
	if opts.Catalog == nil {
		return errors.New("app: catalog is required")
	}
	m := newAppModel(opts)
	p := tea.NewProgram(m, tea.WithContext(ctx))
	final, err := p.Run()
	if fm, ok := final.(AppModel); ok {
		fm.page.Close()
		if fm.harness != nil && !selftest.Passed(fm.harness.Results()) {
			fmt.Fprint(os.Stderr, selftest.Report(fm.harness.Results()))
		}
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
