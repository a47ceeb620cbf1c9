package page

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deepsea/deepsea/internal/catalog"
	"github.com/deepsea/deepsea/internal/modal"
	"github.com/deepsea/deepsea/internal/router"
	"github.com/deepsea/deepsea/internal/screen"
	"github.com/deepsea/deepsea/internal/selftest"
	"github.com/deepsea/deepsea/internal/userstate"
)

const (
	testWidth  = 100
	testHeight = 30
)

// queuedFrames holds deferred work until flush.
type queuedFrames struct {
	pending []func()
}

func (f *queuedFrames) RequestFrame(fn func()) { f.pending = append(f.pending, fn) }

func (f *queuedFrames) flush() {
	pending := f.pending
	f.pending = nil
	for _, fn := range pending {
		fn()
	}
}

type fixture struct {
	page   *Screen
	store  *userstate.Store
	keys   *modal.Listeners
	frames *queuedFrames
}

func newFixture(t *testing.T, withFrames bool) *fixture {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)

	st := userstate.New(nil, nil)
	st.Load(context.Background())

	f := &fixture{store: st, keys: modal.NewListeners()}
	deps := Deps{Catalog: cat, Store: st, Keys: f.keys}
	if withFrames {
		f.frames = &queuedFrames{}
		deps.Frames = f.frames
	}
	f.page = New(deps)
	f.page.Update(screen.SizeMsg{Width: testWidth, Height: testHeight})
	return f
}

// activate focuses the element and presses enter on it.
func (f *fixture) activate(t *testing.T, id string) tea.Cmd {
	t.Helper()
	f.page.setFocus(id)
	_, ok := f.page.focused()
	require.True(t, ok, "no focusable %q", id)
	_, cmd := f.page.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	return cmd
}

func (f *fixture) openDialog(t *testing.T) {
	t.Helper()
	f.page.Update(tea.KeyPressMsg{Code: 'l', Text: "l"})
	require.True(t, f.page.Dialog().IsOpen())
}

func TestDocumentIsNilBeforeLayout(t *testing.T) {
	cat, err := catalog.Default()
	require.NoError(t, err)
	st := userstate.New(nil, nil)
	p := New(Deps{Catalog: cat, Store: st})
	assert.Nil(t, p.Document())
}

func TestFirstLayoutPassesSelfTest(t *testing.T) {
	f := newFixture(t, false)
	results := selftest.New(nil).Run(f.page.Document())
	assert.True(t, selftest.Passed(results), "\n%s", selftest.Report(results))
}

func TestOpenDialogAcquiresAndEscapeReleases(t *testing.T) {
	f := newFixture(t, false)
	assert.Equal(t, "open-learning", f.page.ActiveElement())

	f.openDialog(t)
	assert.Equal(t, modal.DialogID, f.page.ActiveElement())
	assert.True(t, f.page.ScrollLocked())
	assert.Equal(t, 1, f.keys.Len(modal.EscapeKey))

	assert.True(t, f.keys.Dispatch(modal.EscapeKey))
	assert.False(t, f.page.Dialog().IsOpen())
	assert.Equal(t, "open-learning", f.page.ActiveElement())
	assert.False(t, f.page.ScrollLocked())
	assert.Equal(t, 0, f.keys.Len(modal.EscapeKey))
}

func TestHeroButtonOpensDialog(t *testing.T) {
	f := newFixture(t, false)
	f.activate(t, "open-learning")
	assert.True(t, f.page.Dialog().IsOpen())
	assert.NotEmpty(t, f.page.View(testWidth, testHeight))
}

func TestScrollIsLockedWhileOpen(t *testing.T) {
	f := newFixture(t, false)
	f.openDialog(t)

	f.page.Update(tea.MouseWheelMsg{Button: tea.MouseWheelDown})
	f.page.Update(tea.KeyPressMsg{Code: tea.KeyPgDown})
	assert.Equal(t, 0, f.page.vp.YOffset())

	f.keys.Dispatch(modal.EscapeKey)
	f.page.Update(tea.MouseWheelMsg{Button: tea.MouseWheelDown})
	assert.Positive(t, f.page.vp.YOffset())
}

func TestBackdropClickCloses(t *testing.T) {
	f := newFixture(t, false)
	f.openDialog(t)

	canvas := f.page.composeDialog(f.page.vp.View(), testWidth, testHeight)
	body := canvas.Get(modal.DialogID).Bounds().Min

	f.page.Update(screen.ClickMsg{X: body.X + 1, Y: body.Y + 1})
	assert.True(t, f.page.Dialog().IsOpen(), "click inside the body keeps the dialog open")

	f.page.Update(screen.ClickMsg{X: 0, Y: 0})
	assert.False(t, f.page.Dialog().IsOpen())
	assert.Equal(t, "open-learning", f.page.ActiveElement())
}

func TestDialogOkButtonCloses(t *testing.T) {
	f := newFixture(t, false)
	f.openDialog(t)

	canvas := f.page.composeDialog(f.page.vp.View(), testWidth, testHeight)
	ok := canvas.Get("dialog-ok")
	require.NotNil(t, ok)
	at := ok.Bounds().Min

	f.page.Update(screen.ClickMsg{X: at.X, Y: at.Y})
	assert.False(t, f.page.Dialog().IsOpen())
	assert.Equal(t, "open-learning", f.page.ActiveElement())
}

func TestNavigateToTracksWaitsForFrame(t *testing.T) {
	f := newFixture(t, true)
	f.openDialog(t)

	// The first dialog button is focused on open.
	f.page.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.False(t, f.page.Dialog().IsOpen())
	assert.False(t, f.page.ScrollLocked())
	assert.Equal(t, 0, f.page.vp.YOffset(), "scroll is deferred")
	require.Len(t, f.frames.pending, 1)

	f.frames.flush()
	assert.Equal(t, f.page.sections[SectionTracks], f.page.vp.YOffset())
	assert.Equal(t, "深海圈 #tracks", f.page.Title())
	assert.NotEqual(t, modal.DialogID, f.page.ActiveElement())
}

func TestNavigateWithoutFramesScrollsNow(t *testing.T) {
	f := newFixture(t, false)
	f.openDialog(t)

	f.page.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.Equal(t, f.page.sections[SectionTracks], f.page.vp.YOffset())
}

func TestCloseTearsDownDialog(t *testing.T) {
	f := newFixture(t, false)
	f.openDialog(t)

	f.page.Close()
	assert.False(t, f.page.Dialog().IsOpen())
	assert.False(t, f.page.ScrollLocked())
	assert.Equal(t, 0, f.keys.Len(modal.EscapeKey))
}

func TestCompleteAndContinue(t *testing.T) {
	f := newFixture(t, false)

	f.activate(t, "complete-ai-overseas")
	rec := f.store.Current().Progress["ai-overseas"]
	assert.Equal(t, []string{"prep-1"}, rec.Completed)
	assert.Equal(t, "prep-1", rec.Last)
	assert.Contains(t, f.page.Document().Text(), "20%")
	assert.True(t, f.page.Document().Has("resume-btn"))

	f.activate(t, "continue-yt-ai")
	rec = f.store.Current().Progress["yt-ai"]
	assert.Empty(t, rec.Completed)
	assert.Equal(t, "yt-0", rec.Last)
}

func TestContinueTargetsNextLesson(t *testing.T) {
	f := newFixture(t, false)
	f.activate(t, "complete-ai-overseas")
	f.activate(t, "complete-ai-overseas")

	rec := f.store.Current().Progress["ai-overseas"]
	assert.Equal(t, []string{"prep-1", "base-1"}, rec.Completed)
	assert.Contains(t, f.page.Document().Text(), "继续学习：接入订阅支付")
}

func TestLogoutHidesCourses(t *testing.T) {
	f := newFixture(t, false)
	require.Equal(t, 2, f.page.Document().CountPrefix("course-card-"))

	f.activate(t, "logout")
	assert.False(t, f.store.Current().LoggedIn)
	assert.Equal(t, 0, f.page.Document().CountPrefix("course-card-"))
	assert.True(t, f.page.Document().Has("demo-login"))

	f.activate(t, "demo-login")
	assert.True(t, f.store.Current().LoggedIn)
	assert.Equal(t, 2, f.page.Document().CountPrefix("course-card-"))
}

func TestCatalogButtonPushesCourseScreen(t *testing.T) {
	f := newFixture(t, false)
	cmd := f.activate(t, "catalog-yt-ai")
	require.NotNil(t, cmd)

	push, ok := cmd().(router.PushScreenMsg)
	require.True(t, ok)
	assert.Equal(t, "YouTube AI 视频", push.Screen.Title())
}

func TestHistoryButtonPushesHistoryScreen(t *testing.T) {
	f := newFixture(t, false)
	cmd := f.activate(t, "history")
	require.NotNil(t, cmd)

	push, ok := cmd().(router.PushScreenMsg)
	require.True(t, ok)
	assert.Equal(t, "学习记录", push.Screen.Title())
}

func TestTrackCardClickScrollsToDetail(t *testing.T) {
	f := newFixture(t, false)

	var card focusable
	for _, fc := range f.page.focusables {
		if fc.id == "track-card-yt-ai" {
			card = fc
		}
	}
	require.NotEmpty(t, card.id)

	f.page.vp.SetYOffset(card.line)
	f.page.Update(screen.ClickMsg{X: 1, Y: card.line - f.page.vp.YOffset()})
	assert.Equal(t, "yt-ai", f.page.location)
	assert.Equal(t, "track-card-yt-ai", f.page.ActiveElement())
}

func TestFAQToggle(t *testing.T) {
	f := newFixture(t, false)
	answer := f.page.catalog.FAQ[0].A
	require.NotEmpty(t, answer)
	first := []rune(answer)[:4]

	assert.NotContains(t, f.page.Document().Text(), string(first))
	f.activate(t, "faq-0")
	assert.Contains(t, f.page.Document().Text(), string(first))
	f.activate(t, "faq-0")
	assert.NotContains(t, f.page.Document().Text(), string(first))
}

func TestTabMovesFocus(t *testing.T) {
	f := newFixture(t, false)
	f.page.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	assert.Equal(t, "hero-tracks", f.page.ActiveElement())
	f.page.Update(tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift})
	assert.Equal(t, "open-learning", f.page.ActiveElement())
}

func TestResumedReloadsState(t *testing.T) {
	f := newFixture(t, false)
	course, ok := f.page.catalog.Course("yt-ai")
	require.True(t, ok)
	f.store.MarkComplete(context.Background(), course, course.Lessons[0])

	f.page.Update(screen.ResumedMsg{})
	assert.True(t, strings.Contains(f.page.Document().Text(), "20%"))
}
