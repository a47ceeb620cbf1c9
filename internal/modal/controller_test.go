package modal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDoc struct {
	active   string
	elements map[string]bool
	focused  []string
}

func newFakeDoc(active string, elements ...string) *fakeDoc {
	d := &fakeDoc{active: active, elements: map[string]bool{}}
	for _, e := range elements {
		d.elements[e] = true
	}
	return d
}

func (d *fakeDoc) ActiveElement() string { return d.active }
func (d *fakeDoc) Focus(id string) {
	d.active = id
	d.focused = append(d.focused, id)
}
func (d *fakeDoc) Exists(id string) bool { return d.elements[id] }

type fakeViewport struct {
	locked   bool
	scrolled []string
	location string
}

func (v *fakeViewport) ScrollLocked() bool          { return v.locked }
func (v *fakeViewport) SetScrollLocked(locked bool) { v.locked = locked }
func (v *fakeViewport) ScrollIntoView(id string)    { v.scrolled = append(v.scrolled, id) }
func (v *fakeViewport) SetLocation(id string)       { v.location = id }

type fakeFrames struct {
	pending []func()
}

func (f *fakeFrames) RequestFrame(fn func()) { f.pending = append(f.pending, fn) }

func (f *fakeFrames) flush() {
	pending := f.pending
	f.pending = nil
	for _, fn := range pending {
		fn()
	}
}

type fixture struct {
	doc    *fakeDoc
	vp     *fakeViewport
	keys   *Listeners
	frames *fakeFrames
	ctrl   *Controller
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		doc:    newFakeDoc("continue-ai-overseas", "tracks", "faq"),
		vp:     &fakeViewport{},
		keys:   NewListeners(),
		frames: &fakeFrames{},
	}
	f.ctrl = NewController(Env{Document: f.doc, Viewport: f.vp, Keys: f.keys, Frames: f.frames}, nil)
	return f
}

func TestOpenAcquiresResources(t *testing.T) {
	f := newFixture(t)
	f.ctrl.Open()

	assert.Equal(t, Open, f.ctrl.State())
	assert.True(t, f.vp.locked)
	assert.Equal(t, DialogID, f.doc.active)
	assert.Equal(t, 1, f.keys.Len(EscapeKey))
}

func TestCloseRestoresFocus(t *testing.T) {
	f := newFixture(t)
	f.ctrl.Open()
	f.ctrl.Close()

	assert.Equal(t, Closed, f.ctrl.State())
	assert.Equal(t, "continue-ai-overseas", f.doc.active)
	assert.False(t, f.vp.locked)
	assert.Equal(t, 0, f.keys.Len(EscapeKey))
}

func TestEscapeClosesWhenOpen(t *testing.T) {
	f := newFixture(t)
	f.ctrl.Open()

	require.True(t, f.keys.Dispatch(EscapeKey))
	assert.Equal(t, Closed, f.ctrl.State())
	assert.Equal(t, 0, f.keys.Len(EscapeKey))
	assert.Equal(t, "continue-ai-overseas", f.doc.active)
}

func TestEscapeIsNoOpWhenClosed(t *testing.T) {
	f := newFixture(t)

	assert.False(t, f.keys.Dispatch(EscapeKey))
	assert.Equal(t, Closed, f.ctrl.State())
	assert.Empty(t, f.doc.focused)
	assert.False(t, f.vp.locked)

	f.ctrl.Close()
	assert.Empty(t, f.doc.focused, "closing a closed dialog touches nothing")
}

func TestScrollLockRestoresPreviousState(t *testing.T) {
	f := newFixture(t)
	f.vp.locked = true

	f.ctrl.Open()
	f.ctrl.Close()
	assert.True(t, f.vp.locked, "an outer lock survives the dialog")
}

func TestNestedControllers(t *testing.T) {
	f := newFixture(t)
	inner := NewController(Env{Document: f.doc, Viewport: f.vp, Keys: f.keys}, nil)

	f.ctrl.Open()
	inner.Open()
	inner.Close()
	assert.True(t, f.vp.locked)
	assert.Equal(t, DialogID, f.doc.active)

	f.ctrl.Close()
	assert.False(t, f.vp.locked)
	assert.Equal(t, "continue-ai-overseas", f.doc.active)
}

func TestOpenTwiceAcquiresOnce(t *testing.T) {
	f := newFixture(t)
	f.ctrl.Open()
	f.ctrl.Open()
	assert.Equal(t, 1, f.keys.Len(EscapeKey))

	f.ctrl.Close()
	assert.Equal(t, "continue-ai-overseas", f.doc.active)
}

func TestClickBackdrop(t *testing.T) {
	f := newFixture(t)
	f.ctrl.Open()

	f.ctrl.ClickBackdrop(true)
	assert.True(t, f.ctrl.IsOpen(), "clicks inside the body keep it open")

	f.ctrl.ClickBackdrop(false)
	assert.False(t, f.ctrl.IsOpen())
	assert.False(t, f.vp.locked)
}

func TestNavigateAndCloseDefersScroll(t *testing.T) {
	f := newFixture(t)
	f.ctrl.Open()
	f.ctrl.NavigateAndClose("tracks")

	assert.Equal(t, Closed, f.ctrl.State())
	assert.False(t, f.vp.locked)
	assert.Equal(t, 0, f.keys.Len(EscapeKey))
	assert.Equal(t, DialogID, f.doc.active, "focus is not restored after navigation")
	assert.Empty(t, f.vp.scrolled, "scroll waits for the next frame")

	f.frames.flush()
	assert.Equal(t, []string{"tracks"}, f.vp.scrolled)
	assert.Empty(t, f.vp.location)
}

func TestNavigateAndCloseWithoutFrames(t *testing.T) {
	f := newFixture(t)
	ctrl := NewController(Env{Document: f.doc, Viewport: f.vp, Keys: f.keys}, nil)
	ctrl.Open()
	ctrl.NavigateAndClose("faq")

	assert.Equal(t, []string{"faq"}, f.vp.scrolled)
}

func TestNavigateAndCloseUnknownSection(t *testing.T) {
	f := newFixture(t)
	f.ctrl.Open()
	f.ctrl.NavigateAndClose("pricing")

	f.frames.flush()
	assert.Empty(t, f.vp.scrolled)
	assert.Equal(t, "pricing", f.vp.location)
}

func TestTeardownReleasesEverything(t *testing.T) {
	f := newFixture(t)
	f.ctrl.Open()
	f.ctrl.Teardown()

	assert.Equal(t, Closed, f.ctrl.State())
	assert.False(t, f.vp.locked)
	assert.Equal(t, 0, f.keys.Len(EscapeKey))

	f.ctrl.Teardown()
	assert.Equal(t, Closed, f.ctrl.State())
}

func TestMissingCapabilities(t *testing.T) {
	ctrl := NewController(Env{}, nil)

	ctrl.Open()
	assert.True(t, ctrl.IsOpen())
	ctrl.NavigateAndClose("tracks")
	assert.False(t, ctrl.IsOpen())

	ctrl.Open()
	ctrl.Close()
	ctrl.Teardown()
	assert.Equal(t, Closed, ctrl.State())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "open", Open.String())
	assert.Equal(t, "closed", Closed.String())
}
