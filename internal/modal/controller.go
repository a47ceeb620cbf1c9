// Package modal implements the learning-center dialog lifecycle: a
// Closed/Open state machine whose side effects (focus capture, scroll lock,
// Escape listener) are acquired on open and released on every exit path.
package modal

import (
	"sync"

	"go.uber.org/zap"
)

// DialogID is the focus target of the dialog container.
const DialogID = "learning-modal"

// EscapeKey is the key the controller listens for while open.
const EscapeKey = "esc"

// State is the controller state.
type State int

const (
	Closed State = iota
	Open
)

func (s State) String() string {
	if s == Open {
		return "open"
	}
	return "closed"
}

// Document is the focus side of the rendering environment.
type Document interface {
	// ActiveElement returns the id of the focused element, "" for none.
	ActiveElement() string
	// Focus moves input focus to the element with id.
	Focus(id string)
	// Exists reports whether an element with id is rendered.
	Exists(id string) bool
}

// Viewport is the scrolling side of the rendering environment.
type Viewport interface {
	ScrollLocked() bool
	SetScrollLocked(locked bool)
	// ScrollIntoView brings the element with id to the top of the view.
	ScrollIntoView(id string)
	// SetLocation records id as the current section without scrolling.
	SetLocation(id string)
}

// Keys registers key listeners. The returned func unsubscribes.
type Keys interface {
	Listen(key string, fn func()) (unsubscribe func())
}

// Frames defers work to the next render.
type Frames interface {
	RequestFrame(fn func())
}

// Env bundles the capabilities the controller drives. Any of them may be
// nil; the matching side effects are then skipped.
type Env struct {
	Document Document
	Viewport Viewport
	Keys     Keys
	Frames   Frames
}

// Controller is the dialog state machine. The zero value is not usable;
// create one with NewController.
type Controller struct {
	env    Env
	logger *zap.Logger

	mu       sync.Mutex
	state    State
	releases []func()
	// captured is the element focused before Open, restored on Close
	// unless cleared by NavigateAndClose.
	captured    string
	hasCaptured bool
}

// NewController returns a closed controller over env.
func NewController(env Env, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{env: env, logger: logger.Named("modal")}
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// IsOpen reports whether the dialog is open.
func (c *Controller) IsOpen() bool { return c.State() == Open }

// Open transitions Closed to Open and acquires the dialog's resources.
// Opening an open dialog does nothing.
func (c *Controller) Open() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == Open {
		return
	}
	c.state = Open

	if c.env.Document == nil || c.env.Viewport == nil {
		c.logger.Debug("runtime capability missing, skipping dialog side effects")
	}

	if doc := c.env.Document; doc != nil {
		c.captured = doc.ActiveElement()
		c.hasCaptured = true
		c.push(func() {
			if c.hasCaptured {
				doc.Focus(c.captured)
			}
			c.captured, c.hasCaptured = "", false
		})
	}

	if vp := c.env.Viewport; vp != nil {
		prev := vp.ScrollLocked()
		vp.SetScrollLocked(true)
		c.push(func() { vp.SetScrollLocked(prev) })
	}

	if doc := c.env.Document; doc != nil {
		doc.Focus(DialogID)
	}

	if keys := c.env.Keys; keys != nil {
		unsubscribe := keys.Listen(EscapeKey, c.Close)
		c.push(unsubscribe)
	}

	c.logger.Debug("dialog opened", zap.Int("resources", len(c.releases)))
}

func (c *Controller) push(release func()) {
	c.releases = append(c.releases, release)
}

// Close transitions Open to Closed and releases every acquired resource
// in reverse order. Closing a closed dialog does nothing.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeLocked()
}

func (c *Controller) closeLocked() {
	if c.state != Open {
		return
	}
	c.state = Closed
	c.releaseLocked()
	c.logger.Debug("dialog closed")
}

func (c *Controller) releaseLocked() {
	for i := len(c.releases) - 1; i >= 0; i-- {
		c.releases[i]()
	}
	c.releases = nil
}

// ClickBackdrop closes the dialog when the click landed outside its body.
func (c *Controller) ClickBackdrop(insideBody bool) {
	if insideBody {
		return
	}
	c.Close()
}

// NavigateAndClose closes the dialog without restoring focus and brings
// section into view. The scroll waits for the next frame when a frame
// scheduler is available. An unknown section only updates the location.
func (c *Controller) NavigateAndClose(section string) {
	c.mu.Lock()
	c.captured, c.hasCaptured = "", false
	c.closeLocked()
	env := c.env
	c.mu.Unlock()

	doc, vp := env.Document, env.Viewport
	if vp == nil {
		return
	}
	if doc == nil || !doc.Exists(section) {
		vp.SetLocation(section)
		return
	}
	if env.Frames != nil {
		env.Frames.RequestFrame(func() { vp.ScrollIntoView(section) })
		return
	}
	vp.ScrollIntoView(section)
}

// Teardown releases everything the controller holds regardless of how it
// is being torn down. The controller ends Closed.
func (c *Controller) Teardown() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state = Closed
	c.releaseLocked()
}
