package page

import "github.com/deepsea/deepsea/internal/modal"

// The page is the dialog's environment: it owns focus and scrolling.
var (
	_ modal.Document = (*Screen)(nil)
	_ modal.Viewport = (*Screen)(nil)
)

func (s *Screen) ActiveElement() string {
	if s.dialogFocused {
		return modal.DialogID
	}
	return s.focusID
}

func (s *Screen) Focus(id string) {
	if id == modal.DialogID {
		s.dialogFocused = true
		s.dialogFocus = 0
		return
	}
	s.dialogFocused = false
	s.setFocus(id)
}

func (s *Screen) Exists(id string) bool {
	_, ok := s.sections[id]
	return ok
}

func (s *Screen) ScrollLocked() bool { return s.locked }

func (s *Screen) SetScrollLocked(locked bool) {
	s.locked = locked
	s.vp.MouseWheelEnabled = !locked
}

// ScrollIntoView puts the section's first line at the top of the view and
// records it as the current location.
func (s *Screen) ScrollIntoView(id string) {
	line, ok := s.sections[id]
	if !ok {
		return
	}
	s.vp.SetYOffset(line)
	s.location = id
}

func (s *Screen) SetLocation(id string) {
	s.location = id
}
