package page

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/deepsea/deepsea/internal/modal"
	"github.com/deepsea/deepsea/internal/ui/components"
	"github.com/deepsea/deepsea/internal/ui/theme"
)

const (
	backdropID   = "backdrop"
	dialogWidth  = 56
	dialogTitle  = "学习中心即将上线"
	dialogBadge  = "● 学习中心"
	dialogBody   = "课程目录、直播回放等正在配置中。完成后我们会在生财主群第一时间同步开放通知。你可以先浏览下方方向介绍，或关注“最新进展”了解筹备情况。"
	dialogFrameX = 3 // border + horizontal padding
	dialogFrameY = 2 // border + vertical padding
)

type dialogButton struct {
	id    string
	label string
}

var dialogButtons = []dialogButton{
	{"dialog-tracks", "查看方向与准备事项"},
	{"dialog-ok", "我知道了"},
	{"dialog-close", "关闭"},
}

// dialogFrame is a rendered dialog with the positions of its buttons
// relative to its top-left corner.
type dialogFrame struct {
	view    string
	buttons []*lipgloss.Layer
}

func (s *Screen) renderDialog(width int) dialogFrame {
	w := min(dialogWidth, width-4)
	inner := w - 2*dialogFrameX

	var lines []string
	lines = append(lines, theme.Hint.Render(dialogBadge))
	lines = append(lines, theme.Title.Render(dialogTitle))
	lines = append(lines, "")
	lines = append(lines, strings.Split(theme.Body.Width(inner).Render(dialogBody), "\n")...)
	lines = append(lines, "")

	row := len(lines)
	col := 0
	parts := make([]string, 0, len(dialogButtons))
	var layers []*lipgloss.Layer
	for i, b := range dialogButtons {
		view := components.NewButton(b.label, s.dialogFocused && s.dialogFocus == i, nil).View()
		layers = append(layers, lipgloss.NewLayer(view).
			ID(b.id).
			X(dialogFrameX+col).
			Y(dialogFrameY+row))
		parts = append(parts, view)
		col += lipgloss.Width(view) + 1
	}
	lines = append(lines, strings.Join(parts, " "))

	return dialogFrame{
		view:    theme.Dialog.Width(w).Render(strings.Join(lines, "\n")),
		buttons: layers,
	}
}

// composeDialog lays the dialog over the page and returns the canvas used
// for both drawing and hit testing.
func (s *Screen) composeDialog(base string, width, height int) *lipgloss.Canvas {
	frame := s.renderDialog(width)
	x := max(0, (width-lipgloss.Width(frame.view))/2)
	y := max(0, (height-lipgloss.Height(frame.view))/2)

	backdrop := lipgloss.NewLayer(base).ID(backdropID).Width(width).Height(height)
	dialog := lipgloss.NewLayer(frame.view).ID(modal.DialogID).X(x).Y(y).Z(1).
		AddLayers(frame.buttons...)
	return lipgloss.NewCanvas(backdrop, dialog)
}

// dialogClick routes a click while the dialog is open.
func (s *Screen) dialogClick(x, y int) tea.Cmd {
	hit := s.composeDialog(s.vp.View(), s.width, s.height).Hit(x, y)
	switch hit {
	case modal.DialogID:
		s.dialog.ClickBackdrop(true)
		return nil
	case "", backdropID:
		s.dialog.ClickBackdrop(false)
		return nil
	}
	return s.activateDialogButton(hit)
}

func (s *Screen) dialogKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "tab", "right", "down", "l", "j":
		s.dialogFocused = true
		s.dialogFocus = (s.dialogFocus + 1) % len(dialogButtons)
	case "shift+tab", "left", "up", "h", "k":
		s.dialogFocused = true
		s.dialogFocus = (s.dialogFocus + len(dialogButtons) - 1) % len(dialogButtons)
	case "enter", "space":
		return s.activateDialogButton(dialogButtons[s.dialogFocus].id)
	}
	return nil
}

func (s *Screen) activateDialogButton(id string) tea.Cmd {
	switch id {
	case "dialog-tracks":
		s.dialog.NavigateAndClose(SectionTracks)
		s.dialogFocused = false
	case "dialog-ok", "dialog-close":
		s.dialog.Close()
	}
	return nil
}
