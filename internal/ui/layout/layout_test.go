package layout

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
)

func TestContentHeight(t *testing.T) {
	cases := []struct {
		total, want int
	}{
		{40, 34},
		{6, 0},
		{2, 0},
	}
	for _, tc := range cases {
		if got := ContentHeight(tc.total); got != tc.want {
			t.Errorf("ContentHeight(%d) = %d, want %d", tc.total, got, tc.want)
		}
	}
}

func TestIsTooSmall(t *testing.T) {
	if IsTooSmall(MinWidth, MinHeight) {
		t.Error("minimum size should fit")
	}
	if !IsTooSmall(MinWidth-1, MinHeight) || !IsTooSmall(MinWidth, MinHeight-1) {
		t.Error("below minimum size should not fit")
	}
}

func TestRenderFrameFillsHeight(t *testing.T) {
	header := RenderHeader("深海圈", "学习中心", "09:30", "Demo 用户", 80)
	footer := RenderFooter([]KeyHint{{Key: "Esc", Description: "关闭"}}, 80)
	frame := RenderFrame(header, "body", footer, 80, 30)

	if got := lipgloss.Height(frame); got != 30 {
		t.Errorf("frame height = %d, want 30", got)
	}
	plain := ansi.Strip(frame)
	for _, want := range []string{"深海圈", "学习中心", "09:30", "Demo 用户", "Esc 关闭", "body"} {
		if !strings.Contains(plain, want) {
			t.Errorf("frame missing %q", want)
		}
	}
}
