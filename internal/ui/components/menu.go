package components

import (
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/deepsea/deepsea/internal/ui/theme"
)

// MenuItem represents a single item in a navigation menu.
type MenuItem struct {
	Label    string
	Detail   string // right-hand annotation, e.g. a status
	Action   func() tea.Cmd
	Disabled bool
}

// MenuKeys are the bindings a Menu responds to.
type MenuKeys struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
}

// DefaultMenuKeys returns arrow/vim navigation with enter to select.
func DefaultMenuKeys() MenuKeys {
	return MenuKeys{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑", "上移")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓", "下移")),
		Select: key.NewBinding(key.WithKeys("enter"), key.WithHelp("Enter", "选择")),
	}
}

// Menu is a vertical navigation menu.
type Menu struct {
	Items    []MenuItem
	Selected int
	Keys     MenuKeys
}

// NewMenu creates a new menu with the given items.
func NewMenu(items []MenuItem) Menu {
	selected := 0
	for i, item := range items {
		if !item.Disabled {
			selected = i
			break
		}
	}
	return Menu{
		Items:    items,
		Selected: selected,
		Keys:     DefaultMenuKeys(),
	}
}

// Init returns nil (no initial command).
func (m Menu) Init() tea.Cmd {
	return nil
}

// Update handles keyboard navigation.
func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(kmsg, m.Keys.Up):
		for i := m.Selected - 1; i >= 0; i-- {
			if !m.Items[i].Disabled {
				m.Selected = i
				break
			}
		}
	case key.Matches(kmsg, m.Keys.Down):
		for i := m.Selected + 1; i < len(m.Items); i++ {
			if !m.Items[i].Disabled {
				m.Selected = i
				break
			}
		}
	case key.Matches(kmsg, m.Keys.Select):
		if m.Selected >= 0 && m.Selected < len(m.Items) {
			item := m.Items[m.Selected]
			if item.Action != nil && !item.Disabled {
				return m, item.Action()
			}
		}
	}

	return m, nil
}

// View renders the menu, one item per line.
func (m Menu) View() string {
	labelWidth := 0
	for _, item := range m.Items {
		if w := lipgloss.Width(item.Label); w > labelWidth {
			labelWidth = w
		}
	}

	var b strings.Builder
	for i, item := range m.Items {
		pad := strings.Repeat(" ", labelWidth-lipgloss.Width(item.Label))
		line := item.Label + pad
		if item.Detail != "" {
			line += "  " + item.Detail
		}
		if i == m.Selected {
			b.WriteString(theme.Selected.Render("  ▸ " + line))
		} else {
			b.WriteString(theme.Unselected.Render("    " + line))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
