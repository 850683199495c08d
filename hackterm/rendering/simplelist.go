package rendering

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// SimpleItem is a list entry shown as a single line. Key is what the entry stands for.
type SimpleItem struct {
	Title string
	Key   string
}

func (i SimpleItem) FilterValue() string { return i.Title }

type simpleDelegate struct {
	focused lipgloss.Style
	normal  lipgloss.Style
}

// Height is the shorter of the two styles, and at least one line.
func (d simpleDelegate) Height() int {
	return max(1, min(d.normal.GetHeight(), d.focused.GetHeight()))
}

func (d simpleDelegate) Spacing() int                            { return 0 }
func (d simpleDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d simpleDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	style := d.normal
	if index == m.Index() {
		style = d.focused
	}

	fmt.Fprint(w, style.Render(listItem.FilterValue()))
}

// NewSimpleList builds an unfiltered list of single line items with the package's item styles.
func NewSimpleList(items []list.Item, width int, height int) list.Model {
	l := list.New(items, simpleDelegate{focused: HighlightedItemStyle, normal: ItemStyle}, width, height)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowTitle(false)
	l.SetFilteringEnabled(false)

	return l
}
