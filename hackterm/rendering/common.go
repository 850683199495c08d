package rendering

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/nathanieltooley/hackemon/engine"
	"github.com/nathanieltooley/hackemon/hackterm/global"
)

var (
	HighlightedColor = lipgloss.Color("33")
	FaintedColor     = lipgloss.Color("240")

	ButtonStyle            = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), true).Width(30).Padding(1, 3).Align(lipgloss.Center)
	HighlightedButtonStyle = lipgloss.NewStyle().Border(lipgloss.DoubleBorder(), true).Width(30).Padding(1, 3).Align(lipgloss.Center).Foreground(HighlightedColor)

	HighlightedItemStyle = lipgloss.NewStyle().PaddingLeft(4).Foreground(HighlightedColor)
	ItemStyle            = lipgloss.NewStyle().PaddingLeft(4)

	PanelStyle            = lipgloss.NewStyle().Border(lipgloss.RoundedBorder(), true).Padding(0, 2).AlignHorizontal(lipgloss.Center)
	HighlightedPanelStyle = PanelStyle.Background(HighlightedColor).Foreground(lipgloss.Color("255"))
	FaintedPanelStyle     = PanelStyle.Foreground(FaintedColor)
)

var TypeColors = map[engine.ElementType]lipgloss.Color{
	engine.TYPE_NORMAL:      lipgloss.Color("#A8A77A"),
	engine.TYPE_PHYSICS:     lipgloss.Color("#EE8130"),
	engine.TYPE_CHEMISTRY:   lipgloss.Color("#A33EA1"),
	engine.TYPE_ENGINEERING: lipgloss.Color("#B7B7CE"),
	engine.TYPE_BIOLOGY:     lipgloss.Color("#7AC74C"),
	engine.TYPE_EARTH:       lipgloss.Color("#E2BF65"),
	engine.TYPE_MATH:        lipgloss.Color("#6390F0"),
	engine.TYPE_INFO:        lipgloss.Color("#F95587"),
}

var StatusColors = map[engine.StatusCondition]lipgloss.Color{
	engine.STATUS_STUN:  lipgloss.Color("#FFD400"),
	engine.STATUS_SLEEP: lipgloss.Color("#BCE9EF"),
	engine.STATUS_DOT:   lipgloss.Color("#A61AE5"),
}

var StatusText = map[engine.StatusCondition]string{
	engine.STATUS_STUN:  "STN",
	engine.STATUS_SLEEP: "SLP",
	engine.STATUS_DOT:   "DOT",
}

func Center(width int, height int, text string) string {
	return lipgloss.PlaceVertical(height, lipgloss.Center, lipgloss.PlaceHorizontal(width, lipgloss.Center, text))
}

func GlobalCenter(text string) string {
	return Center(global.TERM_WIDTH, global.TERM_HEIGHT, text)
}

// TypeBadge renders an element type on its color.
func TypeBadge(t engine.ElementType) string {
	color := TypeColors[t]
	return lipgloss.NewStyle().Background(color).Foreground(BestTextColor(color)).Padding(0, 1).Render(t.String())
}

// StatusBadge renders a status condition, or nothing for STATUS_NONE.
func StatusBadge(status engine.StatusCondition) string {
	text, ok := StatusText[status]
	if !ok {
		return ""
	}

	color := StatusColors[status]
	return lipgloss.NewStyle().Background(color).Foreground(BestTextColor(color)).Render(text)
}

func BestTextColor(backgroundColor lipgloss.Color) lipgloss.Color {
	// thanks https://andrisignorell.github.io/DescTools/reference/TextContrastColor.html
	r, g, b, _ := backgroundColor.RGBA()
	mean := (r>>8 + g>>8 + b>>8) / 3

	if mean < 127 {
		return lipgloss.Color("#FFFFFF")
	}

	return lipgloss.Color("#000000")
}
