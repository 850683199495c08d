package battleview

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/nathanieltooley/hackemon/engine"
	"github.com/nathanieltooley/hackemon/hackterm/global"
	"github.com/nathanieltooley/hackemon/hackterm/rendering"
	"github.com/samber/lo"
)

const (
	ACTION_FIGHT = iota
	ACTION_CAPTURE
	ACTION_SWITCH
	ACTION_FLEE
)

var actionNames = []string{"Fight", "Capture", "Switch", "Run"}

func moveFocus(msg tea.KeyMsg, focus int, count int) int {
	if count == 0 {
		return 0
	}

	switch {
	case key.Matches(msg, global.MoveLeftKey), key.Matches(msg, global.MoveUpKey):
		return (focus - 1 + count) % count
	case key.Matches(msg, global.MoveRightKey), key.Matches(msg, global.MoveDownKey):
		return (focus + 1) % count
	}

	return focus
}

func renderChoices(choices []string, focus int, width int) string {
	rendered := lo.Map(choices, func(choice string, i int) string {
		if i == focus {
			return rendering.HighlightedPanelStyle.Width(width).Render(choice)
		}
		return rendering.PanelStyle.Width(width).Render(choice)
	})

	return lipgloss.JoinHorizontal(lipgloss.Center, rendered...)
}

type actionPanel struct {
	ctx *battleContext

	actionFocus int
}

func newActionPanel(ctx *battleContext) actionPanel {
	return actionPanel{ctx: ctx}
}

func (m actionPanel) Init() tea.Cmd { return nil }
func (m actionPanel) View() string {
	return renderChoices(actionNames, m.actionFocus, 12)
}

func (m actionPanel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if key.Matches(keyMsg, global.SelectKey) {
		switch m.actionFocus {
		case ACTION_FIGHT:
			active := m.ctx.session.Active()
			if len(active.UsableMoves()) == 0 {
				m.ctx.chosenAction = engine.MoveAction{Index: engine.STRUGGLE_SLOT}
				return m, nil
			}
			return movePanel{ctx: m.ctx}, nil
		case ACTION_CAPTURE:
			return newDevicePanel(m.ctx), nil
		case ACTION_SWITCH:
			return newRosterPanel(m.ctx, false), nil
		case ACTION_FLEE:
			m.ctx.chosenAction = engine.FleeAction{}
		}

		return m, nil
	}

	m.actionFocus = moveFocus(keyMsg, m.actionFocus, len(actionNames))
	return m, nil
}

type movePanel struct {
	ctx       *battleContext
	moveFocus int
}

func (m movePanel) Init() tea.Cmd { return nil }
func (m movePanel) View() string {
	moves := m.ctx.session.Active().Moves

	grid := make([]string, 0, 2)
	for row := 0; row < 2; row++ {
		cells := make([]string, 0, 2)
		for col := 0; col < 2; col++ {
			index := row*2 + col
			style := rendering.PanelStyle.Width(24)
			if index == m.moveFocus {
				style = rendering.HighlightedPanelStyle.Width(24)
			}

			if index >= len(moves) {
				cells = append(cells, style.Render("-\n"))
				continue
			}

			slot := moves[index]
			cells = append(cells, style.Render(fmt.Sprintf("%s\n%s PP %d/%d", slot.Move.Name, slot.Move.Type, slot.CurrentPP, slot.MaxPP())))
		}
		grid = append(grid, lipgloss.JoinHorizontal(lipgloss.Center, cells...))
	}

	return lipgloss.JoinVertical(lipgloss.Center, grid...)
}

func (m movePanel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	moves := m.ctx.session.Active().Moves

	switch {
	case key.Matches(keyMsg, global.MoveLeftKey):
		m.moveFocus = max(0, m.moveFocus-1)
	case key.Matches(keyMsg, global.MoveRightKey):
		m.moveFocus = min(engine.MAX_MOVES-1, m.moveFocus+1)
	case key.Matches(keyMsg, global.MoveDownKey):
		m.moveFocus = min(engine.MAX_MOVES-1, m.moveFocus+2)
	case key.Matches(keyMsg, global.MoveUpKey):
		m.moveFocus = max(0, m.moveFocus-2)
	case key.Matches(keyMsg, global.SelectKey):
		if m.moveFocus >= len(moves) || moves[m.moveFocus].CurrentPP == 0 {
			return m, nil
		}

		action := engine.MoveAction{Index: m.moveFocus, SwitchTo: -1}
		if moves[m.moveFocus].Move.Effect == engine.EFFECT_SWITCH_AFTER_USE && m.ctx.hasBench() {
			return newRosterPanelForMove(m.ctx, action), nil
		}
		m.ctx.chosenAction = action
	}

	return m, nil
}

// rosterPanel picks a roster member. It is used for plain switches, forced switches, the
// switch after a switch-after-use move, and for picking who to release when the roster is full.
type rosterPanel struct {
	ctx      *battleContext
	selected int

	forced  bool
	release bool
	// set when picking the member a switch-after-use move brings in
	pendingMove *engine.MoveAction
}

func newRosterPanel(ctx *battleContext, forced bool) rosterPanel {
	return rosterPanel{ctx: ctx, forced: forced}
}

func newReleasePanel(ctx *battleContext) rosterPanel {
	return rosterPanel{ctx: ctx, release: true}
}

func newRosterPanelForMove(ctx *battleContext, action engine.MoveAction) rosterPanel {
	return rosterPanel{ctx: ctx, pendingMove: &action}
}

func (m rosterPanel) choices() []*engine.Combatant {
	roster := m.ctx.session.Context().Roster
	if m.release {
		return append(append([]*engine.Combatant(nil), roster...), m.ctx.session.PendingCapture())
	}

	return roster
}

func (m rosterPanel) Init() tea.Cmd { return nil }
func (m rosterPanel) View() string {
	panels := make([]string, 0, len(m.choices()))
	for i, member := range m.choices() {
		text := fmt.Sprintf("%s\nLv. %d\n%d/%d", member.Name, member.Level, member.HP, member.MaxHP)

		style := rendering.PanelStyle
		switch {
		case i == m.selected:
			style = rendering.HighlightedPanelStyle
		case !member.Alive():
			style = rendering.FaintedPanelStyle
		}
		panels = append(panels, style.Width(14).Render(text))
	}

	header := "Choose a member to switch in"
	switch {
	case m.forced:
		header = fmt.Sprintf("%s can't battle! Choose who to send out next", m.ctx.session.Active().Name)
	case m.release:
		header = fmt.Sprintf("The roster is full! Choose who to release (the last one is %s)", m.ctx.session.PendingCapture().Name)
	case m.pendingMove != nil:
		header = "Choose who comes in after the move"
	}

	return lipgloss.JoinVertical(lipgloss.Center, header, lipgloss.JoinHorizontal(lipgloss.Center, panels...))
}

func (m rosterPanel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	choices := m.choices()
	if !key.Matches(keyMsg, global.SelectKey) {
		m.selected = moveFocus(keyMsg, m.selected, len(choices))
		return m, nil
	}

	if m.release {
		index := m.selected
		if index == len(choices)-1 {
			index = -1
		}
		m.ctx.chosenRelease = &index
		return m, nil
	}

	if !choices[m.selected].Alive() || m.selected == m.ctx.session.ActiveIndex() {
		return m, nil
	}

	if m.pendingMove != nil {
		action := *m.pendingMove
		action.SwitchTo = m.selected
		m.ctx.chosenAction = action
		return m, nil
	}

	m.ctx.chosenAction = engine.SwitchAction{Index: m.selected}
	return m, nil
}

type devicePanel struct {
	ctx     *battleContext
	devices []string
	focus   int
}

func newDevicePanel(ctx *battleContext) devicePanel {
	devices := lo.Filter(ctx.run.Content().DeviceKeys(), func(device string, _ int) bool {
		return ctx.run.Balls(device) > 0
	})

	return devicePanel{ctx: ctx, devices: devices}
}

func (m devicePanel) Init() tea.Cmd { return nil }
func (m devicePanel) View() string {
	if len(m.devices) == 0 {
		return rendering.PanelStyle.Render("You have no capture devices left!")
	}

	names := lo.Map(m.devices, func(device string, _ int) string {
		d, _ := m.ctx.run.Content().GetDevice(device)
		return fmt.Sprintf("%s x%d", d.Name, m.ctx.run.Balls(device))
	})

	return renderChoices(names, m.focus, 20)
}

func (m devicePanel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || len(m.devices) == 0 {
		return m, nil
	}

	if key.Matches(keyMsg, global.SelectKey) {
		m.ctx.chosenAction = engine.CaptureAction{Device: m.devices[m.focus]}
		return m, nil
	}

	m.focus = moveFocus(keyMsg, m.focus, len(m.devices))
	return m, nil
}

// learnPanel offers a move a roster member earned by leveling up.
type learnPanel struct {
	ctx   *battleContext
	offer moveOffer
	focus int
}

func (m learnPanel) member() *engine.Combatant {
	return m.ctx.session.Context().Roster[m.offer.rosterIndex]
}

func (m learnPanel) choices() []string {
	member := m.member()
	if len(member.Moves) < engine.MAX_MOVES {
		return []string{"Learn", "Skip"}
	}

	choices := lo.Map(member.Moves, func(slot engine.MoveSlot, _ int) string { return "Forget " + slot.Move.Name })
	return append(choices, "Skip")
}

func (m learnPanel) Init() tea.Cmd { return nil }
func (m learnPanel) View() string {
	header := fmt.Sprintf("%s wants to learn %s (%s, power %d)", m.member().Name, m.offer.move.Name, m.offer.move.Type, m.offer.move.Power)
	return lipgloss.JoinVertical(lipgloss.Center, header, renderChoices(m.choices(), m.focus, 18))
}

func (m learnPanel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	choices := m.choices()
	if !key.Matches(keyMsg, global.SelectKey) {
		m.focus = moveFocus(keyMsg, m.focus, len(choices))
		return m, nil
	}

	m.ctx.learned = true
	if m.focus == len(choices)-1 {
		return m, nil
	}

	replace := -1
	if len(m.member().Moves) >= engine.MAX_MOVES {
		replace = m.focus
	}
	if err := m.member().LearnMove(m.offer.move, replace); err != nil {
		m.ctx.lastErr = err
	}

	return m, nil
}
