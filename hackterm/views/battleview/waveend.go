package battleview

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/nathanieltooley/hackemon/engine"
	"github.com/nathanieltooley/hackemon/hackterm/rendering"
	"github.com/nathanieltooley/hackemon/hackterm/rendering/components"
	"github.com/nathanieltooley/hackemon/run"
	"github.com/rs/zerolog/log"
)

var outcomeText = map[engine.Phase]string{
	engine.PHASE_WON:      "The wave was cleared!",
	engine.PHASE_FLED:     "You got away safely.",
	engine.PHASE_CAPTURED: "A new member joined the roster!",
}

// WaveEndModel sits between waves. The player can restock capture devices before moving on.
type WaveEndModel struct {
	run     *run.Run
	deps    Deps
	outcome engine.Phase
	status  string

	buttons components.MenuButtons
}

func newWaveEndModel(r *run.Run, deps Deps, outcome engine.Phase) WaveEndModel {
	m := WaveEndModel{run: r, deps: deps, outcome: outcome}
	m.buttons = components.NewMenuButton(m.makeButtons())

	return m
}

func (m WaveEndModel) makeButtons() []components.ViewButton {
	buttons := []components.ViewButton{
		{
			Name: "Next Wave",
			OnClick: func() (tea.Model, tea.Cmd) {
				battle, err := NewBattleModel(m.run, m.deps)
				if err != nil {
					log.Err(err).Msg("Failed to start the next wave")
					return newEndScreen(m.run, err.Error()), nil
				}
				return battle, battle.Init()
			},
		},
	}

	content := m.run.Content()
	for _, key := range content.DeviceKeys() {
		device, err := content.GetDevice(key)
		if err != nil {
			continue
		}

		buttons = append(buttons, components.ViewButton{
			Name: fmt.Sprintf("Buy %s (₱%d)", device.Name, device.Price),
			OnClick: func() (tea.Model, tea.Cmd) {
				status := fmt.Sprintf("Bought a %s", device.Name)
				if err := m.run.Buy(key, 1); err != nil {
					if errors.Is(err, run.ErrNotEnoughMoney) {
						status = "You can't afford that!"
					} else {
						status = err.Error()
					}
				}

				m.status = status
				return m, nil
			},
		})
	}

	return append(buttons, components.ViewButton{
		Name: "Save and Quit",
		OnClick: func() (tea.Model, tea.Cmd) {
			if m.deps.Store != nil {
				if err := saveRun(m.deps.Store, m.run); err != nil {
					log.Err(err).Msg("Failed to save run")
				}
			}
			return m, tea.Quit
		},
	})
}

func (m WaveEndModel) Init() tea.Cmd { return nil }

func (m WaveEndModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.buttons.Update(msg)
	if next == nil {
		return m, cmd
	}

	// Buy buttons hand back a copy holding the new status; keep the current button focus.
	if shop, ok := next.(WaveEndModel); ok {
		m.status = shop.status
		return m, cmd
	}

	return next, cmd
}

func (m WaveEndModel) inventory() string {
	content := m.run.Content()

	lines := make([]string, 0, len(content.DeviceKeys()))
	for _, key := range content.DeviceKeys() {
		device, err := content.GetDevice(key)
		if err != nil {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s x%d", device.Name, m.run.Balls(key)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m WaveEndModel) View() string {
	header := fmt.Sprintf("%s\nNext up: wave %d   ₱%d", outcomeText[m.outcome], m.run.Wave, m.run.Money)

	return rendering.GlobalCenter(
		lipgloss.JoinVertical(
			lipgloss.Center,
			header,
			rendering.PanelStyle.Render(m.inventory()),
			m.status,
			m.buttons.View(),
		),
	)
}

// EndScreen is shown once a run is over. Any key quits.
type EndScreen struct {
	run     *run.Run
	message string
}

func newEndScreen(r *run.Run, message string) EndScreen {
	return EndScreen{run: r, message: message}
}

func (m EndScreen) Init() tea.Cmd { return nil }

func (m EndScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(tea.KeyMsg); ok {
		return m, tea.Quit
	}

	return m, nil
}

func (m EndScreen) View() string {
	return rendering.GlobalCenter(
		lipgloss.JoinVertical(
			lipgloss.Center,
			m.message,
			fmt.Sprintf("%s reached wave %d with ₱%d", m.run.Player, m.run.Wave, m.run.Money),
			"Press any key to exit",
		),
	)
}
