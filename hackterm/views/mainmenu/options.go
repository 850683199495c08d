package mainmenu

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/nathanieltooley/hackemon/hackterm/global"
	"github.com/nathanieltooley/hackemon/hackterm/rendering"
	"github.com/nathanieltooley/hackemon/hackterm/rendering/components"
	"github.com/rs/zerolog/log"
)

const _DEFAULT_PLAYER_NAME = "Player"

type optionsMenuModel struct {
	backtrack components.Breadcrumbs

	nameInput textinput.Model
	status    string
}

type clearStatusMessage struct {
	t time.Time
}

func newOptionsMenu(backtrack components.Breadcrumbs) optionsMenuModel {
	nameInput := textinput.New()
	nameInput.SetValue(global.Opt.LocalPlayerName)
	nameInput.Focus()

	return optionsMenuModel{
		backtrack: backtrack,
		nameInput: nameInput,
	}
}

func (m optionsMenuModel) Init() tea.Cmd { return textinput.Blink }
func (m optionsMenuModel) View() string {
	views := []string{"Player Name", m.nameInput.View(), "Each player name has its own save"}
	if m.status != "" {
		views = append(views, rendering.ButtonStyle.Render(m.status))
	}

	return rendering.GlobalCenter(lipgloss.JoinVertical(lipgloss.Center, views...))
}

func (m optionsMenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case clearStatusMessage:
		m.status = ""
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, global.BackKey):
			return m.backtrack.Back(func() tea.Model { return m }), nil
		case key.Matches(msg, global.SelectKey):
			return m, m.save()
		}
	}

	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(msg)
	return m, cmd
}

// save writes the player name to the config file. The returned command clears the status line.
func (m *optionsMenuModel) save() tea.Cmd {
	playerName := _DEFAULT_PLAYER_NAME
	if m.nameInput.Value() != "" {
		playerName = m.nameInput.Value()
	}

	global.Opt.LocalPlayerName = playerName
	m.status = "Saved!"
	if err := global.SaveConfig(global.Files, global.DefaultConfigLocation(), global.Opt); err != nil {
		log.Err(err).Msg("error in options")
		m.status = err.Error()
	}

	return tea.Tick(time.Second*2, func(t time.Time) tea.Msg {
		return clearStatusMessage{t}
	})
}
