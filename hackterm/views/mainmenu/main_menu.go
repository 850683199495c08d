package mainmenu

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/nathanieltooley/hackemon/hackterm/global"
	"github.com/nathanieltooley/hackemon/hackterm/rendering"
	"github.com/nathanieltooley/hackemon/hackterm/rendering/components"
	"github.com/nathanieltooley/hackemon/hackterm/views/battleview"
	"github.com/nathanieltooley/hackemon/run"
	"github.com/rs/zerolog/log"
)

type MainMenuModel struct {
	deps    battleview.Deps
	buttons components.MenuButtons
	err     error
}

// runOptions seeds new runs from the configured seed so a run can be replayed.
func runOptions() []run.Option {
	opts := []run.Option{run.WithContent(global.Content)}
	if global.Opt.Seed != 0 {
		opts = append(opts, run.WithSeed(global.Opt.Seed, global.Opt.Seed))
	}

	return opts
}

func NewModel(deps battleview.Deps) MainMenuModel {
	m := MainMenuModel{deps: deps}

	backtrack := components.NewBreadcrumb().PushNew(func() tea.Model { return NewModel(deps) })

	buttons := []components.ViewButton{
		{
			Name: "New Run",
			OnClick: func() (tea.Model, tea.Cmd) {
				r := run.New(global.Opt.LocalPlayerName, runOptions()...)
				return newStarterSelection(r, deps, backtrack), nil
			},
		},
	}

	if deps.Store != nil && deps.Store.Exists(global.Opt.LocalPlayerName) {
		buttons = append(buttons, components.ViewButton{
			Name: "Continue",
			OnClick: func() (tea.Model, tea.Cmd) {
				next, err := continueRun(deps, backtrack)
				if err != nil {
					log.Err(err).Msg("Failed to continue run")
					m.err = err
					return m, nil
				}
				return next, next.Init()
			},
		})
	}

	buttons = append(buttons,
		components.ViewButton{
			Name: "Options",
			OnClick: func() (tea.Model, tea.Cmd) {
				return newOptionsMenu(backtrack), nil
			},
		},
		components.ViewButton{
			Name: "Help",
			OnClick: func() (tea.Model, tea.Cmd) {
				return newHelpMenu(backtrack), nil
			},
		},
		components.ViewButton{
			Name: "Quit",
			OnClick: func() (tea.Model, tea.Cmd) {
				return m, tea.Quit
			},
		},
	)

	m.buttons = components.NewMenuButton(buttons)
	return m
}

// continueRun loads the player's save and picks up where it left off.
func continueRun(deps battleview.Deps, backtrack components.Breadcrumbs) (tea.Model, error) {
	snap, err := deps.Store.Load(global.Opt.LocalPlayerName)
	if err != nil {
		return nil, err
	}

	r, err := run.Restore(snap, run.WithContent(global.Content))
	if err != nil {
		return nil, err
	}

	if r.Over() {
		return nil, errors.Join(run.ErrRunOver, deps.Store.Delete(r.Player))
	}
	if r.Status == run.RUN_CHOOSING_STARTER {
		return newStarterSelection(r, deps, backtrack), nil
	}

	return battleview.NewBattleModel(r, deps)
}

func (m MainMenuModel) Init() tea.Cmd {
	return nil
}

func (m MainMenuModel) View() string {
	header := "Hackemon!"
	if global.Opt.LocalPlayerName != "" {
		header += "\nPlaying as " + global.Opt.LocalPlayerName
	}

	views := []string{header, m.buttons.View()}
	if m.err != nil {
		views = append(views, rendering.ButtonStyle.Render(m.err.Error()))
	}

	return rendering.GlobalCenter(lipgloss.JoinVertical(lipgloss.Center, views...))
}

func (m MainMenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, startCmd := m.buttons.Update(msg)
	if newModel != nil {
		// Errors come back on a copy of the menu; keep the focused button.
		if menu, ok := newModel.(MainMenuModel); ok {
			m.err = menu.err
			return m, startCmd
		}
		return newModel, startCmd
	}

	return m, nil
}
