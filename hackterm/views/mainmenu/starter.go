package mainmenu

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/nathanieltooley/hackemon/hackterm/global"
	"github.com/nathanieltooley/hackemon/hackterm/rendering"
	"github.com/nathanieltooley/hackemon/hackterm/rendering/components"
	"github.com/nathanieltooley/hackemon/hackterm/views/battleview"
	"github.com/nathanieltooley/hackemon/run"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

type starterSelectionModel struct {
	backtrack components.Breadcrumbs
	deps      battleview.Deps

	run      *run.Run
	starters list.Model
	err      error
}

func newStarterSelection(r *run.Run, deps battleview.Deps, backtrack components.Breadcrumbs) starterSelectionModel {
	content := r.Content()

	items := lo.FilterMap(r.StarterOptions(), func(key string, _ int) (list.Item, bool) {
		species, err := content.GetSpecies(key)
		if err != nil {
			log.Err(err).Str("species", key).Msg("Starter is missing from the tables")
			return nil, false
		}

		return rendering.SimpleItem{
			Title: fmt.Sprintf("%s (%s)", species.Name, species.Type),
			Key:   key,
		}, true
	})

	return starterSelectionModel{
		backtrack: backtrack,
		deps:      deps,
		run:       r,
		starters:  rendering.NewSimpleList(items, 40, 10),
	}
}

func (m starterSelectionModel) Init() tea.Cmd { return nil }

func (m starterSelectionModel) View() string {
	views := []string{"Choose your starter", m.starters.View()}

	if item, ok := m.starters.SelectedItem().(rendering.SimpleItem); ok {
		if species, err := m.run.Content().GetSpecies(item.Key); err == nil {
			stats := species.BaseStats
			views = append(views, rendering.PanelStyle.Width(40).Render(fmt.Sprintf(
				"%s\nHP %d  Atk %d  Def %d\nSpA %d  SpD %d  Spe %d",
				species.Desc, stats.HP, stats.Attack, stats.Defense, stats.SpAttack, stats.SpDefense, stats.Speed,
			)))
		}
	}

	if m.err != nil {
		views = append(views, m.err.Error())
	}

	return rendering.GlobalCenter(lipgloss.JoinVertical(lipgloss.Center, views...))
}

func (m starterSelectionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, global.BackKey):
			return m.backtrack.Back(func() tea.Model { return m }), nil
		case key.Matches(keyMsg, global.SelectKey):
			item, ok := m.starters.SelectedItem().(rendering.SimpleItem)
			if !ok {
				return m, nil
			}

			return m.choose(item.Key)
		}
	}

	var cmd tea.Cmd
	m.starters, cmd = m.starters.Update(msg)
	return m, cmd
}

func (m starterSelectionModel) choose(speciesKey string) (tea.Model, tea.Cmd) {
	if _, err := m.run.ChooseStarter(speciesKey); err != nil {
		m.err = err
		return m, nil
	}

	if m.deps.Store != nil {
		snap, err := m.run.Snapshot()
		if err == nil {
			err = m.deps.Store.Save(snap)
		}
		if err != nil {
			log.Err(err).Msg("Failed to save new run")
		}
	}

	battle, err := battleview.NewBattleModel(m.run, m.deps)
	if err != nil {
		m.err = err
		return m, nil
	}

	return battle, battle.Init()
}
