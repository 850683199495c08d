package mainmenu

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nathanieltooley/hackemon/hackterm/global"
	"github.com/nathanieltooley/hackemon/hackterm/rendering/components"
	"github.com/nathanieltooley/hackemon/hackterm/shared/savefs"
	"github.com/nathanieltooley/hackemon/hackterm/views/battleview"
	"github.com/nathanieltooley/hackemon/run"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	downKey  = tea.KeyMsg{Type: tea.KeyDown}
	enterKey = tea.KeyMsg{Type: tea.KeyEnter}
	escKey   = tea.KeyMsg{Type: tea.KeyEsc}
)

func setup(t *testing.T) battleview.Deps {
	t.Helper()

	files := afero.NewMemMapFs()
	previousFiles, previousOpt := global.Files, global.Opt
	t.Cleanup(func() {
		global.Files = previousFiles
		global.Opt = previousOpt
	})

	global.Files = files
	global.Opt = global.GlobalConfig{LocalPlayerName: "Ash", SaveDir: "saves", Seed: 11}

	return battleview.Deps{Store: savefs.NewStore(files, "saves")}
}

func update(m tea.Model, msgs ...tea.Msg) tea.Model {
	for _, msg := range msgs {
		m, _ = m.Update(msg)
	}
	return m
}

func TestNewRunPicksStarter(t *testing.T) {
	deps := setup(t)

	model := update(NewModel(deps), enterKey)
	selection, ok := model.(starterSelectionModel)
	require.True(t, ok)
	assert.Equal(t, "Ash", selection.run.Player)
	assert.Len(t, selection.starters.Items(), run.STARTER_CHOICES)

	model = update(selection, downKey, enterKey)
	require.IsType(t, battleview.BattleModel{}, model)

	chosen := selection.run.StarterOptions()[1]
	require.Len(t, selection.run.Ctx.Roster, 1)
	assert.Equal(t, chosen, selection.run.Ctx.Roster[0].SpeciesKey)
	assert.True(t, deps.Store.Exists("Ash"))
}

func TestSeedFixesStarters(t *testing.T) {
	deps := setup(t)

	first := update(NewModel(deps), enterKey).(starterSelectionModel)
	second := update(NewModel(deps), enterKey).(starterSelectionModel)
	assert.Equal(t, first.run.StarterOptions(), second.run.StarterOptions())
}

func TestStarterSelectionBack(t *testing.T) {
	deps := setup(t)

	model := update(NewModel(deps), enterKey, escKey)
	assert.IsType(t, MainMenuModel{}, model)
}

func TestContinueOnlyWithSave(t *testing.T) {
	deps := setup(t)
	assert.NotContains(t, NewModel(deps).View(), "Continue")

	r := run.New("Ash", runOptions()...)
	_, err := r.ChooseStarter(r.StarterOptions()[0])
	require.NoError(t, err)
	r.Wave = 4
	snap, err := r.Snapshot()
	require.NoError(t, err)
	require.NoError(t, deps.Store.Save(snap))

	menu := NewModel(deps)
	assert.Contains(t, menu.View(), "Continue")

	model := update(menu, downKey, enterKey)
	require.IsType(t, battleview.BattleModel{}, model)
	assert.Contains(t, model.View(), "Wave 4")
}

func TestContinueRejectsFinishedRun(t *testing.T) {
	deps := setup(t)

	r := run.New("Ash", runOptions()...)
	_, err := r.ChooseStarter(r.StarterOptions()[0])
	require.NoError(t, err)
	r.Status = run.RUN_DEFEATED
	snap, err := r.Snapshot()
	require.NoError(t, err)
	require.NoError(t, deps.Store.Save(snap))

	model := update(NewModel(deps), downKey, enterKey)
	menu, ok := model.(MainMenuModel)
	require.True(t, ok)
	assert.ErrorIs(t, menu.err, run.ErrRunOver)
	assert.Equal(t, 1, menu.buttons.Index())
	assert.False(t, deps.Store.Exists("Ash"))
}

func TestOptionsSavesPlayerName(t *testing.T) {
	setup(t)
	options := newOptionsMenu(components.NewBreadcrumb())

	options.nameInput.SetValue("Misty")
	model := update(options, enterKey)

	assert.Equal(t, "Misty", global.Opt.LocalPlayerName)
	assert.Contains(t, model.View(), "Saved!")

	config, err := global.LoadConfig(global.Files, global.DefaultConfigLocation())
	require.NoError(t, err)
	assert.Equal(t, "Misty", config.LocalPlayerName)
}

func TestOptionsBack(t *testing.T) {
	deps := setup(t)
	backtrack := components.NewBreadcrumb().PushNew(func() tea.Model { return NewModel(deps) })

	model := update(newOptionsMenu(backtrack), escKey)
	assert.IsType(t, MainMenuModel{}, model)

	model = update(newHelpMenu(backtrack), escKey)
	assert.IsType(t, MainMenuModel{}, model)
}

func TestQuit(t *testing.T) {
	deps := setup(t)

	// New Run, Options, Help, Quit
	menu := NewModel(deps)
	var model tea.Model = menu
	var cmd tea.Cmd
	for range 3 {
		model, _ = model.Update(downKey)
	}
	_, cmd = model.Update(enterKey)

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
