package cmd

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nathanieltooley/hackemon/feed"
	"github.com/nathanieltooley/hackemon/hackterm/global"
	"github.com/nathanieltooley/hackemon/hackterm/shared/savefs"
	"github.com/nathanieltooley/hackemon/hackterm/views/battleview"
	"github.com/nathanieltooley/hackemon/hackterm/views/mainmenu"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in the terminal",
	Long: `Start the terminal game. Runs are saved per player name after every wave, and picked
up again from the main menu.

Settings come from the config file in the user config dir, and can be overridden with
HACKEMON_PLAYER, HACKEMON_SAVE_DIR, HACKEMON_SEED, HACKEMON_DEBUG and HACKEMON_CONTENT_DIR,
either in the environment or in a .env file.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := global.GlobalInit(false); err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		bus := feed.NewBus()
		defer bus.Close()
		if err := bus.Subscribe(ctx, feed.LogHandler(log.Logger)); err != nil {
			return err
		}

		deps := battleview.Deps{
			Store: savefs.NewStore(global.Files, global.Opt.SaveDir),
			Bus:   bus,
		}

		m := rootModel{currentView: mainmenu.NewModel(deps)}
		if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
			log.Err(err).Msg("Error running program")
			return err
		}

		return nil
	},
}

// rootModel hosts whichever view is current and owns the keys every view shares.
type rootModel struct {
	currentView tea.Model
}

func (m rootModel) Init() tea.Cmd {
	return m.currentView.Init()
}

func (m rootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	newView, cmd := m.currentView.Update(msg)
	m.currentView = newView

	return m, cmd
}

func (m rootModel) View() string {
	return m.currentView.View()
}

func init() {
	rootCmd.AddCommand(playCmd)
}
