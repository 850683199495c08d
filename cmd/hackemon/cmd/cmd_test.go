package cmd

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nathanieltooley/hackemon/engine"
	"github.com/nathanieltooley/hackemon/hackterm/global"
	"github.com/nathanieltooley/hackemon/sim"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useMemFs(t *testing.T) afero.Fs {
	t.Helper()

	files := afero.NewMemMapFs()
	previousFiles, previousOpt, previousLogger := global.Files, global.Opt, log.Logger
	t.Cleanup(func() {
		global.Files = previousFiles
		global.Opt = previousOpt
		log.Logger = previousLogger
	})
	global.Files = files

	return files
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	validateDir = ""
	exportFlags.force = false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "Hackemon v"+version+"\n", out)
}

func TestValidateBuiltInTables(t *testing.T) {
	out, err := execute(t, "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "built-in tables are valid")
	assert.Contains(t, out, "Species:")
}

func TestExportThenValidate(t *testing.T) {
	files := useMemFs(t)

	out, err := execute(t, "export", "--dir", "tables")
	require.NoError(t, err)
	assert.Equal(t, 6, strings.Count(out, "Wrote "))

	exists, err := afero.Exists(files, "tables/species.yaml")
	require.NoError(t, err)
	assert.True(t, exists)

	out, err = execute(t, "validate", "--dir", "tables")
	require.NoError(t, err)
	assert.Contains(t, out, "tables are valid")
}

func TestExportKeepsExistingFiles(t *testing.T) {
	useMemFs(t)

	_, err := execute(t, "export", "--dir", "tables")
	require.NoError(t, err)

	_, err = execute(t, "export", "--dir", "tables")
	assert.ErrorContains(t, err, "already exists")

	_, err = execute(t, "export", "--dir", "tables", "--force")
	assert.NoError(t, err)
}

func TestValidateReportsBrokenTables(t *testing.T) {
	files := useMemFs(t)

	_, err := execute(t, "export", "--dir", "tables")
	require.NoError(t, err)
	require.NoError(t, afero.WriteFile(files, "tables/species.yaml", []byte("- key: [not a string"), 0644))

	out, err := execute(t, "validate", "--dir", "tables")
	assert.Error(t, err)
	assert.Contains(t, out, "problem(s)")
}

func TestSimPrintsWinRate(t *testing.T) {
	useMemFs(t)
	t.Setenv(global.ENV_SAVE_DIR, "saves")

	out, err := execute(t, "sim", "--n", "4", "--seed", "5", "--workers", "2")
	require.NoError(t, err)
	assert.Regexp(t, `(?m)^Seed\s+5$`, out)
	assert.Contains(t, out, "Win rate:")
}

func TestRootModelQuitsOnCtrlC(t *testing.T) {
	m := rootModel{currentView: stubView{}}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Equal(t, "stub", next.View())
}

type stubView struct{}

func (stubView) Init() tea.Cmd                       { return nil }
func (stubView) Update(tea.Msg) (tea.Model, tea.Cmd) { return stubView{}, nil }
func (stubView) View() string                        { return "stub" }

type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestSimReportsWriteErrors(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetOut(brokenWriter{})

	result := sim.Result{Battles: []sim.Battle{{Outcome: engine.PHASE_WON, Turns: 3}}}
	err := printSimResult(cmd, 5, result)
	assert.ErrorContains(t, err, "disk full")

	var out bytes.Buffer
	cmd.SetOut(&out)
	require.NoError(t, printSimResult(cmd, 5, result))
	assert.Contains(t, out.String(), "Win rate: 100.0%")
}
