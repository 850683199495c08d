package global

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-logr/zerologr"
	"github.com/joho/godotenv"
	"github.com/nathanieltooley/hackemon/engine"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"golang.org/x/term"
)

var (
	TERM_WIDTH, TERM_HEIGHT, _ = term.GetSize(int(os.Stdout.Fd()))

	SelectKey = key.NewBinding(
		key.WithKeys("enter"),
	)
	MoveLeftKey = key.NewBinding(
		key.WithKeys("left", "h"),
	)
	MoveRightKey = key.NewBinding(
		key.WithKeys("right", "l"),
	)
	MoveDownKey = key.NewBinding(
		key.WithKeys("down", "j"),
	)
	MoveUpKey = key.NewBinding(
		key.WithKeys("up", "k"),
	)
	SkipKey = key.NewBinding(key.WithKeys(" "))

	BackKey = key.NewBinding(key.WithKeys(tea.KeyEsc.String()))

	Opt = populateConfig(GlobalConfig{})

	// Content is the table set every run is played with.
	Content = engine.DefaultContent()

	// Files is where config, logs and saves are written.
	Files afero.Fs = afero.NewOsFs()

	previousLevel zerolog.Level
)

// GlobalInit loads .env, the config file and the content tables, and sets up logging.
// Logs go to a rolling file in the config dir, and to stderr as well when toConsole is set.
func GlobalInit(toConsole bool) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	configDir := DefaultConfigDir()

	config, err := LoadConfig(Files, DefaultConfigLocation())
	if err != nil {
		return err
	}
	if config, err = applyEnv(config); err != nil {
		return err
	}
	Opt = config

	level := zerolog.InfoLevel
	if Opt.Debug {
		level = zerolog.DebugLevel
	}

	fileWriter, err := createFileWriter(configDir)
	if err != nil {
		return err
	}

	var out io.Writer = fileWriter
	if toConsole {
		out = zerolog.MultiLevelWriter(zerolog.ConsoleWriter{Out: os.Stderr}, fileWriter)
	}

	log.Logger = zerolog.New(out).With().Timestamp().Caller().Logger().Level(level)
	setEngineLogger()

	if Opt.ContentDir != "" {
		content, errs := engine.LoadContent(TablesAt(Opt.ContentDir), ".")
		if len(errs) > 0 {
			return fmt.Errorf("loading tables from %s: %w", Opt.ContentDir, errors.Join(errs...))
		}
		Content = content
	}

	log.Info().Str("saves", Opt.SaveDir).Bool("debug", Opt.Debug).Msg("Initialized")
	return nil
}

// TablesAt exposes dir on Files as the root of a table set.
func TablesAt(dir string) fs.FS {
	return afero.NewIOFS(afero.NewBasePathFs(Files, dir))
}

func createFileWriter(configDir string) (zerolog.ConsoleWriter, error) {
	rollingWriter, err := NewRollingFileWriter(Files, filepath.Join(configDir, "logs"), "hackemon")
	if err != nil {
		return zerolog.ConsoleWriter{}, err
	}

	return zerolog.ConsoleWriter{Out: rollingWriter, NoColor: true}, nil
}

// setEngineLogger bridges the engine's logr calls into the global zerolog logger.
func setEngineLogger() {
	if Opt.Debug {
		zerologr.SetMaxV(2)
	}
	engine.SetInternalLogger(zerologr.New(&log.Logger))
}

// StopLogging silences logging while the terminal UI owns the screen.
func StopLogging() {
	previousLevel = log.Logger.GetLevel()
	log.Logger = log.Logger.Level(zerolog.Disabled)
	setEngineLogger()
}

func ContinueLogging() {
	log.Logger = log.Logger.Level(previousLevel)
	setEngineLogger()
}

func UpdateLogLevel(level zerolog.Level) {
	log.Logger = log.Logger.Level(level)
	setEngineLogger()
}
