package global

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/afero"
)

const (
	ENV_SAVE_DIR    = "HACKEMON_SAVE_DIR"
	ENV_PLAYER      = "HACKEMON_PLAYER"
	ENV_DEBUG       = "HACKEMON_DEBUG"
	ENV_SEED        = "HACKEMON_SEED"
	ENV_CONTENT_DIR = "HACKEMON_CONTENT_DIR"
)

type GlobalConfig struct {
	SaveDir         string
	LocalPlayerName string
	Debug           bool
	// Seed fixes every random draw of a run when non-zero.
	Seed uint64
	// ContentDir replaces the built-in tables when set.
	ContentDir string
}

func DefaultConfigDir() string {
	configDir, _ := os.UserConfigDir()
	return filepath.Join(configDir, "hackemon")
}

func DefaultConfigLocation() string {
	return filepath.Join(DefaultConfigDir(), "config.json")
}

func SaveConfig(files afero.Fs, path string, config GlobalConfig) error {
	jsonString, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}

	if err := files.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return err
	}

	return afero.WriteFile(files, path, jsonString, 0666)
}

// LoadConfig reads the config at path, writing the defaults there first if the file is
// missing or empty. Environment overrides are not applied.
func LoadConfig(files afero.Fs, path string) (GlobalConfig, error) {
	contents, err := afero.ReadFile(files, path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return GlobalConfig{}, err
	}

	if len(contents) == 0 {
		config := populateConfig(GlobalConfig{})
		return config, SaveConfig(files, path, config)
	}

	config := GlobalConfig{}
	if err := json.Unmarshal(contents, &config); err != nil {
		return GlobalConfig{}, fmt.Errorf("reading config %s: %w", path, err)
	}

	return populateConfig(config), nil
}

// applyEnv lets HACKEMON_* variables win over the config file.
func applyEnv(config GlobalConfig) (GlobalConfig, error) {
	if dir, ok := os.LookupEnv(ENV_SAVE_DIR); ok && dir != "" {
		config.SaveDir = dir
	}
	if player, ok := os.LookupEnv(ENV_PLAYER); ok && player != "" {
		config.LocalPlayerName = player
	}
	if dir, ok := os.LookupEnv(ENV_CONTENT_DIR); ok {
		config.ContentDir = dir
	}

	if debug, ok := os.LookupEnv(ENV_DEBUG); ok && debug != "" {
		value, err := strconv.ParseBool(debug)
		if err != nil {
			return config, fmt.Errorf("%s: %w", ENV_DEBUG, err)
		}
		config.Debug = value
	}

	if seed, ok := os.LookupEnv(ENV_SEED); ok && seed != "" {
		value, err := strconv.ParseUint(seed, 10, 64)
		if err != nil {
			return config, fmt.Errorf("%s: %w", ENV_SEED, err)
		}
		config.Seed = value
	}

	return config, nil
}

func populateConfig(config GlobalConfig) GlobalConfig {
	if config.LocalPlayerName == "" {
		config.LocalPlayerName = "Player"
	}
	if config.SaveDir == "" {
		config.SaveDir = filepath.Join(DefaultConfigDir(), "saves")
	}

	return config
}
