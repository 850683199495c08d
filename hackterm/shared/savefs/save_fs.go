package savefs

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gosimple/slug"
	"github.com/nathanieltooley/hackemon/run"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

var ErrNoSuchSave = errors.New("no such save exists")

const saveExt = ".json"

// Store keeps one run snapshot per player under dir.
type Store struct {
	files afero.Fs
	dir   string
}

func NewStore(files afero.Fs, dir string) *Store {
	return &Store{files: files, dir: dir}
}

// SlotName turns a player name into the save's file name.
func SlotName(player string) string {
	name := slug.Make(player)
	if name == "" {
		name = "player"
	}

	return name + saveExt
}

func (s *Store) path(player string) string {
	return filepath.Join(s.dir, SlotName(player))
}

// Save writes the snapshot to a temp file first so a crash never leaves a half written save.
func (s *Store) Save(snap run.Snapshot) error {
	if err := s.files.MkdirAll(s.dir, 0750); err != nil {
		return err
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}

	path := s.path(snap.Player)
	tmp := path + ".tmp"
	if err := afero.WriteFile(s.files, tmp, data, 0644); err != nil {
		return err
	}
	if err := s.files.Rename(tmp, path); err != nil {
		return err
	}

	log.Debug().Str("path", path).Int("wave", snap.Wave).Msg("Saved run")
	return nil
}

func (s *Store) Load(player string) (run.Snapshot, error) {
	data, err := afero.ReadFile(s.files, s.path(player))
	if errors.Is(err, os.ErrNotExist) {
		return run.Snapshot{}, fmt.Errorf("%w: %s", ErrNoSuchSave, player)
	}
	if err != nil {
		return run.Snapshot{}, err
	}

	var snap run.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return run.Snapshot{}, fmt.Errorf("reading save for %s: %w", player, err)
	}

	return snap, nil
}

func (s *Store) Exists(player string) bool {
	exists, err := afero.Exists(s.files, s.path(player))
	return err == nil && exists
}

func (s *Store) Delete(player string) error {
	err := s.files.Remove(s.path(player))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return err
}

// Slots lists the save slot names, sorted.
func (s *Store) Slots() ([]string, error) {
	entries, err := afero.ReadDir(s.files, s.dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	slots := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), saveExt) {
			continue
		}
		slots = append(slots, strings.TrimSuffix(entry.Name(), saveExt))
	}
	slices.Sort(slots)

	return slots, nil
}
