package engine

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"slices"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var defaultData embed.FS

var contentValidator = validator.New(validator.WithRequiredStructEnabled())

type Species struct {
	Key       string
	Name      string
	Type      ElementType
	BaseStats BaseStats
	// Move keys in learn order. The first STARTING_MOVES are equipped on creation.
	Moves     []string
	Abilities []string
	Desc      string
}

type Trainer struct {
	Key        string
	Name       string
	Wave       int
	Party      []string
	LevelBonus int
	FinalBoss  bool
}

type CaptureDevice struct {
	Key        string
	Name       string
	Multiplier float64
	Price      int
}

// Content holds every table the engine reads. It is never mutated after loading
// and can be shared between sessions.
type Content struct {
	Species   map[string]Species
	Moves     map[string]Move
	Abilities map[string]Ability
	Natures   []Nature
	Trainers  map[string]Trainer
	Devices   map[string]CaptureDevice
}

type baseStatsRow struct {
	HP      int `yaml:"hp" validate:"gte=1"`
	Attack  int `yaml:"attack" validate:"gte=1"`
	Defense int `yaml:"defense" validate:"gte=1"`
	Speed   int `yaml:"speed" validate:"gte=1"`
}

type speciesRow struct {
	Key       string       `yaml:"key" validate:"required"`
	Name      string       `yaml:"name" validate:"required"`
	Type      string       `yaml:"type" validate:"required"`
	BaseStats baseStatsRow `yaml:"baseStats"`
	Moves     []string     `yaml:"moves" validate:"min=1,dive,required"`
	Abilities []string     `yaml:"abilities" validate:"min=1,dive,required"`
	Desc      string       `yaml:"desc"`
}

type moveRow struct {
	Key      string `yaml:"key" validate:"required"`
	Name     string `yaml:"name" validate:"required"`
	Type     string `yaml:"type" validate:"required"`
	Power    int    `yaml:"power" validate:"gte=0,lte=250"`
	Accuracy int    `yaml:"accuracy" validate:"gte=1,lte=100"`
	PP       int    `yaml:"pp" validate:"gte=1,lte=64"`
	Effect   string `yaml:"effect"`
	HighCrit bool   `yaml:"highCrit"`
	Recoil   bool   `yaml:"recoil"`
	Desc     string `yaml:"desc"`
}

type abilityRow struct {
	Key    string  `yaml:"key" validate:"required"`
	Name   string  `yaml:"name" validate:"required"`
	Desc   string  `yaml:"desc"`
	Effect string  `yaml:"effect" validate:"required"`
	Value  float64 `yaml:"value" validate:"gte=0"`
}

type natureRow struct {
	Key    string `yaml:"key" validate:"required"`
	Name   string `yaml:"name" validate:"required"`
	Boost  string `yaml:"boost"`
	Reduce string `yaml:"reduce"`
}

type trainerRow struct {
	Key        string   `yaml:"key" validate:"required"`
	Name       string   `yaml:"name" validate:"required"`
	Wave       int      `yaml:"wave" validate:"gte=1"`
	Party      []string `yaml:"party" validate:"min=1,max=6,dive,required"`
	LevelBonus int      `yaml:"levelBonus" validate:"gte=0"`
	FinalBoss  bool     `yaml:"finalBoss"`
}

type deviceRow struct {
	Key        string  `yaml:"key" validate:"required"`
	Name       string  `yaml:"name" validate:"required"`
	Multiplier float64 `yaml:"multiplier" validate:"gt=0"`
	Price      int     `yaml:"price" validate:"gte=0"`
}

// rowError turns a validator failure into an ErrDataIntegrity with the failing fields listed.
func rowError(table string, key string, err error) error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		fields := lo.Map(fieldErrs, func(fe validator.FieldError, _ int) string {
			return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
		})

		return fmt.Errorf("%w: %s %q: %s", ErrDataIntegrity, table, key, strings.Join(fields, ", "))
	}

	return fmt.Errorf("%w: %s %q: %w", ErrDataIntegrity, table, key, err)
}

func decodeRows[T any](table string, data []byte) ([]T, error) {
	rows := make([]T, 0)
	if err := yaml.Unmarshal(data, &rows); err != nil {
		contentLogger().Error(err, "couldn't parse table", "table", table)
		return nil, fmt.Errorf("%w: %s: %w", ErrDataIntegrity, table, err)
	}

	return rows, nil
}

func parseElementType(name string) (ElementType, bool) {
	t, ok := TYPE_NAME_MAP[strings.ToLower(name)]
	return t, ok
}

func LoadSpecies(data []byte) ([]Species, error) {
	rows, err := decodeRows[speciesRow]("species", data)
	if err != nil {
		return nil, err
	}

	species := make([]Species, 0, len(rows))
	for _, row := range rows {
		if err := contentValidator.Struct(row); err != nil {
			return nil, rowError("species", row.Key, err)
		}

		elementType, ok := parseElementType(row.Type)
		if !ok {
			return nil, fmt.Errorf("%w: species %q has unknown type %q", ErrDataIntegrity, row.Key, row.Type)
		}

		species = append(species, Species{
			Key:  row.Key,
			Name: row.Name,
			Type: elementType,
			BaseStats: BaseStats{
				HP:      row.BaseStats.HP,
				Attack:  row.BaseStats.Attack,
				Defense: row.BaseStats.Defense,
				Speed:   row.BaseStats.Speed,
			},
			Moves:     row.Moves,
			Abilities: row.Abilities,
			Desc:      row.Desc,
		})
	}

	contentLogger().Info("Loaded species", "count", len(species))
	return species, nil
}

func LoadMoves(data []byte) ([]Move, error) {
	rows, err := decodeRows[moveRow]("moves", data)
	if err != nil {
		return nil, err
	}

	moves := make([]Move, 0, len(rows))
	for _, row := range rows {
		if err := contentValidator.Struct(row); err != nil {
			return nil, rowError("moves", row.Key, err)
		}

		elementType, ok := parseElementType(row.Type)
		if !ok {
			return nil, fmt.Errorf("%w: move %q has unknown type %q", ErrDataIntegrity, row.Key, row.Type)
		}

		effect, ok := MOVE_EFFECT_MAP[row.Effect]
		if !ok {
			return nil, fmt.Errorf("%w: move %q has unknown effect %q", ErrDataIntegrity, row.Key, row.Effect)
		}

		moves = append(moves, Move{
			Key:      row.Key,
			Name:     row.Name,
			Type:     elementType,
			Power:    row.Power,
			Accuracy: row.Accuracy,
			PP:       row.PP,
			Effect:   effect,
			HighCrit: row.HighCrit,
			Recoil:   row.Recoil,
			Desc:     row.Desc,
		})
	}

	contentLogger().Info("Loaded moves", "count", len(moves))
	return moves, nil
}

func LoadAbilities(data []byte) ([]Ability, error) {
	rows, err := decodeRows[abilityRow]("abilities", data)
	if err != nil {
		return nil, err
	}

	abilities := make([]Ability, 0, len(rows))
	for _, row := range rows {
		if err := contentValidator.Struct(row); err != nil {
			return nil, rowError("abilities", row.Key, err)
		}

		effect, ok := ABILITY_EFFECT_MAP[row.Effect]
		if !ok {
			return nil, fmt.Errorf("%w: ability %q has unknown effect %q", ErrDataIntegrity, row.Key, row.Effect)
		}

		ability := Ability{Key: row.Key, Name: row.Name, Desc: row.Desc, Effect: effect, Value: row.Value}
		if ability.needsValue() && ability.Value <= 0 {
			return nil, fmt.Errorf("%w: ability %q needs a multiplier value", ErrDataIntegrity, row.Key)
		}

		abilities = append(abilities, ability)
	}

	contentLogger().Info("Loaded abilities", "count", len(abilities))
	return abilities, nil
}

func LoadNatures(data []byte) ([]Nature, error) {
	rows, err := decodeRows[natureRow]("natures", data)
	if err != nil {
		return nil, err
	}

	natures := make([]Nature, 0, len(rows))
	for _, row := range rows {
		if err := contentValidator.Struct(row); err != nil {
			return nil, rowError("natures", row.Key, err)
		}

		boost, boostOk := NATURE_STAT_MAP[row.Boost]
		reduce, reduceOk := NATURE_STAT_MAP[row.Reduce]
		if !boostOk || !reduceOk {
			return nil, fmt.Errorf("%w: nature %q has unknown stats %q/%q", ErrDataIntegrity, row.Key, row.Boost, row.Reduce)
		}

		natures = append(natures, Nature{Key: row.Key, Name: row.Name, Boost: boost, Reduce: reduce})
	}

	contentLogger().Info("Loaded natures", "count", len(natures))
	return natures, nil
}

func LoadTrainers(data []byte) ([]Trainer, error) {
	rows, err := decodeRows[trainerRow]("trainers", data)
	if err != nil {
		return nil, err
	}

	trainers := make([]Trainer, 0, len(rows))
	for _, row := range rows {
		if err := contentValidator.Struct(row); err != nil {
			return nil, rowError("trainers", row.Key, err)
		}

		trainers = append(trainers, Trainer(row))
	}

	contentLogger().Info("Loaded trainers", "count", len(trainers))
	return trainers, nil
}

func LoadDevices(data []byte) ([]CaptureDevice, error) {
	rows, err := decodeRows[deviceRow]("devices", data)
	if err != nil {
		return nil, err
	}

	devices := make([]CaptureDevice, 0, len(rows))
	for _, row := range rows {
		if err := contentValidator.Struct(row); err != nil {
			return nil, rowError("devices", row.Key, err)
		}

		devices = append(devices, CaptureDevice(row))
	}

	contentLogger().Info("Loaded capture devices", "count", len(devices))
	return devices, nil
}

func readTable(files fs.FS, dir string, name string) ([]byte, error) {
	file, err := files.Open(path.Join(dir, name))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return io.ReadAll(file)
}

// keyed builds a key map from a table, rejecting duplicate keys.
func keyed[T any](table string, rows []T, key func(T) string) (map[string]T, error) {
	m := make(map[string]T, len(rows))
	for _, row := range rows {
		k := key(row)
		if _, dup := m[k]; dup {
			return nil, fmt.Errorf("%w: %s has duplicate key %q", ErrDataIntegrity, table, k)
		}
		m[k] = row
	}

	return m, nil
}

// LoadContent reads species.yaml, moves.yaml, abilities.yaml, natures.yaml, trainers.yaml and devices.yaml
// from dir in files. Tables load concurrently; every failure is returned.
// Cross-table references are checked with ValidateContent once all tables have loaded.
func LoadContent(files fs.FS, dir string) (*Content, []error) {
	var wg sync.WaitGroup
	errChan := make(chan error, 12)
	content := &Content{}

	load := func(name string, parse func([]byte) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()

			data, err := readTable(files, dir, name)
			if err != nil {
				errChan <- err
				return
			}

			if err := parse(data); err != nil {
				errChan <- err
			}
		}()
	}

	load("species.yaml", func(data []byte) error {
		species, err := LoadSpecies(data)
		if err != nil {
			return err
		}
		content.Species, err = keyed("species", species, func(s Species) string { return s.Key })
		return err
	})
	load("moves.yaml", func(data []byte) error {
		moves, err := LoadMoves(data)
		if err != nil {
			return err
		}
		content.Moves, err = keyed("moves", moves, func(m Move) string { return m.Key })
		return err
	})
	load("abilities.yaml", func(data []byte) error {
		abilities, err := LoadAbilities(data)
		if err != nil {
			return err
		}
		content.Abilities, err = keyed("abilities", abilities, func(a Ability) string { return a.Key })
		return err
	})
	load("natures.yaml", func(data []byte) error {
		natures, err := LoadNatures(data)
		if err != nil {
			return err
		}
		if _, err := keyed("natures", natures, func(n Nature) string { return n.Key }); err != nil {
			return err
		}
		content.Natures = natures
		return nil
	})
	load("trainers.yaml", func(data []byte) error {
		trainers, err := LoadTrainers(data)
		if err != nil {
			return err
		}
		content.Trainers, err = keyed("trainers", trainers, func(t Trainer) string { return t.Key })
		return err
	})
	load("devices.yaml", func(data []byte) error {
		devices, err := LoadDevices(data)
		if err != nil {
			return err
		}
		content.Devices, err = keyed("devices", devices, func(d CaptureDevice) string { return d.Key })
		return err
	})

	wg.Wait()
	close(errChan)

	errs := make([]error, 0)
	for err := range errChan {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return nil, errs
	}

	if errs := ValidateContent(content); len(errs) > 0 {
		return nil, errs
	}

	return content, nil
}

// ValidateContent checks the references between tables.
func ValidateContent(c *Content) []error {
	errs := make([]error, 0)

	if len(c.Species) == 0 {
		errs = append(errs, fmt.Errorf("%w: no species loaded", ErrDataIntegrity))
	}
	if len(c.Natures) == 0 {
		errs = append(errs, fmt.Errorf("%w: no natures loaded", ErrDataIntegrity))
	}

	for _, key := range c.SpeciesKeys() {
		species := c.Species[key]
		for _, moveKey := range species.Moves {
			if _, ok := c.Moves[moveKey]; !ok {
				errs = append(errs, fmt.Errorf("%w: species %q references unknown move %q", ErrDataIntegrity, key, moveKey))
			}
		}
		for _, abilityKey := range species.Abilities {
			if _, ok := c.Abilities[abilityKey]; !ok {
				errs = append(errs, fmt.Errorf("%w: species %q references unknown ability %q", ErrDataIntegrity, key, abilityKey))
			}
		}
	}

	waves := make(map[int]string)
	for key, trainer := range c.Trainers {
		for _, speciesKey := range trainer.Party {
			if _, ok := c.Species[speciesKey]; !ok {
				errs = append(errs, fmt.Errorf("%w: trainer %q references unknown species %q", ErrDataIntegrity, key, speciesKey))
			}
		}

		if other, dup := waves[trainer.Wave]; dup {
			errs = append(errs, fmt.Errorf("%w: trainers %q and %q share wave %d", ErrDataIntegrity, other, key, trainer.Wave))
		}
		waves[trainer.Wave] = key
	}

	return errs
}

// DefaultTables returns the embedded table files with the tables at the root.
func DefaultTables() fs.FS {
	tables, err := fs.Sub(defaultData, "data")
	if err != nil {
		panic(err)
	}

	return tables
}

var loadDefaultContent = sync.OnceValues(func() (*Content, error) {
	content, errs := LoadContent(defaultData, "data")
	return content, errors.Join(errs...)
})

// DefaultContent returns the tables embedded in the engine.
// It panics if the embedded tables are invalid.
func DefaultContent() *Content {
	content, err := loadDefaultContent()
	if err != nil {
		panic(fmt.Sprintf("embedded content is invalid: %s", err))
	}

	return content
}

// SpeciesKeys returns species keys in sorted order so random picks are reproducible for a seed.
func (c *Content) SpeciesKeys() []string {
	keys := lo.Keys(c.Species)
	slices.Sort(keys)
	return keys
}

func (c *Content) DeviceKeys() []string {
	keys := lo.Keys(c.Devices)
	slices.Sort(keys)
	return keys
}

func (c *Content) GetSpecies(key string) (Species, error) {
	species, ok := c.Species[key]
	if !ok {
		return Species{}, fmt.Errorf("%w: unknown species %q", ErrDataIntegrity, key)
	}

	return species, nil
}

func (c *Content) GetMove(key string) (Move, error) {
	move, ok := c.Moves[key]
	if !ok {
		return Move{}, fmt.Errorf("%w: unknown move %q", ErrDataIntegrity, key)
	}

	return move, nil
}

func (c *Content) GetAbility(key string) (Ability, error) {
	ability, ok := c.Abilities[key]
	if !ok {
		return Ability{}, fmt.Errorf("%w: unknown ability %q", ErrDataIntegrity, key)
	}

	return ability, nil
}

func (c *Content) GetNature(key string) (Nature, error) {
	nature, ok := lo.Find(c.Natures, func(n Nature) bool { return n.Key == key })
	if !ok {
		return Nature{}, fmt.Errorf("%w: unknown nature %q", ErrDataIntegrity, key)
	}

	return nature, nil
}

func (c *Content) GetDevice(key string) (CaptureDevice, error) {
	device, ok := c.Devices[key]
	if !ok {
		return CaptureDevice{}, fmt.Errorf("%w: unknown capture device %q", ErrDataIntegrity, key)
	}

	return device, nil
}

// TrainerForWave returns the trainer that appears on wave, if any.
func (c *Content) TrainerForWave(wave int) (Trainer, bool) {
	return lo.Find(lo.Values(c.Trainers), func(t Trainer) bool { return t.Wave == wave })
}

// SpeciesMoves resolves a species' move keys in learn order.
func (c *Content) SpeciesMoves(species Species) ([]Move, error) {
	moves := make([]Move, 0, len(species.Moves))
	for _, key := range species.Moves {
		move, err := c.GetMove(key)
		if err != nil {
			return nil, err
		}
		moves = append(moves, move)
	}

	return moves, nil
}
