package engine

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultContentLoads(t *testing.T) {
	content := DefaultContent()

	assert.Len(t, content.Species, 11)
	assert.Len(t, content.Natures, 17)
	assert.Len(t, content.Devices, 3)
	assert.Empty(t, ValidateContent(content))

	device, err := content.GetDevice("GREAT_BALL")
	require.NoError(t, err)
	assert.Equal(t, 1.5, device.Multiplier)

	trainer, ok := content.TrainerForWave(20)
	require.True(t, ok)
	assert.Equal(t, "WAVE_20", trainer.Key)

	_, ok = content.TrainerForWave(21)
	assert.False(t, ok)

	move, err := content.GetMove("STEAL_EAT")
	require.NoError(t, err)
	assert.Equal(t, EFFECT_DRAIN, move.Effect)

	ability, err := content.GetAbility("THICK_FAT")
	require.NoError(t, err)
	assert.Equal(t, ABILITY_DAMAGE_REDUCE, ability.Effect)
	assert.Equal(t, 1.1, ability.Value)
}

func TestSpeciesKeysAreSorted(t *testing.T) {
	keys := DefaultContent().SpeciesKeys()
	assert.IsNonDecreasing(t, keys)
}

func validTables() fstest.MapFS {
	return fstest.MapFS{
		"tables/species.yaml": {Data: []byte(`
- key: TESTMON
  name: Testmon
  type: math
  baseStats: {hp: 50, attack: 50, defense: 50, speed: 50}
  moves: [POKE]
  abilities: [STURDY]
`)},
		"tables/moves.yaml": {Data: []byte(`
- {key: POKE, name: Poke, type: normal, power: 40, accuracy: 100, pp: 35}
`)},
		"tables/abilities.yaml": {Data: []byte(`
- {key: STURDY, name: Sturdy, effect: sturdy}
`)},
		"tables/natures.yaml": {Data: []byte(`
- {key: HARDY, name: Hardy}
`)},
		"tables/trainers.yaml": {Data: []byte(`
- {key: BOSS, name: Boss, wave: 10, party: [TESTMON], levelBonus: 2}
`)},
		"tables/devices.yaml": {Data: []byte(`
- {key: BALL, name: Ball, multiplier: 1, price: 100}
`)},
	}
}

func TestLoadContentFromFS(t *testing.T) {
	content, errs := LoadContent(validTables(), "tables")
	require.Empty(t, errs)

	assert.Contains(t, content.Species, "TESTMON")
	assert.Equal(t, TYPE_MATH, content.Species["TESTMON"].Type)
	assert.Equal(t, 40, content.Moves["POKE"].Power)
}

func requireIntegrityErrors(t *testing.T, errs []error) {
	t.Helper()

	require.NotEmpty(t, errs)
	for _, err := range errs {
		assert.True(t, errors.Is(err, ErrDataIntegrity), "%v", err)
	}
}

func TestLoadContentRejectsBadRows(t *testing.T) {
	cases := map[string]string{
		"tables/moves.yaml":     `- {key: POKE, name: Poke, type: normal, power: 40, accuracy: 0, pp: 35}`,
		"tables/abilities.yaml": `- {key: STURDY, name: Sturdy, effect: bounce}`,
		"tables/natures.yaml":   `- {key: HARDY, name: Hardy, boost: luck}`,
		"tables/devices.yaml":   `- {key: BALL, name: Ball, multiplier: 0}`,
		"tables/trainers.yaml":  `- {key: BOSS, name: Boss, wave: 10, party: []}`,
		"tables/species.yaml":   `- {key: TESTMON, name: Testmon, type: cooking, moves: [POKE], abilities: [STURDY], baseStats: {hp: 1, attack: 1, defense: 1, speed: 1}}`,
	}

	for file, table := range cases {
		t.Run(file, func(t *testing.T) {
			tables := validTables()
			tables[file] = &fstest.MapFile{Data: []byte(table)}

			content, errs := LoadContent(tables, "tables")
			assert.Nil(t, content)
			requireIntegrityErrors(t, errs)
		})
	}
}

func TestLoadContentRejectsBrokenReferences(t *testing.T) {
	tables := validTables()
	tables["tables/trainers.yaml"] = &fstest.MapFile{Data: []byte(`
- {key: BOSS, name: Boss, wave: 10, party: [NOBODY]}
- {key: OTHER, name: Other, wave: 10, party: [TESTMON]}
`)}
	tables["tables/species.yaml"] = &fstest.MapFile{Data: []byte(`
- key: TESTMON
  name: Testmon
  type: math
  baseStats: {hp: 50, attack: 50, defense: 50, speed: 50}
  moves: [POKE, KICK]
  abilities: [STURDY]
`)}

	_, errs := LoadContent(tables, "tables")
	requireIntegrityErrors(t, errs)
	assert.Len(t, errs, 3)
}

func TestLoadContentRejectsDuplicateKeys(t *testing.T) {
	tables := validTables()
	tables["tables/moves.yaml"] = &fstest.MapFile{Data: []byte(`
- {key: POKE, name: Poke, type: normal, power: 40, accuracy: 100, pp: 35}
- {key: POKE, name: Poke Again, type: normal, power: 40, accuracy: 100, pp: 35}
`)}

	_, errs := LoadContent(tables, "tables")
	requireIntegrityErrors(t, errs)
}

func TestLoadContentReportsMissingTables(t *testing.T) {
	tables := validTables()
	delete(tables, "tables/devices.yaml")
	delete(tables, "tables/natures.yaml")

	_, errs := LoadContent(tables, "tables")
	assert.Len(t, errs, 2)
}

func TestAbilityNeedsValue(t *testing.T) {
	_, err := LoadAbilities([]byte(`- {key: HUGE, name: Huge, effect: atk_boost}`))
	assert.ErrorIs(t, err, ErrDataIntegrity)

	abilities, err := LoadAbilities([]byte(`- {key: HUGE, name: Huge, effect: atk_boost, value: 1.5}`))
	require.NoError(t, err)
	assert.Equal(t, 1.5, abilities[0].Value)
}

func TestDefaultTablesLoadFromRoot(t *testing.T) {
	content, errs := LoadContent(DefaultTables(), ".")
	require.Empty(t, errs)
	assert.Equal(t, DefaultContent().SpeciesKeys(), content.SpeciesKeys())
}
