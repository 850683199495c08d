package engine

import (
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

var builderLogger = func() *zerolog.Logger {
	logger := log.With().Str("location", "combatant-builder").Logger()
	return &logger
}

type CombatantBuilder struct {
	content   *Content
	species   Species
	combatant Combatant
	rng       *rand.Rand

	natureSet  bool
	abilitySet bool
	err        error
}

// NewCombatantBuilder starts a level 1 combatant of the given species.
// Unknown species are reported by Build.
func NewCombatantBuilder(content *Content, speciesKey string, rng *rand.Rand) *CombatantBuilder {
	cb := &CombatantBuilder{content: content, rng: rng}

	species, err := content.GetSpecies(speciesKey)
	if err != nil {
		cb.err = err
		return cb
	}

	cb.species = species
	cb.combatant = Combatant{
		ID:         uuid.New(),
		SpeciesKey: species.Key,
		Name:       species.Name,
		Type:       species.Type,
		Level:      1,
		BaseStats:  species.BaseStats,
		Nature:     NATURE_HARDY,
	}

	return cb
}

func (cb *CombatantBuilder) SetLevel(level int) *CombatantBuilder {
	if level < 1 {
		cb.err = fmt.Errorf("%w: level %d is below 1", ErrDataIntegrity, level)
		return cb
	}

	cb.combatant.Level = level
	return cb
}

func (cb *CombatantBuilder) SetName(name string) *CombatantBuilder {
	cb.combatant.Name = name
	return cb
}

func (cb *CombatantBuilder) SetNature(key string) *CombatantBuilder {
	nature, err := cb.content.GetNature(key)
	if err != nil {
		cb.err = err
		return cb
	}

	cb.combatant.Nature = nature
	cb.natureSet = true

	builderLogger().Debug().Str("nature", nature.Key).Msg("Setting nature")
	return cb
}

func (cb *CombatantBuilder) SetRandomNature() *CombatantBuilder {
	if len(cb.content.Natures) == 0 {
		builderLogger().Warn().Msg("No natures loaded, keeping Hardy")
		return cb
	}

	cb.combatant.Nature = cb.content.Natures[randIntN(cb.rng, len(cb.content.Natures))]
	cb.natureSet = true

	builderLogger().Debug().Str("nature", cb.combatant.Nature.Key).Msg("Setting random nature")
	return cb
}

// SetAbility assigns an ability by key. It does not need to be one of the species' own abilities.
func (cb *CombatantBuilder) SetAbility(key string) *CombatantBuilder {
	ability, err := cb.content.GetAbility(key)
	if err != nil {
		cb.err = err
		return cb
	}

	cb.combatant.Ability = ability
	cb.abilitySet = true

	builderLogger().Debug().Str("ability", ability.Key).Msg("Setting ability")
	return cb
}

func (cb *CombatantBuilder) SetRandomAbility() *CombatantBuilder {
	if len(cb.species.Abilities) == 0 {
		builderLogger().Warn().Str("species", cb.species.Key).Msg("This species was given no abilities to randomize with!")
		return cb
	}

	key := cb.species.Abilities[randIntN(cb.rng, len(cb.species.Abilities))]
	return cb.SetAbility(key)
}

// Build equips the first STARTING_MOVES species moves, queues the rest as learnable
// and spawns the combatant at full HP. A random ability and nature are drawn if none were set.
func (cb *CombatantBuilder) Build() (*Combatant, error) {
	if cb.err != nil {
		return nil, cb.err
	}

	if !cb.abilitySet {
		cb.SetRandomAbility()
	}
	if !cb.natureSet {
		cb.SetRandomNature()
	}
	if cb.err != nil {
		return nil, cb.err
	}

	moves, err := cb.content.SpeciesMoves(cb.species)
	if err != nil {
		return nil, err
	}

	c := cb.combatant
	equipped := min(STARTING_MOVES, len(moves))
	c.Moves = lo.Map(moves[:equipped], func(m Move, _ int) MoveSlot { return NewMoveSlot(m) })
	c.Learnable = append([]Move(nil), moves[equipped:]...)

	c.XPToLevel = XPToLevel(c.Level)
	c.RecalculateStats()
	c.HP = c.MaxHP

	builderLogger().Debug().
		Str("species", c.SpeciesKey).
		Int("level", c.Level).
		Str("ability", c.Ability.Key).
		Str("nature", c.Nature.Key).
		Int("hp", c.MaxHP).
		Msg("Building combatant")

	return &c, nil
}

// NewCombatant builds a combatant with a random ability and nature.
func NewCombatant(content *Content, speciesKey string, level int, rng *rand.Rand) (*Combatant, error) {
	return NewCombatantBuilder(content, speciesKey, rng).SetLevel(level).Build()
}
