package run

import (
	"fmt"
	"math"

	"github.com/nathanieltooley/hackemon/engine"
	"github.com/samber/lo"
)

var TRAINER_WAVES = []int{20, 50, 80, 110, 140, 170, FINAL_WAVE}

func IsTrainerWave(wave int) bool {
	return lo.Contains(TRAINER_WAVES, wave)
}

// IsBossWave reports whether a wild boss appears on wave. Trainer waves are never boss waves.
func IsBossWave(wave int) bool {
	return wave%10 == 0 && !IsTrainerWave(wave)
}

// Encounter is what the next wave holds.
type Encounter struct {
	Wave     int
	Boss     bool
	Opponent engine.OpponentSpec
}

// waveScaling is the level added to wild opponents for the wave alone. It climbs faster the
// deeper the run goes.
func waveScaling(wave int) int {
	switch {
	case wave <= 30:
		return int(math.Floor(float64(wave) * 0.1))
	case wave <= 60:
		return 7 + int(math.Floor(float64(wave-30)*0.18))
	case wave <= 100:
		return 12 + int(math.Floor(float64(wave-60)*0.25))
	default:
		return 20 + int(math.Floor(float64(wave-100)*0.33))
	}
}

// levelCatchUp pushes wild levels up once the strongest roster member passes level 40.
func levelCatchUp(maxLevel int) int {
	if maxLevel <= 40 {
		return 0
	}

	return int(math.Floor(float64(maxLevel-40) * 0.15))
}

func (r *Run) averageLivingLevel() int {
	living := r.Ctx.LivingMembers()
	if len(living) == 0 {
		if len(r.Ctx.Roster) > 0 {
			return r.Ctx.Roster[0].Level
		}
		return DEFAULT_ENEMY_LEVEL
	}

	return lo.SumBy(living, func(c *engine.Combatant) int { return c.Level }) / len(living)
}

func (r *Run) maxLevel() int {
	if len(r.Ctx.Roster) == 0 {
		return DEFAULT_ENEMY_LEVEL
	}

	return lo.MaxBy(r.Ctx.Roster, func(a, b *engine.Combatant) bool { return a.Level > b.Level }).Level
}

// wildLevel rolls the level of the wave's wild opponent. Boss waves ignore the average and
// scale off the strongest roster member instead.
func (r *Run) wildLevel() int {
	maxLevel := r.maxLevel()

	if IsBossWave(r.Wave) {
		return max(1, int(math.Floor(float64(maxLevel)*(1.15+r.rng.Float64()*0.2))))
	}

	variance := r.randIntN(4) - 1
	return max(1, r.averageLivingLevel()+waveScaling(r.Wave)+levelCatchUp(maxLevel)+variance)
}

// ApplyEnemyBonuses makes a wild opponent tougher than a roster member of the same level.
// Attack and defense grow by 2 and speed by 1 for every 5 levels, and HP is multiplied by a
// factor that grows with the wave and with levels past 40. Boss waves add another 0.4.
func ApplyEnemyBonuses(c *engine.Combatant, wave int) {
	bonus := c.Level / 5
	c.Attack += bonus * 2
	c.Defense += bonus * 2
	c.Speed += bonus

	multiplier := 1 + float64(wave)*0.015
	if c.Level > 40 {
		multiplier += float64(c.Level-40) * 0.025
	}
	if IsBossWave(wave) {
		multiplier += 0.4
	}

	c.MaxHP = int(math.Floor(float64(c.MaxHP) * multiplier))
	c.HP = c.MaxHP
}

// Next builds the encounter for the current wave.
func (r *Run) Next() (Encounter, error) {
	if r.Status != RUN_ACTIVE {
		return Encounter{}, fmt.Errorf("%w: run is %s", engine.ErrIllegalAction, r.Status)
	}

	if trainer, ok := r.content.TrainerForWave(r.Wave); ok {
		runLogger().Info().Int("wave", r.Wave).Str("trainer", trainer.Key).Msg("Trainer encounter")
		return Encounter{Wave: r.Wave, Opponent: engine.OpponentSpec{Trainer: &trainer}}, nil
	}

	keys := r.content.SpeciesKeys()
	species := keys[r.randIntN(len(keys))]
	level := r.wildLevel()

	wild, err := engine.NewCombatant(r.content, species, level, r.rng)
	if err != nil {
		return Encounter{}, err
	}
	ApplyEnemyBonuses(wild, r.Wave)

	boss := IsBossWave(r.Wave)
	runLogger().Info().
		Int("wave", r.Wave).
		Str("species", species).
		Int("level", level).
		Bool("boss", boss).
		Msg("Wild encounter")

	return Encounter{Wave: r.Wave, Boss: boss, Opponent: engine.OpponentSpec{Wild: wild}}, nil
}

// NewSession starts the session for an encounter on the run's roster. The session gets its own
// PCG seeded from the run so the run can be replayed from a seed.
func (r *Run) NewSession(enc Encounter) (*engine.Session, error) {
	startIndex := r.ActiveIndex
	if startIndex < 0 || startIndex >= len(r.Ctx.Roster) {
		startIndex = 0
	}

	return engine.NewSession(r.Ctx, enc.Opponent, startIndex,
		engine.WithContent(r.content),
		engine.WithSeed(r.rng.Uint64(), r.rng.Uint64()),
	)
}
