package engine

import "math/rand/v2"

const (
	MIN_GROWTH = 1
	MAX_GROWTH = 3
	// a pending learnable move is offered on every level divisible by this
	MOVE_OFFER_INTERVAL = 10
)

type LevelUpResult struct {
	LevelsGained int
	Level        int
	// growth summed over every level gained
	Gains        BaseStats
	OfferedMoves []Move
}

func (r LevelUpResult) LeveledUp() bool {
	return r.LevelsGained > 0
}

func rollGrowth(rng *rand.Rand) int {
	return MIN_GROWTH + randIntN(rng, MAX_GROWTH-MIN_GROWTH+1)
}

// GainExperience adds XP and applies every level-up it pays for.
// Each level grows all six base stat tracks, recalculates stats and fully restores HP and PP.
// Offered moves are removed from Learnable but never equipped; the caller decides with LearnMove.
func (c *Combatant) GainExperience(amount int, rng *rand.Rand) LevelUpResult {
	result := LevelUpResult{Level: c.Level}
	if amount <= 0 {
		return result
	}

	if c.XPToLevel <= 0 {
		c.XPToLevel = XPToLevel(c.Level)
	}

	c.XP += amount
	for c.XP >= c.XPToLevel {
		c.XP -= c.XPToLevel
		c.Level++
		c.XPToLevel = XPToLevel(c.Level)

		gains := BaseStats{
			HP:        rollGrowth(rng),
			Attack:    rollGrowth(rng),
			Defense:   rollGrowth(rng),
			SpAttack:  rollGrowth(rng),
			SpDefense: rollGrowth(rng),
			Speed:     rollGrowth(rng),
		}
		c.BaseStats = c.BaseStats.Add(gains)

		c.RecalculateStats()
		c.HP = c.MaxHP
		c.RestoreAllPP()

		if c.Level%MOVE_OFFER_INTERVAL == 0 && len(c.Learnable) > 0 {
			result.OfferedMoves = append(result.OfferedMoves, c.Learnable[0])
			c.Learnable = c.Learnable[1:]
		}

		result.LevelsGained++
		result.Gains = result.Gains.Add(gains)
	}

	result.Level = c.Level
	return result
}
