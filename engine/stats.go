package engine

import "math"

// BaseStats are the six growth tracks of a combatant.
// Only HP, Attack, Defense and Speed feed derived stats; the special tracks are grown and reported but otherwise unused.
type BaseStats struct {
	HP        int
	Attack    int
	Defense   int
	SpAttack  int
	SpDefense int
	Speed     int
}

func (b BaseStats) Add(o BaseStats) BaseStats {
	return BaseStats{
		HP:        b.HP + o.HP,
		Attack:    b.Attack + o.Attack,
		Defense:   b.Defense + o.Defense,
		SpAttack:  b.SpAttack + o.SpAttack,
		SpDefense: b.SpDefense + o.SpDefense,
		Speed:     b.Speed + o.Speed,
	}
}

// StatStages are the battle-only stage counters, indexed by StageStat.
type StatStages [stageStatCount]int

func (s StatStages) Get(stat StageStat) int {
	return s[stat]
}

func XPToLevel(level int) int {
	return level * 50
}

// scaleStat is the level curve shared by every derived stat.
func scaleStat(base int, level int) int {
	return int(math.Floor(float64(base)*(float64(level)/50) + 10 + float64(level)))
}
