package engine

type NatureStat int

const (
	NATURE_STAT_NONE NatureStat = iota
	NATURE_STAT_ATTACK
	NATURE_STAT_DEFENSE
	NATURE_STAT_SPEED
	NATURE_STAT_SP_ATTACK
	NATURE_STAT_SP_DEFENSE
)

var NATURE_STAT_MAP = map[string]NatureStat{
	"":        NATURE_STAT_NONE,
	"attack":  NATURE_STAT_ATTACK,
	"defense": NATURE_STAT_DEFENSE,
	"speed":   NATURE_STAT_SPEED,
	"spAtk":   NATURE_STAT_SP_ATTACK,
	"spDef":   NATURE_STAT_SP_DEFENSE,
}

// Nature boosts one stat by 10% and reduces another by 10%.
// Special stats do not feed derived stats so natures that touch them are half-neutral.
type Nature struct {
	Key    string
	Name   string
	Boost  NatureStat
	Reduce NatureStat
}

func (n Nature) modifier(stat NatureStat) float64 {
	switch {
	case n.Boost == stat && n.Reduce == stat:
		return 1
	case n.Boost == stat:
		return 1.1
	case n.Reduce == stat:
		return 0.9
	}

	return 1
}

var NATURE_HARDY = Nature{Key: "HARDY", Name: "Hardy"}
