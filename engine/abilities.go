package engine

type Ability struct {
	Key    string
	Name   string
	Desc   string
	Effect AbilityEffect
	// Multiplier for the effects that carry one (stat boosts, crisis boosts, crit damage)
	Value float64
}

func (a Ability) Is(effect AbilityEffect) bool {
	return a.Effect == effect
}

// needsValue reports whether the effect reads Value as a multiplier.
func (a Ability) needsValue() bool {
	switch a.Effect {
	case ABILITY_DEF_BOOST, ABILITY_ATK_BOOST, ABILITY_DAMAGE_REDUCE, ABILITY_GUTS, ABILITY_CRIT_BOOST,
		ABILITY_CRISIS_SPEED, ABILITY_CRISIS_ATTACK:
		return true
	case ABILITY_NONE, ABILITY_ON_ENTRY_DEBUFF_ATK, ABILITY_STAB_BOOST, ABILITY_SPEED_UP_EACH_TURN,
		ABILITY_MOXIE, ABILITY_STURDY:
		return false
	}

	return false
}

// statMultipliers returns the passive attack and defense multipliers this ability applies when stats are recalculated.
func (a Ability) statMultipliers() (attack float64, defense float64) {
	attack, defense = 1, 1

	switch a.Effect {
	case ABILITY_ATK_BOOST:
		attack = a.Value
	case ABILITY_DEF_BOOST:
		defense = a.Value
	case ABILITY_NONE, ABILITY_ON_ENTRY_DEBUFF_ATK, ABILITY_STAB_BOOST, ABILITY_SPEED_UP_EACH_TURN,
		ABILITY_DAMAGE_REDUCE, ABILITY_GUTS, ABILITY_MOXIE, ABILITY_STURDY, ABILITY_CRIT_BOOST,
		ABILITY_CRISIS_SPEED, ABILITY_CRISIS_ATTACK:
	}

	return attack, defense
}
