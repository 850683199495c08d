package engine

import (
	"math"
	"math/rand/v2"
)

// CRIT_RATES is indexed by crit stage, capped at the last entry.
var CRIT_RATES = [...]float64{1.0 / 24, 1.0 / 8, 1.0 / 2, 1}

const (
	STAB_BONUS         = 1.5
	ADAPTED_STAB_BONUS = 2.0
	CRIT_BONUS         = 1.5
	// multiplier for a negative attack or defense stage, regardless of depth
	NEGATIVE_STAGE_MOD = 0.7
	POSITIVE_STAGE_MOD = 0.25
	SPEED_STAGE_BONUS  = 1.5
)

type DamageResult struct {
	Damage        int
	Crit          bool
	Effectiveness float64
}

func critStage(attacker *Combatant, move Move) int {
	stage := 0
	if move.HighCrit {
		stage++
	}
	if attacker.Ability.Is(ABILITY_CRIT_BOOST) {
		stage++
	}

	return min(stage, len(CRIT_RATES)-1)
}

// Damage computes the damage a damaging move does before Sturdy is considered.
// It draws twice from rng: once for the crit roll and once for the damage spread.
func Damage(attacker *Combatant, defender *Combatant, move Move, rng *rand.Rand) DamageResult {
	crit := chance(rng, CRIT_RATES[critStage(attacker, move)])
	effectiveness := Effectiveness(move.Type, defender.Type)

	stab := 1.0
	if move.Type == attacker.Type {
		stab = STAB_BONUS
		if attacker.Ability.Is(ABILITY_STAB_BOOST) {
			stab = ADAPTED_STAB_BONUS
		}
	}

	atk := float64(attacker.Attack)
	atkStage := attacker.Stages[STAGE_ATTACK]
	if !crit && atkStage < 0 {
		atk *= NEGATIVE_STAGE_MOD
	} else if atkStage > 0 {
		atk *= 1 + float64(atkStage)*POSITIVE_STAGE_MOD
	}

	if attacker.Ability.Is(ABILITY_GUTS) && attacker.HasStatus() {
		atk *= attacker.Ability.Value
	}

	if attacker.Ability.Is(ABILITY_CRISIS_ATTACK) && float64(attacker.HP) <= float64(attacker.MaxHP)*CRISIS_ATTACK_THRESHOLD {
		atk *= attacker.Ability.Value
	}

	def := float64(defender.Defense)
	defStage := defender.Stages[STAGE_DEFENSE]
	if !crit && defStage > 0 {
		def *= 1 + float64(defStage)*POSITIVE_STAGE_MOD
	} else if defStage < 0 {
		def *= NEGATIVE_STAGE_MOD
	}

	if defender.Ability.Is(ABILITY_DAMAGE_REDUCE) {
		def *= defender.Ability.Value
	}

	// zero defense only happens with hand-built combatants
	def = math.Max(def, 1)

	critMod := 1.0
	if crit {
		critMod = CRIT_BONUS
		if attacker.Ability.Is(ABILITY_CRIT_BOOST) {
			critMod = attacker.Ability.Value
		}
	}

	base := ((2*float64(attacker.Level)/5+2)*float64(move.Power)*(atk/def))/50 + 2
	spread := 0.85 + rng.Float64()*0.15
	damage := int(math.Floor(base * effectiveness * stab * critMod * spread))

	damageLogger().V(1).Info("final damage",
		"attacker", attacker.Name,
		"defender", defender.Name,
		"move", move.Key,
		"power", move.Power,
		"level", attacker.Level,
		"attack", atk,
		"defense", def,
		"base", base,
		"effectiveness", effectiveness,
		"stab", stab,
		"crit", crit,
		"spread", spread,
		"damage", damage)

	return DamageResult{Damage: damage, Crit: crit, Effectiveness: effectiveness}
}

// sturdyClamp leaves a full HP Sturdy defender at 1 HP. The boolean reports whether it triggered.
func sturdyClamp(defender *Combatant, damage int) (int, bool) {
	if defender.Ability.Is(ABILITY_STURDY) && defender.FullHealth() && damage >= defender.HP {
		return defender.HP - 1, true
	}

	return damage, false
}
