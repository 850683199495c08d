package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func damageFixture() (*Combatant, *Combatant, Move) {
	attacker := testCombatant("Attacker", 200, 100, 100, 50)
	// off-type so there is no STAB
	attacker.Type = TYPE_MATH
	defender := testCombatant("Defender", 200, 100, 100, 50)

	return attacker, defender, attackMove("TACKLE", 40)
}

func TestDamageFormula(t *testing.T) {
	attacker, defender, move := damageFixture()

	result := Damage(attacker, defender, move, newRng(highSource{}))

	assert.Equal(t, 19, result.Damage)
	assert.False(t, result.Crit)
	assert.Equal(t, 1.0, result.Effectiveness)
}

func TestDamageLowRollCrits(t *testing.T) {
	attacker, defender, move := damageFixture()

	result := Damage(attacker, defender, move, newRng(lowSource{}))

	// 19.6 * 1.5 * 0.85
	assert.True(t, result.Crit)
	assert.Equal(t, 24, result.Damage)
}

func TestDamageRange(t *testing.T) {
	attacker, defender, move := damageFixture()
	rng := newRng(&scriptedSource{draws: []float64{0.99, 0.5}})

	for range 100 {
		result := Damage(attacker, defender, move, rng)
		assert.GreaterOrEqual(t, result.Damage, 16)
		assert.LessOrEqual(t, result.Damage, 19)
	}
}

func TestDamageTypeEffectiveness(t *testing.T) {
	attacker, defender, move := damageFixture()
	move.Type = TYPE_PHYSICS

	defender.Type = TYPE_CHEMISTRY
	assert.Equal(t, 2.0, Damage(attacker, defender, move, newRng(highSource{})).Effectiveness)

	defender.Type = TYPE_ENGINEERING
	assert.Equal(t, 0.5, Damage(attacker, defender, move, newRng(highSource{})).Effectiveness)

	defender.Type = TYPE_INFO
	assert.Equal(t, 1.0, Damage(attacker, defender, move, newRng(highSource{})).Effectiveness)
}

func TestDamageStab(t *testing.T) {
	attacker, defender, move := damageFixture()
	attacker.Type = TYPE_NORMAL

	// 19.6 * 1.5
	assert.Equal(t, 29, Damage(attacker, defender, move, newRng(highSource{})).Damage)

	attacker.Ability = Ability{Key: "ADAPTABILITY", Effect: ABILITY_STAB_BOOST}
	assert.Equal(t, 39, Damage(attacker, defender, move, newRng(highSource{})).Damage)
}

func TestDamageStages(t *testing.T) {
	attacker, defender, move := damageFixture()

	attacker.ChangeStage(STAGE_ATTACK, 2)
	boosted := Damage(attacker, defender, move, newRng(highSource{})).Damage
	assert.Greater(t, boosted, 19)

	attacker.ResetStages()
	attacker.ChangeStage(STAGE_ATTACK, -3)
	lowered := Damage(attacker, defender, move, newRng(highSource{})).Damage
	assert.Less(t, lowered, 19)

	// crits ignore a negative attack stage
	critical := Damage(attacker, defender, move, newRng(lowSource{}))
	assert.True(t, critical.Crit)
	assert.Equal(t, 24, critical.Damage)
}

func TestCritStage(t *testing.T) {
	attacker, _, move := damageFixture()
	assert.Equal(t, 0, critStage(attacker, move))

	move.HighCrit = true
	assert.Equal(t, 1, critStage(attacker, move))

	attacker.Ability = Ability{Key: "SNIPER", Effect: ABILITY_CRIT_BOOST, Value: 2.25}
	assert.Equal(t, 2, critStage(attacker, move))
}

func TestSturdyClamp(t *testing.T) {
	defender := testCombatant("Sturdy", 50, 10, 10, 10)
	defender.Ability = Ability{Key: "STURDY", Effect: ABILITY_STURDY}

	damage, endured := sturdyClamp(defender, 500)
	assert.True(t, endured)
	assert.Equal(t, 49, damage)

	defender.HP = 49
	damage, endured = sturdyClamp(defender, 500)
	assert.False(t, endured)
	assert.Equal(t, 500, damage)

	defender.HP = 50
	damage, endured = sturdyClamp(defender, 10)
	assert.False(t, endured)
	assert.Equal(t, 10, damage)
}

func TestEffectivenessChart(t *testing.T) {
	assert.Equal(t, 2.0, Effectiveness(TYPE_INFO, TYPE_MATH))
	assert.Equal(t, 0.5, Effectiveness(TYPE_INFO, TYPE_BIOLOGY))
	assert.Equal(t, 1.0, Effectiveness(TYPE_NORMAL, TYPE_EARTH))
	assert.Equal(t, 1.0, Effectiveness(TYPE_EARTH, TYPE_NORMAL))
}

func TestDamageAbilityMultipliers(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(attacker *Combatant, defender *Combatant)
		source func() *scriptedSource
		damage int
		crit   bool
	}{
		{
			name: "guts with a status",
			setup: func(attacker *Combatant, _ *Combatant) {
				attacker.Ability = Ability{Key: "GUTS", Effect: ABILITY_GUTS, Value: 1.5}
				attacker.SetStatus(STATUS_DOT, 2)
			},
			damage: 28,
		},
		{
			name: "guts without a status",
			setup: func(attacker *Combatant, _ *Combatant) {
				attacker.Ability = Ability{Key: "GUTS", Effect: ABILITY_GUTS, Value: 1.5}
			},
			damage: 19,
		},
		{
			name: "crisis attack at thirty percent",
			setup: func(attacker *Combatant, _ *Combatant) {
				attacker.Ability = Ability{Key: "CRISIS", Effect: ABILITY_CRISIS_ATTACK, Value: 1.8}
				attacker.HP = 60
			},
			damage: 33,
		},
		{
			name: "crisis attack above thirty percent",
			setup: func(attacker *Combatant, _ *Combatant) {
				attacker.Ability = Ability{Key: "CRISIS", Effect: ABILITY_CRISIS_ATTACK, Value: 1.8}
				attacker.HP = 61
			},
			damage: 19,
		},
		{
			name: "damage reduce",
			setup: func(_ *Combatant, defender *Combatant) {
				defender.Ability = Ability{Key: "THICK_FAT", Effect: ABILITY_DAMAGE_REDUCE, Value: 1.1}
			},
			damage: 18,
		},
		{
			name: "sniper crit",
			setup: func(attacker *Combatant, _ *Combatant) {
				attacker.Ability = Ability{Key: "SNIPER", Effect: ABILITY_CRIT_BOOST, Value: 2.25}
			},
			source: func() *scriptedSource { return &scriptedSource{draws: []float64{0}} },
			// 19.6 * 2.25 * 0.85
			damage: 37,
			crit:   true,
		},
		{
			name: "raised defense",
			setup: func(_ *Combatant, defender *Combatant) {
				defender.ChangeStage(STAGE_DEFENSE, 2)
			},
			damage: 13,
		},
		{
			name: "crit ignores raised defense",
			setup: func(_ *Combatant, defender *Combatant) {
				defender.ChangeStage(STAGE_DEFENSE, 2)
			},
			source: func() *scriptedSource { return &scriptedSource{draws: []float64{0}} },
			damage: 24,
			crit:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attacker, defender, move := damageFixture()
			tt.setup(attacker, defender)

			rng := newRng(highSource{})
			if tt.source != nil {
				rng = newRng(tt.source())
			}

			result := Damage(attacker, defender, move, rng)
			assert.Equal(t, tt.damage, result.Damage)
			assert.Equal(t, tt.crit, result.Crit)
		})
	}
}
