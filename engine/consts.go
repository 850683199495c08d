package engine

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	SIDE_PLAYER = iota + 1
	SIDE_OPPONENT
)

const (
	ROSTER_CAPACITY = 6
	MAX_MOVES       = 4
	STARTING_MOVES  = 3

	MAX_STAGE = 3
	MIN_STAGE = -3
)

type ElementType int

const (
	TYPE_NORMAL ElementType = iota
	TYPE_PHYSICS
	TYPE_CHEMISTRY
	TYPE_ENGINEERING
	TYPE_BIOLOGY
	TYPE_EARTH
	TYPE_MATH
	TYPE_INFO
)

var TYPE_NAME_MAP = map[string]ElementType{
	"normal":      TYPE_NORMAL,
	"physics":     TYPE_PHYSICS,
	"chemistry":   TYPE_CHEMISTRY,
	"engineering": TYPE_ENGINEERING,
	"biology":     TYPE_BIOLOGY,
	"earth":       TYPE_EARTH,
	"math":        TYPE_MATH,
	"info":        TYPE_INFO,
}

func (t ElementType) Key() string {
	for name, elementType := range TYPE_NAME_MAP {
		if elementType == t {
			return name
		}
	}

	return "unknown"
}

func (t ElementType) String() string {
	return cases.Title(language.English).String(t.Key())
}

type StatusCondition int

const (
	STATUS_NONE StatusCondition = iota
	STATUS_STUN
	STATUS_SLEEP
	// damage-over-time
	STATUS_DOT
)

func (s StatusCondition) String() string {
	switch s {
	case STATUS_NONE:
		return "none"
	case STATUS_STUN:
		return "stunned"
	case STATUS_SLEEP:
		return "asleep"
	case STATUS_DOT:
		return "hurting"
	}

	return "unknown"
}

const (
	DOT_DURATION       = 3
	SLEEP_DURATION     = 2
	STUN_HIT_CHANCE    = 0.3
	STUN_STATUS_CHANCE = 0.7
)

// StageStat indexes a combatant's StatStages.
type StageStat int

const (
	STAGE_ATTACK StageStat = iota
	STAGE_DEFENSE
	STAGE_SPEED
	STAGE_ACCURACY
	STAGE_EVASION

	stageStatCount
)

func (s StageStat) String() string {
	switch s {
	case STAGE_ATTACK:
		return "attack"
	case STAGE_DEFENSE:
		return "defense"
	case STAGE_SPEED:
		return "speed"
	case STAGE_ACCURACY:
		return "accuracy"
	case STAGE_EVASION:
		return "evasion"
	}

	return "unknown"
}

type AbilityEffect int

const (
	ABILITY_NONE AbilityEffect = iota
	ABILITY_DEF_BOOST
	ABILITY_ON_ENTRY_DEBUFF_ATK
	ABILITY_ATK_BOOST
	ABILITY_STAB_BOOST
	ABILITY_SPEED_UP_EACH_TURN
	ABILITY_DAMAGE_REDUCE
	ABILITY_GUTS
	ABILITY_MOXIE
	ABILITY_STURDY
	ABILITY_CRIT_BOOST
	ABILITY_CRISIS_SPEED
	ABILITY_CRISIS_ATTACK
)

var ABILITY_EFFECT_MAP = map[string]AbilityEffect{
	"def_boost":           ABILITY_DEF_BOOST,
	"on_entry_debuff_atk": ABILITY_ON_ENTRY_DEBUFF_ATK,
	"atk_boost":           ABILITY_ATK_BOOST,
	"stab_boost":          ABILITY_STAB_BOOST,
	"speed_up_each_turn":  ABILITY_SPEED_UP_EACH_TURN,
	"damage_reduce":       ABILITY_DAMAGE_REDUCE,
	"guts":                ABILITY_GUTS,
	"moxie":               ABILITY_MOXIE,
	"sturdy":              ABILITY_STURDY,
	"crit_boost":          ABILITY_CRIT_BOOST,
	"crisis_speed":        ABILITY_CRISIS_SPEED,
	"crisis_attack":       ABILITY_CRISIS_ATTACK,
}

const (
	CRISIS_SPEED_THRESHOLD  = 0.5
	CRISIS_ATTACK_THRESHOLD = 0.3
)

type MoveEffect int

const (
	EFFECT_NONE MoveEffect = iota
	EFFECT_STUN
	EFFECT_DOT
	EFFECT_DRAIN
	EFFECT_HEAL_25
	EFFECT_HEAL_30
	EFFECT_HEAL_50
	EFFECT_FULL_HEAL_SLEEP
	EFFECT_BUFF_ATK
	EFFECT_BUFF_DEF
	EFFECT_BUFF_SPD
	EFFECT_BUFF_EVA
	EFFECT_BUFF_ALL
	EFFECT_DEBUFF_ATK
	EFFECT_DEBUFF_DEF
	EFFECT_DEBUFF_ACC
	EFFECT_REWARD_DOUBLE
	EFFECT_SWITCH_AFTER_USE
)

var MOVE_EFFECT_MAP = map[string]MoveEffect{
	"":                EFFECT_NONE,
	"stun":            EFFECT_STUN,
	"dot":             EFFECT_DOT,
	"drain":           EFFECT_DRAIN,
	"heal":            EFFECT_HEAL_25,
	"heal_30":         EFFECT_HEAL_30,
	"heal_50":         EFFECT_HEAL_50,
	"full_heal_sleep": EFFECT_FULL_HEAL_SLEEP,
	"buff_atk":        EFFECT_BUFF_ATK,
	"buff_def":        EFFECT_BUFF_DEF,
	"buff_spd":        EFFECT_BUFF_SPD,
	"buff_eva":        EFFECT_BUFF_EVA,
	"buff_all":        EFFECT_BUFF_ALL,
	"debuff_atk":      EFFECT_DEBUFF_ATK,
	"debuff_def":      EFFECT_DEBUFF_DEF,
	"debuff_acc":      EFFECT_DEBUFF_ACC,
	"money":           EFFECT_REWARD_DOUBLE,
	"uturn":           EFFECT_SWITCH_AFTER_USE,
}

// targetsSelf reports whether a move with this effect skips the accuracy check.
func (e MoveEffect) targetsSelf() bool {
	switch e {
	case EFFECT_BUFF_ATK, EFFECT_BUFF_DEF, EFFECT_BUFF_SPD, EFFECT_BUFF_EVA, EFFECT_BUFF_ALL,
		EFFECT_HEAL_25, EFFECT_HEAL_30, EFFECT_HEAL_50, EFFECT_FULL_HEAL_SLEEP:
		return true
	}

	return false
}

// Phase is the state of a battle session. The terminal phases are the encounter outcomes.
type Phase int

const (
	PHASE_AWAITING_SETUP Phase = iota
	PHASE_IN_PROGRESS
	PHASE_WON
	PHASE_LOST
	PHASE_FLED
	PHASE_CAPTURED
)

func (p Phase) Terminal() bool {
	return p >= PHASE_WON
}

func (p Phase) String() string {
	switch p {
	case PHASE_AWAITING_SETUP:
		return "awaiting-setup"
	case PHASE_IN_PROGRESS:
		return "in-progress"
	case PHASE_WON:
		return "won"
	case PHASE_LOST:
		return "lost"
	case PHASE_FLED:
		return "fled"
	case PHASE_CAPTURED:
		return "captured"
	}

	return "unknown"
}

type TurnPhase int

const (
	TURN_IDLE TurnPhase = iota
	TURN_RESOLVING_ORDER
	TURN_FIRST_ACTION
	TURN_SECOND_ACTION
	TURN_END_OF_TURN
	TURN_ENDED
)
