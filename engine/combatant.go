package engine

import (
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Combatant is a live instance of a species. It is both a roster member between battles and
// the thing that fights in them; battle-only fields are reset on switch-in.
type Combatant struct {
	ID         uuid.UUID
	SpeciesKey string
	Name       string
	Type       ElementType
	Level      int

	XP        int
	XPToLevel int
	BaseStats BaseStats

	Nature  Nature
	Ability Ability

	MaxHP   int
	Attack  int
	Defense int
	Speed   int

	HP             int
	Status         StatusCondition
	StatusDuration int
	Stages         StatStages

	Moves     []MoveSlot
	Learnable []Move
}

// RecalculateStats derives MaxHP, Attack, Defense and Speed from base stats, level, nature and ability.
// It never heals; HP is only clamped so it can not exceed the new MaxHP.
func (c *Combatant) RecalculateStats() {
	c.MaxHP = scaleStat(c.BaseStats.HP, c.Level)
	c.Attack = scaleStat(c.BaseStats.Attack, c.Level)
	c.Defense = scaleStat(c.BaseStats.Defense, c.Level)
	c.Speed = scaleStat(c.BaseStats.Speed, c.Level)

	c.Attack = int(math.Floor(float64(c.Attack) * c.Nature.modifier(NATURE_STAT_ATTACK)))
	c.Defense = int(math.Floor(float64(c.Defense) * c.Nature.modifier(NATURE_STAT_DEFENSE)))
	c.Speed = int(math.Floor(float64(c.Speed) * c.Nature.modifier(NATURE_STAT_SPEED)))

	atkMod, defMod := c.Ability.statMultipliers()
	c.Attack = int(math.Floor(float64(c.Attack) * atkMod))
	c.Defense = int(math.Floor(float64(c.Defense) * defMod))

	c.HP = lo.Clamp(c.HP, 0, c.MaxHP)
}

func (c Combatant) Alive() bool {
	return c.HP > 0
}

func (c Combatant) FullHealth() bool {
	return c.HP == c.MaxHP
}

// HPFraction is current HP over MaxHP in [0, 1].
func (c Combatant) HPFraction() float64 {
	if c.MaxHP <= 0 {
		return 0
	}

	return float64(c.HP) / float64(c.MaxHP)
}

func (c Combatant) HasStatus() bool {
	return c.Status != STATUS_NONE
}

// Damage lowers HP by dmg, stopping at 0, and returns how much was actually lost.
func (c *Combatant) Damage(dmg int) int {
	if dmg < 0 {
		dmg = 0
	}

	newHP := max(0, c.HP-dmg)
	lost := c.HP - newHP
	c.HP = newHP

	return lost
}

// Heal raises HP by amount, stopping at MaxHP, and returns how much was actually gained.
func (c *Combatant) Heal(amount int) int {
	if amount < 0 {
		amount = 0
	}

	newHP := min(c.MaxHP, c.HP+amount)
	gained := newHP - c.HP
	c.HP = newHP

	return gained
}

// HealPerc heals floor(MaxHP * perc).
func (c *Combatant) HealPerc(perc float64) int {
	return c.Heal(int(math.Floor(float64(c.MaxHP) * perc)))
}

// ChangeStage moves a stat stage by change, clamped to [MIN_STAGE, MAX_STAGE].
// It returns the amount the stage actually moved.
func (c *Combatant) ChangeStage(stat StageStat, change int) int {
	old := c.Stages[stat]
	c.Stages[stat] = lo.Clamp(old+change, MIN_STAGE, MAX_STAGE)

	return c.Stages[stat] - old
}

func (c *Combatant) ResetStages() {
	c.Stages = StatStages{}
}

func (c *Combatant) SetStatus(status StatusCondition, duration int) {
	c.Status = status
	c.StatusDuration = duration
}

func (c *Combatant) ClearStatus() {
	c.Status = STATUS_NONE
	c.StatusDuration = 0
}

// RestorePP restores amount PP to the move at index, clamped to the move's max.
func (c *Combatant) RestorePP(index int, amount int) error {
	if index < 0 || index >= len(c.Moves) {
		return fmt.Errorf("%w: move index %d out of range for %s", ErrDataIntegrity, index, c.Name)
	}

	slot := &c.Moves[index]
	slot.CurrentPP = lo.Clamp(slot.CurrentPP+amount, 0, slot.MaxPP())

	return nil
}

func (c *Combatant) RestoreAllPP() {
	for i := range c.Moves {
		c.Moves[i].CurrentPP = c.Moves[i].MaxPP()
	}
}

// LearnMove appends move if there is room. A full move set needs an explicit replaceIndex;
// pass -1 when the move set is not full.
func (c *Combatant) LearnMove(move Move, replaceIndex int) error {
	if move.IsNil() {
		return fmt.Errorf("%w: cannot learn an empty move", ErrDataIntegrity)
	}

	if len(c.Moves) < MAX_MOVES {
		c.Moves = append(c.Moves, NewMoveSlot(move))
		return nil
	}

	if replaceIndex < 0 || replaceIndex >= len(c.Moves) {
		return fmt.Errorf("%w: %s already knows %d moves, choose one to forget", ErrIllegalAction, c.Name, MAX_MOVES)
	}

	c.Moves[replaceIndex] = NewMoveSlot(move)

	return nil
}

// UsableMoves returns the indexes of moves that still have PP.
func (c Combatant) UsableMoves() []int {
	indexes := make([]int, 0, len(c.Moves))
	for i, slot := range c.Moves {
		if slot.CurrentPP > 0 {
			indexes = append(indexes, i)
		}
	}

	return indexes
}

// effectiveSpeed is the speed used for turn order.
func (c Combatant) effectiveSpeed() float64 {
	speed := float64(c.Speed)
	if c.Stages[STAGE_SPEED] > 0 {
		speed *= SPEED_STAGE_BONUS
	}

	if c.Ability.Is(ABILITY_CRISIS_SPEED) && float64(c.HP) <= float64(c.MaxHP)*CRISIS_SPEED_THRESHOLD {
		speed *= c.Ability.Value
	}

	return speed
}
