package engine

const (
	ACCURACY_PENALTY = 0.7
	DRAIN_DIVISOR    = 2
	RECOIL_DIVISOR   = 3
)

// useMove runs the move pipeline for one side: PP, accuracy, then either the status handler
// or damage with its secondary effects.
func (s *Session) useMove(side int, slot int, move Move) {
	attacker, defender := s.combatants(side)
	target := otherSide(side)

	if slot != STRUGGLE_SLOT {
		pp := &attacker.Moves[slot].CurrentPP
		if side == SIDE_PLAYER {
			*pp--
		} else {
			*pp = max(0, *pp-2)
		}
	}

	s.narrate("%s used %s!", attacker.Name, move.Name)

	if !(move.IsStatus() && move.Effect.targetsSelf()) {
		accuracy := float64(move.Accuracy)
		if attacker.Stages[STAGE_ACCURACY] < 0 {
			accuracy *= ACCURACY_PENALTY
		}
		if defender.Stages[STAGE_EVASION] > 0 {
			accuracy *= ACCURACY_PENALTY
		}

		if s.rng.Float64()*100 >= accuracy {
			s.narrate("%s's attack missed!", attacker.Name)
			return
		}
	}

	if move.IsStatus() {
		s.statusMove(side, move)
		return
	}

	result := Damage(attacker, defender, move, s.rng)
	damage, endured := sturdyClamp(defender, result.Damage)
	if endured {
		s.narrate("%s endured the hit with %s!", defender.Name, defender.Ability.Name)
	}

	lost := defender.Damage(damage)
	s.healthChanged(target, -lost)

	if result.Crit {
		s.narrate("A critical hit!")
	}
	if result.Effectiveness > 1 {
		s.narrate("It's super effective!")
	} else if result.Effectiveness < 1 {
		s.narrate("It's not very effective...")
	}

	switch move.Effect {
	case EFFECT_STUN:
		if defender.Alive() && chance(s.rng, STUN_HIT_CHANCE) {
			defender.SetStatus(STATUS_STUN, 0)
			s.narrate("%s is stunned!", defender.Name)
			s.statusChanged(target)
		}
	case EFFECT_DOT:
		if defender.Alive() {
			defender.SetStatus(STATUS_DOT, DOT_DURATION)
			s.narrate("%s is suffering lingering damage!", defender.Name)
			s.statusChanged(target)
		}
	case EFFECT_DRAIN:
		healed := attacker.Heal(damage / DRAIN_DIVISOR)
		s.narrate("%s drained %s's health!", attacker.Name, defender.Name)
		s.healthChanged(side, healed)
	case EFFECT_NONE, EFFECT_HEAL_25, EFFECT_HEAL_30, EFFECT_HEAL_50, EFFECT_FULL_HEAL_SLEEP,
		EFFECT_BUFF_ATK, EFFECT_BUFF_DEF, EFFECT_BUFF_SPD, EFFECT_BUFF_EVA, EFFECT_BUFF_ALL,
		EFFECT_DEBUFF_ATK, EFFECT_DEBUFF_DEF, EFFECT_DEBUFF_ACC, EFFECT_REWARD_DOUBLE, EFFECT_SWITCH_AFTER_USE:
	}

	if move.Recoil {
		recoil := attacker.Damage(damage / RECOIL_DIVISOR)
		s.narrate("%s is damaged by recoil!", attacker.Name)
		s.healthChanged(side, -recoil)
	}

	if attacker.Ability.Is(ABILITY_MOXIE) && !defender.Alive() {
		s.narrate("%s's %s!", attacker.Name, attacker.Ability.Name)
		s.changeStage(side, STAGE_ATTACK, 1)
	}
}

func (s *Session) statusMove(side int, move Move) {
	user, foe := s.combatants(side)
	target := otherSide(side)

	switch move.Effect {
	case EFFECT_BUFF_ATK:
		s.changeStage(side, STAGE_ATTACK, 1)
	case EFFECT_BUFF_DEF:
		s.changeStage(side, STAGE_DEFENSE, 1)
	case EFFECT_BUFF_SPD:
		s.changeStage(side, STAGE_SPEED, 1)
	case EFFECT_BUFF_EVA:
		s.changeStage(side, STAGE_EVASION, 1)
	case EFFECT_BUFF_ALL:
		s.changeStage(side, STAGE_ATTACK, 1)
		s.changeStage(side, STAGE_DEFENSE, 1)
		s.changeStage(side, STAGE_SPEED, 1)
	case EFFECT_DEBUFF_ATK:
		s.changeStage(target, STAGE_ATTACK, -1)
	case EFFECT_DEBUFF_DEF:
		s.changeStage(target, STAGE_DEFENSE, -1)
	case EFFECT_DEBUFF_ACC:
		s.changeStage(target, STAGE_ACCURACY, -1)
	case EFFECT_HEAL_25:
		s.healFraction(side, 0.25)
	case EFFECT_HEAL_30:
		s.healFraction(side, 0.3)
	case EFFECT_HEAL_50:
		s.healFraction(side, 0.5)
	case EFFECT_FULL_HEAL_SLEEP:
		healed := user.Heal(user.MaxHP)
		user.SetStatus(STATUS_SLEEP, SLEEP_DURATION)
		s.narrate("%s fell asleep and restored its health!", user.Name)
		s.healthChanged(side, healed)
		s.statusChanged(side)
	case EFFECT_STUN:
		if foe.Alive() && chance(s.rng, STUN_STATUS_CHANCE) {
			foe.SetStatus(STATUS_STUN, 0)
			s.narrate("%s is stunned!", foe.Name)
			s.statusChanged(target)
		} else {
			s.narrate("But it failed!")
		}
	case EFFECT_REWARD_DOUBLE:
		if side == SIDE_PLAYER {
			s.ctx.RewardMultiplier = 2
			s.narrate("The next win will pay double!")
		} else {
			s.narrate("But nothing happened!")
		}
	case EFFECT_NONE, EFFECT_DOT, EFFECT_DRAIN, EFFECT_SWITCH_AFTER_USE:
		s.narrate("But nothing happened!")
	}
}

func (s *Session) healFraction(side int, fraction float64) {
	c, _ := s.combatants(side)
	healed := c.HealPerc(fraction)

	s.narrate("%s regained health! (+%d)", c.Name, healed)
	s.healthChanged(side, healed)
}

// changeStage moves a stat stage and narrates the result. An event is only emitted when the stage moved.
func (s *Session) changeStage(side int, stat StageStat, delta int) {
	c, _ := s.combatants(side)
	applied := c.ChangeStage(stat, delta)

	switch {
	case applied > 0:
		s.narrate("%s's %s rose!", c.Name, stat)
	case applied < 0:
		s.narrate("%s's %s fell!", c.Name, stat)
	case delta > 0:
		s.narrate("%s's %s won't go any higher!", c.Name, stat)
	default:
		s.narrate("%s's %s won't go any lower!", c.Name, stat)
	}

	if applied != 0 {
		s.emit(StatStageChangedEvent{Side: side, Stat: stat, Stage: c.Stages[stat], Delta: applied})
	}
}
