package engine

import (
	"github.com/samber/lo"
)

// selectOpponentMove picks uniformly among the opponent's moves with PP left, or Struggle.
func (s *Session) selectOpponentMove() (int, Move) {
	opponent := s.Opponent()
	usable := opponent.UsableMoves()

	if len(usable) == 0 {
		turnLogger().V(1).Info("Opponent has no PP left, struggling", "session", s.ID, "opponent", opponent.Name)
		return STRUGGLE_SLOT, STRUGGLE
	}

	slot := usable[randIntN(s.rng, len(usable))]
	return slot, opponent.Moves[slot].Move
}

const AUTOPILOT_HEAL_BELOW = 0.3

// CAPTURE_BELOW is the health fraction under which the autopilot throws a device at a wild opponent.
const CAPTURE_BELOW = 0.35

// BestPlayerAction picks a legal action for the player's side. It is the autopilot used by the
// simulator and by hosts that want a suggestion. device is the capture device to throw at weak wild
// opponents; pass "" to never capture.
func BestPlayerAction(s *Session, device string) Action {
	active := s.Active()

	if s.forceSwitch || !active.Alive() {
		if next, ok := s.nextLivingMember(); ok {
			return SwitchAction{Index: next}
		}
		return FleeAction{}
	}

	opponent := s.Opponent()
	if device != "" && !s.IsTrainerBattle() && opponent.HPFraction() < CAPTURE_BELOW {
		return CaptureAction{Device: device}
	}

	usable := active.UsableMoves()
	if len(usable) == 0 {
		if next, ok := s.nextLivingMember(); ok && len(s.ctx.Roster[next].UsableMoves()) > 0 {
			return SwitchAction{Index: next}
		}
		return MoveAction{Index: STRUGGLE_SLOT}
	}

	if active.HPFraction() < AUTOPILOT_HEAL_BELOW {
		heal, ok := lo.Find(usable, func(i int) bool { return isHeal(active.Moves[i].Move.Effect) })
		if ok {
			return MoveAction{Index: heal}
		}
	}

	best := bestAttackingMove(active, opponent, usable)
	action := MoveAction{Index: best}
	if active.Moves[best].Move.Effect == EFFECT_SWITCH_AFTER_USE {
		if next, ok := s.nextLivingMember(); ok {
			action.SwitchTo = next
		}
	}

	return action
}

// bestAttackingMove scores moves by expected damage, assuming no crits and no spread.
// Status moves only win when nothing else is usable.
func bestAttackingMove(attacker *Combatant, defender *Combatant, usable []int) int {
	best := usable[0]
	bestScore := -1.0

	for _, i := range usable {
		move := attacker.Moves[i].Move
		score := 0.0
		if !move.IsStatus() {
			stab := 1.0
			if move.Type == attacker.Type {
				stab = STAB_BONUS
			}
			score = float64(move.Power) * Effectiveness(move.Type, defender.Type) * stab * float64(move.Accuracy) / 100
		}

		if score > bestScore {
			best = i
			bestScore = score
		}
	}

	return best
}

func isHeal(effect MoveEffect) bool {
	switch effect {
	case EFFECT_HEAL_25, EFFECT_HEAL_30, EFFECT_HEAL_50, EFFECT_FULL_HEAL_SLEEP:
		return true
	}

	return false
}

// nextLivingMember is the first living roster member that is not active.
func (s *Session) nextLivingMember() (int, bool) {
	for i, member := range s.ctx.Roster {
		if i != s.activeIndex && member.Alive() {
			return i, true
		}
	}

	return -1, false
}
