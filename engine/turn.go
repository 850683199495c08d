package engine

// resolveTurn runs one full turn: start-of-turn status, ordering, both actions and end-of-turn effects.
// afterPlayerAction, when set, runs right after the player's slot in the order, even when stun or
// sleep cost the player its move.
//
// The player's stun is only re-checked when the opponent moves first. A player stunned by a faster
// opponent loses this turn's action; a slower opponent's stun waits for the next turn.
func (s *Session) resolveTurn(playerSlot int, afterPlayerAction func()) {
	s.turnPhase = TURN_RESOLVING_ORDER
	defer s.settleTurnPhase()

	playerSkipped := s.startOfTurnStatus(SIDE_PLAYER)
	opponentSlot, opponentMove := s.selectOpponentMove()

	playerSpeed := s.Active().effectiveSpeed()
	opponentSpeed := s.Opponent().effectiveSpeed()
	playerFirst := playerSpeed >= opponentSpeed

	turnLogger().V(1).Info("Turn order",
		"session", s.ID,
		"turn", s.turn,
		"playerSpeed", playerSpeed,
		"opponentSpeed", opponentSpeed,
		"playerFirst", playerFirst)

	playerAction := func(recheckStun bool) {
		active := s.Active()
		if recheckStun && active.Status == STATUS_STUN {
			s.narrate("%s is stunned and can't move!", active.Name)
			active.ClearStatus()
			s.statusChanged(SIDE_PLAYER)
			return
		}

		if playerSkipped {
			return
		}

		move := STRUGGLE
		if playerSlot != STRUGGLE_SLOT {
			move = active.Moves[playerSlot].Move
		}

		s.useMove(SIDE_PLAYER, playerSlot, move)
	}

	opponentAction := func() {
		if !s.startOfTurnStatus(SIDE_OPPONENT) {
			s.useMove(SIDE_OPPONENT, opponentSlot, opponentMove)
		}
	}

	if playerFirst {
		s.turnPhase = TURN_FIRST_ACTION
		playerAction(false)
		if s.settleFaints() {
			return
		}
		if afterPlayerAction != nil {
			afterPlayerAction()
		}

		s.turnPhase = TURN_SECOND_ACTION
		opponentAction()
		if s.settleFaints() {
			return
		}
	} else {
		s.turnPhase = TURN_FIRST_ACTION
		opponentAction()
		if s.settleFaints() {
			return
		}

		s.turnPhase = TURN_SECOND_ACTION
		playerAction(true)
		if s.settleFaints() {
			return
		}
		if afterPlayerAction != nil {
			afterPlayerAction()
		}
	}

	s.turnPhase = TURN_END_OF_TURN
	s.endOfTurn(SIDE_PLAYER)
	if s.settleFaints() {
		return
	}

	s.endOfTurn(SIDE_OPPONENT)
	if s.settleFaints() {
		return
	}

	s.turn++
	s.narrate("What will %s do?", s.Active().Name)
}

// opponentTurn lets the opponent act alone, as it does after a failed capture.
func (s *Session) opponentTurn() {
	s.turnPhase = TURN_FIRST_ACTION
	defer s.settleTurnPhase()

	slot, move := s.selectOpponentMove()
	if !s.startOfTurnStatus(SIDE_OPPONENT) {
		s.useMove(SIDE_OPPONENT, slot, move)
	}

	if !s.settleFaints() {
		s.narrate("What will %s do?", s.Active().Name)
	}
}

func (s *Session) settleTurnPhase() {
	if s.phase.Terminal() {
		s.turnPhase = TURN_ENDED
		return
	}

	s.turnPhase = TURN_IDLE
}

// startOfTurnStatus applies stun and sleep before a combatant acts. It returns true when the
// combatant loses its action.
func (s *Session) startOfTurnStatus(side int) bool {
	c, _ := s.combatants(side)

	switch c.Status {
	case STATUS_STUN:
		s.narrate("%s is stunned and can't move!", c.Name)
		c.ClearStatus()
		s.statusChanged(side)
		return true
	case STATUS_SLEEP:
		c.StatusDuration--
		if c.StatusDuration <= 0 {
			c.ClearStatus()
			s.narrate("%s woke up!", c.Name)
			s.statusChanged(side)
			return false
		}

		s.narrate("%s is fast asleep...", c.Name)
		s.statusChanged(side)
		return true
	case STATUS_NONE, STATUS_DOT:
	}

	return false
}

func (s *Session) endOfTurn(side int) {
	c, _ := s.combatants(side)

	if c.Status == STATUS_DOT {
		lost := c.Damage(c.MaxHP / 8)
		s.narrate("%s is hurt by its lingering wounds! (-%d)", c.Name, lost)
		s.healthChanged(side, -lost)

		c.StatusDuration--
		if c.StatusDuration <= 0 {
			c.ClearStatus()
			s.narrate("%s's wounds have healed.", c.Name)
		}
		s.statusChanged(side)
	}

	if c.Alive() && c.Ability.Is(ABILITY_SPEED_UP_EACH_TURN) {
		s.narrate("%s's %s!", c.Name, c.Ability.Name)
		s.changeStage(side, STAGE_SPEED, 1)
	}
}
