package engine

const MAX_SHAKES = 3

// CaptureRate is the chance a device with the given multiplier captures an opponent at hpFraction health.
func CaptureRate(hpFraction float64, multiplier float64) float64 {
	return ((1-hpFraction)*0.5 + 0.1) * multiplier
}

func (s *Session) submitCapture(action CaptureAction) (TurnResult, error) {
	if s.IsTrainerBattle() {
		return s.reject(ErrIllegalAction, "You can't capture a trainer's combatant!")
	}

	device, err := s.content.GetDevice(action.Device)
	if err != nil {
		return s.reject(ErrDataIntegrity, "There is no capture device called %q!", action.Device)
	}

	target := s.Opponent()
	if !target.Alive() {
		return s.reject(ErrIllegalAction, "%s can't be captured now!", target.Name)
	}

	s.turnPhase = TURN_FIRST_ACTION
	s.narrate("You threw a %s!", device.Name)

	rate := CaptureRate(target.HPFraction(), device.Multiplier)
	shakes := min(MAX_SHAKES, 1+randIntN(s.rng, MAX_SHAKES))
	success := chance(s.rng, rate)

	sessionLogger().V(1).Info("Capture attempt",
		"session", s.ID,
		"device", device.Key,
		"hpFraction", target.HPFraction(),
		"rate", rate,
		"shakes", shakes,
		"success", success)

	s.emit(CaptureEvent{Device: device.Key, Success: success, Shakes: shakes})

	if !success {
		s.narrate("Oh no! %s broke free!", target.Name)
		s.opponentTurn()
		return s.flush(), nil
	}

	// undo anything applied for difficulty
	target.RecalculateStats()
	target.HP = target.MaxHP
	target.RestoreAllPP()
	target.ResetStages()
	target.ClearStatus()

	s.narrate("Gotcha! %s was captured!", target.Name)
	s.phase = PHASE_CAPTURED
	s.turnPhase = TURN_ENDED
	s.forceSwitch = false

	if len(s.ctx.Roster) < ROSTER_CAPACITY {
		s.ctx.Roster = append(s.ctx.Roster, target)
		s.narrate("%s joined the roster!", target.Name)
		s.emit(EncounterEndedEvent{Outcome: s.phase})
	} else {
		s.pendingCapture = target
		s.narrate("The roster is full! Choose a member to release, or let %s go.", target.Name)
		s.emit(RosterFullEvent{Captured: target.Name})
	}

	sessionLogger().Info("Encounter ended", "session", s.ID, "outcome", s.phase.String(), "turn", s.turn)

	return s.flush(), nil
}
