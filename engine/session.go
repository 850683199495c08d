package engine

import (
	"encoding"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

const (
	XP_PER_OPPONENT_LEVEL    = 15
	MONEY_PER_OPPONENT_LEVEL = 20
	TRAINER_MONEY_MULTIPLIER = 3
)

// SessionContext is the state that outlives a single encounter. A session only references it;
// rewards are reported through events and never applied to it, except the reward multiplier
// which a session consumes when it pays out.
type SessionContext struct {
	Roster           []*Combatant
	RewardMultiplier int
}

func (ctx *SessionContext) LivingMembers() []*Combatant {
	return lo.Filter(ctx.Roster, func(c *Combatant, _ int) bool { return c.Alive() })
}

// OpponentSpec describes who the player is fighting. Exactly one field must be set.
type OpponentSpec struct {
	Wild    *Combatant
	Trainer *Trainer
}

type sessionOptions struct {
	content *Content
	source  rand.Source
}

type SessionOption func(*sessionOptions)

func WithContent(content *Content) SessionOption {
	return func(o *sessionOptions) {
		o.content = content
	}
}

// WithRandSource replaces the session's PCG. Snapshots only carry random state for sources
// that implement encoding.BinaryMarshaler.
func WithRandSource(source rand.Source) SessionOption {
	return func(o *sessionOptions) {
		o.source = source
	}
}

func WithSeed(seed1 uint64, seed2 uint64) SessionOption {
	return func(o *sessionOptions) {
		o.source = rand.NewPCG(seed1, seed2)
	}
}

// Session is one encounter between the player's roster and an opponent.
// A Session is not safe for concurrent use.
type Session struct {
	ID      uuid.UUID
	ctx     *SessionContext
	content *Content
	source  rand.Source
	rng     *rand.Rand

	activeIndex   int
	opponents     []*Combatant
	opponentIndex int
	trainer       *Trainer

	phase          Phase
	turnPhase      TurnPhase
	turn           int
	forceSwitch    bool
	pendingCapture *Combatant

	events []Event
}

func resolveOptions(opts []SessionOption) sessionOptions {
	options := sessionOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	if options.content == nil {
		options.content = DefaultContent()
	}
	if options.source == nil {
		seed := CreateRandomStateSeed()
		options.source = &seed
	}

	return options
}

// NewSession sets up an encounter. startIndex falls back to the first living roster member
// when it points at a fainted one. Trainer parties are built here at the roster's average living
// level plus the trainer's level bonus.
func NewSession(ctx *SessionContext, opponent OpponentSpec, startIndex int, opts ...SessionOption) (*Session, error) {
	options := resolveOptions(opts)

	if ctx == nil || len(ctx.Roster) == 0 {
		return nil, fmt.Errorf("%w: a session needs a roster", ErrDataIntegrity)
	}
	if len(ctx.Roster) > ROSTER_CAPACITY {
		return nil, fmt.Errorf("%w: roster has %d members, capacity is %d", ErrDataIntegrity, len(ctx.Roster), ROSTER_CAPACITY)
	}
	if startIndex < 0 || startIndex >= len(ctx.Roster) {
		return nil, fmt.Errorf("%w: start index %d out of range", ErrDataIntegrity, startIndex)
	}
	if (opponent.Wild == nil) == (opponent.Trainer == nil) {
		return nil, fmt.Errorf("%w: exactly one of a wild opponent or a trainer is required", ErrDataIntegrity)
	}

	living := ctx.LivingMembers()
	if len(living) == 0 {
		return nil, fmt.Errorf("%w: every roster member has fainted", ErrIllegalAction)
	}

	if !ctx.Roster[startIndex].Alive() {
		startIndex = lo.IndexOf(ctx.Roster, living[0])
	}

	if ctx.RewardMultiplier < 1 {
		ctx.RewardMultiplier = 1
	}

	s := &Session{
		ID:          uuid.New(),
		ctx:         ctx,
		content:     options.content,
		source:      options.source,
		rng:         rand.New(options.source),
		activeIndex: startIndex,
		phase:       PHASE_AWAITING_SETUP,
		turnPhase:   TURN_IDLE,
		turn:        1,
	}

	if opponent.Wild != nil {
		if !opponent.Wild.Alive() {
			return nil, fmt.Errorf("%w: wild opponent %s has no HP", ErrDataIntegrity, opponent.Wild.Name)
		}
		s.opponents = []*Combatant{opponent.Wild}
	} else {
		trainer := *opponent.Trainer
		s.trainer = &trainer

		party, err := s.buildTrainerParty(living)
		if err != nil {
			return nil, err
		}
		s.opponents = party
	}

	sessionLogger().Info("Created session",
		"session", s.ID,
		"trainer", s.IsTrainerBattle(),
		"opponent", s.Opponent().Name,
		"opponentLevel", s.Opponent().Level,
		"active", s.Active().Name)

	return s, nil
}

func (s *Session) buildTrainerParty(living []*Combatant) ([]*Combatant, error) {
	if len(s.trainer.Party) == 0 {
		return nil, fmt.Errorf("%w: trainer %q has an empty party", ErrDataIntegrity, s.trainer.Key)
	}

	avgLevel := lo.SumBy(living, func(c *Combatant) int { return c.Level }) / len(living)
	level := max(1, avgLevel+s.trainer.LevelBonus)

	party := make([]*Combatant, 0, len(s.trainer.Party))
	for _, key := range s.trainer.Party {
		member, err := NewCombatant(s.content, key, level, s.rng)
		if err != nil {
			return nil, fmt.Errorf("trainer %q: %w", s.trainer.Key, err)
		}
		party = append(party, member)
	}

	return party, nil
}

func (s *Session) Context() *SessionContext {
	return s.ctx
}

func (s *Session) Content() *Content {
	return s.content
}

func (s *Session) Active() *Combatant {
	return s.ctx.Roster[s.activeIndex]
}

func (s *Session) ActiveIndex() int {
	return s.activeIndex
}

func (s *Session) Opponent() *Combatant {
	return s.opponents[s.opponentIndex]
}

func (s *Session) OpponentIndex() int {
	return s.opponentIndex
}

func (s *Session) Opponents() []*Combatant {
	return s.opponents
}

// Trainer is nil for wild encounters.
func (s *Session) Trainer() *Trainer {
	return s.trainer
}

func (s *Session) IsTrainerBattle() bool {
	return s.trainer != nil
}

func (s *Session) Phase() Phase {
	return s.phase
}

func (s *Session) TurnPhase() TurnPhase {
	return s.turnPhase
}

func (s *Session) Turn() int {
	return s.turn
}

func (s *Session) ForceSwitchPending() bool {
	return s.forceSwitch
}

// PendingCapture is the captured combatant waiting on ResolveRosterFull, or nil.
func (s *Session) PendingCapture() *Combatant {
	return s.pendingCapture
}

func (s *Session) inFlight() bool {
	return s.turnPhase != TURN_IDLE && s.turnPhase != TURN_ENDED
}

func (s *Session) emit(events ...Event) {
	s.events = append(s.events, events...)
}

func (s *Session) narrate(format string, args ...any) {
	s.emit(narrate(format, args...))
}

func (s *Session) resultKind() int {
	switch {
	case s.pendingCapture != nil:
		return RESULT_ROSTERFULL
	case s.phase.Terminal():
		return RESULT_ENDED
	case s.forceSwitch:
		return RESULT_FORCESWITCH
	}

	return RESULT_RESOLVED
}

// flush hands every event produced since the last call to the caller.
func (s *Session) flush() TurnResult {
	events := s.events
	s.events = nil

	return TurnResult{Kind: s.resultKind(), Outcome: s.phase, Events: events}
}

// reject explains a refused action. Nothing has been mutated when it is called.
func (s *Session) reject(sentinel error, format string, args ...any) (TurnResult, error) {
	msg := fmt.Sprintf(format, args...)
	sessionLogger().V(1).Info("Rejected action", "session", s.ID, "reason", msg)

	return TurnResult{
		Kind:    s.resultKind(),
		Outcome: s.phase,
		Events:  []Event{NarrationEvent{Text: msg}},
	}, fmt.Errorf("%w: %s", sentinel, msg)
}

func (s *Session) sideIndex(side int) int {
	if side == SIDE_PLAYER {
		return s.activeIndex
	}

	return s.opponentIndex
}

// combatants returns the combatant for side followed by the one it faces.
func (s *Session) combatants(side int) (*Combatant, *Combatant) {
	if side == SIDE_PLAYER {
		return s.Active(), s.Opponent()
	}

	return s.Opponent(), s.Active()
}

func otherSide(side int) int {
	if side == SIDE_PLAYER {
		return SIDE_OPPONENT
	}

	return SIDE_PLAYER
}

func (s *Session) healthChanged(side int, delta int) {
	c, _ := s.combatants(side)
	s.emit(HealthChangedEvent{Side: side, Index: s.sideIndex(side), HP: c.HP, MaxHP: c.MaxHP, Delta: delta})
}

func (s *Session) statusChanged(side int) {
	c, _ := s.combatants(side)
	s.emit(StatusChangedEvent{Side: side, Index: s.sideIndex(side), Status: c.Status, Duration: c.StatusDuration})
}

// Start announces both sides and applies entry abilities, player first.
// Calling it again after the encounter has started does nothing.
func (s *Session) Start() TurnResult {
	if s.phase != PHASE_AWAITING_SETUP {
		return s.flush()
	}

	for _, member := range s.ctx.Roster {
		member.ResetStages()
	}
	for _, opponent := range s.opponents {
		opponent.ResetStages()
	}

	if s.IsTrainerBattle() {
		s.narrate("%s wants to battle!", s.trainer.Name)
		s.narrate("%s sent out %s!", s.trainer.Name, s.Opponent().Name)
	} else {
		s.narrate("A wild %s appeared!", s.Opponent().Name)
	}
	s.emit(ActiveChangedEvent{Side: SIDE_OPPONENT, Index: s.opponentIndex})

	s.narrate("Go, %s!", s.Active().Name)
	s.emit(ActiveChangedEvent{Side: SIDE_PLAYER, Index: s.activeIndex})

	s.applyEntryAbility(SIDE_PLAYER)
	s.applyEntryAbility(SIDE_OPPONENT)

	s.phase = PHASE_IN_PROGRESS
	s.narrate("What will %s do?", s.Active().Name)

	return s.flush()
}

// Submit resolves one player decision and returns every event it produced.
// Illegal actions return an error wrapping ErrIllegalAction, a single narration explaining why,
// and leave the session untouched.
func (s *Session) Submit(action Action) (TurnResult, error) {
	switch {
	case s.phase == PHASE_AWAITING_SETUP:
		return s.reject(ErrIllegalAction, "The battle hasn't started yet!")
	case s.pendingCapture != nil:
		return s.reject(ErrIllegalAction, "Decide what to do with %s first!", s.pendingCapture.Name)
	case s.phase.Terminal():
		return s.reject(ErrIllegalAction, "The battle is already over!")
	case s.inFlight():
		return s.reject(ErrIllegalAction, "Wait for the turn to finish!")
	}

	if _, isSwitch := action.(SwitchAction); s.forceSwitch && !isSwitch {
		return s.reject(ErrIllegalAction, "%s can't battle! Choose another member!", s.Active().Name)
	}

	switch a := action.(type) {
	case MoveAction:
		return s.submitMove(a)
	case SwitchAction:
		return s.submitSwitch(a)
	case CaptureAction:
		return s.submitCapture(a)
	case FleeAction:
		return s.submitFlee()
	}

	return s.reject(ErrIllegalAction, "Unknown action %T", action)
}

func (s *Session) submitMove(action MoveAction) (TurnResult, error) {
	active := s.Active()
	if action.Index == STRUGGLE_SLOT {
		if len(active.UsableMoves()) > 0 {
			return s.reject(ErrIllegalAction, "%s still has moves it can use!", active.Name)
		}

		s.resolveTurn(STRUGGLE_SLOT, nil)
		return s.flush(), nil
	}

	if action.Index < 0 || action.Index >= len(active.Moves) {
		return s.reject(ErrIllegalAction, "%s doesn't know a move in slot %d!", active.Name, action.Index)
	}

	slot := active.Moves[action.Index]
	if slot.CurrentPP <= 0 {
		return s.reject(ErrIllegalAction, "There's no PP left for %s!", slot.Move.Name)
	}

	var afterPlayerAction func()
	if slot.Move.Effect == EFFECT_SWITCH_AFTER_USE && s.canSwitch() {
		target := action.SwitchTo
		if target < 0 || target >= len(s.ctx.Roster) || target == s.activeIndex || !s.ctx.Roster[target].Alive() {
			return s.reject(ErrIllegalAction, "%s needs a healthy member to switch to!", slot.Move.Name)
		}

		afterPlayerAction = func() {
			if target == s.activeIndex || !s.ctx.Roster[target].Alive() {
				return
			}
			s.performSwitch(target)
		}
	}

	s.resolveTurn(action.Index, afterPlayerAction)

	return s.flush(), nil
}

// canSwitch reports whether any roster member other than the active one can battle.
func (s *Session) canSwitch() bool {
	return len(lo.Filter(s.ctx.Roster, func(c *Combatant, i int) bool { return i != s.activeIndex && c.Alive() })) > 0
}

func (s *Session) submitSwitch(action SwitchAction) (TurnResult, error) {
	if action.Index < 0 || action.Index >= len(s.ctx.Roster) {
		return s.reject(ErrIllegalAction, "There is no roster member %d!", action.Index)
	}
	if action.Index == s.activeIndex {
		return s.reject(ErrIllegalAction, "%s is already in battle!", s.Active().Name)
	}

	target := s.ctx.Roster[action.Index]
	if !target.Alive() {
		return s.reject(ErrIllegalAction, "%s has no energy left to battle!", target.Name)
	}

	s.performSwitch(action.Index)
	s.forceSwitch = false
	s.narrate("What will %s do?", s.Active().Name)

	return s.flush(), nil
}

// performSwitch brings a roster member in, resets its stages and applies its entry ability.
func (s *Session) performSwitch(index int) {
	outgoing := s.Active()
	s.activeIndex = index
	incoming := s.Active()

	if outgoing.Alive() {
		s.narrate("%s, come back! Go, %s!", outgoing.Name, incoming.Name)
	} else {
		s.narrate("Go, %s!", incoming.Name)
	}

	incoming.ResetStages()
	s.emit(ActiveChangedEvent{Side: SIDE_PLAYER, Index: index})
	s.applyEntryAbility(SIDE_PLAYER)

	sessionLogger().V(1).Info("Switched", "session", s.ID, "out", outgoing.Name, "in", incoming.Name)
}

func (s *Session) submitFlee() (TurnResult, error) {
	if s.IsTrainerBattle() {
		return s.reject(ErrIllegalAction, "There's no running from a trainer battle!")
	}

	s.narrate("Got away safely!")
	s.end(PHASE_FLED)

	return s.flush(), nil
}

// ResolveRosterFull settles a capture made with a full roster. swapIndex -1 releases the
// captured combatant; any roster index releases that member and keeps the capture in its place.
func (s *Session) ResolveRosterFull(swapIndex int) (TurnResult, error) {
	captured := s.pendingCapture
	if captured == nil {
		return s.reject(ErrIllegalAction, "There is no captured combatant waiting for a spot!")
	}
	if swapIndex < -1 || swapIndex >= len(s.ctx.Roster) {
		return s.reject(ErrIllegalAction, "There is no roster member %d!", swapIndex)
	}

	if swapIndex == -1 {
		s.narrate("%s was released.", captured.Name)
	} else {
		released := s.ctx.Roster[swapIndex]
		s.ctx.Roster[swapIndex] = captured
		s.narrate("%s was released and %s joined the roster!", released.Name, captured.Name)
	}

	s.pendingCapture = nil
	s.emit(EncounterEndedEvent{Outcome: s.phase})

	return s.flush(), nil
}

func (s *Session) end(outcome Phase) {
	s.phase = outcome
	s.turnPhase = TURN_ENDED
	s.forceSwitch = false
	s.emit(EncounterEndedEvent{Outcome: outcome})

	sessionLogger().Info("Encounter ended", "session", s.ID, "outcome", outcome.String(), "turn", s.turn)
}

func (s *Session) applyEntryAbility(side int) {
	entering, _ := s.combatants(side)

	switch entering.Ability.Effect {
	case ABILITY_ON_ENTRY_DEBUFF_ATK:
		s.narrate("%s's %s!", entering.Name, entering.Ability.Name)
		s.changeStage(otherSide(side), STAGE_ATTACK, -1)
	case ABILITY_NONE, ABILITY_DEF_BOOST, ABILITY_ATK_BOOST, ABILITY_STAB_BOOST, ABILITY_SPEED_UP_EACH_TURN,
		ABILITY_DAMAGE_REDUCE, ABILITY_GUTS, ABILITY_MOXIE, ABILITY_STURDY, ABILITY_CRIT_BOOST,
		ABILITY_CRISIS_SPEED, ABILITY_CRISIS_ATTACK:
	}
}

// settleFaints handles any knockouts after an action or end-of-turn effect.
// It returns true when the rest of the turn must be skipped.
func (s *Session) settleFaints() bool {
	opponentDown := !s.Opponent().Alive()
	playerDown := !s.Active().Alive()

	if !opponentDown && !playerDown {
		return false
	}

	if opponentDown {
		s.handleOpponentFaint()
	}

	if playerDown {
		if s.phase.Terminal() {
			s.narrate("%s fainted!", s.Active().Name)
			s.emit(FaintEvent{Side: SIDE_PLAYER, Index: s.activeIndex})
		} else {
			s.handlePlayerFaint()
		}
	}

	return true
}

func (s *Session) handleOpponentFaint() {
	fainted := s.Opponent()
	if s.IsTrainerBattle() {
		s.narrate("%s's %s fainted!", s.trainer.Name, fainted.Name)
	} else {
		s.narrate("The wild %s fainted!", fainted.Name)
	}
	s.emit(FaintEvent{Side: SIDE_OPPONENT, Index: s.opponentIndex})

	if s.IsTrainerBattle() && s.opponentIndex < len(s.opponents)-1 {
		s.opponentIndex++
		next := s.Opponent()
		next.ResetStages()

		s.narrate("%s sent out %s!", s.trainer.Name, next.Name)
		s.emit(ActiveChangedEvent{Side: SIDE_OPPONENT, Index: s.opponentIndex})
		s.applyEntryAbility(SIDE_OPPONENT)
		return
	}

	s.payOut(fainted)
	s.end(PHASE_WON)
}

func (s *Session) handlePlayerFaint() {
	s.narrate("%s fainted!", s.Active().Name)
	s.emit(FaintEvent{Side: SIDE_PLAYER, Index: s.activeIndex})

	if len(s.ctx.LivingMembers()) > 0 {
		s.forceSwitch = true
		s.narrate("Choose another member to send out!")
		s.emit(ForceSwitchEvent{})
		return
	}

	s.narrate("You have no one left to battle... You blacked out!")
	s.end(PHASE_LOST)
}

// payOut distributes XP across the living roster and reports the money reward.
// The active member gets the full amount and every other living member half.
func (s *Session) payOut(defeated *Combatant) {
	baseXP := defeated.Level * XP_PER_OPPONENT_LEVEL

	for i, member := range s.ctx.Roster {
		if !member.Alive() {
			continue
		}

		xp := baseXP
		if i != s.activeIndex {
			xp = baseXP / 2
		}

		result := member.GainExperience(xp, s.rng)
		if !result.LeveledUp() {
			continue
		}

		s.narrate("%s grew to level %d!", member.Name, result.Level)
		for _, move := range result.OfferedMoves {
			s.narrate("%s wants to learn %s!", member.Name, move.Name)
		}
		s.emit(LevelUpEvent{RosterIndex: i, Level: result.Level, Gains: result.Gains, NewMoves: result.OfferedMoves})
	}

	multiplier := max(1, s.ctx.RewardMultiplier)
	s.ctx.RewardMultiplier = 1

	money := defeated.Level * MONEY_PER_OPPONENT_LEVEL * multiplier
	if s.IsTrainerBattle() {
		money *= TRAINER_MONEY_MULTIPLIER
	}

	s.narrate("Gained %d XP and ₱%d!", baseXP, money)
	s.emit(RewardEvent{Money: money, XP: baseXP})
}

// randomState returns the marshalled random source, or nil when the source can not be marshalled.
func (s *Session) randomState() ([]byte, error) {
	marshaler, ok := s.source.(encoding.BinaryMarshaler)
	if !ok {
		return nil, nil
	}

	state, err := marshaler.MarshalBinary()
	if err != nil {
		return nil, errors.Join(ErrDataIntegrity, err)
	}

	return state, nil
}
