package engine

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"
)

type MoveSlotSnapshot struct {
	Move string `json:"move"`
	PP   int    `json:"pp"`
}

// CombatantSnapshot is a plain copy of a combatant. Table entries are stored by key and derived stats
// are stored as they are, so difficulty bonuses applied on top of RecalculateStats survive a restore.
type CombatantSnapshot struct {
	ID             uuid.UUID          `json:"id"`
	Species        string             `json:"species"`
	Name           string             `json:"name"`
	Level          int                `json:"level"`
	XP             int                `json:"xp"`
	XPToLevel      int                `json:"xpToLevel"`
	BaseStats      BaseStats          `json:"baseStats"`
	Nature         string             `json:"nature"`
	Ability        string             `json:"ability,omitempty"`
	MaxHP          int                `json:"maxHp"`
	Attack         int                `json:"attack"`
	Defense        int                `json:"defense"`
	Speed          int                `json:"speed"`
	HP             int                `json:"hp"`
	Status         StatusCondition    `json:"status"`
	StatusDuration int                `json:"statusDuration"`
	Stages         StatStages         `json:"stages"`
	Moves          []MoveSlotSnapshot `json:"moves"`
	Learnable      []string           `json:"learnable,omitempty"`
}

func SnapshotCombatant(c *Combatant) CombatantSnapshot {
	snap := CombatantSnapshot{
		ID:             c.ID,
		Species:        c.SpeciesKey,
		Name:           c.Name,
		Level:          c.Level,
		XP:             c.XP,
		XPToLevel:      c.XPToLevel,
		BaseStats:      c.BaseStats,
		Nature:         c.Nature.Key,
		Ability:        c.Ability.Key,
		MaxHP:          c.MaxHP,
		Attack:         c.Attack,
		Defense:        c.Defense,
		Speed:          c.Speed,
		HP:             c.HP,
		Status:         c.Status,
		StatusDuration: c.StatusDuration,
		Stages:         c.Stages,
		Moves:          make([]MoveSlotSnapshot, 0, len(c.Moves)),
	}

	for _, slot := range c.Moves {
		snap.Moves = append(snap.Moves, MoveSlotSnapshot{Move: slot.Move.Key, PP: slot.CurrentPP})
	}
	for _, move := range c.Learnable {
		snap.Learnable = append(snap.Learnable, move.Key)
	}

	return snap
}

// Restore rebuilds the combatant, resolving every key against content.
func (snap CombatantSnapshot) Restore(content *Content) (*Combatant, error) {
	species, err := content.GetSpecies(snap.Species)
	if err != nil {
		return nil, err
	}

	nature := NATURE_HARDY
	if snap.Nature != "" && snap.Nature != NATURE_HARDY.Key {
		if nature, err = content.GetNature(snap.Nature); err != nil {
			return nil, err
		}
	}

	var ability Ability
	if snap.Ability != "" {
		if ability, err = content.GetAbility(snap.Ability); err != nil {
			return nil, err
		}
	}

	if len(snap.Moves) > MAX_MOVES {
		return nil, fmt.Errorf("%w: %s has %d moves", ErrDataIntegrity, snap.Name, len(snap.Moves))
	}
	if snap.Level < 1 || snap.MaxHP <= 0 || snap.HP < 0 || snap.HP > snap.MaxHP {
		return nil, fmt.Errorf("%w: %s has invalid level or health", ErrDataIntegrity, snap.Name)
	}
	if snap.Status < STATUS_NONE || snap.Status > STATUS_DOT || snap.StatusDuration < 0 {
		return nil, fmt.Errorf("%w: %s has invalid status %d", ErrDataIntegrity, snap.Name, snap.Status)
	}
	for stat, stage := range snap.Stages {
		if stage < MIN_STAGE || stage > MAX_STAGE {
			return nil, fmt.Errorf("%w: %s has %s stage %d", ErrDataIntegrity, snap.Name, StageStat(stat), stage)
		}
	}

	c := &Combatant{
		ID:             snap.ID,
		SpeciesKey:     species.Key,
		Name:           snap.Name,
		Type:           species.Type,
		Level:          snap.Level,
		XP:             snap.XP,
		XPToLevel:      snap.XPToLevel,
		BaseStats:      snap.BaseStats,
		Nature:         nature,
		Ability:        ability,
		MaxHP:          snap.MaxHP,
		Attack:         snap.Attack,
		Defense:        snap.Defense,
		Speed:          snap.Speed,
		HP:             snap.HP,
		Status:         snap.Status,
		StatusDuration: snap.StatusDuration,
		Stages:         snap.Stages,
		Moves:          make([]MoveSlot, 0, len(snap.Moves)),
	}

	for _, slot := range snap.Moves {
		move, err := content.GetMove(slot.Move)
		if err != nil {
			return nil, err
		}
		if slot.PP < 0 || slot.PP > move.PP {
			return nil, fmt.Errorf("%w: %s has %d PP for %s", ErrDataIntegrity, snap.Name, slot.PP, move.Key)
		}
		c.Moves = append(c.Moves, MoveSlot{Move: move, CurrentPP: slot.PP})
	}
	for _, key := range snap.Learnable {
		move, err := content.GetMove(key)
		if err != nil {
			return nil, err
		}
		c.Learnable = append(c.Learnable, move)
	}

	return c, nil
}

// SessionSnapshot holds everything needed to resume a session between turns, including the
// marshalled random source so the restored session draws the same numbers.
type SessionSnapshot struct {
	ID               uuid.UUID           `json:"id"`
	Roster           []CombatantSnapshot `json:"roster"`
	RewardMultiplier int                 `json:"rewardMultiplier"`
	ActiveIndex      int                 `json:"activeIndex"`
	Opponents        []CombatantSnapshot `json:"opponents"`
	OpponentIndex    int                 `json:"opponentIndex"`
	Trainer          string              `json:"trainer,omitempty"`
	Phase            Phase               `json:"phase"`
	Turn             int                 `json:"turn"`
	ForceSwitch      bool                `json:"forceSwitch"`
	PendingCapture   *CombatantSnapshot  `json:"pendingCapture,omitempty"`
	RandomState      []byte              `json:"randomState,omitempty"`
}

func snapshotAll(combatants []*Combatant) []CombatantSnapshot {
	snaps := make([]CombatantSnapshot, 0, len(combatants))
	for _, c := range combatants {
		snaps = append(snaps, SnapshotCombatant(c))
	}

	return snaps
}

func restoreAll(content *Content, snaps []CombatantSnapshot) ([]*Combatant, error) {
	combatants := make([]*Combatant, 0, len(snaps))
	for _, snap := range snaps {
		c, err := snap.Restore(content)
		if err != nil {
			return nil, err
		}
		combatants = append(combatants, c)
	}

	return combatants, nil
}

// Snapshot copies the session. It fails while a turn is resolving.
func (s *Session) Snapshot() (SessionSnapshot, error) {
	if s.inFlight() {
		return SessionSnapshot{}, fmt.Errorf("%w: can't snapshot a session mid-turn", ErrIllegalAction)
	}

	state, err := s.randomState()
	if err != nil {
		return SessionSnapshot{}, err
	}

	snap := SessionSnapshot{
		ID:               s.ID,
		Roster:           snapshotAll(s.ctx.Roster),
		RewardMultiplier: s.ctx.RewardMultiplier,
		ActiveIndex:      s.activeIndex,
		Opponents:        snapshotAll(s.opponents),
		OpponentIndex:    s.opponentIndex,
		Phase:            s.phase,
		Turn:             s.turn,
		ForceSwitch:      s.forceSwitch,
		RandomState:      state,
	}

	if s.trainer != nil {
		snap.Trainer = s.trainer.Key
	}
	if s.pendingCapture != nil {
		pending := SnapshotCombatant(s.pendingCapture)
		snap.PendingCapture = &pending
	}

	return snap, nil
}

// RestoreSession rebuilds a session and a fresh SessionContext from a snapshot.
// A stored random state takes precedence over WithSeed and WithRandSource.
func RestoreSession(snap SessionSnapshot, opts ...SessionOption) (*Session, error) {
	options := resolveOptions(opts)
	content := options.content

	if len(snap.RandomState) > 0 {
		pcg := &rand.PCG{}
		if err := pcg.UnmarshalBinary(snap.RandomState); err != nil {
			return nil, errors.Join(ErrDataIntegrity, err)
		}
		options.source = pcg
	}

	roster, err := restoreAll(content, snap.Roster)
	if err != nil {
		return nil, err
	}
	opponents, err := restoreAll(content, snap.Opponents)
	if err != nil {
		return nil, err
	}

	switch {
	case len(roster) == 0 || len(roster) > ROSTER_CAPACITY:
		return nil, fmt.Errorf("%w: snapshot roster has %d members", ErrDataIntegrity, len(roster))
	case snap.ActiveIndex < 0 || snap.ActiveIndex >= len(roster):
		return nil, fmt.Errorf("%w: snapshot active index %d out of range", ErrDataIntegrity, snap.ActiveIndex)
	case snap.OpponentIndex < 0 || snap.OpponentIndex >= len(opponents):
		return nil, fmt.Errorf("%w: snapshot opponent index %d out of range", ErrDataIntegrity, snap.OpponentIndex)
	case snap.Phase < PHASE_AWAITING_SETUP || snap.Phase > PHASE_CAPTURED:
		return nil, fmt.Errorf("%w: snapshot phase %d is unknown", ErrDataIntegrity, snap.Phase)
	}

	s := &Session{
		ID:            snap.ID,
		ctx:           &SessionContext{Roster: roster, RewardMultiplier: max(1, snap.RewardMultiplier)},
		content:       content,
		source:        options.source,
		rng:           rand.New(options.source),
		activeIndex:   snap.ActiveIndex,
		opponents:     opponents,
		opponentIndex: snap.OpponentIndex,
		phase:         snap.Phase,
		turnPhase:     TURN_IDLE,
		turn:          max(1, snap.Turn),
		forceSwitch:   snap.ForceSwitch,
	}

	if snap.Phase.Terminal() {
		s.turnPhase = TURN_ENDED
	}

	if snap.Trainer != "" {
		trainer, ok := content.Trainers[snap.Trainer]
		if !ok {
			return nil, fmt.Errorf("%w: unknown trainer %q", ErrDataIntegrity, snap.Trainer)
		}
		s.trainer = &trainer
	}

	if snap.PendingCapture != nil {
		if s.pendingCapture, err = snap.PendingCapture.Restore(content); err != nil {
			return nil, err
		}
	}

	sessionLogger().Info("Restored session", "session", s.ID, "phase", s.phase.String(), "turn", s.turn)

	return s, nil
}
