package engine

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

// lowSource makes every Float64 draw 0: every roll hits, crits and stuns.
type lowSource struct{}

func (lowSource) Uint64() uint64 {
	return 0
}

// highSource makes every Float64 draw just under 1: no crits, max damage spread, last index picks.
type highSource struct{}

func (highSource) Uint64() uint64 {
	return math.MaxUint64
}

// scriptedSource replays Float64 values in order and repeats the last one once it runs out.
type scriptedSource struct {
	draws []float64
	next  int
}

func (s *scriptedSource) Uint64() uint64 {
	f := s.draws[min(s.next, len(s.draws)-1)]
	s.next++

	return uint64(f * (1 << 53))
}

func newRng(source rand.Source) *rand.Rand {
	return rand.New(source)
}

func mustMove(t *testing.T, key string) Move {
	t.Helper()

	move, err := DefaultContent().GetMove(key)
	require.NoError(t, err)

	return move
}

func statusMove(key string, effect MoveEffect, pp int) Move {
	return Move{Key: key, Name: key, Type: TYPE_NORMAL, Power: 0, Accuracy: 100, PP: pp, Effect: effect}
}

func attackMove(key string, power int) Move {
	return Move{Key: key, Name: key, Type: TYPE_NORMAL, Power: power, Accuracy: 100, PP: 20}
}

// testCombatant builds a normal-type combatant with fixed stats and no ability.
func testCombatant(name string, hp int, attack int, defense int, speed int, moves ...Move) *Combatant {
	return &Combatant{
		ID:         uuid.New(),
		SpeciesKey: "TEST",
		Name:       name,
		Type:       TYPE_NORMAL,
		Level:      50,
		XPToLevel:  XPToLevel(50),
		Nature:     NATURE_HARDY,
		MaxHP:      hp,
		HP:         hp,
		Attack:     attack,
		Defense:    defense,
		Speed:      speed,
		Moves:      lo.Map(moves, func(m Move, _ int) MoveSlot { return NewMoveSlot(m) }),
	}
}

func startedSession(t *testing.T, roster []*Combatant, opponent OpponentSpec, source rand.Source) *Session {
	t.Helper()

	s, err := NewSession(&SessionContext{Roster: roster}, opponent, 0, WithRandSource(source))
	require.NoError(t, err)

	s.Start()
	require.Equal(t, PHASE_IN_PROGRESS, s.Phase())

	return s
}

func wildSession(t *testing.T, roster []*Combatant, wild *Combatant, source rand.Source) *Session {
	t.Helper()
	return startedSession(t, roster, OpponentSpec{Wild: wild}, source)
}

func narrations(events []Event) []string {
	return lo.FilterMap(events, func(e Event, _ int) (string, bool) {
		n, ok := e.(NarrationEvent)
		return n.Text, ok
	})
}

func eventIndex(events []Event, match func(Event) bool) int {
	_, index, _ := lo.FindIndexOf(events, match)
	return index
}

func eventsOf[T Event](events []Event) []T {
	return lo.FilterMap(events, func(e Event, _ int) (T, bool) {
		typed, ok := e.(T)
		return typed, ok
	})
}
