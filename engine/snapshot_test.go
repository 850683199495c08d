package engine

import (
	"encoding/json"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contentSession(t *testing.T) *Session {
	t.Helper()

	content := DefaultContent()
	rng := rand.New(rand.NewPCG(11, 12))

	lead, err := NewCombatant(content, "LEE_HA_EUM", 12, rng)
	require.NoError(t, err)
	bench, err := NewCombatant(content, "JUNG_JAE_SEONG", 10, rng)
	require.NoError(t, err)
	wild, err := NewCombatant(content, "JO_HAN_BI", 11, rng)
	require.NoError(t, err)
	wild.Attack += 4

	s, err := NewSession(&SessionContext{Roster: []*Combatant{lead, bench}}, OpponentSpec{Wild: wild}, 0, WithSeed(7, 9))
	require.NoError(t, err)
	s.Start()

	return s
}

func TestCombatantSnapshotRoundTrip(t *testing.T) {
	content := DefaultContent()
	c, err := NewCombatant(content, "KIM_YUN_HO", 9, rand.New(rand.NewPCG(3, 4)))
	require.NoError(t, err)

	c.HP = 7
	c.Attack += 10
	c.Moves[1].CurrentPP = 2
	c.SetStatus(STATUS_DOT, 2)
	c.ChangeStage(STAGE_SPEED, -2)

	data, err := json.Marshal(SnapshotCombatant(c))
	require.NoError(t, err)

	var snap CombatantSnapshot
	require.NoError(t, json.Unmarshal(data, &snap))

	restored, err := snap.Restore(content)
	require.NoError(t, err)

	assert.Equal(t, c, restored)
}

func TestCombatantSnapshotRejectsUnknownKeys(t *testing.T) {
	content := DefaultContent()
	c, err := NewCombatant(content, "KIM_YUN_HO", 9, rand.New(rand.NewPCG(3, 4)))
	require.NoError(t, err)

	snap := SnapshotCombatant(c)
	snap.Moves[0].Move = "SPLASH"
	_, err = snap.Restore(content)
	assert.ErrorIs(t, err, ErrDataIntegrity)

	snap = SnapshotCombatant(c)
	snap.Species = "MISSINGNO"
	_, err = snap.Restore(content)
	assert.ErrorIs(t, err, ErrDataIntegrity)

	snap = SnapshotCombatant(c)
	snap.HP = snap.MaxHP + 1
	_, err = snap.Restore(content)
	assert.ErrorIs(t, err, ErrDataIntegrity)
}

func TestCombatantSnapshotRejectsBrokenState(t *testing.T) {
	content := DefaultContent()
	c, err := NewCombatant(content, "KIM_YUN_HO", 9, rand.New(rand.NewPCG(3, 4)))
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(*CombatantSnapshot)
	}{
		{"attack stage too high", func(snap *CombatantSnapshot) { snap.Stages[STAGE_ATTACK] = 9 }},
		{"evasion stage too low", func(snap *CombatantSnapshot) { snap.Stages[STAGE_EVASION] = MIN_STAGE - 1 }},
		{"negative pp", func(snap *CombatantSnapshot) { snap.Moves[0].PP = -4 }},
		{"pp above max", func(snap *CombatantSnapshot) { snap.Moves[0].PP = c.Moves[0].MaxPP() + 1 }},
		{"unknown status", func(snap *CombatantSnapshot) { snap.Status = STATUS_DOT + 1 }},
		{"negative status", func(snap *CombatantSnapshot) { snap.Status = -1 }},
		{"negative status duration", func(snap *CombatantSnapshot) {
			snap.Status = STATUS_SLEEP
			snap.StatusDuration = -1
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := SnapshotCombatant(c)
			tt.mutate(&snap)

			restored, err := snap.Restore(content)
			assert.ErrorIs(t, err, ErrDataIntegrity)
			assert.Nil(t, restored)
		})
	}

	edge := SnapshotCombatant(c)
	edge.Stages[STAGE_ATTACK] = MAX_STAGE
	edge.Stages[STAGE_DEFENSE] = MIN_STAGE
	edge.Moves[0].PP = 0
	_, err = edge.Restore(content)
	assert.NoError(t, err)
}

func TestSessionSnapshotContinuesIdentically(t *testing.T) {
	original := contentSession(t)

	_, err := original.Submit(BestPlayerAction(original, ""))
	require.NoError(t, err)

	snap, err := original.Snapshot()
	require.NoError(t, err)
	require.NotEmpty(t, snap.RandomState)

	data, err := json.Marshal(snap)
	require.NoError(t, err)

	var decoded SessionSnapshot
	require.NoError(t, json.Unmarshal(data, &decoded))

	restored, err := RestoreSession(decoded)
	require.NoError(t, err)

	again, err := restored.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, snap, again)

	for range 8 {
		if original.Phase().Terminal() {
			break
		}

		action := BestPlayerAction(original, "")
		assert.Equal(t, action, BestPlayerAction(restored, ""))

		want, wantErr := original.Submit(action)
		got, gotErr := restored.Submit(action)

		assert.Equal(t, wantErr, gotErr)
		assert.Equal(t, want, got)
	}

	assert.Equal(t, original.Phase(), restored.Phase())
	assert.Equal(t, original.Turn(), restored.Turn())
}

func TestRestoreSessionRejectsBadIndexes(t *testing.T) {
	s := contentSession(t)
	snap, err := s.Snapshot()
	require.NoError(t, err)

	bad := snap
	bad.ActiveIndex = 5
	_, err = RestoreSession(bad)
	assert.ErrorIs(t, err, ErrDataIntegrity)

	bad = snap
	bad.Trainer = "NOBODY"
	_, err = RestoreSession(bad)
	assert.ErrorIs(t, err, ErrDataIntegrity)

	bad = snap
	bad.RandomState = []byte("garbage")
	_, err = RestoreSession(bad)
	assert.ErrorIs(t, err, ErrDataIntegrity)
}

func TestSnapshotWithoutMarshallableSource(t *testing.T) {
	member := testCombatant("Member", 100, 10, 10, 10, focus())
	wild := testCombatant("Wild", 100, 10, 10, 10, focus())
	s := wildSession(t, []*Combatant{member}, wild, lowSource{})

	snap, err := s.Snapshot()
	require.NoError(t, err)
	assert.Nil(t, snap.RandomState)
}
