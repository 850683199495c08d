package run

import (
	"encoding/json"
	"math/rand/v2"
	"testing"

	"github.com/nathanieltooley/hackemon/engine"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startedRun(t *testing.T, seed uint64) *Run {
	t.Helper()

	r := New("Ash", WithSeed(seed, seed+1))
	_, err := r.ChooseStarter(r.StarterOptions()[0])
	require.NoError(t, err)

	return r
}

func member(t *testing.T, species string, level int) *engine.Combatant {
	t.Helper()

	c, err := engine.NewCombatant(engine.DefaultContent(), species, level, rand.New(rand.NewPCG(5, 5)))
	require.NoError(t, err)

	return c
}

func TestNewRun(t *testing.T) {
	r := New("Ash", WithSeed(1, 2))

	assert.Equal(t, RUN_CHOOSING_STARTER, r.Status)
	assert.Equal(t, 1, r.Wave)
	assert.Equal(t, STARTING_MONEY, r.Money)
	assert.Equal(t, STARTING_BALLS, r.Balls(STARTING_BALL))
	assert.Empty(t, r.Ctx.Roster)

	starters := r.StarterOptions()
	require.Len(t, starters, STARTER_CHOICES)
	assert.Len(t, lo.Uniq(starters), STARTER_CHOICES)
	for _, key := range starters {
		assert.Contains(t, r.Content().Species, key)
	}

	assert.Equal(t, starters, New("Misty", WithSeed(1, 2)).StarterOptions())
}

func TestChooseStarter(t *testing.T) {
	r := New("Ash", WithSeed(1, 2))
	offered := r.StarterOptions()

	notOffered, ok := lo.Find(r.Content().SpeciesKeys(), func(key string) bool { return !lo.Contains(offered, key) })
	require.True(t, ok)

	_, err := r.ChooseStarter(notOffered)
	assert.ErrorIs(t, err, engine.ErrIllegalAction)
	assert.Equal(t, RUN_CHOOSING_STARTER, r.Status)

	starter, err := r.ChooseStarter(offered[1])
	require.NoError(t, err)

	assert.Equal(t, STARTER_LEVEL, starter.Level)
	assert.Equal(t, offered[1], starter.SpeciesKey)
	assert.Equal(t, []*engine.Combatant{starter}, r.Ctx.Roster)
	assert.Equal(t, RUN_ACTIVE, r.Status)

	_, err = r.ChooseStarter(offered[0])
	assert.ErrorIs(t, err, engine.ErrIllegalAction)
}

func TestWaveScaling(t *testing.T) {
	cases := map[int]int{
		1:   0,
		10:  1,
		30:  3,
		31:  7,
		60:  12,
		61:  12,
		100: 22,
		101: 20,
		110: 23,
	}

	for wave, want := range cases {
		assert.Equal(t, want, waveScaling(wave), "wave %d", wave)
	}

	assert.Equal(t, 0, levelCatchUp(40))
	assert.Equal(t, 1, levelCatchUp(50))
}

func TestBossAndTrainerWaves(t *testing.T) {
	assert.True(t, IsBossWave(10))
	assert.True(t, IsBossWave(30))
	assert.False(t, IsBossWave(20))
	assert.False(t, IsBossWave(15))

	assert.True(t, IsTrainerWave(FINAL_WAVE))
	assert.False(t, IsTrainerWave(10))

	// every trainer wave has a trainer in the default tables
	content := engine.DefaultContent()
	for _, wave := range TRAINER_WAVES {
		_, ok := content.TrainerForWave(wave)
		assert.True(t, ok, "wave %d", wave)
	}
}

func TestApplyEnemyBonuses(t *testing.T) {
	boss := &engine.Combatant{Level: 40, MaxHP: 99, HP: 10, Attack: 50, Defense: 50, Speed: 50}
	ApplyEnemyBonuses(boss, 30)

	assert.Equal(t, 66, boss.Attack)
	assert.Equal(t, 66, boss.Defense)
	assert.Equal(t, 58, boss.Speed)
	// 1 + 30*0.015 + 0.4
	assert.Equal(t, 183, boss.MaxHP)
	assert.Equal(t, boss.MaxHP, boss.HP)

	veteran := &engine.Combatant{Level: 45, MaxHP: 99, Attack: 50, Defense: 50, Speed: 50}
	ApplyEnemyBonuses(veteran, 1)

	assert.Equal(t, 68, veteran.Attack)
	assert.Equal(t, 59, veteran.Speed)
	// 1 + 0.015 + 5*0.025
	assert.Equal(t, 112, veteran.MaxHP)
}

func TestNextTrainerWave(t *testing.T) {
	r := startedRun(t, 3)
	r.Wave = 20

	enc, err := r.Next()
	require.NoError(t, err)

	require.NotNil(t, enc.Opponent.Trainer)
	assert.Nil(t, enc.Opponent.Wild)
	assert.Equal(t, "WAVE_20", enc.Opponent.Trainer.Key)
	assert.False(t, enc.Boss)
}

func TestNextWildLevel(t *testing.T) {
	r := startedRun(t, 3)
	r.Ctx.Roster = []*engine.Combatant{member(t, "LEE_JI_MIN", 10), member(t, "KIM_YUN_HO", 12)}
	r.Wave = 5

	for range 20 {
		enc, err := r.Next()
		require.NoError(t, err)
		require.NotNil(t, enc.Opponent.Wild)

		wild := enc.Opponent.Wild
		assert.False(t, enc.Boss)
		assert.GreaterOrEqual(t, wild.Level, 10)
		assert.LessOrEqual(t, wild.Level, 13)
		assert.True(t, wild.FullHealth())
	}
}

func TestNextWildLevelIgnoresFaintedMembers(t *testing.T) {
	r := startedRun(t, 3)
	fainted := member(t, "KIM_YUN_HO", 40)
	fainted.HP = 0
	r.Ctx.Roster = []*engine.Combatant{member(t, "LEE_JI_MIN", 10), fainted}

	assert.Equal(t, 10, r.averageLivingLevel())
	assert.Equal(t, 40, r.maxLevel())
}

func TestNextBossWave(t *testing.T) {
	r := startedRun(t, 3)
	r.Ctx.Roster = []*engine.Combatant{member(t, "LEE_JI_MIN", 20), member(t, "KIM_YUN_HO", 5)}
	r.Wave = 10

	enc, err := r.Next()
	require.NoError(t, err)
	require.NotNil(t, enc.Opponent.Wild)

	assert.True(t, enc.Boss)
	assert.GreaterOrEqual(t, enc.Opponent.Wild.Level, 22)
	assert.LessOrEqual(t, enc.Opponent.Wild.Level, 27)
}

func TestNextNeedsStarter(t *testing.T) {
	r := New("Ash", WithSeed(1, 2))

	_, err := r.Next()
	assert.ErrorIs(t, err, engine.ErrIllegalAction)
}

func TestApplyEvents(t *testing.T) {
	r := startedRun(t, 3)

	r.Apply([]engine.Event{
		engine.NarrationEvent{Text: "Gained 45 XP and ₱300!"},
		engine.RewardEvent{Money: 300, XP: 45},
		engine.CaptureEvent{Device: STARTING_BALL, Success: false, Shakes: 2},
	})

	assert.Equal(t, STARTING_MONEY+300, r.Money)
	assert.Equal(t, STARTING_BALLS-1, r.Balls(STARTING_BALL))
}

func TestConsumeBall(t *testing.T) {
	r := startedRun(t, 3)

	assert.ErrorIs(t, r.ConsumeBall("MASTER_BALL"), engine.ErrDataIntegrity)

	for range STARTING_BALLS {
		require.NoError(t, r.ConsumeBall(STARTING_BALL))
	}
	assert.ErrorIs(t, r.ConsumeBall(STARTING_BALL), ErrOutOfStock)
	assert.ErrorIs(t, r.ConsumeBall("GREAT_BALL"), ErrOutOfStock)
}

func TestBuy(t *testing.T) {
	r := startedRun(t, 3)

	require.NoError(t, r.Buy("GREAT_BALL", 2))
	assert.Equal(t, STARTING_MONEY-800, r.Money)
	assert.Equal(t, 2, r.Balls("GREAT_BALL"))

	assert.ErrorIs(t, r.Buy("ULTRA_BALL", 1), ErrNotEnoughMoney)
	assert.ErrorIs(t, r.Buy("GREAT_BALL", 0), engine.ErrIllegalAction)
	assert.Equal(t, STARTING_MONEY-800, r.Money)
}

func TestFleeAdvancesWave(t *testing.T) {
	r := startedRun(t, 3)

	enc, err := r.Next()
	require.NoError(t, err)
	s, err := r.NewSession(enc)
	require.NoError(t, err)
	s.Start()

	assert.ErrorIs(t, r.Conclude(s), engine.ErrIllegalAction)

	_, err = s.Submit(engine.FleeAction{})
	require.NoError(t, err)

	require.NoError(t, r.Conclude(s))
	assert.Equal(t, 2, r.Wave)
	assert.Equal(t, RUN_ACTIVE, r.Status)
}

func TestLosingEndsRun(t *testing.T) {
	r := startedRun(t, 3)
	r.Ctx.Roster[0].HP = 1

	strong := member(t, "LEE_HAK_BEOM", 100)
	s, err := engine.NewSession(r.Ctx, engine.OpponentSpec{Wild: strong}, 0, engine.WithContent(r.Content()), engine.WithSeed(8, 8))
	require.NoError(t, err)
	s.Start()

	for range 100 {
		if s.Phase().Terminal() {
			break
		}
		_, err := s.Submit(engine.BestPlayerAction(s, ""))
		require.NoError(t, err)
	}

	require.Equal(t, engine.PHASE_LOST, s.Phase())
	require.NoError(t, r.Conclude(s))

	assert.Equal(t, RUN_DEFEATED, r.Status)
	assert.Equal(t, 1, r.Wave)
	assert.True(t, r.Over())

	_, err = r.Next()
	assert.ErrorIs(t, err, engine.ErrIllegalAction)
	assert.ErrorIs(t, r.Conclude(s), ErrRunOver)
}

func TestHealParty(t *testing.T) {
	r := startedRun(t, 3)
	starter := r.Ctx.Roster[0]

	starter.HP = 1
	starter.SetStatus(engine.STATUS_DOT, 2)
	starter.ChangeStage(engine.STAGE_ATTACK, -2)
	starter.Moves[0].CurrentPP = 0

	r.HealParty()

	assert.True(t, starter.FullHealth())
	assert.Equal(t, engine.STATUS_NONE, starter.Status)
	assert.Equal(t, engine.StatStages{}, starter.Stages)
	assert.Equal(t, starter.Moves[0].MaxPP(), starter.Moves[0].CurrentPP)
}

func TestRunKeepsGoing(t *testing.T) {
	r := startedRun(t, 21)

	for range 15 {
		if r.Over() {
			break
		}

		wave := r.Wave
		enc, err := r.Next()
		require.NoError(t, err)
		s, err := r.NewSession(enc)
		require.NoError(t, err)
		r.Apply(s.Start().Events)

		for turns := 0; !s.Phase().Terminal() && turns < 200; turns++ {
			result, err := s.Submit(engine.BestPlayerAction(s, ""))
			require.NoError(t, err)
			r.Apply(result.Events)
		}
		require.True(t, s.Phase().Terminal())
		require.NoError(t, r.Conclude(s))

		assert.GreaterOrEqual(t, r.Wave, wave)
		assert.GreaterOrEqual(t, r.Money, STARTING_MONEY)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	r := startedRun(t, 3)
	r.Wave = 12
	r.Money = 4321
	r.Inventory["GREAT_BALL"] = 2
	r.Ctx.Roster = append(r.Ctx.Roster, member(t, "KIM_YUN_HO", 9))
	r.ActiveIndex = 1

	snap, err := r.Snapshot()
	require.NoError(t, err)

	data, err := json.Marshal(snap)
	require.NoError(t, err)
	var decoded Snapshot
	require.NoError(t, json.Unmarshal(data, &decoded))

	restored, err := Restore(decoded)
	require.NoError(t, err)

	assert.Equal(t, r.ID, restored.ID)
	assert.Equal(t, r.Wave, restored.Wave)
	assert.Equal(t, r.Money, restored.Money)
	assert.Equal(t, r.Inventory, restored.Inventory)
	assert.Equal(t, r.Ctx.Roster, restored.Ctx.Roster)
	assert.Equal(t, r.ActiveIndex, restored.ActiveIndex)

	want, err := r.Next()
	require.NoError(t, err)
	got, err := restored.Next()
	require.NoError(t, err)
	assert.Equal(t, want.Opponent.Wild.SpeciesKey, got.Opponent.Wild.SpeciesKey)
	assert.Equal(t, want.Opponent.Wild.Level, got.Opponent.Wild.Level)
}

func TestRestoreRejectsBadSnapshots(t *testing.T) {
	r := startedRun(t, 3)
	snap, err := r.Snapshot()
	require.NoError(t, err)

	bad := snap
	bad.Wave = 0
	_, err = Restore(bad)
	assert.ErrorIs(t, err, engine.ErrDataIntegrity)

	bad = snap
	bad.Inventory = map[string]int{"MASTER_BALL": 1}
	_, err = Restore(bad)
	assert.ErrorIs(t, err, engine.ErrDataIntegrity)

	bad = snap
	bad.Roster = nil
	_, err = Restore(bad)
	assert.ErrorIs(t, err, engine.ErrDataIntegrity)

	bad = snap
	bad.RandomState = []byte("nope")
	_, err = Restore(bad)
	assert.ErrorIs(t, err, engine.ErrDataIntegrity)
}
