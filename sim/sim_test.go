package sim

import (
	"context"
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/google/uuid"
	"github.com/nathanieltooley/hackemon/engine"
	"github.com/nathanieltooley/hackemon/feed"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulateIsReproducible(t *testing.T) {
	serial, err := Simulate(context.Background(), Config{Battles: 12, Seed: 7, Workers: 1})
	require.NoError(t, err)

	parallel, err := Simulate(context.Background(), Config{Battles: 12, Seed: 7, Workers: 4})
	require.NoError(t, err)

	assert.Equal(t, serial, parallel)
	assert.Equal(t, 12, len(serial.Battles)+serial.Unfinished)
}

func TestSimulateTallies(t *testing.T) {
	result, err := Simulate(context.Background(), Config{Battles: 20, Seed: 3, Capture: true})
	require.NoError(t, err)

	for _, battle := range result.Battles {
		assert.True(t, battle.Outcome.Terminal())
		assert.NotEqual(t, engine.PHASE_FLED, battle.Outcome)
		assert.NotEmpty(t, battle.Species)
		assert.NotEmpty(t, battle.Foe)
	}

	assert.Equal(t, len(result.Battles), result.Wins()+result.Losses()+result.Captures())
	assert.GreaterOrEqual(t, result.WinRate(), 0.0)
	assert.LessOrEqual(t, result.WinRate(), 1.0)
}

func TestSimulateLaterWave(t *testing.T) {
	result, err := Simulate(context.Background(), Config{Battles: 4, Seed: 9, Wave: 15})
	require.NoError(t, err)

	for _, battle := range result.Battles {
		assert.True(t, battle.Outcome.Terminal())
	}
}

func TestSimulateNeedsBattles(t *testing.T) {
	_, err := Simulate(context.Background(), Config{Battles: 0})
	assert.ErrorIs(t, err, engine.ErrIllegalAction)
}

func TestSimulateStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Simulate(ctx, Config{Battles: 3, Seed: 1})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSimulatePublishesEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := feed.NewBusWithLogger(watermill.NopLogger{})
	t.Cleanup(func() { _ = bus.Close() })

	var (
		mu       sync.Mutex
		sessions = map[uuid.UUID]int{}
	)
	require.NoError(t, bus.Subscribe(ctx, func(_ context.Context, env feed.Envelope) error {
		mu.Lock()
		defer mu.Unlock()
		sessions[env.Session]++
		return nil
	}))

	result, err := Simulate(ctx, Config{Battles: 5, Seed: 2, Workers: 3, Bus: bus})
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, sessions, len(result.Battles)+result.Unfinished)
	assert.True(t, lo.EveryBy(lo.Values(sessions), func(n int) bool { return n > 0 }))
}

func TestStarterRngIsItsOwnStream(t *testing.T) {
	for index := range 4 {
		runRng := rand.New(rand.NewPCG(7, uint64(index)))
		starter := starterRng(7, index)

		assert.NotEqual(t, runRng.Uint64(), starter.Uint64())
		assert.Equal(t, starterRng(7, index).Uint64(), starterRng(7, index).Uint64())
	}
}

func TestSimulateRebuiltStarterIsReproducible(t *testing.T) {
	serial, err := Simulate(context.Background(), Config{Battles: 6, Seed: 13, Wave: 10, Workers: 1})
	require.NoError(t, err)

	parallel, err := Simulate(context.Background(), Config{Battles: 6, Seed: 13, Wave: 10, Workers: 3})
	require.NoError(t, err)

	assert.Equal(t, serial, parallel)
}
