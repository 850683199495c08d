// Package sim plays automated battles with the player autopilot and tallies the outcomes.
package sim

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"runtime"

	"github.com/nathanieltooley/hackemon/engine"
	"github.com/nathanieltooley/hackemon/feed"
	"github.com/nathanieltooley/hackemon/run"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// MAX_TURNS ends a battle that is going nowhere. It is counted as unfinished.
const MAX_TURNS = 500

var ErrUnfinished = errors.New("battle did not finish")

var simLogger = func() *zerolog.Logger {
	logger := log.With().Str("location", "sim").Logger()
	return &logger
}

type Config struct {
	Battles int
	Seed    uint64
	// Wave is the wave every battle is generated for. The starter is leveled to keep up.
	Wave int
	// Workers caps how many battles run at once. Zero uses GOMAXPROCS.
	Workers int
	// Capture throws the run's starting device at weak opponents while stock lasts.
	Capture bool
	Content *engine.Content
	// Bus receives every battle's events when set.
	Bus *feed.Bus
}

// Battle is the outcome of one simulated encounter.
type Battle struct {
	Index   int
	Species string
	Foe     string
	Outcome engine.Phase
	Turns   int
	Money   int
}

type Result struct {
	Battles    []Battle
	Unfinished int
}

func (r Result) count(outcome engine.Phase) int {
	n := 0
	for _, b := range r.Battles {
		if b.Outcome == outcome {
			n++
		}
	}

	return n
}

func (r Result) Wins() int     { return r.count(engine.PHASE_WON) }
func (r Result) Losses() int   { return r.count(engine.PHASE_LOST) }
func (r Result) Captures() int { return r.count(engine.PHASE_CAPTURED) }

// WinRate counts captures as wins and leaves unfinished battles out.
func (r Result) WinRate() float64 {
	if len(r.Battles) == 0 {
		return 0
	}

	return float64(r.Wins()+r.Captures()) / float64(len(r.Battles))
}

// Simulate plays cfg.Battles battles, one goroutine per battle. Battle i is seeded from
// (cfg.Seed, i), so a seed always gives the same result no matter how many workers run.
func Simulate(ctx context.Context, cfg Config) (Result, error) {
	if cfg.Battles <= 0 {
		return Result{}, fmt.Errorf("%w: need at least one battle, got %d", engine.ErrIllegalAction, cfg.Battles)
	}
	if cfg.Wave <= 0 {
		cfg.Wave = 1
	}
	if cfg.Content == nil {
		cfg.Content = engine.DefaultContent()
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	battles := make([]Battle, cfg.Battles)
	finished := make([]bool, cfg.Battles)

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(workers)

	for i := range cfg.Battles {
		group.Go(func() error {
			battle, err := playBattle(groupCtx, cfg, i)
			if errors.Is(err, ErrUnfinished) {
				simLogger().Warn().Int("battle", i).Msg("Battle hit the turn limit")
				return nil
			}
			if err != nil {
				return fmt.Errorf("battle %d: %w", i, err)
			}

			battles[i] = battle
			finished[i] = true
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return Result{}, err
	}

	result := Result{}
	for i, battle := range battles {
		if !finished[i] {
			result.Unfinished++
			continue
		}
		result.Battles = append(result.Battles, battle)
	}

	simLogger().Info().
		Int("battles", len(result.Battles)).
		Int("wins", result.Wins()).
		Int("unfinished", result.Unfinished).
		Msg("Simulation finished")

	return result, nil
}

// STARTER_STREAM marks the PCG stream a rebuilt starter draws from. Battle indexes stay below it,
// so a starter never shares a stream with a run.
const STARTER_STREAM uint64 = 1 << 63

func starterRng(seed uint64, index int) *rand.Rand {
	return rand.New(rand.NewPCG(seed, STARTER_STREAM|uint64(index)))
}

// playBattle sets up a fresh run for the configured wave and lets the autopilot play it out.
func playBattle(ctx context.Context, cfg Config, index int) (Battle, error) {
	r := run.New(fmt.Sprintf("sim-%d", index), run.WithContent(cfg.Content), run.WithSeed(cfg.Seed, uint64(index)))
	starter, err := r.ChooseStarter(r.StarterOptions()[0])
	if err != nil {
		return Battle{}, err
	}

	r.Wave = cfg.Wave
	if level := run.STARTER_LEVEL + cfg.Wave - 1; level > starter.Level {
		starter, err = engine.NewCombatant(cfg.Content, starter.SpeciesKey, level, starterRng(cfg.Seed, index))
		if err != nil {
			return Battle{}, err
		}
		r.Ctx.Roster[0] = starter
	}

	enc, err := r.Next()
	if err != nil {
		return Battle{}, err
	}
	s, err := r.NewSession(enc)
	if err != nil {
		return Battle{}, err
	}

	publish := func(events []engine.Event) error {
		r.Apply(events)
		if cfg.Bus == nil {
			return nil
		}
		return cfg.Bus.Publish(ctx, s.ID, events)
	}

	if err := publish(s.Start().Events); err != nil {
		return Battle{}, err
	}

	// the roster holds only the starter, so a capture never waits on a release
	for !s.Phase().Terminal() {
		if err := ctx.Err(); err != nil {
			return Battle{}, err
		}
		if s.Turn() >= MAX_TURNS {
			return Battle{}, ErrUnfinished
		}

		device := ""
		if cfg.Capture && r.Balls(run.STARTING_BALL) > 0 {
			device = run.STARTING_BALL
		}
		result, err := s.Submit(engine.BestPlayerAction(s, device))
		if err != nil {
			return Battle{}, err
		}

		if err := publish(result.Events); err != nil {
			return Battle{}, err
		}
	}

	return Battle{
		Index:   index,
		Species: starter.SpeciesKey,
		Foe:     s.Opponent().SpeciesKey,
		Outcome: s.Phase(),
		Turns:   s.Turn(),
		Money:   r.Money,
	}, nil
}
