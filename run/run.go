package run

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/google/uuid"
	"github.com/nathanieltooley/hackemon/engine"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

const (
	STARTING_MONEY      = 1000
	STARTING_BALLS      = 3
	STARTING_BALL       = "POKEBALL"
	STARTER_LEVEL       = 5
	STARTER_CHOICES     = 3
	FINAL_WAVE          = 200
	DEFAULT_ENEMY_LEVEL = 5
)

type Status int

const (
	RUN_CHOOSING_STARTER Status = iota
	RUN_ACTIVE
	RUN_DEFEATED
	RUN_VICTORIOUS
)

func (s Status) String() string {
	switch s {
	case RUN_CHOOSING_STARTER:
		return "choosing starter"
	case RUN_ACTIVE:
		return "active"
	case RUN_DEFEATED:
		return "defeated"
	case RUN_VICTORIOUS:
		return "victorious"
	}

	return "unknown"
}

var (
	ErrOutOfStock     = errors.New("out of stock")
	ErrNotEnoughMoney = errors.New("not enough money")
	ErrRunOver        = errors.New("run is over")
)

var runLogger = func() *zerolog.Logger {
	logger := log.With().Str("location", "run").Logger()
	return &logger
}

// Run is the state carried between encounters: the wave counter, money, capture devices and
// the roster. Sessions borrow the roster through Ctx.
type Run struct {
	ID     uuid.UUID
	Player string
	Status Status

	Wave        int
	Money       int
	Inventory   map[string]int
	Ctx         *engine.SessionContext
	ActiveIndex int

	starters []string

	content *engine.Content
	source  *rand.PCG
	rng     *rand.Rand
}

type runOptions struct {
	content *engine.Content
	source  *rand.PCG
}

type Option func(*runOptions)

func WithContent(content *engine.Content) Option {
	return func(o *runOptions) {
		o.content = content
	}
}

func WithSeed(seed1 uint64, seed2 uint64) Option {
	return func(o *runOptions) {
		o.source = rand.NewPCG(seed1, seed2)
	}
}

func resolveOptions(opts []Option) runOptions {
	options := runOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	if options.content == nil {
		options.content = engine.DefaultContent()
	}
	if options.source == nil {
		seed := engine.CreateRandomStateSeed()
		options.source = &seed
	}

	return options
}

// New starts a run on wave 1 and rolls the starter options. The roster stays empty until
// ChooseStarter is called.
func New(player string, opts ...Option) *Run {
	options := resolveOptions(opts)

	r := &Run{
		ID:        uuid.New(),
		Player:    player,
		Status:    RUN_CHOOSING_STARTER,
		Wave:      1,
		Money:     STARTING_MONEY,
		Inventory: map[string]int{STARTING_BALL: STARTING_BALLS},
		Ctx:       &engine.SessionContext{RewardMultiplier: 1},
		content:   options.content,
		source:    options.source,
		rng:       rand.New(options.source),
	}
	r.starters = r.rollStarters()

	runLogger().Info().Str("run", r.ID.String()).Strs("starters", r.starters).Msg("New run")
	return r
}

func (r *Run) Content() *engine.Content {
	return r.content
}

func (r *Run) Over() bool {
	return r.Status == RUN_DEFEATED || r.Status == RUN_VICTORIOUS
}

// randIntN draws from [0, n) with a single Float64 call.
func (r *Run) randIntN(n int) int {
	if n <= 0 {
		return 0
	}

	return min(int(r.rng.Float64()*float64(n)), n-1)
}

func (r *Run) rollStarters() []string {
	keys := r.content.SpeciesKeys()
	picked := make([]string, 0, STARTER_CHOICES)

	for len(picked) < min(STARTER_CHOICES, len(keys)) {
		remaining := lo.Without(keys, picked...)
		picked = append(picked, remaining[r.randIntN(len(remaining))])
	}

	return picked
}

// StarterOptions returns the species keys offered at the start of the run.
func (r *Run) StarterOptions() []string {
	return slices.Clone(r.starters)
}

func (r *Run) ChooseStarter(speciesKey string) (*engine.Combatant, error) {
	if r.Status != RUN_CHOOSING_STARTER {
		return nil, fmt.Errorf("%w: the starter was already chosen", engine.ErrIllegalAction)
	}
	if !lo.Contains(r.starters, speciesKey) {
		return nil, fmt.Errorf("%w: %s is not one of the offered starters", engine.ErrIllegalAction, speciesKey)
	}

	starter, err := engine.NewCombatant(r.content, speciesKey, STARTER_LEVEL, r.rng)
	if err != nil {
		return nil, err
	}

	r.Ctx.Roster = []*engine.Combatant{starter}
	r.Status = RUN_ACTIVE

	runLogger().Info().Str("species", speciesKey).Msg("Starter chosen")
	return starter, nil
}

// Balls returns how many of a capture device are left.
func (r *Run) Balls(device string) int {
	return r.Inventory[device]
}

// ConsumeBall uses up one capture device. Devices are spent whether the capture works or not.
func (r *Run) ConsumeBall(device string) error {
	if _, err := r.content.GetDevice(device); err != nil {
		return err
	}
	if r.Inventory[device] <= 0 {
		return fmt.Errorf("%w: no %s left", ErrOutOfStock, device)
	}

	r.Inventory[device]--
	return nil
}

// Buy spends money on capture devices at their table price.
func (r *Run) Buy(device string, count int) error {
	d, err := r.content.GetDevice(device)
	if err != nil {
		return err
	}
	if count <= 0 {
		return fmt.Errorf("%w: can not buy %d of %s", engine.ErrIllegalAction, count, device)
	}

	cost := d.Price * count
	if cost > r.Money {
		return fmt.Errorf("%w: %d %s cost ₱%d, have ₱%d", ErrNotEnoughMoney, count, d.Name, cost, r.Money)
	}

	r.Money -= cost
	r.Inventory[device] += count
	return nil
}

// Apply folds the events of a turn into the run. Rewards become money and every thrown
// device is removed from the inventory.
func (r *Run) Apply(events []engine.Event) {
	for _, e := range events {
		switch e := e.(type) {
		case engine.RewardEvent:
			r.Money += e.Money
		case engine.CaptureEvent:
			if err := r.ConsumeBall(e.Device); err != nil {
				runLogger().Warn().Err(err).Str("device", e.Device).Msg("Capture device was thrown without stock")
			}
		}
	}
}

// HealParty fully restores every roster member.
func (r *Run) HealParty() {
	for _, member := range r.Ctx.Roster {
		member.HP = member.MaxHP
		member.ClearStatus()
		member.ResetStages()
		member.RestoreAllPP()
	}
}

// Conclude records the outcome of a finished session. Wins, captures and flights advance the
// wave; trainer waves heal the party afterwards and beating the final boss ends the run.
func (r *Run) Conclude(s *engine.Session) error {
	if !s.Phase().Terminal() {
		return fmt.Errorf("%w: session is still %s", engine.ErrIllegalAction, s.Phase())
	}
	if r.Over() {
		return ErrRunOver
	}

	r.ActiveIndex = s.ActiveIndex()
	if r.ActiveIndex >= len(r.Ctx.Roster) {
		r.ActiveIndex = 0
	}

	logger := runLogger().With().Int("wave", r.Wave).Stringer("outcome", s.Phase()).Logger()

	if s.Phase() == engine.PHASE_LOST {
		r.Status = RUN_DEFEATED
		logger.Info().Msg("Run lost")
		return nil
	}

	if trainer := s.Trainer(); trainer != nil && s.Phase() == engine.PHASE_WON {
		if trainer.FinalBoss {
			r.Status = RUN_VICTORIOUS
			logger.Info().Msg("Final boss defeated")
			return nil
		}

		r.HealParty()
	}

	r.Wave++
	logger.Debug().Msg("Wave complete")
	return nil
}
