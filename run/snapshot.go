package run

import (
	"errors"
	"fmt"
	"maps"
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/nathanieltooley/hackemon/engine"
)

// Snapshot is a run between encounters. Sessions are not part of it; a run is saved once an
// encounter has been concluded.
type Snapshot struct {
	ID               uuid.UUID                  `json:"id"`
	Player           string                     `json:"player"`
	Status           Status                     `json:"status"`
	Wave             int                        `json:"wave"`
	Money            int                        `json:"money"`
	Inventory        map[string]int             `json:"inventory"`
	Roster           []engine.CombatantSnapshot `json:"roster"`
	RewardMultiplier int                        `json:"rewardMultiplier"`
	ActiveIndex      int                        `json:"activeIndex"`
	Starters         []string                   `json:"starters,omitempty"`
	RandomState      []byte                     `json:"randomState"`
}

func (r *Run) Snapshot() (Snapshot, error) {
	state, err := r.source.MarshalBinary()
	if err != nil {
		return Snapshot{}, errors.Join(engine.ErrDataIntegrity, err)
	}

	snap := Snapshot{
		ID:               r.ID,
		Player:           r.Player,
		Status:           r.Status,
		Wave:             r.Wave,
		Money:            r.Money,
		Inventory:        maps.Clone(r.Inventory),
		RewardMultiplier: r.Ctx.RewardMultiplier,
		ActiveIndex:      r.ActiveIndex,
		RandomState:      state,
	}

	for _, member := range r.Ctx.Roster {
		snap.Roster = append(snap.Roster, engine.SnapshotCombatant(member))
	}
	if r.Status == RUN_CHOOSING_STARTER {
		snap.Starters = r.StarterOptions()
	}

	return snap, nil
}

// Restore rebuilds a run. Only WithContent is honoured; the random state always comes from the snapshot.
func Restore(snap Snapshot, opts ...Option) (*Run, error) {
	options := resolveOptions(opts)

	source := &rand.PCG{}
	if err := source.UnmarshalBinary(snap.RandomState); err != nil {
		return nil, errors.Join(engine.ErrDataIntegrity, err)
	}

	switch {
	case snap.Status < RUN_CHOOSING_STARTER || snap.Status > RUN_VICTORIOUS:
		return nil, fmt.Errorf("%w: unknown run status %d", engine.ErrDataIntegrity, snap.Status)
	case snap.Wave < 1:
		return nil, fmt.Errorf("%w: wave %d is below 1", engine.ErrDataIntegrity, snap.Wave)
	case snap.Money < 0:
		return nil, fmt.Errorf("%w: money %d is negative", engine.ErrDataIntegrity, snap.Money)
	case len(snap.Roster) > engine.ROSTER_CAPACITY:
		return nil, fmt.Errorf("%w: roster has %d members", engine.ErrDataIntegrity, len(snap.Roster))
	case snap.Status != RUN_CHOOSING_STARTER && len(snap.Roster) == 0:
		return nil, fmt.Errorf("%w: a %s run needs a roster", engine.ErrDataIntegrity, snap.Status)
	}

	r := &Run{
		ID:          snap.ID,
		Player:      snap.Player,
		Status:      snap.Status,
		Wave:        snap.Wave,
		Money:       snap.Money,
		Inventory:   maps.Clone(snap.Inventory),
		Ctx:         &engine.SessionContext{RewardMultiplier: max(1, snap.RewardMultiplier)},
		ActiveIndex: snap.ActiveIndex,
		starters:    snap.Starters,
		content:     options.content,
		source:      source,
		rng:         rand.New(source),
	}
	if r.Inventory == nil {
		r.Inventory = map[string]int{}
	}

	for device, count := range r.Inventory {
		if _, err := r.content.GetDevice(device); err != nil {
			return nil, err
		}
		if count < 0 {
			return nil, fmt.Errorf("%w: %d %s in the inventory", engine.ErrDataIntegrity, count, device)
		}
	}

	for _, member := range snap.Roster {
		c, err := member.Restore(r.content)
		if err != nil {
			return nil, err
		}
		r.Ctx.Roster = append(r.Ctx.Roster, c)
	}

	if r.ActiveIndex < 0 || (len(r.Ctx.Roster) > 0 && r.ActiveIndex >= len(r.Ctx.Roster)) {
		return nil, fmt.Errorf("%w: active index %d out of range", engine.ErrDataIntegrity, r.ActiveIndex)
	}

	return r, nil
}
