package engine

import "fmt"

// Event is one observable step of an encounter. The set of events is closed;
// hosts switch over the concrete types below.
//
// Only NarrationEvent carries text. State events describe the mutation that just happened
// so a host can update its view of the battle without reading engine state.
type Event interface {
	Messages() []string
	isEvent()
}

type NarrationEvent struct {
	Text string
}

// HealthChangedEvent reports a new HP value. Index is the roster index for the player side
// and the party index for the opponent side.
type HealthChangedEvent struct {
	Side  int
	Index int
	HP    int
	MaxHP int
	Delta int
}

type StatStageChangedEvent struct {
	Side  int
	Stat  StageStat
	Stage int
	Delta int
}

type StatusChangedEvent struct {
	Side     int
	Index    int
	Status   StatusCondition
	Duration int
}

type ActiveChangedEvent struct {
	Side  int
	Index int
}

type FaintEvent struct {
	Side  int
	Index int
}

type CaptureEvent struct {
	Device  string
	Success bool
	Shakes  int
}

type LevelUpEvent struct {
	RosterIndex int
	Level       int
	Gains       BaseStats
	NewMoves    []Move
}

// RewardEvent reports what an encounter paid out. Money is never applied by the engine.
type RewardEvent struct {
	Money int
	XP    int
}

// ForceSwitchEvent means the player's active combatant fainted and only a switch is legal.
type ForceSwitchEvent struct{}

// RosterFullEvent means a capture succeeded with a full roster and ResolveRosterFull must be called.
type RosterFullEvent struct {
	Captured string
}

type EncounterEndedEvent struct {
	Outcome Phase
}

func (e NarrationEvent) Messages() []string        { return []string{e.Text} }
func (e HealthChangedEvent) Messages() []string    { return nil }
func (e StatStageChangedEvent) Messages() []string { return nil }
func (e StatusChangedEvent) Messages() []string    { return nil }
func (e ActiveChangedEvent) Messages() []string    { return nil }
func (e FaintEvent) Messages() []string            { return nil }
func (e CaptureEvent) Messages() []string          { return nil }
func (e LevelUpEvent) Messages() []string          { return nil }
func (e RewardEvent) Messages() []string           { return nil }
func (e ForceSwitchEvent) Messages() []string      { return nil }
func (e RosterFullEvent) Messages() []string       { return nil }
func (e EncounterEndedEvent) Messages() []string   { return nil }

func (NarrationEvent) isEvent()        {}
func (HealthChangedEvent) isEvent()    {}
func (StatStageChangedEvent) isEvent() {}
func (StatusChangedEvent) isEvent()    {}
func (ActiveChangedEvent) isEvent()    {}
func (FaintEvent) isEvent()            {}
func (CaptureEvent) isEvent()          {}
func (LevelUpEvent) isEvent()          {}
func (RewardEvent) isEvent()           {}
func (ForceSwitchEvent) isEvent()      {}
func (RosterFullEvent) isEvent()       {}
func (EncounterEndedEvent) isEvent()   {}

func narrate(format string, args ...any) NarrationEvent {
	return NarrationEvent{Text: fmt.Sprintf(format, args...)}
}

// EventName is a stable name for an event type, used when events leave the process.
func EventName(e Event) string {
	switch e.(type) {
	case NarrationEvent:
		return "narration"
	case HealthChangedEvent:
		return "health_changed"
	case StatStageChangedEvent:
		return "stat_stage_changed"
	case StatusChangedEvent:
		return "status_changed"
	case ActiveChangedEvent:
		return "active_changed"
	case FaintEvent:
		return "faint"
	case CaptureEvent:
		return "capture"
	case LevelUpEvent:
		return "level_up"
	case RewardEvent:
		return "reward"
	case ForceSwitchEvent:
		return "force_switch"
	case RosterFullEvent:
		return "roster_full"
	case EncounterEndedEvent:
		return "encounter_ended"
	}

	return "unknown"
}

// EventQueue holds events until a host is ready to show them. It has no notion of time;
// hosts pace it however they like.
type EventQueue struct {
	events []Event
}

func NewEventQueue(events ...Event) *EventQueue {
	q := &EventQueue{events: make([]Event, 0, len(events))}
	q.Push(events...)
	return q
}

func (q *EventQueue) Push(events ...Event) {
	q.events = append(q.events, events...)
}

// Next pops the oldest event. The boolean is false when the queue is empty.
func (q *EventQueue) Next() (Event, bool) {
	if len(q.events) == 0 {
		return nil, false
	}

	head := q.events[0]
	q.events = q.events[1:]

	return head, true
}

func (q *EventQueue) Len() int {
	return len(q.events)
}

// Drain empties the queue and returns everything that was in it.
func (q *EventQueue) Drain() []Event {
	events := q.events
	q.events = make([]Event, 0)
	return events
}

const (
	RESULT_RESOLVED = iota + 1
	RESULT_FORCESWITCH
	RESULT_ROSTERFULL
	RESULT_ENDED
)

// TurnResult is what a session call produced. Kind says what the host must do next:
// RESULT_RESOLVED takes any action, RESULT_FORCESWITCH only a SwitchAction,
// RESULT_ROSTERFULL only ResolveRosterFull, and RESULT_ENDED nothing.
type TurnResult struct {
	Kind    int
	Outcome Phase
	Events  []Event
}
