package battleview

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/nathanieltooley/hackemon/engine"
	"github.com/nathanieltooley/hackemon/feed"
	"github.com/nathanieltooley/hackemon/hackterm/global"
	"github.com/nathanieltooley/hackemon/hackterm/rendering"
	"github.com/nathanieltooley/hackemon/hackterm/shared/savefs"
	"github.com/nathanieltooley/hackemon/run"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

const _MESSAGE_TIME = time.Millisecond * 1200

// Deps are the services a battle reports to. Both may be nil.
type Deps struct {
	Store *savefs.Store
	Bus   *feed.Bus
}

type moveOffer struct {
	rosterIndex int
	move        engine.Move
}

// Used to send info around the battle's panels
type battleContext struct {
	run     *run.Run
	session *engine.Session

	chosenAction  engine.Action
	chosenRelease *int
	learned       bool
	lastErr       error
}

func (ctx *battleContext) hasBench() bool {
	return lo.ContainsBy(ctx.session.Context().Roster, func(c *engine.Combatant) bool {
		return c != ctx.session.Active() && c.Alive()
	})
}

type nextMessageMsg struct{}

func nextMessage() tea.Cmd {
	return tea.Tick(_MESSAGE_TIME, func(time.Time) tea.Msg { return nextMessageMsg{} })
}

type BattleModel struct {
	ctx       *battleContext
	deps      Deps
	encounter run.Encounter

	display        battleDisplay
	queue          *engine.EventQueue
	currentMessage string
	offers         []moveOffer

	panel tea.Model
	next  tea.Model
}

// NewBattleModel starts the encounter for the run's current wave.
func NewBattleModel(r *run.Run, deps Deps) (BattleModel, error) {
	enc, err := r.Next()
	if err != nil {
		return BattleModel{}, err
	}

	session, err := r.NewSession(enc)
	if err != nil {
		return BattleModel{}, err
	}

	ctx := &battleContext{run: r, session: session}
	m := BattleModel{
		ctx:       ctx,
		deps:      deps,
		encounter: enc,
		display:   newBattleDisplay(session),
		queue:     engine.NewEventQueue(),
		panel:     newActionPanel(ctx),
	}
	m.enqueue(session.Start().Events)

	return m, nil
}

func (m BattleModel) Init() tea.Cmd {
	return func() tea.Msg { return nextMessageMsg{} }
}

func (m *BattleModel) busy() bool {
	return m.currentMessage != "" || m.queue.Len() > 0
}

// enqueue hands a turn's events to the run, the feed and the playback queue.
func (m *BattleModel) enqueue(events []engine.Event) {
	m.ctx.run.Apply(events)

	if m.deps.Bus != nil {
		if err := m.deps.Bus.Publish(context.Background(), m.ctx.session.ID, events); err != nil {
			log.Err(err).Msg("Failed to publish battle events")
		}
	}

	for _, e := range events {
		if levelUp, ok := e.(engine.LevelUpEvent); ok {
			for _, move := range levelUp.NewMoves {
				m.offers = append(m.offers, moveOffer{rosterIndex: levelUp.RosterIndex, move: move})
			}
		}
	}

	m.queue.Push(events...)
}

// advance plays events up to and including the next narration. It returns false once the
// queue is empty.
func (m *BattleModel) advance() bool {
	for {
		e, ok := m.queue.Next()
		if !ok {
			m.currentMessage = ""
			return false
		}

		m.display.apply(m.ctx.session, e)
		if narration, ok := e.(engine.NarrationEvent); ok {
			m.currentMessage = narration.Text
			return true
		}
	}
}

func (m *BattleModel) skip() {
	for m.advance() {
	}
}

// settle picks what the player does next once every event has been shown.
func (m *BattleModel) settle() {
	s := m.ctx.session

	switch {
	case s.PendingCapture() != nil:
		m.panel = newReleasePanel(m.ctx)
	case len(m.offers) > 0:
		m.panel = learnPanel{ctx: m.ctx, offer: m.offers[0]}
	case s.Phase().Terminal():
		m.next = m.conclude()
	case s.ForceSwitchPending():
		m.panel = newRosterPanel(m.ctx, true)
	default:
		m.panel = newActionPanel(m.ctx)
	}
}

func (m *BattleModel) conclude() tea.Model {
	r := m.ctx.run

	if err := r.Conclude(m.ctx.session); err != nil {
		log.Err(err).Msg("Failed to conclude encounter")
		return newEndScreen(r, err.Error())
	}

	if m.deps.Store != nil {
		if r.Over() {
			if err := m.deps.Store.Delete(r.Player); err != nil {
				log.Err(err).Msg("Failed to delete finished run")
			}
		} else if err := saveRun(m.deps.Store, r); err != nil {
			log.Err(err).Msg("Failed to save run")
		}
	}

	switch r.Status {
	case run.RUN_DEFEATED:
		return newEndScreen(r, "You have no one left to battle...")
	case run.RUN_VICTORIOUS:
		return newEndScreen(r, "You beat the final boss!")
	}

	return newWaveEndModel(r, m.deps, m.ctx.session.Phase())
}

func saveRun(store *savefs.Store, r *run.Run) error {
	snap, err := r.Snapshot()
	if err != nil {
		return err
	}

	return store.Save(snap)
}

// submit sends whatever a panel chose to the session.
func (m *BattleModel) submit() bool {
	var (
		result engine.TurnResult
		err    error
	)

	switch {
	case m.ctx.chosenRelease != nil:
		result, err = m.ctx.session.ResolveRosterFull(*m.ctx.chosenRelease)
		m.ctx.chosenRelease = nil
	case m.ctx.chosenAction != nil:
		result, err = m.ctx.session.Submit(m.ctx.chosenAction)
		m.ctx.chosenAction = nil
	case m.ctx.learned:
		m.ctx.learned = false
		m.offers = m.offers[1:]
		m.settle()
		return false
	default:
		return false
	}

	if err != nil {
		log.Debug().Err(err).Msg("Action rejected")
	}
	m.enqueue(result.Events)

	return true
}

func (m BattleModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.busy() {
			if key.Matches(msg, global.SkipKey) {
				m.skip()
				m.settle()
			}
			break
		}

		if key.Matches(msg, global.BackKey) {
			switch panel := m.panel.(type) {
			case movePanel, devicePanel:
				m.panel = newActionPanel(m.ctx)
			case rosterPanel:
				if !panel.forced && !panel.release {
					m.panel = newActionPanel(m.ctx)
				}
			}
			break
		}

		m.panel, _ = m.panel.Update(msg)
		if m.submit() {
			if m.advance() {
				cmd = nextMessage()
			} else {
				m.settle()
			}
		}
	case nextMessageMsg:
		if m.advance() {
			cmd = nextMessage()
		} else {
			m.settle()
		}
	}

	if m.next != nil {
		return m.next, m.next.Init()
	}

	return m, cmd
}

func (m BattleModel) header() string {
	header := fmt.Sprintf("Wave %d  ₱%d", m.encounter.Wave, m.ctx.run.Money)
	if trainer := m.ctx.session.Trainer(); trainer != nil {
		header += "  vs " + trainer.Name
	} else if m.encounter.Boss {
		header += "  BOSS"
	}

	return header
}

func (m BattleModel) View() string {
	opponentTitle := "Wild"
	if trainer := m.ctx.session.Trainer(); trainer != nil {
		opponentTitle = trainer.Name
	}

	panelView := ""
	if !m.busy() {
		panelView = m.panel.View()
	}

	return rendering.GlobalCenter(
		lipgloss.JoinVertical(
			lipgloss.Center,
			m.header(),
			lipgloss.JoinHorizontal(
				lipgloss.Center,
				m.display.Player.View(m.ctx.run.Player),
				m.display.Opponent.View(opponentTitle),
			),
			rendering.ButtonStyle.Width(60).Render(m.currentMessage),
			panelView,
		),
	)
}
