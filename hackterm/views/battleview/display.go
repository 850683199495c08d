package battleview

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/nathanieltooley/hackemon/engine"
	"github.com/nathanieltooley/hackemon/hackterm/rendering"
)

const sidePanelWidth = 26

// sideDisplay is what the screen shows for one side. It trails the engine while events are
// being played back, so HP only drops when the message that explains it is shown.
type sideDisplay struct {
	Index   int
	Name    string
	Level   int
	Type    engine.ElementType
	HP      int
	MaxHP   int
	Status  engine.StatusCondition
	Fainted bool
}

func sideFrom(index int, c *engine.Combatant) sideDisplay {
	return sideDisplay{
		Index:   index,
		Name:    c.Name,
		Level:   c.Level,
		Type:    c.Type,
		HP:      c.HP,
		MaxHP:   c.MaxHP,
		Status:  c.Status,
		Fainted: !c.Alive(),
	}
}

type battleDisplay struct {
	Player   sideDisplay
	Opponent sideDisplay
}

func newBattleDisplay(s *engine.Session) battleDisplay {
	return battleDisplay{
		Player:   sideFrom(s.ActiveIndex(), s.Active()),
		Opponent: sideFrom(s.OpponentIndex(), s.Opponent()),
	}
}

// side returns the display for side when index is the combatant it currently shows.
func (d *battleDisplay) side(side int, index int) *sideDisplay {
	shown := &d.Opponent
	if side == engine.SIDE_PLAYER {
		shown = &d.Player
	}

	if shown.Index != index {
		return nil
	}
	return shown
}

// apply folds a state event into the display. Narration is handled by the caller.
func (d *battleDisplay) apply(s *engine.Session, e engine.Event) {
	switch e := e.(type) {
	case engine.HealthChangedEvent:
		if side := d.side(e.Side, e.Index); side != nil {
			side.HP = e.HP
			side.MaxHP = e.MaxHP
			side.Fainted = e.HP == 0
		}
	case engine.StatusChangedEvent:
		if side := d.side(e.Side, e.Index); side != nil {
			side.Status = e.Status
		}
	case engine.FaintEvent:
		if side := d.side(e.Side, e.Index); side != nil {
			side.HP = 0
			side.Fainted = true
		}
	case engine.ActiveChangedEvent:
		if e.Side == engine.SIDE_PLAYER {
			if e.Index >= 0 && e.Index < len(s.Context().Roster) {
				d.Player = sideFrom(e.Index, s.Context().Roster[e.Index])
			}
			return
		}

		if opponents := s.Opponents(); e.Index >= 0 && e.Index < len(opponents) {
			d.Opponent = sideFrom(e.Index, opponents[e.Index])
		}
	case engine.LevelUpEvent:
		if e.RosterIndex == d.Player.Index {
			d.Player.Level = e.Level
		}
	}
}

func (d sideDisplay) View(title string) string {
	healthBar := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	healthBar.Width = sidePanelWidth - 6

	perc := 0.0
	if d.MaxHP > 0 {
		perc = float64(d.HP) / float64(d.MaxHP)
	}

	info := lipgloss.JoinVertical(lipgloss.Center,
		fmt.Sprintf("%s %s", rendering.StatusBadge(d.Status), d.Name),
		fmt.Sprintf("Lv. %d %s", d.Level, rendering.TypeBadge(d.Type)),
		healthBar.ViewAs(perc),
		fmt.Sprintf("%d / %d", d.HP, d.MaxHP),
	)

	style := rendering.PanelStyle
	if d.Fainted {
		style = rendering.FaintedPanelStyle
	}

	return style.Width(sidePanelWidth).Render(lipgloss.JoinVertical(lipgloss.Center, title, info))
}
