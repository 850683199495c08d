package components

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
)

// Breadcrumbs remembers how to rebuild the menus a player came through, so ESC can walk back.
type Breadcrumbs struct {
	trail []func() tea.Model
}

func NewBreadcrumb() Breadcrumbs {
	return Breadcrumbs{}
}

// PushNew adds a menu constructor and returns the extended copy.
func (b Breadcrumbs) PushNew(modelFunc func() tea.Model) Breadcrumbs {
	trail := make([]func() tea.Model, len(b.trail), len(b.trail)+1)
	copy(trail, b.trail)
	b.trail = append(trail, modelFunc)

	log.Debug().Int("depth", len(b.trail)).Msg("Breadcrumb pushed")
	return b
}

func (b Breadcrumbs) Len() int {
	return len(b.trail)
}

// Back rebuilds the most recent menu, or def when the trail is empty.
func (b Breadcrumbs) Back(def func() tea.Model) tea.Model {
	if len(b.trail) == 0 {
		return def()
	}

	return b.trail[len(b.trail)-1]()
}
