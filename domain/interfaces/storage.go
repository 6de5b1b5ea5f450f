package interfaces

import "ui_automation/domain/entities"

// StateStore persists browser session state between runs
type StateStore interface {
	// SaveState stores the session state
	SaveState(state *entities.SessionState) error

	// LoadState returns the stored state, or nil when nothing was saved yet
	LoadState() (*entities.SessionState, error)
}
