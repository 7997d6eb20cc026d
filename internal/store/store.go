package store

import (
	"errors"

	"github.com/aalok2006/PSGTC/internal/goals"
)

// StorageKey is the versioned blob key. The version tag is the only schema
// migration mechanism: a layout change means a new key.
const StorageKey = "savingsTrackerData_IBM5153_v3_UserSpecific"

// ErrCorrupt marks persisted state that exists but cannot be decoded.
// Callers recover by resetting to an empty state; it is never fatal.
var ErrCorrupt = errors.New("stored data is corrupt")

// State is the whole persisted application state: every profile's goals,
// the last active profile and the display sort preference. It is written
// back in full on every mutation.
type State struct {
	AllUserData        map[string][]goals.Goal `json:"allUserData"`
	LastActiveUserName string                  `json:"lastActiveUserName"`
	GlobalSortCriteria string                  `json:"globalSortCriteria,omitempty"`
}

func NewState() *State {
	return &State{
		AllUserData:        map[string][]goals.Goal{},
		GlobalSortCriteria: goals.DefaultSortOrder,
	}
}

// Store persists the application state as one blob.
type Store interface {
	// Load returns the persisted state, a fresh empty state when nothing
	// was persisted yet, or ErrCorrupt when the blob cannot be decoded.
	Load() (*State, error)
	// Save overwrites the whole persisted state.
	Save(*State) error
}
