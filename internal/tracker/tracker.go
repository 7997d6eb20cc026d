package tracker

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/aalok2006/PSGTC/internal/goals"
	"github.com/aalok2006/PSGTC/internal/store"
)

// MaxUserNameLen bounds profile names, matching the frontend limit.
const MaxUserNameLen = 50

// Tracker owns the whole application state: every profile's goal list, the
// active profile and the display sort preference. All mutations go through
// it and each one writes the full state back to the store.
//
// A single mutex stands in for the browser's single UI thread; the HTTP
// handlers call in concurrently.
type Tracker struct {
	mu    sync.Mutex
	state *store.State
	store store.Store
}

func New(st *store.State, s store.Store) *Tracker {
	if st == nil {
		st = store.NewState()
	}
	if st.AllUserData == nil {
		st.AllUserData = map[string][]goals.Goal{}
	}
	if st.GlobalSortCriteria == "" {
		st.GlobalSortCriteria = goals.DefaultSortOrder
	}
	return &Tracker{state: st, store: s}
}

// persist writes the whole state back. The in-memory state stays
// authoritative for the session even when the write fails.
func (t *Tracker) persist() error {
	if t.store == nil {
		return nil
	}
	if err := t.store.Save(t.state); err != nil {
		log.Printf("⚠️ failed to persist state: %v", err)
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

// NormalizeUserName trims and upper-cases a profile name, the same
// normalization the frontend applies on "change name".
func NormalizeUserName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// SwitchUser activates a profile, creating it when unseen, and persists the
// switch. Returns the normalized name.
func (t *Tracker) SwitchUser(name string) (string, error) {
	n := NormalizeUserName(name)
	if n == "" {
		return "", fmt.Errorf("%w: user name cannot be empty", goals.ErrValidation)
	}
	if len(n) > MaxUserNameLen {
		return "", fmt.Errorf("%w: user name cannot exceed %d characters", goals.ErrValidation, MaxUserNameLen)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.state.AllUserData[n]; !ok {
		t.state.AllUserData[n] = []goals.Goal{}
	}
	t.state.LastActiveUserName = n
	return n, t.persist()
}

// EnsureUser creates a profile when unseen without changing the active
// profile. Used by session issuance.
func (t *Tracker) EnsureUser(name string) (string, error) {
	n := NormalizeUserName(name)
	if n == "" {
		return "", fmt.Errorf("%w: user name cannot be empty", goals.ErrValidation)
	}
	if len(n) > MaxUserNameLen {
		return "", fmt.Errorf("%w: user name cannot exceed %d characters", goals.ErrValidation, MaxUserNameLen)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.state.AllUserData[n]; !ok {
		t.state.AllUserData[n] = []goals.Goal{}
		if err := t.persist(); err != nil {
			return n, err
		}
	}
	return n, nil
}

// ActiveUser returns the last active profile name ("" when none yet).
func (t *Tracker) ActiveUser() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.LastActiveUserName
}

// HasUser reports whether a profile exists.
func (t *Tracker) HasUser(name string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.state.AllUserData[NormalizeUserName(name)]
	return ok
}

// Goals returns a sorted snapshot of a profile's goals per the current
// sort preference. The stored order is never touched.
func (t *Tracker) Goals(user string) []goals.Goal {
	t.mu.Lock()
	defer t.mu.Unlock()
	return goals.SortByOrder(t.state.AllUserData[user], t.state.GlobalSortCriteria)
}

// GoalsStored returns a snapshot in insertion order.
func (t *Tracker) GoalsStored(user string) []goals.Goal {
	t.mu.Lock()
	defer t.mu.Unlock()
	list := t.state.AllUserData[user]
	out := make([]goals.Goal, len(list))
	copy(out, list)
	return out
}

// SortOrder returns the current "criteria_direction" preference.
func (t *Tracker) SortOrder() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.GlobalSortCriteria
}

// SetSortOrder validates and persists a new sort preference.
func (t *Tracker) SetSortOrder(order string) error {
	if _, _, err := goals.ParseSortOrder(order); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state.GlobalSortCriteria = strings.ToLower(strings.TrimSpace(order))
	return t.persist()
}

// CreateGoal validates and appends a new goal to the profile.
func (t *Tracker) CreateGoal(user, name string, target float64, priority string) (goals.Goal, error) {
	g, err := goals.New(name, target, priority)
	if err != nil {
		return goals.Goal{}, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.state.AllUserData[user] = append(t.state.AllUserData[user], g)
	if err := t.persist(); err != nil {
		return g, err
	}
	return g, nil
}

// AddFunds resolves a goal by name (or ID) and contributes to it.
func (t *Tracker) AddFunds(user, query string, amount float64) (goals.Goal, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	g, err := goals.Find(t.state.AllUserData[user], query)
	if err != nil {
		return goals.Goal{}, err
	}
	if err := g.Contribute(amount); err != nil {
		return goals.Goal{}, err
	}
	return *g, t.persist()
}

// AddFundsByID contributes to a goal addressed by its identifier.
func (t *Tracker) AddFundsByID(user, id string, amount float64) (goals.Goal, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	g, err := goals.ByID(t.state.AllUserData[user], id)
	if err != nil {
		return goals.Goal{}, err
	}
	if err := g.Contribute(amount); err != nil {
		return goals.Goal{}, err
	}
	return *g, t.persist()
}

// UpdateGoal rewrites a goal's name, target and priority in place.
func (t *Tracker) UpdateGoal(user, id, name string, target float64, priority string) (goals.Goal, error) {
	fresh, err := goals.New(name, target, priority)
	if err != nil {
		return goals.Goal{}, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	g, err := goals.ByID(t.state.AllUserData[user], id)
	if err != nil {
		return goals.Goal{}, err
	}
	g.Name = fresh.Name
	g.Target = fresh.Target
	g.Priority = fresh.Priority
	g.LastUpdated = fresh.LastUpdated
	g.Completed = g.IsComplete()
	return *g, t.persist()
}

// GoalByID returns a copy of one goal.
func (t *Tracker) GoalByID(user, id string) (goals.Goal, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	g, err := goals.ByID(t.state.AllUserData[user], id)
	if err != nil {
		return goals.Goal{}, err
	}
	return *g, nil
}

// FindGoal resolves a goal by name, exact match preferred.
func (t *Tracker) FindGoal(user, query string) (goals.Goal, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	g, err := goals.Find(t.state.AllUserData[user], query)
	if err != nil {
		return goals.Goal{}, err
	}
	return *g, nil
}

// DeleteGoal removes a goal. Confirmation is the caller's duty: the chat
// interpreter runs a confirm round-trip and the HTTP handler demands
// ?confirm=true before ever calling this.
func (t *Tracker) DeleteGoal(user, id string) (goals.Goal, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	list := t.state.AllUserData[user]
	for i := range list {
		if list[i].ID == id {
			removed := list[i]
			t.state.AllUserData[user] = append(list[:i:i], list[i+1:]...)
			return removed, t.persist()
		}
	}
	return goals.Goal{}, fmt.Errorf("%w: id %q", goals.ErrNotFound, id)
}

// Summary aggregates one profile's goals.
type Summary struct {
	TotalGoals     int     `json:"totalGoals"`
	CompletedGoals int     `json:"completedGoals"`
	HighPriority   int     `json:"highPriority"`
	MediumPriority int     `json:"mediumPriority"`
	LowPriority    int     `json:"lowPriority"`
	TotalSaved     float64 `json:"totalSaved"`
	TotalTarget    float64 `json:"totalTarget"`
	TotalRemaining float64 `json:"totalRemaining"`
}

func (t *Tracker) Summary(user string) Summary {
	t.mu.Lock()
	defer t.mu.Unlock()

	var s Summary
	for _, g := range t.state.AllUserData[user] {
		s.TotalGoals++
		if g.IsComplete() {
			s.CompletedGoals++
		}
		switch goals.NormalizePriority(g.Priority) {
		case goals.PriorityHigh:
			s.HighPriority++
		case goals.PriorityLow:
			s.LowPriority++
		default:
			s.MediumPriority++
		}
		s.TotalSaved += g.Current
		s.TotalTarget += g.Target
		s.TotalRemaining += g.Remaining()
	}
	return s
}

// Closest returns the incomplete goal nearest completion, nil when none.
func (t *Tracker) Closest(user string) *goals.Goal {
	t.mu.Lock()
	defer t.mu.Unlock()
	g := goals.Closest(t.state.AllUserData[user])
	if g == nil {
		return nil
	}
	out := *g
	return &out
}

// ExportJSON serializes a profile's goals (insertion order) as indented
// JSON, the chat export format.
func (t *Tracker) ExportJSON(user string) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	list := t.state.AllUserData[user]
	if len(list) == 0 {
		return "", fmt.Errorf("%w: no goals to export", goals.ErrNotFound)
	}
	raw, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
