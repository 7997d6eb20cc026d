package goals

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NormalizePriority lowercases and trims a priority string, defaulting to
// medium for empty input. The result is not guaranteed valid.
func NormalizePriority(p string) string {
	p = strings.ToLower(strings.TrimSpace(p))
	if p == "" {
		return PriorityMedium
	}
	return p
}

func validPriority(p string) bool {
	_, ok := priorityRank[p]
	return ok
}

// New validates and builds a goal: non-empty name, positive finite target,
// recognized priority. Current starts at zero, Completed false.
func New(name string, target float64, priority string) (Goal, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Goal{}, fmt.Errorf("%w: goal name cannot be empty", ErrValidation)
	}
	if math.IsNaN(target) || math.IsInf(target, 0) || target <= 0 {
		return Goal{}, fmt.Errorf("%w: target amount must be a positive number", ErrValidation)
	}
	priority = NormalizePriority(priority)
	if !validPriority(priority) {
		return Goal{}, fmt.Errorf("%w: priority must be high, medium or low", ErrValidation)
	}

	now := time.Now()
	return Goal{
		ID:          uuid.NewString(),
		Name:        name,
		Target:      target,
		Current:     0,
		Priority:    priority,
		AddedDate:   now,
		LastUpdated: now,
		Completed:   false,
	}, nil
}

// Contribute adds a positive amount and recomputes the completion flag.
// Overshoot past the target is kept as-is.
func (g *Goal) Contribute(amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return fmt.Errorf("%w: contribution amount must be a positive number", ErrValidation)
	}
	g.Current += amount
	g.LastUpdated = time.Now()
	g.Completed = g.IsComplete()
	return nil
}

// Find resolves a goal by name, case-insensitively. An exact match wins over
// a prefix match, a prefix match over a substring match; within one tier the
// first goal in stored order wins. The query may also be a goal ID.
func Find(list []Goal, query string) (*Goal, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, fmt.Errorf("%w: empty goal name", ErrNotFound)
	}

	var prefix, substr *Goal
	for i := range list {
		g := &list[i]
		if g.ID == query {
			return g, nil
		}
		name := strings.ToLower(g.Name)
		switch {
		case name == q:
			return g, nil
		case prefix == nil && strings.HasPrefix(name, q):
			prefix = g
		case substr == nil && strings.Contains(name, q):
			substr = g
		}
	}
	if prefix != nil {
		return prefix, nil
	}
	if substr != nil {
		return substr, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrNotFound, strings.TrimSpace(query))
}

// ByID resolves a goal by its identifier.
func ByID(list []Goal, id string) (*Goal, error) {
	for i := range list {
		if list[i].ID == id {
			return &list[i], nil
		}
	}
	return nil, fmt.Errorf("%w: id %q", ErrNotFound, id)
}

// Complete returns the completed goals, in stored order.
func Complete(list []Goal) []Goal {
	var out []Goal
	for _, g := range list {
		if g.IsComplete() {
			out = append(out, g)
		}
	}
	return out
}

// Incomplete returns goals still in progress (a non-positive target counts
// as incomplete, matching the display logic).
func Incomplete(list []Goal) []Goal {
	var out []Goal
	for _, g := range list {
		if !g.IsComplete() {
			out = append(out, g)
		}
	}
	return out
}

// ByPriority filters goals by priority level.
func ByPriority(list []Goal, priority string) []Goal {
	p := NormalizePriority(priority)
	var out []Goal
	for _, g := range list {
		if NormalizePriority(g.Priority) == p {
			out = append(out, g)
		}
	}
	return out
}

// Closest picks the incomplete goal nearest completion: least remaining,
// then higher priority, then higher progress. Nil when everything is done.
func Closest(list []Goal) *Goal {
	var best *Goal
	for i := range list {
		g := &list[i]
		if g.IsComplete() || g.Target <= 0 {
			continue
		}
		if best == nil {
			best = g
			continue
		}
		switch {
		case g.Remaining() < best.Remaining():
			best = g
		case g.Remaining() == best.Remaining():
			if priorityValue(g.Priority) > priorityValue(best.Priority) {
				best = g
			} else if priorityValue(g.Priority) == priorityValue(best.Priority) &&
				g.Progress() > best.Progress() {
				best = g
			}
		}
	}
	return best
}
