package goals

import "time"

// Priority levels, fixed rank high > medium > low (not alphabetic).
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

var priorityRank = map[string]int{
	PriorityHigh:   3,
	PriorityMedium: 2,
	PriorityLow:    1,
}

type Goal struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Target      float64   `json:"targetAmount"`
	Current     float64   `json:"currentAmount"`
	Priority    string    `json:"priority"`
	AddedDate   time.Time `json:"dateAdded"`
	LastUpdated time.Time `json:"lastUpdated"`
	Completed   bool      `json:"completed"`
}

// Remaining is the amount still to save, floored at zero (overshoot allowed).
func (g Goal) Remaining() float64 {
	if r := g.Target - g.Current; r > 0 {
		return r
	}
	return 0
}

// Progress is the raw saved/target ratio, unbounded above 1.
func (g Goal) Progress() float64 {
	if g.Target <= 0 {
		return 0
	}
	return g.Current / g.Target
}

// ProgressPercent is the display percentage, clamped to [0, 100].
func (g Goal) ProgressPercent() int {
	if g.Target <= 0 {
		return 0
	}
	v := g.Current
	if v < 0 {
		v = 0
	}
	if v > g.Target {
		v = g.Target
	}
	return int(v/g.Target*100 + 0.5)
}

func (g Goal) IsComplete() bool {
	return g.Target > 0 && g.Current >= g.Target
}

func priorityValue(p string) int {
	return priorityRank[NormalizePriority(p)]
}
