package goals

import (
	"fmt"
	"sort"
	"strings"
)

// Sort criteria. Combined with a direction as "criteria_direction",
// e.g. "priority_desc" — the format the sort command and the persisted
// preference use.
const (
	SortByDate      = "date"
	SortByName      = "name"
	SortByTarget    = "target"
	SortByRemaining = "remaining"
	SortByProgress  = "progress"
	SortByPriority  = "priority"

	Ascending  = "asc"
	Descending = "desc"

	DefaultSortOrder = "date_desc"
)

var sortCriteria = map[string]bool{
	SortByDate:      true,
	SortByName:      true,
	SortByTarget:    true,
	SortByRemaining: true,
	SortByProgress:  true,
	SortByPriority:  true,
}

// ParseSortOrder validates a "criteria_direction" string and splits it.
func ParseSortOrder(order string) (criterion, direction string, err error) {
	parts := strings.SplitN(strings.ToLower(strings.TrimSpace(order)), "_", 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("%w: sort order must look like name_asc or priority_desc", ErrValidation)
	}
	criterion, direction = parts[0], parts[1]
	if !sortCriteria[criterion] {
		return "", "", fmt.Errorf("%w: unknown sort criteria %q", ErrValidation, criterion)
	}
	if direction != Ascending && direction != Descending {
		return "", "", fmt.Errorf("%w: sort direction must be asc or desc", ErrValidation)
	}
	return criterion, direction, nil
}

// Sort returns a new slice ordered by the given criterion and direction.
// The input is never mutated and the sort is stable: equal keys keep their
// stored relative order.
func Sort(list []Goal, criterion, direction string) []Goal {
	out := make([]Goal, len(list))
	copy(out, list)

	var less func(a, b Goal) bool
	switch criterion {
	case SortByName:
		less = func(a, b Goal) bool {
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		}
	case SortByTarget:
		less = func(a, b Goal) bool { return a.Target < b.Target }
	case SortByRemaining:
		less = func(a, b Goal) bool { return a.Remaining() < b.Remaining() }
	case SortByProgress:
		less = func(a, b Goal) bool { return a.Progress() < b.Progress() }
	case SortByPriority:
		less = func(a, b Goal) bool {
			return priorityValue(a.Priority) < priorityValue(b.Priority)
		}
	default: // SortByDate
		less = func(a, b Goal) bool { return a.AddedDate.Before(b.AddedDate) }
	}

	if direction == Descending {
		inner := less
		less = func(a, b Goal) bool { return inner(b, a) }
	}

	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// SortByOrder sorts by a combined "criteria_direction" string, falling back
// to the default order if the string is invalid.
func SortByOrder(list []Goal, order string) []Goal {
	criterion, direction, err := ParseSortOrder(order)
	if err != nil {
		criterion, direction, _ = ParseSortOrder(DefaultSortOrder)
	}
	return Sort(list, criterion, direction)
}
