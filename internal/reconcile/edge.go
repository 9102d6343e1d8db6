package reconcile

import "github.com/smart-office/dashboard/backend/internal/model"

type Edge int

const (
	EdgeNone Edge = iota
	EdgeRising
	EdgeFalling
)

// EdgeTracker remembers the previous value of each signal. Unseen signals start false.
type EdgeTracker struct {
	prev map[model.Signal]bool
}

func NewEdgeTracker() *EdgeTracker {
	return &EdgeTracker{prev: map[model.Signal]bool{}}
}

// Observe records value and reports the transition from the previous observation.
func (t *EdgeTracker) Observe(signal model.Signal, value bool) Edge {
	before := t.prev[signal]
	t.prev[signal] = value
	switch {
	case !before && value:
		return EdgeRising
	case before && !value:
		return EdgeFalling
	default:
		return EdgeNone
	}
}
