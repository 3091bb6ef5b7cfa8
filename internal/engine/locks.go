package engine

import "sync"

// goalLocks serializes mutating operations per goal. Two cascades racing on
// the same goal would compound their shifts, so every schedule write takes
// the goal's lock first.
type goalLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newGoalLocks() *goalLocks {
	return &goalLocks{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for a goal, creating it on first use.
// The returned function releases it.
func (g *goalLocks) Lock(goalID string) func() {
	g.mu.Lock()
	l, ok := g.locks[goalID]
	if !ok {
		l = &sync.Mutex{}
		g.locks[goalID] = l
	}
	g.mu.Unlock()

	l.Lock()
	return l.Unlock
}
