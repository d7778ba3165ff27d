package session

import (
	"slices"
	"sync"
)

// Navigator is a stack of routes. The bottom of the stack is always a flow.
type Navigator struct {
	mu    sync.RWMutex
	stack []Route
}

// NewNavigator creates a navigator rooted at root.
func NewNavigator(root Route) *Navigator {
	return &Navigator{stack: []Route{root.Flow()}}
}

// Push opens route on top of the current one. Routes from another flow are ignored
// and reported as false; switching flows requires Reset.
func (n *Navigator) Push(route Route) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	if route.IsFlow() || route.Flow() != n.stack[0] {
		return false
	}
	n.stack = append(n.stack, route)
	return true
}

// Reset replaces the whole history with root, so Back cannot return to
// any screen shown before.
func (n *Navigator) Reset(root Route) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.stack = []Route{root.Flow()}
}

// Back pops the current route. It reports false when already at the root.
func (n *Navigator) Back() bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	if len(n.stack) <= 1 {
		return false
	}
	n.stack = n.stack[:len(n.stack)-1]
	return true
}

// Current returns the route on top of the stack.
func (n *Navigator) Current() Route {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.stack[len(n.stack)-1]
}

// Flow returns the flow at the bottom of the stack.
func (n *Navigator) Flow() Route {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.stack[0]
}

// History returns a copy of the stack, bottom first.
func (n *Navigator) History() []Route {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return slices.Clone(n.stack)
}
