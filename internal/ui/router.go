package ui

import "sync"

const (
	PathProducts = "/"
	PathLogin    = "/login"
	PathRegister = "/register"
)

// Router tracks the current view and the views visited before it.
type Router struct {
	mu      sync.Mutex
	current string
	history []string
}

func NewRouter() *Router {
	return &Router{current: PathProducts}
}

func (r *Router) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.current
}

// Navigate shows path and remembers the view it was reached from.
// Navigating to the current view is a no-op.
func (r *Router) Navigate(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if path == r.current {
		return
	}

	r.history = append(r.history, r.current)
	r.current = path
}

// Back returns to the previous view, or to the products view when there is
// no history.
func (r *Router) Back() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if n := len(r.history); n > 0 {
		r.current = r.history[n-1]
		r.history = r.history[:n-1]
	} else {
		r.current = PathProducts
	}

	return r.current
}

// Reset jumps to path and forgets the history.
func (r *Router) Reset(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.current = path
	r.history = nil
}
