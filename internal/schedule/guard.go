package schedule

import "sync"

// Guard hands out increasing request tokens so that a slow response from an
// older request cannot overwrite the result of a newer one.
type Guard struct {
	mu     sync.Mutex
	latest uint64
}

// Next starts a request and returns its token.
func (g *Guard) Next() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.latest++
	return g.latest
}

// Current reports whether token belongs to the newest request.
func (g *Guard) Current(token uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return token == g.latest
}

// Commit runs apply only if token is still the newest request.
func (g *Guard) Commit(token uint64, apply func()) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if token != g.latest {
		return false
	}
	apply()
	return true
}
