// Package screens holds the state machines behind the list and detail views.
// A screen owns its view state and talks to the planet service only through
// the small interfaces declared here.
package screens

import "context"

// guard tracks which load is current and whether the screen is still
// mounted. Callers hold the screen mutex around every method except bind.
type guard struct {
	ctx    context.Context
	cancel context.CancelFunc
	gen    uint64
	closed bool
}

func newGuard() guard {
	ctx, cancel := context.WithCancel(context.Background())
	return guard{ctx: ctx, cancel: cancel}
}

// begin starts a new generation and returns a context that ends with
// either the parent or the screen.
func (g *guard) begin(parent context.Context) (uint64, context.Context, context.CancelFunc) {
	g.gen++
	ctx, cancel := g.bind(parent)
	return g.gen, ctx, cancel
}

func (g *guard) bind(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	stop := context.AfterFunc(g.ctx, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

func (g *guard) current(gen uint64) bool {
	return !g.closed && gen == g.gen
}

func (g *guard) close() {
	g.closed = true
	g.cancel()
}
