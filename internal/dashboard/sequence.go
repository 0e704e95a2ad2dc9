package dashboard

import (
	"context"
	"errors"
	"sync"
)

var ErrStaleResponse = errors.New("stale response discarded")

// Token identifies one request issued through a Guard.
type Token uint64

// Guard orders the requests of a single data slot. Starting a request cancels
// the one before it, and only the latest request may commit its result.
type Guard struct {
	mu     sync.Mutex
	seq    Token
	cancel context.CancelFunc
}

func (g *Guard) Begin(ctx context.Context) (context.Context, Token) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.cancel != nil {
		g.cancel()
	}
	g.seq++
	reqCtx, cancel := context.WithCancel(ctx)
	g.cancel = cancel
	return reqCtx, g.seq
}

func (g *Guard) IsCurrent(token Token) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return token == g.seq
}

// Done releases the context of token after a failed request. Superseded
// tokens are ignored since Begin already cancelled them.
func (g *Guard) Done(token Token) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if token == g.seq && g.cancel != nil {
		g.cancel()
		g.cancel = nil
	}
}

// Reset cancels the request in flight and makes its token stale.
func (g *Guard) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.cancel != nil {
		g.cancel()
		g.cancel = nil
	}
	g.seq++
}

// Commit runs apply only while token is still the latest request.
func (g *Guard) Commit(token Token, apply func()) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if token != g.seq {
		return ErrStaleResponse
	}
	apply()
	if g.cancel != nil {
		g.cancel()
		g.cancel = nil
	}
	return nil
}
