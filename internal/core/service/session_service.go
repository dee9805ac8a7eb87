package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/marudhara-crafts/catalog-sync/internal/core/domain"
	"github.com/marudhara-crafts/catalog-sync/internal/core/ports"
)

// SessionGate tracks the operator's authentication state. It starts
// unauthenticated; a successful login flips it on, logout or any
// unauthorized response from a mutation flips it off. The session
// credential itself is an opaque cookie held by the transport.
type SessionGate struct {
	remote ports.RemoteAuth
	logger zerolog.Logger

	mu            sync.Mutex
	authenticated bool
}

func NewSessionGate(remote ports.RemoteAuth, logger zerolog.Logger) *SessionGate {
	return &SessionGate{remote: remote, logger: logger}
}

// Login authenticates against the remote endpoint. Any non-success outcome
// (wrong password included) leaves the gate unauthenticated and returns an
// ErrUnauthorized-wrapped error.
func (g *SessionGate) Login(ctx context.Context, password string) error {
	if err := g.remote.Login(ctx, password); err != nil {
		g.set(false)
		g.logger.Warn().Err(err).Msg("admin login failed")
		if !errors.Is(err, domain.ErrUnauthorized) {
			return fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
		}
		return err
	}
	g.set(true)
	g.logger.Info().Msg("admin session established")
	return nil
}

// Logout drops the session. The remote call is best-effort: whatever it
// returns, the gate is unauthenticated afterwards and Logout reports
// success.
func (g *SessionGate) Logout(ctx context.Context) error {
	if err := g.remote.Logout(ctx); err != nil {
		g.logger.Warn().Err(err).Msg("remote logout failed, dropping session locally")
	}
	g.set(false)
	return nil
}

// Authenticated reports the current gate state.
func (g *SessionGate) Authenticated() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.authenticated
}

// Invalidate drops the local session without a remote call. Mutations call
// it when the remote answers 401.
func (g *SessionGate) Invalidate() {
	g.set(false)
}

func (g *SessionGate) set(v bool) {
	g.mu.Lock()
	g.authenticated = v
	g.mu.Unlock()
}
