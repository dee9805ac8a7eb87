package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"

	"github.com/marudhara-crafts/catalog-sync/internal/core/domain"
)

type stubRemoteAuth struct {
	loginErr    error
	logoutErr   error
	loginCalls  int
	logoutCalls int
}

func (r *stubRemoteAuth) Login(_ context.Context, _ string) error {
	r.loginCalls++
	return r.loginErr
}

func (r *stubRemoteAuth) Logout(_ context.Context) error {
	r.logoutCalls++
	return r.logoutErr
}

func TestSessionGate_StartsUnauthenticated(t *testing.T) {
	gate := NewSessionGate(&stubRemoteAuth{}, zerolog.Nop())
	if gate.Authenticated() {
		t.Fatalf("gate must start unauthenticated")
	}
}

func TestSessionGate_LoginSuccess(t *testing.T) {
	gate := NewSessionGate(&stubRemoteAuth{}, zerolog.Nop())
	if err := gate.Login(context.Background(), "secret"); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if !gate.Authenticated() {
		t.Fatalf("expected authenticated after successful login")
	}
}

func TestSessionGate_LoginFailure(t *testing.T) {
	remote := &stubRemoteAuth{loginErr: fmt.Errorf("%w: status 401", domain.ErrUnauthorized)}
	gate := NewSessionGate(remote, zerolog.Nop())

	err := gate.Login(context.Background(), "wrong")
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if gate.Authenticated() {
		t.Fatalf("failed login must leave the gate unauthenticated")
	}
}

func TestSessionGate_LoginNetworkFailureSurfacesAsAuth(t *testing.T) {
	remote := &stubRemoteAuth{loginErr: fmt.Errorf("%w: connection refused", domain.ErrNetwork)}
	gate := NewSessionGate(remote, zerolog.Nop())

	err := gate.Login(context.Background(), "secret")
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("any login failure reports AuthError, got %v", err)
	}
}

func TestSessionGate_LogoutIsBestEffort(t *testing.T) {
	remote := &stubRemoteAuth{logoutErr: errors.New("backend down")}
	gate := NewSessionGate(remote, zerolog.Nop())
	if err := gate.Login(context.Background(), "secret"); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	if err := gate.Logout(context.Background()); err != nil {
		t.Fatalf("logout must succeed locally regardless of remote outcome: %v", err)
	}
	if gate.Authenticated() {
		t.Fatalf("expected unauthenticated after logout")
	}
	if remote.logoutCalls != 1 {
		t.Fatalf("expected one remote logout call, got %d", remote.logoutCalls)
	}
}

func TestSessionGate_Invalidate(t *testing.T) {
	gate := NewSessionGate(&stubRemoteAuth{}, zerolog.Nop())
	if err := gate.Login(context.Background(), "secret"); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	gate.Invalidate()
	if gate.Authenticated() {
		t.Fatalf("expected unauthenticated after Invalidate")
	}
}
