package console

import (
	"context"
	"errors"
	"strings"

	"github.com/debemdeboas/homeadmin/internal/config"
	"github.com/debemdeboas/homeadmin/internal/content"
)

// SessionGate tracks whether the operator is authenticated. Every mutation
// path checks it first.
type SessionGate struct {
	loop *eventLoop
	svc  Service

	authenticated bool
	listeners     []func(bool)
}

func newSessionGate(loop *eventLoop, svc Service) *SessionGate {
	return &SessionGate{loop: loop, svc: svc}
}

// onChange registers fn to run on the loop when the authenticated state flips.
func (g *SessionGate) onChange(fn func(bool)) {
	g.listeners = append(g.listeners, fn)
}

func (g *SessionGate) IsAuthenticated() bool {
	var v bool
	g.loop.run(func() { v = g.authenticated })
	return v
}

// Probe asks the service once whether a previous session is still valid. A
// failed probe is logged and leaves the gate unauthenticated.
func (g *SessionGate) Probe(ctx context.Context) bool {
	ok, err := g.svc.Status(ctx)
	if err != nil {
		consoleLogger.Warn().Err(err).Msg("Session probe failed")
		ok = false
	}
	g.loop.run(func() { g.setLocked(ok) })
	return ok
}

// Authenticate logs in with creds. Failures return an *AuthError and leave
// the current state untouched; nothing is retried.
func (g *SessionGate) Authenticate(ctx context.Context, creds content.Credentials) error {
	res, err := g.svc.Login(ctx, creds)
	if err != nil {
		consoleLogger.Warn().Err(err).Str("username", creds.Username).Msg("Login request failed")
		msg := config.ErrLoginFailed
		if errors.Is(err, content.ErrUnauthorized) {
			msg = config.ErrBadCredentials
		}
		return &AuthError{Message: msg, Err: err}
	}
	if !res.OK {
		msg := strings.TrimSpace(res.Error)
		if msg == "" {
			msg = config.ErrLoginFailed
		}
		consoleLogger.Info().Str("username", creds.Username).Str("reason", msg).Msg("Login rejected")
		return &AuthError{Message: msg}
	}

	g.loop.run(func() { g.setLocked(true) })
	consoleLogger.Info().Str("username", creds.Username).Msg("Operator authenticated")
	return nil
}

// Teardown ends the local session (logout or expiry).
func (g *SessionGate) Teardown() {
	g.loop.run(g.teardownLocked)
}

func (g *SessionGate) teardownLocked() {
	g.setLocked(false)
}

func (g *SessionGate) setLocked(v bool) {
	if g.authenticated == v {
		return
	}
	g.authenticated = v
	for _, fn := range g.listeners {
		fn(v)
	}
}
