// Package services contains application services for the Credit Monitor
// client. This file defines the authentication service: the Google ID-token
// exchange, logout, and the current-user view used by the prompt.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/creditmonitor/internal/client/client"
	"github.com/dmitrijs2005/creditmonitor/internal/client/identity"
	"github.com/dmitrijs2005/creditmonitor/internal/client/session"
	"github.com/dmitrijs2005/creditmonitor/internal/logging"
)

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - LoginWithGoogle: decode the ID token, exchange it for a backend
//     credential and hand both to the session store. On failure the session
//     is left untouched.
//   - Logout: end the session. Safe to call when already logged out.
//   - CurrentUser: the identity of the valid session, or nil.
//
// All methods must honor context cancellation/timeouts.
type AuthService interface {
	LoginWithGoogle(ctx context.Context, idToken string) (*identity.Identity, error)
	Logout(ctx context.Context) error
	CurrentUser() *identity.Identity
}

// SessionManager is the part of the session store the service drives.
type SessionManager interface {
	Login(ctx context.Context, cred session.Credential, id *identity.Identity) error
	Logout(ctx context.Context) error
	Snapshot() session.State
}

type authService struct {
	client  client.Client
	session SessionManager
	logger  logging.Logger
}

// NewAuthService constructs an AuthService bound to the API client and the
// session store.
func NewAuthService(c client.Client, s SessionManager, logger logging.Logger) AuthService {
	if logger == nil {
		logger = logging.Nop()
	}
	return &authService{client: c, session: s, logger: logger.With("component", "auth")}
}

func (a *authService) LoginWithGoogle(ctx context.Context, idToken string) (*identity.Identity, error) {
	id, err := identity.Decode(idToken)
	if err != nil {
		return nil, err
	}

	cred, err := a.client.Login(ctx, idToken)
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			a.logger.Warn(ctx, "identity token rejected by backend", "email", id.Email)
		}
		return nil, fmt.Errorf("login exchange: %w", err)
	}

	if err := a.session.Login(ctx, session.Credential(cred), &id); err != nil {
		return nil, err
	}

	a.logger.Info(ctx, "login exchange completed", "email", id.Email)
	return &id, nil
}

func (a *authService) Logout(ctx context.Context) error {
	return a.session.Logout(ctx)
}

func (a *authService) CurrentUser() *identity.Identity {
	st := a.session.Snapshot()
	if st.Status != session.StatusValid {
		return nil
	}
	return st.Identity
}
