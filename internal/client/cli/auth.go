package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/creditmonitor/internal/client/client"
	"github.com/dmitrijs2005/creditmonitor/internal/client/identity"
)

// getSecret is an indirection used to facilitate testing. It points to the
// interactive input helper and can be swapped in tests.
var getSecret = GetSecret

// Login prompts for a Google ID token (without echo) and exchanges it for a
// backend session. On success the navigator moves on to the dashboard.
func (a *App) Login(ctx context.Context) error {
	if u := a.authService.CurrentUser(); u != nil {
		fmt.Fprintf(a.out, "Already logged in as %s\n", u.DisplayName())
		return nil
	}

	idToken, err := getSecret(a.reader, "Paste your Google ID token: ", a.out)
	if err != nil {
		return err
	}

	// the session change moves the navigator too; hold rendering until this
	// command has shown the result itself
	a.viewMu.Lock()
	defer a.viewMu.Unlock()

	id, err := a.authService.LoginWithGoogle(ctx, idToken)
	if err != nil {
		switch {
		case errors.Is(err, identity.ErrInvalidIDToken):
			fmt.Fprintln(a.out, "That does not look like a Google ID token.")
		case errors.Is(err, client.ErrUnauthorized):
			fmt.Fprintln(a.out, "The backend rejected this Google account.")
		case errors.Is(err, client.ErrUnavailable):
			fmt.Fprintln(a.out, "Server unavailable, try again later.")
		default:
			fmt.Fprintf(a.out, "Login unsuccessful: %s\n", err)
		}
		a.logger.Warn(ctx, "login failed", "error", err)
		return err
	}

	fmt.Fprintf(a.out, "Logged in as %s\n", id.DisplayName())
	a.showLocked(ctx, a.nav.Reevaluate())
	return nil
}

// Logout ends the session. Calling it while logged out is harmless.
func (a *App) Logout(ctx context.Context) error {
	a.viewMu.Lock()
	defer a.viewMu.Unlock()

	if err := a.authService.Logout(ctx); err != nil {
		fmt.Fprintf(a.out, "Logout failed: %s\n", err)
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	a.showLocked(ctx, a.nav.Reevaluate())
	return nil
}
