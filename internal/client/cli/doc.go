// Package cli provides the interactive Credit Monitor command-line client.
//
// It wires configuration, local storage, the authenticated transport, the
// session store, the connectivity monitor and the navigator, and runs an
// interactive REPL on top of them. Typical flow: wait for the first
// reachability check (the loading view), restore the persisted session,
// then render whatever view the guard allows.
//
// Key features:
//   - Login with a Google ID token / Logout
//   - Credits dashboard and the contract charts (credits, payments,
//     installments, messages, offers) with unit, date and filter controls
//   - Automatic redirect to the offline view and back to the entry flow
//   - Forced logout when the backend rejects the credential
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, runREPL and render for details.
package cli
