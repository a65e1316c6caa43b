// Package client is the authenticated transport of the Credit Monitor client.
//
// # Overview
//
// The package provides:
//  1. The backend contract (see the Client interface): Ping, ValidateToken,
//     Login and GetJSON.
//  2. APIClient, the one HTTP client of the application. Its RoundTripper is
//     a middleware chain registered once at construction: a request id, the
//     bearer credential read from a TokenSource, and the auth-failure
//     interceptor that reports every 401/403 to an AuthFailureHandler no
//     matter which component issued the request, together with the
//     credential that request carried.
//  3. Local database bootstrap (InitDatabase, RunMigrations) wiring SQLite
//     and the embedded goose migrations.
//
// # Error Handling
//
// Transport failures wrap ErrUnavailable. Non-2xx responses are returned as
// *StatusError, which unwraps to ErrUnauthorized (401/403), ErrUnavailable
// (5xx) or ErrUnexpectedStatus, so callers match with errors.Is.
//
// APIClient is safe for concurrent use. All operations honor context
// cancellation.
package client
