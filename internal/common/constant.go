// Package common contains constants shared by the client's transport,
// storage and session layers.
package common

const (
	// AuthorizationHeaderName carries the bearer credential on outbound requests.
	AuthorizationHeaderName = "Authorization"

	// BearerPrefix precedes the credential in the Authorization header.
	BearerPrefix = "Bearer "

	// RequestIDHeaderName correlates client log lines with backend requests.
	RequestIDHeaderName = "X-Request-ID"

	// CredentialKey is the single durable slot holding the session credential.
	CredentialKey = "credit-monitor-token"

	// IdentityKey caches the decoded identity next to the credential so the
	// prompt can show who is logged in after a restart.
	IdentityKey = "credit-monitor-identity"
)
