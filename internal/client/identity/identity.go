// Package identity decodes the identity-provider (Google) ID token into a
// typed Identity. The token is not verified here: the backend verifies it
// during the login exchange, the client only reads display claims.
package identity

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidIDToken = errors.New("invalid identity token")

// Identity is the decoded, display-only view of who logged in. It is kept
// apart from the session credential on purpose and never used for access
// decisions.
type Identity struct {
	Subject string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
}

type googleClaims struct {
	jwt.RegisteredClaims
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// Decode extracts the Identity from a JWT-encoded ID token.
func Decode(idToken string) (Identity, error) {
	idToken = strings.TrimSpace(idToken)
	if idToken == "" {
		return Identity{}, fmt.Errorf("%w: empty token", ErrInvalidIDToken)
	}

	var claims googleClaims
	if _, _, err := jwt.NewParser().ParseUnverified(idToken, &claims); err != nil {
		return Identity{}, fmt.Errorf("%w: %w", ErrInvalidIDToken, err)
	}
	if claims.Subject == "" || claims.Email == "" {
		return Identity{}, fmt.Errorf("%w: sub and email claims are required", ErrInvalidIDToken)
	}

	return Identity{
		Subject: claims.Subject,
		Email:   claims.Email,
		Name:    claims.Name,
		Picture: claims.Picture,
	}, nil
}

// DisplayName is what the prompt shows for the logged-in user.
func (i *Identity) DisplayName() string {
	if i == nil || i.Email == "" {
		return "user"
	}
	return i.Email
}
