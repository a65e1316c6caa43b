package identity

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("any-key"))
	require.NoError(t, err)
	return s
}

func TestDecode_ExtractsClaims(t *testing.T) {
	tok := signed(t, jwt.MapClaims{
		"sub":     "10769150350006150715113082367",
		"email":   "ana@example.com",
		"name":    "Ana",
		"picture": "https://example.com/ana.png",
		"iss":     "https://accounts.google.com",
	})

	id, err := Decode(tok)
	require.NoError(t, err)
	assert.Equal(t, Identity{
		Subject: "10769150350006150715113082367",
		Email:   "ana@example.com",
		Name:    "Ana",
		Picture: "https://example.com/ana.png",
	}, id)
	assert.Equal(t, "ana@example.com", id.DisplayName())
}

func TestDecode_ExpiredTokenStillDecodes(t *testing.T) {
	tok := signed(t, jwt.MapClaims{"sub": "1", "email": "a@b.c", "exp": 1})

	_, err := Decode(tok)
	require.NoError(t, err)
}

func TestDecode_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: "  "},
		{name: "garbage", token: "not-a-jwt"},
		{name: "missing email", token: signed(t, jwt.MapClaims{"sub": "1"})},
		{name: "missing sub", token: signed(t, jwt.MapClaims{"email": "a@b.c"})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.token)
			require.ErrorIs(t, err, ErrInvalidIDToken)
		})
	}
}

func TestDisplayName_Fallback(t *testing.T) {
	var nilID *Identity
	assert.Equal(t, "user", nilID.DisplayName())
	assert.Equal(t, "user", (&Identity{Subject: "1"}).DisplayName())
}
