package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-secret"

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := GenerateAccessToken("user-1", "org-1", testSecret, "onyx", time.Hour)
	require.NoError(t, err)

	claims, err := ParseAccessToken(token, testSecret, "onyx")
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "org-1", claims.Organization)
}

func TestParseAccessToken_Rejects(t *testing.T) {
	valid, err := GenerateAccessToken("user-1", "org-1", testSecret, "onyx", time.Hour)
	require.NoError(t, err)
	expired, err := GenerateAccessToken("user-1", "org-1", testSecret, "onyx", -time.Minute)
	require.NoError(t, err)
	noOrg, err := GenerateAccessToken("user-1", "", testSecret, "onyx", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		token  string
		secret string
		issuer string
		want   error
	}{
		{"wrong secret", valid, "other-secret", "onyx", jwt.ErrTokenSignatureInvalid},
		{"wrong issuer", valid, testSecret, "someone-else", jwt.ErrTokenInvalidIssuer},
		{"expired", expired, testSecret, "onyx", jwt.ErrTokenExpired},
		{"missing organization", noOrg, testSecret, "onyx", ErrIncompleteClaims},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAccessToken(tt.token, tt.secret, tt.issuer)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err = ParseAccessToken("not.a.token", testSecret, "")
	assert.Error(t, err)
}
