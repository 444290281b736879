package session

import (
	"errors"
	"net/http"
	"testing"

	jwt "github.com/form3tech-oss/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func TestParseUsernameClaim(t *testing.T) {
	token := signToken(t, jwt.MapClaims{"sub": "user-1", "username": "alice"})

	s, err := Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", s.Player)
	assert.Equal(t, token, s.Token)
	assert.False(t, s.Anonymous())
}

func TestParseFallsBackToSubject(t *testing.T) {
	token := signToken(t, jwt.MapClaims{"sub": "user-42"})

	s, err := Parse("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, "user-42", s.Player)
	assert.Equal(t, token, s.Token, "bearer prefix is stripped")
}

func TestParseEmptyIsAnonymous(t *testing.T) {
	s, err := Parse("   ")
	require.NoError(t, err)
	assert.True(t, s.Anonymous())
	assert.Empty(t, s.Player)
}

func TestParseErrors(t *testing.T) {
	_, err := Parse("not-a-jwt")
	assert.True(t, errors.Is(err, ErrMalformedToken), "got %v", err)

	token := signToken(t, jwt.MapClaims{"role": "player"})
	_, err = Parse(token)
	assert.ErrorIs(t, err, ErrNoIdentity)
}

func TestAuthorize(t *testing.T) {
	req, err := http.NewRequest(http.MethodGet, "http://example.invalid", nil)
	require.NoError(t, err)

	Session{}.Authorize(req)
	assert.Empty(t, req.Header.Get("Authorization"))

	Session{Token: "abc"}.Authorize(req)
	assert.Equal(t, "Bearer abc", req.Header.Get("Authorization"))
}

func TestWithPlayerIsAnonymous(t *testing.T) {
	sess := WithPlayer("ada")
	assert.True(t, sess.Anonymous())
	assert.Equal(t, "ada", sess.Player)

	req, err := http.NewRequest(http.MethodGet, "http://example.invalid", nil)
	require.NoError(t, err)
	sess.Authorize(req)
	assert.Empty(t, req.Header.Get("Authorization"))
}
