// Package session carries the caller's already-authenticated identity
//
// The token is issued and verified elsewhere; this package only reads the
// player identity out of its claims and attaches the token to outgoing
// requests as the ambient credential.
package session

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	jwt "github.com/form3tech-oss/jwt-go"
)

// Claim names searched for the player identity, in order
var playerClaims = []string{"username", "preferred_username", "name", "sub"}

var (
	ErrMalformedToken = errors.New("malformed session token")
	ErrNoIdentity     = errors.New("session token carries no player identity")
)

// Session is a resolved caller identity
// Zero value is an anonymous session
type Session struct {
	Token  string
	Player string
}

// Anonymous reports whether the session has no credential
func (s Session) Anonymous() bool {
	return s.Token == ""
}

// Authorize attaches the session credential to a request
func (s Session) Authorize(req *http.Request) {
	s.Apply(req.Header)
}

// Apply sets the bearer credential on a header set, used for websocket handshakes
func (s Session) Apply(h http.Header) {
	if s.Token == "" {
		return
	}
	h.Set("Authorization", "Bearer "+s.Token)
}

// Parse resolves a session from a bearer token without verifying its signature
// An empty token yields an anonymous session
func Parse(token string) (Session, error) {
	token = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(token), "Bearer "))
	if token == "" {
		return Session{}, nil
	}

	claims := jwt.MapClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(token, claims); err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	for _, name := range playerClaims {
		if v, ok := claims[name].(string); ok && v != "" {
			return Session{Token: token, Player: v}, nil
		}
	}
	return Session{}, ErrNoIdentity
}

// WithPlayer returns an anonymous-token session naming a player, used when the host resolves identity itself
func WithPlayer(player string) Session {
	return Session{Player: player}
}
