package server

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
)

// ErrUnauthorized is returned by a Gate that rejects a request.
var ErrUnauthorized = errors.New("unauthorized")

// Gate decides whether a request may reach the catalog.
type Gate interface {
	Allow(r *http.Request) error
}

// GateFunc adapts a function to Gate.
type GateFunc func(r *http.Request) error

// Allow implements Gate.
func (f GateFunc) Allow(r *http.Request) error { return f(r) }

// AllowAll admits every request.
type AllowAll struct{}

// Allow implements Gate.
func (AllowAll) Allow(*http.Request) error { return nil }

// TokenGate admits requests carrying "Authorization: Bearer <Token>".
type TokenGate struct {
	Token string
}

// Allow implements Gate. An empty Token rejects everything.
func (g TokenGate) Allow(r *http.Request) error {
	if g.Token == "" {
		return ErrUnauthorized
	}
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ErrUnauthorized
	}
	if subtle.ConstantTimeCompare([]byte(strings.TrimSpace(token)), []byte(g.Token)) != 1 {
		return ErrUnauthorized
	}
	return nil
}

// GateFor returns TokenGate for a non-empty token and AllowAll otherwise.
func GateFor(token string) Gate {
	if token == "" {
		return AllowAll{}
	}
	return TokenGate{Token: token}
}
