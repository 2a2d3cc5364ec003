// Package session resolves the session identifier that scopes every
// backend call to one upload session.
package session

import (
	"errors"
	"net/url"
	"os"
	"strings"
)

// EnvVar is consulted when no explicit session ID is given.
const EnvVar = "MEMCART_SESSION"

// ErrNoSession is returned when no session ID can be resolved. Operations
// treat it as a precondition failure: no request is attempted, no retry.
var ErrNoSession = errors.New("No session ID found. Please upload photos first.")

// FromQuery extracts the session ID from a URL or a bare query string,
// mirroring how the browser UI reads it from the page location.
func FromQuery(raw string) (string, error) {
	if raw == "" {
		return "", ErrNoSession
	}

	q := raw
	if i := strings.IndexByte(raw, '?'); i >= 0 {
		q = raw[i+1:]
	}

	values, err := url.ParseQuery(q)
	if err != nil {
		return "", ErrNoSession
	}

	id := strings.TrimSpace(values.Get("session"))
	if id == "" {
		return "", ErrNoSession
	}
	return id, nil
}

// Resolve picks the session ID from an explicit value, then the
// environment. Values that look like a page URL or query string are
// routed through FromQuery, so a user can paste the browser address
// bar verbatim. An empty result is ErrNoSession.
func Resolve(explicit string) (string, error) {
	if s := strings.TrimSpace(explicit); s != "" {
		return fromValue(s)
	}
	if s := strings.TrimSpace(os.Getenv(EnvVar)); s != "" {
		return fromValue(s)
	}
	return "", ErrNoSession
}

func fromValue(s string) (string, error) {
	if strings.ContainsAny(s, "?=") {
		return FromQuery(s)
	}
	return s, nil
}
