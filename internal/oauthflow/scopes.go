package oauthflow

import "strings"

// Scope names a permission grant, e.g. "tweet.read".
type Scope string

// Scopes is an ordered list of scopes. Duplicates are passed through as-is.
type Scopes []Scope

// defaultScopes grants read/write access to tweets, follows and likes plus a refresh token.
var defaultScopes = Scopes{
	"tweet.read",
	"tweet.write",
	"users.read",
	"follows.read",
	"follows.write",
	"like.read",
	"like.write",
	"offline.access",
}

// DefaultScopes returns a copy of the default scope set.
func DefaultScopes() Scopes {
	return append(Scopes(nil), defaultScopes...)
}

// ParseScopes converts plain strings, skipping blanks.
func ParseScopes(values []string) Scopes {
	scopes := make(Scopes, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			scopes = append(scopes, Scope(v))
		}
	}
	return scopes
}

// Strings returns the scopes as plain strings.
func (s Scopes) Strings() []string {
	out := make([]string, len(s))
	for i, scope := range s {
		out[i] = string(scope)
	}
	return out
}

// String joins the scopes with spaces, the encoding the provider expects.
func (s Scopes) String() string {
	return strings.Join(s.Strings(), " ")
}
