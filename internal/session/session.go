// Package session carries the authenticated user identity explicitly.
//
// The session is a plain value passed into the validator and submitter
// rather than read from ambient storage, so tests can construct any
// authentication state directly.
package session

// Session identifies the signed-in user for a request.
type Session struct {
	UserID string
	Token  string // Bearer token for the venue API
}

// Anonymous is the zero session, used before sign-in.
var Anonymous = Session{}

// Authenticated reports whether the session carries a usable token.
func (s Session) Authenticated() bool {
	return s.Token != ""
}
