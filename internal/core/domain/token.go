package domain

import "strings"

// Token is the opaque credential returned by the backend on login.
// The zero value means "absent": the tab is not authenticated.
type Token string

// Present reports whether the token holds a credential.
func (t Token) Present() bool {
	return strings.TrimSpace(string(t)) != ""
}

// String returns the raw token value.
func (t Token) String() string {
	return string(t)
}

// Masked returns a log-safe rendering of the token.
func (t Token) Masked() string {
	s := string(t)
	if len(s) <= 8 {
		return "****"
	}
	return s[:3] + "..." + s[len(s)-3:]
}
