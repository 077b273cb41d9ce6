package portal

import "github.com/yndnr/dms-portal/internal/session"

// GateState is the outcome of a guard check.
type GateState int

const (
	// GateChecking is the undecided zero value. A check never returns it.
	GateChecking GateState = iota
	// GateAuthorized lets the page render.
	GateAuthorized
	// GateRedirecting sends the tab to the login page.
	GateRedirecting
)

// String returns the state name used in logs and metrics.
func (s GateState) String() string {
	switch s {
	case GateAuthorized:
		return "authorized"
	case GateRedirecting:
		return "redirecting"
	default:
		return "checking"
	}
}

// LoginPath is where unauthenticated tabs are sent.
const LoginPath = "/"

// Guard decides whether a protected page may render.
type Guard struct{}

// Check reports GateAuthorized when sess holds a token, GateRedirecting otherwise.
// It only reads the session.
func (Guard) Check(sess *session.Session) GateState {
	if sess == nil {
		return GateRedirecting
	}
	if _, ok := sess.Token(); ok {
		return GateAuthorized
	}
	return GateRedirecting
}
