// Package nav moves a tab between portal pages.
//
// A transition is an HTTP 303 redirect. A destination may declare a typed
// payload with Route[S]; GoWith stashes the payload in the tab session and
// the destination's first render consumes it with Take. A reload after that
// finds nothing, so payloads never outlive the transition that carried them.
package nav
