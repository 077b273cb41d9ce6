package nav

import (
	"net/http"

	"github.com/yndnr/dms-portal/internal/session"
)

// Navigator issues page transitions for one request.
type Navigator struct {
	w    http.ResponseWriter
	r    *http.Request
	sess *session.Session
	dest string
}

// New creates a navigator writing to w on behalf of the tab owning sess.
func New(w http.ResponseWriter, r *http.Request, sess *session.Session) *Navigator {
	return &Navigator{w: w, r: r, sess: sess}
}

// Go sends the tab to path. path may carry a query string.
// Calling Go more than once in a request only honors the first call.
func (n *Navigator) Go(path string) {
	if n.dest != "" {
		return
	}
	n.dest = path
	http.Redirect(n.w, n.r, path, http.StatusSeeOther)
}

// Destination returns where the last Go sent the tab, or "" when the
// request rendered in place.
func (n *Navigator) Destination() string {
	return n.dest
}

// Navigated reports whether Go was called.
func (n *Navigator) Navigated() bool {
	return n.dest != ""
}

// Session returns the tab session the navigator stashes payloads into.
func (n *Navigator) Session() *session.Session {
	return n.sess
}
