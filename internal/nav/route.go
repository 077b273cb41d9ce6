package nav

import (
	"encoding/json"

	"github.com/yndnr/dms-portal/internal/core/domain"
	"github.com/yndnr/dms-portal/internal/session"
)

// payloadPrefix namespaces navigation payloads in the tab session.
const payloadPrefix = "nav:"

// Route names a destination that accepts a payload of type S.
type Route[S any] struct {
	path string
}

// NewRoute declares a destination at path carrying S.
func NewRoute[S any](path string) Route[S] {
	return Route[S]{path: path}
}

// Path returns the destination path.
func (r Route[S]) Path() string {
	return r.path
}

func (r Route[S]) key() string {
	return payloadPrefix + r.path
}

// GoWith stashes state for route's next render and navigates there.
// A later GoWith to the same route replaces an unconsumed payload.
func GoWith[S any](n *Navigator, route Route[S], state S) error {
	data, err := json.Marshal(state)
	if err != nil {
		return domain.ErrPayloadInvalid.WithDetails(route.path).WithCause(err)
	}
	n.sess.Set(route.key(), string(data))
	n.Go(route.path)
	return nil
}

// Take returns and removes the payload stashed for route.
// It reports false when nothing was stashed or the payload does not decode.
func Take[S any](sess *session.Session, route Route[S]) (S, bool) {
	var state S
	raw, ok := sess.Get(route.key())
	if !ok {
		return state, false
	}
	sess.Delete(route.key())
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return state, false
	}
	return state, true
}
