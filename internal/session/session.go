package session

import (
	"crypto/rand"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/yndnr/dms-portal/internal/core/domain"
)

// TokenKey is the session key holding the backend credential.
const TokenKey = "token"

// IDPrefix is the prefix of tab session IDs.
const IDPrefix = "tab-"

// ID identifies one tab session.
type ID string

// NewID generates a tab session ID.
// Format: tab-{ulid_lowercase}.
func NewID() (ID, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", domain.ErrInternal.WithCause(err)
	}
	return ID(IDPrefix + strings.ToLower(id.String())), nil
}

// Valid reports whether id has the tab session ID format.
func (id ID) Valid() bool {
	s := string(id)
	if !strings.HasPrefix(s, IDPrefix) {
		return false
	}
	_, err := ulid.ParseStrict(strings.ToUpper(s[len(IDPrefix):]))
	return err == nil
}

// Session is the key-value store of one browser session, as seen by one
// request. Edits are recorded so that saving applies only what this request
// changed.
type Session struct {
	id      ID
	values  map[string]string
	changes Changes
	fresh   bool
}

// Changes lists the edits a request made to a session.
// Cleared wipes the stored values before Set and Deleted are applied.
type Changes struct {
	Cleared bool
	Set     map[string]string
	Deleted []string
}

// Empty reports whether c changes nothing.
func (c Changes) Empty() bool {
	return !c.Cleared && len(c.Set) == 0 && len(c.Deleted) == 0
}

// Apply returns values with c applied. values is modified in place unless
// it is nil.
func (c Changes) Apply(values map[string]string) map[string]string {
	if values == nil {
		values = make(map[string]string, len(c.Set))
	}
	if c.Cleared {
		clear(values)
	}
	for _, k := range c.Deleted {
		delete(values, k)
	}
	for k, v := range c.Set {
		values[k] = v
	}
	return values
}

// New wraps values loaded for id. A nil map starts an empty session.
func New(id ID, values map[string]string) *Session {
	if values == nil {
		values = make(map[string]string)
	}
	return &Session{id: id, values: values}
}

func newFresh(id ID) *Session {
	s := New(id, nil)
	s.fresh = true
	return s
}

// ID returns the tab session ID.
func (s *Session) ID() ID {
	return s.id
}

// Token returns the current backend token, or false when absent.
func (s *Session) Token() (domain.Token, bool) {
	tok := domain.Token(s.values[TokenKey])
	if !tok.Present() {
		return "", false
	}
	return tok, true
}

// SetToken stores tok for the remainder of the tab session.
// An absent token removes the key.
func (s *Session) SetToken(tok domain.Token) {
	if !tok.Present() {
		s.Delete(TokenKey)
		return
	}
	s.Set(TokenKey, tok.String())
}

// Clear removes the token and every other session-scoped value.
// Calling it on an empty session leaves it unchanged.
func (s *Session) Clear() {
	if len(s.values) == 0 {
		return
	}
	clear(s.values)
	s.changes = Changes{Cleared: true}
}

// Get returns the value stored under key.
func (s *Session) Get(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Set stores value under key.
func (s *Session) Set(key, value string) {
	if old, ok := s.values[key]; ok && old == value {
		return
	}
	s.values[key] = value
	if s.changes.Set == nil {
		s.changes.Set = make(map[string]string)
	}
	s.changes.Set[key] = value
	s.changes.Deleted = slices.DeleteFunc(s.changes.Deleted, func(k string) bool { return k == key })
}

// Delete removes key.
func (s *Session) Delete(key string) {
	if _, ok := s.values[key]; !ok {
		return
	}
	delete(s.values, key)
	delete(s.changes.Set, key)
	if !slices.Contains(s.changes.Deleted, key) {
		s.changes.Deleted = append(s.changes.Deleted, key)
	}
}

// Keys returns the stored keys in sorted order.
func (s *Session) Keys() []string {
	return slices.Sorted(maps.Keys(s.values))
}

// Len returns the number of stored values.
func (s *Session) Len() int {
	return len(s.values)
}

// Dirty reports whether the session changed since it was loaded.
func (s *Session) Dirty() bool {
	return !s.changes.Empty()
}

// Fresh reports whether the session was created during this request.
func (s *Session) Fresh() bool {
	return s.fresh
}

// Snapshot returns a copy of the stored values.
func (s *Session) Snapshot() map[string]string {
	return maps.Clone(s.values)
}

// Changes returns the edits made since the session was loaded or saved.
func (s *Session) Changes() Changes {
	return Changes{
		Cleared: s.changes.Cleared,
		Set:     maps.Clone(s.changes.Set),
		Deleted: slices.Clone(s.changes.Deleted),
	}
}

func (s *Session) markSaved() {
	s.changes = Changes{}
	s.fresh = false
}
