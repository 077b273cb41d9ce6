package session

import (
	"context"
	"errors"
	"net/http"

	"github.com/yndnr/dms-portal/internal/core/domain"
	"github.com/yndnr/dms-portal/internal/telemetry/logger"
)

// Registry binds session cookies to backend-stored sessions.
type Registry struct {
	backend Backend
	cookie  *CookieCodec
	logger  logger.Logger
}

// NewRegistry creates a registry over backend.
// A nil log uses the default logger.
func NewRegistry(backend Backend, cookie *CookieCodec, log logger.Logger) *Registry {
	if log == nil {
		log = logger.Default()
	}
	return &Registry{backend: backend, cookie: cookie, logger: log}
}

// Backend returns the underlying backend.
func (g *Registry) Backend() Backend {
	return g.backend
}

// Load returns the session named by the cookie r carries.
//
// A missing, forged or expired cookie yields a fresh empty session rather
// than an error. Only backend failures are reported.
func (g *Registry) Load(ctx context.Context, r *http.Request) (*Session, error) {
	id, err := g.cookie.Read(r)
	if err != nil {
		if errors.Is(err, domain.ErrSessionCookieInvalid) {
			logger.ForContext(g.logger, ctx).Debug("discarding tab cookie", "error", err)
		}
		return g.fresh()
	}

	values, err := g.backend.Load(ctx, id)
	if errors.Is(err, domain.ErrSessionNotFound) {
		logger.ForContext(g.logger, ctx).Debug("tab session expired", "session_id", id)
		return g.fresh()
	}
	if err != nil {
		return nil, err
	}
	return New(id, values), nil
}

func (g *Registry) fresh() (*Session, error) {
	id, err := NewID()
	if err != nil {
		return nil, err
	}
	return newFresh(id), nil
}

// Save applies the edits made to s and writes the tab cookie when s is new.
// It must run before the response header is written.
//
// Only changed keys are written, so requests that overlap on one cookie
// keep each other's edits. A fresh session that holds nothing is not stored.
func (g *Registry) Save(ctx context.Context, w http.ResponseWriter, s *Session) error {
	if s == nil {
		return nil
	}
	if s.Fresh() && s.Len() == 0 {
		return nil
	}
	if !s.Dirty() && !s.Fresh() {
		return nil
	}
	if err := g.backend.Apply(ctx, s.ID(), s.Changes()); err != nil {
		return err
	}
	if s.Fresh() {
		g.cookie.Write(w, s.ID())
	}
	s.markSaved()
	return nil
}

// Destroy drops s from the backend and expires the tab cookie.
func (g *Registry) Destroy(ctx context.Context, w http.ResponseWriter, s *Session) error {
	s.Clear()
	g.cookie.Expire(w)
	if s.Fresh() {
		return nil
	}
	return g.backend.Delete(ctx, s.ID())
}

// Close closes the backend.
func (g *Registry) Close() error {
	return g.backend.Close()
}
