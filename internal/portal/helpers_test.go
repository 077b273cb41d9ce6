package portal

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/yndnr/dms-portal/internal/core/domain"
	"github.com/yndnr/dms-portal/internal/gateway"
	"github.com/yndnr/dms-portal/internal/session"
	"github.com/yndnr/dms-portal/internal/telemetry/logger"
)

const testSecret = "portal-test-secret-0123456789"

// testEnv is a portal wired to a fake backend and an in-memory session store.
type testEnv struct {
	t        *testing.T
	backend  *httptest.Server
	store    *session.MemoryBackend
	sessions *session.Registry
	deps     Deps
	table    *Table
}

func newTestEnv(t *testing.T, backend http.Handler) *testEnv {
	t.Helper()

	server := httptest.NewServer(backend)
	t.Cleanup(server.Close)

	codec, err := session.NewCookieCodec("", testSecret, false)
	if err != nil {
		t.Fatalf("NewCookieCodec() error = %v", err)
	}
	store := session.NewMemoryBackend(0)
	sessions := session.NewRegistry(store, codec, nil)

	views, err := LoadViews()
	if err != nil {
		t.Fatalf("LoadViews() error = %v", err)
	}

	deps := Deps{
		Sessions: sessions,
		API:      gateway.New(gateway.Config{BaseURL: server.URL}),
		Views:    views,
		Logger:   logger.Nop(),
	}
	table, err := Routes(deps)
	if err != nil {
		t.Fatalf("Routes() error = %v", err)
	}
	return &testEnv{t: t, backend: server, store: store, sessions: sessions, deps: deps, table: table}
}

// login stores a tab session holding tok and returns its cookie.
func (e *testEnv) login(tok domain.Token) *http.Cookie {
	e.t.Helper()
	ctx := context.Background()
	s, err := e.sessions.Load(ctx, httptest.NewRequest(http.MethodGet, "/", nil))
	if err != nil {
		e.t.Fatalf("Load() error = %v", err)
	}
	s.SetToken(tok)
	rec := httptest.NewRecorder()
	if err := e.sessions.Save(ctx, rec, s); err != nil {
		e.t.Fatalf("Save() error = %v", err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		e.t.Fatalf("Save() wrote %d cookies, want 1", len(cookies))
	}
	return cookies[0]
}

// session loads the tab session that cookie names.
func (e *testEnv) session(cookie *http.Cookie) *session.Session {
	e.t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	s, err := e.sessions.Load(context.Background(), req)
	if err != nil {
		e.t.Fatalf("Load() error = %v", err)
	}
	return s
}

func (e *testEnv) get(path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	e.table.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) post(path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	e.table.ServeHTTP(rec, req)
	return rec
}

// cookieFrom returns the tab cookie set on rec, if any.
func cookieFrom(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.DefaultCookieName {
			return c
		}
	}
	return nil
}

func assertRedirect(t *testing.T, rec *httptest.ResponseRecorder, want string) {
	t.Helper()
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303; body = %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Location"); got != want {
		t.Errorf("Location = %q, want %q", got, want)
	}
}

// unusedBackend fails the test on any backend call.
func unusedBackend(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected backend call %s %s", r.Method, r.URL.Path)
		w.WriteHeader(http.StatusTeapot)
	})
}
