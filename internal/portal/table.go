package portal

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/yndnr/dms-portal/internal/core/domain"
	"github.com/yndnr/dms-portal/internal/gateway"
	"github.com/yndnr/dms-portal/internal/nav"
	"github.com/yndnr/dms-portal/internal/session"
	"github.com/yndnr/dms-portal/internal/telemetry/logger"
	"github.com/yndnr/dms-portal/internal/telemetry/metric"
)

// Match selects how an entry's pattern is compared to a path.
type Match int

const (
	// Exact matches the pattern only.
	Exact Match = iota
	// Prefix matches the pattern and any path below it.
	Prefix
)

// String returns "exact" or "prefix".
func (m Match) String() string {
	if m == Prefix {
		return "prefix"
	}
	return "exact"
}

// Entry maps a path pattern to a page.
type Entry struct {
	Pattern string
	Match   Match
	Guarded bool
	New     Constructor
}

// Deps are the collaborators shared by all pages.
type Deps struct {
	Sessions *session.Registry
	API      *gateway.Client
	Views    *Views
	Logger   logger.Logger
	Metrics  *metric.Registry
}

// Table resolves paths to entries and dispatches requests.
type Table struct {
	exact    map[string]Entry
	prefix   []Entry
	deps     Deps
	guard    Guard
	notFound Constructor
}

// NewTable creates an empty table.
func NewTable(deps Deps) *Table {
	if deps.Logger == nil {
		deps.Logger = logger.Default()
	}
	return &Table{
		exact:    make(map[string]Entry),
		deps:     deps,
		notFound: newNotFoundPage,
	}
}

// Add registers e. Patterns are unique across exact and prefix entries.
func (t *Table) Add(e Entry) error {
	if !strings.HasPrefix(e.Pattern, "/") {
		return domain.ErrInvalidArgument.WithDetails("pattern must start with /: " + e.Pattern)
	}
	if e.Pattern != "/" && strings.HasSuffix(e.Pattern, "/") {
		return domain.ErrInvalidArgument.WithDetails("pattern must not end with /: " + e.Pattern)
	}
	if e.New == nil {
		return domain.ErrInvalidArgument.WithDetails("entry has no page: " + e.Pattern)
	}
	if _, ok := t.lookup(e.Pattern); ok {
		return domain.ErrRouteConflict.WithDetails(e.Pattern)
	}

	switch e.Match {
	case Exact:
		t.exact[e.Pattern] = e
	case Prefix:
		t.prefix = append(t.prefix, e)
		// Longest pattern first.
		sort.SliceStable(t.prefix, func(i, j int) bool {
			return len(t.prefix[i].Pattern) > len(t.prefix[j].Pattern)
		})
	default:
		return domain.ErrInvalidArgument.WithDetails("unknown match kind " + strconv.Itoa(int(e.Match)))
	}
	return nil
}

func (t *Table) lookup(pattern string) (Entry, bool) {
	if e, ok := t.exact[pattern]; ok {
		return e, true
	}
	for _, e := range t.prefix {
		if e.Pattern == pattern {
			return e, true
		}
	}
	return Entry{}, false
}

// Entries returns all entries, exact ones first, each group sorted by pattern.
func (t *Table) Entries() []Entry {
	out := make([]Entry, 0, len(t.exact)+len(t.prefix))
	for _, e := range t.exact {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Pattern < out[j].Pattern })
	prefix := append([]Entry(nil), t.prefix...)
	sort.Slice(prefix, func(i, j int) bool { return prefix[i].Pattern < prefix[j].Pattern })
	return append(out, prefix...)
}

// Resolve finds the entry for path. Query string and fragment are ignored.
// Exact entries win; otherwise the longest prefix entry matching on a
// segment boundary is returned.
func (t *Table) Resolve(path string) (Entry, bool) {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		path = "/"
	}

	if e, ok := t.exact[path]; ok {
		return e, true
	}
	for _, e := range t.prefix {
		if prefixMatches(e.Pattern, path) {
			return e, true
		}
	}
	return Entry{}, false
}

func prefixMatches(pattern, path string) bool {
	if pattern == "/" {
		return true
	}
	return path == pattern || strings.HasPrefix(path, pattern+"/")
}

var allowedMethods = map[string]bool{
	http.MethodGet:  true,
	http.MethodHead: true,
	http.MethodPost: true,
}

// ServeHTTP loads the tab session, runs the guard for protected entries and
// hands the request to the page.
func (t *Table) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()
	log := logger.ForContext(t.deps.Logger, ctx)

	if !allowedMethods[r.Method] {
		w.Header().Set("Allow", "GET, HEAD, POST")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	entry, found := t.Resolve(r.URL.Path)

	sess, err := t.deps.Sessions.Load(ctx, r)
	if err != nil {
		log.Error("load tab session", "error", err)
		http.Error(w, "session storage unavailable", http.StatusServiceUnavailable)
		return
	}
	ctx = logger.WithTabID(ctx, string(sess.ID()))
	r = r.WithContext(ctx)
	log = logger.ForContext(t.deps.Logger, ctx)

	cw := &commitWriter{ResponseWriter: w}
	cw.commit = func() {
		// Persist even when the browser has gone away.
		if err := t.deps.Sessions.Save(context.WithoutCancel(ctx), cw.ResponseWriter, sess); err != nil {
			log.Error("save tab session", "error", err)
		}
	}

	q := &Request{
		W:       cw,
		R:       r,
		Entry:   entry,
		Session: sess,
		Nav:     nav.New(cw, r, sess),
		API:     t.deps.API,
		Views:   t.deps.Views,
		Log:     log,
		Metrics: t.deps.Metrics,
	}

	route := entry.Pattern
	if !found {
		route = "notfound"
	}
	defer func() {
		if t.deps.Metrics != nil && cw.Written() {
			t.deps.Metrics.RecordRequest(route, r.Method, strconv.Itoa(cw.status))
			t.deps.Metrics.ObserveRequestDuration(route, r.Method, time.Since(start).Seconds())
		}
	}()

	if !found {
		t.handle(q, cw, t.notFound(q))
		return
	}

	if entry.Guarded {
		state := t.guard.Check(sess)
		if t.deps.Metrics != nil {
			t.deps.Metrics.RecordGate(entry.Pattern, state.String())
		}
		if state != GateAuthorized {
			log.Debug("unauthenticated, redirecting", "route", entry.Pattern)
			q.Nav.Go(LoginPath)
			return
		}
	}

	t.handle(q, cw, entry.New(q))
}

func (t *Table) handle(q *Request, cw *commitWriter, p Page) {
	if err := p.Handle(); err != nil {
		t.fail(q, cw, err)
		return
	}
	// Nothing rendered; still persist session changes.
	cw.before()
}

// fail applies the portal-wide error policy to an error a page returned.
func (t *Table) fail(q *Request, cw *commitWriter, err error) {

	if errors.Is(err, context.Canceled) || q.Context().Err() != nil {
		q.Log.Debug("request cancelled", "route", q.Entry.Pattern, "error", err)
		cw.before()
		return
	}

	if cw.Written() {
		q.Log.Error("page failed after writing", "route", q.Entry.Pattern, "error", err)
		return
	}

	if q.Entry.Guarded && gateway.IsUnauthorized(err) {
		// The backend dropped the session (logout elsewhere or timeout).
		q.Log.Info("backend rejected token, clearing tab session", "route", q.Entry.Pattern)
		q.Session.Clear()
		q.Nav.Go(LoginPath)
		return
	}

	status, text := errorStatus(err)
	if status >= 500 {
		q.Log.Error("page failed", "route", q.Entry.Pattern, "status", status, "error", err)
	} else {
		q.Log.Warn("page rejected request", "route", q.Entry.Pattern, "status", status, "error", err)
	}
	if rerr := render(q, status, "error", "Error", errorContent{Status: status}, errorNotice(text)); rerr != nil {
		q.Log.Error("render error page", "error", rerr)
		http.Error(cw, text, status)
	}
}

type errorContent struct {
	Status int
}

// errorStatus maps a page error to the status and message shown to the user.
func errorStatus(err error) (int, string) {
	var re *gateway.RequestError
	switch {
	case errors.As(err, &re):
		if re.Status == http.StatusNotFound {
			return http.StatusNotFound, "The requested item was not found."
		}
		return http.StatusBadGateway, "The data mining service could not complete the request."
	case errors.Is(err, domain.ErrBackendUnavailable):
		return http.StatusBadGateway, "The data mining service is unavailable. Please try again later."
	case domain.IsDomainError(err, domain.ErrInvalidArgument.Code),
		domain.IsDomainError(err, domain.ErrMissingArgument.Code),
		domain.IsDomainError(err, domain.ErrBadRequest.Code):
		return http.StatusBadRequest, "The request was not valid."
	case errors.Is(err, domain.ErrRouteNotFound):
		return http.StatusNotFound, "Page not found."
	default:
		return http.StatusInternalServerError, "Something went wrong."
	}
}
