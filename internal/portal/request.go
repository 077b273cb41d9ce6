package portal

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/yndnr/dms-portal/internal/core/domain"
	"github.com/yndnr/dms-portal/internal/gateway"
	"github.com/yndnr/dms-portal/internal/nav"
	"github.com/yndnr/dms-portal/internal/session"
	"github.com/yndnr/dms-portal/internal/telemetry/logger"
	"github.com/yndnr/dms-portal/internal/telemetry/metric"
)

// flashKey holds a notice for the next page rendered in the tab.
const flashKey = "flash"

// Page handles one request for one route.
type Page interface {
	Handle() error
}

// Constructor builds a page for an authorized request.
type Constructor func(q *Request) Page

// PageFunc adapts a function to Page.
type PageFunc func() error

// Handle implements Page.
func (f PageFunc) Handle() error { return f() }

// Request is everything a page may use while handling one request.
// The tab session is carried here explicitly; pages never look it up.
type Request struct {
	W       http.ResponseWriter
	R       *http.Request
	Entry   Entry
	Session *session.Session
	Nav     *nav.Navigator
	API     *gateway.Client
	Views   *Views
	Log     logger.Logger
	Metrics *metric.Registry
}

// Context returns the request context. It is cancelled when the browser goes away.
func (q *Request) Context() context.Context {
	return q.R.Context()
}

// Token returns the tab's backend token. Empty on public pages without login.
func (q *Request) Token() domain.Token {
	tok, _ := q.Session.Token()
	return tok
}

// Authenticated reports whether the tab holds a token.
func (q *Request) Authenticated() bool {
	_, ok := q.Session.Token()
	return ok
}

// Tail returns the path below a prefix route's pattern, without slashes.
// For "/visualize/12" under "/visualize" it returns "12".
func (q *Request) Tail() string {
	if q.Entry.Match != Prefix {
		return ""
	}
	rest := strings.TrimPrefix(q.R.URL.Path, q.Entry.Pattern)
	return strings.Trim(rest, "/")
}

// IsPost reports whether the request submits a form.
func (q *Request) IsPost() bool {
	return q.R.Method == http.MethodPost
}

// Flash stores a notice for the next page this tab renders.
func (q *Request) Flash(n domain.Notice) {
	data, err := json.Marshal(n)
	if err != nil {
		return
	}
	q.Session.Set(flashKey, string(data))
}

func (q *Request) takeFlash() *domain.Notice {
	raw, ok := q.Session.Get(flashKey)
	if !ok {
		return nil
	}
	q.Session.Delete(flashKey)
	var n domain.Notice
	if err := json.Unmarshal([]byte(raw), &n); err != nil {
		return nil
	}
	return &n
}

// Header is rendered by the shared header partial on every page.
type Header struct {
	Authenticated bool
	Path          string
}

// View wraps the shared header and notice around page-specific content.
type View[T any] struct {
	Title   string
	Header  Header
	Notice  *domain.Notice
	Content T
}

// render executes the named view. A nil notice shows the pending flash, if any.
func render[T any](q *Request, status int, name, title string, content T, notice *domain.Notice) error {
	if notice == nil {
		notice = q.takeFlash()
	}
	v := View[T]{
		Title:   title,
		Header:  Header{Authenticated: q.Authenticated(), Path: q.R.URL.Path},
		Notice:  notice,
		Content: content,
	}
	return q.Views.Render(q.W, status, name, v)
}

func errorNotice(text string) *domain.Notice {
	return &domain.Notice{Text: text, Error: true}
}
