package portal

import (
	"context"
	"errors"
	"net/http"

	"github.com/yndnr/dms-portal/internal/gateway"
)

type profilePage struct {
	q *Request
}

func newProfilePage(q *Request) Page {
	return &profilePage{q: q}
}

// Handle shows the profile; a form POST logs the tab out.
func (p *profilePage) Handle() error {
	q := p.q
	if q.IsPost() {
		return p.logout()
	}
	return render(q, http.StatusOK, "profile", "Profile", struct{}{}, nil)
}

// logout ends the backend session. Only a 2xx reply clears the tab session;
// any other outcome leaves it untouched so the user can retry.
func (p *profilePage) logout() error {
	q := p.q

	err := q.API.Logout(q.Context(), q.Token())
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled):
		return err
	case gateway.IsUnauthorized(err):
		// Already gone on the backend; the table clears the tab and goes to login.
		q.Metrics.RecordLogout("expired")
		return err
	default:
		q.Metrics.RecordLogout("failed")
		q.Log.Warn("logout failed", "status", gateway.StatusOf(err), "error", err)
		return render(q, http.StatusBadGateway, "profile", "Profile", struct{}{},
			errorNotice("Logout failed. Please try again."))
	}

	q.Session.Clear()
	q.Metrics.RecordLogout("ok")
	q.Log.Info("logged out")
	q.Nav.Go(PathLogin)
	return nil
}
