package portal

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/yndnr/dms-portal/internal/gateway"
)

type loginPage struct {
	q *Request
}

func newLoginPage(q *Request) Page {
	return &loginPage{q: q}
}

type loginContent struct {
	Username string
}

func (p *loginPage) Handle() error {
	q := p.q
	if !q.IsPost() {
		return render(q, http.StatusOK, "login", "Sign in", loginContent{}, nil)
	}

	username := strings.TrimSpace(q.R.PostFormValue("username"))
	password := q.R.PostFormValue("password")
	content := loginContent{Username: username}

	if username == "" || password == "" {
		return render(q, http.StatusBadRequest, "login", "Sign in", content,
			errorNotice("Enter your username and password."))
	}

	tok, err := q.API.Login(q.Context(), gateway.Credentials{Username: username, Password: password})
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled):
		return err
	case gateway.IsUnauthorized(err):
		q.Metrics.RecordLogin("invalid")
		q.Log.Info("login rejected", "username", username)
		return render(q, http.StatusUnauthorized, "login", "Sign in", content,
			errorNotice("Invalid username or password."))
	default:
		q.Metrics.RecordLogin("error")
		q.Log.Warn("login failed", "username", username, "error", err)
		return render(q, http.StatusBadGateway, "login", "Sign in", content,
			errorNotice("The data mining service is unavailable. Please try again later."))
	}

	// A new login replaces any token the tab already held.
	q.Session.SetToken(tok)
	q.Metrics.RecordLogin("ok")
	q.Log.Info("login succeeded", "username", username)
	q.Nav.Go(PathHome)
	return nil
}
