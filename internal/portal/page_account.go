package portal

import (
	"context"
	"errors"
	"net/http"
	"net/mail"
	"strings"

	"github.com/yndnr/dms-portal/internal/core/domain"
	"github.com/yndnr/dms-portal/internal/gateway"
)

type requestAccountPage struct {
	q *Request
}

func newRequestAccountPage(q *Request) Page {
	return &requestAccountPage{q: q}
}

type requestAccountContent struct {
	Email    string
	Username string
}

func (p *requestAccountPage) Handle() error {
	q := p.q
	const title = "Request account"
	if !q.IsPost() {
		return render(q, http.StatusOK, "request_account", title, requestAccountContent{}, nil)
	}

	content := requestAccountContent{
		Email:    strings.TrimSpace(q.R.PostFormValue("email")),
		Username: strings.TrimSpace(q.R.PostFormValue("username")),
	}
	if content.Email == "" || content.Username == "" {
		return render(q, http.StatusBadRequest, "request_account", title, content,
			errorNotice("Enter an email address and a username."))
	}
	if _, err := mail.ParseAddress(content.Email); err != nil {
		return render(q, http.StatusBadRequest, "request_account", title, content,
			errorNotice("Enter a valid email address."))
	}

	err := q.API.RequestAccount(q.Context(), content.Email, content.Username)
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled):
		return err
	case gateway.StatusOf(err) == http.StatusConflict:
		return render(q, http.StatusConflict, "request_account", title, content,
			errorNotice("An account for this email or username already exists or was already requested."))
	default:
		return err
	}

	q.Log.Info("account requested", "username", content.Username)
	q.Flash(domain.Notice{Text: "Your account request was sent. You will receive an email once it is reviewed."})
	q.Nav.Go(PathLogin)
	return nil
}

type changePasswordPage struct {
	q *Request
}

func newChangePasswordPage(q *Request) Page {
	return &changePasswordPage{q: q}
}

func (p *changePasswordPage) Handle() error {
	q := p.q
	const title = "Change password"
	if !q.IsPost() {
		return render(q, http.StatusOK, "change_password", title, struct{}{}, nil)
	}

	oldPassword := q.R.PostFormValue("old_password")
	newPassword := q.R.PostFormValue("new_password")
	confirm := q.R.PostFormValue("confirm_password")

	switch {
	case oldPassword == "" || newPassword == "":
		return render(q, http.StatusBadRequest, "change_password", title, struct{}{},
			errorNotice("Fill in your current and new password."))
	case newPassword != confirm:
		return render(q, http.StatusBadRequest, "change_password", title, struct{}{},
			errorNotice("The new passwords do not match."))
	}

	err := q.API.UpdatePassword(q.Context(), q.Token(), oldPassword, newPassword)
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled):
		return err
	case gateway.IsUnauthorized(err):
		// The backend answers 401 for a wrong current password.
		return render(q, http.StatusUnauthorized, "change_password", title, struct{}{},
			errorNotice("The current password is incorrect."))
	default:
		return err
	}

	q.Flash(domain.Notice{Text: "Your password was changed."})
	q.Nav.Go(PathProfile)
	return nil
}
