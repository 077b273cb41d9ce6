package portal

import "net/http"

func newNotFoundPage(q *Request) Page {
	return PageFunc(func() error {
		return render(q, http.StatusNotFound, "not_found", "Not found", struct{ Path string }{q.R.URL.Path}, nil)
	})
}
