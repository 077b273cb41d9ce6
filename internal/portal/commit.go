package portal

import "net/http"

// commitWriter runs commit once, right before the response header is sent,
// so the tab session and its cookie are persisted ahead of any output.
type commitWriter struct {
	http.ResponseWriter
	commit    func()
	committed bool
	status    int
}

func (c *commitWriter) before() {
	if c.committed {
		return
	}
	c.committed = true
	c.commit()
}

func (c *commitWriter) WriteHeader(code int) {
	c.before()
	if c.status == 0 {
		c.status = code
	}
	c.ResponseWriter.WriteHeader(code)
}

func (c *commitWriter) Write(b []byte) (int, error) {
	c.before()
	if c.status == 0 {
		c.status = http.StatusOK
	}
	return c.ResponseWriter.Write(b)
}

// Written reports whether any part of the response was sent.
func (c *commitWriter) Written() bool {
	return c.status != 0
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (c *commitWriter) Unwrap() http.ResponseWriter {
	return c.ResponseWriter
}
