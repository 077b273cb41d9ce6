package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// maxErrorBody bounds how much of an error reply is read.
const maxErrorBody = 64 << 10

// RequestError is returned by Call when the backend answers with a non-2xx status.
type RequestError struct {
	Method  string
	Path    string
	Status  int
	Code    string
	Message string
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if e.Code != "" {
		return fmt.Sprintf("%s %s: %d [%s] %s", e.Method, e.Path, e.Status, e.Code, msg)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, msg)
}

// Unauthorized reports whether the backend rejected the token.
func (e *RequestError) Unauthorized() bool {
	return e.Status == http.StatusUnauthorized
}

// newRequestError builds a RequestError from resp and closes its body.
// Flask-smorest replies carry {"code": <int>, "status": "...", "message": "..."};
// other services may use a string code.
func newRequestError(method, path string, resp *http.Response) *RequestError {
	defer resp.Body.Close()

	re := &RequestError{Method: method, Path: stripQuery(path), Status: resp.StatusCode}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(data) == 0 {
		return re
	}

	var body struct {
		Code    json.RawMessage `json:"code"`
		Status  string          `json:"status"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		re.Message = strings.TrimSpace(string(data))
		if len(re.Message) > 200 {
			re.Message = re.Message[:200]
		}
		return re
	}

	re.Message = body.Message
	if re.Message == "" {
		re.Message = body.Status
	}
	if len(body.Code) > 0 {
		var s string
		if json.Unmarshal(body.Code, &s) == nil {
			re.Code = s
		} else {
			re.Code = string(body.Code)
		}
	}
	return re
}

// StatusOf returns the backend status carried by err, or 0 when err is not
// a RequestError.
func StatusOf(err error) int {
	var re *RequestError
	if errors.As(err, &re) {
		return re.Status
	}
	return 0
}

// IsUnauthorized reports whether err is a backend 401.
func IsUnauthorized(err error) bool {
	return StatusOf(err) == http.StatusUnauthorized
}

func stripQuery(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		return path[:i]
	}
	return path
}
