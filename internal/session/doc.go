// Package session holds the server-side session store of the DMS portal.
//
// A Session is a small key-value map bound to the dms_tab cookie. The
// cookie has no expiry, so its scope is the browser session: every tab of
// one browser shares it until the browser closes. Requests from different
// tabs may overlap, so a save applies only the keys the request changed
// (see Changes) rather than rewriting the whole map. The only
// key the navigation core relies on is "token"; navigation payloads and
// one-shot notices live beside it and are dropped together on Clear.
//
//   - session.go: the Session value passed explicitly to every page
//   - registry.go: loads sessions by cookie and applies their changes
//   - cookie.go: HMAC-signed tab cookie codec
//   - memory.go: sharded in-process backend
//   - redis.go: Redis backend for multi-replica deployments
//
// A Session is not safe for concurrent use; it lives for one request.
// Backends are safe for concurrent use.
package session
