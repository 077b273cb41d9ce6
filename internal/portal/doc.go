// Package portal serves the DMS portal pages.
//
// Control flow for one request:
//
//	Table.ServeHTTP -> Resolve(path) -> load tab session
//	  -> guarded entry: Guard.Check(session)
//	       GateRedirecting: navigate to "/" and stop, the page is never built
//	       GateAuthorized:  build the page and let it handle the request
//
// Every page receives its tab session explicitly through *Request. The
// session is written back just before the first byte of the response.
//
//   - table.go: route table, resolution and dispatch
//   - guard.go: authentication gate
//   - request.go: per-request context handed to pages
//   - views.go: embedded html/template views
//   - routes.go: the portal's route table
//   - page_*.go: one file per page
package portal
