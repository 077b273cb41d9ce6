// Package gateway is the portal's client for the DMS backend API.
//
// Client.Call is the single choke point for backend traffic: it attaches
// the tab's token as the Authorization header, sets the JSON content type
// and turns non-2xx replies into *RequestError. It never retries and never
// touches the session store; pages decide what a failure means.
//
//   - client.go: Client and Call
//   - errors.go: RequestError
//   - api.go: typed helpers for the backend endpoints the portal uses
package gateway
