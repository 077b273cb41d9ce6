// Package main provides the entry point for dms-portal.
//
// dms-portal serves the web front end of the data mining service. Each
// browser tab gets its own session; the portal proxies every data
// operation to the backend API on the user's behalf.
//
// Usage:
//
//	dms-portal serve --config /etc/dms/portal.yaml
//	dms-portal config print -o yaml
//	dms-portal version
//
// Every setting can also be given as a DMS_ environment variable, with
// sections separated by a double underscore (DMS_SESSION__COOKIE_SECRET).
package main
