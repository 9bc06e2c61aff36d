// Package taskapi is a typed client for the task-management REST API.
//
// The client covers user accounts, projects, tasks, tags and comments. It does
// not deal with credentials itself: authenticated calls rely on the
// http.Client it is given, usually one whose transport is an
// authhttp.RenewalTransport. Register and Login are sent without a bearer
// token and are never renewed.
//
// Request inputs are validated before anything goes on the wire. Non-2xx
// responses are returned as *APIError and match ErrNotFound, ErrForbidden or
// ErrUnauthorized through errors.Is.
package taskapi
