// Package authhttp attaches session tokens to outgoing HTTP requests and makes
// access-token expiry transparent to callers.
//
// Two http.RoundTripper layers are stacked:
//   - Pipeline reads the current access token from a tokenstore.Store on every
//     request and presents it as a bearer credential.
//   - RenewalTransport watches for 401 responses. On the first one it exchanges
//     the refresh token for a new access token and replays the request once.
//     If the exchange fails the store is cleared and the caller receives an error
//     matching ErrSessionExpired.
//
// Typical wiring:
//
//	store, _ := tokenstore.NewFileStore(path)
//	renewer, _ := authhttp.NewRefreshEndpoint(baseURL)
//	rt := authhttp.NewRenewalTransport(&authhttp.Pipeline{Store: store}, renewer)
//	client := &http.Client{Transport: rt}
//
// Requests for endpoints that must not carry credentials (login, registration,
// renewal itself) are marked with WithoutAuth.
package authhttp
