// Package httputil provides HTTP server utilities for the layout API.
//
// # Overview
//
// This package provides the infrastructure shared by every API handler:
//
//   - [RequestID]: Request correlation through the X-Request-ID header
//   - [Instrument]: Request and response reporting to observability hooks
//   - [WriteJSON] and [WriteError]: JSON responses and structured errors
//   - [Group]: Collapsing identical concurrent requests into one computation
//
// # Request IDs
//
// [RequestID] reuses the X-Request-ID header sent by the client, or assigns a
// random UUID. The id is echoed on the response and available to handlers
// through [RequestIDFrom].
//
// # Errors
//
// [WriteError] renders any error as
//
//	{"code": "INVALID_DESCRIPTOR", "message": "..."}
//
// with the HTTP status derived from the error code (see errors.HTTPStatus).
//
// # Shared Computation
//
// [Group] de-duplicates work by key. Keys are SHA-256 digests built with
// [Key], so a request body of any size maps to a short fixed-length key:
//
//	key := httputil.Key([]byte(r.URL.Path), []byte(r.URL.RawQuery), body)
//	v, err, shared := group.Do(key, func() ([]byte, error) {
//	    return compute(body)
//	})
package httputil
