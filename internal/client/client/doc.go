// Package client talks to the meetscribe backend over HTTP.
//
// # Overview
//
//  1. AuthClient: register, login, session restore (auth/me), usage,
//     history migration and logout.
//  2. AnalysisClient: multipart audio upload to process-meeting and the
//     export-docx / export-pdf document endpoints.
//  3. HTTPClient implements both. It keeps the bearer token in a TokenStore,
//     replaces it with the rotated token returned by every auth response, and
//     retries idempotent GETs on transient failures.
//  4. Token stores: MemoryTokenStore (process memory) and
//     SessionFileTokenStore (scoped to the controlling terminal session,
//     never written to the durable database).
//
// # Error Handling
//
// Transport failures wrap ErrUnavailable. Rejected calls return *APIError,
// which carries the backend's message and unwraps to ErrServer or to one of
// the common sentinels (ErrValidation, ErrNotFound, ErrInvalidCredentials,
// ErrUnauthorized, ErrConflict, ErrQuotaExceeded). Match with errors.Is.
//
// # Concurrency
//
// HTTPClient and the token stores are safe for concurrent use. All calls
// honor context cancellation.
package client
