// Package client contains the CLI's transport and local persistence
// bootstrap.
//
// APIClient talks to the REST API over fiber's fasthttp-based client. It
// carries the bearer token of the current session and maps HTTP statuses to
// sentinel errors callers can match with errors.Is: ErrUnauthorized,
// ErrUnavailable, ErrRejected and common.ErrNotFound / common.ErrForbidden.
// 400 responses carrying a field map come back as *common.ValidationError.
//
// InitDatabase and RunMigrations open the local SQLite file and apply the
// embedded goose migrations.
package client
