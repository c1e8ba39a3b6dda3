// Package apperr defines the error taxonomy for sync operations.
//
// Every failure a single-document sync can produce maps onto exactly one of
// these types, so callers (CLI, control API, MCP tools) can classify it
// without string matching.
package apperr

import (
	"errors"
	"fmt"
)

// ErrSyncBusy is returned when a sync is requested while another one holds
// the session gate. The request is rejected, never queued.
var ErrSyncBusy = errors.New("sync already in progress")

// ConfigError reports a local configuration problem detected before any
// network call is made (for example a missing access token).
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "config: " + e.Reason
}

// ExtractionError reports a document whose metadata cannot be resolved into
// a publishable form.
type ExtractionError struct {
	Path   string
	Reason string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s: %s", e.Path, e.Reason)
}

// RemoteError reports a request the remote store received and rejected.
// Message carries the human-readable text extracted from the response body.
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote: %s (HTTP %d)", e.Message, e.Status)
}

// NetworkError reports a transport-level failure (DNS, TLS, refused
// connection, timeout) before any HTTP status was obtained.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network: request to %s failed: %v (check the base URL, that the server is reachable, and the http/https scheme)", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
