// Package api provides the HTTP client for the ChessPerm service. It handles
// request/response serialization, multipart uploads, and automatic retry
// logic with exponential backoff for transient failures.
//
// # Client Creation
//
// The package provides two ways to create a client:
//
//   - [NewClient]: Struct-based configuration for explicit setup.
//   - [New]: Functional options pattern for flexible configuration.
//
// Both require a base URL.
//
// # Retry Behavior
//
// The client automatically retries failed requests with exponential backoff
// and jitter. By default, requests are retried up to 3 times for these HTTP
// status codes:
//
//   - 408 Request Timeout
//   - 429 Too Many Requests
//   - 500 Internal Server Error
//   - 502 Bad Gateway
//   - 503 Service Unavailable
//   - 504 Gateway Timeout
//
// Transport errors are retried too. Request bodies are buffered so every
// attempt sends the same bytes.
//
// # Error Handling
//
// Non-2xx replies become [APIError]. Transport failures that exhaust the
// retries become [NetworkError]. Both are shared with the public package,
// so errors.Is works against its sentinels:
//
//	if errors.Is(err, chessperm.ErrInvalidInput) {
//	    // empty input and salt
//	}
//
// # Thread Safety
//
// The [Client] type is safe for concurrent use.
package api
