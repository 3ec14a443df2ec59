package api

import "github.com/chessperm/chessperm-go/internal/apierrors"

// Error types shared with the public package.
type (
	// APIError represents an HTTP error from the ChessPerm service.
	APIError = apierrors.APIError
	// NetworkError represents a network-level failure.
	NetworkError = apierrors.NetworkError
)

// ErrRateLimited indicates the rate limit has been exceeded.
var ErrRateLimited = apierrors.ErrRateLimited
