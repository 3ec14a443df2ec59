// Package apierrors provides shared error types for the ChessPerm packages.
package apierrors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for errors.Is() checks
var (
	// ErrInvalidInput is returned when both the input and the salt are empty,
	// so no bits can be encoded.
	ErrInvalidInput = errors.New("invalid input: input and salt are both empty")

	// ErrUnsupportedNotation is returned by a rules engine when a transcript
	// token cannot be parsed as a legal move. The encoder absorbs it.
	ErrUnsupportedNotation = errors.New("unsupported move notation")

	// ErrDecryptionFailed is returned when a sealed message cannot be opened.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrInvalidPayload is returned when an extracted payload is too short or
	// otherwise malformed.
	ErrInvalidPayload = errors.New("invalid payload")

	// ErrNoHiddenData is returned when an image carries no terminated payload.
	ErrNoHiddenData = errors.New("no hidden data found in image")

	// ErrImageTooSmall is returned when a cover image cannot hold the payload.
	ErrImageTooSmall = errors.New("cover image too small for payload")

	// ErrInvalidImage is returned when a cover image cannot be decoded.
	ErrInvalidImage = errors.New("invalid cover image")

	// ErrRateLimited is returned when the service rate limit is exceeded.
	ErrRateLimited = errors.New("rate limit exceeded")
)

// APIError represents an HTTP error from the ChessPerm service.
type APIError struct {
	StatusCode int
	Message    string
	RequestID  string
}

func (e *APIError) Error() string {
	if e.RequestID != "" {
		if e.Message != "" {
			return fmt.Sprintf("API error %d: %s (request_id: %s)", e.StatusCode, e.Message, e.RequestID)
		}
		return fmt.Sprintf("API error %d (request_id: %s)", e.StatusCode, e.RequestID)
	}
	if e.Message != "" {
		return fmt.Sprintf("API error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error %d", e.StatusCode)
}

// ChessPermError implements the chessperm.ChessPermError interface.
func (e *APIError) ChessPermError() {}

// Is implements errors.Is for sentinel error matching.
//
// The service reports an empty derivation input as a 400 whose message starts
// with the ErrInvalidInput text, so clients can match it like a local call.
func (e *APIError) Is(target error) bool {
	switch e.StatusCode {
	case 400:
		switch target {
		case ErrInvalidInput:
			return strings.HasPrefix(e.Message, ErrInvalidInput.Error())
		case ErrDecryptionFailed:
			return strings.HasPrefix(e.Message, ErrDecryptionFailed.Error())
		}
	case 429:
		return target == ErrRateLimited
	}
	return false
}

// NetworkError represents a network-level failure.
type NetworkError struct {
	Err     error
	URL     string
	Attempt int
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ChessPermError implements the chessperm.ChessPermError interface.
func (e *NetworkError) ChessPermError() {}

// DecryptionError reports which stage of opening a sealed message failed.
type DecryptionError struct {
	Stage   string // "archive", "kem", "derive", "stego", "payload", "aead"
	Message string
	Err     error
}

func (e *DecryptionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decryption failed at %s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("decryption failed at %s: %s", e.Stage, e.Message)
}

// Unwrap returns the underlying error.
func (e *DecryptionError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for sentinel error matching.
func (e *DecryptionError) Is(target error) bool {
	return target == ErrDecryptionFailed
}

// ChessPermError implements the chessperm.ChessPermError interface.
func (e *DecryptionError) ChessPermError() {}
