package chessperm

import (
	"errors"

	"github.com/chessperm/chessperm-go/internal/apierrors"
	"github.com/chessperm/chessperm-go/internal/crypto"
)

// Sentinel errors for errors.Is() checks
var (
	// ErrInvalidInput is returned when the input and the salt are both empty,
	// so there is nothing to derive a key from.
	ErrInvalidInput = apierrors.ErrInvalidInput

	// ErrUnsupportedNotation marks a transcript token the rules engine could
	// not parse. Derivation never returns it; it reaches the hook installed
	// with WithSkippedTokenHook.
	ErrUnsupportedNotation = apierrors.ErrUnsupportedNotation

	// ErrDecryptionFailed is returned when a sealed message cannot be opened.
	ErrDecryptionFailed = apierrors.ErrDecryptionFailed

	// ErrInvalidPayload is returned when the hidden payload is malformed.
	ErrInvalidPayload = apierrors.ErrInvalidPayload

	// ErrNoHiddenData is returned when an image carries no payload.
	ErrNoHiddenData = apierrors.ErrNoHiddenData

	// ErrImageTooSmall is returned when a cover image cannot hold the payload.
	ErrImageTooSmall = apierrors.ErrImageTooSmall

	// ErrInvalidImage is returned when a cover image is neither PNG nor JPEG.
	ErrInvalidImage = apierrors.ErrInvalidImage

	// ErrInvalidSecretKeySize is returned when the secret key size is invalid.
	ErrInvalidSecretKeySize = crypto.ErrInvalidSecretKeySize

	// ErrInvalidCiphertextSize is returned when the KEM ciphertext size is invalid.
	ErrInvalidCiphertextSize = crypto.ErrInvalidCiphertextSize

	// ErrRateLimited is returned when the service rate limit is exceeded.
	ErrRateLimited = apierrors.ErrRateLimited

	// ErrInvalidArchive is returned when an uploaded archive is unreadable or
	// lacks the stego image.
	ErrInvalidArchive = errors.New("invalid archive")
)

// ChessPermError is implemented by all typed errors of this package.
type ChessPermError interface {
	error
	ChessPermError() // marker method
}

// APIError represents an HTTP error from the ChessPerm service.
type APIError = apierrors.APIError

// NetworkError represents a network-level failure.
type NetworkError = apierrors.NetworkError

// DecryptionError reports which stage of opening a sealed message failed:
// "archive", "stego", "payload", "kem" or "aead".
type DecryptionError = apierrors.DecryptionError
