package crypto

import (
	"errors"

	"github.com/chessperm/chessperm-go/internal/apierrors"
)

var (
	// ErrInvalidSecretKeySize is returned when the secret key size is invalid.
	ErrInvalidSecretKeySize = errors.New("invalid secret key size")

	// ErrInvalidPublicKeySize is returned when the public key size is invalid.
	ErrInvalidPublicKeySize = errors.New("invalid public key size")

	// ErrInvalidCiphertextSize is returned when the ciphertext size is invalid.
	ErrInvalidCiphertextSize = errors.New("invalid ciphertext size")

	// ErrInvalidKeySize is returned when the cipher key size is invalid.
	ErrInvalidKeySize = errors.New("invalid key size")

	// ErrInvalidNonceSize is returned when the nonce size is invalid.
	ErrInvalidNonceSize = errors.New("invalid nonce size")

	// ErrInvalidTagSize is returned when the authentication tag size is invalid.
	ErrInvalidTagSize = errors.New("invalid tag size")

	// ErrDecryptionFailed is returned when authentication fails on open.
	ErrDecryptionFailed = apierrors.ErrDecryptionFailed

	// ErrInvalidPayload is returned when a sealed payload is shorter than
	// its fixed header.
	ErrInvalidPayload = apierrors.ErrInvalidPayload
)
