package crypto

import (
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
)

// SealMessage encrypts plaintext with ChaCha20-Poly1305 under a fresh random
// nonce and returns the nonce, ciphertext and tag separately.
func SealMessage(key, plaintext []byte) (nonce, ciphertext, tag []byte, err error) {
	if len(key) != KeySize {
		return nil, nil, nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidKeySize, len(key), KeySize)
	}

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	nonce = make([]byte, NonceSize)
	if _, err := io.ReadFull(random(), nonce); err != nil {
		return nil, nil, nil, fmt.Errorf("read nonce: %w", err)
	}

	sealed := aead.Seal(nil, nonce, plaintext, nil)
	split := len(sealed) - TagSize
	return nonce, sealed[:split], sealed[split:], nil
}

// OpenMessage authenticates and decrypts a ciphertext produced by SealMessage.
func OpenMessage(key, nonce, ciphertext, tag []byte) ([]byte, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidKeySize, len(key), KeySize)
	}

	if len(nonce) != NonceSize {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidNonceSize, len(nonce), NonceSize)
	}

	if len(tag) != TagSize {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidTagSize, len(tag), TagSize)
	}

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}

	sealed := make([]byte, 0, len(ciphertext)+TagSize)
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)

	plaintext, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, ErrDecryptionFailed
	}

	return plaintext, nil
}
