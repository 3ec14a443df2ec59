package crypto

import (
	"github.com/chessperm/chessperm-go/internal/apierrors"
)

// Seal encrypts plaintext for a fresh ML-KEM-768 keypair, binding it to the
// master key.
//
// The process:
//  1. Generate a keypair and encapsulate a shared secret to its public key
//  2. XOR the master key into the shared secret to form the transport key
//  3. ChaCha20-Poly1305 encryption under a random nonce
//
// The keypair is returned so the caller can hand the secret key to the
// recipient.
func Seal(master, plaintext []byte) (*Keypair, *Payload, error) {
	kp, err := GenerateKeypair()
	if err != nil {
		return nil, nil, err
	}

	kemCT, shared, err := Encapsulate(kp.PublicKey)
	if err != nil {
		return nil, nil, err
	}

	nonce, ct, tag, err := SealMessage(TransportKey(shared, master), plaintext)
	if err != nil {
		return nil, nil, err
	}

	return kp, &Payload{
		KEMCiphertext: kemCT,
		Nonce:         nonce,
		Tag:           tag,
		Ciphertext:    ct,
	}, nil
}

// Open reverses Seal. Failures are reported as *apierrors.DecryptionError
// naming the stage that failed.
func Open(kp *Keypair, master, raw []byte) ([]byte, error) {
	p, err := ParsePayload(raw)
	if err != nil {
		return nil, &apierrors.DecryptionError{Stage: "payload", Err: err}
	}

	shared, err := kp.Decapsulate(p.KEMCiphertext)
	if err != nil {
		return nil, &apierrors.DecryptionError{Stage: "kem", Err: err}
	}

	plaintext, err := OpenMessage(TransportKey(shared, master), p.Nonce, p.Ciphertext, p.Tag)
	if err != nil {
		return nil, &apierrors.DecryptionError{Stage: "aead", Err: err}
	}
	return plaintext, nil
}
