package crypto

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/cloudflare/circl/kem/mlkem/mlkem768"
)

// randReader is the random source used for key generation, encapsulation
// and nonces. It defaults to nil (which uses crypto/rand) but can be
// overridden for testing.
var randReader io.Reader

func random() io.Reader {
	if randReader != nil {
		return randReader
	}
	return rand.Reader
}

// Keypair represents an ML-KEM-768 keypair for key encapsulation.
type Keypair struct {
	// PublicKey is the raw ML-KEM-768 public key bytes.
	PublicKey []byte
	// SecretKey is the raw ML-KEM-768 secret key bytes.
	SecretKey []byte
}

// GenerateKeypair creates a new ML-KEM-768 keypair.
func GenerateKeypair() (*Keypair, error) {
	pub, priv, err := mlkem768.GenerateKeyPair(randReader)
	if err != nil {
		return nil, err
	}

	// MarshalBinary never fails for valid keys from GenerateKeyPair
	pubBytes, _ := pub.MarshalBinary()
	privBytes, _ := priv.MarshalBinary()

	return &Keypair{
		PublicKey: pubBytes,
		SecretKey: privBytes,
	}, nil
}

// KeypairFromSecretKey reconstructs a keypair from the secret key.
// The public key is embedded in the secret key at offset 1152.
func KeypairFromSecretKey(secretKey []byte) (*Keypair, error) {
	if len(secretKey) != MLKEMSecretKeySize {
		return nil, ErrInvalidSecretKeySize
	}

	publicKey := make([]byte, MLKEMPublicKeySize)
	copy(publicKey, secretKey[PublicKeyOffset:PublicKeyOffset+MLKEMPublicKeySize])

	return &Keypair{
		PublicKey: publicKey,
		SecretKey: secretKey,
	}, nil
}

// KeypairFromHex parses a hex-encoded secret key, as written to
// private_key.txt, and reconstructs the keypair.
func KeypairFromHex(s string) (*Keypair, error) {
	sk, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decode secret key: %w", err)
	}
	return KeypairFromSecretKey(sk)
}

// SecretKeyHex returns the secret key as lowercase hex.
func (k *Keypair) SecretKeyHex() string {
	return hex.EncodeToString(k.SecretKey)
}

// Encapsulate generates a fresh shared secret for publicKey and returns it
// together with the KEM ciphertext that carries it.
func Encapsulate(publicKey []byte) (ciphertext, sharedSecret []byte, err error) {
	if len(publicKey) != MLKEMPublicKeySize {
		return nil, nil, ErrInvalidPublicKeySize
	}

	scheme := mlkem768.Scheme()
	pub, err := scheme.UnmarshalBinaryPublicKey(publicKey)
	if err != nil {
		return nil, nil, fmt.Errorf("unmarshal public key: %w", err)
	}

	seed := make([]byte, scheme.EncapsulationSeedSize())
	if _, err := io.ReadFull(random(), seed); err != nil {
		return nil, nil, fmt.Errorf("read encapsulation seed: %w", err)
	}

	return scheme.EncapsulateDeterministically(pub, seed)
}

// Decapsulate decapsulates a shared secret from the encapsulated key.
func (k *Keypair) Decapsulate(encapsulatedKey []byte) ([]byte, error) {
	if len(encapsulatedKey) != MLKEMCiphertextSize {
		return nil, ErrInvalidCiphertextSize
	}

	if len(k.SecretKey) != MLKEMSecretKeySize {
		return nil, ErrInvalidSecretKeySize
	}

	var privKey mlkem768.PrivateKey
	if err := privKey.Unpack(k.SecretKey); err != nil {
		return nil, err
	}

	sharedSecret := make([]byte, MLKEMSharedKeySize)
	privKey.DecapsulateTo(sharedSecret, encapsulatedKey)

	return sharedSecret, nil
}
