package crypto

const (
	// MLKEMPublicKeySize is the size of an ML-KEM-768 public key in bytes.
	MLKEMPublicKeySize = 1184
	// MLKEMSecretKeySize is the size of an ML-KEM-768 secret key in bytes.
	MLKEMSecretKeySize = 2400
	// MLKEMCiphertextSize is the size of an ML-KEM-768 ciphertext in bytes.
	MLKEMCiphertextSize = 1088
	// MLKEMSharedKeySize is the size of the shared secret from ML-KEM-768 in bytes.
	MLKEMSharedKeySize = 32

	// KeySize is the size of a ChaCha20-Poly1305 key in bytes.
	KeySize = 32
	// NonceSize is the size of a ChaCha20-Poly1305 nonce in bytes.
	NonceSize = 12
	// TagSize is the size of a Poly1305 authentication tag in bytes.
	TagSize = 16

	// PublicKeyOffset is the byte offset where the public key is embedded
	// within an ML-KEM-768 secret key.
	PublicKeyOffset = 1152

	// PayloadHeaderSize is the fixed prefix of a sealed payload:
	// KEM ciphertext, nonce and tag.
	PayloadHeaderSize = MLKEMCiphertextSize + NonceSize + TagSize
)

// Ciphersuite names the envelope algorithms. The service reports it from
// its health endpoint.
const Ciphersuite = "ML-KEM-768:XOR-MASTER:CHACHA20-POLY1305"
