package crypto

// TransportKey combines a KEM shared secret with a derived master key. The
// master key is zero-extended or truncated to the length of the shared
// secret and XORed into it.
func TransportKey(sharedSecret, master []byte) []byte {
	key := make([]byte, len(sharedSecret))
	copy(key, master)
	for i := range key {
		key[i] ^= sharedSecret[i]
	}
	return key
}
