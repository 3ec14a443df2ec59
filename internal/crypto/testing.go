package crypto

import "io"

// SetRandReaderForTesting sets the random reader used for key generation,
// encapsulation and nonces. It returns a function that restores the
// original reader.
func SetRandReaderForTesting(r io.Reader) func() {
	original := randReader
	randReader = r
	return func() { randReader = original }
}
