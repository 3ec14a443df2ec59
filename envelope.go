package chessperm

import (
	"bytes"

	"github.com/chessperm/chessperm-go/internal/apierrors"
	"github.com/chessperm/chessperm-go/internal/crypto"
	"github.com/chessperm/chessperm-go/internal/stego"
)

// Envelope is a message sealed into a cover image.
type Envelope struct {
	// Image is the stego PNG carrying the payload.
	Image []byte
	// SecretKeyHex is the ML-KEM-768 secret key needed to open the
	// envelope, hex encoded.
	SecretKeyHex string
}

// Seal derives the master key from transcript, encrypts message under it
// and a fresh ML-KEM-768 encapsulation, and hides the payload in cover (PNG
// or JPEG).
func Seal(transcript, message string, cover []byte, opts ...DeriveOption) (*Envelope, error) {
	master, err := DeriveFromTranscript(transcript, opts...)
	if err != nil {
		return nil, err
	}

	kp, payload, err := crypto.Seal(master[:], []byte(message))
	if err != nil {
		return nil, err
	}

	img, err := stego.EmbedPNG(cover, payload.Marshal())
	if err != nil {
		return nil, err
	}

	return &Envelope{
		Image:        img,
		SecretKeyHex: kp.SecretKeyHex(),
	}, nil
}

// Open recovers the message from file, which is either an archive produced
// by [Envelope.Archive] or a bare stego PNG. Every failure is a
// *DecryptionError naming the stage that failed; an empty transcript fails
// at "derive" and still matches ErrInvalidInput.
func Open(file []byte, secretKeyHex, transcript string, opts ...DeriveOption) (string, error) {
	img := file
	if isArchive(file) {
		var err error
		img, err = ImageFromArchive(file)
		if err != nil {
			return "", &DecryptionError{Stage: "archive", Err: err}
		}
	}

	kp, err := crypto.KeypairFromHex(secretKeyHex)
	if err != nil {
		return "", &DecryptionError{Stage: "kem", Err: err}
	}

	master, err := DeriveFromTranscript(transcript, opts...)
	if err != nil {
		return "", &DecryptionError{Stage: "derive", Err: err}
	}

	decoded, err := stego.DecodePNG(img)
	if err != nil {
		return "", &DecryptionError{Stage: "stego", Err: err}
	}

	// Payload bytes may contain the terminator pattern. The AEAD tag tells
	// the real end apart, so try each candidate in order.
	var lastErr error
	for candidate := range stego.Candidates(decoded) {
		if len(candidate) < crypto.PayloadHeaderSize {
			continue
		}
		msg, err := crypto.Open(kp, master[:], candidate)
		if err == nil {
			return string(msg), nil
		}
		lastErr = err
	}
	if lastErr != nil {
		return "", lastErr
	}
	return "", &DecryptionError{Stage: "stego", Err: apierrors.ErrNoHiddenData}
}

func isArchive(b []byte) bool {
	return bytes.HasPrefix(b, []byte("PK\x03\x04"))
}
