package crypto

import "fmt"

// Payload is a sealed message as carried inside a cover image.
//
// Wire layout: KEM ciphertext (1088) || nonce (12) || tag (16) || ciphertext.
type Payload struct {
	KEMCiphertext []byte
	Nonce         []byte
	Tag           []byte
	Ciphertext    []byte
}

// Marshal concatenates the payload fields in wire order.
func (p *Payload) Marshal() []byte {
	out := make([]byte, 0, PayloadHeaderSize+len(p.Ciphertext))
	out = append(out, p.KEMCiphertext...)
	out = append(out, p.Nonce...)
	out = append(out, p.Tag...)
	return append(out, p.Ciphertext...)
}

// ParsePayload splits b at the fixed field sizes. The returned fields alias b.
func ParsePayload(b []byte) (*Payload, error) {
	if len(b) < PayloadHeaderSize {
		return nil, fmt.Errorf("%w: %d bytes, need at least %d", ErrInvalidPayload, len(b), PayloadHeaderSize)
	}
	nonceAt := MLKEMCiphertextSize
	tagAt := nonceAt + NonceSize
	return &Payload{
		KEMCiphertext: b[:nonceAt],
		Nonce:         b[nonceAt:tagAt],
		Tag:           b[tagAt:PayloadHeaderSize],
		Ciphertext:    b[PayloadHeaderSize:],
	}, nil
}
