package bitseq

// Pack converts a block to 32 bytes, 8 bits per byte, most significant first.
func Pack(b *Block) [BlockBytes]byte {
	var out [BlockBytes]byte
	for i, bit := range b {
		out[i/8] |= (bit & 1) << uint(7-i%8)
	}
	return out
}

// Unpack is the inverse of Pack.
func Unpack(p [BlockBytes]byte) Block {
	var b Block
	for i := range b {
		b[i] = (p[i/8] >> uint(7-i%8)) & 1
	}
	return b
}

// PackSequence packs an exactly 256-bit sequence; shorter input is
// zero-filled and longer input truncated.
func PackSequence(s Sequence) [BlockBytes]byte {
	var b Block
	copy(b[:], s)
	return Pack(&b)
}
