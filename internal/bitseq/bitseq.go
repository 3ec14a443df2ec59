// Package bitseq turns derivation inputs into bit sequences and slices them
// into fixed 256-bit blocks.
//
// Bits are stored one per byte (0 or 1) so that the block geometry used by
// the permutation network stays a plain index computation.
package bitseq

const (
	// BlockBits is the size of a block in bits.
	BlockBits = 256
	// BlockBytes is the size of a packed block in bytes.
	BlockBytes = BlockBits / 8
	// GridSide is the side of the square grid a block is viewed as.
	GridSide = 16
)

// Sequence is an ordered run of bits, one bit per element.
type Sequence []byte

// Block is a 256-bit value, one bit per element. Bit i sits at row i/16,
// column i%16 of the block grid.
type Block [BlockBits]byte

// FromBytes encodes each byte as 8 bits, most significant bit first.
func FromBytes(b []byte) Sequence {
	out := make(Sequence, 0, len(b)*8)
	return appendBytes(out, b)
}

func appendBytes(dst Sequence, b []byte) Sequence {
	for _, v := range b {
		for i := 7; i >= 0; i-- {
			dst = append(dst, (v>>uint(i))&1)
		}
	}
	return dst
}

// AppendUint appends the low n bits of v to dst, most significant first.
func AppendUint(dst Sequence, v uint, n int) Sequence {
	for i := n - 1; i >= 0; i-- {
		dst = append(dst, byte(v>>uint(i))&1)
	}
	return dst
}

// Window reads n bits starting at offset, wrapping around the end of s.
// It panics on an empty sequence.
func (s Sequence) Window(offset, n int) uint {
	var v uint
	for k := 0; k < n; k++ {
		v = v<<1 | uint(s[(offset+k)%len(s)])
	}
	return v
}

// Repeat returns s cyclically repeated (or truncated) to exactly n bits.
func (s Sequence) Repeat(n int) Sequence {
	out := make(Sequence, n)
	for i := range out {
		out[i] = s[i%len(s)]
	}
	return out
}

// Pad splits s into 256-bit blocks, zero-filling the tail of the last one.
// An empty sequence yields no blocks.
func Pad(s Sequence) []Block {
	blocks := make([]Block, (len(s)+BlockBits-1)/BlockBits)
	for i := range blocks {
		copy(blocks[i][:], s[i*BlockBits:])
	}
	return blocks
}
