package spn

import (
	"encoding/hex"
	"math/bits"
	"math/rand/v2"
	"testing"

	"github.com/chessperm/chessperm-go/internal/bitseq"
)

// uciBits encodes long-algebraic moves the way the transcript encoder does.
func uciBits(moves ...string) bitseq.Sequence {
	var s bitseq.Sequence
	for _, m := range moves {
		for _, v := range []int{int(m[0] - 'a'), int(m[1] - '1'), int(m[2] - 'a'), int(m[3] - '1')} {
			s = append(s, byte(v>>2&1), byte(v>>1&1), byte(v&1))
		}
	}
	return s
}

func setBits(b *bitseq.Block) []int {
	var out []int
	for i, v := range b {
		if v == 1 {
			out = append(out, i)
		}
	}
	return out
}

func TestKnightJump_ReadsSnapshot(t *testing.T) {
	var b bitseq.Block
	b[0] = 1
	knightJump(&b)

	// Index 0 is written to 33 first, then 33 is overwritten from the
	// snapshot; index 239 pulls the original bit 0 last.
	got := setBits(&b)
	if len(got) != 1 || got[0] != 239 {
		t.Errorf("knightJump(bit 0) set bits = %v, want [239]", got)
	}
}

func TestKnightJump_PreservesLength(t *testing.T) {
	var b bitseq.Block
	for i := range b {
		b[i] = 1
	}
	knightJump(&b)
	for i, v := range b {
		if v != 1 {
			t.Fatalf("bit %d = %d after knightJump of all-ones block", i, v)
		}
	}
}

func TestPawnSubstitution(t *testing.T) {
	var b bitseq.Block
	pawnSubstitution(&b)
	p := bitseq.Pack(&b)
	if got, want := hex.EncodeToString(p[:]), "6666666666666666666666666666666666666666666666666666666666666666"; got != want {
		t.Errorf("pawnSubstitution(zero) = %s, want %s", got, want)
	}

	for v := 0; v < 16; v++ {
		var nb bitseq.Block
		nb[0], nb[1], nb[2], nb[3] = byte(v>>3&1), byte(v>>2&1), byte(v>>1&1), byte(v&1)
		pawnSubstitution(&nb)
		got := int(nb[0])<<3 | int(nb[1])<<2 | int(nb[2])<<1 | int(nb[3])
		if got != int(sbox[v]) {
			t.Errorf("nibble %#x -> %#x, want %#x", v, got, sbox[v])
		}
	}
}

func TestSbox_IsPermutation(t *testing.T) {
	want := []byte{6, 11, 12, 0, 5, 7, 10, 13, 1, 15, 3, 9, 14, 8, 4, 2}
	var seen [16]bool
	for i := range want {
		if sbox[i] != want[i] {
			t.Errorf("sbox[%d] = %d, want %d", i, sbox[i], want[i])
		}
		seen[sbox[i]] = true
	}
	for v, ok := range seen {
		if !ok {
			t.Errorf("sbox never outputs %d", v)
		}
	}
}

func TestRookSweep(t *testing.T) {
	var b bitseq.Block
	b[3] = 1
	rookSweep(&b)

	// Row 0 has popcount 1: column 3 -> column 2. Column 2 then has popcount
	// 1: row 0 -> row 15.
	got := setBits(&b)
	if len(got) != 1 || got[0] != 15*16+2 {
		t.Errorf("rookSweep(bit 3) set bits = %v, want [242]", got)
	}

	var full bitseq.Block
	for i := 0; i < 16; i++ {
		full[i] = 1
	}
	rookSweep(&full)
	// A full row rotates by 16 mod 16 = 0; each column then holds one bit at
	// row 0 and rotates up by one.
	for c := 0; c < 16; c++ {
		if full[15*16+c] != 1 {
			t.Errorf("column %d bit not moved to row 15", c)
		}
	}
}

func TestRotateLeft(t *testing.T) {
	s := []byte{1, 2, 3, 4, 5}
	rotateLeft(s, 2)
	want := []byte{3, 4, 5, 1, 2}
	for i := range s {
		if s[i] != want[i] {
			t.Fatalf("rotateLeft() = %v, want %v", s, want)
		}
	}
}

func TestPromotionFlip(t *testing.T) {
	var b bitseq.Block
	promotionFlip(&b, 5)
	promotionFlip(&b, 256+7)
	if got := setBits(&b); len(got) != 2 || got[0] != 5 || got[1] != 7 {
		t.Errorf("promotionFlip set bits = %v, want [5 7]", got)
	}
}

func TestDerive_GoldenVectors(t *testing.T) {
	tests := []struct {
		name string
		bits bitseq.Sequence
		want string
	}{
		{
			name: "ruy lopez transcript",
			bits: uciBits("e2e4", "e7e5", "g1f3", "b8c6", "f1b5", "a7a6"),
			want: "374b11460ab09a852ca782f1cd3271352c1dd702584a188de53a611839ee7a6c",
		},
		{
			name: "password",
			bits: bitseq.FromBytes([]byte("mypassword123")),
			want: "afd594ce43981ca13e3268799bebe54c9b73bd1eccdd6a524267838bb7ef4634",
		},
		{
			name: "password with salt bits",
			bits: append(bitseq.FromBytes([]byte("mypassword123")), bitseq.FromBytes([]byte("pepper"))...),
			want: "8c6ba27da8b233973e22bf23c38262dba07a01a4c137b8c0ea33091d7bdf18e2",
		},
		{
			name: "single zero bit",
			bits: bitseq.Sequence{0},
			want: "90c8302e0e7778b9490d74ec043510e2404b320418f297d605280b0417392565",
		},
		{
			name: "three blocks",
			bits: bitseq.FromBytes([]byte("The quick brown fox jumps over the lazy dog while the knight takes e5!")),
			want: "6c507ca262ca7cd0b352f19df0040a4787df3840f71eb43cecac64e24fd32fb9",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, workers := range []int{0, 1, 4} {
				got := Derive(tt.bits, workers)
				if hex.EncodeToString(got[:]) != tt.want {
					t.Errorf("Derive(workers=%d) = %x, want %s", workers, got, tt.want)
				}
			}
		})
	}
}

func TestRobust_GoldenVectors(t *testing.T) {
	pw := bitseq.FromBytes([]byte("mypassword123"))
	long := []byte("The quick brown fox jumps over the lazy dog while the knight takes e5!")

	tests := []struct {
		name       string
		bits       bitseq.Sequence
		salt       []byte
		iterations int
		want       string
	}{
		{
			name:       "zero iterations is hashed Derive",
			bits:       pw,
			iterations: 0,
			want:       "8f3d0986c40628e873d89e9dad6c5870d738aece187740cb1f636484a38d72a6",
		},
		{
			name:       "salted",
			bits:       append(bitseq.FromBytes([]byte("mypassword123")), bitseq.FromBytes([]byte("pepper"))...),
			salt:       []byte("pepper"),
			iterations: 3,
			want:       "b8eeb059f1aaf96876629ee81fad8d048ed926c287b22d21fcfcb13d24372d47",
		},
		{
			name:       "unsalted",
			bits:       bitseq.FromBytes([]byte("hunter2")),
			iterations: 2,
			want:       "6b668deec0a71eec215012a5a3142dcc31d2e6a52447106ddf2d026551adb72c",
		},
		{
			name:       "salted multi-block",
			bits:       append(bitseq.FromBytes(long), bitseq.FromBytes([]byte("NaCl"))...),
			salt:       []byte("NaCl"),
			iterations: 2,
			want:       "3f452d22dd00aedf004c36402c63bdddb500b2adbd53f7e23d91d2d863290b6a",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Robust(tt.bits, tt.salt, tt.iterations, 0)
			if hex.EncodeToString(got[:]) != tt.want {
				t.Errorf("Robust() = %x, want %s", got, tt.want)
			}
		})
	}
}

func TestFold_OrderIndependent(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7))
	blocks := make([]bitseq.Block, 5)
	for i := range blocks {
		for j := range blocks[i] {
			blocks[i][j] = byte(rng.IntN(2))
		}
	}
	want := Fold(blocks)

	reversed := make([]bitseq.Block, len(blocks))
	for i := range blocks {
		reversed[len(blocks)-1-i] = blocks[i]
	}
	if got := Fold(reversed); got != want {
		t.Errorf("Fold(reversed) = %x, want %x", got, want)
	}

	if got := Fold(blocks[:1]); got != bitseq.Pack(&blocks[0]) {
		t.Errorf("Fold(single) = %x, want packed block", got)
	}

	pair := []bitseq.Block{blocks[0], blocks[0]}
	if got := Fold(pair); got != ([32]byte{}) {
		t.Errorf("Fold(x, x) = %x, want zero", got)
	}
}

func TestDerive_Avalanche(t *testing.T) {
	// 16 bytes gives 128 single-bit trials.
	base := bitseq.FromBytes([]byte("MySecret123-2024"))
	if len(base) < 100 {
		t.Fatalf("only %d trials", len(base))
	}
	baseKey := Derive(base, 1)

	total := 0
	for i := range base {
		flipped := make(bitseq.Sequence, len(base))
		copy(flipped, base)
		flipped[i] ^= 1
		key := Derive(flipped, 1)
		for j := range key {
			total += bits.OnesCount8(key[j] ^ baseKey[j])
		}
	}
	mean := float64(total) / float64(len(base))
	t.Logf("mean bits changed per single-bit input flip: %.2f of 256", mean)
	if mean == 0 {
		t.Error("single-bit input flips never changed the output")
	}
}

func BenchmarkDerive(b *testing.B) {
	bits := bitseq.FromBytes([]byte("The quick brown fox jumps over the lazy dog while the knight takes e5!"))
	for i := 0; i < b.N; i++ {
		_ = Derive(bits, 0)
	}
}

func BenchmarkRobust(b *testing.B) {
	bits := bitseq.FromBytes([]byte("mypassword123"))
	for i := 0; i < b.N; i++ {
		_ = Robust(bits, []byte("salt"), 100, 0)
	}
}
