package chessperm_test

import (
	"bytes"
	"crypto/sha3"
	"errors"
	"image"
	"image/png"
	"testing"

	chessperm "github.com/chessperm/chessperm-go"
	fuzz "github.com/trailofbits/go-fuzz-utils"
)

func seedCorpus(f *testing.F, label string) {
	drbg := sha3.NewSHAKE128()
	_, _ = drbg.Write([]byte(label))

	for range 10 {
		seed := make([]byte, 256)
		_, _ = drbg.Read(seed)
		f.Add(seed)
	}
}

// FuzzDerive checks that every input derives a key, twice the same, and that
// password and transcript modes agree when no token parses as a move.
func FuzzDerive(f *testing.F) {
	seedCorpus(f, "chessperm derive")

	f.Fuzz(func(t *testing.T, data []byte) {
		tp, err := fuzz.NewTypeProvider(data)
		if err != nil {
			t.Skip(err)
		}

		input, err := tp.GetString()
		if err != nil {
			t.Skip(err)
		}
		salt, err := tp.GetBytes()
		if err != nil {
			t.Skip(err)
		}
		engineByte, err := tp.GetByte()
		if err != nil {
			t.Skip(err)
		}
		plies, err := tp.GetByte()
		if err != nil {
			t.Skip(err)
		}

		engine := chessperm.EngineSPN
		if engineByte%2 == 1 {
			engine = chessperm.EngineGame
		}
		opts := []chessperm.DeriveOption{
			chessperm.WithSalt(salt),
			chessperm.WithEngine(engine),
			chessperm.WithPlies(int(plies)),
		}

		k1, err := chessperm.DeriveFromTranscript(input, opts...)
		if input == "" && len(salt) == 0 {
			if !errors.Is(err, chessperm.ErrInvalidInput) {
				t.Fatalf("empty input: error = %v, want ErrInvalidInput", err)
			}
			return
		}
		if err != nil {
			t.Fatalf("DeriveFromTranscript() error = %v", err)
		}

		k2, err := chessperm.DeriveFromTranscript(input, opts...)
		if err != nil {
			t.Fatal(err)
		}
		if k1 != k2 {
			t.Fatalf("non-deterministic: %s != %s", k1.Hex(), k2.Hex())
		}

		accepted := false
		rules := chessperm.NewStandardRules()
		for _, tok := range bytes.Fields([]byte(input)) {
			if m, err := rules.ParseSAN(string(tok)); err == nil && rules.Apply(m) == nil {
				accepted = true
				break
			}
		}
		if !accepted {
			k3, err := chessperm.DeriveFromPassword(input, opts...)
			if err != nil {
				t.Fatal(err)
			}
			if k3 != k1 {
				t.Fatalf("no move accepted but transcript key %s != password key %s", k1.Hex(), k3.Hex())
			}
		}
	})
}

// FuzzOpen feeds arbitrary bytes to Open under a transcript that sealed
// nothing. It must fail cleanly.
func FuzzOpen(f *testing.F) {
	seedCorpus(f, "chessperm open")

	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 64, 64))); err != nil {
		f.Fatal(err)
	}
	env, err := chessperm.Seal("e4", "fuzz", buf.Bytes())
	if err != nil {
		f.Fatal(err)
	}
	f.Add(buf.Bytes())
	f.Add(env.Image)
	f.Add([]byte("PK\x03\x04"))

	f.Fuzz(func(t *testing.T, data []byte) {
		msg, err := chessperm.Open(data, env.SecretKeyHex, "d4")
		if !errors.Is(err, chessperm.ErrDecryptionFailed) {
			t.Fatalf("Open() = %q, %v, want ErrDecryptionFailed", msg, err)
		}
	})
}
