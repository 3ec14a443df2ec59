package chessperm

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/chessperm/chessperm-go/internal/api"
)

// Archive member names.
const (
	ArchiveImage      = api.ArchiveImage
	ArchivePrivateKey = api.ArchivePrivateKey
)

// maxArchiveMember bounds how much of a single archive member is read.
const maxArchiveMember = 64 << 20

// Archive packs the envelope as a zip holding stego.png and private_key.txt.
func (e *Envelope) Archive() ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, f := range []struct {
		name string
		data []byte
	}{
		{ArchiveImage, e.Image},
		{ArchivePrivateKey, []byte(e.SecretKeyHex)},
	} {
		w, err := zw.Create(f.name)
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", f.name, err)
		}
		if _, err := w.Write(f.data); err != nil {
			return nil, fmt.Errorf("write %s: %w", f.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close archive: %w", err)
	}
	return buf.Bytes(), nil
}

// ParseArchive reads an archive produced by [Envelope.Archive].
func ParseArchive(b []byte) (*Envelope, error) {
	img, err := readMember(b, ArchiveImage)
	if err != nil {
		return nil, err
	}
	key, err := readMember(b, ArchivePrivateKey)
	if err != nil {
		return nil, err
	}
	return &Envelope{Image: img, SecretKeyHex: strings.TrimSpace(string(key))}, nil
}

// ImageFromArchive returns the stego image inside an archive.
func ImageFromArchive(b []byte) ([]byte, error) {
	return readMember(b, ArchiveImage)
}

func readMember(b []byte, name string) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArchive, err)
	}

	f, err := zr.Open(name)
	if err != nil {
		return nil, fmt.Errorf("%w: archive does not contain %s", ErrInvalidArchive, name)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxArchiveMember+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrInvalidArchive, name, err)
	}
	if len(data) > maxArchiveMember {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrInvalidArchive, name, maxArchiveMember)
	}
	return data, nil
}
