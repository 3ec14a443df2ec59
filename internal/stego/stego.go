// Package stego hides byte payloads in the least significant bits of an
// image's red, green and blue channels.
//
// Pixels are visited in row-major order and each contributes three bits
// (R, G, B). The payload is written MSB-first and followed by the 16-bit
// terminator 1111111111111110. Alpha is never touched.
package stego

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"iter"

	// Cover images may be supplied as JPEG; output is always PNG.
	_ "image/jpeg"

	"github.com/chessperm/chessperm-go/internal/apierrors"
)

// Terminator marks the end of an embedded payload.
const Terminator uint16 = 0xFFFE

const terminatorBits = 16

// Capacity returns how many payload bytes img can carry.
func Capacity(img image.Image) int {
	b := img.Bounds()
	bits := b.Dx()*b.Dy()*3 - terminatorBits
	if bits < 0 {
		return 0
	}
	return bits / 8
}

// Embed returns a copy of cover with data and the terminator written into
// its channel LSBs.
func Embed(cover image.Image, data []byte) (*image.NRGBA, error) {
	if need, have := len(data), Capacity(cover); need > have {
		return nil, fmt.Errorf("%w: need %d bytes, image holds %d", apierrors.ErrImageTooSmall, need, have)
	}

	out := cloneNRGBA(cover)
	w := bitWriter{pix: out}
	for _, v := range data {
		for i := 7; i >= 0; i-- {
			w.write(v >> uint(i) & 1)
		}
	}
	for i := terminatorBits - 1; i >= 0; i-- {
		w.write(byte(Terminator>>uint(i)) & 1)
	}
	return out, nil
}

// Candidates yields, in scan order, the bytes preceding every byte-aligned
// terminator found in img. The first candidate is the shortest. Payload
// bytes can themselves contain the terminator pattern, so callers that can
// authenticate the payload should try candidates until one verifies.
func Candidates(img image.Image) iter.Seq[[]byte] {
	return func(yield func([]byte) bool) {
		pix := toNRGBA(img)
		r := pix.Rect
		var (
			data  []byte
			cur   byte
			n     int
			shift uint16
		)
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				off := pix.PixOffset(x, y)
				for c := 0; c < 3; c++ {
					bit := pix.Pix[off+c] & 1
					n++
					shift = shift<<1 | uint16(bit)
					cur = cur<<1 | bit
					if n%8 != 0 {
						continue
					}
					data = append(data, cur)
					cur = 0
					if n >= terminatorBits && shift == Terminator {
						end := len(data) - terminatorBits/8
						if !yield(data[:end:end]) {
							return
						}
					}
				}
			}
		}
	}
}

// Extract returns the payload ending at the first byte-aligned terminator.
func Extract(img image.Image) ([]byte, error) {
	for data := range Candidates(img) {
		if len(data) == 0 {
			break
		}
		return data, nil
	}
	return nil, apierrors.ErrNoHiddenData
}

// EmbedPNG decodes cover (PNG or JPEG), embeds data and returns PNG bytes.
func EmbedPNG(cover, data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(cover))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apierrors.ErrInvalidImage, err)
	}
	out, err := Embed(img, data)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodePNG decodes a stego image.
func DecodePNG(b []byte) (image.Image, error) {
	img, err := png.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apierrors.ErrNoHiddenData, err)
	}
	return img, nil
}

func toNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok {
		return n
	}
	return cloneNRGBA(img)
}

// cloneNRGBA copies img into a fresh NRGBA. NRGBA sources are copied row by
// row so translucent pixels keep their exact channel values.
func cloneNRGBA(img image.Image) *image.NRGBA {
	r := img.Bounds()
	out := image.NewNRGBA(r)
	src, ok := img.(*image.NRGBA)
	if !ok {
		draw.Draw(out, r, img, r.Min, draw.Src)
		return out
	}
	rowLen := 4 * r.Dx()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		so, do := src.PixOffset(r.Min.X, y), out.PixOffset(r.Min.X, y)
		copy(out.Pix[do:do+rowLen], src.Pix[so:so+rowLen])
	}
	return out
}

type bitWriter struct {
	pix *image.NRGBA
	n   int
}

func (w *bitWriter) write(bit byte) {
	px, c := w.n/3, w.n%3
	r := w.pix.Rect
	x, y := r.Min.X+px%r.Dx(), r.Min.Y+px/r.Dx()
	off := w.pix.PixOffset(x, y) + c
	w.pix.Pix[off] = w.pix.Pix[off]&^1 | bit
	w.n++
}
