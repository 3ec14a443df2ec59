package server

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
)

// Default cover dimensions. 512x512 RGB holds about 96 KiB of payload.
const (
	coverWidth  = 512
	coverHeight = 512
)

// DefaultCover renders the built-in cover image as PNG.
func DefaultCover() ([]byte, error) {
	img := image.NewNRGBA(image.Rect(0, 0, coverWidth, coverHeight))
	for y := range coverHeight {
		for x := range coverWidth {
			// Checkerboard of 64px squares with a diagonal gradient.
			shade := uint8((x + y) / 4)
			if (x/64+y/64)%2 == 0 {
				img.SetNRGBA(x, y, color.NRGBA{R: 240 - shade/4, G: 217 - shade/4, B: 181 - shade/4, A: 255})
			} else {
				img.SetNRGBA(x, y, color.NRGBA{R: 181 - shade/4, G: 136 - shade/4, B: 99 - shade/4, A: 255})
			}
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode default cover: %w", err)
	}
	return buf.Bytes(), nil
}
