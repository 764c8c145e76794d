// Package label renders printable QR labels for location names, so a shelf
// label can be scanned to open a counting session for that location.
package label

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
	"golang.org/x/image/draw"
)

// Label size bounds in pixels.
const (
	MinSize     = 64
	MaxSize     = 1024
	DefaultSize = 256
)

// Generate renders a QR label PNG encoding the given location name. The code
// is generated at its natural module resolution and scaled up with
// nearest-neighbour so modules stay crisp when printed.
func Generate(name string, size int) ([]byte, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("empty label text")
	}
	if size < MinSize {
		size = MinSize
	}
	if size > MaxSize {
		size = MaxSize
	}

	qr, err := qrcode.New(name, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("generating QR code: %w", err)
	}

	// One pixel per module, including the quiet zone.
	src := qr.Image(-1)

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("encoding PNG: %w", err)
	}
	return buf.Bytes(), nil
}
