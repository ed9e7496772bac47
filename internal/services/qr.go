package services

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// TokenRenderer renders a check-in payload as a scannable image. The
// payload is opaque to the engine: zone access codes and quest
// completion tokens both pass straight through.
type TokenRenderer interface {
	RenderPNG(payload string) ([]byte, error)
}

// QRRenderer implements TokenRenderer as a QR code PNG.
type QRRenderer struct {
	size int
}

var _ TokenRenderer = (*QRRenderer)(nil)

// NewQRRenderer creates a renderer producing size×size pixel PNGs.
func NewQRRenderer(size int) *QRRenderer {
	if size <= 0 {
		size = 256
	}
	return &QRRenderer{size: size}
}

func (r *QRRenderer) RenderPNG(payload string) ([]byte, error) {
	if payload == "" {
		return nil, fmt.Errorf("empty payload")
	}
	png, err := qrcode.Encode(payload, qrcode.Medium, r.size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR code: %w", err)
	}
	return png, nil
}
