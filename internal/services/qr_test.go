package services

import (
	"bytes"
	"testing"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func TestQRRenderer_RenderPNG(t *testing.T) {
	r := NewQRRenderer(256)

	png, err := r.RenderPNG("KOSICE-OLDTOWN")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !bytes.HasPrefix(png, pngMagic) {
		t.Error("Expected PNG magic bytes")
	}
}

func TestQRRenderer_EmptyPayload(t *testing.T) {
	r := NewQRRenderer(256)
	if _, err := r.RenderPNG(""); err == nil {
		t.Error("Expected an error for an empty payload")
	}
}

func TestNewQRRenderer_DefaultsSize(t *testing.T) {
	r := NewQRRenderer(0)
	if r.size != 256 {
		t.Errorf("Expected default size 256, got %d", r.size)
	}
}
