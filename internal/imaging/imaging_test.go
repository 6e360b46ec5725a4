package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func encodeJPEG(w, h int) []byte {
	var buf bytes.Buffer
	jpeg.Encode(&buf, solid(w, h, color.RGBA{212, 175, 55, 255}), &jpeg.Options{Quality: 90})
	return buf.Bytes()
}

func encodePNG(w, h int) []byte {
	var buf bytes.Buffer
	png.Encode(&buf, solid(w, h, color.RGBA{192, 192, 192, 255}))
	return buf.Bytes()
}

func TestSniff(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
		ok   bool
	}{
		{"jpeg", encodeJPEG(8, 8), "image/jpeg", true},
		{"png", encodePNG(8, 8), "image/png", true},
		{"gif", []byte("GIF89a\x01\x00\x01\x00"), "", false},
		{"text", []byte("a plain text note"), "", false},
		{"empty", nil, "", false},
	}

	for _, tt := range tests {
		got, err := Sniff(tt.data)
		if tt.ok {
			if err != nil {
				t.Errorf("%s: unexpected error %v", tt.name, err)
			}
			if got != tt.want {
				t.Errorf("%s: expected %s, got %s", tt.name, tt.want, got)
			}
			continue
		}
		if !errors.Is(err, ErrUnsupported) {
			t.Errorf("%s: expected ErrUnsupported, got %v", tt.name, err)
		}
	}
}

func TestNormalizeOutputsJPEG(t *testing.T) {
	for name, data := range map[string][]byte{"jpeg": encodeJPEG(100, 60), "png": encodePNG(100, 60)} {
		p, err := Normalize(data)
		if err != nil {
			t.Fatalf("%s: Normalize: %v", name, err)
		}
		if p.MIME != "image/jpeg" || p.Ext != ".jpg" {
			t.Errorf("%s: expected JPEG output, got %s %s", name, p.MIME, p.Ext)
		}
		if p.Width != 100 || p.Height != 60 {
			t.Errorf("%s: small photo should keep its size, got %dx%d", name, p.Width, p.Height)
		}
	}
}

func TestNormalizeDownscales(t *testing.T) {
	p, err := Normalize(encodeJPEG(2048, 1024))
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if p.Width != MaxDimension || p.Height != MaxDimension/2 {
		t.Errorf("expected %dx%d, got %dx%d", MaxDimension, MaxDimension/2, p.Width, p.Height)
	}

	img, _, err := image.Decode(bytes.NewReader(p.Data))
	if err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	if b := img.Bounds(); b.Dx() != p.Width || b.Dy() != p.Height {
		t.Errorf("encoded size %dx%d does not match reported %dx%d", b.Dx(), b.Dy(), p.Width, p.Height)
	}
}

func TestNormalizeTallPhoto(t *testing.T) {
	p, err := Normalize(encodePNG(300, 3000))
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if p.Height != MaxDimension || p.Width != 102 {
		t.Errorf("expected 102x%d, got %dx%d", MaxDimension, p.Width, p.Height)
	}
}

func TestNormalizeRejectsCorruptImage(t *testing.T) {
	data := encodePNG(10, 10)
	_, err := Normalize(data[:20])
	if !errors.Is(err, ErrUnsupported) {
		t.Errorf("expected ErrUnsupported for truncated PNG, got %v", err)
	}
}
