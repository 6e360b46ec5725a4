package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/webp"
)

// MaxDimension is the longest edge, in pixels, of a stored photo.
const MaxDimension = 1024

// JPEGQuality is the compression quality for stored photos.
const JPEGQuality = 85

// ErrUnsupported is returned for payloads that are not an accepted image.
var ErrUnsupported = errors.New("unsupported image")

var accepted = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// Photo is a normalized jewellery photo ready for storage.
type Photo struct {
	Data   []byte
	MIME   string
	Ext    string
	Width  int
	Height int
}

// Sniff detects the MIME type of data from its leading bytes and reports
// ErrUnsupported unless it is a JPEG, PNG or WebP image.
func Sniff(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty file", ErrUnsupported)
	}
	mime := mimetype.Detect(data).String()
	if !accepted[mime] {
		return "", fmt.Errorf("%w: %s", ErrUnsupported, mime)
	}
	return mime, nil
}

// Normalize decodes an uploaded photo, fits it inside MaxDimension and
// re-encodes it as JPEG. Client headers are never trusted for the format.
func Normalize(data []byte) (*Photo, error) {
	if _, err := Sniff(data); err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupported, err)
	}
	img = fit(img, MaxDimension)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, fmt.Errorf("encoding JPEG: %w", err)
	}

	b := img.Bounds()
	return &Photo{
		Data:   buf.Bytes(),
		MIME:   "image/jpeg",
		Ext:    ".jpg",
		Width:  b.Dx(),
		Height: b.Dy(),
	}, nil
}

// fit scales img down with Catmull-Rom so that neither edge exceeds max.
// Images already within bounds are returned unchanged.
func fit(img image.Image, max int) image.Image {
	src := img.Bounds()
	w, h := src.Dx(), src.Dy()
	if w <= max && h <= max {
		return img
	}

	scale := float64(max) / float64(h)
	if w > h {
		scale = float64(max) / float64(w)
	}
	nw := int(float64(w) * scale)
	nh := int(float64(h) * scale)
	nw, nh = atLeastOne(nw), atLeastOne(nh)

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, src, draw.Over, nil)
	return dst
}

func atLeastOne(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

func init() {
	image.RegisterFormat("jpeg", "\xff\xd8", jpeg.Decode, jpeg.DecodeConfig)
	image.RegisterFormat("png", "\x89PNG", png.Decode, png.DecodeConfig)
	image.RegisterFormat("webp", "RIFF????WEBPVP8", webp.Decode, webp.DecodeConfig)
}
