package images

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"os"

	"golang.org/x/image/draw"

	"github.com/formahq/forma/internal/shared"

	_ "image/png"

	_ "golang.org/x/image/webp"
)

const (
	// MaxFileSize is the hard per-file limit; larger files are rejected.
	MaxFileSize = 10 << 20

	// CompressThreshold is the size above which a file is recompressed.
	CompressThreshold = 2 << 20

	// MaxDimension bounds the longest edge after recompression.
	MaxDimension = 1200

	// JPEGQuality is the encoder quality used for recompressed files.
	JPEGQuality = 80
)

// DetectFormat sniffs the file header and returns "jpeg", "png", or "webp".
// Anything else is rejected with [shared.ErrUnsupportedImage].
func DetectFormat(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	header := make([]byte, 16)
	n, err := io.ReadFull(f, header)
	if err != nil && n < 12 {
		return "", fmt.Errorf("%w: %s", shared.ErrUnsupportedImage, path)
	}
	header = header[:n]

	switch {
	case bytes.HasPrefix(header, []byte{0xFF, 0xD8, 0xFF}):
		return "jpeg", nil
	case bytes.HasPrefix(header, []byte{0x89, 0x50, 0x4E, 0x47}):
		return "png", nil
	case bytes.HasPrefix(header, []byte("RIFF")) && bytes.Equal(header[8:12], []byte("WEBP")):
		return "webp", nil
	default:
		return "", fmt.Errorf("%w: %s", shared.ErrUnsupportedImage, path)
	}
}

// FitWithin scales (w, h) to fit inside a max×max box preserving aspect
// ratio. Dimensions already inside the box are returned unchanged.
func FitWithin(w, h, max int) (int, int) {
	if w <= max && h <= max {
		return w, h
	}
	if w >= h {
		scaled := h * max / w
		if scaled < 1 {
			scaled = 1
		}
		return max, scaled
	}
	scaled := w * max / h
	if scaled < 1 {
		scaled = 1
	}
	return scaled, max
}

// Compress decodes an image, scales it to fit within MaxDimension, and
// encodes it as JPEG at JPEGQuality.
func Compress(r io.Reader, w io.Writer) error {
	src, _, err := image.Decode(r)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrUnsupportedImage, err)
	}

	bounds := src.Bounds()
	width, height := FitWithin(bounds.Dx(), bounds.Dy(), MaxDimension)

	out := src
	if width != bounds.Dx() || height != bounds.Dy() {
		dst := image.NewRGBA(image.Rect(0, 0, width, height))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
		out = dst
	}

	if err := jpeg.Encode(w, out, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return fmt.Errorf("failed to encode image: %w", err)
	}
	return nil
}

// CompressFile recompresses src into a JPEG at dst.
func CompressFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open image: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer out.Close()

	if err := Compress(in, out); err != nil {
		os.Remove(dst)
		return err
	}
	return nil
}
