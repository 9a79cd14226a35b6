package images

import (
	"bytes"
	"errors"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/formahq/forma/internal/shared"
)

func writeJPEG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("failed to encode jpeg: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatalf("failed to write jpeg: %v", err)
	}
}

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatalf("failed to write png: %v", err)
	}
}

func TestDetectFormat(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("jpeg", func(t *testing.T) {
		path := filepath.Join(tmpDir, "a.jpg")
		writeJPEG(t, path, 10, 10)
		format, err := DetectFormat(path)
		if err != nil || format != "jpeg" {
			t.Errorf("expected jpeg, got %q (%v)", format, err)
		}
	})

	t.Run("png", func(t *testing.T) {
		path := filepath.Join(tmpDir, "a.png")
		writePNG(t, path, 10, 10)
		format, err := DetectFormat(path)
		if err != nil || format != "png" {
			t.Errorf("expected png, got %q (%v)", format, err)
		}
	})

	t.Run("webp header", func(t *testing.T) {
		path := filepath.Join(tmpDir, "a.webp")
		header := append([]byte("RIFF"), 0, 0, 0, 0)
		header = append(header, []byte("WEBPVP8 ")...)
		if err := os.WriteFile(path, header, 0644); err != nil {
			t.Fatalf("failed to write webp header: %v", err)
		}
		format, err := DetectFormat(path)
		if err != nil || format != "webp" {
			t.Errorf("expected webp, got %q (%v)", format, err)
		}
	})

	t.Run("unsupported format", func(t *testing.T) {
		path := filepath.Join(tmpDir, "a.gif")
		if err := os.WriteFile(path, []byte("GIF89a trailer bytes"), 0644); err != nil {
			t.Fatalf("failed to write gif: %v", err)
		}
		_, err := DetectFormat(path)
		if !errors.Is(err, shared.ErrUnsupportedImage) {
			t.Errorf("expected unsupported image error, got %v", err)
		}
	})

	t.Run("tiny file", func(t *testing.T) {
		path := filepath.Join(tmpDir, "tiny")
		if err := os.WriteFile(path, []byte{0xFF}, 0644); err != nil {
			t.Fatalf("failed to write file: %v", err)
		}
		if _, err := DetectFormat(path); !errors.Is(err, shared.ErrUnsupportedImage) {
			t.Errorf("expected unsupported image error, got %v", err)
		}
	})
}

func TestFitWithin(t *testing.T) {
	tc := []struct {
		name         string
		w, h, max    int
		wantW, wantH int
	}{
		{"already inside", 800, 600, 1200, 800, 600},
		{"wide landscape", 2400, 1200, 1200, 1200, 600},
		{"tall portrait", 1200, 2400, 1200, 600, 1200},
		{"square oversized", 3000, 3000, 1200, 1200, 1200},
		{"extreme ratio floors at one", 100000, 10, 1200, 1200, 1},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			gotW, gotH := FitWithin(tt.w, tt.h, tt.max)
			if gotW != tt.wantW || gotH != tt.wantH {
				t.Errorf("FitWithin(%d, %d, %d) = (%d, %d), want (%d, %d)",
					tt.w, tt.h, tt.max, gotW, gotH, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestCompress(t *testing.T) {
	t.Run("downscales oversized images", func(t *testing.T) {
		img := image.NewRGBA(image.Rect(0, 0, 2400, 1600))
		var in, out bytes.Buffer
		if err := png.Encode(&in, img); err != nil {
			t.Fatalf("failed to encode source: %v", err)
		}

		if err := Compress(&in, &out); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		decoded, format, err := image.Decode(&out)
		if err != nil {
			t.Fatalf("failed to decode output: %v", err)
		}
		if format != "jpeg" {
			t.Errorf("expected jpeg output, got %s", format)
		}
		bounds := decoded.Bounds()
		if bounds.Dx() > MaxDimension || bounds.Dy() > MaxDimension {
			t.Errorf("output exceeds max dimension: %dx%d", bounds.Dx(), bounds.Dy())
		}
	})

	t.Run("rejects undecodable input", func(t *testing.T) {
		var out bytes.Buffer
		err := Compress(bytes.NewReader([]byte("not an image")), &out)
		if !errors.Is(err, shared.ErrUnsupportedImage) {
			t.Errorf("expected unsupported image error, got %v", err)
		}
	})
}

func TestBatch(t *testing.T) {
	t.Run("NewBatch rejects non-positive slot counts", func(t *testing.T) {
		if _, err := NewBatch(0); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected invalid argument, got %v", err)
		}
	})

	t.Run("small files pass through untouched", func(t *testing.T) {
		tmpDir := t.TempDir()
		path := filepath.Join(tmpDir, "small.jpg")
		writeJPEG(t, path, 100, 100)

		batch, err := NewBatch(1)
		if err != nil {
			t.Fatalf("failed to create batch: %v", err)
		}
		defer batch.Close()

		if err := batch.Set(0, path); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		slot := batch.Slots()[0]
		if slot.Compressed {
			t.Error("expected small file to skip compression")
		}
		if slot.FilePath != path {
			t.Errorf("expected original path, got %s", slot.FilePath)
		}

		original, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read original: %v", err)
		}
		submitted, err := os.ReadFile(slot.FilePath)
		if err != nil {
			t.Fatalf("failed to read submitted file: %v", err)
		}
		if !bytes.Equal(original, submitted) {
			t.Error("expected submitted bytes to be identical to the original")
		}
	})

	t.Run("rejects unsupported files", func(t *testing.T) {
		tmpDir := t.TempDir()
		path := filepath.Join(tmpDir, "doc.txt")
		if err := os.WriteFile(path, []byte("plain text file contents"), 0644); err != nil {
			t.Fatalf("failed to write file: %v", err)
		}

		batch, err := NewBatch(1)
		if err != nil {
			t.Fatalf("failed to create batch: %v", err)
		}
		defer batch.Close()

		if err := batch.Set(0, path); !errors.Is(err, shared.ErrUnsupportedImage) {
			t.Errorf("expected unsupported image error, got %v", err)
		}
	})

	t.Run("rejects out of range slots", func(t *testing.T) {
		batch, err := NewBatch(2)
		if err != nil {
			t.Fatalf("failed to create batch: %v", err)
		}
		defer batch.Close()

		if err := batch.Set(2, "whatever.jpg"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected invalid argument, got %v", err)
		}
		if err := batch.Remove(-1); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected invalid argument, got %v", err)
		}
	})

	t.Run("Ready requires an exact count", func(t *testing.T) {
		tmpDir := t.TempDir()
		batch, err := NewBatch(3)
		if err != nil {
			t.Fatalf("failed to create batch: %v", err)
		}
		defer batch.Close()

		if err := batch.Ready(); !errors.Is(err, shared.ErrIncompleteBatch) {
			t.Errorf("empty batch: expected incomplete error, got %v", err)
		}

		for i := 0; i < 2; i++ {
			path := filepath.Join(tmpDir, "img.jpg")
			writeJPEG(t, path, 50, 50)
			if err := batch.Set(i, path); err != nil {
				t.Fatalf("failed to fill slot %d: %v", i, err)
			}
			if err := batch.Ready(); !errors.Is(err, shared.ErrIncompleteBatch) {
				t.Errorf("partial batch: expected incomplete error, got %v", err)
			}
		}

		path := filepath.Join(tmpDir, "img3.jpg")
		writeJPEG(t, path, 50, 50)
		if err := batch.Set(2, path); err != nil {
			t.Fatalf("failed to fill last slot: %v", err)
		}
		if err := batch.Ready(); err != nil {
			t.Errorf("full batch: expected ready, got %v", err)
		}
		if batch.FilledCount() != 3 {
			t.Errorf("expected 3 filled slots, got %d", batch.FilledCount())
		}
	})

	t.Run("Add fills the first empty slot", func(t *testing.T) {
		tmpDir := t.TempDir()
		batch, err := NewBatch(2)
		if err != nil {
			t.Fatalf("failed to create batch: %v", err)
		}
		defer batch.Close()

		first := filepath.Join(tmpDir, "first.jpg")
		second := filepath.Join(tmpDir, "second.jpg")
		writeJPEG(t, first, 50, 50)
		writeJPEG(t, second, 50, 50)

		if err := batch.Add(first); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if err := batch.Add(second); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if err := batch.Add(first); err == nil {
			t.Error("expected error adding to a full batch")
		}

		slots := batch.Slots()
		if slots[0].SourcePath != first || slots[1].SourcePath != second {
			t.Errorf("unexpected slot order: %v / %v", slots[0].SourcePath, slots[1].SourcePath)
		}
	})

	t.Run("AddFiles collects warnings", func(t *testing.T) {
		tmpDir := t.TempDir()
		good := filepath.Join(tmpDir, "good.jpg")
		bad := filepath.Join(tmpDir, "bad.txt")
		writeJPEG(t, good, 50, 50)
		if err := os.WriteFile(bad, []byte("plain text file contents"), 0644); err != nil {
			t.Fatalf("failed to write file: %v", err)
		}

		batch, err := NewBatch(2)
		if err != nil {
			t.Fatalf("failed to create batch: %v", err)
		}
		defer batch.Close()

		warnings := batch.AddFiles(good, bad)
		if len(warnings) != 1 {
			t.Errorf("expected 1 warning, got %v", warnings)
		}
		if batch.FilledCount() != 1 {
			t.Errorf("expected 1 filled slot, got %d", batch.FilledCount())
		}
	})

	t.Run("Remove releases the preview file", func(t *testing.T) {
		tmpDir := t.TempDir()
		path := filepath.Join(tmpDir, "img.jpg")
		writeJPEG(t, path, 50, 50)

		batch, err := NewBatch(1)
		if err != nil {
			t.Fatalf("failed to create batch: %v", err)
		}
		defer batch.Close()

		if err := batch.Set(0, path); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		preview := batch.Slots()[0].PreviewPath
		if _, err := os.Stat(preview); err != nil {
			t.Fatalf("preview should exist: %v", err)
		}

		if err := batch.Remove(0); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if _, err := os.Stat(preview); !os.IsNotExist(err) {
			t.Error("expected preview to be removed")
		}
		if batch.FilledCount() != 0 {
			t.Errorf("expected empty batch, got %d", batch.FilledCount())
		}
	})

	t.Run("replacing a slot releases the old preview", func(t *testing.T) {
		tmpDir := t.TempDir()
		path := filepath.Join(tmpDir, "img.jpg")
		writeJPEG(t, path, 50, 50)

		batch, err := NewBatch(1)
		if err != nil {
			t.Fatalf("failed to create batch: %v", err)
		}
		defer batch.Close()

		if err := batch.Set(0, path); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		oldPreview := batch.Slots()[0].PreviewPath

		if err := batch.Set(0, path); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if _, err := os.Stat(oldPreview); !os.IsNotExist(err) {
			t.Error("expected old preview to be removed")
		}
	})

	t.Run("DataURLs encodes every slot", func(t *testing.T) {
		tmpDir := t.TempDir()
		path := filepath.Join(tmpDir, "img.png")
		writePNG(t, path, 20, 20)

		batch, err := NewBatch(1)
		if err != nil {
			t.Fatalf("failed to create batch: %v", err)
		}
		defer batch.Close()

		if _, err := batch.DataURLs(); !errors.Is(err, shared.ErrIncompleteBatch) {
			t.Errorf("expected incomplete error before filling, got %v", err)
		}

		if err := batch.Set(0, path); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		urls, err := batch.DataURLs()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(urls) != 1 {
			t.Fatalf("expected 1 URL, got %d", len(urls))
		}
		if want := "data:image/png;base64,"; len(urls[0]) < len(want) || urls[0][:len(want)] != want {
			t.Errorf("unexpected data URL prefix: %.40s", urls[0])
		}
	})

	t.Run("Close removes the work directory", func(t *testing.T) {
		batch, err := NewBatch(1)
		if err != nil {
			t.Fatalf("failed to create batch: %v", err)
		}

		workDir := batch.workDir
		if err := batch.Close(); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if _, err := os.Stat(workDir); !os.IsNotExist(err) {
			t.Error("expected work directory to be removed")
		}
	})
}
