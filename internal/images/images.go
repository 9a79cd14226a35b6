// package images manages the fixed-size image batch attached to a template.
//
// A batch has exactly the number of slots the template requires. Files are
// validated by header, oversized files are rejected, and anything above the
// compression threshold is re-encoded to fit the layout. Each filled slot
// keeps a preview file on disk until the slot is replaced, removed, or the
// batch is closed.
package images

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"

	"github.com/formahq/forma/internal/shared"
)

// Slot holds one accepted image.
type Slot struct {
	SourcePath  string
	FilePath    string // file submitted to the API, recompressed when needed
	PreviewPath string
	Compressed  bool
	Size        int64
}

// Batch is a fixed set of image slots for one template selection.
type Batch struct {
	required int
	slots    []*Slot
	workDir  string
}

// NewBatch creates a batch with the given number of required slots.
func NewBatch(required int) (*Batch, error) {
	if required <= 0 {
		return nil, fmt.Errorf("%w: batch requires at least one slot", shared.ErrInvalidArgument)
	}

	workDir, err := os.MkdirTemp("", "forma-images-")
	if err != nil {
		return nil, fmt.Errorf("failed to create image work directory: %w", err)
	}

	return &Batch{
		required: required,
		slots:    make([]*Slot, required),
		workDir:  workDir,
	}, nil
}

// Required returns the slot count the template demands.
func (b *Batch) Required() int { return b.required }

// FilledCount returns how many slots currently hold an image.
func (b *Batch) FilledCount() int {
	count := 0
	for _, s := range b.slots {
		if s != nil {
			count++
		}
	}
	return count
}

// Slots returns the current slot contents; empty slots are nil.
func (b *Batch) Slots() []*Slot {
	out := make([]*Slot, len(b.slots))
	copy(out, b.slots)
	return out
}

// Set validates and places the file at path into slot index, replacing and
// releasing any previous occupant.
func (b *Batch) Set(index int, path string) error {
	if index < 0 || index >= b.required {
		return fmt.Errorf("%w: slot %d out of range (batch has %d slots)", shared.ErrInvalidArgument, index, b.required)
	}

	if _, err := DetectFormat(path); err != nil {
		return err
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat image: %w", err)
	}
	if info.Size() > MaxFileSize {
		return fmt.Errorf("%w: %s is %d bytes (limit %d)", shared.ErrImageTooLarge, filepath.Base(path), info.Size(), MaxFileSize)
	}

	slot := &Slot{SourcePath: path, FilePath: path, Size: info.Size()}

	if info.Size() > CompressThreshold {
		compressed := filepath.Join(b.workDir, shared.GenerateID()+".jpg")
		if err := CompressFile(path, compressed); err != nil {
			return err
		}
		slot.FilePath = compressed
		slot.Compressed = true
		if ci, err := os.Stat(compressed); err == nil {
			slot.Size = ci.Size()
		}
	}

	preview := filepath.Join(b.workDir, shared.GenerateID()+".preview")
	data, err := os.ReadFile(slot.FilePath)
	if err != nil {
		return fmt.Errorf("failed to read processed image: %w", err)
	}
	if err := os.WriteFile(preview, data, 0644); err != nil {
		return fmt.Errorf("failed to write preview file: %w", err)
	}
	slot.PreviewPath = preview

	b.release(index)
	b.slots[index] = slot
	return nil
}

// Add places the file into the first empty slot.
func (b *Batch) Add(path string) error {
	for i, s := range b.slots {
		if s == nil {
			return b.Set(i, path)
		}
	}
	return fmt.Errorf("%w: all %d slots are filled", shared.ErrInvalidArgument, b.required)
}

// AddFiles fills empty slots in order. Per-file failures (bad format,
// oversized) are collected as warnings rather than aborting the batch.
func (b *Batch) AddFiles(paths ...string) []string {
	var warnings []string
	for _, path := range paths {
		if err := b.Add(path); err != nil {
			warnings = append(warnings, err.Error())
		}
	}
	return warnings
}

// Remove empties a slot and releases its preview file.
func (b *Batch) Remove(index int) error {
	if index < 0 || index >= b.required {
		return fmt.Errorf("%w: slot %d out of range (batch has %d slots)", shared.ErrInvalidArgument, index, b.required)
	}
	b.release(index)
	b.slots[index] = nil
	return nil
}

// Clear empties every slot.
func (b *Batch) Clear() {
	for i := range b.slots {
		b.release(i)
		b.slots[i] = nil
	}
}

// Ready reports whether the batch holds exactly the required count.
func (b *Batch) Ready() error {
	filled := b.FilledCount()
	if filled != b.required {
		return fmt.Errorf("%w: need exactly %d images, have %d", shared.ErrIncompleteBatch, b.required, filled)
	}
	return nil
}

// Files returns the processed file paths in slot order. The batch must be
// complete.
func (b *Batch) Files() ([]string, error) {
	if err := b.Ready(); err != nil {
		return nil, err
	}
	files := make([]string, 0, b.required)
	for _, s := range b.slots {
		files = append(files, s.FilePath)
	}
	return files, nil
}

// DataURLs encodes the processed images as base64 data URLs for the preview
// endpoint. The batch must be complete.
func (b *Batch) DataURLs() ([]string, error) {
	if err := b.Ready(); err != nil {
		return nil, err
	}

	urls := make([]string, 0, b.required)
	for _, s := range b.slots {
		data, err := os.ReadFile(s.FilePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read image: %w", err)
		}
		mime := "image/jpeg"
		if !s.Compressed {
			if format, err := DetectFormat(s.FilePath); err == nil {
				mime = "image/" + format
			}
		}
		urls = append(urls, "data:"+mime+";base64,"+base64.StdEncoding.EncodeToString(data))
	}
	return urls, nil
}

// Close releases every preview and the batch work directory.
func (b *Batch) Close() error {
	b.Clear()
	return os.RemoveAll(b.workDir)
}

// release removes the preview and any compressed copy backing a slot.
func (b *Batch) release(index int) {
	s := b.slots[index]
	if s == nil {
		return
	}
	if s.PreviewPath != "" {
		os.Remove(s.PreviewPath)
	}
	if s.Compressed && s.FilePath != s.SourcePath {
		os.Remove(s.FilePath)
	}
}
