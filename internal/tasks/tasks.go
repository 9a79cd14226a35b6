// package tasks implements long-running lead magnet operations.
//
// Engines orchestrate the Forma façade and emit progress updates via
// channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/formahq/forma/internal/models"
	"github.com/formahq/forma/internal/services"
	"github.com/formahq/forma/internal/shared"
)

// Forma defines the slice of the API façade the engines depend on.
// The abstraction allows for easier testing and decoupling from the
// concrete implementation.
type Forma interface {
	GeneratePDF(ctx context.Context, req services.GeneratePDFRequest) (*services.PDFResult, error)
	GetDashboardStats(ctx context.Context) models.DashboardStats
	GetLeadMagnets(ctx context.Context) ([]models.LeadMagnet, error)
	FetchPDF(ctx context.Context, url string) ([]byte, error)
}

// GenerateResult contains the outcome of a generation run.
type GenerateResult struct {
	Path    string // Where the PDF landed
	Bytes   int    // Size of the document
	Skipped bool   // Another generation was already in flight
}

// GenerateEngine drives PDF generation end to end: submit, wait out a
// remote render when the server answers 409, and save the document.
type GenerateEngine struct {
	forma       Forma
	downloadDir string
}

// NewGenerateEngine creates a GenerateEngine saving documents to downloadDir.
func NewGenerateEngine(forma Forma, downloadDir string) *GenerateEngine {
	if downloadDir == "" {
		downloadDir = "."
	}
	return &GenerateEngine{forma: forma, downloadDir: downloadDir}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// Run generates the PDF for a lead magnet and writes it to the download
// directory as lead-magnet-<id>.pdf.
func (e *GenerateEngine) Run(ctx context.Context, req services.GeneratePDFRequest, progress chan<- ProgressUpdate) (*GenerateResult, error) {
	if e.forma == nil {
		return nil, fmt.Errorf("%w: API façade not initialized", shared.ErrServiceUnavailable)
	}

	sendProgress(progress, submitUpdate(req.LeadMagnetID))

	req.OnPoll = func(attempt, max int) {
		sendProgress(progress, pollUpdate(attempt, max))
	}

	result, err := e.forma.GeneratePDF(ctx, req)
	if err != nil {
		return nil, err
	}
	if result.Skipped {
		sendProgress(progress, skippedUpdate())
		return &GenerateResult{Skipped: true}, nil
	}

	sendProgress(progress, downloadUpdate())

	if err := os.MkdirAll(e.downloadDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create download directory: %w", err)
	}
	path := filepath.Join(e.downloadDir, fmt.Sprintf("lead-magnet-%d.pdf", req.LeadMagnetID))
	if err := os.WriteFile(path, result.Data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}

	sendProgress(progress, doneUpdate(path, len(result.Data)))

	return &GenerateResult{Path: path, Bytes: len(result.Data)}, nil
}
