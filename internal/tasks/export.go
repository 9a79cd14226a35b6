package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/formahq/forma/internal/formatter"
	"github.com/formahq/forma/internal/models"
	"github.com/formahq/forma/internal/shared"
)

// ExportOpts contains configuration for bulk lead magnet exports.
type ExportOpts struct {
	Format       string  // Export format: json, csv, markdown, txt
	OutputDir    string  // Base output directory (default: forma_export_{epoch})
	DownloadPDFs bool    // Also download each finished document
	NumWorkers   int     // Concurrent download workers (default: 3)
	RateLimit    float64 // Requests per second (default: 5)
}

// MagnetExportResult records the outcome for one lead magnet.
type MagnetExportResult struct {
	MagnetID int    `json:"magnet_id"`
	Title    string `json:"title"`
	Success  bool   `json:"success"`
	File     string `json:"file,omitempty"`
	Error    string `json:"error,omitempty"`
}

// ExportResult summarizes a bulk export run.
type ExportResult struct {
	OutputDirectory string               `json:"output_directory"`
	ListFile        string               `json:"list_file"`
	TotalMagnets    int                  `json:"total_magnets"`
	Downloaded      int                  `json:"downloaded"`
	Failed          int                  `json:"failed"`
	Results         []MagnetExportResult `json:"results,omitempty"`
	ManifestPath    string               `json:"-"`
}

type downloadJob struct {
	magnet models.LeadMagnet
}

// ExportEngine exports the lead magnet collection to local files, with an
// optional concurrent, rate-limited download of the finished PDFs.
type ExportEngine struct {
	forma Forma
}

// NewExportEngine creates an ExportEngine over the API façade.
func NewExportEngine(forma Forma) *ExportEngine {
	return &ExportEngine{forma: forma}
}

// Export writes the lead magnet list in the requested format and, when
// DownloadPDFs is set, pulls every finished document through a worker pool.
func (e *ExportEngine) Export(ctx context.Context, progress chan<- ProgressUpdate, opts ExportOpts) (*ExportResult, error) {
	if e.forma == nil {
		return nil, fmt.Errorf("%w: API façade not initialized", shared.ErrServiceUnavailable)
	}

	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("forma_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 3
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	sendProgress(progress, fetchMagnetsUpdate())
	magnets, err := e.forma.GetLeadMagnets(ctx)
	if err != nil {
		return nil, err
	}

	result := &ExportResult{
		OutputDirectory: opts.OutputDir,
		TotalMagnets:    len(magnets),
		Results:         make([]MagnetExportResult, 0, len(magnets)),
	}

	listFile, err := formatter.WriteListExport(magnets, opts.Format, opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to write list export: %w", err)
	}
	result.ListFile = listFile

	if opts.DownloadPDFs {
		e.downloadAll(ctx, progress, magnets, opts, result)
	}

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	data, err := shared.MarshalJSON(result, true)
	if err != nil {
		return result, fmt.Errorf("export completed but failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(manifestPath, data, 0644); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	return result, nil
}

// downloadAll pulls finished documents through a rate-limited worker pool.
func (e *ExportEngine) downloadAll(ctx context.Context, progress chan<- ProgressUpdate, magnets []models.LeadMagnet, opts ExportOpts, result *ExportResult) {
	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan downloadJob, len(magnets))
	results := make(chan MagnetExportResult, len(magnets))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				select {
				case <-ctx.Done():
					return
				default:
				}
				if err := limiter.Wait(ctx); err != nil {
					return
				}
				results <- e.downloadOne(ctx, job.magnet, opts.OutputDir)
			}
		}()
	}

	queued := 0
	for _, m := range magnets {
		if m.PDFURL == "" {
			continue
		}
		queued++
		sendProgress(progress, exportingUpdate(queued, len(magnets), m.Title))
		jobs <- downloadJob{magnet: m}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)
		if res.Success {
			result.Downloaded++
			sendProgress(progress, exportCompletedUpdate(completed, queued, res.Title))
		} else {
			result.Failed++
			sendProgress(progress, exportFailedUpdate(completed, queued, res.Title, fmt.Errorf("%s", res.Error)))
		}
	}
}

// downloadOne fetches a single finished document.
func (e *ExportEngine) downloadOne(ctx context.Context, magnet models.LeadMagnet, outputDir string) MagnetExportResult {
	res := MagnetExportResult{MagnetID: magnet.ID, Title: magnet.Title}

	data, err := e.forma.FetchPDF(ctx, magnet.PDFURL)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	path := filepath.Join(outputDir, fmt.Sprintf("lead-magnet-%d.pdf", magnet.ID))
	if err := os.WriteFile(path, data, 0644); err != nil {
		res.Error = err.Error()
		return res
	}

	res.Success = true
	res.File = path
	return res
}
