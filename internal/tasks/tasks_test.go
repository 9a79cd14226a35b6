package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/formahq/forma/internal/models"
	"github.com/formahq/forma/internal/services"
	"github.com/formahq/forma/internal/shared"
	tu "github.com/formahq/forma/internal/testing"
)

// fakeForma implements the Forma interface for engine tests.
type fakeForma struct {
	pdfResult  *services.PDFResult
	pdfErr     error
	pollRounds int
	lastReq    services.GeneratePDFRequest

	stats   models.DashboardStats
	magnets []models.LeadMagnet
	listErr error

	mu       sync.Mutex
	fetched  []string
	fetchErr error
}

func (f *fakeForma) GeneratePDF(ctx context.Context, req services.GeneratePDFRequest) (*services.PDFResult, error) {
	f.lastReq = req
	if req.OnPoll != nil {
		for i := 1; i <= f.pollRounds; i++ {
			req.OnPoll(i, 10)
		}
	}
	return f.pdfResult, f.pdfErr
}

func (f *fakeForma) GetDashboardStats(ctx context.Context) models.DashboardStats {
	return f.stats
}

func (f *fakeForma) GetLeadMagnets(ctx context.Context) ([]models.LeadMagnet, error) {
	return f.magnets, f.listErr
}

func (f *fakeForma) FetchPDF(ctx context.Context, url string) ([]byte, error) {
	f.mu.Lock()
	f.fetched = append(f.fetched, url)
	f.mu.Unlock()
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return []byte("%PDF-1.4 content for " + url), nil
}

func drainUpdates(progress chan ProgressUpdate) []ProgressUpdate {
	close(progress)
	var updates []ProgressUpdate
	for u := range progress {
		updates = append(updates, u)
	}
	return updates
}

func TestGenerateEngine(t *testing.T) {
	t.Run("writes the document and reports every phase", func(t *testing.T) {
		forma := &fakeForma{
			pdfResult:  &services.PDFResult{Data: []byte("%PDF-1.4 test"), URL: "/media/42.pdf"},
			pollRounds: 2,
		}
		dir := t.TempDir()
		engine := NewGenerateEngine(forma, dir)

		progress := make(chan ProgressUpdate, 16)
		result, err := engine.Run(context.Background(), services.GeneratePDFRequest{LeadMagnetID: 42}, progress)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		wantPath := filepath.Join(dir, "lead-magnet-42.pdf")
		if result.Path != wantPath {
			t.Errorf("expected path %s, got %s", wantPath, result.Path)
		}
		if result.Bytes != len("%PDF-1.4 test") {
			t.Errorf("unexpected byte count %d", result.Bytes)
		}

		if got := tu.MustReadFile(t, wantPath); got != "%PDF-1.4 test" {
			t.Error("written document does not match the result")
		}

		phases := make(map[Phase]int)
		for _, u := range drainUpdates(progress) {
			phases[u.Phase]++
		}
		if phases[SubmitGeneration] != 1 {
			t.Errorf("expected 1 submit update, got %d", phases[SubmitGeneration])
		}
		if phases[AwaitGeneration] != 2 {
			t.Errorf("expected 2 poll updates, got %d", phases[AwaitGeneration])
		}
		if phases[DownloadDocument] != 1 || phases[GenerationDone] != 1 {
			t.Errorf("expected download and done updates, got %v", phases)
		}
	})

	t.Run("skipped generations write nothing", func(t *testing.T) {
		forma := &fakeForma{pdfResult: &services.PDFResult{Skipped: true}}
		dir := t.TempDir()
		engine := NewGenerateEngine(forma, dir)

		result, err := engine.Run(context.Background(), services.GeneratePDFRequest{LeadMagnetID: 42}, nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !result.Skipped {
			t.Error("expected skipped result")
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatal(err)
		}
		if len(entries) != 0 {
			t.Errorf("expected empty download dir, got %d entries", len(entries))
		}
	})

	t.Run("generation failures surface", func(t *testing.T) {
		forma := &fakeForma{pdfErr: fmt.Errorf("%w: render worker crashed", shared.ErrServer)}
		engine := NewGenerateEngine(forma, t.TempDir())

		if _, err := engine.Run(context.Background(), services.GeneratePDFRequest{LeadMagnetID: 42}, nil); !errors.Is(err, shared.ErrServer) {
			t.Errorf("expected server error, got %v", err)
		}
	})

	t.Run("nil façade fails fast", func(t *testing.T) {
		engine := NewGenerateEngine(nil, "")
		if _, err := engine.Run(context.Background(), services.GeneratePDFRequest{}, nil); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected service unavailable, got %v", err)
		}
	})

	t.Run("defaults the download dir to the working directory", func(t *testing.T) {
		engine := NewGenerateEngine(&fakeForma{}, "")
		if engine.downloadDir != "." {
			t.Errorf("expected default dir, got %q", engine.downloadDir)
		}
	})
}

func TestDashboardEngine(t *testing.T) {
	t.Run("assembles stats and magnets", func(t *testing.T) {
		forma := &fakeForma{
			stats: models.DashboardStats{TotalLeadMagnets: 4, TotalDownloads: 120},
			magnets: []models.LeadMagnet{
				{ID: 1, Title: "Passive House Guide", Status: models.StatusActive},
				{ID: 2, Title: "ROI Checklist", Status: models.StatusDraft},
			},
		}
		engine := NewDashboardEngine(forma)

		progress := make(chan ProgressUpdate, 8)
		snapshot, err := engine.Snapshot(context.Background(), progress)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if snapshot.Stats.TotalLeadMagnets != 4 {
			t.Errorf("unexpected stats %+v", snapshot.Stats)
		}
		if len(snapshot.Magnets) != 2 {
			t.Errorf("expected 2 magnets, got %d", len(snapshot.Magnets))
		}

		phases := make(map[Phase]int)
		for _, u := range drainUpdates(progress) {
			phases[u.Phase]++
		}
		if phases[FetchStats] != 1 || phases[FetchMagnets] != 1 {
			t.Errorf("expected one update per fetch, got %v", phases)
		}
	})

	t.Run("list failures surface", func(t *testing.T) {
		forma := &fakeForma{listErr: fmt.Errorf("%w: try again later", shared.ErrServiceUnavailable)}
		engine := NewDashboardEngine(forma)

		if _, err := engine.Snapshot(context.Background(), nil); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected list error surfaced, got %v", err)
		}
	})
}

func TestExportEngine(t *testing.T) {
	magnets := []models.LeadMagnet{
		{ID: 1, Title: "Passive House Guide", Status: models.StatusActive, PDFURL: "/media/1.pdf"},
		{ID: 2, Title: "ROI Checklist", Status: models.StatusDraft},
		{ID: 3, Title: "Smart Homes Report", Status: models.StatusActive, PDFURL: "/media/3.pdf"},
	}

	t.Run("writes the list and manifest", func(t *testing.T) {
		forma := &fakeForma{magnets: magnets}
		engine := NewExportEngine(forma)
		dir := t.TempDir()

		result, err := engine.Export(context.Background(), nil, ExportOpts{Format: "json", OutputDir: dir})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.TotalMagnets != 3 {
			t.Errorf("expected 3 magnets, got %d", result.TotalMagnets)
		}
		if result.Downloaded != 0 {
			t.Error("downloads must be opt-in")
		}

		if _, err := os.Stat(result.ListFile); err != nil {
			t.Errorf("expected list file: %v", err)
		}

		var manifest ExportResult
		data, err := os.ReadFile(filepath.Join(dir, "export_manifest.json"))
		if err != nil {
			t.Fatalf("expected manifest: %v", err)
		}
		if err := json.Unmarshal(data, &manifest); err != nil {
			t.Fatalf("manifest is not valid JSON: %v", err)
		}
		if manifest.TotalMagnets != 3 {
			t.Errorf("unexpected manifest %+v", manifest)
		}
	})

	t.Run("downloads only finished documents", func(t *testing.T) {
		forma := &fakeForma{magnets: magnets}
		engine := NewExportEngine(forma)
		dir := t.TempDir()

		progress := make(chan ProgressUpdate, 32)
		result, err := engine.Export(context.Background(), progress, ExportOpts{
			Format:       "json",
			OutputDir:    dir,
			DownloadPDFs: true,
			NumWorkers:   2,
			RateLimit:    100,
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if result.Downloaded != 2 || result.Failed != 0 {
			t.Errorf("expected 2 downloads, got %+v", result)
		}
		if len(forma.fetched) != 2 {
			t.Errorf("expected 2 fetches, got %v", forma.fetched)
		}
		for _, id := range []int{1, 3} {
			tu.AssertFileExists(t, filepath.Join(dir, fmt.Sprintf("lead-magnet-%d.pdf", id)))
		}
		if _, err := os.Stat(filepath.Join(dir, "lead-magnet-2.pdf")); !os.IsNotExist(err) {
			t.Error("drafts without a document must not be downloaded")
		}

		var exported int
		for _, u := range drainUpdates(progress) {
			if u.Phase == ExportMagnets {
				exported++
			}
		}
		// Two queue updates plus two completion updates.
		if exported != 4 {
			t.Errorf("expected 4 export updates, got %d", exported)
		}
	})

	t.Run("records per-magnet failures without aborting", func(t *testing.T) {
		forma := &fakeForma{magnets: magnets, fetchErr: errors.New("gone")}
		engine := NewExportEngine(forma)

		result, err := engine.Export(context.Background(), nil, ExportOpts{
			Format:       "csv",
			OutputDir:    t.TempDir(),
			DownloadPDFs: true,
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.Failed != 2 || result.Downloaded != 0 {
			t.Errorf("expected 2 failures, got %+v", result)
		}
		for _, res := range result.Results {
			if res.Success || res.Error == "" {
				t.Errorf("expected failure recorded, got %+v", res)
			}
		}
	})

	t.Run("unknown formats fall back to JSON", func(t *testing.T) {
		forma := &fakeForma{magnets: magnets}
		engine := NewExportEngine(forma)

		result, err := engine.Export(context.Background(), nil, ExportOpts{Format: "yaml", OutputDir: t.TempDir()})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if filepath.Base(result.ListFile) != "lead_magnets.json" {
			t.Errorf("expected JSON fallback, got %s", result.ListFile)
		}
	})

	t.Run("nil façade fails fast", func(t *testing.T) {
		engine := NewExportEngine(nil)
		if _, err := engine.Export(context.Background(), nil, ExportOpts{}); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected service unavailable, got %v", err)
		}
	})
}
