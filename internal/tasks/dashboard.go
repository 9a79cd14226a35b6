package tasks

import (
	"context"
	"sync"

	"github.com/formahq/forma/internal/models"
)

// DashboardSnapshot holds everything the dashboard view renders.
type DashboardSnapshot struct {
	Stats   models.DashboardStats
	Magnets []models.LeadMagnet
}

// DashboardEngine assembles the dashboard from independent API calls.
type DashboardEngine struct {
	forma Forma
}

// NewDashboardEngine creates a DashboardEngine over the API façade.
func NewDashboardEngine(forma Forma) *DashboardEngine {
	return &DashboardEngine{forma: forma}
}

// Snapshot fetches stats and the lead magnet list concurrently. Stats never
// fail (the façade degrades them to zeros); a list failure is the only error
// surfaced.
func (e *DashboardEngine) Snapshot(ctx context.Context, progress chan<- ProgressUpdate) (*DashboardSnapshot, error) {
	snapshot := &DashboardSnapshot{}

	var wg sync.WaitGroup
	var listErr error

	wg.Add(2)
	go func() {
		defer wg.Done()
		sendProgress(progress, fetchStatsUpdate())
		snapshot.Stats = e.forma.GetDashboardStats(ctx)
	}()
	go func() {
		defer wg.Done()
		sendProgress(progress, fetchMagnetsUpdate())
		snapshot.Magnets, listErr = e.forma.GetLeadMagnets(ctx)
	}()
	wg.Wait()

	if listErr != nil {
		return nil, listErr
	}
	return snapshot, nil
}
