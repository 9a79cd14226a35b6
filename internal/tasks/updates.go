package tasks

import "fmt"

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	SubmitGeneration Phase = iota
	AwaitGeneration
	DownloadDocument
	GenerationDone
	FetchStats
	FetchMagnets
	ExportMagnets
)

func (p Phase) String() string {
	switch p {
	case SubmitGeneration:
		return "submit_generation"
	case AwaitGeneration:
		return "await_generation"
	case DownloadDocument:
		return "download_document"
	case GenerationDone:
		return "generation_done"
	case FetchStats:
		return "fetch_stats"
	case FetchMagnets:
		return "fetch_magnets"
	case ExportMagnets:
		return "export_magnets"
	default:
		return ""
	}
}

func submitUpdate(leadMagnetID int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SubmitGeneration,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Submitting generation request for lead magnet %d...", leadMagnetID),
	}
}

func pollUpdate(attempt, max int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AwaitGeneration,
		Step:    attempt,
		Total:   max,
		Message: fmt.Sprintf("[%d/%d] Waiting for the server to finish rendering...", attempt, max),
	}
}

func downloadUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   DownloadDocument,
		Step:    1,
		Total:   1,
		Message: "Saving PDF...",
	}
}

func doneUpdate(path string, size int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   GenerationDone,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("PDF saved to %s (%d bytes)", path, size),
		Data:    path,
	}
}

func skippedUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   GenerationDone,
		Step:    1,
		Total:   1,
		Message: "A generation is already in flight; nothing to do",
	}
}

func fetchStatsUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchStats,
		Step:    1,
		Total:   2,
		Message: "Fetching dashboard stats...",
	}
}

func fetchMagnetsUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchMagnets,
		Step:    2,
		Total:   2,
		Message: "Fetching lead magnets...",
	}
}

func exportingUpdate(step, total int, title string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportMagnets,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Exporting: %s...", step, total, title),
	}
}

func exportCompletedUpdate(step, total int, title string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportMagnets,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s", step, total, title),
	}
}

func exportFailedUpdate(step, total int, title string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportMagnets,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, title, err),
	}
}
