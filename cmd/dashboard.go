package main

import (
	"context"

	"github.com/formahq/forma/internal/formatter"
	"github.com/formahq/forma/internal/shared"
	"github.com/formahq/forma/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Dashboard fetches stats and the lead magnet list concurrently and prints
// a summary.
func (r *Runner) Dashboard(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(ctx); err != nil {
		return err
	}

	progressCh := make(chan tasks.ProgressUpdate, 10)
	go func() {
		for update := range progressCh {
			r.logger.Debug("dashboard", "phase", update.Phase.String(), "message", update.Message)
		}
	}()

	snapshot, err := r.dashboard.Snapshot(ctx, progressCh)
	close(progressCh)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(snapshot, true)
	}

	r.writePlainHeader("Dashboard")
	r.output.Write(formatter.StatsToText(snapshot.Stats))

	if len(snapshot.Magnets) == 0 {
		r.writePlain("\nNo lead magnets yet. Run 'forma create' to make one.\n")
		return nil
	}

	r.writePlainln("Recent lead magnets:")
	for i, m := range snapshot.Magnets {
		if i >= 10 {
			r.writePlain("  ... and %d more (forma magnets list)\n", len(snapshot.Magnets)-i)
			break
		}
		r.writePlain("  %4d  %-12s %s\n", m.ID, m.Status, shared.TruncateString(m.Title, 50))
	}
	return nil
}
