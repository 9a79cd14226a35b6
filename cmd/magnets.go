package main

import (
	"context"
	"fmt"

	"github.com/formahq/forma/internal/shared"
	"github.com/formahq/forma/internal/tasks"
	"github.com/urfave/cli/v3"
)

// MagnetsList lists the account's lead magnets.
func (r *Runner) MagnetsList(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(ctx); err != nil {
		return err
	}

	magnets, err := r.forma.GetLeadMagnets(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(magnets, cmd.Bool("pretty"))
	}

	if len(magnets) == 0 {
		r.writePlain("No lead magnets yet. Run 'forma create' to make one.\n")
		return nil
	}

	r.writePlainHeader(fmt.Sprintf("Lead Magnets (%d)", len(magnets)))
	for _, m := range magnets {
		r.writePlain("%4d  %-12s %s\n", m.ID, m.Status, shared.TruncateString(m.Title, 50))
	}
	return nil
}

// MagnetsShow prints one lead magnet.
func (r *Runner) MagnetsShow(ctx context.Context, cmd *cli.Command) error {
	id := int(cmd.IntArg("id"))
	if id == 0 {
		return fmt.Errorf("%w: lead magnet ID required", shared.ErrMissingArgument)
	}
	if err := r.requireAuth(ctx); err != nil {
		return err
	}

	magnet, err := r.forma.GetLeadMagnet(ctx, id)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(magnet, cmd.Bool("pretty"))
	}

	r.writePlainHeader(magnet.Title)
	r.writePlain("ID:        %d\n", magnet.ID)
	r.writePlain("Status:    %s\n", magnet.Status)
	r.writePlain("Downloads: %d\n", magnet.DownloadsCount)
	r.writePlain("Leads:     %d\n", magnet.LeadsCount)
	if magnet.Description != "" {
		r.writePlain("About:     %s\n", magnet.Description)
	}
	if magnet.PDFURL != "" {
		r.writePlain("PDF:       %s\n", magnet.PDFURL)
	}
	return nil
}

// MagnetsDelete removes a lead magnet.
func (r *Runner) MagnetsDelete(ctx context.Context, cmd *cli.Command) error {
	id := int(cmd.IntArg("id"))
	if id == 0 {
		return fmt.Errorf("%w: lead magnet ID required", shared.ErrMissingArgument)
	}
	if err := r.requireAuth(ctx); err != nil {
		return err
	}

	if err := r.forma.DeleteLeadMagnet(ctx, id); err != nil {
		return err
	}

	r.writePlain("✓ Deleted lead magnet %d\n", id)
	return nil
}

// MagnetsExport writes the collection to local files, optionally pulling
// every finished PDF through the download pool.
func (r *Runner) MagnetsExport(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(ctx); err != nil {
		return err
	}

	opts := tasks.ExportOpts{
		Format:       cmd.String("format"),
		OutputDir:    cmd.String("output"),
		DownloadPDFs: cmd.Bool("download"),
		NumWorkers:   int(cmd.Int("workers")),
		RateLimit:    cmd.Float("rate"),
	}

	progressCh := make(chan tasks.ProgressUpdate, 50)
	go func() {
		for update := range progressCh {
			switch update.Phase {
			case tasks.FetchMagnets:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.ExportMagnets:
				r.writePlain("   %s\n", update.Message)
			}
		}
	}()

	result, err := r.export.Export(ctx, progressCh, opts)
	close(progressCh)
	if err != nil {
		return err
	}

	r.writePlainln("═══════════════════════════════════════")
	r.writePlain("Export Complete!\n")
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("Directory: %s\n", result.OutputDirectory)
	r.writePlain("List file: %s\n", result.ListFile)
	r.writePlain("Magnets:   %d\n", result.TotalMagnets)
	if opts.DownloadPDFs {
		r.writePlain("Downloads: %d ok, %d failed\n", result.Downloaded, result.Failed)
	}
	return nil
}
