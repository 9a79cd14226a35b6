package main

import (
	"context"

	"github.com/formahq/forma/internal/services"
	"github.com/formahq/forma/internal/shared"
	"github.com/formahq/forma/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Generate renders a lead magnet to PDF and saves it to the download
// directory, waiting out a remote render when the server is already busy.
func (r *Runner) Generate(ctx context.Context, cmd *cli.Command) error {
	id := int(cmd.Int("id"))
	if err := r.requireAuth(ctx); err != nil {
		return err
	}

	req := services.GeneratePDFRequest{
		LeadMagnetID: id,
		TemplateID:   cmd.String("template"),
		UseAIContent: cmd.Bool("ai"),
	}

	if cmd.Bool("preview") {
		return r.generatePreview(ctx, req)
	}

	r.logger.Info("generating PDF", "lead_magnet_id", id)
	r.writePlain("Generating PDF for lead magnet %d...\n\n", id)

	progressCh := make(chan tasks.ProgressUpdate, 50)
	go func() {
		for update := range progressCh {
			switch update.Phase {
			case tasks.SubmitGeneration:
				r.writePlain("📄 %s\n", update.Message)
			case tasks.AwaitGeneration:
				r.writePlain("   %s\n", update.Message)
			case tasks.DownloadDocument:
				r.writePlain("📥 %s\n", update.Message)
			}
		}
	}()

	result, err := r.generate.Run(ctx, req, progressCh)
	close(progressCh)

	if err != nil {
		return err
	}
	if result.Skipped {
		r.writePlain("A generation is already in flight; nothing to do.\n")
		return nil
	}

	r.writePlainln("═══════════════════════════════════════")
	r.writePlain("Generation Complete!\n")
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("Saved: %s (%d bytes)\n", result.Path, result.Bytes)

	if cmd.Bool("open") {
		if err := shared.OpenFile(result.Path); err != nil {
			r.logger.Warn("could not open PDF", "error", err)
		}
	}
	return nil
}

// generatePreview renders the document to a temp file and opens it without
// touching the download directory.
func (r *Runner) generatePreview(ctx context.Context, req services.GeneratePDFRequest) error {
	r.writePlain("Rendering preview for lead magnet %d...\n", req.LeadMagnetID)

	path, err := r.forma.GeneratePDFPreview(ctx, req)
	if err != nil {
		return err
	}
	if path == "" {
		r.writePlain("A generation is already in flight; nothing to do.\n")
		return nil
	}

	r.writePlain("Preview written to %s\n", path)
	if err := shared.OpenFile(path); err != nil {
		r.logger.Warn("could not open preview", "error", err)
	}
	return nil
}
