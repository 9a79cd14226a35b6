package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/formahq/forma/internal/images"
	"github.com/formahq/forma/internal/models"
	"github.com/formahq/forma/internal/services"
	"github.com/formahq/forma/internal/shared"
	"github.com/urfave/cli/v3"
)

// TemplatesList lists available PDF layout templates.
func (r *Runner) TemplatesList(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(ctx); err != nil {
		return err
	}

	templates, err := r.forma.GetTemplates(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(templates, cmd.Bool("pretty"))
	}

	if len(templates) == 0 {
		r.writePlain("No templates available\n")
		return nil
	}

	r.writePlainHeader(fmt.Sprintf("Templates (%d)", len(templates)))
	for _, t := range templates {
		r.writePlain("%-20s %s\n", t.ID, t.Name)
		if t.Description != "" {
			r.writePlain("%-20s %s\n", "", shared.TruncateString(t.Description, 60))
		}
	}
	return nil
}

// TemplatesPreview renders a server-side template preview and opens it in
// the browser. Images fill the template's slots as base64 data URLs.
func (r *Runner) TemplatesPreview(ctx context.Context, cmd *cli.Command) error {
	templateID := cmd.StringArg("id")
	if templateID == "" {
		return fmt.Errorf("%w: template ID required", shared.ErrMissingArgument)
	}
	if err := r.requireAuth(ctx); err != nil {
		return err
	}

	var dataURLs []string
	if paths := cmd.StringSlice("image"); len(paths) > 0 {
		batch, err := images.NewBatch(len(paths))
		if err != nil {
			return err
		}
		defer batch.Close()

		for _, warning := range batch.AddFiles(paths...) {
			r.logger.Warn("skipping image", "reason", warning)
		}
		if dataURLs, err = batch.DataURLs(); err != nil {
			return err
		}
	}

	html, err := r.forma.PreviewTemplate(ctx, templateID, dataURLs)
	if err != nil {
		return err
	}

	path, err := writePreviewFile(html)
	if err != nil {
		return err
	}

	r.writePlain("Preview written to %s\n", path)
	if err := shared.OpenFile(path); err != nil {
		r.logger.Warn("could not open browser", "error", err)
	}
	return nil
}

func writePreviewFile(html string) (string, error) {
	path := filepath.Join(os.TempDir(), "forma-preview-"+shared.GenerateID()+".html")
	if err := os.WriteFile(path, []byte(html), 0644); err != nil {
		return "", fmt.Errorf("failed to write preview file: %w", err)
	}
	return path, nil
}

// Slogan asks the API for a slogan suggestion from topic and audience.
func (r *Runner) Slogan(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(ctx); err != nil {
		return err
	}

	draft := models.Draft{
		MainTopic:      cmd.String("topic"),
		TargetAudience: cmd.StringSlice("audience"),
	}

	req := services.SloganRequest{Answers: &draft}
	if profile, err := r.forma.GetFirmProfile(ctx); err == nil {
		req.FirmProfile = profile
	}

	slogan, err := r.forma.GenerateSlogan(ctx, req)
	if err != nil {
		return err
	}

	r.writePlain("%s\n", slogan)
	return nil
}
