package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/formahq/forma/internal/images"
	"github.com/formahq/forma/internal/shared"
	"github.com/formahq/forma/internal/ui"
	"github.com/formahq/forma/internal/wizard"
	"github.com/urfave/cli/v3"
)

// Create launches the interactive lead magnet wizard.
func (r *Runner) Create(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(ctx); err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, logFile, err := shared.NewFileLogger("./tmp/forma-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	defer logFile.Close()
	r.SetLogger(shared.WithLogger(fileLogger, "command", "create"))

	slots := int(cmd.Int("images"))
	if slots <= 0 {
		slots = r.config.Generate.MaxImages
	}

	form := &wizard.Form{}
	if slots > 0 {
		batch, err := images.NewBatch(slots)
		if err != nil {
			return err
		}
		defer batch.Close()
		form.Images = batch
	}

	machine := wizard.NewMachine(r.forma, form)

	draftID := ""
	if cmd.Bool("resume") && r.drafts != nil {
		saved, err := r.drafts.LoadLatest()
		if err != nil {
			r.logger.Warn("could not load saved draft", "error", err)
		} else if saved != nil {
			machine.Restore(wizard.StageID(saved.Stage), saved.Draft)
			draftID = saved.ID
			r.logger.Info("resumed draft", "id", saved.ID, "stage", saved.Stage)
		}
	}
	if r.drafts != nil {
		machine.WithDraftStore(r.drafts, draftID)
	}

	model := ui.NewModel(ctx, machine, r.forma, r.generate)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	if magnet := machine.Created(); magnet != nil {
		r.writePlain("✓ Created lead magnet %d: %s\n", magnet.ID, magnet.Title)
	}
	return nil
}
