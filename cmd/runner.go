package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/formahq/forma/internal/repositories"
	"github.com/formahq/forma/internal/services"
	"github.com/formahq/forma/internal/shared"
	"github.com/formahq/forma/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config    *shared.Config
	auth      *services.AuthService
	forma     *services.FormaService
	tokens    services.TokenStore
	drafts    *repositories.DraftRepository
	logger    *log.Logger
	output    io.Writer
	generate  *tasks.GenerateEngine
	dashboard *tasks.DashboardEngine
	export    *tasks.ExportEngine
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config *shared.Config
	Auth   *services.AuthService
	Forma  *services.FormaService
	Tokens services.TokenStore
	Drafts *repositories.DraftRepository
	Logger *log.Logger
	Output io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:    opts.Config,
		auth:      opts.Auth,
		forma:     opts.Forma,
		tokens:    opts.Tokens,
		drafts:    opts.Drafts,
		logger:    opts.Logger,
		output:    opts.Output,
		generate:  tasks.NewGenerateEngine(opts.Forma, opts.Config.Generate.DownloadDir),
		dashboard: tasks.NewDashboardEngine(opts.Forma),
		export:    tasks.NewExportEngine(opts.Forma),
	}
}

// SetLogger swaps the runner's logger, typically for file-backed logging
// while a TUI owns the terminal.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, profileCommand, createCommand, magnetsCommand, templatesCommand, dashboardCommand, generateCommand, sloganCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
