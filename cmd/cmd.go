// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// authCommand handles account and session operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage authentication",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Authenticate with email and password",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "email",
						Aliases:  []string{"e"},
						Usage:    "Account email",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "password",
						Aliases:  []string{"p"},
						Usage:    "Account password",
						Required: true,
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:  "register",
				Usage: "Create a new account (log in afterwards)",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "email",
						Aliases:  []string{"e"},
						Usage:    "Account email",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "password",
						Aliases:  []string{"p"},
						Usage:    "Account password",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "name",
						Usage: "Display name",
					},
					&cli.StringFlag{
						Name:  "phone",
						Usage: "Phone number",
					},
				},
				Action: r.AuthRegister,
			},
			{
				Name:   "logout",
				Usage:  "Discard the local session",
				Action: r.AuthLogout,
			},
			{
				Name:   "status",
				Usage:  "Show session state and API availability",
				Action: r.AuthStatus,
			},
			{
				Name:  "delete-account",
				Usage: "Permanently delete the account",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "yes",
						Usage: "Skip the confirmation prompt",
					},
				},
				Action: r.AuthDelete,
			},
		},
	}
}

// profileCommand handles firm profile operations
func profileCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "profile",
		Usage: "Manage the firm profile",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Display the firm profile",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.ProfileShow,
			},
			{
				Name:  "update",
				Usage: "Create or update the firm profile",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "name",
						Usage: "Firm name",
					},
					&cli.StringFlag{
						Name:  "email",
						Usage: "Work email",
					},
					&cli.StringFlag{
						Name:  "phone",
						Usage: "Phone number",
					},
					&cli.StringFlag{
						Name:  "website",
						Usage: "Firm website (bare domains get https://)",
					},
					&cli.StringFlag{
						Name:  "size",
						Usage: "Firm size (1-2, 3-5, 6-10, 11+)",
					},
					&cli.StringFlag{
						Name:  "country",
						Usage: "Location country",
					},
					&cli.StringSliceFlag{
						Name:  "industry",
						Usage: "Industry specialty (repeatable)",
					},
					&cli.StringFlag{
						Name:  "logo",
						Usage: "Path to a logo image to upload",
					},
					&cli.StringFlag{
						Name:  "brand-color",
						Usage: "Primary brand color (hex)",
					},
					&cli.StringFlag{
						Name:  "secondary-color",
						Usage: "Secondary brand color (hex)",
					},
					&cli.StringFlag{
						Name:  "font",
						Usage: "Preferred font style",
					},
					&cli.StringFlag{
						Name:  "guidelines",
						Usage: "Additional branding guidelines",
					},
				},
				Action: r.ProfileUpdate,
			},
		},
	}
}

// magnetsCommand handles lead magnet collection operations
func magnetsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "magnets",
		Aliases: []string{"lm"},
		Usage:   "Manage lead magnets",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List lead magnets",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.MagnetsList,
			},
			{
				Name:  "show",
				Usage: "Show one lead magnet",
				Arguments: []cli.Argument{
					&cli.IntArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.MagnetsShow,
			},
			{
				Name:  "delete",
				Usage: "Delete a lead magnet",
				Arguments: []cli.Argument{
					&cli.IntArg{Name: "id"},
				},
				Action: r.MagnetsDelete,
			},
			{
				Name:  "export",
				Usage: "Export the lead magnet list, optionally downloading PDFs",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format: json, csv, markdown, txt",
						Value:   "json",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output directory",
					},
					&cli.BoolFlag{
						Name:  "download",
						Usage: "Also download each finished PDF",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent download workers",
						Value: 3,
					},
					&cli.FloatFlag{
						Name:  "rate",
						Usage: "Download requests per second",
						Value: 5,
					},
				},
				Action: r.MagnetsExport,
			},
		},
	}
}

// templatesCommand handles PDF template operations
func templatesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "templates",
		Usage: "Browse PDF layout templates",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List available templates",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.TemplatesList,
			},
			{
				Name:  "preview",
				Usage: "Render a template preview in the browser",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:  "image",
						Usage: "Image file for a template slot (repeatable)",
					},
				},
				Action: r.TemplatesPreview,
			},
		},
	}
}

// dashboardCommand shows account activity
func dashboardCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "dashboard",
		Aliases: []string{"dash"},
		Usage:   "Show account stats and recent lead magnets",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Dashboard,
	}
}

// generateCommand renders a lead magnet to PDF
func generateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "generate",
		Aliases: []string{"gen"},
		Usage:   "Generate the PDF for a lead magnet",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:     "id",
				Usage:    "Lead magnet ID",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "template",
				Usage: "Template ID override",
			},
			&cli.BoolFlag{
				Name:  "ai",
				Usage: "Use AI-generated content",
				Value: true,
			},
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the PDF after download",
			},
			&cli.BoolFlag{
				Name:  "preview",
				Usage: "Render to a temp file and open it instead of saving",
			},
		},
		Action: r.Generate,
	}
}

// sloganCommand requests a slogan suggestion
func sloganCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "slogan",
		Usage: "Generate a slogan for a topic and audience",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "topic",
				Usage:    "Main topic",
				Required: true,
			},
			&cli.StringSliceFlag{
				Name:  "audience",
				Usage: "Target audience (repeatable)",
			},
		},
		Action: r.Slogan,
	}
}

// createCommand launches the interactive lead magnet wizard.
func createCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "create",
		Aliases: []string{"wizard", "tui"},
		Usage:   "Create a lead magnet through the interactive wizard",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "resume",
				Usage: "Resume the most recent saved draft",
			},
			&cli.IntFlag{
				Name:  "images",
				Usage: "Number of template image slots",
			},
		},
		Action: r.Create,
	}
}

// setupCommand handles setup operations for configuration and the database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Create a config.toml from the bundled template",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupConfig,
			},
			{
				Name:  "database",
				Usage: "Initialize database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupDatabase,
			},
		},
	}
}
