package main

import (
	"context"
	"fmt"

	"github.com/formahq/forma/internal/services"
	"github.com/formahq/forma/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthLogin authenticates with email and password and stores the session.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	email := cmd.String("email")
	password := cmd.String("password")

	r.logger.Info("logging in", "email", email)

	user, err := r.auth.Login(ctx, email, password)
	if err != nil {
		return err
	}

	r.writePlain("✓ Logged in as %s\n", user.Email)
	if user.Name != "" {
		r.writePlain("Welcome back, %s!\n", user.Name)
	}
	return nil
}

// AuthRegister creates a new account. The session stays anonymous; the user
// logs in afterwards.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	req := services.RegisterRequest{
		Email:       cmd.String("email"),
		Password:    cmd.String("password"),
		Name:        cmd.String("name"),
		PhoneNumber: cmd.String("phone"),
	}

	r.logger.Info("registering account", "email", req.Email)

	if err := r.auth.Register(ctx, req); err != nil {
		return err
	}

	r.writePlain("✓ Account created for %s\n", req.Email)
	r.writePlain("Run 'forma auth login --email %s --password ...' to sign in\n", req.Email)
	return nil
}

// AuthLogout discards the stored tokens.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if err := r.auth.Logout(); err != nil {
		return err
	}
	r.writePlain("✓ Logged out\n")
	return nil
}

// AuthStatus resolves the persisted session and checks API availability.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	if err := r.auth.Bootstrap(ctx); err != nil {
		return err
	}

	r.writePlain("Session: %s\n", r.auth.State())
	if user := r.auth.CurrentUser(); user != nil {
		r.writePlain("Account: %s\n", user.Email)
	}

	if err := r.forma.Health(ctx); err != nil {
		r.writePlain("API:     unreachable (%v)\n", err)
	} else {
		r.writePlain("API:     ok\n")
	}
	return nil
}

// AuthDelete permanently removes the account server-side.
func (r *Runner) AuthDelete(ctx context.Context, cmd *cli.Command) error {
	if !cmd.Bool("yes") {
		return fmt.Errorf("%w: pass --yes to confirm account deletion", shared.ErrMissingArgument)
	}

	if err := r.requireAuth(ctx); err != nil {
		return err
	}

	if err := r.auth.DeleteAccount(ctx); err != nil {
		return err
	}

	r.writePlain("✓ Account deleted\n")
	return nil
}

// requireAuth resolves the session and fails when it settles anonymous.
func (r *Runner) requireAuth(ctx context.Context) error {
	if err := r.auth.Bootstrap(ctx); err != nil {
		return err
	}
	if !r.auth.IsAuthenticated() {
		return fmt.Errorf("%w: run 'forma auth login' first", shared.ErrNotAuthenticated)
	}
	return nil
}
