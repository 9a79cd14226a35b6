package main

import (
	"context"
	"strings"

	"github.com/formahq/forma/internal/models"
	"github.com/urfave/cli/v3"
)

// ProfileShow displays the firm profile.
func (r *Runner) ProfileShow(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(ctx); err != nil {
		return err
	}

	profile, err := r.forma.GetFirmProfile(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(profile, cmd.Bool("pretty"))
	}

	r.writePlainHeader("Firm Profile")
	r.writePlain("Name:     %s\n", profile.FirmName)
	r.writePlain("Email:    %s\n", profile.WorkEmail)
	r.writePlain("Size:     %s\n", profile.FirmSize)
	r.writePlain("Country:  %s\n", profile.LocationCountry)
	if profile.FirmWebsite != "" {
		r.writePlain("Website:  %s\n", profile.FirmWebsite)
	}
	if len(profile.IndustrySpecialties) > 0 {
		r.writePlain("Industry: %s\n", strings.Join(profile.IndustrySpecialties, ", "))
	}
	if profile.PrimaryBrandColor != "" {
		r.writePlain("Brand:    %s", profile.PrimaryBrandColor)
		if profile.SecondaryBrandColor != "" {
			r.writePlain(" / %s", profile.SecondaryBrandColor)
		}
		r.writePlain("\n")
	}
	if profile.LogoURL != "" {
		r.writePlain("Logo:     %s\n", profile.LogoURL)
	}
	return nil
}

// ProfileUpdate creates or updates the firm profile from flags. Unset flags
// keep the server-side values for existing profiles.
func (r *Runner) ProfileUpdate(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(ctx); err != nil {
		return err
	}

	profile := &models.FirmProfile{}
	if existing, err := r.forma.GetFirmProfile(ctx); err == nil && existing != nil {
		profile = existing
	}

	applyString := func(flag string, dest *string) {
		if v := cmd.String(flag); v != "" {
			*dest = v
		}
	}
	applyString("name", &profile.FirmName)
	applyString("email", &profile.WorkEmail)
	applyString("phone", &profile.PhoneNumber)
	applyString("website", &profile.FirmWebsite)
	applyString("size", &profile.FirmSize)
	applyString("country", &profile.LocationCountry)
	applyString("logo", &profile.LogoPath)
	applyString("brand-color", &profile.PrimaryBrandColor)
	applyString("secondary-color", &profile.SecondaryBrandColor)
	applyString("font", &profile.PreferredFontStyle)
	applyString("guidelines", &profile.BrandingGuidelines)

	if industries := cmd.StringSlice("industry"); len(industries) > 0 {
		profile.IndustrySpecialties = industries
	}

	r.logger.Info("updating firm profile", "firm", profile.FirmName)

	updated, err := r.forma.UpdateFirmProfile(ctx, profile)
	if err != nil {
		return err
	}

	r.writePlain("✓ Firm profile saved for %s\n", updated.FirmName)
	return nil
}
