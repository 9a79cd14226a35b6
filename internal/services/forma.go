// Forma API façade.
//
// One method per remote operation, decoding into the domain types in
// [models]. PDF generation holds a per-instance in-flight guard and falls
// back to bounded status polling when the server answers 409.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/formahq/forma/internal/models"
	"github.com/formahq/forma/internal/shared"
)

const (
	defaultPollInterval    = 2 * time.Second
	defaultPollMaxAttempts = 30
)

var pdfMagic = []byte("%PDF")

// FormaService exposes the Forma domain operations.
type FormaService struct {
	client          *Client
	pollInterval    time.Duration
	pollMaxAttempts int
	generating      atomic.Bool
}

// FormaServiceOpts tunes polling behavior; zero values take defaults.
type FormaServiceOpts struct {
	PollInterval    time.Duration
	PollMaxAttempts int
}

// NewFormaService creates a FormaService over the given client.
func NewFormaService(client *Client, opts FormaServiceOpts) *FormaService {
	if opts.PollInterval <= 0 {
		opts.PollInterval = defaultPollInterval
	}
	if opts.PollMaxAttempts <= 0 {
		opts.PollMaxAttempts = defaultPollMaxAttempts
	}
	return &FormaService{
		client:          client,
		pollInterval:    opts.PollInterval,
		pollMaxAttempts: opts.PollMaxAttempts,
	}
}

// GetFirmProfile retrieves the firm profile for the authenticated account.
func (f *FormaService) GetFirmProfile(ctx context.Context) (*models.FirmProfile, error) {
	resp, err := f.client.Get(ctx, "/api/firm-profile/")
	if err != nil {
		return nil, err
	}

	var profile models.FirmProfile
	if err := decodeInto(resp, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateFirmProfile sends the profile as a multipart PATCH so a logo file
// can ride along. Industry specialties are serialized comma-joined and the
// website is normalized to an https URL.
func (f *FormaService) UpdateFirmProfile(ctx context.Context, profile *models.FirmProfile) (*models.FirmProfile, error) {
	fields := profileFields(profile)
	files := map[string]string{}
	if profile.LogoPath != "" {
		files["logo"] = profile.LogoPath
	}

	resp, err := f.client.PatchMultipart(ctx, "/api/firm-profile/", fields, files)
	if err != nil {
		return nil, err
	}

	var updated models.FirmProfile
	if err := decodeInto(resp, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// CreateFirmProfile persists a first-time firm profile. The endpoint
// upserts, so creation shares the update path.
func (f *FormaService) CreateFirmProfile(ctx context.Context, profile *models.FirmProfile) (*models.FirmProfile, error) {
	return f.UpdateFirmProfile(ctx, profile)
}

func profileFields(profile *models.FirmProfile) map[string]string {
	fields := map[string]string{
		"firm_name":        profile.FirmName,
		"work_email":       profile.WorkEmail,
		"firm_size":        profile.FirmSize,
		"location_country": profile.LocationCountry,
	}
	if profile.PhoneNumber != "" {
		fields["phone_number"] = profile.PhoneNumber
	}
	if profile.FirmWebsite != "" {
		fields["firm_website"] = NormalizeWebsiteURL(profile.FirmWebsite)
	}
	if len(profile.IndustrySpecialties) > 0 {
		fields["industry_specialty"] = strings.Join(profile.IndustrySpecialties, ",")
	}
	if profile.PrimaryBrandColor != "" {
		fields["primary_brand_color"] = profile.PrimaryBrandColor
	}
	if profile.SecondaryBrandColor != "" {
		fields["secondary_brand_color"] = profile.SecondaryBrandColor
	}
	if profile.PreferredFontStyle != "" {
		fields["preferred_font_style"] = profile.PreferredFontStyle
	}
	if profile.BrandingGuidelines != "" {
		fields["additional_branding_guidelines"] = profile.BrandingGuidelines
	}
	return fields
}

// NormalizeWebsiteURL prefixes a bare domain with https://.
func NormalizeWebsiteURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw
	}
	return "https://" + raw
}

// GetTemplates lists the available PDF layout templates.
func (f *FormaService) GetTemplates(ctx context.Context) ([]models.PDFTemplate, error) {
	resp, err := f.client.Get(ctx, "/api/templates/")
	if err != nil {
		return nil, err
	}

	var out struct {
		Templates []models.PDFTemplate `json:"templates"`
	}
	if err := decodeInto(resp, &out); err != nil {
		return nil, err
	}
	if out.Templates == nil {
		out.Templates = []models.PDFTemplate{}
	}
	return out.Templates, nil
}

// TemplateSelectionRequest binds a template to a lead magnet.
type TemplateSelectionRequest struct {
	LeadMagnetID      int    `json:"lead_magnet_id"`
	TemplateID        string `json:"template_id"`
	TemplateName      string `json:"template_name"`
	TemplateThumbnail string `json:"template_thumbnail,omitempty"`
}

// SelectTemplate records the template choice for a lead magnet.
func (f *FormaService) SelectTemplate(ctx context.Context, req TemplateSelectionRequest) error {
	_, err := f.client.Post(ctx, "/api/select-template/", req)
	return err
}

// CreateLeadMagnetRequest carries the wizard answers for lead magnet
// creation, optionally with an inline firm profile for first-time users.
type CreateLeadMagnetRequest struct {
	Title       string              `json:"title,omitempty"`
	Description string              `json:"description,omitempty"`
	Answers     *models.Draft       `json:"generation_data,omitempty"`
	FirmProfile *models.FirmProfile `json:"firm_profile,omitempty"`
}

// CreateLeadMagnet creates a lead magnet record from wizard answers.
func (f *FormaService) CreateLeadMagnet(ctx context.Context, req CreateLeadMagnetRequest) (*models.LeadMagnet, error) {
	resp, err := f.client.Post(ctx, "/api/create-lead-magnet/", req)
	if err != nil {
		return nil, err
	}

	var magnet models.LeadMagnet
	if err := decodeInto(resp, &magnet); err != nil {
		return nil, err
	}
	return &magnet, nil
}

// GetLeadMagnets lists the account's lead magnets.
func (f *FormaService) GetLeadMagnets(ctx context.Context) ([]models.LeadMagnet, error) {
	resp, err := f.client.Get(ctx, "/api/lead-magnets/")
	if err != nil {
		return nil, err
	}

	var magnets []models.LeadMagnet
	if err := decodeInto(resp, &magnets); err != nil {
		return nil, err
	}
	return magnets, nil
}

// GetLeadMagnet retrieves a single lead magnet by ID.
func (f *FormaService) GetLeadMagnet(ctx context.Context, id int) (*models.LeadMagnet, error) {
	resp, err := f.client.Get(ctx, fmt.Sprintf("/api/lead-magnets/%d/", id))
	if err != nil {
		return nil, err
	}

	var magnet models.LeadMagnet
	if err := decodeInto(resp, &magnet); err != nil {
		return nil, err
	}
	return &magnet, nil
}

// DeleteLeadMagnet removes a lead magnet.
func (f *FormaService) DeleteLeadMagnet(ctx context.Context, id int) error {
	_, err := f.client.Delete(ctx, fmt.Sprintf("/api/lead-magnets/%d/", id))
	return err
}

// GetDashboardStats returns account activity counters. Failures fall back
// to zero-value stats so the dashboard always renders.
func (f *FormaService) GetDashboardStats(ctx context.Context) models.DashboardStats {
	var stats models.DashboardStats
	resp, err := f.client.Get(ctx, "/api/dashboard/stats/")
	if err != nil {
		return models.DashboardStats{}
	}
	if err := json.Unmarshal(resp.Body, &stats); err != nil {
		return models.DashboardStats{}
	}
	return stats
}

// GetValidChoices fetches the server's canonical wizard option lists.
func (f *FormaService) GetValidChoices(ctx context.Context) (*models.ValidChoices, error) {
	resp, err := f.client.Get(ctx, "/api/valid-choices/")
	if err != nil {
		return nil, err
	}

	var choices models.ValidChoices
	if err := decodeInto(resp, &choices); err != nil {
		return nil, err
	}
	return &choices, nil
}

// SloganRequest carries wizard answers and firm profile for slogan
// generation.
type SloganRequest struct {
	Answers     *models.Draft       `json:"user_answers"`
	FirmProfile *models.FirmProfile `json:"firm_profile,omitempty"`
}

// GenerateSlogan asks the API for a slogan matching the captured answers.
func (f *FormaService) GenerateSlogan(ctx context.Context, req SloganRequest) (string, error) {
	resp, err := f.client.Post(ctx, "/api/generate-slogan/", req)
	if err != nil {
		return "", err
	}

	var out struct {
		Slogan string `json:"slogan"`
	}
	if err := decodeInto(resp, &out); err != nil {
		return "", err
	}
	return out.Slogan, nil
}

// Health checks API availability.
func (f *FormaService) Health(ctx context.Context) error {
	_, err := f.client.Get(ctx, "/api/health/")
	return err
}

// PreviewTemplate renders a template server-side with the supplied images
// (base64 data URLs) and returns the HTML.
func (f *FormaService) PreviewTemplate(ctx context.Context, templateID string, images []string) (string, error) {
	payload := map[string]any{"template_id": templateID}
	if len(images) > 0 {
		payload["images"] = images
	}
	resp, err := f.client.Post(ctx, "/api/preview-template/", payload)
	if err != nil {
		return "", err
	}

	var out struct {
		HTML string `json:"html"`
	}
	if err := json.Unmarshal(resp.Body, &out); err == nil && out.HTML != "" {
		return out.HTML, nil
	}
	return string(resp.Body), nil
}

// GeneratePDFRequest asks the API to render a lead magnet to PDF.
type GeneratePDFRequest struct {
	LeadMagnetID int           `json:"lead_magnet_id"`
	TemplateID   string        `json:"template_id,omitempty"`
	UseAIContent bool          `json:"use_ai_content"`
	Answers      *models.Draft `json:"user_answers,omitempty"`
	Images       []string      `json:"images,omitempty"`

	// OnPoll, when set, observes each status check during a 409 fallback.
	OnPoll func(attempt, max int) `json:"-"`
}

// PDFResult is the outcome of a generation request.
type PDFResult struct {
	Data    []byte
	URL     string
	Skipped bool
}

// GeneratePDF submits a generation request and returns the rendered PDF
// bytes. While a generation is in flight further calls are no-ops that
// return a skipped result without touching the network. A 409 from the
// server means a render is already running remotely; in that case the
// status endpoint is polled at a fixed interval until the document is
// ready or attempts run out.
func (f *FormaService) GeneratePDF(ctx context.Context, req GeneratePDFRequest) (*PDFResult, error) {
	if !f.generating.CompareAndSwap(false, true) {
		return &PDFResult{Skipped: true}, nil
	}
	defer f.generating.Store(false)

	resp, err := f.client.Post(ctx, "/api/generate-pdf/", req)
	if err != nil {
		if errors.Is(err, shared.ErrConflict) {
			return f.pollForPDF(ctx, req)
		}
		return nil, err
	}

	if err := ValidatePDF(resp.Body); err != nil {
		return nil, err
	}
	return &PDFResult{Data: resp.Body}, nil
}

// GeneratePDFPreview generates the PDF and writes it to a temp file for
// viewing. The caller removes the file when done with it.
func (f *FormaService) GeneratePDFPreview(ctx context.Context, req GeneratePDFRequest) (string, error) {
	result, err := f.GeneratePDF(ctx, req)
	if err != nil {
		return "", err
	}
	if result.Skipped {
		return "", nil
	}

	path := filepath.Join(os.TempDir(), "forma-preview-"+shared.GenerateID()+".pdf")
	if err := os.WriteFile(path, result.Data, 0644); err != nil {
		return "", fmt.Errorf("failed to write preview file: %w", err)
	}
	return path, nil
}

// pollForPDF checks the status endpoint until the remote render completes.
func (f *FormaService) pollForPDF(ctx context.Context, req GeneratePDFRequest) (*PDFResult, error) {
	limiter := rate.NewLimiter(rate.Every(f.pollInterval), 1)
	// Burn the initial token so the first wait spans a full interval.
	limiter.Allow()

	for attempt := 1; attempt <= f.pollMaxAttempts; attempt++ {
		if err := limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrTimeout, err)
		}
		if req.OnPoll != nil {
			req.OnPoll(attempt, f.pollMaxAttempts)
		}

		resp, err := f.client.Get(ctx, "/api/generate-pdf/status/?lead_magnet_id="+strconv.Itoa(req.LeadMagnetID))
		if err != nil {
			return nil, err
		}

		var status struct {
			Status string `json:"status"`
			PDFURL string `json:"pdf_url"`
		}
		if err := json.Unmarshal(resp.Body, &status); err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrDecode, err)
		}

		if status.Status == "ready" && status.PDFURL != "" {
			return f.downloadPDF(ctx, status.PDFURL)
		}
	}

	return nil, fmt.Errorf("%w: PDF not ready after %d status checks", shared.ErrTimeout, f.pollMaxAttempts)
}

// downloadPDF fetches the finished document from the URL reported by the
// status endpoint.
func (f *FormaService) downloadPDF(ctx context.Context, url string) (*PDFResult, error) {
	resp, err := f.client.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	if err := ValidatePDF(resp.Body); err != nil {
		return nil, err
	}
	return &PDFResult{Data: resp.Body, URL: url}, nil
}

// FetchPDF downloads a finished document by URL, validating the payload.
func (f *FormaService) FetchPDF(ctx context.Context, url string) ([]byte, error) {
	result, err := f.downloadPDF(ctx, url)
	if err != nil {
		return nil, err
	}
	return result.Data, nil
}

// ValidatePDF rejects payloads that do not carry the PDF magic bytes, which
// catches HTML error pages served with a 200.
func ValidatePDF(data []byte) error {
	if !bytes.HasPrefix(data, pdfMagic) {
		return fmt.Errorf("%w: response is not a PDF document", shared.ErrDecode)
	}
	return nil
}

func decodeInto(resp *APIResponse, v any) error {
	if err := json.Unmarshal(resp.Body, v); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrDecode, err)
	}
	return nil
}
