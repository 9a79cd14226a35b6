// package models defines the data model for the Forma lead magnet client
package models

import "fmt"

// User is the authenticated account returned by the profile endpoint.
type User struct {
	ID          int    `json:"id"`
	Email       string `json:"email"`
	Name        string `json:"name,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
}

// FirmProfile holds the firm branding information attached to every
// generated lead magnet.
type FirmProfile struct {
	ID                  int      `json:"id,omitempty"`
	FirmName            string   `json:"firm_name"`
	WorkEmail           string   `json:"work_email"`
	PhoneNumber         string   `json:"phone_number,omitempty"`
	FirmWebsite         string   `json:"firm_website,omitempty"`
	FirmSize            string   `json:"firm_size"`
	IndustrySpecialties []string `json:"industry_specialty_list,omitempty"`
	LocationCountry     string   `json:"location_country"`
	PrimaryBrandColor   string   `json:"primary_brand_color,omitempty"`
	SecondaryBrandColor string   `json:"secondary_brand_color,omitempty"`
	PreferredFontStyle  string   `json:"preferred_font_style,omitempty"`
	BrandingGuidelines  string   `json:"additional_branding_guidelines,omitempty"`

	// LogoPath is a local file attached on upload, never sent as JSON.
	LogoPath string `json:"-"`
	LogoURL  string `json:"logo_url,omitempty"`
}

// Lead magnet statuses as reported by the API.
const (
	StatusDraft      = "draft"
	StatusGenerating = "generating"
	StatusActive     = "active"
	StatusFailed     = "failed"
)

// LeadMagnet is a generated (or in-progress) PDF lead magnet.
type LeadMagnet struct {
	ID             int    `json:"id"`
	Title          string `json:"title"`
	Description    string `json:"description,omitempty"`
	Status         string `json:"status"`
	CreatedAt      string `json:"created_at,omitempty"`
	DownloadsCount int    `json:"downloads_count"`
	LeadsCount     int    `json:"leads_count"`
	PDFURL         string `json:"pdf_url,omitempty"`
	TemplateID     string `json:"template_id,omitempty"`
}

// Draft captures the wizard answers that feed lead magnet generation.
type Draft struct {
	LeadMagnetType  string   `json:"lead_magnet_type"`
	MainTopic       string   `json:"main_topic"`
	CustomTopic     string   `json:"custom_topic,omitempty"`
	TargetAudience  []string `json:"target_audience"`
	PainPoints      []string `json:"pain_points"`
	DesiredOutcome  string   `json:"desired_outcome"`
	CallToAction    string   `json:"call_to_action"`
	SpecialRequests string   `json:"special_requests,omitempty"`
	PreferredLayout string   `json:"preferred_layout,omitempty"`
	TemplateID      string   `json:"template_id,omitempty"`
	TemplateName    string   `json:"template_name,omitempty"`
	Title           string   `json:"title,omitempty"`
	Description     string   `json:"description,omitempty"`
}

// Topic returns the effective topic, preferring a custom entry over the
// canonical selection.
func (d *Draft) Topic() string {
	if d.CustomTopic != "" {
		return d.CustomTopic
	}
	return d.MainTopic
}

// DisplayTitle derives a human readable title for the lead magnet when the
// user has not supplied one.
func (d *Draft) DisplayTitle() string {
	if d.Title != "" {
		return d.Title
	}
	topic := d.Topic()
	if label, ok := topicLabels[topic]; ok {
		topic = label
	}
	kind := d.LeadMagnetType
	if label, ok := typeLabels[kind]; ok {
		kind = label
	}
	if topic == "" && kind == "" {
		return "Untitled Lead Magnet"
	}
	if kind == "" {
		return topic
	}
	return fmt.Sprintf("%s: %s", kind, topic)
}

// PDFTemplate describes one of the layout templates offered by the API.
type PDFTemplate struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	PreviewURL  string `json:"preview_url,omitempty"`
	Thumbnail   string `json:"thumbnail,omitempty"`
}

// DashboardStats summarizes account activity.
type DashboardStats struct {
	TotalLeadMagnets  int `json:"total_lead_magnets"`
	ActiveLeadMagnets int `json:"active_lead_magnets"`
	TotalDownloads    int `json:"total_downloads"`
	LeadsGenerated    int `json:"leads_generated"`
}

// Choice is a value/label pair for selectable wizard options.
type Choice struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// ValidChoices mirrors the server's canonical option lists.
type ValidChoices struct {
	LeadMagnetTypes []Choice `json:"lead_magnet_types"`
	MainTopics      []Choice `json:"main_topics"`
	TargetAudiences []Choice `json:"target_audiences"`
	PainPoints      []Choice `json:"pain_points"`
	FirmSizes       []Choice `json:"firm_sizes"`
	FontStyles      []Choice `json:"font_styles"`
}
