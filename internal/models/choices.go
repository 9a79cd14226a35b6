package models

// Canonical option lists used by the wizard when the valid-choices endpoint
// is unavailable. They mirror the server's choice sets.

var LeadMagnetTypes = []Choice{
	{Value: "guide", Label: "Guide"},
	{Value: "case-study", Label: "Case Study"},
	{Value: "checklist", Label: "Checklist"},
	{Value: "roi-calculator", Label: "ROI Calculator"},
	{Value: "trends-report", Label: "Trends Report"},
	{Value: "onboarding-flow", Label: "Client Onboarding Flow"},
	{Value: "design-portfolio", Label: "Design Portfolio"},
	{Value: "custom", Label: "Custom"},
}

var MainTopics = []Choice{
	{Value: "sustainable-architecture", Label: "Sustainable Architecture"},
	{Value: "smart-homes", Label: "Smart Homes"},
	{Value: "adaptive-reuse", Label: "Adaptive Reuse"},
	{Value: "wellness-biophilic", Label: "Wellness/Biophilic"},
	{Value: "modular-prefab", Label: "Modular/Prefab"},
	{Value: "urban-placemaking", Label: "Urban Placemaking"},
	{Value: "passive-house", Label: "Passive House/Net-Zero"},
	{Value: "climate-resilient", Label: "Climate-Resilient"},
	{Value: "project-roi", Label: "Project ROI"},
	{Value: "branding-differentiation", Label: "Branding & Differentiation"},
	{Value: "custom", Label: "Custom"},
}

var TargetAudiences = []string{
	"Homeowners",
	"Developers",
	"Commercial Clients",
	"Government",
	"Architects/Peers",
	"Contractors",
	"Real Estate Agents",
	"Nonprofits",
	"Facility Managers",
	"Other",
}

var PainPoints = []string{
	"High costs",
	"ROI uncertainty",
	"Compliance issues",
	"Sustainability demands",
	"Risk management",
	"Long timelines",
	"Tech complexity",
	"Poor communication",
	"Competition",
	"Approvals",
	"Energy efficiency",
	"Health/Wellness",
	"Vendor reliability",
	"Other",
}

var FirmSizes = []Choice{
	{Value: "1-2", Label: "1-2"},
	{Value: "3-5", Label: "3-5"},
	{Value: "6-10", Label: "6-10"},
	{Value: "11+", Label: "11+"},
}

var IndustrySpecialties = []Choice{
	{Value: "residential", Label: "Residential"},
	{Value: "commercial", Label: "Commercial"},
	{Value: "mixed_practice", Label: "Mixed Practice"},
	{Value: "sustainable_green", Label: "Sustainable/Green"},
	{Value: "educational_civic", Label: "Educational/Civic"},
	{Value: "hospitality", Label: "Hospitality"},
	{Value: "healthcare", Label: "Healthcare"},
	{Value: "interiors", Label: "Interiors"},
	{Value: "urban_design", Label: "Urban Design"},
	{Value: "other", Label: "Other"},
}

var FontStyles = []Choice{
	{Value: "modern_sans_serif", Label: "Modern Sans-Serif"},
	{Value: "classic_serif", Label: "Classic Serif"},
	{Value: "creative_display", Label: "Creative/Display"},
	{Value: "no_preference", Label: "No Preference"},
}

var typeLabels = labelMap(LeadMagnetTypes)
var topicLabels = labelMap(MainTopics)

func labelMap(choices []Choice) map[string]string {
	m := make(map[string]string, len(choices))
	for _, c := range choices {
		m[c.Value] = c.Label
	}
	return m
}
