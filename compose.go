package leadmagnet

import (
	"fmt"
	"time"

	"github.com/hatlem/getanswers-sub001/internal/dateutil"
	"github.com/hatlem/getanswers-sub001/internal/pipeline"
)

// PageCount is the number of logical pages of every document.
const PageCount = pipeline.RequiredPages

// Sales page copy defaults.
const (
	DefaultButtonText = "Get Started Free"
	defaultCategory   = "Resources"
	defaultLead       = "Start your free trial today. No credit card required."
)

// DefaultCoverFeatures are shown on the cover when a request has none.
var DefaultCoverFeatures = []string{
	"Actionable strategies",
	"Proven frameworks",
	"Ready-to-use templates",
}

var defaultBenefits = []pipeline.Benefit{
	{Icon: "⚡", Title: "Instant answers", Text: "Resolve common questions in seconds, around the clock."},
	{Icon: "⚙", Title: "Works with your stack", Text: "Connect the tools your team already uses in minutes."},
	{Icon: "↑", Title: "Measurable results", Text: "Track resolution time and satisfaction from day one."},
	{Icon: "✔", Title: "Built for teams", Text: "Shared knowledge, clear ownership, no lost context."},
}

var defaultResources = []pipeline.Resource{
	{Label: "Guide", Text: "More playbooks are on the way."},
	{Label: "Template", Text: "Copy-ready templates for your team."},
	{Label: "Webinar", Text: "Live sessions with practitioners."},
}

// DefaultHeadline is the sales headline used when none is given.
func DefaultHeadline(category string) string {
	return fmt.Sprintf("Ready to Put Your %s Playbook to Work?", category)
}

// DefaultSubheadline is the sales subheadline used when none is given.
func DefaultSubheadline(brandName string) string {
	return fmt.Sprintf("%s turns these ideas into results. Start free and see the difference in your first week.", brandName)
}

// DefaultButtonURL is the CTA target used when none is given.
func DefaultButtonURL(b Brand) string {
	return "https://" + b.Domain + b.ctaPath()
}

// documentCategory picks the request category, then the brand category.
func documentCategory(req Request, b Brand) string {
	if req.Category != "" {
		return req.Category
	}
	if b.Category != "" {
		return b.Category
	}
	return defaultCategory
}

// buildDocumentData maps a validated request and its resolved brand onto
// the template model. Identical inputs give identical output.
func buildDocumentData(req Request, b Brand, body string, now time.Time, dateLayout string) (pipeline.DocumentData, error) {
	generatedOn, err := dateutil.Format(now, dateLayout)
	if err != nil {
		return pipeline.DocumentData{}, fmt.Errorf("%w: %v", ErrTemplate, err)
	}

	category := documentCategory(req, b)

	features := req.CoverFeatures
	if len(features) == 0 {
		features = DefaultCoverFeatures
	}

	sales := pipeline.SalesView{
		Headline:    DefaultHeadline(category),
		Subheadline: DefaultSubheadline(b.Name),
		Lead:        defaultLead,
		ButtonText:  DefaultButtonText,
		ButtonURL:   DefaultButtonURL(b),
		Benefits:    defaultBenefits,
		Resources:   defaultResources,
	}
	if cta := req.SalesCTA; cta != nil {
		if cta.Headline != "" {
			sales.Headline = cta.Headline
		}
		if cta.Subheadline != "" {
			sales.Subheadline = cta.Subheadline
		}
		if cta.ButtonText != "" {
			sales.ButtonText = cta.ButtonText
		}
		if cta.ButtonURL != "" {
			sales.ButtonURL = cta.ButtonURL
		}
	}

	site := "https://" + b.Domain
	return pipeline.DocumentData{
		Title:       req.Title,
		Description: req.Description,
		Category:    category,
		GeneratedOn: generatedOn,
		Year:        now.Year(),
		Features:    features,
		Brand: pipeline.BrandView{
			Name:    b.Name,
			Initial: b.Initial(),
			Tagline: b.Tagline,
			Domain:  b.Domain,
		},
		Palette: pipeline.Palette{
			Primary:   b.Colors.Primary,
			Secondary: b.Colors.Secondary,
			Accent:    b.Colors.Accent,
		},
		Body:  body,
		Sales: sales,
		Links: []pipeline.Link{
			{Label: "Website", URL: site},
			{Label: "Blog", URL: site + "/blog"},
			{Label: "Contact", URL: site + "/contact"},
		},
	}, nil
}
