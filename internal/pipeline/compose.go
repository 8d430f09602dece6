package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"regexp"
	"strings"

	"github.com/hatlem/getanswers-sub001/internal/assets"
)

// ErrCompose indicates the document template failed to parse or execute.
var ErrCompose = errors.New("document composition failed")

// hexColorPattern matches #rgb and #rrggbb.
var hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Palette holds the validated brand colors used to derive CSS variables.
type Palette struct {
	Primary   string
	Secondary string
	Accent    string
}

// BrandView is the brand as seen by the template.
type BrandView struct {
	Name    string
	Initial string
	Tagline string
	Domain  string
}

// Benefit is one card on the sales page.
type Benefit struct {
	Icon  string
	Title string
	Text  string
}

// Resource is one "more resources" placeholder on the sales page.
type Resource struct {
	Label string
	Text  string
}

// Link is an entry of the sales page footer link row.
type Link struct {
	Label string
	URL   string
}

// SalesView holds the sales page copy.
type SalesView struct {
	Headline    string
	Subheadline string
	Lead        string
	ButtonText  string
	ButtonURL   string
	Benefits    []Benefit
	Resources   []Resource
}

// DocumentData is everything the document template needs. All string
// fields are escaped by html/template. Body is trusted HTML.
type DocumentData struct {
	Title       string
	Description string
	Category    string
	GeneratedOn string
	Year        int
	Features    []string
	Brand       BrandView
	Palette     Palette
	Body        string
	Sales       SalesView
	Links       []Link
}

// templateData is DocumentData with the trusted fragments typed for
// html/template.
type templateData struct {
	DocumentData
	Body         template.HTML
	BrandVars    template.CSS
	Stylesheet   template.CSS
	HighlightCSS template.CSS
}

// Composer fills the document template.
type Composer struct {
	tmpl         *template.Template
	stylesheet   string
	highlightCSS string
}

// NewComposer loads the named template and style from loader and parses
// the template once.
func NewComposer(loader assets.AssetLoader, templateName, styleName string) (*Composer, error) {
	if loader == nil {
		return nil, fmt.Errorf("%w: nil asset loader", ErrCompose)
	}
	src, err := loader.LoadTemplate(templateName)
	if err != nil {
		return nil, fmt.Errorf("loading template: %w", err)
	}
	css, err := loader.LoadStyle(styleName)
	if err != nil {
		return nil, fmt.Errorf("loading style: %w", err)
	}
	tmpl, err := template.New(templateName).Parse(src)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing template: %v", ErrCompose, err)
	}
	hl, err := HighlightCSS(DefaultHighlightStyle)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCompose, err)
	}
	return &Composer{tmpl: tmpl, stylesheet: css, highlightCSS: hl}, nil
}

// Compose executes the template. The Composer is safe for concurrent use.
func (c *Composer) Compose(ctx context.Context, data DocumentData) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	vars, err := BrandVars(data.Palette)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCompose, err)
	}

	td := templateData{
		DocumentData: data,
		Body:         template.HTML(data.Body), // #nosec G203 -- normalized body
		BrandVars:    template.CSS(vars),       // #nosec G203 -- validated hex colors
		Stylesheet:   template.CSS(c.stylesheet),
		HighlightCSS: template.CSS(c.highlightCSS),
	}

	var buf bytes.Buffer
	if err := c.tmpl.Execute(&buf, td); err != nil {
		return "", fmt.Errorf("%w: %v", ErrCompose, err)
	}
	return buf.String(), nil
}

// BrandVars renders the :root custom properties for a palette. Colors must
// be hex; anything else is rejected so caller text never reaches the
// stylesheet.
func BrandVars(p Palette) (string, error) {
	for _, c := range []string{p.Primary, p.Secondary, p.Accent} {
		if !hexColorPattern.MatchString(c) {
			return "", fmt.Errorf("invalid color %q", c)
		}
	}
	var b strings.Builder
	b.WriteString(":root{")
	fmt.Fprintf(&b, "--primary:%s;", p.Primary)
	fmt.Fprintf(&b, "--secondary:%s;", p.Secondary)
	fmt.Fprintf(&b, "--accent:%s;", p.Accent)
	fmt.Fprintf(&b, "--ink:%s;", "#0f172a")
	fmt.Fprintf(&b, "--tint:%s;", tint(p.Primary))
	b.WriteString("}")
	return b.String(), nil
}

// IsHexColor reports whether s is a #rgb or #rrggbb color.
func IsHexColor(s string) bool {
	return hexColorPattern.MatchString(s)
}

// tint returns the color at 8% opacity as #rrggbbaa.
func tint(hex string) string {
	h := strings.TrimPrefix(hex, "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	return "#" + strings.ToLower(h) + "14"
}
