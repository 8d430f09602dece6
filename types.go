package leadmagnet

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/hatlem/getanswers-sub001/internal/fileutil"
)

// Field limits.
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 500
	MaxSlugLength        = 128
	MaxCategoryLength    = 60
	MaxFeatures          = 6
	MaxFeatureLength     = 120
	MaxBrandNameLength   = 100
)

// DefaultCTAPath is appended to the brand domain for the default CTA URL.
const DefaultCTAPath = "/onboarding"

var (
	hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
	slugPattern     = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)
	httpURLPattern  = regexp.MustCompile(`^https?://`)
	ctaPathPattern  = regexp.MustCompile(`^/\S*$`)
)

// Colors holds brand colors as hex strings (#rgb or #rrggbb).
type Colors struct {
	Primary   string
	Secondary string
	Accent    string
}

// Validate checks that every color is a hex string.
func (c Colors) Validate() error {
	hex := validation.Match(hexColorPattern).Error("must be a hex color (#rgb or #rrggbb)")
	return validation.ValidateStruct(&c,
		validation.Field(&c.Primary, validation.Required, hex),
		validation.Field(&c.Secondary, validation.Required, hex),
		validation.Field(&c.Accent, validation.Required, hex),
	)
}

// Brand describes the identity a document is skinned with.
type Brand struct {
	Name     string
	Tagline  string
	Domain   string // bare hostname, no scheme
	Colors   Colors
	Category string // default section label
	CTAPath  string // empty = DefaultCTAPath
}

// Validate checks the brand invariants: hex colors and a bare hostname.
// Returns an error wrapping ErrInvalidBrand.
func (b Brand) Validate() error {
	err := validation.ValidateStruct(&b,
		validation.Field(&b.Name, validation.Required, validation.Length(1, MaxBrandNameLength)),
		validation.Field(&b.Domain, validation.Required, is.Host.Error("must be a bare hostname without scheme")),
		validation.Field(&b.Colors),
		validation.Field(&b.Category, validation.Length(0, MaxCategoryLength)),
		validation.Field(&b.CTAPath, validation.When(b.CTAPath != "",
			validation.Match(ctaPathPattern).Error("must start with /"),
		)),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBrand, err)
	}
	return nil
}

// Initial returns the first letter of the brand name, upper-cased.
func (b Brand) Initial() string {
	for _, r := range b.Name {
		return strings.ToUpper(string(r))
	}
	return ""
}

// ctaPath returns the configured CTA path or the default.
func (b Brand) ctaPath() string {
	if b.CTAPath == "" {
		return DefaultCTAPath
	}
	return b.CTAPath
}

// BrandRef refers to a brand by registry key or carries a literal brand.
// The zero value selects the registry's default brand.
type BrandRef struct {
	key     string
	literal *Brand
}

// BrandKey refers to a brand in the registry.
func BrandKey(key string) BrandRef {
	return BrandRef{key: key}
}

// BrandLiteral carries an ad hoc brand. The brand is copied.
func BrandLiteral(b Brand) BrandRef {
	return BrandRef{literal: &b}
}

// Key returns the registry key, empty for literals.
func (r BrandRef) Key() string { return r.key }

// IsLiteral reports whether the reference carries its own brand.
func (r BrandRef) IsLiteral() bool { return r.literal != nil }

// String implements fmt.Stringer.
func (r BrandRef) String() string {
	if r.literal != nil {
		return "literal:" + r.literal.Name
	}
	if r.key == "" {
		return "default"
	}
	return r.key
}

// ContentKind tells the normalizer how to read Content.Value.
type ContentKind int

// Content kinds. ContentAuto is the zero value.
const (
	ContentAuto ContentKind = iota
	ContentMarkdownFile
	ContentMarkdownText
	ContentHTML
)

// String implements fmt.Stringer.
func (k ContentKind) String() string {
	switch k {
	case ContentAuto:
		return "auto"
	case ContentMarkdownFile:
		return "markdown-file"
	case ContentMarkdownText:
		return "markdown"
	case ContentHTML:
		return "html"
	default:
		return fmt.Sprintf("ContentKind(%d)", int(k))
	}
}

// Content is the document body payload.
type Content struct {
	Kind  ContentKind
	Value string
}

// MarkdownFile reads the body from a markdown file.
func MarkdownFile(path string) Content { return Content{Kind: ContentMarkdownFile, Value: path} }

// MarkdownText converts the given markdown.
func MarkdownText(md string) Content { return Content{Kind: ContentMarkdownText, Value: md} }

// HTML passes the fragment through unchanged.
func HTML(fragment string) Content { return Content{Kind: ContentHTML, Value: fragment} }

// DetectContent classifies a value the way untyped callers expect: a value
// ending in .md or .markdown is a file, a value containing "#", "**" or
// "- " is markdown text, anything else is HTML. File paths are trimmed of
// surrounding whitespace.
func DetectContent(value string) Content {
	kind := detectKind(value)
	if kind == ContentMarkdownFile {
		value = strings.TrimSpace(value)
	}
	return Content{Kind: kind, Value: value}
}

func detectKind(value string) ContentKind {
	switch {
	case fileutil.HasMarkdownExt(strings.TrimSpace(value)):
		return ContentMarkdownFile
	case strings.Contains(value, "#"), strings.Contains(value, "**"), strings.Contains(value, "- "):
		return ContentMarkdownText
	default:
		return ContentHTML
	}
}

// Validate checks that a value is present and the kind is known.
func (c Content) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Kind, validation.In(ContentAuto, ContentMarkdownFile, ContentMarkdownText, ContentHTML).Error("unknown content kind")),
		validation.Field(&c.Value, validation.Required.Error("content is required")),
	)
}

// SalesCTA overrides the sales page call to action. Empty fields use
// computed defaults.
type SalesCTA struct {
	Headline    string
	Subheadline string
	ButtonText  string
	ButtonURL   string
}

// Validate checks that ButtonURL, when set, is an absolute http(s) URL.
func (s SalesCTA) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Headline, validation.Length(0, MaxTitleLength)),
		validation.Field(&s.Subheadline, validation.Length(0, MaxDescriptionLength)),
		validation.Field(&s.ButtonText, validation.Length(0, MaxFeatureLength)),
		validation.Field(&s.ButtonURL, validation.When(s.ButtonURL != "",
			is.URL,
			validation.Match(httpURLPattern).Error("must be an absolute http(s) URL"),
		)),
	)
}

// Request describes one document to generate.
type Request struct {
	Title         string
	Description   string
	Content       Content
	Slug          string // filename stem, single path component
	Category      string // overrides the brand category
	Brand         BrandRef
	OutputDir     string // overrides the generator output directory
	CoverFeatures []string
	SalesCTA      *SalesCTA
}

// Validate checks the request fields. Returns an error wrapping
// ErrInvalidRequest.
func (r Request) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, MaxTitleLength)),
		validation.Field(&r.Description, validation.Length(0, MaxDescriptionLength)),
		validation.Field(&r.Content),
		validation.Field(&r.Slug,
			validation.Required,
			validation.Length(1, MaxSlugLength),
			validation.Match(slugPattern).Error("must contain only letters, digits, '.', '_' or '-'"),
			validation.By(noDotDot),
		),
		validation.Field(&r.Category, validation.Length(0, MaxCategoryLength)),
		validation.Field(&r.CoverFeatures,
			validation.Length(0, MaxFeatures),
			validation.Each(validation.Length(1, MaxFeatureLength)),
		),
		validation.Field(&r.SalesCTA),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return nil
}

func noDotDot(value any) error {
	s, _ := value.(string)
	if strings.Contains(s, "..") {
		return errors.New("must not contain '..'")
	}
	return nil
}

// Result describes a generated document.
type Result struct {
	GenerationID  string
	PDFPath       string // absolute
	PDFURL        string // /<public-root>/<slug>.pdf
	FileSize      int64
	PageCount     int // logical pages, always 3
	RenderedPages int // pages in the PDF, 0 when unreadable
	PublishedURL  string
	Duration      time.Duration
}
