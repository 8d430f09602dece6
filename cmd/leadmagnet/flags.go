package main

import (
	"fmt"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/hatlem/getanswers-sub001/internal/config"
)

// defaultEnvFile is loaded before flags are applied when present.
const defaultEnvFile = ".env"

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config       string
	envFile      string
	output       string
	publicRoot   string
	assets       string
	dateFormat   string
	timeout      time.Duration
	workers      int
	strictBrands bool
	sanitizeHTML bool
	quiet        bool
	verbose      bool
}

// ctaFlags holds the sales page call to action overrides.
type ctaFlags struct {
	headline    string
	subheadline string
	text        string
	url         string
}

// generateFlags holds flags for the generate command.
type generateFlags struct {
	title       string
	description string
	slug        string
	brand       string
	category    string
	mdFile      string
	markdown    string
	html        string
	features    []string
	cta         ctaFlags
	htmlOut     string
}

// addCommonFlags registers the flags every pipeline command accepts.
func addCommonFlags(f *flag.FlagSet, c *commonFlags) {
	f.StringVarP(&c.config, "config", "c", "", "Config name or file path")
	f.StringVar(&c.envFile, "env-file", defaultEnvFile, "Load environment variables from file")
	f.StringVarP(&c.output, "output", "o", "", "Output directory (default: public/lead-magnets)")
	f.StringVar(&c.publicRoot, "public-root", "", "URL path PDFs are served under (default: lead-magnets)")
	f.StringVar(&c.assets, "assets", "", "Directory overriding the embedded template and stylesheet")
	f.StringVar(&c.dateFormat, "date-format", "", "Cover date layout or preset (default: MMMM YYYY)")
	f.DurationVar(&c.timeout, "timeout", 0, "Render timeout per document (default: 1m)")
	f.IntVarP(&c.workers, "workers", "w", 0, "Browser pool size (0 = auto)")
	f.BoolVar(&c.strictBrands, "strict-brands", false, "Fail on unknown brand keys instead of using the default brand")
	f.BoolVar(&c.sanitizeHTML, "sanitize-html", false, "Sanitize raw HTML content")
	f.BoolVarP(&c.quiet, "quiet", "q", false, "Only log errors")
	f.BoolVarP(&c.verbose, "verbose", "v", false, "Print debug logs")
}

// addGenerateFlags registers the document flags of the generate command.
func addGenerateFlags(f *flag.FlagSet, g *generateFlags) {
	f.StringVar(&g.title, "title", "", "Document title (required)")
	f.StringVar(&g.description, "desc", "", "Document description")
	f.StringVar(&g.slug, "slug", "", "Output file name without extension (required)")
	f.StringVar(&g.brand, "brand", "", "Brand key (default: configured default brand)")
	f.StringVar(&g.category, "category", "", "Section label overriding the brand category")
	f.StringVar(&g.mdFile, "md-file", "", "Markdown file to use as content")
	f.StringVar(&g.markdown, "markdown", "", "Markdown text to use as content")
	f.StringVar(&g.html, "html", "", "HTML fragment to use as content")
	f.StringArrayVar(&g.features, "feature", nil, "Cover feature bullet (repeatable)")
	f.StringVar(&g.cta.headline, "cta-headline", "", "Sales page headline")
	f.StringVar(&g.cta.subheadline, "cta-subheadline", "", "Sales page subheadline")
	f.StringVar(&g.cta.text, "cta-text", "", "Sales page button text")
	f.StringVar(&g.cta.url, "cta-url", "", "Sales page button URL")
	f.StringVar(&g.htmlOut, "html-out", "", "Also write the composed HTML to this file")
}

// validateWorkers checks the --workers range.
func validateWorkers(n int) error {
	if n < 0 || n > config.MaxWorkers {
		return fmt.Errorf("%w: --workers must be between 0 and %d, got %d", ErrUsage, config.MaxWorkers, n)
	}
	return nil
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(f *commonFlags, cfg *config.Config) {
	if f.output != "" {
		cfg.Output.Dir = f.output
	}
	if f.publicRoot != "" {
		cfg.Output.PublicRoot = f.publicRoot
	}
	if f.assets != "" {
		cfg.Assets.Path = f.assets
	}
	if f.dateFormat != "" {
		cfg.Date.Format = f.dateFormat
	}
	if f.timeout > 0 {
		cfg.Render.Timeout = f.timeout.String()
	}
	if f.workers > 0 {
		cfg.Render.Workers = f.workers
	}
	if f.strictBrands {
		cfg.Brands.Strict = true
	}
}
