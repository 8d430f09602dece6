package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hatlem/getanswers-sub001/internal/dateutil"
	"github.com/hatlem/getanswers-sub001/internal/fileutil"
	"github.com/hatlem/getanswers-sub001/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// AppDir is the directory name under the user config directory.
const AppDir = "leadmagnet"

// Field length limits.
const (
	MaxPathLength        = 4096
	MaxURLLength         = 2048 // Browser limit
	MaxKeyLength         = 64   // Brand registry key
	MaxNameLength        = 100  // Brand name
	MaxTaglineLength     = 200
	MaxDomainLength      = 253 // RFC 1035
	MaxColorLength       = 7   // "#rrggbb"
	MaxCategoryLength    = 60
	MaxTitleLength       = 200
	MaxDescriptionLength = 500
	MaxSlugLength        = 128
	MaxFeatureLength     = 120
	MaxHeadlineLength    = 200
	MaxButtonTextLength  = 60
	MaxBucketLength      = 63 // S3 bucket naming rules
	MaxCredentialLength  = 256
	MaxWorkers           = 8
)

// Config holds the CLI configuration.
type Config struct {
	Output    OutputConfig     `yaml:"output"`
	Render    RenderConfig     `yaml:"render"`
	Brands    BrandsConfig     `yaml:"brands"`
	Date      DateConfig       `yaml:"date"`
	Assets    AssetsConfig     `yaml:"assets"`
	Publish   PublishConfig    `yaml:"publish"`
	Documents []DocumentConfig `yaml:"documents"`
}

// OutputConfig defines where PDFs are written and served from.
type OutputConfig struct {
	Dir        string `yaml:"dir"`        // Empty = public/lead-magnets
	PublicRoot string `yaml:"publicRoot"` // Empty = lead-magnets
}

// RenderConfig defines browser rendering options.
type RenderConfig struct {
	Timeout string `yaml:"timeout"` // Go duration, e.g. "45s" (empty = 60s)
	Workers int    `yaml:"workers"` // 0 = auto
}

// BrandsConfig defines the brand registry.
type BrandsConfig struct {
	Strict   bool                   `yaml:"strict"`
	Default  string                 `yaml:"default"`  // Key used for fallback
	Registry map[string]BrandConfig `yaml:"registry"` // Replaces built-in brands when set
}

// BrandConfig describes one brand.
type BrandConfig struct {
	Name     string      `yaml:"name"`
	Tagline  string      `yaml:"tagline"`
	Domain   string      `yaml:"domain"`
	Category string      `yaml:"category"`
	CTAPath  string      `yaml:"ctaPath"`
	Colors   ColorConfig `yaml:"colors"`
}

// ColorConfig holds brand colors as hex strings.
type ColorConfig struct {
	Primary   string `yaml:"primary"`
	Secondary string `yaml:"secondary"`
	Accent    string `yaml:"accent"`
}

// DateConfig defines the cover date layout.
type DateConfig struct {
	Format string `yaml:"format"` // Token layout or preset name (empty = "MMMM YYYY")
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	Path string `yaml:"path"` // Empty = embedded assets
}

// PublishConfig defines the optional object-storage mirror.
type PublishConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Endpoint  string `yaml:"endpoint"`
	Bucket    string `yaml:"bucket"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	UseSSL    bool   `yaml:"useSSL"`
	Prefix    string `yaml:"prefix"`
}

// DocumentConfig describes one batch document. Exactly one of
// MarkdownFile, Markdown and HTML is expected; Content is the legacy
// auto-detected field.
type DocumentConfig struct {
	Title        string     `yaml:"title"`
	Description  string     `yaml:"description"`
	Slug         string     `yaml:"slug"`
	Brand        string     `yaml:"brand"`
	Category     string     `yaml:"category"`
	MarkdownFile string     `yaml:"markdownFile"`
	Markdown     string     `yaml:"markdown"`
	HTML         string     `yaml:"html"`
	Content      string     `yaml:"content"`
	Features     []string   `yaml:"features"`
	CTA          *CTAConfig `yaml:"cta"`
}

// CTAConfig overrides the sales page call to action.
type CTAConfig struct {
	Headline    string `yaml:"headline"`
	Subheadline string `yaml:"subheadline"`
	ButtonText  string `yaml:"buttonText"`
	ButtonURL   string `yaml:"buttonURL"`
}

// DefaultConfig returns a configuration that relies on library defaults.
func DefaultConfig() *Config {
	return &Config{
		Date: DateConfig{Format: dateutil.DefaultLayout},
	}
}

// Timeout parses render.timeout. Zero means library default.
func (c *Config) Timeout() (time.Duration, error) {
	if c.Render.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Render.Timeout)
	if err != nil {
		return 0, fmt.Errorf("%w: render.timeout %q: %v", ErrInvalidValue, c.Render.Timeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: render.timeout must be positive, got %s", ErrInvalidValue, d)
	}
	return d, nil
}

// DateLayout resolves date.format, expanding preset names.
func (c *Config) DateLayout() string {
	if preset, ok := dateutil.Presets[strings.ToLower(c.Date.Format)]; ok {
		return preset
	}
	if c.Date.Format == "" {
		return dateutil.DefaultLayout
	}
	return c.Date.Format
}

// Validate checks field lengths and value ranges.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	if err := validateFieldLength("output.dir", c.Output.Dir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("output.publicRoot", c.Output.PublicRoot, MaxPathLength); err != nil {
		return err
	}
	if strings.Contains(c.Output.PublicRoot, "..") {
		return fmt.Errorf("%w: output.publicRoot must not contain '..'", ErrInvalidValue)
	}

	if _, err := c.Timeout(); err != nil {
		return err
	}
	if c.Render.Workers < 0 || c.Render.Workers > MaxWorkers {
		return fmt.Errorf("%w: render.workers must be between 0 and %d, got %d", ErrInvalidValue, MaxWorkers, c.Render.Workers)
	}

	if err := c.validateBrands(); err != nil {
		return err
	}

	if c.Date.Format != "" {
		if _, err := dateutil.GoLayout(c.DateLayout()); err != nil {
			return fmt.Errorf("date.format: %w", err)
		}
	}

	if err := validateFieldLength("assets.path", c.Assets.Path, MaxPathLength); err != nil {
		return err
	}

	if err := c.validatePublish(); err != nil {
		return err
	}

	for i := range c.Documents {
		if err := c.Documents[i].validate(fmt.Sprintf("documents[%d]", i)); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateBrands() error {
	if c.Brands.Default != "" && len(c.Brands.Registry) > 0 {
		if _, ok := c.Brands.Registry[c.Brands.Default]; !ok {
			return fmt.Errorf("%w: brands.default %q not in brands.registry", ErrInvalidValue, c.Brands.Default)
		}
	}
	for key, b := range c.Brands.Registry {
		prefix := "brands.registry." + key
		if err := validateFieldLength(prefix, key, MaxKeyLength); err != nil {
			return err
		}
		fields := []struct {
			name  string
			value string
			max   int
		}{
			{"name", b.Name, MaxNameLength},
			{"tagline", b.Tagline, MaxTaglineLength},
			{"domain", b.Domain, MaxDomainLength},
			{"category", b.Category, MaxCategoryLength},
			{"ctaPath", b.CTAPath, MaxURLLength},
			{"colors.primary", b.Colors.Primary, MaxColorLength},
			{"colors.secondary", b.Colors.Secondary, MaxColorLength},
			{"colors.accent", b.Colors.Accent, MaxColorLength},
		}
		for _, f := range fields {
			if err := validateFieldLength(prefix+"."+f.name, f.value, f.max); err != nil {
				return err
			}
		}
		if b.Name == "" {
			return fmt.Errorf("%w: %s.name is required", ErrInvalidValue, prefix)
		}
	}
	return nil
}

func (c *Config) validatePublish() error {
	p := c.Publish
	if err := validateFieldLength("publish.endpoint", p.Endpoint, MaxURLLength); err != nil {
		return err
	}
	if err := validateFieldLength("publish.bucket", p.Bucket, MaxBucketLength); err != nil {
		return err
	}
	if err := validateFieldLength("publish.accessKey", p.AccessKey, MaxCredentialLength); err != nil {
		return err
	}
	if err := validateFieldLength("publish.secretKey", p.SecretKey, MaxCredentialLength); err != nil {
		return err
	}
	if err := validateFieldLength("publish.prefix", p.Prefix, MaxPathLength); err != nil {
		return err
	}
	if !p.Enabled {
		return nil
	}
	if p.Endpoint == "" {
		return fmt.Errorf("%w: publish.endpoint is required when publish is enabled", ErrInvalidValue)
	}
	if p.Bucket == "" {
		return fmt.Errorf("%w: publish.bucket is required when publish is enabled", ErrInvalidValue)
	}
	return nil
}

func (d *DocumentConfig) validate(prefix string) error {
	if d.Title == "" {
		return fmt.Errorf("%w: %s.title is required", ErrInvalidValue, prefix)
	}
	if d.Slug == "" {
		return fmt.Errorf("%w: %s.slug is required", ErrInvalidValue, prefix)
	}
	fields := []struct {
		name  string
		value string
		max   int
	}{
		{"title", d.Title, MaxTitleLength},
		{"description", d.Description, MaxDescriptionLength},
		{"slug", d.Slug, MaxSlugLength},
		{"brand", d.Brand, MaxKeyLength},
		{"category", d.Category, MaxCategoryLength},
		{"markdownFile", d.MarkdownFile, MaxPathLength},
	}
	for _, f := range fields {
		if err := validateFieldLength(prefix+"."+f.name, f.value, f.max); err != nil {
			return err
		}
	}
	for i, feat := range d.Features {
		if err := validateFieldLength(fmt.Sprintf("%s.features[%d]", prefix, i), feat, MaxFeatureLength); err != nil {
			return err
		}
	}
	if d.CTA != nil {
		if err := validateFieldLength(prefix+".cta.headline", d.CTA.Headline, MaxHeadlineLength); err != nil {
			return err
		}
		if err := validateFieldLength(prefix+".cta.subheadline", d.CTA.Subheadline, MaxDescriptionLength); err != nil {
			return err
		}
		if err := validateFieldLength(prefix+".cta.buttonText", d.CTA.ButtonText, MaxButtonTextLength); err != nil {
			return err
		}
		if err := validateFieldLength(prefix+".cta.buttonURL", d.CTA.ButtonURL, MaxURLLength); err != nil {
			return err
		}
	}

	sources := 0
	for _, s := range []string{d.MarkdownFile, d.Markdown, d.HTML, d.Content} {
		if s != "" {
			sources++
		}
	}
	if sources != 1 {
		return fmt.Errorf("%w: %s needs exactly one of markdownFile, markdown, html or content", ErrInvalidValue, prefix)
	}
	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		var err error
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	f, err := os.Open(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	defer f.Close()

	cfg := DefaultConfig()
	if err := yamlutil.Decode(f, cfg, true); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Relative markdown files resolve against the config file's directory.
	baseDir := filepath.Dir(configPath)
	for i := range cfg.Documents {
		mf := cfg.Documents[i].MarkdownFile
		if mf != "" && !filepath.IsAbs(mf) {
			cfg.Documents[i].MarkdownFile = filepath.Join(baseDir, mf)
		}
	}

	return cfg, nil
}

// SearchPaths lists the candidate files for a config name, in lookup order:
// current directory first, then <user config dir>/leadmagnet/, each with
// .yaml before .yml.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)
	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, AppDir, name+ext))
		}
	}
	return paths
}

// resolveConfigPath returns the first existing file among SearchPaths.
func resolveConfigPath(name string) (string, error) {
	triedPaths := SearchPaths(name)
	for _, p := range triedPaths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
