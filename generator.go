package leadmagnet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hatlem/getanswers-sub001/internal/assets"
	"github.com/hatlem/getanswers-sub001/internal/dateutil"
	"github.com/hatlem/getanswers-sub001/internal/pipeline"
)

// defaultTimeout bounds the render step when no timeout is specified.
const defaultTimeout = 60 * time.Second

// Option configures a Generator.
type Option func(*Generator)

// generatorConfig holds internal configuration for Generator.
type generatorConfig struct {
	timeout      time.Duration
	strictBrands bool
	outputDir    string
	publicRoot   string
	assetPath    string
	dateLayout   string
	sanitizeHTML bool
}

// WithTimeout bounds the render step of each Generate call.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("leadmagnet: WithTimeout duration must be positive")
	}
	return func(g *Generator) {
		g.cfg.timeout = d
	}
}

// WithRegistry sets the brand registry. Default: DefaultRegistry().
func WithRegistry(r *Registry) Option {
	return func(g *Generator) {
		if r != nil {
			g.registry = r
		}
	}
}

// WithStrictBrands makes unknown brand keys fail with ErrUnknownBrand
// instead of falling back to the default brand.
func WithStrictBrands(strict bool) Option {
	return func(g *Generator) {
		g.cfg.strictBrands = strict
	}
}

// WithRenderer replaces the per-call browser renderer, e.g. with a
// RenderPool. The Generator closes it on Close.
func WithRenderer(r Renderer) Option {
	return func(g *Generator) {
		if r != nil {
			g.renderer = r
		}
	}
}

// WithPublisher mirrors every generated PDF through p.
func WithPublisher(p Publisher) Option {
	return func(g *Generator) {
		g.publisher = p
	}
}

// WithLogger sets the logger. Default: zerolog.Nop().
func WithLogger(l zerolog.Logger) Option {
	return func(g *Generator) {
		g.logger = l
	}
}

// WithClock sets the time source for the cover date.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

// WithOutputDir sets the default output directory.
func WithOutputDir(dir string) Option {
	return func(g *Generator) {
		if dir != "" {
			g.cfg.outputDir = dir
		}
	}
}

// WithPublicRoot sets the URL path PDFs are served under.
func WithPublicRoot(root string) Option {
	return func(g *Generator) {
		if root != "" {
			g.cfg.publicRoot = root
		}
	}
}

// WithAssetPath loads the template and stylesheet from dir, falling back
// to the embedded assets for files it does not contain.
func WithAssetPath(dir string) Option {
	return func(g *Generator) {
		g.cfg.assetPath = dir
	}
}

// WithDateLayout sets the cover date layout ("MMMM YYYY" tokens or a
// preset name).
func WithDateLayout(layout string) Option {
	return func(g *Generator) {
		if layout != "" {
			g.cfg.dateLayout = layout
		}
	}
}

// WithHTMLSanitizer sanitizes raw HTML content with a UGC policy instead
// of passing it through unchanged.
func WithHTMLSanitizer() Option {
	return func(g *Generator) {
		g.cfg.sanitizeHTML = true
	}
}

// Generator runs the pipeline: brand resolution, content normalization,
// composition, rendering and output. It is safe for concurrent use.
type Generator struct {
	cfg        generatorConfig
	registry   *Registry
	normalizer *contentNormalizer
	composer   *pipeline.Composer
	renderer   Renderer
	publisher  Publisher
	logger     zerolog.Logger
	now        func() time.Time
	newID      func() string
}

// NewGenerator creates a Generator. Returns an error if the asset path is
// invalid or the template cannot be parsed.
func NewGenerator(opts ...Option) (*Generator, error) {
	g := &Generator{
		cfg: generatorConfig{
			timeout:    defaultTimeout,
			outputDir:  DefaultOutputDir,
			publicRoot: DefaultPublicRoot,
			dateLayout: dateutil.DefaultLayout,
		},
		logger: zerolog.Nop(),
		now:    time.Now,
		newID:  uuid.NewString,
	}

	for _, opt := range opts {
		opt(g)
	}

	if _, err := dateutil.GoLayout(g.cfg.dateLayout); err != nil {
		return nil, err
	}

	if g.registry == nil {
		g.registry = DefaultRegistry()
	}

	resolver, err := assets.NewResolver(g.cfg.assetPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
	}
	if resolver.HasCustomLoader() {
		g.logger.Debug().Str("path", g.cfg.assetPath).Msg("custom assets")
	}
	g.composer, err = pipeline.NewComposer(resolver, assets.DefaultTemplateName, assets.DefaultStyleName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplate, err)
	}

	if g.normalizer == nil {
		g.normalizer = newContentNormalizer(g.cfg.sanitizeHTML)
	}
	if g.renderer == nil {
		g.renderer = NewRodRenderer()
	}

	return g, nil
}

// Registry returns the brand registry in use.
func (g *Generator) Registry() *Registry {
	return g.registry
}

// Compose validates req and returns the composed HTML document without
// rendering it.
func (g *Generator) Compose(ctx context.Context, req Request) (string, error) {
	return g.compose(ctx, req, g.logger)
}

// Generate produces <outputDir>/<slug>.pdf for req. Nothing is written
// unless rendering succeeds. Recovers from internal panics to prevent
// crashes from propagating to callers.
func (g *Generator) Generate(ctx context.Context, req Request) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	start := time.Now()
	id := g.newID()
	log := g.logger.With().Str("generation_id", id).Str("slug", req.Slug).Logger()

	doc, err := g.compose(ctx, req, log)
	if err != nil {
		log.Debug().Err(err).Msg("composition failed")
		return nil, err
	}

	pdf, err := g.render(ctx, doc, log)
	if err != nil {
		log.Debug().Err(err).Msg("render failed")
		return nil, err
	}

	outputDir := req.OutputDir
	if outputDir == "" {
		outputDir = g.cfg.outputDir
	}
	result, err = writeOutput(outputDir, g.cfg.publicRoot, req.Slug, pdf)
	if err != nil {
		return nil, err
	}
	result.GenerationID = id

	if g.publisher != nil {
		url, err := g.publisher.Publish(ctx, req.Slug+".pdf", pdf)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPublish, err)
		}
		result.PublishedURL = url
	}

	result.Duration = time.Since(start)
	log.Info().
		Str("path", result.PDFPath).
		Int64("bytes", result.FileSize).
		Int("rendered_pages", result.RenderedPages).
		Dur("duration", result.Duration).
		Msg("lead magnet generated")

	return result, nil
}

// compose runs validation, brand resolution, normalization, composition
// and page verification.
func (g *Generator) compose(ctx context.Context, req Request, log zerolog.Logger) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := req.Validate(); err != nil {
		return "", err
	}

	brand, err := g.registry.Resolve(req.Brand, g.cfg.strictBrands)
	if err != nil {
		return "", err
	}
	if !req.Brand.IsLiteral() && req.Brand.Key() != "" {
		if _, ok := g.registry.Lookup(req.Brand.Key()); !ok {
			log.Warn().Str("brand", req.Brand.Key()).Str("fallback", g.registry.DefaultKey()).Msg("unknown brand, using default")
		}
	}

	start := time.Now()
	body, err := g.normalizer.Normalize(ctx, req.Content)
	if err != nil {
		return "", err
	}
	log.Debug().Stringer("kind", req.Content.Kind).Dur("took", time.Since(start)).Msg("content normalized")

	data, err := buildDocumentData(req, brand, body, g.now(), g.cfg.dateLayout)
	if err != nil {
		return "", err
	}

	doc, err := g.composer.Compose(ctx, data)
	if err != nil {
		if ctx.Err() != nil {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", ErrTemplate, err)
	}
	if err := pipeline.VerifyPages(doc); err != nil {
		return "", fmt.Errorf("%w: %v", ErrTemplate, err)
	}
	log.Debug().Str("brand", brand.Name).Int("html_bytes", len(doc)).Msg("document composed")

	return doc, nil
}

// render runs the renderer under the configured timeout.
func (g *Generator) render(ctx context.Context, doc string, log zerolog.Logger) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, g.cfg.timeout)
	defer cancel()

	start := time.Now()
	pdf, err := g.renderer.Render(ctx, doc)
	if err != nil {
		if errors.Is(err, ErrRender) {
			return nil, err
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: timed out after %s: %w", ErrRender, g.cfg.timeout, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrRender, err)
	}
	if len(pdf) == 0 {
		return nil, fmt.Errorf("%w: renderer returned no data", ErrPDFGeneration)
	}
	log.Debug().Int("pdf_bytes", len(pdf)).Dur("took", time.Since(start)).Msg("document rendered")
	return pdf, nil
}

// Close releases the renderer.
func (g *Generator) Close() error {
	if g.renderer != nil {
		return g.renderer.Close()
	}
	return nil
}
