package main

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"time"

	"github.com/rs/zerolog"

	leadmagnet "github.com/hatlem/getanswers-sub001"
	"github.com/hatlem/getanswers-sub001/internal/config"
	"github.com/hatlem/getanswers-sub001/internal/publish"
)

// newLogger builds the console logger. --quiet wins over --verbose.
func newLogger(w io.Writer, verbose, quiet bool) zerolog.Logger {
	level := zerolog.InfoLevel
	switch {
	case quiet:
		level = zerolog.ErrorLevel
	case verbose:
		level = zerolog.DebugLevel
	}
	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly, NoColor: true}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// loadConfig resolves the configuration with precedence
// flags > config file > environment > defaults.
func loadConfig(f *commonFlags, env *envConfig) (*config.Config, error) {
	if err := validateWorkers(f.workers); err != nil {
		return nil, err
	}
	if f.timeout < 0 {
		return nil, fmt.Errorf("%w: --timeout must be positive, got %s", ErrUsage, f.timeout)
	}

	name := f.config
	if name == "" {
		name = env.ConfigPath
	}

	cfg := config.DefaultConfig()
	if name != "" {
		var err error
		cfg, err = config.LoadConfig(name)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	}

	applyEnvConfig(env, cfg)
	mergeFlags(f, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// buildRegistry turns brands.registry into a Registry. An empty registry
// keeps the built-in brands, re-keyed on brands.default when set.
func buildRegistry(bc config.BrandsConfig) (*leadmagnet.Registry, error) {
	if len(bc.Registry) == 0 {
		base := leadmagnet.DefaultRegistry()
		if bc.Default == "" || bc.Default == base.DefaultKey() {
			return base, nil
		}
		brands := make(map[string]leadmagnet.Brand, len(base.Keys()))
		for _, key := range base.Keys() {
			b, _ := base.Lookup(key)
			brands[key] = b
		}
		return leadmagnet.NewRegistry(bc.Default, brands)
	}

	brands := make(map[string]leadmagnet.Brand, len(bc.Registry))
	for key, b := range bc.Registry {
		brands[key] = brandFromConfig(b)
	}
	return leadmagnet.NewRegistry(registryDefault(bc), brands)
}

// registryDefault picks brands.default, else the built-in default key when
// present, else the first key in sorted order.
func registryDefault(bc config.BrandsConfig) string {
	if bc.Default != "" {
		return bc.Default
	}
	if _, ok := bc.Registry[leadmagnet.DefaultBrandKey]; ok {
		return leadmagnet.DefaultBrandKey
	}
	return slices.Sorted(maps.Keys(bc.Registry))[0]
}

func brandFromConfig(b config.BrandConfig) leadmagnet.Brand {
	return leadmagnet.Brand{
		Name:     b.Name,
		Tagline:  b.Tagline,
		Domain:   b.Domain,
		Category: b.Category,
		CTAPath:  b.CTAPath,
		Colors: leadmagnet.Colors{
			Primary:   b.Colors.Primary,
			Secondary: b.Colors.Secondary,
			Accent:    b.Colors.Accent,
		},
	}
}

// buildPublisher returns the MinIO mirror, or nil when publishing is off.
func buildPublisher(pc config.PublishConfig) (leadmagnet.Publisher, error) {
	if !pc.Enabled {
		return nil, nil
	}
	p, err := publish.NewMinIO(publish.Config{
		Endpoint:  pc.Endpoint,
		Bucket:    pc.Bucket,
		AccessKey: pc.AccessKey,
		SecretKey: pc.SecretKey,
		UseSSL:    pc.UseSSL,
		Prefix:    pc.Prefix,
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// newGenerator wires config, registry, renderer and publisher into a
// Generator. The caller must Close it.
func newGenerator(cfg *config.Config, f *commonFlags, env *Environment, logger zerolog.Logger) (*leadmagnet.Generator, error) {
	registry, err := buildRegistry(cfg.Brands)
	if err != nil {
		return nil, err
	}

	timeout, err := cfg.Timeout()
	if err != nil {
		return nil, err
	}

	publisher, err := buildPublisher(cfg.Publish)
	if err != nil {
		return nil, err
	}

	opts := []leadmagnet.Option{
		leadmagnet.WithRegistry(registry),
		leadmagnet.WithStrictBrands(cfg.Brands.Strict),
		leadmagnet.WithLogger(logger),
		leadmagnet.WithClock(env.Now),
		leadmagnet.WithOutputDir(cfg.Output.Dir),
		leadmagnet.WithPublicRoot(cfg.Output.PublicRoot),
		leadmagnet.WithAssetPath(cfg.Assets.Path),
		leadmagnet.WithDateLayout(cfg.DateLayout()),
	}
	if timeout > 0 {
		opts = append(opts, leadmagnet.WithTimeout(timeout))
	}
	if publisher != nil {
		opts = append(opts, leadmagnet.WithPublisher(publisher))
	}
	if f.sanitizeHTML {
		opts = append(opts, leadmagnet.WithHTMLSanitizer())
	}

	renderer := env.Renderer
	if renderer == nil {
		size := leadmagnet.ResolvePoolSize(cfg.Render.Workers)
		logger.Debug().Int("pool_size", size).Msg("browser pool")
		renderer = leadmagnet.NewRenderPool(size)
	}
	opts = append(opts, leadmagnet.WithRenderer(renderer))

	gen, err := leadmagnet.NewGenerator(opts...)
	if err != nil {
		_ = renderer.Close()
		return nil, err
	}
	return gen, nil
}
