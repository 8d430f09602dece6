package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	leadmagnet "github.com/hatlem/getanswers-sub001"
	"github.com/hatlem/getanswers-sub001/internal/config"
)

// ---------------------------------------------------------------------------
// TestNewLogger - Level selection
// ---------------------------------------------------------------------------

func TestNewLogger(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		verbose bool
		quiet   bool
		want    zerolog.Level
	}{
		{"default", false, false, zerolog.InfoLevel},
		{"verbose", true, false, zerolog.DebugLevel},
		{"quiet", false, true, zerolog.ErrorLevel},
		{"quiet wins", true, true, zerolog.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			l := newLogger(&bytes.Buffer{}, tt.verbose, tt.quiet)
			if got := l.GetLevel(); got != tt.want {
				t.Errorf("level = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewLogger_WritesConsoleFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := newLogger(&buf, false, false)
	l.Info().Str("slug", "demo").Msg("lead magnet generated")

	if !strings.Contains(buf.String(), "lead magnet generated") || !strings.Contains(buf.String(), "slug=demo") {
		t.Errorf("log line = %q", buf.String())
	}
}

// ---------------------------------------------------------------------------
// TestLoadConfig - Precedence
// ---------------------------------------------------------------------------

func TestLoadConfig_FlagsOverrideEnvAndFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "leadmagnet.yaml", `
output:
  dir: from-file
render:
  timeout: 30s
`)

	env := &envConfig{OutputDir: "from-env", PublicRoot: "downloads", Timeout: 10 * time.Second}
	flags := &commonFlags{config: cfgPath, output: "from-flag"}

	cfg, err := loadConfig(flags, env)
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.Output.Dir != "from-flag" {
		t.Errorf("Output.Dir = %q, want flag value", cfg.Output.Dir)
	}
	if cfg.Output.PublicRoot != "downloads" {
		t.Errorf("Output.PublicRoot = %q, want env value", cfg.Output.PublicRoot)
	}
	if cfg.Render.Timeout != "30s" {
		t.Errorf("Render.Timeout = %q, want file value over env", cfg.Render.Timeout)
	}
}

func TestLoadConfig_EnvConfigPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "leadmagnet.yaml", "brands:\n  strict: true\n")

	cfg, err := loadConfig(&commonFlags{}, &envConfig{ConfigPath: cfgPath})
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if !cfg.Brands.Strict {
		t.Error("config from LEADMAGNET_CONFIG should be loaded")
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		flags   commonFlags
		wantErr error
	}{
		{"negative workers", commonFlags{workers: -1}, ErrUsage},
		{"too many workers", commonFlags{workers: config.MaxWorkers + 1}, ErrUsage},
		{"negative timeout", commonFlags{timeout: -time.Second}, ErrUsage},
		{"missing config", commonFlags{config: "/nonexistent/x.yaml"}, config.ErrConfigNotFound},
		{"bad date format", commonFlags{dateFormat: strings.Repeat("Y", 60)}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := loadConfig(&tt.flags, &envConfig{})
			if err == nil {
				t.Fatal("loadConfig() error = nil, want error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("loadConfig() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestBuildRegistry - Config brands to Registry
// ---------------------------------------------------------------------------

func TestBuildRegistry(t *testing.T) {
	t.Parallel()

	acme := config.BrandConfig{
		Name:   "Acme",
		Domain: "acme.test",
		Colors: config.ColorConfig{Primary: "#111", Secondary: "#222", Accent: "#333"},
	}

	tests := []struct {
		name        string
		bc          config.BrandsConfig
		wantDefault string
		wantKeys    int
		wantErr     error
	}{
		{"built-in", config.BrandsConfig{}, leadmagnet.DefaultBrandKey, 3, nil},
		{"built-in re-keyed", config.BrandsConfig{Default: "helpdeskpro"}, "helpdeskpro", 3, nil},
		{"built-in unknown default", config.BrandsConfig{Default: "nope"}, "", 0, leadmagnet.ErrUnknownBrand},
		{"custom with default", config.BrandsConfig{Default: "acme", Registry: map[string]config.BrandConfig{"acme": acme}}, "acme", 1, nil},
		{"custom first key", config.BrandsConfig{Registry: map[string]config.BrandConfig{"zeta": acme, "acme": acme}}, "acme", 2, nil},
		{"custom with getanswers", config.BrandsConfig{Registry: map[string]config.BrandConfig{"zeta": acme, "getanswers": acme}}, "getanswers", 2, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r, err := buildRegistry(tt.bc)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("buildRegistry() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("buildRegistry() error = %v", err)
			}
			if r.DefaultKey() != tt.wantDefault {
				t.Errorf("DefaultKey() = %q, want %q", r.DefaultKey(), tt.wantDefault)
			}
			if len(r.Keys()) != tt.wantKeys {
				t.Errorf("Keys() = %v, want %d keys", r.Keys(), tt.wantKeys)
			}
		})
	}
}

func TestBuildPublisher(t *testing.T) {
	t.Parallel()

	p, err := buildPublisher(config.PublishConfig{})
	if err != nil || p != nil {
		t.Errorf("disabled publish = (%v, %v), want (nil, nil)", p, err)
	}

	p, err = buildPublisher(config.PublishConfig{Enabled: true, Endpoint: "localhost:9000", Bucket: "lead-magnets"})
	if err != nil || p == nil {
		t.Errorf("enabled publish = (%v, %v), want a publisher", p, err)
	}
}

// ---------------------------------------------------------------------------
// TestNewGenerator - Wiring
// ---------------------------------------------------------------------------

func TestNewGenerator_ClosesRendererOnError(t *testing.T) {
	t.Parallel()

	env, _, _, r := testEnv()
	cfg := config.DefaultConfig()
	cfg.Assets.Path = "/nonexistent/assets"

	_, err := newGenerator(cfg, &commonFlags{}, env, zerolog.Nop())
	if !errors.Is(err, leadmagnet.ErrInvalidAssetPath) {
		t.Fatalf("newGenerator() error = %v, want ErrInvalidAssetPath", err)
	}
	if !r.closed {
		t.Error("renderer should be closed when the generator cannot be built")
	}
}
