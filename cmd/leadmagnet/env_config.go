package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/hatlem/getanswers-sub001/internal/config"
)

// envPrefix marks the environment variables the CLI reads.
const envPrefix = "LEADMAGNET_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath   string        // LEADMAGNET_CONFIG: config name or path
	OutputDir    string        // LEADMAGNET_OUTPUT_DIR: PDF directory
	PublicRoot   string        // LEADMAGNET_PUBLIC_ROOT: URL path prefix
	Timeout      time.Duration // LEADMAGNET_TIMEOUT: render timeout
	Workers      int           // LEADMAGNET_WORKERS: browser pool size
	DefaultBrand string        // LEADMAGNET_BRAND: fallback brand key

	// Publish credentials are kept out of YAML files.
	PublishAccessKey string // LEADMAGNET_PUBLISH_ACCESS_KEY
	PublishSecretKey string // LEADMAGNET_PUBLISH_SECRET_KEY
}

// knownEnvVars lists valid LEADMAGNET_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"LEADMAGNET_CONFIG":             true,
	"LEADMAGNET_OUTPUT_DIR":         true,
	"LEADMAGNET_PUBLIC_ROOT":        true,
	"LEADMAGNET_TIMEOUT":            true,
	"LEADMAGNET_WORKERS":            true,
	"LEADMAGNET_BRAND":              true,
	"LEADMAGNET_PUBLISH_ACCESS_KEY": true,
	"LEADMAGNET_PUBLISH_SECRET_KEY": true,
}

// loadDotEnv reads KEY=VALUE pairs from path into the process environment.
// Variables already set win. A missing file is not an error.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// loadEnvConfig reads configuration from environment variables.
// Malformed numbers and durations are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath:       os.Getenv("LEADMAGNET_CONFIG"),
		OutputDir:        os.Getenv("LEADMAGNET_OUTPUT_DIR"),
		PublicRoot:       os.Getenv("LEADMAGNET_PUBLIC_ROOT"),
		DefaultBrand:     os.Getenv("LEADMAGNET_BRAND"),
		PublishAccessKey: os.Getenv("LEADMAGNET_PUBLISH_ACCESS_KEY"),
		PublishSecretKey: os.Getenv("LEADMAGNET_PUBLISH_SECRET_KEY"),
	}

	if timeout := os.Getenv("LEADMAGNET_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	if workers := os.Getenv("LEADMAGNET_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized LEADMAGNET_* variables.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, envPrefix) {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig fills config fields the file left empty from the
// environment. Flags are merged afterwards and win over both.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.OutputDir != "" && cfg.Output.Dir == "" {
		cfg.Output.Dir = env.OutputDir
	}
	if env.PublicRoot != "" && cfg.Output.PublicRoot == "" {
		cfg.Output.PublicRoot = env.PublicRoot
	}
	if env.Timeout > 0 && cfg.Render.Timeout == "" {
		cfg.Render.Timeout = env.Timeout.String()
	}
	if env.Workers > 0 && cfg.Render.Workers == 0 {
		cfg.Render.Workers = env.Workers
	}
	if env.DefaultBrand != "" && cfg.Brands.Default == "" {
		cfg.Brands.Default = env.DefaultBrand
	}
	if env.PublishAccessKey != "" && cfg.Publish.AccessKey == "" {
		cfg.Publish.AccessKey = env.PublishAccessKey
	}
	if env.PublishSecretKey != "" && cfg.Publish.SecretKey == "" {
		cfg.Publish.SecretKey = env.PublishSecretKey
	}
}
