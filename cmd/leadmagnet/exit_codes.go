package main

import (
	"context"
	"errors"
	"os"

	leadmagnet "github.com/hatlem/getanswers-sub001"
	"github.com/hatlem/getanswers-sub001/internal/config"
	"github.com/hatlem/getanswers-sub001/internal/dateutil"
	"github.com/hatlem/getanswers-sub001/internal/hints"
	"github.com/hatlem/getanswers-sub001/internal/publish"
)

// Exit codes for the leadmagnet CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // All documents generated
	ExitGeneral = 1 // General error or at least one batch item failed
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // Content missing, output not writable, publish failed
	ExitBrowser = 4 // Browser/Chrome errors
)

// Sentinel errors for CLI operations.
var (
	ErrUsage       = errors.New("invalid usage")
	ErrBatchFailed = errors.New("batch had failures")
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, ErrBatchFailed) {
		return ExitGeneral
	}

	// Browser errors (exit 4)
	if errors.Is(err, leadmagnet.ErrRender) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, leadmagnet.ErrContentSource) ||
		errors.Is(err, leadmagnet.ErrIO) ||
		errors.Is(err, leadmagnet.ErrPublish) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, dateutil.ErrInvalidLayout) ||
		errors.Is(err, publish.ErrInvalidConfig) ||
		errors.Is(err, leadmagnet.ErrInvalidRequest) ||
		errors.Is(err, leadmagnet.ErrInvalidBrand) ||
		errors.Is(err, leadmagnet.ErrUnknownBrand) ||
		errors.Is(err, leadmagnet.ErrInvalidAssetPath) {
		return ExitUsage
	}

	return ExitGeneral
}

// hintFor returns an actionable suggestion for err, or "".
// brands lists the registered keys for unknown-brand errors.
func hintFor(err error, configName string, brands []string) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, leadmagnet.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(config.SearchPaths(configName))
	case errors.Is(err, leadmagnet.ErrUnknownBrand):
		return hints.ForUnknownBrand(brands)
	case errors.Is(err, leadmagnet.ErrContentSource):
		return hints.ForContentSource()
	case errors.Is(err, leadmagnet.ErrIO):
		return hints.ForOutputDirectory()
	}
	return ""
}
