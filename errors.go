package leadmagnet

import (
	"errors"
	"fmt"
)

// Sentinel errors for library operations. Check with errors.Is.
var (
	// ErrContentSource indicates the content payload could not be resolved.
	ErrContentSource = errors.New("content source unavailable")
	ErrEmptyContent  = fmt.Errorf("%w: content is empty", ErrContentSource)

	// ErrTemplate indicates the document could not be composed.
	ErrTemplate = errors.New("template composition failed")

	// ErrRender indicates the browser failed to produce a PDF.
	ErrRender         = errors.New("render failed")
	ErrBrowserConnect = fmt.Errorf("%w: failed to connect to browser", ErrRender)
	ErrPageCreate     = fmt.Errorf("%w: failed to create browser page", ErrRender)
	ErrPageLoad       = fmt.Errorf("%w: failed to load page", ErrRender)
	ErrPDFGeneration  = fmt.Errorf("%w: PDF generation failed", ErrRender)

	// ErrIO indicates the output could not be written.
	ErrIO = errors.New("output write failed")

	// ErrPublish indicates the object-storage mirror failed.
	ErrPublish = errors.New("publish failed")

	// Validation errors.
	ErrUnknownBrand     = errors.New("unknown brand")
	ErrInvalidBrand     = errors.New("invalid brand")
	ErrInvalidRequest   = errors.New("invalid request")
	ErrInvalidAssetPath = errors.New("invalid asset path")
)
