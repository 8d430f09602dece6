package leadmagnet

import (
	"bytes"
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/hatlem/getanswers-sub001/internal/fileutil"
)

// Output defaults.
const (
	DefaultOutputDir  = "public/lead-magnets"
	DefaultPublicRoot = "lead-magnets"
)

var disablePDFConfigDir sync.Once

// writeOutput creates dir, writes <dir>/<slug>.pdf atomically and fills
// the file fields of a Result.
func writeOutput(dir, publicRoot, slug string, pdf []byte) (*Result, error) {
	if err := fileutil.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIO, err)
	}

	target, err := filepath.Abs(filepath.Join(dir, slug+".pdf"))
	if err != nil {
		return nil, fmt.Errorf("%w: resolving output path: %v", ErrIO, err)
	}
	if err := fileutil.WriteAtomic(target, pdf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIO, err)
	}

	return &Result{
		PDFPath:       target,
		PDFURL:        PublicURL(publicRoot, slug),
		FileSize:      int64(len(pdf)),
		PageCount:     PageCount,
		RenderedPages: CountPages(pdf),
	}, nil
}

// PublicURL returns the site-relative URL a PDF is served from.
func PublicURL(publicRoot, slug string) string {
	root := strings.Trim(publicRoot, "/")
	if root == "" {
		root = DefaultPublicRoot
	}
	return path.Join("/", root, slug+".pdf")
}

// CountPages returns the number of pages in pdf, or 0 when the document
// cannot be read.
func CountPages(pdf []byte) int {
	disablePDFConfigDir.Do(api.DisableConfigDir)

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	n, err := api.PageCount(bytes.NewReader(pdf), conf)
	if err != nil {
		return 0
	}
	return n
}
