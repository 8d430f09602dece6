package pipeline

import (
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// MaxInlineImageSize caps a single image embedded as a data URI (5MB).
const MaxInlineImageSize = 5 << 20

// ErrImageTooLarge indicates a local image above MaxInlineImageSize.
var ErrImageTooLarge = errors.New("image too large to inline")

// InlineLocalImages replaces relative <img src> paths with data URIs read
// from sourceDir. The document is rendered from memory, so relative paths
// would otherwise not resolve. Fragments without relative images are
// returned byte-for-byte.
//
// Skipped: URLs, data URIs, absolute paths, paths escaping sourceDir and
// missing files (the browser shows its broken-image placeholder).
func InlineLocalImages(fragment, sourceDir string) (string, error) {
	if sourceDir == "" || !strings.Contains(fragment, "<img") {
		return fragment, nil
	}

	absDir, err := filepath.Abs(sourceDir)
	if err != nil {
		return "", fmt.Errorf("resolving source directory: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return "", fmt.Errorf("parsing fragment: %w", err)
	}

	var rewritten int
	var inlineErr error
	doc.Find("img[src]").EachWithBreak(func(_ int, img *goquery.Selection) bool {
		src, _ := img.Attr("src")
		if !isRelativePath(src) {
			return true
		}
		path := filepath.Join(absDir, filepath.FromSlash(src))
		if !isPathUnderDir(path, absDir) {
			return true
		}
		uri, err := dataURI(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return true
			}
			inlineErr = err
			return false
		}
		img.SetAttr("src", uri)
		rewritten++
		return true
	})
	if inlineErr != nil {
		return "", inlineErr
	}
	if rewritten == 0 {
		return fragment, nil
	}

	out, err := doc.Find("body").Html()
	if err != nil {
		return "", fmt.Errorf("rendering fragment: %w", err)
	}
	return out, nil
}

// dataURI reads path and encodes it as a base64 data URI.
func dataURI(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if info.Size() > MaxInlineImageSize {
		return "", fmt.Errorf("%w: %s (%d bytes)", ErrImageTooLarge, path, info.Size())
	}
	data, err := os.ReadFile(path) // #nosec G304 -- containment checked by caller
	if err != nil {
		return "", err
	}
	mt := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if mt == "" {
		mt = "application/octet-stream"
	}
	return "data:" + mt + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// isRelativePath reports whether src is a relative filesystem path.
func isRelativePath(src string) bool {
	if src == "" || strings.HasPrefix(src, "#") || strings.HasPrefix(src, "//") {
		return false
	}
	if strings.Contains(src, "://") || strings.HasPrefix(src, "data:") {
		return false
	}
	return !filepath.IsAbs(src)
}

// isPathUnderDir reports whether path is dir or below it.
func isPathUnderDir(path, dir string) bool {
	cleanDir := filepath.Clean(dir) + string(filepath.Separator)
	return strings.HasPrefix(filepath.Clean(path)+string(filepath.Separator), cleanDir)
}
