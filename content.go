package leadmagnet

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/hatlem/getanswers-sub001/internal/pipeline"
)

// MaxContentSize caps markdown files read from disk (10MB).
const MaxContentSize = 10 << 20

// contentNormalizer turns a Content payload into an HTML fragment.
type contentNormalizer struct {
	converter pipeline.HTMLConverter
	sanitizer *bluemonday.Policy // nil = HTML passes through unchanged
}

func newContentNormalizer(sanitize bool) *contentNormalizer {
	n := &contentNormalizer{converter: pipeline.NewGoldmarkConverter()}
	if sanitize {
		n.sanitizer = bluemonday.UGCPolicy()
	}
	return n
}

// Normalize resolves c to an HTML fragment. Markdown files and markdown text
// with the same characters yield the same fragment, except that relative
// images next to a markdown file are inlined.
func (n *contentNormalizer) Normalize(ctx context.Context, c Content) (string, error) {
	if c.Kind == ContentAuto {
		c = DetectContent(c.Value)
	}

	switch c.Kind {
	case ContentMarkdownFile:
		text, err := readMarkdownFile(c.Value)
		if err != nil {
			return "", err
		}
		fragment, err := n.markdown(ctx, text)
		if err != nil {
			return "", err
		}
		fragment, err = pipeline.InlineLocalImages(fragment, filepath.Dir(c.Value))
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrContentSource, err)
		}
		return fragment, nil

	case ContentMarkdownText:
		return n.markdown(ctx, c.Value)

	case ContentHTML:
		if strings.TrimSpace(c.Value) == "" {
			return "", ErrEmptyContent
		}
		if n.sanitizer != nil {
			return n.sanitizer.Sanitize(c.Value), nil
		}
		return c.Value, nil

	default:
		return "", fmt.Errorf("%w: unknown content kind %s", ErrContentSource, c.Kind)
	}
}

// markdown converts markdown text to an HTML fragment.
func (n *contentNormalizer) markdown(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyContent
	}
	fragment, err := n.converter.ToHTML(ctx, pipeline.PrepareMarkdown(text))
	if err != nil {
		if ctx.Err() != nil {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", ErrContentSource, err)
	}
	return pipeline.FinishHTML(fragment), nil
}

// readMarkdownFile reads path fully. The file is closed on every path.
func readMarkdownFile(path string) (string, error) {
	f, err := os.Open(path) // #nosec G304 -- path is caller-provided content
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrContentSource, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxContentSize+1))
	if err != nil {
		return "", fmt.Errorf("%w: reading %s: %v", ErrContentSource, path, err)
	}
	if len(data) > MaxContentSize {
		return "", fmt.Errorf("%w: %s exceeds %d bytes", ErrContentSource, path, MaxContentSize)
	}
	return string(data), nil
}
