package leadmagnet

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// ---------------------------------------------------------------------------
// Fakes
// ---------------------------------------------------------------------------

// fakeRenderer records the documents it is asked to render.
type fakeRenderer struct {
	mu     sync.Mutex
	calls  int
	html   []string
	output []byte
	err    error
	closed bool
}

func (f *fakeRenderer) Render(ctx context.Context, html string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.html = append(f.html, html)
	if f.err != nil {
		return nil, f.err
	}
	if f.output != nil {
		return f.output, nil
	}
	return []byte("%PDF-1.4 fake"), nil
}

func (f *fakeRenderer) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeRenderer) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeRenderer) lastHTML() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.html) == 0 {
		return ""
	}
	return f.html[len(f.html)-1]
}

// blockingRenderer waits for ctx to end.
type blockingRenderer struct{}

func (blockingRenderer) Render(ctx context.Context, _ string) ([]byte, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (blockingRenderer) Close() error { return nil }

// fakePublisher records published objects.
type fakePublisher struct {
	mu   sync.Mutex
	keys []string
	err  error
}

func (f *fakePublisher) Publish(_ context.Context, name string, _ []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.keys = append(f.keys, name)
	return "https://cdn.example.test/" + name, nil
}

// fakeSession is a pdfSession without a browser.
type fakeSession struct {
	id     int
	err    error
	mu     sync.Mutex
	closed bool
}

func (s *fakeSession) render(ctx context.Context, _ string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.err != nil {
		return nil, s.err
	}
	return []byte(fmt.Sprintf("%%PDF session %d", s.id)), nil
}

func (s *fakeSession) close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *fakeSession) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// ---------------------------------------------------------------------------
// Test Options (Internal Dependency Injection)
// ---------------------------------------------------------------------------

func withIDFunc(f func() string) Option {
	return func(g *Generator) {
		g.newID = f
	}
}

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

var fixedTime = time.Date(2025, time.March, 14, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedTime }

// makePDF builds a real n-page Letter PDF.
func makePDF(t *testing.T, pages int) []byte {
	t.Helper()
	doc := gofpdf.New("P", "in", "Letter", "")
	for i := 0; i < pages; i++ {
		doc.AddPage()
		doc.SetFont("Helvetica", "", 12)
		doc.Cell(1, 1, fmt.Sprintf("page %d", i+1))
	}
	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		t.Fatalf("building PDF fixture: %v", err)
	}
	return buf.Bytes()
}

// newTestGenerator builds a Generator writing into a temp dir with a fake
// renderer and a fixed clock.
func newTestGenerator(t *testing.T, r Renderer, opts ...Option) (*Generator, string) {
	t.Helper()
	dir := t.TempDir()
	all := append([]Option{
		WithRenderer(r),
		WithClock(fixedClock),
		WithOutputDir(dir),
		withIDFunc(func() string { return "test-id" }),
	}, opts...)
	g, err := NewGenerator(all...)
	if err != nil {
		t.Fatalf("NewGenerator() error = %v", err)
	}
	t.Cleanup(func() { _ = g.Close() })
	return g, dir
}
