package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jung-kurt/gofpdf"

	leadmagnet "github.com/hatlem/getanswers-sub001"
)

// stubPDF returns a three-page Letter PDF built once per test binary.
var stubPDF = sync.OnceValue(func() []byte {
	doc := gofpdf.New("P", "in", "Letter", "")
	for _, label := range []string{"cover", "content", "sales"} {
		doc.AddPage()
		doc.SetFont("Helvetica", "", 12)
		doc.Cell(1, 1, label)
	}
	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		panic("building PDF fixture: " + err.Error())
	}
	return buf.Bytes()
})

// stubRenderer returns stubPDF without launching a browser.
type stubRenderer struct {
	mu     sync.Mutex
	calls  int
	closed bool
	err    error
}

func (r *stubRenderer) Render(ctx context.Context, _ string) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.err != nil {
		return nil, r.err
	}
	return stubPDF(), nil
}

func (r *stubRenderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func (r *stubRenderer) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

// fakeGenerator records requests and fails the slugs listed in failSlugs.
type fakeGenerator struct {
	failSlugs map[string]error
	requests  []leadmagnet.Request
	composed  int
}

func (g *fakeGenerator) Generate(_ context.Context, req leadmagnet.Request) (*leadmagnet.Result, error) {
	g.requests = append(g.requests, req)
	if err, ok := g.failSlugs[req.Slug]; ok {
		return nil, err
	}
	return &leadmagnet.Result{
		PDFPath:   filepath.Join("/out", req.Slug+".pdf"),
		PDFURL:    "/lead-magnets/" + req.Slug + ".pdf",
		FileSize:  2048,
		PageCount: leadmagnet.PageCount,
	}, nil
}

func (g *fakeGenerator) Compose(_ context.Context, req leadmagnet.Request) (string, error) {
	g.composed++
	if err, ok := g.failSlugs[req.Slug]; ok {
		return "", err
	}
	return "<html><body>" + req.Title + "</body></html>", nil
}

var errBoom = errors.New("boom")

// fixedNow is the clock used by CLI tests.
func fixedNow() time.Time {
	return time.Date(2025, time.March, 14, 9, 0, 0, 0, time.UTC)
}

// testEnv returns an environment with captured output and a stub renderer.
func testEnv() (*Environment, *bytes.Buffer, *bytes.Buffer, *stubRenderer) {
	var stdout, stderr bytes.Buffer
	r := &stubRenderer{}
	return &Environment{
		Now:      fixedNow,
		Stdout:   &stdout,
		Stderr:   &stderr,
		Renderer: r,
	}, &stdout, &stderr, r
}

// writeFile creates dir/name with content and returns its path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

// countLines counts stdout lines containing substr.
func countLines(out, substr string) int {
	n := 0
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, substr) {
			n++
		}
	}
	return n
}
