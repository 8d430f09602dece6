package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	leadmagnet "github.com/hatlem/getanswers-sub001"
)

// ---------------------------------------------------------------------------
// TestGenerateFlags_Request - Flag validation and request building
// ---------------------------------------------------------------------------

func TestGenerateFlags_Request(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		flags    generateFlags
		wantErr  bool
		wantKind leadmagnet.ContentKind
	}{
		{"md file", generateFlags{title: "T", slug: "s", mdFile: "a.md"}, false, leadmagnet.ContentMarkdownFile},
		{"markdown", generateFlags{title: "T", slug: "s", markdown: "# A"}, false, leadmagnet.ContentMarkdownText},
		{"html", generateFlags{title: "T", slug: "s", html: "<p>a</p>"}, false, leadmagnet.ContentHTML},
		{"no source", generateFlags{title: "T", slug: "s"}, true, 0},
		{"two sources", generateFlags{title: "T", slug: "s", markdown: "# A", html: "<p>a</p>"}, true, 0},
		{"missing title", generateFlags{slug: "s", html: "<p>a</p>"}, true, 0},
		{"missing slug", generateFlags{title: "T", html: "<p>a</p>"}, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req, err := tt.flags.request()
			if tt.wantErr {
				if !errors.Is(err, ErrUsage) {
					t.Errorf("request() error = %v, want ErrUsage", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("request() error = %v", err)
			}
			if req.Content.Kind != tt.wantKind {
				t.Errorf("Content.Kind = %v, want %v", req.Content.Kind, tt.wantKind)
			}
		})
	}
}

func TestGenerateFlags_RequestCTA(t *testing.T) {
	t.Parallel()

	gf := generateFlags{title: "T", slug: "s", html: "<p/>", brand: "knowledgehub"}
	req, err := gf.request()
	if err != nil {
		t.Fatal(err)
	}
	if req.SalesCTA != nil {
		t.Errorf("SalesCTA = %+v, want nil without --cta-* flags", req.SalesCTA)
	}
	if req.Brand.Key() != "knowledgehub" {
		t.Errorf("Brand = %v, want knowledgehub", req.Brand)
	}

	gf.cta.text = "Book a demo"
	req, err = gf.request()
	if err != nil {
		t.Fatal(err)
	}
	if req.SalesCTA == nil || req.SalesCTA.ButtonText != "Book a demo" {
		t.Errorf("SalesCTA = %+v, want button text set", req.SalesCTA)
	}
}

// ---------------------------------------------------------------------------
// TestRunGenerate - Output and --html-out
// ---------------------------------------------------------------------------

func TestRunGenerate(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{}
	var out bytes.Buffer
	req := leadmagnet.Request{Title: "Demo", Slug: "demo", Content: leadmagnet.HTML("<p/>")}

	if err := runGenerate(context.Background(), gen, req, "", &out); err != nil {
		t.Fatalf("runGenerate() error = %v", err)
	}
	if gen.composed != 0 {
		t.Error("Compose should not run without --html-out")
	}
	for _, want := range []string{"demo.pdf (2.0 kB, 3 pages)", "URL   /lead-magnets/demo.pdf"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestRunGenerate_HTMLOut(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{}
	htmlPath := filepath.Join(t.TempDir(), "demo.html")
	req := leadmagnet.Request{Title: "Demo", Slug: "demo", Content: leadmagnet.HTML("<p/>")}

	if err := runGenerate(context.Background(), gen, req, htmlPath, &bytes.Buffer{}); err != nil {
		t.Fatalf("runGenerate() error = %v", err)
	}
	data, err := os.ReadFile(htmlPath)
	if err != nil {
		t.Fatalf("reading HTML: %v", err)
	}
	if !strings.Contains(string(data), "Demo") {
		t.Errorf("HTML = %q, want composed document", data)
	}
}

func TestRunGenerate_Error(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{failSlugs: map[string]error{"demo": errBoom}}
	req := leadmagnet.Request{Title: "Demo", Slug: "demo", Content: leadmagnet.HTML("<p/>")}

	err := runGenerate(context.Background(), gen, req, "", &bytes.Buffer{})
	if !errors.Is(err, errBoom) {
		t.Errorf("runGenerate() error = %v, want errBoom", err)
	}
}

// ---------------------------------------------------------------------------
// TestGenerateCmd - End to end with the real generator
// ---------------------------------------------------------------------------

func TestGenerateCmd_Scenario(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	htmlPath := filepath.Join(dir, "demo.html")
	env, stdout, stderr, _ := testEnv()

	code := execute(context.Background(), []string{
		"generate",
		"--title", "Guide & Tips",
		"--desc", "Learn <fast>",
		"--slug", "demo",
		"--brand", "getanswers",
		"--markdown", "# Hi\n- one\n- two",
		"--html-out", htmlPath,
		"-o", dir,
		"--env-file", "",
	}, env)

	if code != ExitSuccess {
		t.Fatalf("exit code = %d, want 0\nstderr: %s", code, stderr.String())
	}
	if _, err := os.Stat(filepath.Join(dir, "demo.pdf")); err != nil {
		t.Errorf("demo.pdf not written: %v", err)
	}
	if !strings.Contains(stdout.String(), "URL   /lead-magnets/demo.pdf") {
		t.Errorf("stdout missing public URL:\n%s", stdout.String())
	}

	html, err := os.ReadFile(htmlPath)
	if err != nil {
		t.Fatalf("reading HTML: %v", err)
	}
	doc := string(html)
	for _, want := range []string{"<h1>Hi</h1>", "<li>one</li>", "Guide &amp; Tips", "Learn &lt;fast&gt;"} {
		if !strings.Contains(doc, want) {
			t.Errorf("composed HTML missing %q", want)
		}
	}
}

func TestGenerateCmd_MissingFileBeforeRender(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	env, _, stderr, r := testEnv()

	code := execute(context.Background(), []string{
		"generate", "--title", "T", "--slug", "t",
		"--md-file", filepath.Join(dir, "nope.md"),
		"-o", dir, "--env-file", "",
	}, env)

	if code != ExitIO {
		t.Errorf("exit code = %d, want %d\nstderr: %s", code, ExitIO, stderr.String())
	}
	if r.Calls() != 0 {
		t.Errorf("renderer called %d times, want 0", r.Calls())
	}
}

func TestGenerateCmd_StrictUnknownBrand(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	env, _, stderr, _ := testEnv()

	code := execute(context.Background(), []string{
		"generate", "--title", "T", "--slug", "t", "--html", "<p/>",
		"--brand", "unknown-co", "--strict-brands",
		"-o", dir, "--env-file", "",
	}, env)

	if code != ExitUsage {
		t.Errorf("exit code = %d, want %d", code, ExitUsage)
	}
	if !strings.Contains(stderr.String(), "known brands: getanswers") {
		t.Errorf("stderr should list known brands:\n%s", stderr.String())
	}
}

func TestGenerateCmd_RenderFailure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	env, _, _, r := testEnv()
	r.err = leadmagnet.ErrBrowserConnect

	code := execute(context.Background(), []string{
		"generate", "--title", "T", "--slug", "t", "--html", "<p/>",
		"-o", dir, "--env-file", "",
	}, env)

	if code != ExitBrowser {
		t.Errorf("exit code = %d, want %d", code, ExitBrowser)
	}
}

func TestGenerateCmd_UsageErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
	}{
		{"no content", []string{"generate", "--title", "T", "--slug", "t"}},
		{"unknown flag", []string{"generate", "--nope"}},
		{"workers out of range", []string{"generate", "--title", "T", "--slug", "t", "--html", "<p/>", "-w", "99"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env, _, _, r := testEnv()
			code := execute(context.Background(), append(tt.args, "--env-file", ""), env)
			if code != ExitUsage {
				t.Errorf("exit code = %d, want %d", code, ExitUsage)
			}
			if r.Calls() != 0 {
				t.Error("renderer should not run on usage errors")
			}
		})
	}
}
