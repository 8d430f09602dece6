package leadmagnet

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/hatlem/getanswers-sub001/internal/process"
)

// Renderer turns a composed HTML document into PDF bytes.
// Implementations must be safe for concurrent use.
type Renderer interface {
	Render(ctx context.Context, html string) ([]byte, error)
	Close() error
}

// Compile-time interface checks.
var (
	_ Renderer = (*RodRenderer)(nil)
	_ Renderer = (*RenderPool)(nil)
)

// Page geometry: US Letter at 96 CSS px per inch.
const (
	paperWidthInches  = 8.5
	paperHeightInches = 11
	viewportWidth     = 816
	viewportHeight    = 1056
	deviceScaleFactor = 2
)

// pdfSession is one browser able to render documents.
type pdfSession interface {
	render(ctx context.Context, html string) ([]byte, error)
	close() error
}

// rodSession owns one Chromium process.
type rodSession struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
}

// launchRodSession starts Chromium, giving up when ctx ends first.
func launchRodSession(ctx context.Context) (pdfSession, error) {
	return launchWithContext(ctx, startRodSession)
}

// launchWithContext runs start and returns early when ctx is done. A
// session that comes up after the caller gave up is closed.
func launchWithContext(ctx context.Context, start func() (pdfSession, error)) (pdfSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	type launched struct {
		s   pdfSession
		err error
	}
	done := make(chan launched, 1)
	go func() {
		s, err := start()
		done <- launched{s, err}
	}()

	select {
	case r := <-done:
		return r.s, r.err
	case <-ctx.Done():
		go func() {
			if r := <-done; r.err == nil {
				_ = r.s.close()
			}
		}()
		return nil, fmt.Errorf("%w: %w", ErrBrowserConnect, ctx.Err())
	}
}

// startRodSession starts Chromium. ROD_BROWSER_BIN selects the binary;
// the sandbox is disabled for ROD_NO_SANDBOX=1, CI or a custom binary.
// Rod downloads Chromium on first run if none is found.
func startRodSession() (pdfSession, error) {
	l := launcher.New()

	bin := os.Getenv("ROD_BROWSER_BIN")
	if bin != "" {
		l = l.Bin(bin)
	}
	if os.Getenv("ROD_NO_SANDBOX") == "1" || os.Getenv("CI") == "true" || bin != "" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		l.Kill()
		l.Cleanup()
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		s := &rodSession{launcher: l}
		_ = s.close()
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	return &rodSession{launcher: l, browser: browser}, nil
}

// render loads html into a blank page and prints it. The document is set
// directly, so nothing is fetched over the network.
func (s *rodSession) render(ctx context.Context, html string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p, err := s.browser.Context(ctx).Page(proto.TargetCreateTarget{})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrPageCreate, ctxErr)
		}
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	// The browser outlives ctx in a pool, so the tab is closed without it.
	defer func() { _ = p.Context(context.Background()).Close() }()

	if err := p.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             viewportWidth,
		Height:            viewportHeight,
		DeviceScaleFactor: deviceScaleFactor,
	}); err != nil {
		return nil, fmt.Errorf("%w: setting viewport: %v", ErrPageCreate, err)
	}

	if err := p.SetDocumentContent(html); err != nil {
		return nil, loadError(ctx, err)
	}
	if err := p.WaitLoad(); err != nil {
		return nil, loadError(ctx, err)
	}

	reader, err := p.PDF(&proto.PagePrintToPDF{
		PaperWidth:        floatPtr(paperWidthInches),
		PaperHeight:       floatPtr(paperHeightInches),
		MarginTop:         floatPtr(0),
		MarginBottom:      floatPtr(0),
		MarginLeft:        floatPtr(0),
		MarginRight:       floatPtr(0),
		PrintBackground:   true,
		PreferCSSPageSize: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}

	pdf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}
	return pdf, nil
}

// loadError keeps the context error visible so callers can tell a timeout
// from a broken page.
func loadError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%w: %w", ErrPageLoad, ctxErr)
	}
	return fmt.Errorf("%w: %v", ErrPageLoad, err)
}

// close shuts the browser down and kills whatever is left of the process
// group.
func (s *rodSession) close() error {
	var err error
	if s.browser != nil {
		err = s.browser.Close()
	}
	if s.launcher != nil {
		pid := s.launcher.PID()
		s.launcher.Kill()
		process.KillProcessGroup(pid)
		s.launcher.Cleanup()
	}
	return err
}

// floatPtr returns a pointer to a float64 value.
func floatPtr(v float64) *float64 {
	return &v
}

// RodRenderer launches a fresh browser for every Render call and shuts it
// down before returning.
type RodRenderer struct {
	launch func(context.Context) (pdfSession, error)
}

// NewRodRenderer creates a per-call renderer.
func NewRodRenderer() *RodRenderer {
	return &RodRenderer{launch: launchRodSession}
}

// Render launches a browser, renders html and closes the browser on every
// path.
func (r *RodRenderer) Render(ctx context.Context, html string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s, err := r.launch(ctx)
	if err != nil {
		return nil, err
	}
	// The PDF is already in memory when close runs; its error is dropped.
	defer func() { _ = s.close() }()
	return s.render(ctx, html)
}

// Close is a no-op: RodRenderer holds no browser between calls.
func (r *RodRenderer) Close() error {
	return nil
}
