package leadmagnet

// Notes:
// - Pool behavior is tested with fakeSession; no browser is launched
// - Concurrency tests rely on the pool never exceeding its size

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func countingLauncher(sessions *[]*fakeSession, mu *sync.Mutex, err error) func(context.Context) (pdfSession, error) {
	var n int
	return func(context.Context) (pdfSession, error) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			return nil, err
		}
		n++
		s := &fakeSession{id: n}
		*sessions = append(*sessions, s)
		return s, nil
	}
}

func TestRenderPool_ReusesBrowser(t *testing.T) {
	t.Parallel()

	var (
		mu       sync.Mutex
		sessions []*fakeSession
	)
	p := newRenderPool(2, countingLauncher(&sessions, &mu, nil))
	defer p.Close()

	for i := 0; i < 3; i++ {
		if _, err := p.Render(context.Background(), "<html>"); err != nil {
			t.Fatalf("Render() error = %v", err)
		}
	}

	mu.Lock()
	defer mu.Unlock()
	if len(sessions) != 1 {
		t.Errorf("launched %d browsers for sequential renders, want 1", len(sessions))
	}
}

func TestRenderPool_BoundedConcurrency(t *testing.T) {
	t.Parallel()

	var (
		mu       sync.Mutex
		sessions []*fakeSession
	)
	p := newRenderPool(2, countingLauncher(&sessions, &mu, nil))
	defer p.Close()

	var wg sync.WaitGroup
	var failures atomic.Int32
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := p.Render(context.Background(), "<html>"); err != nil {
				failures.Add(1)
			}
		}()
	}
	wg.Wait()

	if failures.Load() != 0 {
		t.Errorf("%d renders failed", failures.Load())
	}
	mu.Lock()
	defer mu.Unlock()
	if len(sessions) > 2 {
		t.Errorf("launched %d browsers, want at most 2", len(sessions))
	}
}

func TestRenderPool_DiscardsBrokenBrowser(t *testing.T) {
	t.Parallel()

	broken := &fakeSession{id: 1, err: ErrPDFGeneration}
	healthy := &fakeSession{id: 2}
	queue := []*fakeSession{broken, healthy}
	var mu sync.Mutex
	p := newRenderPool(1, func(context.Context) (pdfSession, error) {
		mu.Lock()
		defer mu.Unlock()
		s := queue[0]
		queue = queue[1:]
		return s, nil
	})
	defer p.Close()

	if _, err := p.Render(context.Background(), "x"); !errors.Is(err, ErrPDFGeneration) {
		t.Fatalf("first Render() error = %v, want ErrPDFGeneration", err)
	}
	if !broken.isClosed() {
		t.Error("broken browser not closed")
	}
	if _, err := p.Render(context.Background(), "x"); err != nil {
		t.Fatalf("second Render() error = %v", err)
	}
}

func TestRenderPool_BrokenReleaseWakesWaiter(t *testing.T) {
	t.Parallel()

	var (
		mu       sync.Mutex
		sessions []*fakeSession
	)
	p := newRenderPool(1, countingLauncher(&sessions, &mu, nil))
	defer p.Close()

	held, err := p.acquire(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	result := make(chan error, 1)
	go func() {
		_, err := p.Render(ctx, "x")
		result <- err
	}()

	time.Sleep(20 * time.Millisecond)
	p.release(held, true)

	if err := <-result; err != nil {
		t.Fatalf("waiting Render() error = %v, want a replacement browser", err)
	}
	if !held.(*fakeSession).isClosed() {
		t.Error("discarded browser not closed")
	}
	mu.Lock()
	defer mu.Unlock()
	if len(sessions) != 2 {
		t.Errorf("launched %d browsers, want 2", len(sessions))
	}
}

func TestRenderPool_Warm(t *testing.T) {
	t.Parallel()

	var (
		mu       sync.Mutex
		sessions []*fakeSession
	)
	p := newRenderPool(3, countingLauncher(&sessions, &mu, nil))
	defer p.Close()

	if err := p.Warm(context.Background()); err != nil {
		t.Fatalf("Warm() error = %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := p.Render(context.Background(), "x"); err != nil {
			t.Fatalf("Render() error = %v", err)
		}
	}
	if err := p.Warm(context.Background()); err != nil {
		t.Fatalf("second Warm() error = %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(sessions) != 3 {
		t.Errorf("launched %d browsers, want 3", len(sessions))
	}
}

func TestRenderPool_WarmLaunchFailure(t *testing.T) {
	t.Parallel()

	var (
		mu       sync.Mutex
		sessions []*fakeSession
	)
	p := newRenderPool(2, countingLauncher(&sessions, &mu, ErrBrowserConnect))
	defer p.Close()

	if err := p.Warm(context.Background()); !errors.Is(err, ErrBrowserConnect) {
		t.Fatalf("Warm() error = %v, want ErrBrowserConnect", err)
	}
	// The failed slot is free again: the pool still has full capacity.
	if got := len(p.slots); got != 2 {
		t.Errorf("free slots = %d, want 2", got)
	}
}

func TestLaunchWithContext_GivesUp(t *testing.T) {
	t.Parallel()

	unblock := make(chan struct{})
	late := &fakeSession{id: 1}
	start := func() (pdfSession, error) {
		<-unblock
		return late, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := launchWithContext(ctx, start)
	if !errors.Is(err, ErrBrowserConnect) || !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("launchWithContext() error = %v, want ErrBrowserConnect and DeadlineExceeded", err)
	}

	close(unblock)
	deadline := time.Now().Add(2 * time.Second)
	for !late.isClosed() {
		if time.Now().After(deadline) {
			t.Fatal("session started after the deadline was not closed")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestRodRenderer_LaunchHonorsContext(t *testing.T) {
	t.Parallel()

	var got context.Context
	r := &RodRenderer{launch: func(ctx context.Context) (pdfSession, error) {
		got = ctx
		return &fakeSession{}, nil
	}}

	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "render")
	if _, err := r.Render(ctx, "x"); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if got != ctx {
		t.Error("launch did not receive the render context")
	}
}

func TestRenderPool_LaunchFailure(t *testing.T) {
	t.Parallel()

	var (
		mu       sync.Mutex
		sessions []*fakeSession
	)
	p := newRenderPool(1, countingLauncher(&sessions, &mu, ErrBrowserConnect))
	defer p.Close()

	for i := 0; i < 2; i++ {
		if _, err := p.Render(context.Background(), "x"); !errors.Is(err, ErrBrowserConnect) {
			t.Errorf("Render() error = %v, want ErrBrowserConnect", err)
		}
	}
}

func TestRenderPool_AcquireHonorsContext(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	p := newRenderPool(1, func(context.Context) (pdfSession, error) {
		return &fakeSession{}, nil
	})
	defer p.Close()

	// Hold the only browser.
	s, err := p.acquire(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	go func() {
		<-release
		p.release(s, false)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := p.Render(ctx, "x"); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Render() error = %v, want context.DeadlineExceeded", err)
	}
	close(release)
}

func TestRenderPool_Close(t *testing.T) {
	t.Parallel()

	var (
		mu       sync.Mutex
		sessions []*fakeSession
	)
	p := newRenderPool(2, countingLauncher(&sessions, &mu, nil))

	if _, err := p.Render(context.Background(), "x"); err != nil {
		t.Fatal(err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}

	mu.Lock()
	for _, s := range sessions {
		if !s.isClosed() {
			t.Errorf("session %d not closed", s.id)
		}
	}
	mu.Unlock()

	if _, err := p.Render(context.Background(), "x"); !errors.Is(err, ErrPoolClosed) {
		t.Errorf("Render() after Close error = %v, want ErrPoolClosed", err)
	}
}

func TestNewRenderPool_MinimumSize(t *testing.T) {
	t.Parallel()

	if got := NewRenderPool(0).Size(); got != MinPoolSize {
		t.Errorf("Size() = %d, want %d", got, MinPoolSize)
	}
}

func TestResolvePoolSize(t *testing.T) {
	t.Parallel()

	if got := ResolvePoolSize(5); got != 5 {
		t.Errorf("ResolvePoolSize(5) = %d, want 5", got)
	}
	got := ResolvePoolSize(0)
	if got < MinPoolSize || got > MaxPoolSize {
		t.Errorf("ResolvePoolSize(0) = %d, want within [%d, %d]", got, MinPoolSize, MaxPoolSize)
	}
}
