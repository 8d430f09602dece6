package leadmagnet

import (
	"context"
	"errors"
	"runtime"
	"sync"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one worker is available.
	MinPoolSize = 1

	// MaxPoolSize caps browser instances to limit memory (~200MB each).
	MaxPoolSize = 8

	// cpuDivisor leaves headroom for Chrome child processes.
	cpuDivisor = 2
)

// ErrPoolClosed is returned by Render after Close.
var ErrPoolClosed = errors.New("render pool closed")

// RenderPool keeps up to n browsers alive between Render calls. Browsers
// are launched on first use, or up front with Warm. A browser whose render
// fails is closed and its slot handed to the next caller.
//
// Capacity is tracked with slot tokens: a caller either takes an idle
// browser or a slot to launch one, so a discarded browser wakes a waiter.
type RenderPool struct {
	size   int
	launch func(context.Context) (pdfSession, error)
	idle   chan pdfSession
	slots  chan struct{}
	done   chan struct{}
	mu     sync.Mutex
	closed bool
}

// NewRenderPool creates a pool with capacity for n browsers.
func NewRenderPool(n int) *RenderPool {
	return newRenderPool(n, launchRodSession)
}

func newRenderPool(n int, launch func(context.Context) (pdfSession, error)) *RenderPool {
	if n < MinPoolSize {
		n = MinPoolSize
	}
	p := &RenderPool{
		size:   n,
		launch: launch,
		idle:   make(chan pdfSession, n),
		slots:  make(chan struct{}, n),
		done:   make(chan struct{}),
	}
	for range n {
		p.slots <- struct{}{}
	}
	return p
}

// Render borrows a browser, renders html and hands the browser back.
func (p *RenderPool) Render(ctx context.Context, html string) ([]byte, error) {
	s, err := p.acquire(ctx)
	if err != nil {
		return nil, err
	}
	pdf, err := s.render(ctx, html)
	p.release(s, err != nil)
	return pdf, err
}

// Warm launches browsers until every free slot is filled, so the first
// renders skip the startup cost. It stops at the first launch error.
func (p *RenderPool) Warm(ctx context.Context) error {
	for {
		select {
		case <-p.slots:
		default:
			return nil
		}
		s, err := p.launchInSlot(ctx)
		if err != nil {
			return err
		}
		p.release(s, false)
	}
}

// acquire prefers an idle browser, then a free slot to launch one, and
// otherwise waits for either. Waiting honors ctx.
func (p *RenderPool) acquire(ctx context.Context) (pdfSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	select {
	case s := <-p.idle:
		return s, nil
	default:
	}

	select {
	case s := <-p.idle:
		return s, nil
	case <-p.slots:
		return p.launchInSlot(ctx)
	case <-p.done:
		return nil, ErrPoolClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// launchInSlot starts a browser for a slot the caller holds. The slot is
// returned when the launch fails or the pool has closed.
func (p *RenderPool) launchInSlot(ctx context.Context) (pdfSession, error) {
	if p.isClosed() {
		p.freeSlot()
		return nil, ErrPoolClosed
	}
	s, err := p.launch(ctx)
	if err != nil {
		p.freeSlot()
		return nil, err
	}
	return s, nil
}

// release returns s to the pool, or closes it and frees its slot when
// broken or the pool is closed. At most size browsers exist, so the send
// to idle never blocks.
func (p *RenderPool) release(s pdfSession, broken bool) {
	p.mu.Lock()
	if p.closed || broken {
		p.mu.Unlock()
		_ = s.close()
		p.freeSlot()
		return
	}
	p.idle <- s
	p.mu.Unlock()
}

func (p *RenderPool) freeSlot() {
	p.slots <- struct{}{}
}

func (p *RenderPool) isClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// Close shuts down idle browsers. Browsers in use are closed when released.
// Returns an aggregated error if several browsers fail to close.
func (p *RenderPool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.done)
	var idle []pdfSession
drain:
	for {
		select {
		case s := <-p.idle:
			idle = append(idle, s)
		default:
			break drain
		}
	}
	p.mu.Unlock()

	var errs []error
	for _, s := range idle {
		if err := s.close(); err != nil {
			errs = append(errs, err)
		}
		p.freeSlot()
	}
	return errors.Join(errs...)
}

// Size returns the pool capacity.
func (p *RenderPool) Size() int {
	return p.size
}

// ResolvePoolSize determines the pool size.
// Priority: explicit workers > GOMAXPROCS-based calculation.
func ResolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}

	// GOMAXPROCS is container-aware once automaxprocs has run.
	n := runtime.GOMAXPROCS(0) / cpuDivisor

	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}
