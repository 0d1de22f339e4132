package app

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/keyrx/keyrx-tray/internal/keyrx"
	"github.com/keyrx/keyrx-tray/internal/state"
)

const (
	defaultPollInterval   = 5 * time.Second
	defaultRequestTimeout = 2 * time.Second
)

// Poller refreshes the store from the daemon at a fixed cadence. Polls never
// overlap: a tick that fires while a poll is outstanding is skipped.
type Poller struct {
	transport keyrx.Transport
	store     *state.Store
	interval  time.Duration
	timeout   time.Duration
	clock     Clock
	logger    *log.Logger
	hint      string

	kick     chan struct{}
	inFlight atomic.Bool
	queued   atomic.Bool // refresh requested while a poll was outstanding
	skipped  atomic.Int64
	wg       sync.WaitGroup

	mu                sync.Mutex
	reachabilityKnown bool
	lastReachable     bool
	profileErrLogged  bool
}

// NewPoller builds a Poller. Non-positive durations use the defaults.
func NewPoller(transport keyrx.Transport, store *state.Store, interval, timeout time.Duration) *Poller {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &Poller{
		transport: transport,
		store:     store,
		interval:  interval,
		timeout:   timeout,
		clock:     realClock{},
		logger:    log.Default(),
		kick:      make(chan struct{}, 1),
	}
}

// SetUnreachableHint sets the advice appended to the unreachable warning.
func (p *Poller) SetUnreachableHint(hint string) {
	p.hint = hint
}

// Run polls immediately, then on every tick and every refresh request, until
// ctx is cancelled. Polls run on their own goroutine so a slow daemon never
// delays the schedule; outstanding polls are abandoned at shutdown.
func (p *Poller) Run(ctx context.Context) {
	ticker := p.clock.NewTicker(p.interval)
	defer ticker.Stop()

	p.dispatch(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			p.dispatch(ctx)
		case <-p.kick:
			if !p.dispatch(ctx) {
				p.queue(ctx)
			}
		}
	}
}

// Start launches Run on a background goroutine. It returns immediately.
func (p *Poller) Start(ctx context.Context) {
	go p.Run(ctx)
}

// RequestProfileRefresh makes the next poll reload the profile list and
// triggers that poll now. When a poll is outstanding, another one follows as
// soon as it finishes.
func (p *Poller) RequestProfileRefresh() {
	p.store.MarkProfilesStale()
	select {
	case p.kick <- struct{}{}:
	default:
	}
}

// Skipped reports how many polls were dropped because one was outstanding.
func (p *Poller) Skipped() int64 {
	return p.skipped.Load()
}

// Wait blocks until dispatched polls have finished.
func (p *Poller) Wait() {
	p.wg.Wait()
}

func (p *Poller) dispatch(ctx context.Context) bool {
	if !p.inFlight.CompareAndSwap(false, true) {
		p.skipped.Add(1)
		return false
	}
	p.queued.Store(false)
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.poll(ctx)
		p.inFlight.Store(false)
		p.drainQueued(ctx)
	}()
	return true
}

// queue records a refresh that could not start. The outstanding poll may
// have finished in the meantime, so the queue is drained here as well.
func (p *Poller) queue(ctx context.Context) {
	p.queued.Store(true)
	p.drainQueued(ctx)
}

func (p *Poller) drainQueued(ctx context.Context) {
	if ctx.Err() != nil || p.inFlight.Load() {
		return
	}
	if p.queued.CompareAndSwap(true, false) {
		p.dispatch(ctx)
	}
}

// Poll performs one refresh on the caller's goroutine. It returns false
// without touching the daemon when another poll is outstanding.
func (p *Poller) Poll(ctx context.Context) bool {
	if !p.inFlight.CompareAndSwap(false, true) {
		p.skipped.Add(1)
		return false
	}
	defer p.inFlight.Store(false)
	p.poll(ctx)
	return true
}

func (p *Poller) poll(ctx context.Context) {
	tok := p.store.BeginPoll()

	statusCtx, cancel := context.WithTimeout(ctx, p.timeout)
	status, err := p.transport.FetchStatus(statusCtx)
	cancel()
	if err != nil {
		p.store.MarkUnreachable(err)
		p.noteReachability(false, err)
		return
	}

	var profiles []keyrx.Profile
	fetched := false
	if tok.WantsProfiles {
		profilesCtx, cancel := context.WithTimeout(ctx, p.timeout)
		profiles, err = p.transport.FetchProfiles(profilesCtx)
		cancel()
		p.noteProfileFetch(err)
		fetched = err == nil
	}

	p.store.ApplyStatus(tok, status, profiles, fetched)
	p.noteReachability(true, nil)
}

// noteReachability logs transitions only, so a daemon that stays down is
// reported once rather than on every tick.
func (p *Poller) noteReachability(ok bool, err error) {
	p.mu.Lock()
	known, prev := p.reachabilityKnown, p.lastReachable
	p.reachabilityKnown = true
	p.lastReachable = ok
	p.mu.Unlock()

	switch {
	case !ok && (!known || prev):
		p.logger.Printf("Warning: KeyRx daemon is not reachable: %v", err)
		if p.hint != "" {
			p.logger.Printf("%s", p.hint)
		}
	case ok && known && !prev:
		p.logger.Printf("KeyRx daemon is reachable again")
	}
}

func (p *Poller) noteProfileFetch(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err == nil {
		p.profileErrLogged = false
		return
	}
	if !p.profileErrLogged {
		p.logger.Printf("profile refresh failed: %v", err)
		p.profileErrLogged = true
	}
}
