package app

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/keyrx/keyrx-tray/internal/keyrx"
	"github.com/keyrx/keyrx-tray/internal/state"
)

// countingTransport wraps a mock daemon and counts calls. Hooks run before
// the mock is consulted and may block.
type countingTransport struct {
	*keyrx.Mock

	statusCalls   atomic.Int32
	profileCalls  atomic.Int32
	toggleCalls   atomic.Int32
	activateCalls atomic.Int32

	beforeStatus   func(ctx context.Context) error
	beforeActivate func(ctx context.Context, name string) error
}

func newCountingTransport() *countingTransport {
	return &countingTransport{Mock: keyrx.NewMock()}
}

func (c *countingTransport) FetchStatus(ctx context.Context) (keyrx.StatusResponse, error) {
	c.statusCalls.Add(1)
	if c.beforeStatus != nil {
		if err := c.beforeStatus(ctx); err != nil {
			return keyrx.StatusResponse{}, err
		}
	}
	return c.Mock.FetchStatus(ctx)
}

func (c *countingTransport) FetchProfiles(ctx context.Context) ([]keyrx.Profile, error) {
	c.profileCalls.Add(1)
	return c.Mock.FetchProfiles(ctx)
}

func (c *countingTransport) SendToggle(ctx context.Context, enabled bool) error {
	c.toggleCalls.Add(1)
	return c.Mock.SendToggle(ctx, enabled)
}

func (c *countingTransport) SendActivateProfile(ctx context.Context, name string) error {
	c.activateCalls.Add(1)
	if c.beforeActivate != nil {
		if err := c.beforeActivate(ctx, name); err != nil {
			return err
		}
	}
	return c.Mock.SendActivateProfile(ctx, name)
}

type manualClock struct {
	now  time.Time
	tick chan time.Time
}

func newManualClock() *manualClock {
	return &manualClock{
		now:  time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		tick: make(chan time.Time),
	}
}

func (m *manualClock) Now() time.Time { return m.now }

func (m *manualClock) NewTicker(time.Duration) Ticker { return manualTicker{m.tick} }

type manualTicker struct{ c chan time.Time }

func (t manualTicker) C() <-chan time.Time { return t.c }
func (t manualTicker) Stop()               {}

type recordingNotifier struct {
	mu       sync.Mutex
	outcomes []Outcome
}

func (r *recordingNotifier) Notify(o Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, o)
}

func (r *recordingNotifier) all() []Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Outcome(nil), r.outcomes...)
}

type fakePresenter struct {
	events chan Event

	mu       sync.Mutex
	renders  []state.Snapshot
	notified []Outcome
}

func newFakePresenter() *fakePresenter {
	return &fakePresenter{events: make(chan Event)}
}

func (f *fakePresenter) Render(snap state.Snapshot) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.renders = append(f.renders, snap)
}

func (f *fakePresenter) Events() <-chan Event { return f.events }

func (f *fakePresenter) Notify(o Outcome) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notified = append(f.notified, o)
}

func (f *fakePresenter) last() (state.Snapshot, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.renders) == 0 {
		return state.Snapshot{}, false
	}
	return f.renders[len(f.renders)-1], true
}

func (f *fakePresenter) notifications() []Outcome {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Outcome(nil), f.notified...)
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}
