package app

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/keyrx/keyrx-tray/internal/config"
	"github.com/keyrx/keyrx-tray/internal/keyrx"
	"github.com/keyrx/keyrx-tray/internal/state"
)

// StartDaemonHint is logged with the unreachable warning.
const StartDaemonHint = "Start daemon with: sudo systemctl start keyrx"

const outcomeBuffer = 16

// Presenter is a user-facing surface: the tray menu or the terminal view.
type Presenter interface {
	// Render shows snap. Repeated calls with an equal snapshot leave the
	// visible state unchanged.
	Render(snap state.Snapshot)
	// Events delivers user intents. A closed channel ends the run.
	Events() <-chan Event
	// Notify reports a resolved command to the user.
	Notify(o Outcome)
}

// Engine wires the store, the poller and the orchestrator together and
// drives a Presenter.
type Engine struct {
	Config       config.Config
	Store        *state.Store
	Poller       *Poller
	Orchestrator *Orchestrator

	// OpenURL opens a URL in the user's browser.
	OpenURL func(string) error

	outcomes chan Outcome
	logger   *log.Logger
	commands sync.WaitGroup
}

// NewTransport returns the mock daemon in mock mode and an HTTP client
// otherwise.
func NewTransport(cfg config.Config) (keyrx.Transport, error) {
	if cfg.MockMode {
		return keyrx.NewMock(), nil
	}
	client, err := keyrx.NewClient(cfg.APIBaseURL, cfg.RequestTimeout)
	if err != nil {
		return nil, fmt.Errorf("init keyrx client: %w", err)
	}
	return client, nil
}

// New builds an Engine around transport.
func New(cfg config.Config, transport keyrx.Transport) *Engine {
	e := &Engine{
		Config:   cfg,
		Store:    &state.Store{},
		OpenURL:  OpenBrowser,
		outcomes: make(chan Outcome, outcomeBuffer),
		logger:   log.Default(),
	}
	e.Poller = NewPoller(transport, e.Store, cfg.PollInterval, cfg.RequestTimeout)
	if !cfg.MockMode {
		e.Poller.SetUnreachableHint(StartDaemonHint)
	}
	e.Orchestrator = NewOrchestrator(e.Store, transport, e.Poller, NotifierFunc(e.deliver), cfg.RequestTimeout)
	return e
}

// Run starts polling and serves p until ctx is cancelled, p requests quit or
// p closes its event channel. Commands still in flight are cancelled.
func (e *Engine) Run(ctx context.Context, p Presenter) error {
	ctx, cancel := context.WithCancel(ctx)
	defer func() {
		cancel()
		e.commands.Wait()
	}()

	changes := e.Store.Changes()
	events := p.Events()
	e.Poller.Start(ctx)
	p.Render(e.Store.Snapshot())

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-changes:
			p.Render(e.Store.Snapshot())
		case o := <-e.outcomes:
			p.Notify(o)
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if quit := e.handle(ctx, ev); quit {
				return nil
			}
		}
	}
}

func (e *Engine) handle(ctx context.Context, ev Event) bool {
	switch ev := ev.(type) {
	case ToggleRequested:
		e.spawn(func() { _ = e.Orchestrator.ToggleRemapping(ctx, ev.Enabled) })
	case ProfileSelected:
		e.spawn(func() { _ = e.Orchestrator.SwitchProfile(ctx, ev.Name) })
	case RefreshProfilesRequested:
		e.Poller.RequestProfileRefresh()
	case OpenWebUIRequested:
		e.open(WebUIURL(e.Config, ev.Path))
	case SettingsRequested:
		e.open(e.Config.SettingsURL())
	case QuitRequested:
		return true
	default:
		e.logger.Printf("unhandled event %T", ev)
	}
	return false
}

func (e *Engine) open(target string) {
	if err := e.OpenURL(target); err != nil {
		e.logger.Printf("open %s: %v", target, err)
	}
}

func (e *Engine) spawn(fn func()) {
	e.commands.Add(1)
	go func() {
		defer e.commands.Done()
		fn()
	}()
}

func (e *Engine) deliver(o Outcome) {
	select {
	case e.outcomes <- o:
	default:
		e.logger.Printf("dropping notification %q: queue full", o.Message())
	}
}

// WebUIURL joins the configured web UI address and path.
func WebUIURL(cfg config.Config, path string) string {
	base := strings.TrimRight(cfg.WebUIURL, "/")
	if path == "" {
		return base
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}
