package tui

import (
	"context"
	"errors"
	"fmt"
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/keyrx/keyrx-tray/internal/app"
	"github.com/keyrx/keyrx-tray/internal/prefs"
	"github.com/keyrx/keyrx-tray/internal/state"
)

const eventBuffer = 8

// Ensure Presenter implements app.Presenter at compile time.
var _ app.Presenter = (*Presenter)(nil)

// Presenter forwards engine output into a running bubbletea program.
type Presenter struct {
	program *tea.Program
	events  chan app.Event
}

// Render sends snap to the view.
func (p *Presenter) Render(snap state.Snapshot) {
	p.program.Send(snapshotMsg{snap: snap})
}

// Events delivers key presses as user intents.
func (p *Presenter) Events() <-chan app.Event {
	return p.events
}

// Notify shows o in the view's message line.
func (p *Presenter) Notify(o app.Outcome) {
	p.program.Send(outcomeMsg{outcome: o})
}

// Run shows the terminal view and serves engine until ctx is cancelled or
// the user quits. A theme picked in the view is saved to prefsPath.
func Run(ctx context.Context, engine *app.Engine, live *prefs.Live, prefsPath string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if live == nil {
		live = prefs.NewLive(prefs.Defaults())
	}
	events := make(chan app.Event, eventBuffer)
	model := NewModel(events, live.Get())
	model.onTheme = func(name string) {
		p := live.Get()
		p.Theme = name
		live.Set(p)
		if err := prefs.Save(prefsPath, p); err != nil {
			log.Printf("save preferences: %v", err)
		}
	}

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	presenter := &Presenter{program: program, events: events}

	updates := live.Subscribe()
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case p := <-updates:
				program.Send(prefsMsg{prefs: p})
			}
		}
	}()

	done := make(chan error, 1)
	go func() {
		done <- engine.Run(ctx, presenter)
		program.Quit()
	}()

	_, err := program.Run()
	cancel()
	engineErr := <-done
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run terminal view: %w", err)
	}
	return engineErr
}
