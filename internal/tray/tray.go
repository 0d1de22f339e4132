package tray

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/gen2brain/beeep"
	"github.com/getlantern/systray"

	"github.com/keyrx/keyrx-tray/internal/app"
	"github.com/keyrx/keyrx-tray/internal/buildinfo"
	"github.com/keyrx/keyrx-tray/internal/prefs"
	"github.com/keyrx/keyrx-tray/internal/state"
)

const eventBuffer = 8

// Ensure Tray implements app.Presenter at compile time.
var _ app.Presenter = (*Tray)(nil)

type click int

const (
	clickToggle click = iota
	clickRefresh
	clickOpenWebUI
	clickSettings
	clickAbout
	clickQuit
	clickSlot
)

// Tray presents the daemon state as a system tray icon and menu.
type Tray struct {
	prefs  *prefs.Live
	events chan app.Event
	notify func(title, message string) error

	mu      sync.Mutex
	menu    Menu
	binding *binding
}

// New returns a tray presenter that reads notification preferences from
// live. Menu items are attached once the system tray is ready.
func New(live *prefs.Live) *Tray {
	if live == nil {
		live = prefs.NewLive(prefs.Defaults())
	}
	return &Tray{
		prefs:  live,
		events: make(chan app.Event, eventBuffer),
		notify: func(title, message string) error {
			return beeep.Notify(title, message, "")
		},
		binding: &binding{},
	}
}

// Render applies the menu derived from snap. Items whose state did not change
// are left untouched.
func (t *Tray) Render(snap state.Snapshot) {
	m := BuildMenu(snap)
	t.mu.Lock()
	defer t.mu.Unlock()
	t.menu = m
	t.binding.apply(m)
}

// Events delivers menu clicks as user intents.
func (t *Tray) Events() <-chan app.Event {
	return t.events
}

// Notify shows a desktop notification when notifications are enabled.
func (t *Tray) Notify(o app.Outcome) {
	if !t.prefs.Get().Notifications {
		return
	}
	if err := t.notify(o.Title(), o.Message()); err != nil {
		log.Printf("notification failed: %v", err)
	}
}

func (t *Tray) clicked(ctx context.Context, c click, slot int) {
	var ev app.Event
	switch c {
	case clickToggle:
		t.mu.Lock()
		disabled, checked := t.menu.Toggle.Disabled, t.menu.Toggle.Checked
		t.mu.Unlock()
		if disabled {
			return
		}
		ev = app.ToggleRequested{Enabled: !checked}
	case clickSlot:
		t.mu.Lock()
		item := t.menu.Slots[slot]
		t.mu.Unlock()
		if item.Hidden || item.Disabled || item.Name == "" {
			return
		}
		if item.Checked {
			// The toolkit unchecked the active entry on click; put the mark back.
			t.mu.Lock()
			t.binding.reassertSlot(slot)
			t.mu.Unlock()
			return
		}
		ev = app.ProfileSelected{Name: item.Name}
	case clickRefresh:
		ev = app.RefreshProfilesRequested{}
	case clickOpenWebUI:
		ev = app.OpenWebUIRequested{}
	case clickSettings:
		ev = app.SettingsRequested{}
	case clickAbout:
		if err := t.notify("About KeyRx", aboutText()); err != nil {
			log.Printf("notification failed: %v", err)
		}
		return
	case clickQuit:
		ev = app.QuitRequested{}
	default:
		return
	}

	select {
	case t.events <- ev:
	case <-ctx.Done():
	}
}

func aboutText() string {
	return fmt.Sprintf("KeyRx tray %s\nAdvanced keyboard remapping with layers and tap-hold", buildinfo.Version)
}

// Run shows the tray and serves engine until ctx is cancelled or the user
// quits. It must be called from the main goroutine.
func Run(ctx context.Context, engine *app.Engine, live *prefs.Live) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	t := New(live)
	done := make(chan error, 1)
	var started atomic.Bool

	onReady := func() {
		started.Store(true)
		items := buildSystrayMenu()
		t.mu.Lock()
		t.binding = newBinding(&items.menuItems)
		t.mu.Unlock()
		items.watch(ctx, t)
		go func() {
			done <- engine.Run(ctx, t)
			systray.Quit()
		}()
	}
	go func() {
		<-ctx.Done()
		systray.Quit()
	}()

	systray.Run(onReady, func() { log.Printf("tray exiting") })
	cancel()
	if started.Load() {
		return <-done
	}
	return nil
}
