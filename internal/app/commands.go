package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/keyrx/keyrx-tray/internal/keyrx"
	"github.com/keyrx/keyrx-tray/internal/state"
)

var (
	// ErrCommandPending rejects a command while one of the same kind is in
	// flight.
	ErrCommandPending = state.ErrCommandPending
	// ErrInvalidProfile rejects an empty profile name.
	ErrInvalidProfile = errors.New("invalid profile name")
)

// Outcome describes how a user command resolved.
type Outcome struct {
	Kind    state.Kind
	Enabled bool   // desired value for a toggle
	Profile string // target of a profile activation
	Err     error
}

// Failed reports whether the daemon rejected the command.
func (o Outcome) Failed() bool {
	return o.Err != nil
}

// Title returns the notification heading.
func (o Outcome) Title() string {
	if o.Failed() {
		return "KeyRx Error"
	}
	if o.Kind == state.KindActivateProfile {
		return "KeyRx Profile"
	}
	return "KeyRx Remapping"
}

// Message returns the notification body.
func (o Outcome) Message() string {
	switch o.Kind {
	case state.KindActivateProfile:
		if o.Failed() {
			return "Failed to switch to profile: " + o.Profile
		}
		return "Switched to profile: " + o.Profile
	default:
		if o.Failed() {
			return "Failed to toggle remapping"
		}
		if o.Enabled {
			return "Remapping enabled"
		}
		return "Remapping disabled"
	}
}

// Notifier receives one Outcome per resolved command.
type Notifier interface {
	Notify(Outcome)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Outcome)

// Notify calls f(o).
func (f NotifierFunc) Notify(o Outcome) {
	f(o)
}

// ProfileRefresher reloads the profile list after an acknowledged switch.
type ProfileRefresher interface {
	RequestProfileRefresh()
}

// Orchestrator applies user commands optimistically and reconciles them with
// the daemon's response.
type Orchestrator struct {
	store     *state.Store
	transport keyrx.Transport
	refresher ProfileRefresher
	notifier  Notifier
	timeout   time.Duration
	logger    *log.Logger
}

// NewOrchestrator builds an Orchestrator. refresher and notifier may be nil.
func NewOrchestrator(store *state.Store, transport keyrx.Transport, refresher ProfileRefresher, notifier Notifier, timeout time.Duration) *Orchestrator {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &Orchestrator{
		store:     store,
		transport: transport,
		refresher: refresher,
		notifier:  notifier,
		timeout:   timeout,
		logger:    log.Default(),
	}
}

// ToggleRemapping shows desired immediately and asks the daemon to apply it.
// On failure the previously shown value is restored.
func (o *Orchestrator) ToggleRemapping(ctx context.Context, desired bool) error {
	if _, err := o.store.BeginToggle(desired); err != nil {
		o.logger.Printf("toggle remapping rejected: %v", err)
		return err
	}

	sendCtx, cancel := context.WithTimeout(ctx, o.timeout)
	err := o.transport.SendToggle(sendCtx, desired)
	cancel()

	outcome := Outcome{Kind: state.KindToggle, Enabled: desired}
	if err != nil {
		o.store.RollbackToggle()
		o.logger.Printf("toggle remapping to %t failed: %v", desired, err)
		outcome.Err = fmt.Errorf("toggle remapping: %w", err)
		o.notify(outcome)
		return outcome.Err
	}
	o.store.CompleteToggle()
	o.notify(outcome)
	return nil
}

// SwitchProfile marks name active immediately and asks the daemon to
// activate it. On success the profile list is reloaded from the daemon; on
// failure the previous active profile is restored.
func (o *Orchestrator) SwitchProfile(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		o.logger.Printf("switch profile rejected: %v", ErrInvalidProfile)
		return ErrInvalidProfile
	}
	if _, err := o.store.BeginActivate(name); err != nil {
		o.logger.Printf("switch profile to %q rejected: %v", name, err)
		return err
	}

	sendCtx, cancel := context.WithTimeout(ctx, o.timeout)
	err := o.transport.SendActivateProfile(sendCtx, name)
	cancel()

	outcome := Outcome{Kind: state.KindActivateProfile, Profile: name}
	if err != nil {
		o.store.RollbackActivate()
		o.logger.Printf("switch profile to %q failed: %v", name, err)
		outcome.Err = fmt.Errorf("switch profile %q: %w", name, err)
		o.notify(outcome)
		return outcome.Err
	}
	o.store.CompleteActivate()
	if o.refresher != nil {
		o.refresher.RequestProfileRefresh()
	}
	o.notify(outcome)
	return nil
}

func (o *Orchestrator) notify(outcome Outcome) {
	if o.notifier != nil {
		o.notifier.Notify(outcome)
	}
}
