package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/keyrx/keyrx-tray/internal/keyrx"
	"github.com/keyrx/keyrx-tray/internal/state"
)

func newTestOrchestrator(t *testing.T, transport keyrx.Transport) (*Orchestrator, *Poller, *state.Store, *recordingNotifier) {
	t.Helper()
	store := &state.Store{}
	poller := NewPoller(transport, store, time.Second, time.Second)
	notifier := &recordingNotifier{}
	orch := NewOrchestrator(store, transport, poller, notifier, time.Second)
	poller.Poll(context.Background())
	return orch, poller, store, notifier
}

func TestToggleRemapping_Success(t *testing.T) {
	transport := newCountingTransport()
	orch, _, store, notifier := newTestOrchestrator(t, transport)

	if err := orch.ToggleRemapping(context.Background(), false); err != nil {
		t.Fatalf("ToggleRemapping: %v", err)
	}
	if snap := store.Snapshot(); snap.RemappingEnabled || snap.TogglePending {
		t.Fatalf("snapshot = %+v, want disabled with nothing pending", snap)
	}
	outcomes := notifier.all()
	if len(outcomes) != 1 || outcomes[0].Message() != "Remapping disabled" || outcomes[0].Title() != "KeyRx Remapping" {
		t.Fatalf("outcomes = %+v, want one Remapping disabled", outcomes)
	}
}

func TestToggleRemapping_RollsBackOnFailure(t *testing.T) {
	transport := newCountingTransport()
	orch, _, store, notifier := newTestOrchestrator(t, transport)
	transport.FailWrites = true

	err := orch.ToggleRemapping(context.Background(), false)
	if !errors.Is(err, keyrx.ErrCommandFailed) {
		t.Fatalf("err = %v, want ErrCommandFailed", err)
	}
	if snap := store.Snapshot(); !snap.RemappingEnabled || snap.TogglePending {
		t.Fatalf("snapshot = %+v, want enabled restored and nothing pending", snap)
	}
	outcomes := notifier.all()
	if len(outcomes) != 1 || !outcomes[0].Failed() || outcomes[0].Message() != "Failed to toggle remapping" {
		t.Fatalf("outcomes = %+v, want one failure", outcomes)
	}
}

func TestToggleRemapping_RollbackRestoresShownValue(t *testing.T) {
	transport := newCountingTransport()
	orch, _, store, _ := newTestOrchestrator(t, transport)
	transport.FailWrites = true

	// Asking for the value already shown must not flip it on failure.
	_ = orch.ToggleRemapping(context.Background(), true)
	if !store.Snapshot().RemappingEnabled {
		t.Fatalf("RemappingEnabled = false, want the shown value true")
	}
}

func TestSwitchProfile_MockScenario(t *testing.T) {
	transport := newCountingTransport()
	orch, poller, store, notifier := newTestOrchestrator(t, transport)

	var optimistic state.Snapshot
	transport.beforeActivate = func(ctx context.Context, name string) error {
		optimistic = store.Snapshot()
		return nil
	}

	if err := orch.SwitchProfile(context.Background(), "gaming"); err != nil {
		t.Fatalf("SwitchProfile: %v", err)
	}
	if active, _ := keyrx.ActiveProfile(optimistic.Profiles); active != "gaming" || optimistic.PendingProfile != "gaming" {
		t.Fatalf("optimistic snapshot = %+v, want gaming active and pending", optimistic)
	}

	assertActive := func(stage string) {
		t.Helper()
		snap := store.Snapshot()
		if snap.ProfileName != "gaming" {
			t.Fatalf("%s: ProfileName = %q, want gaming", stage, snap.ProfileName)
		}
		for _, p := range snap.Profiles {
			if p.Active != (p.Name == "gaming") {
				t.Fatalf("%s: profiles = %+v, want only gaming active", stage, snap.Profiles)
			}
		}
	}
	assertActive("after ack")

	if !store.Snapshot().ProfilesStale {
		t.Fatalf("ProfilesStale = false, want reload requested after ack")
	}
	poller.Poll(context.Background())
	if got := transport.profileCalls.Load(); got != 2 {
		t.Fatalf("profile calls = %d, want 2 after post-ack refresh", got)
	}
	assertActive("after refresh")

	outcomes := notifier.all()
	if len(outcomes) != 1 || outcomes[0].Message() != "Switched to profile: gaming" || outcomes[0].Title() != "KeyRx Profile" {
		t.Fatalf("outcomes = %+v, want one switch notification", outcomes)
	}
}

func TestSwitchProfile_RollsBackOnFailure(t *testing.T) {
	transport := newCountingTransport()
	orch, _, store, notifier := newTestOrchestrator(t, transport)
	transport.FailWrites = true

	err := orch.SwitchProfile(context.Background(), "gaming")
	if !errors.Is(err, keyrx.ErrCommandFailed) {
		t.Fatalf("err = %v, want ErrCommandFailed", err)
	}
	snap := store.Snapshot()
	if snap.ProfileName != "default" || snap.PendingProfile != "" {
		t.Fatalf("snapshot = %+v, want default restored", snap)
	}
	if active, ok := snap.ActiveProfile(); !ok || active != "default" {
		t.Fatalf("active = %q/%t, want default", active, ok)
	}
	outcomes := notifier.all()
	if len(outcomes) != 1 || outcomes[0].Message() != "Failed to switch to profile: gaming" {
		t.Fatalf("outcomes = %+v, want one failure", outcomes)
	}
}

func TestSwitchProfile_RejectsOverlap(t *testing.T) {
	transport := newCountingTransport()
	orch, _, _, notifier := newTestOrchestrator(t, transport)

	started := make(chan struct{})
	release := make(chan struct{})
	transport.beforeActivate = func(ctx context.Context, name string) error {
		close(started)
		<-release
		return nil
	}

	first := make(chan error, 1)
	go func() { first <- orch.SwitchProfile(context.Background(), "gaming") }()
	<-started

	if err := orch.SwitchProfile(context.Background(), "coding"); !errors.Is(err, ErrCommandPending) {
		t.Fatalf("second SwitchProfile err = %v, want ErrCommandPending", err)
	}
	close(release)
	if err := <-first; err != nil {
		t.Fatalf("first SwitchProfile: %v", err)
	}
	if got := transport.activateCalls.Load(); got != 1 {
		t.Fatalf("activate sends = %d, want exactly 1", got)
	}
	if got := len(notifier.all()); got != 1 {
		t.Fatalf("notifications = %d, want 1 (rejections are not notified)", got)
	}
}

func TestSwitchProfile_RejectsEmptyName(t *testing.T) {
	transport := newCountingTransport()
	orch, _, store, notifier := newTestOrchestrator(t, transport)
	before := store.Snapshot()

	if err := orch.SwitchProfile(context.Background(), "  "); !errors.Is(err, ErrInvalidProfile) {
		t.Fatalf("err = %v, want ErrInvalidProfile", err)
	}
	if transport.activateCalls.Load() != 0 || len(notifier.all()) != 0 {
		t.Fatalf("empty name reached the daemon or notified")
	}
	if after := store.Snapshot(); after.ProfileName != before.ProfileName || after.PendingProfile != "" {
		t.Fatalf("snapshot changed: %+v", after)
	}
}

func TestToggleAndSwitch_RunConcurrently(t *testing.T) {
	transport := newCountingTransport()
	orch, _, store, _ := newTestOrchestrator(t, transport)

	started := make(chan struct{})
	release := make(chan struct{})
	transport.beforeActivate = func(ctx context.Context, name string) error {
		close(started)
		<-release
		return nil
	}
	done := make(chan error, 1)
	go func() { done <- orch.SwitchProfile(context.Background(), "coding") }()
	<-started

	if err := orch.ToggleRemapping(context.Background(), false); err != nil {
		t.Fatalf("toggle while activation pending: %v", err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("SwitchProfile: %v", err)
	}
	snap := store.Snapshot()
	if snap.RemappingEnabled || snap.ProfileName != "coding" {
		t.Fatalf("snapshot = %+v, want disabled and coding", snap)
	}
}

func TestOutcomeText(t *testing.T) {
	failure := errors.New("boom")
	tests := []struct {
		name    string
		outcome Outcome
		title   string
		message string
	}{
		{"enabled", Outcome{Kind: state.KindToggle, Enabled: true}, "KeyRx Remapping", "Remapping enabled"},
		{"disabled", Outcome{Kind: state.KindToggle}, "KeyRx Remapping", "Remapping disabled"},
		{"toggle failed", Outcome{Kind: state.KindToggle, Err: failure}, "KeyRx Error", "Failed to toggle remapping"},
		{"switched", Outcome{Kind: state.KindActivateProfile, Profile: "gaming"}, "KeyRx Profile", "Switched to profile: gaming"},
		{"switch failed", Outcome{Kind: state.KindActivateProfile, Profile: "gaming", Err: failure}, "KeyRx Error", "Failed to switch to profile: gaming"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.outcome.Title(); got != tt.title {
				t.Errorf("Title = %q, want %q", got, tt.title)
			}
			if got := tt.outcome.Message(); got != tt.message {
				t.Errorf("Message = %q, want %q", got, tt.message)
			}
		})
	}
}
