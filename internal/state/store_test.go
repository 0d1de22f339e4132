package state

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/keyrx/keyrx-tray/internal/keyrx"
)

func threeProfiles() []keyrx.Profile {
	return []keyrx.Profile{{Name: "default", Active: true}, {Name: "gaming"}, {Name: "coding"}}
}

func reachableStore(t *testing.T) *Store {
	t.Helper()
	var s Store
	tok := s.BeginPoll()
	s.ApplyStatus(tok, keyrx.StatusResponse{Running: true, Profile: "default", RemappingEnabled: true}, threeProfiles(), true)
	return &s
}

func TestStore_ZeroValueIsUnreachable(t *testing.T) {
	var s Store
	snap := s.Snapshot()
	if snap.Reachable || snap.HasStatus || snap.HasProfile {
		t.Fatalf("zero snapshot = %#v, want unreachable and empty", snap)
	}
	if !snap.ProfilesStale {
		t.Fatalf("ProfilesStale = false, want true before first load")
	}
	if tok := s.BeginPoll(); !tok.WantsProfiles {
		t.Fatalf("first poll token does not want profiles")
	}
}

func TestStore_ApplyStatusAndSnapshotClone(t *testing.T) {
	var s Store
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s.Now = func() time.Time { return fixed }

	tok := s.BeginPoll()
	s.ApplyStatus(tok, keyrx.StatusResponse{Running: true, Version: "0.1.0", Profile: "default", RemappingEnabled: true}, threeProfiles(), true)

	snap := s.Snapshot()
	if !snap.Reachable || !snap.HasStatus || !snap.Running || snap.Version != "0.1.0" {
		t.Fatalf("snapshot = %#v, want reachable running 0.1.0", snap)
	}
	if !snap.HasProfile || snap.ProfileName != "default" || !snap.RemappingEnabled {
		t.Fatalf("snapshot = %#v, want default enabled", snap)
	}
	if !reflect.DeepEqual(snap.Profiles, threeProfiles()) {
		t.Fatalf("profiles = %#v, want %#v", snap.Profiles, threeProfiles())
	}
	if snap.ProfilesStale {
		t.Fatalf("ProfilesStale = true after profile load")
	}
	if !snap.LastUpdated.Equal(fixed) || !snap.LastChecked.Equal(fixed) {
		t.Fatalf("timestamps = %v/%v, want %v", snap.LastUpdated, snap.LastChecked, fixed)
	}

	snap.Profiles[0].Name = "mutated"
	if again := s.Snapshot(); again.Profiles[0].Name != "default" {
		t.Fatalf("Snapshot should clone profiles; got %q", again.Profiles[0].Name)
	}
	if tok := s.BeginPoll(); tok.WantsProfiles {
		t.Fatalf("poll after load still wants profiles")
	}
}

func TestStore_ApplyStatusWithoutProfilesKeepsList(t *testing.T) {
	s := reachableStore(t)

	tok := s.BeginPoll()
	s.ApplyStatus(tok, keyrx.StatusResponse{Running: true, Profile: "default", RemappingEnabled: false}, nil, false)

	snap := s.Snapshot()
	if snap.RemappingEnabled {
		t.Fatalf("RemappingEnabled = true, want false from status")
	}
	if len(snap.Profiles) != 3 {
		t.Fatalf("profiles = %#v, want previous list kept", snap.Profiles)
	}
}

func TestStore_ProfileChangedElsewhereReloadsList(t *testing.T) {
	s := reachableStore(t)

	tok := s.BeginPoll()
	s.ApplyStatus(tok, keyrx.StatusResponse{Running: true, Profile: "coding", RemappingEnabled: true}, nil, false)

	snap := s.Snapshot()
	if snap.ProfileName != "coding" || !snap.ProfilesStale {
		t.Fatalf("snapshot = %#v, want coding with stale list", snap)
	}
	tok = s.BeginPoll()
	if !tok.WantsProfiles {
		t.Fatalf("poll after external switch does not want profiles")
	}

	updated := []keyrx.Profile{{Name: "default"}, {Name: "gaming"}, {Name: "coding", Active: true}}
	s.ApplyStatus(tok, keyrx.StatusResponse{Running: true, Profile: "coding", RemappingEnabled: true}, updated, true)
	if active, _ := s.Snapshot().ActiveProfile(); active != "coding" {
		t.Fatalf("active = %q, want coding", active)
	}

	tok = s.BeginPoll()
	s.ApplyStatus(tok, keyrx.StatusResponse{Running: true, Profile: "coding", RemappingEnabled: true}, nil, false)
	if s.BeginPoll().WantsProfiles {
		t.Fatalf("unchanged profile asked for another reload")
	}
}

func TestStore_UnknownProfileDoesNotReloadList(t *testing.T) {
	s := reachableStore(t)

	tok := s.BeginPoll()
	s.ApplyStatus(tok, keyrx.StatusResponse{Running: true, Profile: "default", RemappingEnabled: true}, nil, false)
	if s.BeginPoll().WantsProfiles {
		t.Fatalf("matching profile asked for a reload")
	}

	var empty Store
	tok = empty.BeginPoll()
	empty.ApplyStatus(tok, keyrx.StatusResponse{Running: true, Profile: "default"}, nil, true)
	tok = empty.BeginPoll()
	empty.ApplyStatus(tok, keyrx.StatusResponse{Running: true, Profile: "gaming"}, nil, false)
	if empty.BeginPoll().WantsProfiles {
		t.Fatalf("empty list asked for a reload on every switch")
	}
}

func TestStore_ApplyStatusNormalizesActiveProfiles(t *testing.T) {
	var s Store
	tok := s.BeginPoll()
	s.ApplyStatus(tok, keyrx.StatusResponse{Running: true, Profile: "a"},
		[]keyrx.Profile{{Name: "a", Active: true}, {Name: "b", Active: true}}, true)

	active := 0
	for _, p := range s.Snapshot().Profiles {
		if p.Active {
			active++
		}
	}
	if active != 1 {
		t.Fatalf("active profiles = %d, want 1", active)
	}
}

func TestStore_FailedPollKeepsLastKnownValues(t *testing.T) {
	var s Store
	tok := s.BeginPoll()
	s.ApplyStatus(tok, keyrx.StatusResponse{Running: true, Profile: "coding", RemappingEnabled: true},
		[]keyrx.Profile{{Name: "coding", Active: true}}, true)
	prev := s.Snapshot()

	origErr := errors.New("boom")
	s.MarkUnreachable(origErr)

	snap := s.Snapshot()
	if snap.Reachable {
		t.Fatalf("Reachable = true after failure")
	}
	if snap.ProfileName != "coding" || !snap.HasProfile || !snap.RemappingEnabled {
		t.Fatalf("snapshot = %#v, want last known coding/enabled", snap)
	}
	if !reflect.DeepEqual(snap.Profiles, prev.Profiles) {
		t.Fatalf("profiles changed on failure: %#v want %#v", snap.Profiles, prev.Profiles)
	}
	if !snap.LastUpdated.Equal(prev.LastUpdated) {
		t.Fatalf("LastUpdated moved on failure")
	}
	if snap.LastError == nil || snap.LastError.Error() != "boom" {
		t.Fatalf("LastError = %v, want boom", snap.LastError)
	}
	if reflect.ValueOf(snap.LastError).Pointer() == reflect.ValueOf(origErr).Pointer() {
		t.Fatalf("Snapshot should clone error instance")
	}
	if !snap.ProfilesStale || !s.BeginPoll().WantsProfiles {
		t.Fatalf("profiles should reload after the daemon becomes reachable again")
	}
}

func TestStore_ConsecutiveFailures(t *testing.T) {
	var s Store
	for i := 1; i <= 3; i++ {
		s.MarkUnreachable(errors.New("fail"))
		if got := s.Snapshot().ConsecutiveFailures; got != i {
			t.Fatalf("ConsecutiveFailures = %d, want %d", got, i)
		}
	}
	tok := s.BeginPoll()
	s.ApplyStatus(tok, keyrx.StatusResponse{Running: true}, nil, false)
	if got := s.Snapshot().ConsecutiveFailures; got != 0 {
		t.Fatalf("ConsecutiveFailures = %d, want 0 after success", got)
	}
}

func TestStore_ToggleRejectsOverlap(t *testing.T) {
	s := reachableStore(t)

	if _, err := s.BeginToggle(false); err != nil {
		t.Fatalf("BeginToggle returned error: %v", err)
	}
	if _, err := s.BeginToggle(true); !errors.Is(err, ErrCommandPending) {
		t.Fatalf("second BeginToggle error = %v, want ErrCommandPending", err)
	}
	snap := s.Snapshot()
	if snap.RemappingEnabled || !snap.TogglePending {
		t.Fatalf("snapshot = %#v, want optimistic disabled + pending", snap)
	}
}

func TestStore_ToggleCompleteAndRollback(t *testing.T) {
	s := reachableStore(t)

	cmd, err := s.BeginToggle(false)
	if err != nil {
		t.Fatalf("BeginToggle returned error: %v", err)
	}
	if !cmd.PreviousEnabled {
		t.Fatalf("PreviousEnabled = false, want true")
	}
	s.RollbackToggle()
	snap := s.Snapshot()
	if !snap.RemappingEnabled || snap.TogglePending {
		t.Fatalf("after rollback = %#v, want enabled and not pending", snap)
	}
	if _, err := s.BeginToggle(false); err != nil {
		t.Fatalf("BeginToggle after rollback returned error: %v", err)
	}
	s.CompleteToggle()
	if snap := s.Snapshot(); snap.RemappingEnabled || snap.TogglePending {
		t.Fatalf("after complete = %#v, want disabled and not pending", snap)
	}
}

func TestStore_ActivateOptimisticAndRollback(t *testing.T) {
	s := reachableStore(t)

	if _, err := s.BeginActivate("gaming"); err != nil {
		t.Fatalf("BeginActivate returned error: %v", err)
	}
	snap := s.Snapshot()
	want := []keyrx.Profile{{Name: "default"}, {Name: "gaming", Active: true}, {Name: "coding"}}
	if !reflect.DeepEqual(snap.Profiles, want) || snap.ProfileName != "gaming" || snap.PendingProfile != "gaming" {
		t.Fatalf("optimistic snapshot = %#v", snap)
	}
	if _, err := s.BeginActivate("coding"); !errors.Is(err, ErrCommandPending) {
		t.Fatalf("second BeginActivate error = %v, want ErrCommandPending", err)
	}

	s.RollbackActivate()
	snap = s.Snapshot()
	if !reflect.DeepEqual(snap.Profiles, threeProfiles()) || snap.ProfileName != "default" || snap.PendingProfile != "" {
		t.Fatalf("after rollback = %#v", snap)
	}
}

func TestStore_ActivateRollbackWithoutPreviousActive(t *testing.T) {
	var s Store
	tok := s.BeginPoll()
	s.ApplyStatus(tok, keyrx.StatusResponse{Running: true}, []keyrx.Profile{{Name: "a"}, {Name: "b"}}, true)

	if _, err := s.BeginActivate("b"); err != nil {
		t.Fatalf("BeginActivate returned error: %v", err)
	}
	s.RollbackActivate()
	snap := s.Snapshot()
	if _, ok := snap.ActiveProfile(); ok {
		t.Fatalf("profiles = %#v, want none active after rollback", snap.Profiles)
	}
	if snap.HasProfile {
		t.Fatalf("HasProfile = true, want previous absent profile restored")
	}
}

func TestStore_CompleteActivateMarksProfilesStale(t *testing.T) {
	s := reachableStore(t)

	if _, err := s.BeginActivate("gaming"); err != nil {
		t.Fatalf("BeginActivate returned error: %v", err)
	}
	s.CompleteActivate()
	snap := s.Snapshot()
	if name, _ := snap.ActiveProfile(); name != "gaming" {
		t.Fatalf("active = %q, want gaming", name)
	}
	if !snap.ProfilesStale || !s.BeginPoll().WantsProfiles {
		t.Fatalf("profile list should reload after an acknowledged switch")
	}
}

func TestStore_PollDoesNotClobberPendingCommands(t *testing.T) {
	s := reachableStore(t)

	if _, err := s.BeginToggle(false); err != nil {
		t.Fatalf("BeginToggle returned error: %v", err)
	}
	if _, err := s.BeginActivate("gaming"); err != nil {
		t.Fatalf("BeginActivate returned error: %v", err)
	}

	tok := s.BeginPoll()
	s.ApplyStatus(tok, keyrx.StatusResponse{Running: true, Profile: "default", RemappingEnabled: true}, threeProfiles(), true)

	snap := s.Snapshot()
	if snap.RemappingEnabled {
		t.Fatalf("poll overwrote optimistic toggle")
	}
	if name, _ := snap.ActiveProfile(); name != "gaming" || snap.ProfileName != "gaming" {
		t.Fatalf("poll overwrote optimistic activation: %#v", snap)
	}
}

func TestStore_PollStartedBeforeCommandSkipsCommandFields(t *testing.T) {
	s := reachableStore(t)

	tok := s.BeginPoll()
	if _, err := s.BeginToggle(false); err != nil {
		t.Fatalf("BeginToggle returned error: %v", err)
	}
	s.CompleteToggle()

	s.ApplyStatus(tok, keyrx.StatusResponse{Running: true, Profile: "default", RemappingEnabled: true}, nil, false)
	snap := s.Snapshot()
	if snap.RemappingEnabled {
		t.Fatalf("stale poll reverted an acknowledged toggle")
	}
	if !snap.Reachable {
		t.Fatalf("Reachable = false, want stale poll to still update reachability")
	}
}

func TestStore_ChangesCoalesce(t *testing.T) {
	var s Store
	ch := s.Changes()

	s.MarkUnreachable(errors.New("a"))
	s.MarkUnreachable(errors.New("b"))

	select {
	case <-ch:
	default:
		t.Fatalf("no change signal after mutation")
	}
	select {
	case <-ch:
		t.Fatalf("changes did not coalesce")
	default:
	}
}

func TestKindString(t *testing.T) {
	if KindToggle.String() != "toggle" || KindActivateProfile.String() != "activate-profile" {
		t.Fatalf("unexpected kind names %q %q", KindToggle, KindActivateProfile)
	}
	if Kind(9).String() != "kind(9)" {
		t.Fatalf("unknown kind = %q", Kind(9).String())
	}
}
