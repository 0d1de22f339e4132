package state

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/keyrx/keyrx-tray/internal/keyrx"
)

// ErrCommandPending rejects a command while another of the same kind is in
// flight.
var ErrCommandPending = errors.New("command already pending")

// Kind identifies a user-initiated command.
type Kind int

const (
	KindToggle Kind = iota
	KindActivateProfile
)

func (k Kind) String() string {
	switch k {
	case KindToggle:
		return "toggle"
	case KindActivateProfile:
		return "activate-profile"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// PendingCommand is an in-flight command together with the values to restore
// if the daemon rejects it.
type PendingCommand struct {
	Kind     Kind
	Profile  string // target of KindActivateProfile
	IssuedAt time.Time

	PreviousEnabled    bool
	PreviousProfile    string
	PreviousHasProfile bool
	PreviousActive     string
	PreviousHadActive  bool
}

// Snapshot represents the latest daemon state available to presenters.
type Snapshot struct {
	Reachable bool
	HasStatus bool // at least one status read has succeeded
	Running   bool
	Version   string

	ProfileName      string
	HasProfile       bool
	RemappingEnabled bool
	Profiles         []keyrx.Profile
	ProfilesStale    bool

	TogglePending  bool
	PendingProfile string // non-empty while a profile activation is in flight

	LastUpdated         time.Time // last successful status read
	LastChecked         time.Time // last poll attempt
	LastError           error
	ConsecutiveFailures int
}

// ActiveProfile returns the profile marked active in the list.
func (s Snapshot) ActiveProfile() (string, bool) {
	return keyrx.ActiveProfile(s.Profiles)
}

// PollToken captures the store state a poll started from. Fields that
// commands set optimistically are only applied when no command started or
// finished while the poll was running.
type PollToken struct {
	epoch         uint64
	WantsProfiles bool
}

// Store coordinates concurrent updates to the snapshot and the pending
// command set. The zero value is ready to use.
type Store struct {
	// Now overrides time.Now for tests.
	Now func() time.Time

	mu            sync.Mutex
	snapshot      Snapshot
	profilesFresh bool
	epoch         uint64
	pending       map[Kind]PendingCommand
	changes       chan struct{}
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Changes returns a channel that receives a value after every mutation.
// Bursts of changes coalesce into one signal; readers call Snapshot.
func (s *Store) Changes() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.changesLocked()
}

// BeginPoll returns the token a poll must hand back to ApplyStatus.
func (s *Store) BeginPoll() PollToken {
	s.mu.Lock()
	defer s.mu.Unlock()
	return PollToken{epoch: s.epoch, WantsProfiles: !s.profilesFresh}
}

// ApplyStatus records a successful status read. profiles is applied only
// when fetched is true; otherwise the current list is kept.
func (s *Store) ApplyStatus(tok PollToken, status keyrx.StatusResponse, profiles []keyrx.Profile, fetched bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	snap := &s.snapshot
	snap.Reachable = true
	snap.HasStatus = true
	snap.Running = status.Running
	snap.Version = status.Version
	snap.LastUpdated = now
	snap.LastChecked = now
	snap.LastError = nil
	snap.ConsecutiveFailures = 0

	current := tok.epoch == s.epoch
	if _, busy := s.pending[KindToggle]; current && !busy {
		snap.RemappingEnabled = status.RemappingEnabled
	}
	if _, busy := s.pending[KindActivateProfile]; current && !busy {
		changed := status.Profile != snap.ProfileName
		snap.ProfileName = status.Profile
		snap.HasProfile = status.Profile != ""
		if fetched {
			snap.Profiles = keyrx.NormalizeProfiles(profiles)
			s.profilesFresh = true
		} else if changed && !listAgrees(snap.Profiles, status.Profile) {
			// The profile was switched elsewhere; reload the list once.
			s.profilesFresh = false
		}
	}
	s.notifyLocked()
}

// MarkUnreachable records a failed poll. Last-known values are kept and the
// profile list is reloaded once the daemon answers again.
func (s *Store) MarkUnreachable(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.Reachable = false
	s.snapshot.LastChecked = s.now()
	s.snapshot.LastError = err
	s.snapshot.ConsecutiveFailures++
	s.profilesFresh = false
	s.notifyLocked()
}

// MarkProfilesStale makes the next poll fetch the profile list. A poll
// already in flight will not mark the list fresh.
func (s *Store) MarkProfilesStale() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.profilesFresh = false
	s.epoch++
	s.notifyLocked()
}

// BeginToggle optimistically sets the remapping flag to desired.
func (s *Store) BeginToggle(desired bool) (PendingCommand, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, busy := s.pending[KindToggle]; busy {
		return PendingCommand{}, fmt.Errorf("%w: %s", ErrCommandPending, KindToggle)
	}
	cmd := PendingCommand{
		Kind:            KindToggle,
		IssuedAt:        s.now(),
		PreviousEnabled: s.snapshot.RemappingEnabled,
	}
	s.addPendingLocked(cmd)
	s.snapshot.RemappingEnabled = desired
	s.notifyLocked()
	return cmd, nil
}

// CompleteToggle drops the pending toggle and keeps the optimistic value.
func (s *Store) CompleteToggle() {
	s.finish(KindToggle, false)
}

// RollbackToggle restores the remapping flag shown before the toggle.
func (s *Store) RollbackToggle() {
	s.finish(KindToggle, true)
}

// BeginActivate optimistically marks name as the only active profile.
func (s *Store) BeginActivate(name string) (PendingCommand, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cur, busy := s.pending[KindActivateProfile]; busy {
		return PendingCommand{}, fmt.Errorf("%w: %s %q", ErrCommandPending, KindActivateProfile, cur.Profile)
	}
	prevActive, hadActive := keyrx.ActiveProfile(s.snapshot.Profiles)
	cmd := PendingCommand{
		Kind:               KindActivateProfile,
		Profile:            name,
		IssuedAt:           s.now(),
		PreviousProfile:    s.snapshot.ProfileName,
		PreviousHasProfile: s.snapshot.HasProfile,
		PreviousActive:     prevActive,
		PreviousHadActive:  hadActive,
	}
	s.addPendingLocked(cmd)
	s.snapshot.Profiles = markActive(s.snapshot.Profiles, name, true)
	s.snapshot.ProfileName = name
	s.snapshot.HasProfile = true
	s.notifyLocked()
	return cmd, nil
}

// CompleteActivate drops the pending activation and marks the profile list
// for a daemon-authoritative reload.
func (s *Store) CompleteActivate() {
	s.finish(KindActivateProfile, false)
}

// RollbackActivate restores the active marks and profile name shown before
// the activation.
func (s *Store) RollbackActivate() {
	s.finish(KindActivateProfile, true)
}

func (s *Store) finish(kind Kind, rollback bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cmd, ok := s.pending[kind]
	if !ok {
		return
	}
	delete(s.pending, kind)
	s.epoch++

	switch kind {
	case KindToggle:
		s.snapshot.TogglePending = false
		if rollback {
			s.snapshot.RemappingEnabled = cmd.PreviousEnabled
		}
	case KindActivateProfile:
		s.snapshot.PendingProfile = ""
		if rollback {
			s.snapshot.Profiles = markActive(s.snapshot.Profiles, cmd.PreviousActive, cmd.PreviousHadActive)
			s.snapshot.ProfileName = cmd.PreviousProfile
			s.snapshot.HasProfile = cmd.PreviousHasProfile
		} else {
			s.profilesFresh = false
		}
	}
	s.notifyLocked()
}

func (s *Store) addPendingLocked(cmd PendingCommand) {
	if s.pending == nil {
		s.pending = make(map[Kind]PendingCommand)
	}
	s.pending[cmd.Kind] = cmd
	s.epoch++
	switch cmd.Kind {
	case KindToggle:
		s.snapshot.TogglePending = true
	case KindActivateProfile:
		s.snapshot.PendingProfile = cmd.Profile
	}
}

func (s *Store) snapshotLocked() Snapshot {
	snap := s.snapshot
	snap.Profiles = cloneProfiles(s.snapshot.Profiles)
	snap.ProfilesStale = !s.profilesFresh
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func (s *Store) changesLocked() chan struct{} {
	if s.changes == nil {
		s.changes = make(chan struct{}, 1)
	}
	return s.changes
}

func (s *Store) notifyLocked() {
	select {
	case s.changesLocked() <- struct{}{}:
	default:
	}
}

func (s *Store) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// listAgrees reports whether the active mark in profiles matches name. A
// list that does not know name at all has nothing to correct.
func listAgrees(profiles []keyrx.Profile, name string) bool {
	active, ok := keyrx.ActiveProfile(profiles)
	if ok {
		return active == name
	}
	for _, p := range profiles {
		if p.Name == name {
			return false
		}
	}
	return true
}

// markActive returns a copy of profiles where only name is active. With
// active false every entry is cleared.
func markActive(profiles []keyrx.Profile, name string, active bool) []keyrx.Profile {
	out := cloneProfiles(profiles)
	for i := range out {
		out[i].Active = active && out[i].Name == name
	}
	return out
}

func cloneProfiles(profiles []keyrx.Profile) []keyrx.Profile {
	if len(profiles) == 0 {
		return nil
	}
	dup := make([]keyrx.Profile, len(profiles))
	copy(dup, profiles)
	return dup
}
