package keyrx

import (
	"context"
	"fmt"
	"log"
	"sync"
)

// Ensure Mock implements Transport at compile time.
var _ Transport = (*Mock)(nil)

// Mock is an in-process stand-in for the daemon. It performs no I/O and
// starts from a fixed state, so every run produces the same responses.
// Acknowledged writes update the mock state and are visible to later reads.
type Mock struct {
	mu       sync.Mutex
	version  string
	enabled  bool
	profiles []Profile

	// FailReads makes FetchStatus and FetchProfiles return ErrUnreachable.
	FailReads bool
	// FailWrites makes SendToggle and SendActivateProfile return ErrCommandFailed.
	FailWrites bool
}

// NewMock returns a mock daemon with remapping enabled and the profiles
// default (active), gaming and coding.
func NewMock() *Mock {
	return &Mock{
		version: "0.1.0",
		enabled: true,
		profiles: []Profile{
			{Name: "default", Active: true},
			{Name: "gaming"},
			{Name: "coding"},
		},
	}
}

// FetchStatus reports the mock daemon state.
func (m *Mock) FetchStatus(ctx context.Context) (StatusResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailReads {
		return StatusResponse{}, fmt.Errorf("%w: mock read failure", ErrUnreachable)
	}
	active, _ := ActiveProfile(m.profiles)
	return StatusResponse{
		Running:          true,
		Version:          m.version,
		Profile:          active,
		RemappingEnabled: m.enabled,
	}, nil
}

// FetchProfiles reports the mock profile list.
func (m *Mock) FetchProfiles(ctx context.Context) ([]Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailReads {
		return nil, fmt.Errorf("%w: mock read failure", ErrUnreachable)
	}
	out := make([]Profile, len(m.profiles))
	copy(out, m.profiles)
	return out, nil
}

// SendToggle records the requested remapping state.
func (m *Mock) SendToggle(ctx context.Context, enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites {
		return fmt.Errorf("%w: mock write failure", ErrCommandFailed)
	}
	log.Printf("mock POST /api/toggle enabled=%t", enabled)
	m.enabled = enabled
	return nil
}

// SendActivateProfile marks name as the only active profile. Unknown names
// fail the way the daemon rejects them.
func (m *Mock) SendActivateProfile(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites {
		return fmt.Errorf("%w: mock write failure", ErrCommandFailed)
	}
	found := false
	for _, p := range m.profiles {
		if p.Name == name {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("%w: profile %q not found", ErrCommandFailed, name)
	}
	log.Printf("mock POST /api/profiles/activate name=%s", name)
	for i := range m.profiles {
		m.profiles[i].Active = m.profiles[i].Name == name
	}
	return nil
}
