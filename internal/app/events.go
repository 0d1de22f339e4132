package app

// Event is a user intent emitted by a presenter.
type Event interface {
	isEvent()
}

// ToggleRequested asks for remapping to be enabled or disabled.
type ToggleRequested struct {
	Enabled bool
}

// ProfileSelected asks for the named profile to become active.
type ProfileSelected struct {
	Name string
}

// RefreshProfilesRequested asks for the profile list to be reloaded.
type RefreshProfilesRequested struct{}

// OpenWebUIRequested asks for the web UI to be opened in a browser. Path is
// appended to the web UI URL.
type OpenWebUIRequested struct {
	Path string
}

// SettingsRequested asks for the web UI settings page.
type SettingsRequested struct{}

// QuitRequested ends the tray. The daemon keeps running.
type QuitRequested struct{}

func (ToggleRequested) isEvent()          {}
func (ProfileSelected) isEvent()          {}
func (RefreshProfilesRequested) isEvent() {}
func (OpenWebUIRequested) isEvent()       {}
func (SettingsRequested) isEvent()        {}
func (QuitRequested) isEvent()            {}
