package keyrx

// StatusResponse mirrors the payload returned by /api/status.
type StatusResponse struct {
	Running          bool   `json:"running"`
	Version          string `json:"version,omitempty"`
	Profile          string `json:"profile"`
	RemappingEnabled bool   `json:"remapping_enabled"`
}

// Profile is a single entry of /api/profiles, in daemon order.
type Profile struct {
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// ProfileListResponse mirrors /api/profiles.
type ProfileListResponse struct {
	Profiles []Profile `json:"profiles"`
}

// ToggleRequest is the body of POST /api/toggle.
type ToggleRequest struct {
	Enabled bool `json:"enabled"`
}

// ActivateProfileRequest is the body of POST /api/profiles/activate.
type ActivateProfileRequest struct {
	Name string `json:"name"`
}

// ActiveProfile returns the name of the first active profile.
func ActiveProfile(profiles []Profile) (string, bool) {
	for _, p := range profiles {
		if p.Active {
			return p.Name, true
		}
	}
	return "", false
}

// NormalizeProfiles returns a copy of profiles in which at most one entry is
// active. When the daemon reports several, the first one wins.
func NormalizeProfiles(profiles []Profile) []Profile {
	if len(profiles) == 0 {
		return nil
	}
	out := make([]Profile, len(profiles))
	copy(out, profiles)
	seen := false
	for i := range out {
		if !out[i].Active {
			continue
		}
		if seen {
			out[i].Active = false
			continue
		}
		seen = true
	}
	return out
}
