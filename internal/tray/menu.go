package tray

import (
	"fmt"

	"github.com/keyrx/keyrx-tray/internal/state"
)

// MaxProfileSlots is the number of pre-allocated profile entries. Profiles
// past this count are not shown.
const MaxProfileSlots = 16

// Icon selects the tray icon variant.
type Icon int

const (
	// IconIdle is shown while remapping is off or the daemon is unreachable.
	IconIdle Icon = iota
	// IconActive is shown while the daemon remaps keys.
	IconActive
)

// Item is the visible state of one menu entry.
type Item struct {
	Title    string
	Checked  bool
	Disabled bool
	Hidden   bool
}

// ProfileItem is a profile entry together with the name it activates.
type ProfileItem struct {
	Item
	Name string
}

// Menu is the complete visible state of the tray for one snapshot. Equal
// snapshots always produce equal menus.
type Menu struct {
	Icon    Icon
	Tooltip string

	Status      Item
	Toggle      Item
	Profiles    Item // "Switch Profile" submenu parent
	Placeholder Item // "No profiles available"
	Slots       [MaxProfileSlots]ProfileItem
}

// BuildMenu derives the menu from snap.
func BuildMenu(snap state.Snapshot) Menu {
	m := Menu{
		Icon:     IconIdle,
		Tooltip:  "KeyRx",
		Status:   Item{Title: statusLine(snap), Disabled: true},
		Toggle:   Item{Title: "Enable Remapping", Checked: snap.RemappingEnabled},
		Profiles: Item{Title: "Switch Profile"},
	}

	switch {
	case snap.Reachable:
		if snap.RemappingEnabled {
			m.Icon = IconActive
			m.Tooltip = fmt.Sprintf("KeyRx: %s (remapping on)", profileLabel(snap))
		} else {
			m.Tooltip = fmt.Sprintf("KeyRx: %s (remapping off)", profileLabel(snap))
		}
	case snap.LastChecked.IsZero():
		m.Tooltip = "KeyRx: checking daemon"
	default:
		m.Tooltip = "KeyRx: daemon not running"
	}

	if !snap.HasStatus || snap.TogglePending {
		m.Toggle.Disabled = true
	}
	if snap.PendingProfile != "" {
		m.Profiles.Title = "Switch Profile (switching...)"
	}

	m.Placeholder = Item{Title: "No profiles available", Disabled: true, Hidden: len(snap.Profiles) > 0}
	for i := range m.Slots {
		if i >= len(snap.Profiles) {
			m.Slots[i] = ProfileItem{Item: Item{Hidden: true}}
			continue
		}
		p := snap.Profiles[i]
		m.Slots[i] = ProfileItem{
			Item: Item{
				Title:    p.Name,
				Checked:  p.Active,
				Disabled: snap.PendingProfile != "",
			},
			Name: p.Name,
		}
	}
	return m
}

func statusLine(snap state.Snapshot) string {
	switch {
	case snap.Reachable:
		return "Profile: " + profileLabel(snap)
	case snap.LastChecked.IsZero():
		return "Status: Checking..."
	default:
		return "Status: Daemon not running"
	}
}

func profileLabel(snap state.Snapshot) string {
	if !snap.HasProfile {
		return "Unknown"
	}
	return snap.ProfileName
}
