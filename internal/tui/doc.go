// Package tui is a terminal front end for the tray, built on bubbletea.
//
// It shows the same information as the tray menu: daemon reachability, the
// active profile, the remapping switch and the profile list. Keys map onto
// the same app.Event values the tray emits, so both front ends drive the
// engine identically. Themes follow the preferences file and can be cycled
// with t.
package tui
