// Package tray shows the daemon state as a system tray icon.
//
// BuildMenu turns a state.Snapshot into a Menu value that says what every
// entry should display. The systray binding applies that value to items
// allocated once at startup: a status line, the remapping checkbox, the
// profile submenu with a refresh entry, a fixed number of profile slots and
// a placeholder, then Open Web UI, Settings, About and Quit Tray. Only
// entries that differ from the previous render are touched.
//
// Clicks become app.Event values. Command outcomes are shown as desktop
// notifications through beeep unless disabled in the preferences.
package tray
