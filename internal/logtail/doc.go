// Package logtail reads and colorizes the tray's own log file.
//
// # Reading Log Files
//
// Read returns the last N lines of a file in one sequential pass using a
// ring buffer of N entries, so memory stays O(N) regardless of file size.
// A missing file is not an error and yields no lines.
//
//	lines, err := logtail.Read("~/.local/state/keyrx/tray.log", 50)
//
// # Colorization
//
// Lines written by the tray look like:
//
//	[keyrx-tray] 2026/01/02 15:04:05 Warning: KeyRx daemon is not reachable: ...
//
// ColorizeLine styles them with lipgloss: the prefix in cyan, the timestamp
// dimmed, and the message by severity (warnings yellow, failures red,
// recoveries green). Styling degrades to plain text when the output is not a
// terminal. Colorization never fails; unknown formats are styled by
// severity alone.
package logtail
