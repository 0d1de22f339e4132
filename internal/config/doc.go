// Package config loads the tray's runtime configuration.
//
// # Configuration Discovery
//
// Load resolves values in this order, later sources winning:
//
//  1. Built-in defaults
//  2. The TOML file (explicit path, or ~/.config/keyrx/tray.toml)
//  3. KEYRX_* environment variables
//  4. Command-line flags, applied with Config.Apply
//
// A missing file is not an error. An unreadable or malformed file is.
//
// # Default Values
//
//   - API base URL: http://127.0.0.1:9867
//   - Web UI URL: same as the API base URL
//   - Mock mode: off
//   - Poll interval: 5000 ms
//   - Request timeout: 2000 ms
//   - Log file: ~/.local/state/keyrx/tray.log
//   - Preferences: ~/.config/keyrx/tray-prefs.toml
//
// # TOML Format
//
//	api_base_url = "http://127.0.0.1:9867"
//	web_ui_url = "http://127.0.0.1:9867"
//	mock_mode = false
//	poll_interval_ms = 5000
//	request_timeout_ms = 2000
//	log_file = "~/.local/state/keyrx/tray.log"
//	prefs_file = "~/.config/keyrx/tray-prefs.toml"
//
// # Environment
//
//   - KEYRX_API_URL, KEYRX_WEB_UI
//   - KEYRX_MOCK ("1", "true", ...)
//   - KEYRX_POLL_INTERVAL_MS, KEYRX_REQUEST_TIMEOUT_MS (milliseconds or a Go duration)
//   - KEYRX_TRAY_LOG
//
// URLs get a scheme when it is missing. The API URL is reduced to its
// origin. Non-positive intervals are rejected.
package config
