package config

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config is the tray's runtime configuration. It is built once at startup
// and passed explicitly to every component.
type Config struct {
	APIBaseURL     string
	WebUIURL       string
	MockMode       bool
	PollInterval   time.Duration
	RequestTimeout time.Duration
	LogFile        string
	PrefsPath      string

	// Path is the config file that was consulted, whether or not it existed.
	Path string
}

// Overrides carries command-line values. Zero fields leave the loaded
// configuration untouched.
type Overrides struct {
	APIBaseURL   string
	WebUIURL     string
	MockMode     *bool
	PollInterval time.Duration
}

const (
	defaultConfigPath     = "~/.config/keyrx/tray.toml"
	defaultPrefsPath      = "~/.config/keyrx/tray-prefs.toml"
	defaultLogFile        = "~/.local/state/keyrx/tray.log"
	defaultAPIBaseURL     = "http://127.0.0.1:9867"
	defaultPollInterval   = 5000 * time.Millisecond
	defaultRequestTimeout = 2000 * time.Millisecond
)

const (
	envAPIURL         = "KEYRX_API_URL"
	envWebUI          = "KEYRX_WEB_UI"
	envMock           = "KEYRX_MOCK"
	envPollInterval   = "KEYRX_POLL_INTERVAL_MS"
	envRequestTimeout = "KEYRX_REQUEST_TIMEOUT_MS"
	envLogFile        = "KEYRX_TRAY_LOG"
)

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		APIBaseURL:     defaultAPIBaseURL,
		WebUIURL:       defaultAPIBaseURL,
		PollInterval:   defaultPollInterval,
		RequestTimeout: defaultRequestTimeout,
		LogFile:        mustExpand(defaultLogFile),
		PrefsPath:      mustExpand(defaultPrefsPath),
	}
}

// Load builds the configuration from defaults, the TOML file at path (the
// default location when empty) and KEYRX_* environment variables, in that
// order of precedence. A missing file is not an error.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	var raw struct {
		APIBaseURL       string `toml:"api_base_url"`
		WebUIURL         string `toml:"web_ui_url"`
		MockMode         *bool  `toml:"mock_mode"`
		PollIntervalMS   int64  `toml:"poll_interval_ms"`
		RequestTimeoutMS int64  `toml:"request_timeout_ms"`
		LogFile          string `toml:"log_file"`
		PrefsFile        string `toml:"prefs_file"`
	}

	file, err := os.Open(resolved)
	switch {
	case err == nil:
		defer func() { _ = file.Close() }()
		bytes, err := io.ReadAll(file)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := toml.Unmarshal(bytes, &raw); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return Config{}, fmt.Errorf("open config: %w", err)
	}

	cfg := Default()
	cfg.Path = resolved

	apiURL := stringFromEnv(envAPIURL, strings.TrimSpace(raw.APIBaseURL))
	if apiURL != "" {
		cfg.APIBaseURL = apiURL
	}
	cfg.WebUIURL = stringFromEnv(envWebUI, strings.TrimSpace(raw.WebUIURL))

	if raw.MockMode != nil {
		cfg.MockMode = *raw.MockMode
	}
	cfg.MockMode = boolFromEnv(envMock, cfg.MockMode)

	if raw.PollIntervalMS != 0 {
		cfg.PollInterval = time.Duration(raw.PollIntervalMS) * time.Millisecond
	}
	cfg.PollInterval = millisFromEnv(envPollInterval, cfg.PollInterval)

	if raw.RequestTimeoutMS != 0 {
		cfg.RequestTimeout = time.Duration(raw.RequestTimeoutMS) * time.Millisecond
	}
	cfg.RequestTimeout = millisFromEnv(envRequestTimeout, cfg.RequestTimeout)

	if logFile := stringFromEnv(envLogFile, strings.TrimSpace(raw.LogFile)); logFile != "" {
		cfg.LogFile = mustExpand(logFile)
	}
	if prefsFile := strings.TrimSpace(raw.PrefsFile); prefsFile != "" {
		cfg.PrefsPath = mustExpand(prefsFile)
	}

	return cfg.normalize()
}

// Apply returns a copy of c with the command-line overrides applied.
func (c Config) Apply(o Overrides) (Config, error) {
	if v := strings.TrimSpace(o.APIBaseURL); v != "" {
		if c.WebUIURL == c.APIBaseURL {
			c.WebUIURL = ""
		}
		c.APIBaseURL = v
	}
	if v := strings.TrimSpace(o.WebUIURL); v != "" {
		c.WebUIURL = v
	}
	if o.MockMode != nil {
		c.MockMode = *o.MockMode
	}
	if o.PollInterval != 0 {
		c.PollInterval = o.PollInterval
	}
	return c.normalize()
}

// SettingsURL is the web UI page that "Settings" opens.
func (c Config) SettingsURL() string {
	return strings.TrimRight(c.WebUIURL, "/") + "/#/settings"
}

func (c Config) normalize() (Config, error) {
	api, err := normalizeOrigin(c.APIBaseURL)
	if err != nil {
		return Config{}, fmt.Errorf("api_base_url: %w", err)
	}
	c.APIBaseURL = api

	if strings.TrimSpace(c.WebUIURL) == "" {
		c.WebUIURL = c.APIBaseURL
	} else {
		web, err := normalizeWebURL(c.WebUIURL)
		if err != nil {
			return Config{}, fmt.Errorf("web_ui_url: %w", err)
		}
		c.WebUIURL = web
	}

	if c.PollInterval <= 0 {
		return Config{}, fmt.Errorf("poll_interval_ms must be > 0")
	}
	if c.RequestTimeout <= 0 {
		return Config{}, fmt.Errorf("request_timeout_ms must be > 0")
	}
	return c, nil
}

// normalizeOrigin adds a missing scheme and strips path, query and fragment.
func normalizeOrigin(raw string) (string, error) {
	u, err := parseURL(raw)
	if err != nil {
		return "", err
	}
	u.Path = ""
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u.String(), nil
}

// normalizeWebURL keeps the path, since the web UI may live under a prefix.
func normalizeWebURL(raw string) (string, error) {
	u, err := parseURL(raw)
	if err != nil {
		return "", err
	}
	u.RawQuery = ""
	u.Fragment = ""
	return strings.TrimRight(u.String(), "/"), nil
}

func parseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("url is empty")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse %q: missing host", raw)
	}
	return u, nil
}

func stringFromEnv(name, fallback string) string {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		return fallback
	}
	return value
}

func boolFromEnv(name string, fallback bool) bool {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

// millisFromEnv accepts plain milliseconds ("5000") or a Go duration ("5s").
func millisFromEnv(name string, fallback time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		return fallback
	}
	if ms, err := strconv.ParseInt(value, 10, 64); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	return fallback
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
