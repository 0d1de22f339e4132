package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/keyrx/keyrx-tray/internal/config"
	"github.com/keyrx/keyrx-tray/internal/state"
)

type profileReport struct {
	Name   string `json:"name" yaml:"name"`
	Active bool   `json:"active" yaml:"active"`
}

// statusReport is the machine-readable form of one status check.
type statusReport struct {
	Reachable        bool            `json:"reachable" yaml:"reachable"`
	Running          bool            `json:"running" yaml:"running"`
	Version          string          `json:"version,omitempty" yaml:"version,omitempty"`
	Profile          string          `json:"profile,omitempty" yaml:"profile,omitempty"`
	RemappingEnabled bool            `json:"remapping_enabled" yaml:"remapping_enabled"`
	Profiles         []profileReport `json:"profiles" yaml:"profiles"`
	APIURL           string          `json:"api_url" yaml:"api_url"`
	WebUIURL         string          `json:"web_ui_url" yaml:"web_ui_url"`
	Mock             bool            `json:"mock,omitempty" yaml:"mock,omitempty"`
	Error            string          `json:"error,omitempty" yaml:"error,omitempty"`
}

func newStatusReport(cfg config.Config, snap state.Snapshot) statusReport {
	r := statusReport{
		Reachable:        snap.Reachable,
		Running:          snap.Running,
		Version:          snap.Version,
		RemappingEnabled: snap.RemappingEnabled,
		Profiles:         []profileReport{},
		APIURL:           cfg.APIBaseURL,
		WebUIURL:         cfg.WebUIURL,
		Mock:             cfg.MockMode,
	}
	if snap.HasProfile {
		r.Profile = snap.ProfileName
	}
	for _, p := range snap.Profiles {
		r.Profiles = append(r.Profiles, profileReport{Name: p.Name, Active: p.Active})
	}
	if snap.LastError != nil {
		r.Error = snap.LastError.Error()
	}
	return r
}

func newStatusCommand(opts *options) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show daemon status and profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format := strings.ToLower(strings.TrimSpace(output))
			switch format {
			case "text", "json", "yaml":
			default:
				return fmt.Errorf("unknown output format %q (want text, json or yaml)", output)
			}

			engine, closer, err := opts.engine(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = closer.Close() }()

			engine.Poller.Poll(cmd.Context())
			report := newStatusReport(engine.Config, engine.Store.Snapshot())

			out := cmd.OutOrStdout()
			switch format {
			case "json":
				err = writeJSON(out, report)
			case "yaml":
				err = writeYAML(out, report)
			default:
				writeText(out, report)
			}
			if err != nil {
				return err
			}
			if !report.Reachable {
				return fmt.Errorf("daemon not reachable at %s", report.APIURL)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format: text, json or yaml")
	return cmd
}

func writeJSON(w io.Writer, r statusReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

func writeYAML(w io.Writer, r statusReport) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

func writeText(w io.Writer, r statusReport) {
	if !r.Reachable {
		fmt.Fprintln(w, styleError.Render("Status: Daemon not running"))
		fmt.Fprintf(w, "  %s %s\n", styleLabel.Render("API:"), styleValue.Render(r.APIURL))
		if r.Error != "" {
			fmt.Fprintf(w, "  %s %s\n", styleLabel.Render("Error:"), styleValue.Render(r.Error))
		}
		fmt.Fprintf(w, "\n%s\n", styleHint.Render("Start daemon with: sudo systemctl start keyrx"))
		return
	}

	profile := r.Profile
	if profile == "" {
		profile = "Unknown"
	}
	remapping := styleWarning.Render("disabled")
	if r.RemappingEnabled {
		remapping = styleSuccess.Render("enabled")
	}

	fmt.Fprintf(w, "%s %s\n", styleLabel.Render("Profile:"), styleBrand.Render(profile))
	fmt.Fprintf(w, "  %s  %s\n", styleLabel.Render("Remapping:"), remapping)
	if r.Version != "" {
		fmt.Fprintf(w, "  %s    %s\n", styleLabel.Render("Daemon:"), styleVersion.Render(r.Version))
	}
	fmt.Fprintf(w, "  %s       %s\n", styleLabel.Render("API:"), styleValue.Render(r.APIURL))
	fmt.Fprintf(w, "  %s    %s\n", styleLabel.Render("Web UI:"), styleValue.Render(r.WebUIURL))
	if r.Mock {
		fmt.Fprintf(w, "  %s\n", styleHint.Render("(mock daemon)"))
	}

	if len(r.Profiles) == 0 {
		fmt.Fprintf(w, "\n%s\n", styleHint.Render("No profiles available"))
		return
	}
	fmt.Fprintf(w, "\nProfiles (%d):\n", len(r.Profiles))
	for _, p := range r.Profiles {
		if p.Active {
			fmt.Fprintf(w, "  %s %s\n", styleSuccess.Render("●"), styleValue.Render(p.Name))
		} else {
			fmt.Fprintf(w, "    %s\n", styleLabel.Render(p.Name))
		}
	}
}
