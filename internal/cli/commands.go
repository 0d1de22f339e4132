package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/keyrx/keyrx-tray/internal/app"
	"github.com/keyrx/keyrx-tray/internal/state"
)

func newEnableCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "enable",
		Short: "Enable key remapping",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runToggle(cmd, opts, true)
		},
	}
}

func newDisableCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "disable",
		Short: "Disable key remapping",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runToggle(cmd, opts, false)
		},
	}
}

func newProfileCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "profile <name>",
		Short: "Switch the active profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, closer, err := opts.engine(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = closer.Close() }()

			name := args[0]
			if err := engine.Orchestrator.SwitchProfile(cmd.Context(), name); err != nil {
				return err
			}
			printOutcome(cmd, app.Outcome{Kind: state.KindActivateProfile, Profile: name})
			return nil
		},
	}
}

func runToggle(cmd *cobra.Command, opts *options, enabled bool) error {
	engine, closer, err := opts.engine(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	if err := engine.Orchestrator.ToggleRemapping(cmd.Context(), enabled); err != nil {
		return err
	}
	printOutcome(cmd, app.Outcome{Kind: state.KindToggle, Enabled: enabled})
	return nil
}

func printOutcome(cmd *cobra.Command, o app.Outcome) {
	fmt.Fprintln(cmd.OutOrStdout(), styleSuccess.Render(o.Message()))
}
