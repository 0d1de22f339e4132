package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/keyrx/keyrx-tray/internal/logtail"
)

const defaultLogLines = 50

func newLogsCommand(opts *options) *cobra.Command {
	var (
		lines int
		plain bool
	)
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the end of the tray log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config(cmd)
			if err != nil {
				return err
			}
			entries, err := logtail.Read(cfg.LogFile, lines)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, styleHint.Render("No log entries in "+cfg.LogFile))
				return nil
			}
			if !plain {
				entries = logtail.ColorizeLines(entries)
			}
			for _, line := range entries {
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&lines, "lines", "n", defaultLogLines, "number of lines to show (0 for all)")
	cmd.Flags().BoolVar(&plain, "plain", false, "print without colors")
	return cmd
}
