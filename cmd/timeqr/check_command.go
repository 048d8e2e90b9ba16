package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"timeqr/internal/deps"
	"timeqr/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Report ffmpeg and ffprobe availability",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			statuses := preflight.CheckSystemDeps(cmd.Context(), cfg)
			rows := make([][]string, 0, len(statuses))
			for _, status := range statuses {
				state := "ok"
				if !status.Available {
					state = "missing"
				}
				detail := status.Version
				if detail == "" {
					detail = status.Detail
				}
				rows = append(rows, []string{status.Name, status.Command, state, detail})
			}
			for _, line := range renderSectionHeader("Dependencies", colorize) {
				fmt.Fprintln(out, line)
			}
			fmt.Fprintln(out, renderTable([]string{"Name", "Command", "Status", "Version"}, rows, nil))

			dir := cfg.Output.Dir
			if dir == "" {
				dir = "."
			}
			access := preflight.CheckDirectoryAccess("Output directory", dir)
			kind := statusOK
			if !access.Passed {
				kind = statusError
			}
			fmt.Fprintln(out, renderStatusLine(access.Name, kind, access.Detail, colorize))

			if missing := deps.Missing(statuses); len(missing) > 0 {
				names := make([]string, 0, len(missing))
				for _, status := range missing {
					names = append(names, status.Name)
				}
				return fmt.Errorf("missing dependencies: %s", strings.Join(names, ", "))
			}
			if !access.Passed {
				return errors.New("output directory is not writable")
			}
			return nil
		},
	}
}
