package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"timeqr/internal/srt"
)

func newInspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "inspect <srt-file>",
		Short:       "Summarize a generated subtitle file",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			summary, err := srt.Inspect(args[0])
			if err != nil {
				return err
			}
			rows := [][]string{
				{"File", args[0]},
				{"Cues", strconv.Itoa(summary.Cues)},
				{"First start", srt.FormatTimestamp(summary.First)},
				{"Last end", srt.FormatTimestamp(summary.Last)},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Item", "Value"}, rows, nil))
			return nil
		},
	}
}
