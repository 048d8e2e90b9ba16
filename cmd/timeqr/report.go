package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"

	"timeqr/internal/srt"
	"timeqr/internal/workflow"
)

func printGenerateReport(out io.Writer, opts workflow.Options, report workflow.Report) {
	if report.DryRun {
		fmt.Fprintln(out, "Dry run: no files written")
		fmt.Fprintln(out, renderTable([]string{"Item", "Value"}, planRows(opts, report), nil))
		if report.EncoderCommand != "" {
			fmt.Fprintln(out, "Encoder command:")
			fmt.Fprintln(out, "  "+report.EncoderCommand)
		}
		return
	}

	if report.SubtitlesWritten {
		fmt.Fprintf(out, "Subtitles file '%s' generated.\n", report.Paths.Subtitles)
	}
	if report.VideoWritten {
		fmt.Fprintf(out, "Video '%s' of duration %s generated in %s.\n",
			report.Paths.Video,
			srt.FormatTimestamp(int(report.Video.Duration)),
			srt.FormatTimestamp(int(report.Video.Elapsed.Seconds())),
		)
	}

	rows := planRows(opts, report)
	if report.SubtitlesWritten {
		rows = append(rows, []string{"Cues", strconv.Itoa(report.Cues)})
	}
	if report.VideoWritten {
		rows = append(rows,
			[]string{"Frames written", humanize.Comma(int64(report.Video.Frames))},
			[]string{"Video size", humanize.Bytes(uint64(max(report.VideoBytes, 0)))},
			[]string{"Elapsed", report.Video.Elapsed.Round(time.Millisecond).String()},
		)
	}
	fmt.Fprintln(out, renderTable([]string{"Item", "Value"}, rows, nil))
}

func planRows(opts workflow.Options, report workflow.Report) [][]string {
	rows := [][]string{
		{"Audio", opts.AudioPath},
		{"Duration", srt.FormatTimestamp(int(report.Duration))},
		{"Interval", fmt.Sprintf("%ds", opts.IntervalSeconds)},
		{"Subtitles", report.Paths.Subtitles},
	}
	if report.QR.Version > 0 {
		rows = append(rows,
			[]string{"Video", report.Paths.Video},
			[]string{"Buckets", humanize.Comma(int64(report.Plan.Buckets))},
			[]string{"Frames", fmt.Sprintf("%s (%d per bucket)", humanize.Comma(int64(report.Plan.TotalFrames)), report.Plan.FramesPerBucket)},
			[]string{"QR", fmt.Sprintf("version %d, level %s, %d bytes max", report.QR.Version, report.QR.Level, report.Capacity)},
		)
	}
	return rows
}
