package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"timeqr/internal/config"
	"timeqr/internal/encoder"
	"timeqr/internal/logging"
	"timeqr/internal/media/ffprobe"
	"timeqr/internal/preflight"
	"timeqr/internal/qrframe"
	"timeqr/internal/urltemplate"
	"timeqr/internal/workflow"
)

type generateFlags struct {
	output        string
	interval      int
	generateVideo bool
	subtitlesOnly bool
	strictScheme  bool
	qrVersion     string
	qrLevel       string
	fps           int
	dryRun        bool
	noLock        bool
}

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	var flags generateFlags

	cmd := &cobra.Command{
		Use:   "generate <audio-file> <url-template>",
		Short: "Render a QR video and SRT subtitles for an audio file",
		Long: `Render a video whose frames show a QR code for "<url-template>?t=<seconds>",
changing once per interval, muxed with the audio file. An SRT file carrying
the same URLs is written next to the video.

Reserve a short URL first, render against it, upload the video, then point
the short URL at the uploaded video.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			opts, err := buildGenerateOptions(cmd, cfg, flags, args[0], args[1])
			if err != nil {
				return err
			}
			// A rejected template must not leave a log file behind.
			if _, err := workflow.ValidateTemplate(opts.Template, opts.Policy); err != nil {
				return err
			}

			logger, err := ctx.logger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			runCtx := logging.WithRunID(cmd.Context(), logging.NewRunID())

			paths := workflow.DerivePaths(opts.AudioPath, opts.OutputPath, opts.Layout)
			if err := preflight.Err(preflight.ForGenerate(opts.AudioPath, paths.Video, paths.Subtitles)); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			ffmpeg := encoder.NewFFmpeg(
				encoder.WithBinary(cfg.Tools.FFmpeg),
				encoder.WithVideoCodec(cfg.Video.Codec, cfg.Video.Profile),
				encoder.WithAudioCodec(cfg.Video.AudioCodec),
				encoder.WithThreadQueueSize(cfg.Video.ThreadQueueSize),
			)
			report, err := workflow.Run(runCtx, opts, workflow.Dependencies{
				Prober:   ffprobe.New(cfg.Tools.FFprobe),
				Encoder:  ffmpeg,
				Observer: newProgressObserver(out, logging.WithContext(runCtx, logger)),
				Logger:   logger,
			})
			for _, warning := range report.Warnings {
				fmt.Fprintln(out, renderStatusLine("Template", statusWarn, warning, colorize))
			}
			if err != nil {
				return err
			}
			printGenerateReport(out, opts, report)
			return nil
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output video path (default: <audio name><video extension>)")
	cmd.Flags().IntVarP(&flags.interval, "duration", "d", 1, "Seconds each QR code is displayed")
	cmd.Flags().BoolVar(&flags.generateVideo, "generate-video", true, "Generate the video file")
	cmd.Flags().BoolVar(&flags.subtitlesOnly, "subtitles-only", false, "Generate only the subtitle file")
	cmd.Flags().BoolVar(&flags.strictScheme, "strict-scheme", false, "Fail when the template lacks http:// or https://")
	cmd.Flags().StringVar(&flags.qrVersion, "qr-version", "", "QR version 1-40, or auto (default from config)")
	cmd.Flags().StringVar(&flags.qrLevel, "qr-level", "", "QR error correction level L, M, Q or H (default from config)")
	cmd.Flags().IntVar(&flags.fps, "fps", 0, "Video frame rate (default from config)")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Print the plan and encoder command without writing files")
	cmd.Flags().BoolVar(&flags.noLock, "no-lock", false, "Skip the advisory output lock")
	return cmd
}

// buildGenerateOptions layers changed flags over configuration values.
func buildGenerateOptions(cmd *cobra.Command, cfg *config.Config, flags generateFlags, audio, template string) (workflow.Options, error) {
	changed := cmd.Flags().Changed

	opts := workflow.Options{
		AudioPath:       strings.TrimSpace(audio),
		Template:        template,
		OutputPath:      strings.TrimSpace(flags.output),
		IntervalSeconds: cfg.Video.IntervalSeconds,
		FPS:             cfg.Video.FPS,
		GenerateVideo:   flags.generateVideo,
		SubtitlesOnly:   flags.subtitlesOnly,
		DryRun:          flags.dryRun,
		Lock:            cfg.Output.Lock && !flags.noLock,
		Policy: urltemplate.Policy{
			Forbidden:     cfg.Validation.ForbiddenCharacters,
			RequireScheme: cfg.Validation.RequireScheme,
		},
		QR: qrframe.Options{
			Version: cfg.QR.Version,
			Level:   cfg.QR.Level,
			BoxSize: cfg.QR.BoxSize,
			Border:  cfg.QR.Border,
		},
		Layout: workflow.Layout{
			Dir:               cfg.Output.Dir,
			VideoExtension:    cfg.Video.Extension,
			SubtitleExtension: cfg.Output.SubtitleExtension,
		},
	}
	if opts.OutputPath != "" {
		expanded, err := config.ExpandPath(opts.OutputPath)
		if err != nil {
			return opts, fmt.Errorf("resolve output path: %w", err)
		}
		opts.OutputPath = expanded
	}

	if changed("duration") {
		if flags.interval <= 0 {
			return opts, fmt.Errorf("--duration must be positive (got %d)", flags.interval)
		}
		opts.IntervalSeconds = flags.interval
	}
	if changed("fps") {
		if flags.fps <= 0 {
			return opts, fmt.Errorf("--fps must be positive (got %d)", flags.fps)
		}
		opts.FPS = flags.fps
	}
	if changed("strict-scheme") {
		opts.Policy.RequireScheme = flags.strictScheme
	}
	if changed("qr-version") {
		version, err := parseQRVersion(flags.qrVersion)
		if err != nil {
			return opts, err
		}
		opts.QR.Version = version
	}
	if changed("qr-level") {
		level := strings.ToUpper(strings.TrimSpace(flags.qrLevel))
		switch level {
		case "L", "M", "Q", "H":
			opts.QR.Level = level
		default:
			return opts, fmt.Errorf("--qr-level must be L, M, Q or H (got %q)", flags.qrLevel)
		}
	}
	return opts, nil
}

func parseQRVersion(value string) (int, error) {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	if trimmed == "auto" || trimmed == "0" {
		return 0, nil
	}
	version, err := strconv.Atoi(trimmed)
	if err != nil || version < 1 || version > 40 {
		return 0, fmt.Errorf("--qr-version must be auto or 1-40 (got %q)", value)
	}
	return version, nil
}
