package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"timeqr/internal/assembler"
	"timeqr/internal/encoder"
	"timeqr/internal/fileutil"
	"timeqr/internal/logging"
	"timeqr/internal/qrframe"
	"timeqr/internal/srt"
	"timeqr/internal/urltemplate"
)

// Options describes one generate request.
type Options struct {
	AudioPath       string
	Template        string
	OutputPath      string
	IntervalSeconds int
	FPS             int
	GenerateVideo   bool
	SubtitlesOnly   bool
	DryRun          bool
	// Lock holds "<video>.lock" for the run.
	Lock   bool
	Policy urltemplate.Policy
	// QR.Version 0 selects the smallest version fitting the longest URL.
	QR     qrframe.Options
	Layout Layout
}

// Dependencies are the collaborators Run drives.
type Dependencies struct {
	Prober   assembler.Prober
	Encoder  encoder.Encoder
	Observer assembler.Observer
	Logger   *slog.Logger
}

// Report summarizes a run.
type Report struct {
	Paths    Paths
	Duration float64
	QR       qrframe.Options
	Capacity int
	Plan     assembler.Plan

	SubtitlesWritten bool
	Cues             int

	VideoWritten bool
	Video        assembler.Result
	VideoBytes   int64

	DryRun bool
	// EncoderCommand is set on dry runs when the encoder can describe itself.
	EncoderCommand string
	Warnings       []string
}

// ErrNothingToDo reports a request with both outputs disabled.
var ErrNothingToDo = errors.New("neither video nor subtitles requested")

type commandLiner interface {
	CommandLine(spec encoder.Spec) string
}

// ValidateTemplate applies policy to template. Warnings are returned, not logged.
func ValidateTemplate(template string, policy urltemplate.Policy) ([]string, error) {
	result, err := urltemplate.Validate(template, policy)
	if err != nil {
		return nil, fmt.Errorf("invalid url template: %w", err)
	}
	return result.Warnings, nil
}

// Run executes opts. No file is created when template validation fails, when
// the QR layout cannot hold the longest URL, or on a dry run.
func Run(ctx context.Context, opts Options, deps Dependencies) (Report, error) {
	logger := logging.WithContext(ctx, logging.NewComponentLogger(deps.Logger, "workflow"))
	report := Report{DryRun: opts.DryRun}

	warnings, err := ValidateTemplate(opts.Template, opts.Policy)
	if err != nil {
		return report, err
	}
	for _, warning := range warnings {
		logger.Warn(warning)
	}
	report.Warnings = warnings

	if opts.IntervalSeconds <= 0 {
		return report, fmt.Errorf("interval must be positive (got %d)", opts.IntervalSeconds)
	}
	fps := opts.FPS
	if fps <= 0 {
		fps = assembler.DefaultFPS
	}
	wantSubtitles := opts.SubtitlesOnly || opts.GenerateVideo
	wantVideo := opts.GenerateVideo && !opts.SubtitlesOnly
	if !wantSubtitles {
		return report, ErrNothingToDo
	}
	report.Paths = DerivePaths(opts.AudioPath, opts.OutputPath, opts.Layout)

	if deps.Prober == nil {
		return report, errors.New("workflow: prober is required")
	}
	duration, err := deps.Prober.DurationSeconds(ctx, opts.AudioPath)
	if err != nil {
		return report, fmt.Errorf("probe duration: %w", err)
	}
	report.Duration = duration
	report.Plan = assembler.NewPlan(duration, opts.IntervalSeconds, fps)
	logger.Info("media probed",
		logging.String("audio", opts.AudioPath),
		logging.Float64("duration_seconds", duration),
		logging.Int("buckets", report.Plan.Buckets),
	)

	var generator *qrframe.Generator
	if wantVideo {
		if deps.Encoder == nil {
			return report, errors.New("workflow: encoder is required for video")
		}
		generator, err = prepareGenerator(opts, report.Plan)
		if err != nil {
			return report, err
		}
		report.QR = generator.Options()
		report.Capacity = generator.Capacity()
	}

	if opts.DryRun {
		if wantVideo {
			if liner, ok := deps.Encoder.(commandLiner); ok {
				size := generator.Size()
				report.EncoderCommand = liner.CommandLine(encoder.Spec{
					Frames: encoder.FrameFormat{
						Width:       size,
						Height:      size,
						PixelFormat: qrframe.PixelFormat,
						FPS:         fps,
					},
					AudioPath:  opts.AudioPath,
					OutputPath: report.Paths.Video,
				})
			}
		}
		logger.Info("dry run complete", logging.String("video", report.Paths.Video), logging.String("subtitles", report.Paths.Subtitles))
		return report, nil
	}

	if opts.Lock {
		target := report.Paths.Video
		if !wantVideo {
			target = report.Paths.Subtitles
		}
		lock, err := fileutil.LockOutput(target)
		if err != nil {
			return report, err
		}
		defer func() {
			if err := lock.Release(); err != nil {
				logger.Warn("failed to release output lock", logging.Error(err))
			}
		}()
	}

	if err := fileutil.EnsureParentDir(report.Paths.Subtitles); err != nil {
		return report, err
	}
	cues, err := srt.WriteFile(report.Paths.Subtitles, opts.Template, int(duration), opts.IntervalSeconds)
	if err != nil {
		return report, err
	}
	report.SubtitlesWritten = true
	report.Cues = cues
	logger.Info("subtitles written", logging.String("path", report.Paths.Subtitles), logging.Int("cues", cues))

	if !wantVideo {
		return report, nil
	}
	if report.Plan.Buckets == 0 {
		return report, fmt.Errorf("assemble %s: %w", opts.AudioPath, assembler.ErrEmptyMedia)
	}

	asm := assembler.New(deps.Prober, generator, deps.Encoder, deps.Logger)
	result, err := asm.Assemble(ctx, assembler.Request{
		Template:        opts.Template,
		AudioPath:       opts.AudioPath,
		OutputPath:      report.Paths.Video,
		IntervalSeconds: opts.IntervalSeconds,
		FPS:             fps,
		DurationSeconds: duration,
	}, deps.Observer)
	report.Video = result
	if err != nil {
		return report, err
	}
	report.VideoWritten = true
	report.VideoBytes = fileutil.FileSize(report.Paths.Video)
	return report, nil
}

// prepareGenerator fixes the QR layout for the run and checks that the
// longest bucket URL fits before any output exists.
func prepareGenerator(opts Options, plan assembler.Plan) (*qrframe.Generator, error) {
	lastOffset := 0
	if plan.Buckets > 0 {
		lastOffset = (plan.Buckets - 1) * opts.IntervalSeconds
	}
	longest := urltemplate.BucketURL(opts.Template, lastOffset)

	qrOpts := opts.QR
	if qrOpts.Version == 0 {
		version, err := qrframe.ResolveVersion(longest, qrOpts.Level)
		if err != nil {
			return nil, err
		}
		qrOpts.Version = version
	}
	generator, err := qrframe.New(qrOpts)
	if err != nil {
		return nil, err
	}
	if _, err := generator.Render(longest); err != nil {
		return nil, err
	}
	return generator, nil
}
