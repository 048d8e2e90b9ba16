package assembler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"timeqr/internal/encoder"
	"timeqr/internal/logging"
	"timeqr/internal/qrframe"
	"timeqr/internal/urltemplate"
)

// DefaultFPS is the frame rate used when a request leaves FPS unset.
const DefaultFPS = 30

var (
	// ErrEmptyMedia reports audio with no measurable duration.
	ErrEmptyMedia = errors.New("media duration is zero")
	// ErrFrameSizeMismatch reports a frame whose size differs from the first frame.
	ErrFrameSizeMismatch = errors.New("qr frame size changed mid-run")
)

// Prober reports media durations in seconds.
type Prober interface {
	DurationSeconds(ctx context.Context, path string) (float64, error)
}

// Renderer turns a URL into a frame.
type Renderer interface {
	Render(url string) (qrframe.Frame, error)
}

// Observer receives progress callbacks. Implementations must not block for
// long; they run on the encoding goroutine.
type Observer interface {
	Start(totalBuckets int)
	BucketDone(done, total int, elapsed time.Duration)
	Finish(elapsed time.Duration)
}

// Request describes one video.
type Request struct {
	Template        string
	AudioPath       string
	OutputPath      string
	IntervalSeconds int
	FPS             int
	// DurationSeconds skips probing when positive.
	DurationSeconds float64
}

// Result summarizes a finished video.
type Result struct {
	Duration float64
	Elapsed  time.Duration
	Buckets  int
	Frames   int
	Width    int
	Height   int
}

// Plan is the bucket layout for a duration.
type Plan struct {
	Buckets         int
	FramesPerBucket int
	TotalFrames     int
}

// NewPlan computes ceil(duration/interval) buckets of interval*fps frames each.
func NewPlan(durationSeconds float64, intervalSeconds, fps int) Plan {
	if intervalSeconds <= 0 || fps <= 0 || durationSeconds <= 0 {
		return Plan{}
	}
	buckets := int(math.Ceil(durationSeconds / float64(intervalSeconds)))
	perBucket := intervalSeconds * fps
	return Plan{Buckets: buckets, FramesPerBucket: perBucket, TotalFrames: buckets * perBucket}
}

// Assembler drives frame rendering into an encoder.
type Assembler struct {
	prober   Prober
	renderer Renderer
	encoder  encoder.Encoder
	logger   *slog.Logger
	now      func() time.Time
}

// New wires an Assembler. A nil logger discards output.
func New(prober Prober, renderer Renderer, enc encoder.Encoder, logger *slog.Logger) *Assembler {
	return &Assembler{
		prober:   prober,
		renderer: renderer,
		encoder:  enc,
		logger:   logging.NewComponentLogger(logger, "assembler"),
		now:      time.Now,
	}
}

// Assemble renders and encodes the video described by req. obs may be nil.
// On failure a partially written output file may remain.
func (a *Assembler) Assemble(ctx context.Context, req Request, obs Observer) (Result, error) {
	if req.IntervalSeconds <= 0 {
		return Result{}, fmt.Errorf("assemble: interval must be positive (got %d)", req.IntervalSeconds)
	}
	fps := req.FPS
	if fps <= 0 {
		fps = DefaultFPS
	}
	logger := logging.WithContext(ctx, a.logger)
	started := a.now()

	duration := req.DurationSeconds
	if duration <= 0 {
		var err error
		duration, err = a.prober.DurationSeconds(ctx, req.AudioPath)
		if err != nil {
			return Result{}, fmt.Errorf("probe duration: %w", err)
		}
	}
	plan := NewPlan(duration, req.IntervalSeconds, fps)
	if plan.Buckets == 0 {
		return Result{Duration: duration}, fmt.Errorf("assemble %s: %w", req.AudioPath, ErrEmptyMedia)
	}

	reference, err := a.renderer.Render(urltemplate.BucketURL(req.Template, 0))
	if err != nil {
		return Result{Duration: duration}, fmt.Errorf("render reference frame: %w", err)
	}
	spec := encoder.Spec{
		Frames: encoder.FrameFormat{
			Width:       reference.Width,
			Height:      reference.Height,
			PixelFormat: qrframe.PixelFormat,
			FPS:         fps,
		},
		AudioPath:  req.AudioPath,
		OutputPath: req.OutputPath,
	}
	logger.Info("starting encoder",
		logging.String("output", req.OutputPath),
		logging.Float64("duration_seconds", duration),
		logging.Int("buckets", plan.Buckets),
		logging.Int("frames", plan.TotalFrames),
		logging.Int("width", reference.Width),
		logging.Int("height", reference.Height),
	)
	session, err := a.encoder.Start(ctx, spec)
	if err != nil {
		return Result{Duration: duration}, err
	}

	result := Result{
		Duration: duration,
		Buckets:  plan.Buckets,
		Width:    reference.Width,
		Height:   reference.Height,
	}
	if obs != nil {
		obs.Start(plan.Buckets)
	}
	for bucket := 0; bucket < plan.Buckets; bucket++ {
		if err := ctx.Err(); err != nil {
			_ = session.Abort()
			return result, err
		}
		frame := reference
		if bucket > 0 {
			frame, err = a.renderer.Render(urltemplate.BucketURL(req.Template, bucket*req.IntervalSeconds))
			if err != nil {
				_ = session.Abort()
				return result, fmt.Errorf("render bucket %d: %w", bucket, err)
			}
			if frame.Width != reference.Width || frame.Height != reference.Height {
				_ = session.Abort()
				return result, fmt.Errorf("%w: bucket %d is %dx%d, expected %dx%d", ErrFrameSizeMismatch, bucket, frame.Width, frame.Height, reference.Width, reference.Height)
			}
		}
		for range plan.FramesPerBucket {
			if _, err := session.Write(frame.Pix); err != nil {
				_ = session.Abort()
				return result, err
			}
			result.Frames++
		}
		if obs != nil {
			obs.BucketDone(bucket+1, plan.Buckets, a.now().Sub(started))
		}
		logger.Debug("bucket written", logging.Int("bucket", bucket), logging.Int("frames", result.Frames))
	}
	if err := session.Close(); err != nil {
		return result, err
	}

	result.Elapsed = a.now().Sub(started)
	if obs != nil {
		obs.Finish(result.Elapsed)
	}
	logger.Info("video complete",
		logging.String("output", req.OutputPath),
		logging.Int("frames", result.Frames),
		logging.Duration("elapsed", result.Elapsed),
	)
	return result, nil
}
