package main

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/schollz/progressbar/v3"

	"timeqr/internal/assembler"
	"timeqr/internal/logging"
)

const progressPhase = "encode"

// newProgressObserver draws a bar on terminals and logs sampled progress
// everywhere else.
func newProgressObserver(out io.Writer, logger *slog.Logger) assembler.Observer {
	if shouldColorize(out) {
		return &barObserver{out: out}
	}
	return &logObserver{logger: logger, sampler: logging.NewProgressSampler(5)}
}

type barObserver struct {
	out io.Writer
	bar *progressbar.ProgressBar
}

func (o *barObserver) Start(total int) {
	o.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(o.out),
		progressbar.OptionSetDescription("Creating video..."),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetElapsedTime(true),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionOnCompletion(func() { fmt.Fprintln(o.out) }),
	)
}

func (o *barObserver) BucketDone(done, _ int, _ time.Duration) {
	if o.bar != nil {
		_ = o.bar.Set(done)
	}
}

func (o *barObserver) Finish(time.Duration) {
	if o.bar != nil {
		_ = o.bar.Finish()
	}
}

type logObserver struct {
	logger  *slog.Logger
	sampler *logging.ProgressSampler
}

func (o *logObserver) Start(total int) {
	o.sampler.Reset()
	o.logger.Info("creating video", logging.Int("buckets", total))
}

func (o *logObserver) BucketDone(done, total int, elapsed time.Duration) {
	if total <= 0 {
		return
	}
	percent := float64(done) * 100 / float64(total)
	if !o.sampler.ShouldLog(percent, progressPhase) {
		return
	}
	o.logger.Info("video progress",
		logging.Int("done", done),
		logging.Int("total", total),
		logging.Float64("percent", percent),
		logging.Duration("elapsed", elapsed),
	)
}

func (o *logObserver) Finish(elapsed time.Duration) {
	o.logger.Info("frames complete", logging.Duration("elapsed", elapsed))
}
