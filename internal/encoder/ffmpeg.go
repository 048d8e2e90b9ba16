package encoder

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"
	"sync"
)

var commandContext = exec.CommandContext

const (
	defaultFFmpegBinary    = "ffmpeg"
	defaultVideoCodec      = "libx264"
	defaultVideoProfile    = "main"
	defaultOutputPixFmt    = "yuv420p"
	defaultAudioCodec      = "aac"
	defaultThreadQueueSize = 512
	stderrTailBytes        = 4096
)

// Option configures the ffmpeg encoder.
type Option func(*FFmpeg)

// WithBinary overrides the ffmpeg executable.
func WithBinary(binary string) Option {
	return func(f *FFmpeg) {
		if binary = strings.TrimSpace(binary); binary != "" {
			f.binary = binary
		}
	}
}

// WithVideoCodec overrides the video codec and profile. An empty profile
// omits -profile:v.
func WithVideoCodec(codec, profile string) Option {
	return func(f *FFmpeg) {
		if codec = strings.TrimSpace(codec); codec != "" {
			f.videoCodec = codec
			f.profile = strings.TrimSpace(profile)
		}
	}
}

// WithAudioCodec overrides the audio codec.
func WithAudioCodec(codec string) Option {
	return func(f *FFmpeg) {
		if codec = strings.TrimSpace(codec); codec != "" {
			f.audioCodec = codec
		}
	}
}

// WithThreadQueueSize sets the input packet queue for the audio input.
func WithThreadQueueSize(size int) Option {
	return func(f *FFmpeg) {
		if size > 0 {
			f.threadQueueSize = size
		}
	}
}

// FFmpeg encodes through an ffmpeg child process reading rawvideo on stdin.
type FFmpeg struct {
	binary          string
	videoCodec      string
	profile         string
	audioCodec      string
	threadQueueSize int
}

// NewFFmpeg constructs an encoder using defaults overridden by opts.
func NewFFmpeg(opts ...Option) *FFmpeg {
	f := &FFmpeg{
		binary:          defaultFFmpegBinary,
		videoCodec:      defaultVideoCodec,
		profile:         defaultVideoProfile,
		audioCodec:      defaultAudioCodec,
		threadQueueSize: defaultThreadQueueSize,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Binary returns the ffmpeg executable.
func (f *FFmpeg) Binary() string {
	return f.binary
}

// Args returns the ffmpeg arguments for spec, excluding the binary.
func (f *FFmpeg) Args(spec Spec) []string {
	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-f", "rawvideo",
		"-vcodec", "rawvideo",
		"-s", fmt.Sprintf("%dx%d", spec.Frames.Width, spec.Frames.Height),
		"-pix_fmt", spec.Frames.PixelFormat,
		"-r", strconv.Itoa(spec.Frames.FPS),
		"-i", "-",
		"-thread_queue_size", strconv.Itoa(f.threadQueueSize),
		"-i", spec.AudioPath,
		"-map", "0:v:0",
		"-map", "1:a:0",
	}
	if spec.Frames.Width%2 != 0 || spec.Frames.Height%2 != 0 {
		// yuv420p needs even dimensions; pad with background on the right/bottom.
		args = append(args, "-vf", "pad=ceil(iw/2)*2:ceil(ih/2)*2")
	}
	args = append(args, "-c:v", f.videoCodec, "-pix_fmt", defaultOutputPixFmt)
	if f.profile != "" {
		args = append(args, "-profile:v", f.profile)
	}
	args = append(args, "-c:a", f.audioCodec, spec.OutputPath)
	return args
}

// CommandLine renders the full command for display.
func (f *FFmpeg) CommandLine(spec Spec) string {
	parts := append([]string{f.binary}, f.Args(spec)...)
	for i, part := range parts {
		if part == "" || strings.ContainsAny(part, " \t\"'") {
			parts[i] = strconv.Quote(part)
		}
	}
	return strings.Join(parts, " ")
}

// Start launches ffmpeg for spec. The process is killed if ctx is cancelled.
func (f *FFmpeg) Start(ctx context.Context, spec Spec) (Session, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	cmd := commandContext(ctx, f.binary, f.Args(spec)...) //nolint:gosec
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg stdin pipe: %w", err)
	}
	tail := newTailBuffer(stderrTailBytes)
	cmd.Stderr = tail
	if err := cmd.Start(); err != nil {
		_ = stdin.Close()
		return nil, fmt.Errorf("start ffmpeg: %w", err)
	}
	return &ffmpegSession{cmd: cmd, stdin: stdin, stderr: tail, frameSize: spec.Frames.FrameSize()}, nil
}

type ffmpegSession struct {
	cmd       *exec.Cmd
	stdin     io.WriteCloser
	stderr    *tailBuffer
	frameSize int

	once    sync.Once
	waitErr error
}

func (s *ffmpegSession) Write(p []byte) (int, error) {
	if len(p)%s.frameSize != 0 {
		return 0, fmt.Errorf("%w: %d bytes, frame is %d", ErrPartialFrame, len(p), s.frameSize)
	}
	n, err := s.stdin.Write(p)
	if err != nil {
		waitErr := s.finish()
		if waitErr != nil {
			return n, fmt.Errorf("write frames: %w", waitErr)
		}
		return n, fmt.Errorf("write frames: ffmpeg stopped reading: %w", err)
	}
	return n, nil
}

func (s *ffmpegSession) Close() error {
	return s.finish()
}

func (s *ffmpegSession) Abort() error {
	if s.cmd.Process != nil {
		_ = s.cmd.Process.Kill()
	}
	_ = s.finish()
	return nil
}

// finish closes stdin and reaps the process exactly once.
func (s *ffmpegSession) finish() error {
	s.once.Do(func() {
		_ = s.stdin.Close()
		if err := s.cmd.Wait(); err != nil {
			s.waitErr = fmt.Errorf("ffmpeg encode: %w: %s", err, s.stderr.String())
		}
	})
	return s.waitErr
}

// tailBuffer keeps the last limit bytes written to it.
type tailBuffer struct {
	mu    sync.Mutex
	limit int
	buf   []byte
}

func newTailBuffer(limit int) *tailBuffer {
	return &tailBuffer{limit: limit}
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buf = append(t.buf, p...)
	if over := len(t.buf) - t.limit; over > 0 {
		t.buf = append(t.buf[:0], t.buf[over:]...)
	}
	return len(p), nil
}

func (t *tailBuffer) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return strings.TrimSpace(string(t.buf))
}

var _ Encoder = (*FFmpeg)(nil)
