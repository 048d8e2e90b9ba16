package encoder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// FrameFormat declares the raw frames written to a session.
type FrameFormat struct {
	Width       int
	Height      int
	PixelFormat string
	FPS         int
}

// FrameSize returns the byte length of one frame. It is zero for pixel
// formats the encoder does not accept.
func (f FrameFormat) FrameSize() int {
	return f.Width * f.Height * bytesPerPixel(f.PixelFormat)
}

// Spec describes one encode.
type Spec struct {
	Frames     FrameFormat
	AudioPath  string
	OutputPath string
}

// Validate reports missing or out-of-range fields.
func (s Spec) Validate() error {
	var problems []string
	if s.Frames.Width <= 0 || s.Frames.Height <= 0 {
		problems = append(problems, fmt.Sprintf("frame size %dx%d", s.Frames.Width, s.Frames.Height))
	}
	if s.Frames.FPS <= 0 {
		problems = append(problems, fmt.Sprintf("frame rate %d", s.Frames.FPS))
	}
	if bytesPerPixel(s.Frames.PixelFormat) == 0 {
		problems = append(problems, fmt.Sprintf("pixel format %q", s.Frames.PixelFormat))
	}
	if strings.TrimSpace(s.AudioPath) == "" {
		problems = append(problems, "audio path")
	}
	if strings.TrimSpace(s.OutputPath) == "" {
		problems = append(problems, "output path")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidSpec, strings.Join(problems, ", "))
	}
	return nil
}

var (
	// ErrInvalidSpec reports an unusable encode spec.
	ErrInvalidSpec = errors.New("invalid encoder spec")
	// ErrPartialFrame reports a write that is not a whole number of frames.
	ErrPartialFrame = errors.New("write is not a whole number of frames")
)

// Session receives raw frames for a running encode. Writes must be whole
// frames in presentation order; anything else fails with ErrPartialFrame. Close ends the frame stream and waits for the
// encoder to finish; Abort stops it without finalizing the output.
type Session interface {
	io.Writer
	Close() error
	Abort() error
}

// Encoder starts encode sessions.
type Encoder interface {
	Start(ctx context.Context, spec Spec) (Session, error)
}

// bytesPerPixel covers the packed 24-bit formats the QR frames use.
func bytesPerPixel(pixelFormat string) int {
	switch strings.ToLower(strings.TrimSpace(pixelFormat)) {
	case "rgb24", "bgr24":
		return 3
	default:
		return 0
	}
}
