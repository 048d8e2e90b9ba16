package ffprobe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
)

// DefaultBinary is used when no binary is configured.
const DefaultBinary = "ffprobe"

var commandContext = exec.CommandContext

// ErrNoDuration reports ffprobe output that is not a usable duration.
var ErrNoDuration = errors.New("ffprobe returned no usable duration")

// Prober runs ffprobe to query media durations.
type Prober struct {
	binary string
}

// New returns a Prober for binary, falling back to DefaultBinary.
func New(binary string) *Prober {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = DefaultBinary
	}
	return &Prober{binary: binary}
}

// Binary returns the executable the prober invokes.
func (p *Prober) Binary() string {
	return p.binary
}

// DurationSeconds returns the container duration of path in seconds.
func (p *Prober) DurationSeconds(ctx context.Context, path string) (float64, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return 0, errors.New("ffprobe duration: empty path")
	}

	cmd := commandContext(ctx, p.binary,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		"--", path,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe duration: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return parseDuration(string(output))
}

func parseDuration(output string) (float64, error) {
	line := strings.TrimSpace(output)
	if first, _, ok := strings.Cut(line, "\n"); ok {
		line = strings.TrimSpace(first)
	}
	if line == "" || line == "N/A" {
		return 0, fmt.Errorf("%w: %q", ErrNoDuration, line)
	}
	value, err := strconv.ParseFloat(line, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNoDuration, line)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return 0, fmt.Errorf("%w: %q", ErrNoDuration, line)
	}
	return value, nil
}
