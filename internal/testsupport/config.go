package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"timeqr/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a default config rooted in a unique temp directory and
// applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	cfgVal := config.Default()
	builder := &configBuilder{
		t:       t,
		baseDir: t.TempDir(),
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithOutputDir points default outputs at dir.
func WithOutputDir(dir string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Output.Dir = dir
	}
}

// WithLogFile adds a log file sink at path.
func WithLogFile(path string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Logging.File = path
	}
}

// WithStubbedBinaries writes ffmpeg and ffprobe stubs and points the config
// at them. ffprobe reports duration; ffmpeg records its arguments in argsLog
// and writes a placeholder to its output path.
func WithStubbedBinaries(duration, argsLog string) ConfigOption {
	return func(b *configBuilder) {
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		b.cfg.Tools.FFmpeg = filepath.Join(binDir, "ffmpeg")
		b.cfg.Tools.FFprobe = filepath.Join(binDir, "ffprobe")
		WriteExecutable(b.t, b.cfg.Tools.FFmpeg, FFmpegStub(argsLog))
		WriteExecutable(b.t, b.cfg.Tools.FFprobe, FFprobeStub(duration))
	}
}

// WriteConfig encodes cfg as TOML at path.
func WriteConfig(t testing.TB, path string, cfg *config.Config) {
	t.Helper()
	encoded, err := cfg.Encode()
	if err != nil {
		t.Fatalf("encode config: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(encoded), 0o644); err != nil {
		t.Fatalf("write config %s: %v", path, err)
	}
}

// FFmpegStub answers -version, logs its arguments, drains stdin, and writes
// "fake video" to its last argument.
func FFmpegStub(argsLog string) string {
	return fmt.Sprintf(`#!/bin/sh
if [ "$1" = "-version" ]; then
  echo "ffmpeg version 9.9-test Copyright (c) the FFmpeg developers"
  exit 0
fi
echo "$@" > %q
for arg; do last="$arg"; done
cat > /dev/null
printf 'fake video' > "$last"
`, argsLog)
}

// FFprobeStub answers -version and otherwise prints duration.
func FFprobeStub(duration string) string {
	return fmt.Sprintf(`#!/bin/sh
if [ "$1" = "-version" ]; then
  echo "ffprobe version 9.9-test Copyright (c) the FFmpeg developers"
  exit 0
fi
echo %q
`, duration)
}
