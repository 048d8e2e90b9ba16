package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"timeqr/internal/config"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("TIMEQR_FFMPEG", "")
	t.Setenv("TIMEQR_FFPROBE", "")
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	want := filepath.Join(tempHome, ".config", "timeqr", "config.toml")
	if resolved != want {
		t.Fatalf("resolved path = %q, want %q", resolved, want)
	}

	def := config.Default()
	if cfg.QR != def.QR {
		t.Fatalf("qr = %+v, want %+v", cfg.QR, def.QR)
	}
	if cfg.QR.Version != 1 || cfg.QR.Level != "L" || cfg.QR.BoxSize != 10 || cfg.QR.Border != 4 {
		t.Fatalf("unexpected qr defaults: %+v", cfg.QR)
	}
	if cfg.Video.FPS != 30 || cfg.Video.IntervalSeconds != 1 {
		t.Fatalf("unexpected video defaults: %+v", cfg.Video)
	}
	if cfg.Video.Extension != ".mp4" || cfg.Output.SubtitleExtension != ".srt" {
		t.Fatalf("unexpected extensions: %q %q", cfg.Video.Extension, cfg.Output.SubtitleExtension)
	}
	if cfg.Tools.FFmpeg != "ffmpeg" || cfg.Tools.FFprobe != "ffprobe" {
		t.Fatalf("unexpected tools: %+v", cfg.Tools)
	}
	if !cfg.Output.Lock {
		t.Fatal("expected output lock enabled by default")
	}
	if cfg.Validation.RequireScheme {
		t.Fatal("expected lenient scheme check by default")
	}
	if cfg.Validation.ForbiddenCharacters != "_" {
		t.Fatalf("forbidden = %q", cfg.Validation.ForbiddenCharacters)
	}
}

func TestLoadProjectFileFallback(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	project := t.TempDir()
	t.Chdir(project)
	if err := os.WriteFile("timeqr.toml", []byte("[video]\nfps = 25\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected project config to be found")
	}
	if filepath.Base(resolved) != "timeqr.toml" {
		t.Fatalf("resolved = %q", resolved)
	}
	if cfg.Video.FPS != 25 {
		t.Fatalf("fps = %d, want 25", cfg.Video.FPS)
	}
}

func TestLoadCustomPathNormalizes(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("TIMEQR_FFMPEG", "")
	t.Setenv("TIMEQR_FFPROBE", "")
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.toml")

	payload := map[string]any{
		"qr":      map[string]any{"level": "m", "version": 0},
		"video":   map[string]any{"extension": "MKV"},
		"output":  map[string]any{"subtitle_extension": "srt", "dir": filepath.Join(dir, "out")},
		"logging": map[string]any{"format": " JSON ", "level": "Debug"},
	}
	data, err := toml.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("resolved = %q exists=%v", resolved, exists)
	}
	if cfg.QR.Level != "M" || cfg.QR.Version != 0 {
		t.Fatalf("qr = %+v", cfg.QR)
	}
	if cfg.Video.Extension != ".mkv" {
		t.Fatalf("video extension = %q", cfg.Video.Extension)
	}
	if cfg.Output.SubtitleExtension != ".srt" {
		t.Fatalf("subtitle extension = %q", cfg.Output.SubtitleExtension)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("logging = %+v", cfg.Logging)
	}
}

func TestLoadEnvironmentOverridesTools(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())
	t.Setenv("TIMEQR_FFMPEG", "/opt/ffmpeg/bin/ffmpeg")
	t.Setenv("TIMEQR_FFPROBE", "/opt/ffmpeg/bin/ffprobe")

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Tools.FFmpeg != "/opt/ffmpeg/bin/ffmpeg" || cfg.Tools.FFprobe != "/opt/ffmpeg/bin/ffprobe" {
		t.Fatalf("tools = %+v", cfg.Tools)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("[video]\nframes_per_second = 30\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected unknown key to be rejected")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"version", func(c *config.Config) { c.QR.Version = 41 }, "qr.version"},
		{"level", func(c *config.Config) { c.QR.Level = "X" }, "qr.level"},
		{"box size", func(c *config.Config) { c.QR.BoxSize = 0 }, "qr.box_size"},
		{"border", func(c *config.Config) { c.QR.Border = -1 }, "qr.border"},
		{"fps", func(c *config.Config) { c.Video.FPS = 0 }, "video.fps"},
		{"interval", func(c *config.Config) { c.Video.IntervalSeconds = 0 }, "video.interval_seconds"},
		{"codec", func(c *config.Config) { c.Video.Codec = "" }, "video.codec"},
		{"queue", func(c *config.Config) { c.Video.ThreadQueueSize = 0 }, "video.thread_queue_size"},
		{"extension clash", func(c *config.Config) { c.Output.SubtitleExtension = ".mp4" }, "subtitle_extension"},
		{"log format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"log level", func(c *config.Config) { c.Logging.Level = "trace" }, "logging.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Validate() = %v, want error mentioning %q", err, tt.want)
			}
		})
	}
}

func TestCreateSampleLoadsCleanly(t *testing.T) {
	t.Setenv("TIMEQR_FFMPEG", "")
	t.Setenv("TIMEQR_FFPROBE", "")
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load sample: %v", err)
	}
	if !exists {
		t.Fatal("expected sample to exist")
	}
	def := config.Default()
	if cfg.QR != def.QR || cfg.Video != def.Video || cfg.Validation != def.Validation {
		t.Fatalf("sample config diverges from defaults: %+v", cfg)
	}
	text, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(text), `"baseline"`) {
		t.Fatal("sample should document the baseline profile")
	}
}

func TestEncodeRoundTrips(t *testing.T) {
	cfg := config.Default()
	text, err := cfg.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !strings.Contains(text, "[qr]") || !strings.Contains(text, "interval_seconds = 1") {
		t.Fatalf("unexpected encoding:\n%s", text)
	}
}

func TestExpandPathHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	got, err := config.ExpandPath("~/videos/out.mp4")
	if err != nil {
		t.Fatalf("ExpandPath: %v", err)
	}
	if got != filepath.Join(home, "videos", "out.mp4") {
		t.Fatalf("ExpandPath = %q", got)
	}
}
